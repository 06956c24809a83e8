package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetOrderMetricsQueryHandler computes dashboard counters straight in SQL.
// Every counter derives from the orders table on demand; nothing is cached
// or pre-aggregated.
type GetOrderMetricsQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderMetricsQueryHandler creates a handler for metrics queries.
func NewGetOrderMetricsQueryHandler(db *gorm.DB) GetOrderMetricsQueryHandler {
	return GetOrderMetricsQueryHandler{db: db}
}

// Handle executes the metrics query.
func (h GetOrderMetricsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderMetricsQuery,
) (GetOrderMetricsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderMetricsQueryResponse{}, err
	}

	response := GetOrderMetricsQueryResponse{
		StatusCounts: make(map[string]int64),
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT status, COUNT(*)
		FROM orders
		GROUP BY status
	`).Rows()
	if err != nil {
		return GetOrderMetricsQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err = rows.Scan(&status, &count); err != nil {
			return GetOrderMetricsQueryResponse{}, err
		}
		response.StatusCounts[status] = count
		response.TotalOrders += count
	}
	if err = rows.Err(); err != nil {
		return GetOrderMetricsQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE payment_status = 'paid'
		  AND created_at >= date_trunc('day', now())
	`).Row()
	if err = row.Scan(&response.TodayRevenue); err != nil {
		return GetOrderMetricsQueryResponse{}, err
	}

	row = h.db.WithContext(ctx).Raw(`
		SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (completed_at - created_at))), 0)
		FROM orders
		WHERE status = 'delivered'
		  AND completed_at IS NOT NULL
	`).Row()
	if err = row.Scan(&response.AverageFulfillmentSeconds); err != nil {
		return GetOrderMetricsQueryResponse{}, err
	}

	row = h.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM orders
		WHERE pending_reconciliation
	`).Row()
	if err = row.Scan(&response.PendingReconciliation); err != nil {
		return GetOrderMetricsQueryResponse{}, err
	}

	return response, nil
}
