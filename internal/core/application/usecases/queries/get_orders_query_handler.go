package queries

import (
	"context"
	"strings"

	"dispensary/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrdersQueryHandler lists order projections from the database.
// Uses direct SQL for read performance; the aggregate is never loaded.
type GetOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersQueryHandler creates a handler for order listing queries.
func NewGetOrdersQueryHandler(db *gorm.DB) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{db: db}
}

// Handle executes the listing query.
//
// Default ordering is newest created first. When a ChangedSince cursor is
// set the ordering switches to updated-at ascending so callers can resume
// polling from the last row they saw.
func (h GetOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersQuery,
) ([]OrderReadModel, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var (
		conditions []string
		args       []any
	)

	if query.Status() != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, query.Status().String())
	}
	if query.OrderType() != nil {
		conditions = append(conditions, "order_type = ?")
		args = append(args, query.OrderType().String())
	}
	if query.Search() != "" {
		conditions = append(conditions, "(order_number ILIKE ? OR customer_id::text ILIKE ?)")
		pattern := "%" + query.Search() + "%"
		args = append(args, pattern, pattern)
	}
	if query.CreatedFrom() != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, *query.CreatedFrom())
	}
	if query.CreatedTo() != nil {
		conditions = append(conditions, "created_at < ?")
		args = append(args, *query.CreatedTo())
	}
	if query.ChangedSince() != nil {
		conditions = append(conditions, "updated_at > ?")
		args = append(args, *query.ChangedSince())
	}

	sql := `
		SELECT
			id,
			order_number,
			customer_id,
			status,
			order_type,
			total_amount,
			dried_flower_equivalent,
			payment_status,
			driver_id,
			pending_reconciliation,
			created_at,
			updated_at,
			completed_at
		FROM orders
	`
	if len(conditions) > 0 {
		sql += " WHERE " + strings.Join(conditions, " AND ")
	}
	if query.ChangedSince() != nil {
		sql += " ORDER BY updated_at, id"
	} else {
		sql += " ORDER BY created_at DESC, id"
	}
	sql += " LIMIT ? OFFSET ?"
	args = append(args, query.Limit(), query.Offset())

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]OrderReadModel, 0)

	for rows.Next() {
		var (
			model      OrderReadModel
			id         uuid.UUID
			customerID uuid.UUID
			driverID   *uuid.UUID
		)

		err = rows.Scan(
			&id,
			&model.OrderNumber,
			&customerID,
			&model.Status,
			&model.OrderType,
			&model.TotalAmount,
			&model.DriedFlowerEquivalent,
			&model.PaymentStatus,
			&driverID,
			&model.PendingReconciliation,
			&model.CreatedAt,
			&model.UpdatedAt,
			&model.CompletedAt,
		)
		if err != nil {
			return nil, err
		}

		model.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		model.CustomerID, err = kernel.UUIDFromBytes(customerID[:])
		if err != nil {
			return nil, err
		}
		if driverID != nil {
			paired, idErr := kernel.UUIDFromBytes((*driverID)[:])
			if idErr != nil {
				return nil, idErr
			}
			model.DriverID = &paired
		}

		orders = append(orders, model)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
