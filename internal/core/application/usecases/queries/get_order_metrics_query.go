package queries

import (
	"errors"

	"dispensary/internal/pkg/guard"
)

var ErrGetOrderMetricsQueryIsNotConstructed = errors.New(
	"GetOrderMetricsQuery must be created via NewGetOrderMetricsQuery constructor",
)

// GetOrderMetricsQuery computes the operational dashboard counters.
type GetOrderMetricsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetOrderMetricsQuery creates a metrics query.
func NewGetOrderMetricsQuery() GetOrderMetricsQuery {
	return GetOrderMetricsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetOrderMetricsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderMetricsQueryIsNotConstructed)
}

// GetOrderMetricsQueryResponse aggregates fulfillment counters.
//
// TodayRevenue sums the totals of today's orders whose payment was captured
// and not reversed. AverageFulfillmentSeconds is the mean wall time from
// creation to completion over delivered orders, zero when none exist yet.
type GetOrderMetricsQueryResponse struct {
	StatusCounts              map[string]int64
	TotalOrders               int64
	TodayRevenue              float64
	AverageFulfillmentSeconds float64
	PendingReconciliation     int64
}
