// Package queries implements the read side of the fulfillment core. Query
// handlers bypass the aggregates and read projections straight from the
// database with raw SQL, returning flat read models for the HTTP adapter.
package queries

import (
	"errors"
	"time"

	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/core/domain/model/order"
	"dispensary/internal/pkg/errs"
	"dispensary/internal/pkg/guard"
)

var ErrGetOrdersQueryIsNotConstructed = errors.New(
	"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
)

const (
	// DefaultOrdersPageSize applies when the caller does not set a limit.
	DefaultOrdersPageSize = 50
	// MaxOrdersPageSize caps a single page regardless of the requested limit.
	MaxOrdersPageSize = 200
)

// GetOrdersQuery lists orders with optional filters. All filters combine
// with AND; an unset filter matches everything.
//
// ChangedSince is a polling cursor: pass the newest updated-at timestamp
// seen so far and only orders touched after it come back, ordered oldest
// change first so the caller can advance the cursor from the last row.
type GetOrdersQuery struct { //nolint:recvcheck //using for validation
	status       *order.Status
	orderType    *order.Type
	search       string
	createdFrom  *time.Time
	createdTo    *time.Time
	changedSince *time.Time
	limit        int
	offset       int

	guard guard.ConstructorGuard
}

// OrdersFilter carries the optional listing filters for NewGetOrdersQuery.
// The zero value lists the newest orders.
type OrdersFilter struct {
	Status       *order.Status
	OrderType    *order.Type
	Search       string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	ChangedSince *time.Time
	Limit        int
	Offset       int
}

// NewGetOrdersQuery creates a listing query from a filter set.
func NewGetOrdersQuery(filter OrdersFilter) (GetOrdersQuery, error) {
	q := GetOrdersQuery{
		guard:        guard.NewConstructorGuard(),
		search:       filter.Search,
		createdFrom:  filter.CreatedFrom,
		createdTo:    filter.CreatedTo,
		changedSince: filter.ChangedSince,
	}

	if err := errors.Join(
		q.setStatus(filter.Status),
		q.setOrderType(filter.OrderType),
		q.setPage(filter.Limit, filter.Offset),
	); err != nil {
		return GetOrdersQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

// Status returns the status filter, nil when unset.
func (q GetOrdersQuery) Status() *order.Status { return q.status }

// OrderType returns the order-type filter, nil when unset.
func (q GetOrdersQuery) OrderType() *order.Type { return q.orderType }

// Search returns the free-text filter over order number and customer ID.
func (q GetOrdersQuery) Search() string { return q.search }

// CreatedFrom returns the inclusive lower bound on creation time.
func (q GetOrdersQuery) CreatedFrom() *time.Time { return q.createdFrom }

// CreatedTo returns the exclusive upper bound on creation time.
func (q GetOrdersQuery) CreatedTo() *time.Time { return q.createdTo }

// ChangedSince returns the polling cursor, nil when unset.
func (q GetOrdersQuery) ChangedSince() *time.Time { return q.changedSince }

// Limit returns the page size.
func (q GetOrdersQuery) Limit() int { return q.limit }

// Offset returns the page offset.
func (q GetOrdersQuery) Offset() int { return q.offset }

func (q *GetOrdersQuery) setStatus(status *order.Status) error {
	if status != nil {
		if err := status.Validate(); err != nil {
			return err
		}
	}
	q.status = status
	return nil
}

func (q *GetOrdersQuery) setOrderType(orderType *order.Type) error {
	if orderType != nil {
		if err := orderType.Validate(); err != nil {
			return err
		}
	}
	q.orderType = orderType
	return nil
}

func (q *GetOrdersQuery) setPage(limit, offset int) error {
	if limit < 0 || offset < 0 {
		return errs.NewValueIsOutOfRangeError("limit/offset", limit, 0, MaxOrdersPageSize)
	}
	if limit == 0 {
		limit = DefaultOrdersPageSize
	}
	if limit > MaxOrdersPageSize {
		limit = MaxOrdersPageSize
	}
	q.limit = limit
	q.offset = offset
	return nil
}

// OrderReadModel is the flat listing projection of an order.
type OrderReadModel struct {
	ID                    kernel.UUID
	OrderNumber           string
	CustomerID            kernel.UUID
	Status                string
	OrderType             string
	TotalAmount           float64
	DriedFlowerEquivalent float64
	PaymentStatus         string
	DriverID              *kernel.UUID
	PendingReconciliation bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
	CompletedAt           *time.Time
}
