// Package ports defines repository and external-service interfaces for the
// fulfillment core. These interfaces establish contracts between the domain
// layer and infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// Orders are never deleted: cancellation and refund are status transitions,
// and every transition is retained for audit, so the contract deliberately
// has no Delete method.
//
// Update enforces optimistic concurrency on the aggregate's version: a
// losing concurrent writer receives errs.ErrConcurrencyConflict and must
// re-read the order and retry rather than silently overwrite.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate using the
	// version the aggregate was loaded with. Returns
	// errs.ErrConcurrencyConflict when a concurrent writer committed a newer
	// version first, and errs.ErrObjectNotFound when the order does not exist.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with its items and current version.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllPendingReconciliation retrieves the orders whose payment reversal
	// has an unknown outcome awaiting reconciliation. Used by the
	// reconciliation job and the operator queue.
	GetAllPendingReconciliation(ctx context.Context) ([]*order.Order, error)
}
