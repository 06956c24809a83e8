package queries

import (
	"context"

	"dispensary/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetReconciliationQueueQueryHandler lists the payment reversals awaiting
// confirmation, oldest first so the longest-stuck orders surface on top.
type GetReconciliationQueueQueryHandler struct {
	db *gorm.DB
}

// NewGetReconciliationQueueQueryHandler creates a handler for the
// reconciliation queue.
func NewGetReconciliationQueueQueryHandler(db *gorm.DB) GetReconciliationQueueQueryHandler {
	return GetReconciliationQueueQueryHandler{db: db}
}

// Handle executes the query.
func (h GetReconciliationQueueQueryHandler) Handle(
	ctx context.Context,
	query GetReconciliationQueueQuery,
) ([]ReconciliationEntryReadModel, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			status,
			total_amount,
			reconcile_attempts,
			updated_at
		FROM orders
		WHERE pending_reconciliation
		ORDER BY updated_at
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]ReconciliationEntryReadModel, 0)

	for rows.Next() {
		var (
			entry ReconciliationEntryReadModel
			id    uuid.UUID
		)

		err = rows.Scan(
			&id,
			&entry.OrderNumber,
			&entry.Status,
			&entry.TotalAmount,
			&entry.Attempts,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		entry.OrderID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
