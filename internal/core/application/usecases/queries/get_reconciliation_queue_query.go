package queries

import (
	"errors"
	"time"

	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/pkg/guard"
)

var ErrGetReconciliationQueueQueryIsNotConstructed = errors.New(
	"GetReconciliationQueueQuery must be created via NewGetReconciliationQueueQuery constructor",
)

// GetReconciliationQueueQuery lists orders whose payment reversal outcome
// is still unknown, for the operator dashboard.
type GetReconciliationQueueQuery struct {
	guard guard.ConstructorGuard
}

// NewGetReconciliationQueueQuery creates a reconciliation queue query.
func NewGetReconciliationQueueQuery() GetReconciliationQueueQuery {
	return GetReconciliationQueueQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetReconciliationQueueQuery) Validate() error {
	return q.guard.Validate(ErrGetReconciliationQueueQueryIsNotConstructed)
}

// ReconciliationEntryReadModel is one order awaiting payment reversal
// confirmation. Attempts counts the automatic retries already spent.
type ReconciliationEntryReadModel struct {
	OrderID     kernel.UUID
	OrderNumber string
	Status      string
	TotalAmount float64
	Attempts    int
	UpdatedAt   time.Time
}
