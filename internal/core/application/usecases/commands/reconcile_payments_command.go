package commands

import (
	"errors"

	"dispensary/internal/pkg/guard"
)

var ErrReconcilePaymentsCommandIsNotConstructed = errors.New(
	"ReconcilePaymentsCommand must be created via NewReconcilePaymentsCommand constructor",
)

// ReconcilePaymentsCommand sweeps orders whose payment reversal outcome is
// unknown and retries the reversal. Issued on a schedule by the
// reconciliation job.
type ReconcilePaymentsCommand struct {
	guard guard.ConstructorGuard
}

// NewReconcilePaymentsCommand creates a reconciliation sweep command.
func NewReconcilePaymentsCommand() (ReconcilePaymentsCommand, error) {
	return ReconcilePaymentsCommand{
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReconcilePaymentsCommand) Validate() error {
	return c.guard.Validate(ErrReconcilePaymentsCommandIsNotConstructed)
}
