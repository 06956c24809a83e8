package ports

import (
	"context"

	"dispensary/internal/core/domain/model/kernel"
)

// VerificationService is the boundary to the external account-verification
// system. It supplies the account-level medical pre-verification flag that
// may substitute for the per-order identity check of medical customers.
//
// The flag never substitutes for the quantity rule, and lookup failures are
// treated as not pre-verified: the order then requires the per-order checks.
type VerificationService interface {
	// MedicalPreverified reports whether the customer holds an account-level
	// medical pre-verification.
	MedicalPreverified(ctx context.Context, customerID kernel.UUID) (bool, error)
}
