package services

import (
	"dispensary/internal/core/domain/model/order"
	"dispensary/internal/pkg/errs"
)

// DefaultJurisdictionLimitGrams is the dried-flower-equivalent sale limit
// applied when no per-store limit is configured.
const DefaultJurisdictionLimitGrams = 30.0

// ComplianceGate is a pure domain service that evaluates the regulatory
// guards an order must pass before a status transition commits. It has no
// side effects: given an order and a candidate target status it either
// passes or blocks with a reason code.
//
// The rules are evaluated in order and short-circuit on the first block:
//
//  1. Quantity: for any target at or beyond confirmed, the order's
//     dried-flower equivalent must not exceed the jurisdictional limit.
//     Nothing substitutes for this rule; an order over the limit can only
//     be cancelled, since the equivalent is immutable after creation.
//  2. Identity: for any target beyond confirmed, recreational customers
//     must have both the age verification and the ID check recorded on the
//     order. Medical customers may substitute an account-level
//     pre-verification supplied by the verification service.
//  3. Order type: only delivery orders may go out for delivery.
//
// Example:
//
//	gate := services.NewComplianceGate(cfgLimit)
//	if err := gate.Check(o, order.Confirmed, preverified); err != nil {
//	    var blocked *errs.ComplianceBlockedError
//	    if errors.As(err, &blocked) {
//	        // surface blocked.Reason to the client
//	    }
//	}
type ComplianceGate struct {
	limitGrams float64
}

// NewComplianceGate creates a ComplianceGate enforcing the given
// dried-flower-equivalent limit in grams. Non-positive limits fall back to
// DefaultJurisdictionLimitGrams.
func NewComplianceGate(limitGrams float64) ComplianceGate {
	if limitGrams <= 0 {
		limitGrams = DefaultJurisdictionLimitGrams
	}
	return ComplianceGate{limitGrams: limitGrams}
}

// LimitGrams returns the configured jurisdictional limit.
func (g ComplianceGate) LimitGrams() float64 {
	return g.limitGrams
}

// Check evaluates the compliance rules for moving o to target.
// medicalPreverified is the account-level verification flag supplied by the
// external verification service; it is only consulted for medical customers.
//
// Returns nil on pass, or a ComplianceBlockedError carrying the reason code
// of the first rule that blocked.
func (g ComplianceGate) Check(o *order.Order, target order.Status, medicalPreverified bool) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if target.AtOrBeyondConfirmed() && o.DriedFlowerEquivalent() > g.limitGrams {
		return errs.NewComplianceBlockedError(errs.ReasonQuantityExceeded)
	}

	if target.BeyondConfirmed() && !g.identityVerified(o, medicalPreverified) {
		return errs.NewComplianceBlockedError(errs.ReasonIdentityUnverified)
	}

	if target == order.OutForDelivery && o.OrderType() != order.TypeDelivery {
		return errs.NewComplianceBlockedError(errs.ReasonWrongOrderType)
	}

	return nil
}

// identityVerified reports whether the order satisfies the identity rule.
// The medical substitution applies to the per-order identity check only,
// never to the quantity rule.
func (g ComplianceGate) identityVerified(o *order.Order, medicalPreverified bool) bool {
	if o.AgeVerified() && o.IDChecked() {
		return true
	}
	return o.MedicalCustomer() && medicalPreverified
}
