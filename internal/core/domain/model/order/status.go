package order

import (
	"fmt"

	"dispensary/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct fulfillment workflow.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Preparing ──> Ready ──┬──> OutForDelivery ──> Delivered ──> Refunded
//	    │            │             │                │           │               │
//	    │            │             │                └──> Delivered (pickup / in-store)
//	    └────────────┴─────────────┴──> Cancelled <─────────────┘
//
// Cancelled and Refunded are terminal: they have no outgoing transitions.
// The Ready successors depend on the order type: delivery orders move to
// OutForDelivery, pickup and in-store orders move directly to Delivered.
//
// Status is a value object that validates state transitions
// and provides string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when an order is first created by intake.
	Pending

	// Confirmed indicates the order passed the compliance gate and was accepted.
	Confirmed

	// Preparing indicates staff are assembling the order. Identity verification
	// must be complete before an order enters this status.
	Preparing

	// Ready indicates the order is assembled and awaiting handoff:
	// driver assignment for delivery orders, customer pickup otherwise.
	Ready

	// OutForDelivery indicates an assigned driver is delivering the order.
	// Only delivery orders may enter this status.
	OutForDelivery

	// Delivered indicates the order reached the customer. Pickup and in-store
	// orders enter this status directly from Ready.
	Delivered

	// Cancelled is a terminal status reached via the cancellation branch.
	Cancelled

	// Refunded is a terminal status reached from Delivered after a paid
	// order's payment has been reversed.
	Refunded
)

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Confirmed:      "confirmed",
		Preparing:      "preparing",
		Ready:          "ready",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
		Refunded:       "refunded",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:        "pending",
		Confirmed:      "confirmed",
		Preparing:      "preparing",
		Ready:          "ready",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
		Refunded:       "refunded",
	}
}

// StatusFromString parses a Status from its wire representation.
// Returns an error for strings that do not name a valid status.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
//
// Valid statuses are every declared status except Unknown.
// Unknown (0) and any other values are invalid.
//
// Returns:
//   - nil if the status is valid
//   - error with details if the status is invalid
//
// This method is used to ensure Status values from external sources
// (e.g., database, API) are valid before use.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status.
// Implements the fmt.Stringer interface and is safe to call on any
// Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status has no outgoing transitions.
// Cancelled and Refunded are the only terminal statuses.
func (s Status) IsTerminal() bool {
	switch s {
	case Cancelled, Refunded:
		return true
	case Unknown, Pending, Confirmed, Preparing, Ready, OutForDelivery, Delivered:
		return false
	}
	return false
}

// Successors returns the set of statuses directly reachable from s for the
// given order type. Terminal statuses and Unknown return nil.
//
// The switch is exhaustive over all declared statuses so that adding a status
// is a compile-time-checked change at this call site.
func (s Status) Successors(orderType Type) []Status {
	switch s {
	case Pending:
		return []Status{Confirmed, Cancelled}
	case Confirmed:
		return []Status{Preparing, Cancelled}
	case Preparing:
		return []Status{Ready, Cancelled}
	case Ready:
		if orderType == TypeDelivery {
			return []Status{OutForDelivery, Cancelled}
		}
		return []Status{Delivered, Cancelled}
	case OutForDelivery:
		return []Status{Delivered, Cancelled}
	case Delivered:
		return []Status{Refunded}
	case Cancelled, Refunded, Unknown:
		return nil
	}
	return nil
}

// CanTransitionTo reports whether target is a direct successor of s for the
// given order type. Skipping states is never allowed; the only edges are the
// ones returned by Successors.
func (s Status) CanTransitionTo(target Status, orderType Type) bool {
	for _, next := range s.Successors(orderType) {
		if next == target {
			return true
		}
	}
	return false
}

// AtOrBeyondConfirmed reports whether the status lies on the forward
// fulfillment path at Confirmed or later. Cancellation targets are excluded:
// the quantity compliance rule applies to forward progress only.
func (s Status) AtOrBeyondConfirmed() bool {
	switch s {
	case Confirmed, Preparing, Ready, OutForDelivery, Delivered:
		return true
	case Unknown, Pending, Cancelled, Refunded:
		return false
	}
	return false
}

// BeyondConfirmed reports whether the status lies on the forward fulfillment
// path strictly after Confirmed. Identity verification is required before an
// order progresses beyond Confirmed.
func (s Status) BeyondConfirmed() bool {
	switch s {
	case Preparing, Ready, OutForDelivery, Delivered:
		return true
	case Unknown, Pending, Confirmed, Cancelled, Refunded:
		return false
	}
	return false
}
