package driver

import (
	"fmt"

	"dispensary/internal/pkg/errs"
)

// Status represents a driver's availability.
//
// Available drivers can be paired with ready delivery orders. Busy is set
// exclusively by the dispatch pairing and cleared by release. Offline drivers
// are off shift and never considered for dispatch.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// Available means the driver can be assigned a delivery.
	Available

	// Busy means the driver is out delivering an order.
	Busy

	// Offline means the driver is off shift.
	Offline
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "unknown",
		Available:     "available",
		Busy:          "busy",
		Offline:       "offline",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		Available: "available",
		Busy:      "busy",
		Offline:   "offline",
	}
}

// StatusFromString parses a Status from its wire representation.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("driver status is invalid",
		fmt.Errorf("%q is not a valid driver status", s))
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("driver status is invalid",
			fmt.Errorf("%d is not a valid driver status", s))
	}
	return nil
}

// String returns the wire name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// ValidateCanHaveOrder validates the consistency between driver status and
// order assignment: only busy drivers carry an order reference, and busy
// drivers always do.
func (s Status) ValidateCanHaveOrder(hasOrder bool) error {
	if hasOrder && s != Busy {
		return errs.NewValueIsInvalidErrorWithCause("driver status is invalid",
			fmt.Errorf("%s is not a valid status to have an order", s))
	}

	if !hasOrder && s == Busy {
		return errs.NewValueIsInvalidErrorWithCause("driver status is invalid",
			fmt.Errorf("%s is not a valid status to have no order", s))
	}

	return nil
}
