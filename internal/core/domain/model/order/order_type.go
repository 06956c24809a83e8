package order

import (
	"fmt"

	"dispensary/internal/pkg/errs"
)

// Type represents the fulfillment channel of an order. It determines which
// successor the Ready status has: delivery orders go out with a driver,
// pickup and in-store orders are handed to the customer directly.
type Type int

const (
	// TypeUnknown represents an invalid or undefined order type.
	TypeUnknown Type = iota

	// TypeDelivery orders are driven to the customer's delivery address.
	TypeDelivery

	// TypePickup orders are collected by the customer at the store.
	TypePickup

	// TypeInStore orders are completed at the counter.
	TypeInStore
)

// getTypeStrings returns a map of Type values to their string representations.
func getTypeStrings() map[Type]string {
	return map[Type]string{
		TypeUnknown:  "unknown",
		TypeDelivery: "delivery",
		TypePickup:   "pickup",
		TypeInStore:  "in_store",
	}
}

// getValidTypeStrings returns a map of only valid Type values.
func getValidTypeStrings() map[Type]string {
	//nolint:exhaustive // TypeUnknown is intentionally excluded as it's invalid
	return map[Type]string{
		TypeDelivery: "delivery",
		TypePickup:   "pickup",
		TypeInStore:  "in_store",
	}
}

// TypeFromString parses a Type from its wire representation.
// Returns an error for strings that do not name a valid order type.
func TypeFromString(s string) (Type, error) {
	for t, str := range getValidTypeStrings() {
		if str == s {
			return t, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("order type is invalid",
		fmt.Errorf("%q is not a valid order type", s))
}

// Validate checks if the Type value is valid.
// TypeUnknown (0) and any other undeclared values are invalid.
func (t Type) Validate() error {
	if _, ok := getValidTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("order type is invalid",
			fmt.Errorf("%d is not a valid order type", t))
	}
	return nil
}

// String returns the wire name of the order type.
// Implements the fmt.Stringer interface and is safe to call on any value.
func (t Type) String() string {
	if str, ok := getTypeStrings()[t]; ok {
		return str
	}
	return "unknown"
}
