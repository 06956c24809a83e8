// Package guard provides the ConstructorGuard defensive programming pattern
// used across the application layer to ensure commands and queries are only
// created through their designated constructor functions.
package guard

import "errors"

// ErrDefaultConstructorGuard is the default error returned by ConstructorGuard.Validate()
// when a nil error is passed as the validation error. This ensures that validation
// always fails with a meaningful message even if no specific error is provided.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard distinguishes objects created through their constructor from
// zero-value instances. Embedding a ConstructorGuard in a struct allows its
// Validate method to detect improper construction.
//
// Example:
//
//	type GetOrdersQuery struct {
//	    guard guard.ConstructorGuard
//	}
//
//	func NewGetOrdersQuery() GetOrdersQuery {
//	    return GetOrdersQuery{guard: guard.NewConstructorGuard()}
//	}
//
//	func (q GetOrdersQuery) Validate() error {
//	    return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a ConstructorGuard that marks an object as
// properly constructed. Call this in the constructor of the guarded object.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate checks whether the guarded object was created through its constructor.
// Returns nil for properly constructed objects. For zero-value objects it returns
// validationError, or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
