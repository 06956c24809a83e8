// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the fulfillment system. It
// implements business logic that doesn't naturally belong to a single
// aggregate root.
//
// The package includes:
//   - ComplianceGate: A pure predicate evaluator for the regulatory guards
//     applied before a status transition commits
//   - DriverDispatcher: A domain service pairing an available driver with a
//     ready delivery order, and releasing the pairing on completion
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design principles.
package services
