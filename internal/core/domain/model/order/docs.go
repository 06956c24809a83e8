// Package order provides domain entities and business logic for order
// fulfillment in the dispensary system. It implements the Order aggregate
// root with lifecycle management, regulated quantity tracking, and state
// transitions.
//
// The package includes:
//   - Order: The aggregate root managing order identity, items, payment
//     state, driver pairing, and lifecycle
//   - Item: An immutable line item carrying price, potency, and its
//     dried-flower-equivalent contribution
//   - Status: A state machine that enforces valid order status transitions
//   - Type: The fulfillment channel (delivery, pickup, in-store)
//   - PaymentStatus: The settlement state of the order's payment
//
// Key business rules:
//   - The dried-flower equivalent is computed once at creation and is
//     immutable afterward
//   - Status transitions follow the fulfillment graph; cancelled and
//     refunded are terminal
//   - Delivery orders require an assigned driver to go out for delivery
//   - Cancellation and refund require a non-empty reason; refund requires a
//     captured payment and is only reachable from delivered
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
