package ports

import (
	"context"

	"dispensary/internal/core/domain/model/kernel"
)

// NotificationChannel is the boundary to the external customer-messaging
// channel. Delivery is at-most-once best effort: the channel owns its own
// retry policy.
//
// Notification is fire-and-forget relative to the state machine. A Send
// failure is logged by the caller and never rolls back, blocks, or is
// awaited by a status transition.
type NotificationChannel interface {
	// Send hands a message for the customer to the external channel.
	Send(ctx context.Context, customerID kernel.UUID, message string) error
}
