// Package notification implements the customer-messaging boundary by
// relaying messages onto a Redis list consumed by the external messaging
// worker.
package notification

import (
	"context"
	"encoding/json"
	"time"

	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueKey is the Redis list the messaging worker consumes.
const DefaultQueueKey = "notifications:outbound"

// RedisRelay pushes customer messages onto a Redis list. Delivery to the
// customer is owned by the worker draining the list; a successful push is
// all the core needs.
type RedisRelay struct {
	client   *redis.Client
	queueKey string
}

// NewRedisRelay creates a relay publishing to queueKey, or DefaultQueueKey
// when empty.
func NewRedisRelay(client *redis.Client, queueKey string) (*RedisRelay, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	if queueKey == "" {
		queueKey = DefaultQueueKey
	}

	return &RedisRelay{
		client:   client,
		queueKey: queueKey,
	}, nil
}

type envelope struct {
	CustomerID string    `json:"customer_id"`
	Message    string    `json:"message"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Send enqueues the message for the customer.
func (r *RedisRelay) Send(ctx context.Context, customerID kernel.UUID, message string) error {
	if message == "" {
		return errs.NewValueIsRequiredError("message")
	}

	payload, err := json.Marshal(envelope{
		CustomerID: customerID.String(),
		Message:    message,
		EnqueuedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return r.client.LPush(ctx, r.queueKey, payload).Err()
}
