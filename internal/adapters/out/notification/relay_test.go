package notification_test

import (
	"encoding/json"
	"testing"

	"dispensary/internal/adapters/out/notification"
	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/pkg/errs"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRelay(t *testing.T, queueKey string) (*notification.RedisRelay, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	relay, err := notification.NewRedisRelay(client, queueKey)
	require.NoError(t, err)
	return relay, server
}

func TestNewRedisRelay(t *testing.T) {
	t.Run("requires a client", func(t *testing.T) {
		_, err := notification.NewRedisRelay(nil, "")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestRedisRelay_Send(t *testing.T) {
	t.Run("pushes a JSON envelope onto the queue", func(t *testing.T) {
		relay, server := newTestRelay(t, "")
		customerID := kernel.NewUUID()

		err := relay.Send(t.Context(), customerID, "Your order ORD-1001 is now confirmed.")
		require.NoError(t, err)

		payload, err := server.Lpop(notification.DefaultQueueKey)
		require.NoError(t, err)

		var envelope struct {
			CustomerID string `json:"customer_id"`
			Message    string `json:"message"`
			EnqueuedAt string `json:"enqueued_at"`
		}
		require.NoError(t, json.Unmarshal([]byte(payload), &envelope))
		assert.Equal(t, customerID.String(), envelope.CustomerID)
		assert.Equal(t, "Your order ORD-1001 is now confirmed.", envelope.Message)
		assert.NotEmpty(t, envelope.EnqueuedAt)
	})

	t.Run("uses the configured queue key", func(t *testing.T) {
		relay, server := newTestRelay(t, "alerts:custom")

		require.NoError(t, relay.Send(t.Context(), kernel.NewUUID(), "hello"))

		assert.True(t, server.Exists("alerts:custom"))
		assert.False(t, server.Exists(notification.DefaultQueueKey))
	})

	t.Run("messages queue in order", func(t *testing.T) {
		relay, server := newTestRelay(t, "")

		require.NoError(t, relay.Send(t.Context(), kernel.NewUUID(), "first"))
		require.NoError(t, relay.Send(t.Context(), kernel.NewUUID(), "second"))

		// LPush prepends, so the consumer pops the oldest from the tail.
		oldest, err := server.RPop(notification.DefaultQueueKey)
		require.NoError(t, err)
		assert.Contains(t, oldest, "first")
	})

	t.Run("rejects an empty message", func(t *testing.T) {
		relay, server := newTestRelay(t, "")

		err := relay.Send(t.Context(), kernel.NewUUID(), "")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.False(t, server.Exists(notification.DefaultQueueKey))
	})
}
