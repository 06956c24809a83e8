package commands

import (
	"context"
	"log/slog"
	"time"

	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/core/ports"
)

// notifyTimeout bounds a single hand-off to the external notification channel.
const notifyTimeout = 5 * time.Second

// notifyBestEffort hands a customer message to the notification channel
// without blocking the caller. Failures are logged and never surface as
// order-mutation errors; the external channel owns any retry policy.
//
// Handlers call this after their unit of work has committed, so a failed or
// slow notification can never roll back a transition.
func notifyBestEffort(
	logger *slog.Logger,
	channel ports.NotificationChannel,
	customerID kernel.UUID,
	message string,
) {
	if channel == nil || message == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := channel.Send(ctx, customerID, message); err != nil {
			logger.Error("customer notification failed",
				"customer_id", customerID.String(),
				"error", err,
			)
		}
	}()
}
