package commands

import (
	"context"
	"fmt"
	"log/slog"

	"dispensary/internal/core/domain/model/order"
	"dispensary/internal/core/ports"
)

// DefaultMaxReconcileAttempts bounds the automatic reversal retries per
// order before it is left for manual follow-up.
const DefaultMaxReconcileAttempts = 5

// ReconcilePaymentsCommandHandler retries payment reversals whose outcome
// was unknown when the cancellation or refund ran.
//
// Each marked order gets its attempt counter bumped before the retry, so a
// reversal that keeps timing out cannot loop forever: once the counter
// reaches the configured maximum the order stays marked for an operator but
// is no longer retried automatically. Reversals are idempotent by payment
// ID, so re-reversing an already reversed payment is safe.
type ReconcilePaymentsCommandHandler struct {
	uowFactory   OrderUoWFactory
	payment      ports.PaymentService
	notification ports.NotificationChannel
	maxAttempts  int
	logger       *slog.Logger
}

// NewReconcilePaymentsCommandHandler creates a handler for the
// reconciliation sweep. maxAttempts values below one fall back to
// DefaultMaxReconcileAttempts.
func NewReconcilePaymentsCommandHandler(
	uowFactory OrderUoWFactory,
	payment ports.PaymentService,
	notification ports.NotificationChannel,
	maxAttempts int,
	logger *slog.Logger,
) ReconcilePaymentsCommandHandler {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxReconcileAttempts
	}

	return ReconcilePaymentsCommandHandler{
		uowFactory:   uowFactory,
		payment:      payment,
		notification: notification,
		maxAttempts:  maxAttempts,
		logger:       logger.With("component", "reconcile_payments_handler"),
	}
}

// Handle processes one reconciliation sweep. Failures on one order never
// stop the sweep for the rest.
func (h ReconcilePaymentsCommandHandler) Handle(ctx context.Context, command ReconcilePaymentsCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	marked, err := uow.OrderRepository().GetAllPendingReconciliation(ctx)
	if err != nil {
		return err
	}

	for _, aggregate := range marked {
		h.reconcile(ctx, uow, aggregate)
	}

	return uow.Commit(ctx)
}

func (h ReconcilePaymentsCommandHandler) reconcile(ctx context.Context, uow OrderUoW, aggregate *order.Order) {
	if aggregate.ReconcileAttempts() >= h.maxAttempts {
		h.logger.ErrorContext(ctx, "payment reversal exhausted automatic retries, manual follow-up required",
			"order_id", aggregate.ID().String(),
			"payment_id", aggregate.PaymentID(),
			"attempts", aggregate.ReconcileAttempts(),
		)
		return
	}

	attempt := aggregate.IncrementReconcileAttempts()

	if err := h.payment.Reverse(ctx, aggregate.PaymentID()); err != nil {
		h.logger.WarnContext(ctx, "payment reversal retry failed",
			"order_id", aggregate.ID().String(),
			"payment_id", aggregate.PaymentID(),
			"attempt", attempt,
			"error", err,
		)

		// Persist the bumped counter so the retry budget survives restarts.
		if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
			h.logger.ErrorContext(ctx, "failed to persist reconciliation attempt",
				"order_id", aggregate.ID().String(),
				"error", err,
			)
		}
		return
	}

	wasDelivered := aggregate.Status() == order.Delivered

	if err := aggregate.SettleReversal(); err != nil {
		h.logger.ErrorContext(ctx, "failed to settle acknowledged reversal",
			"order_id", aggregate.ID().String(),
			"error", err,
		)
		return
	}

	if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
		h.logger.ErrorContext(ctx, "failed to persist settled reversal",
			"order_id", aggregate.ID().String(),
			"error", err,
		)
		return
	}

	h.logger.InfoContext(ctx, "payment reversal reconciled",
		"order_id", aggregate.ID().String(),
		"payment_id", aggregate.PaymentID(),
		"attempt", attempt,
	)

	if wasDelivered && aggregate.Status() == order.Refunded {
		notifyBestEffort(h.logger, h.notification, aggregate.CustomerID(),
			fmt.Sprintf("Your order %s has been refunded: %s.",
				aggregate.OrderNumber(), aggregate.RefundReason()))
	}
}
