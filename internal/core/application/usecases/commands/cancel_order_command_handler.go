package commands

import (
	"context"
	"fmt"
	"log/slog"

	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/core/domain/model/order"
	"dispensary/internal/core/ports"
)

// CancelOrderCommandHandler cancels an order, returns its paired driver to
// available, and reverses a captured payment.
//
// The reversal runs against an external service, so its outcome can be
// unknown when the call times out. The handler marks the order pending
// reconciliation before attempting the reversal and clears the marker only
// on an acknowledged reversal; a cancelled order with a captured payment is
// therefore never persisted without either a refunded payment or the marker.
// The reconciliation job retries marked orders later.
type CancelOrderCommandHandler struct {
	uowFactory   UoWFactory
	payment      ports.PaymentService
	notification ports.NotificationChannel
	logger       *slog.Logger
}

// NewCancelOrderCommandHandler creates a handler for cancellations.
func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	payment ports.PaymentService,
	notification ports.NotificationChannel,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory:   uowFactory,
		payment:      payment,
		notification: notification,
		logger:       logger.With("component", "cancel_order_handler"),
	}
}

// Handle processes the cancellation command.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) error {
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

	aggregate, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	// A retried cancellation of an already cancelled order succeeds without
	// touching the record again.
	if aggregate.Status() == order.Cancelled {
		return nil
	}

	// Cancel clears the driver reference, so capture it first.
	paired := aggregate.Driver()

	if err = aggregate.Cancel(command.Reason()); err != nil {
		return err
	}

	if paired != nil {
		if err = h.releasePairedDriver(ctx, uow, *paired); err != nil {
			return err
		}
	}

	if aggregate.PaymentStatus() == order.PaymentPaid {
		h.reversePayment(ctx, aggregate)
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notifyBestEffort(h.logger, h.notification, aggregate.CustomerID(),
		fmt.Sprintf("Your order %s has been cancelled: %s.",
			aggregate.OrderNumber(), command.Reason()))

	return nil
}

func (h CancelOrderCommandHandler) releasePairedDriver(ctx context.Context, uow UoW, driverID kernel.UUID) error {
	paired, err := uow.DriverRepository().Get(ctx, driverID)
	if err != nil {
		return err
	}

	if err = paired.Release(); err != nil {
		return err
	}

	return uow.DriverRepository().Update(ctx, paired)
}

// reversePayment attempts the payment reversal during cancellation. The
// pending-reconciliation marker is set before the call and cleared only on
// acknowledgement, so an unknown outcome leaves the order flagged for the
// reconciliation job instead of stranding a captured payment.
func (h CancelOrderCommandHandler) reversePayment(ctx context.Context, aggregate *order.Order) {
	aggregate.MarkPendingReconciliation()

	if h.payment == nil {
		return
	}

	if err := h.payment.Reverse(ctx, aggregate.PaymentID()); err != nil {
		h.logger.WarnContext(ctx, "payment reversal outcome unknown, queued for reconciliation",
			"order_id", aggregate.ID().String(),
			"payment_id", aggregate.PaymentID(),
			"error", err,
		)
		return
	}

	if err := aggregate.SettleReversal(); err != nil {
		h.logger.ErrorContext(ctx, "failed to settle acknowledged reversal",
			"order_id", aggregate.ID().String(),
			"error", err,
		)
	}
}
