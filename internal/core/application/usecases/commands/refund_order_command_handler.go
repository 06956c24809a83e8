package commands

import (
	"context"
	"fmt"
	"log/slog"

	"dispensary/internal/core/domain/model/order"
	"dispensary/internal/core/ports"
	"dispensary/internal/pkg/errs"
)

// RefundOrderCommandHandler refunds a delivered, paid order.
//
// Eligibility is checked before the external reversal is attempted, so an
// ineligible order never reaches the payment service. An acknowledged
// reversal finalizes the refund in the same transaction. A reversal that
// times out leaves the order delivered with a pending-reconciliation marker
// and the stored reason; the reconciliation job completes the refund once
// the reversal is acknowledged. In that case the handler commits the marker
// and still returns the timeout error so the caller knows the refund has
// not completed yet.
type RefundOrderCommandHandler struct {
	uowFactory   OrderUoWFactory
	payment      ports.PaymentService
	notification ports.NotificationChannel
	logger       *slog.Logger
}

// NewRefundOrderCommandHandler creates a handler for refunds.
func NewRefundOrderCommandHandler(
	uowFactory OrderUoWFactory,
	payment ports.PaymentService,
	notification ports.NotificationChannel,
	logger *slog.Logger,
) RefundOrderCommandHandler {
	return RefundOrderCommandHandler{
		uowFactory:   uowFactory,
		payment:      payment,
		notification: notification,
		logger:       logger.With("component", "refund_order_handler"),
	}
}

// Handle processes the refund command.
func (h RefundOrderCommandHandler) Handle(ctx context.Context, command RefundOrderCommand) error {
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

	if err = refundEligibility(aggregate); err != nil {
		return err
	}

	var reversalErr error
	if h.payment != nil {
		reversalErr = h.payment.Reverse(ctx, aggregate.PaymentID())
	}

	if reversalErr != nil {
		h.logger.WarnContext(ctx, "refund reversal outcome unknown, queued for reconciliation",
			"order_id", aggregate.ID().String(),
			"payment_id", aggregate.PaymentID(),
			"error", reversalErr,
		)

		if err = aggregate.RequestRefundReconciliation(command.Reason()); err != nil {
			return err
		}
	} else {
		if err = aggregate.Refund(command.Reason()); err != nil {
			return err
		}
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if reversalErr != nil {
		return reversalErr
	}

	notifyBestEffort(h.logger, h.notification, aggregate.CustomerID(),
		fmt.Sprintf("Your order %s has been refunded: %s.",
			aggregate.OrderNumber(), command.Reason()))

	return nil
}

// refundEligibility rejects ineligible orders before the external reversal
// runs, so the payment service is never asked to reverse a payment the
// ledger would refuse to refund.
func refundEligibility(aggregate *order.Order) error {
	if aggregate.Status().IsTerminal() {
		return order.ErrOrderAlreadyTerminal
	}
	if aggregate.Status() != order.Delivered {
		return errs.NewInvalidTransitionError(
			aggregate.Status().String(), order.Refunded.String())
	}
	if aggregate.PaymentStatus() != order.PaymentPaid {
		return order.ErrRefundNotEligible
	}
	return nil
}
