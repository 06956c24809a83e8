package commands

import (
	"context"

	"dispensary/internal/core/ports"
)

// NotifyCustomerCommandHandler delivers an operator-written message to an
// order's customer. Unlike the post-commit notifications of the mutation
// handlers this send is the whole operation, so its failure surfaces to the
// caller.
type NotifyCustomerCommandHandler struct {
	uowFactory   OrderUoWFactory
	notification ports.NotificationChannel
}

// NewNotifyCustomerCommandHandler creates a handler for operator messages.
func NewNotifyCustomerCommandHandler(
	uowFactory OrderUoWFactory,
	notification ports.NotificationChannel,
) NotifyCustomerCommandHandler {
	return NotifyCustomerCommandHandler{
		uowFactory:   uowFactory,
		notification: notification,
	}
}

// Handle resolves the order's customer and sends the message.
func (h NotifyCustomerCommandHandler) Handle(ctx context.Context, command NotifyCustomerCommand) error {
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

	return h.notification.Send(ctx, aggregate.CustomerID(), command.Message())
}
