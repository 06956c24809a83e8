package commands

import (
	"context"
)

// VerifyOrderIdentityCommandHandler persists the identity-check outcome on
// an order.
type VerifyOrderIdentityCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewVerifyOrderIdentityCommandHandler creates a handler for identity checks.
func NewVerifyOrderIdentityCommandHandler(uowFactory OrderUoWFactory) VerifyOrderIdentityCommandHandler {
	return VerifyOrderIdentityCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle records the verification flags on the order.
func (h VerifyOrderIdentityCommandHandler) Handle(ctx context.Context, command VerifyOrderIdentityCommand) error {
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

	aggregate.VerifyIdentity(command.AgeVerified(), command.IDChecked())

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
