package commands

import (
	"context"
)

// SetDriverStatusCommandHandler updates a driver's availability. The domain
// rejects flips into or out of busy, which dispatch alone controls.
type SetDriverStatusCommandHandler struct {
	uowFactory DriverUoWFactory
}

// NewSetDriverStatusCommandHandler creates a handler for availability
// changes.
func NewSetDriverStatusCommandHandler(uowFactory DriverUoWFactory) SetDriverStatusCommandHandler {
	return SetDriverStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle applies the availability change.
func (h SetDriverStatusCommandHandler) Handle(ctx context.Context, command SetDriverStatusCommand) error {
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

	aggregate, err := uow.DriverRepository().Get(ctx, command.DriverID())
	if err != nil {
		return err
	}

	if err = aggregate.SetAvailability(command.Status()); err != nil {
		return err
	}

	if err = uow.DriverRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
