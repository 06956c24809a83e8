package commands

import (
	"context"
)

// RecordDeliveryProofCommandHandler persists the delivery artifacts on an
// order.
type RecordDeliveryProofCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewRecordDeliveryProofCommandHandler creates a handler for delivery proof.
func NewRecordDeliveryProofCommandHandler(uowFactory OrderUoWFactory) RecordDeliveryProofCommandHandler {
	return RecordDeliveryProofCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle records the proof artifacts on the order.
func (h RecordDeliveryProofCommandHandler) Handle(ctx context.Context, command RecordDeliveryProofCommand) error {
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

	aggregate.RecordDeliveryProof(command.SignatureURL(), command.DeliveryPhotoURL())

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
