package commands

import (
	"context"
	"fmt"
	"log/slog"

	"dispensary/internal/core/domain/model/order"
	"dispensary/internal/core/domain/services"
	"dispensary/internal/core/ports"
)

// AssignDriverCommandHandler performs the dispatch pairing. Both aggregates
// load inside one unit of work; the dispatcher mutates them in memory, the
// compliance gate signs off the out-for-delivery move, and the order and
// driver updates commit as a single transaction. If either optimistic check
// fails, neither side changes.
type AssignDriverCommandHandler struct {
	uowFactory   UoWFactory
	dispatcher   services.DriverDispatcher
	gate         services.ComplianceGate
	verification ports.VerificationService
	notification ports.NotificationChannel
	logger       *slog.Logger
}

// NewAssignDriverCommandHandler creates a handler for dispatch requests.
func NewAssignDriverCommandHandler(
	uowFactory UoWFactory,
	dispatcher services.DriverDispatcher,
	gate services.ComplianceGate,
	verification ports.VerificationService,
	notification ports.NotificationChannel,
	logger *slog.Logger,
) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory:   uowFactory,
		dispatcher:   dispatcher,
		gate:         gate,
		verification: verification,
		notification: notification,
		logger:       logger.With("component", "assign_driver_handler"),
	}
}

// Handle processes the dispatch command.
func (h AssignDriverCommandHandler) Handle(ctx context.Context, command AssignDriverCommand) error {
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

	candidate, err := uow.DriverRepository().Get(ctx, command.DriverID())
	if err != nil {
		return err
	}

	preverified := false
	if aggregate.MedicalCustomer() && h.verification != nil {
		preverified, err = h.verification.MedicalPreverified(ctx, aggregate.CustomerID())
		if err != nil {
			h.logger.WarnContext(ctx, "medical pre-verification lookup failed",
				"customer_id", aggregate.CustomerID().String(),
				"error", err,
			)
			preverified = false
		}
	}

	if err = h.gate.Check(aggregate, order.OutForDelivery, preverified); err != nil {
		return err
	}

	if err = h.dispatcher.Dispatch(aggregate, candidate); err != nil {
		return err
	}

	if _, err = aggregate.ChangeStatus(order.OutForDelivery); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.DriverRepository().Update(ctx, candidate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notifyBestEffort(h.logger, h.notification, aggregate.CustomerID(),
		fmt.Sprintf("Your order %s is out for delivery with %s.",
			aggregate.OrderNumber(), candidate.Name()))

	return nil
}
