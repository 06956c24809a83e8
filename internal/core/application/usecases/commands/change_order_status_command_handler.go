package commands

import (
	"context"
	"fmt"
	"log/slog"

	"dispensary/internal/core/domain/model/order"
	"dispensary/internal/core/domain/services"
	"dispensary/internal/core/ports"
	"dispensary/internal/pkg/errs"
)

// ChangeOrderStatusCommandHandler is the transition engine: it owns the
// commit path of every forward status change.
//
// For each request it loads the order inside a unit of work, treats a
// repeated target as an idempotent no-op, rejects targets that are not graph
// successors of the current status, runs the compliance gate, applies
// the domain transition, releases the paired driver when the order reaches
// delivered, and commits. The customer notification fires only after the
// commit and never influences the outcome.
//
// A concurrent writer losing the optimistic version check receives
// errs.ErrConcurrencyConflict from the repository; the handler propagates it
// untouched so the caller can re-read and retry.
type ChangeOrderStatusCommandHandler struct {
	uowFactory   UoWFactory
	gate         services.ComplianceGate
	verification ports.VerificationService
	notification ports.NotificationChannel
	logger       *slog.Logger
}

// NewChangeOrderStatusCommandHandler creates a handler for status transitions.
// verification supplies the account-level medical pre-verification flag;
// notification is optional and used best-effort after commit.
func NewChangeOrderStatusCommandHandler(
	uowFactory UoWFactory,
	gate services.ComplianceGate,
	verification ports.VerificationService,
	notification ports.NotificationChannel,
	logger *slog.Logger,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory:   uowFactory,
		gate:         gate,
		verification: verification,
		notification: notification,
		logger:       logger.With("component", "change_order_status_handler"),
	}
}

// Handle processes the status transition command.
func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, command ChangeOrderStatusCommand) error {
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

	ordersRepo := uow.OrderRepository()

	aggregate, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	// Retried requests for the current status succeed without committing
	// anything: updated_at must change exactly once per effective transition.
	if aggregate.Status() == command.Target() {
		return nil
	}

	// The edge must exist before compliance is consulted: a request that
	// skips states reports the bad edge, never a compliance reason.
	if aggregate.Status().IsTerminal() {
		return order.ErrOrderAlreadyTerminal
	}
	if !aggregate.Status().CanTransitionTo(command.Target(), aggregate.OrderType()) {
		return errs.NewInvalidTransitionError(
			aggregate.Status().String(), command.Target().String())
	}

	preverified := h.medicalPreverified(ctx, aggregate)
	if err = h.gate.Check(aggregate, command.Target(), preverified); err != nil {
		return err
	}

	changed, err := aggregate.ChangeStatus(command.Target())
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if command.Target() == order.Delivered {
		if err = h.releaseDriver(ctx, uow, aggregate); err != nil {
			return err
		}
	}

	if err = ordersRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notifyBestEffort(h.logger, h.notification, aggregate.CustomerID(),
		fmt.Sprintf("Your order %s is now %s.", aggregate.OrderNumber(), command.Target()))

	return nil
}

// medicalPreverified fetches the account-level verification flag for medical
// customers. Lookup failures close to "not pre-verified": the order then
// needs its per-order identity checks.
func (h ChangeOrderStatusCommandHandler) medicalPreverified(ctx context.Context, aggregate *order.Order) bool {
	if !aggregate.MedicalCustomer() || h.verification == nil {
		return false
	}

	preverified, err := h.verification.MedicalPreverified(ctx, aggregate.CustomerID())
	if err != nil {
		h.logger.WarnContext(ctx, "medical pre-verification lookup failed",
			"customer_id", aggregate.CustomerID().String(),
			"error", err,
		)
		return false
	}

	return preverified
}

// releaseDriver returns the order's paired driver to available within the
// same transaction that commits the order's transition.
func (h ChangeOrderStatusCommandHandler) releaseDriver(ctx context.Context, uow UoW, aggregate *order.Order) error {
	released := aggregate.ReleaseDriver()
	if released == nil {
		return nil
	}

	driversRepo := uow.DriverRepository()

	paired, err := driversRepo.Get(ctx, *released)
	if err != nil {
		return err
	}

	if err = paired.Release(); err != nil {
		return err
	}

	return driversRepo.Update(ctx, paired)
}
