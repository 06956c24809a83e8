package commands_test

import (
	"errors"
	"testing"

	"dispensary/internal/core/application/usecases/commands"
	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/core/domain/model/order"
	"dispensary/internal/core/domain/services"
	"dispensary/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newChangeStatusHandler(factory commands.UoWFactory) commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(
		factory, services.NewComplianceGate(30.0), nil, nil, testLogger())
}

func TestChangeOrderStatusCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	stored := storedOrder(t, orderFixture{status: order.Pending})
	cmd, err := commands.NewChangeOrderStatusCommand(stored.ID(), order.Confirmed, "staff:megan")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newChangeStatusHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, stored.Status())
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_SameStatusIsNoOp(t *testing.T) {
	ctx := t.Context()

	stored := storedOrder(t, orderFixture{status: order.Confirmed})
	cmd, err := commands.NewChangeOrderStatusCommand(stored.ID(), order.Confirmed, "staff:megan")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newChangeStatusHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestChangeOrderStatusCommandHandler_Handle_ComplianceBlocked(t *testing.T) {
	ctx := t.Context()

	stored := storedOrder(t, orderFixture{status: order.Pending, grams: 32.0})
	cmd, err := commands.NewChangeOrderStatusCommand(stored.ID(), order.Confirmed, "staff:megan")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newChangeStatusHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrComplianceBlocked)
	assert.Equal(t, order.Pending, stored.Status())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestChangeOrderStatusCommandHandler_Handle_MedicalPreverification(t *testing.T) {
	ctx := t.Context()

	stored := storedOrder(t, orderFixture{status: order.Confirmed, medical: true})
	cmd, err := commands.NewChangeOrderStatusCommand(stored.ID(), order.Preparing, "staff:megan")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	verification := new(MockVerificationService)

	verification.On("MedicalPreverified", ctx, stored.CustomerID()).Return(true, nil).Once()

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewChangeOrderStatusCommandHandler(
		factory, services.NewComplianceGate(30.0), verification, nil, testLogger())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Preparing, stored.Status())
	verification.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_VerificationLookupFailureBlocks(t *testing.T) {
	ctx := t.Context()

	stored := storedOrder(t, orderFixture{status: order.Confirmed, medical: true})
	cmd, err := commands.NewChangeOrderStatusCommand(stored.ID(), order.Preparing, "staff:megan")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	verification := new(MockVerificationService)

	verification.On("MedicalPreverified", ctx, stored.CustomerID()).
		Return(false, errors.New("verification service unavailable")).Once()

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewChangeOrderStatusCommandHandler(
		factory, services.NewComplianceGate(30.0), verification, nil, testLogger())
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrComplianceBlocked)
	assert.Equal(t, order.Confirmed, stored.Status())
}

func TestChangeOrderStatusCommandHandler_Handle_DeliveredReleasesDriver(t *testing.T) {
	ctx := t.Context()

	driverID := kernel.NewUUID()
	stored := storedOrder(t, orderFixture{
		status:   order.OutForDelivery,
		verified: true,
		driverID: &driverID,
	})
	paired := busyDriver(t, stored.ID())

	cmd, err := commands.NewChangeOrderStatusCommand(stored.ID(), order.Delivered, "driver:riley")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Get", ctx, driverID).Return(paired, nil).Once(),
		driverRepo.On("Update", ctx, mock.AnythingOfType("*driver.Driver")).Return(nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newChangeStatusHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Delivered, stored.Status())
	assert.Nil(t, stored.Driver())
	assert.Nil(t, paired.OrderID())
	driverRepo.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_ConcurrencyConflictPropagates(t *testing.T) {
	ctx := t.Context()

	stored := storedOrder(t, orderFixture{status: order.Pending})
	cmd, err := commands.NewChangeOrderStatusCommand(stored.ID(), order.Confirmed, "staff:megan")
	require.NoError(t, err)

	conflict := errs.NewConcurrencyConflictError("order", stored.ID().String())

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(conflict).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newChangeStatusHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConcurrencyConflict)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestChangeOrderStatusCommandHandler_Handle_InvalidTransition(t *testing.T) {
	ctx := t.Context()

	stored := storedOrder(t, orderFixture{status: order.Pending, verified: true})
	cmd, err := commands.NewChangeOrderStatusCommand(stored.ID(), order.Ready, "staff:megan")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newChangeStatusHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestChangeOrderStatusCommandHandler_Handle_SkipOnNonCompliantOrderIsInvalidTransition(t *testing.T) {
	ctx := t.Context()

	// Unverified and over the gram limit, so the gate would block both the
	// identity and quantity rules. The skipped edge still decides the error.
	stored := storedOrder(t, orderFixture{status: order.Pending, grams: 32.0})
	cmd, err := commands.NewChangeOrderStatusCommand(stored.ID(), order.Ready, "staff:megan")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newChangeStatusHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.False(t, errors.Is(err, errs.ErrComplianceBlocked))
	assert.Equal(t, order.Pending, stored.Status())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestChangeOrderStatusCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()

	factory := new(MockUoWFactory)
	handler := newChangeStatusHandler(factory)

	err := handler.Handle(ctx, commands.ChangeOrderStatusCommand{})

	require.ErrorIs(t, err, commands.ErrChangeOrderStatusCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestNewChangeOrderStatusCommand_Validation(t *testing.T) {
	t.Run("requires an actor", func(t *testing.T) {
		_, err := commands.NewChangeOrderStatusCommand(kernel.NewUUID(), order.Confirmed, "")
		require.ErrorIs(t, err, commands.ErrActorIsRequired)
	})

	t.Run("rejects an invalid target", func(t *testing.T) {
		_, err := commands.NewChangeOrderStatusCommand(kernel.NewUUID(), order.Unknown, "staff:megan")
		require.Error(t, err)
	})
}
