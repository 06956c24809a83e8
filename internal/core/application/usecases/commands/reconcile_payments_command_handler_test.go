package commands_test

import (
	"testing"

	"dispensary/internal/core/application/usecases/commands"
	"dispensary/internal/core/domain/model/order"
	"dispensary/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReconcileHandler(
	factory commands.OrderUoWFactory,
	payment *MockPaymentService,
	maxAttempts int,
) commands.ReconcilePaymentsCommandHandler {
	return commands.NewReconcilePaymentsCommandHandler(factory, payment, nil, maxAttempts, testLogger())
}

func TestReconcilePaymentsCommandHandler_Handle_SettlesCancelledOrder(t *testing.T) {
	ctx := t.Context()

	marked := storedOrder(t, orderFixture{status: order.Cancelled, paid: true, reconciling: true})
	cmd, err := commands.NewReconcilePaymentsCommand()
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	payment := new(MockPaymentService)

	payment.On("Reverse", ctx, "pay-abc").Return(nil).Once()

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetAllPendingReconciliation", ctx).Return([]*order.Order{marked}, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newReconcileHandler(factory, payment, 5)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.PaymentRefunded, marked.PaymentStatus())
	assert.False(t, marked.PendingReconciliation())
	assert.Equal(t, 1, marked.ReconcileAttempts())
	payment.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestReconcilePaymentsCommandHandler_Handle_CompletesDeferredRefund(t *testing.T) {
	ctx := t.Context()

	marked := storedOrder(t, orderFixture{
		status:      order.Delivered,
		verified:    true,
		paid:        true,
		reconciling: true,
		refundNote:  "damaged product",
	})
	cmd, err := commands.NewReconcilePaymentsCommand()
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	payment := new(MockPaymentService)

	payment.On("Reverse", ctx, "pay-abc").Return(nil).Once()

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetAllPendingReconciliation", ctx).Return([]*order.Order{marked}, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newReconcileHandler(factory, payment, 5)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Refunded, marked.Status())
	assert.Equal(t, order.PaymentRefunded, marked.PaymentStatus())
}

func TestReconcilePaymentsCommandHandler_Handle_FailedRetryPersistsAttempt(t *testing.T) {
	ctx := t.Context()

	marked := storedOrder(t, orderFixture{status: order.Cancelled, paid: true, reconciling: true})
	cmd, err := commands.NewReconcilePaymentsCommand()
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	payment := new(MockPaymentService)

	payment.On("Reverse", ctx, "pay-abc").
		Return(errs.NewExternalServiceTimeoutError("payment")).Once()

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetAllPendingReconciliation", ctx).Return([]*order.Order{marked}, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newReconcileHandler(factory, payment, 5)
	err = handler.Handle(ctx, cmd)

	// The sweep itself succeeds; the bumped counter still commits so the
	// retry budget survives restarts.
	require.NoError(t, err)
	assert.Equal(t, 1, marked.ReconcileAttempts())
	assert.True(t, marked.PendingReconciliation())
	assert.Equal(t, order.PaymentPaid, marked.PaymentStatus())
}

func TestReconcilePaymentsCommandHandler_Handle_ExhaustedOrderIsSkipped(t *testing.T) {
	ctx := t.Context()

	marked := storedOrder(t, orderFixture{
		status:      order.Cancelled,
		paid:        true,
		reconciling: true,
		attempts:    5,
	})
	cmd, err := commands.NewReconcilePaymentsCommand()
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	payment := new(MockPaymentService)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetAllPendingReconciliation", ctx).Return([]*order.Order{marked}, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newReconcileHandler(factory, payment, 5)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 5, marked.ReconcileAttempts())
	payment.AssertNotCalled(t, "Reverse", mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestReconcilePaymentsCommandHandler_Handle_OneFailureDoesNotStopTheSweep(t *testing.T) {
	ctx := t.Context()

	failing := storedOrder(t, orderFixture{status: order.Cancelled, paid: true, reconciling: true})
	succeeding := storedOrder(t, orderFixture{status: order.Cancelled, paid: true, reconciling: true})
	cmd, err := commands.NewReconcilePaymentsCommand()
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	payment := new(MockPaymentService)

	payment.On("Reverse", ctx, "pay-abc").
		Return(errs.NewExternalServiceTimeoutError("payment")).Once()
	payment.On("Reverse", ctx, "pay-abc").Return(nil).Once()

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	orderRepo.On("GetAllPendingReconciliation", ctx).
		Return([]*order.Order{failing, succeeding}, nil).Once()
	orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Twice()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newReconcileHandler(factory, payment, 5)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, failing.PendingReconciliation())
	assert.False(t, succeeding.PendingReconciliation())
	payment.AssertExpectations(t)
}

func TestReconcilePaymentsCommandHandler_Handle_NothingMarked(t *testing.T) {
	ctx := t.Context()

	cmd, err := commands.NewReconcilePaymentsCommand()
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	payment := new(MockPaymentService)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetAllPendingReconciliation", ctx).Return([]*order.Order{}, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newReconcileHandler(factory, payment, 5)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	payment.AssertNotCalled(t, "Reverse", mock.Anything, mock.Anything)
}
