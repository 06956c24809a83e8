package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"dispensary/internal/core/application/usecases/commands"
	"dispensary/internal/core/domain/model/driver"
	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/core/domain/model/order"
	"dispensary/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllPendingReconciliation(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetAllAvailable(ctx context.Context) ([]*driver.Driver, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockDriverUoWFactory struct{ mock.Mock }

func (m *MockDriverUoWFactory) Create() commands.DriverUoW {
	args := m.Called()
	return args.Get(0).(commands.DriverUoW)
}

type MockPaymentService struct{ mock.Mock }

func (m *MockPaymentService) Reverse(ctx context.Context, paymentID string) error {
	args := m.Called(ctx, paymentID)
	return args.Error(0)
}

type MockVerificationService struct{ mock.Mock }

func (m *MockVerificationService) MedicalPreverified(ctx context.Context, customerID kernel.UUID) (bool, error) {
	args := m.Called(ctx, customerID)
	return args.Bool(0), args.Error(1)
}

type MockNotificationChannel struct{ mock.Mock }

func (m *MockNotificationChannel) Send(ctx context.Context, customerID kernel.UUID, message string) error {
	args := m.Called(ctx, customerID, message)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testItem(t *testing.T, grams float64) order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), 1, 25.0, 19.0, 0.4, grams)
	require.NoError(t, err)
	return item
}

// orderFixture describes the stored state of an order used in handler tests.
type orderFixture struct {
	status      order.Status
	orderType   order.Type
	grams       float64
	paid        bool
	verified    bool
	medical     bool
	driverID    *kernel.UUID
	refundNote  string
	reconciling bool
	attempts    int
}

// storedOrder rehydrates an order in the given state, the way a repository
// would hand it to a handler.
func storedOrder(t *testing.T, fix orderFixture) *order.Order {
	t.Helper()

	if fix.orderType == order.TypeUnknown {
		fix.orderType = order.TypeDelivery
	}
	if fix.grams == 0 {
		fix.grams = 7.0
	}

	now := time.Now().UTC()
	snap := order.Snapshot{
		ID:                    kernel.NewUUID(),
		OrderNumber:           "ORD-9001",
		CustomerID:            kernel.NewUUID(),
		Status:                fix.status,
		OrderType:             fix.orderType,
		Items:                 []order.Item{testItem(t, fix.grams)},
		Subtotal:              25.0,
		TotalAmount:           25.0,
		PaymentStatus:         order.PaymentPending,
		DriedFlowerEquivalent: fix.grams,
		AgeVerified:           fix.verified,
		IDChecked:             fix.verified,
		MedicalCustomer:       fix.medical,
		DriverID:              fix.driverID,
		RefundReason:          fix.refundNote,
		PendingReconciliation: fix.reconciling,
		ReconcileAttempts:     fix.attempts,
		CreatedAt:             now,
		UpdatedAt:             now,
		Version:               2,
	}

	if fix.orderType == order.TypeDelivery {
		snap.DeliveryAddress = "88 Harbour Rd"
	}
	if fix.paid {
		snap.PaymentStatus = order.PaymentPaid
		snap.PaymentID = "pay-abc"
	}
	if fix.status == order.Refunded {
		snap.PaymentStatus = order.PaymentRefunded
	}

	o, err := order.RestoreOrder(snap)
	require.NoError(t, err)
	return o
}

func availableDriver(t *testing.T) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), "Riley Chen", "555-0190", "Ford Transit")
	require.NoError(t, err)
	return d
}

func busyDriver(t *testing.T, orderID kernel.UUID) *driver.Driver {
	t.Helper()
	d, err := driver.RestoreDriver(kernel.NewUUID(), "Riley Chen", "555-0190", "Ford Transit",
		driver.Busy, &orderID, time.Now().UTC())
	require.NoError(t, err)
	return d
}
