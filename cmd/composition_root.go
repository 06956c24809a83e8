package cmd

import (
	"log/slog"

	"dispensary/internal/adapters/out/postgres"
	"dispensary/internal/core/application/usecases/commands"
	"dispensary/internal/core/application/usecases/queries"
	"dispensary/internal/core/domain/services"
	"dispensary/internal/core/ports"

	"gorm.io/gorm"
)

// CompositionRoot wires repositories, domain services, and external-service
// adapters into use-case handlers.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	gate       services.ComplianceGate
	dispatcher services.DriverDispatcher

	payment      ports.PaymentService
	notification ports.NotificationChannel
	verification ports.VerificationService

	config Config
	logger *slog.Logger
}

// NewCompositionRoot builds the wiring over the shared infrastructure
// clients. notification, payment, and verification may be nil in tests.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	payment ports.PaymentService,
	notification ports.NotificationChannel,
	verification ports.VerificationService,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		gormDB:       gormDB,
		uowFactory:   *postgres.NewGormUnitOfWorkFactory(gormDB),
		gate:         services.NewComplianceGate(config.JurisdictionLimitGrams),
		dispatcher:   services.NewDriverDispatcher(),
		payment:      payment,
		notification: notification,
		verification: verification,
		config:       config,
		logger:       logger,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) driverUoWFactory() commands.DriverUoWFactory {
	return FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(
		c.fullUoWFactory(), c.gate, c.verification, c.notification, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(
		c.fullUoWFactory(), c.payment, c.notification, c.logger)
}

func (c *CompositionRoot) CreateRefundOrderCommandHandler() commands.RefundOrderCommandHandler {
	return commands.NewRefundOrderCommandHandler(
		c.orderUoWFactory(), c.payment, c.notification, c.logger)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	return commands.NewAssignDriverCommandHandler(
		c.fullUoWFactory(), c.dispatcher, c.gate, c.verification, c.notification, c.logger)
}

func (c *CompositionRoot) CreateVerifyOrderIdentityCommandHandler() commands.VerifyOrderIdentityCommandHandler {
	return commands.NewVerifyOrderIdentityCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateRecordDeliveryProofCommandHandler() commands.RecordDeliveryProofCommandHandler {
	return commands.NewRecordDeliveryProofCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateNotifyCustomerCommandHandler() commands.NotifyCustomerCommandHandler {
	return commands.NewNotifyCustomerCommandHandler(c.orderUoWFactory(), c.notification)
}

func (c *CompositionRoot) CreateCreateDriverCommandHandler() commands.CreateDriverCommandHandler {
	return commands.NewCreateDriverCommandHandler(c.driverUoWFactory())
}

func (c *CompositionRoot) CreateSetDriverStatusCommandHandler() commands.SetDriverStatusCommandHandler {
	return commands.NewSetDriverStatusCommandHandler(c.driverUoWFactory())
}

func (c *CompositionRoot) CreateReconcilePaymentsCommandHandler() commands.ReconcilePaymentsCommandHandler {
	return commands.NewReconcilePaymentsCommandHandler(
		c.orderUoWFactory(), c.payment, c.notification,
		c.config.ReconcileMaxAttempts, c.logger)
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderMetricsQueryHandler() queries.GetOrderMetricsQueryHandler {
	return queries.NewGetOrderMetricsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableDriversQueryHandler() queries.GetAvailableDriversQueryHandler {
	return queries.NewGetAvailableDriversQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetReconciliationQueueQueryHandler() queries.GetReconciliationQueueQueryHandler {
	return queries.NewGetReconciliationQueueQueryHandler(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
