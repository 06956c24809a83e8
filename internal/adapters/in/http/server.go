package http

import (
	"net/http"
	"strconv"
	"time"

	"dispensary/internal/core/application/usecases/commands"
	"dispensary/internal/core/application/usecases/queries"
	"dispensary/internal/core/domain/model/driver"
	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// defaultActor is recorded on mutations whose request carries no actor.
const defaultActor = "api"

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrderHandler         commands.CreateOrderCommandHandler
	changeOrderStatusHandler   commands.ChangeOrderStatusCommandHandler
	cancelOrderHandler         commands.CancelOrderCommandHandler
	refundOrderHandler         commands.RefundOrderCommandHandler
	assignDriverHandler        commands.AssignDriverCommandHandler
	verifyOrderIdentityHandler commands.VerifyOrderIdentityCommandHandler
	recordDeliveryProofHandler commands.RecordDeliveryProofCommandHandler
	notifyCustomerHandler      commands.NotifyCustomerCommandHandler
	createDriverHandler        commands.CreateDriverCommandHandler
	setDriverStatusHandler     commands.SetDriverStatusCommandHandler

	getOrdersHandler              queries.GetOrdersQueryHandler
	getOrderHandler               queries.GetOrderQueryHandler
	getOrderMetricsHandler        queries.GetOrderMetricsQueryHandler
	getAvailableDriversHandler    queries.GetAvailableDriversQueryHandler
	getReconciliationQueueHandler queries.GetReconciliationQueueQueryHandler
}

// Handlers carries the command and query handlers the server dispatches to.
type Handlers struct {
	CreateOrder         commands.CreateOrderCommandHandler
	ChangeOrderStatus   commands.ChangeOrderStatusCommandHandler
	CancelOrder         commands.CancelOrderCommandHandler
	RefundOrder         commands.RefundOrderCommandHandler
	AssignDriver        commands.AssignDriverCommandHandler
	VerifyOrderIdentity commands.VerifyOrderIdentityCommandHandler
	RecordDeliveryProof commands.RecordDeliveryProofCommandHandler
	NotifyCustomer      commands.NotifyCustomerCommandHandler
	CreateDriver        commands.CreateDriverCommandHandler
	SetDriverStatus     commands.SetDriverStatusCommandHandler

	GetOrders              queries.GetOrdersQueryHandler
	GetOrder               queries.GetOrderQueryHandler
	GetOrderMetrics        queries.GetOrderMetricsQueryHandler
	GetAvailableDrivers    queries.GetAvailableDriversQueryHandler
	GetReconciliationQueue queries.GetReconciliationQueueQueryHandler
}

// NewServer creates the HTTP server over the given use-case handlers.
func NewServer(handlers Handlers) *Server {
	return &Server{
		createOrderHandler:            handlers.CreateOrder,
		changeOrderStatusHandler:      handlers.ChangeOrderStatus,
		cancelOrderHandler:            handlers.CancelOrder,
		refundOrderHandler:            handlers.RefundOrder,
		assignDriverHandler:           handlers.AssignDriver,
		verifyOrderIdentityHandler:    handlers.VerifyOrderIdentity,
		recordDeliveryProofHandler:    handlers.RecordDeliveryProof,
		notifyCustomerHandler:         handlers.NotifyCustomer,
		createDriverHandler:           handlers.CreateDriver,
		setDriverStatusHandler:        handlers.SetDriverStatus,
		getOrdersHandler:              handlers.GetOrders,
		getOrderHandler:               handlers.GetOrder,
		getOrderMetricsHandler:        handlers.GetOrderMetrics,
		getAvailableDriversHandler:    handlers.GetAvailableDrivers,
		getReconciliationQueueHandler: handlers.GetReconciliationQueue,
	}
}

// RegisterRoutes mounts all endpoints on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	v1 := e.Group("/api/v1")

	v1.GET("/orders", s.GetOrders)
	v1.POST("/orders", s.CreateOrder)
	v1.GET("/orders/metrics", s.GetOrderMetrics)
	v1.GET("/orders/reconciliation-queue", s.GetReconciliationQueue)
	v1.GET("/orders/:id", s.GetOrder)
	v1.PATCH("/orders/:id", s.UpdateOrder)
	v1.POST("/orders/:id/assign-driver", s.AssignDriver)
	v1.POST("/orders/:id/message", s.MessageCustomer)

	v1.GET("/drivers/available", s.GetAvailableDrivers)
	v1.POST("/drivers", s.CreateDriver)
	v1.PATCH("/drivers/:id", s.UpdateDriver)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req NewOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return badRequest(ctx, "invalid customer_id")
	}

	orderType, err := order.TypeFromString(req.OrderType)
	if err != nil {
		return badRequest(ctx, "invalid order_type")
	}

	items := make([]order.Item, 0, len(req.Items))
	for _, itemReq := range req.Items {
		productID, idErr := kernel.UUIDFromString(itemReq.ProductID)
		if idErr != nil {
			return badRequest(ctx, "invalid product_id")
		}

		item, itemErr := order.NewItem(
			kernel.NewUUID(),
			productID,
			itemReq.Quantity,
			itemReq.UnitPrice,
			itemReq.THCContent,
			itemReq.CBDContent,
			itemReq.DriedFlowerGrams,
		)
		if itemErr != nil {
			return writeError(ctx, itemErr)
		}
		items = append(items, item)
	}

	orderID := kernel.NewUUID()

	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		req.OrderNumber,
		customerID,
		orderType,
		items,
		order.Details{
			PaymentMethod:       req.PaymentMethod,
			TaxAmount:           req.TaxAmount,
			DeliveryFee:         req.DeliveryFee,
			DiscountAmount:      req.DiscountAmount,
			DeliveryAddress:     req.DeliveryAddress,
			DeliveryTime:        req.DeliveryTime,
			PickupTime:          req.PickupTime,
			SpecialInstructions: req.SpecialInstructions,
			MedicalCustomer:     req.MedicalCustomer,
		},
	)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: orderID.String()})
}

// GetOrders handles GET /api/v1/orders.
func (s *Server) GetOrders(ctx echo.Context) error {
	filter, err := bindOrdersFilter(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetOrdersQuery(filter)
	if err != nil {
		return writeError(ctx, err)
	}

	orders, err := s.getOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]OrderResponse, 0, len(orders))
	for _, model := range orders {
		response = append(response, orderToResponse(model))
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	model, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderDetailToResponse(model))
}

// GetOrderMetrics handles GET /api/v1/orders/metrics.
func (s *Server) GetOrderMetrics(ctx echo.Context) error {
	metrics, err := s.getOrderMetricsHandler.Handle(
		ctx.Request().Context(), queries.NewGetOrderMetricsQuery())
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, MetricsResponse{
		StatusCounts:              metrics.StatusCounts,
		TotalOrders:               metrics.TotalOrders,
		TodayRevenue:              metrics.TodayRevenue,
		AverageFulfillmentSeconds: metrics.AverageFulfillmentSeconds,
		PendingReconciliation:     metrics.PendingReconciliation,
	})
}

// GetReconciliationQueue handles GET /api/v1/orders/reconciliation-queue.
func (s *Server) GetReconciliationQueue(ctx echo.Context) error {
	entries, err := s.getReconciliationQueueHandler.Handle(
		ctx.Request().Context(), queries.NewGetReconciliationQueueQuery())
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]ReconciliationEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, ReconciliationEntryResponse{
			OrderID:     entry.OrderID.String(),
			OrderNumber: entry.OrderNumber,
			Status:      entry.Status,
			TotalAmount: entry.TotalAmount,
			Attempts:    entry.Attempts,
			UpdatedAt:   entry.UpdatedAt,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// UpdateOrder handles PATCH /api/v1/orders/:id. The body carries exactly one
// concern: a status change (cancelled and refunded require a reason), an
// identity verification outcome, or delivery proof artifacts.
func (s *Server) UpdateOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var req UpdateOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	switch {
	case req.Status != nil:
		return s.updateOrderStatus(ctx, orderID, req)

	case req.AgeVerified != nil || req.IDChecked != nil:
		cmd, cmdErr := commands.NewVerifyOrderIdentityCommand(
			orderID, boolValue(req.AgeVerified), boolValue(req.IDChecked))
		if cmdErr != nil {
			return writeError(ctx, cmdErr)
		}
		if handleErr := s.verifyOrderIdentityHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
			return writeError(ctx, handleErr)
		}
		return ctx.NoContent(http.StatusNoContent)

	case req.SignatureURL != nil || req.DeliveryPhotoURL != nil:
		cmd, cmdErr := commands.NewRecordDeliveryProofCommand(
			orderID, stringValue(req.SignatureURL), stringValue(req.DeliveryPhotoURL))
		if cmdErr != nil {
			return writeError(ctx, cmdErr)
		}
		if handleErr := s.recordDeliveryProofHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
			return writeError(ctx, handleErr)
		}
		return ctx.NoContent(http.StatusNoContent)

	default:
		return badRequest(ctx, "no update fields provided")
	}
}

func (s *Server) updateOrderStatus(ctx echo.Context, orderID kernel.UUID, req UpdateOrderRequest) error {
	target, err := order.StatusFromString(*req.Status)
	if err != nil {
		return badRequest(ctx, "invalid status")
	}

	actor := req.Actor
	if actor == "" {
		actor = defaultActor
	}

	reqCtx := ctx.Request().Context()

	switch target {
	case order.Cancelled:
		cmd, cmdErr := commands.NewCancelOrderCommand(orderID, stringValue(req.Reason), actor)
		if cmdErr != nil {
			return writeError(ctx, cmdErr)
		}
		err = s.cancelOrderHandler.Handle(reqCtx, cmd)

	case order.Refunded:
		cmd, cmdErr := commands.NewRefundOrderCommand(orderID, stringValue(req.Reason), actor)
		if cmdErr != nil {
			return writeError(ctx, cmdErr)
		}
		err = s.refundOrderHandler.Handle(reqCtx, cmd)

	case order.Unknown, order.Pending, order.Confirmed, order.Preparing,
		order.Ready, order.OutForDelivery, order.Delivered:
		cmd, cmdErr := commands.NewChangeOrderStatusCommand(orderID, target, actor)
		if cmdErr != nil {
			return writeError(ctx, cmdErr)
		}
		err = s.changeOrderStatusHandler.Handle(reqCtx, cmd)
	}

	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignDriver handles POST /api/v1/orders/:id/assign-driver.
func (s *Server) AssignDriver(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var req AssignDriverRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return badRequest(ctx, "invalid driver_id")
	}

	actor := req.Actor
	if actor == "" {
		actor = defaultActor
	}

	cmd, err := commands.NewAssignDriverCommand(orderID, driverID, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.assignDriverHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// MessageCustomer handles POST /api/v1/orders/:id/message.
func (s *Server) MessageCustomer(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var req MessageRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewNotifyCustomerCommand(orderID, req.Text)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.notifyCustomerHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// GetAvailableDrivers handles GET /api/v1/drivers/available.
func (s *Server) GetAvailableDrivers(ctx echo.Context) error {
	drivers, err := s.getAvailableDriversHandler.Handle(
		ctx.Request().Context(), queries.NewGetAvailableDriversQuery())
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]DriverResponse, 0, len(drivers))
	for _, model := range drivers {
		response = append(response, driverToResponse(model))
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateDriver handles POST /api/v1/drivers.
func (s *Server) CreateDriver(ctx echo.Context) error {
	var req NewDriverRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	driverID := kernel.NewUUID()

	cmd, err := commands.NewCreateDriverCommand(driverID, req.Name, req.Phone, req.Vehicle)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.createDriverHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: driverID.String()})
}

// UpdateDriver handles PATCH /api/v1/drivers/:id for availability changes.
func (s *Server) UpdateDriver(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid driver id")
	}

	var req UpdateDriverRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	status, err := driver.StatusFromString(req.Status)
	if err != nil {
		return badRequest(ctx, "invalid status")
	}

	cmd, err := commands.NewSetDriverStatusCommand(driverID, status)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.setDriverStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func bindOrdersFilter(ctx echo.Context) (queries.OrdersFilter, error) {
	var filter queries.OrdersFilter

	if raw := ctx.QueryParam("status"); raw != "" {
		status, err := order.StatusFromString(raw)
		if err != nil {
			return queries.OrdersFilter{}, err
		}
		filter.Status = &status
	}
	if raw := ctx.QueryParam("order_type"); raw != "" {
		orderType, err := order.TypeFromString(raw)
		if err != nil {
			return queries.OrdersFilter{}, err
		}
		filter.OrderType = &orderType
	}

	filter.Search = ctx.QueryParam("search")

	var err error
	if filter.CreatedFrom, err = parseTimeParam(ctx, "start_date"); err != nil {
		return queries.OrdersFilter{}, err
	}
	if filter.CreatedTo, err = parseTimeParam(ctx, "end_date"); err != nil {
		return queries.OrdersFilter{}, err
	}
	if filter.ChangedSince, err = parseTimeParam(ctx, "changed_since"); err != nil {
		return queries.OrdersFilter{}, err
	}

	if filter.Limit, err = parseIntParam(ctx, "limit"); err != nil {
		return queries.OrdersFilter{}, err
	}
	if filter.Offset, err = parseIntParam(ctx, "offset"); err != nil {
		return queries.OrdersFilter{}, err
	}

	return filter, nil
}

func parseTimeParam(ctx echo.Context, name string) (*time.Time, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseIntParam(ctx echo.Context, name string) (int, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
