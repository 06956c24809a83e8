// Package http implements the inbound REST adapter on echo. Handlers bind
// JSON, build validated commands and queries, and map domain errors onto
// HTTP statuses.
package http

import (
	"time"

	"dispensary/internal/core/application/usecases/queries"
)

// ErrorResponse is the JSON error body. Reason carries the compliance
// reason code when a transition is blocked by the compliance gate.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// NewOrderItemRequest is one line item of an intake request.
type NewOrderItemRequest struct {
	ProductID        string  `json:"product_id"`
	Quantity         int     `json:"quantity"`
	UnitPrice        float64 `json:"unit_price"`
	THCContent       float64 `json:"thc_content"`
	CBDContent       float64 `json:"cbd_content"`
	DriedFlowerGrams float64 `json:"dried_flower_grams"`
}

// NewOrderRequest is the intake request body.
type NewOrderRequest struct {
	OrderNumber         string                `json:"order_number"`
	CustomerID          string                `json:"customer_id"`
	OrderType           string                `json:"order_type"`
	Items               []NewOrderItemRequest `json:"items"`
	PaymentMethod       string                `json:"payment_method"`
	TaxAmount           float64               `json:"tax_amount"`
	DeliveryFee         float64               `json:"delivery_fee"`
	DiscountAmount      float64               `json:"discount_amount"`
	DeliveryAddress     string                `json:"delivery_address"`
	DeliveryTime        *time.Time            `json:"delivery_time"`
	PickupTime          *time.Time            `json:"pickup_time"`
	SpecialInstructions string                `json:"special_instructions"`
	MedicalCustomer     bool                  `json:"medical_customer"`
}

// CreatedResponse returns the identifier of a newly created resource.
type CreatedResponse struct {
	ID string `json:"id"`
}

// UpdateOrderRequest is the PATCH body. Exactly one concern per request:
// a status change (with reason for cancelled/refunded), an identity
// verification outcome, or delivery proof artifacts.
type UpdateOrderRequest struct {
	Status *string `json:"status"`
	Reason *string `json:"reason"`
	Actor  string  `json:"actor"`

	AgeVerified *bool `json:"age_verified"`
	IDChecked   *bool `json:"id_checked"`

	SignatureURL     *string `json:"signature_url"`
	DeliveryPhotoURL *string `json:"delivery_photo_url"`
}

// AssignDriverRequest pairs an order with a driver.
type AssignDriverRequest struct {
	DriverID string `json:"driver_id"`
	Actor    string `json:"actor"`
}

// MessageRequest is an operator message to an order's customer.
type MessageRequest struct {
	Text string `json:"text"`
}

// NewDriverRequest registers a driver.
type NewDriverRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Vehicle string `json:"vehicle"`
}

// UpdateDriverRequest changes a driver's availability.
type UpdateDriverRequest struct {
	Status string `json:"status"`
}

// OrderResponse is the listing representation of an order.
type OrderResponse struct {
	ID                    string     `json:"id"`
	OrderNumber           string     `json:"order_number"`
	CustomerID            string     `json:"customer_id"`
	Status                string     `json:"status"`
	OrderType             string     `json:"order_type"`
	TotalAmount           float64    `json:"total_amount"`
	DriedFlowerEquivalent float64    `json:"dried_flower_equivalent"`
	PaymentStatus         string     `json:"payment_status"`
	DriverID              *string    `json:"driver_id,omitempty"`
	PendingReconciliation bool       `json:"pending_reconciliation"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"`
}

// OrderItemResponse is one line item of the order detail representation.
type OrderItemResponse struct {
	ID               string  `json:"id"`
	ProductID        string  `json:"product_id"`
	Quantity         int     `json:"quantity"`
	UnitPrice        float64 `json:"unit_price"`
	TotalPrice       float64 `json:"total_price"`
	THCContent       float64 `json:"thc_content"`
	CBDContent       float64 `json:"cbd_content"`
	DriedFlowerGrams float64 `json:"dried_flower_grams"`
}

// OrderDetailResponse is the full representation of one order.
type OrderDetailResponse struct {
	ID                    string              `json:"id"`
	OrderNumber           string              `json:"order_number"`
	CustomerID            string              `json:"customer_id"`
	Status                string              `json:"status"`
	OrderType             string              `json:"order_type"`
	Items                 []OrderItemResponse `json:"items"`
	Subtotal              float64             `json:"subtotal"`
	TaxAmount             float64             `json:"tax_amount"`
	DeliveryFee           float64             `json:"delivery_fee"`
	DiscountAmount        float64             `json:"discount_amount"`
	TotalAmount           float64             `json:"total_amount"`
	DriedFlowerEquivalent float64             `json:"dried_flower_equivalent"`
	PaymentMethod         string              `json:"payment_method"`
	PaymentStatus         string              `json:"payment_status"`
	DeliveryAddress       string              `json:"delivery_address,omitempty"`
	DeliveryTime          *time.Time          `json:"delivery_time,omitempty"`
	PickupTime            *time.Time          `json:"pickup_time,omitempty"`
	SpecialInstructions   string              `json:"special_instructions,omitempty"`
	DriverID              *string             `json:"driver_id,omitempty"`
	AgeVerified           bool                `json:"age_verified"`
	IDChecked             bool                `json:"id_checked"`
	MedicalCustomer       bool                `json:"medical_customer"`
	SignatureURL          string              `json:"signature_url,omitempty"`
	DeliveryPhotoURL      string              `json:"delivery_photo_url,omitempty"`
	CancelledReason       string              `json:"cancelled_reason,omitempty"`
	RefundReason          string              `json:"refund_reason,omitempty"`
	PendingReconciliation bool                `json:"pending_reconciliation"`
	Version               int64               `json:"version"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
	CompletedAt           *time.Time          `json:"completed_at,omitempty"`
}

// MetricsResponse is the dashboard counters representation.
type MetricsResponse struct {
	StatusCounts              map[string]int64 `json:"status_counts"`
	TotalOrders               int64            `json:"total_orders"`
	TodayRevenue              float64          `json:"today_revenue"`
	AverageFulfillmentSeconds float64          `json:"average_fulfillment_seconds"`
	PendingReconciliation     int64            `json:"pending_reconciliation"`
}

// ReconciliationEntryResponse is one order awaiting reversal confirmation.
type ReconciliationEntryResponse struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"total_amount"`
	Attempts    int       `json:"attempts"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DriverResponse is the representation of a driver.
type DriverResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Vehicle   string    `json:"vehicle,omitempty"`
	Status    string    `json:"status"`
	OrderID   *string   `json:"order_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func orderToResponse(model queries.OrderReadModel) OrderResponse {
	var driverID *string
	if model.DriverID != nil {
		s := model.DriverID.String()
		driverID = &s
	}

	return OrderResponse{
		ID:                    model.ID.String(),
		OrderNumber:           model.OrderNumber,
		CustomerID:            model.CustomerID.String(),
		Status:                model.Status,
		OrderType:             model.OrderType,
		TotalAmount:           model.TotalAmount,
		DriedFlowerEquivalent: model.DriedFlowerEquivalent,
		PaymentStatus:         model.PaymentStatus,
		DriverID:              driverID,
		PendingReconciliation: model.PendingReconciliation,
		CreatedAt:             model.CreatedAt,
		UpdatedAt:             model.UpdatedAt,
		CompletedAt:           model.CompletedAt,
	}
}

func orderDetailToResponse(model queries.OrderDetailReadModel) OrderDetailResponse {
	var driverID *string
	if model.DriverID != nil {
		s := model.DriverID.String()
		driverID = &s
	}

	items := make([]OrderItemResponse, 0, len(model.Items))
	for _, item := range model.Items {
		items = append(items, OrderItemResponse{
			ID:               item.ID.String(),
			ProductID:        item.ProductID.String(),
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			TotalPrice:       item.TotalPrice,
			THCContent:       item.THCContent,
			CBDContent:       item.CBDContent,
			DriedFlowerGrams: item.DriedFlowerGrams,
		})
	}

	return OrderDetailResponse{
		ID:                    model.ID.String(),
		OrderNumber:           model.OrderNumber,
		CustomerID:            model.CustomerID.String(),
		Status:                model.Status,
		OrderType:             model.OrderType,
		Items:                 items,
		Subtotal:              model.Subtotal,
		TaxAmount:             model.TaxAmount,
		DeliveryFee:           model.DeliveryFee,
		DiscountAmount:        model.DiscountAmount,
		TotalAmount:           model.TotalAmount,
		DriedFlowerEquivalent: model.DriedFlowerEquivalent,
		PaymentMethod:         model.PaymentMethod,
		PaymentStatus:         model.PaymentStatus,
		DeliveryAddress:       model.DeliveryAddress,
		DeliveryTime:          model.DeliveryTime,
		PickupTime:            model.PickupTime,
		SpecialInstructions:   model.SpecialInstructions,
		DriverID:              driverID,
		AgeVerified:           model.AgeVerified,
		IDChecked:             model.IDChecked,
		MedicalCustomer:       model.MedicalCustomer,
		SignatureURL:          model.SignatureURL,
		DeliveryPhotoURL:      model.DeliveryPhotoURL,
		CancelledReason:       model.CancelledReason,
		RefundReason:          model.RefundReason,
		PendingReconciliation: model.PendingReconciliation,
		Version:               model.Version,
		CreatedAt:             model.CreatedAt,
		UpdatedAt:             model.UpdatedAt,
		CompletedAt:           model.CompletedAt,
	}
}

func driverToResponse(model queries.DriverReadModel) DriverResponse {
	var orderID *string
	if model.OrderID != nil {
		s := model.OrderID.String()
		orderID = &s
	}

	return DriverResponse{
		ID:        model.ID.String(),
		Name:      model.Name,
		Phone:     model.Phone,
		Vehicle:   model.Vehicle,
		Status:    model.Status,
		OrderID:   orderID,
		UpdatedAt: model.UpdatedAt,
	}
}
