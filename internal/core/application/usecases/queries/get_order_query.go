package queries

import (
	"errors"
	"time"

	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery fetches the full projection of a single order.
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order by ID.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	q := GetOrderQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := q.setOrderID(orderID); err != nil {
		return GetOrderQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the identifier of the requested order.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *GetOrderQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	q.orderID = orderID
	return nil
}

// OrderItemReadModel is one line item of the order detail projection.
type OrderItemReadModel struct {
	ID               kernel.UUID
	ProductID        kernel.UUID
	Quantity         int
	UnitPrice        float64
	TotalPrice       float64
	THCContent       float64
	CBDContent       float64
	DriedFlowerGrams float64
}

// OrderDetailReadModel is the full projection of one order, including line
// items, payment, compliance and delivery-proof fields.
type OrderDetailReadModel struct {
	ID                    kernel.UUID
	OrderNumber           string
	CustomerID            kernel.UUID
	Status                string
	OrderType             string
	Items                 []OrderItemReadModel
	Subtotal              float64
	TaxAmount             float64
	DeliveryFee           float64
	DiscountAmount        float64
	TotalAmount           float64
	DriedFlowerEquivalent float64
	PaymentMethod         string
	PaymentStatus         string
	DeliveryAddress       string
	DeliveryTime          *time.Time
	PickupTime            *time.Time
	SpecialInstructions   string
	DriverID              *kernel.UUID
	AgeVerified           bool
	IDChecked             bool
	MedicalCustomer       bool
	SignatureURL          string
	DeliveryPhotoURL      string
	CancelledReason       string
	RefundReason          string
	PendingReconciliation bool
	Version               int64
	CreatedAt             time.Time
	UpdatedAt             time.Time
	CompletedAt           *time.Time
}
