// Package orderrepo implements order persistence over GORM, mapping the
// order aggregate to the orders and order_items tables.
package orderrepo

import (
	"time"

	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the database row of an order aggregate. Statuses persist as
// their wire strings so the read side can filter without enum decoding.
// The version column drives the optimistic concurrency check in Update.
type OrderDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderNumber string    `gorm:"uniqueIndex"`
	CustomerID  uuid.UUID `gorm:"type:uuid;index"`

	Status    string `gorm:"index"`
	OrderType string

	Items []ItemDTO `gorm:"foreignKey:OrderID;references:ID"`

	Subtotal       float64
	TaxAmount      float64
	DeliveryFee    float64
	DiscountAmount float64
	TotalAmount    float64

	PaymentMethod string
	PaymentStatus string
	PaymentID     string

	DeliveryAddress     string
	DeliveryTime        *time.Time
	PickupTime          *time.Time
	SpecialInstructions string

	DriverID *uuid.UUID `gorm:"type:uuid;index"`

	DriedFlowerEquivalent float64

	AgeVerified     bool
	IDChecked       bool
	MedicalCustomer bool

	SignatureURL     string
	DeliveryPhotoURL string

	CancelledReason string
	RefundReason    string

	PendingReconciliation bool `gorm:"index"`
	ReconcileAttempts     int

	Version int64

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is the database row of one order line item.
type ItemDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	ProductID uuid.UUID `gorm:"type:uuid"`

	Quantity   int
	UnitPrice  float64
	TotalPrice float64

	THCContent       float64
	CBDContent       float64
	DriedFlowerGrams float64
}

// TableName overrides GORM's default naming to use "order_items".
func (ItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order aggregate to its database rows.
func fromDomain(aggregate *order.Order) OrderDTO {
	var driverID *uuid.UUID
	if id := aggregate.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			ID:               item.ID().Bytes(),
			OrderID:          aggregate.ID().Bytes(),
			ProductID:        item.ProductID().Bytes(),
			Quantity:         item.Quantity(),
			UnitPrice:        item.UnitPrice(),
			TotalPrice:       item.TotalPrice(),
			THCContent:       item.THCContent(),
			CBDContent:       item.CBDContent(),
			DriedFlowerGrams: item.DriedFlowerGrams(),
		})
	}

	return OrderDTO{
		ID:                    aggregate.ID().Bytes(),
		OrderNumber:           aggregate.OrderNumber(),
		CustomerID:            aggregate.CustomerID().Bytes(),
		Status:                aggregate.Status().String(),
		OrderType:             aggregate.OrderType().String(),
		Items:                 items,
		Subtotal:              aggregate.Subtotal(),
		TaxAmount:             aggregate.TaxAmount(),
		DeliveryFee:           aggregate.DeliveryFee(),
		DiscountAmount:        aggregate.DiscountAmount(),
		TotalAmount:           aggregate.TotalAmount(),
		PaymentMethod:         aggregate.PaymentMethod(),
		PaymentStatus:         aggregate.PaymentStatus().String(),
		PaymentID:             aggregate.PaymentID(),
		DeliveryAddress:       aggregate.DeliveryAddress(),
		DeliveryTime:          aggregate.DeliveryTime(),
		PickupTime:            aggregate.PickupTime(),
		SpecialInstructions:   aggregate.SpecialInstructions(),
		DriverID:              driverID,
		DriedFlowerEquivalent: aggregate.DriedFlowerEquivalent(),
		AgeVerified:           aggregate.AgeVerified(),
		IDChecked:             aggregate.IDChecked(),
		MedicalCustomer:       aggregate.MedicalCustomer(),
		SignatureURL:          aggregate.SignatureURL(),
		DeliveryPhotoURL:      aggregate.DeliveryPhotoURL(),
		CancelledReason:       aggregate.CancelledReason(),
		RefundReason:          aggregate.RefundReason(),
		PendingReconciliation: aggregate.PendingReconciliation(),
		ReconcileAttempts:     aggregate.ReconcileAttempts(),
		Version:               aggregate.Version(),
		CreatedAt:             aggregate.CreatedAt(),
		UpdatedAt:             aggregate.UpdatedAt(),
		CompletedAt:           aggregate.CompletedAt(),
	}
}

// toDomain converts database rows back to the order aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	orderType, err := order.TypeFromString(dto.OrderType)
	if err != nil {
		return nil, err
	}

	paymentStatus, err := order.PaymentStatusFromString(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                    id,
		OrderNumber:           dto.OrderNumber,
		CustomerID:            customerID,
		Status:                status,
		OrderType:             orderType,
		Items:                 items,
		Subtotal:              dto.Subtotal,
		TaxAmount:             dto.TaxAmount,
		DeliveryFee:           dto.DeliveryFee,
		DiscountAmount:        dto.DiscountAmount,
		TotalAmount:           dto.TotalAmount,
		PaymentMethod:         dto.PaymentMethod,
		PaymentStatus:         paymentStatus,
		PaymentID:             dto.PaymentID,
		DeliveryAddress:       dto.DeliveryAddress,
		DeliveryTime:          dto.DeliveryTime,
		PickupTime:            dto.PickupTime,
		SpecialInstructions:   dto.SpecialInstructions,
		DriverID:              driverID,
		DriedFlowerEquivalent: dto.DriedFlowerEquivalent,
		AgeVerified:           dto.AgeVerified,
		IDChecked:             dto.IDChecked,
		MedicalCustomer:       dto.MedicalCustomer,
		SignatureURL:          dto.SignatureURL,
		DeliveryPhotoURL:      dto.DeliveryPhotoURL,
		CreatedAt:             dto.CreatedAt,
		UpdatedAt:             dto.UpdatedAt,
		CompletedAt:           dto.CompletedAt,
		CancelledReason:       dto.CancelledReason,
		RefundReason:          dto.RefundReason,
		PendingReconciliation: dto.PendingReconciliation,
		ReconcileAttempts:     dto.ReconcileAttempts,
		Version:               dto.Version,
	})
}

func itemToDomain(dto ItemDTO) (order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.Item{}, err
	}

	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.Item{}, err
	}

	return order.NewItem(
		id,
		productID,
		dto.Quantity,
		dto.UnitPrice,
		dto.THCContent,
		dto.CBDContent,
		dto.DriedFlowerGrams,
	)
}
