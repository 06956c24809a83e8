package commands

import (
	"errors"

	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/core/domain/model/order"
	"dispensary/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderNumberRequired = errors.New("order number is required")
	ErrItemsRequired       = errors.New("at least one order item is required")
)

// CreateOrderCommand represents a request to register a new order from intake.
// Encapsulates the order identity, line items and intake details. The order's
// totals and dried-flower equivalent are computed by the aggregate when the
// handler constructs it; they are never supplied by the caller.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(orderID, "ORD-1042", customerID,
//	    order.TypeDelivery, items, details)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	orderNumber string
	customerID  kernel.UUID
	orderType   order.Type
	items       []order.Item
	details     order.Details

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates identifiers, the order type, and that at least one item is present.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	orderNumber string,
	customerID kernel.UUID,
	orderType order.Type,
	items []order.Item,
	details order.Details,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		details: details,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setOrderNumber(orderNumber),
		cmd.setCustomerID(customerID),
		cmd.setOrderType(orderType),
		cmd.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// OrderNumber returns the human-facing order number.
func (c CreateOrderCommand) OrderNumber() string {
	return c.orderNumber
}

// CustomerID returns the purchasing customer's identifier.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// OrderType returns the fulfillment channel.
func (c CreateOrderCommand) OrderType() order.Type {
	return c.orderType
}

// Items returns the order's line items.
func (c CreateOrderCommand) Items() []order.Item {
	return c.items
}

// Details returns the optional intake attributes.
func (c CreateOrderCommand) Details() order.Details {
	return c.details
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return ErrOrderNumberRequired
	}
	c.orderNumber = orderNumber
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setOrderType(orderType order.Type) error {
	if err := orderType.Validate(); err != nil {
		return err
	}
	c.orderType = orderType
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return ErrItemsRequired
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	c.items = items
	return nil
}
