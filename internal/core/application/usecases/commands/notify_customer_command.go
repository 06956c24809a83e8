package commands

import (
	"errors"

	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/pkg/guard"
)

var (
	ErrNotifyCustomerCommandIsNotConstructed = errors.New(
		"NotifyCustomerCommand must be created via NewNotifyCustomerCommand constructor",
	)
	ErrMessageIsRequired = errors.New("message is required")
)

// NotifyCustomerCommand sends an ad-hoc operator message to the customer of
// an order through the notification channel.
type NotifyCustomerCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	message string

	guard guard.ConstructorGuard
}

// NewNotifyCustomerCommand creates a command to message an order's customer.
func NewNotifyCustomerCommand(orderID kernel.UUID, message string) (NotifyCustomerCommand, error) {
	cmd := NotifyCustomerCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setMessage(message),
	); err != nil {
		return NotifyCustomerCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c NotifyCustomerCommand) Validate() error {
	return c.guard.Validate(ErrNotifyCustomerCommandIsNotConstructed)
}

// OrderID returns the identifier of the order whose customer is messaged.
func (c NotifyCustomerCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Message returns the message text.
func (c NotifyCustomerCommand) Message() string {
	return c.message
}

func (c *NotifyCustomerCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *NotifyCustomerCommand) setMessage(message string) error {
	if message == "" {
		return ErrMessageIsRequired
	}
	c.message = message
	return nil
}
