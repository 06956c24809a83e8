package commands

import (
	"errors"

	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/pkg/guard"
)

var ErrVerifyOrderIdentityCommandIsNotConstructed = errors.New(
	"VerifyOrderIdentityCommand must be created via NewVerifyOrderIdentityCommand constructor",
)

// VerifyOrderIdentityCommand records the outcome of the in-person identity
// checks for an order. Both flags must be true before the order can move
// beyond confirmed.
type VerifyOrderIdentityCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	ageVerified bool
	idChecked   bool

	guard guard.ConstructorGuard
}

// NewVerifyOrderIdentityCommand creates a command recording identity checks.
func NewVerifyOrderIdentityCommand(
	orderID kernel.UUID,
	ageVerified bool,
	idChecked bool,
) (VerifyOrderIdentityCommand, error) {
	cmd := VerifyOrderIdentityCommand{
		guard:       guard.NewConstructorGuard(),
		ageVerified: ageVerified,
		idChecked:   idChecked,
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return VerifyOrderIdentityCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c VerifyOrderIdentityCommand) Validate() error {
	return c.guard.Validate(ErrVerifyOrderIdentityCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being verified.
func (c VerifyOrderIdentityCommand) OrderID() kernel.UUID {
	return c.orderID
}

// AgeVerified reports whether the customer's age was verified.
func (c VerifyOrderIdentityCommand) AgeVerified() bool {
	return c.ageVerified
}

// IDChecked reports whether the customer's ID document was checked.
func (c VerifyOrderIdentityCommand) IDChecked() bool {
	return c.idChecked
}

func (c *VerifyOrderIdentityCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}
