package commands

import (
	"errors"

	"dispensary/internal/core/domain/model/driver"
	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/pkg/guard"
)

var ErrSetDriverStatusCommandIsNotConstructed = errors.New(
	"SetDriverStatusCommand must be created via NewSetDriverStatusCommand constructor",
)

// SetDriverStatusCommand toggles a driver between available and offline.
// Busy is owned by dispatch and cannot be requested here.
type SetDriverStatusCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	status   driver.Status

	guard guard.ConstructorGuard
}

// NewSetDriverStatusCommand creates a command to change a driver's
// availability.
func NewSetDriverStatusCommand(
	driverID kernel.UUID,
	status driver.Status,
) (SetDriverStatusCommand, error) {
	cmd := SetDriverStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setStatus(status),
	); err != nil {
		return SetDriverStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SetDriverStatusCommand) Validate() error {
	return c.guard.Validate(ErrSetDriverStatusCommandIsNotConstructed)
}

// DriverID returns the identifier of the driver to update.
func (c SetDriverStatusCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Status returns the requested availability status.
func (c SetDriverStatusCommand) Status() driver.Status {
	return c.status
}

func (c *SetDriverStatusCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	c.driverID = driverID
	return nil
}

func (c *SetDriverStatusCommand) setStatus(status driver.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	c.status = status
	return nil
}
