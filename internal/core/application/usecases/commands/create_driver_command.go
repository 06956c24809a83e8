package commands

import (
	"errors"

	"dispensary/internal/core/domain/model/driver"
	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/pkg/guard"
)

var ErrCreateDriverCommandIsNotConstructed = errors.New(
	"CreateDriverCommand must be created via NewCreateDriverCommand constructor",
)

// CreateDriverCommand registers a delivery driver in the directory.
type CreateDriverCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	name     string
	phone    string
	vehicle  string

	guard guard.ConstructorGuard
}

// NewCreateDriverCommand creates a command to register a driver.
func NewCreateDriverCommand(
	driverID kernel.UUID,
	name string,
	phone string,
	vehicle string,
) (CreateDriverCommand, error) {
	cmd := CreateDriverCommand{
		guard:   guard.NewConstructorGuard(),
		phone:   phone,
		vehicle: vehicle,
	}

	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setName(name),
	); err != nil {
		return CreateDriverCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateDriverCommand) Validate() error {
	return c.guard.Validate(ErrCreateDriverCommandIsNotConstructed)
}

// DriverID returns the identifier for the new driver.
func (c CreateDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Name returns the driver's display name.
func (c CreateDriverCommand) Name() string {
	return c.name
}

// Phone returns the driver's contact phone, possibly empty.
func (c CreateDriverCommand) Phone() string {
	return c.phone
}

// Vehicle returns the driver's vehicle description, possibly empty.
func (c CreateDriverCommand) Vehicle() string {
	return c.vehicle
}

func (c *CreateDriverCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	c.driverID = driverID
	return nil
}

func (c *CreateDriverCommand) setName(name string) error {
	if name == "" {
		return driver.ErrNameIsRequired
	}
	c.name = name
	return nil
}
