package driver

import (
	"errors"
	"fmt"
	"time"

	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/pkg/errs"
)

var (
	// ErrDriverIsNotConstructed is returned when a Driver instance was not created
	// through the NewDriver or RestoreDriver factory methods.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver constructor")

	// ErrNameIsRequired is returned when a driver is created without a name.
	ErrNameIsRequired = errors.New("driver name is required")

	// ErrDriverUnavailable is returned when an order is dispatched to a driver
	// who is not available.
	ErrDriverUnavailable = errors.New("driver is not available")

	// ErrDriverIsBusy is returned when a busy driver is taken offline or made
	// available without first releasing the order they are delivering.
	ErrDriverIsBusy = errors.New("driver is busy with an active delivery")

	// ErrDriverHasNoOrder is returned when a release is requested for a driver
	// who is not delivering anything.
	ErrDriverHasNoOrder = errors.New("driver has no active delivery")
)

// Driver is the aggregate root for the store's delivery fleet members.
//
// A driver's availability and the order they are busy with change together:
// Take records both, Release clears both. Callers must persist the driver and
// the affected order inside one transaction so the pairing is never
// observable partially applied.
type Driver struct {
	// id is the unique identifier for the driver
	id kernel.UUID

	// name is the driver's display name
	name string

	// phone is the driver's contact number
	phone string

	// vehicle describes the vehicle used for deliveries
	vehicle string

	// status is the driver's current availability
	status Status

	// orderID is the order the driver is busy with (nil unless busy)
	orderID *kernel.UUID

	// updatedAt is the time of the last committed mutation
	updatedAt time.Time

	// isConstructed ensures the driver was created via a constructor
	isConstructed bool
}

// NewDriver creates a new Driver in Available status with validation.
//
// Parameters:
//   - id: Unique identifier for the driver (must be valid UUID)
//   - name: Display name (must not be empty)
//   - phone: Contact number (optional)
//   - vehicle: Vehicle description (optional)
//
// Returns:
//   - *Driver: The created driver if all validations pass
//   - error: Validation error if any parameter is invalid
func NewDriver(id kernel.UUID, name, phone, vehicle string) (*Driver, error) {
	driver := &Driver{
		status:        Available,
		updatedAt:     time.Now().UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		driver.setID(id),
		driver.setName(name),
	); err != nil {
		return nil, err
	}

	driver.phone = phone
	driver.vehicle = vehicle
	return driver, nil
}

// RestoreDriver reconstructs a driver aggregate from persistence.
// Used only by repositories; validates the status and the status/order
// consistency invariant.
func RestoreDriver(
	id kernel.UUID,
	name, phone, vehicle string,
	status Status,
	orderID *kernel.UUID,
	updatedAt time.Time,
) (*Driver, error) {
	if err := errors.Join(
		id.Validate(),
		status.Validate(),
		status.ValidateCanHaveOrder(orderID != nil),
	); err != nil {
		return nil, err
	}

	if name == "" {
		return nil, ErrNameIsRequired
	}

	return &Driver{
		id:            id,
		name:          name,
		phone:         phone,
		vehicle:       vehicle,
		status:        status,
		orderID:       orderID,
		updatedAt:     updatedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Driver instance was properly constructed through
// NewDriver or RestoreDriver.
func (d *Driver) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDriverIsNotConstructed
	}
	return nil
}

// IsEqual compares two drivers by their unique identifiers.
func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID {
	return d.id
}

// Name returns the driver's display name.
func (d *Driver) Name() string {
	return d.name
}

// Phone returns the driver's contact number.
func (d *Driver) Phone() string {
	return d.phone
}

// Vehicle returns the driver's vehicle description.
func (d *Driver) Vehicle() string {
	return d.vehicle
}

// Status returns the driver's current availability.
func (d *Driver) Status() Status {
	return d.status
}

// OrderID returns the order the driver is busy with, or nil.
func (d *Driver) OrderID() *kernel.UUID {
	return d.orderID
}

// UpdatedAt returns the time of the last committed mutation.
func (d *Driver) UpdatedAt() time.Time {
	return d.updatedAt
}

// Take marks the driver busy on the given order's behalf.
//
// Returns ErrDriverUnavailable unless the driver is currently available.
// This is half of the dispatch pairing; the caller must set the order's
// driver reference and commit both aggregates in one transaction.
func (d *Driver) Take(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	if d.status != Available {
		return ErrDriverUnavailable
	}

	d.status = Busy
	d.orderID = &orderID
	d.updatedAt = time.Now().UTC()
	return nil
}

// Release returns a busy driver to available, clearing the order reference.
// Invoked when the paired order reaches delivered or cancelled.
//
// Returns ErrDriverHasNoOrder if the driver is not busy.
func (d *Driver) Release() error {
	if d.status != Busy {
		return ErrDriverHasNoOrder
	}

	d.status = Available
	d.orderID = nil
	d.updatedAt = time.Now().UTC()
	return nil
}

// SetAvailability toggles the driver between available and offline.
// Busy is reserved for the dispatch pairing and cannot be set directly;
// a busy driver must be released before their availability changes.
func (d *Driver) SetAvailability(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	if status == Busy {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s can only be set by dispatch", Busy))
	}

	if d.status == Busy {
		return ErrDriverIsBusy
	}

	d.status = status
	d.updatedAt = time.Now().UTC()
	return nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	d.name = name
	return nil
}
