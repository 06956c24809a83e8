// Package driverrepo implements driver persistence over GORM, mapping the
// driver aggregate to the drivers table.
package driverrepo

import (
	"time"

	"dispensary/internal/core/domain/model/driver"
	"dispensary/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO is the database row of a driver aggregate. The order_id column
// is set exactly while the driver is busy on that order.
type DriverDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name    string
	Phone   string
	Vehicle string

	Status  string     `gorm:"index"`
	OrderID *uuid.UUID `gorm:"type:uuid;index"`

	UpdatedAt time.Time
}

// TableName overrides GORM's default naming to use "drivers".
func (DriverDTO) TableName() string {
	return "drivers"
}

// fromDomain converts a driver aggregate to its database row.
func fromDomain(aggregate *driver.Driver) DriverDTO {
	var orderID *uuid.UUID
	if id := aggregate.OrderID(); id != nil {
		raw := id.Bytes()
		orderID = &raw
	}

	return DriverDTO{
		ID:        aggregate.ID().Bytes(),
		Name:      aggregate.Name(),
		Phone:     aggregate.Phone(),
		Vehicle:   aggregate.Vehicle(),
		Status:    aggregate.Status().String(),
		OrderID:   orderID,
		UpdatedAt: aggregate.UpdatedAt(),
	}
}

// toDomain converts a database row back to the driver aggregate.
func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := driver.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var orderID *kernel.UUID
	if dto.OrderID != nil {
		oID, orderErr := kernel.UUIDFromBytes((*dto.OrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		orderID = &oID
	}

	return driver.RestoreDriver(
		id,
		dto.Name,
		dto.Phone,
		dto.Vehicle,
		status,
		orderID,
		dto.UpdatedAt,
	)
}
