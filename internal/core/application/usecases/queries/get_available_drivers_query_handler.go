package queries

import (
	"context"

	"dispensary/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAvailableDriversQueryHandler lists drivers currently available for
// dispatch, sorted by name.
type GetAvailableDriversQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableDriversQueryHandler creates a handler for available-driver
// queries.
func NewGetAvailableDriversQueryHandler(db *gorm.DB) GetAvailableDriversQueryHandler {
	return GetAvailableDriversQueryHandler{db: db}
}

// Handle executes the query.
func (h GetAvailableDriversQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableDriversQuery,
) ([]DriverReadModel, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			phone,
			vehicle,
			status,
			order_id,
			updated_at
		FROM drivers
		WHERE status = 'available'
		ORDER BY name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := make([]DriverReadModel, 0)

	for rows.Next() {
		var (
			model   DriverReadModel
			id      uuid.UUID
			orderID *uuid.UUID
		)

		err = rows.Scan(
			&id,
			&model.Name,
			&model.Phone,
			&model.Vehicle,
			&model.Status,
			&orderID,
			&model.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		model.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		if orderID != nil {
			assigned, idErr := kernel.UUIDFromBytes((*orderID)[:])
			if idErr != nil {
				return nil, idErr
			}
			model.OrderID = &assigned
		}

		drivers = append(drivers, model)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return drivers, nil
}
