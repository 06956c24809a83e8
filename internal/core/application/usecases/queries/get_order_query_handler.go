package queries

import (
	"context"
	"database/sql"
	"errors"

	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler fetches the full projection of one order, line items
// included.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order detail queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the detail query. Returns an ObjectNotFoundError when no
// order has the requested ID.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (OrderDetailReadModel, error) {
	if err := query.Validate(); err != nil {
		return OrderDetailReadModel{}, err
	}

	model, err := h.scanOrder(ctx, query.OrderID())
	if err != nil {
		return OrderDetailReadModel{}, err
	}

	model.Items, err = h.scanItems(ctx, query.OrderID())
	if err != nil {
		return OrderDetailReadModel{}, err
	}

	return model, nil
}

func (h GetOrderQueryHandler) scanOrder(ctx context.Context, orderID kernel.UUID) (OrderDetailReadModel, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			customer_id,
			status,
			order_type,
			subtotal,
			tax_amount,
			delivery_fee,
			discount_amount,
			total_amount,
			dried_flower_equivalent,
			payment_method,
			payment_status,
			delivery_address,
			delivery_time,
			pickup_time,
			special_instructions,
			driver_id,
			age_verified,
			id_checked,
			medical_customer,
			signature_url,
			delivery_photo_url,
			cancelled_reason,
			refund_reason,
			pending_reconciliation,
			version,
			created_at,
			updated_at,
			completed_at
		FROM orders
		WHERE id = ?
	`, orderID.String()).Row()

	var (
		model      OrderDetailReadModel
		id         uuid.UUID
		customerID uuid.UUID
		driverID   *uuid.UUID
	)

	err := row.Scan(
		&id,
		&model.OrderNumber,
		&customerID,
		&model.Status,
		&model.OrderType,
		&model.Subtotal,
		&model.TaxAmount,
		&model.DeliveryFee,
		&model.DiscountAmount,
		&model.TotalAmount,
		&model.DriedFlowerEquivalent,
		&model.PaymentMethod,
		&model.PaymentStatus,
		&model.DeliveryAddress,
		&model.DeliveryTime,
		&model.PickupTime,
		&model.SpecialInstructions,
		&driverID,
		&model.AgeVerified,
		&model.IDChecked,
		&model.MedicalCustomer,
		&model.SignatureURL,
		&model.DeliveryPhotoURL,
		&model.CancelledReason,
		&model.RefundReason,
		&model.PendingReconciliation,
		&model.Version,
		&model.CreatedAt,
		&model.UpdatedAt,
		&model.CompletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return OrderDetailReadModel{}, errs.NewObjectNotFoundError("orderID", orderID)
	}
	if err != nil {
		return OrderDetailReadModel{}, err
	}

	model.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return OrderDetailReadModel{}, err
	}
	model.CustomerID, err = kernel.UUIDFromBytes(customerID[:])
	if err != nil {
		return OrderDetailReadModel{}, err
	}
	if driverID != nil {
		paired, idErr := kernel.UUIDFromBytes((*driverID)[:])
		if idErr != nil {
			return OrderDetailReadModel{}, idErr
		}
		model.DriverID = &paired
	}

	return model, nil
}

func (h GetOrderQueryHandler) scanItems(ctx context.Context, orderID kernel.UUID) ([]OrderItemReadModel, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			product_id,
			quantity,
			unit_price,
			total_price,
			thc_content,
			cbd_content,
			dried_flower_grams
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`, orderID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderItemReadModel, 0)

	for rows.Next() {
		var (
			item      OrderItemReadModel
			id        uuid.UUID
			productID uuid.UUID
		)

		err = rows.Scan(
			&id,
			&productID,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
			&item.THCContent,
			&item.CBDContent,
			&item.DriedFlowerGrams,
		)
		if err != nil {
			return nil, err
		}

		item.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		item.ProductID, err = kernel.UUIDFromBytes(productID[:])
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
