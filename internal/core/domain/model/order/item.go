package order

import (
	"errors"
	"fmt"

	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/pkg/errs"
)

// Item is a line item of an order. It is an immutable value object: all
// fields are fixed at construction and the per-item dried-flower-equivalent
// contribution never changes once the item exists.
//
// Items carry the regulatory potency figures (THC/CBD content) and the
// dried-flower-equivalent grams used by the compliance gate to enforce
// jurisdictional possession limits.
type Item struct {
	// id is the unique identifier of the line item
	id kernel.UUID

	// productID identifies the catalog product this line refers to
	productID kernel.UUID

	// quantity is the number of units ordered (must be positive)
	quantity int

	// unitPrice is the price of a single unit
	unitPrice float64

	// totalPrice is the extended price of the line (quantity * unitPrice)
	totalPrice float64

	// thcContent is the THC potency of the product, in percent
	thcContent float64

	// cbdContent is the CBD potency of the product, in percent
	cbdContent float64

	// driedFlowerGrams is this line's dried-flower-equivalent contribution,
	// already multiplied by quantity
	driedFlowerGrams float64

	// isConstructed ensures the item was created via NewItem
	isConstructed bool
}

// ErrItemIsNotConstructed is returned when an Item instance was not created
// through the NewItem factory method.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// NewItem creates a validated order line item.
//
// Parameters:
//   - id: Unique identifier of the line item (must be valid UUID)
//   - productID: Catalog product identifier (must be valid UUID)
//   - quantity: Number of units (must be positive)
//   - unitPrice: Price per unit (must not be negative)
//   - thcContent, cbdContent: Potency in percent (must not be negative)
//   - driedFlowerGrams: Dried-flower-equivalent grams for the whole line
//     (must not be negative)
//
// The extended price is computed here; callers never supply it.
func NewItem(
	id kernel.UUID,
	productID kernel.UUID,
	quantity int,
	unitPrice float64,
	thcContent float64,
	cbdContent float64,
	driedFlowerGrams float64,
) (Item, error) {
	item := Item{isConstructed: true}

	if err := errors.Join(
		item.setID(id),
		item.setProductID(productID),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
		item.setPotency(thcContent, cbdContent),
		item.setDriedFlowerGrams(driedFlowerGrams),
	); err != nil {
		return Item{}, err
	}

	item.totalPrice = float64(item.quantity) * item.unitPrice
	return item, nil
}

// Validate ensures the Item instance was properly constructed through NewItem.
func (i Item) Validate() error {
	if !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// ID returns the line item's unique identifier.
func (i Item) ID() kernel.UUID {
	return i.id
}

// ProductID returns the catalog product identifier.
func (i Item) ProductID() kernel.UUID {
	return i.productID
}

// Quantity returns the number of units ordered.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the price of a single unit.
func (i Item) UnitPrice() float64 {
	return i.unitPrice
}

// TotalPrice returns the extended price of the line.
func (i Item) TotalPrice() float64 {
	return i.totalPrice
}

// THCContent returns the THC potency of the product, in percent.
func (i Item) THCContent() float64 {
	return i.thcContent
}

// CBDContent returns the CBD potency of the product, in percent.
func (i Item) CBDContent() float64 {
	return i.cbdContent
}

// DriedFlowerGrams returns this line's dried-flower-equivalent contribution.
func (i Item) DriedFlowerGrams() float64 {
	return i.driedFlowerGrams
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Item) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	i.productID = productID
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPrice(unitPrice float64) error {
	if unitPrice < 0 {
		return errs.NewValueIsInvalidErrorWithCause("unit price is invalid",
			fmt.Errorf("%f is negative", unitPrice))
	}
	i.unitPrice = unitPrice
	return nil
}

func (i *Item) setPotency(thcContent, cbdContent float64) error {
	if thcContent < 0 {
		return errs.NewValueIsInvalidErrorWithCause("thc content is invalid",
			fmt.Errorf("%f is negative", thcContent))
	}
	if cbdContent < 0 {
		return errs.NewValueIsInvalidErrorWithCause("cbd content is invalid",
			fmt.Errorf("%f is negative", cbdContent))
	}
	i.thcContent = thcContent
	i.cbdContent = cbdContent
	return nil
}

func (i *Item) setDriedFlowerGrams(grams float64) error {
	if grams < 0 {
		return errs.NewValueIsInvalidErrorWithCause("dried flower grams is invalid",
			fmt.Errorf("%f is negative", grams))
	}
	i.driedFlowerGrams = grams
	return nil
}
