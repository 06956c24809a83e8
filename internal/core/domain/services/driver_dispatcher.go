package services

import (
	"dispensary/internal/core/domain/model/driver"
	"dispensary/internal/core/domain/model/order"
)

// DriverDispatcher is a domain service responsible for pairing a driver with
// a ready delivery order.
//
// The pairing mutates both aggregates together: the driver flips to busy on
// the order's behalf and the order records the driver. Callers must persist
// both inside a single transaction, together with the order's transition to
// out-for-delivery, so that neither fact is ever observable without the
// other.
//
// Business rules:
//   - The order must be a delivery order in ready status
//   - The driver must be available
//
// Example usage:
//
//	dispatcher := services.NewDriverDispatcher()
//	if err := dispatcher.Dispatch(o, d); err != nil {
//	    switch {
//	    case errors.Is(err, driver.ErrDriverUnavailable):
//	        // driver already busy or offline
//	    case errors.Is(err, order.ErrOrderNotReadyForDispatch):
//	        // order not a ready delivery order
//	    }
//	}
type DriverDispatcher struct{}

// NewDriverDispatcher creates a new DriverDispatcher instance.
func NewDriverDispatcher() DriverDispatcher {
	return DriverDispatcher{}
}

// Dispatch pairs the driver with the order.
//
// Validates both aggregates, checks the order is dispatchable before
// touching the driver, then applies both halves of the pairing. On any
// failure neither aggregate is modified.
func (DriverDispatcher) Dispatch(o *order.Order, d *driver.Driver) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if err := d.Validate(); err != nil {
		return err
	}

	// Check the order half first so an ineligible order never flips the driver.
	if o.OrderType() != order.TypeDelivery || o.Status() != order.Ready {
		return order.ErrOrderNotReadyForDispatch
	}

	if err := d.Take(o.ID()); err != nil {
		return err
	}

	if err := o.AssignDriver(d.ID()); err != nil {
		// Roll the driver back so a failed pairing leaves no half-applied state.
		_ = d.Release()
		return err
	}

	return nil
}

// Release returns the order's assigned driver to available, clearing the
// pairing on both aggregates. It is a no-op for orders without a driver.
func (DriverDispatcher) Release(o *order.Order, d *driver.Driver) error {
	if released := o.ReleaseDriver(); released == nil {
		return nil
	}

	if d == nil {
		return nil
	}

	return d.Release()
}
