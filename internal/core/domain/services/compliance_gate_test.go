package services_test

import (
	"errors"
	"testing"

	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/core/domain/model/order"
	"dispensary/internal/core/domain/services"
	"dispensary/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemWithGrams(t *testing.T, grams float64) order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), 1, 15.0, 18.0, 0.5, grams)
	require.NoError(t, err)
	return item
}

func orderWithGrams(t *testing.T, grams float64, details order.Details) *order.Order {
	t.Helper()
	if details.DeliveryAddress == "" {
		details.DeliveryAddress = "100 King St"
	}
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-5001", kernel.NewUUID(), order.TypeDelivery,
		[]order.Item{itemWithGrams(t, grams)}, details)
	require.NoError(t, err)
	return o
}

func blockedReason(t *testing.T, err error) errs.ComplianceReason {
	t.Helper()
	var blocked *errs.ComplianceBlockedError
	require.True(t, errors.As(err, &blocked))
	return blocked.Reason
}

func TestComplianceGate_Quantity(t *testing.T) {
	gate := services.NewComplianceGate(30.0)

	t.Run("blocks confirmation over the limit", func(t *testing.T) {
		o := orderWithGrams(t, 32.0, order.Details{})

		err := gate.Check(o, order.Confirmed, false)
		require.ErrorIs(t, err, errs.ErrComplianceBlocked)
		assert.Equal(t, errs.ReasonQuantityExceeded, blockedReason(t, err))
	})

	t.Run("passes under the limit", func(t *testing.T) {
		o := orderWithGrams(t, 29.5, order.Details{})

		require.NoError(t, gate.Check(o, order.Confirmed, false))
	})

	t.Run("passes at exactly the limit", func(t *testing.T) {
		o := orderWithGrams(t, 30.0, order.Details{})

		require.NoError(t, gate.Check(o, order.Confirmed, false))
	})

	t.Run("over-limit orders may still be cancelled", func(t *testing.T) {
		o := orderWithGrams(t, 32.0, order.Details{})

		require.NoError(t, gate.Check(o, order.Cancelled, false))
	})

	t.Run("medical status never substitutes for the quantity rule", func(t *testing.T) {
		o := orderWithGrams(t, 32.0, order.Details{MedicalCustomer: true})

		err := gate.Check(o, order.Confirmed, true)
		assert.Equal(t, errs.ReasonQuantityExceeded, blockedReason(t, err))
	})
}

func TestComplianceGate_Identity(t *testing.T) {
	gate := services.NewComplianceGate(30.0)

	t.Run("blocks progress beyond confirmed without verification", func(t *testing.T) {
		o := orderWithGrams(t, 5.0, order.Details{})

		err := gate.Check(o, order.Preparing, false)
		assert.Equal(t, errs.ReasonIdentityUnverified, blockedReason(t, err))
	})

	t.Run("confirmation itself needs no identity check", func(t *testing.T) {
		o := orderWithGrams(t, 5.0, order.Details{})

		require.NoError(t, gate.Check(o, order.Confirmed, false))
	})

	t.Run("passes once both checks are recorded", func(t *testing.T) {
		o := orderWithGrams(t, 5.0, order.Details{})
		o.VerifyIdentity(true, true)

		require.NoError(t, gate.Check(o, order.Preparing, false))
	})

	t.Run("one check alone is not enough", func(t *testing.T) {
		o := orderWithGrams(t, 5.0, order.Details{})
		o.VerifyIdentity(true, false)

		err := gate.Check(o, order.Preparing, false)
		assert.Equal(t, errs.ReasonIdentityUnverified, blockedReason(t, err))
	})

	t.Run("medical pre-verification substitutes for medical customers", func(t *testing.T) {
		o := orderWithGrams(t, 5.0, order.Details{MedicalCustomer: true})

		require.NoError(t, gate.Check(o, order.Preparing, true))
	})

	t.Run("pre-verification does not help recreational customers", func(t *testing.T) {
		o := orderWithGrams(t, 5.0, order.Details{})

		err := gate.Check(o, order.Preparing, true)
		assert.Equal(t, errs.ReasonIdentityUnverified, blockedReason(t, err))
	})

	t.Run("medical customer without pre-verification is still blocked", func(t *testing.T) {
		o := orderWithGrams(t, 5.0, order.Details{MedicalCustomer: true})

		err := gate.Check(o, order.Preparing, false)
		assert.Equal(t, errs.ReasonIdentityUnverified, blockedReason(t, err))
	})
}

func TestComplianceGate_OrderType(t *testing.T) {
	gate := services.NewComplianceGate(30.0)

	t.Run("blocks out_for_delivery for pickup orders", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), "ORD-5002", kernel.NewUUID(), order.TypePickup,
			[]order.Item{itemWithGrams(t, 5.0)}, order.Details{})
		require.NoError(t, err)
		o.VerifyIdentity(true, true)

		checkErr := gate.Check(o, order.OutForDelivery, false)
		assert.Equal(t, errs.ReasonWrongOrderType, blockedReason(t, checkErr))
	})

	t.Run("allows out_for_delivery for delivery orders", func(t *testing.T) {
		o := orderWithGrams(t, 5.0, order.Details{})
		o.VerifyIdentity(true, true)

		require.NoError(t, gate.Check(o, order.OutForDelivery, false))
	})
}

func TestNewComplianceGate(t *testing.T) {
	t.Run("enforces a custom limit", func(t *testing.T) {
		gate := services.NewComplianceGate(15.0)
		o := orderWithGrams(t, 20.0, order.Details{})

		err := gate.Check(o, order.Confirmed, false)
		assert.Equal(t, errs.ReasonQuantityExceeded, blockedReason(t, err))
		assert.InDelta(t, 15.0, gate.LimitGrams(), 1e-9)
	})

	t.Run("non-positive limits fall back to the default", func(t *testing.T) {
		assert.InDelta(t, services.DefaultJurisdictionLimitGrams, services.NewComplianceGate(0).LimitGrams(), 1e-9)
		assert.InDelta(t, services.DefaultJurisdictionLimitGrams, services.NewComplianceGate(-5).LimitGrams(), 1e-9)
	})

	t.Run("rejects orders not built via constructor", func(t *testing.T) {
		gate := services.NewComplianceGate(30.0)

		err := gate.Check(&order.Order{}, order.Confirmed, false)
		require.ErrorIs(t, err, order.ErrOrderIsNotConstructed)
	})
}
