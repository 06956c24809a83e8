package order

import (
	"errors"
	"fmt"
	"time"

	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrOrderNumberIsRequired is returned when an order is created without an order number.
	ErrOrderNumberIsRequired = errors.New("order number is required")

	// ErrItemsAreRequired is returned when an order is created without line items.
	ErrItemsAreRequired = errors.New("order must contain at least one item")

	// ErrDeliveryAddressRequired is returned when a delivery order has no delivery address.
	ErrDeliveryAddressRequired = errors.New("delivery address is required for delivery orders")

	// ErrDriverRequired is returned when an order attempts to go out for delivery
	// without an assigned driver.
	ErrDriverRequired = errors.New("driver must be assigned before the order goes out for delivery")

	// ErrCancelReasonRequired is returned when a cancellation is requested without a reason.
	ErrCancelReasonRequired = errors.New("cancellation requires a non-empty reason")

	// ErrRefundReasonRequired is returned when a refund is requested without a reason.
	ErrRefundReasonRequired = errors.New("refund requires a non-empty reason")

	// ErrRefundNotEligible is returned when a refund is requested for an order
	// whose payment has not been captured.
	ErrRefundNotEligible = errors.New("refund requires a paid payment")

	// ErrOrderAlreadyTerminal is returned when a cancellation or refund is requested
	// for an order already in a terminal status.
	ErrOrderAlreadyTerminal = errors.New("order is already in a terminal status")

	// ErrOrderNotReadyForDispatch is returned when driver assignment is requested
	// for an order that is not a delivery order in Ready status.
	ErrOrderNotReadyForDispatch = errors.New("order must be a delivery order in ready status to assign a driver")

	// ErrPaymentAlreadySettled is returned when a payment capture is recorded twice.
	ErrPaymentAlreadySettled = errors.New("payment is already settled")

	// ErrNoPendingReconciliation is returned when a reversal settlement arrives for
	// an order that has no pending-reconciliation marker.
	ErrNoPendingReconciliation = errors.New("order has no pending payment reconciliation")
)

// Details carries the optional intake attributes of a new order. Fields that
// do not apply to the order's fulfillment channel are left at their zero value.
type Details struct {
	PaymentMethod       string
	TaxAmount           float64
	DeliveryFee         float64
	DiscountAmount      float64
	DeliveryAddress     string
	DeliveryTime        *time.Time
	PickupTime          *time.Time
	SpecialInstructions string
	MedicalCustomer     bool
}

// Order is the aggregate root of the fulfillment domain. It manages the order
// lifecycle from intake through the status state machine to completion,
// cancellation, or refund.
//
// Order follows these invariants:
//   - The dried-flower equivalent is computed once at creation from the line
//     items and is immutable afterward; no transition recomputes it.
//   - Status transitions are monotonic along the state-machine graph; the only
//     backward-looking branches are cancellation and refund.
//   - The driver reference is set if and only if a driver is busy on this
//     order's behalf; assignment and release change both facts together.
//   - Orders are never deleted; cancellation and refund append reason fields
//     and timestamps rather than removing anything.
//
// The struct uses private fields to ensure encapsulation and maintains its
// invariants through validated methods. It can only be created through
// NewOrder (intake) or RestoreOrder (persistence rehydration).
type Order struct {
	id          kernel.UUID
	orderNumber string
	customerID  kernel.UUID

	status    Status
	orderType Type

	items []Item

	subtotal       float64
	taxAmount      float64
	deliveryFee    float64
	discountAmount float64
	totalAmount    float64

	paymentMethod string
	paymentStatus PaymentStatus
	// paymentID is the payment service's idempotency key for reversals;
	// set when the payment is captured.
	paymentID string

	deliveryAddress     string
	deliveryTime        *time.Time
	pickupTime          *time.Time
	specialInstructions string

	driverID *kernel.UUID

	// driedFlowerEquivalent is the regulatory conversion of all items into
	// grams of dried flower. Computed once in NewOrder, never recomputed.
	driedFlowerEquivalent float64

	ageVerified     bool
	idChecked       bool
	medicalCustomer bool

	signatureURL     string
	deliveryPhotoURL string

	createdAt   time.Time
	updatedAt   time.Time
	completedAt *time.Time

	cancelledReason string
	refundReason    string

	pendingReconciliation bool
	reconcileAttempts     int

	// version is the optimistic concurrency counter, incremented by the
	// repository on every committed update.
	version int64

	isConstructed bool
}

// NewOrder creates a new Order in Pending status with validation. This is the
// intake entry point: the subtotal, total and dried-flower equivalent are
// computed here from the line items and never recomputed afterward.
//
// Parameters:
//   - id: Unique identifier for the order (must be valid UUID)
//   - orderNumber: Human-facing order number (must not be empty)
//   - customerID: Identifier of the purchasing customer (must be valid UUID)
//   - orderType: Fulfillment channel (delivery, pickup, or in-store)
//   - items: Line items (at least one, each constructed via NewItem)
//   - details: Optional intake attributes; delivery orders require a
//     delivery address
//
// Returns:
//   - *Order: The created order if all validations pass
//   - error: Validation error if any parameter is invalid
func NewOrder(
	id kernel.UUID,
	orderNumber string,
	customerID kernel.UUID,
	orderType Type,
	items []Item,
	details Details,
) (*Order, error) {
	now := time.Now().UTC()

	order := &Order{
		status:        Pending,
		paymentStatus: PaymentPending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setOrderNumber(orderNumber),
		order.setCustomerID(customerID),
		order.setOrderType(orderType),
		order.setItems(items),
		order.setDetails(details),
	); err != nil {
		return nil, err
	}

	order.computeTotals()
	return order, nil
}

// Snapshot is the persistence representation of an order used to rehydrate
// the aggregate. Repositories fill it from storage and pass it to RestoreOrder.
type Snapshot struct {
	ID          kernel.UUID
	OrderNumber string
	CustomerID  kernel.UUID

	Status    Status
	OrderType Type

	Items []Item

	Subtotal       float64
	TaxAmount      float64
	DeliveryFee    float64
	DiscountAmount float64
	TotalAmount    float64

	PaymentMethod string
	PaymentStatus PaymentStatus
	PaymentID     string

	DeliveryAddress     string
	DeliveryTime        *time.Time
	PickupTime          *time.Time
	SpecialInstructions string

	DriverID *kernel.UUID

	DriedFlowerEquivalent float64

	AgeVerified     bool
	IDChecked       bool
	MedicalCustomer bool

	SignatureURL     string
	DeliveryPhotoURL string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time

	CancelledReason string
	RefundReason    string

	PendingReconciliation bool
	ReconcileAttempts     int

	Version int64
}

// RestoreOrder reconstructs an order aggregate from its persistence snapshot.
// Used only by repositories; validates the snapshot's enums and the
// status/driver consistency invariant before handing the aggregate back to
// the domain.
func RestoreOrder(snap Snapshot) (*Order, error) {
	if err := errors.Join(
		snap.ID.Validate(),
		snap.CustomerID.Validate(),
		snap.Status.Validate(),
		snap.OrderType.Validate(),
		snap.PaymentStatus.Validate(),
	); err != nil {
		return nil, err
	}

	if err := validateCanHaveDriver(snap.Status, snap.DriverID != nil); err != nil {
		return nil, err
	}

	for _, item := range snap.Items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:                    snap.ID,
		orderNumber:           snap.OrderNumber,
		customerID:            snap.CustomerID,
		status:                snap.Status,
		orderType:             snap.OrderType,
		items:                 snap.Items,
		subtotal:              snap.Subtotal,
		taxAmount:             snap.TaxAmount,
		deliveryFee:           snap.DeliveryFee,
		discountAmount:        snap.DiscountAmount,
		totalAmount:           snap.TotalAmount,
		paymentMethod:         snap.PaymentMethod,
		paymentStatus:         snap.PaymentStatus,
		paymentID:             snap.PaymentID,
		deliveryAddress:       snap.DeliveryAddress,
		deliveryTime:          snap.DeliveryTime,
		pickupTime:            snap.PickupTime,
		specialInstructions:   snap.SpecialInstructions,
		driverID:              snap.DriverID,
		driedFlowerEquivalent: snap.DriedFlowerEquivalent,
		ageVerified:           snap.AgeVerified,
		idChecked:             snap.IDChecked,
		medicalCustomer:       snap.MedicalCustomer,
		signatureURL:          snap.SignatureURL,
		deliveryPhotoURL:      snap.DeliveryPhotoURL,
		createdAt:             snap.CreatedAt,
		updatedAt:             snap.UpdatedAt,
		completedAt:           snap.CompletedAt,
		cancelledReason:       snap.CancelledReason,
		refundReason:          snap.RefundReason,
		pendingReconciliation: snap.PendingReconciliation,
		reconcileAttempts:     snap.ReconcileAttempts,
		version:               snap.Version,
		isConstructed:         true,
	}, nil
}

// validateCanHaveDriver enforces the order/driver pairing invariant at the
// persistence boundary: a committed order references a driver only while that
// driver is out delivering it. The pairing is assigned and the transition to
// OutForDelivery committed in the same transaction, so no other combination
// is ever observable.
func validateCanHaveDriver(status Status, hasDriver bool) error {
	if hasDriver && status != OutForDelivery {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to have a driver", status))
	}
	return nil
}

// Validate ensures the Order instance was properly constructed through
// NewOrder or RestoreOrder. This prevents bypassing validation by directly
// instantiating the struct.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the human-facing order number.
func (o *Order) OrderNumber() string {
	return o.orderNumber
}

// CustomerID returns the purchasing customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// OrderType returns the fulfillment channel of the order.
func (o *Order) OrderType() Type {
	return o.orderType
}

// Items returns a copy of the order's line items.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// Subtotal returns the sum of line item extended prices.
func (o *Order) Subtotal() float64 {
	return o.subtotal
}

// TaxAmount returns the tax charged on the order.
func (o *Order) TaxAmount() float64 {
	return o.taxAmount
}

// DeliveryFee returns the delivery fee charged on the order.
func (o *Order) DeliveryFee() float64 {
	return o.deliveryFee
}

// DiscountAmount returns the discount applied to the order.
func (o *Order) DiscountAmount() float64 {
	return o.discountAmount
}

// TotalAmount returns the total charged for the order.
func (o *Order) TotalAmount() float64 {
	return o.totalAmount
}

// PaymentMethod returns the customer's payment method.
func (o *Order) PaymentMethod() string {
	return o.paymentMethod
}

// PaymentStatus returns the settlement state of the order's payment.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// PaymentID returns the payment service's idempotency key for this order's
// payment. Empty until the payment is captured.
func (o *Order) PaymentID() string {
	return o.paymentID
}

// DeliveryAddress returns the delivery destination, if any.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// DeliveryTime returns the requested delivery window start, if any.
func (o *Order) DeliveryTime() *time.Time {
	return o.deliveryTime
}

// PickupTime returns the requested pickup time, if any.
func (o *Order) PickupTime() *time.Time {
	return o.pickupTime
}

// SpecialInstructions returns the customer's free-form instructions.
func (o *Order) SpecialInstructions() string {
	return o.specialInstructions
}

// Driver returns the assigned driver's ID, or nil if no driver is assigned.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

// DriedFlowerEquivalent returns the order's dried-flower-equivalent grams.
// The value is computed once at creation and never changes.
func (o *Order) DriedFlowerEquivalent() float64 {
	return o.driedFlowerEquivalent
}

// AgeVerified reports whether the customer's age has been verified for this order.
func (o *Order) AgeVerified() bool {
	return o.ageVerified
}

// IDChecked reports whether the customer's identification has been checked for this order.
func (o *Order) IDChecked() bool {
	return o.idChecked
}

// MedicalCustomer reports whether the order belongs to a medical customer.
func (o *Order) MedicalCustomer() bool {
	return o.medicalCustomer
}

// SignatureURL returns the stored delivery signature artifact location, if any.
func (o *Order) SignatureURL() string {
	return o.signatureURL
}

// DeliveryPhotoURL returns the stored delivery photo artifact location, if any.
func (o *Order) DeliveryPhotoURL() string {
	return o.deliveryPhotoURL
}

// CreatedAt returns the order's creation time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the time of the last committed mutation.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// CompletedAt returns the delivery completion time, or nil if the order has
// not been delivered.
func (o *Order) CompletedAt() *time.Time {
	return o.completedAt
}

// CancelledReason returns the recorded cancellation reason, if any.
func (o *Order) CancelledReason() string {
	return o.cancelledReason
}

// RefundReason returns the recorded refund reason, if any.
func (o *Order) RefundReason() string {
	return o.refundReason
}

// PendingReconciliation reports whether a payment reversal has an unknown
// outcome awaiting reconciliation.
func (o *Order) PendingReconciliation() bool {
	return o.pendingReconciliation
}

// ReconcileAttempts returns the number of reversal retries performed so far.
func (o *Order) ReconcileAttempts() int {
	return o.reconcileAttempts
}

// Version returns the optimistic concurrency counter.
func (o *Order) Version() int64 {
	return o.version
}

// ChangeStatus moves the order along the state-machine graph to target.
//
// Behavior:
//   - Requesting the current status is an idempotent no-op: it returns
//     (false, nil) and mutates nothing, protecting against retried requests.
//   - Cancellation and refund targets are not served here; they require a
//     reason and flow through Cancel and Refund.
//   - Any other target must be a direct graph successor of the current status
//     for this order's type, otherwise an InvalidTransitionError (or
//     ErrOrderAlreadyTerminal for terminal orders) is returned.
//   - Going out for delivery additionally requires an assigned driver.
//
// On success the returned bool is true, the status and updated-at timestamp
// are committed, and reaching Delivered also records the completion time.
func (o *Order) ChangeStatus(target Status) (bool, error) {
	if err := target.Validate(); err != nil {
		return false, err
	}

	if o.status == target {
		return false, nil
	}

	if o.status.IsTerminal() {
		return false, ErrOrderAlreadyTerminal
	}

	switch target {
	case Cancelled:
		return false, ErrCancelReasonRequired
	case Refunded:
		return false, ErrRefundReasonRequired
	case Unknown, Pending, Confirmed, Preparing, Ready, OutForDelivery, Delivered:
	}

	if !o.status.CanTransitionTo(target, o.orderType) {
		return false, errs.NewInvalidTransitionError(o.status.String(), target.String())
	}

	if target == OutForDelivery && o.driverID == nil {
		return false, ErrDriverRequired
	}

	now := time.Now().UTC()
	o.status = target
	o.updatedAt = now
	if target == Delivered {
		o.completedAt = &now
	}

	return true, nil
}

// Cancel moves the order to the terminal Cancelled status, recording the
// supplied reason. Permitted from every non-terminal status before Delivered.
//
// Returns ErrCancelReasonRequired for an empty reason, ErrOrderAlreadyTerminal
// when the order is already cancelled or refunded, and an
// InvalidTransitionError when cancellation is not an edge of the current
// status (a delivered order must be refunded instead).
//
// The caller is responsible for releasing any assigned driver and reversing a
// captured payment; this method only commits the aggregate's own state.
func (o *Order) Cancel(reason string) error {
	if reason == "" {
		return ErrCancelReasonRequired
	}

	if o.status.IsTerminal() {
		return ErrOrderAlreadyTerminal
	}

	if !o.status.CanTransitionTo(Cancelled, o.orderType) {
		return errs.NewInvalidTransitionError(o.status.String(), Cancelled.String())
	}

	o.status = Cancelled
	o.cancelledReason = reason
	o.driverID = nil
	o.updatedAt = time.Now().UTC()
	return nil
}

// Refund moves a delivered, paid order to the terminal Refunded status and
// marks its payment refunded, recording the supplied reason.
//
// Returns ErrRefundReasonRequired for an empty reason, ErrOrderAlreadyTerminal
// when the order is already refunded or cancelled, an InvalidTransitionError
// when the order has not been delivered, and ErrRefundNotEligible when the
// payment was never captured.
func (o *Order) Refund(reason string) error {
	if reason == "" {
		return ErrRefundReasonRequired
	}

	if o.status.IsTerminal() {
		return ErrOrderAlreadyTerminal
	}

	if !o.status.CanTransitionTo(Refunded, o.orderType) {
		return errs.NewInvalidTransitionError(o.status.String(), Refunded.String())
	}

	if o.paymentStatus != PaymentPaid {
		return ErrRefundNotEligible
	}

	o.status = Refunded
	o.paymentStatus = PaymentRefunded
	o.refundReason = reason
	o.pendingReconciliation = false
	o.updatedAt = time.Now().UTC()
	return nil
}

// AssignDriver pairs the order with a driver.
//
// This is half of the dispatch pairing: the caller must flip the driver to
// busy and commit both records, plus the transition to OutForDelivery, in a
// single transaction so the pairing is never observable partially applied.
//
// Returns ErrOrderNotReadyForDispatch unless the order is a delivery order in
// Ready status.
func (o *Order) AssignDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	if o.orderType != TypeDelivery || o.status != Ready {
		return ErrOrderNotReadyForDispatch
	}

	o.driverID = &driverID
	o.updatedAt = time.Now().UTC()
	return nil
}

// ReleaseDriver clears the order's driver reference and returns the released
// driver's ID, or nil if no driver was assigned. Invoked when an order with an
// assigned driver reaches Delivered or Cancelled; the caller must return the
// driver to available in the same transaction.
func (o *Order) ReleaseDriver() *kernel.UUID {
	released := o.driverID
	if released != nil {
		o.driverID = nil
		o.updatedAt = time.Now().UTC()
	}
	return released
}

// VerifyIdentity records the per-order identity verification outcome.
// Both checks must pass before the order may progress beyond Confirmed,
// unless the customer holds an account-level medical pre-verification.
func (o *Order) VerifyIdentity(ageVerified, idChecked bool) {
	o.ageVerified = ageVerified
	o.idChecked = idChecked
	o.updatedAt = time.Now().UTC()
}

// RecordDeliveryProof stores the delivery signature and photo artifact
// locations captured by the driver. Empty arguments leave the existing
// values untouched.
func (o *Order) RecordDeliveryProof(signatureURL, deliveryPhotoURL string) {
	if signatureURL != "" {
		o.signatureURL = signatureURL
	}
	if deliveryPhotoURL != "" {
		o.deliveryPhotoURL = deliveryPhotoURL
	}
	o.updatedAt = time.Now().UTC()
}

// MarkPaid records the payment capture reported by the payment service,
// storing the payment identifier used as the idempotency key for reversals.
// Returns ErrPaymentAlreadySettled if the payment is not pending.
func (o *Order) MarkPaid(paymentID string) error {
	if paymentID == "" {
		return errs.NewValueIsRequiredError("paymentID")
	}
	if o.paymentStatus != PaymentPending {
		return ErrPaymentAlreadySettled
	}

	o.paymentStatus = PaymentPaid
	o.paymentID = paymentID
	o.updatedAt = time.Now().UTC()
	return nil
}

// MarkPendingReconciliation flags the order's payment reversal as having an
// unknown outcome. A cancelled order with a captured payment must always carry
// this marker until the reversal is acknowledged.
func (o *Order) MarkPendingReconciliation() {
	o.pendingReconciliation = true
	o.updatedAt = time.Now().UTC()
}

// RequestRefundReconciliation records a refund request whose reversal timed
// out. The order stays in Delivered with the reason stored; SettleReversal
// completes the refund once the reversal is acknowledged.
func (o *Order) RequestRefundReconciliation(reason string) error {
	if reason == "" {
		return ErrRefundReasonRequired
	}

	o.refundReason = reason
	o.pendingReconciliation = true
	o.updatedAt = time.Now().UTC()
	return nil
}

// SettleReversal completes a pending payment reversal after the payment
// service acknowledged it. For a cancelled order the payment flips to
// refunded; for a delivered order with a stored refund reason the refund
// itself is finalized as well.
//
// Returns ErrNoPendingReconciliation if the order has no pending marker.
func (o *Order) SettleReversal() error {
	if !o.pendingReconciliation {
		return ErrNoPendingReconciliation
	}

	o.paymentStatus = PaymentRefunded
	o.pendingReconciliation = false
	if o.status == Delivered && o.refundReason != "" {
		o.status = Refunded
	}
	o.updatedAt = time.Now().UTC()
	return nil
}

// IncrementReconcileAttempts bumps the bounded reversal retry counter and
// returns the new count.
func (o *Order) IncrementReconcileAttempts() int {
	o.reconcileAttempts++
	o.updatedAt = time.Now().UTC()
	return o.reconcileAttempts
}

// setID validates and sets the order's unique identifier.
// This is a private method used only during construction.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return ErrOrderNumberIsRequired
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setOrderType(orderType Type) error {
	if err := orderType.Validate(); err != nil {
		return err
	}
	o.orderType = orderType
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setDetails(details Details) error {
	if details.TaxAmount < 0 || details.DeliveryFee < 0 || details.DiscountAmount < 0 {
		return errs.NewValueIsInvalidErrorWithCause("order charges are invalid",
			errors.New("tax, delivery fee and discount must not be negative"))
	}

	if o.orderType == TypeDelivery && details.DeliveryAddress == "" {
		return ErrDeliveryAddressRequired
	}

	o.paymentMethod = details.PaymentMethod
	o.taxAmount = details.TaxAmount
	o.deliveryFee = details.DeliveryFee
	o.discountAmount = details.DiscountAmount
	o.deliveryAddress = details.DeliveryAddress
	o.deliveryTime = details.DeliveryTime
	o.pickupTime = details.PickupTime
	o.specialInstructions = details.SpecialInstructions
	o.medicalCustomer = details.MedicalCustomer
	return nil
}

// computeTotals derives the subtotal, total amount and dried-flower
// equivalent from the line items. Called exactly once, at construction.
func (o *Order) computeTotals() {
	var subtotal, grams float64
	for _, item := range o.items {
		subtotal += item.TotalPrice()
		grams += item.DriedFlowerGrams()
	}

	o.subtotal = subtotal
	o.driedFlowerEquivalent = grams
	o.totalAmount = subtotal + o.taxAmount + o.deliveryFee - o.discountAmount
}
