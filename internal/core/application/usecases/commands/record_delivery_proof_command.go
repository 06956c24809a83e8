package commands

import (
	"errors"

	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/pkg/guard"
)

var (
	ErrRecordDeliveryProofCommandIsNotConstructed = errors.New(
		"RecordDeliveryProofCommand must be created via NewRecordDeliveryProofCommand constructor",
	)
	ErrProofIsRequired = errors.New("a signature or delivery photo is required")
)

// RecordDeliveryProofCommand stores the delivery artifacts captured by the
// driver at hand-off. At least one artifact must be present.
type RecordDeliveryProofCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	signatureURL     string
	deliveryPhotoURL string

	guard guard.ConstructorGuard
}

// NewRecordDeliveryProofCommand creates a command recording delivery proof.
func NewRecordDeliveryProofCommand(
	orderID kernel.UUID,
	signatureURL string,
	deliveryPhotoURL string,
) (RecordDeliveryProofCommand, error) {
	cmd := RecordDeliveryProofCommand{
		guard:            guard.NewConstructorGuard(),
		signatureURL:     signatureURL,
		deliveryPhotoURL: deliveryPhotoURL,
	}

	if signatureURL == "" && deliveryPhotoURL == "" {
		return RecordDeliveryProofCommand{}, ErrProofIsRequired
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return RecordDeliveryProofCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordDeliveryProofCommand) Validate() error {
	return c.guard.Validate(ErrRecordDeliveryProofCommandIsNotConstructed)
}

// OrderID returns the identifier of the delivered order.
func (c RecordDeliveryProofCommand) OrderID() kernel.UUID {
	return c.orderID
}

// SignatureURL returns the stored signature artifact location.
func (c RecordDeliveryProofCommand) SignatureURL() string {
	return c.signatureURL
}

// DeliveryPhotoURL returns the stored photo artifact location.
func (c RecordDeliveryProofCommand) DeliveryPhotoURL() string {
	return c.deliveryPhotoURL
}

func (c *RecordDeliveryProofCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}
