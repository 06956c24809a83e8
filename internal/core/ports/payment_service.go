package ports

import "context"

// PaymentService is the boundary to the external payment gateway. The core
// never captures payments itself; it only requests reversals of captured
// payments during cancellation and refund.
//
// Reverse is idempotent by payment ID: re-issuing a reversal for an already
// reversed payment acknowledges without a second reversal, which is what
// makes bounded reconciliation retries safe.
//
// A context deadline exceeded surfaces as errs.ErrExternalServiceTimeout.
// A timeout is an unknown outcome: callers must mark the order for
// reconciliation, never map it to success or failure.
type PaymentService interface {
	// Reverse requests the reversal of the captured payment identified by
	// paymentID. Returns nil once the gateway acknowledges the reversal.
	Reverse(ctx context.Context, paymentID string) error
}
