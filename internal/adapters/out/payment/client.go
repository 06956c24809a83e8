// Package payment implements the payment gateway boundary over its HTTP
// reversal API.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"dispensary/internal/pkg/errs"
)

// DefaultTimeout bounds one reversal round trip when the config does not
// override it.
const DefaultTimeout = 10 * time.Second

// Client calls the payment gateway's reversal endpoint.
//
// A timed-out call surfaces as errs.ErrExternalServiceTimeout so callers can
// tell an unknown outcome from a refusal: the gateway may have performed the
// reversal even though no acknowledgement arrived.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a payment gateway client. A non-positive timeout falls
// back to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type reversalRequest struct {
	PaymentID string `json:"payment_id"`
}

// Reverse requests the reversal of a captured payment. The gateway treats
// the payment ID as an idempotency key, so re-reversing an already reversed
// payment acknowledges with a conflict status that counts as success here.
func (c *Client) Reverse(ctx context.Context, paymentID string) error {
	if paymentID == "" {
		return errs.NewValueIsRequiredError("paymentID")
	}

	body, err := json.Marshal(reversalRequest{PaymentID: paymentID})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/reversals", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return errs.NewExternalServiceTimeoutErrorWithCause("payment", err)
		}
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict:
		// Already reversed under this payment ID.
		return nil
	default:
		return fmt.Errorf("payment gateway returned status %d for reversal of %s",
			resp.StatusCode, paymentID)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}
