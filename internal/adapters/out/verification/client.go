// Package verification implements the account-verification boundary over
// its HTTP lookup API.
package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dispensary/internal/core/domain/model/kernel"
	"dispensary/internal/pkg/errs"
)

// DefaultTimeout bounds one lookup round trip when the config does not
// override it.
const DefaultTimeout = 5 * time.Second

// Client looks up account-level medical pre-verification flags. Callers
// treat every error as "not pre-verified", so a flaky verification system
// can only make compliance stricter, never looser.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a verification client. A non-positive timeout falls
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

type verificationResponse struct {
	MedicalPreverified bool `json:"medical_preverified"`
}

// MedicalPreverified reports whether the customer holds an account-level
// medical pre-verification.
func (c *Client) MedicalPreverified(ctx context.Context, customerID kernel.UUID) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/customers/%s/verification", c.baseURL, customerID.String()), nil)
	if err != nil {
		return false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("verification service returned status %d for customer %s",
			resp.StatusCode, customerID.String())
	}

	var payload verificationResponse
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false, err
	}

	return payload.MedicalPreverified, nil
}
