package http

import (
	"errors"
	"net/http"

	"dispensary/internal/core/domain/model/driver"
	"dispensary/internal/core/domain/model/order"
	"dispensary/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// writeError maps a domain or use-case error onto an HTTP response.
//
// Mapping:
//   - not found                          -> 404
//   - compliance block                   -> 409 with the reason code
//   - invalid transition, conflict,
//     terminal order, dispatch refusals  -> 409
//   - external service timeout           -> 504
//   - anything validation-shaped         -> 400
//   - everything else                    -> 500
func writeError(ctx echo.Context, err error) error {
	var complianceErr *errs.ComplianceBlockedError
	if errors.As(err, &complianceErr) {
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: complianceErr.Error(),
			Reason:  string(complianceErr.Reason),
		})
	}

	status := statusFor(err)
	return ctx.JSON(status, ErrorResponse{
		Code:    status,
		Message: err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound

	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrConcurrencyConflict),
		errors.Is(err, order.ErrOrderAlreadyTerminal),
		errors.Is(err, order.ErrRefundNotEligible),
		errors.Is(err, order.ErrPaymentAlreadySettled),
		errors.Is(err, order.ErrOrderNotReadyForDispatch),
		errors.Is(err, order.ErrDriverRequired),
		errors.Is(err, driver.ErrDriverUnavailable),
		errors.Is(err, driver.ErrDriverIsBusy),
		errors.Is(err, driver.ErrDriverHasNoOrder):
		return http.StatusConflict

	case errors.Is(err, errs.ErrExternalServiceTimeout):
		return http.StatusGatewayTimeout

	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, order.ErrCancelReasonRequired),
		errors.Is(err, order.ErrRefundReasonRequired),
		errors.Is(err, order.ErrOrderNumberIsRequired),
		errors.Is(err, order.ErrItemsAreRequired),
		errors.Is(err, order.ErrDeliveryAddressRequired),
		errors.Is(err, driver.ErrNameIsRequired):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// badRequest is the response for malformed bodies and parameters that never
// reach a command constructor.
func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
