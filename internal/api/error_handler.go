package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/alkewallet/wallet-service/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ie *domain.InputError
	if errors.As(err, &ie) {
		return http.StatusBadRequest, errorResponse{Error: ie.Field + " " + ie.Reason, Field: ie.Field}
	}

	if code, ok := statusFor(err); ok {
		return code, errorResponse{Error: publicMessage(err)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

var domainStatus = []struct {
	err  error
	code int
}{
	{domain.ErrInvalidInput, http.StatusBadRequest},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrIdentityNotFound, http.StatusNotFound},
	{domain.ErrContactNotFound, http.StatusNotFound},
	{domain.ErrDuplicateUsername, http.StatusConflict},
	{domain.ErrDuplicateEmail, http.StatusConflict},
	{domain.ErrDuplicateContact, http.StatusConflict},
	{domain.ErrInsufficientFunds, http.StatusConflict},
	{domain.ErrInvalidAmount, http.StatusUnprocessableEntity},
	{domain.ErrAmountExceedsLimit, http.StatusUnprocessableEntity},
	{domain.ErrMissingPaymentMethod, http.StatusUnprocessableEntity},
	{domain.ErrMissingConcept, http.StatusUnprocessableEntity},
	{domain.ErrNoRecipientSelected, http.StatusUnprocessableEntity},
}

func statusFor(err error) (int, bool) {
	for _, m := range domainStatus {
		if errors.Is(err, m.err) {
			return m.code, true
		}
	}
	return 0, false
}

// publicMessage returns the sentinel text rather than the wrapped chain, so
// internal context such as "deposit: post transaction:" never reaches clients.
func publicMessage(err error) string {
	for _, m := range domainStatus {
		if errors.Is(err, m.err) {
			return m.err.Error()
		}
	}
	return err.Error()
}
