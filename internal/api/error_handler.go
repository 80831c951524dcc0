package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tablekit/staff-auth/internal/api/metrics"
	"github.com/tablekit/staff-auth/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Detail string `json:"detail"`
}

// errorMapping describes how a domain error is rendered. A non-empty reason
// also counts the error as an access rejection.
type errorMapping struct {
	err    error
	status int
	detail string
	reason string
}

var errorMappings = []errorMapping{
	{domain.ErrInvalidCredentials, http.StatusBadRequest, "Invalid login or password", ""},
	{domain.ErrDuplicateUser, http.StatusBadRequest, "User already exists", ""},
	{domain.ErrTokenInvalid, http.StatusUnauthorized, "Could not validate credentials", "token_invalid"},
	{domain.ErrInsufficientScope, http.StatusUnauthorized, "Not enough permissions", "insufficient_scope"},
	{domain.ErrSessionSuperseded, http.StatusUnauthorized, "Session expired", "session_superseded"},
	{domain.ErrForbiddenRootDelete, http.StatusForbidden, "Root administrator cannot be deleted", "forbidden_root_delete"},
	{domain.ErrForbiddenSelfDelete, http.StatusForbidden, "You cannot delete your own account", "forbidden_self_delete"},
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found", ""},
	{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "Too many failed login attempts", ""},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Adds a Bearer challenge to every 401.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"detail": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if code == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Detail: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			if m.reason != "" {
				metrics.AuthRejectionsTotal.WithLabelValues(m.reason).Inc()
			}
			return m.status, m.detail
		}
	}

	// Validation failures carry their own message.
	if errors.Is(err, domain.ErrInvalidRole) || errors.Is(err, domain.ErrInvalidInput) {
		return http.StatusBadRequest, err.Error()
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
