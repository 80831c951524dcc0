package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tablekit/staff-auth/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		detail string
	}{
		{domain.ErrInvalidCredentials, http.StatusBadRequest, "Invalid login or password"},
		{domain.ErrDuplicateUser, http.StatusBadRequest, "User already exists"},
		{domain.ErrTokenInvalid, http.StatusUnauthorized, "Could not validate credentials"},
		{domain.ErrInsufficientScope, http.StatusUnauthorized, "Not enough permissions"},
		{domain.ErrSessionSuperseded, http.StatusUnauthorized, "Session expired"},
		{domain.ErrForbiddenRootDelete, http.StatusForbidden, "Root administrator cannot be deleted"},
		{domain.ErrForbiddenSelfDelete, http.StatusForbidden, "You cannot delete your own account"},
		{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "Too many failed login attempts"},
		{fmt.Errorf("%w: \"OWNER\"", domain.ErrInvalidRole), http.StatusBadRequest, "invalid role: \"OWNER\""},
		{echo.NewHTTPError(http.StatusNotFound, "Not Found"), http.StatusNotFound, "Not Found"},
		{errors.New("db exploded"), http.StatusInternalServerError, "internal server error"},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	e := echo.New()
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		h(tc.err, c)

		if rec.Code != tc.status {
			t.Errorf("%v: status = %d, want %d", tc.err, rec.Code, tc.status)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%v: invalid json: %v", tc.err, err)
		}
		if body["detail"] != tc.detail {
			t.Errorf("%v: detail = %q, want %q", tc.err, body["detail"], tc.detail)
		}

		challenge := rec.Header().Get(echo.HeaderWWWAuthenticate)
		if tc.status == http.StatusUnauthorized && challenge != "Bearer" {
			t.Errorf("%v: missing Bearer challenge", tc.err)
		}
		if tc.status != http.StatusUnauthorized && challenge != "" {
			t.Errorf("%v: unexpected challenge %q", tc.err, challenge)
		}
	}
}
