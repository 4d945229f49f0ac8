package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	plain := New(ErrCodeTenantMissing, "no tenant domain bound to session", http.StatusUnauthorized)
	assert.Equal(t, "TENANT_MISSING: no tenant domain bound to session", plain.Error())

	cause := stderrors.New("connection refused")
	wrapped := Transport(cause, "token endpoint unreachable")
	assert.Contains(t, wrapped.Error(), "TRANSPORT_ERROR")
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	wrapped := Internal(cause)

	assert.True(t, stderrors.Is(wrapped, cause))
}

func TestAsAppError(t *testing.T) {
	appErr := Unauthorized("authentication required")
	chained := fmt.Errorf("handler: %w", appErr)

	got := AsAppError(chained)
	assert.Equal(t, ErrCodeUnauthorized, got.Code)
	assert.Equal(t, http.StatusUnauthorized, got.StatusCode)

	plain := stderrors.New("something else")
	got = AsAppError(plain)
	assert.Equal(t, ErrCodeInternalError, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.StatusCode)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ValidationFailed(stderrors.New("missing field"))))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(InvalidCredentials(nil)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(stderrors.New("unknown")))
}

func TestWithContext(t *testing.T) {
	err := TenantMissing().WithContext("path", "/acme/dashboard")
	assert.Equal(t, "/acme/dashboard", err.Context["path"])
}
