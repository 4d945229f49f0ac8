package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"console-core/app/domain"
	"console-core/app/driver/backrest"
	apperrors "console-core/app/utils/errors"
	"console-core/app/utils/validator"
)

// validationResponse renders a validation failure as a 400 with per-field
// messages.
func validationResponse(c echo.Context, err error) error {
	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error":  "Validation failed",
			"code":   "VALIDATION_FAILED",
			"fields": verr.Errors,
		})
	}
	return c.JSON(http.StatusBadRequest, map[string]any{
		"error": "Validation failed",
		"code":  "VALIDATION_FAILED",
	})
}

// apiErrorResponse maps backend and application errors onto HTTP responses.
// Backend error statuses pass through; transport failures surface as 502.
func apiErrorResponse(c echo.Context, logger *slog.Logger, err error) error {
	if errors.Is(err, domain.ErrTenantMissing) {
		return c.JSON(http.StatusConflict, map[string]any{
			"error": "No tenant context bound to the session",
			"code":  "TENANT_MISSING",
		})
	}

	var apiErr *backrest.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		if status == 0 {
			status = http.StatusBadGateway
		}
		return c.JSON(status, map[string]any{
			"error": apiErr.Reason(),
			"code":  "BACKEND_ERROR",
		})
	}

	if appErr := apperrors.AsAppError(err); appErr != nil {
		return c.JSON(appErr.StatusCode, map[string]any{
			"error": appErr.Message,
			"code":  string(appErr.Code),
		})
	}

	logger.Error("unclassified error", "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]any{
		"error": "Internal server error",
		"code":  "INTERNAL_ERROR",
	})
}
