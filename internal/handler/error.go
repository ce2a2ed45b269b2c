package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/qfast/qfast/internal/domain"
)

// ErrorResponse writes an error as a JSON body, mapping domain error codes
// to HTTP status codes. Validation errors carry the full violation list.
func ErrorResponse(w http.ResponseWriter, logger *slog.Logger, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		logger.Info("validation error", "op", ve.Op, "violations", len(ve.Violations))
		JSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": map[string]interface{}{
				"code":       domain.EINVALID,
				"message":    "Validation failed",
				"violations": ve.Violations,
			},
		})
		return
	}

	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)
	logError(logger, err, code, status)

	JSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": domain.ErrorMessage(err),
		},
	})
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.ETOOLARGE:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// UnauthorizedResponse is a convenience wrapper for 401 errors.
func UnauthorizedResponse(w http.ResponseWriter, logger *slog.Logger) {
	ErrorResponse(w, logger, domain.Unauthorized("", "Authentication required"))
}

// NotFoundResponse is a convenience wrapper for 404 errors.
func NotFoundResponse(w http.ResponseWriter, logger *slog.Logger) {
	ErrorResponse(w, logger, domain.Errorf(domain.ENOTFOUND, "", "The requested resource was not found"))
}

// BadRequestResponse reports an unparseable request.
func BadRequestResponse(w http.ResponseWriter, logger *slog.Logger, err error) {
	ErrorResponse(w, logger, domain.Invalid("", err.Error()))
}

// logError logs with a level matching the status class: 5xx are server
// faults, 4xx are expected client errors.
func logError(logger *slog.Logger, err error, code string, status int) {
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"status", status,
	}
	if op := domain.ErrorOp(err); op != "" {
		attrs = append(attrs, "op", op)
	}

	if status >= 500 {
		logger.Error("server error", attrs...)
	} else {
		logger.Info("client error", attrs...)
	}
}
