package common

import (
	"encoding/json"
	"go-finance-api/logger"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Machine-readable reasons carried next to the human message. Clients rely on
// ReasonTokenExpired vs ReasonInvalidToken to choose between refresh and re-login.
const (
	ReasonValidation         = "validation_error"
	ReasonInvalidCredentials = "invalid_credentials"
	ReasonTokenRequired      = "token_required"
	ReasonTokenExpired       = "token_expired"
	ReasonInvalidToken       = "invalid_token"
	ReasonAccountDeactivated = "account_deactivated"
	ReasonForbidden          = "forbidden"
	ReasonNotFound           = "not_found"
	ReasonConflict           = "conflict"
	ReasonRateLimited        = "rate_limited"
	ReasonInternal           = "internal_error"
)

type AppError struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Reason:  defaultReason(code),
		Message: message,
		Err:     err,
	}
}

// WithReason overrides the reason derived from the status code.
func (e *AppError) WithReason(reason string) *AppError {
	e.Reason = reason
	return e
}

func BadRequest(message string, err error) *AppError {
	return NewAppError(http.StatusBadRequest, message, err)
}

func Unauthorized(reason, message string, err error) *AppError {
	return NewAppError(http.StatusUnauthorized, message, err).WithReason(reason)
}

func Forbidden(reason, message string, err error) *AppError {
	return NewAppError(http.StatusForbidden, message, err).WithReason(reason)
}

func NotFound(message string, err error) *AppError {
	return NewAppError(http.StatusNotFound, message, err)
}

func Conflict(message string, err error) *AppError {
	return NewAppError(http.StatusConflict, message, err)
}

// Internal hides the cause from the caller; it is only logged.
func Internal(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "Internal server error", err)
}

func defaultReason(code int) string {
	switch code {
	case http.StatusBadRequest:
		return ReasonValidation
	case http.StatusUnauthorized:
		return ReasonInvalidToken
	case http.StatusForbidden:
		return ReasonForbidden
	case http.StatusNotFound:
		return ReasonNotFound
	case http.StatusConflict:
		return ReasonConflict
	case http.StatusTooManyRequests:
		return ReasonRateLimited
	default:
		return ReasonInternal
	}
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		entry := logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"reason":         e.Reason,
			"internal_error": e.Err.Error(),
		})
		if e.Code >= http.StatusInternalServerError {
			entry.Error(e.Message)
		} else {
			entry.Warn(e.Message)
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}

// WriteJSON writes payload with the given status code.
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
