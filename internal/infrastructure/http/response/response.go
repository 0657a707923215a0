// Package response writes the JSON envelopes shared by handlers and middleware
package response

import (
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sousa/mealplan/pkg/errors"
	"go.uber.org/zap"
)

// Envelope is the success body of every API response
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// JSON writes v with the given status
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Data writes {"success":true,"data":data}
func Data(w http.ResponseWriter, status int, data interface{}) {
	JSON(w, status, Envelope{Success: true, Data: data})
}

// Message writes {"success":true,"message":msg}
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Envelope{Success: true, Message: msg})
}

// Error writes the structured error body. Errors that are not AppErrors are
// reported as internal errors without leaking their text.
func Error(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	appErr := resolve(err)
	status := appErr.StatusCode()
	logFailure(r, logger, appErr, status, err)

	body := errors.ToErrorResponse(appErr, chimiddleware.GetReqID(r.Context()))
	JSON(w, status, body)
}

// LegacyError is the flat body of the assistant endpoints:
// {"success":false,"error":"message","code":...,"details":...}
type LegacyError struct {
	Success   bool             `json:"success"`
	Error     string           `json:"error"`
	Code      errors.ErrorCode `json:"code"`
	Details   string           `json:"details,omitempty"`
	RequestID string           `json:"request_id,omitempty"`
}

// FlatError writes err in the flat string form
func FlatError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	appErr := resolve(err)
	status := appErr.StatusCode()
	logFailure(r, logger, appErr, status, err)

	JSON(w, status, LegacyError{
		Error:     appErr.Message,
		Code:      appErr.Code,
		Details:   appErr.Details,
		RequestID: chimiddleware.GetReqID(r.Context()),
	})
}

func resolve(err error) *errors.AppError {
	if appErr, ok := errors.As(err); ok {
		return appErr
	}
	return errors.NewInternalError("").WithCause(err)
}

func logFailure(r *http.Request, logger *zap.Logger, appErr *errors.AppError, status int, err error) {
	if logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("code", string(appErr.Code)),
		zap.Int("status", status),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", append(fields, zap.Error(err))...)
		return
	}
	logger.Debug("Request rejected", append(fields, zap.String("message", appErr.Message))...)
}
