package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	apperrors "github.com/dtapi/booking-api/internal/errors"
)

// successEnvelope and errorEnvelope are the two shapes of every booking API response.
type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// successResponse writes {"success":true,"data":...}. A zero status means 200.
func successResponse(w http.ResponseWriter, data any, status int) {
	if status == 0 {
		status = http.StatusOK
	}
	WriteJSON(w, status, successEnvelope{Success: true, Data: data})
}

// errorResponse writes {"success":false,"error":...}. A zero status means 500.
func errorResponse(w http.ResponseWriter, message string, status int) {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	WriteJSON(w, status, errorEnvelope{Success: false, Error: message})
}

// statusFor maps an application error code to an HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeValidation, apperrors.ErrCodeForeignKey:
		return http.StatusBadRequest
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeCanceled:
		return http.StatusRequestTimeout
	case apperrors.ErrCodeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// failureParams groups the inputs of writeFailure.
type failureParams struct {
	Prefix string
	Err    error
	Logger *slog.Logger
}

// writeFailure renders err with the operation prefix, e.g. "Error storing job: ...".
// Application errors show their message; other errors are logged and shown as is.
func writeFailure(w http.ResponseWriter, r *http.Request, p failureParams) {
	status := statusFor(p.Err)
	msg := p.Err.Error()
	var appErr *apperrors.AppError
	if errors.As(p.Err, &appErr) && status != http.StatusInternalServerError {
		msg = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		logger := p.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", p.Err,
		)
	}
	errorResponse(w, p.Prefix+msg, status)
}

// DecodeJSON decodes the request body into dst, capped at maxBytes. An empty
// body leaves dst untouched. On failure a 400 envelope has been written.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) bool {
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}
	body := http.MaxBytesReader(w, r.Body, maxBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		errorResponse(w, fmt.Sprintf("Invalid JSON body: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// client went away
		return
	}
}
