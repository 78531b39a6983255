package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"socialsync/internal/feedback"
	"socialsync/internal/model"
)

// Error codes of the gateway's error envelope
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeValidation    = "VALIDATION_FAILED"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeLoginRequired = "LOGIN_REQUIRED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeNotLoaded     = "NOT_LOADED"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeInFlight      = "MUTATION_IN_FLIGHT"
	ErrCodeBadGateway    = "BACKEND_UNAVAILABLE"
	ErrCodeInternal      = "INTERNAL_ERROR"
)

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error code and message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		// Headers are already sent, nothing useful to do on failure.
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes an error response:
// {"error": {"code": "ERROR_CODE", "message": "Human readable message"}}
func WriteError(w http.ResponseWriter, status int, code string, message string) {
	response := ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
	WriteJSON(w, status, response)
}

// WriteBadRequest writes a 400 Bad Request error
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// WriteUnauthorized writes a 401 Unauthorized error
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// WriteLoginRequired writes a 401 for requests made without a session
func WriteLoginRequired(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, ErrCodeLoginRequired, "Please log in first")
}

// WriteNotFound writes a 404 Not Found error
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// WriteInternalError writes a 500 Internal Server Error
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// WriteStoreError maps an error returned by a store onto the envelope. The
// backend's own message is forwarded when there is one; fallback is used
// otherwise.
func WriteStoreError(w http.ResponseWriter, err error, fallback string) {
	status, code := classify(err)
	message := feedback.ErrorText(err, fallback)
	if errors.Is(err, model.ErrValidation) {
		message = model.ValidationMessage(err)
	}
	WriteError(w, status, code, message)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, ErrCodeValidation
	case errors.Is(err, model.ErrLoginRequired):
		return http.StatusUnauthorized, ErrCodeLoginRequired
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized, ErrCodeUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, ErrCodeForbidden
	case errors.Is(err, model.ErrPostNotLoaded):
		return http.StatusNotFound, ErrCodeNotLoaded
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrNothingStaged):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, model.ErrMutationInFlight):
		return http.StatusConflict, ErrCodeInFlight
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, model.ErrTransport),
		errors.Is(err, model.ErrSubscriptionsUnavailable),
		errors.Is(err, model.ErrPostsUnavailable):
		return http.StatusBadGateway, ErrCodeBadGateway
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}
