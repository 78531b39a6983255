package backend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"socialsync/internal/model"
)

// APIError is a non-2xx backend response. Message is the backend's
// human-readable text and is forwarded to the user as is.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// HumanMessage returns the text meant for the user.
func (e *APIError) HumanMessage() string {
	return e.Message
}

// Unwrap maps the status onto the shared error taxonomy so callers can use
// errors.Is(err, model.ErrNotFound) and friends.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return model.ErrUnauthorized
	case http.StatusForbidden:
		return model.ErrForbidden
	case http.StatusNotFound:
		return model.ErrNotFound
	case http.StatusConflict:
		return model.ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return model.ErrValidation
	default:
		return nil
	}
}

// errorBody accepts the shapes the backend uses for errors:
// {"message": "..."}, {"error": "..."} and {"error": {"code", "message"}}.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

func newAPIError(method, path string, resp *http.Response) *APIError {
	apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}
	apiErr.Message = body.Message

	if len(body.Error) > 0 {
		var text string
		if err := json.Unmarshal(body.Error, &text); err == nil {
			if apiErr.Message == "" {
				apiErr.Message = text
			}
			return apiErr
		}
		var detail struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body.Error, &detail); err == nil && detail.Message != "" {
			apiErr.Message = detail.Message
		}
	}
	return apiErr
}

func transportError(method, path string, err error) error {
	return fmt.Errorf("%s %s: %w: %v", method, path, model.ErrTransport, err)
}
