package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialsync/internal/model"
)

type humanErr struct{ msg string }

func (e humanErr) Error() string        { return "status 404: " + e.msg }
func (e humanErr) HumanMessage() string { return e.msg }
func (e humanErr) Unwrap() error        { return model.ErrNotFound }

func TestWriteStoreError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "validation message without prefix",
			err:        fmt.Errorf("%w: title is required", model.ErrValidation),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidation,
			wantMsg:    "title is required",
		},
		{
			name:       "login required",
			err:        fmt.Errorf("like: %w", model.ErrLoginRequired),
			wantStatus: http.StatusUnauthorized,
			wantCode:   ErrCodeLoginRequired,
			wantMsg:    "fallback",
		},
		{
			name:       "backend message forwarded",
			err:        fmt.Errorf("like 7: %w", humanErr{msg: "Post not found"}),
			wantStatus: http.StatusNotFound,
			wantCode:   ErrCodeNotFound,
			wantMsg:    "Post not found",
		},
		{
			name:       "post not loaded",
			err:        model.ErrPostNotLoaded,
			wantStatus: http.StatusNotFound,
			wantCode:   ErrCodeNotLoaded,
			wantMsg:    "fallback",
		},
		{
			name:       "duplicate mutation",
			err:        model.ErrMutationInFlight,
			wantStatus: http.StatusConflict,
			wantCode:   ErrCodeInFlight,
			wantMsg:    "fallback",
		},
		{
			name:       "feed source unavailable",
			err:        fmt.Errorf("%w: %w", model.ErrSubscriptionsUnavailable, model.ErrTransport),
			wantStatus: http.StatusBadGateway,
			wantCode:   ErrCodeBadGateway,
			wantMsg:    "fallback",
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrCodeInternal,
			wantMsg:    "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			WriteStoreError(rec, tt.err, "fallback")

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantMsg, body.Error.Message)
		})
	}
}
