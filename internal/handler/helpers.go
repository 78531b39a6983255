package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"socialsync/internal/httputil"
	"socialsync/internal/model"
	"socialsync/internal/session"
	"socialsync/internal/transport/http/middleware"
)

const maxBodyBytes = 1 << 20

// parseID reads a positive int64 URL parameter.
func parseID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into dst. An empty body leaves dst as is.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		httputil.WriteBadRequest(w, "Invalid request body")
		return false
	}
	return true
}

// scopeFromRequest builds the feed scope from the {scope} parameter and the
// username query value.
func scopeFromRequest(r *http.Request) model.FeedScope {
	return model.FeedScope{
		Kind:     chi.URLParam(r, "scope"),
		Username: r.URL.Query().Get("username"),
	}
}

// sessionFrom returns the session put in the context by the session middleware.
func sessionFrom(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		httputil.WriteLoginRequired(w)
		return nil, false
	}
	return sess, true
}

// scopedFeed resolves the feed store addressed by the request.
func scopedFeed(w http.ResponseWriter, r *http.Request) (*session.ScopedFeed, bool) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return nil, false
	}
	sf, err := sess.Feed(scopeFromRequest(r))
	if err != nil {
		httputil.WriteStoreError(w, err, "Unknown feed")
		return nil, false
	}
	return sf, true
}

type messageResponse struct {
	Message string `json:"message"`
}
