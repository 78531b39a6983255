package handler

import (
	"net/http"

	"socialsync/internal/httputil"
	"socialsync/internal/model"
)

// FollowHandler exposes the social graph of the current user.
type FollowHandler struct{}

func NewFollowHandler() *FollowHandler {
	return &FollowHandler{}
}

// followRequest carries the display fields of the user being followed so the
// following list can show them without another lookup.
type followRequest struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
}

func userRefFromRequest(w http.ResponseWriter, r *http.Request) (model.UserRef, bool) {
	userID, ok := parseID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return model.UserRef{}, false
	}
	var req followRequest
	if !decodeJSON(w, r, &req) {
		return model.UserRef{}, false
	}
	return model.UserRef{ID: userID, Username: req.Username, AvatarURL: req.AvatarURL}, true
}

// Snapshot handles GET /graph
func (h *FollowHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Graph.Snapshot())
}

// Reload handles POST /graph/reload
// Re-fetches both the subscriptions and the user directory.
func (h *FollowHandler) Reload(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	if err := sess.Graph.Load(r.Context()); err != nil {
		httputil.WriteStoreError(w, err, "Failed to load subscriptions")
		return
	}
	if err := sess.Graph.LoadDirectory(r.Context()); err != nil {
		httputil.WriteStoreError(w, err, "Failed to load users")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Graph.Snapshot())
}

// Follow handles POST /graph/following/{id}
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	user, ok := userRefFromRequest(w, r)
	if !ok {
		return
	}

	if err := sess.Graph.Follow(r.Context(), user); err != nil {
		httputil.WriteStoreError(w, err, "Failed to follow user")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Graph.Snapshot())
}

// Unfollow handles DELETE /graph/following/{id}
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	user, ok := userRefFromRequest(w, r)
	if !ok {
		return
	}

	if err := sess.Graph.Unfollow(r.Context(), user); err != nil {
		httputil.WriteStoreError(w, err, "Failed to unfollow user")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Graph.Snapshot())
}

// Toggle handles POST /graph/following/{id}/toggle
func (h *FollowHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	user, ok := userRefFromRequest(w, r)
	if !ok {
		return
	}

	if err := sess.Graph.Toggle(r.Context(), user); err != nil {
		httputil.WriteStoreError(w, err, "Failed to update subscription")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Graph.Snapshot())
}
