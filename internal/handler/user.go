package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"socialsync/internal/httputil"
)

// UserHandler serves profile pages and other users' follow lists.
type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// GetProfile handles GET /users/{username}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	profile, err := sess.Profile.Load(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httputil.WriteStoreError(w, err, "Failed to load profile")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}

// GetFollowers handles GET /users/{username}/followers
func (h *UserHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	users, err := sess.Graph.Followers(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httputil.WriteStoreError(w, err, "Failed to get followers")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

// GetFollowing handles GET /users/{username}/following
func (h *UserHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	users, err := sess.Graph.Following(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httputil.WriteStoreError(w, err, "Failed to get following")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}
