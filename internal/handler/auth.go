package handler

import (
	"net/http"
	"time"

	"socialsync/internal/httputil"
	"socialsync/internal/model"
	"socialsync/internal/session"
)

// AuthHandler exposes login, logout and the current session.
type AuthHandler struct {
	sessions *session.Manager
}

func NewAuthHandler(sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
	}
}

type sessionResponse struct {
	User        model.User `json:"user"`
	CanModerate bool       `json:"canModerate"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

func toSessionResponse(sess *session.Session) sessionResponse {
	resp := sessionResponse{
		User:        sess.User,
		CanModerate: sess.CanModerate(),
	}
	if !sess.ExpiresAt.IsZero() {
		exp := sess.ExpiresAt
		resp.ExpiresAt = &exp
	}
	return resp
}

// Login handles POST /session/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in model.LoginInput
	if !decodeJSON(w, r, &in) {
		return
	}

	sess, err := h.sessions.Login(r.Context(), in)
	if err != nil {
		httputil.WriteStoreError(w, err, "Login failed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(sess))
}

// Logout handles POST /session/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		httputil.WriteStoreError(w, err, "Logout failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

// Me handles GET /session
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(sess))
}
