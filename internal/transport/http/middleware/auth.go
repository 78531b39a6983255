package middleware

import (
	"context"
	"net/http"

	"socialsync/internal/httputil"
	"socialsync/internal/session"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// SessionKey is the context key for the active session
	SessionKey contextKey = "session"
)

// SessionSource is what the middleware needs from the session manager.
type SessionSource interface {
	Current() (*session.Session, error)
}

// RequireSession rejects requests made while nobody is logged in and puts the
// active session into the request context.
func RequireSession(sessions SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.Current()
			if err != nil {
				httputil.WriteLoginRequired(w)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireModerator additionally rejects sessions that should not be offered
// moderation. The backend enforces the role again on every call.
func RequireModerator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := GetSessionFromContext(r.Context())
		if !ok {
			httputil.WriteLoginRequired(w)
			return
		}
		if !sess.CanModerate() {
			httputil.WriteError(w, http.StatusForbidden, httputil.ErrCodeForbidden, "Moderation requires an admin account")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext extracts the session from the request context
func GetSessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(SessionKey).(*session.Session)
	return sess, ok && sess != nil
}
