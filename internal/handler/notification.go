package handler

import (
	"net/http"

	"socialsync/internal/httputil"
	"socialsync/internal/store"
)

// NotificationHandler exposes the notification list and the unread badge.
type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

func badgeState(b *store.BadgeStore) store.BadgeState {
	return store.BadgeState{
		UnreadCount:   b.Count(),
		Notifications: b.Notifications(),
	}
}

// Badge handles GET /notifications/badge
// Returns the last fetched count without contacting the backend.
func (h *NotificationHandler) Badge(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"count": sess.Badge.Count()})
}

// Open handles POST /notifications/open
// Loads the notification list and refreshes the badge.
func (h *NotificationHandler) Open(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	if _, err := sess.Badge.OnOpenNotifications(r.Context()); err != nil {
		httputil.WriteStoreError(w, err, "Failed to load notifications")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, badgeState(sess.Badge))
}

// Activity handles POST /notifications/activity
// Reports session activity; the badge refreshes at most once per interval.
func (h *NotificationHandler) Activity(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	refreshed := sess.Badge.OnActivity(r.Context())
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"count":     sess.Badge.Count(),
		"refreshed": refreshed,
	})
}

// MarkRead handles POST /notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.setRead(w, r, true)
}

// MarkUnread handles POST /notifications/{id}/unread
func (h *NotificationHandler) MarkUnread(w http.ResponseWriter, r *http.Request) {
	h.setRead(w, r, false)
}

func (h *NotificationHandler) setRead(w http.ResponseWriter, r *http.Request, read bool) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	id, ok := parseID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid notification ID")
		return
	}

	var err error
	if read {
		err = sess.Badge.MarkAsRead(r.Context(), id)
	} else {
		err = sess.Badge.MarkAsUnread(r.Context(), id)
	}
	if err != nil {
		httputil.WriteStoreError(w, err, "Failed to update notification")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, badgeState(sess.Badge))
}

// MarkAllRead handles POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	if err := sess.Badge.MarkAllAsRead(r.Context()); err != nil {
		httputil.WriteStoreError(w, err, "Failed to mark notifications as read")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, badgeState(sess.Badge))
}
