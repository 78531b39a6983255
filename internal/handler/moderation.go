package handler

import (
	"net/http"

	"socialsync/internal/httputil"
	"socialsync/internal/model"
)

// ModerationHandler stages admin actions on the confirmation queue, resolves
// the queue and files reports.
type ModerationHandler struct{}

func NewModerationHandler() *ModerationHandler {
	return &ModerationHandler{}
}

// HidePost handles POST /moderation/posts/{id}/hide
// Stages the action; it runs on POST /confirmation/confirm.
func (h *ModerationHandler) HidePost(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	postID, ok := parseID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, sess.Moderator.StageHidePost(postID, sess.Feeds()...))
}

// DeletePost handles POST /moderation/posts/{id}/delete
func (h *ModerationHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	postID, ok := parseID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, sess.Moderator.StageDeletePost(postID, sess.Feeds()...))
}

// UnhidePost handles POST /moderation/posts/{id}/unhide
func (h *ModerationHandler) UnhidePost(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	postID, ok := parseID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}
	if err := sess.Moderator.UnhidePost(r.Context(), postID); err != nil {
		httputil.WriteStoreError(w, err, "Failed to unhide post")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, messageResponse{Message: "Post is visible again"})
}

// BanUser handles POST /moderation/users/{id}/ban
func (h *ModerationHandler) BanUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	user, ok := userRefFromRequest(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, sess.Moderator.StageBanUser(user))
}

// DeleteUser handles POST /moderation/users/{id}/delete
func (h *ModerationHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	user, ok := userRefFromRequest(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, sess.Moderator.StageDeleteUser(user))
}

// UnbanUser handles POST /moderation/users/{id}/unban
func (h *ModerationHandler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	user, ok := userRefFromRequest(w, r)
	if !ok {
		return
	}
	if err := sess.Moderator.UnbanUser(r.Context(), user); err != nil {
		httputil.WriteStoreError(w, err, "Failed to unban user")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, messageResponse{Message: "User unbanned"})
}

// Pending handles GET /confirmation
func (h *ModerationHandler) Pending(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	pending, staged := sess.Confirm.Pending()
	if !staged {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pending)
}

type confirmRequest struct {
	ID string `json:"id"`
}

// Confirm handles POST /confirmation/confirm
// With an id in the body only that staged entry is confirmed.
func (h *ModerationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	var req confirmRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var err error
	if req.ID != "" {
		err = sess.Confirm.ConfirmID(r.Context(), req.ID)
	} else {
		err = sess.Confirm.Confirm(r.Context())
	}
	if err != nil {
		httputil.WriteStoreError(w, err, "Action failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, messageResponse{Message: "Done"})
}

// Cancel handles POST /confirmation/cancel
func (h *ModerationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	sess.Confirm.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

// ReportUser handles POST /reports/users/{id}
func (h *ModerationHandler) ReportUser(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "user")
}

// ReportPost handles POST /reports/posts/{id}
func (h *ModerationHandler) ReportPost(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "post")
}

func (h *ModerationHandler) report(w http.ResponseWriter, r *http.Request, target string) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	id, ok := parseID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid "+target+" ID")
		return
	}
	var in model.ReportInput
	if !decodeJSON(w, r, &in) {
		return
	}

	var (
		report *model.Report
		err    error
	)
	if target == "user" {
		report, err = sess.Moderator.ReportUser(r.Context(), id, in)
	} else {
		report, err = sess.Moderator.ReportPost(r.Context(), id, in)
	}
	if err != nil {
		httputil.WriteStoreError(w, err, "Failed to submit report")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, report)
}
