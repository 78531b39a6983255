package handler

import (
	"net/http"

	"socialsync/internal/feedback"
	"socialsync/internal/httputil"
)

// FeedbackHandler exposes the outcome message slot.
type FeedbackHandler struct {
	center *feedback.Center
}

func NewFeedbackHandler(center *feedback.Center) *FeedbackHandler {
	return &FeedbackHandler{
		center: center,
	}
}

type feedbackResponse struct {
	Current *feedback.Message  `json:"current"`
	History []feedback.Message `json:"history"`
}

// Get handles GET /feedback
func (h *FeedbackHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp := feedbackResponse{History: h.center.History()}
	if msg, ok := h.center.Current(); ok {
		resp.Current = &msg
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// Dismiss handles DELETE /feedback
func (h *FeedbackHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.center.Clear()
	w.WriteHeader(http.StatusNoContent)
}
