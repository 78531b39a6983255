package handler

import (
	"net/http"

	"socialsync/internal/httputil"
)

// FeedHandler serves the per-scope feed stores. {scope} is one of global,
// user or subscriptions; the user scope takes ?username=.
type FeedHandler struct{}

func NewFeedHandler() *FeedHandler {
	return &FeedHandler{}
}

// GetFeed handles GET /feeds/{scope}
// Returns the posts the store currently holds, loading them on first use.
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	sf, ok := scopedFeed(w, r)
	if !ok {
		return
	}

	if !sf.Feed.Loaded() {
		posts, err := sf.Feed.LoadFeed(r.Context())
		if err != nil {
			httputil.WriteStoreError(w, err, "Failed to load posts")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, posts)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sf.Feed.Posts())
}

// Reload handles POST /feeds/{scope}/reload
func (h *FeedHandler) Reload(w http.ResponseWriter, r *http.Request) {
	sf, ok := scopedFeed(w, r)
	if !ok {
		return
	}

	posts, err := sf.Feed.LoadFeed(r.Context())
	if err != nil {
		httputil.WriteStoreError(w, err, "Failed to load posts")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, posts)
}
