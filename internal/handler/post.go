package handler

import (
	"net/http"

	"socialsync/internal/httputil"
	"socialsync/internal/model"
)

// PostHandler mutates posts through the feed store of the addressed scope.
type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

// Create handles POST /feeds/{scope}/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	sf, ok := scopedFeed(w, r)
	if !ok {
		return
	}
	var in model.CreatePostInput
	if !decodeJSON(w, r, &in) {
		return
	}

	post, err := sf.Feed.CreatePost(r.Context(), in)
	if err != nil {
		httputil.WriteStoreError(w, err, "Failed to create post")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, post)
}

// Update handles PATCH /feeds/{scope}/posts/{id}
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	sf, ok := scopedFeed(w, r)
	if !ok {
		return
	}
	postID, ok := parseID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}
	var in model.UpdatePostInput
	if !decodeJSON(w, r, &in) {
		return
	}

	if err := sf.Feed.UpdatePost(r.Context(), postID, in); err != nil {
		httputil.WriteStoreError(w, err, "Failed to update post")
		return
	}
	writePost(w, sf.Feed.Post, postID)
}

// Delete handles DELETE /feeds/{scope}/posts/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sf, ok := scopedFeed(w, r)
	if !ok {
		return
	}
	postID, ok := parseID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	if err := sf.Feed.DeletePost(r.Context(), postID); err != nil {
		httputil.WriteStoreError(w, err, "Failed to delete post")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Like handles POST /feeds/{scope}/posts/{id}/like
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.like(w, r, "like")
}

// Unlike handles DELETE /feeds/{scope}/posts/{id}/like
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.like(w, r, "unlike")
}

// ToggleLike handles POST /feeds/{scope}/posts/{id}/like/toggle
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	h.like(w, r, "toggle")
}

func (h *PostHandler) like(w http.ResponseWriter, r *http.Request, op string) {
	sf, ok := scopedFeed(w, r)
	if !ok {
		return
	}
	postID, ok := parseID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	var err error
	switch op {
	case "like":
		err = sf.Feed.Like(r.Context(), postID)
	case "unlike":
		err = sf.Feed.Unlike(r.Context(), postID)
	default:
		err = sf.Feed.ToggleLike(r.Context(), postID)
	}
	if err != nil {
		httputil.WriteStoreError(w, err, "Failed to update like")
		return
	}
	writePost(w, sf.Feed.Post, postID)
}

// writePost writes the store's current copy of postID, or 204 when the post
// left the list in the meantime.
func writePost(w http.ResponseWriter, get func(int64) (model.Post, bool), postID int64) {
	post, ok := get(postID)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, post)
}
