package handler

import (
	"net/http"

	"socialsync/internal/httputil"
	"socialsync/internal/model"
)

// CommentHandler drives the comment threads of a scope's posts.
type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

type threadResponse struct {
	Visible  bool            `json:"visible"`
	Comments []model.Comment `json:"comments"`
	Count    int             `json:"commentsCount"`
}

// Toggle handles POST /feeds/{scope}/posts/{id}/comments/toggle
// Shows or hides the thread, fetching it on first reveal only.
func (h *CommentHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	sf, ok := scopedFeed(w, r)
	if !ok {
		return
	}
	postID, ok := parseID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	visible, err := sf.Comments.Toggle(r.Context(), postID)
	if err != nil {
		httputil.WriteStoreError(w, err, "Failed to load comments")
		return
	}

	post, _ := sf.Feed.Post(postID)
	httputil.WriteJSON(w, http.StatusOK, threadResponse{
		Visible:  visible,
		Comments: post.Comments,
		Count:    post.CommentsCount,
	})
}

// Create handles POST /feeds/{scope}/posts/{id}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	sf, ok := scopedFeed(w, r)
	if !ok {
		return
	}
	postID, ok := parseID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}
	var in model.CommentInput
	if !decodeJSON(w, r, &in) {
		return
	}

	comment, err := sf.Comments.Add(r.Context(), postID, in)
	if err != nil {
		httputil.WriteStoreError(w, err, "Failed to add comment")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// Update handles PUT /feeds/{scope}/posts/{id}/comments/{commentID}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	sf, ok := scopedFeed(w, r)
	if !ok {
		return
	}
	postID, ok := parseID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}
	commentID, ok := parseID(r, "commentID")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}
	var in model.CommentInput
	if !decodeJSON(w, r, &in) {
		return
	}

	if err := sf.Comments.Update(r.Context(), postID, commentID, in); err != nil {
		httputil.WriteStoreError(w, err, "Failed to update comment")
		return
	}
	writePost(w, sf.Feed.Post, postID)
}

// Delete handles DELETE /feeds/{scope}/posts/{id}/comments/{commentID}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sf, ok := scopedFeed(w, r)
	if !ok {
		return
	}
	postID, ok := parseID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}
	commentID, ok := parseID(r, "commentID")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	if err := sf.Comments.Delete(r.Context(), postID, commentID); err != nil {
		httputil.WriteStoreError(w, err, "Failed to delete comment")
		return
	}
	writePost(w, sf.Feed.Post, postID)
}
