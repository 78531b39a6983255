package model

import (
	"errors"
	"time"
)

// Comment is owned by exactly one post.
type Comment struct {
	ID             int64     `json:"id"`
	PostID         int64     `json:"postId,omitempty"`
	Content        string    `json:"content"`
	AuthorUsername string    `json:"commentUsername"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty"`
}

// CommentInput is the request body for creating or editing a comment.
type CommentInput struct {
	Content string `json:"content" validate:"required,notblank,max=2200"`
}

// Comment errors
var (
	ErrCommentNotFound = errors.New("comment not found")
)
