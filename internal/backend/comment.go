package backend

import (
	"context"
	"fmt"
	"net/http"

	"socialsync/internal/model"
)

// ListByPost returns the full comment thread of a post. A post without
// comments yields an empty, non-nil slice.
func (c *Client) ListByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	var dtos []commentDTO
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/comments/post/%d", postID), nil, &dtos); err != nil {
		return nil, err
	}
	comments := make([]model.Comment, len(dtos))
	for i, d := range dtos {
		comments[i] = d.toModel()
	}
	return comments, nil
}

func (c *Client) AddComment(ctx context.Context, postID int64, in model.CommentInput) (*model.Comment, error) {
	var dto commentDTO
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/comments/post/%d", postID), in, &dto); err != nil {
		return nil, err
	}
	comment := dto.toModel()
	return &comment, nil
}

func (c *Client) UpdateComment(ctx context.Context, commentID int64, in model.CommentInput) (*model.Comment, error) {
	var dto commentDTO
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/comments/%d", commentID), in, &dto); err != nil {
		return nil, err
	}
	comment := dto.toModel()
	return &comment, nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/comments/%d", commentID), nil, nil)
}
