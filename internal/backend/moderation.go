package backend

import (
	"context"
	"fmt"
	"net/http"

	"socialsync/internal/model"
)

// Admin endpoints. The backend enforces the role; the client only hides the
// actions from non-admins.

func (c *Client) HidePost(ctx context.Context, postID int64) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/admin/posts/%d/hide", postID), nil, nil)
}

func (c *Client) UnhidePost(ctx context.Context, postID int64) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/admin/posts/%d/unhide", postID), nil, nil)
}

func (c *Client) AdminDeletePost(ctx context.Context, postID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/posts/%d", postID), nil, nil)
}

func (c *Client) BanUser(ctx context.Context, userID int64) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/admin/users/%d/ban", userID), nil, nil)
}

func (c *Client) UnbanUser(ctx context.Context, userID int64) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/admin/users/%d/unban", userID), nil, nil)
}

func (c *Client) DeleteUser(ctx context.Context, userID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", userID), nil, nil)
}

func (c *Client) ReportUser(ctx context.Context, userID int64, in model.ReportInput) (*model.Report, error) {
	var report reportDTO
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/reports/users/%d", userID), in, &report); err != nil {
		return nil, err
	}
	return report.toModel(), nil
}

func (c *Client) ReportPost(ctx context.Context, postID int64, in model.ReportInput) (*model.Report, error) {
	var report reportDTO
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/reports/posts/%d", postID), in, &report); err != nil {
		return nil, err
	}
	return report.toModel(), nil
}
