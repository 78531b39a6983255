package backend

import (
	"context"
	"fmt"
	"net/http"

	"socialsync/internal/model"
)

func (c *Client) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	var dtos []notificationDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/notifications", nil, &dtos); err != nil {
		return nil, err
	}
	notifications := make([]model.Notification, len(dtos))
	for i, d := range dtos {
		notifications[i] = d.Notification
		notifications[i].CreatedAt = d.CreatedAt.Time
	}
	return notifications, nil
}

func (c *Client) MarkRead(ctx context.Context, notificationID int64) error {
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", notificationID), nil, nil)
}

func (c *Client) MarkUnread(ctx context.Context, notificationID int64) error {
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/api/notifications/%d/unread", notificationID), nil, nil)
}

func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/notifications/read-all", nil, nil)
}

// UnreadCount returns the server-side unread count for the badge.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp model.CountResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/notifications/unread-count", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}
