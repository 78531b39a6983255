package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"socialsync/internal/model"
)

// MySubscriptions returns the follow edges of the current user.
func (c *Client) MySubscriptions(ctx context.Context) ([]model.Subscription, error) {
	var subs []subscriptionDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/subscriptions", nil, &subs); err != nil {
		return nil, err
	}
	return subscriptionsToModels(subs), nil
}

func (c *Client) Follow(ctx context.Context, userID int64) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/subscriptions/%d", userID), nil, nil)
}

func (c *Client) Unfollow(ctx context.Context, userID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/subscriptions/%d", userID), nil, nil)
}

// Followers returns the edges pointing at username.
func (c *Client) Followers(ctx context.Context, username string) ([]model.Subscription, error) {
	var subs []subscriptionDTO
	path := "/api/subscriptions/" + url.PathEscape(username) + "/subscribers"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &subs); err != nil {
		return nil, err
	}
	return subscriptionsToModels(subs), nil
}

// Following returns the edges leaving username.
func (c *Client) Following(ctx context.Context, username string) ([]model.Subscription, error) {
	var subs []subscriptionDTO
	path := "/api/subscriptions/" + url.PathEscape(username) + "/following"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &subs); err != nil {
		return nil, err
	}
	return subscriptionsToModels(subs), nil
}

func (c *Client) FollowerCount(ctx context.Context, username string) (int, error) {
	var resp model.CountResponse
	path := "/api/subscriptions/" + url.PathEscape(username) + "/followers"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}
