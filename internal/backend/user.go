package backend

import (
	"context"
	"net/http"
	"net/url"

	"socialsync/internal/model"
)

// ListUsers returns the full user directory used for follow suggestions.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var dtos []userDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/users", nil, &dtos); err != nil {
		return nil, err
	}
	users := make([]model.User, len(dtos))
	for i, d := range dtos {
		users[i] = d.toModel()
	}
	return users, nil
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var dto userDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/username/"+url.PathEscape(username), nil, &dto); err != nil {
		return nil, err
	}
	user := dto.toModel()
	return &user, nil
}
