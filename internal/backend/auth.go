package backend

import (
	"context"
	"net/http"

	"socialsync/internal/model"
)

func (c *Client) Login(ctx context.Context, in model.LoginInput) (*model.LoginResult, error) {
	var result loginDTO
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", in, &result); err != nil {
		return nil, err
	}
	return &model.LoginResult{Token: result.Token, User: result.User.toModel()}, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var dto userDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &dto); err != nil {
		return nil, err
	}
	user := dto.toModel()
	return &user, nil
}
