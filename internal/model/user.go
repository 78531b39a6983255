package model

import (
	"errors"
	"time"
)

// Roles returned by the backend.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// UserRef is the immutable, display-only reference to a user.
type UserRef struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// User is the full user record returned by /auth/me and the user directory.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Role      string    `json:"role,omitempty"`
	Banned    bool      `json:"banned"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Ref returns the display reference for u.
func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
}

// IsAdmin reports whether the role grants moderation capability.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// LoginInput is the credential pair sent to /auth/login.
type LoginInput struct {
	Username string `json:"username" validate:"required,max=20"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the backend's login response.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")
)
