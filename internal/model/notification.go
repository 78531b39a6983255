package model

import (
	"time"
)

// Notification types
const (
	NotificationTypeNewPost = "NEW_POST"
	NotificationTypeLike    = "LIKE"
	NotificationTypeComment = "COMMENT"
	NotificationTypeFollow  = "FOLLOW"
	NotificationTypeReport  = "REPORT"
)

// Notification is one in-app notification of the current user.
type Notification struct {
	ID             int64     `json:"id"`
	Type           string    `json:"type"`
	Message        string    `json:"message"`
	Read           bool      `json:"read"`
	PostID         *int64    `json:"postId,omitempty"`
	ActorID        *int64    `json:"actorId,omitempty"`
	ActorUsername  string    `json:"actorUsername,omitempty"`
	ActorAvatarURL string    `json:"actorAvatarUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}
