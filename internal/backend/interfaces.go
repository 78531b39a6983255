package backend

import (
	"context"

	"socialsync/internal/model"
)

// The stores depend on these narrow interfaces rather than on *Client so
// tests can swap in mocks.

type AuthAPI interface {
	Login(ctx context.Context, in model.LoginInput) (*model.LoginResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*model.User, error)
}

type UserAPI interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

type SubscriptionAPI interface {
	MySubscriptions(ctx context.Context) ([]model.Subscription, error)
	Follow(ctx context.Context, userID int64) error
	Unfollow(ctx context.Context, userID int64) error
	Followers(ctx context.Context, username string) ([]model.Subscription, error)
	Following(ctx context.Context, username string) ([]model.Subscription, error)
	FollowerCount(ctx context.Context, username string) (int, error)
}

type PostAPI interface {
	ListPosts(ctx context.Context) ([]model.Post, error)
	ListPostsByUsername(ctx context.Context, username string) ([]model.Post, error)
	CreatePost(ctx context.Context, in model.CreatePostInput) (*model.Post, error)
	UpdatePost(ctx context.Context, postID int64, in model.UpdatePostInput) (*model.Post, error)
	DeletePost(ctx context.Context, postID int64) error
	Like(ctx context.Context, postID int64) error
	Unlike(ctx context.Context, postID int64) error
}

type CommentAPI interface {
	ListByPost(ctx context.Context, postID int64) ([]model.Comment, error)
	AddComment(ctx context.Context, postID int64, in model.CommentInput) (*model.Comment, error)
	UpdateComment(ctx context.Context, commentID int64, in model.CommentInput) (*model.Comment, error)
	DeleteComment(ctx context.Context, commentID int64) error
}

type NotificationAPI interface {
	ListNotifications(ctx context.Context) ([]model.Notification, error)
	MarkRead(ctx context.Context, notificationID int64) error
	MarkUnread(ctx context.Context, notificationID int64) error
	MarkAllRead(ctx context.Context) error
	UnreadCount(ctx context.Context) (int, error)
}

type ModerationAPI interface {
	HidePost(ctx context.Context, postID int64) error
	UnhidePost(ctx context.Context, postID int64) error
	AdminDeletePost(ctx context.Context, postID int64) error
	BanUser(ctx context.Context, userID int64) error
	UnbanUser(ctx context.Context, userID int64) error
	DeleteUser(ctx context.Context, userID int64) error
	ReportUser(ctx context.Context, userID int64, in model.ReportInput) (*model.Report, error)
	ReportPost(ctx context.Context, postID int64, in model.ReportInput) (*model.Report, error)
}

// API is the whole backend boundary.
type API interface {
	AuthAPI
	UserAPI
	SubscriptionAPI
	PostAPI
	CommentAPI
	NotificationAPI
	ModerationAPI
	SetToken(token string)
}
