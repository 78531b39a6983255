package model

import (
	"errors"
	"fmt"
	"time"
)

// Post is a feed entry with its embedded, locally mutable interaction state.
type Post struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Media           []Media   `json:"media,omitempty"`
	AuthorID        int64     `json:"authorId"`
	AuthorUsername  string    `json:"authorUsername"`
	AuthorAvatarURL string    `json:"authorAvatarUrl,omitempty"`
	LikesCount      int       `json:"likesCount"`
	CommentsCount   int       `json:"commentsCount"`
	IsLiked         bool      `json:"isLiked"`
	Hidden          bool      `json:"hidden"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`

	// Comments stays nil until the thread is expanded. A non-nil empty
	// slice means the thread was loaded and has no comments.
	Comments []Comment `json:"comments"`
}

// Media is a single attachment of a post.
type Media struct {
	URL  string `json:"url"`
	Type string `json:"type"` // "IMAGE" or "VIDEO"
}

// Clone returns a deep copy of p, preserving nil vs empty Comments.
func (p Post) Clone() Post {
	c := p
	if p.Media != nil {
		c.Media = append([]Media(nil), p.Media...)
	}
	if p.Comments != nil {
		c.Comments = append(make([]Comment, 0, len(p.Comments)), p.Comments...)
	}
	return c
}

// CommentsLoaded reports whether the comment thread has been fetched.
func (p Post) CommentsLoaded() bool {
	return p.Comments != nil
}

// CreatePostInput is the body sent when creating a post.
type CreatePostInput struct {
	Title   string `json:"title" validate:"required,notblank,max=200"`
	Content string `json:"content" validate:"required,notblank,max=2200"`
}

// UpdatePostInput carries the fields to change; empty fields are left as is.
type UpdatePostInput struct {
	Title   string `json:"title,omitempty" validate:"required_without=Content,omitempty,notblank,max=200"`
	Content string `json:"content,omitempty" validate:"required_without=Title,omitempty,notblank,max=2200"`
}

// Feed scope kinds
const (
	ScopeGlobal        = "global"
	ScopeUser          = "user"
	ScopeSubscriptions = "subscriptions"
)

// FeedScope selects which posts a feed store holds.
type FeedScope struct {
	Kind     string `json:"kind"`
	Username string `json:"username,omitempty"`
}

// GlobalScope is the home feed.
func GlobalScope() FeedScope { return FeedScope{Kind: ScopeGlobal} }

// UserScope is a single author's profile feed.
func UserScope(username string) FeedScope { return FeedScope{Kind: ScopeUser, Username: username} }

// SubscriptionsScope is the followed-authors feed.
func SubscriptionsScope() FeedScope { return FeedScope{Kind: ScopeSubscriptions} }

// Key identifies the independent store instance for the scope.
func (s FeedScope) Key() string {
	if s.Kind == ScopeUser {
		return ScopeUser + ":" + s.Username
	}
	return s.Kind
}

// Validate checks the scope is one of the known kinds.
func (s FeedScope) Validate() error {
	switch s.Kind {
	case ScopeGlobal, ScopeSubscriptions:
		return nil
	case ScopeUser:
		if s.Username == "" {
			return fmt.Errorf("%w: user scope needs a username", ErrValidation)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown feed scope %q", ErrValidation, s.Kind)
	}
}

// Post errors
var (
	ErrPostNotFound             = errors.New("post not found")
	ErrPostNotLoaded            = errors.New("post not loaded in this feed")
	ErrSubscriptionsUnavailable = errors.New("failed to load subscriptions")
	ErrPostsUnavailable         = errors.New("failed to load posts")
)
