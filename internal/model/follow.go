package model

import (
	"errors"
	"time"
)

// Subscription is a follow edge as returned by /api/subscriptions.
type Subscription struct {
	ID                  int64     `json:"id"`
	SubscriberID        int64     `json:"subscriberId"`
	SubscriberUsername  string    `json:"subscriberUsername"`
	SubscriberAvatarURL string    `json:"subscriberAvatarUrl,omitempty"`
	TargetID            int64     `json:"targetId"`
	TargetUsername      string    `json:"targetUsername"`
	TargetAvatarURL     string    `json:"targetAvatarUrl,omitempty"`
	CreatedAt           time.Time `json:"createdAt,omitempty"`
}

// Target returns the followed side of the edge.
func (s Subscription) Target() UserRef {
	return UserRef{ID: s.TargetID, Username: s.TargetUsername, AvatarURL: s.TargetAvatarURL}
}

// Subscriber returns the following side of the edge.
func (s Subscription) Subscriber() UserRef {
	return UserRef{ID: s.SubscriberID, Username: s.SubscriberUsername, AvatarURL: s.SubscriberAvatarURL}
}

// CountResponse is the {"count": n} shape used by count endpoints.
type CountResponse struct {
	Count int `json:"count"`
}

var (
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
)
