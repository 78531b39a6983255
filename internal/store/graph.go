package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"socialsync/internal/feedback"
	"socialsync/internal/guard"
	"socialsync/internal/metrics"
	"socialsync/internal/model"
	"socialsync/internal/observe"
)

// GraphAPI is the part of the backend the social graph needs.
type GraphAPI interface {
	MySubscriptions(ctx context.Context) ([]model.Subscription, error)
	Follow(ctx context.Context, userID int64) error
	Unfollow(ctx context.Context, userID int64) error
	Followers(ctx context.Context, username string) ([]model.Subscription, error)
	Following(ctx context.Context, username string) ([]model.Subscription, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

// GraphSnapshot is a consistent copy of the graph state. Following holds
// exactly the users in FollowedIDs, and no user is in both Following and
// Suggestions.
type GraphSnapshot struct {
	FollowedIDs []int64         `json:"followedUserIds"`
	Following   []model.UserRef `json:"followingUsers"`
	Suggestions []model.UserRef `json:"suggestions"`
}

// Follows reports whether userID is in the followed set.
func (s GraphSnapshot) Follows(userID int64) bool {
	for _, id := range s.FollowedIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// GraphStore is the single source of truth for whom the current user follows.
type GraphStore struct {
	api      GraphAPI
	identity Identity
	feedback feedback.Reporter
	guard    *guard.Guard
	log      zerolog.Logger

	mu          sync.RWMutex
	followed    map[int64]struct{}
	following   []model.UserRef
	directory   []model.UserRef
	suggestions []model.UserRef

	observers observe.Set[GraphSnapshot]
}

func NewGraphStore(api GraphAPI, identity Identity, fb feedback.Reporter, log zerolog.Logger) *GraphStore {
	return &GraphStore{
		api:      api,
		identity: identity,
		feedback: fb,
		guard:    guard.New(guard.KindFollowing),
		log:      log.With().Str("component", "GraphStore").Logger(),
		followed: make(map[int64]struct{}),
	}
}

// Load replaces the followed set and the following list with the backend's
// current subscriptions in a single update.
func (s *GraphStore) Load(ctx context.Context) error {
	subs, err := s.api.MySubscriptions(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Load FAILED")
		return fmt.Errorf("load subscriptions: %w", err)
	}

	followed := make(map[int64]struct{}, len(subs))
	following := make([]model.UserRef, 0, len(subs))
	for _, sub := range subs {
		if _, dup := followed[sub.TargetID]; dup {
			continue
		}
		followed[sub.TargetID] = struct{}{}
		following = append(following, sub.Target())
	}

	s.mu.Lock()
	s.followed = followed
	s.following = following
	s.recomputeLocked()
	snap := s.snapshotLocked()
	version := s.observers.Stamp()
	s.mu.Unlock()

	s.log.Debug().Int("following", len(following)).Msg("Load OK")
	s.observers.Publish(version, snap)
	return nil
}

// LoadDirectory fetches the user directory the suggestions are drawn from.
func (s *GraphStore) LoadDirectory(ctx context.Context) error {
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("LoadDirectory FAILED")
		return fmt.Errorf("load users: %w", err)
	}

	directory := make([]model.UserRef, 0, len(users))
	for _, u := range users {
		directory = append(directory, u.Ref())
	}

	s.mu.Lock()
	s.directory = directory
	s.recomputeLocked()
	snap := s.snapshotLocked()
	version := s.observers.Stamp()
	s.mu.Unlock()

	s.observers.Publish(version, snap)
	return nil
}

// Follow follows user once the backend confirms it.
func (s *GraphStore) Follow(ctx context.Context, user model.UserRef) error {
	return s.setFollowing(ctx, user, true)
}

// Unfollow unfollows user once the backend confirms it.
func (s *GraphStore) Unfollow(ctx context.Context, user model.UserRef) error {
	return s.setFollowing(ctx, user, false)
}

// Toggle follows user if not followed yet, otherwise unfollows.
func (s *GraphStore) Toggle(ctx context.Context, user model.UserRef) error {
	return s.setFollowing(ctx, user, !s.IsFollowing(user.ID))
}

func (s *GraphStore) setFollowing(ctx context.Context, user model.UserRef, follow bool) error {
	me, err := s.identity.CurrentUserID()
	if err != nil {
		s.feedback.Error("Please log in to follow users")
		return err
	}
	if follow && user.ID == me {
		s.feedback.Error("You cannot follow yourself")
		return fmt.Errorf("%w: %w", model.ErrValidation, model.ErrCannotFollowSelf)
	}

	return s.guard.Do(user.ID, func() error {
		var err error
		if follow {
			err = s.api.Follow(ctx, user.ID)
		} else {
			err = s.api.Unfollow(ctx, user.ID)
		}
		metrics.ObserveMutation(guard.KindFollowing, err)

		if err != nil {
			s.log.Warn().Err(err).Int64("user_id", user.ID).Bool("follow", follow).Msg("setFollowing FAILED")
			if follow {
				s.feedback.Error(feedback.ErrorText(err, "Failed to follow "+user.Username))
				return fmt.Errorf("follow user %d: %w", user.ID, err)
			}
			s.feedback.Error(feedback.ErrorText(err, "Failed to unfollow "+user.Username))
			return fmt.Errorf("unfollow user %d: %w", user.ID, err)
		}

		s.apply(user, follow)
		if follow {
			s.feedback.Success("You are now following " + user.Username)
		} else {
			s.feedback.Success("You unfollowed " + user.Username)
		}
		return nil
	})
}

// apply sets the membership of user to follow in one update. Applying the
// state the store already has changes nothing.
func (s *GraphStore) apply(user model.UserRef, follow bool) {
	s.mu.Lock()
	_, has := s.followed[user.ID]
	switch {
	case follow && !has:
		s.followed[user.ID] = struct{}{}
		s.following = append(s.following, user)
	case !follow && has:
		delete(s.followed, user.ID)
		kept := s.following[:0:0]
		for _, u := range s.following {
			if u.ID != user.ID {
				kept = append(kept, u)
			}
		}
		s.following = kept
	default:
		s.mu.Unlock()
		return
	}
	s.recomputeLocked()
	snap := s.snapshotLocked()
	version := s.observers.Stamp()
	s.mu.Unlock()

	s.log.Debug().Int64("user_id", user.ID).Bool("follow", follow).Msg("apply OK")
	s.observers.Publish(version, snap)
}

// recomputeLocked derives suggestions from the directory and the followed set.
func (s *GraphStore) recomputeLocked() {
	me, _ := s.identity.CurrentUserID()
	suggestions := make([]model.UserRef, 0, len(s.directory))
	for _, u := range s.directory {
		if u.ID == me {
			continue
		}
		if _, ok := s.followed[u.ID]; ok {
			continue
		}
		suggestions = append(suggestions, u)
	}
	s.suggestions = suggestions
}

func (s *GraphStore) snapshotLocked() GraphSnapshot {
	ids := make([]int64, 0, len(s.following))
	for _, u := range s.following {
		ids = append(ids, u.ID)
	}
	return GraphSnapshot{
		FollowedIDs: ids,
		Following:   append([]model.UserRef(nil), s.following...),
		Suggestions: append([]model.UserRef(nil), s.suggestions...),
	}
}

// IsFollowing reports whether the current user follows userID.
func (s *GraphStore) IsFollowing(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.followed[userID]
	return ok
}

// FollowedIDs returns a copy of the followed set.
func (s *GraphStore) FollowedIDs() map[int64]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]struct{}, len(s.followed))
	for id := range s.followed {
		out[id] = struct{}{}
	}
	return out
}

func (s *GraphStore) Snapshot() GraphSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Pending reports whether a follow change for userID is in flight.
func (s *GraphStore) Pending(userID int64) bool {
	return s.guard.InFlight(userID)
}

// Followers lists the users following username.
func (s *GraphStore) Followers(ctx context.Context, username string) ([]model.UserRef, error) {
	subs, err := s.api.Followers(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get followers of %s: %w", username, err)
	}
	refs := make([]model.UserRef, 0, len(subs))
	for _, sub := range subs {
		refs = append(refs, sub.Subscriber())
	}
	return refs, nil
}

// Following lists the users username follows.
func (s *GraphStore) Following(ctx context.Context, username string) ([]model.UserRef, error) {
	subs, err := s.api.Following(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get following of %s: %w", username, err)
	}
	refs := make([]model.UserRef, 0, len(subs))
	for _, sub := range subs {
		refs = append(refs, sub.Target())
	}
	return refs, nil
}

// Subscribe registers fn for every graph change and returns the unsubscribe func.
func (s *GraphStore) Subscribe(fn func(GraphSnapshot)) func() {
	return s.observers.Add(fn)
}

// Close drops all observers.
func (s *GraphStore) Close() {
	s.observers.Clear()
}
