package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"socialsync/internal/model"
	"socialsync/internal/observe"
)

// ProfileAPI is the part of the backend a profile page needs.
type ProfileAPI interface {
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	FollowerCount(ctx context.Context, username string) (int, error)
	Following(ctx context.Context, username string) ([]model.Subscription, error)
}

// Profile is the header of a user's profile page.
type Profile struct {
	User           model.User `json:"user"`
	FollowerCount  int        `json:"followerCount"`
	FollowingCount int        `json:"followingCount"`
	IsFollowing    bool       `json:"isFollowing"`
	IsOwn          bool       `json:"isOwn"`
}

// ProfileStore keeps one profile header in step with the social graph: when
// the viewer follows or unfollows the profile user through any view, the
// follower count moves by exactly one.
type ProfileStore struct {
	api      ProfileAPI
	graph    *GraphStore
	identity Identity
	log      zerolog.Logger

	mu      sync.RWMutex
	profile *Profile

	unsubscribe func()
	observers   observe.Set[Profile]
}

func NewProfileStore(api ProfileAPI, graph *GraphStore, identity Identity, log zerolog.Logger) *ProfileStore {
	p := &ProfileStore{
		api:      api,
		graph:    graph,
		identity: identity,
		log:      log.With().Str("component", "ProfileStore").Logger(),
	}
	p.unsubscribe = graph.Subscribe(p.onGraphChange)
	return p
}

// Load fetches the user, the follower count and the following list in
// parallel and replaces the held profile.
func (p *ProfileStore) Load(ctx context.Context, username string) (Profile, error) {
	var (
		user      *model.User
		followers int
		following []model.Subscription
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = p.api.GetUserByUsername(gctx, username)
		return err
	})
	g.Go(func() error {
		var err error
		followers, err = p.api.FollowerCount(gctx, username)
		return err
	})
	g.Go(func() error {
		var err error
		following, err = p.api.Following(gctx, username)
		return err
	})
	if err := g.Wait(); err != nil {
		p.log.Warn().Err(err).Str("username", username).Msg("Load FAILED")
		return Profile{}, fmt.Errorf("load profile %s: %w", username, err)
	}

	me, _ := p.identity.CurrentUserID()
	prof := Profile{
		User:           *user,
		FollowerCount:  followers,
		FollowingCount: len(following),
		IsFollowing:    p.graph.IsFollowing(user.ID),
		IsOwn:          me != 0 && me == user.ID,
	}

	p.mu.Lock()
	p.profile = &prof
	version := p.observers.Stamp()
	p.mu.Unlock()

	p.log.Debug().Str("username", username).Int("followers", followers).Msg("Load OK")
	p.observers.Publish(version, prof)
	return prof, nil
}

func (p *ProfileStore) onGraphChange(snap GraphSnapshot) {
	p.mu.Lock()
	if p.profile == nil {
		p.mu.Unlock()
		return
	}
	now := snap.Follows(p.profile.User.ID)
	if now == p.profile.IsFollowing {
		p.mu.Unlock()
		return
	}
	p.profile.IsFollowing = now
	if now {
		p.profile.FollowerCount++
	} else if p.profile.FollowerCount > 0 {
		p.profile.FollowerCount--
	}
	prof := *p.profile
	version := p.observers.Stamp()
	p.mu.Unlock()

	p.observers.Publish(version, prof)
}

// Current returns the held profile, if loaded.
func (p *ProfileStore) Current() (Profile, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.profile == nil {
		return Profile{}, false
	}
	return *p.profile, true
}

func (p *ProfileStore) Subscribe(fn func(Profile)) func() {
	return p.observers.Add(fn)
}

// Close detaches the store from the social graph.
func (p *ProfileStore) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
	p.observers.Clear()
}
