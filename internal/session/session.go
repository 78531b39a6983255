// Package session owns the per-login lifecycle: it authenticates against the
// backend, builds a fresh set of stores for the user and tears them down on
// logout.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"socialsync/internal/backend"
	"socialsync/internal/feedback"
	"socialsync/internal/model"
	"socialsync/internal/store"
)

// Options tune the stores built for each session.
type Options struct {
	ActivityRefreshInterval time.Duration
}

// Session is the state of one logged-in user. All stores are created at login
// and closed at logout.
type Session struct {
	User      model.User
	Token     string
	Role      string
	ExpiresAt time.Time

	Graph     *store.GraphStore
	Profile   *store.ProfileStore
	Badge     *store.BadgeStore
	Confirm   *store.ConfirmQueue
	Moderator *store.Moderator

	api      backend.API
	identity store.Identity
	feedback feedback.Reporter
	log      zerolog.Logger

	mu    sync.Mutex
	feeds map[string]*ScopedFeed
}

// ScopedFeed is the feed store of one scope together with its comment threads.
type ScopedFeed struct {
	Feed     *store.FeedStore
	Comments *store.CommentCache
}

// CanModerate reports whether moderation actions should be offered. The
// backend still decides whether they are allowed.
func (s *Session) CanModerate() bool {
	return s.User.IsAdmin() || s.Role == model.RoleAdmin
}

// Feed returns the store for scope, creating it on first use. Asking for the
// same scope again returns the same store.
func (s *Session) Feed(scope model.FeedScope) (*ScopedFeed, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := scope.Key()
	if sf, ok := s.feeds[key]; ok {
		return sf, nil
	}
	f := store.NewFeedStore(scope, s.api, s.Graph, s.identity, s.feedback, s.log)
	sf := &ScopedFeed{
		Feed:     f,
		Comments: store.NewCommentCache(f, s.api, s.identity, s.feedback, s.log),
	}
	s.feeds[key] = sf
	return sf, nil
}

// Feeds returns every feed store created so far.
func (s *Session) Feeds() []*store.FeedStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*store.FeedStore, 0, len(s.feeds))
	for _, sf := range s.feeds {
		out = append(out, sf.Feed)
	}
	return out
}

func (s *Session) close() {
	s.mu.Lock()
	feeds := s.feeds
	s.feeds = map[string]*ScopedFeed{}
	s.mu.Unlock()

	for _, sf := range feeds {
		sf.Feed.Close()
	}
	s.Profile.Close()
	s.Graph.Close()
	s.Badge.Close()
	s.Confirm.Close()
}

// Manager holds the current session, if any.
type Manager struct {
	api      backend.API
	feedback feedback.Reporter
	opts     Options
	log      zerolog.Logger
	now      func() time.Time

	mu      sync.RWMutex
	current *Session
}

var _ store.Identity = (*Manager)(nil)

func NewManager(api backend.API, fb feedback.Reporter, opts Options, log zerolog.Logger) *Manager {
	return &Manager{
		api:      api,
		feedback: fb,
		opts:     opts,
		log:      log.With().Str("component", "Session").Logger(),
		now:      time.Now,
	}
}

// Login authenticates, builds the session's stores and bootstraps them.
// Bootstrap failures are logged; the session stays usable and the affected
// store can be reloaded.
func (m *Manager) Login(ctx context.Context, in model.LoginInput) (*Session, error) {
	if err := model.Validate(in); err != nil {
		m.feedback.Error(model.ValidationMessage(err))
		return nil, err
	}

	res, err := m.api.Login(ctx, in)
	if err != nil {
		m.log.Warn().Err(err).Str("username", in.Username).Msg("Login FAILED")
		m.feedback.Error(feedback.ErrorText(err, "Invalid username or password"))
		return nil, fmt.Errorf("login: %w", err)
	}
	m.api.SetToken(res.Token)

	claims := parseClaims(res.Token)
	if !claims.ExpiresAt.IsZero() && !m.now().Before(claims.ExpiresAt) {
		m.api.SetToken("")
		m.feedback.Error("Your session has expired, please log in again")
		return nil, fmt.Errorf("login: token expired: %w", model.ErrUnauthorized)
	}

	me, err := m.api.Me(ctx)
	if err != nil {
		m.api.SetToken("")
		m.log.Warn().Err(err).Msg("Me FAILED")
		m.feedback.Error(feedback.ErrorText(err, "Failed to load your account"))
		return nil, fmt.Errorf("get current user: %w", err)
	}

	sess := m.build(*me, res.Token, claims)

	m.mu.Lock()
	prev := m.current
	m.current = sess
	m.mu.Unlock()
	if prev != nil {
		prev.close()
	}

	g := new(errgroup.Group)
	g.Go(func() error { return sess.Graph.Load(ctx) })
	g.Go(func() error { return sess.Graph.LoadDirectory(ctx) })
	g.Go(func() error { return sess.Badge.OnLogin(ctx) })
	if err := g.Wait(); err != nil {
		m.log.Warn().Err(err).Int64("user_id", me.ID).Msg("bootstrap FAILED")
	}

	m.log.Info().Int64("user_id", me.ID).Str("username", me.Username).Msg("Login OK")
	m.feedback.Success("Welcome, " + me.Username)
	return sess, nil
}

func (m *Manager) build(user model.User, token string, claims tokenClaims) *Session {
	role := claims.Role
	if role == "" {
		role = user.Role
	}
	sess := &Session{
		User:      user,
		Token:     token,
		Role:      role,
		ExpiresAt: claims.ExpiresAt,
		api:       m.api,
		identity:  m,
		feedback:  m.feedback,
		log:       m.log,
		feeds:     make(map[string]*ScopedFeed),
	}
	sess.Graph = store.NewGraphStore(m.api, m, m.feedback, m.log)
	sess.Profile = store.NewProfileStore(m.api, sess.Graph, m, m.log)
	sess.Badge = store.NewBadgeStore(m.api, m, m.feedback, m.opts.ActivityRefreshInterval, m.log)
	sess.Confirm = store.NewConfirmQueue(m.log)
	sess.Moderator = store.NewModerator(m.api, sess.Confirm, m, m.feedback, m.log)
	return sess
}

// Logout ends the session. The backend call is best effort; local state is
// always dropped.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	sess := m.current
	m.current = nil
	m.mu.Unlock()

	if sess == nil {
		return model.ErrLoginRequired
	}

	if err := m.api.Logout(ctx); err != nil {
		m.log.Warn().Err(err).Int64("user_id", sess.User.ID).Msg("Logout FAILED")
	}
	m.api.SetToken("")
	sess.close()

	m.log.Info().Int64("user_id", sess.User.ID).Msg("Logout OK")
	m.feedback.Info("You have been logged out")
	return nil
}

// Current returns the active session or model.ErrLoginRequired. A session
// whose token has expired counts as logged out.
func (m *Manager) Current() (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, model.ErrLoginRequired
	}
	if exp := m.current.ExpiresAt; !exp.IsZero() && !m.now().Before(exp) {
		return nil, model.ErrLoginRequired
	}
	return m.current, nil
}

// RequireLogin returns model.ErrLoginRequired when no session is active.
func (m *Manager) RequireLogin() error {
	_, err := m.Current()
	return err
}

// CurrentUserID implements store.Identity.
func (m *Manager) CurrentUserID() (int64, error) {
	sess, err := m.Current()
	if err != nil {
		return 0, err
	}
	return sess.User.ID, nil
}

// CanModerate reports whether the current user should be offered moderation.
func (m *Manager) CanModerate() bool {
	sess, err := m.Current()
	return err == nil && sess.CanModerate()
}

// Feed returns the current session's store for scope.
func (m *Manager) Feed(scope model.FeedScope) (*ScopedFeed, error) {
	sess, err := m.Current()
	if err != nil {
		return nil, err
	}
	return sess.Feed(scope)
}

// tokenClaims are the parts of the session token the client reads. The
// token is not verified here; the backend verifies it on every request.
type tokenClaims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

func parseClaims(token string) tokenClaims {
	var out tokenClaims
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return out
	}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if role, ok := claims["role"].(string); ok {
		out.Role = role
	}
	return out
}
