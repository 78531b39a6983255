package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"socialsync/internal/feedback"
	"socialsync/internal/guard"
	"socialsync/internal/metrics"
	"socialsync/internal/model"
	"socialsync/internal/observe"
)

// FeedAPI is the part of the backend a feed needs.
type FeedAPI interface {
	ListPosts(ctx context.Context) ([]model.Post, error)
	ListPostsByUsername(ctx context.Context, username string) ([]model.Post, error)
	CreatePost(ctx context.Context, in model.CreatePostInput) (*model.Post, error)
	UpdatePost(ctx context.Context, postID int64, in model.UpdatePostInput) (*model.Post, error)
	DeletePost(ctx context.Context, postID int64) error
	Like(ctx context.Context, postID int64) error
	Unlike(ctx context.Context, postID int64) error
}

// newPostKey is the posting guard key of a post being created.
const newPostKey int64 = 0

// FeedStore holds the posts of one feed scope. Every scope gets its own
// store; the same post id held by two stores is two independent copies.
type FeedStore struct {
	scope    model.FeedScope
	api      FeedAPI
	graph    *GraphStore
	identity Identity
	feedback feedback.Reporter
	log      zerolog.Logger

	liking  *guard.Guard
	posting *guard.Guard

	mu     sync.RWMutex
	posts  []model.Post
	loaded bool

	observers observe.Set[[]model.Post]
}

func NewFeedStore(
	scope model.FeedScope,
	api FeedAPI,
	graph *GraphStore,
	identity Identity,
	fb feedback.Reporter,
	log zerolog.Logger,
) *FeedStore {
	return &FeedStore{
		scope:    scope,
		api:      api,
		graph:    graph,
		identity: identity,
		feedback: fb,
		log:      log.With().Str("component", "FeedStore").Str("scope", scope.Key()).Logger(),
		liking:   guard.New(guard.KindLiking),
		posting:  guard.New(guard.KindPosting),
	}
}

func (f *FeedStore) Scope() model.FeedScope {
	return f.scope
}

// LoadFeed fetches the scope's posts and replaces the list. For the
// subscriptions scope the follow set is loaded first and the global list is
// filtered by followed author, keeping the backend's order. A failed load
// leaves the current list as it was.
func (f *FeedStore) LoadFeed(ctx context.Context) ([]model.Post, error) {
	posts, err := f.fetch(ctx)
	metrics.FeedLoads.WithLabelValues(f.scope.Kind, outcome(err)).Inc()
	if err != nil {
		f.log.Warn().Err(err).Msg("LoadFeed FAILED")
		switch {
		case errors.Is(err, model.ErrSubscriptionsUnavailable):
			f.feedback.Error("Failed to load your subscriptions")
		default:
			f.feedback.Error(feedback.ErrorText(err, "Failed to load posts"))
		}
		return nil, err
	}

	visible := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if p.Hidden {
			continue
		}
		visible = append(visible, p)
	}

	f.mu.Lock()
	f.posts = visible
	f.loaded = true
	snap := f.snapshotLocked()
	version := f.observers.Stamp()
	f.mu.Unlock()

	f.log.Debug().Int("count", len(visible)).Msg("LoadFeed OK")
	f.observers.Publish(version, snap)
	return clonePosts(snap), nil
}

func (f *FeedStore) fetch(ctx context.Context) ([]model.Post, error) {
	if err := f.scope.Validate(); err != nil {
		return nil, err
	}

	switch f.scope.Kind {
	case model.ScopeUser:
		posts, err := f.api.ListPostsByUsername(ctx, f.scope.Username)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrPostsUnavailable, err)
		}
		return posts, nil

	case model.ScopeSubscriptions:
		if f.graph == nil {
			return nil, fmt.Errorf("%w: no social graph", model.ErrSubscriptionsUnavailable)
		}
		if err := f.graph.Load(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrSubscriptionsUnavailable, err)
		}
		followed := f.graph.FollowedIDs()

		posts, err := f.api.ListPosts(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrPostsUnavailable, err)
		}
		filtered := make([]model.Post, 0, len(posts))
		for _, p := range posts {
			if _, ok := followed[p.AuthorID]; ok {
				filtered = append(filtered, p)
			}
		}
		return filtered, nil

	default:
		posts, err := f.api.ListPosts(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrPostsUnavailable, err)
		}
		return posts, nil
	}
}

// Like likes postID once the backend confirms it.
func (f *FeedStore) Like(ctx context.Context, postID int64) error {
	return f.setLiked(ctx, postID, true)
}

// Unlike removes the like on postID once the backend confirms it.
func (f *FeedStore) Unlike(ctx context.Context, postID int64) error {
	return f.setLiked(ctx, postID, false)
}

// ToggleLike flips the like state of postID.
func (f *FeedStore) ToggleLike(ctx context.Context, postID int64) error {
	post, ok := f.Post(postID)
	if !ok {
		return fmt.Errorf("toggle like %d: %w", postID, model.ErrPostNotLoaded)
	}
	return f.setLiked(ctx, postID, !post.IsLiked)
}

func (f *FeedStore) setLiked(ctx context.Context, postID int64, liked bool) error {
	if err := requireLogin(f.identity, f.feedback, "like posts"); err != nil {
		return err
	}

	return f.liking.Do(postID, func() error {
		var err error
		if liked {
			err = f.api.Like(ctx, postID)
		} else {
			err = f.api.Unlike(ctx, postID)
		}
		metrics.ObserveMutation(guard.KindLiking, err)

		if err != nil {
			f.log.Warn().Err(err).Int64("post_id", postID).Bool("liked", liked).Msg("setLiked FAILED")
			if liked {
				f.feedback.Error(feedback.ErrorText(err, "Failed to like post"))
			} else {
				f.feedback.Error(feedback.ErrorText(err, "Failed to unlike post"))
			}
			return fmt.Errorf("set liked %d: %w", postID, err)
		}

		// The post may have left the list while the call was in flight.
		_ = f.mutatePost(postID, func(p *model.Post) {
			applyLike(p, liked)
		})
		if liked {
			f.feedback.Success("Post liked")
		} else {
			f.feedback.Success("Like removed")
		}
		return nil
	})
}

// applyLike moves p to the intended like state. The count moves only when
// the state actually changes, so a repeated response is not applied twice.
func applyLike(p *model.Post, liked bool) {
	if p.IsLiked == liked {
		return
	}
	p.IsLiked = liked
	if liked {
		p.LikesCount++
	} else {
		p.LikesCount--
	}
	if p.LikesCount < 0 {
		p.LikesCount = 0
	}
}

// CreatePost publishes a post and puts it at the top of the list.
func (f *FeedStore) CreatePost(ctx context.Context, in model.CreatePostInput) (*model.Post, error) {
	if err := model.Validate(in); err != nil {
		f.feedback.Error(model.ValidationMessage(err))
		return nil, err
	}
	if err := requireLogin(f.identity, f.feedback, "create posts"); err != nil {
		return nil, err
	}

	var created *model.Post
	err := f.posting.Do(newPostKey, func() error {
		post, err := f.api.CreatePost(ctx, in)
		metrics.ObserveMutation(guard.KindPosting, err)
		if err != nil {
			f.log.Warn().Err(err).Msg("CreatePost FAILED")
			f.feedback.Error(feedback.ErrorText(err, "Failed to create post"))
			return fmt.Errorf("create post: %w", err)
		}

		f.mu.Lock()
		f.posts = append([]model.Post{post.Clone()}, f.posts...)
		snap := f.snapshotLocked()
		version := f.observers.Stamp()
		f.mu.Unlock()

		f.log.Info().Int64("post_id", post.ID).Msg("CreatePost OK")
		f.observers.Publish(version, snap)
		f.feedback.Success("Post created")
		created = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdatePost edits a post and merges the returned fields into the local entry.
// Like state, counters and the loaded comment thread stay as they are.
func (f *FeedStore) UpdatePost(ctx context.Context, postID int64, in model.UpdatePostInput) error {
	if err := model.Validate(in); err != nil {
		f.feedback.Error(model.ValidationMessage(err))
		return err
	}
	if err := requireLogin(f.identity, f.feedback, "edit posts"); err != nil {
		return err
	}

	return f.posting.Do(postID, func() error {
		updated, err := f.api.UpdatePost(ctx, postID, in)
		metrics.ObserveMutation(guard.KindPosting, err)
		if err != nil {
			f.log.Warn().Err(err).Int64("post_id", postID).Msg("UpdatePost FAILED")
			f.feedback.Error(feedback.ErrorText(err, "Failed to update post"))
			return fmt.Errorf("update post %d: %w", postID, err)
		}

		_ = f.mutatePost(postID, func(p *model.Post) {
			mergePost(p, *updated, in)
		})
		f.feedback.Success("Post updated")
		return nil
	})
}

// mergePost copies the fields present in the response onto p. Fields the
// response leaves empty fall back to what was submitted, then to p itself.
func mergePost(p *model.Post, resp model.Post, in model.UpdatePostInput) {
	switch {
	case resp.Title != "":
		p.Title = resp.Title
	case in.Title != "":
		p.Title = in.Title
	}
	switch {
	case resp.Content != "":
		p.Content = resp.Content
	case in.Content != "":
		p.Content = in.Content
	}
	if resp.Media != nil {
		p.Media = append([]model.Media(nil), resp.Media...)
	}
	if resp.AuthorUsername != "" {
		p.AuthorUsername = resp.AuthorUsername
	}
	if resp.AuthorAvatarURL != "" {
		p.AuthorAvatarURL = resp.AuthorAvatarURL
	}
}

// DeletePost deletes the current user's post and removes it from this list.
func (f *FeedStore) DeletePost(ctx context.Context, postID int64) error {
	if err := requireLogin(f.identity, f.feedback, "delete posts"); err != nil {
		return err
	}
	return f.posting.Do(postID, func() error {
		err := f.api.DeletePost(ctx, postID)
		metrics.ObserveMutation(guard.KindPosting, err)
		if err != nil {
			f.log.Warn().Err(err).Int64("post_id", postID).Msg("DeletePost FAILED")
			f.feedback.Error(feedback.ErrorText(err, "Failed to delete post"))
			return fmt.Errorf("delete post %d: %w", postID, err)
		}

		f.RemoveLocal(postID)
		f.feedback.Success("Post deleted")
		return nil
	})
}

// RemoveLocal drops postID from this store only. Other scopes keep their copy
// until they reload.
func (f *FeedStore) RemoveLocal(postID int64) bool {
	f.mu.Lock()
	idx := f.indexLocked(postID)
	if idx < 0 {
		f.mu.Unlock()
		return false
	}
	f.posts = append(f.posts[:idx:idx], f.posts[idx+1:]...)
	snap := f.snapshotLocked()
	version := f.observers.Stamp()
	f.mu.Unlock()

	f.observers.Publish(version, snap)
	return true
}

// mutatePost runs fn on the stored post and notifies observers. It returns
// model.ErrPostNotLoaded when the post is not in the list.
func (f *FeedStore) mutatePost(postID int64, fn func(p *model.Post)) error {
	f.mu.Lock()
	idx := f.indexLocked(postID)
	if idx < 0 {
		f.mu.Unlock()
		return model.ErrPostNotLoaded
	}
	fn(&f.posts[idx])
	snap := f.snapshotLocked()
	version := f.observers.Stamp()
	f.mu.Unlock()

	f.observers.Publish(version, snap)
	return nil
}

func (f *FeedStore) indexLocked(postID int64) int {
	for i := range f.posts {
		if f.posts[i].ID == postID {
			return i
		}
	}
	return -1
}

func (f *FeedStore) snapshotLocked() []model.Post {
	return clonePosts(f.posts)
}

// Posts returns a copy of the list.
func (f *FeedStore) Posts() []model.Post {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshotLocked()
}

// Post returns a copy of one post.
func (f *FeedStore) Post(postID int64) (model.Post, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	idx := f.indexLocked(postID)
	if idx < 0 {
		return model.Post{}, false
	}
	return f.posts[idx].Clone(), true
}

// Loaded reports whether LoadFeed has succeeded at least once.
func (f *FeedStore) Loaded() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loaded
}

// LikePending reports whether a like change for postID is in flight.
func (f *FeedStore) LikePending(postID int64) bool {
	return f.liking.InFlight(postID)
}

// Subscribe registers fn for every list change and returns the unsubscribe func.
func (f *FeedStore) Subscribe(fn func([]model.Post)) func() {
	return f.observers.Add(fn)
}

func (f *FeedStore) Close() {
	f.observers.Clear()
}

func clonePosts(posts []model.Post) []model.Post {
	out := make([]model.Post, len(posts))
	for i := range posts {
		out[i] = posts[i].Clone()
	}
	return out
}

func outcome(err error) string {
	if err != nil {
		return metrics.OutcomeFailure
	}
	return metrics.OutcomeSuccess
}

// requireLogin reports an error outcome and returns model.ErrLoginRequired
// when nobody is logged in.
func requireLogin(identity Identity, fb feedback.Reporter, action string) error {
	if _, err := identity.CurrentUserID(); err != nil {
		fb.Error("Please log in to " + action)
		return err
	}
	return nil
}
