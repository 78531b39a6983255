package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"socialsync/internal/feedback"
	"socialsync/internal/guard"
	"socialsync/internal/metrics"
	"socialsync/internal/model"
)

// CommentAPI is the part of the backend comment threads need.
type CommentAPI interface {
	ListByPost(ctx context.Context, postID int64) ([]model.Comment, error)
	AddComment(ctx context.Context, postID int64, in model.CommentInput) (*model.Comment, error)
	UpdateComment(ctx context.Context, commentID int64, in model.CommentInput) (*model.Comment, error)
	DeleteComment(ctx context.Context, commentID int64) error
}

// CommentCache loads comment threads into the posts of one feed store on
// first expansion and keeps them in step with add, edit and delete.
type CommentCache struct {
	feed     *FeedStore
	api      CommentAPI
	identity Identity
	feedback feedback.Reporter
	log      zerolog.Logger

	adding  *guard.Guard // keyed by post id
	editing *guard.Guard // keyed by comment id
	fetches singleflight.Group

	mu      sync.Mutex
	visible map[int64]struct{}
}

func NewCommentCache(feed *FeedStore, api CommentAPI, identity Identity, fb feedback.Reporter, log zerolog.Logger) *CommentCache {
	return &CommentCache{
		feed:     feed,
		api:      api,
		identity: identity,
		feedback: fb,
		log:      log.With().Str("component", "CommentCache").Str("scope", feed.Scope().Key()).Logger(),
		adding:   guard.New(guard.KindCommenting),
		editing:  guard.New(guard.KindCommenting),
		visible:  make(map[int64]struct{}),
	}
}

// Toggle shows or hides the thread of postID and returns the new visibility.
func (c *CommentCache) Toggle(ctx context.Context, postID int64) (bool, error) {
	if c.IsVisible(postID) {
		c.Collapse(postID)
		return false, nil
	}
	if err := c.Expand(ctx, postID); err != nil {
		return false, err
	}
	return true, nil
}

// Expand shows the thread of postID, fetching it if it has never been
// loaded. Concurrent expansions of the same post share one fetch.
func (c *CommentCache) Expand(ctx context.Context, postID int64) error {
	post, ok := c.feed.Post(postID)
	if !ok {
		return fmt.Errorf("expand comments of %d: %w", postID, model.ErrPostNotLoaded)
	}

	c.mu.Lock()
	c.visible[postID] = struct{}{}
	c.mu.Unlock()

	if post.CommentsLoaded() {
		return nil
	}

	// The fetch is shared, so one caller giving up must not fail the others.
	fetchCtx := context.WithoutCancel(ctx)
	_, err, _ := c.fetches.Do(strconv.FormatInt(postID, 10), func() (any, error) {
		comments, err := c.api.ListByPost(fetchCtx, postID)
		if err != nil {
			return nil, err
		}
		if comments == nil {
			comments = []model.Comment{}
		}
		_ = c.feed.mutatePost(postID, func(p *model.Post) {
			if p.Comments == nil {
				p.Comments = comments
			}
		})
		return nil, nil
	})
	if err != nil {
		c.mu.Lock()
		delete(c.visible, postID)
		c.mu.Unlock()

		c.log.Warn().Err(err).Int64("post_id", postID).Msg("Expand FAILED")
		c.feedback.Error(feedback.ErrorText(err, "Failed to load comments"))
		return fmt.Errorf("load comments of %d: %w", postID, err)
	}
	return nil
}

// Collapse hides the thread of postID. The loaded comments are kept.
func (c *CommentCache) Collapse(postID int64) {
	c.mu.Lock()
	delete(c.visible, postID)
	c.mu.Unlock()
}

func (c *CommentCache) IsVisible(postID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.visible[postID]
	return ok
}

// Add posts a comment on postID and appends it to the thread.
func (c *CommentCache) Add(ctx context.Context, postID int64, in model.CommentInput) (*model.Comment, error) {
	if err := model.Validate(in); err != nil {
		c.feedback.Error(model.ValidationMessage(err))
		return nil, err
	}
	if err := requireLogin(c.identity, c.feedback, "comment"); err != nil {
		return nil, err
	}
	if _, ok := c.feed.Post(postID); !ok {
		return nil, fmt.Errorf("add comment to %d: %w", postID, model.ErrPostNotLoaded)
	}

	var added *model.Comment
	err := c.adding.Do(postID, func() error {
		comment, err := c.api.AddComment(ctx, postID, in)
		metrics.ObserveMutation(guard.KindCommenting, err)
		if err != nil {
			c.log.Warn().Err(err).Int64("post_id", postID).Msg("Add FAILED")
			c.feedback.Error(feedback.ErrorText(err, "Failed to add comment"))
			return fmt.Errorf("add comment to %d: %w", postID, err)
		}

		_ = c.feed.mutatePost(postID, func(p *model.Post) {
			// An unloaded thread stays unloaded so the first expansion
			// fetches all of it.
			if p.Comments != nil {
				p.Comments = append(p.Comments, *comment)
			}
			p.CommentsCount++
		})
		c.feedback.Success("Comment added")
		added = comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// Update edits a comment in place. The post's comment count is unchanged.
func (c *CommentCache) Update(ctx context.Context, postID, commentID int64, in model.CommentInput) error {
	if err := model.Validate(in); err != nil {
		c.feedback.Error(model.ValidationMessage(err))
		return err
	}
	if err := requireLogin(c.identity, c.feedback, "edit comments"); err != nil {
		return err
	}
	if _, ok := c.feed.Post(postID); !ok {
		return fmt.Errorf("update comment %d: %w", commentID, model.ErrPostNotLoaded)
	}

	return c.editing.Do(commentID, func() error {
		updated, err := c.api.UpdateComment(ctx, commentID, in)
		metrics.ObserveMutation(guard.KindCommenting, err)
		if err != nil {
			c.log.Warn().Err(err).Int64("comment_id", commentID).Msg("Update FAILED")
			c.feedback.Error(feedback.ErrorText(err, "Failed to update comment"))
			return fmt.Errorf("update comment %d: %w", commentID, err)
		}

		_ = c.feed.mutatePost(postID, func(p *model.Post) {
			for i := range p.Comments {
				if p.Comments[i].ID != commentID {
					continue
				}
				p.Comments[i].Content = in.Content
				if updated != nil && updated.Content != "" {
					p.Comments[i].Content = updated.Content
				}
				if updated != nil && !updated.UpdatedAt.IsZero() {
					p.Comments[i].UpdatedAt = updated.UpdatedAt
				}
				return
			}
		})
		c.feedback.Success("Comment updated")
		return nil
	})
}

// Delete removes a comment. A comment that is not in the loaded thread is
// left alone and nothing is sent.
func (c *CommentCache) Delete(ctx context.Context, postID, commentID int64) error {
	post, ok := c.feed.Post(postID)
	if !ok {
		return fmt.Errorf("delete comment %d: %w", commentID, model.ErrPostNotLoaded)
	}
	if !hasComment(post.Comments, commentID) {
		return nil
	}
	if err := requireLogin(c.identity, c.feedback, "delete comments"); err != nil {
		return err
	}

	return c.editing.Do(commentID, func() error {
		err := c.api.DeleteComment(ctx, commentID)
		metrics.ObserveMutation(guard.KindCommenting, err)
		if err != nil {
			c.log.Warn().Err(err).Int64("comment_id", commentID).Msg("Delete FAILED")
			c.feedback.Error(feedback.ErrorText(err, "Failed to delete comment"))
			return fmt.Errorf("delete comment %d: %w", commentID, err)
		}

		_ = c.feed.mutatePost(postID, func(p *model.Post) {
			for i := range p.Comments {
				if p.Comments[i].ID != commentID {
					continue
				}
				p.Comments = append(p.Comments[:i:i], p.Comments[i+1:]...)
				if p.CommentsCount > 0 {
					p.CommentsCount--
				}
				return
			}
		})
		c.feedback.Success("Comment deleted")
		return nil
	})
}

func hasComment(comments []model.Comment, commentID int64) bool {
	for _, cm := range comments {
		if cm.ID == commentID {
			return true
		}
	}
	return false
}
