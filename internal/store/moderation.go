package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"socialsync/internal/feedback"
	"socialsync/internal/guard"
	"socialsync/internal/metrics"
	"socialsync/internal/model"
)

// ModerationAPI is the part of the backend moderation and reports need.
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

// Moderator runs admin actions and user reports. Destructive actions are
// staged on the confirmation queue and only reach the backend when confirmed.
// The backend decides who may moderate; callers decide whether to offer it.
type Moderator struct {
	api      ModerationAPI
	queue    *ConfirmQueue
	identity Identity
	feedback feedback.Reporter
	log      zerolog.Logger

	posts       *guard.Guard
	users       *guard.Guard
	userReports *guard.Guard
	postReports *guard.Guard
}

func NewModerator(api ModerationAPI, queue *ConfirmQueue, identity Identity, fb feedback.Reporter, log zerolog.Logger) *Moderator {
	return &Moderator{
		api:         api,
		queue:       queue,
		identity:    identity,
		feedback:    fb,
		log:         log.With().Str("component", "Moderator").Logger(),
		posts:       guard.New(guard.KindModerating),
		users:       guard.New(guard.KindModerating),
		userReports: guard.New(guard.KindModerating),
		postReports: guard.New(guard.KindModerating),
	}
}

// StageHidePost stages hiding postID. Once confirmed the post leaves the
// given feeds; UnhidePost reverses it on the backend.
func (m *Moderator) StageHidePost(postID int64, feeds ...*FeedStore) Pending {
	return m.queue.Stage(
		"Hide post",
		"This post will be hidden from all feeds. You can unhide it later.",
		false,
		func(ctx context.Context) error {
			return m.postAction(ctx, postID, "hide", m.api.HidePost, "Post hidden", feeds)
		},
	)
}

// StageDeletePost stages permanently deleting postID.
func (m *Moderator) StageDeletePost(postID int64, feeds ...*FeedStore) Pending {
	return m.queue.Stage(
		"Delete post",
		"This post will be permanently deleted. This cannot be undone.",
		true,
		func(ctx context.Context) error {
			return m.postAction(ctx, postID, "delete", m.api.AdminDeletePost, "Post deleted", feeds)
		},
	)
}

// UnhidePost restores a hidden post. Feeds pick it up on their next load.
func (m *Moderator) UnhidePost(ctx context.Context, postID int64) error {
	return m.postAction(ctx, postID, "unhide", m.api.UnhidePost, "Post is visible again", nil)
}

func (m *Moderator) postAction(
	ctx context.Context,
	postID int64,
	op string,
	call func(context.Context, int64) error,
	success string,
	feeds []*FeedStore,
) error {
	if err := requireLogin(m.identity, m.feedback, "moderate"); err != nil {
		return err
	}

	return m.posts.Do(postID, func() error {
		err := call(ctx, postID)
		metrics.ObserveMutation(guard.KindModerating, err)
		if err != nil {
			m.log.Warn().Err(err).Int64("post_id", postID).Str("op", op).Msg("postAction FAILED")
			m.feedback.Error(feedback.ErrorText(err, "Failed to "+op+" post"))
			return fmt.Errorf("%s post %d: %w", op, postID, err)
		}

		for _, f := range feeds {
			if f != nil {
				f.RemoveLocal(postID)
			}
		}
		m.log.Info().Int64("post_id", postID).Str("op", op).Msg("postAction OK")
		m.feedback.Success(success)
		return nil
	})
}

// StageBanUser stages banning userID.
func (m *Moderator) StageBanUser(user model.UserRef) Pending {
	return m.queue.Stage(
		"Ban user",
		fmt.Sprintf("%s will no longer be able to log in. You can unban them later.", user.Username),
		false,
		func(ctx context.Context) error {
			return m.userAction(ctx, user, "ban", m.api.BanUser, user.Username+" has been banned")
		},
	)
}

// StageDeleteUser stages permanently deleting userID and their content.
func (m *Moderator) StageDeleteUser(user model.UserRef) Pending {
	return m.queue.Stage(
		"Delete user",
		fmt.Sprintf("%s and all of their content will be permanently deleted. This cannot be undone.", user.Username),
		true,
		func(ctx context.Context) error {
			return m.userAction(ctx, user, "delete", m.api.DeleteUser, user.Username+" has been deleted")
		},
	)
}

// UnbanUser lifts a ban.
func (m *Moderator) UnbanUser(ctx context.Context, user model.UserRef) error {
	return m.userAction(ctx, user, "unban", m.api.UnbanUser, user.Username+" has been unbanned")
}

func (m *Moderator) userAction(
	ctx context.Context,
	user model.UserRef,
	op string,
	call func(context.Context, int64) error,
	success string,
) error {
	if err := requireLogin(m.identity, m.feedback, "moderate"); err != nil {
		return err
	}

	return m.users.Do(user.ID, func() error {
		err := call(ctx, user.ID)
		metrics.ObserveMutation(guard.KindModerating, err)
		if err != nil {
			m.log.Warn().Err(err).Int64("user_id", user.ID).Str("op", op).Msg("userAction FAILED")
			m.feedback.Error(feedback.ErrorText(err, "Failed to "+op+" user"))
			return fmt.Errorf("%s user %d: %w", op, user.ID, err)
		}

		m.log.Info().Int64("user_id", user.ID).Str("op", op).Msg("userAction OK")
		m.feedback.Success(success)
		return nil
	})
}

// ReportUser files a report against userID.
func (m *Moderator) ReportUser(ctx context.Context, userID int64, in model.ReportInput) (*model.Report, error) {
	return m.report(ctx, m.userReports, "user", userID, in, m.api.ReportUser)
}

// ReportPost files a report against postID.
func (m *Moderator) ReportPost(ctx context.Context, postID int64, in model.ReportInput) (*model.Report, error) {
	return m.report(ctx, m.postReports, "post", postID, in, m.api.ReportPost)
}

func (m *Moderator) report(
	ctx context.Context,
	g *guard.Guard,
	target string,
	id int64,
	in model.ReportInput,
	call func(context.Context, int64, model.ReportInput) (*model.Report, error),
) (*model.Report, error) {
	if err := model.Validate(in); err != nil {
		m.feedback.Error(model.ValidationMessage(err))
		return nil, err
	}
	if err := requireLogin(m.identity, m.feedback, "report"); err != nil {
		return nil, err
	}

	var report *model.Report
	err := g.Do(id, func() error {
		r, err := call(ctx, id, in)
		metrics.ObserveMutation("reporting", err)
		if err != nil {
			m.log.Warn().Err(err).Str("target", target).Int64("id", id).Msg("report FAILED")
			m.feedback.Error(feedback.ErrorText(err, "Failed to submit report"))
			return fmt.Errorf("report %s %d: %w", target, id, err)
		}
		m.feedback.Success("Report submitted. Thank you!")
		report = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
