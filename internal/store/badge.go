package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"socialsync/internal/feedback"
	"socialsync/internal/guard"
	"socialsync/internal/metrics"
	"socialsync/internal/model"
	"socialsync/internal/observe"
)

// BadgeAPI is the part of the backend the notification badge needs.
type BadgeAPI interface {
	ListNotifications(ctx context.Context) ([]model.Notification, error)
	MarkRead(ctx context.Context, notificationID int64) error
	MarkUnread(ctx context.Context, notificationID int64) error
	MarkAllRead(ctx context.Context) error
	UnreadCount(ctx context.Context) (int, error)
}

// BadgeState is what badge observers receive.
type BadgeState struct {
	UnreadCount   int                  `json:"unreadCount"`
	Notifications []model.Notification `json:"notifications"`
}

// allNotificationsKey is the reading guard key of a mark-all call.
const allNotificationsKey int64 = 0

// BadgeStore holds the unread notification count and the notification list.
// The count is only ever taken from the backend; read-state changes flip the
// list locally and then re-fetch the count.
type BadgeStore struct {
	api      BadgeAPI
	identity Identity
	feedback feedback.Reporter
	log      zerolog.Logger

	reading   *guard.Guard
	refreshes singleflight.Group
	activity  *rate.Limiter

	mu            sync.RWMutex
	count         int
	notifications []model.Notification

	observers observe.Set[BadgeState]
}

// NewBadgeStore creates the badge. Activity-triggered refreshes run at most
// once per activityInterval.
func NewBadgeStore(api BadgeAPI, identity Identity, fb feedback.Reporter, activityInterval time.Duration, log zerolog.Logger) *BadgeStore {
	if activityInterval <= 0 {
		activityInterval = 30 * time.Second
	}
	return &BadgeStore{
		api:      api,
		identity: identity,
		feedback: fb,
		log:      log.With().Str("component", "BadgeStore").Logger(),
		reading:  guard.New(guard.KindReading),
		activity: rate.NewLimiter(rate.Every(activityInterval), 1),
	}
}

// Count returns the last fetched unread count.
func (b *BadgeStore) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// Notifications returns a copy of the last fetched list.
func (b *BadgeStore) Notifications() []model.Notification {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]model.Notification(nil), b.notifications...)
}

// Refresh fetches the unread count. Concurrent callers share one request.
func (b *BadgeStore) Refresh(ctx context.Context) (int, error) {
	v, err, _ := b.refreshes.Do("unread-count", func() (any, error) {
		return b.api.UnreadCount(ctx)
	})
	metrics.BadgeRefreshes.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		b.log.Warn().Err(err).Msg("Refresh FAILED")
		return b.Count(), fmt.Errorf("refresh unread count: %w", err)
	}
	count := v.(int)

	b.mu.Lock()
	b.count = count
	state := b.stateLocked()
	version := b.observers.Stamp()
	b.mu.Unlock()

	b.observers.Publish(version, state)
	return count, nil
}

// OnLogin refreshes the count at session start.
func (b *BadgeStore) OnLogin(ctx context.Context) error {
	_, err := b.Refresh(ctx)
	return err
}

// OnOpenNotifications loads the list for the notifications view and
// refreshes the count.
func (b *BadgeStore) OnOpenNotifications(ctx context.Context) ([]model.Notification, error) {
	list, err := b.api.ListNotifications(ctx)
	if err != nil {
		b.log.Warn().Err(err).Msg("OnOpenNotifications FAILED")
		b.feedback.Error(feedback.ErrorText(err, "Failed to load notifications"))
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	b.mu.Lock()
	b.notifications = append([]model.Notification(nil), list...)
	state := b.stateLocked()
	version := b.observers.Stamp()
	b.mu.Unlock()
	b.observers.Publish(version, state)

	_, _ = b.Refresh(ctx)
	return list, nil
}

// OnActivity refreshes the count unless one ran within the activity
// interval. It reports whether a refresh was issued.
func (b *BadgeStore) OnActivity(ctx context.Context) bool {
	if !b.activity.Allow() {
		return false
	}
	_, _ = b.Refresh(ctx)
	return true
}

func (b *BadgeStore) MarkAsRead(ctx context.Context, notificationID int64) error {
	return b.setRead(ctx, notificationID, true)
}

func (b *BadgeStore) MarkAsUnread(ctx context.Context, notificationID int64) error {
	return b.setRead(ctx, notificationID, false)
}

func (b *BadgeStore) setRead(ctx context.Context, notificationID int64, read bool) error {
	if err := requireLogin(b.identity, b.feedback, "manage notifications"); err != nil {
		return err
	}

	err := b.reading.Do(notificationID, func() error {
		prev, found := b.flip(notificationID, read)

		var err error
		if read {
			err = b.api.MarkRead(ctx, notificationID)
		} else {
			err = b.api.MarkUnread(ctx, notificationID)
		}
		metrics.ObserveMutation(guard.KindReading, err)

		if err != nil {
			if found {
				b.flip(notificationID, prev)
			}
			b.log.Warn().Err(err).Int64("notification_id", notificationID).Bool("read", read).Msg("setRead FAILED")
			b.feedback.Error(feedback.ErrorText(err, "Failed to update notification"))
			return fmt.Errorf("mark notification %d read=%t: %w", notificationID, read, err)
		}

		if read {
			b.feedback.Success("Marked as read")
		} else {
			b.feedback.Success("Marked as unread")
		}
		return nil
	})
	if errors.Is(err, model.ErrMutationInFlight) {
		return err
	}

	_, _ = b.Refresh(ctx)
	return err
}

// flip sets the read flag of one notification and returns its previous value.
func (b *BadgeStore) flip(notificationID int64, read bool) (bool, bool) {
	b.mu.Lock()
	for i := range b.notifications {
		if b.notifications[i].ID != notificationID {
			continue
		}
		prev := b.notifications[i].Read
		b.notifications[i].Read = read
		state := b.stateLocked()
		version := b.observers.Stamp()
		b.mu.Unlock()

		b.observers.Publish(version, state)
		return prev, true
	}
	b.mu.Unlock()
	return false, false
}

// MarkAllAsRead marks every notification read, reverting the local flip if
// the backend refuses.
func (b *BadgeStore) MarkAllAsRead(ctx context.Context) error {
	if err := requireLogin(b.identity, b.feedback, "manage notifications"); err != nil {
		return err
	}

	err := b.reading.Do(allNotificationsKey, func() error {
		b.mu.Lock()
		prev := make(map[int64]bool, len(b.notifications))
		for i := range b.notifications {
			prev[b.notifications[i].ID] = b.notifications[i].Read
			b.notifications[i].Read = true
		}
		state := b.stateLocked()
		version := b.observers.Stamp()
		b.mu.Unlock()
		b.observers.Publish(version, state)

		err := b.api.MarkAllRead(ctx)
		metrics.ObserveMutation(guard.KindReading, err)
		if err != nil {
			b.mu.Lock()
			for i := range b.notifications {
				if was, ok := prev[b.notifications[i].ID]; ok {
					b.notifications[i].Read = was
				}
			}
			state := b.stateLocked()
			version := b.observers.Stamp()
			b.mu.Unlock()
			b.observers.Publish(version, state)

			b.log.Warn().Err(err).Msg("MarkAllAsRead FAILED")
			b.feedback.Error(feedback.ErrorText(err, "Failed to mark notifications as read"))
			return fmt.Errorf("mark all read: %w", err)
		}

		b.feedback.Success("All notifications marked as read")
		return nil
	})
	if errors.Is(err, model.ErrMutationInFlight) {
		return err
	}

	_, _ = b.Refresh(ctx)
	return err
}

func (b *BadgeStore) stateLocked() BadgeState {
	return BadgeState{
		UnreadCount:   b.count,
		Notifications: append([]model.Notification(nil), b.notifications...),
	}
}

// Subscribe registers fn for every badge change and returns the unsubscribe func.
func (b *BadgeStore) Subscribe(fn func(BadgeState)) func() {
	return b.observers.Add(fn)
}

func (b *BadgeStore) Close() {
	b.observers.Clear()
}
