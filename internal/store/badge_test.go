package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialsync/internal/logger"
	"socialsync/internal/model"
)

func newBadge(api *mockAPI, fb *recordingReporter) *BadgeStore {
	return NewBadgeStore(api, FixedIdentity(meID), fb, time.Hour, logger.Nop())
}

func TestBadgeStore_RefreshOnLogin(t *testing.T) {
	api := &mockAPI{unreadCountFn: func(ctx context.Context) (int, error) { return 3, nil }}
	b := newBadge(api, &recordingReporter{})

	var seen []int
	b.Subscribe(func(s BadgeState) { seen = append(seen, s.UnreadCount) })

	require.NoError(t, b.OnLogin(context.Background()))

	assert.Equal(t, 3, b.Count())
	assert.Equal(t, []int{3}, seen)
}

func TestBadgeStore_ConcurrentRefreshesShareRequest(t *testing.T) {
	gt := newGate()
	api := &mockAPI{unreadCountFn: func(ctx context.Context) (int, error) {
		gt.wait()
		return 7, nil
	}}
	b := newBadge(api, &recordingReporter{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = b.Refresh(context.Background())
	}()
	<-gt.started

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = b.Refresh(context.Background())
	}()
	close(gt.release)
	wg.Wait()

	assert.Equal(t, 7, b.Count())
	assert.LessOrEqual(t, api.count("UnreadCount"), 2)
}

func TestBadgeStore_OnOpenNotificationsLoadsListAndCount(t *testing.T) {
	api := &mockAPI{
		listNotificationsFn: func(ctx context.Context) ([]model.Notification, error) {
			return []model.Notification{{ID: 1}, {ID: 2, Read: true}}, nil
		},
		unreadCountFn: func(ctx context.Context) (int, error) { return 1, nil },
	}
	b := newBadge(api, &recordingReporter{})

	list, err := b.OnOpenNotifications(context.Background())

	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Len(t, b.Notifications(), 2)
	assert.Equal(t, 1, b.Count())
	assert.Equal(t, []string{"ListNotifications", "UnreadCount"}, api.order())
}

func TestBadgeStore_OnActivityThrottled(t *testing.T) {
	api := &mockAPI{}
	b := newBadge(api, &recordingReporter{})

	assert.True(t, b.OnActivity(context.Background()))
	assert.False(t, b.OnActivity(context.Background()))
	assert.False(t, b.OnActivity(context.Background()))

	assert.Equal(t, 1, api.count("UnreadCount"))
}

func TestBadgeStore_MarkAsReadFlipsAndRefetchesCount(t *testing.T) {
	// ARRANGE: the server count moves independently of the local flip
	count := 2
	api := &mockAPI{
		listNotificationsFn: func(ctx context.Context) ([]model.Notification, error) {
			return []model.Notification{{ID: 1}, {ID: 2}}, nil
		},
		unreadCountFn: func(ctx context.Context) (int, error) { return count, nil },
	}
	fb := &recordingReporter{}
	b := newBadge(api, fb)
	_, err := b.OnOpenNotifications(context.Background())
	require.NoError(t, err)

	// ACT: one is read while another arrives server-side, so local math
	// would give 1
	api.markReadFn = func(ctx context.Context, id int64) error {
		count = 2
		return nil
	}
	err = b.MarkAsRead(context.Background(), 1)

	// ASSERT
	require.NoError(t, err)
	assert.True(t, b.Notifications()[0].Read)
	assert.Equal(t, 2, b.Count(), "count comes from the server, not local math")
	assert.Equal(t, 2, api.count("UnreadCount"))
	assert.Equal(t, []string{"success"}, fb.levels())
}

func TestBadgeStore_MarkAsReadFailureRevertsAndStillRefreshes(t *testing.T) {
	api := &mockAPI{
		listNotificationsFn: func(ctx context.Context) ([]model.Notification, error) {
			return []model.Notification{{ID: 1}}, nil
		},
		markReadFn:    func(ctx context.Context, id int64) error { return model.ErrTransport },
		unreadCountFn: func(ctx context.Context) (int, error) { return 1, nil },
	}
	fb := &recordingReporter{}
	b := newBadge(api, fb)
	_, err := b.OnOpenNotifications(context.Background())
	require.NoError(t, err)

	var flips []bool
	b.Subscribe(func(s BadgeState) {
		if len(s.Notifications) > 0 {
			flips = append(flips, s.Notifications[0].Read)
		}
	})

	err = b.MarkAsRead(context.Background(), 1)

	assert.ErrorIs(t, err, model.ErrTransport)
	assert.False(t, b.Notifications()[0].Read)
	assert.Equal(t, []bool{true, false, false}, flips, "flip, revert, then the count refresh")
	assert.Equal(t, 2, api.count("UnreadCount"))
	assert.Equal(t, []string{"error"}, fb.levels())
}

func TestBadgeStore_MarkAsUnread(t *testing.T) {
	api := &mockAPI{
		listNotificationsFn: func(ctx context.Context) ([]model.Notification, error) {
			return []model.Notification{{ID: 1, Read: true}}, nil
		},
	}
	b := newBadge(api, &recordingReporter{})
	_, err := b.OnOpenNotifications(context.Background())
	require.NoError(t, err)

	require.NoError(t, b.MarkAsUnread(context.Background(), 1))

	assert.False(t, b.Notifications()[0].Read)
	assert.Equal(t, 1, api.count("MarkUnread"))
}

func TestBadgeStore_MarkAllAsReadFailureReverts(t *testing.T) {
	api := &mockAPI{
		listNotificationsFn: func(ctx context.Context) ([]model.Notification, error) {
			return []model.Notification{{ID: 1}, {ID: 2, Read: true}, {ID: 3}}, nil
		},
		markAllReadFn: func(ctx context.Context) error { return model.ErrForbidden },
	}
	b := newBadge(api, &recordingReporter{})
	_, err := b.OnOpenNotifications(context.Background())
	require.NoError(t, err)

	err = b.MarkAllAsRead(context.Background())

	assert.ErrorIs(t, err, model.ErrForbidden)
	got := b.Notifications()
	assert.False(t, got[0].Read)
	assert.True(t, got[1].Read)
	assert.False(t, got[2].Read)
}

func TestBadgeStore_MarkAllAsRead(t *testing.T) {
	api := &mockAPI{
		listNotificationsFn: func(ctx context.Context) ([]model.Notification, error) {
			return []model.Notification{{ID: 1}, {ID: 2}}, nil
		},
	}
	b := newBadge(api, &recordingReporter{})
	_, err := b.OnOpenNotifications(context.Background())
	require.NoError(t, err)

	require.NoError(t, b.MarkAllAsRead(context.Background()))

	for _, n := range b.Notifications() {
		assert.True(t, n.Read)
	}
	assert.Equal(t, 2, api.count("UnreadCount"))
}
