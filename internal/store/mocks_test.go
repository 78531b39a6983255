package store

import (
	"context"
	"sync"

	"socialsync/internal/model"
)

// =============================================================================
// MOCK BACKEND
// =============================================================================
//
// mockAPI implements every store-facing backend interface. Each test sets only
// the functions it cares about; the rest return zero values. Calls are
// recorded under a mutex because several tests drive the stores from more
// than one goroutine.

type mockAPI struct {
	mySubscriptionsFn   func(ctx context.Context) ([]model.Subscription, error)
	followFn            func(ctx context.Context, userID int64) error
	unfollowFn          func(ctx context.Context, userID int64) error
	followersFn         func(ctx context.Context, username string) ([]model.Subscription, error)
	followingFn         func(ctx context.Context, username string) ([]model.Subscription, error)
	listUsersFn         func(ctx context.Context) ([]model.User, error)
	getUserByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	followerCountFn     func(ctx context.Context, username string) (int, error)

	listPostsFn           func(ctx context.Context) ([]model.Post, error)
	listPostsByUsernameFn func(ctx context.Context, username string) ([]model.Post, error)
	createPostFn          func(ctx context.Context, in model.CreatePostInput) (*model.Post, error)
	updatePostFn          func(ctx context.Context, postID int64, in model.UpdatePostInput) (*model.Post, error)
	deletePostFn          func(ctx context.Context, postID int64) error
	likeFn                func(ctx context.Context, postID int64) error
	unlikeFn              func(ctx context.Context, postID int64) error

	listByPostFn    func(ctx context.Context, postID int64) ([]model.Comment, error)
	addCommentFn    func(ctx context.Context, postID int64, in model.CommentInput) (*model.Comment, error)
	updateCommentFn func(ctx context.Context, commentID int64, in model.CommentInput) (*model.Comment, error)
	deleteCommentFn func(ctx context.Context, commentID int64) error

	listNotificationsFn func(ctx context.Context) ([]model.Notification, error)
	markReadFn          func(ctx context.Context, id int64) error
	markUnreadFn        func(ctx context.Context, id int64) error
	markAllReadFn       func(ctx context.Context) error
	unreadCountFn       func(ctx context.Context) (int, error)

	hidePostFn   func(ctx context.Context, postID int64) error
	unhidePostFn func(ctx context.Context, postID int64) error
	adminDelFn   func(ctx context.Context, postID int64) error
	banUserFn    func(ctx context.Context, userID int64) error
	unbanUserFn  func(ctx context.Context, userID int64) error
	deleteUserFn func(ctx context.Context, userID int64) error
	reportUserFn func(ctx context.Context, userID int64, in model.ReportInput) (*model.Report, error)
	reportPostFn func(ctx context.Context, postID int64, in model.ReportInput) (*model.Report, error)

	mu    sync.Mutex
	calls []string
}

func (m *mockAPI) record(name string) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()
}

// count returns how many times name was called.
func (m *mockAPI) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

// order returns the call names in the order they were made.
func (m *mockAPI) order() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockAPI) MySubscriptions(ctx context.Context) ([]model.Subscription, error) {
	m.record("MySubscriptions")
	if m.mySubscriptionsFn != nil {
		return m.mySubscriptionsFn(ctx)
	}
	return nil, nil
}

func (m *mockAPI) Follow(ctx context.Context, userID int64) error {
	m.record("Follow")
	if m.followFn != nil {
		return m.followFn(ctx, userID)
	}
	return nil
}

func (m *mockAPI) Unfollow(ctx context.Context, userID int64) error {
	m.record("Unfollow")
	if m.unfollowFn != nil {
		return m.unfollowFn(ctx, userID)
	}
	return nil
}

func (m *mockAPI) Followers(ctx context.Context, username string) ([]model.Subscription, error) {
	m.record("Followers")
	if m.followersFn != nil {
		return m.followersFn(ctx, username)
	}
	return nil, nil
}

func (m *mockAPI) Following(ctx context.Context, username string) ([]model.Subscription, error) {
	m.record("Following")
	if m.followingFn != nil {
		return m.followingFn(ctx, username)
	}
	return nil, nil
}

func (m *mockAPI) ListUsers(ctx context.Context) ([]model.User, error) {
	m.record("ListUsers")
	if m.listUsersFn != nil {
		return m.listUsersFn(ctx)
	}
	return nil, nil
}

func (m *mockAPI) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	m.record("GetUserByUsername")
	if m.getUserByUsernameFn != nil {
		return m.getUserByUsernameFn(ctx, username)
	}
	return nil, model.ErrNotFound
}

func (m *mockAPI) FollowerCount(ctx context.Context, username string) (int, error) {
	m.record("FollowerCount")
	if m.followerCountFn != nil {
		return m.followerCountFn(ctx, username)
	}
	return 0, nil
}

func (m *mockAPI) ListPosts(ctx context.Context) ([]model.Post, error) {
	m.record("ListPosts")
	if m.listPostsFn != nil {
		return m.listPostsFn(ctx)
	}
	return nil, nil
}

func (m *mockAPI) ListPostsByUsername(ctx context.Context, username string) ([]model.Post, error) {
	m.record("ListPostsByUsername")
	if m.listPostsByUsernameFn != nil {
		return m.listPostsByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockAPI) CreatePost(ctx context.Context, in model.CreatePostInput) (*model.Post, error) {
	m.record("CreatePost")
	if m.createPostFn != nil {
		return m.createPostFn(ctx, in)
	}
	return &model.Post{ID: 1000, Title: in.Title, Content: in.Content}, nil
}

func (m *mockAPI) UpdatePost(ctx context.Context, postID int64, in model.UpdatePostInput) (*model.Post, error) {
	m.record("UpdatePost")
	if m.updatePostFn != nil {
		return m.updatePostFn(ctx, postID, in)
	}
	return &model.Post{ID: postID, Title: in.Title, Content: in.Content}, nil
}

func (m *mockAPI) DeletePost(ctx context.Context, postID int64) error {
	m.record("DeletePost")
	if m.deletePostFn != nil {
		return m.deletePostFn(ctx, postID)
	}
	return nil
}

func (m *mockAPI) Like(ctx context.Context, postID int64) error {
	m.record("Like")
	if m.likeFn != nil {
		return m.likeFn(ctx, postID)
	}
	return nil
}

func (m *mockAPI) Unlike(ctx context.Context, postID int64) error {
	m.record("Unlike")
	if m.unlikeFn != nil {
		return m.unlikeFn(ctx, postID)
	}
	return nil
}

func (m *mockAPI) ListByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	m.record("ListByPost")
	if m.listByPostFn != nil {
		return m.listByPostFn(ctx, postID)
	}
	return []model.Comment{}, nil
}

func (m *mockAPI) AddComment(ctx context.Context, postID int64, in model.CommentInput) (*model.Comment, error) {
	m.record("AddComment")
	if m.addCommentFn != nil {
		return m.addCommentFn(ctx, postID, in)
	}
	return &model.Comment{ID: 500, PostID: postID, Content: in.Content}, nil
}

func (m *mockAPI) UpdateComment(ctx context.Context, commentID int64, in model.CommentInput) (*model.Comment, error) {
	m.record("UpdateComment")
	if m.updateCommentFn != nil {
		return m.updateCommentFn(ctx, commentID, in)
	}
	return &model.Comment{ID: commentID, Content: in.Content}, nil
}

func (m *mockAPI) DeleteComment(ctx context.Context, commentID int64) error {
	m.record("DeleteComment")
	if m.deleteCommentFn != nil {
		return m.deleteCommentFn(ctx, commentID)
	}
	return nil
}

func (m *mockAPI) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	m.record("ListNotifications")
	if m.listNotificationsFn != nil {
		return m.listNotificationsFn(ctx)
	}
	return nil, nil
}

func (m *mockAPI) MarkRead(ctx context.Context, id int64) error {
	m.record("MarkRead")
	if m.markReadFn != nil {
		return m.markReadFn(ctx, id)
	}
	return nil
}

func (m *mockAPI) MarkUnread(ctx context.Context, id int64) error {
	m.record("MarkUnread")
	if m.markUnreadFn != nil {
		return m.markUnreadFn(ctx, id)
	}
	return nil
}

func (m *mockAPI) MarkAllRead(ctx context.Context) error {
	m.record("MarkAllRead")
	if m.markAllReadFn != nil {
		return m.markAllReadFn(ctx)
	}
	return nil
}

func (m *mockAPI) UnreadCount(ctx context.Context) (int, error) {
	m.record("UnreadCount")
	if m.unreadCountFn != nil {
		return m.unreadCountFn(ctx)
	}
	return 0, nil
}

func (m *mockAPI) HidePost(ctx context.Context, postID int64) error {
	m.record("HidePost")
	if m.hidePostFn != nil {
		return m.hidePostFn(ctx, postID)
	}
	return nil
}

func (m *mockAPI) UnhidePost(ctx context.Context, postID int64) error {
	m.record("UnhidePost")
	if m.unhidePostFn != nil {
		return m.unhidePostFn(ctx, postID)
	}
	return nil
}

func (m *mockAPI) AdminDeletePost(ctx context.Context, postID int64) error {
	m.record("AdminDeletePost")
	if m.adminDelFn != nil {
		return m.adminDelFn(ctx, postID)
	}
	return nil
}

func (m *mockAPI) BanUser(ctx context.Context, userID int64) error {
	m.record("BanUser")
	if m.banUserFn != nil {
		return m.banUserFn(ctx, userID)
	}
	return nil
}

func (m *mockAPI) UnbanUser(ctx context.Context, userID int64) error {
	m.record("UnbanUser")
	if m.unbanUserFn != nil {
		return m.unbanUserFn(ctx, userID)
	}
	return nil
}

func (m *mockAPI) DeleteUser(ctx context.Context, userID int64) error {
	m.record("DeleteUser")
	if m.deleteUserFn != nil {
		return m.deleteUserFn(ctx, userID)
	}
	return nil
}

func (m *mockAPI) ReportUser(ctx context.Context, userID int64, in model.ReportInput) (*model.Report, error) {
	m.record("ReportUser")
	if m.reportUserFn != nil {
		return m.reportUserFn(ctx, userID, in)
	}
	return &model.Report{ID: 1, ReportedUserID: &userID, Reason: in.Reason}, nil
}

func (m *mockAPI) ReportPost(ctx context.Context, postID int64, in model.ReportInput) (*model.Report, error) {
	m.record("ReportPost")
	if m.reportPostFn != nil {
		return m.reportPostFn(ctx, postID, in)
	}
	return &model.Report{ID: 2, ReportedPostID: &postID, Reason: in.Reason}, nil
}

// =============================================================================
// RECORDING REPORTER
// =============================================================================

type outcomeMsg struct {
	level string
	text  string
}

type recordingReporter struct {
	mu   sync.Mutex
	msgs []outcomeMsg
}

func (r *recordingReporter) add(level, text string) {
	r.mu.Lock()
	r.msgs = append(r.msgs, outcomeMsg{level, text})
	r.mu.Unlock()
}

func (r *recordingReporter) Success(text string) { r.add("success", text) }
func (r *recordingReporter) Error(text string)   { r.add("error", text) }
func (r *recordingReporter) Info(text string)    { r.add("info", text) }

func (r *recordingReporter) all() []outcomeMsg {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]outcomeMsg(nil), r.msgs...)
}

func (r *recordingReporter) levels() []string {
	var out []string
	for _, m := range r.all() {
		out = append(out, m.level)
	}
	return out
}

// gate holds a mocked call until the test releases it.
type gate struct {
	started chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{started: make(chan struct{}, 16), release: make(chan struct{})}
}

func (g *gate) wait() {
	g.started <- struct{}{}
	<-g.release
}
