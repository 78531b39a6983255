package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialsync/internal/logger"
	"socialsync/internal/model"
)

// =============================================================================
// Fake backend
// =============================================================================

func newTestServer(t *testing.T, routes func(r chi.Router)) (*Client, *httptest.Server) {
	t.Helper()
	r := chi.NewRouter()
	routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, logger.Nop()), srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// =============================================================================
// Tests
// =============================================================================

func TestClient_LoginAndBearer(t *testing.T) {
	var gotAuth, gotRequestID string
	client, _ := newTestServer(t, func(r chi.Router) {
		r.Post("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
			var in model.LoginInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "alice", in.Username)
			writeJSON(w, http.StatusOK, map[string]any{
				"token": "tok-123",
				"user":  map[string]any{"id": 1, "username": "alice", "role": "USER"},
			})
		})
		r.Get("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotRequestID = r.Header.Get("X-Request-ID")
			writeJSON(w, http.StatusOK, map[string]any{"id": 1, "username": "alice", "role": "ADMIN"})
		})
	})

	res, err := client.Login(context.Background(), model.LoginInput{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok-123", res.Token)
	assert.Equal(t, int64(1), res.User.ID)

	client.SetToken(res.Token)
	me, err := client.Me(context.Background())
	require.NoError(t, err)

	assert.True(t, me.IsAdmin())
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_ErrorShapes(t *testing.T) {
	client, _ := newTestServer(t, func(r chi.Router) {
		r.Post("/api/likes/post/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"status": 404, "error": "Not Found", "message": "Post not found",
			})
		})
		r.Post("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid username or password"})
		})
		r.Post("/api/subscriptions/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error": map[string]string{"code": "CONFLICT", "message": "already following this user"},
			})
		})
		r.Delete("/api/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})
	})
	ctx := context.Background()

	tests := []struct {
		name    string
		call    func() error
		want    error
		message string
	}{
		{"spring body", func() error { return client.Like(ctx, 9) }, model.ErrNotFound, "Post not found"},
		{"plain error string", func() error {
			_, err := client.Login(ctx, model.LoginInput{Username: "a", Password: "b"})
			return err
		}, model.ErrUnauthorized, "Invalid username or password"},
		{"error envelope", func() error { return client.Follow(ctx, 2) }, model.ErrConflict, "already following this user"},
		{"empty body", func() error { return client.DeletePost(ctx, 3) }, model.ErrForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.message, apiErr.HumanMessage())
		})
	}
}

func TestClient_ListPostsFoldsWireVariants(t *testing.T) {
	client, _ := newTestServer(t, func(r chi.Router) {
		r.Get("/api/posts", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]any{
				{"id": 1, "title": "a", "authorId": 10, "likeCount": 3, "commentCount": 2, "mediaUrl": "http://m/1.png", "mediaType": "IMAGE"},
				{"id": 2, "title": "b", "authorId": 11, "likesCount": 5, "commentsCount": 0, "comments": []any{}},
			})
		})
	})

	posts, err := client.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, 3, posts[0].LikesCount)
	assert.Equal(t, 2, posts[0].CommentsCount)
	require.Len(t, posts[0].Media, 1)
	assert.Equal(t, "http://m/1.png", posts[0].Media[0].URL)

	assert.Equal(t, 5, posts[1].LikesCount)
	assert.Nil(t, posts[1].Comments, "threads are never preloaded from list responses")
}

func TestClient_DecodesLocalDateTimes(t *testing.T) {
	// ARRANGE: date-times without an offset, as the backend writes them
	const stamp = "2025-01-02T03:04:05.123456"
	want := time.Date(2025, 1, 2, 3, 4, 5, 123456000, time.UTC)

	client, _ := newTestServer(t, func(r chi.Router) {
		r.Get("/api/posts", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "title": "a", "authorId": 10, "createdAt": stamp}})
		})
		r.Get("/api/comments/post/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]any{
				{"id": 5, "content": "hi", "commentUsername": "bob", "createdAt": stamp, "updatedAt": "2025-01-02T03:04:05"},
			})
		})
		r.Get("/api/subscriptions", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 2, "subscriberId": 1, "targetId": 7, "createdAt": stamp}})
		})
		r.Get("/api/notifications", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 3, "type": "LIKE", "read": false, "createdAt": stamp}})
		})
		r.Get("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"id": 1, "username": "alice", "createdAt": "2024-12-31T23:00:00Z"})
		})
	})
	ctx := context.Background()

	// ACT + ASSERT
	posts, err := client.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.True(t, want.Equal(posts[0].CreatedAt))

	comments, err := client.ListByPost(ctx, 1)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "bob", comments[0].AuthorUsername)
	assert.True(t, want.Equal(comments[0].CreatedAt))
	assert.True(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC).Equal(comments[0].UpdatedAt))

	subs, err := client.MySubscriptions(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, int64(7), subs[0].TargetID)
	assert.True(t, want.Equal(subs[0].CreatedAt))

	notifications, err := client.ListNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.True(t, want.Equal(notifications[0].CreatedAt))

	me, err := client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
	assert.True(t, time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC).Equal(me.CreatedAt))
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "local date-time", input: `"2025-01-02T03:04:05"`, want: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		{name: "fractional seconds", input: `"2025-01-02T03:04:05.5"`, want: time.Date(2025, 1, 2, 3, 4, 5, 500000000, time.UTC)},
		{name: "rfc3339 with offset", input: `"2025-01-02T03:04:05+02:00"`, want: time.Date(2025, 1, 2, 1, 4, 5, 0, time.UTC)},
		{name: "null", input: `null`},
		{name: "empty string", input: `""`},
		{name: "garbage", input: `"yesterday"`, wantErr: true},
		{name: "number", input: `12`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}
}

func TestClient_CreatePostSendsMultipart(t *testing.T) {
	client, _ := newTestServer(t, func(r chi.Router) {
		r.Post("/api/posts", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "Hello", r.FormValue("title"))
			assert.Equal(t, "World", r.FormValue("content"))
			writeJSON(w, http.StatusCreated, map[string]any{"id": 77, "title": "Hello", "content": "World", "authorId": 1})
		})
	})

	post, err := client.CreatePost(context.Background(), model.CreatePostInput{Title: "Hello", Content: "World"})
	require.NoError(t, err)
	assert.Equal(t, int64(77), post.ID)
}

func TestClient_ListByPostEmptyThreadIsNonNil(t *testing.T) {
	client, _ := newTestServer(t, func(r chi.Router) {
		r.Get("/api/comments/post/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("null"))
		})
	})

	comments, err := client.ListByPost(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestClient_UnreadCountAndFollowerCount(t *testing.T) {
	client, _ := newTestServer(t, func(r chi.Router) {
		r.Get("/api/notifications/unread-count", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]int{"count": 4})
		})
		r.Get("/api/subscriptions/{username}/followers", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "bob", chi.URLParam(r, "username"))
			writeJSON(w, http.StatusOK, map[string]int{"count": 12})
		})
	})
	ctx := context.Background()

	unread, err := client.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, unread)

	followers, err := client.FollowerCount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 12, followers)
}

func TestClient_TransportFailure(t *testing.T) {
	client, srv := newTestServer(t, func(r chi.Router) {})
	srv.Close()

	_, err := client.ListPosts(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTransport)
}
