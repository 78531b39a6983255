package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"socialsync/internal/handler"
	"socialsync/internal/httputil"
	sessmw "socialsync/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	Sessions            sessmw.SessionSource
	AuthHandler         *handler.AuthHandler
	FollowHandler       *handler.FollowHandler
	UserHandler         *handler.UserHandler
	FeedHandler         *handler.FeedHandler
	PostHandler         *handler.PostHandler
	CommentHandler      *handler.CommentHandler
	NotificationHandler *handler.NotificationHandler
	ModerationHandler   *handler.ModerationHandler
	FeedbackHandler     *handler.FeedbackHandler
}

// NewRouter creates the local gateway the views talk to
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public routes - no session required
	r.Post("/session/login", cfg.AuthHandler.Login)
	r.Get("/feedback", cfg.FeedbackHandler.Get)
	r.Delete("/feedback", cfg.FeedbackHandler.Dismiss)

	// Session routes
	r.Group(func(r chi.Router) {
		r.Use(sessmw.RequireSession(cfg.Sessions))

		r.Get("/session", cfg.AuthHandler.Me)
		r.Post("/session/logout", cfg.AuthHandler.Logout)

		r.Route("/graph", func(r chi.Router) {
			r.Get("/", cfg.FollowHandler.Snapshot)
			r.Post("/reload", cfg.FollowHandler.Reload)
			r.Post("/following/{id}", cfg.FollowHandler.Follow)
			r.Delete("/following/{id}", cfg.FollowHandler.Unfollow)
			r.Post("/following/{id}/toggle", cfg.FollowHandler.Toggle)
		})

		r.Route("/users/{username}", func(r chi.Router) {
			r.Get("/", cfg.UserHandler.GetProfile)
			r.Get("/followers", cfg.UserHandler.GetFollowers)
			r.Get("/following", cfg.UserHandler.GetFollowing)
		})

		r.Route("/feeds/{scope}", func(r chi.Router) {
			r.Get("/", cfg.FeedHandler.GetFeed)
			r.Post("/reload", cfg.FeedHandler.Reload)

			r.Post("/posts", cfg.PostHandler.Create)
			r.Route("/posts/{id}", func(r chi.Router) {
				r.Patch("/", cfg.PostHandler.Update)
				r.Delete("/", cfg.PostHandler.Delete)
				r.Post("/like", cfg.PostHandler.Like)
				r.Delete("/like", cfg.PostHandler.Unlike)
				r.Post("/like/toggle", cfg.PostHandler.ToggleLike)

				r.Post("/comments", cfg.CommentHandler.Create)
				r.Post("/comments/toggle", cfg.CommentHandler.Toggle)
				r.Put("/comments/{commentID}", cfg.CommentHandler.Update)
				r.Delete("/comments/{commentID}", cfg.CommentHandler.Delete)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/badge", cfg.NotificationHandler.Badge)
			r.Post("/open", cfg.NotificationHandler.Open)
			r.Post("/activity", cfg.NotificationHandler.Activity)
			r.Post("/read-all", cfg.NotificationHandler.MarkAllRead)
			r.Post("/{id}/read", cfg.NotificationHandler.MarkRead)
			r.Post("/{id}/unread", cfg.NotificationHandler.MarkUnread)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Post("/users/{id}", cfg.ModerationHandler.ReportUser)
			r.Post("/posts/{id}", cfg.ModerationHandler.ReportPost)
		})

		r.Route("/confirmation", func(r chi.Router) {
			r.Get("/", cfg.ModerationHandler.Pending)
			r.Post("/confirm", cfg.ModerationHandler.Confirm)
			r.Post("/cancel", cfg.ModerationHandler.Cancel)
		})

		// Moderation is only offered to admins; the backend checks again.
		r.Route("/moderation", func(r chi.Router) {
			r.Use(sessmw.RequireModerator)

			r.Post("/posts/{id}/hide", cfg.ModerationHandler.HidePost)
			r.Post("/posts/{id}/delete", cfg.ModerationHandler.DeletePost)
			r.Post("/posts/{id}/unhide", cfg.ModerationHandler.UnhidePost)
			r.Post("/users/{id}/ban", cfg.ModerationHandler.BanUser)
			r.Post("/users/{id}/delete", cfg.ModerationHandler.DeleteUser)
			r.Post("/users/{id}/unban", cfg.ModerationHandler.UnbanUser)
		})
	})

	return r
}
