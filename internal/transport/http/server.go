package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialsync/internal/backend"
	"socialsync/internal/config"
	"socialsync/internal/feedback"
	"socialsync/internal/handler"
	"socialsync/internal/logger"
	"socialsync/internal/session"
)

// NewHandler wires the session manager and every handler into the router.
func NewHandler(sessions *session.Manager, center *feedback.Center) stdhttp.Handler {
	return NewRouter(RouterConfig{
		Sessions:            sessions,
		AuthHandler:         handler.NewAuthHandler(sessions),
		FollowHandler:       handler.NewFollowHandler(),
		UserHandler:         handler.NewUserHandler(),
		FeedHandler:         handler.NewFeedHandler(),
		PostHandler:         handler.NewPostHandler(),
		CommentHandler:      handler.NewCommentHandler(),
		NotificationHandler: handler.NewNotificationHandler(),
		ModerationHandler:   handler.NewModerationHandler(),
		FeedbackHandler:     handler.NewFeedbackHandler(center),
	})
}

func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	// 2. Backend client, feedback slot and session manager
	client := backend.NewClient(cfg.BackendURL, cfg.HTTPTimeout, logger.Component(log, "BackendClient"))
	center := feedback.NewCenter(cfg.FeedbackTTL, logger.Component(log, "Feedback"))
	defer center.Close()

	sessions := session.NewManager(client, center, session.Options{
		ActivityRefreshInterval: cfg.ActivityRefreshInterval,
	}, log)

	// 3. Serve until interrupted
	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           NewHandler(sessions, center),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("backend", cfg.BackendURL).Msg("Starting gateway")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if sess, err := sessions.Current(); err == nil {
		log.Info().Int64("user_id", sess.User.ID).Msg("Ending active session")
		_ = sessions.Logout(shutdownCtx)
	}
	return srv.Shutdown(shutdownCtx)
}
