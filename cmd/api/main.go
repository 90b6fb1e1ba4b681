package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"text-detector-go/internal/config"
	"text-detector-go/internal/dashboard"
	"text-detector-go/internal/logger"
	"text-detector-go/internal/processor"
	"text-detector-go/internal/remote"
	"text-detector-go/internal/session"
)

func main() {
	log := logger.New()
	log.WithField("service", "text-detector-go").Info("starting service")

	cfgPath := envOr("CONFIG_PATH", "config.yaml")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	log.WithField("config_path", cfgPath).
		WithField("api_url", cfg.API.URL).
		WithField("feedback_url", cfg.API.FeedbackURL).
		WithField("session_backend", cfg.Session.Backend).
		Info("config loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store session.Store
	switch cfg.Session.Backend {
	case config.BackendRedis:
		client, err := session.ConnectRedis(ctx, cfg.Session.RedisURI, 15*time.Second, log)
		if err != nil {
			log.WithError(err).Fatal("redis unavailable")
		}
		defer client.Close()
		store = session.NewRedisStore(client, cfg.Session.TTL)
		log.WithField("redis_uri", cfg.Session.RedisURI).Info("using redis session store")
	default:
		store = session.NewMemoryStore(cfg.Session.TTL)
		log.Info("using in-memory session store")
	}

	detector := remote.NewDetectorClient(cfg.API.URL, cfg.API.DetectTimeout, log)
	feedback := remote.NewFeedbackClient(cfg.API.FeedbackURL, cfg.API.FeedbackTimeout, cfg.API.StatsTimeout, log)
	proc := processor.New(store, detector, feedback, cfg.API.FeedbackUserID, log)
	handler := dashboard.NewHandler(proc, log, cfg.Session.TTL)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      dashboard.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.API.DetectTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		log.WithError(err).Fatal("listen")
	}
	log.WithField("addr", ln.Addr().String()).Info("listening")
	// in-flight analyses may wait on the detection API for its full timeout
	if err := serve(ctx, srv, ln, cfg.API.DetectTimeout+5*time.Second, log); err != nil {
		log.WithError(err).Fatal("server terminated")
	}
	log.Info("server stopped")
}

// serve runs srv on ln until ctx is cancelled, then waits up to grace for
// in-flight requests before returning.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration, log *logger.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
