package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"peacenest/internal/auth"
	"peacenest/internal/config"
	"peacenest/internal/db"
	"peacenest/internal/handlers"
	"peacenest/internal/logger"
	"peacenest/internal/metrics"
	mw "peacenest/internal/middleware"
	"peacenest/internal/services"
	"peacenest/internal/store/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	conn, err := db.Open(ctx, cfg)
	cancel()
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations applied")

	key, err := cfg.EncryptionKeyBytes()
	if err != nil {
		return err
	}
	enc, err := services.NewEncryptionService(key)
	if err != nil {
		return fmt.Errorf("init encryption: %w", err)
	}
	if enc == nil {
		log.Warn("ENCRYPTION_KEY not set, tracking notes are stored in plaintext")
	}
	st := postgres.New(conn, enc)

	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.JWTExpiresIn)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(conn.DB, "peacenest"),
	)

	loginLimiter := mw.NewRateLimiter(cfg.LoginRatePerMinute, log)
	defer loginLimiter.Stop()

	router := handlers.NewRouter(handlers.Deps{
		Logger:         log,
		Development:    cfg.IsDevelopment(),
		AllowedOrigins: cfg.AllowedOrigins(),
		Tokens:         tokens,
		Users:          services.NewUserService(st, tokens),
		Tracking:       services.NewTrackingService(st, st),
		Articles:       services.NewArticleService(st),
		Breathing:      services.NewBreathingService(st, st),
		Meditations:    services.NewMeditationService(st),
		Audios:         services.NewAudioService(st),
		Offline:        services.NewOfflineService(st, st, st, st),
		Metrics:        metrics.NewCollector(reg),
		Gatherer:       reg,
		LoginLimiter:   loginLimiter,
		DB:             conn,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info("shutdown initiated", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
