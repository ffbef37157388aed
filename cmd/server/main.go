package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"oc-showtimes/internal/config"
	"oc-showtimes/internal/logging"
	"oc-showtimes/internal/model"
	"oc-showtimes/internal/pipeline"
	"oc-showtimes/internal/render"
	"oc-showtimes/internal/scraper"
	"oc-showtimes/internal/store"
	"oc-showtimes/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.App.LogPath, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer st.Close()

	session := render.NewChrome(cfg.Scraper.ChromePath, time.Duration(cfg.Scraper.RenderTimeoutSecs)*time.Second)
	defer session.Close()

	registry := scraper.NewRegistry()
	registry.Register(model.StrategyAPI, scraper.NewAMC(
		cfg.Scraper.AMCAPIKey,
		cfg.Scraper.AMCBaseURL,
		time.Duration(cfg.Scraper.FetchTimeoutSecs)*time.Second,
		logger,
	))
	registry.Register(model.StrategyRenderedPage, scraper.NewRegal(session, logger))

	theaters := model.DefaultTheaters()
	runner := pipeline.New(st, registry, cfg.Scraper.WindowDays, logger)
	handler := web.New(st, runner, theaters, logger)

	srv := &http.Server{
		Addr:        ":" + cfg.App.Port,
		Handler:     handler.Router(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		// No WriteTimeout: the scrape progress stream outlives any
		// sensible fixed limit.
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("port", cfg.App.Port),
			zap.String("db", cfg.Store.Path),
			zap.Int("theaters", len(theaters)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown incomplete", zap.Error(err))
		}
		logger.Info("server stopped")
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	}
}
