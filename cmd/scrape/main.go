// One-shot scrape run from the command line: clears the database,
// scrapes every configured theater across the date window, and logs
// progress as it goes. Exits non-zero on terminal failure.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"oc-showtimes/internal/config"
	"oc-showtimes/internal/logging"
	"oc-showtimes/internal/model"
	"oc-showtimes/internal/pipeline"
	"oc-showtimes/internal/progress"
	"oc-showtimes/internal/render"
	"oc-showtimes/internal/scraper"
	"oc-showtimes/internal/store"
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

	runner := pipeline.New(st, registry, cfg.Scraper.WindowDays, logger)

	emitter := progress.EmitterFunc(func(ev progress.Event) error {
		switch ev.Type {
		case "movie":
			logger.Info("found showing",
				zap.String("title", ev.Title),
				zap.String("showtime", ev.Showtime),
				zap.String("theater", ev.Theater),
				zap.String("date", ev.Date))
		case "theater":
			logger.Info("theater", zap.String("name", ev.Theater), zap.String("location", ev.Location))
		}
		return nil
	})

	count, err := runner.Run(context.Background(), model.DefaultTheaters(), emitter)
	if err != nil {
		logger.Error("scrape failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("scrape finished", zap.Int("inserted", count))
}
