// Package pipeline orchestrates a scrape run: clear the store, then walk
// theaters and dates sequentially, inserting every normalized showing and
// streaming progress. A failed slot never stops the run; only a failed
// clear is terminal.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"oc-showtimes/internal/model"
	"oc-showtimes/internal/normalize"
	"oc-showtimes/internal/progress"
	"oc-showtimes/internal/scraper"
	"oc-showtimes/internal/store"
)

// ErrRunInFlight is returned when a run is requested while another is
// active. Runs clear the store first, so interleaving would be
// destructive.
var ErrRunInFlight = errors.New("scrape run already in flight")

// Runner executes scrape runs one at a time.
type Runner struct {
	store      store.Store
	registry   *scraper.Registry
	windowDays int
	log        *zap.Logger

	mu      sync.Mutex
	running bool
}

// New creates a Runner covering windowDays consecutive dates per run.
func New(st store.Store, registry *scraper.Registry, windowDays int, log *zap.Logger) *Runner {
	return &Runner{
		store:      st,
		registry:   registry,
		windowDays: windowDays,
		log:        log,
	}
}

// Running reports whether a run is currently active.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Run processes every theater across the date window and returns the
// number of showings inserted. The emitter receives ordered progress
// events ending in exactly one complete or error event; once it reports
// the consumer gone, the run continues silently. Theaters and dates run
// strictly sequentially because the rendered-page session is stateful.
func (r *Runner) Run(ctx context.Context, theaters []model.Theater, emit progress.Emitter) (int, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return 0, ErrRunInFlight
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	gone := false
	send := func(ev progress.Event) {
		if gone {
			return
		}
		if err := emit.Emit(ev); err != nil {
			r.log.Info("progress consumer gone, continuing silently", zap.Error(err))
			gone = true
		}
	}

	if err := r.store.Clear(ctx); err != nil {
		send(progress.Failed("failed to clear existing showings"))
		return 0, fmt.Errorf("clearing store: %w", err)
	}

	dates := normalize.TargetDates(normalize.Today(), r.windowDays)
	total := 0

	for _, theater := range theaters {
		adapter, ok := r.registry.For(theater)
		if !ok {
			r.log.Warn("no adapter for strategy",
				zap.String("theater", theater.Name),
				zap.String("strategy", string(theater.Strategy)))
			continue
		}

		r.log.Info("scraping theater", zap.String("theater", theater.Name))
		send(progress.TheaterStarted(theater.Name, theater.Location()))

		for _, date := range dates {
			send(progress.DateStarted(date.String(), theater.Name))

			showings, err := adapter.FetchShowings(ctx, theater, date)
			if err != nil {
				// One bad slot must not sink the run.
				r.log.Warn("fetch failed, recording zero showings",
					zap.String("theater", theater.Name),
					zap.String("date", date.String()),
					zap.Error(err))
				continue
			}

			for _, s := range showings {
				if err := r.store.Insert(ctx, s); err != nil {
					r.log.Error("insert failed, skipping showing",
						zap.String("title", s.Title),
						zap.Error(err))
					continue
				}
				total++
				send(progress.MovieFound(s.Title, normalize.DisplayClock(s.Showtime), theater.Name, date.String()))
			}
		}
	}

	r.log.Info("scrape run complete", zap.Int("inserted", total))
	send(progress.Completed(total))
	return total, nil
}
