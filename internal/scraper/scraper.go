// Package scraper holds the per-chain source adapters. Each adapter knows
// how to retrieve raw showings for one theater and one date and map them
// into normalized showings; eligibility and time parsing live in the
// classify and normalize packages, not here.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"oc-showtimes/internal/model"
	"oc-showtimes/internal/normalize"
)

// Adapter is implemented once per integration strategy.
type Adapter interface {
	// FetchShowings retrieves the Open-Caption showings for one theater
	// and one date. An empty result is not an error; errors mean the
	// fetch itself failed and the slot should count as zero showings.
	FetchShowings(ctx context.Context, theater model.Theater, date normalize.Date) ([]model.Showing, error)
}

// Registry maps integration strategies to their adapters.
type Registry struct {
	adapters map[model.Strategy]Adapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[model.Strategy]Adapter)}
}

// Register binds an adapter to a strategy.
func (r *Registry) Register(strategy model.Strategy, a Adapter) {
	r.adapters[strategy] = a
}

// For returns the adapter handling the theater's strategy.
func (r *Registry) For(t model.Theater) (Adapter, bool) {
	a, ok := r.adapters[t.Strategy]
	return a, ok
}

// getJSON issues a GET with the given headers and decodes a 200 response
// into v. Any non-200 status is an error.
func getJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
