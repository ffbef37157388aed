package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"oc-showtimes/internal/model"
	"oc-showtimes/internal/normalize"
	"oc-showtimes/internal/pipeline"
	"oc-showtimes/internal/scraper"
	"oc-showtimes/internal/store"
)

type adapterFunc func(ctx context.Context, t model.Theater, d normalize.Date) ([]model.Showing, error)

func (f adapterFunc) FetchShowings(ctx context.Context, t model.Theater, d normalize.Date) ([]model.Showing, error) {
	return f(ctx, t, d)
}

func newTestHandler(t *testing.T, adapter scraper.Adapter) (*Handler, store.Store) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "movies.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	registry := scraper.NewRegistry()
	if adapter != nil {
		registry.Register(model.StrategyAPI, adapter)
	}

	theaters := []model.Theater{{
		Name:     "AMC Empire 25",
		Chain:    model.ChainAMC,
		City:     "New York",
		State:    "NY",
		Strategy: model.StrategyAPI,
	}}

	runner := pipeline.New(st, registry, 1, zap.NewNop())
	return New(st, runner, theaters, zap.NewNop()), st
}

func TestSearchEndpoint(t *testing.T) {
	h, st := newTestHandler(t, nil)
	ctx := context.Background()

	seed := []model.Showing{
		{Title: "Wicked", TheaterName: "AMC Empire 25", TheaterCity: "New York", TheaterState: "NY", TheaterZip: "10036", Showtime: "2025-12-27T19:00:00"},
		{Title: "Conclave", TheaterName: "Regal Majestic", TheaterCity: "Silver Spring", TheaterState: "MD", TheaterZip: "20910", Showtime: "2025-12-27T15:00:00"},
	}
	for _, s := range seed {
		if err := st.Insert(ctx, s); err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}

	router := h.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/movies", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type = %q", ct)
	}
	if origin := rec.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("cors header = %q", origin)
	}

	var body struct {
		Data []model.Showing `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(body.Data) != 2 {
		t.Fatalf("got %d showings, want 2", len(body.Data))
	}
	// Ascending by showtime.
	if body.Data[0].Title != "Conclave" {
		t.Errorf("first showing = %q, want the earlier one", body.Data[0].Title)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/movies?q=wicked", nil))
	body.Data = nil
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding filtered body: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].Title != "Wicked" {
		t.Errorf("filtered result = %+v", body.Data)
	}
}

func TestSearchEndpointEmptyResult(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/movies?q=nothing", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	// The frontend expects an array, never null.
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestScrapeEndpointStreams(t *testing.T) {
	h, st := newTestHandler(t, adapterFunc(func(ctx context.Context, th model.Theater, d normalize.Date) ([]model.Showing, error) {
		return []model.Showing{{
			Title:       "Wicked",
			TheaterName: th.Name,
			Showtime:    "2025-12-27T19:00:00",
		}}, nil
	}))

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scrape", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}

	frames := parseSSE(t, rec.Body.String())
	if len(frames) < 3 {
		t.Fatalf("expected connected plus progress plus complete, got %d frames", len(frames))
	}
	if frames[0]["type"] != "connected" {
		t.Errorf("first frame = %v", frames[0])
	}
	last := frames[len(frames)-1]
	if last["type"] != "complete" {
		t.Errorf("last frame = %v", last)
	}
	if count, ok := last["count"].(float64); !ok || count != 1 {
		t.Errorf("complete count = %v", last["count"])
	}

	var sawMovie bool
	for _, f := range frames {
		if f["type"] == "movie" {
			sawMovie = true
			if f["title"] != "Wicked" {
				t.Errorf("movie frame = %v", f)
			}
		}
	}
	if !sawMovie {
		t.Error("no movie frame in stream")
	}

	rows, err := st.Search(context.Background(), "")
	if err != nil {
		t.Fatalf("search after scrape: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("store holds %d rows, want 1", len(rows))
	}
}

func TestScrapeEndpointBusy(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	h, _ := newTestHandler(t, adapterFunc(func(ctx context.Context, th model.Theater, d normalize.Date) ([]model.Showing, error) {
		once.Do(func() { close(started) })
		<-release
		return nil, nil
	}))
	router := h.Router()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/scrape", nil))
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("first scrape never started")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scrape", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "scrape already in progress") {
		t.Errorf("body = %s", rec.Body.String())
	}

	close(release)
	wg.Wait()
}

func TestHealthEndpoint(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

// parseSSE decodes each "data: <json>" frame in order.
func parseSSE(t *testing.T, body string) []map[string]any {
	t.Helper()
	var frames []map[string]any
	for _, line := range strings.Split(body, "\n") {
		payload, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		var frame map[string]any
		if err := json.Unmarshal([]byte(payload), &frame); err != nil {
			t.Fatalf("bad frame %q: %v", payload, err)
		}
		frames = append(frames, frame)
	}
	return frames
}
