package scraper

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"oc-showtimes/internal/model"
	"oc-showtimes/internal/normalize"
)

var regalTheater = model.Theater{
	Name:       "Regal Rockville Center",
	Chain:      model.ChainRegal,
	City:       "Rockville",
	State:      "MD",
	Zip:        "20850",
	BookingURL: "https://www.regmovies.com/theatres/regal-rockville-center-0336",
	Strategy:   model.StrategyRenderedPage,
	ChainID:    "0336",
}

type fakeSession struct {
	html    string
	err     error
	lastURL string
}

func (f *fakeSession) HTML(ctx context.Context, url string) (string, error) {
	f.lastURL = url
	if f.err != nil {
		return "", f.err
	}
	return f.html, nil
}

func (f *fakeSession) Close() {}

const regalPrimaryFixture = `<html><body>
<div class="film-card e1hace15320">
  <a aria-label="Wicked (Open Cap/Eng Sub)" href="/films/wicked">Wicked</a>
  <div class="format-row e1hace15400">
    <div>Open Captioned</div>
    <button>6:30pm</button>
    <button>9:15pm</button>
    <button>See More</button>
  </div>
  <div class="format-row e1hace15401">
    <div>Standard</div>
    <button>1:00pm</button>
  </div>
</div>
<div class="film-card e1hace15320">
  <a aria-label="Gladiator II" href="/films/gladiator-ii">Gladiator II</a>
  <div class="format-row e1hace15400">
    <div>Standard</div>
    <button>2:00pm</button>
  </div>
</div>
</body></html>`

func TestRegalFetchShowingsPrimarySelector(t *testing.T) {
	date := normalize.Date{Year: 2025, Month: time.December, Day: 27}
	session := &fakeSession{html: regalPrimaryFixture}
	adapter := NewRegal(session, zap.NewNop())

	showings, err := adapter.FetchShowings(context.Background(), regalTheater, date)
	if err != nil {
		t.Fatalf("FetchShowings failed: %v", err)
	}

	if want := regalTheater.BookingURL + "?date=12-27-2025"; session.lastURL != want {
		t.Errorf("rendered URL = %q, want %q", session.lastURL, want)
	}

	// Only the Open Captioned row of the first film qualifies, and the
	// non-time button is skipped.
	if len(showings) != 2 {
		t.Fatalf("expected 2 showings, got %d: %+v", len(showings), showings)
	}

	for _, s := range showings {
		if s.Title != "Wicked" {
			t.Errorf("title = %q, want suffix-stripped %q", s.Title, "Wicked")
		}
		if s.URL != session.lastURL {
			t.Errorf("url = %q, want page URL", s.URL)
		}
		if s.TheaterCity != "Rockville" || s.TheaterZip != "20850" {
			t.Errorf("theater fields not carried over: %+v", s)
		}
	}

	if showings[0].Showtime != "2025-12-27T18:30:00" {
		t.Errorf("showtime[0] = %q", showings[0].Showtime)
	}
	if showings[1].Showtime != "2025-12-27T21:15:00" {
		t.Errorf("showtime[1] = %q", showings[1].Showtime)
	}
}

const regalFallbackFixture = `<html><body>
<section class="showtimes">
  <div class="film">
    <a aria-label="Dune: Part Three" href="/films/dune-3">Dune</a>
    <div class="formats">
      <div>Open Captioned</div>
      <button>8:00pm</button>
    </div>
  </div>
  <div class="film">
    <a aria-label="Moana 2" href="/films/moana-2">Moana</a>
    <div class="formats">
      <div>Standard</div>
      <button>5:00pm</button>
    </div>
  </div>
</section>
</body></html>`

func TestRegalFetchShowingsStructuralFallback(t *testing.T) {
	date := normalize.Date{Year: 2025, Month: time.December, Day: 27}
	session := &fakeSession{html: regalFallbackFixture}
	adapter := NewRegal(session, zap.NewNop())

	showings, err := adapter.FetchShowings(context.Background(), regalTheater, date)
	if err != nil {
		t.Fatalf("FetchShowings failed: %v", err)
	}

	if len(showings) != 1 {
		t.Fatalf("expected 1 showing via fallback, got %d: %+v", len(showings), showings)
	}
	if showings[0].Title != "Dune: Part Three" {
		t.Errorf("title = %q", showings[0].Title)
	}
	if showings[0].Showtime != "2025-12-27T20:00:00" {
		t.Errorf("showtime = %q", showings[0].Showtime)
	}
}

func TestRegalFetchShowingsFormatRowFallback(t *testing.T) {
	// The known format-row class is gone; the adapter climbs to the
	// nearest ancestor holding the showtime buttons.
	html := `<html><body>
<div class="e1hace15320">
  <a aria-label="Conclave" href="/films/conclave">Conclave</a>
  <div class="row">
    <div><div>Open Captioned</div></div>
    <button>7:45pm</button>
  </div>
</div>
</body></html>`

	date := normalize.Date{Year: 2025, Month: time.December, Day: 27}
	adapter := NewRegal(&fakeSession{html: html}, zap.NewNop())

	showings, err := adapter.FetchShowings(context.Background(), regalTheater, date)
	if err != nil {
		t.Fatalf("FetchShowings failed: %v", err)
	}
	if len(showings) != 1 {
		t.Fatalf("expected 1 showing, got %d", len(showings))
	}
	if showings[0].Showtime != "2025-12-27T19:45:00" {
		t.Errorf("showtime = %q", showings[0].Showtime)
	}
}

func TestRegalFetchShowingsNoMatches(t *testing.T) {
	session := &fakeSession{html: `<html><body><p>Nothing playing today.</p></body></html>`}
	adapter := NewRegal(session, zap.NewNop())

	showings, err := adapter.FetchShowings(context.Background(), regalTheater, normalize.Today())
	if err != nil {
		t.Fatalf("expected empty result, got error: %v", err)
	}
	if len(showings) != 0 {
		t.Errorf("expected no showings, got %d", len(showings))
	}
}

func TestRegalFetchShowingsRenderFailure(t *testing.T) {
	session := &fakeSession{err: errors.New("navigation timeout")}
	adapter := NewRegal(session, zap.NewNop())

	_, err := adapter.FetchShowings(context.Background(), regalTheater, normalize.Today())
	if err == nil {
		t.Fatal("expected error when rendering fails")
	}
	if !strings.Contains(err.Error(), "navigation timeout") {
		t.Errorf("error does not wrap the render failure: %v", err)
	}
}
