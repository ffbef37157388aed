package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"oc-showtimes/internal/classify"
	"oc-showtimes/internal/model"
	"oc-showtimes/internal/normalize"
)

// AMC exposes showtimes through a vendor-keyed JSON API, so this adapter
// never touches a browser.
type AMC struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     *zap.Logger

	warnOnce sync.Once
}

// NewAMC creates the API-strategy adapter. An empty apiKey is allowed:
// every fetch then degrades to zero results with a single warning.
func NewAMC(apiKey, baseURL string, timeout time.Duration, log *zap.Logger) *AMC {
	return &AMC{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type amcShowtimesResponse struct {
	Embedded struct {
		Showtimes []amcShowtime `json:"showtimes"`
	} `json:"_embedded"`
}

type amcShowtime struct {
	MovieName         string         `json:"movieName"`
	ShowDateTimeLocal string         `json:"showDateTimeLocal"`
	PurchaseURL       string         `json:"purchaseUrl"`
	Attributes        []amcAttribute `json:"attributes"`
}

type amcAttribute struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// FetchShowings implements Adapter.
func (a *AMC) FetchShowings(ctx context.Context, theater model.Theater, date normalize.Date) ([]model.Showing, error) {
	if a.apiKey == "" {
		a.warnOnce.Do(func() {
			a.log.Warn("AMC_API_KEY not configured, skipping AMC theaters")
		})
		return nil, nil
	}

	url := fmt.Sprintf("%s/v2/theatres/%s/showtimes/%s?page-size=200",
		a.baseURL, theater.ChainID, amcDate(date))

	var payload amcShowtimesResponse
	err := getJSON(ctx, a.client, url, map[string]string{
		"X-AMC-Vendor-Key": a.apiKey,
		"Accept":           "application/json",
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("fetching AMC showtimes: %w", err)
	}

	var showings []model.Showing
	for _, st := range payload.Embedded.Showtimes {
		if !classify.IsOCEligible(amcAttrs(st.Attributes)) {
			continue
		}

		showtime, err := normalize.Canonical(date, st.ShowDateTimeLocal)
		if err != nil {
			if errors.Is(err, normalize.ErrParse) {
				a.log.Debug("dropping showing with unparseable time",
					zap.String("movie", st.MovieName),
					zap.String("raw", st.ShowDateTimeLocal))
				continue
			}
			return nil, err
		}

		url := st.PurchaseURL
		if url == "" {
			url = theater.BookingURL
		}

		showings = append(showings, model.Showing{
			Title:        st.MovieName,
			TheaterName:  theater.Name,
			TheaterCity:  theater.City,
			TheaterState: theater.State,
			TheaterZip:   theater.Zip,
			Showtime:     showtime,
			URL:          url,
		})
	}

	return showings, nil
}

func amcAttrs(attrs []amcAttribute) []classify.Attribute {
	out := make([]classify.Attribute, len(attrs))
	for i, a := range attrs {
		out[i] = classify.Attribute{Code: a.Code, Name: a.Name}
	}
	return out
}

// amcDate renders the API's M-D-YY path segment (no zero padding).
func amcDate(d normalize.Date) string {
	return fmt.Sprintf("%d-%d-%02d", int(d.Month), d.Day, d.Year%100)
}
