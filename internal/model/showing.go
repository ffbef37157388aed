package model

// Chain identifies the theater chain an integration talks to.
type Chain string

const (
	ChainAMC   Chain = "amc"
	ChainRegal Chain = "regal"
)

// Strategy selects how showtimes are acquired for a theater.
type Strategy string

const (
	// StrategyAPI fetches structured JSON from the chain's showtime API.
	StrategyAPI Strategy = "api"
	// StrategyRenderedPage scrapes a JavaScript-rendered showtimes page.
	StrategyRenderedPage Strategy = "rendered-page"
)

// Theater is one configured scrape target. The list is static configuration,
// loaded once at startup and immutable for the lifetime of a run.
type Theater struct {
	Name       string
	Chain      Chain
	City       string
	State      string
	Zip        string
	BookingURL string
	Strategy   Strategy
	// ChainID is the chain-native theater identifier: the numeric AMC
	// theatre id or the Regal theatre code. Empty when the strategy
	// does not need one.
	ChainID string
}

// Location returns the "City, ST" form used in progress events.
func (t Theater) Location() string {
	return t.City + ", " + t.State
}

// Showing is a single Open-Caption performance, normalized across chains.
// Showtime is a canonical local timestamp (YYYY-MM-DDTHH:MM:SS) stored as
// presented by the theater, with no timezone conversion.
type Showing struct {
	ID           string `json:"id,omitempty"`
	Title        string `json:"title"`
	TheaterName  string `json:"theater_name"`
	TheaterCity  string `json:"theater_city"`
	TheaterState string `json:"theater_state"`
	TheaterZip   string `json:"theater_zip"`
	Showtime     string `json:"showtime"`
	URL          string `json:"url"`
}
