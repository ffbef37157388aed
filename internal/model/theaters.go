package model

// DefaultTheaters returns the built-in scrape targets. AMC theatres carry
// their numeric API id; Regal theatres carry the code embedded in their
// booking URL slug.
func DefaultTheaters() []Theater {
	return []Theater{
		{
			Name:       "AMC Montgomery 16",
			Chain:      ChainAMC,
			City:       "Bethesda",
			State:      "MD",
			Zip:        "20817",
			BookingURL: "https://www.amctheatres.com/movie-theatres/washington-d-c/amc-montgomery-16/showtimes",
			Strategy:   StrategyAPI,
			ChainID:    "348",
		},
		{
			Name:       "AMC Georgetown 14",
			Chain:      ChainAMC,
			City:       "Washington",
			State:      "DC",
			Zip:        "20007",
			BookingURL: "https://www.amctheatres.com/movie-theatres/washington-d-c/amc-georgetown-14/showtimes",
			Strategy:   StrategyAPI,
			ChainID:    "2654",
		},
		{
			Name:       "Regal Rockville Center",
			Chain:      ChainRegal,
			City:       "Rockville",
			State:      "MD",
			Zip:        "20850",
			BookingURL: "https://www.regmovies.com/theatres/regal-rockville-center-0336",
			Strategy:   StrategyRenderedPage,
			ChainID:    "0336",
		},
		{
			Name:       "Regal Majestic 20",
			Chain:      ChainRegal,
			City:       "Silver Spring",
			State:      "MD",
			Zip:        "20910",
			BookingURL: "https://www.regmovies.com/theatres/regal-majestic-1862",
			Strategy:   StrategyRenderedPage,
			ChainID:    "1862",
		},
		{
			Name:       "Regal Gallery Place 4DX",
			Chain:      ChainRegal,
			City:       "Washington",
			State:      "DC",
			Zip:        "20001",
			BookingURL: "https://www.regmovies.com/theatres/regal-gallery-place-4dx-1551",
			Strategy:   StrategyRenderedPage,
			ChainID:    "1551",
		},
	}
}
