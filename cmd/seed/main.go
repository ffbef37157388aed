// Seeds the database with a small fixed dataset so the frontend can be
// developed without running a scrape.
package main

import (
	"context"
	"log"

	"oc-showtimes/internal/config"
	"oc-showtimes/internal/model"
	"oc-showtimes/internal/store"
)

var samples = []model.Showing{
	{Title: "Wicked", TheaterName: "AMC Empire 25", TheaterCity: "New York", TheaterState: "NY", TheaterZip: "10036", Showtime: "2024-11-27T19:00:00"},
	{Title: "Gladiator II", TheaterName: "Regal Union Square", TheaterCity: "New York", TheaterState: "NY", TheaterZip: "10003", Showtime: "2024-11-27T20:30:00"},
	{Title: "Moana 2", TheaterName: "Alamo Drafthouse Brooklyn", TheaterCity: "Brooklyn", TheaterState: "NY", TheaterZip: "11201", Showtime: "2024-11-28T14:00:00"},
	{Title: "Wicked", TheaterName: "AMC Lincoln Square 13", TheaterCity: "New York", TheaterState: "NY", TheaterZip: "10023", Showtime: "2024-11-28T18:00:00"},
	{Title: "Red One", TheaterName: "AMC Magic Johnson Harlem 9", TheaterCity: "New York", TheaterState: "NY", TheaterZip: "10027", Showtime: "2024-11-29T16:45:00"},
	{Title: "Conclave", TheaterName: "Angelika Film Center", TheaterCity: "New York", TheaterState: "NY", TheaterZip: "10012", Showtime: "2024-11-27T15:00:00"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	if err := st.Clear(ctx); err != nil {
		log.Fatalf("Failed to clear movies: %v", err)
	}

	for _, s := range samples {
		if err := st.Insert(ctx, s); err != nil {
			log.Fatalf("Failed to insert %q: %v", s.Title, err)
		}
	}

	log.Printf("Seeded %d showings into %s", len(samples), cfg.Store.Path)
}
