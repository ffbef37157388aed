// Package store persists normalized showings. Each scrape run fully
// replaces the dataset: Clear then Insert per showing. There is no
// uniqueness constraint beyond the opaque row id.
package store

import (
	"context"

	"oc-showtimes/internal/model"
)

// Store is the persistence contract consumed by the pipeline and the
// search API.
type Store interface {
	// Clear drops every stored showing.
	Clear(ctx context.Context) error

	// Insert stores one showing, assigning it an opaque id.
	Insert(ctx context.Context, s model.Showing) error

	// Search returns showings ascending by showtime. An empty query
	// returns everything; one token filters title by substring; two
	// tokens filter title by the first and theater city by the second.
	Search(ctx context.Context, query string) ([]model.Showing, error)

	Close() error
}
