package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"oc-showtimes/internal/model"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLite is the Store implementation over a local SQLite file.
type SQLite struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies pending
// migrations.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, err
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Clear implements Store.
func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM movies`); err != nil {
		return fmt.Errorf("clearing movies: %w", err)
	}
	return nil
}

// Insert implements Store.
func (s *SQLite) Insert(ctx context.Context, m model.Showing) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO movies (id, title, theater_name, theater_city, theater_state, theater_zip, showtime, url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), m.Title, m.TheaterName, m.TheaterCity, m.TheaterState, m.TheaterZip, m.Showtime, m.URL)
	if err != nil {
		return fmt.Errorf("inserting showing: %w", err)
	}
	return nil
}

// Search implements Store. Two query tokens mean title AND city; the
// historical whole-query OR across title/theater/city is deliberately not
// supported.
func (s *SQLite) Search(ctx context.Context, query string) ([]model.Showing, error) {
	sqlStr := `SELECT id, title, theater_name, theater_city, theater_state, theater_zip, showtime, url FROM movies`
	var args []any

	tokens := strings.Fields(query)
	switch {
	case len(tokens) >= 2:
		sqlStr += ` WHERE title LIKE ? AND theater_city LIKE ?`
		args = append(args, like(tokens[0]), like(tokens[1]))
	case len(tokens) == 1:
		sqlStr += ` WHERE title LIKE ?`
		args = append(args, like(tokens[0]))
	}

	sqlStr += ` ORDER BY showtime ASC`

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("querying movies: %w", err)
	}
	defer rows.Close()

	showings := make([]model.Showing, 0)
	for rows.Next() {
		var m model.Showing
		if err := rows.Scan(&m.ID, &m.Title, &m.TheaterName, &m.TheaterCity,
			&m.TheaterState, &m.TheaterZip, &m.Showtime, &m.URL); err != nil {
			return nil, err
		}
		showings = append(showings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return showings, nil
}

// Close implements Store.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func like(token string) string {
	return "%" + token + "%"
}
