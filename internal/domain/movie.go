package domain

import "time"

// Movie represents the canonical movie entity in the database/service.
// Price, price class, and currency are derived from ReleaseDate by the
// pricing package and are never stored.
type Movie struct {
	ID          string
	Title       string
	ReleaseDate time.Time
	Actors      string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category is a movie genre label. The movie side owns the association.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
