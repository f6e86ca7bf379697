package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moviestore/moviestore/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicate indicates a unique constraint rejected the write.
var ErrDuplicate = errors.New("repository: duplicate")

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Movies     *MoviesRepository
	Categories *CategoriesRepository
	Rentals    *RentalsRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Movies:     &MoviesRepository{pool: pool},
		Categories: &CategoriesRepository{pool: pool},
		Rentals:    &RentalsRepository{pool: pool},
	}
}

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
