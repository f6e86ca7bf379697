package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/moviestore/moviestore/internal/domain"
)

// RentalsRepository persists rental records. Rows are insert-only.
type RentalsRepository struct {
	pool *pgxpool.Pool
}

const rentalColumns = `
    id,
    user_id,
    movie_id,
    movie_title,
    start_date,
    end_date,
    rental_price,
    created_at
`

// RentalInsertParams bundles the fields required to persist one rental row.
type RentalInsertParams struct {
	UserID     string
	MovieID    string
	MovieTitle string
	StartDate  time.Time
	EndDate    time.Time
	Price      decimal.Decimal
}

// Insert persists a single rental row and returns the stored record. Each
// call is its own statement; a batch of rentals is deliberately not wrapped
// in one transaction.
func (r *RentalsRepository) Insert(ctx context.Context, params RentalInsertParams) (domain.RentedMovie, error) {
	query := fmt.Sprintf(`
        INSERT INTO rented_movies (id, user_id, movie_id, movie_title, start_date, end_date, rental_price)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING %s
    `, rentalColumns)

	row := r.pool.QueryRow(ctx, query,
		uuid.NewString(), params.UserID, params.MovieID, params.MovieTitle,
		params.StartDate, params.EndDate, params.Price)
	return scanRental(row)
}

// ListAll returns every rental record ordered by user id.
func (r *RentalsRepository) ListAll(ctx context.Context) ([]domain.RentedMovie, error) {
	query := fmt.Sprintf(`SELECT %s FROM rented_movies ORDER BY user_id ASC, created_at ASC`, rentalColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRentals(rows)
}

// ListByUser returns one user's rentals ordered by movie.
func (r *RentalsRepository) ListByUser(ctx context.Context, userID string) ([]domain.RentedMovie, error) {
	query := fmt.Sprintf(`SELECT %s FROM rented_movies WHERE user_id = $1 ORDER BY movie_id ASC, created_at ASC`, rentalColumns)
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRentals(rows)
}

// ListByMovie returns all rentals of one movie.
func (r *RentalsRepository) ListByMovie(ctx context.Context, movieID string) ([]domain.RentedMovie, error) {
	query := fmt.Sprintf(`SELECT %s FROM rented_movies WHERE movie_id = $1 ORDER BY created_at ASC`, rentalColumns)
	rows, err := r.pool.Query(ctx, query, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRentals(rows)
}

// UserExists reports whether the user has any rental history at all.
func (r *RentalsRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rented_movies WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("rental user exists: %w", err)
	}
	return exists, nil
}

// CountByUserAndMovie counts how many times a user has rented a movie.
func (r *RentalsRepository) CountByUserAndMovie(ctx context.Context, userID, movieID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM rented_movies WHERE user_id = $1 AND movie_id = $2`,
		userID, movieID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count rentals: %w", err)
	}
	return count, nil
}

// MostRented returns rental counts per movie, most rented first. Counts are
// grouped by movie id only, so a title change between rentals cannot split a
// movie across ranking rows; the reported title is the latest snapshot.
func (r *RentalsRepository) MostRented(ctx context.Context) ([]domain.RentalStats, error) {
	query := `
        SELECT movie_id,
               (ARRAY_AGG(movie_title ORDER BY created_at DESC))[1] AS movie_title,
               COUNT(*) AS rentals
        FROM rented_movies
        GROUP BY movie_id
        ORDER BY rentals DESC, movie_title ASC
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.RentalStats, 0)
	for rows.Next() {
		var stats domain.RentalStats
		if err := rows.Scan(&stats.MovieID, &stats.MovieTitle, &stats.Rentals); err != nil {
			return nil, err
		}
		items = append(items, stats)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanRental(row pgx.Row) (domain.RentedMovie, error) {
	var rental domain.RentedMovie
	err := row.Scan(
		&rental.ID,
		&rental.UserID,
		&rental.MovieID,
		&rental.MovieTitle,
		&rental.StartDate,
		&rental.EndDate,
		&rental.RentalPrice,
		&rental.CreatedAt,
	)
	if err != nil {
		return domain.RentedMovie{}, err
	}
	return rental, nil
}

func collectRentals(rows pgx.Rows) ([]domain.RentedMovie, error) {
	items := make([]domain.RentedMovie, 0)
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rental)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
