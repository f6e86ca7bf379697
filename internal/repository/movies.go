package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moviestore/moviestore/internal/domain"
)

// MoviesRepository provides persistence helpers for movie entities and their
// category associations (the movie side owns the movie_categories rows).
type MoviesRepository struct {
	pool *pgxpool.Pool
}

const movieColumns = `
    id,
    title,
    release_date,
    actors,
    description,
    created_at,
    updated_at
`

// MovieCreateParams bundles the fields required to create a movie.
type MovieCreateParams struct {
	Title       string
	ReleaseDate time.Time
	Actors      string
	Description string
}

// MovieUpdateParams carries optional replacement fields; nil means keep.
type MovieUpdateParams struct {
	Title       *string
	ReleaseDate *time.Time
	Actors      *string
	Description *string
}

// Create inserts a new movie row and returns the stored entity.
func (r *MoviesRepository) Create(ctx context.Context, params MovieCreateParams) (domain.Movie, error) {
	query := fmt.Sprintf(`
        INSERT INTO movies (id, title, release_date, actors, description)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING %s
    `, movieColumns)

	row := r.pool.QueryRow(ctx, query, uuid.NewString(), params.Title, params.ReleaseDate, params.Actors, params.Description)
	movie, err := scanMovie(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Movie{}, ErrDuplicate
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// GetByID fetches a movie by its identifier.
func (r *MoviesRepository) GetByID(ctx context.Context, id string) (domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE id = $1`, movieColumns)
	row := r.pool.QueryRow(ctx, query, id)
	movie, err := scanMovie(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// GetByTitle fetches a movie by its exact title. Titles are unique.
func (r *MoviesRepository) GetByTitle(ctx context.Context, title string) (domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE title = $1`, movieColumns)
	row := r.pool.QueryRow(ctx, query, title)
	movie, err := scanMovie(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// Exists reports whether a movie with the given id is present.
func (r *MoviesRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM movies WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("movie exists: %w", err)
	}
	return exists, nil
}

// Search returns movies whose title contains the given fragment,
// case-insensitively. An empty fragment returns the whole catalog. Results
// come back in insertion order.
func (r *MoviesRepository) Search(ctx context.Context, title string) ([]domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies ORDER BY created_at ASC, id ASC`, movieColumns)
	args := []interface{}{}
	if title != "" {
		query = fmt.Sprintf(`SELECT %s FROM movies WHERE title ILIKE $1 ORDER BY created_at ASC, id ASC`, movieColumns)
		args = append(args, "%"+title+"%")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMovies(rows)
}

// Update applies the non-nil fields and returns the stored entity.
func (r *MoviesRepository) Update(ctx context.Context, id string, params MovieUpdateParams) (domain.Movie, error) {
	query := fmt.Sprintf(`
        UPDATE movies
        SET title = COALESCE($2, title),
            release_date = COALESCE($3, release_date),
            actors = COALESCE($4, actors),
            description = COALESCE($5, description),
            updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, movieColumns)

	row := r.pool.QueryRow(ctx, query, id, params.Title, params.ReleaseDate, params.Actors, params.Description)
	movie, err := scanMovie(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Movie{}, ErrNotFound
		}
		if isUniqueViolation(err) {
			return domain.Movie{}, ErrDuplicate
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// Delete removes a movie; its association rows cascade away with it.
func (r *MoviesRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByCategory returns the movies assigned to a category in insertion order.
func (r *MoviesRepository) ListByCategory(ctx context.Context, categoryID string) ([]domain.Movie, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM movies m
        JOIN movie_categories mc ON mc.movie_id = m.id
        WHERE mc.category_id = $1
        ORDER BY m.created_at ASC, m.id ASC
    `, prefixedMovieColumns("m"))

	rows, err := r.pool.Query(ctx, query, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMovies(rows)
}

// AssignCategory writes an association row. An existing assignment surfaces
// as ErrDuplicate.
func (r *MoviesRepository) AssignCategory(ctx context.Context, movieID, categoryID string) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO movie_categories (movie_id, category_id) VALUES ($1,$2)`, movieID, categoryID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// HasCategory reports whether the movie already carries the category.
func (r *MoviesRepository) HasCategory(ctx context.Context, movieID, categoryID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM movie_categories WHERE movie_id = $1 AND category_id = $2)`,
		movieID, categoryID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has category: %w", err)
	}
	return exists, nil
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var movie domain.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.ReleaseDate,
		&movie.Actors,
		&movie.Description,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	return movie, nil
}

func collectMovies(rows pgx.Rows) ([]domain.Movie, error) {
	items := make([]domain.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func prefixedMovieColumns(alias string) string {
	return fmt.Sprintf(`
        %[1]s.id,
        %[1]s.title,
        %[1]s.release_date,
        %[1]s.actors,
        %[1]s.description,
        %[1]s.created_at,
        %[1]s.updated_at
    `, alias)
}
