package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moviestore/moviestore/internal/domain"
)

// CategoriesRepository provides persistence helpers for categories.
type CategoriesRepository struct {
	pool *pgxpool.Pool
}

const categoryColumns = `id, name, created_at`

// Create inserts a new category. Name collisions surface as ErrDuplicate.
func (r *CategoriesRepository) Create(ctx context.Context, name string) (domain.Category, error) {
	query := fmt.Sprintf(`
        INSERT INTO categories (id, name)
        VALUES ($1,$2)
        RETURNING %s
    `, categoryColumns)

	row := r.pool.QueryRow(ctx, query, uuid.NewString(), name)
	category, err := scanCategory(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Category{}, ErrDuplicate
		}
		return domain.Category{}, err
	}
	return category, nil
}

// GetByID fetches a category by its identifier.
func (r *CategoriesRepository) GetByID(ctx context.Context, id string) (domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE id = $1`, categoryColumns)
	row := r.pool.QueryRow(ctx, query, id)
	category, err := scanCategory(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Category{}, ErrNotFound
		}
		return domain.Category{}, err
	}
	return category, nil
}

// GetByName fetches a category by its exact name. Names are unique.
func (r *CategoriesRepository) GetByName(ctx context.Context, name string) (domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE name = $1`, categoryColumns)
	row := r.pool.QueryRow(ctx, query, name)
	category, err := scanCategory(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Category{}, ErrNotFound
		}
		return domain.Category{}, err
	}
	return category, nil
}

// Exists reports whether a category with the given id is present.
func (r *CategoriesRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category exists: %w", err)
	}
	return exists, nil
}

// List returns all categories in insertion order.
func (r *CategoriesRepository) List(ctx context.Context) ([]domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories ORDER BY created_at ASC, id ASC`, categoryColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCategories(rows)
}

// Rename replaces a category's name and returns the stored entity.
func (r *CategoriesRepository) Rename(ctx context.Context, id, name string) (domain.Category, error) {
	query := fmt.Sprintf(`
        UPDATE categories SET name = $2 WHERE id = $1
        RETURNING %s
    `, categoryColumns)

	row := r.pool.QueryRow(ctx, query, id, name)
	category, err := scanCategory(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Category{}, ErrNotFound
		}
		if isUniqueViolation(err) {
			return domain.Category{}, ErrDuplicate
		}
		return domain.Category{}, err
	}
	return category, nil
}

// Delete removes a category. The service layer guards against deleting one
// that movies still reference; the FK backs that up at the database level.
func (r *CategoriesRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForMovie returns the categories assigned to a movie.
func (r *CategoriesRepository) ListForMovie(ctx context.Context, movieID string) ([]domain.Category, error) {
	query := `
        SELECT c.id, c.name, c.created_at FROM categories c
        JOIN movie_categories mc ON mc.category_id = c.id
        WHERE mc.movie_id = $1
        ORDER BY c.created_at ASC, c.id ASC
    `
	rows, err := r.pool.Query(ctx, query, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCategories(rows)
}

// MovieCount returns how many movies reference the category.
func (r *CategoriesRepository) MovieCount(ctx context.Context, categoryID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM movie_categories WHERE category_id = $1`, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("category movie count: %w", err)
	}
	return count, nil
}

func scanCategory(row pgx.Row) (domain.Category, error) {
	var category domain.Category
	if err := row.Scan(&category.ID, &category.Name, &category.CreatedAt); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

func collectCategories(rows pgx.Rows) ([]domain.Category, error) {
	items := make([]domain.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
