package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/moviestore/moviestore/internal/domain"
	"github.com/moviestore/moviestore/internal/repository"
)

// MovieStore is the slice of movie persistence the catalog service needs.
type MovieStore interface {
	Create(ctx context.Context, params repository.MovieCreateParams) (domain.Movie, error)
	GetByID(ctx context.Context, id string) (domain.Movie, error)
	GetByTitle(ctx context.Context, title string) (domain.Movie, error)
	Exists(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, title string) ([]domain.Movie, error)
	Update(ctx context.Context, id string, params repository.MovieUpdateParams) (domain.Movie, error)
	Delete(ctx context.Context, id string) error
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Movie, error)
	AssignCategory(ctx context.Context, movieID, categoryID string) error
	HasCategory(ctx context.Context, movieID, categoryID string) (bool, error)
}

// CategoryStore is the slice of category persistence the catalog service needs.
type CategoryStore interface {
	Create(ctx context.Context, name string) (domain.Category, error)
	GetByID(ctx context.Context, id string) (domain.Category, error)
	GetByName(ctx context.Context, name string) (domain.Category, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]domain.Category, error)
	Rename(ctx context.Context, id, name string) (domain.Category, error)
	Delete(ctx context.Context, id string) error
	ListForMovie(ctx context.Context, movieID string) ([]domain.Category, error)
	MovieCount(ctx context.Context, categoryID string) (int64, error)
}

// Service implements movie and category management on top of the stores.
type Service struct {
	movies     MovieStore
	categories CategoryStore
}

// NewService wires the catalog service with explicit store dependencies.
func NewService(movies MovieStore, categories CategoryStore) *Service {
	return &Service{movies: movies, categories: categories}
}

// MovieParams carries the fields of a new movie.
type MovieParams struct {
	Title       string
	ReleaseDate time.Time
	Actors      string
	Description string
}

// MovieUpdate carries optional replacement fields for an existing movie.
type MovieUpdate struct {
	Title       *string
	ReleaseDate *time.Time
	Actors      *string
	Description *string
}

// SearchMovies returns all movies, or those whose title contains the given
// fragment case-insensitively. An empty result is reported as NotFound to
// keep the historical list-is-empty contract.
func (s *Service) SearchMovies(ctx context.Context, title string) ([]domain.Movie, error) {
	movies, err := s.movies.Search(ctx, title)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		if title == "" {
			return nil, domain.NotFoundf("movie list is empty")
		}
		return nil, domain.NotFoundf("no such movie with title: %s", title)
	}
	return movies, nil
}

// GetMovie fetches a movie by id.
func (s *Service) GetMovie(ctx context.Context, movieID string) (domain.Movie, error) {
	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Movie{}, domain.NotFoundf("movie with id %s does not exist", movieID)
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// CategoriesForMovie returns the categories assigned to a movie.
func (s *Service) CategoriesForMovie(ctx context.Context, movieID string) ([]domain.Category, error) {
	exists, err := s.movies.Exists(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NotFoundf("movie with id %s does not exist", movieID)
	}

	categories, err := s.categories.ListForMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, domain.NotFoundf("movie with id %s has no categories", movieID)
	}
	return categories, nil
}

// AddMovie creates a movie after checking title uniqueness.
func (s *Service) AddMovie(ctx context.Context, params MovieParams) (domain.Movie, error) {
	params.Title = strings.TrimSpace(params.Title)
	if params.Title == "" {
		return domain.Movie{}, domain.InvalidArgumentf("movie title is required")
	}
	if params.ReleaseDate.IsZero() {
		return domain.Movie{}, domain.InvalidArgumentf("movie release date is required")
	}
	if strings.TrimSpace(params.Actors) == "" {
		return domain.Movie{}, domain.InvalidArgumentf("movie actors are required")
	}
	if strings.TrimSpace(params.Description) == "" {
		return domain.Movie{}, domain.InvalidArgumentf("movie description is required")
	}

	if _, err := s.movies.GetByTitle(ctx, params.Title); err == nil {
		return domain.Movie{}, domain.Conflictf("movie with given title already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return domain.Movie{}, err
	}

	movie, err := s.movies.Create(ctx, repository.MovieCreateParams{
		Title:       params.Title,
		ReleaseDate: params.ReleaseDate,
		Actors:      params.Actors,
		Description: params.Description,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Movie{}, domain.Conflictf("movie with given title already exists")
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// UpdateMovie applies the provided fields to an existing movie. A release
// date that is not strictly before today is ignored rather than rejected,
// matching the historical behaviour. The comparison is at date granularity,
// so today's date is ignored too.
func (s *Service) UpdateMovie(ctx context.Context, movieID string, update MovieUpdate) (domain.Movie, error) {
	exists, err := s.movies.Exists(ctx, movieID)
	if err != nil {
		return domain.Movie{}, err
	}
	if !exists {
		return domain.Movie{}, domain.NotFoundf("movie with id %s does not exist", movieID)
	}

	params := repository.MovieUpdateParams{
		Title:       normalizePtr(update.Title),
		Actors:      normalizePtr(update.Actors),
		Description: normalizePtr(update.Description),
	}
	if update.ReleaseDate != nil && dateOnly(*update.ReleaseDate).Before(dateOnly(time.Now())) {
		params.ReleaseDate = update.ReleaseDate
	}

	movie, err := s.movies.Update(ctx, movieID, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Movie{}, domain.NotFoundf("movie with id %s does not exist", movieID)
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Movie{}, domain.Conflictf("movie with given title already exists")
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// DeleteMovie removes a movie and its category associations.
func (s *Service) DeleteMovie(ctx context.Context, movieID string) error {
	if err := s.movies.Delete(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NotFoundf("movie with id %s does not exist", movieID)
		}
		return err
	}
	return nil
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, domain.NotFoundf("category list is empty")
	}
	return categories, nil
}

// MoviesForCategory returns the movies assigned to a category.
func (s *Service) MoviesForCategory(ctx context.Context, categoryID string) ([]domain.Movie, error) {
	exists, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NotFoundf("category with id %s does not exist", categoryID)
	}

	movies, err := s.movies.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, domain.NotFoundf("no movies with category id %s", categoryID)
	}
	return movies, nil
}

// AddCategory creates a category after checking name uniqueness.
func (s *Service) AddCategory(ctx context.Context, name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, domain.InvalidArgumentf("category name is required")
	}

	if _, err := s.categories.GetByName(ctx, name); err == nil {
		return domain.Category{}, domain.Conflictf("category with name %s already exists", name)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return domain.Category{}, err
	}

	category, err := s.categories.Create(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Category{}, domain.Conflictf("category with name %s already exists", name)
		}
		return domain.Category{}, err
	}
	return category, nil
}

// RenameCategory changes a category's name. Renaming to the current name is
// rejected so a no-op update cannot masquerade as a change.
func (s *Service) RenameCategory(ctx context.Context, categoryID, name string) (domain.Category, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Category{}, domain.NotFoundf("category with id %s does not exist", categoryID)
		}
		return domain.Category{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, domain.InvalidArgumentf("category name is required")
	}
	if category.Name == name {
		return domain.Category{}, domain.InvalidArgumentf("the category name is the same as it was before")
	}

	renamed, err := s.categories.Rename(ctx, categoryID, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Category{}, domain.NotFoundf("category with id %s does not exist", categoryID)
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Category{}, domain.Conflictf("category with name %s already exists", name)
		}
		return domain.Category{}, err
	}
	return renamed, nil
}

// DeleteCategory removes a category unless a movie still references it.
func (s *Service) DeleteCategory(ctx context.Context, categoryID string) error {
	exists, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NotFoundf("category with id %s does not exist", categoryID)
	}

	count, err := s.categories.MovieCount(ctx, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.Conflictf("cannot delete a category that is assigned to a movie")
	}

	if err := s.categories.Delete(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NotFoundf("category with id %s does not exist", categoryID)
		}
		return err
	}
	return nil
}

// AssignCategory adds a category to a movie. Assigning twice is a conflict.
func (s *Service) AssignCategory(ctx context.Context, movieID, categoryID string) error {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NotFoundf("category with id %s does not exist", categoryID)
		}
		return err
	}
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NotFoundf("movie with id %s does not exist", movieID)
		}
		return err
	}

	assigned, err := s.movies.HasCategory(ctx, movieID, categoryID)
	if err != nil {
		return err
	}
	if assigned {
		return domain.Conflictf("movie with id %s already has category with id %s", movieID, categoryID)
	}

	if err := s.movies.AssignCategory(ctx, movieID, categoryID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Conflictf("movie with id %s already has category with id %s", movieID, categoryID)
		}
		return err
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func normalizePtr(ptr *string) *string {
	if ptr == nil {
		return nil
	}
	val := strings.TrimSpace(*ptr)
	if val == "" {
		return nil
	}
	return &val
}
