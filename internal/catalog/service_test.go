package catalog

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/moviestore/moviestore/internal/domain"
	"github.com/moviestore/moviestore/internal/repository"
)

// catalogState backs the in-memory fakes so the movie and category stores
// share one view of the catalog, the way the real repositories share a
// database.
type catalogState struct {
	movies     []domain.Movie
	categories []domain.Category
	assigned   map[string]map[string]bool
	seq        int
}

func newCatalogState() *catalogState {
	return &catalogState{assigned: map[string]map[string]bool{}}
}

func (s *catalogState) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

type fakeMovieStore struct{ state *catalogState }

func (f *fakeMovieStore) Create(_ context.Context, params repository.MovieCreateParams) (domain.Movie, error) {
	for _, m := range f.state.movies {
		if m.Title == params.Title {
			return domain.Movie{}, repository.ErrDuplicate
		}
	}
	movie := domain.Movie{
		ID:          f.state.nextID("movie"),
		Title:       params.Title,
		ReleaseDate: params.ReleaseDate,
		Actors:      params.Actors,
		Description: params.Description,
	}
	f.state.movies = append(f.state.movies, movie)
	return movie, nil
}

func (f *fakeMovieStore) GetByID(_ context.Context, id string) (domain.Movie, error) {
	for _, m := range f.state.movies {
		if m.ID == id {
			return m, nil
		}
	}
	return domain.Movie{}, repository.ErrNotFound
}

func (f *fakeMovieStore) GetByTitle(_ context.Context, title string) (domain.Movie, error) {
	for _, m := range f.state.movies {
		if m.Title == title {
			return m, nil
		}
	}
	return domain.Movie{}, repository.ErrNotFound
}

func (f *fakeMovieStore) Exists(ctx context.Context, id string) (bool, error) {
	_, err := f.GetByID(ctx, id)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (f *fakeMovieStore) Search(_ context.Context, title string) ([]domain.Movie, error) {
	if title == "" {
		return append([]domain.Movie(nil), f.state.movies...), nil
	}
	var matched []domain.Movie
	for _, m := range f.state.movies {
		if strings.Contains(strings.ToLower(m.Title), strings.ToLower(title)) {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

func (f *fakeMovieStore) Update(_ context.Context, id string, params repository.MovieUpdateParams) (domain.Movie, error) {
	for i, m := range f.state.movies {
		if m.ID != id {
			continue
		}
		if params.Title != nil {
			m.Title = *params.Title
		}
		if params.ReleaseDate != nil {
			m.ReleaseDate = *params.ReleaseDate
		}
		if params.Actors != nil {
			m.Actors = *params.Actors
		}
		if params.Description != nil {
			m.Description = *params.Description
		}
		f.state.movies[i] = m
		return m, nil
	}
	return domain.Movie{}, repository.ErrNotFound
}

func (f *fakeMovieStore) Delete(_ context.Context, id string) error {
	for i, m := range f.state.movies {
		if m.ID == id {
			f.state.movies = append(f.state.movies[:i], f.state.movies[i+1:]...)
			delete(f.state.assigned, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeMovieStore) ListByCategory(_ context.Context, categoryID string) ([]domain.Movie, error) {
	var matched []domain.Movie
	for _, m := range f.state.movies {
		if f.state.assigned[m.ID][categoryID] {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

func (f *fakeMovieStore) AssignCategory(_ context.Context, movieID, categoryID string) error {
	if f.state.assigned[movieID][categoryID] {
		return repository.ErrDuplicate
	}
	if f.state.assigned[movieID] == nil {
		f.state.assigned[movieID] = map[string]bool{}
	}
	f.state.assigned[movieID][categoryID] = true
	return nil
}

func (f *fakeMovieStore) HasCategory(_ context.Context, movieID, categoryID string) (bool, error) {
	return f.state.assigned[movieID][categoryID], nil
}

type fakeCategoryStore struct{ state *catalogState }

func (f *fakeCategoryStore) Create(_ context.Context, name string) (domain.Category, error) {
	for _, c := range f.state.categories {
		if c.Name == name {
			return domain.Category{}, repository.ErrDuplicate
		}
	}
	category := domain.Category{ID: f.state.nextID("category"), Name: name}
	f.state.categories = append(f.state.categories, category)
	return category, nil
}

func (f *fakeCategoryStore) GetByID(_ context.Context, id string) (domain.Category, error) {
	for _, c := range f.state.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Category{}, repository.ErrNotFound
}

func (f *fakeCategoryStore) GetByName(_ context.Context, name string) (domain.Category, error) {
	for _, c := range f.state.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return domain.Category{}, repository.ErrNotFound
}

func (f *fakeCategoryStore) Exists(ctx context.Context, id string) (bool, error) {
	_, err := f.GetByID(ctx, id)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (f *fakeCategoryStore) List(_ context.Context) ([]domain.Category, error) {
	return append([]domain.Category(nil), f.state.categories...), nil
}

func (f *fakeCategoryStore) Rename(_ context.Context, id, name string) (domain.Category, error) {
	for _, c := range f.state.categories {
		if c.Name == name && c.ID != id {
			return domain.Category{}, repository.ErrDuplicate
		}
	}
	for i, c := range f.state.categories {
		if c.ID == id {
			c.Name = name
			f.state.categories[i] = c
			return c, nil
		}
	}
	return domain.Category{}, repository.ErrNotFound
}

func (f *fakeCategoryStore) Delete(_ context.Context, id string) error {
	for i, c := range f.state.categories {
		if c.ID == id {
			f.state.categories = append(f.state.categories[:i], f.state.categories[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeCategoryStore) ListForMovie(_ context.Context, movieID string) ([]domain.Category, error) {
	var matched []domain.Category
	for _, c := range f.state.categories {
		if f.state.assigned[movieID][c.ID] {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (f *fakeCategoryStore) MovieCount(_ context.Context, categoryID string) (int64, error) {
	var count int64
	for _, byCategory := range f.state.assigned {
		if byCategory[categoryID] {
			count++
		}
	}
	return count, nil
}

func newTestService() (*Service, *catalogState) {
	state := newCatalogState()
	svc := NewService(&fakeMovieStore{state: state}, &fakeCategoryStore{state: state})
	return svc, state
}

func validMovieParams(title string) MovieParams {
	return MovieParams{
		Title:       title,
		ReleaseDate: time.Date(2010, time.May, 1, 0, 0, 0, 0, time.UTC),
		Actors:      "Some Actor",
		Description: "Something happens.",
	}
}

func TestAddMovie_RequiredFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*MovieParams)
	}{
		{"missing title", func(p *MovieParams) { p.Title = "  " }},
		{"missing release date", func(p *MovieParams) { p.ReleaseDate = time.Time{} }},
		{"missing actors", func(p *MovieParams) { p.Actors = "" }},
		{"missing description", func(p *MovieParams) { p.Description = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validMovieParams("Valid Title")
			tt.mutate(&params)
			_, err := svc.AddMovie(ctx, params)
			if domain.KindOf(err) != domain.KindInvalidArgument {
				t.Fatalf("AddMovie error = %v, want invalid argument", err)
			}
		})
	}
}

func TestAddMovie_DuplicateTitle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.AddMovie(ctx, validMovieParams("Twice")); err != nil {
		t.Fatalf("first AddMovie: %v", err)
	}
	_, err := svc.AddMovie(ctx, validMovieParams("Twice"))
	if domain.KindOf(err) != domain.KindConflict {
		t.Fatalf("second AddMovie error = %v, want conflict", err)
	}
}

func TestSearchMovies_EmptyCatalog(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SearchMovies(ctx, "")
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("SearchMovies on empty catalog error = %v, want not found", err)
	}

	if _, err := svc.AddMovie(ctx, validMovieParams("Present")); err != nil {
		t.Fatalf("AddMovie: %v", err)
	}
	_, err = svc.SearchMovies(ctx, "absent")
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("SearchMovies with no match error = %v, want not found", err)
	}

	movies, err := svc.SearchMovies(ctx, "pres")
	if err != nil {
		t.Fatalf("SearchMovies: %v", err)
	}
	if len(movies) != 1 {
		t.Fatalf("SearchMovies size = %d, want 1", len(movies))
	}
}

func TestUpdateMovie_FutureReleaseDateIgnored(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	movie, err := svc.AddMovie(ctx, validMovieParams("Stable Date"))
	if err != nil {
		t.Fatalf("AddMovie: %v", err)
	}

	future := time.Now().AddDate(1, 0, 0)
	updated, err := svc.UpdateMovie(ctx, movie.ID, MovieUpdate{ReleaseDate: &future})
	if err != nil {
		t.Fatalf("UpdateMovie: %v", err)
	}
	if !updated.ReleaseDate.Equal(movie.ReleaseDate) {
		t.Fatalf("future release date was applied: %v", updated.ReleaseDate)
	}

	// Today's date at midnight is earlier than the current instant but not
	// strictly before today, so it is ignored as well.
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	updated, err = svc.UpdateMovie(ctx, movie.ID, MovieUpdate{ReleaseDate: &today})
	if err != nil {
		t.Fatalf("UpdateMovie today: %v", err)
	}
	if !updated.ReleaseDate.Equal(movie.ReleaseDate) {
		t.Fatalf("release date set to today was applied: %v", updated.ReleaseDate)
	}

	yesterday := today.AddDate(0, 0, -1)
	updated, err = svc.UpdateMovie(ctx, movie.ID, MovieUpdate{ReleaseDate: &yesterday})
	if err != nil {
		t.Fatalf("UpdateMovie yesterday: %v", err)
	}
	if !updated.ReleaseDate.Equal(yesterday) {
		t.Fatalf("yesterday's date not applied: %v", updated.ReleaseDate)
	}

	past := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	updated, err = svc.UpdateMovie(ctx, movie.ID, MovieUpdate{ReleaseDate: &past})
	if err != nil {
		t.Fatalf("UpdateMovie past date: %v", err)
	}
	if !updated.ReleaseDate.Equal(past) {
		t.Fatalf("past release date not applied: %v", updated.ReleaseDate)
	}
}

func TestRenameCategory_SameNameRejected(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	category, err := svc.AddCategory(ctx, "Horror")
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}

	_, err = svc.RenameCategory(ctx, category.ID, "Horror")
	if domain.KindOf(err) != domain.KindInvalidArgument {
		t.Fatalf("same-name rename error = %v, want invalid argument", err)
	}

	renamed, err := svc.RenameCategory(ctx, category.ID, "Gothic Horror")
	if err != nil {
		t.Fatalf("RenameCategory: %v", err)
	}
	if renamed.Name != "Gothic Horror" {
		t.Fatalf("renamed name = %s", renamed.Name)
	}
}

func TestDeleteCategory_GuardedWhileAssigned(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	movie, err := svc.AddMovie(ctx, validMovieParams("Tagged"))
	if err != nil {
		t.Fatalf("AddMovie: %v", err)
	}
	category, err := svc.AddCategory(ctx, "Western")
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if err := svc.AssignCategory(ctx, movie.ID, category.ID); err != nil {
		t.Fatalf("AssignCategory: %v", err)
	}

	err = svc.DeleteCategory(ctx, category.ID)
	if domain.KindOf(err) != domain.KindConflict {
		t.Fatalf("DeleteCategory while assigned error = %v, want conflict", err)
	}

	if err := svc.DeleteMovie(ctx, movie.ID); err != nil {
		t.Fatalf("DeleteMovie: %v", err)
	}
	if err := svc.DeleteCategory(ctx, category.ID); err != nil {
		t.Fatalf("DeleteCategory after movie removal: %v", err)
	}
}

func TestAssignCategory_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	movie, err := svc.AddMovie(ctx, validMovieParams("Assignable"))
	if err != nil {
		t.Fatalf("AddMovie: %v", err)
	}
	category, err := svc.AddCategory(ctx, "Noir")
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}

	if err := svc.AssignCategory(ctx, movie.ID, "missing"); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("unknown category error = %v, want not found", err)
	}
	if err := svc.AssignCategory(ctx, "missing", category.ID); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("unknown movie error = %v, want not found", err)
	}

	if err := svc.AssignCategory(ctx, movie.ID, category.ID); err != nil {
		t.Fatalf("AssignCategory: %v", err)
	}
	if err := svc.AssignCategory(ctx, movie.ID, category.ID); domain.KindOf(err) != domain.KindConflict {
		t.Fatalf("second assign error = %v, want conflict", err)
	}
}
