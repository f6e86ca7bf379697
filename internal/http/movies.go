package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/moviestore/moviestore/internal/catalog"
	"github.com/moviestore/moviestore/internal/domain"
	"github.com/moviestore/moviestore/internal/pricing"
)

type movieCreateRequest struct {
	Title       string `json:"title"`
	ReleaseDate string `json:"releaseDate"`
	Actors      string `json:"actors"`
	Description string `json:"description"`
}

type movieUpdateRequest struct {
	Title       *string `json:"title"`
	ReleaseDate *string `json:"releaseDate"`
	Actors      *string `json:"actors"`
	Description *string `json:"description"`
}

type movieResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ReleaseDate  string `json:"releaseDate"`
	Actors       string `json:"actors"`
	Description  string `json:"description"`
	PricePerWeek string `json:"pricePerWeek"`
	PriceClass   string `json:"priceClass"`
	Currency     string `json:"currency"`
}

type movieListResponse struct {
	Items []movieResponse `json:"items"`
}

// toMovieResponse derives the current-week price fields at read time so a
// movie crossing a tier boundary is always reported at today's rate.
func toMovieResponse(movie domain.Movie, now time.Time) movieResponse {
	age := pricing.AgeInWeeks(movie.ReleaseDate, now)
	return movieResponse{
		ID:           movie.ID,
		Title:        movie.Title,
		ReleaseDate:  movie.ReleaseDate.Format("2006-01-02"),
		Actors:       movie.Actors,
		Description:  movie.Description,
		PricePerWeek: pricing.WeekPrice(age).StringFixed(2),
		PriceClass:   string(pricing.TierFor(age)),
		Currency:     pricing.Currency,
	}
}

func toMovieListResponse(movies []domain.Movie, now time.Time) movieListResponse {
	items := make([]movieResponse, 0, len(movies))
	for _, movie := range movies {
		items = append(items, toMovieResponse(movie, now))
	}
	return movieListResponse{Items: items}
}

func (s *Server) handleSearchMovies(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")

	movies, err := s.catalog.SearchMovies(r.Context(), title)
	if err != nil {
		s.respondServiceError(w, err, "search movies")
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieListResponse(movies, time.Now().UTC()))
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var req movieCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	releaseDate, err := time.Parse("2006-01-02", req.ReleaseDate)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "releaseDate must be formatted as YYYY-MM-DD")
		return
	}

	movie, err := s.catalog.AddMovie(r.Context(), catalog.MovieParams{
		Title:       req.Title,
		ReleaseDate: releaseDate,
		Actors:      req.Actors,
		Description: req.Description,
	})
	if err != nil {
		s.respondServiceError(w, err, "create movie")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/movies/%s", movie.ID))
	s.respondJSON(w, http.StatusCreated, toMovieResponse(movie, time.Now().UTC()))
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "movieID")

	movie, err := s.catalog.GetMovie(r.Context(), movieID)
	if err != nil {
		s.respondServiceError(w, err, "get movie")
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieResponse(movie, time.Now().UTC()))
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "movieID")

	var req movieUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	update := catalog.MovieUpdate{
		Title:       req.Title,
		Actors:      req.Actors,
		Description: req.Description,
	}
	if req.ReleaseDate != nil {
		releaseDate, err := time.Parse("2006-01-02", *req.ReleaseDate)
		if err != nil {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "releaseDate must be formatted as YYYY-MM-DD")
			return
		}
		update.ReleaseDate = &releaseDate
	}

	movie, err := s.catalog.UpdateMovie(r.Context(), movieID, update)
	if err != nil {
		s.respondServiceError(w, err, "update movie")
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieResponse(movie, time.Now().UTC()))
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "movieID")

	if err := s.catalog.DeleteMovie(r.Context(), movieID); err != nil {
		s.respondServiceError(w, err, "delete movie")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCategoriesForMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "movieID")

	categories, err := s.catalog.CategoriesForMovie(r.Context(), movieID)
	if err != nil {
		s.respondServiceError(w, err, "list movie categories")
		return
	}
	s.respondJSON(w, http.StatusOK, toCategoryListResponse(categories))
}

func (s *Server) handleAssignCategory(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "movieID")
	categoryID := chi.URLParam(r, "categoryID")

	if err := s.catalog.AssignCategory(r.Context(), movieID, categoryID); err != nil {
		s.respondServiceError(w, err, "assign category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
