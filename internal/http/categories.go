package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/moviestore/moviestore/internal/domain"
)

type categoryRequest struct {
	Name string `json:"name"`
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type categoryListResponse struct {
	Items []categoryResponse `json:"items"`
}

func toCategoryResponse(category domain.Category) categoryResponse {
	return categoryResponse{ID: category.ID, Name: category.Name}
}

func toCategoryListResponse(categories []domain.Category) categoryListResponse {
	items := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, toCategoryResponse(category))
	}
	return categoryListResponse{Items: items}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		s.respondServiceError(w, err, "list categories")
		return
	}
	s.respondJSON(w, http.StatusOK, toCategoryListResponse(categories))
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	category, err := s.catalog.AddCategory(r.Context(), req.Name)
	if err != nil {
		s.respondServiceError(w, err, "create category")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/categories/%s", category.ID))
	s.respondJSON(w, http.StatusCreated, toCategoryResponse(category))
}

func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryID")

	var req categoryRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	category, err := s.catalog.RenameCategory(r.Context(), categoryID, req.Name)
	if err != nil {
		s.respondServiceError(w, err, "rename category")
		return
	}
	s.respondJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryID")

	if err := s.catalog.DeleteCategory(r.Context(), categoryID); err != nil {
		s.respondServiceError(w, err, "delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoviesForCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryID")

	movies, err := s.catalog.MoviesForCategory(r.Context(), categoryID)
	if err != nil {
		s.respondServiceError(w, err, "list category movies")
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieListResponse(movies, time.Now().UTC()))
}
