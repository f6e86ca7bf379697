package httpserver

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/moviestore/moviestore/internal/domain"
	"github.com/moviestore/moviestore/internal/pricing"
)

type rentRequest struct {
	UserID   string   `json:"userId"`
	MovieIDs []string `json:"movieIds"`
	Weeks    []int    `json:"weeks"`
}

type rentalResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	MovieID     string `json:"movieId"`
	MovieTitle  string `json:"movieTitle"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	RentalPrice string `json:"rentalPrice"`
	Currency    string `json:"currency"`
}

type rentalListResponse struct {
	Items []rentalResponse `json:"items"`
}

type invoiceRowResponse struct {
	MovieID    string `json:"movieId"`
	MovieTitle string `json:"movieTitle"`
	Weeks      int    `json:"weeks"`
	Price      string `json:"price"`
}

type invoiceResponse struct {
	Rows     []invoiceRowResponse `json:"rows"`
	Total    string               `json:"total"`
	Currency string               `json:"currency"`
}

type rentalStatsResponse struct {
	MovieID    string `json:"movieId"`
	MovieTitle string `json:"movieTitle"`
	Rentals    int64  `json:"rentals"`
}

type rentalStatsListResponse struct {
	Items []rentalStatsResponse `json:"items"`
}

func toRentalResponse(rental domain.RentedMovie) rentalResponse {
	return rentalResponse{
		ID:          rental.ID,
		UserID:      rental.UserID,
		MovieID:     rental.MovieID,
		MovieTitle:  rental.MovieTitle,
		StartDate:   rental.StartDate.Format("2006-01-02"),
		EndDate:     rental.EndDate.Format("2006-01-02"),
		RentalPrice: rental.RentalPrice.StringFixed(2),
		Currency:    pricing.Currency,
	}
}

func toRentalListResponse(rentals []domain.RentedMovie) rentalListResponse {
	items := make([]rentalResponse, 0, len(rentals))
	for _, rental := range rentals {
		items = append(items, toRentalResponse(rental))
	}
	return rentalListResponse{Items: items}
}

func toInvoiceResponse(invoice domain.Invoice) invoiceResponse {
	rows := make([]invoiceRowResponse, 0, len(invoice.Rows))
	for _, row := range invoice.Rows {
		rows = append(rows, invoiceRowResponse{
			MovieID:    row.Movie.ID,
			MovieTitle: row.Movie.Title,
			Weeks:      row.Weeks,
			Price:      row.Price.StringFixed(2),
		})
	}
	return invoiceResponse{
		Rows:     rows,
		Total:    invoice.Total.StringFixed(2),
		Currency: pricing.Currency,
	}
}

func (s *Server) handleListRentals(w http.ResponseWriter, r *http.Request) {
	rentals, err := s.rentals.ListAll(r.Context())
	if err != nil {
		s.respondServiceError(w, err, "list rentals")
		return
	}
	s.respondJSON(w, http.StatusOK, toRentalListResponse(rentals))
}

func (s *Server) handleRentMovies(w http.ResponseWriter, r *http.Request) {
	var req rentRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	rented, err := s.rentals.Rent(r.Context(), req.MovieIDs, req.Weeks, req.UserID)
	if err != nil {
		s.respondServiceError(w, err, "rent movies")
		return
	}
	s.respondJSON(w, http.StatusCreated, toRentalListResponse(rented))
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	movieIDs, weeks, err := parseQuoteQuery(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	invoice, err := s.rentals.Quote(r.Context(), movieIDs, weeks)
	if err != nil {
		s.respondServiceError(w, err, "quote rentals")
		return
	}
	s.respondJSON(w, http.StatusOK, toInvoiceResponse(invoice))
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	stats, err := s.rentals.Popular(r.Context())
	if err != nil {
		s.respondServiceError(w, err, "list popular movies")
		return
	}

	items := make([]rentalStatsResponse, 0, len(stats))
	for _, entry := range stats {
		items = append(items, rentalStatsResponse{
			MovieID:    entry.MovieID,
			MovieTitle: entry.MovieTitle,
			Rentals:    entry.Rentals,
		})
	}
	s.respondJSON(w, http.StatusOK, rentalStatsListResponse{Items: items})
}

func (s *Server) handleRentalsByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	rentals, err := s.rentals.ListByUser(r.Context(), userID)
	if err != nil {
		s.respondServiceError(w, err, "list rentals by user")
		return
	}
	s.respondJSON(w, http.StatusOK, toRentalListResponse(rentals))
}

func (s *Server) handleRentalsByMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "movieID")

	rentals, err := s.rentals.ListByMovie(r.Context(), movieID)
	if err != nil {
		s.respondServiceError(w, err, "list rentals by movie")
		return
	}
	s.respondJSON(w, http.StatusOK, toRentalListResponse(rentals))
}

// parseQuoteQuery reads movieIds and weeks as comma-separated lists. It only
// enforces syntax; pairing the two lists up is the service's job so the
// validation error codes stay consistent with the rent flow.
func parseQuoteQuery(query url.Values) ([]string, []int, error) {
	rawMovieIDs := query.Get("movieIds")
	if strings.TrimSpace(rawMovieIDs) == "" {
		return nil, nil, fmt.Errorf("movieIds query parameter is required")
	}

	movieIDs := strings.Split(rawMovieIDs, ",")
	for i, id := range movieIDs {
		movieIDs[i] = strings.TrimSpace(id)
		if movieIDs[i] == "" {
			return nil, nil, fmt.Errorf("movieIds contains an empty id")
		}
	}

	var weeks []int
	if rawWeeks := query.Get("weeks"); strings.TrimSpace(rawWeeks) != "" {
		parts := strings.Split(rawWeeks, ",")
		weeks = make([]int, 0, len(parts))
		for _, part := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, nil, fmt.Errorf("weeks must be a comma-separated list of integers")
			}
			weeks = append(weeks, n)
		}
	}

	return movieIDs, weeks, nil
}
