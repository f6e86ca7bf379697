package rental

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moviestore/moviestore/internal/domain"
	"github.com/moviestore/moviestore/internal/pricing"
	"github.com/moviestore/moviestore/internal/repository"
)

// Store is the rental persistence the service depends on.
type Store interface {
	Insert(ctx context.Context, params repository.RentalInsertParams) (domain.RentedMovie, error)
	ListAll(ctx context.Context) ([]domain.RentedMovie, error)
	ListByUser(ctx context.Context, userID string) ([]domain.RentedMovie, error)
	ListByMovie(ctx context.Context, movieID string) ([]domain.RentedMovie, error)
	UserExists(ctx context.Context, userID string) (bool, error)
	CountByUserAndMovie(ctx context.Context, userID, movieID string) (int64, error)
	MostRented(ctx context.Context) ([]domain.RentalStats, error)
}

// MovieStore is the slice of movie persistence the service depends on.
type MovieStore interface {
	GetByID(ctx context.Context, id string) (domain.Movie, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// Service implements invoice calculation and the rental workflow.
type Service struct {
	rentals Store
	movies  MovieStore
}

// NewService wires the rental service with explicit store dependencies.
func NewService(rentals Store, movies MovieStore) *Service {
	return &Service{rentals: rentals, movies: movies}
}

// Quote builds an invoice for the requested movies without persisting
// anything. The i-th week count pairs with the i-th movie id. Validation
// fails fast: unknown movie id first, then duplicate ids, then a week count
// missing for some movie.
func (s *Service) Quote(ctx context.Context, movieIDs []string, weeks []int) (domain.Invoice, error) {
	for _, movieID := range movieIDs {
		exists, err := s.movies.Exists(ctx, movieID)
		if err != nil {
			return domain.Invoice{}, err
		}
		if !exists {
			return domain.Invoice{}, domain.NotFoundf("movie with id %s does not exist", movieID)
		}
	}

	if hasDuplicates(movieIDs) {
		return domain.Invoice{}, domain.Conflictf("there are duplicate movie ids in the request")
	}

	if len(movieIDs) != len(weeks) {
		return domain.Invoice{}, domain.InvalidArgumentf("amount of renting weeks per each movie is not present in the request")
	}

	start := time.Now().UTC()
	invoice := domain.Invoice{
		Rows:  make([]domain.InvoiceRow, 0, len(movieIDs)),
		Total: decimal.Zero,
	}
	for i, movieID := range movieIDs {
		movie, err := s.movies.GetByID(ctx, movieID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.Invoice{}, domain.NotFoundf("movie with id %s does not exist", movieID)
			}
			return domain.Invoice{}, err
		}

		price := pricing.ForDuration(movie.ReleaseDate, start, weeks[i])
		invoice.Rows = append(invoice.Rows, domain.InvoiceRow{
			Movie: movie,
			Weeks: weeks[i],
			Price: price,
		})
		invoice.Total = invoice.Total.Add(price)
	}

	return invoice, nil
}

// Rent validates the request, prices it, and persists one rental record per
// movie. Users with rental history may not rent a movie they already hold;
// brand-new users skip that check entirely. Rows are persisted one by one
// and earlier rows stay committed if a later insert fails.
func (s *Service) Rent(ctx context.Context, movieIDs []string, weeks []int, userID string) ([]domain.RentedMovie, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.InvalidArgumentf("user id is required")
	}

	if hasDuplicates(movieIDs) {
		return nil, domain.Conflictf("there are duplicate movie ids in the request")
	}

	if len(movieIDs) != len(weeks) {
		return nil, domain.InvalidArgumentf("amount of renting weeks per each movie is not present in the request")
	}

	hasHistory, err := s.rentals.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if hasHistory {
		for _, movieID := range movieIDs {
			count, err := s.rentals.CountByUserAndMovie(ctx, userID, movieID)
			if err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, domain.Conflictf("user with id %s already owns movie with id %s", userID, movieID)
			}
		}
	}

	invoice, err := s.Quote(ctx, movieIDs, weeks)
	if err != nil {
		return nil, err
	}

	rented := make([]domain.RentedMovie, 0, len(invoice.Rows))
	for _, row := range invoice.Rows {
		start := time.Now().UTC()
		record, err := s.rentals.Insert(ctx, repository.RentalInsertParams{
			UserID:     userID,
			MovieID:    row.Movie.ID,
			MovieTitle: row.Movie.Title,
			StartDate:  start,
			EndDate:    start.AddDate(0, 0, row.Weeks*7),
			Price:      row.Price,
		})
		if err != nil {
			return nil, err
		}
		rented = append(rented, record)
	}

	return rented, nil
}

// ListAll returns every rental record ordered by user id.
func (s *Service) ListAll(ctx context.Context) ([]domain.RentedMovie, error) {
	rentals, err := s.rentals.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(rentals) == 0 {
		return nil, domain.NotFoundf("rented movie list is empty")
	}
	return rentals, nil
}

// ListByUser returns the rentals of one user.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.RentedMovie, error) {
	exists, err := s.rentals.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NotFoundf("user with id %s is not present in the database", userID)
	}

	rentals, err := s.rentals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(rentals) == 0 {
		return nil, domain.NotFoundf("user with id %s does not have any rented movies", userID)
	}
	return rentals, nil
}

// ListByMovie returns the rentals of one movie.
func (s *Service) ListByMovie(ctx context.Context, movieID string) ([]domain.RentedMovie, error) {
	exists, err := s.movies.Exists(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NotFoundf("movie with id %s does not exist", movieID)
	}

	rentals, err := s.rentals.ListByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if len(rentals) == 0 {
		return nil, domain.NotFoundf("movie with id %s was not rented by anybody", movieID)
	}
	return rentals, nil
}

// Popular returns movies ranked by rental count, most rented first. An
// empty catalog yields an empty ranking rather than an error.
func (s *Service) Popular(ctx context.Context) ([]domain.RentalStats, error) {
	return s.rentals.MostRented(ctx)
}

func hasDuplicates(ids []string) bool {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
