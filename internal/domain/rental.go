package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RentedMovie is the persisted record of one rental. Rows are created by the
// rental workflow and never updated or deleted afterwards. MovieTitle is a
// snapshot taken at rent time so later catalog edits do not rewrite history.
type RentedMovie struct {
	ID          string
	UserID      string
	MovieID     string
	MovieTitle  string
	StartDate   time.Time
	EndDate     time.Time
	RentalPrice decimal.Decimal
	CreatedAt   time.Time
}

// InvoiceRow prices a single movie for the requested number of weeks.
type InvoiceRow struct {
	Movie Movie
	Weeks int
	Price decimal.Decimal
}

// Invoice is the ephemeral result of a quote or rent call. Row order mirrors
// the request order.
type Invoice struct {
	Rows  []InvoiceRow
	Total decimal.Decimal
}

// RentalStats counts rental records per movie for popularity ranking.
type RentalStats struct {
	MovieID    string
	MovieTitle string
	Rentals    int64
}
