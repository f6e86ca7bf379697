package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is fixed; the service performs no conversion.
const Currency = "EUR"

// Tier is the pricing class a movie falls into based on its age.
type Tier string

const (
	TierNew     Tier = "New movie"
	TierRegular Tier = "Regular movie"
	TierOld     Tier = "Old movie"
)

// Tier boundaries in whole weeks since release.
const (
	newTierMaxWeeks = 52
	oldTierMinWeeks = 156
)

var (
	priceNew     = decimal.New(500, -2) // 5.00
	priceRegular = decimal.New(349, -2) // 3.49
	priceOld     = decimal.New(199, -2) // 1.99
)

// AgeInWeeks returns the whole calendar weeks between the release date and
// asOf, truncated toward zero. Times are reduced to their calendar dates
// first so the hour-of-day of either argument cannot shift the result.
func AgeInWeeks(releaseDate, asOf time.Time) int64 {
	return daysBetween(releaseDate, asOf) / 7
}

// TierFor maps an age in whole weeks to its pricing tier.
func TierFor(ageWeeks int64) Tier {
	switch {
	case ageWeeks <= newTierMaxWeeks:
		return TierNew
	case ageWeeks < oldTierMinWeeks:
		return TierRegular
	default:
		return TierOld
	}
}

// WeekPrice returns the price of one rental week at the given age.
func WeekPrice(ageWeeks int64) decimal.Decimal {
	switch TierFor(ageWeeks) {
	case TierNew:
		return priceNew
	case TierRegular:
		return priceRegular
	default:
		return priceOld
	}
}

// ForDuration prices a rental of the given length starting at start. Each
// week is priced at the movie's age during that week, so a rental spanning a
// tier boundary bills mixed rates rather than weeks times a single rate.
func ForDuration(releaseDate, start time.Time, weeks int) decimal.Decimal {
	age := AgeInWeeks(releaseDate, start)
	total := decimal.Zero
	for i := 0; i < weeks; i++ {
		total = total.Add(WeekPrice(age))
		age++
	}
	return total
}

func daysBetween(from, to time.Time) int64 {
	return int64(midnightUTC(to).Sub(midnightUTC(from)) / (24 * time.Hour))
}

func midnightUTC(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
