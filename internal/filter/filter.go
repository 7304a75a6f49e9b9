package filter

import (
	"sort"
	"time"

	"volare/internal/models"
)

// TimeHalf splits a day at noon: AM is hour < 12, PM is hour >= 12.
type TimeHalf string

const (
	HalfAny TimeHalf = ""
	HalfAM  TimeHalf = "AM"
	HalfPM  TimeHalf = "PM"
)

// Buckets are the four fixed flight-length categories. When none is active
// duration is not filtered at all; when any is, the active buckets are
// OR-combined.
type Buckets struct {
	Below2h  bool
	From2to4 bool
	From4to8 bool
	Above8h  bool
}

// Any reports whether at least one bucket is active.
func (b Buckets) Any() bool {
	return b.Below2h || b.From2to4 || b.From4to8 || b.Above8h
}

// Matches reports whether a flight duration falls into an active bucket.
func (b Buckets) Matches(d time.Duration) bool {
	hours := d.Hours()
	switch {
	case b.Below2h && hours < 2:
		return true
	case b.From2to4 && hours >= 2 && hours < 4:
		return true
	case b.From4to8 && hours >= 4 && hours < 8:
		return true
	case b.Above8h && hours >= 8:
		return true
	}
	return false
}

// Filters is a conjunction of independently toggleable predicates; nil or
// zero members are inactive.
type Filters struct {
	DepartureCityID *int64
	ArrivalCityID   *int64
	DepartureDay    *time.Time
	ArrivalDay      *time.Time
	PriceMin        *float64
	PriceMax        *float64
	DepartureHalf   TimeHalf
	ArrivalHalf     TimeHalf
	Duration        Buckets
}

// SortKey selects the comparator applied after filtering. The empty key is a
// stable pass-through.
type SortKey string

const (
	SortNone          SortKey = ""
	SortPriceAsc      SortKey = "price-asc"
	SortPriceDesc     SortKey = "price-desc"
	SortDurationAsc   SortKey = "duration-asc"
	SortDurationDesc  SortKey = "duration-desc"
	SortDepartureAsc  SortKey = "departure-asc"
	SortDepartureDesc SortKey = "departure-desc"
)

// ValidSortKey reports whether s is one of the six keys or empty.
func ValidSortKey(s string) bool {
	switch SortKey(s) {
	case SortNone, SortPriceAsc, SortPriceDesc, SortDurationAsc,
		SortDurationDesc, SortDepartureAsc, SortDepartureDesc:
		return true
	}
	return false
}

// Apply filters then sorts a flight list. Pure: the input slice is never
// mutated, and an empty result is an empty list, not an error.
func Apply(flights []models.Flight, f Filters, key SortKey) []models.Flight {
	out := make([]models.Flight, 0, len(flights))
	for _, flight := range flights {
		if Matches(f, flight) {
			out = append(out, flight)
		}
	}
	sortFlights(out, key)
	return out
}

// Matches evaluates the conjunction of all active predicates against one
// flight. The duration-bucket group is OR-combined internally but still
// AND-combined with everything else; a bucket hit never bypasses the
// remaining predicates.
func Matches(f Filters, flight models.Flight) bool {
	if f.DepartureCityID != nil && flight.DepartureCity.ID != *f.DepartureCityID {
		return false
	}
	if f.ArrivalCityID != nil && flight.ArrivalCity.ID != *f.ArrivalCityID {
		return false
	}
	if f.DepartureDay != nil && !sameDay(flight.DepartureDatetime, *f.DepartureDay) {
		return false
	}
	if f.ArrivalDay != nil && !sameDay(flight.ArrivalDatetime, *f.ArrivalDay) {
		return false
	}
	if f.PriceMin != nil && flight.BasePrice < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && flight.BasePrice > *f.PriceMax {
		return false
	}
	if f.DepartureHalf != HalfAny && half(flight.DepartureDatetime) != f.DepartureHalf {
		return false
	}
	if f.ArrivalHalf != HalfAny && half(flight.ArrivalDatetime) != f.ArrivalHalf {
		return false
	}
	if f.Duration.Any() && !f.Duration.Matches(flight.Duration()) {
		return false
	}
	return true
}

func sortFlights(flights []models.Flight, key SortKey) {
	if key == SortNone {
		return
	}
	sort.SliceStable(flights, func(i, j int) bool {
		a, b := flights[i], flights[j]
		switch key {
		case SortPriceAsc:
			return a.BasePrice < b.BasePrice
		case SortPriceDesc:
			return a.BasePrice > b.BasePrice
		case SortDurationAsc:
			return a.Duration() < b.Duration()
		case SortDurationDesc:
			return a.Duration() > b.Duration()
		case SortDepartureAsc:
			return a.DepartureDatetime.Before(b.DepartureDatetime)
		case SortDepartureDesc:
			return b.DepartureDatetime.Before(a.DepartureDatetime)
		}
		return false
	})
}

// sameDay compares calendar days ignoring time-of-day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func half(t time.Time) TimeHalf {
	if t.Hour() < 12 {
		return HalfAM
	}
	return HalfPM
}

// DistinctCities deduplicates departure and arrival cities by id, keeping
// first-seen order.
func DistinctCities(flights []models.Flight) []models.City {
	seen := make(map[int64]bool)
	cities := []models.City{}
	for _, flight := range flights {
		for _, city := range []models.City{flight.DepartureCity, flight.ArrivalCity} {
			if !seen[city.ID] {
				seen[city.ID] = true
				cities = append(cities, city)
			}
		}
	}
	return cities
}

// PriceBounds returns the min and max base price of the list; zeros for an
// empty list.
func PriceBounds(flights []models.Flight) (float64, float64) {
	if len(flights) == 0 {
		return 0, 0
	}
	minPrice, maxPrice := flights[0].BasePrice, flights[0].BasePrice
	for _, flight := range flights[1:] {
		if flight.BasePrice < minPrice {
			minPrice = flight.BasePrice
		}
		if flight.BasePrice > maxPrice {
			maxPrice = flight.BasePrice
		}
	}
	return minPrice, maxPrice
}
