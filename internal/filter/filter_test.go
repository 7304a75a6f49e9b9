package filter

import (
	"testing"
	"time"

	"volare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	warsaw = models.City{ID: 1, CityName: "Warsaw", Country: "Poland"}
	paris  = models.City{ID: 2, CityName: "Paris", Country: "France"}
	rome   = models.City{ID: 3, CityName: "Rome", Country: "Italy"}
)

func makeFlight(id int64, from, to models.City, departure time.Time, duration time.Duration, price float64) models.Flight {
	return models.Flight{
		ID:                id,
		FlightCode:        "FL100",
		DepartureCity:     from,
		ArrivalCity:       to,
		DepartureDatetime: departure,
		ArrivalDatetime:   departure.Add(duration),
		TotalSeats:        180,
		AvailableSeats:    50,
		BasePrice:         price,
	}
}

func fixtureFlights() []models.Flight {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return []models.Flight{
		makeFlight(1, warsaw, paris, day.Add(8*time.Hour), 90*time.Minute, 50),
		makeFlight(2, warsaw, rome, day.Add(14*time.Hour), 3*time.Hour, 150),
		makeFlight(3, paris, rome, day.Add(9*time.Hour), 5*time.Hour, 300),
		makeFlight(4, rome, warsaw, day.Add(22*time.Hour), 10*time.Hour, 400),
	}
}

func TestPriceRangeFilter(t *testing.T) {
	flights := fixtureFlights() // prices 50, 150, 300, 400
	low, high := 100.0, 300.0

	got := Apply(flights, Filters{PriceMin: &low, PriceMax: &high}, SortNone)

	require.Len(t, got, 2)
	assert.Equal(t, 150.0, got[0].BasePrice)
	assert.Equal(t, 300.0, got[1].BasePrice)
}

func TestFilteredResultIsSubset(t *testing.T) {
	flights := fixtureFlights()
	cityID := warsaw.ID

	got := Apply(flights, Filters{DepartureCityID: &cityID}, SortNone)

	byID := map[int64]bool{}
	for _, f := range flights {
		byID[f.ID] = true
	}
	for _, f := range got {
		assert.True(t, byID[f.ID], "filtered flight %d not in input", f.ID)
		assert.Equal(t, warsaw.ID, f.DepartureCity.ID)
	}
	assert.Len(t, got, 2)
}

func TestCalendarDayFilterIgnoresTime(t *testing.T) {
	flights := fixtureFlights()
	day := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC) // time-of-day must not matter

	got := Apply(flights, Filters{DepartureDay: &day}, SortNone)

	assert.Len(t, got, 4)

	otherDay := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	got = Apply(flights, Filters{DepartureDay: &otherDay}, SortNone)
	assert.Empty(t, got)
}

func TestHalfDayFilter(t *testing.T) {
	flights := fixtureFlights()

	am := Apply(flights, Filters{DepartureHalf: HalfAM}, SortNone)
	pm := Apply(flights, Filters{DepartureHalf: HalfPM}, SortNone)

	require.Len(t, am, 2) // 08:00 and 09:00 departures
	require.Len(t, pm, 2) // 14:00 and 22:00 departures
	for _, f := range am {
		assert.Less(t, f.DepartureDatetime.Hour(), 12)
	}
	for _, f := range pm {
		assert.GreaterOrEqual(t, f.DepartureDatetime.Hour(), 12)
	}
}

func TestDurationBuckets(t *testing.T) {
	flights := fixtureFlights() // durations 1.5h, 3h, 5h, 10h

	got := Apply(flights, Filters{Duration: Buckets{Below2h: true}}, SortNone)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	got = Apply(flights, Filters{Duration: Buckets{From2to4: true, Above8h: true}}, SortNone)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(4), got[1].ID)

	// No bucket active: duration is not filtered at all.
	got = Apply(flights, Filters{}, SortNone)
	assert.Len(t, got, 4)
}

func TestDurationBucketsComposeWithOtherFilters(t *testing.T) {
	// A bucket hit must not bypass the other predicates.
	flights := fixtureFlights()
	cityID := warsaw.ID

	got := Apply(flights, Filters{
		DepartureCityID: &cityID,
		Duration:        Buckets{Below2h: true, Above8h: true},
	}, SortNone)

	// Flight 4 is above 8h but departs from Rome; only flight 1 passes both.
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestSortPriceDesc(t *testing.T) {
	day := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	flights := []models.Flight{
		makeFlight(1, warsaw, paris, day, time.Hour, 200),
		makeFlight(2, warsaw, paris, day, time.Hour, 50),
		makeFlight(3, warsaw, paris, day, time.Hour, 300),
	}

	got := Apply(flights, Filters{}, SortPriceDesc)

	require.Len(t, got, 3)
	assert.Equal(t, []float64{300, 200, 50}, []float64{got[0].BasePrice, got[1].BasePrice, got[2].BasePrice})

	// Re-sorting an already sorted list is a no-op.
	again := Apply(got, Filters{}, SortPriceDesc)
	assert.Equal(t, got, again)
}

func TestSortKeys(t *testing.T) {
	flights := fixtureFlights()

	byPrice := Apply(flights, Filters{}, SortPriceAsc)
	assert.Equal(t, 50.0, byPrice[0].BasePrice)
	assert.Equal(t, 400.0, byPrice[3].BasePrice)

	byDuration := Apply(flights, Filters{}, SortDurationDesc)
	assert.Equal(t, int64(4), byDuration[0].ID)
	assert.Equal(t, int64(1), byDuration[3].ID)

	byDeparture := Apply(flights, Filters{}, SortDepartureAsc)
	assert.Equal(t, int64(1), byDeparture[0].ID)
	assert.Equal(t, int64(4), byDeparture[3].ID)

	byDepartureDesc := Apply(flights, Filters{}, SortDepartureDesc)
	assert.Equal(t, int64(4), byDepartureDesc[0].ID)
}

func TestNoSortKeyKeepsOrder(t *testing.T) {
	flights := fixtureFlights()

	got := Apply(flights, Filters{}, SortNone)

	for i, f := range got {
		assert.Equal(t, flights[i].ID, f.ID)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	flights := fixtureFlights()
	original := make([]models.Flight, len(flights))
	copy(original, flights)

	Apply(flights, Filters{}, SortPriceDesc)

	assert.Equal(t, original, flights)
}

func TestEmptyInputAndEmptyResult(t *testing.T) {
	got := Apply(nil, Filters{}, SortPriceAsc)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	high := 10000.0
	got = Apply(fixtureFlights(), Filters{PriceMin: &high}, SortPriceAsc)
	assert.Empty(t, got)
}

func TestValidSortKey(t *testing.T) {
	assert.True(t, ValidSortKey(""))
	assert.True(t, ValidSortKey("price-desc"))
	assert.True(t, ValidSortKey("departure-asc"))
	assert.False(t, ValidSortKey("price"))
	assert.False(t, ValidSortKey("random"))
}

func TestDistinctCities(t *testing.T) {
	cities := DistinctCities(fixtureFlights())

	require.Len(t, cities, 3)
	assert.Equal(t, warsaw, cities[0])
	assert.Equal(t, paris, cities[1])
	assert.Equal(t, rome, cities[2])
}

func TestPriceBounds(t *testing.T) {
	minPrice, maxPrice := PriceBounds(fixtureFlights())
	assert.Equal(t, 50.0, minPrice)
	assert.Equal(t, 400.0, maxPrice)

	minPrice, maxPrice = PriceBounds(nil)
	assert.Equal(t, 0.0, minPrice)
	assert.Equal(t, 0.0, maxPrice)
}
