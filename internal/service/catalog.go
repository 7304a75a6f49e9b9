package service

import (
	"context"
	"time"

	"volare/internal/apperr"
	"volare/internal/external"
	"volare/internal/filter"
	"volare/internal/models"
)

// CatalogService fronts the read-only flight operations and runs fetched
// lists through the filter engine. State is replaced wholesale on each
// response; nothing is cached across requests.
type CatalogService struct {
	flights *external.FlightsClient
}

func NewCatalogService(flights *external.FlightsClient) *CatalogService {
	return &CatalogService{flights: flights}
}

// Load fetches the whole catalog and derives the values the search page
// needs: distinct cities and the price bounds for the slider.
func (s *CatalogService) Load(ctx context.Context, filters filter.Filters, key filter.SortKey) (*models.CatalogResponse, error) {
	flights, err := s.flights.GetAllFlights(ctx)
	if err != nil {
		return nil, err
	}

	minPrice, maxPrice := filter.PriceBounds(flights)
	return &models.CatalogResponse{
		Flights:  filter.Apply(flights, filters, key),
		Cities:   filter.DistinctCities(flights),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}, nil
}

// Get fetches a single flight by id.
func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Flight, error) {
	return s.flights.GetFlight(ctx, id)
}

// Search runs a remote search and applies the filter/sort engine to the
// result. Dates arrive as strings from the gateway and are parsed here.
func (s *CatalogService) Search(ctx context.Context, req *models.SearchFlightsRequest, filters filter.Filters, key filter.SortKey) ([]models.Flight, error) {
	departureDate, err := parseDate(req.DepartureDate)
	if err != nil {
		return nil, apperr.Newf(apperr.ValidationError, "invalid departure date: %q", req.DepartureDate)
	}

	params := external.SearchParams{
		DepartureCityID: req.DepartureCityID,
		ArrivalCityID:   req.ArrivalCityID,
		DepartureDate:   departureDate,
	}
	if req.ReturnDate != "" {
		returnDate, err := parseDate(req.ReturnDate)
		if err != nil {
			return nil, apperr.Newf(apperr.ValidationError, "invalid return date: %q", req.ReturnDate)
		}
		params.ReturnDate = returnDate
	}

	flights, err := s.flights.SearchFlights(ctx, params)
	if err != nil {
		return nil, err
	}
	return filter.Apply(flights, filters, key), nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
