package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"volare/internal/apperr"
	"volare/internal/filter"
	"volare/internal/models"
	"volare/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{services: services}
}

// Flights handlers

// ListFlights - GET /api/flights
// Load the catalog, with optional filter/sort query parameters
func (h *Handlers) ListFlights(c *gin.Context) {
	filters, sortKey, err := filtersFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperr.MessageOf(err)})
		return
	}

	response, err := h.services.Catalog.Load(c.Request.Context(), filters, sortKey)
	if err != nil {
		slog.Error("Failed to load catalog", "error", err)
		c.JSON(statusFor(err), gin.H{"error": apperr.MessageOf(err)})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetFlight - GET /api/flights/:id
func (h *Handlers) GetFlight(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "flight id must be a positive integer"})
		return
	}

	flight, err := h.services.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		slog.Error("Failed to get flight", "flight_id", id, "error", err)
		c.JSON(statusFor(err), gin.H{"error": apperr.MessageOf(err)})
		return
	}

	c.JSON(http.StatusOK, flight)
}

// SearchFlights - POST /api/flights/search
// Remote search plus the same optional filter/sort query parameters
func (h *Handlers) SearchFlights(c *gin.Context) {
	var req models.SearchFlightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filters, sortKey, err := filtersFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperr.MessageOf(err)})
		return
	}

	flights, err := h.services.Catalog.Search(c.Request.Context(), &req, filters, sortKey)
	if err != nil {
		slog.Error("Failed to search flights", "error", err)
		c.JSON(statusFor(err), gin.H{"error": apperr.MessageOf(err)})
		return
	}

	c.JSON(http.StatusOK, flights)
}

// ListCities - GET /api/cities
// Distinct cities derived from the catalog
func (h *Handlers) ListCities(c *gin.Context) {
	response, err := h.services.Catalog.Load(c.Request.Context(), filter.Filters{}, filter.SortNone)
	if err != nil {
		slog.Error("Failed to load cities", "error", err)
		c.JSON(statusFor(err), gin.H{"error": apperr.MessageOf(err)})
		return
	}

	c.JSON(http.StatusOK, response.Cities)
}

// Reservations handlers

// CreateReservation - POST /api/reservations
func (h *Handlers) CreateReservation(c *gin.Context) {
	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, err := h.services.Reservations.Create(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to create reservation", "flight_id", req.FlightID, "error", err)
		c.JSON(statusFor(err), gin.H{"error": apperr.MessageOf(err)})
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

// GetReservation - GET /api/reservations/:code
func (h *Handlers) GetReservation(c *gin.Context) {
	code := c.Param("code")

	reservation, err := h.services.Reservations.GetByCode(c.Request.Context(), code)
	if err != nil {
		slog.Error("Failed to get reservation", "code", code, "error", err)
		c.JSON(statusFor(err), gin.H{"error": apperr.MessageOf(err)})
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// CancelReservation - PATCH /api/reservations/cancel
// Always answers 200 with a structured result so clients can branch on it
func (h *Handlers) CancelReservation(c *gin.Context) {
	var req models.CancelReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.services.Reservations.Cancel(c.Request.Context(), req.ReservationCode)
	if !result.Success {
		slog.Warn("Reservation cancel failed", "code", req.ReservationCode, "message", result.Message)
	}

	c.JSON(http.StatusOK, result)
}

// GetReservationPdf - GET /api/reservations/:code/pdf
// Streams the decoded document as an attachment
func (h *Handlers) GetReservationPdf(c *gin.Context) {
	code := c.Param("code")

	result := h.services.Reservations.Pdf(c.Request.Context(), code)
	if !result.Success {
		slog.Error("Failed to fetch reservation pdf", "code", code, "message", result.Message)
		c.JSON(http.StatusBadGateway, gin.H{"error": result.Message})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, "application/pdf", result.Data)
}

// statusFor maps the error taxonomy onto gateway status codes.
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.ValidationError:
		return http.StatusBadRequest
	case apperr.TransportUnavailable, apperr.RemoteServiceError,
		apperr.InvalidResponseFormat, apperr.MalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// filtersFromQuery builds the filter set and sort key from query parameters.
// Every parameter is optional; a present but unparsable one is a validation
// error.
func filtersFromQuery(c *gin.Context) (filter.Filters, filter.SortKey, error) {
	var filters filter.Filters

	if v := c.Query("departureCityId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filters, filter.SortNone, apperr.Newf(apperr.ValidationError, "invalid departureCityId: %q", v)
		}
		filters.DepartureCityID = &id
	}
	if v := c.Query("arrivalCityId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filters, filter.SortNone, apperr.Newf(apperr.ValidationError, "invalid arrivalCityId: %q", v)
		}
		filters.ArrivalCityID = &id
	}
	if v := c.Query("departureDate"); v != "" {
		day, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filters, filter.SortNone, apperr.Newf(apperr.ValidationError, "invalid departureDate: %q", v)
		}
		filters.DepartureDay = &day
	}
	if v := c.Query("arrivalDate"); v != "" {
		day, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filters, filter.SortNone, apperr.Newf(apperr.ValidationError, "invalid arrivalDate: %q", v)
		}
		filters.ArrivalDay = &day
	}
	if v := c.Query("minPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filters, filter.SortNone, apperr.Newf(apperr.ValidationError, "invalid minPrice: %q", v)
		}
		filters.PriceMin = &price
	}
	if v := c.Query("maxPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filters, filter.SortNone, apperr.Newf(apperr.ValidationError, "invalid maxPrice: %q", v)
		}
		filters.PriceMax = &price
	}

	var err error
	if filters.DepartureHalf, err = parseHalf(c.Query("departureTime")); err != nil {
		return filters, filter.SortNone, err
	}
	if filters.ArrivalHalf, err = parseHalf(c.Query("arrivalTime")); err != nil {
		return filters, filter.SortNone, err
	}

	if v := c.Query("duration"); v != "" {
		for _, token := range strings.Split(v, ",") {
			switch strings.TrimSpace(token) {
			case "below2h":
				filters.Duration.Below2h = true
			case "2h4h":
				filters.Duration.From2to4 = true
			case "4h8h":
				filters.Duration.From4to8 = true
			case "above8h":
				filters.Duration.Above8h = true
			default:
				return filters, filter.SortNone, apperr.Newf(apperr.ValidationError, "invalid duration bucket: %q", token)
			}
		}
	}

	sortParam := c.Query("sort")
	if !filter.ValidSortKey(sortParam) {
		return filters, filter.SortNone, apperr.Newf(apperr.ValidationError, "invalid sort key: %q", sortParam)
	}

	return filters, filter.SortKey(sortParam), nil
}

func parseHalf(v string) (filter.TimeHalf, error) {
	switch v {
	case "":
		return filter.HalfAny, nil
	case "AM":
		return filter.HalfAM, nil
	case "PM":
		return filter.HalfPM, nil
	}
	return filter.HalfAny, apperr.Newf(apperr.ValidationError, "time filter must be AM or PM, got %q", v)
}
