package external

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"volare/internal/apperr"
	"volare/internal/models"
	"volare/internal/soap"
)

// farFutureYear is the upper bound substituted for a missing return date so
// an open-ended search and a round-trip search share one wire shape.
const farFutureYear = 2099

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// SearchParams are the typed inputs of searchFlights. A zero ReturnDate
// means an open-ended search.
type SearchParams struct {
	DepartureCityID int64
	ArrivalCityID   int64
	DepartureDate   time.Time
	ReturnDate      time.Time
}

// ReservationParams are the typed inputs of createReservation. A zero
// ReservationDate lets the server stamp its own.
type ReservationParams struct {
	FlightID           int64
	PassengerFirstname string
	PassengerLastname  string
	PassengerEmail     string
	SeatsReserved      int
	ReservationDate    time.Time
}

// GetFlight fetches a single flight by id.
func (fc *FlightsClient) GetFlight(ctx context.Context, id int64) (*models.Flight, error) {
	body, err := fc.call(ctx, soap.ActionGetFlight, soap.GetFlightPayload{
		ID: soap.EncodeID(id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get flight %d: %w", id, err)
	}
	flight, err := soap.DecodeFlight(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode flight %d: %w", id, err)
	}
	return flight, nil
}

// SearchFlights finds flights between two cities in a date window. The
// departure date is required; a zero return date is normalized to a far
// future upper bound before hitting the wire.
func (fc *FlightsClient) SearchFlights(ctx context.Context, params SearchParams) ([]models.Flight, error) {
	if params.DepartureDate.IsZero() {
		return nil, apperr.New(apperr.ValidationError, "departure date is required")
	}

	returnDate := params.ReturnDate
	if returnDate.IsZero() {
		returnDate = time.Date(farFutureYear, time.December, 31, 23, 59, 59, 0, params.DepartureDate.Location())
	}

	body, err := fc.call(ctx, soap.ActionSearchFlights, soap.SearchFlightsPayload{
		DepartureCityID: soap.EncodeID(params.DepartureCityID),
		ArrivalCityID:   soap.EncodeID(params.ArrivalCityID),
		DepartureDate:   soap.EncodeInstant(params.DepartureDate),
		ReturnDate:      soap.EncodeInstant(returnDate),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search flights: %w", err)
	}
	flights, err := soap.DecodeFlightList(body, soap.ActionSearchFlights)
	if err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return flights, nil
}

// GetAllFlights fetches the whole catalog.
func (fc *FlightsClient) GetAllFlights(ctx context.Context) ([]models.Flight, error) {
	body, err := fc.call(ctx, soap.ActionGetAllFlights, soap.GetAllFlightsPayload{})
	if err != nil {
		return nil, fmt.Errorf("failed to get all flights: %w", err)
	}
	flights, err := soap.DecodeFlightList(body, soap.ActionGetAllFlights)
	if err != nil {
		return nil, fmt.Errorf("failed to decode flight list: %w", err)
	}
	return flights, nil
}

// CreateReservation books seats on a flight. Locally checkable preconditions
// are validated before anything is sent; seat availability is not, the
// server owns that race.
func (fc *FlightsClient) CreateReservation(ctx context.Context, params ReservationParams) (*models.Reservation, error) {
	if err := validateReservationParams(params); err != nil {
		return nil, err
	}

	payload := soap.CreateReservationPayload{
		FlightID:           soap.EncodeID(params.FlightID),
		PassengerFirstname: params.PassengerFirstname,
		PassengerLastname:  params.PassengerLastname,
		PassengerEmail:     params.PassengerEmail,
		SeatsReserved:      soap.EncodeCount(params.SeatsReserved),
	}
	if !params.ReservationDate.IsZero() {
		payload.ReservationDate = soap.EncodeInstant(params.ReservationDate)
	}

	body, err := fc.call(ctx, soap.ActionCreateReservation, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	reservation, err := soap.DecodeReservation(body, soap.ActionCreateReservation)
	if err != nil {
		return nil, fmt.Errorf("failed to decode reservation: %w", err)
	}
	return reservation, nil
}

// GetReservationByCode looks up an existing reservation.
func (fc *FlightsClient) GetReservationByCode(ctx context.Context, code string) (*models.Reservation, error) {
	if strings.TrimSpace(code) == "" {
		return nil, apperr.New(apperr.ValidationError, "reservation code is required")
	}

	body, err := fc.call(ctx, soap.ActionGetReservationByCode, soap.ReservationCodePayload{
		ReservationCode: code,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation %s: %w", code, err)
	}
	reservation, err := soap.DecodeReservation(body, soap.ActionGetReservationByCode)
	if err != nil {
		return nil, fmt.Errorf("failed to decode reservation %s: %w", code, err)
	}
	return reservation, nil
}

// CancelReservation invalidates a reservation remotely. Every failure,
// transport included, comes back as {Success: false, Message} so the caller
// can branch without error handling.
func (fc *FlightsClient) CancelReservation(ctx context.Context, code string) *models.CancelResult {
	if strings.TrimSpace(code) == "" {
		return &models.CancelResult{Success: false, Message: "reservation code is required"}
	}

	body, err := fc.call(ctx, soap.ActionCancelReservation, soap.ReservationCodePayload{
		ReservationCode: code,
	})
	if err != nil {
		return &models.CancelResult{Success: false, Message: apperr.MessageOf(err)}
	}

	result, err := soap.DecodeCancelResult(body)
	if err != nil {
		return &models.CancelResult{Success: false, Message: apperr.MessageOf(err)}
	}
	return result
}

// GetReservationPdf fetches the reservation document and decodes the base64
// payload. Same no-error contract as CancelReservation.
func (fc *FlightsClient) GetReservationPdf(ctx context.Context, code string) *models.PdfResult {
	if strings.TrimSpace(code) == "" {
		return &models.PdfResult{Success: false, Message: "reservation code is required"}
	}

	body, err := fc.call(ctx, soap.ActionGetReservationPdf, soap.ReservationCodePayload{
		ReservationCode: code,
	})
	if err != nil {
		return &models.PdfResult{Success: false, Message: apperr.MessageOf(err)}
	}

	payload, err := soap.DecodePdfPayload(body)
	if err != nil {
		return &models.PdfResult{Success: false, Message: apperr.MessageOf(err)}
	}
	if !payload.Success {
		message := payload.Message
		if message == "" {
			message = "flight service could not produce the document"
		}
		return &models.PdfResult{Success: false, Message: message}
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload.PdfData))
	if err != nil {
		return &models.PdfResult{Success: false, Message: "pdf payload is not valid base64"}
	}

	fileName := payload.FileName
	if fileName == "" {
		fileName = fmt.Sprintf("Reservation_%s.pdf", code)
	}

	return &models.PdfResult{
		Success:  true,
		FileName: fileName,
		Data:     data,
	}
}

func validateReservationParams(params ReservationParams) error {
	if params.FlightID <= 0 {
		return apperr.New(apperr.ValidationError, "flight id is required")
	}
	if strings.TrimSpace(params.PassengerFirstname) == "" {
		return apperr.New(apperr.ValidationError, "passenger firstname is required")
	}
	if strings.TrimSpace(params.PassengerLastname) == "" {
		return apperr.New(apperr.ValidationError, "passenger lastname is required")
	}
	if !emailPattern.MatchString(params.PassengerEmail) {
		return apperr.Newf(apperr.ValidationError, "invalid passenger email: %q", params.PassengerEmail)
	}
	if params.SeatsReserved < 1 {
		return apperr.New(apperr.ValidationError, "at least one seat must be reserved")
	}
	return nil
}
