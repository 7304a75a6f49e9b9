package service

import (
	"context"

	"volare/internal/external"
	"volare/internal/models"
)

// ReservationService fronts the booking operations. No reservation state is
// kept here; the remote service owns the lifecycle.
type ReservationService struct {
	flights *external.FlightsClient
}

func NewReservationService(flights *external.FlightsClient) *ReservationService {
	return &ReservationService{flights: flights}
}

// Create books seats for a passenger on a flight. Seat availability is not
// re-validated between the last fetch and submission; a losing race surfaces
// as a request failure from the server.
func (s *ReservationService) Create(ctx context.Context, req *models.CreateReservationRequest) (*models.Reservation, error) {
	return s.flights.CreateReservation(ctx, external.ReservationParams{
		FlightID:           req.FlightID,
		PassengerFirstname: req.PassengerFirstname,
		PassengerLastname:  req.PassengerLastname,
		PassengerEmail:     req.PassengerEmail,
		SeatsReserved:      req.SeatsReserved,
	})
}

// GetByCode looks up a reservation by its server-issued code.
func (s *ReservationService) GetByCode(ctx context.Context, code string) (*models.Reservation, error) {
	return s.flights.GetReservationByCode(ctx, code)
}

// Cancel invalidates a reservation remotely; failures come back structured.
func (s *ReservationService) Cancel(ctx context.Context, code string) *models.CancelResult {
	return s.flights.CancelReservation(ctx, code)
}

// Pdf fetches and decodes the reservation document.
func (s *ReservationService) Pdf(ctx context.Context, code string) *models.PdfResult {
	return s.flights.GetReservationPdf(ctx, code)
}
