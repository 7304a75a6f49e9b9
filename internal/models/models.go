package models

import "time"

// City is an immutable value type identified by its numeric id.
type City struct {
	ID       int64  `json:"id"`
	CityName string `json:"cityName"`
	Country  string `json:"country"`
}

// Flight mirrors a single flight record as served by the reservation service.
// AvailableSeats reflects server state at the time of the last fetch; it is
// never decremented locally.
type Flight struct {
	ID                int64     `json:"id"`
	FlightCode        string    `json:"flightCode"`
	DepartureCity     City      `json:"departureCity"`
	ArrivalCity       City      `json:"arrivalCity"`
	DepartureDatetime time.Time `json:"departureDatetime"`
	ArrivalDatetime   time.Time `json:"arrivalDatetime"`
	TotalSeats        int       `json:"totalSeats"`
	AvailableSeats    int       `json:"availableSeats"`
	BasePrice         float64   `json:"basePrice"`
}

// Duration returns the scheduled flight time.
func (f Flight) Duration() time.Duration {
	return f.ArrivalDatetime.Sub(f.DepartureDatetime)
}

// Reservation is a server-issued booking record. TotalPrice is authoritative
// from the server and never recomputed here.
type Reservation struct {
	ID                 int64     `json:"id"`
	ReservationCode    string    `json:"reservationCode"`
	PassengerFirstname string    `json:"passengerFirstname"`
	PassengerLastname  string    `json:"passengerLastname"`
	PassengerEmail     string    `json:"passengerEmail"`
	SeatsReserved      int       `json:"seatsReserved"`
	TotalPrice         float64   `json:"totalPrice"`
	ReservationDate    time.Time `json:"reservationDate"`
	Flight             Flight    `json:"flight"`
}

// CancelResult - outcome of cancelReservation; failures are carried in the
// result instead of an error so callers can branch without error handling.
type CancelResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PdfResult - outcome of getReservationPdf with the decoded document.
type PdfResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	FileName string `json:"fileName,omitempty"`
	Data     []byte `json:"-"`
}

// SearchFlightsRequest - gateway model for POST /api/flights/search
type SearchFlightsRequest struct {
	DepartureCityID int64  `json:"departureCityId" binding:"required"`
	ArrivalCityID   int64  `json:"arrivalCityId" binding:"required"`
	DepartureDate   string `json:"departureDate" binding:"required"`
	ReturnDate      string `json:"returnDate,omitempty"`
}

// CreateReservationRequest - gateway model for POST /api/reservations
type CreateReservationRequest struct {
	FlightID           int64  `json:"flightId" binding:"required"`
	PassengerFirstname string `json:"passengerFirstname" binding:"required"`
	PassengerLastname  string `json:"passengerLastname" binding:"required"`
	PassengerEmail     string `json:"passengerEmail" binding:"required,email"`
	SeatsReserved      int    `json:"seatsReserved" binding:"required,min=1"`
}

// CancelReservationRequest - gateway model for PATCH /api/reservations/cancel
type CancelReservationRequest struct {
	ReservationCode string `json:"reservationCode" binding:"required"`
}

// CatalogResponse - flights plus the derived values the search page needs to
// populate its selects and price slider.
type CatalogResponse struct {
	Flights  []Flight `json:"flights"`
	Cities   []City   `json:"cities"`
	MinPrice float64  `json:"minPrice"`
	MaxPrice float64  `json:"maxPrice"`
}
