package soap

import (
	"volare/internal/apperr"
	"volare/internal/models"
)

// PdfPayload is the wire-level getReservationPdf response. PdfData is still
// base64 here; the client layer decodes it.
type PdfPayload struct {
	Success  bool
	Message  string
	PdfData  string
	FileName string
}

// DecodeFlight parses a getFlightResponse body into a Flight. A missing
// response or flight container element is a hard MalformedResponse failure;
// missing leaf fields degrade to zero values.
func DecodeFlight(body string) (*models.Flight, error) {
	resp, err := responseElement(body, ActionGetFlight)
	if err != nil {
		return nil, err
	}
	flightEl := resp.find(ServiceNamespace, "flight")
	if flightEl == nil {
		return nil, missingContainer("flight")
	}
	flight := decodeFlightElement(flightEl)
	return &flight, nil
}

// DecodeFlightList parses a searchFlightsResponse or getAllFlightsResponse
// body. The response element is required; zero repeated flight elements is a
// valid empty list.
func DecodeFlightList(body string, action Action) ([]models.Flight, error) {
	resp, err := responseElement(body, action)
	if err != nil {
		return nil, err
	}

	flights := []models.Flight{}
	for _, el := range resp.collect("flights", "flight") {
		flights = append(flights, decodeFlightElement(el))
	}
	return flights, nil
}

// DecodeReservation parses a createReservationResponse or
// getReservationByCodeResponse body into a Reservation.
func DecodeReservation(body string, action Action) (*models.Reservation, error) {
	resp, err := responseElement(body, action)
	if err != nil {
		return nil, err
	}
	resEl := resp.find(ServiceNamespace, "reservation")
	if resEl == nil {
		return nil, missingContainer("reservation")
	}

	reservation := models.Reservation{
		ID:                 DecodeID(resEl.text("id")),
		ReservationCode:    resEl.text("reservationCode"),
		PassengerFirstname: resEl.text("passengerFirstname"),
		PassengerLastname:  resEl.text("passengerLastname"),
		PassengerEmail:     resEl.text("passengerEmail"),
		SeatsReserved:      DecodeCount(resEl.text("seatsReserved")),
		TotalPrice:         DecodeMoney(resEl.text("totalPrice")),
		ReservationDate:    DecodeInstant(resEl.text("reservationDate")),
	}

	// The embedded flight snapshot is a field of the reservation, so its
	// absence degrades to a zero value like any other missing field.
	if flightEl := resEl.find(ServiceNamespace, "flight"); flightEl != nil {
		reservation.Flight = decodeFlightElement(flightEl)
	}
	return &reservation, nil
}

// DecodeCancelResult parses a cancelReservationResponse body.
func DecodeCancelResult(body string) (*models.CancelResult, error) {
	resp, err := responseElement(body, ActionCancelReservation)
	if err != nil {
		return nil, err
	}
	return &models.CancelResult{
		Success: DecodeBool(resp.text("success")),
		Message: resp.text("message"),
	}, nil
}

// DecodePdfPayload parses a getReservationPdfResponse body.
func DecodePdfPayload(body string) (*PdfPayload, error) {
	resp, err := responseElement(body, ActionGetReservationPdf)
	if err != nil {
		return nil, err
	}
	return &PdfPayload{
		Success:  DecodeBool(resp.text("success")),
		Message:  resp.text("message"),
		PdfData:  resp.text("pdfData"),
		FileName: resp.text("fileName"),
	}, nil
}

// responseElement parses the body, locates the SOAP Body and returns the
// action-specific response element within it.
func responseElement(body string, action Action) (*node, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}
	soapBody, err := locateBody(doc)
	if err != nil {
		return nil, err
	}
	name := string(action) + "Response"
	resp := soapBody.find(ServiceNamespace, name)
	if resp == nil {
		return nil, missingContainer(name)
	}
	return resp, nil
}

func decodeFlightElement(el *node) models.Flight {
	flight := models.Flight{
		ID:                DecodeID(el.text("id")),
		FlightCode:        el.text("flightCode"),
		DepartureDatetime: DecodeInstant(el.text("departureDatetime")),
		ArrivalDatetime:   DecodeInstant(el.text("arrivalDatetime")),
		TotalSeats:        DecodeCount(el.text("totalSeats")),
		AvailableSeats:    DecodeCount(el.text("availableSeats")),
		BasePrice:         DecodeMoney(el.text("basePrice")),
	}
	if cityEl := el.find(ServiceNamespace, "departureCity"); cityEl != nil {
		flight.DepartureCity = decodeCityElement(cityEl)
	}
	if cityEl := el.find(ServiceNamespace, "arrivalCity"); cityEl != nil {
		flight.ArrivalCity = decodeCityElement(cityEl)
	}
	return flight
}

func decodeCityElement(el *node) models.City {
	return models.City{
		ID:       DecodeID(el.text("id")),
		CityName: el.text("cityName"),
		Country:  el.text("country"),
	}
}

func missingContainer(name string) error {
	return apperr.Newf(apperr.MalformedResponse, "%s element not found in response", name)
}
