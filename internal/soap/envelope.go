package soap

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Action names one remote operation of the flight reservation service.
type Action string

const (
	ActionGetFlight            Action = "getFlight"
	ActionSearchFlights        Action = "searchFlights"
	ActionGetAllFlights        Action = "getAllFlights"
	ActionCreateReservation    Action = "createReservation"
	ActionCancelReservation    Action = "cancelReservation"
	ActionGetReservationByCode Action = "getReservationByCode"
	ActionGetReservationPdf    Action = "getReservationPdf"
)

const (
	// ServiceNamespace is the single namespace URI all request and response
	// payload elements are qualified against.
	ServiceNamespace = "http://example.org/flightreservationsystem"
	// EnvelopeNamespace is the SOAP 1.1 envelope namespace.
	EnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"

	servicePrefix = "flt"
)

// SOAPAction returns the value of the SOAPAction header for this action.
func (a Action) SOAPAction() string {
	return ServiceNamespace + "/" + string(a)
}

// GetFlightPayload - wire payload for getFlight. All fields are strings on
// the wire; callers encode through the field codecs.
type GetFlightPayload struct {
	ID string
}

// SearchFlightsPayload - wire payload for searchFlights. ReturnDate is
// omitted from the request entirely when empty.
type SearchFlightsPayload struct {
	DepartureCityID string
	ArrivalCityID   string
	DepartureDate   string
	ReturnDate      string
}

// GetAllFlightsPayload - wire payload for getAllFlights (no fields).
type GetAllFlightsPayload struct{}

// CreateReservationPayload - wire payload for createReservation.
// ReservationDate is optional; when empty the server stamps its own.
type CreateReservationPayload struct {
	FlightID           string
	PassengerFirstname string
	PassengerLastname  string
	PassengerEmail     string
	SeatsReserved      string
	ReservationDate    string
}

// ReservationCodePayload - wire payload for the three operations keyed by a
// reservation code (cancel, lookup, pdf).
type ReservationCodePayload struct {
	ReservationCode string
}

type field struct {
	name     string
	value    string
	optional bool
}

// BuildEnvelope serializes a typed payload into a SOAP 1.1 envelope for the
// given action: empty header, one action-specific request element, payload
// fields as namespace-prefixed children. Optional fields are omitted when
// empty rather than emitted blank.
func BuildEnvelope(action Action, payload any) (string, error) {
	fields, err := requestFields(action, payload)
	if err != nil {
		return "", err
	}

	var body strings.Builder
	body.WriteString(fmt.Sprintf("<%s:%sRequest>", servicePrefix, action))
	for _, f := range fields {
		if f.optional && f.value == "" {
			continue
		}
		body.WriteString(fmt.Sprintf("<%s:%s>%s</%s:%s>",
			servicePrefix, f.name, escapeText(f.value), servicePrefix, f.name))
	}
	body.WriteString(fmt.Sprintf("</%s:%sRequest>", servicePrefix, action))

	return fmt.Sprintf(
		`<soapenv:Envelope xmlns:soapenv=%q xmlns:%s=%q><soapenv:Header/><soapenv:Body>%s</soapenv:Body></soapenv:Envelope>`,
		EnvelopeNamespace, servicePrefix, ServiceNamespace, body.String()), nil
}

func requestFields(action Action, payload any) ([]field, error) {
	switch action {
	case ActionGetFlight:
		p, ok := payload.(GetFlightPayload)
		if !ok {
			return nil, payloadMismatch(action, payload)
		}
		return []field{{name: "id", value: p.ID}}, nil

	case ActionSearchFlights:
		p, ok := payload.(SearchFlightsPayload)
		if !ok {
			return nil, payloadMismatch(action, payload)
		}
		return []field{
			{name: "departureCityId", value: p.DepartureCityID},
			{name: "arrivalCityId", value: p.ArrivalCityID},
			{name: "departureDate", value: p.DepartureDate},
			{name: "returnDate", value: p.ReturnDate, optional: true},
		}, nil

	case ActionGetAllFlights:
		if _, ok := payload.(GetAllFlightsPayload); !ok {
			return nil, payloadMismatch(action, payload)
		}
		return nil, nil

	case ActionCreateReservation:
		p, ok := payload.(CreateReservationPayload)
		if !ok {
			return nil, payloadMismatch(action, payload)
		}
		return []field{
			{name: "flightId", value: p.FlightID},
			{name: "passengerFirstname", value: p.PassengerFirstname},
			{name: "passengerLastname", value: p.PassengerLastname},
			{name: "passengerEmail", value: p.PassengerEmail},
			{name: "seatsReserved", value: p.SeatsReserved},
			{name: "reservationDate", value: p.ReservationDate, optional: true},
		}, nil

	case ActionCancelReservation, ActionGetReservationByCode, ActionGetReservationPdf:
		p, ok := payload.(ReservationCodePayload)
		if !ok {
			return nil, payloadMismatch(action, payload)
		}
		return []field{{name: "reservationCode", value: p.ReservationCode}}, nil
	}

	return nil, fmt.Errorf("unsupported action: %s", action)
}

func payloadMismatch(action Action, payload any) error {
	return fmt.Errorf("action %s: unexpected payload type %T", action, payload)
}

func escapeText(s string) string {
	var sb strings.Builder
	// EscapeText only fails on a writer error, which strings.Builder never returns.
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
