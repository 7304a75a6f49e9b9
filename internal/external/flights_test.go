package external

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"volare/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serviceNS = "http://example.org/flightreservationsystem"

// soapStub is a canned SOAP backend keyed by the SOAPAction header. It
// records every request body it sees.
type soapStub struct {
	responses map[string]stubResponse
	requests  []string
}

type stubResponse struct {
	status int
	body   string
}

func newSoapStub() *soapStub {
	return &soapStub{responses: map[string]stubResponse{}}
}

func (s *soapStub) on(action string, status int, body string) {
	s.responses[serviceNS+"/"+action] = stubResponse{status: status, body: body}
}

func (s *soapStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		s.requests = append(s.requests, string(raw))

		resp, ok := s.responses[r.Header.Get("SOAPAction")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/xml;charset=UTF-8")
		w.WriteHeader(resp.status)
		fmt.Fprint(w, resp.body)
	}
}

func envelope(inner string) string {
	return `<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/">
        <SOAP-ENV:Body xmlns:ns2="` + serviceNS + `">` + inner + `</SOAP-ENV:Body></SOAP-ENV:Envelope>`
}

func faultEnvelope(message string) string {
	return `<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/">
        <SOAP-ENV:Body><SOAP-ENV:Fault>
            <faultcode>SOAP-ENV:Server</faultcode>
            <faultstring>` + message + `</faultstring>
        </SOAP-ENV:Fault></SOAP-ENV:Body></SOAP-ENV:Envelope>`
}

const stubFlight = `<ns2:flight>
    <ns2:id>1</ns2:id>
    <ns2:flightCode>LO123</ns2:flightCode>
    <ns2:departureCity><ns2:id>1</ns2:id><ns2:cityName>Warsaw</ns2:cityName><ns2:country>Poland</ns2:country></ns2:departureCity>
    <ns2:arrivalCity><ns2:id>2</ns2:id><ns2:cityName>Paris</ns2:cityName><ns2:country>France</ns2:country></ns2:arrivalCity>
    <ns2:departureDatetime>2025-06-01T08:30:00.000+02:00</ns2:departureDatetime>
    <ns2:arrivalDatetime>2025-06-01T10:45:00.000+02:00</ns2:arrivalDatetime>
    <ns2:totalSeats>180</ns2:totalSeats>
    <ns2:availableSeats>42</ns2:availableSeats>
    <ns2:basePrice>199.99</ns2:basePrice>
</ns2:flight>`

func newTestClient(t *testing.T, stub *soapStub) (*FlightsClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)
	return NewFlightsClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second}), server
}

func TestGetFlight(t *testing.T) {
	stub := newSoapStub()
	stub.on("getFlight", http.StatusOK, envelope("<ns2:getFlightResponse>"+stubFlight+"</ns2:getFlightResponse>"))
	client, _ := newTestClient(t, stub)

	flight, err := client.GetFlight(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), flight.ID)
	assert.Equal(t, "LO123", flight.FlightCode)
	assert.Equal(t, "Warsaw", flight.DepartureCity.CityName)
	assert.Equal(t, 42, flight.AvailableSeats)

	require.Len(t, stub.requests, 1)
	assert.Contains(t, stub.requests[0], "<flt:getFlightRequest><flt:id>1</flt:id></flt:getFlightRequest>")
}

func TestSearchFlightsOpenEndedSendsFarFutureReturnDate(t *testing.T) {
	stub := newSoapStub()
	stub.on("searchFlights", http.StatusOK, envelope("<ns2:searchFlightsResponse></ns2:searchFlightsResponse>"))
	client, _ := newTestClient(t, stub)

	departure, err := time.Parse(time.RFC3339, "2025-06-01T00:00:00Z")
	require.NoError(t, err)

	_, err = client.SearchFlights(context.Background(), SearchParams{
		DepartureCityID: 1,
		ArrivalCityID:   2,
		DepartureDate:   departure,
	})
	require.NoError(t, err)

	require.Len(t, stub.requests, 1)
	request := stub.requests[0]
	assert.Contains(t, request, "<flt:departureCityId>1</flt:departureCityId>")
	assert.Contains(t, request, "<flt:arrivalCityId>2</flt:arrivalCityId>")
	assert.Contains(t, request, "<flt:departureDate>2025-06-01T00:00:00.000+00:00</flt:departureDate>")
	assert.Contains(t, request, "<flt:returnDate>2099-12-31T23:59:59.000+00:00</flt:returnDate>")
}

func TestSearchFlightsRequiresDepartureDate(t *testing.T) {
	client := NewFlightsClient(Config{BaseURL: "http://localhost:0"})

	_, err := client.SearchFlights(context.Background(), SearchParams{
		DepartureCityID: 1,
		ArrivalCityID:   2,
	})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.ValidationError))
}

func TestGetAllFlights(t *testing.T) {
	stub := newSoapStub()
	stub.on("getAllFlights", http.StatusOK, envelope(`<ns2:getAllFlightsResponse>
        <ns2:flights><ns2:id>1</ns2:id></ns2:flights>
        <ns2:flights><ns2:id>2</ns2:id></ns2:flights>
    </ns2:getAllFlightsResponse>`))
	client, _ := newTestClient(t, stub)

	flights, err := client.GetAllFlights(context.Background())
	require.NoError(t, err)

	require.Len(t, flights, 2)
	assert.Equal(t, int64(2), flights[1].ID)
}

func TestCreateReservation(t *testing.T) {
	stub := newSoapStub()
	stub.on("createReservation", http.StatusOK, envelope(`<ns2:createReservationResponse><ns2:reservation>
        <ns2:id>5</ns2:id>
        <ns2:reservationCode>RSV001</ns2:reservationCode>
        <ns2:passengerFirstname>Anna</ns2:passengerFirstname>
        <ns2:passengerLastname>Kowalska</ns2:passengerLastname>
        <ns2:passengerEmail>anna@example.com</ns2:passengerEmail>
        <ns2:seatsReserved>2</ns2:seatsReserved>
        <ns2:totalPrice>399.98</ns2:totalPrice>
        <ns2:reservationDate>2025-05-20T12:00:00.000+02:00</ns2:reservationDate>`+stubFlight+`
    </ns2:reservation></ns2:createReservationResponse>`))
	client, _ := newTestClient(t, stub)

	reservation, err := client.CreateReservation(context.Background(), ReservationParams{
		FlightID:           1,
		PassengerFirstname: "Anna",
		PassengerLastname:  "Kowalska",
		PassengerEmail:     "anna@example.com",
		SeatsReserved:      2,
	})
	require.NoError(t, err)

	assert.Equal(t, "RSV001", reservation.ReservationCode)
	assert.Equal(t, 399.98, reservation.TotalPrice)
	assert.Equal(t, int64(1), reservation.Flight.ID)

	require.Len(t, stub.requests, 1)
	assert.Contains(t, stub.requests[0], "<flt:seatsReserved>2</flt:seatsReserved>")
	assert.NotContains(t, stub.requests[0], "reservationDate")
}

func TestCreateReservationValidation(t *testing.T) {
	client := NewFlightsClient(Config{BaseURL: "http://localhost:0"})

	cases := []ReservationParams{
		{PassengerFirstname: "A", PassengerLastname: "B", PassengerEmail: "a@b.com", SeatsReserved: 1},      // no flight
		{FlightID: 1, PassengerLastname: "B", PassengerEmail: "a@b.com", SeatsReserved: 1},                  // no firstname
		{FlightID: 1, PassengerFirstname: "A", PassengerEmail: "a@b.com", SeatsReserved: 1},                 // no lastname
		{FlightID: 1, PassengerFirstname: "A", PassengerLastname: "B", PassengerEmail: "bad", SeatsReserved: 1},
		{FlightID: 1, PassengerFirstname: "A", PassengerLastname: "B", PassengerEmail: "a@b.com"},           // no seats
	}

	for i, params := range cases {
		_, err := client.CreateReservation(context.Background(), params)
		require.Error(t, err, "case %d", i)
		assert.True(t, apperr.IsKind(err, apperr.ValidationError), "case %d", i)
	}
}

func TestCancelReservationFaultNeverErrors(t *testing.T) {
	stub := newSoapStub()
	stub.on("cancelReservation", http.StatusInternalServerError, faultEnvelope("Reservation not found"))
	client, _ := newTestClient(t, stub)

	result := client.CancelReservation(context.Background(), "ABC123")

	assert.False(t, result.Success)
	assert.Equal(t, "Reservation not found", result.Message)
}

func TestCancelReservationSuccess(t *testing.T) {
	stub := newSoapStub()
	stub.on("cancelReservation", http.StatusOK, envelope(`<ns2:cancelReservationResponse>
        <ns2:success>true</ns2:success>
        <ns2:message>Reservation canceled successfully</ns2:message>
    </ns2:cancelReservationResponse>`))
	client, _ := newTestClient(t, stub)

	result := client.CancelReservation(context.Background(), "ABC123")

	assert.True(t, result.Success)
	assert.Equal(t, "Reservation canceled successfully", result.Message)
}

func TestCancelReservationTransportDownNeverErrors(t *testing.T) {
	stub := newSoapStub()
	client, server := newTestClient(t, stub)
	server.Close()

	result := client.CancelReservation(context.Background(), "ABC123")

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}

func TestGetReservationByCode(t *testing.T) {
	stub := newSoapStub()
	stub.on("getReservationByCode", http.StatusOK, envelope(`<ns2:getReservationByCodeResponse><ns2:reservation>
        <ns2:id>5</ns2:id>
        <ns2:reservationCode>RSV001</ns2:reservationCode>
        <ns2:seatsReserved>2</ns2:seatsReserved>
    </ns2:reservation></ns2:getReservationByCodeResponse>`))
	client, _ := newTestClient(t, stub)

	reservation, err := client.GetReservationByCode(context.Background(), "RSV001")
	require.NoError(t, err)
	assert.Equal(t, "RSV001", reservation.ReservationCode)
}

func TestGetReservationByCodeRequiresCode(t *testing.T) {
	client := NewFlightsClient(Config{BaseURL: "http://localhost:0"})

	_, err := client.GetReservationByCode(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.ValidationError))
}

func TestGetReservationPdfDecodesBase64(t *testing.T) {
	pdfBytes := []byte("%PDF-1.4 stub document")
	encoded := base64.StdEncoding.EncodeToString(pdfBytes)

	stub := newSoapStub()
	stub.on("getReservationPdf", http.StatusOK, envelope(`<ns2:getReservationPdfResponse>
        <ns2:success>true</ns2:success>
        <ns2:pdfData>`+encoded+`</ns2:pdfData>
        <ns2:fileName>Reservation_RSV001.pdf</ns2:fileName>
    </ns2:getReservationPdfResponse>`))
	client, _ := newTestClient(t, stub)

	result := client.GetReservationPdf(context.Background(), "RSV001")

	require.True(t, result.Success)
	assert.Equal(t, "Reservation_RSV001.pdf", result.FileName)
	assert.Equal(t, pdfBytes, result.Data)
}

func TestGetReservationPdfServerFailure(t *testing.T) {
	stub := newSoapStub()
	stub.on("getReservationPdf", http.StatusOK, envelope(`<ns2:getReservationPdfResponse>
        <ns2:success>false</ns2:success>
        <ns2:message>Error generating PDF: reservation expired</ns2:message>
    </ns2:getReservationPdfResponse>`))
	client, _ := newTestClient(t, stub)

	result := client.GetReservationPdf(context.Background(), "RSV001")

	assert.False(t, result.Success)
	assert.Equal(t, "Error generating PDF: reservation expired", result.Message)
}

func TestGetReservationPdfDefaultFileName(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4"))

	stub := newSoapStub()
	stub.on("getReservationPdf", http.StatusOK, envelope(`<ns2:getReservationPdfResponse>
        <ns2:success>true</ns2:success>
        <ns2:pdfData>`+encoded+`</ns2:pdfData>
    </ns2:getReservationPdfResponse>`))
	client, _ := newTestClient(t, stub)

	result := client.GetReservationPdf(context.Background(), "RSV001")

	require.True(t, result.Success)
	assert.Equal(t, "Reservation_RSV001.pdf", result.FileName)
}

func TestTransportUnavailable(t *testing.T) {
	stub := newSoapStub()
	client, server := newTestClient(t, stub)
	server.Close()

	_, err := client.GetFlight(context.Background(), 1)

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.TransportUnavailable))
}

func TestRemoteServiceErrorOnNonSuccessStatus(t *testing.T) {
	stub := newSoapStub()
	stub.on("getFlight", http.StatusBadGateway, "upstream exploded")
	client, _ := newTestClient(t, stub)

	_, err := client.GetFlight(context.Background(), 1)

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.RemoteServiceError))
	assert.Contains(t, apperr.MessageOf(err), "upstream exploded")
}

func TestInvalidResponseFormat(t *testing.T) {
	stub := newSoapStub()
	stub.on("getFlight", http.StatusOK, "not xml at all <<<")
	client, _ := newTestClient(t, stub)

	_, err := client.GetFlight(context.Background(), 1)

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.InvalidResponseFormat))
}

func TestMalformedResponseMissingContainer(t *testing.T) {
	stub := newSoapStub()
	stub.on("getFlight", http.StatusOK, envelope("<ns2:unexpectedResponse/>"))
	client, _ := newTestClient(t, stub)

	_, err := client.GetFlight(context.Background(), 1)

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.MalformedResponse))
}

func TestRequestHeaders(t *testing.T) {
	var gotContentType, gotSoapAction, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotSoapAction = r.Header.Get("SOAPAction")
		gotPath = r.URL.Path
		fmt.Fprint(w, envelope("<ns2:getAllFlightsResponse/>"))
	}))
	defer server.Close()

	client := NewFlightsClient(Config{BaseURL: server.URL + "/"})
	_, err := client.GetAllFlights(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "text/xml;charset=UTF-8", gotContentType)
	assert.Equal(t, serviceNS+"/getAllFlights", gotSoapAction)
	assert.Equal(t, "/api/ws/flights.wsdl", gotPath)
}
