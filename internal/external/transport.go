package external

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"volare/internal/apperr"
	"volare/internal/metrics"
	"volare/internal/soap"
)

const soapEndpointPath = "/api/ws/flights.wsdl"

// Config configures the flights SOAP client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// FlightsClient talks SOAP 1.1 to the remote flight reservation service.
type FlightsClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewFlightsClient creates a client for the flight reservation service.
func NewFlightsClient(cfg Config) *FlightsClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &FlightsClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// call posts one SOAP envelope and returns the raw response body. Failures
// are classified per the transport taxonomy: no response at all is
// TransportUnavailable, a fault or non-success status is RemoteServiceError,
// anything else is Unknown. Nothing is retried.
func (fc *FlightsClient) call(ctx context.Context, action soap.Action, payload any) (string, error) {
	start := time.Now()
	body, err := fc.doCall(ctx, action, payload)

	outcome := "ok"
	if err != nil {
		outcome = string(apperr.KindOf(err))
	}
	metrics.ObserveSoapCall(string(action), outcome, time.Since(start))

	return body, err
}

func (fc *FlightsClient) doCall(ctx context.Context, action soap.Action, payload any) (string, error) {
	envelope, err := soap.BuildEnvelope(action, payload)
	if err != nil {
		return "", apperr.Wrap(apperr.Unknown, "failed to build request envelope", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fc.baseURL+soapEndpointPath, strings.NewReader(envelope))
	if err != nil {
		return "", apperr.Wrap(apperr.Unknown, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "text/xml;charset=UTF-8")
	req.Header.Set("SOAPAction", action.SOAPAction())

	resp, err := fc.httpClient.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.TransportUnavailable, "no response from flight service", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.Wrap(apperr.TransportUnavailable, "failed to read response body", err)
	}
	body := string(raw)

	// A fault can arrive on any status code.
	if faultString, ok := soap.Fault(body); ok {
		if faultString == "" {
			faultString = "flight service reported a fault"
		}
		return "", apperr.New(apperr.RemoteServiceError, faultString)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(body)
		if message == "" {
			message = "unexpected status code: " + resp.Status
		}
		return "", apperr.New(apperr.RemoteServiceError, message)
	}

	return body, nil
}
