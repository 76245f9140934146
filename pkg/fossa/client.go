package fossa

import (
	"fmt"
	"net/http"
	"time"
)

// DefaultEndpoint is the SaaS endpoint used when no other endpoint is configured.
const DefaultEndpoint = "https://app.fossa.com"

// Client is a minimal client for the FOSSA REST API. It covers the handful of
// endpoints fossactl needs; everything else the platform offers goes through
// the fossa CLI.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// Transport authenticates requests with a bearer token.
type Transport struct {
	Token string
}

// Client produces an http.Client using this transport.
func (t Transport) Client() *http.Client {
	return &http.Client{
		Transport: t,
		// A hung platform call must not hang the CI job with it.
		Timeout: 30 * time.Second,
	}
}

func (t Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.Token)
	return http.DefaultTransport.RoundTrip(req)
}

// NewClient creates a FOSSA API client. An empty endpoint selects DefaultEndpoint.
func NewClient(token, endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: Transport{Token: token}.Client(),
	}
}

// APIError is returned whenever the platform answers with an unexpected status
// code. There is deliberately no retry path: the first unexpected status fails
// the whole run.
type APIError struct {
	Operation  string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Operation, e.StatusCode)
}
