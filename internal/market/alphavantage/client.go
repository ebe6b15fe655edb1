package alphavantage

import (
	"net/http"
	"net/url"
)

const baseURL = "https://www.alphavantage.co"

// HTTPClient is the subset of *http.Client the query API needs. Tests
// substitute a gomock double.
//
//go:generate mockgen -package=alphavantage_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// AlphaVantageAPIClient calls the /query endpoint. Every function shares one
// URL and is selected by the function query parameter.
type AlphaVantageAPIClient struct {
	baseURL    string
	httpClient HTTPClient
	header     http.Header
	// query holds parameters sent on every call, at least apikey.
	query url.Values
}

// AlphaVantageAPIClientOption customizes a client at construction time and
// can also be passed per call.
type AlphaVantageAPIClientOption func(*AlphaVantageAPIClient)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(baseURL string) AlphaVantageAPIClientOption {
	return func(c *AlphaVantageAPIClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient swaps the transport. The default is http.DefaultClient;
// production wiring passes a retrying httpx client.
func WithHTTPClient(httpClient HTTPClient) AlphaVantageAPIClientOption {
	return func(c *AlphaVantageAPIClient) {
		c.httpClient = httpClient
	}
}

// WithHeader adds headers to every request. Values append to existing keys.
func WithHeader(header http.Header) AlphaVantageAPIClientOption {
	return func(c *AlphaVantageAPIClient) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// NewAlphaVantageAPIClient returns ErrMissingAPIKey for an empty key, since
// AlphaVantage answers keyless calls with 200 and an Information body.
func NewAlphaVantageAPIClient(key string, options ...AlphaVantageAPIClientOption) (*AlphaVantageAPIClient, error) {
	if key == "" {
		return nil, ErrMissingAPIKey
	}
	var client = &AlphaVantageAPIClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		query:      url.Values{},
	}
	// The key travels as a query parameter on every call.
	// https://www.alphavantage.co/documentation/
	client.query.Add("apikey", key)
	for _, option := range options {
		option(client)
	}
	return client, nil
}
