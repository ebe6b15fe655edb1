package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
)

// ErrMissingAPIKey is returned by NewAlphaVantageAPIClient without a key.
var ErrMissingAPIKey = errors.New("alphavantage: missing api key")

// inBandErrorKeys are the top-level keys AlphaVantage uses to report
// failures with a 200 status.
var inBandErrorKeys = []string{"Error Message", "Note", "Information"}

// APIError is a failure AlphaVantage reported inside a 200 response, such as
// an invalid symbol ("Error Message") or a throttled key ("Note").
type APIError struct {
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("alphavantage %s: %s", e.Kind, e.Message)
}

// get performs GET /query?function=... and decodes the body into out.
func (c *AlphaVantageAPIClient) get(ctx context.Context, function string, params url.Values, out any, opts ...AlphaVantageAPIClientOption) error {
	var override = &AlphaVantageAPIClient{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		header:     c.header.Clone(),
		query:      c.query,
	}
	for _, opt := range opts {
		opt(override)
	}

	query := maps.Clone(override.query)
	query.Set("function", function)
	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	endpoint := fmt.Sprintf("%s/query?%s", override.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header = override.header

	res, err := override.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("unauthorized")

	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limited")

	default:
		return fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("reading %s response: %w", function, err)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decoding %s response: %w", function, err)
	}
	for _, key := range inBandErrorKeys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			msg = string(raw)
		}
		return &APIError{Kind: key, Message: msg}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", function, err)
	}
	return nil
}
