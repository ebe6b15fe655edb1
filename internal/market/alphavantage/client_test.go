package alphavantage_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"stockwebhook/internal/market/alphavantage"
)

// jsonResponse is a small helper building a 200 response from v.
func jsonResponse(t *testing.T, v any) *http.Response {
	t.Helper()
	buffer := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(buffer).Encode(v))
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(buffer),
	}
}

func TestNewAlphaVantageAPIClient(t *testing.T) {
	t.Parallel()

	// Assert: a valid key should return a client.
	client, err := alphavantage.NewAlphaVantageAPIClient("test")
	require.NoErrorf(t, err, "unexpected error: %v", err)
	require.NotNilf(t, client, "unexpected nil client")

	// Assert: an empty key is rejected.
	client, err = alphavantage.NewAlphaVantageAPIClient("")
	require.ErrorIs(t, err, alphavantage.ErrMissingAPIKey)
	require.Nil(t, client)
}

func TestWithBaseURL(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock http client
	httpClient := NewMockHTTPClient(ctrl)

	// Arrange: define a base url
	baseURL := "http://localhost:8080"

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Truef(t, strings.HasPrefix(req.URL.String(), baseURL), "expected url to start with base url, received: %s", req.URL.String())
			return jsonResponse(t, map[string]any{}), nil
		}).
		Times(1)

	// Arrange: create a new client.
	client, err := alphavantage.NewAlphaVantageAPIClient("test", alphavantage.WithHTTPClient(httpClient), alphavantage.WithBaseURL(baseURL))
	require.NoError(t, err)

	// Act: call GetOverview with the overridden base URL.
	_, err = client.GetOverview(t.Context(), "IBM")
	require.NoError(t, err)
}

func TestWithHeader(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: the custom header reaches the transport
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "bar", req.Header.Get("foo"))
			return jsonResponse(t, map[string]any{}), nil
		}).
		Times(1)

	client, err := alphavantage.NewAlphaVantageAPIClient("test", alphavantage.WithHTTPClient(httpClient), alphavantage.WithHeader(http.Header{
		"foo": []string{"bar"},
	}))
	require.NoError(t, err)

	_, err = client.GetOverview(t.Context(), "IBM")
	require.NoError(t, err)
}

func TestGet_ErrCreatingRequest(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: the transport is never reached
	httpClient.EXPECT().
		Do(gomock.Any()).
		Times(0)

	client, err := alphavantage.NewAlphaVantageAPIClient("test", alphavantage.WithHTTPClient(httpClient))
	require.NoError(t, err)

	// Act: an invalid base URL fails while building the request
	overview, err := client.GetOverview(t.Context(), "IBM", alphavantage.WithBaseURL(string([]rune{0x7f})))
	require.Error(t, err)
	require.Nil(t, overview)
}

func TestGet_ErrPerformingRequest(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(nil, io.ErrUnexpectedEOF).
		Times(1)

	client, err := alphavantage.NewAlphaVantageAPIClient("test", alphavantage.WithHTTPClient(httpClient))
	require.NoError(t, err)

	earnings, err := client.GetEarnings(t.Context(), "IBM")
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	require.Nil(t, earnings)
}

func TestGet_ErrUnexpectedStatusCode(t *testing.T) {
	t.Parallel()

	for _, code := range []int{http.StatusForbidden, http.StatusTooManyRequests, http.StatusInternalServerError} {
		ctrl := gomock.NewController(t)
		httpClient := NewMockHTTPClient(ctrl)

		httpClient.EXPECT().
			Do(gomock.Any()).
			Return(&http.Response{
				StatusCode: code,
				Body:       io.NopCloser(bytes.NewReader([]byte{})),
			}, nil).
			Times(1)

		client, err := alphavantage.NewAlphaVantageAPIClient("test", alphavantage.WithHTTPClient(httpClient))
		require.NoError(t, err)

		series, err := client.GetIntraday(t.Context(), "IBM", "1min")
		require.Errorf(t, err, "status %d must fail", code)
		require.Nil(t, series)
	}
}

func TestGet_ErrDecodingResponse(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader("invalid json")),
			}, nil
		}).
		Times(1)

	client, err := alphavantage.NewAlphaVantageAPIClient("test", alphavantage.WithHTTPClient(httpClient))
	require.NoError(t, err)

	overview, err := client.GetOverview(t.Context(), "IBM")
	require.Error(t, err)
	require.Nil(t, overview)
}

func TestGet_InBandErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Error Message": "Invalid API call. Please retry or visit the documentation.",
		"Note":          "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute.",
		"Information":   "The **demo** API key is for demo purposes only.",
	}
	for kind, msg := range cases {
		ctrl := gomock.NewController(t)
		httpClient := NewMockHTTPClient(ctrl)

		httpClient.EXPECT().
			Do(gomock.Any()).
			Return(jsonResponse(t, map[string]any{kind: msg}), nil).
			Times(1)

		client, err := alphavantage.NewAlphaVantageAPIClient("test", alphavantage.WithHTTPClient(httpClient))
		require.NoError(t, err)

		_, err = client.GetOverview(t.Context(), "ZZZZ")
		var apiErr *alphavantage.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, kind, apiErr.Kind)
		require.Equal(t, msg, apiErr.Message)
	}
}
