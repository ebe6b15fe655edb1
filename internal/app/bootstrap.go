package app

import (
	"fmt"
	"net/http"
	"sort"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"stockwebhook/internal/config"
	"stockwebhook/internal/fulfillment"
	"stockwebhook/internal/httpx"
	"stockwebhook/internal/market"
	"stockwebhook/internal/market/alphavantage"
	"stockwebhook/internal/market/alphavantageadapter"
	"stockwebhook/internal/market/yahoo"
	"stockwebhook/internal/metrics"
)

// NewProvider builds the market-data provider selected by cfg.Provider.
func NewProvider(cfg config.Config, log *zap.Logger) (market.Provider, error) {
	switch cfg.Provider {
	case config.ProviderAlphaVantage:
		av := cfg.AlphaVantage
		httpClient := httpx.New(av.Timeout())
		httpClient.MaxRetries = av.MaxRetries
		httpClient.RetryBackoff = av.RetryBackoff()

		client, err := alphavantage.NewAlphaVantageAPIClient(
			av.APIKey,
			alphavantage.WithBaseURL(av.BaseURL),
			alphavantage.WithHTTPClient(httpClient),
			alphavantage.WithHeader(http.Header{"Accept": []string{"application/json"}}),
		)
		if err != nil {
			return nil, fmt.Errorf("alphavantage client: %w", err)
		}
		log.Info("using AlphaVantage provider", zap.String("base_url", av.BaseURL), zap.String("interval", av.Interval))
		return alphavantageadapter.New(alphavantageadapter.Config{Interval: av.Interval}, client), nil

	case config.ProviderYahoo:
		y := cfg.Yahoo
		headers := make([]string, 0, len(y.Headers))
		for name := range y.Headers {
			headers = append(headers, name)
		}
		sort.Strings(headers)
		log.Info("using Yahoo provider",
			zap.String("base_url", y.BaseURL),
			zap.Strings("headers", headers),
			zap.Bool("crumb", y.Crumb != ""),
		)
		return yahoo.New(yahoo.Config{
			BaseURL:      y.BaseURL,
			Timeout:      y.Timeout(),
			MaxRetries:   y.MaxRetries,
			RetryBackoff: y.RetryBackoff(),
			UserAgent:    y.UserAgent,
			Headers:      y.Headers,
			Crumb:        y.Crumb,
		}), nil

	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// NewDispatcher wires the configured provider into a fulfillment dispatcher.
func NewDispatcher(cfg config.Config, log *zap.Logger, m *metrics.Metrics, tp trace.TracerProvider) (*fulfillment.Dispatcher, error) {
	p, err := NewProvider(cfg, log)
	if err != nil {
		return nil, err
	}
	return fulfillment.New(p,
		fulfillment.WithLogger(log),
		fulfillment.WithMetrics(m),
		fulfillment.WithTracerProvider(tp),
		fulfillment.WithTimeout(cfg.Server.UpstreamTimeout()),
	), nil
}
