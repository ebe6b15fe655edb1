package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// IntradayBar is one OHLCV entry of an intraday series. Values are kept as
// the strings AlphaVantage sends.
type IntradayBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// IntradaySeries is the TIME_SERIES_INTRADAY payload keyed by bar timestamp
// ("2024-01-02 19:59:00", exchange time zone).
type IntradaySeries struct {
	Symbol        string
	Interval      string
	LastRefreshed string
	TimeZone      string
	Bars          map[string]IntradayBar
}

type intradayMeta struct {
	Symbol        string `json:"2. Symbol"`
	LastRefreshed string `json:"3. Last Refreshed"`
	Interval      string `json:"4. Interval"`
	TimeZone      string `json:"6. Time Zone"`
}

// GetIntraday retrieves the intraday series for symbol at interval
// (1min, 5min, 15min, 30min, 60min).
func (c *AlphaVantageAPIClient) GetIntraday(ctx context.Context, symbol, interval string, opts ...AlphaVantageAPIClientOption) (*IntradaySeries, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)

	// {
	//   "Meta Data": {"2. Symbol": "IBM", "4. Interval": "1min", ...},
	//   "Time Series (1min)": {"2024-01-02 19:59:00": {"1. open": "161.38", ...}}
	// }
	var body map[string]json.RawMessage
	if err := c.get(ctx, "TIME_SERIES_INTRADAY", params, &body, opts...); err != nil {
		return nil, err
	}

	series := &IntradaySeries{Symbol: symbol, Interval: interval, Bars: map[string]IntradayBar{}}
	if raw, ok := body["Meta Data"]; ok {
		var meta intradayMeta
		if err := json.Unmarshal(raw, &meta); err != nil {
			return nil, fmt.Errorf("decoding meta data: %w", err)
		}
		if meta.Symbol != "" {
			series.Symbol = meta.Symbol
		}
		series.LastRefreshed = meta.LastRefreshed
		series.TimeZone = meta.TimeZone
	}
	if raw, ok := body[fmt.Sprintf("Time Series (%s)", interval)]; ok {
		if err := json.Unmarshal(raw, &series.Bars); err != nil {
			return nil, fmt.Errorf("decoding time series: %w", err)
		}
	}
	return series, nil
}
