package alphavantage

import (
	"context"
	"net/url"
)

// QuarterlyEarning is one entry of the EARNINGS quarterly list. Missing
// values arrive as "None".
type QuarterlyEarning struct {
	FiscalDateEnding   string `json:"fiscalDateEnding"`
	ReportedDate       string `json:"reportedDate"`
	ReportedEPS        string `json:"reportedEPS"`
	EstimatedEPS       string `json:"estimatedEPS"`
	Surprise           string `json:"surprise"`
	SurprisePercentage string `json:"surprisePercentage"`
	ReportTime         string `json:"reportTime"`
}

// Earnings is the EARNINGS payload. AlphaVantage lists quarters newest first.
type Earnings struct {
	Symbol            string             `json:"symbol"`
	QuarterlyEarnings []QuarterlyEarning `json:"quarterlyEarnings"`
}

// GetEarnings retrieves the earnings history for symbol.
func (c *AlphaVantageAPIClient) GetEarnings(ctx context.Context, symbol string, opts ...AlphaVantageAPIClientOption) (*Earnings, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var earnings Earnings
	if err := c.get(ctx, "EARNINGS", params, &earnings, opts...); err != nil {
		return nil, err
	}
	return &earnings, nil
}
