package alphavantage

import (
	"context"
	"net/url"
)

// Overview is the subset of the OVERVIEW payload the webhook reads. An
// unknown symbol yields an empty object, so every field is blank.
type Overview struct {
	Symbol               string `json:"Symbol"`
	Name                 string `json:"Name"`
	Description          string `json:"Description"`
	Exchange             string `json:"Exchange"`
	Currency             string `json:"Currency"`
	Sector               string `json:"Sector"`
	MarketCapitalization string `json:"MarketCapitalization"`
	PERatio              string `json:"PERatio"`
	DividendYield        string `json:"DividendYield"`
	EPS                  string `json:"EPS"`
	WeekHigh52           string `json:"52WeekHigh"`
	WeekLow52            string `json:"52WeekLow"`
}

// GetOverview retrieves company fundamentals for symbol.
func (c *AlphaVantageAPIClient) GetOverview(ctx context.Context, symbol string, opts ...AlphaVantageAPIClientOption) (*Overview, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var overview Overview
	if err := c.get(ctx, "OVERVIEW", params, &overview, opts...); err != nil {
		return nil, err
	}
	return &overview, nil
}
