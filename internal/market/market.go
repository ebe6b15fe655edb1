package market

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by providers when the upstream answered but had no
// usable data for the symbol (unknown ticker, empty series, missing field).
var ErrNotFound = errors.New("market: no data for symbol")

// Quote is the normalized latest price returned by all providers.
type Quote struct {
	Symbol     string          `json:"symbol"`
	Price      decimal.Decimal `json:"price"`
	Currency   string          `json:"currency"`
	Source     string          `json:"source"`
	ReceivedAt time.Time       `json:"received_at"`
}

// Fundamentals is a company overview. MarketCap is zero when the upstream
// does not report it.
type Fundamentals struct {
	Symbol      string              `json:"symbol"`
	Name        string              `json:"name"`
	MarketCap   decimal.Decimal     `json:"market_cap"`
	PERatio     decimal.NullDecimal `json:"pe_ratio"`
	WeekHigh52  decimal.NullDecimal `json:"week_high_52"`
	WeekLow52   decimal.NullDecimal `json:"week_low_52"`
	Description string              `json:"description"`
}

// EarningsReport is the most recent quarterly earnings entry.
type EarningsReport struct {
	Symbol       string              `json:"symbol"`
	ReportedDate string              `json:"reported_date"`
	EstimatedEPS decimal.NullDecimal `json:"estimated_eps"`
	ReportedEPS  decimal.NullDecimal `json:"reported_eps"`
	Surprise     decimal.NullDecimal `json:"surprise"`
}

// DividendInfo carries the dividend yield as a fraction (0.0044 == 0.44%).
type DividendInfo struct {
	Symbol        string              `json:"symbol"`
	DividendYield decimal.NullDecimal `json:"dividend_yield"`
	PERatio       decimal.NullDecimal `json:"pe_ratio"`
}

// Provider is a market-data source. Every method performs at most one
// upstream lookup and returns ErrNotFound (possibly wrapped) when the
// upstream has nothing for the symbol.
//
//go:generate mockgen -package=fulfillment_test -destination=../fulfillment/mock_provider_test.go -source=market.go Provider
type Provider interface {
	Name() string
	Quote(ctx context.Context, symbol string) (Quote, error)
	Fundamentals(ctx context.Context, symbol string) (Fundamentals, error)
	Earnings(ctx context.Context, symbol string) (EarningsReport, error)
	DividendInfo(ctx context.Context, symbol string) (DividendInfo, error)
}
