package alphavantageadapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stockwebhook/internal/market"
	"stockwebhook/internal/market/alphavantage"
	"stockwebhook/internal/series"
)

type Config struct {
	Name     string // display name, default: AlphaVantage
	Interval string // intraday interval, default: 1min
	Currency string // AlphaVantage quotes US listings in USD
}

// Adapter exposes an AlphaVantageAPIClient as a market.Provider.
type Adapter struct {
	cfg    Config
	client *alphavantage.AlphaVantageAPIClient
	now    func() time.Time
}

func New(cfg Config, client *alphavantage.AlphaVantageAPIClient) *Adapter {
	if cfg.Name == "" {
		cfg.Name = "AlphaVantage"
	}
	if cfg.Interval == "" {
		cfg.Interval = "1min"
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	return &Adapter{cfg: cfg, client: client, now: time.Now}
}

func (a *Adapter) Name() string { return a.cfg.Name }

// Quote returns the opening price of the most recent intraday bar.
func (a *Adapter) Quote(ctx context.Context, symbol string) (market.Quote, error) {
	ts, err := a.client.GetIntraday(ctx, symbol, a.cfg.Interval)
	if err != nil {
		return market.Quote{}, fmt.Errorf("intraday %s: %w", symbol, err)
	}
	stamp, bar, ok := series.LatestKey(ts.Bars)
	if !ok {
		return market.Quote{}, fmt.Errorf("intraday %s: empty series: %w", symbol, market.ErrNotFound)
	}
	open := market.ParseNullable(bar.Open)
	if !open.Valid {
		return market.Quote{}, fmt.Errorf("intraday %s: bar %s has no open price: %w", symbol, stamp, market.ErrNotFound)
	}
	receivedAt := series.ParseStamp(stamp)
	if receivedAt.IsZero() {
		receivedAt = a.now().UTC()
	}
	return market.Quote{
		Symbol:     symbol,
		Price:      open.Decimal,
		Currency:   a.cfg.Currency,
		Source:     fmt.Sprintf("%s:%s", a.cfg.Name, a.cfg.Interval),
		ReceivedAt: receivedAt,
	}, nil
}

func (a *Adapter) Fundamentals(ctx context.Context, symbol string) (market.Fundamentals, error) {
	o, err := a.overview(ctx, symbol)
	if err != nil {
		return market.Fundamentals{}, err
	}
	capital := decimal.Zero
	if v := market.ParseNullable(o.MarketCapitalization); v.Valid {
		capital = v.Decimal
	}
	return market.Fundamentals{
		Symbol:      symbol,
		Name:        o.Name,
		MarketCap:   capital,
		PERatio:     market.ParseNullable(o.PERatio),
		WeekHigh52:  market.ParseNullable(o.WeekHigh52),
		WeekLow52:   market.ParseNullable(o.WeekLow52),
		Description: o.Description,
	}, nil
}

// Earnings returns the newest quarterly entry by reported date.
func (a *Adapter) Earnings(ctx context.Context, symbol string) (market.EarningsReport, error) {
	e, err := a.client.GetEarnings(ctx, symbol)
	if err != nil {
		return market.EarningsReport{}, fmt.Errorf("earnings %s: %w", symbol, err)
	}
	latest, ok := series.Latest(e.QuarterlyEarnings, func(q alphavantage.QuarterlyEarning) time.Time {
		if ts := series.ParseStamp(q.ReportedDate); !ts.IsZero() {
			return ts
		}
		return series.ParseStamp(q.FiscalDateEnding)
	})
	if !ok {
		return market.EarningsReport{}, fmt.Errorf("earnings %s: no quarterly entries: %w", symbol, market.ErrNotFound)
	}
	return market.EarningsReport{
		Symbol:       symbol,
		ReportedDate: strings.TrimSpace(latest.ReportedDate),
		EstimatedEPS: market.ParseNullable(latest.EstimatedEPS),
		ReportedEPS:  market.ParseNullable(latest.ReportedEPS),
		Surprise:     market.ParseNullable(latest.Surprise),
	}, nil
}

func (a *Adapter) DividendInfo(ctx context.Context, symbol string) (market.DividendInfo, error) {
	o, err := a.overview(ctx, symbol)
	if err != nil {
		return market.DividendInfo{}, err
	}
	return market.DividendInfo{
		Symbol:        symbol,
		DividendYield: market.ParseNullable(o.DividendYield),
		PERatio:       market.ParseNullable(o.PERatio),
	}, nil
}

// overview fetches OVERVIEW and treats a nameless payload as unknown symbol.
func (a *Adapter) overview(ctx context.Context, symbol string) (*alphavantage.Overview, error) {
	o, err := a.client.GetOverview(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("overview %s: %w", symbol, err)
	}
	if strings.TrimSpace(o.Name) == "" {
		return nil, fmt.Errorf("overview %s: %w", symbol, market.ErrNotFound)
	}
	return o, nil
}
