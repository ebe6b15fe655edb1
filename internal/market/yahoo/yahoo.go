package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"stockwebhook/internal/market"
	"stockwebhook/internal/series"
)

const (
	modulePrice           = "price"
	moduleSummaryDetail   = "summaryDetail"
	moduleAssetProfile    = "assetProfile"
	moduleEarningsHistory = "earningsHistory"
)

// Config controls the Yahoo ticker-info provider.
type Config struct {
	Name         string
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	UserAgent    string
	// Headers are sent with every call, typically the consent Cookie that
	// Crumb was issued for.
	Headers map[string]string
	// Crumb is sent as the crumb query parameter when set.
	Crumb string
}

// Provider reads ticker info from the quoteSummary endpoint.
type Provider struct {
	cfg    Config
	client *resty.Client
}

func New(cfg Config) *Provider {
	if cfg.Name == "" {
		cfg.Name = "Yahoo"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://query2.finance.yahoo.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 250 * time.Millisecond
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeaders(map[string]string{
			"Accept":     "application/json",
			"User-Agent": cfg.UserAgent,
		}).
		SetHeaders(cfg.Headers).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(cfg.RetryBackoff).
		SetRetryMaxWaitTime(cfg.RetryBackoff).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		})

	return &Provider{cfg: cfg, client: client}
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) Quote(ctx context.Context, symbol string) (market.Quote, error) {
	res, err := p.summary(ctx, symbol, modulePrice)
	if err != nil {
		return market.Quote{}, err
	}
	if res.Price == nil || !res.Price.RegularMarketPrice.Raw.Valid {
		return market.Quote{}, fmt.Errorf("yahoo %s: no market price: %w", symbol, market.ErrNotFound)
	}
	receivedAt := series.FromEpoch(res.Price.RegularMarketTime)
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}
	return market.Quote{
		Symbol:     symbol,
		Price:      res.Price.RegularMarketPrice.Raw.Decimal,
		Currency:   res.Price.Currency,
		Source:     p.cfg.Name + ":regularMarket",
		ReceivedAt: receivedAt,
	}, nil
}

func (p *Provider) Fundamentals(ctx context.Context, symbol string) (market.Fundamentals, error) {
	res, err := p.summary(ctx, symbol, modulePrice, moduleSummaryDetail, moduleAssetProfile)
	if err != nil {
		return market.Fundamentals{}, err
	}
	f := market.Fundamentals{Symbol: symbol, MarketCap: decimal.Zero}
	if res.Price != nil {
		f.Name = res.Price.LongName
		if f.Name == "" {
			f.Name = res.Price.ShortName
		}
		if res.Price.MarketCap.Raw.Valid {
			f.MarketCap = res.Price.MarketCap.Raw.Decimal
		}
	}
	if strings.TrimSpace(f.Name) == "" {
		return market.Fundamentals{}, fmt.Errorf("yahoo %s: no company name: %w", symbol, market.ErrNotFound)
	}
	if d := res.SummaryDetail; d != nil {
		if f.MarketCap.IsZero() && d.MarketCap.Raw.Valid {
			f.MarketCap = d.MarketCap.Raw.Decimal
		}
		f.PERatio = d.TrailingPE.Raw
		f.WeekHigh52 = d.FiftyTwoWeekHigh.Raw
		f.WeekLow52 = d.FiftyTwoWeekLow.Raw
	}
	if res.AssetProfile != nil {
		f.Description = res.AssetProfile.LongBusinessSummary
	}
	return f, nil
}

// Earnings returns the newest quarter of the earnings history. Surprise is
// the EPS difference, derived from actual and estimate when not reported.
// ReportedDate is the fiscal quarter end, not the announcement date.
func (p *Provider) Earnings(ctx context.Context, symbol string) (market.EarningsReport, error) {
	res, err := p.summary(ctx, symbol, moduleEarningsHistory)
	if err != nil {
		return market.EarningsReport{}, err
	}
	if res.EarningsHistory == nil {
		return market.EarningsReport{}, fmt.Errorf("yahoo %s: no earnings history: %w", symbol, market.ErrNotFound)
	}
	latest, ok := series.Latest(res.EarningsHistory.History, func(e earningsEntry) time.Time {
		if ts := series.FromEpoch(e.Quarter.Raw); !ts.IsZero() {
			return ts
		}
		return series.ParseStamp(e.Quarter.Fmt)
	})
	if !ok {
		return market.EarningsReport{}, fmt.Errorf("yahoo %s: empty earnings history: %w", symbol, market.ErrNotFound)
	}

	surprise := latest.EpsDifference.Raw
	if !surprise.Valid && latest.EpsActual.Raw.Valid && latest.EpsEstimate.Raw.Valid {
		surprise = decimal.NewNullDecimal(latest.EpsActual.Raw.Decimal.Sub(latest.EpsEstimate.Raw.Decimal))
	}
	// earningsHistory carries no publication date; the fiscal quarter end
	// stands in for it.
	date := latest.Quarter.Fmt
	if date == "" {
		if ts := series.FromEpoch(latest.Quarter.Raw); !ts.IsZero() {
			date = ts.Format("2006-01-02")
		}
	}
	return market.EarningsReport{
		Symbol:       symbol,
		ReportedDate: date,
		EstimatedEPS: latest.EpsEstimate.Raw,
		ReportedEPS:  latest.EpsActual.Raw,
		Surprise:     surprise,
	}, nil
}

func (p *Provider) DividendInfo(ctx context.Context, symbol string) (market.DividendInfo, error) {
	res, err := p.summary(ctx, symbol, moduleSummaryDetail)
	if err != nil {
		return market.DividendInfo{}, err
	}
	if res.SummaryDetail == nil {
		return market.DividendInfo{}, fmt.Errorf("yahoo %s: no summary detail: %w", symbol, market.ErrNotFound)
	}
	return market.DividendInfo{
		Symbol:        symbol,
		DividendYield: res.SummaryDetail.DividendYield.Raw,
		PERatio:       res.SummaryDetail.TrailingPE.Raw,
	}, nil
}

// summary calls quoteSummary for the requested modules and returns the first
// result. Unknown symbols surface as market.ErrNotFound.
func (p *Provider) summary(ctx context.Context, symbol string, modules ...string) (*summaryResult, error) {
	var body quoteSummaryResponse
	req := p.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParam("modules", strings.Join(modules, ",")).
		SetResult(&body).
		SetError(&body)
	if p.cfg.Crumb != "" {
		req.SetQueryParam("crumb", p.cfg.Crumb)
	}
	resp, err := req.Get("/v10/finance/quoteSummary/{symbol}")
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: request failed: %w", symbol, err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("yahoo %s: %s: %w", symbol, describe(body.QuoteSummary.Error), market.ErrNotFound)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("yahoo %s: unexpected status code: %d", symbol, resp.StatusCode())
	}
	if e := body.QuoteSummary.Error; e != nil {
		return nil, fmt.Errorf("yahoo %s: %s", symbol, describe(e))
	}
	if len(body.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo %s: empty result: %w", symbol, market.ErrNotFound)
	}
	return &body.QuoteSummary.Result[0], nil
}

func describe(e *apiError) string {
	if e == nil {
		return "not found"
	}
	if e.Description != "" {
		return e.Code + ": " + e.Description
	}
	return e.Code
}
