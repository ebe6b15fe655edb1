package yahoo

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"

	"stockwebhook/internal/market"
)

// value is Yahoo's formatted number wrapper: {"raw": 189.5, "fmt": "189.50"}.
// An empty object means the field is not reported.
type value struct {
	Raw decimal.NullDecimal
	Fmt string
}

// UnmarshalJSON leaves Raw invalid when it is not a finite number, e.g.
// {"raw":"Infinity"} for trailingPE on loss-making tickers. A bare number
// in place of the wrapper is accepted as raw.
func (v *value) UnmarshalJSON(b []byte) error {
	*v = value{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	raw := b
	if b[0] == '{' {
		var w struct {
			Raw json.RawMessage `json:"raw"`
			Fmt string          `json:"fmt"`
		}
		if err := json.Unmarshal(b, &w); err != nil {
			return err
		}
		v.Fmt = w.Fmt
		raw = w.Raw
	}
	v.Raw = market.ParseNullable(string(bytes.Trim(raw, `"`)))
	return nil
}

// stamp is a date wrapper: {"raw": 1703980800, "fmt": "2023-12-31"}.
type stamp struct {
	Raw int64  `json:"raw"`
	Fmt string `json:"fmt"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
		Error  *apiError       `json:"error"`
	} `json:"quoteSummary"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type summaryResult struct {
	Price           *priceModule     `json:"price"`
	SummaryDetail   *summaryDetail   `json:"summaryDetail"`
	AssetProfile    *assetProfile    `json:"assetProfile"`
	EarningsHistory *earningsHistory `json:"earningsHistory"`
}

type priceModule struct {
	Symbol             string `json:"symbol"`
	LongName           string `json:"longName"`
	ShortName          string `json:"shortName"`
	Currency           string `json:"currency"`
	RegularMarketPrice value  `json:"regularMarketPrice"`
	RegularMarketTime  int64  `json:"regularMarketTime"`
	MarketCap          value  `json:"marketCap"`
}

type summaryDetail struct {
	DividendYield    value `json:"dividendYield"`
	TrailingPE       value `json:"trailingPE"`
	FiftyTwoWeekHigh value `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  value `json:"fiftyTwoWeekLow"`
	MarketCap        value `json:"marketCap"`
}

type assetProfile struct {
	LongBusinessSummary string `json:"longBusinessSummary"`
}

type earningsHistory struct {
	History []earningsEntry `json:"history"`
}

type earningsEntry struct {
	EpsActual       value `json:"epsActual"`
	EpsEstimate     value `json:"epsEstimate"`
	EpsDifference   value `json:"epsDifference"`
	SurprisePercent value `json:"surprisePercent"`
	Quarter         stamp `json:"quarter"`
}
