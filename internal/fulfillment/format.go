package fulfillment

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stockwebhook/internal/market"
)

const notAvailable = "N/A"

var (
	trillion = decimal.New(1, 12)
	billion  = decimal.New(1, 9)
	million  = decimal.New(1, 6)
	hundred  = decimal.NewFromInt(100)
)

// FormatMarketCap renders a market capitalization with a magnitude suffix.
// Values below one million are returned unscaled.
func FormatMarketCap(v decimal.Decimal) string {
	switch {
	case v.GreaterThanOrEqual(trillion):
		return v.Div(trillion).StringFixed(2) + " Trillion"
	case v.GreaterThanOrEqual(billion):
		return v.Div(billion).StringFixed(2) + " Billion"
	case v.GreaterThanOrEqual(million):
		return v.Div(million).StringFixed(2) + " Million"
	default:
		return v.String()
	}
}

// orNA renders v at the scale it was parsed with, so "29.80" stays "29.80".
func orNA(v decimal.NullDecimal) string {
	if !v.Valid {
		return notAvailable
	}
	if exp := v.Decimal.Exponent(); exp < 0 {
		return v.Decimal.StringFixed(-exp)
	}
	return v.Decimal.String()
}

func percentOrNA(v decimal.NullDecimal) string {
	if !v.Valid {
		return notAvailable
	}
	return v.Decimal.Mul(hundred).StringFixed(2) + "%"
}

func textOrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func stockPriceText(company string, q market.Quote) string {
	return fmt.Sprintf("%s is currently trading at $%s.", company, q.Price.StringFixed(2))
}

func fundamentalsText(f market.Fundamentals) string {
	return fmt.Sprintf("(1): Company: %s\n(2): Market Cap: %s\n(3): P/E Ratio: %s\n(4): 52-Week High: %s\n(5): Description: %s",
		f.Name, FormatMarketCap(f.MarketCap), orNA(f.PERatio), orNA(f.WeekHigh52), textOrNA(f.Description))
}

func earningsText(company string, e market.EarningsReport) string {
	return fmt.Sprintf("Latest earnings report for %s:\nReported Date: %s\nEstimated EPS: %s\nActual EPS: %s\nSurprise: %s",
		company, textOrNA(e.ReportedDate), orNA(e.EstimatedEPS), orNA(e.ReportedEPS), orNA(e.Surprise))
}

func dividendText(d market.DividendInfo) string {
	return fmt.Sprintf("Dividend Yield: %s\nP/E Ratio: %s", percentOrNA(d.DividendYield), orNA(d.PERatio))
}

func marketCapText(f market.Fundamentals) string {
	return fmt.Sprintf("%s - Market Cap: %s, 52-Week High: %s, 52-Week Low: %s",
		f.Name, FormatMarketCap(f.MarketCap), orNA(f.WeekHigh52), orNA(f.WeekLow52))
}
