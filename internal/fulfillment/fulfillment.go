package fulfillment

import "strings"

// Recognized intents. Matching is exact and case-sensitive.
const (
	IntentStockPrice          = "GetStockPrice"
	IntentCompanyFundamentals = "GetCompanyFundamentals"
	IntentEarningsReport      = "GetEarningsReport"
	IntentDividendAndPE       = "GetDividendAndPE"
	IntentMarketCapData       = "GetMarketCapData"
)

// ParamCompanyName carries the ticker symbol the user asked about.
const ParamCompanyName = "company_name"

const (
	UnknownIntentText = "Sorry, I can't help with that request yet."
	MalformedText     = "Sorry, I couldn't understand that request. Please try again."
)

// Request is the decoded fulfillment request.
type Request struct {
	Intent     string
	Parameters map[string]string
}

// CompanyName returns the trimmed company_name parameter, or "".
func (r Request) CompanyName() string {
	return strings.TrimSpace(r.Parameters[ParamCompanyName])
}

// Response is written back to the agent as-is.
type Response struct {
	FulfillmentText string `json:"fulfillmentText"`
}
