package fulfillment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrMalformed marks a webhook body that cannot be turned into a Request.
var ErrMalformed = errors.New("fulfillment: malformed webhook request")

// webhookSchema is the subset of the Dialogflow ES WebhookRequest we rely on.
const webhookSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["queryResult"],
  "properties": {
    "responseId": {"type": "string"},
    "session": {"type": "string"},
    "queryResult": {
      "type": "object",
      "required": ["intent", "parameters"],
      "properties": {
        "queryText": {"type": "string"},
        "languageCode": {"type": "string"},
        "intent": {
          "type": "object",
          "required": ["displayName"],
          "properties": {
            "name": {"type": "string"},
            "displayName": {"type": "string", "minLength": 1}
          }
        },
        "parameters": {
          "type": "object",
          "required": ["company_name"],
          "properties": {
            "company_name": {"type": ["string", "number", "array"]}
          }
        }
      }
    }
  }
}`

var schema = mustSchema(webhookSchema)

func mustSchema(s string) *gojsonschema.Schema {
	sc, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("fulfillment: invalid webhook schema: %v", err))
	}
	return sc
}

// WebhookRequest is the inbound Dialogflow payload.
type WebhookRequest struct {
	ResponseID  string      `json:"responseId"`
	Session     string      `json:"session"`
	QueryResult QueryResult `json:"queryResult"`
}

type QueryResult struct {
	QueryText    string         `json:"queryText"`
	Parameters   map[string]any `json:"parameters"`
	Intent       Intent         `json:"intent"`
	LanguageCode string         `json:"languageCode"`
}

type Intent struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// Request flattens the payload. List parameters keep their first element and
// null parameters are dropped.
func (w WebhookRequest) Request() Request {
	params := make(map[string]string, len(w.QueryResult.Parameters))
	for k, v := range w.QueryResult.Parameters {
		if s, ok := paramString(v); ok {
			params[k] = s
		}
	}
	return Request{Intent: w.QueryResult.Intent.DisplayName, Parameters: params}
}

func paramString(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	case []any:
		if len(x) == 0 {
			return "", false
		}
		return paramString(x[0])
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

// Decode validates body against the webhook schema and returns the Request.
// Every failure wraps ErrMalformed.
func Decode(body []byte) (Request, error) {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return Request{}, fmt.Errorf("%w: %s", ErrMalformed, strings.Join(errs, "; "))
	}

	var w WebhookRequest
	if err := json.Unmarshal(body, &w); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return w.Request(), nil
}
