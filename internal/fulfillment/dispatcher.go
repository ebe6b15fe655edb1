package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"stockwebhook/internal/market"
	"stockwebhook/internal/metrics"
)

const tracerName = "stockwebhook/internal/fulfillment"

// unknownIntentLabel keeps arbitrary intent names out of metric labels.
const unknownIntentLabel = "unknown"

type lookupFunc func(ctx context.Context, p market.Provider, company string) (string, error)

type route struct {
	lookup  lookupFunc
	failure string // Sprintf template, company is the only argument
}

var routes = map[string]route{
	IntentStockPrice: {
		lookup: func(ctx context.Context, p market.Provider, company string) (string, error) {
			q, err := p.Quote(ctx, company)
			if err != nil {
				return "", err
			}
			return stockPriceText(company, q), nil
		},
		failure: "Sorry, I couldn't fetch the latest stock price for %s.",
	},
	IntentCompanyFundamentals: {
		lookup: func(ctx context.Context, p market.Provider, company string) (string, error) {
			f, err := p.Fundamentals(ctx, company)
			if err != nil {
				return "", err
			}
			return fundamentalsText(f), nil
		},
		failure: "Sorry, I couldn't find the company fundamentals for %s. Please check the symbol and try again.",
	},
	IntentEarningsReport: {
		lookup: func(ctx context.Context, p market.Provider, company string) (string, error) {
			e, err := p.Earnings(ctx, company)
			if err != nil {
				return "", err
			}
			return earningsText(company, e), nil
		},
		failure: "Sorry, I couldn't find the earnings report for %s.",
	},
	IntentDividendAndPE: {
		lookup: func(ctx context.Context, p market.Provider, company string) (string, error) {
			d, err := p.DividendInfo(ctx, company)
			if err != nil {
				return "", err
			}
			return dividendText(d), nil
		},
		failure: "Sorry, I couldn't fetch the dividend yield and P/E ratio for %s.",
	},
	IntentMarketCapData: {
		lookup: func(ctx context.Context, p market.Provider, company string) (string, error) {
			f, err := p.Fundamentals(ctx, company)
			if err != nil {
				return "", err
			}
			return marketCapText(f), nil
		},
		failure: "Sorry, I couldn't fetch the data for %s.",
	},
}

// Dispatcher maps intents to provider lookups and renders the reply.
// It holds no per-request state and is safe for concurrent use.
type Dispatcher struct {
	provider market.Provider
	logger   *zap.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	timeout  time.Duration
}

type Option func(*Dispatcher)

func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(d *Dispatcher) {
		if tp != nil {
			d.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithTimeout bounds each upstream lookup. Zero leaves only the caller's deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) { d.timeout = timeout }
}

func New(p market.Provider, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		provider: p,
		logger:   zap.NewNop(),
		tracer:   otel.Tracer(tracerName),
		timeout:  10 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) ProviderName() string { return d.provider.Name() }

// Intents lists the recognized intent names in sorted order.
func (d *Dispatcher) Intents() []string {
	names := make([]string, 0, len(routes))
	for name := range routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HandleWebhook decodes a raw webhook body and handles it. Undecodable
// bodies get MalformedText.
func (d *Dispatcher) HandleWebhook(ctx context.Context, body []byte) Response {
	req, err := Decode(body)
	if err != nil {
		d.logger.Warn("rejecting webhook body", zap.Error(err))
		d.metrics.ObserveFulfillment(unknownIntentLabel, metrics.OutcomeMalformed)
		return Response{FulfillmentText: MalformedText}
	}
	return d.Handle(ctx, req)
}

// Handle always returns a Response. Lookup errors, missing data and panics
// all become the intent's failure sentence.
func (d *Dispatcher) Handle(ctx context.Context, req Request) Response {
	company := req.CompanyName()
	r, known := routes[req.Intent]
	label := req.Intent
	if !known {
		label = unknownIntentLabel
	}

	if req.Intent == "" || company == "" {
		d.logger.Warn("missing intent or company_name", zap.String("intent", req.Intent))
		d.metrics.ObserveFulfillment(label, metrics.OutcomeMalformed)
		return Response{FulfillmentText: MalformedText}
	}
	if !known {
		d.logger.Info("unrecognized intent", zap.String("intent", req.Intent), zap.String("symbol", company))
		d.metrics.ObserveFulfillment(label, metrics.OutcomeUnknownIntent)
		return Response{FulfillmentText: UnknownIntentText}
	}

	text, outcome := d.run(ctx, req.Intent, r, company)
	d.metrics.ObserveFulfillment(label, outcome)
	return Response{FulfillmentText: text}
}

func (d *Dispatcher) run(ctx context.Context, intent string, r route, company string) (text, outcome string) {
	provider := d.provider.Name()
	ctx, span := d.tracer.Start(ctx, "fulfillment."+intent, trace.WithAttributes(
		attribute.String("symbol", company),
		attribute.String("provider", provider),
	))
	defer span.End()

	log := d.logger.With(
		zap.String("intent", intent),
		zap.String("symbol", company),
		zap.String("provider", provider),
	)
	if sc := span.SpanContext(); sc.HasTraceID() {
		log = log.With(zap.String("trace_id", sc.TraceID().String()))
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	failure := fmt.Sprintf(r.failure, company)
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("lookup panicked: %v", rec)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.Error("lookup panicked", zap.Any("panic", rec), zap.Stack("stack"))
			text, outcome = failure, metrics.OutcomePanic
		}
	}()

	reply, err := r.lookup(ctx, d.provider, company)
	d.metrics.ObserveLookup(intent, provider, time.Since(start))
	if err != nil {
		outcome = metrics.OutcomeError
		if errors.Is(err, market.ErrNotFound) {
			outcome = metrics.OutcomeNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		log.Warn("lookup failed", zap.String("outcome", outcome), zap.Error(err))
		return failure, outcome
	}

	span.SetStatus(codes.Ok, "")
	log.Debug("lookup succeeded", zap.Duration("took", time.Since(start)))
	return reply, metrics.OutcomeOK
}
