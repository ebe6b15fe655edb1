package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"stockwebhook/internal/app"
	"stockwebhook/internal/config"
	"stockwebhook/internal/fulfillment"
	"stockwebhook/internal/logger"
)

// fetch runs one intent against the configured provider and prints the
// fulfillment text, without going through HTTP.
func main() {
	var (
		intent     string
		symbol     string
		providerID string
		configPath string
		timeout    int
		verbose    bool
	)
	flag.StringVar(&intent, "intent", fulfillment.IntentStockPrice, "intent display name, e.g. GetCompanyFundamentals")
	flag.StringVar(&symbol, "symbol", "AAPL", "ticker symbol passed as company_name")
	flag.StringVar(&providerID, "provider", "", "override provider (alphavantage or yahoo)")
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config file (optional)")
	flag.IntVar(&timeout, "timeout", 0, "lookup timeout seconds (default: server.upstream_timeout_sec)")
	flag.BoolVar(&verbose, "v", false, "log at debug level")
	flag.Parse()

	if providerID != "" {
		// Applied before Load so validation sees the effective provider.
		_ = os.Setenv("PROVIDER", providerID)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if timeout > 0 {
		cfg.Server.UpstreamTimeoutSec = timeout
	}
	cfg.Logging.Format = "console"
	cfg.Logging.File = ""
	if verbose {
		cfg.Logging.Level = "debug"
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	d, err := app.NewDispatcher(cfg, log, nil, nil)
	if err != nil {
		log.Fatal("building dispatcher", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.UpstreamTimeout()+5*time.Second)
	defer cancel()

	resp := d.Handle(ctx, fulfillment.Request{
		Intent:     intent,
		Parameters: map[string]string{fulfillment.ParamCompanyName: strings.TrimSpace(symbol)},
	})
	fmt.Println(resp.FulfillmentText)
}
