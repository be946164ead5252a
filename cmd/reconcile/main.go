// Command reconcile runs one reconciliation for a single address and
// prints the result as JSON. Useful for spot-checking figures against
// the Polymarket UI without a running server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/polyfolio/pnl-data/internal/api"
	"github.com/polyfolio/pnl-data/internal/config"
	"github.com/polyfolio/pnl-data/internal/reconcile"
	"github.com/polyfolio/pnl-data/internal/version"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

func main() {
	configPath := flag.String("config", "", "path to config file (optional, defaults apply)")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	address := strings.ToLower(flag.Arg(0))
	if !addressPattern.MatchString(address) {
		fmt.Fprintln(os.Stderr, "usage: reconcile [flags] <0x-address>")
		os.Exit(2)
	}

	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadAndValidate(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	} else {
		cfg = config.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	dataClient := api.NewClient(cfg.Sources.DataAPIURL,
		api.WithTimeout(cfg.Sources.Timeout),
		api.WithRetries(cfg.Sources.MaxAttempts, cfg.Sources.RetryBackoff),
		api.WithPageDelay(cfg.Sources.PageDelay),
		api.WithPageSize(cfg.Sources.PageSize),
		api.WithLogger(logger),
	)
	subgraphClient := api.NewSubgraphClient(cfg.Sources.SubgraphURL,
		api.WithSubgraphTimeout(cfg.Sources.Timeout),
		api.WithSubgraphRetries(cfg.Sources.MaxAttempts, cfg.Sources.RetryBackoff),
		api.WithSubgraphPageDelay(cfg.Sources.PageDelay),
		api.WithSubgraphPageSize(cfg.Sources.SubgraphPageSize),
		api.WithSubgraphLogger(logger),
	)

	service := reconcile.NewService(dataClient, subgraphClient, logger)
	result := service.Reconcile(ctx, address)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
}
