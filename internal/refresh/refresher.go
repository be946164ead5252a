package refresh

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polyfolio/pnl-data/internal/model"
)

// Reconciler produces a full reconciliation result for an address.
type Reconciler interface {
	Reconcile(ctx context.Context, address string) *model.ReconciliationResult
}

// ResultHandler receives each completed refresh result.
type ResultHandler interface {
	HandleResult(ctx context.Context, result *model.ReconciliationResult)
}

// ResultHandlerFunc is a function adapter for ResultHandler.
type ResultHandlerFunc func(context.Context, *model.ReconciliationResult)

func (f ResultHandlerFunc) HandleResult(ctx context.Context, result *model.ReconciliationResult) {
	f(ctx, result)
}

// Config holds refresher configuration.
type Config struct {
	Interval    time.Duration // Refresh interval (default: 30m)
	Concurrency int           // Max concurrent reconciliations (default: 2)
	Addresses   []string      // Watched addresses
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    30 * time.Minute,
		Concurrency: 2,
	}
}

// Refresher periodically re-reconciles a watched set of addresses so
// cached results and websocket clients stay warm between requests.
type Refresher struct {
	cfg        Config
	reconciler Reconciler
	handler    ResultHandler
	logger     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Refresher.
func New(cfg Config, reconciler Reconciler, handler ResultHandler, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		cfg:        cfg,
		reconciler: reconciler,
		handler:    handler,
		logger:     logger,
	}
}

// Start begins the refresh loop.
func (r *Refresher) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.run()

	r.logger.Info("refresher started",
		"interval", r.cfg.Interval,
		"concurrency", r.cfg.Concurrency,
		"addresses", len(r.cfg.Addresses),
	)
	return nil
}

// Stop gracefully shuts down the refresher.
func (r *Refresher) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("refresher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main refresh loop.
func (r *Refresher) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	// Refresh immediately on start.
	r.refreshAll()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.refreshAll()
		}
	}
}

// refreshAll reconciles all watched addresses with bounded concurrency.
func (r *Refresher) refreshAll() {
	start := time.Now()

	if len(r.cfg.Addresses) == 0 {
		r.logger.Debug("no watched addresses to refresh")
		return
	}

	sem := make(chan struct{}, r.cfg.Concurrency)
	var wg sync.WaitGroup
	var refreshed atomic.Int64

	for _, address := range r.cfg.Addresses {
		wg.Add(1)
		go func(address string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-r.ctx.Done():
				return
			}

			result := r.reconciler.Reconcile(r.ctx, address)
			if r.handler != nil {
				r.handler.HandleResult(r.ctx, result)
			}
			refreshed.Add(1)
		}(address)
	}

	wg.Wait()

	r.logger.Info("refresh cycle complete",
		"addresses", len(r.cfg.Addresses),
		"refreshed", refreshed.Load(),
		"duration", time.Since(start),
	)
}
