package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/polyfolio/pnl-data/internal/model"
)

// SubgraphMaxSkip is the documented hard cap on the skip parameter of
// Graph-protocol subgraphs. Offsets beyond it are rejected outright.
const SubgraphMaxSkip = 10_000

// SubgraphClient queries the indexed PnL subgraph for settled
// positions.
type SubgraphClient struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger

	maxAttempts  int
	retryBackoff time.Duration
	pageDelay    time.Duration
	pageSize     int
}

// SubgraphOption configures a SubgraphClient.
type SubgraphOption func(*SubgraphClient)

// NewSubgraphClient creates a client for the PnL subgraph.
func NewSubgraphClient(url string, opts ...SubgraphOption) *SubgraphClient {
	c := &SubgraphClient{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:       slog.Default(),
		maxAttempts:  3,
		retryBackoff: time.Second,
		pageDelay:    300 * time.Millisecond,
		pageSize:     1000,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithSubgraphRetries sets attempts per query and the linear backoff
// base delay.
func WithSubgraphRetries(attempts int, backoff time.Duration) SubgraphOption {
	return func(c *SubgraphClient) {
		c.maxAttempts = attempts
		c.retryBackoff = backoff
	}
}

// WithSubgraphTimeout sets the per-query HTTP timeout.
func WithSubgraphTimeout(d time.Duration) SubgraphOption {
	return func(c *SubgraphClient) {
		c.httpClient.Timeout = d
	}
}

// WithSubgraphPageDelay sets the courtesy delay between pages.
func WithSubgraphPageDelay(d time.Duration) SubgraphOption {
	return func(c *SubgraphClient) {
		c.pageDelay = d
	}
}

// WithSubgraphPageSize sets the default first: value per query.
func WithSubgraphPageSize(n int) SubgraphOption {
	return func(c *SubgraphClient) {
		c.pageSize = n
	}
}

// WithSubgraphLogger sets the logger.
func WithSubgraphLogger(logger *slog.Logger) SubgraphOption {
	return func(c *SubgraphClient) {
		c.logger = logger
	}
}

// WithSubgraphHTTPClient sets a custom HTTP client.
func WithSubgraphHTTPClient(hc *http.Client) SubgraphOption {
	return func(c *SubgraphClient) {
		c.httpClient = hc
	}
}

// getUserPositionsPage runs one userPositions query at the given skip.
func (c *SubgraphClient) getUserPositionsPage(ctx context.Context, user string, skip, first int) ([]rawSubgraphPosition, error) {
	query := fmt.Sprintf(`{
		userPositions(
			where: {user: %q},
			first: %d,
			skip: %d
		) {
			tokenId
			realizedPnl
			avgPrice
			totalBought
		}
	}`, user, first, skip)

	var resp userPositionsResponse
	err := postJSON(ctx, c.httpClient, c.maxAttempts, c.retryBackoff, c.url, graphQLRequest{Query: query}, &resp)
	if err != nil {
		return nil, fmt.Errorf("subgraph query: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("subgraph error: %s", resp.Errors[0].Message)
	}

	return resp.Data.UserPositions, nil
}

// GetUserPositions fetches all of a user's settled subgraph positions.
// The skip cap forces page-size shrinking deep into large histories;
// fail-soft like the REST fetchers.
func (c *SubgraphClient) GetUserPositions(ctx context.Context, user string) []model.SubgraphPosition {
	raw := FetchAllPages(ctx, PageConfig{
		PageSize:  c.pageSize,
		MaxOffset: SubgraphMaxSkip,
		PageDelay: c.pageDelay,
		Source:    "subgraph_positions",
	}, func(ctx context.Context, offset, limit int) ([]rawSubgraphPosition, error) {
		return c.getUserPositionsPage(ctx, user, offset, limit)
	}, c.logger)

	positions := make([]model.SubgraphPosition, 0, len(raw))
	for _, r := range raw {
		positions = append(positions, r.toModel())
	}
	return positions
}
