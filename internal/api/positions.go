package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/polyfolio/pnl-data/internal/model"
)

// getOpenPositionsPage fetches one page of open positions.
func (c *Client) getOpenPositionsPage(ctx context.Context, user string, offset, limit int) ([]rawOpenPosition, error) {
	query := url.Values{}
	query.Set("user", user)
	query.Set("sizeThreshold", "0.01")
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	var resp []rawOpenPosition
	if err := c.get(ctx, "/positions", query, &resp); err != nil {
		return nil, fmt.Errorf("get positions: %w", err)
	}
	return resp, nil
}

// GetOpenPositions fetches all of a user's open positions. Fail-soft:
// returns whatever was accumulated when a page cannot be fetched.
func (c *Client) GetOpenPositions(ctx context.Context, user string) []model.OpenPosition {
	raw := FetchAllPages(ctx, PageConfig{
		PageSize:  c.pageSize,
		PageDelay: c.pageDelay,
		Source:    "open_positions",
	}, func(ctx context.Context, offset, limit int) ([]rawOpenPosition, error) {
		return c.getOpenPositionsPage(ctx, user, offset, limit)
	}, c.logger)

	positions := make([]model.OpenPosition, 0, len(raw))
	for _, r := range raw {
		positions = append(positions, r.toModel())
	}
	return positions
}

// getClosedPositionsPage fetches one page of closed-position history,
// sorted ascending by settlement date so the timeline anchors come back
// in chronological order.
func (c *Client) getClosedPositionsPage(ctx context.Context, user string, offset, limit int) ([]rawClosedPosition, error) {
	query := url.Values{}
	query.Set("user", user)
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))
	query.Set("sortBy", "ENDDATE")
	query.Set("sortDirection", "ASC")

	var resp []rawClosedPosition
	if err := c.get(ctx, "/closed-positions", query, &resp); err != nil {
		return nil, fmt.Errorf("get closed positions: %w", err)
	}
	return resp, nil
}

// GetClosedPositions fetches a user's full closed-position history.
// Fail-soft like GetOpenPositions.
func (c *Client) GetClosedPositions(ctx context.Context, user string) []model.ClosedPosition {
	raw := FetchAllPages(ctx, PageConfig{
		PageSize:  c.pageSize,
		PageDelay: c.pageDelay,
		Source:    "closed_positions",
	}, func(ctx context.Context, offset, limit int) ([]rawClosedPosition, error) {
		return c.getClosedPositionsPage(ctx, user, offset, limit)
	}, c.logger)

	positions := make([]model.ClosedPosition, 0, len(raw))
	for _, r := range raw {
		positions = append(positions, r.toModel())
	}
	return positions
}
