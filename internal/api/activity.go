package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/polyfolio/pnl-data/internal/model"
)

// getActivityPage fetches one page of raw activity events.
func (c *Client) getActivityPage(ctx context.Context, user string, offset, limit int) ([]rawActivityEvent, error) {
	query := url.Values{}
	query.Set("user", user)
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	var resp []rawActivityEvent
	if err := c.get(ctx, "/activity", query, &resp); err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return resp, nil
}

// GetActivity fetches a user's full activity history (trades,
// redemptions, and everything else the source emits). Fail-soft:
// returns whatever was accumulated when a page cannot be fetched.
func (c *Client) GetActivity(ctx context.Context, user string) []model.ActivityEvent {
	raw := FetchAllPages(ctx, PageConfig{
		PageSize:  c.pageSize,
		PageDelay: c.pageDelay,
		Source:    "activity",
	}, func(ctx context.Context, offset, limit int) ([]rawActivityEvent, error) {
		return c.getActivityPage(ctx, user, offset, limit)
	}, c.logger)

	events := make([]model.ActivityEvent, 0, len(raw))
	for _, r := range raw {
		events = append(events, r.toModel())
	}
	return events
}
