package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// IntervalDay requests one daily bar instead of intraday minute bars.
const IntervalDay = "day"

// GetAggregatesOptions controls the bar query.
type GetAggregatesOptions struct {
	// DaysBack shifts the target session back from the most recent
	// trading day. 0 means today (or Friday on weekends).
	DaysBack int
	// Interval is the minute multiplier ("1", "5", ...) or IntervalDay.
	// Empty means "1".
	Interval string
	// Limit caps the number of bars. 0 means the provider maximum.
	Limit int
}

// GetAggregates fetches OHLCV bars for one symbol covering a single trading
// session.
func (c *Client) GetAggregates(ctx context.Context, symbol string, opts GetAggregatesOptions) (*AggsResponse, error) {
	interval := opts.Interval
	if interval == "" {
		interval = "1"
	}

	target := MarketDate(time.Now())
	if opts.DaysBack > 0 {
		target = target.AddDate(0, 0, -opts.DaysBack)
	}
	date := target.Format("2006-01-02")

	var path string
	if interval == IntervalDay {
		path = fmt.Sprintf("/v2/aggs/ticker/%s/range/1/day/%s/%s", symbol, date, date)
	} else {
		path = fmt.Sprintf("/v2/aggs/ticker/%s/range/%s/minute/%s/%s", symbol, interval, date, date)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 1000
	}

	query := url.Values{}
	query.Set("adjusted", "true")
	query.Set("sort", "asc")
	query.Set("limit", strconv.Itoa(limit))

	var resp AggsResponse
	if err := c.get(ctx, path, query, &resp); err != nil {
		return nil, fmt.Errorf("get aggregates %s: %w", symbol, err)
	}

	return &resp, nil
}

// MarketDate returns the trading session for now: weekends roll back to the
// preceding Friday, weekdays pass through.
func MarketDate(now time.Time) time.Time {
	switch now.Weekday() {
	case time.Saturday:
		return now.AddDate(0, 0, -1)
	case time.Sunday:
		return now.AddDate(0, 0, -2)
	}
	return now
}
