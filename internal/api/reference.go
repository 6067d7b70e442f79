package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GetTickerDetails fetches the reference record for one ticker, including
// shares outstanding used for float display.
func (c *Client) GetTickerDetails(ctx context.Context, symbol string) (*TickerDetailsResponse, error) {
	var resp TickerDetailsResponse
	if err := c.get(ctx, "/v3/reference/tickers/"+symbol, nil, &resp); err != nil {
		return nil, fmt.Errorf("get ticker details %s: %w", symbol, err)
	}

	return &resp, nil
}

// GetNews fetches recent articles mentioning the ticker. limit <= 0 uses the
// default of 10.
func (c *Client) GetNews(ctx context.Context, symbol string, limit int) (*NewsResponse, error) {
	if limit <= 0 {
		limit = 10
	}

	query := url.Values{}
	query.Set("ticker", symbol)
	query.Set("limit", strconv.Itoa(limit))

	var resp NewsResponse
	if err := c.get(ctx, "/v2/reference/news", query, &resp); err != nil {
		return nil, fmt.Errorf("get news %s: %w", symbol, err)
	}

	return &resp, nil
}
