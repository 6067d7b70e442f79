package api

import (
	"context"
	"fmt"
)

// Mover directions accepted by the snapshot endpoints.
const (
	DirectionGainers = "gainers"
	DirectionLosers  = "losers"
)

// GetMovers fetches the top movers snapshot for the given direction.
func (c *Client) GetMovers(ctx context.Context, direction string) (*SnapshotResponse, error) {
	if direction != DirectionGainers && direction != DirectionLosers {
		return nil, fmt.Errorf("invalid mover direction %q", direction)
	}

	var resp SnapshotResponse
	path := "/v2/snapshot/locale/us/markets/stocks/" + direction
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get %s: %w", direction, err)
	}

	return &resp, nil
}

// GetGainers fetches the top gaining tickers.
func (c *Client) GetGainers(ctx context.Context) (*SnapshotResponse, error) {
	return c.GetMovers(ctx, DirectionGainers)
}

// GetLosers fetches the top losing tickers.
func (c *Client) GetLosers(ctx context.Context) (*SnapshotResponse, error) {
	return c.GetMovers(ctx, DirectionLosers)
}
