// Package api provides the REST client for the market data provider.
//
// REST endpoints:
//   - Production: https://api.polygon.io
//
// Covered surfaces: market snapshots (top gainers/losers), intraday and
// daily aggregates, ticker reference details, and ticker news. The realtime
// event stream is handled separately by the upstream package.
package api
