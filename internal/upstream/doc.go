// Package upstream implements the shared connection to the market data feed.
//
// The Link:
//   - Owns the single WebSocket connection to the feed
//   - Authenticates with the configured key as soon as the transport opens
//   - Delivers raw inbound frames on a buffered channel
//   - Forwards outbound frames best-effort (dropped unless Ready)
//   - Never reconnects on its own; callers re-trigger EnsureConnected
package upstream
