// Package server is the HTTP/WebSocket front of the relay.
//
// Routes:
//   - /ws                      WebSocket upgrade; each conn becomes a relay session
//   - /                        service info
//   - /api/health              component health (503 when unhealthy)
//   - /api/gainers, /api/losers, /api/historical/{symbol}, /api/float/{symbol},
//     /api/news/{symbol}, /api/volume/{symbol}
//     cached REST passthrough to the market-data API
//   - /metrics                 Prometheus exposition
package server
