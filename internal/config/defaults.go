package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultPort           = 8080
	DefaultRequestTimeout = 15 * time.Second

	DefaultFeedWSURL        = "wss://socket.polygon.io/stocks"
	DefaultFeedRestURL      = "https://api.polygon.io"
	DefaultDialTimeout      = 10 * time.Second
	DefaultFeedWriteTimeout = 5 * time.Second
	DefaultFeedPingInterval = 30 * time.Second
	DefaultFeedPingTimeout  = 60 * time.Second
	DefaultFeedBufferSize   = 1000

	DefaultSendBuffer          = 256
	DefaultSessionWriteTimeout = 5 * time.Second
	DefaultSessionPingInterval = 30 * time.Second
	DefaultSessionPongTimeout  = 60 * time.Second

	DefaultCacheTTL = 10 * time.Second

	DefaultDBPort    = 5432
	DefaultDBSSLMode = "prefer"
	DefaultMaxConns  = 10
	DefaultMinConns  = 2

	DefaultBatchSize     = 1000
	DefaultFlushInterval = 1 * time.Second
	DefaultArchiveBuffer = 10000
)

func (c *RelayConfig) applyDefaults() {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = DefaultRequestTimeout
	}

	// Feed defaults
	if c.Feed.WSURL == "" {
		c.Feed.WSURL = DefaultFeedWSURL
	}
	if c.Feed.RestURL == "" {
		c.Feed.RestURL = DefaultFeedRestURL
	}
	if c.Feed.DialTimeout == 0 {
		c.Feed.DialTimeout = DefaultDialTimeout
	}
	if c.Feed.WriteTimeout == 0 {
		c.Feed.WriteTimeout = DefaultFeedWriteTimeout
	}
	if c.Feed.PingInterval == 0 {
		c.Feed.PingInterval = DefaultFeedPingInterval
	}
	if c.Feed.PingTimeout == 0 {
		c.Feed.PingTimeout = DefaultFeedPingTimeout
	}
	if c.Feed.BufferSize == 0 {
		c.Feed.BufferSize = DefaultFeedBufferSize
	}

	// Session defaults
	if c.Sessions.SendBuffer == 0 {
		c.Sessions.SendBuffer = DefaultSendBuffer
	}
	if c.Sessions.WriteTimeout == 0 {
		c.Sessions.WriteTimeout = DefaultSessionWriteTimeout
	}
	if c.Sessions.PingInterval == 0 {
		c.Sessions.PingInterval = DefaultSessionPingInterval
	}
	if c.Sessions.PongTimeout == 0 {
		c.Sessions.PongTimeout = DefaultSessionPongTimeout
	}

	// Cache defaults
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Archive defaults
	if c.Archive.BatchSize == 0 {
		c.Archive.BatchSize = DefaultBatchSize
	}
	if c.Archive.FlushInterval == 0 {
		c.Archive.FlushInterval = DefaultFlushInterval
	}
	if c.Archive.BufferSize == 0 {
		c.Archive.BufferSize = DefaultArchiveBuffer
	}
}
