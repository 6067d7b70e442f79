package config

import "time"

// RelayConfig is the root configuration for a relay instance.
type RelayConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Feed     FeedConfig     `yaml:"feed"`
	Sessions SessionsConfig `yaml:"sessions"`
	Cache    CacheConfig    `yaml:"cache"`
	Database DBConfig       `yaml:"database"`
	Archive  ArchiveConfig  `yaml:"archive"`
}

// ServerConfig holds the HTTP/WebSocket listener settings.
type ServerConfig struct {
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"` // upstream REST calls made on behalf of proxy requests
}

// FeedConfig holds upstream feed settings.
type FeedConfig struct {
	WSURL        string        `yaml:"ws_url"`
	RestURL      string        `yaml:"rest_url"`
	APIKey       string        `yaml:"api_key"` // feed credential, sent in the auth frame and REST requests
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	PingInterval time.Duration `yaml:"ping_interval"`
	PingTimeout  time.Duration `yaml:"ping_timeout"` // max silence before the link is considered stale
	BufferSize   int           `yaml:"buffer_size"`  // inbound frame channel capacity
}

// SessionsConfig holds per-downstream-session settings.
type SessionsConfig struct {
	SendBuffer   int           `yaml:"send_buffer"` // outbound frame queue per session; full queue drops
	WriteTimeout time.Duration `yaml:"write_timeout"`
	PingInterval time.Duration `yaml:"ping_interval"`
	PongTimeout  time.Duration `yaml:"pong_timeout"`
}

// CacheConfig holds REST proxy response cache settings.
// An empty RedisAddr selects the in-memory backend.
type CacheConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
}

// DBConfig holds the Postgres connection used by the frame archiver.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ArchiveConfig holds frame archiver settings. Disabled by default; when
// enabled the database section is required.
type ArchiveConfig struct {
	Enabled       bool          `yaml:"enabled"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}
