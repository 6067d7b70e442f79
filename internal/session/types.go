package session

import "time"

// State represents a session's lifecycle state.
type State string

const (
	// StateOpen means the session accepts frames for delivery.
	StateOpen State = "open"
	// StateClosing means close has been initiated and the write pump is
	// finishing up.
	StateClosing State = "closing"
	// StateClosed means the connection is gone.
	StateClosed State = "closed"
)

// Config controls per-session delivery behavior.
type Config struct {
	// SendBuffer is the per-session outbound frame buffer. When full,
	// further frames are dropped for this session.
	SendBuffer int
	// WriteTimeout bounds each write to the client.
	WriteTimeout time.Duration
	// PingInterval is how often keepalive pings are sent.
	PingInterval time.Duration
	// PongTimeout is how long to wait for any read activity before the
	// connection is considered dead.
	PongTimeout time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		SendBuffer:   256,
		WriteTimeout: 5 * time.Second,
		PingInterval: 30 * time.Second,
		PongTimeout:  60 * time.Second,
	}
}
