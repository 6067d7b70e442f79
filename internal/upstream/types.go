package upstream

import (
	"encoding/json"
	"errors"
	"time"
)

// Errors
var (
	ErrStaleConnection = errors.New("connection stale (no ping)")
	ErrAlreadyClosed   = errors.New("already closed")
)

// State describes the lifecycle of the feed connection.
type State string

const (
	StateDisconnected   State = "disconnected"
	StateConnecting     State = "connecting"
	StateAuthenticating State = "authenticating"
	StateReady          State = "ready"
)

// Frame wraps raw feed bytes with the local receive timestamp.
type Frame struct {
	Data       []byte    // Raw frame bytes from the feed
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// authRequest is the control frame the feed expects on transport open.
type authRequest struct {
	Action string `json:"action"`
	Params string `json:"params"`
}

// AuthFrame builds the feed authentication frame for the given key.
// The relay also uses it to re-assert the server credential whenever a
// client sends an auth request of its own.
func AuthFrame(key string) []byte {
	data, _ := json.Marshal(authRequest{Action: "auth", Params: key})
	return data
}

// LinkConfig configures the feed connection.
type LinkConfig struct {
	URL          string        // WebSocket URL (e.g., wss://socket.polygon.io/stocks)
	APIKey       string        // Feed credential sent in the auth frame
	DialTimeout  time.Duration // Handshake timeout for the dial
	WriteTimeout time.Duration // Write deadline for sends
	PingInterval time.Duration // Keepalive ping cadence
	PingTimeout  time.Duration // Max silence before the connection is considered stale
	BufferSize   int           // Inbound frame channel capacity
}

// DefaultLinkConfig returns sensible defaults.
func DefaultLinkConfig() LinkConfig {
	return LinkConfig{
		DialTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Second,
		PingInterval: 30 * time.Second,
		PingTimeout:  60 * time.Second,
		BufferSize:   1000,
	}
}
