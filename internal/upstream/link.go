package upstream

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/metrics"
)

// Link is the single shared connection to the feed. All access to the
// connection goes through its methods; nothing else may hold the handle.
//
// Lifecycle: Disconnected → Connecting → Authenticating → Ready, back to
// Disconnected on close, error, or stale ping from any state. There is no
// automatic reconnect: the next EnsureConnected call (triggered by the next
// downstream client arrival) re-dials.
type Link struct {
	cfg    LinkConfig
	logger *slog.Logger

	// Inbound frames from the feed. Never closed; survives reconnects.
	frames chan Frame

	// Write serialization
	writeMu sync.Mutex

	// State
	mu         sync.Mutex
	state      State
	conn       *websocket.Conn
	gen        int // bumped per connection attempt; stale goroutines check it
	lastErr    error
	lastPingAt time.Time
	closed     bool
}

// NewLink creates a feed link in the Disconnected state. No connection is
// opened until EnsureConnected is called.
func NewLink(cfg LinkConfig, logger *slog.Logger) *Link {
	if logger == nil {
		logger = slog.Default()
	}

	return &Link{
		cfg:    cfg,
		logger: logger,
		frames: make(chan Frame, cfg.BufferSize),
		state:  StateDisconnected,
	}
}

// EnsureConnected starts a connection attempt if the link is Disconnected.
// While Connecting, Authenticating, or Ready it is a no-op, so any number of
// concurrent callers produce at most one attempt in flight.
func (l *Link) EnsureConnected() {
	l.mu.Lock()
	if l.closed || l.state != StateDisconnected {
		l.mu.Unlock()
		return
	}
	l.state = StateConnecting
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	go l.connect(gen)
}

// Forward transmits payload verbatim if the link is Ready; otherwise the
// frame is dropped. Best-effort: no queue, no error to the caller.
func (l *Link) Forward(payload []byte) {
	l.mu.Lock()
	conn := l.conn
	state := l.state
	gen := l.gen
	l.mu.Unlock()

	if state != StateReady || conn == nil {
		metrics.ForwardDroppedTotal.Inc()
		l.logger.Debug("dropping outbound frame, link not ready", "state", state)
		return
	}

	if err := l.write(conn, payload); err != nil {
		l.logger.Warn("feed write failed", "error", err)
		l.teardown(gen, err)
	}
}

// Frames returns the inbound frame channel. The channel is never closed;
// it simply goes quiet while the link is down.
func (l *Link) Frames() <-chan Frame {
	return l.frames
}

// State returns the current connection state.
func (l *Link) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// LastError returns the error that caused the most recent disconnect, or nil.
func (l *Link) LastError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// Close shuts the link down for good. Subsequent EnsureConnected calls are
// no-ops.
func (l *Link) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	conn := l.conn
	l.conn = nil
	l.state = StateDisconnected
	l.mu.Unlock()

	if conn != nil {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		return conn.Close()
	}

	return nil
}

// connect dials the feed and, on transport open, asserts the credential.
// The feed's auth acknowledgment is not awaited: an open transport is
// treated as ready for forwarding.
func (l *Link) connect(gen int) {
	dialer := websocket.Dialer{
		HandshakeTimeout: l.cfg.DialTimeout,
	}

	conn, _, err := dialer.Dial(l.cfg.URL, nil)
	if err != nil {
		l.mu.Lock()
		if l.gen == gen {
			l.state = StateDisconnected
			l.lastErr = err
		}
		l.mu.Unlock()
		l.logger.Warn("feed dial failed", "url", l.cfg.URL, "error", err)
		return
	}

	l.mu.Lock()
	if l.closed || l.gen != gen {
		l.mu.Unlock()
		conn.Close()
		return
	}
	l.conn = conn
	l.state = StateAuthenticating
	l.lastPingAt = time.Now()
	l.mu.Unlock()

	// Server sends ping, we respond with pong
	conn.SetPingHandler(func(data string) error {
		l.mu.Lock()
		l.lastPingAt = time.Now()
		l.mu.Unlock()

		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(data),
			time.Now().Add(time.Second),
		)
	})

	// Server responds to our ping
	conn.SetPongHandler(func(data string) error {
		l.mu.Lock()
		l.lastPingAt = time.Now()
		l.mu.Unlock()
		return nil
	})

	if err := l.write(conn, AuthFrame(l.cfg.APIKey)); err != nil {
		l.logger.Warn("feed auth write failed", "error", err)
		l.teardown(gen, err)
		return
	}

	l.mu.Lock()
	if l.closed || l.gen != gen {
		l.mu.Unlock()
		conn.Close()
		return
	}
	l.state = StateReady
	l.lastErr = nil
	l.mu.Unlock()

	metrics.FeedConnectsTotal.Inc()
	l.logger.Info("feed connected", "url", l.cfg.URL)

	go l.readLoop(conn, gen)
	go l.heartbeatLoop(conn, gen)
}

// write serializes writes to the connection with a deadline.
func (l *Link) write(conn *websocket.Conn, data []byte) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(l.cfg.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// readLoop reads frames from the feed and delivers them on the frame channel.
func (l *Link) readLoop(conn *websocket.Conn, gen int) {
	for {
		_, data, err := conn.ReadMessage()
		receivedAt := time.Now() // Capture timestamp immediately

		if err != nil {
			l.teardown(gen, err)
			return
		}

		metrics.FeedFramesTotal.Inc()

		select {
		case l.frames <- Frame{Data: data, ReceivedAt: receivedAt}:
		default:
			l.logger.Warn("frame buffer full, dropping frame")
		}
	}
}

// heartbeatLoop sends keepalive pings and tears the connection down when the
// feed has gone silent past PingTimeout. Staleness is handled exactly like a
// transport error.
func (l *Link) heartbeatLoop(conn *websocket.Conn, gen int) {
	ticker := time.NewTicker(l.cfg.PingInterval)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		current := l.gen == gen && l.conn == conn
		lastPing := l.lastPingAt
		l.mu.Unlock()

		if !current {
			return
		}

		deadline := time.Now().Add(l.cfg.WriteTimeout)
		if err := conn.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
			l.logger.Debug("failed to send ping", "error", err)
		}

		if time.Since(lastPing) > l.cfg.PingTimeout {
			l.logger.Warn("no ping received, connection stale",
				"last_ping", lastPing,
				"timeout", l.cfg.PingTimeout,
			)
			l.teardown(gen, ErrStaleConnection)
			return
		}
	}
}

// teardown transitions to Disconnected and discards the connection. Safe to
// call from any goroutine; only the first call per generation has effect.
func (l *Link) teardown(gen int, cause error) {
	l.mu.Lock()
	if l.gen != gen || l.state == StateDisconnected {
		l.mu.Unlock()
		return
	}
	conn := l.conn
	l.conn = nil
	l.state = StateDisconnected
	l.lastErr = cause
	closed := l.closed
	l.mu.Unlock()

	if conn != nil {
		conn.Close()
	}

	if !closed {
		metrics.FeedDisconnectsTotal.Inc()
		l.logger.Warn("feed disconnected", "error", cause)
	}
}
