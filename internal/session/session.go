package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/metrics"
)

// Session is one downstream subscriber. The write pump owns all writes to the
// connection; everything else goes through the buffered send channel.
type Session struct {
	// ID uniquely identifies the session for logging and registry lookup.
	ID string

	cfg    Config
	logger *slog.Logger
	conn   *websocket.Conn

	send chan []byte
	done chan struct{}

	closeOnce sync.Once

	mu    sync.Mutex
	state State
}

// New wraps an upgraded connection in a session. Call Start to begin the
// write pump.
func New(conn *websocket.Conn, cfg Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.NewString()

	return &Session{
		ID:     id,
		cfg:    cfg,
		logger: logger.With("session_id", id),
		conn:   conn,
		send:   make(chan []byte, cfg.SendBuffer),
		done:   make(chan struct{}),
		state:  StateOpen,
	}
}

// Start installs the keepalive handlers and launches the write pump.
func (s *Session) Start() {
	s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
		return nil
	})

	go s.writePump()
}

// Send queues data for delivery. Non-blocking: if the session's buffer is
// full or the session is no longer open, the frame is dropped and Send
// reports false. A slow client slows only itself.
func (s *Session) Send(data []byte) bool {
	if s.State() != StateOpen {
		return false
	}

	select {
	case s.send <- data:
		return true
	default:
		metrics.BroadcastDroppedTotal.Inc()
		s.logger.Debug("send buffer full, dropping frame")
		return false
	}
}

// ReadMessage reads the next frame from the client, refreshing the read
// deadline. Returns an error once the client is gone.
func (s *Session) ReadMessage() ([]byte, error) {
	s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	_, data, err := s.conn.ReadMessage()
	return data, err
}

// Close initiates shutdown. Idempotent; safe from any goroutine.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.setState(StateClosing)
		close(s.done)
	})
}

// Done is closed when the session has begun shutting down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// State returns the session's lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RemoteAddr returns the client's network address for logging.
func (s *Session) RemoteAddr() string {
	if s.conn == nil {
		return ""
	}
	return s.conn.RemoteAddr().String()
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// writePump drains the send channel to the connection and keeps the client
// alive with pings. It is the only goroutine that writes to the connection.
func (s *Session) writePump() {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
		s.setState(StateClosed)
	}()

	for {
		select {
		case data := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("session write failed", "error", err)
				s.Close()
				return
			}
			metrics.BroadcastDeliveredTotal.Inc()

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}

		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			s.conn.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			)
			return
		}
	}
}
