package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/session"
	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/upstream"
)

const (
	actionAuth      = "auth"
	actionSubscribe = "subscribe"
)

// FeedLink is the upstream connection as the relay sees it. *upstream.Link
// satisfies it; tests substitute their own.
type FeedLink interface {
	EnsureConnected()
	Forward(payload []byte)
	Frames() <-chan upstream.Frame
	State() upstream.State
	LastError() error
}

// Archiver receives every feed frame for persistence. Implementations must
// not block.
type Archiver interface {
	Archive(data []byte, receivedAt time.Time)
}

// Config holds relay behavior settings.
type Config struct {
	// FeedAPIKey is the credential asserted upstream whenever a client
	// attempts to authenticate. Client-supplied credentials never reach
	// the feed.
	FeedAPIKey string
}

// controlMessage is the envelope clients use to steer the feed. Only the
// action is interpreted; subscribe payloads pass through untouched.
type controlMessage struct {
	Action string `json:"action"`
	Params string `json:"params"`
}

// Stats is a point-in-time snapshot for health reporting.
type Stats struct {
	ActiveSessions int            `json:"active_sessions"`
	FeedState      upstream.State `json:"feed_state"`
	LastFeedError  string         `json:"last_feed_error,omitempty"`
}

// Relay routes frames between the feed link and the session registry.
type Relay struct {
	link     FeedLink
	registry *session.Registry
	archiver Archiver
	cfg      Config
	logger   *slog.Logger
}

// New creates a relay. archiver may be nil when frame persistence is
// disabled.
func New(link FeedLink, registry *session.Registry, archiver Archiver, cfg Config, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}

	return &Relay{
		link:     link,
		registry: registry,
		archiver: archiver,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run consumes feed frames and broadcasts them until ctx is canceled.
func (r *Relay) Run(ctx context.Context) error {
	r.logger.Info("relay started")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("relay stopped")
			return nil
		case frame := <-r.link.Frames():
			r.HandleUpstreamMessage(frame)
		}
	}
}

// HandleClientConnect admits a new subscriber. The session is registered
// before the feed link is poked, so a frame arriving mid-connect still
// reaches the new client.
func (r *Relay) HandleClientConnect(s *session.Session) {
	r.registry.Register(s)
	r.logger.Info("client connected",
		"session_id", s.ID,
		"remote_addr", s.RemoteAddr(),
		"active", r.registry.Len(),
	)

	r.link.EnsureConnected()
}

// HandleClientMessage applies the control forwarding rules to one client
// frame. Nothing a client sends reaches the feed unexamined.
func (r *Relay) HandleClientMessage(s *session.Session, data []byte) {
	var msg controlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		r.logger.Debug("unparseable client frame dropped",
			"session_id", s.ID,
			"error", err,
		)
		return
	}

	switch msg.Action {
	case actionAuth:
		// The relay holds the feed credential; whatever the client sent
		// as params is discarded.
		r.logger.Debug("client auth intercepted", "session_id", s.ID)
		r.link.Forward(upstream.AuthFrame(r.cfg.FeedAPIKey))

	case actionSubscribe:
		r.logger.Debug("subscribe forwarded",
			"session_id", s.ID,
			"params", msg.Params,
		)
		r.link.Forward(data)

	default:
		r.logger.Debug("client frame ignored",
			"session_id", s.ID,
			"action", msg.Action,
		)
	}
}

// HandleUpstreamMessage fans one feed frame out to every open session,
// byte-for-byte. Slow sessions drop the frame; they never delay the others.
func (r *Relay) HandleUpstreamMessage(frame upstream.Frame) {
	r.registry.ForEachOpen(func(s *session.Session) {
		s.Send(frame.Data)
	})

	if r.archiver != nil {
		r.archiver.Archive(frame.Data, frame.ReceivedAt)
	}
}

// HandleClientDisconnect retires a subscriber. The feed link is left alone:
// it stays up with zero clients and is only re-dialed on demand.
func (r *Relay) HandleClientDisconnect(s *session.Session) {
	if removed := r.registry.Unregister(s.ID); removed == nil {
		return
	}
	s.Close()

	r.logger.Info("client disconnected",
		"session_id", s.ID,
		"active", r.registry.Len(),
	)
}

// Stats reports the relay's current shape.
func (r *Relay) Stats() Stats {
	st := Stats{
		ActiveSessions: r.registry.Len(),
		FeedState:      r.link.State(),
	}
	if err := r.link.LastError(); err != nil {
		st.LastFeedError = err.Error()
	}
	return st
}
