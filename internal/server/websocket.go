package server

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// handleWS upgrades the connection and runs the session until the client
// goes away. The read loop is the only reader; writes happen on the
// session's pump.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed",
			"remote_addr", r.RemoteAddr,
			"error", err,
		)
		return
	}

	sess := session.New(conn, s.cfg.Sessions, s.logger)
	sess.Start()

	s.relay.HandleClientConnect(sess)
	defer s.relay.HandleClientDisconnect(sess)

	for {
		data, err := sess.ReadMessage()
		if err != nil {
			return
		}
		s.relay.HandleClientMessage(sess, data)
	}
}
