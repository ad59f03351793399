package server

import (
	"net/http"
	"time"

	"github.com/cytzrs/share-sub001/internal/models"
)

// wsMessage is the envelope pushed to connected dashboard clients.
type wsMessage struct {
	Type      models.EventType `json:"type"`
	Data      any              `json:"data,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// handleWebSocket upgrades the connection and keeps it registered until
// the client disconnects. Clients only receive; inbound frames are
// drained to detect disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = true
	s.clientsMu.Unlock()

	s.logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("websocket client connected")

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
		conn.Close()
		s.logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("websocket client disconnected")
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// broadcastEvent pushes a message to every connected client.
func (s *Server) broadcastEvent(eventType models.EventType, data any) {
	msg := wsMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for conn := range s.clients {
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Debug().Err(err).Msg("websocket write failed")
		}
	}
}

func (s *Server) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for conn := range s.clients {
		conn.Close()
		delete(s.clients, conn)
	}
}
