package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19radio/internal/app/radio"
)

const writeWait = 2 * time.Second

// wsStream adapts a WebSocket connection to notification.Stream.
type wsStream struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// Send writes the snapshot as a JSON text message.
func (s *wsStream) Send(snapshot radio.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(snapshot)
}

// handleEvents streams every published snapshot over a WebSocket until the
// client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		zlog.Debug().Msgf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	stream := &wsStream{conn: conn}
	id := s.notifier.Subscribe(stream)
	defer s.notifier.Unsubscribe(id)
	zlog.Info().Msgf("event subscriber connected: subscription=%s remote=%s", id, r.RemoteAddr)

	// Drain client messages; a read error means the client went away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	zlog.Info().Msgf("event subscriber disconnected: subscription=%s", id)
}
