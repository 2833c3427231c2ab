// Package httpapi exposes the radio loop as a JSON/WebSocket remote control API.
package httpapi

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/osa030/19radio/internal/app/notification"
	"github.com/osa030/19radio/internal/app/radio"
)

const (
	// TokenHeader is the header name for the control token.
	TokenHeader = "X-Radio-Token"

	// requestTimeout bounds how long a handler waits for the loop.
	requestTimeout = 5 * time.Second
)

// Server serves the remote control API.
type Server struct {
	requests chan<- radio.Request
	notifier *notification.Manager
	token    string
	upgrader websocket.Upgrader
}

// NewServer creates a new API server. An empty token disables authentication.
func NewServer(requests chan<- radio.Request, notifier *notification.Manager, token string) *Server {
	return &Server{
		requests: requests,
		notifier: notifier,
		token:    token,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Handler returns the HTTP handler with h2c (HTTP/2 cleartext) support.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/select", s.handleSelect)
	mux.HandleFunc("POST /api/toggle", s.handleSimple(radio.CommandToggle))
	mux.HandleFunc("POST /api/stop", s.handleSimple(radio.CommandStop))
	mux.HandleFunc("POST /api/mute", s.handleSimple(radio.CommandMute))
	mux.HandleFunc("POST /api/retry", s.handleSimple(radio.CommandRetry))
	mux.HandleFunc("POST /api/volume", s.handleVolume)
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/events", s.handleEvents)

	return h2c.NewHandler(s.authenticate(mux), &http2.Server{})
}

// authenticate rejects requests without the configured token.
// WebSocket clients may pass the token as the "token" query parameter.
func (s *Server) authenticate(next http.Handler) http.Handler {
	if s.token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(TokenHeader)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
