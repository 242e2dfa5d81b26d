package main

//go:generate go tool mockgen -source=server.go -destination=mock_server_test.go -package=main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"i4.energy/across/telemetrygw/ready"
	"i4.energy/across/telemetrygw/session"
	"i4.energy/across/telemetrygw/telemetry"
)

// PublishNower sends the current snapshot immediately.
type PublishNower interface {
	PublishNow(ctx context.Context) error
}

// DefaultWriteTimeout bounds one websocket write.
const DefaultWriteTimeout = time.Second

// Status indicator colours shown to an operator.
const (
	IndicatorRed    = "red"
	IndicatorYellow = "yellow"
	IndicatorGreen  = "green"
)

// Server exposes the gateway state over HTTP and streams changes to
// websocket clients.
type Server struct {
	Logger    *slog.Logger
	Store     *telemetry.Store
	Publisher PublishNower
	Flags     *ready.Flags
	// State reports the session state. Nil in direct mode.
	State func() string
	// WriteTimeout bounds each feed write so a stalled client cannot hold
	// up the broadcaster. Defaults to DefaultWriteTimeout.
	WriteTimeout time.Duration

	upgrader  websocket.Upgrader
	clientsMu sync.Mutex
	clients   map[*websocket.Conn]bool
}

// Status is the /status document and the first message of the feed.
type Status struct {
	Session      string             `json:"session,omitempty"`
	Indicator    string             `json:"indicator"`
	CloudReady   bool               `json:"cloud_ready"`
	DisplayReady bool               `json:"display_ready"`
	Telemetry    telemetry.Snapshot `json:"telemetry"`
}

// FeedEvent is one websocket message.
type FeedEvent struct {
	Type       string              `json:"type"`
	Status     *Status             `json:"status,omitempty"`
	Transition *session.Transition `json:"transition,omitempty"`
	Telemetry  *telemetry.Snapshot `json:"telemetry,omitempty"`
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("POST /publish", s.handlePublish)
	mux.HandleFunc("GET /ws", s.handleFeed)
	mux.ServeHTTP(w, r)
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	if message == "" {
		w.WriteHeader(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	resp := ErrorResponse{Message: message}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)

}

func (s *Server) status() Status {
	st := Status{Indicator: IndicatorYellow}
	if s.Flags != nil {
		st.CloudReady = s.Flags.Cloud.IsSet()
		st.DisplayReady = s.Flags.Display.IsSet()
	}
	if s.State != nil {
		st.Session = s.State()
	}
	switch {
	case st.Session == session.StateFaulted:
		st.Indicator = IndicatorRed
	case st.CloudReady:
		st.Indicator = IndicatorGreen
	}
	if s.Store != nil {
		st.Telemetry = s.Store.Snapshot()
	}
	return st
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.status())
}

// handlePublish publishes the current snapshot on demand
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	if s.Publisher == nil {
		s.sendError(w, "publishing is not configured", http.StatusServiceUnavailable)
		return
	}
	if err := s.Publisher.PublishNow(r.Context()); err != nil {
		s.Logger.Error("On-demand publish failed", "error", err)
		s.sendError(w, err.Error(), http.StatusBadGateway)
		return
	}
	s.Logger.Info("On-demand publish sent")
	w.WriteHeader(http.StatusAccepted)
}

// handleFeed upgrades to a websocket, sends the current status and then
// every broadcast until the client goes away
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	st := s.status()
	s.clientsMu.Lock()
	if s.clients == nil {
		s.clients = make(map[*websocket.Conn]bool)
	}
	s.clients[conn] = true
	err = s.write(conn, FeedEvent{Type: "status", Status: &st})
	s.clientsMu.Unlock()
	if err != nil {
		s.drop(conn)
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.drop(conn)
			return
		}
	}
}

func (s *Server) drop(conn *websocket.Conn) {
	s.clientsMu.Lock()
	delete(s.clients, conn)
	s.clientsMu.Unlock()
	conn.Close()
}

// Broadcast sends ev to every connected feed client. Clients failing the
// write are dropped.
func (s *Server) Broadcast(ev FeedEvent) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for conn := range s.clients {
		if err := s.write(conn, ev); err != nil {
			s.Logger.Debug("dropping feed client", "error", err)
			delete(s.clients, conn)
			conn.Close()
		}
	}
}

func (s *Server) write(conn *websocket.Conn, ev FeedEvent) error {
	timeout := s.WriteTimeout
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return conn.WriteJSON(ev)
}

// BroadcastTransition streams a session state change.
func (s *Server) BroadcastTransition(t session.Transition) {
	s.Broadcast(FeedEvent{Type: "transition", Transition: &t})
}

// BroadcastTelemetry streams a telemetry update.
func (s *Server) BroadcastTelemetry(snap telemetry.Snapshot) {
	s.Broadcast(FeedEvent{Type: "telemetry", Telemetry: &snap})
}
