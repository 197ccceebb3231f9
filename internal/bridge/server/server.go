// Package server implements the bridge's dashboard: a gorilla/mux HTTP
// router serving a gorilla/websocket live event feed, a password-gated
// command endpoint, a session summary/PDF report endpoint, and a
// Prometheus /metrics endpoint. Every ingested device message is pushed
// to connected WebSocket clients as soon as it is decoded.
package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/airhound/airhound/internal/airhound/protocol"
	"github.com/airhound/airhound/internal/bridge/auth"
	"github.com/airhound/airhound/internal/bridge/ingest"
	"github.com/airhound/airhound/internal/bridge/reporting"
	"github.com/airhound/airhound/internal/bridge/storage"
	"github.com/airhound/airhound/internal/bridge/telemetry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// CommandSink accepts a downlink Command destined for the device, e.g.
// a transport.Serial writer or an in-process loopback to the pipeline.
type CommandSink interface {
	SendCommand(protocol.Command) error
}

// wsMessage is the discriminated envelope every pushed dashboard
// message is wrapped in.
type wsMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Server is the bridge dashboard's HTTP/WebSocket front end.
type Server struct {
	Addr     string
	Guard    *auth.Guard
	Store    *storage.Store
	Reporter *reporting.Exporter
	Board    string
	Commands CommandSink

	mu      sync.Mutex
	clients map[*websocket.Conn]bool

	srv *http.Server
}

// New builds a Server. Store, Reporter, and Commands may be nil; the
// corresponding routes then answer 503.
func New(addr string, guard *auth.Guard, store *storage.Store, reporter *reporting.Exporter, board string, commands CommandSink) *Server {
	return &Server{
		Addr:     addr,
		Guard:    guard,
		Store:    store,
		Reporter: reporter,
		Board:    board,
		Commands: commands,
		clients:  make(map[*websocket.Conn]bool),
	}
}

// router builds the gorilla/mux route table.
func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/logout", s.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/api/command", s.requireAuth(s.handleCommand)).Methods(http.MethodPost)
	r.HandleFunc("/api/summary", s.handleSummary).Methods(http.MethodGet)
	r.HandleFunc("/api/report", s.handleReport).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler())
	return otelhttp.NewHandler(r, "airhound-bridge")
}

// Run starts the HTTP server and blocks until ctx is cancelled or
// ListenAndServe fails.
func (s *Server) Run(ctx context.Context) error {
	telemetry.Register()
	s.srv = &http.Server{Addr: s.Addr, Handler: s.router()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("bridge server shutdown", "err", err)
		}
	}()

	slog.Info("bridge dashboard listening", "addr", s.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// OnEvent implements ingest.Sink: every decoded DeviceMessage is pushed
// live to every connected dashboard client.
func (s *Server) OnEvent(ev ingest.SessionEvent) {
	s.broadcast(wsMessage{Type: "event", Payload: ev.Message})
}

func (s *Server) broadcast(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("bridge server: marshal websocket message", "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
	telemetry.WebSocketClients.Set(float64(len(s.clients)))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("bridge server: websocket upgrade", "err", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	telemetry.WebSocketClients.Set(float64(len(s.clients)))
	s.mu.Unlock()

	go func() {
		defer conn.Close()
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			telemetry.WebSocketClients.Set(float64(len(s.clients)))
			s.mu.Unlock()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Guard == nil {
			http.Error(w, "no operator password configured", http.StatusServiceUnavailable)
			return
		}
		token := r.Header.Get("Authorization")
		if err := s.Guard.Authorize(token); err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.Guard == nil {
		http.Error(w, "no operator password configured", http.StatusServiceUnavailable)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	token, err := s.Guard.Login(req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	json.NewEncoder(w).Encode(loginResponse{Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if s.Guard != nil {
		s.Guard.Logout(r.Header.Get("Authorization"))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if s.Commands == nil {
		http.Error(w, "no command sink configured", http.StatusServiceUnavailable)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	cmd, ok := protocol.ParseCommand(body)
	if !ok {
		http.Error(w, "malformed command", http.StatusBadRequest)
		return
	}
	if err := s.Commands.SendCommand(cmd); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		http.Error(w, "no session store configured", http.StatusServiceUnavailable)
		return
	}
	summary, err := s.Store.Summary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(summary)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil || s.Reporter == nil {
		http.Error(w, "reporting not configured", http.StatusServiceUnavailable)
		return
	}
	summary, err := s.Store.Summary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	pdf, err := s.Reporter.ExportSessionSummary(s.Board, summary)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="airhound-session.pdf"`)
	w.Write(pdf)
}
