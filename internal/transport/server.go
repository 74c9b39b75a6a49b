// Package transport carries Join and Tick calls over websockets.
// Each binary frame holds one protobuf-encoded request or response.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/netpong/internal/protocol"
)

// Handler serves the two game operations.
type Handler interface {
	Join(ctx context.Context, req *protocol.JoinRequest) (*protocol.JoinResponse, error)
	Tick(ctx context.Context, req *protocol.TickRequest) (*protocol.TickResponse, error)
}

// ServerConfig holds configuration for the websocket server.
type ServerConfig struct {
	// Address is the host:port to listen on (e.g., ":50051").
	Address string

	// ReadLimit is the largest accepted frame in bytes.
	ReadLimit int64

	// PongWait is how long a connection may stay silent before it is dropped.
	PongWait time.Duration

	// WriteWait bounds each frame write.
	WriteWait time.Duration
}

// DefaultServerConfig returns a config with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:   ":50051",
		ReadLimit: 4 << 10,
		PongWait:  60 * time.Second,
		WriteWait: 10 * time.Second,
	}
}

// Server accepts websocket clients at /ws and dispatches their calls to a Handler.
type Server struct {
	config   ServerConfig
	handler  Handler
	logger   *log.Logger
	upgrader websocket.Upgrader
	http     *http.Server
}

// NewServer creates a server. A nil logger discards output.
func NewServer(cfg ServerConfig, handler Handler, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		config:  cfg,
		handler: handler,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Game clients are not browsers
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.http = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Routes returns the HTTP routes served by s.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	return mux
}

// ListenAndServe listens on the configured address and blocks until Shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("transport: cannot listen on %s: %w", s.config.Address, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln and blocks until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("starting websocket server", "address", ln.Addr().String())
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("transport: serve: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections. Open websockets are hijacked and
// end when their clients go away or the process exits.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.config.Address
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &connection{
		id:     uuid.NewString(),
		ws:     ws,
		server: s,
		send:   make(chan []byte, 16),
	}
	c.logger = s.logger.With("conn", c.id)

	c.logger.Info("client connected", "remote", r.RemoteAddr)
	go c.writePump()
	c.readPump(r.Context())
	c.logger.Info("client disconnected", "remote", r.RemoteAddr)
}

// connection is one websocket client. readPump is the only sender on send
// and closes it on exit; writePump owns all data writes.
type connection struct {
	id     string
	ws     *websocket.Conn
	server *Server
	logger *log.Logger
	send   chan []byte
}

func (c *connection) readPump(ctx context.Context) {
	cfg := c.server.config
	defer close(c.send)

	c.ws.SetReadLimit(cfg.ReadLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(cfg.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	for {
		kind, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("read failed", "error", err)
			}
			return
		}
		// Any traffic counts as liveness
		_ = c.ws.SetReadDeadline(time.Now().Add(cfg.PongWait))

		if kind != websocket.BinaryMessage {
			c.logger.Debug("ignoring non-binary frame", "type", kind)
			continue
		}

		resp := c.dispatch(ctx, data)
		c.send <- resp.Marshal()
	}
}

func (c *connection) dispatch(ctx context.Context, data []byte) *protocol.Response {
	var req protocol.Request
	if err := req.Unmarshal(data); err != nil {
		c.logger.Debug("bad request frame", "error", err)
		return &protocol.Response{ID: req.ID, Error: err.Error()}
	}

	resp := &protocol.Response{ID: req.ID}
	var err error
	if req.Join != nil {
		resp.Join, err = c.server.handler.Join(ctx, req.Join)
	} else {
		resp.Tick, err = c.server.handler.Tick(ctx, req.Tick)
	}
	if err != nil {
		return &protocol.Response{ID: req.ID, Error: err.Error()}
	}
	return resp
}

func (c *connection) writePump() {
	cfg := c.server.config
	ticker := time.NewTicker(cfg.PongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				c.logger.Warn("write failed", "error", err)
				// Unblock readPump so it can exit
				c.ws.Close()
				for range c.send {
				}
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.ws.Close()
				for range c.send {
				}
				return
			}
		}
	}
}
