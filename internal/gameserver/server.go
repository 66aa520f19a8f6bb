package gameserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/udisondev/typeroyale/internal/config"
)

// Server accepts websocket connections on /ws and feeds them to the
// message handler.
type Server struct {
	cfg      config.GameServer
	clients  *ClientManager
	handler  *Handler
	upgrader websocket.Upgrader
	httpSrv  *http.Server
}

// NewServer builds the websocket front.
func NewServer(cfg config.GameServer, clients *ClientManager, handler *Handler) *Server {
	s := &Server{
		cfg:     cfg,
		clients: clients,
		handler: handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The game client is a browser app served from another
			// origin during development.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", s.serveHealth)

	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.BindAddress, cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("game server listening", "addr", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", "err", err)
	}
	s.clients.CloseAll()
	return <-errCh
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpSrv.Addr
}

// HTTPHandler exposes the route mux, letting tests mount the server on
// an httptest listener.
func (s *Server) HTTPHandler() http.Handler {
	return s.httpSrv.Handler
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	c := NewClient(conn, s.cfg.SendQueueSize, s.cfg.WriteTimeout, s.cfg.ReadTimeout)
	s.clients.Register(c)
	slog.Debug("client connected", "client", c.ID(), "remote", r.RemoteAddr)

	go c.writePump()
	c.readLoop(s.handler.HandleMessage, s.handler.HandleDisconnect)
}

func (s *Server) serveHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
