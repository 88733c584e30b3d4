// Package server serves the live dashboard: the page, a JSON snapshot and a
// websocket that streams one board's updates to each connected browser.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Zachdehooge/painel-ambiental/internal/config"
	"github.com/Zachdehooge/painel-ambiental/internal/dashboard"
	"github.com/Zachdehooge/painel-ambiental/internal/generator"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = pongWait * 9 / 10
	maxMessageSize  = 4096
	sendBuffer      = 256
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	log      zerolog.Logger
	opts     []dashboard.Option
	shared   *dashboard.Board
	upgrader websocket.Upgrader
	conns    atomic.Int64
}

// New builds a server. The shared board backs GET / and the snapshot API;
// every websocket gets a board of its own.
func New(cfg *config.Config, log zerolog.Logger, opts ...dashboard.Option) *Server {
	if log.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{
		cfg:    cfg,
		log:    log,
		opts:   opts,
		shared: dashboard.New(cfg, log, opts...),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Router wires the HTTP routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLog)

	router.GET("/", s.handlePage)
	router.GET("/api/snapshot", s.handleSnapshot)
	router.GET("/ws", s.handleWS)
	return router
}

// Connections reports how many websockets are open.
func (s *Server) Connections() int64 {
	return s.conns.Load()
}

// Run starts the shared board and serves until ctx ends, then shuts the
// listener down and closes every board.
func (s *Server) Run(ctx context.Context) error {
	if err := s.shared.Start(ctx); err != nil {
		return fmt.Errorf("start board: %w", err)
	}
	defer s.shared.Close()

	srv := &http.Server{
		Addr:        s.cfg.Listen,
		Handler:     s.Router(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()
	s.log.Info().Str("addr", s.cfg.Listen).Msg("serving dashboard")

	select {
	case err, ok := <-errc:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Debug().
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", c.Writer.Status()).
		Dur("took", time.Since(start)).
		Msg("request")
}

func (s *Server) handlePage(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := generator.RenderDashboardHTML(c.Writer, s.shared.Snapshot(), true, s.cfg.Refresh.Period); err != nil {
		s.log.Error().Err(err).Msg("render page")
	}
}

func (s *Server) handleSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, s.shared.Snapshot())
}
