package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Zachdehooge/painel-ambiental/internal/dashboard"
)

var ErrUnknownMessage = errors.New("unknown message type")

// Inbound is a message from the page.
type Inbound struct {
	Type   string  `json:"type"`
	ID     string  `json:"id,omitempty"`
	Ratio  float64 `json:"ratio,omitempty"`
	Days   int     `json:"days,omitempty"`
	Region string  `json:"region,omitempty"`
	Layer  string  `json:"layer,omitempty"`
}

// Apply hands msg to the board.
func Apply(board *dashboard.Board, msg Inbound) error {
	switch msg.Type {
	case "visible":
		board.ReportVisibility(msg.ID, msg.Ratio)
		return nil
	case "period":
		return board.SetPeriod(msg.Days)
	case "region":
		return board.SetNDVIRegion(msg.Region)
	case "layer":
		_, err := board.SetMapLayer(msg.Layer)
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
}

func (s *Server) handleWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already answered the request.
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	open := s.conns.Add(1)
	log := s.log.With().Str("remote", c.Request.RemoteAddr).Logger()
	log.Info().Int64("open", open).Msg("viewer connected")

	ctx, cancel := context.WithCancel(c.Request.Context())
	board := dashboard.New(s.cfg, log, s.opts...)
	out := make(chan dashboard.Update, sendBuffer)
	unsubscribe := board.Subscribe(func(u dashboard.Update) {
		select {
		case out <- u:
		case <-ctx.Done():
		}
	})

	// ctx goes first so listeners blocked on out return before Close waits
	// for the timers that called them.
	defer func() {
		cancel()
		board.Close()
		unsubscribe()
		conn.Close()
		log.Info().Int64("open", s.conns.Add(-1)).Msg("viewer disconnected")
	}()

	for _, ch := range board.Snapshot().Charts {
		out <- dashboard.Update{Kind: dashboard.KindChart, ID: ch.ID, Chart: &ch}
	}
	if err := board.Start(ctx); err != nil {
		log.Error().Err(err).Msg("start board")
		return
	}

	go s.readLoop(ctx, cancel, conn, board, log)
	s.writeLoop(ctx, conn, out, log)
}

// readLoop applies page messages until the socket fails, then cancels ctx.
func (s *Server) readLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, board *dashboard.Board, log zerolog.Logger) {
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Inbound
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && ctx.Err() == nil {
				log.Warn().Err(err).Msg("websocket read")
			}
			return
		}
		if err := Apply(board, msg); err != nil {
			log.Warn().Err(err).Str("type", msg.Type).Msg("message rejected")
		}
	}
}

// writeLoop is the only writer on conn.
func (s *Server) writeLoop(ctx context.Context, conn *websocket.Conn, out <-chan dashboard.Update, log zerolog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case u := <-out:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(u); err != nil {
				log.Debug().Err(err).Msg("websocket write")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
