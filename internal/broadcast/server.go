package broadcast

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"go.uber.org/zap"

	"github.com/codjointops/radarflow-bridge/internal/config"
	"github.com/codjointops/radarflow-bridge/internal/metrics"
	"github.com/codjointops/radarflow-bridge/internal/radar"
)

const (
	cmdRequestInfo             = "requestInfo"
	cmdToggleMoneyReveal       = "toggleMoneyReveal"
	pingPrefix                 = "ping:"
	pongReply                  = "pong"
	highLatencyThresholdMillis = 100
	skipEntityThreshold        = 5
)

// Server accepts WebSocket connections and answers each session's request
// protocol against a shared radar.Cell. Sessions here are request/response:
// a client pulls the latest snapshot rather than having frames pushed to it
// on every producer tick.
type Server struct {
	cfg     config.WebSocketConfig
	addr    string
	logger  *zap.Logger
	hub     *Hub
	cell    *radar.Cell
	metrics *metrics.Registry

	listener net.Listener
	wg       sync.WaitGroup
}

// NewServer constructs a Server bound to addr (host:port), serving the
// WebSocket upgrade at cfg.Path.
func NewServer(addr string, cfg config.WebSocketConfig, hub *Hub, cell *radar.Cell, logger *zap.Logger, metricsRegistry *metrics.Registry) *Server {
	return &Server{cfg: cfg, addr: addr, hub: hub, cell: cell, logger: logger, metrics: metricsRegistry}
}

// Start begins listening and accepting connections in a background
// goroutine.
func (s *Server) Start(ctx context.Context) error {
	if s.listener != nil {
		return errors.New("broadcast: server already started")
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("broadcast: listen: %w", err)
	}
	s.listener = ln
	s.logger.Info("broadcast server listening", zap.String("addr", s.addr))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop(ctx)
	}()

	return nil
}

// Stop closes the listener and waits for in-flight connections to drain.
func (s *Server) Stop() {
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
}

func (s *Server) acceptLoop(ctx context.Context) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Error("accept error", zap.Error(err))
			return
		}

		s.wg.Add(1)
		go func(c net.Conn) {
			defer s.wg.Done()
			s.handleConnection(ctx, c)
		}(conn)
	}
}

func (s *Server) handleConnection(parent context.Context, conn net.Conn) {
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(10 * time.Second)); err != nil {
		s.logger.Debug("set deadline", zap.Error(err))
	}
	upgrader := ws.Upgrader{
		OnRequest: func(uri []byte) error {
			path, _, _ := strings.Cut(string(uri), "?")
			if s.cfg.Path != "" && path != s.cfg.Path {
				return fmt.Errorf("broadcast: unexpected upgrade path %q", path)
			}
			return nil
		},
	}
	if _, err := upgrader.Upgrade(conn); err != nil {
		s.logger.Debug("upgrade failed", zap.Error(err))
		return
	}
	_ = conn.SetDeadline(time.Time{})

	sess := s.hub.Register(conn)
	defer s.hub.Unregister(sess)
	if s.metrics != nil {
		s.metrics.Sessions.ActiveSessions.Inc()
		defer s.metrics.Sessions.ActiveSessions.Dec()
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	s.readLoop(ctx, conn, sess)
}

// readLoop implements the session protocol: requestInfo returns the latest
// framed snapshot, toggleMoneyReveal flips the shared cell's toggle bit,
// and ping:<millis> feeds back a pong used by the caller to self-report
// latency for the next frame's compression level.
func (s *Server) readLoop(ctx context.Context, conn net.Conn, sess *Session) {
	reader := wsutil.NewReader(conn, ws.StateServerSide)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		head, err := reader.NextFrame()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Debug("read frame error", zap.Error(err))
			}
			return
		}

		switch head.OpCode {
		case ws.OpClose:
			_ = wsutil.WriteServerMessage(conn, ws.OpClose, nil)
			return
		case ws.OpPing:
			if err := wsutil.WriteServerMessage(conn, ws.OpPong, nil); err != nil {
				return
			}
		case ws.OpText, ws.OpBinary:
			payload := make([]byte, head.Length)
			if _, err := io.ReadFull(reader, payload); err != nil {
				s.logger.Debug("read message error", zap.Error(err))
				return
			}
			if !s.handleCommand(conn, sess, string(payload)) {
				return
			}
		default:
			if _, err := io.CopyN(io.Discard, reader, int64(head.Length)); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleCommand(conn net.Conn, sess *Session, cmd string) bool {
	switch {
	case cmd == cmdRequestInfo:
		return s.sendSnapshot(conn, sess)
	case cmd == cmdToggleMoneyReveal:
		s.cell.ToggleMoneyReveal()
		return s.sendSnapshot(conn, sess)
	case strings.HasPrefix(cmd, pingPrefix):
		ms, err := strconv.Atoi(strings.TrimPrefix(cmd, pingPrefix))
		if err == nil {
			sess.PingMillis = ms
			sess.HighLatency = ms > highLatencyThresholdMillis
		}
		if err := wsutil.WriteServerMessage(conn, ws.OpText, []byte(pongReply)); err != nil {
			s.logger.Debug("write pong error", zap.Error(err))
			return false
		}
		return true
	default:
		return true
	}
}

// sendSnapshot answers one requestInfo. A session whose previous frame
// tripped the skip-frames condition (more than skipEntityThreshold entities
// while high_latency) gets this one reply suppressed; the frame after that
// sends normally, re-evaluating the skip condition against the fresh count.
func (s *Server) sendSnapshot(conn net.Conn, sess *Session) bool {
	snap := s.cell.Get()
	entityCount := len(snap.Entities)

	if sess.SkipFrames {
		sess.SkipFrames = false
		sess.LastEntityCount = entityCount
		if s.metrics != nil {
			s.metrics.Broadcast.FramesSkipped.Inc()
		}
		return true
	}

	frameBytes, err := EncodeSnapshot(snap, s.cfg.CompressFastBelow, s.cfg.CompressBestAbove, sess.HighLatency, s.cfg.EnableCompression)
	if err != nil {
		s.logger.Debug("encode snapshot error", zap.Error(err))
		if s.metrics != nil {
			s.metrics.Broadcast.FramesSkipped.Inc()
		}
		return true
	}

	if err := wsutil.WriteServerMessage(conn, ws.OpBinary, frameBytes); err != nil {
		s.logger.Debug("write snapshot error", zap.Error(err))
		return false
	}

	sess.FrameCounter++
	sess.LastEntityCount = entityCount
	if entityCount > skipEntityThreshold && sess.HighLatency {
		sess.SkipFrames = true
	}

	if s.metrics != nil {
		s.metrics.Broadcast.FramesSent.Inc()
		if frameBytes[0] == frameCompressed {
			s.metrics.Broadcast.FramesCompressed.Inc()
		} else {
			s.metrics.Broadcast.FramesUncompressed.Inc()
		}
	}
	return true
}
