package live

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/binding"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
	"github.com/vango-dev/vbind/pkg/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// Session is one connected browser and the compiled tree it mirrors.
type Session struct {
	ID string

	conn   *websocket.Conn
	server *Server
	page   *Page
	view   *binding.View
	logger *slog.Logger

	// mu serializes frame handling, store updates and writes to conn.
	mu      sync.Mutex
	pending []Patch
	unwatch func()
	done    chan struct{}

	closed     atomic.Bool
	frameCount atomic.Int64
	patchCount atomic.Int64
}

func newSession(id string, conn *websocket.Conn, page *Page, view *binding.View, server *Server) *Session {
	s := &Session{
		ID:     id,
		conn:   conn,
		server: server,
		page:   page,
		view:   view,
		logger: server.logger.With("session_id", id),
		done:   make(chan struct{}),
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(server.config.ReadTimeout))
	})
	s.unwatch = page.Root.Observe(func(m dom.Mutation) {
		s.pending = append(s.pending, patchFor(m))
	})
	return s
}

// mount sends the session's tree rendered with node IDs.
func (s *Session) mount() error {
	var body strings.Builder
	if err := dom.RenderChildren(&body, s.page.Root, dom.RenderOptions{IDs: true}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writePatches([]Patch{{
		Op:     OpMount,
		Value:  body.String(),
		Events: s.page.Root.EventTypes(),
	}})
}

// ReadLoop reads client frames until the connection closes. Each frame is
// applied and its patches written before the next frame is read.
func (s *Session) ReadLoop() {
	defer s.Close()

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.server.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}
		s.frameCount.Add(1)
		s.server.config.Metrics.FrameReceived()

		frame, err := DecodeFrame(msg)
		if err == nil {
			err = s.Handle(frame)
		}
		if err == nil {
			continue
		}

		var coded *errors.Error
		if !stderrors.As(err, &coded) {
			s.logger.Error("write error", "error", err)
			return
		}
		s.logger.Warn("frame rejected", "code", coded.Code, "detail", coded.Detail)
		if err := s.sendError(coded); err != nil {
			return
		}
	}
}

// WriteLoop pings the client every HeartbeatInterval so idle connections
// stay open. It runs until the session is closed.
func (s *Session) WriteLoop() {
	ticker := time.NewTicker(s.server.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.sendPing(); err != nil {
				s.logger.Debug("ping failed", "error", err)
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) sendPing() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return nil
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.server.config.WriteTimeout))
	return s.conn.WriteMessage(websocket.PingMessage, nil)
}

// Handle applies one client frame to the tree and writes the resulting
// patches. Rejected frames return a coded *errors.Error; any other error is a
// failed write.
func (s *Session) Handle(frame ClientFrame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return nil
	}
	node := s.page.Root.FindByID(frame.Target)
	if node == nil {
		return errors.New("E142").WithDetailf("no node with id %d", frame.Target)
	}

	eventType := frame.Event
	if frame.Type == FrameInput {
		eventType = "input"
	}
	var span trace.Span
	if t := s.server.config.Tracer; t != nil {
		_, span = t.StartEvent(context.Background(), eventType, frame.Target)
	}

	err := s.dispatch(node, frame)
	patches := s.takePending()
	if span != nil {
		telemetry.End(span, err, len(patches))
	}
	if err != nil {
		patches = append(patches, Patch{Op: OpError, Value: "internal error"})
	}
	return s.writePatches(patches)
}

// dispatch delivers frame to node, recovering from handler panics.
func (s *Session) dispatch(node *dom.Node, frame ClientFrame) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("handler panic",
				"panic", r,
				"target", frame.Target,
				"type", frame.Type,
				"event", frame.Event,
				"stack", string(debug.Stack()))
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	switch frame.Type {
	case FrameInput:
		node.Input(frame.Value)
	case FrameEvent:
		node.Dispatch(dom.Event{Type: frame.Event, Target: node, Value: frame.Value})
	}
	return nil
}

// Update runs fn against the session's store under the session lock and
// sends the resulting patches. Use it to push server-side changes.
func (s *Session) Update(fn func(store *reactive.Store)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return errors.New("E144")
	}
	fn(s.page.Store)
	return s.writePatches(s.takePending())
}

func (s *Session) takePending() []Patch {
	patches := s.pending
	s.pending = nil
	return patches
}

// sendError reports a rejected frame to the client.
func (s *Session) sendError(e *errors.Error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := e.Code + ": " + e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return s.writePatches([]Patch{{Op: OpError, Value: msg}})
}

// writePatches writes patches as one message. Caller holds mu.
func (s *Session) writePatches(patches []Patch) error {
	if len(patches) == 0 || s.closed.Load() {
		return nil
	}
	data, err := json.Marshal(patches)
	if err != nil {
		return err
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.server.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	s.patchCount.Add(int64(len(patches)))
	s.server.config.Metrics.FramesSent(1)
	return nil
}

// Close disposes the session's bindings and closes the connection.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}
	close(s.done)

	s.mu.Lock()
	s.unwatch()
	s.view.Dispose()
	s.pending = nil
	s.mu.Unlock()

	s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	s.conn.Close()

	s.logger.Info("session closed",
		"frames", s.frameCount.Load(),
		"patches", s.patchCount.Load())
}

// IsClosed reports whether the session is closed.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}
