package histsync

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	errs "github.com/vango-dev/waypoint/internal/errors"
)

// Frame is the sync wire unit, both directions.
//
// Outbound types: "state" (location plus path snapshot after each
// mutation), "resync" (an external navigation was vetoed; the host
// must revert its location), "error", "pong".
//
// Inbound types: "navigate" (apply an external location), "back"
// (pop), "ping".
type Frame struct {
	Type     string          `json:"type"`
	Location string          `json:"location,omitempty"`
	Paths    json.RawMessage `json:"paths,omitempty"`
	Code     string          `json:"code,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// session is one connected sync client.
type session struct {
	bridge *Bridge
	conn   *websocket.Conn

	writeMu sync.Mutex
	closed  atomic.Bool
}

func newSession(b *Bridge, conn *websocket.Conn) *session {
	return &session{bridge: b, conn: conn}
}

// readLoop processes inbound frames until the connection closes.
func (s *session) readLoop(ctx context.Context) {
	for {
		s.conn.SetReadDeadline(time.Now().Add(s.bridge.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.bridge.logger.Error("sync read error", "error", err)
			}
			return
		}

		var f Frame
		if err := json.Unmarshal(msg, &f); err != nil {
			s.sendError(errs.New("N400").Wrap(err))
			continue
		}
		s.handleFrame(ctx, &f)
	}
}

func (s *session) handleFrame(ctx context.Context, f *Frame) {
	b := s.bridge
	switch f.Type {
	case "navigate":
		if f.Location == "" {
			s.sendError(errs.New("N400").WithDetail("navigate frame without location"))
			return
		}
		b.mu.Lock()
		err := b.coord.Recover(ctx, f.Location)
		b.mu.Unlock()
		if err != nil {
			b.logger.Debug("sync navigate rejected", "location", f.Location, "error", err)
			s.sendError(err)
		}

	case "back":
		b.mu.Lock()
		status := b.coord.Pop(ctx, nil)
		b.mu.Unlock()
		if !status.Ok() {
			// The host already moved its history; tell it to resync.
			s.sendResync()
		}

	case "ping":
		s.send(&Frame{Type: "pong"})

	default:
		s.sendError(errs.New("N400").WithDetail("unknown frame type %q", f.Type))
	}
}

// sendState pushes the current location and path snapshot. Runs under
// the bridge mutex (directly or from a coordinator listener).
func (s *session) sendState() {
	paths, err := json.Marshal(s.bridge.coord.State())
	if err != nil {
		s.bridge.logger.Error("state encode error", "error", err)
		return
	}
	s.send(&Frame{
		Type:     "state",
		Location: s.bridge.coord.Location(),
		Paths:    paths,
	})
}

// sendResync tells the host its optimistic location change was
// rejected. Runs under the bridge mutex.
func (s *session) sendResync() {
	s.send(&Frame{
		Type:     "resync",
		Location: s.bridge.coord.Location(),
	})
}

func (s *session) sendError(err error) {
	f := &Frame{Type: "error", Message: err.Error()}
	var ne *errs.NavError
	if errors.As(err, &ne) {
		f.Code = ne.Code
		f.Message = ne.Message
	}
	s.send(f)
}

func (s *session) send(f *Frame) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed.Load() {
		return
	}

	data, err := json.Marshal(f)
	if err != nil {
		s.bridge.logger.Error("frame encode error", "error", err)
		return
	}

	s.conn.SetWriteDeadline(time.Now().Add(s.bridge.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.bridge.logger.Error("sync write error", "error", err)
		s.closed.Store(true)
	}
}

func (s *session) close() {
	if s.closed.Swap(true) {
		return
	}
	s.conn.Close()
}
