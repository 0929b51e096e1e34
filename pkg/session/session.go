// Package session owns the server side of one streaming client: a
// WebSocket connection that accepts execute requests, runs them through
// the orchestrator, and relays the typed event frames back in order.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/curia-dev/curia/pkg/budget"
	"github.com/curia-dev/curia/pkg/council"
	"github.com/curia-dev/curia/pkg/events"
	"github.com/curia-dev/curia/pkg/orchestrator"
	"github.com/curia-dev/curia/pkg/ratelimit"
	"github.com/curia-dev/curia/pkg/safety"
)

// defaultWriteTimeout bounds a single frame write. A client that stops
// reading stalls for at most this long per frame before the run's frames
// start dropping.
const defaultWriteTimeout = 10 * time.Second

// Deps are the collaborators shared by every session.
type Deps struct {
	Orchestrator *orchestrator.Orchestrator
	Limiter      *ratelimit.Limiter
	Accountant   *budget.Accountant

	// WriteTimeout bounds each WebSocket write. Zero means the default.
	WriteTimeout time.Duration
}

// Session is one connected client. It implements orchestrator.EventSink;
// writes are serialized under a mutex so orchestrator frames and control
// frames never interleave mid-message.
type Session struct {
	ID       string
	clientID string

	conn *websocket.Conn
	deps Deps

	ctx    context.Context
	cancel context.CancelFunc

	writeMu      sync.Mutex
	writeTimeout time.Duration
}

func newSession(parentCtx context.Context, conn *websocket.Conn, clientID string, deps Deps) *Session {
	ctx, cancel := context.WithCancel(parentCtx)
	timeout := deps.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	return &Session{
		ID:           uuid.NewString(),
		clientID:     clientID,
		conn:         conn,
		deps:         deps,
		ctx:          ctx,
		cancel:       cancel,
		writeTimeout: timeout,
	}
}

// run is the session's read loop. It blocks until the client disconnects
// or the parent context is cancelled; either tears down any in-flight
// execution through s.ctx.
func (s *Session) run() {
	for {
		_, data, err := s.conn.Read(s.ctx)
		if err != nil {
			return
		}

		var msg events.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("Invalid WebSocket message", "session_id", s.ID, "error", err)
			continue
		}

		switch msg.Type {
		case events.MessagePing:
			s.send(events.PongFrame{Type: events.TypePong})
		case events.MessageExecute:
			s.handleExecute(&msg)
		default:
			slog.Warn("Unknown WebSocket message type",
				"session_id", s.ID, "type", msg.Type)
		}
	}
}

// handleExecute validates one execute request, consults the rate limiter,
// and drives the orchestrator with this session as the event sink.
// Executions are serialized per connection by the read loop.
func (s *Session) handleExecute(msg *events.ClientMessage) {
	if msg.Query == "" {
		s.send(events.ErrorFrame{
			Frame: events.Frame{Type: events.TypeError},
			Error: "query is required",
		})
		return
	}

	var cfg council.Config
	if len(msg.Config) > 0 {
		if err := json.Unmarshal(msg.Config, &cfg); err != nil {
			s.send(events.ErrorFrame{
				Frame: events.Frame{Type: events.TypeError},
				Error: "invalid council config",
			})
			return
		}
	}

	models := make([]string, 0, len(cfg.Nodes))
	for _, n := range cfg.Nodes {
		models = append(models, n.Model)
	}
	estimate := s.deps.Accountant.Estimate(models, 0)
	if denial := s.deps.Limiter.CheckRequest(s.clientID, estimate); denial != nil {
		slog.Warn("Rate limit rejection",
			"session_id", s.ID, "kind", denial.Kind)
		s.send(events.RejectionFrame{Type: string(denial.Kind), Error: denial.Message})
		return
	}

	slog.Info("Executing council over WebSocket",
		"session_id", s.ID, "nodes", len(cfg.Nodes))

	result, err := s.deps.Orchestrator.Execute(s.ctx, msg.Query, &cfg, orchestrator.Options{
		Events: s,
	})
	if err != nil {
		slog.Error("Council execution failed", "session_id", s.ID, "error", err)
		if errors.Is(err, safety.ErrInjectionDetected) {
			// The matched pattern stays out of the frame.
			s.send(events.RejectionFrame{
				Type:  events.TypeInjectionDetected,
				Error: "Query rejected: potential prompt injection detected",
			})
			return
		}
		s.send(events.ErrorFrame{
			Frame: events.Frame{Type: events.TypeError},
			Error: err.Error(),
		})
		return
	}

	if result.ErrorKind != "" {
		slog.Warn("Council execution terminated early",
			"session_id", s.ID,
			"conversation_id", result.ConversationID,
			"error", result.ErrorKind)
	}
}

// send marshals and writes one frame under the write lock. Failures are
// logged and swallowed; a dead socket surfaces in the read loop.
func (s *Session) send(v any) {
	if err := s.write(v); err != nil {
		slog.Warn("Failed to send WebSocket frame", "session_id", s.ID, "error", err)
	}
}

func (s *Session) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	writeCtx, cancel := context.WithTimeout(s.ctx, s.writeTimeout)
	defer cancel()
	return s.conn.Write(writeCtx, websocket.MessageText, data)
}

// close tears the session down, aborting any in-flight execution.
func (s *Session) close() {
	s.cancel()
	_ = s.conn.Close(websocket.StatusNormalClosure, "")
}

// EventSink implementation: every orchestrator frame goes out over the
// socket in emission order.

func (s *Session) PublishStageUpdate(_ context.Context, f events.StageUpdateFrame) error {
	return s.write(f)
}

func (s *Session) PublishNodeState(_ context.Context, f events.NodeStateFrame) error {
	return s.write(f)
}

func (s *Session) PublishResponse(_ context.Context, f events.ResponseFrame) error {
	return s.write(f)
}

func (s *Session) PublishRanking(_ context.Context, f events.RankingFrame) error {
	return s.write(f)
}

func (s *Session) PublishFinalAnswer(_ context.Context, f events.FinalAnswerFrame) error {
	return s.write(f)
}

func (s *Session) PublishError(_ context.Context, f events.ErrorFrame) error {
	return s.write(f)
}

func (s *Session) PublishComplete(_ context.Context, f events.CompleteFrame) error {
	return s.write(f)
}
