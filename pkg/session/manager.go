package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/coder/websocket"

	"github.com/curia-dev/curia/pkg/events"
)

// Manager tracks every live streaming session so shutdown can close them
// and enforces the per-client connection cap before a session starts.
type Manager struct {
	deps Deps

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager builds a session manager over the shared dependencies.
func NewManager(deps Deps) *Manager {
	return &Manager{
		deps:     deps,
		sessions: make(map[string]*Session),
	}
}

// HandleConnection runs one client connection to completion. Called by
// the WebSocket HTTP handler after upgrade; blocks until the socket
// closes. Connections over the per-client cap are rejected with a typed
// frame before any orchestration runs.
func (m *Manager) HandleConnection(parentCtx context.Context, conn *websocket.Conn, clientID string) {
	if denial := m.deps.Limiter.AcquireConnection(clientID); denial != nil {
		slog.Warn("Connection limit rejection", "client_id", clientID)
		rejection := &Session{conn: conn, ctx: parentCtx, writeTimeout: defaultWriteTimeout}
		_ = rejection.write(events.RejectionFrame{
			Type:  string(denial.Kind),
			Error: denial.Message,
		})
		_ = conn.Close(websocket.StatusPolicyViolation, "connection limit")
		return
	}
	defer m.deps.Limiter.ReleaseConnection(clientID)

	s := newSession(parentCtx, conn, clientID, m.deps)
	m.register(s)
	defer m.unregister(s)

	slog.Info("WebSocket session established",
		"session_id", s.ID, "client_id", clientID)
	s.run()
}

// ActiveSessions returns the number of live sessions.
func (m *Manager) ActiveSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CloseAll tears down every live session. Used at shutdown; in-flight
// executions abort through their session contexts.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}

func (m *Manager) register(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}

func (m *Manager) unregister(s *Session) {
	m.mu.Lock()
	delete(m.sessions, s.ID)
	m.mu.Unlock()
	s.close()
}
