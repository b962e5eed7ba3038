package quiz

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/levelup-backend/internal/logger"
)

// sessionRetention keeps a terminal session around long enough for the
// client to fetch its final snapshot before it is reaped.
const sessionRetention = 10 * time.Minute

// Manager tracks in-flight sessions by ID. Every session is reaped after it
// reaches its terminal state, whichever path got it there, so the map never
// grows without bound.
type Manager struct {
	mu        sync.RWMutex
	log       *logger.Logger
	retention time.Duration
	sessions  map[uuid.UUID]*Session
}

func NewManager(log *logger.Logger) *Manager {
	return &Manager{
		log:       log.With("component", "QuizManager"),
		retention: sessionRetention,
		sessions:  make(map[uuid.UUID]*Session),
	}
}

func (m *Manager) StartSession(cfg SessionConfig) (*Session, error) {
	session, err := NewSession(m.log, cfg)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()
	session.Start()
	go m.reap(session)
	m.log.Debug("Quiz session started", "session_id", session.ID, "user_id", cfg.UserID, "game_id", cfg.GameID)
	return session, nil
}

// reap removes the session once it goes terminal (last answer, time limit,
// or idle expiry), after a grace window for fetching the final snapshot.
func (m *Manager) reap(session *Session) {
	<-session.Done()
	sid := session.ID
	time.AfterFunc(m.retention, func() { m.Remove(sid) })
}

func (m *Manager) Get(sessionID uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session not found")
	}
	return session, nil
}

func (m *Manager) Remove(sessionID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}
