package session

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/warboard/game/engine"
	"github.com/wricardo/warboard/game/notify"
	"github.com/wricardo/warboard/game/service"
)

var (
	ErrSessionNotFound = service.ErrGameDoesNotExist
	ErrInvalidAccess   = service.ErrInvalidAccess
)

var _ service.SessionManager = (*Manager)(nil)

// Manager is the session store. A single lock guards every session; each
// operation holds it for one logical step and publishes change events only
// after releasing it.
type Manager struct {
	sessions map[string]*service.Session
	notifier *notify.Broadcaster
	mu       sync.RWMutex
}

// NewManager creates a new session manager publishing to notifier. A nil
// notifier gets a private broadcaster with the default capacity.
func NewManager(notifier *notify.Broadcaster) *Manager {
	if notifier == nil {
		notifier = notify.NewBroadcaster(notify.DefaultCapacity)
	}
	return &Manager{
		sessions: make(map[string]*service.Session),
		notifier: notifier,
	}
}

// Notifier returns the broadcaster change events are published to
func (m *Manager) Notifier() *notify.Broadcaster {
	return m.notifier
}

// Create creates a new session with an empty board
func (m *Manager) Create(primary engine.Side, vsBot bool) (*service.SessionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := m.create(primary, vsBot)
	return session.Info(), nil
}

func (m *Manager) create(primary engine.Side, vsBot bool) *service.Session {
	id := uuid.NewString()
	session := service.NewSession(id, primary, vsBot)
	m.sessions[id] = session
	return session
}

// Exists reports whether a session is live
func (m *Manager) Exists(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.sessions[normalizeID(id)]
	return exists
}

// Info returns a summary of one session
func (m *Manager) Info(id string) (*service.SessionInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	session.Touch()
	return session.Info(), nil
}

// List returns summaries of all active sessions
func (m *Manager) List() []*service.SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.SessionInfo, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session.Info())
	}

	return result
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Delete removes a session and detaches its clients' cursors
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	session, err := m.lookup(id)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	delete(m.sessions, session.ID)
	m.mu.Unlock()

	m.release(session)
	m.notifier.Publish(session.ID)
	return nil
}

// Join issues a token for the next free seat: the primary side first, then
// the secondary side unless the session is a bot game, else a spectator.
func (m *Manager) Join(id string) (*service.ClientToken, error) {
	m.mu.Lock()
	session, err := m.lookup(id)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	token := m.seat(session)
	m.mu.Unlock()

	m.notifier.Publish(session.ID)
	return token, nil
}

// JoinRandom seats the caller on side in the oldest session with that seat
// open, or creates a new session with side as primary.
func (m *Manager) JoinRandom(side engine.Side) (*service.JoinResult, error) {
	m.mu.Lock()

	candidates := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		if session.VsBot {
			continue
		}
		if seat := session.NextSeat(); seat != nil && *seat == side {
			candidates = append(candidates, session)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})

	created := false
	var session *service.Session
	if len(candidates) > 0 {
		session = candidates[0]
	} else {
		session = m.create(side, false)
		created = true
	}
	token := m.seat(session)
	m.mu.Unlock()

	m.notifier.Publish(session.ID)
	return &service.JoinResult{
		SessionID: session.ID,
		Token:     token,
		Created:   created,
	}, nil
}

// Snapshot returns a deep copy of the session state and the side the token
// plays, nil for spectators.
func (m *Manager) Snapshot(id string, token uuid.UUID) (*engine.GameState, *engine.Side, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, client, err := m.client(id, token)
	if err != nil {
		return nil, nil, err
	}
	session.Touch()

	return session.Game.GetState(), copySide(client.Side), nil
}

// ApplyMove moves a piece owned by the token's side. The turn passes to the
// other side within the same critical section.
func (m *Manager) ApplyMove(id string, token uuid.UUID, pieceID uuid.UUID, x, y int) (engine.MoveOutcome, error) {
	m.mu.Lock()
	session, client, err := m.client(id, token)
	if err != nil {
		m.mu.Unlock()
		return engine.MoveOutcome{}, err
	}
	if client.Side == nil {
		m.mu.Unlock()
		return engine.MoveOutcome{}, ErrInvalidAccess
	}

	outcome, err := session.Game.Move(*client.Side, pieceID, x, y)
	if err != nil {
		m.mu.Unlock()
		return engine.MoveOutcome{}, err
	}
	session.Touch()
	m.mu.Unlock()

	m.notifier.Publish(session.ID)
	return outcome, nil
}

// SubmitSetup places the token's side's roster and marks it ready
func (m *Manager) SubmitSetup(id string, token uuid.UUID, roster []engine.Rank) error {
	m.mu.Lock()
	session, client, err := m.client(id, token)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if client.Side == nil {
		m.mu.Unlock()
		return ErrInvalidAccess
	}

	if err := session.Game.Setup(*client.Side, roster); err != nil {
		m.mu.Unlock()
		return err
	}
	session.Touch()
	m.mu.Unlock()

	m.notifier.Publish(session.ID)
	return nil
}

// ValidMoves lists legal destinations for one of the token's pieces
func (m *Manager) ValidMoves(id string, token uuid.UUID, pieceID uuid.UUID) ([]engine.Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, client, err := m.client(id, token)
	if err != nil {
		return nil, err
	}
	if client.Side == nil {
		return nil, ErrInvalidAccess
	}
	session.Touch()

	return session.Game.ValidMoves(*client.Side, pieceID)
}

// WaitForChange drains the token's cursor and reports whether any event
// concerned this session. It never blocks.
func (m *Manager) WaitForChange(id string, token uuid.UUID) (bool, error) {
	m.mu.RLock()
	session, client, err := m.client(id, token)
	if err != nil {
		m.mu.RUnlock()
		return false, err
	}
	session.Touch()
	cursor, sessionID := client.Cursor, session.ID
	m.mu.RUnlock()

	return cursor.Changed(sessionID), nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	var expired []*service.Session
	for id, session := range m.sessions {
		if session.LastAccessedAt().Before(cutoff) {
			delete(m.sessions, id)
			expired = append(expired, session)
		}
	}
	m.mu.Unlock()

	for _, session := range expired {
		m.release(session)
	}

	return len(expired)
}

// seat assigns the next seat in session to a new client. Caller holds the
// write lock.
func (m *Manager) seat(session *service.Session) *service.ClientToken {
	side := session.NextSeat()
	if side != nil {
		if *side == session.Game.PrimarySide() {
			session.HasPrimary = true
		} else {
			session.HasSecondary = true
		}
	}

	client := &service.Client{
		Token:    uuid.New(),
		Side:     side,
		Cursor:   m.notifier.Subscribe(),
		JoinedAt: time.Now(),
	}
	session.Clients[client.Token] = client
	session.Touch()

	return &service.ClientToken{
		AccessToken: client.Token,
		Side:        copySide(side),
	}
}

func (m *Manager) release(session *service.Session) {
	for _, client := range session.Clients {
		m.notifier.Unsubscribe(client.Cursor)
	}
}

func (m *Manager) lookup(id string) (*service.Session, error) {
	session, exists := m.sessions[normalizeID(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (m *Manager) client(id string, token uuid.UUID) (*service.Session, *service.Client, error) {
	session, err := m.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	client, ok := session.Clients[token]
	if !ok {
		return nil, nil, ErrInvalidAccess
	}
	return session, client, nil
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func copySide(side *engine.Side) *engine.Side {
	if side == nil {
		return nil
	}
	s := *side
	return &s
}
