package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"trattoria/internal/agent"
	"trattoria/internal/menu"
	"trattoria/internal/providers"
)

// Session is one table's conversation. All engine calls for a session go
// through Do, which serializes them; concurrent requests for the same
// session queue rather than interleave.
type Session struct {
	ID        string
	CreatedAt time.Time
	Waiter    *agent.Waiter

	mu sync.Mutex
}

// Do runs fn holding the session lock
func (s *Session) Do(fn func(w *agent.Waiter) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.Waiter)
}

// Manager owns the live sessions and their tokens. Sessions are in-memory
// only; a restart seats everyone at a fresh table. Sessions past the TTL are
// evicted lazily, on lookup and whenever a new session is created.
type Manager struct {
	catalog  *menu.Catalog
	provider providers.Provider
	tuning   agent.Tuning
	secret   []byte
	ttl      time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager. The secret signs session tokens.
func NewManager(catalog *menu.Catalog, provider providers.Provider, tuning agent.Tuning, secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	return &Manager{
		catalog:  catalog,
		provider: provider,
		tuning:   tuning,
		secret:   []byte(secret),
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Create opens a new session and returns it with its signed token
func (m *Manager) Create() (*Session, string, error) {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Waiter:    agent.NewWaiter(m.catalog, m.provider, m.tuning),
	}

	token, err := m.issueToken(s.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}

	m.mu.Lock()
	m.sweepLocked()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, token, nil
}

// Get returns the session by id. An expired session is evicted and reported
// as absent.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Since(s.CreatedAt) > m.ttl {
		delete(m.sessions, id)
		return nil, false
	}
	return s, true
}

// sweepLocked drops every expired session. Callers hold m.mu.
func (m *Manager) sweepLocked() {
	now := time.Now()
	for id, s := range m.sessions {
		if now.Sub(s.CreatedAt) > m.ttl {
			delete(m.sessions, id)
		}
	}
}

// Resolve verifies a token and returns its session
func (m *Manager) Resolve(token string) (*Session, error) {
	id, err := m.verifyToken(token)
	if err != nil {
		return nil, err
	}
	s, ok := m.Get(id)
	if !ok {
		return nil, fmt.Errorf("session %s no longer exists", id)
	}
	return s, nil
}

// Close removes a session
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) issueToken(sessionID string) (string, error) {
	claims := jwt.StandardClaims{
		Subject:   sessionID,
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) verifyToken(tokenString string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("verify session token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid session token")
	}
	return claims.Subject, nil
}
