package session

import (
	"sync"
	"time"

	"github.com/drayac/Martin/internal/common"
	"github.com/drayac/Martin/internal/local"
)

// Manager keeps live sessions in memory. Expiry is lazy: stale entries are
// dropped when looked up or when a new session is created, never by a
// background goroutine.
type Manager struct {
	mu   sync.RWMutex
	ttl  time.Duration
	byID map[string]*Session
}

func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{ttl: ttl, byID: make(map[string]*Session)}
}

func (m *Manager) Create(language local.Language) (*Session, error) {
	id, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	s := &Session{
		ID:       id,
		Language: language,
		LastSeen: time.Now(),
	}
	m.mu.Lock()
	m.sweepLocked()
	m.byID[id] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns a live session and refreshes its last-seen time.
func (m *Manager) Get(id string) (*Session, bool) {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, false
	}
	if now.Sub(s.LastSeen) > m.ttl {
		delete(m.byID, id)
		return nil, false
	}
	s.LastSeen = now
	return s, true
}

func (m *Manager) Drop(id string) {
	m.mu.Lock()
	delete(m.byID, id)
	m.mu.Unlock()
}

func (m *Manager) sweepLocked() {
	now := time.Now()
	for id, s := range m.byID {
		if now.Sub(s.LastSeen) > m.ttl {
			delete(m.byID, id)
		}
	}
}
