package auth

import (
	"sync"

	"github.com/habedi/mscli/db"
)

// MemoryStore is a process-local CredentialStore.
type MemoryStore struct {
	mu      sync.RWMutex
	session *db.Session
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Save(s db.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := s
	m.session = &cp
}

func (m *MemoryStore) Read() (db.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil || m.session.AccessToken == "" {
		return db.Session{}, false
	}
	return *m.session, true
}

func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
}

func (m *MemoryStore) UpdateAccessToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return
	}
	m.session.AccessToken = token
}
