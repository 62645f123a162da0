package db

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// writeTimeout bounds each write-through to the database.
const writeTimeout = 5 * time.Second

// SQLStore keeps the current session in memory and writes every change through
// to the credentials table. Reads never touch the database after construction,
// and persistence failures are logged rather than returned.
type SQLStore struct {
	mu      sync.Mutex
	repo    CredentialRepository
	current *Session
}

// NewSQLStore creates a store backed by repo, seeded with whatever session is already persisted.
func NewSQLStore(ctx context.Context, repo CredentialRepository) *SQLStore {
	s := &SQLStore{repo: repo}
	existing, err := repo.Load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load stored credentials, starting signed out")
		return s
	}
	s.current = existing
	return s
}

// Save replaces the stored session.
func (s *SQLStore) Save(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := sess
	s.current = &cp

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := s.repo.Replace(ctx, sess); err != nil {
		log.Error().Err(err).Msg("Failed to persist session")
		return
	}
	log.Debug().Str("user_id", sess.UserID).Msg("Session persisted")
}

// Read returns the stored session, if any.
func (s *SQLStore) Read() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.AccessToken == "" {
		return Session{}, false
	}
	return *s.current, true
}

// Clear removes every credential.
func (s *SQLStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := s.repo.Clear(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to clear persisted credentials")
		return
	}
	log.Debug().Msg("Credentials cleared")
}

// UpdateAccessToken swaps the access token of the stored session.
// Without a stored session it does nothing.
func (s *SQLStore) UpdateAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		log.Warn().Msg("No session stored, ignoring access token update")
		return
	}
	s.current.AccessToken = token

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := s.repo.SetAccessToken(ctx, token); err != nil {
		log.Error().Err(err).Msg("Failed to persist access token")
	}
}
