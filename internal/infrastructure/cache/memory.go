package cache

import (
	"context"
	"sync"
	"time"

	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/domain"
)

const defaultCleanupInterval = 10 * time.Minute

// sessionItem represents a single session in the store with expiration
type sessionItem struct {
	Session    domain.MatchSession
	Expiration time.Time
}

// MemorySessionStore is a thread-safe in-memory session store with TTL support
type MemorySessionStore struct {
	data  map[string]sessionItem
	mutex sync.RWMutex

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

var _ domain.SessionStore = (*MemorySessionStore)(nil)

// NewMemorySessionStore creates a new in-memory session store. A background
// goroutine removes expired sessions every cleanupInterval until Close is
// called; a non-positive interval uses 10 minutes.
func NewMemorySessionStore(cleanupInterval time.Duration) *MemorySessionStore {
	if cleanupInterval <= 0 {
		cleanupInterval = defaultCleanupInterval
	}

	store := &MemorySessionStore{
		data: make(map[string]sessionItem),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go store.cleanupExpired(cleanupInterval)

	return store
}

// Get retrieves a copy of a session from the store
func (s *MemorySessionStore) Get(ctx context.Context, id string) (*domain.MatchSession, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	item, exists := s.data[id]
	if !exists || time.Now().After(item.Expiration) {
		return nil, domain.ErrSessionNotFound
	}

	session := item.Session
	session.Results = append([]domain.MatchResult(nil), item.Session.Results...)
	return &session, nil
}

// Set stores a copy of the session with TTL
func (s *MemorySessionStore) Set(ctx context.Context, session *domain.MatchSession, ttl time.Duration) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidRequest
	}

	stored := *session
	stored.Results = append([]domain.MatchResult(nil), session.Results...)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[session.ID] = sessionItem{
		Session:    stored,
		Expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a session from the store
func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.data[id]; !exists {
		return domain.ErrSessionNotFound
	}
	delete(s.data, id)
	return nil
}

// Clear removes all sessions from the store
func (s *MemorySessionStore) Clear(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data = make(map[string]sessionItem)
	return nil
}

// Size returns the current number of sessions in the store, expired ones included
func (s *MemorySessionStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.data)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (s *MemorySessionStore) Close() error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
	return nil
}

// cleanupExpired removes expired sessions periodically
func (s *MemorySessionStore) cleanupExpired(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.removeExpired(time.Now())
		}
	}
}

func (s *MemorySessionStore) removeExpired(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for id, item := range s.data {
		if now.After(item.Expiration) {
			delete(s.data, id)
		}
	}
}
