package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore is an in-memory session registry with sliding TTL
// expiration. Sessions hold navigation state only, so losing them on
// restart costs nothing but a re-expand.
type SessionStore struct {
	mu    sync.RWMutex
	items map[string]*storeEntry
	ttl   time.Duration
	stop  chan struct{}

	onCount func(n int)
}

type storeEntry struct {
	session   *Session
	expiresAt time.Time
}

// NewSessionStore creates a store and starts its cleanup janitor
func NewSessionStore(ttl time.Duration) *SessionStore {
	store := &SessionStore{
		items: make(map[string]*storeEntry),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}

	go store.cleanupExpired()

	return store
}

// OnCountChange registers a callback invoked with the live session count
// whenever it changes; used to feed the active-session gauge.
func (s *SessionStore) OnCountChange(fn func(n int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCount = fn
}

// NewID issues a fresh session identifier
func (s *SessionStore) NewID() string {
	return uuid.New().String()
}

// GetOrCreate returns the session for the given ID, creating it when absent
// or expired. Touching a session slides its expiry forward.
func (s *SessionStore) GetOrCreate(id string) *Session {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.items[id]; ok && now.Before(entry.expiresAt) {
		entry.expiresAt = now.Add(s.ttl)
		return entry.session
	}

	session := NewSession(id)
	s.items[id] = &storeEntry{session: session, expiresAt: now.Add(s.ttl)}
	s.notifyCount()
	return session
}

// Delete removes a session
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	s.notifyCount()
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Close stops the cleanup janitor
func (s *SessionStore) Close() {
	close(s.stop)
}

// cleanupExpired periodically removes expired sessions
func (s *SessionStore) cleanupExpired() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for id, entry := range s.items {
				if now.After(entry.expiresAt) {
					delete(s.items, id)
				}
			}
			s.notifyCount()
			s.mu.Unlock()
		}
	}
}

// notifyCount must be called with the lock held
func (s *SessionStore) notifyCount() {
	if s.onCount != nil {
		s.onCount(len(s.items))
	}
}
