package service

import (
	"sync"
	"time"

	"github.com/noah-isme/course-planner/internal/models"
	"github.com/noah-isme/course-planner/internal/scheduler"
)

// planningSession owns one catalog snapshot, its ranking and cursor. mu serialises
// cursor reads and moves; everything else is fixed at creation.
type planningSession struct {
	mu        sync.Mutex
	id        string
	dayOff    models.DayOff
	catalog   models.Catalog
	ranking   *scheduler.Ranking
	stats     scheduler.SearchStats
	cached    bool
	createdAt time.Time
	touchedAt time.Time
}

type sessionStore struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	items map[string]*planningSession
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]*planningSession),
	}
}

func (s *sessionStore) Save(session *planningSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.touchedAt = s.now()
	s.items[session.id] = session
}

// Get returns a live session and extends its lifetime. Expired sessions are dropped.
func (s *sessionStore) Get(id string) (*planningSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.items[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(session.touchedAt) > s.ttl {
		delete(s.items, id)
		return nil, false
	}
	session.touchedAt = now
	return session, true
}

func (s *sessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	delete(s.items, id)
	return ok
}

func (s *sessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// ExpiresAt reports when a session will lapse if left untouched.
func (s *sessionStore) ExpiresAt(session *planningSession) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return session.touchedAt.Add(s.ttl)
}

// Sweep drops expired sessions and returns how many were removed.
func (s *sessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, session := range s.items {
		if now.Sub(session.touchedAt) > s.ttl {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}
