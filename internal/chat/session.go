// Package chat runs the guided shipment conversation behind POST /chat.
package chat

import (
	"sync"
	"time"

	"shipment-emissions-service/internal/domain"
)

type Stage string

const (
	StageWelcome     Stage = "welcome"
	StageOrigin      Stage = "origin"
	StageDestination Stage = "destination"
	StageWeight      Stage = "weight"
	StageMaterial    Stage = "material"
	StageResults     Stage = "results"
)

// Session is the state of one conversation. Values are copied in and out of
// the store, so handlers never share a Session.
type Session struct {
	ID          string
	Stage       Stage
	Origin      domain.Coordinates
	Destination domain.Coordinates
	WeightKg    float64
	Material    string
	LastResult  *domain.EmissionsResult

	touchedAt time.Time
}

func newSession(id string) Session {
	return Session{ID: id, Stage: StageWelcome}
}

// SessionStore keeps sessions in memory and forgets them after ttl without
// activity.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]Session
	now      func() time.Time

	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]Session),
		now:      time.Now,
		locks:    make(map[string]*sessionLock),
	}
}

// Lock serializes read-modify-write cycles on one session id. Other ids are
// not blocked. Call the returned func to release.
func (s *SessionStore) Lock(id string) (unlock func()) {
	s.locksMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.locksMu.Unlock()
	}
}

func (s *SessionStore) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	if s.expired(sess) {
		delete(s.sessions, id)
		return Session{}, false
	}
	return sess, true
}

func (s *SessionStore) Put(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.touchedAt = s.now()
	s.sessions[sess.ID] = sess
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Sweep drops expired sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(sess Session) bool {
	return s.ttl > 0 && s.now().Sub(sess.touchedAt) > s.ttl
}
