// Package session keeps live contact forms in memory between requests.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/NomadCrew/portfolio-backend/logger"
	"github.com/NomadCrew/portfolio-backend/models/contact"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("contact form session not found")
	ErrFull     = errors.New("contact form session limit reached")
)

// FormFactory creates the form held by a new session.
type FormFactory func() *contact.Form

type entry struct {
	form     *contact.Form
	lastSeen time.Time
}

// Config contains the eviction settings of a Store.
type Config struct {
	TTL             time.Duration
	JanitorInterval time.Duration
	// MaxSessions caps live sessions; Create fails with ErrFull beyond it.
	MaxSessions int
}

// DefaultConfig returns a 30 minute idle TTL swept every minute, capped at
// 10000 sessions.
func DefaultConfig() Config {
	return Config{
		TTL:             30 * time.Minute,
		JanitorInterval: time.Minute,
		MaxSessions:     10000,
	}
}

// Store maps session IDs to forms. Sessions expire after TTL without access;
// a session whose submission is still in flight is never evicted.
type Store struct {
	log      *zap.SugaredLogger
	factory  FormFactory
	ttl      time.Duration
	max      int
	now      func() time.Time
	sessions map[string]*entry
	mu       sync.Mutex

	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}
}

// NewStore creates a store and starts its janitor. Callers must Close it.
func NewStore(factory FormFactory, cfg ...Config) *Store {
	c := DefaultConfig()
	if len(cfg) > 0 {
		if cfg[0].TTL > 0 {
			c.TTL = cfg[0].TTL
		}
		if cfg[0].JanitorInterval > 0 {
			c.JanitorInterval = cfg[0].JanitorInterval
		}
		if cfg[0].MaxSessions > 0 {
			c.MaxSessions = cfg[0].MaxSessions
		}
	}

	s := &Store{
		log:        logger.GetLogger(),
		factory:    factory,
		ttl:        c.TTL,
		max:        c.MaxSessions,
		now:        time.Now,
		sessions:   make(map[string]*entry),
		shutdownCh: make(chan struct{}),
		done:       make(chan struct{}),
	}
	go s.janitor(c.JanitorInterval)
	return s
}

// Create starts a new session. When the store is full, expired sessions are
// evicted first; ErrFull is returned if none could be.
func (s *Store) Create() (string, *contact.Form, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if len(s.sessions) >= s.max && s.sweepLocked(now) == 0 {
		return "", nil, time.Time{}, ErrFull
	}

	id := uuid.NewString()
	form := s.factory()
	s.sessions[id] = &entry{form: form, lastSeen: now}
	return id, form, now.Add(s.ttl), nil
}

// Get returns the form of a live session and extends its lifetime.
func (s *Store) Get(id string) (*contact.Form, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	now := s.now()
	if !ok || s.expired(e, now) {
		return nil, time.Time{}, ErrNotFound
	}
	e.lastSeen = now
	return e.form, now.Add(s.ttl), nil
}

// Delete removes a session. Unknown IDs are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

func (s *Store) sweepLocked(now time.Time) int {
	removed := 0
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return now.Sub(e.lastSeen) > s.ttl && !e.form.IsSubmitting()
}

func (s *Store) janitor(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.Debugw("Evicted expired contact form sessions", "count", n)
			}
		case <-s.shutdownCh:
			return
		}
	}
}

// Close stops the janitor and waits for it to exit.
func (s *Store) Close() {
	s.shutdownOnce.Do(func() {
		close(s.shutdownCh)
	})
	<-s.done
}
