// Package session holds the state of one running application: the signed-in user, the festival being viewed and
// its most recent ranked results.
//
// A Session is created at startup and reset on logout. Subscribers are notified after every change.
package session

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/desertthunder/lineuplens/internal/models"
	"github.com/desertthunder/lineuplens/internal/shared"
)

// Event names delivered to subscribers.
type Event string

const (
	EventUser     Event = "user"
	EventFestival Event = "festival"
	EventResults  Event = "results"
	EventReset    Event = "reset"
)

// Listener receives change notifications synchronously on the goroutine that made the change, after the lock is
// released.
type Listener func(Event, Snapshot)

// Snapshot is an immutable copy of session state.
type Snapshot struct {
	ID              string
	CreatedAt       time.Time
	User            *models.UserProfile
	CurrentFestival *models.Festival
	Results         []models.MatchResult
}

// Session is safe for concurrent use.
type Session struct {
	mu        sync.RWMutex
	id        string
	createdAt time.Time
	user      *models.UserProfile
	festival  *models.Festival
	results   []models.MatchResult

	nextSub   int
	listeners map[int]Listener
}

func New() *Session {
	return &Session{
		id:        shared.GenerateID(),
		createdAt: models.Timestamp(time.Now()),
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers fn and returns a function that removes it.
func (s *Session) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

func (s *Session) User() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) SetUser(u *models.UserProfile) {
	s.update(EventUser, func() {
		if u == nil {
			s.user = nil
			return
		}
		copied := *u
		s.user = &copied
	})
}

func (s *Session) CurrentFestival() *models.Festival {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.festival == nil {
		return nil
	}
	f := *s.festival
	return &f
}

// SetResults records a completed generation for festival.
func (s *Session) SetResults(festival models.Festival, results []models.MatchResult) {
	s.update(EventResults, func() {
		s.festival = &festival
		s.results = slices.Clone(results)
	})
}

// SelectFestival changes the current festival and discards results that belonged to another one.
func (s *Session) SelectFestival(festival models.Festival) {
	s.update(EventFestival, func() {
		if s.festival == nil || s.festival.ID != festival.ID {
			s.results = nil
		}
		s.festival = &festival
	})
}

// Results returns a copy of the last ranked results.
func (s *Session) Results() []models.MatchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.results)
}

// Reset clears all state and assigns a new session ID. Subscriptions survive.
func (s *Session) Reset() {
	s.update(EventReset, func() {
		s.id = shared.GenerateID()
		s.createdAt = models.Timestamp(time.Now())
		s.user = nil
		s.festival = nil
		s.results = nil
	})
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{ID: s.id, CreatedAt: s.createdAt, Results: slices.Clone(s.results)}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	if s.festival != nil {
		f := *s.festival
		snap.CurrentFestival = &f
	}
	return snap
}

func (s *Session) update(ev Event, mutate func()) {
	s.mu.Lock()
	mutate()
	snap := s.snapshotLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, id := range slices.Sorted(maps.Keys(s.listeners)) {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ev, snap)
	}
}
