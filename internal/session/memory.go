package session

import (
	"context"
	"sync"
	"time"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps sessions in process memory. Sessions idle for longer
// than the TTL are treated as absent and removed by Sweep.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[models.ActorID]*Session
}

// NewMemoryStore creates a store that expires sessions after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[models.ActorID]*Session),
	}
}

func (m *MemoryStore) expired(s *Session, now time.Time) bool {
	return m.ttl > 0 && now.Sub(s.Updated) > m.ttl
}

// Get returns a copy of the actor's session.
func (m *MemoryStore) Get(_ context.Context, actor models.ActorID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[actor]
	if !ok {
		return nil, ErrNotFound
	}
	if m.expired(s, m.now()) {
		delete(m.sessions, actor)
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

// Put stores a copy of s.
func (m *MemoryStore) Put(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := s.Clone()
	c.Updated = m.now()
	m.sessions[s.Actor] = c
	return nil
}

// Delete removes the actor's session.
func (m *MemoryStore) Delete(_ context.Context, actor models.ActorID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, actor)
	return nil
}

// Len returns the number of resident sessions, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops expired sessions and returns how many it removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for actor, s := range m.sessions {
		if m.expired(s, now) {
			delete(m.sessions, actor)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (m *MemoryStore) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
