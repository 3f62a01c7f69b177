package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
)

type session struct {
	id        uuid.UUID
	voter     domain.Voter
	ballot    *Ballot
	expiresAt time.Time

	mu         sync.Mutex
	completion *domain.Completion
}

func (s *session) phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completion.Completed() {
		return domain.PhaseCompleted
	}
	return domain.PhaseAwaitingCategories
}

func (s *session) setCompletion(c *domain.Completion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completion = c
}

func (s *session) getCompletion() *domain.Completion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completion
}

// sessionRegistry holds live voter sessions in process memory.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[uuid.UUID]*session)}
}

func (r *sessionRegistry) put(s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.id] = s
}

func (r *sessionRegistry) get(id uuid.UUID, now time.Time) (*session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok || now.After(s.expiresAt) {
		return nil, false
	}
	return s, true
}

func (r *sessionRegistry) remove(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

func (r *sessionRegistry) sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		if now.After(s.expiresAt) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

func (r *sessionRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// runJanitor sweeps expired sessions until ctx is done.
func (r *sessionRegistry) runJanitor(ctx context.Context, interval time.Duration, now func() time.Time, onSweep func(int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.sweep(now()); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
