package game

import (
	"sort"
	"sync"
	"time"

	apperrors "github.com/louisbranch/minefield/internal/platform/errors"
	"github.com/louisbranch/minefield/internal/services/game/domain/board"
)

// session owns one engine. Every engine call happens under mu so concurrent
// requests for the same game see a consistent sequence of moves.
type session struct {
	mu        sync.Mutex
	id        string
	seq       uint64
	createdAt time.Time
	engine    *board.Engine
}

// with runs fn while holding the session lock.
func (s *session) with(fn func(*board.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.engine)
}

// snapshot copies the engine state under the session lock.
func (s *session) snapshot() board.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// Registry holds the games served by this process, keyed by id.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*session
	nextSeq  uint64
	clock    func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*session),
		clock:    time.Now,
	}
}

// add stores engine under id and returns its session.
func (r *Registry) add(id string, engine *board.Engine) *session {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSeq++
	s := &session{
		id:        id,
		seq:       r.nextSeq,
		createdAt: r.clock().UTC(),
		engine:    engine,
	}
	r.sessions[id] = s
	return s
}

// get returns the session for id.
func (r *Registry) get(id string) (*session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeNotFound, "game not found", map[string]string{
			"Resource": "game",
			"GameID":   id,
		})
	}
	return s, nil
}

// Len returns the number of games held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// page returns up to limit sessions created after afterSeq, in creation
// order, and whether more remain.
func (r *Registry) page(afterSeq uint64, limit int) ([]*session, bool) {
	r.mu.RLock()
	matched := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		if s.seq > afterSeq {
			matched = append(matched, s)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })
	if len(matched) > limit {
		return matched[:limit], true
	}
	return matched, false
}
