// Package guard tracks in-flight mutations so that a second mutating request
// for the same entity is dropped while the first one is outstanding.
package guard

import (
	"sync"

	"socialsync/internal/metrics"
	"socialsync/internal/model"
)

// Action kinds used by the stores. One guard exists per kind, so an entity id
// can be under at most one in-flight mutation of each kind.
const (
	KindFollowing  = "following"
	KindLiking     = "liking"
	KindCommenting = "commenting"
	KindReading    = "reading"
	KindModerating = "moderating"
	KindPosting    = "posting"
)

// Guard is a set of entity ids with an outstanding mutation of one kind.
type Guard struct {
	kind string

	mu       sync.Mutex
	inFlight map[int64]struct{}
}

func New(kind string) *Guard {
	return &Guard{
		kind:     kind,
		inFlight: make(map[int64]struct{}),
	}
}

// Kind returns the action kind this guard protects.
func (g *Guard) Kind() string {
	return g.kind
}

// TryBegin marks id as in flight. It returns false, and leaves the set
// untouched, if id is already marked; the caller must then do nothing.
func (g *Guard) TryBegin(id int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inFlight[id]; busy {
		metrics.GuardRejections.WithLabelValues(g.kind).Inc()
		return false
	}
	g.inFlight[id] = struct{}{}
	return true
}

// End clears the mark for id. Ending an id that is not in flight is a no-op.
func (g *Guard) End(id int64) {
	g.mu.Lock()
	delete(g.inFlight, id)
	g.mu.Unlock()
}

// InFlight reports whether id currently has an outstanding mutation.
func (g *Guard) InFlight(id int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inFlight[id]
	return busy
}

// Len returns the number of ids in flight.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.inFlight)
}

// Do runs fn while id is marked in flight and always clears the mark, even
// when fn panics. It returns model.ErrMutationInFlight without calling fn if
// id is already marked.
func (g *Guard) Do(id int64, fn func() error) error {
	if !g.TryBegin(id) {
		return model.ErrMutationInFlight
	}
	defer g.End(id)
	return fn()
}
