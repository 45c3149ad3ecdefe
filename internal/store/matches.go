// internal/store/matches.go
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/busybox42/Myrmex/pkg/types"
)

// ErrMidpointConflict is returned when a second match for one seed names
// a different midpoint than the recorded one.
var ErrMidpointConflict = errors.New("conflicting match midpoint")

// Matches is the registry of completed searches, keyed by seed. The
// first recorded match for a seed wins; later identical publishes are
// no-ops.
type Matches struct {
	bySeed map[types.Seed]*types.Match
	mu     sync.RWMutex
}

func NewMatches() *Matches {
	return &Matches{
		bySeed: make(map[types.Seed]*types.Match),
	}
}

// Put records a match. It reports whether this call created the record;
// a repeat publish from the winning node is silently absorbed, and a
// publish naming a different midpoint fails with ErrMidpointConflict.
func (s *Matches) Put(m *types.Match) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.bySeed[m.Seed]; ok {
		if existing.LocatedAt != m.LocatedAt {
			return false, fmt.Errorf("%w: seed %s already matched at node %d, refusing node %d",
				ErrMidpointConflict, m.Seed.Hex(), existing.LocatedAt, m.LocatedAt)
		}
		return false, nil
	}

	s.bySeed[m.Seed] = m
	return true, nil
}

// Get returns the match for a seed, if one exists.
func (s *Matches) Get(seed types.Seed) (*types.Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.bySeed[seed]
	return m, ok
}

// Delete removes the record for a seed.
func (s *Matches) Delete(seed types.Seed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bySeed, seed)
}

// Len returns the number of recorded matches.
func (s *Matches) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bySeed)
}
