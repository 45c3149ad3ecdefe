// pkg/ant/ledger.go
package ant

import (
	"sync"

	"github.com/busybox42/Myrmex/pkg/types"
)

// pheromoneSlot is one side of a ledger row. arrivedFrom equal to the
// owning node's own ID marks the originating endpoint; the route walk
// terminates there.
type pheromoneSlot struct {
	visited     bool
	arrivedFrom types.NodeID
}

type ledgerRow struct {
	slots [2]pheromoneSlot // indexed by types.Role
}

// ledger is a node's private pheromone table, keyed by search seed.
// Only the owning node writes it; the route builder may read it while
// the search still runs, hence the lock.
type ledger struct {
	rows map[types.Seed]*ledgerRow
	mu   sync.RWMutex
}

func newLedger() *ledger {
	return &ledger{
		rows: make(map[types.Seed]*ledgerRow),
	}
}

// observe records one signal arrival. It reports whether this (seed,
// role) was already visited, and whether both roles are now visited.
// The opposite-role check happens under the same lock as the write, so
// the dual-visited condition can never be missed to interleaving — and
// it is evaluated even for duplicates, so a match is detected no matter
// which arrival completes the pair.
func (l *ledger) observe(seed types.Seed, role types.Role, from types.NodeID) (dup, both bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	row, ok := l.rows[seed]
	if !ok {
		row = &ledgerRow{}
		for i := range row.slots {
			row.slots[i].arrivedFrom = types.NilNode
		}
		l.rows[seed] = row
	}

	slot := &row.slots[role]
	opposite := row.slots[role.Opposite()]

	if slot.visited {
		return true, opposite.visited
	}

	slot.visited = true
	slot.arrivedFrom = from
	return false, opposite.visited
}

// pointer returns the backward pointer for (seed, role).
func (l *ledger) pointer(seed types.Seed, role types.Role) (types.NodeID, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	row, ok := l.rows[seed]
	if !ok || !row.slots[role].visited {
		return types.NilNode, false
	}
	return row.slots[role].arrivedFrom, true
}

// visited reports whether (seed, role) has been observed.
func (l *ledger) visited(seed types.Seed, role types.Role) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	row, ok := l.rows[seed]
	return ok && row.slots[role].visited
}

// forget drops the row for a concluded search.
func (l *ledger) forget(seed types.Seed) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.rows, seed)
}
