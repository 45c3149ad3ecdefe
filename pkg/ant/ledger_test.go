package ant

import (
	"testing"

	"github.com/busybox42/Myrmex/pkg/types"
)

func testSeed(b byte) types.Seed {
	var s types.Seed
	s[0] = b
	return s
}

func TestLedgerObserveOnce(t *testing.T) {
	l := newLedger()
	seed := testSeed(1)

	dup, both := l.observe(seed, types.RoleAlice, 4)
	if dup {
		t.Error("first observation must not be a duplicate")
	}
	if both {
		t.Error("one role visited must not report both")
	}

	if !l.visited(seed, types.RoleAlice) {
		t.Error("slot should be visited after observe")
	}
	if l.visited(seed, types.RoleBob) {
		t.Error("opposite slot must stay unvisited")
	}

	from, ok := l.pointer(seed, types.RoleAlice)
	if !ok || from != 4 {
		t.Errorf("expected pointer 4, got %d ok=%v", from, ok)
	}
}

// The (seed, role) slot transitions unvisited -> visited at most once;
// a duplicate arrival never overwrites the original pointer.
func TestLedgerDuplicateKeepsPointer(t *testing.T) {
	l := newLedger()
	seed := testSeed(2)

	l.observe(seed, types.RoleAlice, 4)
	dup, _ := l.observe(seed, types.RoleAlice, 9)
	if !dup {
		t.Error("second observation must report duplicate")
	}

	from, _ := l.pointer(seed, types.RoleAlice)
	if from != 4 {
		t.Errorf("duplicate must not overwrite pointer, got %d", from)
	}
}

func TestLedgerDetectsBothRoles(t *testing.T) {
	l := newLedger()
	seed := testSeed(3)

	l.observe(seed, types.RoleAlice, 1)
	_, both := l.observe(seed, types.RoleBob, 2)
	if !both {
		t.Error("second role must complete the pair")
	}

	// A duplicate arrival still reports the pair.
	dup, both := l.observe(seed, types.RoleBob, 7)
	if !dup || !both {
		t.Errorf("duplicate after pair: dup=%v both=%v, want true/true", dup, both)
	}
}

func TestLedgerSeedsIndependent(t *testing.T) {
	l := newLedger()

	l.observe(testSeed(4), types.RoleAlice, 1)
	l.observe(testSeed(5), types.RoleBob, 2)

	if l.visited(testSeed(4), types.RoleBob) {
		t.Error("seeds must not share slots")
	}
	if _, both := l.observe(testSeed(5), types.RoleBob, 2); both {
		t.Error("bob on seed 5 must not pair with alice on seed 4")
	}
}

func TestLedgerForget(t *testing.T) {
	l := newLedger()
	seed := testSeed(6)

	l.observe(seed, types.RoleAlice, 1)
	l.forget(seed)

	if l.visited(seed, types.RoleAlice) {
		t.Error("forget must clear the row")
	}
	if _, ok := l.pointer(seed, types.RoleAlice); ok {
		t.Error("pointer must be gone after forget")
	}
}
