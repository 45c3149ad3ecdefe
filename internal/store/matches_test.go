package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/busybox42/Myrmex/pkg/types"
)

func testMatch(seed byte, at types.NodeID) *types.Match {
	m := &types.Match{LocatedAt: at, DiscoveredBy: types.RoleAlice}
	m.Seed[0] = seed
	return m
}

func TestPutFirstWins(t *testing.T) {
	s := NewMatches()

	created, err := s.Put(testMatch(1, 5))
	if err != nil || !created {
		t.Fatalf("first Put should create the record, got created=%v err=%v", created, err)
	}

	// Same seed, same midpoint: absorbed.
	created, err = s.Put(testMatch(1, 5))
	if err != nil {
		t.Fatalf("duplicate Put with same midpoint must not error: %v", err)
	}
	if created {
		t.Error("duplicate Put must not report creation")
	}

	got, ok := s.Get(testMatch(1, 5).Seed)
	if !ok || got.LocatedAt != 5 {
		t.Fatalf("expected recorded midpoint 5, got %+v ok=%v", got, ok)
	}
}

func TestPutMidpointConflict(t *testing.T) {
	s := NewMatches()

	if _, err := s.Put(testMatch(1, 5)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	_, err := s.Put(testMatch(1, 6))
	if !errors.Is(err, ErrMidpointConflict) {
		t.Fatalf("expected ErrMidpointConflict, got %v", err)
	}

	// Original record is untouched.
	got, _ := s.Get(testMatch(1, 5).Seed)
	if got.LocatedAt != 5 {
		t.Errorf("conflict must not overwrite the record, got midpoint %d", got.LocatedAt)
	}
}

func TestPutConcurrent(t *testing.T) {
	s := NewMatches()

	var wg sync.WaitGroup
	var mu sync.Mutex
	createdCount := 0

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := s.Put(testMatch(9, 3))
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if created {
				mu.Lock()
				createdCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if createdCount != 1 {
		t.Errorf("exactly one Put should create the record, got %d", createdCount)
	}
	if s.Len() != 1 {
		t.Errorf("expected one record, got %d", s.Len())
	}
}

func TestDelete(t *testing.T) {
	s := NewMatches()
	s.Put(testMatch(2, 7))

	s.Delete(testMatch(2, 7).Seed)
	if _, ok := s.Get(testMatch(2, 7).Seed); ok {
		t.Error("record should be gone after Delete")
	}
	if s.Len() != 0 {
		t.Errorf("expected empty registry, got %d", s.Len())
	}
}
