package crypto

import (
	"testing"

	"github.com/busybox42/Myrmex/pkg/types"
)

func TestNewSeed(t *testing.T) {
	a, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed failed: %v", err)
	}
	b, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed failed: %v", err)
	}
	if a == b {
		t.Error("two seeds should not collide")
	}
	if a == (types.Seed{}) {
		t.Error("seed should not be all zeros")
	}
}

func TestMatchIDDeterministic(t *testing.T) {
	seed, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed failed: %v", err)
	}
	if MatchID(seed) != MatchID(seed) {
		t.Error("MatchID must be deterministic for one seed")
	}

	other, _ := NewSeed()
	if MatchID(seed) == MatchID(other) {
		t.Error("distinct seeds should produce distinct match IDs")
	}
}
