// pkg/crypto/seed.go
package crypto

import (
	"crypto/rand"
	"fmt"

	"github.com/busybox42/Myrmex/pkg/types"
	"lukechampine.com/blake3"
)

// NewSeed draws a fresh 128-bit shared secret for one search. Only the
// two endpoints ever learn it as anything other than an opaque tag.
func NewSeed() (types.Seed, error) {
	var seed types.Seed
	if _, err := rand.Read(seed[:]); err != nil {
		return types.Seed{}, fmt.Errorf("failed to generate seed: %w", err)
	}
	return seed, nil
}

// MatchID derives the match identifier from the search seed.
func MatchID(seed types.Seed) [32]byte {
	return blake3.Sum256(seed[:])
}
