// pkg/types/types.go
package types

import (
	"encoding/hex"
	"fmt"
)

// NodeID identifies one node in the payment-channel graph. IDs are
// contiguous from 0 so the network can keep its nodes in an arena slice.
type NodeID int

// NilNode marks an unset node reference.
const NilNode NodeID = -1

// Role says which endpoint a pheromone signal originated from.
type Role uint8

const (
	RoleAlice Role = iota
	RoleBob
)

func (r Role) Valid() bool {
	return r == RoleAlice || r == RoleBob
}

// Opposite returns the other endpoint's role.
func (r Role) Opposite() Role {
	if r == RoleAlice {
		return RoleBob
	}
	return RoleAlice
}

func (r Role) String() string {
	switch r {
	case RoleAlice:
		return "alice"
	case RoleBob:
		return "bob"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// SeedSize is the byte length of the shared search secret (128 bits).
const SeedSize = 16

// Seed is the shared secret coupling the two endpoints' searches.
// Intermediate nodes see it only as an opaque tag.
type Seed [SeedSize]byte

func (s Seed) Hex() string {
	return hex.EncodeToString(s[:])
}

// Amount is a payment value in satoshis. Routing treats it as opaque;
// only fee bookkeeping ever looks at it.
type Amount int64

// Match records the first node whose ledger held both roles for one seed.
// It is created once per seed and never mutated.
type Match struct {
	ID           [32]byte // derived from the seed
	Seed         Seed
	LocatedAt    NodeID
	DiscoveredBy Role // which side's signal completed the pair
}
