// pkg/ant/route.go
package ant

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/busybox42/Myrmex/pkg/types"
)

// BuildRoute reconstructs the full endpoint-to-endpoint path for a
// matched seed, ordered from the given role's endpoint through the
// match midpoint to the counterpart. It fails with ErrNotMatched before
// a match exists and with ErrIntegrity if the backward pointers do not
// terminate.
func (nw *Network) BuildRoute(seed types.Seed, role types.Role) ([]types.NodeID, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("build route: invalid role %d", role)
	}

	m, ok := nw.matches.Get(seed)
	if !ok {
		return nil, fmt.Errorf("%w: seed %s", ErrNotMatched, seed.Hex())
	}

	// Walk each side from the midpoint back to its originating endpoint.
	toRequester, err := nw.walkBack(seed, role, m.LocatedAt)
	if err != nil {
		return nil, err
	}
	toCounterpart, err := nw.walkBack(seed, role.Opposite(), m.LocatedAt)
	if err != nil {
		return nil, err
	}

	// toRequester runs midpoint -> requester; reverse it, then append
	// the other side minus the shared midpoint.
	route := make([]types.NodeID, 0, len(toRequester)+len(toCounterpart)-1)
	for i := len(toRequester) - 1; i >= 0; i-- {
		route = append(route, toRequester[i])
	}
	route = append(route, toCounterpart[1:]...)

	return route, nil
}

// walkBack follows arrived-from pointers for one role starting at a
// node, until it reaches the slot that points at its own node (the
// originating endpoint). The walk is iterative with an explicit visited
// set: the forward-once rule should make cycles impossible, but the
// invariant is not enforced anywhere else, so it is checked here.
func (nw *Network) walkBack(seed types.Seed, role types.Role, start types.NodeID) ([]types.NodeID, error) {
	seen := mapset.NewThreadUnsafeSet[types.NodeID]()
	path := make([]types.NodeID, 0, 8)

	cur := start
	for {
		if seen.Contains(cur) {
			return nil, fmt.Errorf("%w: backward pointers for seed %s (%s side) revisit node %d",
				ErrIntegrity, seed.Hex(), role, cur)
		}
		seen.Add(cur)
		path = append(path, cur)

		next, ok := nw.nodes[cur].ledger.pointer(seed, role)
		if !ok || next == types.NilNode {
			return nil, fmt.Errorf("%w: node %d has no %s pointer for seed %s",
				ErrIntegrity, cur, role, seed.Hex())
		}
		if next == cur {
			// Pointer at self marks the originating endpoint.
			return path, nil
		}
		cur = next
	}
}
