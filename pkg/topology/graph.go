// Package topology supplies the static payment-channel graph the search
// runs over: node identities and neighbor sets, immutable once built.
package topology

import (
	"fmt"
	"math/rand"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/busybox42/Myrmex/pkg/types"
)

// Graph is an undirected graph over contiguous node IDs 0..Size()-1.
// It is read-only after construction and safe for concurrent use.
type Graph struct {
	neighbors map[types.NodeID]mapset.Set[types.NodeID]
}

// New builds a graph from explicit adjacency pairs. Edges are
// symmetrized, so listing each edge on one side is enough. IDs must be
// contiguous from 0; self-loops and references to unknown nodes are
// rejected.
func New(pairs map[types.NodeID][]types.NodeID) (*Graph, error) {
	n := len(pairs)
	for id := range pairs {
		if id < 0 || int(id) >= n {
			return nil, fmt.Errorf("node IDs must be contiguous from 0, found %d in a %d-node graph", id, n)
		}
	}

	g := &Graph{neighbors: make(map[types.NodeID]mapset.Set[types.NodeID], n)}
	for id := range pairs {
		g.neighbors[id] = mapset.NewSet[types.NodeID]()
	}

	for id, nbrs := range pairs {
		for _, nb := range nbrs {
			if nb == id {
				return nil, fmt.Errorf("node %d has a self-loop", id)
			}
			if _, ok := pairs[nb]; !ok {
				return nil, fmt.Errorf("node %d lists unknown neighbor %d", id, nb)
			}
			g.neighbors[id].Add(nb)
			g.neighbors[nb].Add(id)
		}
	}

	return g, nil
}

// Line returns the path graph 0-1-...-(n-1).
func Line(n int) *Graph {
	pairs := make(map[types.NodeID][]types.NodeID, n)
	for i := 0; i < n; i++ {
		pairs[types.NodeID(i)] = nil
	}
	for i := 0; i < n-1; i++ {
		pairs[types.NodeID(i)] = []types.NodeID{types.NodeID(i + 1)}
	}
	g, err := New(pairs)
	if err != nil {
		panic(err) // construction is deterministic
	}
	return g
}

// Ring returns the cycle graph over n nodes. n must be at least 3.
func Ring(n int) *Graph {
	pairs := make(map[types.NodeID][]types.NodeID, n)
	for i := 0; i < n; i++ {
		pairs[types.NodeID(i)] = []types.NodeID{types.NodeID((i + 1) % n)}
	}
	g, err := New(pairs)
	if err != nil {
		panic(err)
	}
	return g
}

// Random samples a G(n, p) graph, keeps its largest connected component
// and relabels the surviving nodes to contiguous IDs. The same seed
// always yields the same graph, which keeps tests deterministic. The
// result may have fewer than n nodes.
func Random(n int, edgeProb float64, seed int64) *Graph {
	rng := rand.New(rand.NewSource(seed))

	adj := make(map[types.NodeID]mapset.Set[types.NodeID], n)
	for i := 0; i < n; i++ {
		adj[types.NodeID(i)] = mapset.NewSet[types.NodeID]()
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < edgeProb {
				adj[types.NodeID(i)].Add(types.NodeID(j))
				adj[types.NodeID(j)].Add(types.NodeID(i))
			}
		}
	}

	component := largestComponent(adj, n)

	// Relabel component members to 0..len-1, preserving ID order.
	members := component.ToSlice()
	sort.Slice(members, func(a, b int) bool { return members[a] < members[b] })
	relabel := make(map[types.NodeID]types.NodeID, len(members))
	for i, old := range members {
		relabel[old] = types.NodeID(i)
	}

	pairs := make(map[types.NodeID][]types.NodeID, len(members))
	for _, old := range members {
		var nbrs []types.NodeID
		adj[old].Each(func(nb types.NodeID) bool {
			if component.Contains(nb) {
				nbrs = append(nbrs, relabel[nb])
			}
			return false
		})
		pairs[relabel[old]] = nbrs
	}

	g, err := New(pairs)
	if err != nil {
		panic(err)
	}
	return g
}

func largestComponent(adj map[types.NodeID]mapset.Set[types.NodeID], n int) mapset.Set[types.NodeID] {
	seen := mapset.NewSet[types.NodeID]()
	best := mapset.NewSet[types.NodeID]()

	for i := 0; i < n; i++ {
		start := types.NodeID(i)
		if seen.Contains(start) {
			continue
		}

		// BFS wave from start.
		component := mapset.NewSet[types.NodeID](start)
		queue := []types.NodeID{start}
		seen.Add(start)
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			adj[cur].Each(func(nb types.NodeID) bool {
				if !seen.Contains(nb) {
					seen.Add(nb)
					component.Add(nb)
					queue = append(queue, nb)
				}
				return false
			})
		}

		if component.Cardinality() > best.Cardinality() {
			best = component
		}
	}

	return best
}

// Size returns the number of nodes.
func (g *Graph) Size() int {
	return len(g.neighbors)
}

// Contains reports whether id is a node of the graph.
func (g *Graph) Contains(id types.NodeID) bool {
	_, ok := g.neighbors[id]
	return ok
}

// Degree returns the number of channels node id participates in.
func (g *Graph) Degree(id types.NodeID) int {
	nbrs, ok := g.neighbors[id]
	if !ok {
		return 0
	}
	return nbrs.Cardinality()
}

// Neighbors returns a sorted copy of id's neighbor set.
func (g *Graph) Neighbors(id types.NodeID) []types.NodeID {
	nbrs, ok := g.neighbors[id]
	if !ok {
		return nil
	}
	out := nbrs.ToSlice()
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// Connected reports whether every node is reachable from node 0.
func (g *Graph) Connected() bool {
	if g.Size() == 0 {
		return false
	}

	seen := mapset.NewSet[types.NodeID](types.NodeID(0))
	queue := []types.NodeID{0}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		g.neighbors[cur].Each(func(nb types.NodeID) bool {
			if !seen.Contains(nb) {
				seen.Add(nb)
				queue = append(queue, nb)
			}
			return false
		})
	}

	return seen.Cardinality() == g.Size()
}
