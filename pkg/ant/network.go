// pkg/ant/network.go
package ant

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/busybox42/Myrmex/internal/store"
	"github.com/busybox42/Myrmex/pkg/config"
	"github.com/busybox42/Myrmex/pkg/crypto"
	"github.com/busybox42/Myrmex/pkg/protocol"
	"github.com/busybox42/Myrmex/pkg/topology"
	"github.com/busybox42/Myrmex/pkg/types"
)

// Network is the arena of node state for one simulated payment-channel
// network. The graph is read-only after construction; all mutable state
// lives inside the individual nodes and the match registry.
type Network struct {
	graph   *topology.Graph
	cfg     *config.Config
	log     *logrus.Logger
	nodes   []*Node
	matches *store.Matches

	mu      sync.Mutex
	group   *errgroup.Group
	ctx     context.Context
	cancel  context.CancelFunc
	running bool

	rng   *rand.Rand
	rngMu sync.Mutex
}

// SearchParams describes one route-discovery request.
type SearchParams struct {
	Alice  types.NodeID
	Bob    types.NodeID
	Amount types.Amount
	// HopBudget fixes the initial hop counter. Zero means draw it from
	// the configured [MinHops, MaxHops] range, which keeps the counter
	// from revealing how close its origin is.
	HopBudget int
}

// NewNetwork builds one node per graph vertex. A nil cfg uses the
// defaults; a nil logger logs warnings and worse to stderr.
func NewNetwork(graph *topology.Graph, cfg *config.Config, logger *logrus.Logger) *Network {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}

	nw := &Network{
		graph:   graph,
		cfg:     cfg,
		log:     logger,
		matches: store.NewMatches(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	nw.nodes = make([]*Node, graph.Size())
	for i := 0; i < graph.Size(); i++ {
		id := types.NodeID(i)
		nw.nodes[i] = newNode(id, graph.Neighbors(id),
			cfg.Node.FeeRate, cfg.Node.MaxFee, cfg.Search.SignalBuffer, nw)
	}

	return nw
}

// Size returns the number of nodes in the network.
func (nw *Network) Size() int {
	return len(nw.nodes)
}

// Start launches every node's search process.
func (nw *Network) Start() error {
	nw.mu.Lock()
	defer nw.mu.Unlock()

	if nw.running {
		return errors.New("network already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)
	nw.group = group
	nw.ctx = gctx
	nw.cancel = cancel
	nw.running = true

	for _, node := range nw.nodes {
		node.start(group, gctx)
	}

	nw.log.Infof("started %d nodes", len(nw.nodes))
	return nil
}

// StartNode relaunches a single stopped node on a running network.
func (nw *Network) StartNode(id types.NodeID) error {
	nw.mu.Lock()
	defer nw.mu.Unlock()

	if !nw.running {
		return errors.New("network not running")
	}
	if !nw.graph.Contains(id) {
		return fmt.Errorf("%w: no node %d", ErrInvalidEndpoint, id)
	}
	nw.nodes[id].start(nw.group, nw.ctx)
	return nil
}

// StopNode halts a single node. Signals already queued on its inbox are
// abandoned; the rest of the network keeps flooding around it.
func (nw *Network) StopNode(id types.NodeID) error {
	nw.mu.Lock()
	defer nw.mu.Unlock()

	if !nw.graph.Contains(id) {
		return fmt.Errorf("%w: no node %d", ErrInvalidEndpoint, id)
	}
	nw.nodes[id].stop()
	return nil
}

// Stop cancels every node's search process and waits for the loops to
// exit. Nodes finish the signal they are handling; nothing is preempted.
// Safe to call more than once.
func (nw *Network) Stop() error {
	nw.mu.Lock()
	if !nw.running {
		nw.mu.Unlock()
		return nil
	}
	nw.running = false
	cancel := nw.cancel
	group := nw.group
	nw.mu.Unlock()

	cancel()
	err := group.Wait()
	nw.log.Info("all nodes stopped")
	return err
}

// InitiateSearch installs payment records on both endpoints and injects
// their self-originated signals into the flood. It returns the shared
// seed the two endpoints agreed on.
func (nw *Network) InitiateSearch(p SearchParams) (types.Seed, error) {
	if !nw.graph.Contains(p.Alice) || !nw.graph.Contains(p.Bob) {
		return types.Seed{}, fmt.Errorf("%w: endpoints %d and %d must be in [0, %d)",
			ErrInvalidEndpoint, p.Alice, p.Bob, nw.Size())
	}
	if p.Alice == p.Bob {
		return types.Seed{}, fmt.Errorf("%w: alice and bob are the same node %d", ErrInvalidEndpoint, p.Alice)
	}

	seed, err := crypto.NewSeed()
	if err != nil {
		return types.Seed{}, fmt.Errorf("initiate search: %w", err)
	}

	hops := p.HopBudget
	if hops <= 0 {
		hops = nw.drawHopBudget()
	}
	if hops > math.MaxUint16 {
		return types.Seed{}, fmt.Errorf("hop budget %d exceeds signal counter range", hops)
	}

	alice := nw.nodes[p.Alice]
	bob := nw.nodes[p.Bob]
	feeBudget := alice.maxFee + bob.maxFee

	payments := []*Payment{
		{Seed: seed, Amount: p.Amount, Role: types.RoleAlice, Counterpart: p.Bob, FeeBudget: feeBudget, HopBudget: hops},
		{Seed: seed, Amount: p.Amount, Role: types.RoleBob, Counterpart: p.Alice, FeeBudget: feeBudget, HopBudget: hops},
	}
	if err := alice.setPayment(payments[0]); err != nil {
		return types.Seed{}, fmt.Errorf("initiate search: %w", err)
	}
	if err := bob.setPayment(payments[1]); err != nil {
		return types.Seed{}, fmt.Errorf("initiate search: %w", err)
	}

	// Each endpoint self-originates its side of the flood. Sender equal
	// to the receiving node marks the origin in its ledger.
	for _, inj := range []struct {
		at   types.NodeID
		role types.Role
	}{{p.Alice, types.RoleAlice}, {p.Bob, types.RoleBob}} {
		sig := protocol.Signal{Seed: seed, Role: inj.role, Sender: inj.at, Hops: uint16(hops), FeeBudget: feeBudget}
		frame, err := sig.Encode()
		if err != nil {
			return types.Seed{}, fmt.Errorf("initiate search: %w", err)
		}
		nw.deliver(inj.at, frame)
	}

	nw.log.Infof("search %s started: alice=%d bob=%d amount=%d hops=%d fee_budget=%d",
		seed.Hex(), p.Alice, p.Bob, p.Amount, hops, feeBudget)
	return seed, nil
}

func (nw *Network) drawHopBudget() int {
	nw.rngMu.Lock()
	defer nw.rngMu.Unlock()
	min, max := nw.cfg.Search.MinHops, nw.cfg.Search.MaxHops
	return min + nw.rng.Intn(max-min+1)
}

// Match answers the watcher's "has seed S matched, and if so where"
// query.
func (nw *Network) Match(seed types.Seed) (*types.Match, bool) {
	return nw.matches.Get(seed)
}

// Payment returns the payment record installed on a node for (seed,
// role), if any.
func (nw *Network) Payment(id types.NodeID, seed types.Seed, role types.Role) (*Payment, bool) {
	if !nw.graph.Contains(id) {
		return nil, false
	}
	return nw.nodes[id].payment(seed, role)
}

// WaitForMatch polls the registry until the seed matches or ctx ends.
// On a match it halts the whole network when the config says so. A
// context deadline without a match is the normal budget-exhaustion
// outcome and reports ErrBudgetExhausted alongside the context error.
func (nw *Network) WaitForMatch(ctx context.Context, seed types.Seed) (*types.Match, error) {
	ticker := time.NewTicker(nw.cfg.Watcher.Interval.Std())
	defer ticker.Stop()

	for {
		if m, ok := nw.matches.Get(seed); ok {
			if nw.cfg.Watcher.StopOnMatch {
				if err := nw.Stop(); err != nil {
					return m, err
				}
			}
			return m, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("no match for seed %s: %w", seed.Hex(),
				errors.Join(ErrBudgetExhausted, ctx.Err()))
		case <-ticker.C:
		}
	}
}

// Forget tears down all per-node state and the match record for a
// concluded search, reclaiming ledger memory.
func (nw *Network) Forget(seed types.Seed) {
	for _, node := range nw.nodes {
		node.forget(seed)
	}
	nw.matches.Delete(seed)
	nw.log.Debugf("search %s forgotten", seed.Hex())
}

// deliver queues a frame on a node's inbox. A full inbox drops the
// frame: an overloaded or stopped node simply stops propagating, it
// never blocks its neighbors.
func (nw *Network) deliver(to types.NodeID, frame []byte) {
	node := nw.nodes[to]
	select {
	case node.inbox <- frame:
	default:
		node.dropped.Add(1)
		nw.log.Debugf("node %d inbox full, frame dropped", to)
	}
}

// publishMatch records a match at first-write-wins semantics. Losing a
// benign race (two nodes dual-visiting near-simultaneously, which can
// happen when the endpoints are close together) is logged and ignored;
// the recorded midpoint stands.
func (nw *Network) publishMatch(seed types.Seed, at types.NodeID, by types.Role) {
	m := &types.Match{
		ID:           crypto.MatchID(seed),
		Seed:         seed,
		LocatedAt:    at,
		DiscoveredBy: by,
	}

	created, err := nw.matches.Put(m)
	if err != nil {
		nw.log.WithError(err).Warnf("%v: duplicate match for seed %s", ErrIntegrity, seed.Hex())
		return
	}
	if created {
		nw.log.Infof("match for seed %s at node %d, completed by %s side", seed.Hex(), at, by)
	}
}
