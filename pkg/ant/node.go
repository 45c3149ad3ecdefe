// pkg/ant/node.go
package ant

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/busybox42/Myrmex/pkg/protocol"
	"github.com/busybox42/Myrmex/pkg/types"
)

// Node is one participant in the payment-channel graph. It owns its
// neighbor list, its pheromone ledger and its payment slots; no other
// node ever touches them. Signals arrive as encoded frames on the inbox
// and are handled one at a time by the node's own goroutine.
type Node struct {
	id        types.NodeID
	neighbors []types.NodeID
	inbox     chan []byte
	ledger    *ledger

	payments map[paymentKey]*Payment
	pmu      sync.RWMutex

	feeRate int64
	maxFee  int64

	net     *Network
	cancel  context.CancelFunc
	running atomic.Bool
	dropped atomic.Uint64
}

func newNode(id types.NodeID, neighbors []types.NodeID, feeRate, maxFee int64, buffer int, net *Network) *Node {
	return &Node{
		id:        id,
		neighbors: neighbors,
		inbox:     make(chan []byte, buffer),
		ledger:    newLedger(),
		payments:  make(map[paymentKey]*Payment),
		feeRate:   feeRate,
		maxFee:    maxFee,
		net:       net,
	}
}

// ID returns the node's identity.
func (n *Node) ID() types.NodeID {
	return n.id
}

// Running reports whether the node's search loop is active.
func (n *Node) Running() bool {
	return n.running.Load()
}

// Dropped returns how many frames this node discarded (malformed input
// or overflow on a neighbor's inbox counts at the receiver).
func (n *Node) Dropped() uint64 {
	return n.dropped.Load()
}

// start launches the node's search loop under the network's group.
func (n *Node) start(g *errgroup.Group, parent context.Context) {
	if !n.running.CompareAndSwap(false, true) {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	n.cancel = cancel
	g.Go(func() error {
		defer n.running.Store(false)
		return n.run(ctx)
	})
}

// stop asks the node's loop to exit. The signal currently in hand is
// processed to completion; queued frames are abandoned.
func (n *Node) stop() {
	if n.cancel != nil {
		n.cancel()
	}
}

// run is the node's long-lived search process. Cancellation is
// cooperative: a dequeued frame is always fully handled before the
// loop checks the context again.
func (n *Node) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case frame := <-n.inbox:
			sig, err := protocol.DecodeSignal(frame)
			if err != nil {
				// Local fault only; this node just stops propagating the frame.
				n.dropped.Add(1)
				n.net.log.WithError(err).Debugf("node %d dropped malformed frame", n.id)
				continue
			}
			n.handle(sig)
		}
	}
}

// handle runs one step of the pheromone protocol for an incoming
// signal. The opposite-role ledger slot is checked before the duplicate
// drop, so a match is emitted even when the completing arrival is a
// duplicate. Forwarding is idempotent per (seed, role).
func (n *Node) handle(sig *protocol.Signal) {
	dup, both := n.ledger.observe(sig.Seed, sig.Role, sig.Sender)
	if both {
		n.net.publishMatch(sig.Seed, n.id, sig.Role)
	}
	if dup {
		return
	}

	hops := int(sig.Hops) - 1
	fee := sig.FeeBudget - n.feeRate
	if hops <= 0 || fee < 0 {
		// Budget exhausted: this branch of the flood ends here.
		n.net.log.Debugf("node %d: %s branch for seed %s exhausted (hops=%d fee=%d)",
			n.id, sig.Role, sig.Seed.Hex(), hops, fee)
		return
	}

	out := protocol.Signal{
		Seed:      sig.Seed,
		Role:      sig.Role,
		Sender:    n.id,
		Hops:      uint16(hops),
		FeeBudget: fee,
	}
	frame, err := out.Encode()
	if err != nil {
		n.net.log.WithError(err).Errorf("node %d failed to encode signal", n.id)
		return
	}

	for _, nb := range n.neighbors {
		if nb == sig.Sender {
			continue
		}
		n.net.deliver(nb, frame)
	}
}

// setPayment installs a payment record. A node holds at most one
// payment per (seed, role); different seeds coexist.
func (n *Node) setPayment(p *Payment) error {
	n.pmu.Lock()
	defer n.pmu.Unlock()

	key := paymentKey{seed: p.Seed, role: p.Role}
	if _, ok := n.payments[key]; ok {
		return fmt.Errorf("node %d already holds a %s payment for seed %s", n.id, p.Role, p.Seed.Hex())
	}
	n.payments[key] = p
	return nil
}

// payment returns the node's payment record for (seed, role).
func (n *Node) payment(seed types.Seed, role types.Role) (*Payment, bool) {
	n.pmu.RLock()
	defer n.pmu.RUnlock()
	p, ok := n.payments[paymentKey{seed: seed, role: role}]
	return p, ok
}

// forget drops the node's state for a concluded search.
func (n *Node) forget(seed types.Seed) {
	n.ledger.forget(seed)

	n.pmu.Lock()
	defer n.pmu.Unlock()
	delete(n.payments, paymentKey{seed: seed, role: types.RoleAlice})
	delete(n.payments, paymentKey{seed: seed, role: types.RoleBob})
}
