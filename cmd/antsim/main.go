package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/busybox42/Myrmex/pkg/ant"
	"github.com/busybox42/Myrmex/pkg/config"
	"github.com/busybox42/Myrmex/pkg/topology"
	"github.com/busybox42/Myrmex/pkg/types"
)

var log = logrus.New()

func initLogger(verbose bool) {
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	log.SetOutput(os.Stdout)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}

func formatRoute(route []types.NodeID) string {
	parts := make([]string, len(route))
	for i, id := range route {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, " > ")
}

func main() {
	nodes := flag.Int("nodes", 42, "maximum node count for the random network")
	edgeProb := flag.Float64("edge-prob", 0.08, "probability that two nodes share a channel")
	graphSeed := flag.Int64("graph-seed", 0, "topology PRNG seed (0 = time-based)")
	alice := flag.Int("alice", -1, "alice's node ID (-1 = random)")
	bob := flag.Int("bob", -1, "bob's node ID (-1 = random)")
	amount := flag.Int64("amount", 1, "payment amount in satoshis")
	hops := flag.Int("hops", 0, "hop budget (0 = draw from the configured range)")
	timeout := flag.Duration("timeout", 30*time.Second, "give up on the search after this long")
	configPath := flag.String("config", "", "optional yaml config file")
	verbose := flag.Bool("verbose", false, "enable per-signal debug logging")
	flag.Parse()

	initLogger(*verbose)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	seed := *graphSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	graph := topology.Random(*nodes, *edgeProb, seed)
	log.Infof("Generated payment-channel network: %d nodes (graph seed %d)", graph.Size(), seed)
	if graph.Size() < 2 {
		log.Fatal("Network too small for a search; raise -nodes or -edge-prob")
	}

	endpointA, endpointB := pickEndpoints(graph.Size(), *alice, *bob, seed)
	log.Infof("Alice is node %d, Bob is node %d, amount %d sat", endpointA, endpointB, *amount)

	network := ant.NewNetwork(graph, cfg, log)
	if err := network.Start(); err != nil {
		log.Fatalf("Failed to start network: %v", err)
	}
	defer network.Stop()

	searchSeed, err := network.InitiateSearch(ant.SearchParams{
		Alice:     endpointA,
		Bob:       endpointB,
		Amount:    types.Amount(*amount),
		HopBudget: *hops,
	})
	if err != nil {
		log.Fatalf("Failed to initiate search: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	match, err := network.WaitForMatch(ctx, searchSeed)
	if err != nil {
		if errors.Is(err, ant.ErrBudgetExhausted) {
			log.Warnf("No route found: %v", err)
			return
		}
		log.Fatalf("Search failed: %v", err)
	}
	log.Infof("Match at node %d, discovered by the %s side", match.LocatedAt, match.DiscoveredBy)

	route, err := network.BuildRoute(searchSeed, types.RoleAlice)
	if err != nil {
		log.Fatalf("Failed to build route: %v", err)
	}

	log.Infof("Alice can forward the payment to Bob using the route %s", formatRoute(route))
	network.Forget(searchSeed)
}

func pickEndpoints(size, alice, bob int, seed int64) (types.NodeID, types.NodeID) {
	rng := rand.New(rand.NewSource(seed + 1))
	a, b := alice, bob
	if a < 0 {
		a = rng.Intn(size)
	}
	if b < 0 {
		b = rng.Intn(size)
		for b == a {
			b = rng.Intn(size)
		}
	}
	return types.NodeID(a), types.NodeID(b)
}
