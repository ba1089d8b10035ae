package sim

import (
	"fmt"

	"github.com/iti/packetnet"
	"github.com/iti/rngstream"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// RandomTopologyBuilder builds a router graph the way the teacher's device
// descriptions are seeded (see desc-topo.go's random placement helpers):
// a minimum-connectivity spanning tree (each router i >= 1 links to a
// uniformly random prior router), followed by Complexity additional random
// edges per router. It uses the same rngstream.RngStream the teacher wires
// into every device for reproducible-by-seed randomness.
type RandomTopologyBuilder struct {
	SeedName string
	// Trace, if non-nil and active, is threaded into every router and
	// terminal the builder constructs, so their packet-level operations
	// (enqueue/drop/deliver/timeout) get recorded.
	Trace *packetnet.TraceManager
}

// NewRandomTopologyBuilder constructs a builder whose RngStream is seeded
// by name, so two builders with the same name produce the same topology.
func NewRandomTopologyBuilder(name string) *RandomTopologyBuilder {
	return &RandomTopologyBuilder{SeedName: name}
}

// Build constructs a *packetnet.Network with cfg.RouterCount routers, each
// hosting a random number of terminals in [1, cfg.MaxTerminalCount], wired
// per §4.7's spanning-tree-plus-complexity algorithm.
func (b *RandomTopologyBuilder) Build(cfg packetnet.Config) (*packetnet.Network, error) {
	if cfg.RouterCount <= 0 {
		return nil, fmt.Errorf("topology: router_count must be positive, got %d", cfg.RouterCount)
	}
	rng := rngstream.New(b.SeedName)

	net := packetnet.NewNetwork(cfg, nil, b.Trace)

	// Router ids start at 1: id 0 would pack to Address 0.0, the reserved
	// invalid/unset sentinel (§3), which NewRouter now refuses to own.
	addrs := make([]packetnet.Address, 0, cfg.RouterCount)
	for i := 0; i < cfg.RouterCount; i++ {
		r, err := net.AddRouter(uint8(i + 1))
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, r.Addr())

		termCount := 1
		if cfg.MaxTerminalCount > 1 {
			termCount = 1 + rng.RandInt(0, cfg.MaxTerminalCount-1)
		}
		for tid := 1; tid <= termCount; tid++ {
			if _, err := net.AddTerminal(uint8(i+1), uint8(tid)); err != nil {
				return nil, err
			}
		}
	}

	for i := 1; i < cfg.RouterCount; i++ {
		prior := rng.RandInt(0, i-1)
		if err := net.EstablishLink(addrs[i], addrs[prior]); err != nil {
			return nil, err
		}
	}

	for i := 0; i < cfg.RouterCount; i++ {
		for e := 0; e < cfg.Complexity; e++ {
			j := rng.RandInt(0, cfg.RouterCount-1)
			// A duplicate edge is a harmless no-op per §4.7, but retrying a
			// few times against the existing neighbor list spends the
			// complexity budget on actually-new edges rather than wasted
			// draws.
			existing := net.Routers()[addrs[i]].Neighbors()
			for attempt := 0; attempt < 3 && slices.Contains(existing, addrs[j]); attempt++ {
				j = rng.RandInt(0, cfg.RouterCount-1)
			}
			if err := net.EstablishLink(addrs[i], addrs[j]); err != nil {
				return nil, err
			}
		}
	}

	if !connected(net) {
		return nil, fmt.Errorf("topology: built graph is not fully connected")
	}
	return net, nil
}

// connected reports whether every router in net can reach every other,
// checked with gonum's connected-components pass over an undirected
// mirror of the router graph (link establishment is always
// bidirectional, so the undirected view loses nothing).
func connected(net *packetnet.Network) bool {
	g := simple.NewUndirectedGraph()
	index := make(map[packetnet.Address]int64)
	for i, addr := range net.RouterOrder() {
		index[addr] = int64(i)
		g.AddNode(simple.Node(i))
	}
	for _, addr := range net.RouterOrder() {
		r := net.Routers()[addr]
		for _, nbr := range r.Neighbors() {
			a, b := index[addr], index[nbr]
			if a == b {
				continue
			}
			if !g.HasEdgeBetween(a, b) {
				g.SetEdge(simple.Edge{F: simple.Node(a), T: simple.Node(b)})
			}
		}
	}
	return len(topo.ConnectedComponents(g)) <= 1
}
