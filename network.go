package packetnet

// network.go defines Network, the top-level owner of the router set. It
// runs the tick loop, triggers periodic and final route recomputation, and
// exposes the aggregate Report surface. Network owns routers exclusively;
// each Router owns its own terminals, mirroring the teacher's ownership
// summary in net.go (NetworkStruct owning devices by id).

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Network owns every router (and, transitively, every terminal), advances
// the simulation one tick at a time, and periodically recomputes routing
// tables from live congestion state.
type Network struct {
	cfg Config

	routerOrder []Address
	routers     map[Address]*Router

	currentTick uint64

	log   *logrus.Entry
	trace *TraceManager
}

// NewNetwork constructs an empty Network (no routers, no links) ready for
// a TopologyBuilder to populate via AddRouter/AddTerminal/EstablishLink, or
// for direct programmatic construction in tests. The tick counter starts
// at 1, per §4.7.
func NewNetwork(cfg Config, log *logrus.Entry, trace *TraceManager) *Network {
	n := &Network{
		cfg:         cfg,
		routers:     make(map[Address]*Router),
		currentTick: 1,
		trace:       trace,
	}
	if log != nil {
		n.log = log.WithField("component", "network")
	} else {
		n.log = logrus.WithField("component", "network")
	}
	return n
}

// Config returns the network's configuration block.
func (n *Network) Config() Config {
	return n.cfg
}

// CurrentTick returns the tick that will be executed by the next call to
// Tick.
func (n *Network) CurrentTick() uint64 {
	return n.currentTick
}

// Routers returns every router, keyed by address.
func (n *Network) Routers() map[Address]*Router {
	return n.routers
}

// RouterOrder returns router addresses in the order they were added to the
// network — the order Tick visits them in, per §4.7's "ownership order."
func (n *Network) RouterOrder() []Address {
	out := make([]Address, len(n.routerOrder))
	copy(out, n.routerOrder)
	return out
}

// AddRouter constructs a router at addr using the network's router config
// and takes ownership of it.
func (n *Network) AddRouter(routerID uint8) (*Router, error) {
	addr := NewAddress(routerID, 0)
	if _, present := n.routers[addr]; present {
		return nil, errors.Errorf("router %s already present in network", addr)
	}
	r, err := NewRouter(addr, n.cfg.Router, n.log, n.trace)
	if err != nil {
		return nil, err
	}
	n.routers[addr] = r
	n.routerOrder = append(n.routerOrder, addr)
	return r, nil
}

// AddTerminal constructs a terminal at router routerID / terminal id
// terminalID and connects it to that router.
func (n *Network) AddTerminal(routerID, terminalID uint8) (*Terminal, error) {
	r, present := n.routers[NewAddress(routerID, 0)]
	if !present {
		return nil, errors.Errorf("cannot add terminal: no router %03d in network", routerID)
	}
	t, err := NewTerminal(NewAddress(routerID, terminalID), r, n.cfg.Terminal, n.cfg.PacketTTL, n.cfg.MaxAssemblerTTL, n.log, n.trace)
	if err != nil {
		return nil, err
	}
	if err := r.ConnectTerminal(t); err != nil {
		return nil, err
	}
	return t, nil
}

// EstablishLink connects routers a and b bidirectionally. It is a no-op if
// a == b, per §4.7.
func (n *Network) EstablishLink(a, b Address) error {
	if a == b {
		return nil
	}
	ra, present := n.routers[a]
	if !present {
		return errors.Errorf("establish_link: no router %s in network", a)
	}
	rb, present := n.routers[b]
	if !present {
		return errors.Errorf("establish_link: no router %s in network", b)
	}
	if err := ra.ConnectRouter(rb); err != nil {
		return err
	}
	return rb.ConnectRouter(ra)
}

// AllTerminals returns every terminal in the network, across every router.
func (n *Network) AllTerminals() []*Terminal {
	out := make([]*Terminal, 0)
	for _, addr := range n.routerOrder {
		r := n.routers[addr]
		for _, t := range r.Terminals() {
			out = append(out, t)
		}
	}
	return out
}

// orderedRouters returns the Router values in router-addition order, the
// slice shape ComputeRoutingTable/ComputeAllRoutingTables expect.
func (n *Network) orderedRouters() []*Router {
	out := make([]*Router, len(n.routerOrder))
	for i, addr := range n.routerOrder {
		out[i] = n.routers[addr]
	}
	return out
}

// RecomputeRoutes runs Dijkstra from every router against the network's
// current congestion state and installs the resulting tables.
func (n *Network) RecomputeRoutes() {
	tables := ComputeAllRoutingTables(n.orderedRouters())
	for addr, table := range tables {
		n.routers[addr].SetRoutingTable(table)
	}
	n.log.WithField("tick", n.currentTick).Debug("routing tables recomputed")
}

// Tick advances the network by exactly one integer tick: every router, in
// addition order, executes its own four-stage tick; then the tick counter
// advances.
func (n *Network) Tick() {
	for _, addr := range n.routerOrder {
		n.routers[addr].Tick(n.currentTick)
	}
	n.currentTick++
}

// Simulate runs the network for n additional ticks, recomputing routing
// tables every RouteRefreshTicks ticks and once more, unconditionally,
// after the last tick — per §4.7's open-question resolution to keep both
// the periodic and the final recompute.
func (n *Network) Simulate(ticks uint64) {
	refresh := n.cfg.RouteRefreshTicks
	for i := uint64(0); i < ticks; i++ {
		n.Tick()
		if refresh > 0 && n.currentTick%refresh == 0 {
			n.RecomputeRoutes()
		}
	}
	n.RecomputeRoutes()
}

// Report walks every router and terminal, summing counters into the
// aggregate Report surface described in §6.
func (n *Network) Report() Report {
	rpt := Report{
		CurrentTick:  n.currentTick,
		TotalRouters: len(n.routers),
	}

	for _, addr := range n.routerOrder {
		r := n.routers[addr]
		rc := r.Counters()
		// PacketsDelivered is sourced from the router side (packets handed
		// off to a local terminal), not the terminal's PacketsSuccProcessed
		// (reassembly completions counted in packets). The original
		// Network.cpp uses the latter; both are defensible readings of §6,
		// but they diverge whenever a page completes out of the same tick
		// its last packet is delivered, or not at all.
		rpt.PacketsDelivered += rc.PacketsDelivered
		rpt.PacketsDropped += rc.PacketsDropped
		rpt.PacketsTimedOut += rc.PacketsTimedOut
		rpt.PacketsInFlight += uint64(r.InFlight())

		rpt.TotalTerminals += len(r.Terminals())
		for _, t := range r.Terminals() {
			tc := t.Counters()
			rpt.PacketsGenerated += tc.PacketsGenerated
			rpt.PacketsSent += tc.PacketsSent
			rpt.PacketsDropped += tc.PacketsOutDropped + tc.PacketsInDropped
			rpt.PacketsTimedOut += tc.PacketsOutTimedOut + tc.PacketsInTimedOut
			rpt.PacketsInFlight += uint64(t.InFlight())

			rpt.PagesCreated += tc.PagesCreated
			rpt.PagesCompleted += tc.PagesCompleted
			rpt.PagesDropped += tc.PagesDropped
			rpt.PagesTimedOut += tc.PagesTimedOut
		}
	}
	return rpt
}
