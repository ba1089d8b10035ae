package packetnet

// router.go defines Router, the pipeline node that forwards packets
// between neighbor routers and its own locally connected terminals. A
// router's tick executes process_out, process_local, tick_terminals, and
// process_in, in that fixed order — the central design decision of the
// whole model: a hop costs at least one tick, and a router's own
// process_out can never feed its own process_in in the same tick.

import (
	"github.com/sirupsen/logrus"
)

// RouterCounters tallies every packet outcome a Router observes.
type RouterCounters struct {
	PacketsReceived  uint64
	PacketsDropped   uint64
	PacketsTimedOut  uint64
	PacketsForwarded uint64
	PacketsDelivered uint64
}

// Router owns its in-buffer, local-delivery buffer, a per-neighbor map of
// output buffers, the set of locally connected terminals, and its current
// routing table. Neighbor router references are non-owning back-pointers,
// valid only for the lifetime of the enclosing Network.
type Router struct {
	addr Address

	inBuffer    *Buffer
	localBuffer *Buffer

	neighborOrder []Address
	neighborOut   map[Address]*Buffer
	neighborRtr   map[Address]*Router

	terminals map[Address]*Terminal

	routingTable *RoutingTable

	inProcCap      int
	localBW        int
	outBW          int
	outBufferCap   int

	counters RouterCounters

	// lastTick records the tick most recently passed to Tick, for trace
	// records emitted from ReceivePacket/routePacket, which are also
	// reachable outside a Tick call (a neighbor or terminal handing off a
	// packet mid-stage).
	lastTick uint64

	log   *logrus.Entry
	trace *TraceManager
}

// NewRouter constructs a Router, failing if addr does not name a router
// (a non-zero terminal id) or names the reserved invalid sentinel address
// (0.0), which no live router may occupy since RoutingTable.NextHop uses
// it to mean "no route".
func NewRouter(addr Address, cfg RouterConfig, log *logrus.Entry, trace *TraceManager) (*Router, error) {
	if !addr.IsRouter() {
		return nil, invalidArgf("router address %s must have a zero terminal id", addr)
	}
	if !addr.IsValid() {
		return nil, invalidArgf("router address %s is the reserved invalid sentinel", addr)
	}
	r := &Router{
		addr:         addr,
		inBuffer:     NewBuffer(addr, cfg.InBufferCap),
		localBuffer:  NewBuffer(addr, cfg.LocalBufferCap),
		neighborOut:  make(map[Address]*Buffer),
		neighborRtr:  make(map[Address]*Router),
		terminals:    make(map[Address]*Terminal),
		routingTable: NewRoutingTable(),
		inProcCap:    cfg.InProcCap,
		localBW:      cfg.LocalBW,
		outBW:        cfg.OutBW,
		outBufferCap: cfg.OutBufferCap,
		trace:        trace,
	}
	if log != nil {
		r.log = log.WithField("router", addr.String())
	} else {
		r.log = logrus.WithField("router", addr.String())
	}
	return r, nil
}

// Addr returns the router's own address.
func (r *Router) Addr() Address {
	return r.addr
}

// Counters returns a snapshot of the router's packet counters.
func (r *Router) Counters() RouterCounters {
	return r.counters
}

// Terminals returns the locally connected terminals.
func (r *Router) Terminals() map[Address]*Terminal {
	return r.terminals
}

// Neighbors returns the router's neighbor addresses in connection order.
func (r *Router) Neighbors() []Address {
	out := make([]Address, len(r.neighborOrder))
	copy(out, r.neighborOrder)
	return out
}

// RoutingTable returns the router's current routing table.
func (r *Router) RoutingTable() *RoutingTable {
	return r.routingTable
}

// SetRoutingTable replaces the router's routing table, as done by a
// periodic Dijkstra recomputation.
func (r *Router) SetRoutingTable(rt *RoutingTable) {
	r.routingTable = rt
}

// NeighborBufferUsage returns the current occupancy of the out-buffer
// toward neighbor, the load-derived edge weight Dijkstra uses. Returns 0
// if neighbor is not a connected neighbor.
func (r *Router) NeighborBufferUsage(neighbor Address) int {
	buf, present := r.neighborOut[neighbor]
	if !present {
		return 0
	}
	return buf.Size()
}

// InFlight returns the number of packets resident in this router's own
// buffers: in-buffer, local-buffer, and every per-neighbor out-buffer.
func (r *Router) InFlight() int {
	total := r.inBuffer.Size() + r.localBuffer.Size()
	for _, buf := range r.neighborOut {
		total += buf.Size()
	}
	return total
}

// ConnectTerminal attaches t to the router. It fails if t is nil, t's
// router id doesn't match this router's, or a terminal with the same
// address is already present.
func (r *Router) ConnectTerminal(t *Terminal) error {
	if t == nil {
		return invalidArgf("cannot connect a nil terminal to router %s", r.addr)
	}
	if t.Addr().RouterID() != r.addr.RouterID() {
		return invalidArgf("terminal %s does not belong to router %s", t.Addr(), r.addr)
	}
	if _, present := r.terminals[t.Addr()]; present {
		return invalidArgf("terminal %s already connected to router %s", t.Addr(), r.addr)
	}
	r.terminals[t.Addr()] = t
	return nil
}

// ConnectRouter establishes a neighbor link to n, creating an output
// buffer for it. It fails if n is this router itself, and is a no-op if
// already neighbors.
func (r *Router) ConnectRouter(n *Router) error {
	if n == nil {
		return invalidArgf("cannot connect a nil router to %s", r.addr)
	}
	if n.addr == r.addr {
		return invalidArgf("router %s cannot connect to itself", r.addr)
	}
	if _, present := r.neighborRtr[n.addr]; present {
		return nil
	}
	r.neighborOrder = append(r.neighborOrder, n.addr)
	r.neighborOut[n.addr] = NewBuffer(n.addr, r.outBufferCap)
	r.neighborRtr[n.addr] = n
	return nil
}

// ReceivePacket enqueues an inbound packet into the router's in-buffer.
func (r *Router) ReceivePacket(p Packet) bool {
	r.counters.PacketsReceived++
	if !r.inBuffer.Enqueue(p) {
		r.counters.PacketsDropped++
		r.trace.AddTrace(r.lastTick, r.addr, "in_drop_full", p.PageID, p.Pos)
		return false
	}
	r.trace.AddTrace(r.lastTick, r.addr, "in_enqueue", p.PageID, p.Pos)
	return true
}

// routePacket decides the fate of a newly arrived or terminal-generated
// packet: local delivery if its destination router is this one, otherwise
// forwarding toward the routing table's next hop.
func (r *Router) routePacket(p Packet) bool {
	dstRouter := p.Dst.RouterAddr()
	if dstRouter == r.addr {
		if !r.localBuffer.Enqueue(p) {
			r.counters.PacketsDropped++
			r.trace.AddTrace(r.lastTick, r.addr, "route_drop_local_full", p.PageID, p.Pos)
			return false
		}
		return true
	}

	nextHop := r.routingTable.NextHop(p.Dst)
	if !nextHop.IsValid() {
		r.counters.PacketsDropped++
		r.trace.AddTrace(r.lastTick, r.addr, "route_drop_no_route", p.PageID, p.Pos)
		return false
	}
	buf, isNeighbor := r.neighborOut[nextHop]
	if !isNeighbor {
		r.counters.PacketsDropped++
		r.trace.AddTrace(r.lastTick, r.addr, "route_drop_stale_neighbor", p.PageID, p.Pos)
		return false
	}
	if !buf.Enqueue(p) {
		r.counters.PacketsDropped++
		r.trace.AddTrace(r.lastTick, r.addr, "route_drop_out_full", p.PageID, p.Pos)
		return false
	}
	return true
}

// ProcessOut drains up to outBW packets from each neighbor's out-buffer,
// in neighbor connection order, forwarding non-expired ones.
func (r *Router) ProcessOut(currentTick uint64) int {
	forwarded := 0
	for _, nbrAddr := range r.neighborOrder {
		buf := r.neighborOut[nbrAddr]
		nbr := r.neighborRtr[nbrAddr]
		sent := 0
		for withinBandwidth(sent, r.outBW) && !buf.IsEmpty() {
			p, err := buf.Dequeue()
			if err != nil {
				break
			}
			sent++
			if p.Expired(currentTick) {
				r.counters.PacketsTimedOut++
				r.trace.AddTrace(currentTick, r.addr, "out_timeout", p.PageID, p.Pos)
				continue
			}
			nbr.ReceivePacket(p)
			r.counters.PacketsForwarded++
			r.trace.AddTrace(currentTick, r.addr, "out_forward", p.PageID, p.Pos)
			forwarded++
		}
	}
	return forwarded
}

// ProcessLocal drains up to localBW packets from the local-delivery
// buffer, delivering non-expired ones to their destination terminal.
func (r *Router) ProcessLocal(currentTick uint64) int {
	delivered := 0
	dequeued := 0
	for withinBandwidth(dequeued, r.localBW) && !r.localBuffer.IsEmpty() {
		p, err := r.localBuffer.Dequeue()
		if err != nil {
			break
		}
		dequeued++
		if p.Expired(currentTick) {
			r.counters.PacketsTimedOut++
			r.trace.AddTrace(currentTick, r.addr, "local_timeout", p.PageID, p.Pos)
			continue
		}
		term, present := r.terminals[p.Dst]
		if !present {
			r.counters.PacketsDropped++
			r.trace.AddTrace(currentTick, r.addr, "local_drop_no_terminal", p.PageID, p.Pos)
			continue
		}
		term.ReceivePacket(p)
		r.counters.PacketsDelivered++
		r.trace.AddTrace(currentTick, r.addr, "local_deliver", p.PageID, p.Pos)
		delivered++
	}
	return delivered
}

// TickTerminals invokes Tick on every connected terminal.
func (r *Router) TickTerminals(currentTick uint64) {
	for _, t := range r.terminals {
		t.Tick(currentTick)
	}
}

// ProcessIn drains up to inProcCap packets from the in-buffer, routing
// each non-expired packet via routePacket.
func (r *Router) ProcessIn(currentTick uint64) int {
	processed := 0
	for withinBandwidth(processed, r.inProcCap) && !r.inBuffer.IsEmpty() {
		p, err := r.inBuffer.Dequeue()
		if err != nil {
			break
		}
		processed++
		if p.Expired(currentTick) {
			r.counters.PacketsTimedOut++
			r.trace.AddTrace(currentTick, r.addr, "in_timeout", p.PageID, p.Pos)
			continue
		}
		r.routePacket(p)
	}
	return processed
}

// Tick advances the router by one integer tick, executing the four stages
// in their load-bearing order: process_out, process_local, tick_terminals,
// process_in.
func (r *Router) Tick(currentTick uint64) {
	r.lastTick = currentTick
	r.ProcessOut(currentTick)
	r.ProcessLocal(currentTick)
	r.TickTerminals(currentTick)
	r.ProcessIn(currentTick)
}
