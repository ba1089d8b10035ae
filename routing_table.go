package packetnet

// routing_table.go defines RoutingTable, the destination-router to
// next-hop-router mapping each Router consults to forward packets.

// RoutingTable is an unordered map from a destination router address to a
// next-hop router address; both keys and values carry terminal id 0. A
// missing entry denotes "no route".
type RoutingTable struct {
	nextHop map[Address]Address
}

// NewRoutingTable constructs an empty routing table.
func NewRoutingTable() *RoutingTable {
	return &RoutingTable{nextHop: make(map[Address]Address)}
}

// NextHop returns the next-hop router for dst, using only the router
// portion of dst: a terminal address r.t routes exactly like r.0. Returns
// InvalidAddress if no route is known.
func (rt *RoutingTable) NextHop(dst Address) Address {
	hop, present := rt.nextHop[dst.RouterAddr()]
	if !present {
		return InvalidAddress
	}
	return hop
}

// Set upserts the next hop for a destination router.
func (rt *RoutingTable) Set(dstRouter, nextHop Address) {
	rt.nextHop[dstRouter.RouterAddr()] = nextHop.RouterAddr()
}

// Size returns the number of destination entries in the table.
func (rt *RoutingTable) Size() int {
	return len(rt.nextHop)
}
