package packetnet

// collaborators.go declares the interfaces the core consumes but does not
// implement, per §1's explicit out-of-scope list. The core only ever
// depends on these interfaces; concrete implementations (random topology
// construction, random traffic generation, and text report rendering)
// live outside the core, in internal/sim and cmd/packetnetsim. No Clock
// implementation is provided: sim.RunFor calls Network.Tick directly.

// Clock issues monotonically increasing ticks. Network.Simulate drives
// its own tick counter directly, per §4.7, but a Clock lets an external
// driver (a CLI, a test harness) pace calls to Network.Tick independently
// of that internal loop.
type Clock interface {
	// Next returns the next tick value to advance to.
	Next() uint64
}

// Report is the aggregate statistics surface a Reporter pulls from a
// Network, per §6.
type Report struct {
	CurrentTick     uint64
	TotalRouters    int
	TotalTerminals  int
	PacketsGenerated uint64
	PacketsSent      uint64
	PacketsDelivered uint64
	PacketsDropped   uint64
	PacketsTimedOut  uint64
	PacketsInFlight  uint64
	PagesCreated     uint64
	PagesCompleted   uint64
	PagesDropped     uint64
	PagesTimedOut    uint64
}

// DeliveryRate returns PacketsDelivered/PacketsGenerated, or 0 when no
// packets have been generated yet.
func (r Report) DeliveryRate() float64 {
	if r.PacketsGenerated == 0 {
		return 0
	}
	return float64(r.PacketsDelivered) / float64(r.PacketsGenerated)
}

// SuccessRate returns PagesCompleted/PagesCreated, or 0 when no pages have
// been created yet.
func (r Report) SuccessRate() float64 {
	if r.PagesCreated == 0 {
		return 0
	}
	return float64(r.PagesCompleted) / float64(r.PagesCreated)
}

// DropRate returns PacketsDropped/PacketsGenerated, or 0 when no packets
// have been generated yet.
func (r Report) DropRate() float64 {
	if r.PacketsGenerated == 0 {
		return 0
	}
	return float64(r.PacketsDropped) / float64(r.PacketsGenerated)
}

// Reporter pulls a Report from a Network and renders it. The core defines
// only the shape it reports; rendering (text, yaml, a dashboard) is
// entirely the collaborator's concern.
type Reporter interface {
	Render(Report)
}

// TopologyBuilder seeds a router graph and terminal population before the
// first tick. The core only ever consumes the fully constructed *Network
// a TopologyBuilder hands back; it does not build topology itself beyond
// the bookkeeping in NewNetwork/EstablishLink.
type TopologyBuilder interface {
	Build(cfg Config) (*Network, error)
}

// TrafficSource decides, once per tick, whether a terminal should enqueue
// a new page, and with what length and destination.
type TrafficSource interface {
	// Offer is called once per terminal per tick. present reports whether
	// a page should be sent; when true, length and dst describe it.
	Offer(t *Terminal, currentTick uint64) (present bool, length uint32, dst Address)
}
