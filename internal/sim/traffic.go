package sim

import (
	"github.com/iti/packetnet"
	"github.com/iti/rngstream"
)

// RandomTrafficSource offers a new page to a terminal each tick with
// probability cfg.TrafficProbability, addressed to a uniformly random
// other terminal in the address book, with a uniformly random length in
// [1, cfg.MaxPageLen].
type RandomTrafficSource struct {
	rng        *rngstream.RngStream
	maxPageLen int
	trafficP   float64
	addrBook   []packetnet.Address
}

// NewRandomTrafficSource constructs a traffic source seeded by name,
// drawing destinations from addrBook (typically every terminal address in
// the network).
func NewRandomTrafficSource(name string, cfg packetnet.Config, addrBook []packetnet.Address) *RandomTrafficSource {
	return &RandomTrafficSource{
		rng:        rngstream.New(name),
		maxPageLen: cfg.MaxPageLen,
		trafficP:   cfg.TrafficProbability,
		addrBook:   addrBook,
	}
}

// Offer implements packetnet.TrafficSource.
func (ts *RandomTrafficSource) Offer(t *packetnet.Terminal, currentTick uint64) (bool, uint32, packetnet.Address) {
	if len(ts.addrBook) < 2 {
		return false, 0, packetnet.InvalidAddress
	}
	if ts.rng.RandU01() >= ts.trafficP {
		return false, 0, packetnet.InvalidAddress
	}

	var dst packetnet.Address
	for {
		dst = ts.addrBook[ts.rng.RandInt(0, len(ts.addrBook)-1)]
		if dst != t.Addr() {
			break
		}
	}

	length := uint32(1)
	if ts.maxPageLen > 1 {
		length = 1 + uint32(ts.rng.RandInt(0, int(ts.maxPageLen-1)))
	}
	return true, length, dst
}

// DriveTraffic offers traffic to every terminal in net for the tick about
// to run, calling Terminal.SendPage for each accepted offer, with a
// deadline of currentTick+packetTTL.
func DriveTraffic(net *packetnet.Network, source packetnet.TrafficSource, currentTick, packetTTL uint64) {
	for _, t := range net.AllTerminals() {
		present, length, dst := source.Offer(t, currentTick)
		if !present {
			continue
		}
		t.SendPage(length, dst, currentTick+packetTTL)
	}
}
