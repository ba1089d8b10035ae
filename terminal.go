package packetnet

// terminal.go defines Terminal, the source/sink endpoint that creates
// outbound pages, reassembles inbound ones, and quarantines stragglers of
// abandoned reassembly attempts.

import (
	"github.com/sirupsen/logrus"
)

// TerminalCounters tallies every page/packet outcome a Terminal observes,
// the raw material the Reporter surface sums across the network.
type TerminalCounters struct {
	PagesCreated   uint64
	PagesSent      uint64
	PagesDropped   uint64
	PagesCompleted uint64
	PagesTimedOut  uint64

	PacketsGenerated     uint64
	PacketsSent          uint64
	PacketsOutDropped    uint64
	PacketsOutTimedOut   uint64
	PacketsReceived      uint64
	PacketsInDropped     uint64
	PacketsInTimedOut    uint64
	PacketsSuccProcessed uint64
}

// Terminal is a source/sink endpoint: it owns its in/out buffers, its
// active reassemblers (keyed by page id), and its quarantine set (page id
// -> tick until which further packets for that page are rejected). It
// holds a non-owning back-reference to the Router that hosts it, valid
// only for the lifetime of the enclosing Network.
type Terminal struct {
	addr   Address
	router *Router

	inBuffer  *Buffer
	outBuffer *Buffer

	reassemblers map[uint64]*Reassembler
	quarantine   map[uint64]uint64

	nextPageID uint64

	inProcCap int
	outBW     int

	packetTTL       uint64
	maxAssemblerTTL uint64

	counters TerminalCounters

	// lastTick records the tick most recently passed to Tick, for trace
	// records emitted from ReceivePacket, which is also reachable outside
	// a Tick call (a router handing off a packet mid-stage).
	lastTick uint64

	log   *logrus.Entry
	trace *TraceManager
}

// NewTerminal constructs a Terminal hosted by router, failing if addr does
// not name a terminal (terminal id == 0 is a router address).
func NewTerminal(addr Address, router *Router, cfg TerminalConfig, packetTTL, maxAssemblerTTL uint64,
	log *logrus.Entry, trace *TraceManager) (*Terminal, error) {
	if router == nil {
		return nil, invalidArgf("terminal %s: router cannot be nil", addr)
	}
	if !addr.IsTerminal() {
		return nil, invalidArgf("terminal address %s must have a non-zero terminal id", addr)
	}
	if addr.RouterID() != router.Addr().RouterID() {
		return nil, invalidArgf("terminal %s does not belong to router %s", addr, router.Addr())
	}

	t := &Terminal{
		addr:            addr,
		router:          router,
		inBuffer:        NewBuffer(addr, cfg.InBufferCap),
		outBuffer:       NewBuffer(addr, cfg.OutBufferCap),
		reassemblers:    make(map[uint64]*Reassembler),
		quarantine:      make(map[uint64]uint64),
		inProcCap:       cfg.InProcCap,
		outBW:           cfg.OutBW,
		packetTTL:       packetTTL,
		maxAssemblerTTL: maxAssemblerTTL,
		trace:           trace,
	}
	if log != nil {
		t.log = log.WithField("terminal", addr.String())
	} else {
		t.log = logrus.WithField("terminal", addr.String())
	}
	return t, nil
}

// Addr returns the terminal's address.
func (t *Terminal) Addr() Address {
	return t.addr
}

// Counters returns a snapshot of the terminal's page/packet counters.
func (t *Terminal) Counters() TerminalCounters {
	return t.counters
}

// InFlight returns the number of packets currently resident in this
// terminal's own buffers (not yet delivered, dropped, or timed out).
func (t *Terminal) InFlight() int {
	return t.inBuffer.Size() + t.outBuffer.Size()
}

// nextID allocates the next monotonically increasing page id.
func (t *Terminal) nextID() uint64 {
	id := t.nextPageID
	t.nextPageID++
	return id
}

// SendPage forms a page with the next page id and fragments it into
// length packets, all carrying deadlineTick. If the out-buffer cannot
// accept all of them atomically, the entire page is dropped. Pages-created
// is incremented unconditionally.
func (t *Terminal) SendPage(length uint32, dst Address, deadlineTick uint64) bool {
	t.counters.PagesCreated++

	page, err := NewPage(t.nextID(), length, t.addr, dst)
	if err != nil {
		t.counters.PagesDropped++
		t.counters.PacketsOutDropped += uint64(length)
		t.log.WithError(err).Debug("send_page: invalid page")
		return false
	}

	packets, err := page.Fragment(deadlineTick)
	if err != nil {
		t.counters.PagesDropped++
		t.counters.PacketsOutDropped += uint64(length)
		t.log.WithError(err).Debug("send_page: fragment failed")
		return false
	}

	if uint32(t.outBuffer.AvailableSpace()) < length {
		t.counters.PagesDropped++
		t.counters.PacketsOutDropped += uint64(length)
		return false
	}

	for _, p := range packets {
		t.outBuffer.Enqueue(p)
	}
	t.counters.PagesSent++
	t.counters.PacketsGenerated += uint64(length)
	return true
}

// ReceivePacket enqueues an inbound packet. Packets for a quarantined page
// id are rejected and counted as timed out rather than dropped.
func (t *Terminal) ReceivePacket(p Packet) bool {
	if _, quarantined := t.quarantine[p.PageID]; quarantined {
		t.counters.PacketsInTimedOut++
		t.trace.AddTrace(t.lastTick, t.addr, "in_drop_quarantined", p.PageID, p.Pos)
		return false
	}
	if !t.inBuffer.Enqueue(p) {
		t.counters.PacketsInDropped++
		t.trace.AddTrace(t.lastTick, t.addr, "in_drop_full", p.PageID, p.Pos)
		return false
	}
	t.counters.PacketsReceived++
	t.trace.AddTrace(t.lastTick, t.addr, "in_enqueue", p.PageID, p.Pos)
	return true
}

// findOrCreateReassembler returns the active reassembler for pageID,
// creating one (with deadline current+MaxAssemblerTTL) on first sight. It
// returns nil if an existing reassembler disagrees on total length.
func (t *Terminal) findOrCreateReassembler(pageID uint64, total uint32, currentTick uint64) *Reassembler {
	if r, present := t.reassemblers[pageID]; present {
		if r.Total != total {
			return nil
		}
		return r
	}
	r, err := NewReassembler(pageID, total, currentTick+t.maxAssemblerTTL)
	if err != nil {
		return nil
	}
	t.reassemblers[pageID] = r
	return r
}

// ProcessIn dequeues up to inProcCap packets from the in-buffer, routing
// each into its reassembler (creating one as needed), and returns the
// number processed.
func (t *Terminal) ProcessIn(currentTick uint64) int {
	processed := 0
	for withinBandwidth(processed, t.inProcCap) && !t.inBuffer.IsEmpty() {
		p, err := t.inBuffer.Dequeue()
		if err != nil {
			break
		}
		processed++

		if p.Expired(currentTick) {
			t.counters.PacketsInTimedOut++
			t.trace.AddTrace(currentTick, t.addr, "in_timeout", p.PageID, p.Pos)
			continue
		}
		if p.Dst != t.addr {
			t.counters.PacketsInDropped++
			t.trace.AddTrace(currentTick, t.addr, "in_drop_misdelivered", p.PageID, p.Pos)
			continue
		}

		r := t.findOrCreateReassembler(p.PageID, p.Len, currentTick)
		if r == nil {
			t.counters.PacketsInTimedOut++
			t.trace.AddTrace(currentTick, t.addr, "in_drop_reassembler_conflict", p.PageID, p.Pos)
			continue
		}
		if !r.Add(p) {
			t.counters.PacketsInDropped++
			t.trace.AddTrace(currentTick, t.addr, "in_drop_duplicate", p.PageID, p.Pos)
			continue
		}
		t.trace.AddTrace(currentTick, t.addr, "in_reassemble", p.PageID, p.Pos)

		if r.IsComplete() {
			t.counters.PacketsSuccProcessed += uint64(r.Total)
			delete(t.reassemblers, p.PageID)
			t.counters.PagesCompleted++
			t.trace.AddTrace(currentTick, t.addr, "page_complete", p.PageID, p.Pos)
			t.log.WithField("page", p.PageID).Debug("page completed")
		}
	}
	return processed
}

// ProcessOut dequeues up to outBW packets from the out-buffer and hands
// each, if not expired, to the connected router.
func (t *Terminal) ProcessOut(currentTick uint64) int {
	sent := 0
	dequeued := 0
	for withinBandwidth(dequeued, t.outBW) && !t.outBuffer.IsEmpty() {
		p, err := t.outBuffer.Dequeue()
		if err != nil {
			break
		}
		dequeued++
		if p.Expired(currentTick) {
			t.counters.PacketsOutTimedOut++
			t.trace.AddTrace(currentTick, t.addr, "out_timeout", p.PageID, p.Pos)
			continue
		}
		t.router.ReceivePacket(p)
		t.counters.PacketsSent++
		t.trace.AddTrace(currentTick, t.addr, "out_send", p.PageID, p.Pos)
		sent++
	}
	return sent
}

// Tick advances the terminal by one integer tick: purge expired
// quarantine entries, abandon expired reassemblers (quarantining their
// page id), then process outbound and inbound traffic.
func (t *Terminal) Tick(currentTick uint64) {
	t.lastTick = currentTick

	for pageID, expiry := range t.quarantine {
		if expiry <= currentTick {
			delete(t.quarantine, pageID)
		}
	}

	for pageID, r := range t.reassemblers {
		if r.Expired(currentTick) {
			t.counters.PagesTimedOut++
			t.counters.PacketsInTimedOut += uint64(r.ReceivedCount)
			delete(t.reassemblers, pageID)
			t.quarantine[pageID] = currentTick + t.packetTTL
			t.trace.AddTrace(currentTick, t.addr, "page_reassembly_timeout", pageID, 0)
			t.log.WithField("page", pageID).Debug("reassembler expired, quarantined")
		}
	}

	t.ProcessOut(currentTick)
	t.ProcessIn(currentTick)
}
