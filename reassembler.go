package packetnet

// reassembler.go defines Reassembler, the per-page slot table a Terminal
// uses to accumulate fragments and emit a complete ordered sequence.

// Reassembler accepts packets for a single page at their declared
// position and reports completion once every slot is filled. A slot is
// filled at most once; duplicates are silently rejected, not an error.
// The reassembler records insertion into slots, not insertion order;
// ordering is reconstructed on Package.
type Reassembler struct {
	PageID        uint64
	Total         uint32
	ReceivedCount uint32
	DeadlineTick  uint64
	slots         []*Packet
}

// NewReassembler constructs a reassembler for total fragments, failing if
// total == 0.
func NewReassembler(pageID uint64, total uint32, deadlineTick uint64) (*Reassembler, error) {
	if total == 0 {
		return nil, invalidArgf("reassembler total must be > 0")
	}
	return &Reassembler{
		PageID:       pageID,
		Total:        total,
		DeadlineTick: deadlineTick,
		slots:        make([]*Packet, total),
	}, nil
}

// Add accepts packet into its slot. It returns false (without mutating
// state) if the packet belongs to a different page, disagrees on total
// length, carries an out-of-range position, or the slot is already filled.
func (r *Reassembler) Add(p Packet) bool {
	if p.PageID != r.PageID || p.Len != r.Total || p.Pos >= r.Total {
		return false
	}
	if r.slots[p.Pos] != nil {
		return false
	}
	r.slots[p.Pos] = &p
	r.ReceivedCount++
	return true
}

// IsComplete reports whether every slot has been filled.
func (r *Reassembler) IsComplete() bool {
	return r.ReceivedCount == r.Total
}

// Remaining returns the number of slots still unfilled.
func (r *Reassembler) Remaining() uint32 {
	return r.Total - r.ReceivedCount
}

// HasAt reports whether the slot at pos has been filled.
func (r *Reassembler) HasAt(pos uint32) bool {
	return pos < r.Total && r.slots[pos] != nil
}

// Package returns the ordered packet sequence and resets the reassembler's
// state. It fails with ErrIncompletePackage if any slot is still empty.
func (r *Reassembler) Package() ([]Packet, error) {
	if !r.IsComplete() {
		return nil, ErrIncompletePackage
	}
	ordered := make([]Packet, r.Total)
	for i, slot := range r.slots {
		if slot == nil {
			// IsComplete guarantees every slot is filled; a nil slot here
			// means ReceivedCount and the slot array disagree.
			panic("reassembler reports complete but slot is empty")
		}
		ordered[i] = *slot
	}
	r.Reset()
	return ordered, nil
}

// Reset clears every slot and the received count, leaving PageID/Total/
// DeadlineTick untouched.
func (r *Reassembler) Reset() {
	for i := range r.slots {
		r.slots[i] = nil
	}
	r.ReceivedCount = 0
}

// Expired reports whether currentTick has reached or passed the
// reassembler's own deadline.
func (r *Reassembler) Expired(currentTick uint64) bool {
	return currentTick >= r.DeadlineTick
}
