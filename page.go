package packetnet

// page.go defines Page, the logical message that fragments into exactly
// Len packets and reconstructs from an ordered packet sequence.

// Page is the logical message a Terminal sends and receives; it is never
// itself transported — only its fragmentation into Packets is.
type Page struct {
	PageID uint64
	Len    uint32
	Src    Address
	Dst    Address
}

// NewPage builds a page descriptor, validating Len > 0 and that Src/Dst
// are valid terminal addresses.
func NewPage(pageID uint64, length uint32, src, dst Address) (Page, error) {
	if length == 0 {
		return Page{}, invalidArgf("page length must be > 0")
	}
	if !src.IsValid() || !src.IsTerminal() {
		return Page{}, invalidArgf("page source %s is not a valid terminal address", src)
	}
	if !dst.IsValid() || !dst.IsTerminal() {
		return Page{}, invalidArgf("page destination %s is not a valid terminal address", dst)
	}
	return Page{PageID: pageID, Len: length, Src: src, Dst: dst}, nil
}

// Fragment splits p into exactly p.Len packets, one per position in
// [0, p.Len), each carrying deadlineTick.
func (p Page) Fragment(deadlineTick uint64) ([]Packet, error) {
	packets := make([]Packet, p.Len)
	for i := uint32(0); i < p.Len; i++ {
		pkt, err := NewPacket(p.PageID, i, p.Len, p.Src, p.Dst, deadlineTick)
		if err != nil {
			return nil, err
		}
		packets[i] = pkt
	}
	return packets, nil
}

// ReconstructPage rebuilds a Page from a sequence of packets that must
// present positions 0..len-1 in order and agree on (PageID, Len, Src, Dst).
func ReconstructPage(packets []Packet) (Page, error) {
	if len(packets) == 0 {
		return Page{}, invalidArgf("cannot reconstruct a page from zero packets")
	}
	first := packets[0]
	if uint32(len(packets)) != first.Len {
		return Page{}, invalidArgf("packet count %d does not match declared length %d", len(packets), first.Len)
	}
	for i, pkt := range packets {
		if pkt.PageID != first.PageID || pkt.Len != first.Len || pkt.Src != first.Src || pkt.Dst != first.Dst {
			return Page{}, invalidArgf("packet %d disagrees with page identity", i)
		}
		if pkt.Pos != uint32(i) {
			return Page{}, invalidArgf("packet at index %d carries position %d, want %d", i, pkt.Pos, i)
		}
	}
	return Page{PageID: first.PageID, Len: first.Len, Src: first.Src, Dst: first.Dst}, nil
}
