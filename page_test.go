package packetnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageFragmentReconstructRoundTrip(t *testing.T) {
	src := NewAddress(20, 15)
	dst := NewAddress(10, 5)
	page, err := NewPage(42, 5, src, dst)
	require.NoError(t, err)

	packets, err := page.Fragment(10)
	require.NoError(t, err)
	require.Len(t, packets, 5)

	seen := map[uint32]bool{}
	for _, p := range packets {
		assert.False(t, seen[p.Pos], "position %d repeated", p.Pos)
		seen[p.Pos] = true
		assert.Less(t, p.Pos, p.Len)
	}
	for i := uint32(0); i < 5; i++ {
		assert.True(t, seen[i], "missing position %d", i)
	}

	// shuffle then restore order before reconstructing; Page.Fragment itself
	// always returns packets in order, so build a shuffled copy here.
	shuffled := []Packet{packets[3], packets[0], packets[4], packets[1], packets[2]}
	ordered := make([]Packet, 5)
	for _, p := range shuffled {
		ordered[p.Pos] = p
	}

	got, err := ReconstructPage(ordered)
	require.NoError(t, err)
	assert.Equal(t, page, got)
}

func TestNewPageRejectsZeroLength(t *testing.T) {
	_, err := NewPage(1, 0, NewAddress(1, 1), NewAddress(2, 1))
	require.Error(t, err)
}

func TestReconstructPageRejectsMismatchedIdentity(t *testing.T) {
	a := NewAddress(1, 1)
	b := NewAddress(2, 1)
	p0, _ := NewPacket(1, 0, 2, a, b, 10)
	p1, _ := NewPacket(2, 1, 2, a, b, 10)
	_, err := ReconstructPage([]Packet{p0, p1})
	require.Error(t, err)
}

func TestReconstructPageRejectsOutOfOrder(t *testing.T) {
	a := NewAddress(1, 1)
	b := NewAddress(2, 1)
	p0, _ := NewPacket(1, 0, 2, a, b, 10)
	p1, _ := NewPacket(1, 1, 2, a, b, 10)
	_, err := ReconstructPage([]Packet{p1, p0})
	require.Error(t, err)
}
