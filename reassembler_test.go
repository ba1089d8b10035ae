package packetnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReassemblerRoundTripShuffled(t *testing.T) {
	src := NewAddress(20, 15)
	dst := NewAddress(10, 5)
	page, err := NewPage(42, 5, src, dst)
	require.NoError(t, err)
	packets, err := page.Fragment(10)
	require.NoError(t, err)

	r, err := NewReassembler(42, 5, 250)
	require.NoError(t, err)

	order := []int{3, 0, 4, 1, 2}
	for _, idx := range order {
		ok := r.Add(packets[idx])
		assert.True(t, ok)
	}
	require.True(t, r.IsComplete())

	ordered, err := r.Package()
	require.NoError(t, err)
	for i, p := range ordered {
		assert.Equal(t, uint32(i), p.Pos)
	}
	got, err := ReconstructPage(ordered)
	require.NoError(t, err)
	assert.Equal(t, page, got)
}

func TestReassemblerRejectsDuplicateSilently(t *testing.T) {
	r, err := NewReassembler(1, 3, 100)
	require.NoError(t, err)
	p, _ := NewPacket(1, 0, 3, NewAddress(1, 1), NewAddress(2, 1), 50)

	assert.True(t, r.Add(p))
	assert.False(t, r.Add(p))
	assert.Equal(t, uint32(1), r.ReceivedCount)
}

func TestReassemblerPackageFailsIncomplete(t *testing.T) {
	r, err := NewReassembler(1, 3, 100)
	require.NoError(t, err)
	_, err = r.Package()
	assert.ErrorIs(t, err, ErrIncompletePackage)
}

func TestNewReassemblerRejectsZeroTotal(t *testing.T) {
	_, err := NewReassembler(1, 0, 100)
	assert.Error(t, err)
}

func TestReassemblerExpired(t *testing.T) {
	r, err := NewReassembler(1, 3, 250)
	require.NoError(t, err)
	assert.False(t, r.Expired(249))
	assert.True(t, r.Expired(250))
}
