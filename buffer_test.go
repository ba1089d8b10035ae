package packetnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePacket(t *testing.T, pageID uint64, pos, length uint32) Packet {
	t.Helper()
	p, err := NewPacket(pageID, pos, length, NewAddress(1, 1), NewAddress(2, 1), 100)
	require.NoError(t, err)
	return p
}

func TestBufferDequeueEmptyReturnsErrEmpty(t *testing.T) {
	b := NewBuffer(InvalidAddress, 0)
	_, err := b.Dequeue()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestBufferCapacityRejection(t *testing.T) {
	b := NewBuffer(InvalidAddress, 3)
	for i := 0; i < 3; i++ {
		ok := b.Enqueue(samplePacket(t, 1, uint32(i), 4))
		require.True(t, ok)
	}
	ok := b.Enqueue(samplePacket(t, 1, 3, 4))
	assert.False(t, ok)
	assert.Equal(t, 3, b.Size())
}

func TestBufferFIFOOrder(t *testing.T) {
	b := NewBuffer(InvalidAddress, 0)
	a := samplePacket(t, 1, 0, 2)
	c := samplePacket(t, 1, 1, 2)
	b.Enqueue(a)
	b.Enqueue(c)

	got1, err := b.Dequeue()
	require.NoError(t, err)
	assert.True(t, got1.SameFragment(a))

	got2, err := b.Dequeue()
	require.NoError(t, err)
	assert.True(t, got2.SameFragment(c))
}

func TestBufferUnboundedNeverFull(t *testing.T) {
	b := NewBuffer(InvalidAddress, 0)
	assert.False(t, b.IsFull())
	assert.Equal(t, float64(0), b.Utilization())
}

func TestBufferSetCapacityRejectsShrinkBelowSize(t *testing.T) {
	b := NewBuffer(InvalidAddress, 0)
	b.Enqueue(samplePacket(t, 1, 0, 2))
	b.Enqueue(samplePacket(t, 1, 1, 2))
	err := b.SetCapacity(1)
	assert.Error(t, err)
	assert.Equal(t, 0, b.Capacity())
}

func TestBufferRemoveAtOutOfRange(t *testing.T) {
	b := NewBuffer(InvalidAddress, 0)
	_, err := b.RemoveAt(0)
	assert.ErrorIs(t, err, ErrOutOfRange)
}
