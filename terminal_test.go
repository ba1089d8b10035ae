package packetnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTerminalRouter(t *testing.T, routerID, terminalID uint8) (*Router, *Terminal) {
	t.Helper()
	r, err := NewRouter(NewAddress(routerID, 0), DefaultRouterConfig(), nil, nil)
	require.NoError(t, err)
	term, err := NewTerminal(NewAddress(routerID, terminalID), r, DefaultTerminalConfig(), DefaultPacketTTL, DefaultMaxAssemblerTTL, nil, nil)
	require.NoError(t, err)
	require.NoError(t, r.ConnectTerminal(term))
	return r, term
}

func TestTerminalSendPageAllOrNothing(t *testing.T) {
	_, term := mustTerminalRouter(t, 5, 1)
	require.NoError(t, term.outBuffer.SetCapacity(3))

	ok := term.SendPage(3, NewAddress(9, 1), 1000)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), term.Counters().PagesCreated)
	assert.Equal(t, uint64(1), term.Counters().PagesSent)
	assert.Equal(t, uint64(3), term.Counters().PacketsGenerated)

	ok = term.SendPage(5, NewAddress(9, 1), 1000)
	assert.False(t, ok)
	assert.Equal(t, uint64(2), term.Counters().PagesCreated)
	assert.Equal(t, uint64(1), term.Counters().PagesDropped)
	assert.Equal(t, uint64(5), term.Counters().PacketsOutDropped)
}

// TestTerminalQuarantine exercises §8 scenario 7: a reassembler abandoned
// after MAX_ASSEMBLER_TTL quarantines its page id for PACKET_TTL ticks.
func TestTerminalQuarantine(t *testing.T) {
	_, term := mustTerminalRouter(t, 5, 1)

	p, err := NewPacket(77, 0, 10, NewAddress(9, 1), term.Addr(), 10_000)
	require.NoError(t, err)
	require.True(t, term.ReceivePacket(p))
	term.Tick(1)
	require.Equal(t, uint64(1), term.Counters().PacketsReceived)

	abandonTick := uint64(1 + DefaultMaxAssemblerTTL + 1)
	term.Tick(abandonTick)

	assert.Equal(t, uint64(1), term.Counters().PagesTimedOut)
	assert.Equal(t, uint64(1), term.Counters().PacketsInTimedOut)

	rejected, err := NewPacket(77, 1, 10, NewAddress(9, 1), term.Addr(), abandonTick+10_000)
	require.NoError(t, err)
	ok := term.ReceivePacket(rejected)
	assert.False(t, ok)
	assert.Equal(t, uint64(2), term.Counters().PacketsInTimedOut)

	afterQuarantine := abandonTick + DefaultPacketTTL + 1
	term.Tick(afterQuarantine)
	accepted, err := NewPacket(77, 1, 10, NewAddress(9, 1), term.Addr(), afterQuarantine+10_000)
	require.NoError(t, err)
	ok = term.ReceivePacket(accepted)
	assert.True(t, ok)
}

func TestTerminalReceivePacketRejectsWhenBufferFull(t *testing.T) {
	_, term := mustTerminalRouter(t, 5, 1)
	require.NoError(t, term.inBuffer.SetCapacity(1))

	p1, err := NewPacket(1, 0, 2, NewAddress(9, 1), term.Addr(), 1000)
	require.NoError(t, err)
	p2, err := NewPacket(1, 1, 2, NewAddress(9, 1), term.Addr(), 1000)
	require.NoError(t, err)

	assert.True(t, term.ReceivePacket(p1))
	assert.False(t, term.ReceivePacket(p2))
	assert.Equal(t, uint64(1), term.Counters().PacketsInDropped)
}
