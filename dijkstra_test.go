package packetnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRouter(t *testing.T, id uint8) *Router {
	t.Helper()
	r, err := NewRouter(NewAddress(id, 0), DefaultRouterConfig(), nil, nil)
	require.NoError(t, err)
	return r
}

func link(t *testing.T, a, b *Router) {
	t.Helper()
	require.NoError(t, a.ConnectRouter(b))
	require.NoError(t, b.ConnectRouter(a))
}

func TestDijkstraLineTopology(t *testing.T) {
	r1 := mustRouter(t, 1)
	r2 := mustRouter(t, 2)
	r3 := mustRouter(t, 3)
	link(t, r1, r2)
	link(t, r2, r3)

	table := ComputeRoutingTable([]*Router{r1, r2, r3}, r1.Addr())
	assert.Equal(t, 2, table.Size())
	assert.Equal(t, r2.Addr(), table.NextHop(r2.Addr()))
	assert.Equal(t, r2.Addr(), table.NextHop(r3.Addr()))
}

func TestDijkstraLoadAwareDiamond(t *testing.T) {
	r1 := mustRouter(t, 1)
	r2 := mustRouter(t, 2)
	r3 := mustRouter(t, 3)
	r4 := mustRouter(t, 4)
	link(t, r1, r2)
	link(t, r1, r3)
	link(t, r2, r4)
	link(t, r3, r4)
	link(t, r1, r4)

	preload := func(r *Router, nbr Address, n int) {
		for i := 0; i < n; i++ {
			p, err := NewPacket(1, 0, 1, NewAddress(9, 1), NewAddress(9, 1), 1000)
			require.NoError(t, err)
			r.neighborOut[nbr].Enqueue(p)
		}
	}
	preload(r1, r4.Addr(), 20)
	preload(r1, r2.Addr(), 5)

	table := ComputeRoutingTable([]*Router{r1, r2, r3, r4}, r1.Addr())
	assert.Equal(t, r3.Addr(), table.NextHop(r4.Addr()))
}

func TestDijkstraUnreachableRouterOmitted(t *testing.T) {
	r1 := mustRouter(t, 1)
	r2 := mustRouter(t, 2)
	isolated := mustRouter(t, 3)

	link(t, r1, r2)

	table := ComputeRoutingTable([]*Router{r1, r2, isolated}, r1.Addr())
	assert.Equal(t, 1, table.Size())
	assert.Equal(t, InvalidAddress, table.NextHop(isolated.Addr()))
}
