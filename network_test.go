package packetnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildLineNetwork(t *testing.T) *Network {
	t.Helper()
	cfg := DefaultConfig()
	cfg.RouterCount = 3
	net := NewNetwork(cfg, nil, nil)

	for i := uint8(1); i <= 3; i++ {
		_, err := net.AddRouter(i)
		require.NoError(t, err)
	}
	_, err := net.AddTerminal(1, 1)
	require.NoError(t, err)
	_, err = net.AddTerminal(3, 1)
	require.NoError(t, err)

	require.NoError(t, net.EstablishLink(NewAddress(1, 0), NewAddress(2, 0)))
	require.NoError(t, net.EstablishLink(NewAddress(2, 0), NewAddress(3, 0)))
	net.RecomputeRoutes()
	return net
}

func TestNetworkTickAdvancesCounter(t *testing.T) {
	net := buildLineNetwork(t)
	assert.Equal(t, uint64(1), net.CurrentTick())
	net.Tick()
	assert.Equal(t, uint64(2), net.CurrentTick())
}

func TestNetworkEstablishLinkSelfIsNoOp(t *testing.T) {
	net := buildLineNetwork(t)
	before := net.Routers()[NewAddress(1, 0)].Neighbors()
	require.NoError(t, net.EstablishLink(NewAddress(1, 0), NewAddress(1, 0)))
	after := net.Routers()[NewAddress(1, 0)].Neighbors()
	assert.Equal(t, before, after)
}

func TestNetworkSimulateDeliversAcrossLine(t *testing.T) {
	net := buildLineNetwork(t)
	src := net.Routers()[NewAddress(1, 0)].Terminals()[NewAddress(1, 1)]
	dst := net.Routers()[NewAddress(3, 0)].Terminals()[NewAddress(3, 1)]

	require.True(t, src.SendPage(1, dst.Addr(), 50))
	net.Simulate(10)

	rpt := net.Report()
	assert.Equal(t, uint64(1), rpt.PacketsGenerated)
	assert.Equal(t, uint64(1), rpt.PacketsDelivered)
	assert.Equal(t, uint64(1), rpt.PagesCompleted)
	assert.Equal(t, 1.0, rpt.DeliveryRate())
	assert.Equal(t, 1.0, rpt.SuccessRate())
}

func TestNetworkSimulateRecomputesRoutesPeriodically(t *testing.T) {
	net := buildLineNetwork(t)
	net.cfg.RouteRefreshTicks = 3

	r1 := net.Routers()[NewAddress(1, 0)]
	original := r1.RoutingTable()
	net.Simulate(3)
	assert.NotSame(t, original, r1.RoutingTable())
}
