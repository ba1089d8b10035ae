// Package sim provides default, swappable implementations of the
// collaborator interfaces packetnet's core declares but does not
// implement: a text Reporter, a random TopologyBuilder, and a
// probability-gated TrafficSource.
package sim

import (
	"fmt"
	"io"

	"github.com/iti/packetnet"
)

// TextReporter renders a packetnet.Report as a fixed-width bordered block,
// adapted from the bordered report the original admin console printed
// (see DESIGN.md).
type TextReporter struct {
	Out io.Writer
}

// NewTextReporter constructs a TextReporter writing to out.
func NewTextReporter(out io.Writer) *TextReporter {
	return &TextReporter{Out: out}
}

const reportWidth = 38

func reportLine(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "| %-18s%18v |\n", label, value)
}

// Render writes rpt to the reporter's Out as a bordered text block.
func (tr *TextReporter) Render(rpt packetnet.Report) {
	w := tr.Out
	border := "+" + repeat('-', reportWidth) + "+"
	fmt.Fprintln(w, border)
	fmt.Fprintln(w, "| NETWORK REPORT"+repeat(' ', reportWidth-15)+"|")
	fmt.Fprintln(w, border)
	reportLine(w, "Tick:", rpt.CurrentTick)
	reportLine(w, "Routers:", rpt.TotalRouters)
	reportLine(w, "Terminals:", rpt.TotalTerminals)
	fmt.Fprintln(w, border)
	fmt.Fprintln(w, "| PACKETS"+repeat(' ', reportWidth-8)+"|")
	reportLine(w, "  Generated:", rpt.PacketsGenerated)
	reportLine(w, "  Sent:", rpt.PacketsSent)
	reportLine(w, "  Delivered:", rpt.PacketsDelivered)
	reportLine(w, "  Dropped:", rpt.PacketsDropped)
	reportLine(w, "  Timed out:", rpt.PacketsTimedOut)
	reportLine(w, "  In flight:", rpt.PacketsInFlight)
	fmt.Fprintln(w, border)
	fmt.Fprintln(w, "| PAGES"+repeat(' ', reportWidth-6)+"|")
	reportLine(w, "  Created:", rpt.PagesCreated)
	reportLine(w, "  Completed:", rpt.PagesCompleted)
	reportLine(w, "  Dropped:", rpt.PagesDropped)
	reportLine(w, "  Timed out:", rpt.PagesTimedOut)
	fmt.Fprintln(w, border)
	fmt.Fprintln(w, "| RATES"+repeat(' ', reportWidth-6)+"|")
	reportLine(w, "  Delivery rate:", fmt.Sprintf("%.1f%%", rpt.DeliveryRate()*100))
	reportLine(w, "  Success rate:", fmt.Sprintf("%.1f%%", rpt.SuccessRate()*100))
	reportLine(w, "  Drop rate:", fmt.Sprintf("%.1f%%", rpt.DropRate()*100))
	fmt.Fprintln(w, border)
}

func repeat(c byte, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = c
	}
	return string(b)
}

// RunFor advances net by ticks ticks, offering traffic through source
// before each tick and calling reporter.Render every reportInterval ticks
// (0 disables periodic reporting), mirroring the original admin console's
// runFor/printReport pairing. Unlike calling net.Simulate once per tick,
// routing tables are recomputed only every RouteRefreshTicks (plus once at
// the end), not on every tick.
func RunFor(net *packetnet.Network, source packetnet.TrafficSource, reporter packetnet.Reporter, ticks, reportInterval uint64) {
	cfg := net.Config()
	refresh := cfg.RouteRefreshTicks
	for i := uint64(1); i <= ticks; i++ {
		if source != nil {
			DriveTraffic(net, source, net.CurrentTick(), cfg.PacketTTL)
		}
		net.Tick()
		if refresh > 0 && net.CurrentTick()%refresh == 0 {
			net.RecomputeRoutes()
		}
		if reportInterval > 0 && i%reportInterval == 0 && reporter != nil {
			reporter.Render(net.Report())
		}
	}
	net.RecomputeRoutes()
}
