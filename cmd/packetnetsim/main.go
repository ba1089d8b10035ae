// Command packetnetsim drives a packetnet.Network through its default
// collaborators: a random topology, random per-tick traffic, and a
// bordered text report, wired together the way the teacher's command
// wrappers wire a config file to a run.
package main

import (
	"fmt"
	"os"

	"github.com/iti/packetnet"
	"github.com/iti/packetnet/internal/sim"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	seedName   string
	ticks      uint64
	reportEach uint64
	verbose    bool
	traceFile  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "packetnetsim",
		Short: "Run a tick-driven packet-switched network simulation",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML or JSON config file (defaults built in if omitted)")
	root.PersistentFlags().StringVar(&seedName, "seed", "packetnetsim", "RNG seed name for topology and traffic generation")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	root.PersistentFlags().StringVar(&traceFile, "trace-file", "", "write a packet-level trace (YAML or JSON, by extension) to this path")

	root.AddCommand(newRunCmd())
	root.AddCommand(newReportCmd())
	return root
}

func loadConfig() (packetnet.Config, error) {
	if configPath == "" {
		return packetnet.DefaultConfig(), nil
	}
	return packetnet.LoadConfig(configPath)
}

func setupLogging() {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// newTrace constructs a TraceManager active only when --trace-file was
// given, so an unset flag costs nothing at runtime (TraceManager.AddTrace
// is a no-op against an inactive manager).
func newTrace() *packetnet.TraceManager {
	return packetnet.NewTraceManager(seedName, traceFile != "")
}

func buildAndRun(cmd *cobra.Command, reporter packetnet.Reporter) (*packetnet.Network, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	setupLogging()

	trace := newTrace()
	builder := sim.NewRandomTopologyBuilder(seedName)
	builder.Trace = trace
	net, err := builder.Build(cfg)
	if err != nil {
		return nil, err
	}

	addrBook := make([]packetnet.Address, 0)
	for _, t := range net.AllTerminals() {
		addrBook = append(addrBook, t.Addr())
	}
	traffic := sim.NewRandomTrafficSource(seedName+"-traffic", cfg, addrBook)

	sim.RunFor(net, traffic, reporter, ticks, reportEach)

	if traceFile != "" {
		if _, err := trace.WriteToFile(traceFile); err != nil {
			return nil, err
		}
	}
	return net, nil
}

func newRunCmd() *cobra.Command {
	run := &cobra.Command{
		Use:   "run",
		Short: "Build a random topology and run the simulation, printing periodic reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			reporter := sim.NewTextReporter(cmd.OutOrStdout())
			net, err := buildAndRun(cmd, reporter)
			if err != nil {
				return err
			}
			reporter.Render(net.Report())
			return nil
		},
	}
	run.Flags().Uint64Var(&ticks, "ticks", 200, "number of ticks to simulate")
	run.Flags().Uint64Var(&reportEach, "report-every", 50, "print a report every N ticks (0 disables periodic reports)")
	return run
}

// newReportCmd runs the simulation silently and prints exactly one report
// at the end, for scripted use where periodic output is unwanted.
func newReportCmd() *cobra.Command {
	report := &cobra.Command{
		Use:   "report",
		Short: "Build a random topology, run the simulation, and print a single final report",
		RunE: func(cmd *cobra.Command, args []string) error {
			reportEach = 0
			net, err := buildAndRun(cmd, nil)
			if err != nil {
				return err
			}
			sim.NewTextReporter(cmd.OutOrStdout()).Render(net.Report())
			return nil
		},
	}
	report.Flags().Uint64Var(&ticks, "ticks", 200, "number of ticks to simulate")
	return report
}
