package packetnet

// config.go collects the run-time configuration recognized by the core,
// following the teacher's *Desc pattern of yaml/json-tagged structs with
// codec-by-extension load/save helpers (see desc-topo.go's
// ReadDevExecList/WriteToFile in the teacher repo).

import (
	"encoding/json"
	"os"
	"path"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Defaults for the handful of constants spec.md pins by name.
const (
	DefaultPacketTTL         = 100
	DefaultMaxAssemblerTTL   = 250
	DefaultRouteRefreshTicks = 5
)

// RouterConfig bounds the per-stage bandwidth and buffer capacity of a
// Router. A capacity of 0 means unbounded.
type RouterConfig struct {
	InBufferCap    int `json:"inBufferCap" yaml:"inBufferCap"`
	InProcCap      int `json:"inProcCap" yaml:"inProcCap"`
	LocalBufferCap int `json:"localBufferCap" yaml:"localBufferCap"`
	LocalBW        int `json:"localBW" yaml:"localBW"`
	OutBufferCap   int `json:"outBufferCap" yaml:"outBufferCap"`
	OutBW          int `json:"outBW" yaml:"outBW"`
}

// DefaultRouterConfig returns reasonable unbounded-capacity, modest
// bandwidth defaults, suitable for small demo topologies.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		InBufferCap:    0,
		InProcCap:      8,
		LocalBufferCap: 0,
		LocalBW:        8,
		OutBufferCap:   0,
		OutBW:          8,
	}
}

// TerminalConfig bounds the per-stage bandwidth and buffer capacity of a
// Terminal. A capacity of 0 means unbounded.
type TerminalConfig struct {
	InBufferCap  int `json:"inBufferCap" yaml:"inBufferCap"`
	InProcCap    int `json:"inProcCap" yaml:"inProcCap"`
	OutBufferCap int `json:"outBufferCap" yaml:"outBufferCap"`
	OutBW        int `json:"outBW" yaml:"outBW"`
}

// DefaultTerminalConfig returns reasonable unbounded-capacity, modest
// bandwidth defaults.
func DefaultTerminalConfig() TerminalConfig {
	return TerminalConfig{
		InBufferCap:  0,
		InProcCap:    4,
		OutBufferCap: 0,
		OutBW:        4,
	}
}

// Config is the top-level simulation configuration recognized by the core
// and its default collaborators, per the Configuration table in §6.
type Config struct {
	RouterCount        int     `json:"routerCount" yaml:"routerCount"`
	MaxTerminalCount   int     `json:"maxTerminalCount" yaml:"maxTerminalCount"`
	Complexity         int     `json:"complexity" yaml:"complexity"`
	TrafficProbability float64 `json:"trafficProbability" yaml:"trafficProbability"`
	MaxPageLen         int     `json:"maxPageLen" yaml:"maxPageLen"`

	PacketTTL         uint64 `json:"packetTTL" yaml:"packetTTL"`
	MaxAssemblerTTL   uint64 `json:"maxAssemblerTTL" yaml:"maxAssemblerTTL"`
	RouteRefreshTicks uint64 `json:"routeRefreshTicks" yaml:"routeRefreshTicks"`

	Router   RouterConfig   `json:"router" yaml:"router"`
	Terminal TerminalConfig `json:"terminal" yaml:"terminal"`
}

// DefaultConfig returns a Config populated with spec.md's documented
// defaults, suitable as a starting point for a scripted or randomly
// generated topology.
func DefaultConfig() Config {
	return Config{
		RouterCount:        8,
		MaxTerminalCount:   4,
		Complexity:         1,
		TrafficProbability: 0.1,
		MaxPageLen:         10,
		PacketTTL:          DefaultPacketTTL,
		MaxAssemblerTTL:    DefaultMaxAssemblerTTL,
		RouteRefreshTicks:  DefaultRouteRefreshTicks,
		Router:             DefaultRouterConfig(),
		Terminal:           DefaultTerminalConfig(),
	}
}

// LoadConfig reads a Config from filename, selecting YAML or JSON
// deserialization by file extension.
func LoadConfig(filename string) (Config, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", filename)
	}

	cfg := DefaultConfig()
	switch ext := path.Ext(filename); ext {
	case ".yaml", ".yml", ".YAML":
		err = yaml.Unmarshal(raw, &cfg)
	case ".json", ".JSON":
		err = json.Unmarshal(raw, &cfg)
	default:
		return Config{}, errors.Errorf("unrecognized config extension %q", ext)
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "parsing config %s", filename)
	}
	return cfg, nil
}

// WriteToFile serializes cfg to filename, selecting YAML or JSON by
// extension.
func (cfg Config) WriteToFile(filename string) error {
	var raw []byte
	var err error

	switch ext := path.Ext(filename); ext {
	case ".yaml", ".yml", ".YAML":
		raw, err = yaml.Marshal(cfg)
	case ".json", ".JSON":
		raw, err = json.MarshalIndent(cfg, "", "\t")
	default:
		return errors.Errorf("unrecognized config extension %q", ext)
	}
	if err != nil {
		return errors.Wrapf(err, "marshaling config")
	}
	return os.WriteFile(filename, raw, 0o644)
}
