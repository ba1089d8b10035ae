package packetnet

// trace.go adapts the teacher's TraceManager (trace.go in ITI-mrnes) to the
// integer-tick model: an optional, in-memory, tick-indexed record of
// stage-level events, gated behind an InUse flag exactly like the
// teacher's, serializable to YAML/JSON for post-run analysis.

import (
	"encoding/json"
	"os"
	"path"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// TraceRecord captures one stage-level event: a packet crossing a buffer
// boundary, being dropped, or timing out.
type TraceRecord struct {
	Tick    uint64  `json:"tick" yaml:"tick"`
	ObjAddr Address `json:"objAddr" yaml:"objAddr"`
	Op      string  `json:"op" yaml:"op"`
	PageID  uint64  `json:"pageId" yaml:"pageId"`
	Pos     uint32  `json:"pos" yaml:"pos"`
}

// TraceManager gathers TraceRecords keyed by the address of the object
// being observed, exactly as the teacher's TraceManager keys by object id.
type TraceManager struct {
	InUse   bool                      `json:"inUse" yaml:"inUse"`
	ExpName string                    `json:"expName" yaml:"expName"`
	Traces  map[Address][]TraceRecord `json:"traces" yaml:"traces"`
}

// NewTraceManager constructs a trace manager for expName. When active is
// false, AddTrace is a no-op, matching the teacher's InUse gate.
func NewTraceManager(expName string, active bool) *TraceManager {
	return &TraceManager{
		InUse:   active,
		ExpName: expName,
		Traces:  make(map[Address][]TraceRecord),
	}
}

// Active reports whether the trace manager is actively recording.
func (tm *TraceManager) Active() bool {
	return tm != nil && tm.InUse
}

// AddTrace records one stage-level event, a no-op if the manager is
// inactive or nil.
func (tm *TraceManager) AddTrace(tick uint64, objAddr Address, op string, pageID uint64, pos uint32) {
	if !tm.Active() {
		return
	}
	tm.Traces[objAddr] = append(tm.Traces[objAddr], TraceRecord{
		Tick: tick, ObjAddr: objAddr, Op: op, PageID: pageID, Pos: pos,
	})
}

// WriteToFile serializes the gathered traces to filename, selecting YAML
// or JSON by extension. A no-op returning false if the manager is
// inactive.
func (tm *TraceManager) WriteToFile(filename string) (bool, error) {
	if !tm.Active() {
		return false, nil
	}
	var raw []byte
	var err error
	switch ext := path.Ext(filename); ext {
	case ".yaml", ".yml", ".YAML":
		raw, err = yaml.Marshal(tm)
	case ".json", ".JSON":
		raw, err = json.MarshalIndent(tm, "", "\t")
	default:
		return false, errors.Errorf("unrecognized trace extension %q", ext)
	}
	if err != nil {
		return false, errors.Wrapf(err, "marshaling trace")
	}
	if err := os.WriteFile(filename, raw, 0o644); err != nil {
		return false, errors.Wrapf(err, "writing trace file %s", filename)
	}
	return true, nil
}
