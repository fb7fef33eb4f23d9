package metrics

import (
	"github.com/mmanjos/prometheus-prusalink-exporter/internal/prusalink"
)

// Field is one descriptive key/value exposed as a label. Records carry
// fields as an ordered slice so rendering is reproducible within a cycle.
type Field struct {
	Key   string
	Value string
}

// InfoRecord is descriptive metadata exposed as labels on a constant-1
// sample (firmware versions, active job filename).
type InfoRecord struct {
	Name   string
	Help   string
	Fields []Field
}

// GaugeRecord is one numeric sample. A nil Value means the source field was
// absent this cycle and the sample must be omitted — not reported as zero.
type GaugeRecord struct {
	Name  string
	Help  string
	Value *float64
}

// StateRecord encodes an enumerated state as one boolean sample per possible
// state name. Current is the single state whose sample is 1.
type StateRecord struct {
	Name    string
	Help    string
	States  []string
	Current string
}

// Records is everything derived from one printer in one cycle.
type Records struct {
	Infos  []InfoRecord
	Gauges []GaugeRecord
	States []StateRecord
}

// Labels is the per-printer identity attached to every sample.
type Labels struct {
	Printer string
	// Serial is empty when the printer is Down; the serial number comes from
	// the info resource and must never be carried over from a previous cycle.
	Serial string
}

// LabelsFor derives the label set for one printer from the current snapshot.
func LabelsFor(host string, snap *prusalink.Snapshot) Labels {
	return Labels{Printer: host, Serial: snap.Serial()}
}
