package metrics

import (
	"strconv"

	"github.com/mmanjos/prometheus-prusalink-exporter/internal/prusalink"
)

// PrinterStates is the fixed enumeration of states PrusaLink reports.
// UNKNOWN doubles as the fallback when the status resource omits the field.
var PrinterStates = []string{
	"IDLE",
	"BUSY",
	"PRINTING",
	"PAUSED",
	"FINISHED",
	"STOPPED",
	"ERROR",
	"ATTENTION",
	"READY",
	"UNKNOWN",
}

// inactiveStates are the states in which no job is running. Job timing
// fields are meaningless outside an active job, so the job records are
// suppressed entirely rather than left frozen at their last value.
var inactiveStates = map[string]bool{
	"IDLE":     true,
	"FINISHED": true,
	"STOPPED":  true,
	"UNKNOWN":  true,
}

// Derive maps one cycle's Snapshot to metric records. For a Down printer it
// returns empty records — only the scrape-success gauge represents a dead
// printer, with no gauges to go stale.
func Derive(snap *prusalink.Snapshot) Records {
	if snap == nil || !snap.Up {
		return Records{}
	}

	state := snap.String("UNKNOWN", "status", "printer", "state")

	rec := Records{
		Infos: []InfoRecord{
			{
				Name: "prusalink_server_firmware_version",
				Help: "Prusa Firmware Running on the Printer",
				Fields: []Field{
					{"version", snap.String("Unknown", "version", "server")},
					{"api", snap.String("Unknown", "version", "api")},
				},
			},
		},
		States: []StateRecord{
			{
				Name:    "prusalink_printer_state",
				Help:    "Current Printer State",
				States:  PrinterStates,
				Current: state,
			},
		},
		Gauges: []GaugeRecord{
			{
				Name:  "prusalink_nozzle_diameter",
				Help:  "Nozzle Diameter in mm",
				Value: floatAt(snap, "info", "nozzle_diameter"),
			},
			{
				Name:  "prusalink_speed",
				Help:  "Current Printer Configured Speed in Percent",
				Value: floatAt(snap, "status", "printer", "speed"),
			},
			{
				Name:  "prusalink_flow_rate",
				Help:  "Current Printer Configured Flow Rate in Percent",
				Value: floatAt(snap, "status", "printer", "flow"),
			},
			{
				Name:  "prusalink_bed_temp_current",
				Help:  "Current Printer Bed Temperature in Celcius",
				Value: floatAt(snap, "status", "printer", "temp_bed"),
			},
			{
				Name:  "prusalink_bed_temp_desired",
				Help:  "Set (Desired) Printer Bed Temperature in Celcius",
				Value: floatAt(snap, "status", "printer", "target_bed"),
			},
			{
				Name:  "prusalink_nozzle_temp_current",
				Help:  "Current Extruder Nozzle Temperature in Celcius",
				Value: floatAt(snap, "status", "printer", "temp_nozzle"),
			},
			{
				Name:  "prusalink_nozzle_temp_desired",
				Help:  "Set (Desired) Extruder Nozzle Temperature in Celcius",
				Value: floatAt(snap, "status", "printer", "target_nozzle"),
			},
			{
				Name:  "prusalink_axis_z",
				Help:  "Current Z Axis Position in mm",
				Value: floatAt(snap, "status", "printer", "axis_z"),
			},
		},
	}

	if !inactiveStates[state] {
		rec.Gauges = append(rec.Gauges,
			GaugeRecord{
				Name:  "prusalink_job_progress",
				Help:  "Current Job Progress in Percent",
				Value: floatAt(snap, "job", "progress"),
			},
			GaugeRecord{
				Name:  "prusalink_job_time_elapsed",
				Help:  "Current Job Elapsed Time Printing in Seconds",
				Value: floatAt(snap, "job", "time_printing"),
			},
			GaugeRecord{
				Name:  "prusalink_job_time_remaining",
				Help:  "Current Job Time Remaining in Seconds",
				Value: floatAt(snap, "job", "time_remaining"),
			},
		)
		rec.Infos = append(rec.Infos, InfoRecord{
			Name: "prusalink_job",
			Help: "Information on the Current Active Job",
			Fields: []Field{
				{"filename", snap.String("Unknown", "job", "file", "display_name")},
				// File size is descriptive metadata, not a time series: it is
				// rendered as a decimal string label on the info record.
				{"filesize", filesizeLabel(snap)},
			},
		})
	}

	return rec
}

func floatAt(snap *prusalink.Snapshot, keys ...any) *float64 {
	v, ok := snap.Float(keys...)
	if !ok {
		return nil
	}
	return &v
}

func filesizeLabel(snap *prusalink.Snapshot) string {
	v, ok := snap.Float("job", "file", "size")
	if !ok {
		return "Unknown"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
