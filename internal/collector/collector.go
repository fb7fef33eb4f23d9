package collector

import (
	"context"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"google.golang.org/protobuf/proto"

	"github.com/mmanjos/prometheus-prusalink-exporter/internal/metrics"
	"github.com/mmanjos/prometheus-prusalink-exporter/internal/prusalink"
)

const scrapeSuccessHelp = "Indicates if the scrape from the printer was successful"

// Collector holds the configured printer clients and renders their state as
// metric families. The client list is only replaced wholesale (config
// reload); individual clients are immutable.
type Collector struct {
	mu      sync.RWMutex
	clients []*prusalink.Client
}

// New returns a Collector over the given printer clients.
func New(clients ...*prusalink.Client) *Collector {
	return &Collector{clients: clients}
}

// SetTargets replaces the printer list. Used when the config file is
// reloaded; a Gather already in flight keeps the list it started with.
func (c *Collector) SetTargets(clients []*prusalink.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clients = clients
}

// Targets returns the current printer list.
func (c *Collector) Targets() []*prusalink.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*prusalink.Client, len(c.clients))
	copy(out, c.clients)
	return out
}

// Gather implements prometheus.Gatherer. It refreshes every printer in
// parallel, waits for all of them, then merges the derived records into
// metric families keyed by name — created lazily the first time a name is
// seen in the pass. Families and samples come out in a stable order:
// the scrape-success gauge first, then families in first-seen order with
// printers in configured order.
func (c *Collector) Gather() ([]*dto.MetricFamily, error) {
	clients := c.Targets()

	snaps := make([]*prusalink.Snapshot, len(clients))
	var wg sync.WaitGroup
	for i, cl := range clients {
		wg.Add(1)
		go func(i int, cl *prusalink.Client) {
			defer wg.Done()
			snaps[i] = cl.Refresh(context.Background())
		}(i, cl)
	}
	// Rendering must not start until every printer finished its refresh.
	wg.Wait()

	fams := newFamilySet()
	for i, cl := range clients {
		snap := snaps[i]
		labels := metrics.LabelsFor(cl.Host(), snap)

		// Exactly one success sample per printer, Up or Down.
		fams.add("prusalink_scrape_successful", scrapeSuccessHelp,
			labelPairs(labels), boolValue(snap.Up))

		rec := metrics.Derive(snap)

		for _, g := range rec.Gauges {
			if g.Value == nil {
				// Source field absent this cycle — omit, don't report zero.
				continue
			}
			fams.add(g.Name, g.Help, labelPairs(labels), *g.Value)
		}

		for _, info := range rec.Infos {
			fams.add(info.Name+"_info", info.Help,
				labelPairs(labels, info.Fields...), 1)
		}

		for _, st := range rec.States {
			for _, state := range st.States {
				var v float64
				if state == st.Current {
					v = 1
				}
				fams.add(st.Name, st.Help,
					labelPairs(labels, metrics.Field{Key: "state", Value: state}), v)
			}
		}
	}

	return fams.families(), nil
}

func boolValue(up bool) float64 {
	if up {
		return 1
	}
	return 0
}

// labelPairs builds the label set for one sample: the printer's identity
// labels (serialnumber only while Up) followed by any record-specific fields.
func labelPairs(l metrics.Labels, extra ...metrics.Field) []*dto.LabelPair {
	pairs := make([]*dto.LabelPair, 0, 2+len(extra))
	pairs = append(pairs, &dto.LabelPair{
		Name:  proto.String("printer"),
		Value: proto.String(l.Printer),
	})
	if l.Serial != "" {
		pairs = append(pairs, &dto.LabelPair{
			Name:  proto.String("serialnumber"),
			Value: proto.String(l.Serial),
		})
	}
	for _, f := range extra {
		pairs = append(pairs, &dto.LabelPair{
			Name:  proto.String(f.Key),
			Value: proto.String(f.Value),
		})
	}
	return pairs
}

// familySet accumulates samples into metric families during one render pass.
// It lives and dies inside a single Gather call.
type familySet struct {
	byName map[string]*dto.MetricFamily
	order  []string
}

func newFamilySet() *familySet {
	return &familySet{byName: make(map[string]*dto.MetricFamily)}
}

func (f *familySet) add(name, help string, pairs []*dto.LabelPair, value float64) {
	mf, ok := f.byName[name]
	if !ok {
		mf = &dto.MetricFamily{
			Name: proto.String(name),
			Help: proto.String(help),
			Type: dto.MetricType_GAUGE.Enum(),
		}
		f.byName[name] = mf
		f.order = append(f.order, name)
	}
	mf.Metric = append(mf.Metric, &dto.Metric{
		Label: pairs,
		Gauge: &dto.Gauge{Value: proto.Float64(value)},
	})
}

func (f *familySet) families() []*dto.MetricFamily {
	out := make([]*dto.MetricFamily, 0, len(f.order))
	for _, name := range f.order {
		out = append(out, f.byName[name])
	}
	return out
}
