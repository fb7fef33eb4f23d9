// Package collector fans a scrape out to every configured printer and merges
// the per-printer records into Prometheus metric families.
//
// Collector implements prometheus.Gatherer, so promhttp drives one full
// refresh-and-render pass per inbound scrape request. All printers refresh in
// parallel; rendering starts only after the last one finishes, so one
// response never mixes data from two cycles. The family accumulator is local
// to each Gather call — overlapping scrapes cannot share state, and nothing
// accumulates across cycles.
package collector
