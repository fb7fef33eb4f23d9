// Package metrics derives metric records from a printer Snapshot.
//
// Derive is a pure function: given the current cycle's Snapshot it returns
// the info, gauge and state records for that printer, computed fresh every
// cycle. Nothing is cached between cycles, so a gauge whose source field is
// absent simply produces no sample, and job records disappear the moment the
// printer leaves an active state instead of freezing at their last value.
//
// The state record encodes the printer state as one boolean sample per
// member of a fixed 10-value enumeration, exactly one of which is 1.
// TODO: switch to a native stateset family if the exposition format grows
// one; the per-state sample semantics must survive for existing consumers.
package metrics
