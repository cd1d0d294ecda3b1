package simulated

import (
	"context"

	"github.com/moratsam/logscan/eventlog"
	"github.com/moratsam/logscan/logset"
	"github.com/moratsam/logscan/snapshot"
)

var (
	// Compile-time checks for ensuring Receiver implements the capabilities
	// the core consumes.
	_ logset.Receiver        = (*Receiver)(nil)
	_ snapshot.SeqNoProvider = (*Receiver)(nil)
)

// Receiver implements a deterministic receiver that serves records straight
// from an event log store. It is the stand-in for the network-backed receiver
// in tests and single-node deployments; selection between the two is a
// deployment configuration concern.
type Receiver struct {
	log eventlog.Log
}

// NewReceiver returns a receiver that serves records from the provided log.
func NewReceiver(log eventlog.Log) *Receiver {
	return &Receiver{log: log}
}

// Receive returns the record of the partition addressed by coord whose
// sequence number is startSeqNo. The pre-fetch size hint is irrelevant for a
// local store and is ignored.
func (r *Receiver) Receive(_ context.Context, coord eventlog.Coordinate, startSeqNo, _ int64) (*eventlog.Record, error) {
	return r.log.Fetch(coord, startSeqNo)
}

// SeqNoBounds returns the available sequence number bounds of the partition
// addressed by coord.
func (r *Receiver) SeqNoBounds(coord eventlog.Coordinate) (int64, int64, error) {
	return r.log.SeqNoBounds(coord)
}

// Partitions returns the sorted list of partitions of the named log.
func (r *Receiver) Partitions(name string) ([]int, error) {
	return r.log.Partitions(name)
}
