package eventlog

import (
	"time"
)

// Record encapsulates a single entry of a partitioned, append-only event log.
type Record struct {
	// The name of the log this record belongs to.
	Name string

	// The log partition this record belongs to.
	Partition int

	// The position of this record within its partition. Sequence numbers
	// are assigned by the log in strictly increasing order, starting at 0.
	SeqNo int64

	// Time when the record was appended to the log.
	Timestamp time.Time

	// The record payload.
	Value []byte
}

// Coordinate addresses exactly one partition of one named log.
type Coordinate struct {
	// The name of the log.
	Name string

	// The partition within the log.
	Partition int
}

// Log is implemented by objects that can store and serve the records of a
// partitioned, append-only event log.
type Log interface {
	// Append a record to the partition indicated by the record's Name and
	// Partition fields. The log assigns and returns the record's sequence
	// number; the SeqNo field of the argument is ignored.
	Append(rec *Record) (int64, error)

	// Fetch the record with the given sequence number from the partition
	// addressed by coord. Returns ErrSeqNoOutOfRange if no record with that
	// sequence number exists.
	Fetch(coord Coordinate, seqNo int64) (*Record, error)

	// SeqNoBounds returns the earliest available sequence number of the
	// partition addressed by coord together with the sequence number that
	// will be assigned to the next appended record. An idle partition
	// reports earliest == next.
	SeqNoBounds(coord Coordinate) (earliest, next int64, err error)

	// Partitions returns the sorted list of partitions of the named log.
	Partitions(name string) ([]int, error)
}
