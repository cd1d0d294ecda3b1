package memory

import (
	"sort"
	"sync"
	"time"

	"golang.org/x/xerrors"

	"github.com/moratsam/logscan/eventlog"
)

// Compile-time check for ensuring InMemoryLog implements Log.
var _ eventlog.Log = (*InMemoryLog)(nil)

// [<partition>] --> <records of the partition, indexed by seq no - base>
type partitionMap map[int][]*eventlog.Record

// InMemoryLog implements an in-memory event log that can be concurrently
// accessed by multiple clients.
type InMemoryLog struct {
	mu sync.RWMutex

	// [<log name>] --> partitionMap
	logs map[string]partitionMap
}

// NewInMemoryLog returns an in-memory implementation of the event log.
func NewInMemoryLog() *InMemoryLog {
	return &InMemoryLog{
		logs: make(map[string]partitionMap),
	}
}

// Provision creates the given number of empty partitions for a named log so
// that they are visible before any record is appended. It is a no-op for
// partitions that already exist.
func (l *InMemoryLog) Provision(name string, numPartitions int) error {
	if numPartitions <= 0 {
		return xerrors.Errorf("provision log %q: number of partitions must exceed 0", name)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	partitions, keyExists := l.logs[name]
	if !keyExists {
		partitions = make(partitionMap)
		l.logs[name] = partitions
	}
	for partition := 0; partition < numPartitions; partition++ {
		if _, keyExists := partitions[partition]; !keyExists {
			partitions[partition] = nil
		}
	}
	return nil
}

// Append a record to the partition indicated by the record's Name and
// Partition fields, assigning its sequence number. Unknown logs and
// partitions are created on first use.
func (l *InMemoryLog) Append(rec *eventlog.Record) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	partitions, keyExists := l.logs[rec.Name]
	if !keyExists {
		partitions = make(partitionMap)
		l.logs[rec.Name] = partitions
	}

	// Create a copy of the record and assign the next sequence number.
	rCopy := new(eventlog.Record)
	*rCopy = *rec
	rCopy.SeqNo = int64(len(partitions[rec.Partition]))
	if rCopy.Timestamp.IsZero() {
		rCopy.Timestamp = time.Now().UTC()
	}

	partitions[rec.Partition] = append(partitions[rec.Partition], rCopy)
	return rCopy.SeqNo, nil
}

// Fetch the record with the given sequence number from the partition
// addressed by coord.
func (l *InMemoryLog) Fetch(coord eventlog.Coordinate, seqNo int64) (*eventlog.Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	records, err := l.partitionRecords(coord)
	if err != nil {
		return nil, err
	}
	if seqNo < 0 || seqNo >= int64(len(records)) {
		return nil, xerrors.Errorf("fetch %q/%d seq no %d: %w", coord.Name, coord.Partition, seqNo, eventlog.ErrSeqNoOutOfRange)
	}

	// The record pointer contents are never mutated after an append, but
	// clone it so that callers cannot reach into the store.
	rCopy := new(eventlog.Record)
	*rCopy = *records[seqNo]
	return rCopy, nil
}

// SeqNoBounds returns the earliest available and the next assignable sequence
// number for the partition addressed by coord.
func (l *InMemoryLog) SeqNoBounds(coord eventlog.Coordinate) (int64, int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	records, err := l.partitionRecords(coord)
	if err != nil {
		return 0, 0, err
	}
	return 0, int64(len(records)), nil
}

// Partitions returns the sorted list of partitions of the named log.
func (l *InMemoryLog) Partitions(name string) ([]int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	partitions, keyExists := l.logs[name]
	if !keyExists {
		return nil, xerrors.Errorf("partitions of log %q: %w", name, eventlog.ErrUnknownPartition)
	}

	out := make([]int, 0, len(partitions))
	for partition := range partitions {
		out = append(out, partition)
	}
	sort.Ints(out)
	return out, nil
}

func (l *InMemoryLog) partitionRecords(coord eventlog.Coordinate) ([]*eventlog.Record, error) {
	partitions, keyExists := l.logs[coord.Name]
	if !keyExists {
		return nil, xerrors.Errorf("log %q partition %d: %w", coord.Name, coord.Partition, eventlog.ErrUnknownPartition)
	}
	records, keyExists := partitions[coord.Partition]
	if !keyExists {
		return nil, xerrors.Errorf("log %q partition %d: %w", coord.Name, coord.Partition, eventlog.ErrUnknownPartition)
	}
	return records, nil
}
