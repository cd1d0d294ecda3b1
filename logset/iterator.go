package logset

import (
	"context"

	"golang.org/x/xerrors"

	"github.com/moratsam/logscan/eventlog"
)

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/moratsam/logscan/logset Receiver,Scheduler

// Receiver is implemented by objects that can fetch individual records from
// an event log, caching connections and pre-fetched records internally. A
// receiver instance is shared by all iterators executing on a worker;
// concurrent calls for different partitions must not interfere with each
// other.
type Receiver interface {
	// Receive returns the record of the partition addressed by coord whose
	// sequence number is startSeqNo. The batchSizeHint tells the receiver
	// how many more records the caller expects to request after this one;
	// it sizes pre-fetch buffers only and is not a hard cap. Transient
	// network or service errors are returned unchanged.
	Receive(ctx context.Context, coord eventlog.Coordinate, startSeqNo, batchSizeHint int64) (*eventlog.Record, error)
}

// RangeIterator lazily produces the records of exactly one offset range in
// ascending sequence number order, delegating each fetch to a receiver.
//
// An iterator is finite, forward-only and not restartable: once partially or
// fully consumed, re-reading the range requires constructing a new iterator
// from the original offset range. It owns its cursor exclusively and must not
// be shared across goroutines.
type RangeIterator struct {
	receiver Receiver
	r        OffsetRange
	cursor   int64
}

// NewRangeIterator returns an iterator over the records of the provided
// offset range. A malformed range (FromSeqNo > UntilSeqNo) fails immediately
// with ErrMalformedRange, before any receiver call is made; it indicates a
// planning bug upstream and is never silently tolerated.
func NewRangeIterator(receiver Receiver, r OffsetRange) (*RangeIterator, error) {
	if receiver == nil {
		return nil, xerrors.Errorf("range iterator: receiver has not been provided")
	}
	if r.FromSeqNo > r.UntilSeqNo {
		return nil, xerrors.Errorf("log %q partition %d: from seq no %d exceeds until seq no %d: %w",
			r.Name, r.PartitionID, r.FromSeqNo, r.UntilSeqNo, ErrMalformedRange)
	}
	return &RangeIterator{receiver: receiver, r: r, cursor: r.FromSeqNo}, nil
}

// HasNext returns true while the iterator has not reached the end of its
// range. A degenerate range yields false from the start without any receiver
// call being made.
func (it *RangeIterator) HasNext() bool {
	return it.cursor < it.r.UntilSeqNo
}

// Next fetches the record at the current cursor position and advances the
// cursor. Calling Next on an exhausted iterator fails with ErrExhaustedRange.
// Receiver errors are propagated unchanged; retrying a failed partition is
// the responsibility of the scheduler, which re-runs the whole task.
func (it *RangeIterator) Next(ctx context.Context) (*eventlog.Record, error) {
	if !it.HasNext() {
		return nil, xerrors.Errorf("log %q partition %d: next called past seq no bound [%d, %d): %w",
			it.r.Name, it.r.PartitionID, it.r.FromSeqNo, it.r.UntilSeqNo, ErrExhaustedRange)
	}

	// The remaining distance to the end of the range sizes the receiver's
	// pre-fetch buffers.
	rec, err := it.receiver.Receive(ctx, it.r.Coordinate(), it.cursor, it.r.UntilSeqNo-it.cursor)
	if err != nil {
		return nil, err
	}
	it.cursor++
	return rec, nil
}
