package logset

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"

	"github.com/moratsam/logscan/eventlog"
)

// TaskFn is the unit of work a scheduler runs for one partition descriptor.
// It returns the records produced for the partition, in ascending sequence
// number order.
type TaskFn func(ctx context.Context, p Partition) ([]*eventlog.Record, error)

// Scheduler is implemented by objects that can run one task per partition
// descriptor across a compute cluster. Implementations honor each partition's
// preferred locations best-effort; correctness never depends on placement.
type Scheduler interface {
	// Run invokes fn once for every provided partition and returns the task
	// outputs positionally aligned with the partitions argument, regardless
	// of the order in which tasks complete. A task failure fails the whole
	// run; no partial results are returned.
	Run(ctx context.Context, partitions []Partition, fn TaskFn) ([][]*eventlog.Record, error)
}

// Config encapsulates the settings for creating a new Dataset.
type Config struct {
	// The snapshot of offset ranges the dataset exposes.
	RangeSet *RangeSet

	// The receiver used to fetch individual records.
	Receiver Receiver

	// The scheduler used to run per-partition consumption tasks.
	Scheduler Scheduler
}

func (cfg *Config) validate() error {
	var err error
	if cfg.RangeSet == nil {
		err = multierror.Append(err, xerrors.Errorf("range set has not been provided"))
	}
	if cfg.Receiver == nil {
		err = multierror.Append(err, xerrors.Errorf("receiver has not been provided"))
	}
	if cfg.Scheduler == nil {
		err = multierror.Append(err, xerrors.Errorf("scheduler has not been provided"))
	}
	return err
}

// Dataset exposes one range set snapshot of a partitioned event log as a
// distributed, lazily-evaluated collection of records. Each partition is
// consumed by an independent task that owns its own range iterator; tasks
// share no mutable state because the underlying ranges are disjoint by
// construction.
type Dataset struct {
	cfg        Config
	partitions []Partition
}

// NewDataset creates a new dataset instance over the provided range set.
func NewDataset(cfg Config) (*Dataset, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("dataset: config validation failed: %w", err)
	}
	return &Dataset{
		cfg:        cfg,
		partitions: PlanPartitions(cfg.RangeSet),
	}, nil
}

// Partitions returns the ordered partition descriptors of the dataset.
func (d *Dataset) Partitions() []Partition {
	out := make([]Partition, len(d.partitions))
	copy(out, d.partitions)
	return out
}

// Count returns the total number of records the dataset covers. It is
// answered from the range set alone; no tasks are scheduled and no network
// calls are made.
func (d *Dataset) Count() int64 {
	return d.cfg.RangeSet.Count()
}

// IsEmpty returns true iff the dataset covers no records.
func (d *Dataset) IsEmpty() bool {
	return d.Count() == 0
}

// Take returns the first n records of the dataset without computing more
// partitions than necessary. Records are drawn greedily from the partitions
// in ascending partition id order; partitions whose quota would be zero are
// not scheduled at all. The result ordering is stable and reproducible for a
// given range set and n. For n < 1 or an empty dataset an empty sequence is
// returned.
func (d *Dataset) Take(ctx context.Context, n int64) ([]*eventlog.Record, error) {
	quotas := planTake(d.partitions, n)
	if len(quotas) == 0 {
		return nil, nil
	}

	// The planned partitions are already sorted ascending, so filtering
	// preserves the result ordering contract.
	scheduled := make([]Partition, 0, len(quotas))
	for _, p := range d.partitions {
		if _, keyExists := quotas[p.Index]; keyExists {
			scheduled = append(scheduled, p)
		}
	}

	results, err := d.cfg.Scheduler.Run(ctx, scheduled, func(ctx context.Context, p Partition) ([]*eventlog.Record, error) {
		// The iterator is not told about the quota; the task truncates the
		// stream once the quota is produced and abandons the iterator.
		return d.drainRange(ctx, p.OffsetRange, quotas[p.Index])
	})
	if err != nil {
		return nil, err
	}
	sizeHint := n
	if total := d.Count(); total < sizeHint {
		sizeHint = total
	}
	return concat(results, sizeHint), nil
}

// Collect schedules every partition unconditionally, drains each range
// iterator to exhaustion and returns the union of all partitions' records.
func (d *Dataset) Collect(ctx context.Context) ([]*eventlog.Record, error) {
	if len(d.partitions) == 0 {
		return nil, nil
	}

	results, err := d.cfg.Scheduler.Run(ctx, d.partitions, func(ctx context.Context, p Partition) ([]*eventlog.Record, error) {
		return d.drainRange(ctx, p.OffsetRange, p.Count())
	})
	if err != nil {
		return nil, err
	}
	return concat(results, d.Count()), nil
}

func (d *Dataset) drainRange(ctx context.Context, r OffsetRange, limit int64) ([]*eventlog.Record, error) {
	it, err := NewRangeIterator(d.cfg.Receiver, r)
	if err != nil {
		return nil, err
	}

	records := make([]*eventlog.Record, 0, preallocSize(limit))
	for int64(len(records)) < limit && it.HasNext() {
		rec, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func concat(results [][]*eventlog.Record, sizeHint int64) []*eventlog.Record {
	out := make([]*eventlog.Record, 0, preallocSize(sizeHint))
	for _, records := range results {
		out = append(out, records...)
	}
	return out
}

// maxPreallocRecords bounds how much capacity a size hint may reserve up
// front; slices still grow past it as records accumulate.
const maxPreallocRecords = 4096

func preallocSize(sizeHint int64) int64 {
	if sizeHint < 0 {
		return 0
	}
	if sizeHint > maxPreallocRecords {
		return maxPreallocRecords
	}
	return sizeHint
}
