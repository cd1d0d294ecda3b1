package snapshot

import (
	"github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"

	"github.com/moratsam/logscan/eventlog"
	"github.com/moratsam/logscan/logset"
)

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/moratsam/logscan/snapshot SeqNoProvider

// SeqNoProvider is implemented by objects that can report the partition
// layout and the available sequence number bounds of an event log.
type SeqNoProvider interface {
	// SeqNoBounds returns the earliest available sequence number of the
	// partition addressed by coord together with the sequence number one
	// past the latest available record.
	SeqNoBounds(coord eventlog.Coordinate) (earliest, next int64, err error)

	// Partitions returns the sorted list of partitions of the named log.
	Partitions(name string) ([]int, error)
}

// Config encapsulates the settings for creating a new snapshot Builder.
type Config struct {
	// The provider used to discover partitions and sequence number bounds.
	Provider SeqNoProvider

	// The name of the log to snapshot.
	Name string

	// The maximum number of records a single snapshot may cover per
	// partition. A zero or negative value disables the limit.
	MaxRecordsPerPartition int64

	// An optional hook mapping a partition id to the location where its
	// consumption task would preferably be placed. If nil, no locality
	// hints are expressed.
	PreferredLocation func(partition int) string
}

func (cfg *Config) validate() error {
	var err error
	if cfg.Provider == nil {
		err = multierror.Append(err, xerrors.Errorf("seq no provider has not been provided"))
	}
	if cfg.Name == "" {
		err = multierror.Append(err, xerrors.Errorf("log name has not been specified"))
	}
	return err
}

// Builder produces the successive range set snapshots that drive a
// micro-batched consumption of an event log. Each snapshot continues exactly
// where the previous one ended, so that consecutive datasets cover disjoint,
// gap-free slices of every partition.
type Builder struct {
	cfg Config
}

// NewBuilder creates a new snapshot builder instance with the specified config.
func NewBuilder(cfg Config) (*Builder, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("snapshot builder: config validation failed: %w", err)
	}
	return &Builder{cfg: cfg}, nil
}

// Next builds the range set for the next micro-batch. Partitions resume from
// the upper bound of their range in prev; partitions not covered by prev
// (including all partitions when prev is nil) start from their earliest
// available sequence number. Each range extends to the latest available
// sequence number, clamped by MaxRecordsPerPartition.
func (b *Builder) Next(prev *logset.RangeSet) (*logset.RangeSet, error) {
	resumeFrom := make(map[int]int64)
	if prev != nil {
		for _, r := range prev.Ranges() {
			resumeFrom[r.PartitionID] = r.UntilSeqNo
		}
	}

	partitions, err := b.cfg.Provider.Partitions(b.cfg.Name)
	if err != nil {
		return nil, xerrors.Errorf("snapshot %q: listing partitions: %w", b.cfg.Name, err)
	}

	ranges := make([]logset.OffsetRange, 0, len(partitions))
	for _, partition := range partitions {
		coord := eventlog.Coordinate{Name: b.cfg.Name, Partition: partition}
		earliest, next, err := b.cfg.Provider.SeqNoBounds(coord)
		if err != nil {
			return nil, xerrors.Errorf("snapshot %q partition %d: resolving seq no bounds: %w", b.cfg.Name, partition, err)
		}

		from, keyExists := resumeFrom[partition]
		if !keyExists {
			from = earliest
		}
		until := next
		if b.cfg.MaxRecordsPerPartition > 0 && until > from+b.cfg.MaxRecordsPerPartition {
			until = from + b.cfg.MaxRecordsPerPartition
		}
		if until < from {
			// The log reports bounds below the resume point; records this
			// snapshot would repeat were already consumed, so expose an idle
			// range instead of going backwards.
			until = from
		}

		r := logset.OffsetRange{
			PartitionID: partition,
			Name:        b.cfg.Name,
			FromSeqNo:   from,
			UntilSeqNo:  until,
		}
		if b.cfg.PreferredLocation != nil {
			r.PreferredLocation = b.cfg.PreferredLocation(partition)
		}
		ranges = append(ranges, r)
	}

	return logset.NewRangeSet(ranges...)
}
