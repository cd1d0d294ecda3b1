package logset

import (
	"sort"

	"golang.org/x/xerrors"

	"github.com/moratsam/logscan/eventlog"
)

// OffsetRange describes one contiguous slice of one log partition as the
// half-open sequence number interval [FromSeqNo, UntilSeqNo). Offset ranges
// are constructed once per dataset snapshot and never mutated afterwards.
type OffsetRange struct {
	// The id of the log partition this range covers.
	PartitionID int

	// The name of the log.
	Name string

	// The sequence number of the first record in the range.
	FromSeqNo int64

	// The sequence number one past the last record in the range.
	UntilSeqNo int64

	// The location where tasks consuming this range would prefer to be
	// executed. An empty value expresses no preference.
	PreferredLocation string
}

// Count returns the number of records the range covers.
func (r OffsetRange) Count() int64 {
	if r.UntilSeqNo < r.FromSeqNo {
		return 0
	}
	return r.UntilSeqNo - r.FromSeqNo
}

// Coordinate returns the log coordinate the range reads from.
func (r OffsetRange) Coordinate() eventlog.Coordinate {
	return eventlog.Coordinate{Name: r.Name, Partition: r.PartitionID}
}

// RangeSet is the collection of offset ranges that together define one
// logical dataset snapshot. Each partition id appears at most once and every
// range satisfies FromSeqNo <= UntilSeqNo; both properties are enforced at
// construction time. A range set is read-only once built.
type RangeSet struct {
	ranges []OffsetRange
}

// NewRangeSet validates the provided offset ranges and assembles them into a
// RangeSet. Duplicate partition ids or ranges whose lower bound exceeds their
// upper bound fail with ErrInvalidRangeSet; both indicate a configuration
// error, not a recoverable runtime condition.
func NewRangeSet(ranges ...OffsetRange) (*RangeSet, error) {
	seen := make(map[int]bool, len(ranges))
	for _, r := range ranges {
		if seen[r.PartitionID] {
			return nil, xerrors.Errorf("log %q: duplicate partition id %d: %w", r.Name, r.PartitionID, ErrInvalidRangeSet)
		}
		seen[r.PartitionID] = true
		if r.FromSeqNo > r.UntilSeqNo {
			return nil, xerrors.Errorf("log %q partition %d: from seq no %d exceeds until seq no %d: %w",
				r.Name, r.PartitionID, r.FromSeqNo, r.UntilSeqNo, ErrInvalidRangeSet)
		}
	}

	set := &RangeSet{ranges: make([]OffsetRange, len(ranges))}
	copy(set.ranges, ranges)
	sort.Slice(set.ranges, func(i, j int) bool {
		return set.ranges[i].PartitionID < set.ranges[j].PartitionID
	})
	return set, nil
}

// Ranges returns a copy of the set's offset ranges, sorted ascending by
// partition id.
func (s *RangeSet) Ranges() []OffsetRange {
	out := make([]OffsetRange, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Count returns the total number of records the set covers across all
// partitions. It performs no network calls.
func (s *RangeSet) Count() int64 {
	var total int64
	for _, r := range s.ranges {
		total += r.Count()
	}
	return total
}

// IsEmpty returns true iff the set covers no records.
func (s *RangeSet) IsEmpty() bool {
	return s.Count() == 0
}
