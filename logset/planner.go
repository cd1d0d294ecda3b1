package logset

// Partition is the opaque per-partition descriptor handed to a scheduler. It
// carries all fields of the offset range it was derived from plus the index
// assigned to it by the partition planner.
type Partition struct {
	OffsetRange

	// The position of this partition in the planned order. Schedulers
	// address partitions by this index.
	Index int
}

// PreferredLocations returns the locations where a task consuming this
// partition would preferably be placed. The hint is advisory; schedulers
// honor it best-effort. When the underlying range expresses no preference the
// returned slice is empty, never a forced empty-string hint.
func (p Partition) PreferredLocations() []string {
	if p.PreferredLocation == "" {
		return nil
	}
	return []string{p.PreferredLocation}
}

// PlanPartitions maps a range set into the ordered list of partition
// descriptors consumable by a scheduler. Descriptors are ordered ascending by
// partition id; since partition ids are unique within a set, the order is
// deterministic for a given snapshot.
func PlanPartitions(set *RangeSet) []Partition {
	ranges := set.Ranges()
	partitions := make([]Partition, len(ranges))
	for i, r := range ranges {
		partitions[i] = Partition{OffsetRange: r, Index: i}
	}
	return partitions
}
