package logset

import (
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(PlannerTestSuite))

type PlannerTestSuite struct {
}

func (s *PlannerTestSuite) TestPlanPartitionsOrderAndCardinality(c *gc.C) {
	set, err := NewRangeSet(
		OffsetRange{PartitionID: 7, Name: "orders", FromSeqNo: 5, UntilSeqNo: 9},
		OffsetRange{PartitionID: 3, Name: "orders", FromSeqNo: 0, UntilSeqNo: 4},
		OffsetRange{PartitionID: 5, Name: "orders", FromSeqNo: 2, UntilSeqNo: 2},
	)
	c.Assert(err, gc.IsNil)

	partitions := PlanPartitions(set)
	c.Assert(partitions, gc.HasLen, 3)

	for i, p := range partitions {
		c.Assert(p.Index, gc.Equals, i)
	}
	c.Assert(partitions[0].PartitionID, gc.Equals, 3)
	c.Assert(partitions[1].PartitionID, gc.Equals, 5)
	c.Assert(partitions[2].PartitionID, gc.Equals, 7)

	// All range fields are preserved on the descriptor.
	c.Assert(partitions[2].Name, gc.Equals, "orders")
	c.Assert(partitions[2].FromSeqNo, gc.Equals, int64(5))
	c.Assert(partitions[2].UntilSeqNo, gc.Equals, int64(9))
}

func (s *PlannerTestSuite) TestPreferredLocations(c *gc.C) {
	p := Partition{OffsetRange: OffsetRange{PartitionID: 0, PreferredLocation: "worker-2"}}
	c.Assert(p.PreferredLocations(), gc.DeepEquals, []string{"worker-2"})

	// No preference must yield an empty hint set, never an empty-string hint.
	p = Partition{OffsetRange: OffsetRange{PartitionID: 1}}
	c.Assert(p.PreferredLocations(), gc.HasLen, 0)
}
