package logset

import (
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(TakePlannerTestSuite))

type TakePlannerTestSuite struct {
}

func (s *TakePlannerTestSuite) planFor(c *gc.C, counts []int64, n int64) map[int]int64 {
	ranges := make([]OffsetRange, len(counts))
	for i, count := range counts {
		ranges[i] = OffsetRange{PartitionID: i, Name: "orders", FromSeqNo: 0, UntilSeqNo: count}
	}
	set, err := NewRangeSet(ranges...)
	c.Assert(err, gc.IsNil)
	return planTake(PlanPartitions(set), n)
}

func (s *TakePlannerTestSuite) TestGreedyAscendingAllocation(c *gc.C) {
	// The budget is spent on the lowest-indexed partitions first; partition 2
	// gets no entry at all.
	quotas := s.planFor(c, []int64{3, 5, 2}, 6)
	c.Assert(quotas, gc.DeepEquals, map[int]int64{0: 3, 1: 3})
}

func (s *TakePlannerTestSuite) TestEmptyPartitionsGetNoEntry(c *gc.C) {
	quotas := s.planFor(c, []int64{0, 4, 0, 2}, 5)
	c.Assert(quotas, gc.DeepEquals, map[int]int64{1: 4, 3: 1})
}

func (s *TakePlannerTestSuite) TestNonPositiveBudget(c *gc.C) {
	c.Assert(s.planFor(c, []int64{3, 5}, 0), gc.HasLen, 0)
	c.Assert(s.planFor(c, []int64{3, 5}, -7), gc.HasLen, 0)
}

func (s *TakePlannerTestSuite) TestAllEmptyPartitions(c *gc.C) {
	c.Assert(s.planFor(c, []int64{0, 0, 0}, 10), gc.HasLen, 0)
}

func (s *TakePlannerTestSuite) TestQuotaSumEqualsMinOfBudgetAndTotal(c *gc.C) {
	for _, tc := range []struct {
		counts []int64
		n      int64
	}{
		{counts: []int64{3, 5, 2}, n: 6},
		{counts: []int64{3, 5, 2}, n: 100},
		{counts: []int64{1}, n: 1},
		{counts: []int64{0, 0, 7}, n: 3},
		{counts: []int64{4, 0, 4, 0, 4}, n: 9},
	} {
		var total int64
		for _, count := range tc.counts {
			total += count
		}
		want := tc.n
		if total < want {
			want = total
		}

		var sum int64
		for _, quota := range s.planFor(c, tc.counts, tc.n) {
			c.Assert(quota > 0, gc.Equals, true, gc.Commentf("zero quotas must be absent, not present"))
			sum += quota
		}
		c.Assert(sum, gc.Equals, want, gc.Commentf("counts=%v n=%d", tc.counts, tc.n))
	}
}
