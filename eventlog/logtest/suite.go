package logtest

import (
	"fmt"
	"time"

	gc "gopkg.in/check.v1"
	"golang.org/x/xerrors"

	"github.com/moratsam/logscan/eventlog"
)

// SuiteBase defines a re-usable set of event-log related tests that can be
// executed against any type that implements eventlog.Log.
type SuiteBase struct {
	l eventlog.Log
}

func (s *SuiteBase) SetLog(l eventlog.Log) {
	s.l = l
}

func (s *SuiteBase) TestAppendAssignsMonotonicSeqNos(c *gc.C) {
	for i := 0; i < 5; i++ {
		seqNo, err := s.l.Append(&eventlog.Record{
			Name:      "orders",
			Partition: 0,
			Timestamp: time.Now().UTC(),
			Value:     []byte(fmt.Sprintf("payload-%d", i)),
		})
		c.Assert(err, gc.IsNil)
		c.Assert(seqNo, gc.Equals, int64(i), gc.Commentf("sequence numbers must start at 0 and increase by 1"))
	}

	// Appends to another partition maintain an independent sequence.
	seqNo, err := s.l.Append(&eventlog.Record{Name: "orders", Partition: 1, Value: []byte("other")})
	c.Assert(err, gc.IsNil)
	c.Assert(seqNo, gc.Equals, int64(0))
}

func (s *SuiteBase) TestFetch(c *gc.C) {
	coord := eventlog.Coordinate{Name: "orders", Partition: 3}
	for i := 0; i < 3; i++ {
		_, err := s.l.Append(&eventlog.Record{
			Name:      coord.Name,
			Partition: coord.Partition,
			Timestamp: time.Now().UTC(),
			Value:     []byte(fmt.Sprintf("payload-%d", i)),
		})
		c.Assert(err, gc.IsNil)
	}

	for i := 0; i < 3; i++ {
		rec, err := s.l.Fetch(coord, int64(i))
		c.Assert(err, gc.IsNil)
		c.Assert(rec.Name, gc.Equals, coord.Name)
		c.Assert(rec.Partition, gc.Equals, coord.Partition)
		c.Assert(rec.SeqNo, gc.Equals, int64(i))
		c.Assert(string(rec.Value), gc.Equals, fmt.Sprintf("payload-%d", i))
	}
}

func (s *SuiteBase) TestFetchOutOfRange(c *gc.C) {
	coord := eventlog.Coordinate{Name: "orders", Partition: 0}
	_, err := s.l.Append(&eventlog.Record{Name: coord.Name, Partition: coord.Partition, Value: []byte("x")})
	c.Assert(err, gc.IsNil)

	_, err = s.l.Fetch(coord, 1)
	c.Assert(xerrors.Is(err, eventlog.ErrSeqNoOutOfRange), gc.Equals, true, gc.Commentf("got: %v", err))

	_, err = s.l.Fetch(coord, -1)
	c.Assert(xerrors.Is(err, eventlog.ErrSeqNoOutOfRange), gc.Equals, true, gc.Commentf("got: %v", err))
}

func (s *SuiteBase) TestFetchUnknownPartition(c *gc.C) {
	_, err := s.l.Fetch(eventlog.Coordinate{Name: "no-such-log", Partition: 0}, 0)
	c.Assert(err, gc.NotNil)
}

func (s *SuiteBase) TestSeqNoBounds(c *gc.C) {
	coord := eventlog.Coordinate{Name: "orders", Partition: 2}
	for i := 0; i < 4; i++ {
		_, err := s.l.Append(&eventlog.Record{Name: coord.Name, Partition: coord.Partition, Value: []byte("x")})
		c.Assert(err, gc.IsNil)
	}

	earliest, next, err := s.l.SeqNoBounds(coord)
	c.Assert(err, gc.IsNil)
	c.Assert(earliest, gc.Equals, int64(0))
	c.Assert(next, gc.Equals, int64(4))
}

func (s *SuiteBase) TestSeqNoBoundsUnknownPartition(c *gc.C) {
	_, _, err := s.l.SeqNoBounds(eventlog.Coordinate{Name: "no-such-log", Partition: 9})
	c.Assert(xerrors.Is(err, eventlog.ErrUnknownPartition), gc.Equals, true, gc.Commentf("got: %v", err))
}

func (s *SuiteBase) TestPartitions(c *gc.C) {
	for _, partition := range []int{5, 1, 3} {
		_, err := s.l.Append(&eventlog.Record{Name: "orders", Partition: partition, Value: []byte("x")})
		c.Assert(err, gc.IsNil)
	}

	partitions, err := s.l.Partitions("orders")
	c.Assert(err, gc.IsNil)
	c.Assert(partitions, gc.DeepEquals, []int{1, 3, 5}, gc.Commentf("partition lists must be sorted"))

	_, err = s.l.Partitions("no-such-log")
	c.Assert(xerrors.Is(err, eventlog.ErrUnknownPartition), gc.Equals, true, gc.Commentf("got: %v", err))
}
