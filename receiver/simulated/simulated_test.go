package simulated

import (
	"context"
	"fmt"
	"testing"

	gc "gopkg.in/check.v1"
	"golang.org/x/xerrors"

	"github.com/moratsam/logscan/eventlog"
	memlog "github.com/moratsam/logscan/eventlog/store/memory"
	"github.com/moratsam/logscan/logset"
	"github.com/moratsam/logscan/scheduler/local"
)

var _ = gc.Suite(new(SimulatedReceiverTestSuite))

func Test(t *testing.T) { gc.TestingT(t) }

type SimulatedReceiverTestSuite struct {
	log *memlog.InMemoryLog
}

func (s *SimulatedReceiverTestSuite) SetUpTest(c *gc.C) {
	s.log = memlog.NewInMemoryLog()
	for partition := 0; partition < 3; partition++ {
		for i := 0; i < 4; i++ {
			_, err := s.log.Append(&eventlog.Record{
				Name:      "orders",
				Partition: partition,
				Value:     []byte(fmt.Sprintf("%d/%d", partition, i)),
			})
			c.Assert(err, gc.IsNil)
		}
	}
}

func (s *SimulatedReceiverTestSuite) TestReceive(c *gc.C) {
	receiver := NewReceiver(s.log)

	rec, err := receiver.Receive(context.TODO(), eventlog.Coordinate{Name: "orders", Partition: 1}, 2, 10)
	c.Assert(err, gc.IsNil)
	c.Assert(rec.SeqNo, gc.Equals, int64(2))
	c.Assert(string(rec.Value), gc.Equals, "1/2")

	_, err = receiver.Receive(context.TODO(), eventlog.Coordinate{Name: "orders", Partition: 1}, 99, 1)
	c.Assert(xerrors.Is(err, eventlog.ErrSeqNoOutOfRange), gc.Equals, true, gc.Commentf("got: %v", err))
}

// The receiver, log store, planners and scheduler working together: a full
// bounded-take pass over a populated log.
func (s *SimulatedReceiverTestSuite) TestEndToEndTake(c *gc.C) {
	receiver := NewReceiver(s.log)

	var ranges []logset.OffsetRange
	partitions, err := receiver.Partitions("orders")
	c.Assert(err, gc.IsNil)
	for _, partition := range partitions {
		coord := eventlog.Coordinate{Name: "orders", Partition: partition}
		earliest, next, err := receiver.SeqNoBounds(coord)
		c.Assert(err, gc.IsNil)
		ranges = append(ranges, logset.OffsetRange{
			PartitionID: partition,
			Name:        "orders",
			FromSeqNo:   earliest,
			UntilSeqNo:  next,
		})
	}
	set, err := logset.NewRangeSet(ranges...)
	c.Assert(err, gc.IsNil)

	ds, err := logset.NewDataset(logset.Config{
		RangeSet:  set,
		Receiver:  receiver,
		Scheduler: local.NewScheduler(local.Config{Workers: 2}),
	})
	c.Assert(err, gc.IsNil)
	c.Assert(ds.Count(), gc.Equals, int64(12))

	records, err := ds.Take(context.TODO(), 6)
	c.Assert(err, gc.IsNil)

	var got []string
	for _, rec := range records {
		got = append(got, string(rec.Value))
	}
	c.Assert(got, gc.DeepEquals, []string{"0/0", "0/1", "0/2", "0/3", "1/0", "1/1"})
}
