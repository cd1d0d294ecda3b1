package logset_test

import (
	"context"
	"math"

	"github.com/golang/mock/gomock"
	gc "gopkg.in/check.v1"
	"golang.org/x/xerrors"

	"github.com/moratsam/logscan/eventlog"
	"github.com/moratsam/logscan/logset"
	"github.com/moratsam/logscan/logset/mocks"
)

var _ = gc.Suite(new(DatasetTestSuite))

type DatasetTestSuite struct {
}

// runTasksReversed executes the scheduled tasks in descending partition order
// to emulate arbitrary task completion order; results are still returned
// positionally, as the Scheduler contract requires.
func runTasksReversed(ctx context.Context, partitions []logset.Partition, fn logset.TaskFn) ([][]*eventlog.Record, error) {
	results := make([][]*eventlog.Record, len(partitions))
	for i := len(partitions) - 1; i >= 0; i-- {
		records, err := fn(ctx, partitions[i])
		if err != nil {
			return nil, err
		}
		results[i] = records
	}
	return results, nil
}

func (s *DatasetTestSuite) newDataset(c *gc.C, receiver logset.Receiver, scheduler logset.Scheduler, ranges ...logset.OffsetRange) *logset.Dataset {
	set, err := logset.NewRangeSet(ranges...)
	c.Assert(err, gc.IsNil)
	ds, err := logset.NewDataset(logset.Config{RangeSet: set, Receiver: receiver, Scheduler: scheduler})
	c.Assert(err, gc.IsNil)
	return ds
}

// expectRange primes the mock receiver to serve each sequence number of
// [from, until) for the given partition.
func expectRange(receiver *mocks.MockReceiver, coord eventlog.Coordinate, from, until int64) {
	for seqNo := from; seqNo < until; seqNo++ {
		receiver.EXPECT().
			Receive(gomock.Any(), coord, seqNo, until-seqNo).
			Return(&eventlog.Record{Name: coord.Name, Partition: coord.Partition, SeqNo: seqNo}, nil)
	}
}

func (s *DatasetTestSuite) TestConfigValidation(c *gc.C) {
	_, err := logset.NewDataset(logset.Config{})
	c.Assert(err, gc.ErrorMatches, "(?s)dataset: config validation failed.*range set has not been provided.*")
	c.Assert(err, gc.ErrorMatches, "(?s).*receiver has not been provided.*")
	c.Assert(err, gc.ErrorMatches, "(?s).*scheduler has not been provided.*")
}

func (s *DatasetTestSuite) TestCountAndIsEmpty(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	receiver := mocks.NewMockReceiver(ctrl)
	scheduler := mocks.NewMockScheduler(ctrl)

	ds := s.newDataset(c, receiver, scheduler,
		logset.OffsetRange{PartitionID: 0, Name: "orders", FromSeqNo: 10, UntilSeqNo: 13},
		logset.OffsetRange{PartitionID: 1, Name: "orders", FromSeqNo: 7, UntilSeqNo: 7},
	)

	// Count and IsEmpty are answered from the range set; neither the
	// receiver nor the scheduler may be invoked.
	c.Assert(ds.Count(), gc.Equals, int64(3))
	c.Assert(ds.IsEmpty(), gc.Equals, false)

	ds = s.newDataset(c, receiver, scheduler)
	c.Assert(ds.Count(), gc.Equals, int64(0))
	c.Assert(ds.IsEmpty(), gc.Equals, true)
}

func (s *DatasetTestSuite) TestTakeSchedulesOnlyQuotaPartitions(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	receiver := mocks.NewMockReceiver(ctrl)
	scheduler := mocks.NewMockScheduler(ctrl)

	// Counts [3, 5, 2] with n = 6: quotas {0:3, 1:3}, partition 2 excluded.
	ds := s.newDataset(c, receiver, scheduler,
		logset.OffsetRange{PartitionID: 0, Name: "orders", FromSeqNo: 0, UntilSeqNo: 3},
		logset.OffsetRange{PartitionID: 1, Name: "orders", FromSeqNo: 10, UntilSeqNo: 15},
		logset.OffsetRange{PartitionID: 2, Name: "orders", FromSeqNo: 20, UntilSeqNo: 22},
	)

	expectRange(receiver, eventlog.Coordinate{Name: "orders", Partition: 0}, 0, 3)
	// Partition 1 has count 5 but a quota of 3: the task truncates the
	// stream after 3 records, so seq nos 13 and 14 are never requested.
	receiver.EXPECT().Receive(gomock.Any(), eventlog.Coordinate{Name: "orders", Partition: 1}, int64(10), int64(5)).
		Return(&eventlog.Record{Name: "orders", Partition: 1, SeqNo: 10}, nil)
	receiver.EXPECT().Receive(gomock.Any(), eventlog.Coordinate{Name: "orders", Partition: 1}, int64(11), int64(4)).
		Return(&eventlog.Record{Name: "orders", Partition: 1, SeqNo: 11}, nil)
	receiver.EXPECT().Receive(gomock.Any(), eventlog.Coordinate{Name: "orders", Partition: 1}, int64(12), int64(3)).
		Return(&eventlog.Record{Name: "orders", Partition: 1, SeqNo: 12}, nil)

	scheduler.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, partitions []logset.Partition, fn logset.TaskFn) ([][]*eventlog.Record, error) {
			var gotIDs []int
			for _, p := range partitions {
				gotIDs = append(gotIDs, p.PartitionID)
			}
			if len(gotIDs) != 2 || gotIDs[0] != 0 || gotIDs[1] != 1 {
				c.Fatalf("expected partitions [0 1] to be scheduled, got %v", gotIDs)
			}
			return runTasksReversed(ctx, partitions, fn)
		})

	records, err := ds.Take(context.TODO(), 6)
	c.Assert(err, gc.IsNil)

	var got [][2]int64
	for _, rec := range records {
		got = append(got, [2]int64{int64(rec.Partition), rec.SeqNo})
	}
	c.Assert(got, gc.DeepEquals, [][2]int64{
		{0, 0}, {0, 1}, {0, 2},
		{1, 10}, {1, 11}, {1, 12},
	}, gc.Commentf("take results must follow ascending partition index regardless of completion order"))
}

func (s *DatasetTestSuite) TestTakeNonPositiveOrEmpty(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	receiver := mocks.NewMockReceiver(ctrl)
	scheduler := mocks.NewMockScheduler(ctrl)

	ds := s.newDataset(c, receiver, scheduler,
		logset.OffsetRange{PartitionID: 0, Name: "orders", FromSeqNo: 0, UntilSeqNo: 3},
	)
	records, err := ds.Take(context.TODO(), 0)
	c.Assert(err, gc.IsNil)
	c.Assert(records, gc.HasLen, 0)

	ds = s.newDataset(c, receiver, scheduler,
		logset.OffsetRange{PartitionID: 0, Name: "orders", FromSeqNo: 3, UntilSeqNo: 3},
	)
	records, err = ds.Take(context.TODO(), 10)
	c.Assert(err, gc.IsNil)
	c.Assert(records, gc.HasLen, 0, gc.Commentf("no tasks are scheduled for an all-empty dataset"))
}

func (s *DatasetTestSuite) TestTakeWithOversizedBudget(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	receiver := mocks.NewMockReceiver(ctrl)
	scheduler := mocks.NewMockScheduler(ctrl)

	ds := s.newDataset(c, receiver, scheduler,
		logset.OffsetRange{PartitionID: 0, Name: "orders", FromSeqNo: 0, UntilSeqNo: 3},
	)

	expectRange(receiver, eventlog.Coordinate{Name: "orders", Partition: 0}, 0, 3)
	scheduler.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(runTasksReversed)

	// Any n above the total count is valid and must yield every record.
	records, err := ds.Take(context.TODO(), math.MaxInt64)
	c.Assert(err, gc.IsNil)
	c.Assert(records, gc.HasLen, 3)
}

func (s *DatasetTestSuite) TestCollect(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	receiver := mocks.NewMockReceiver(ctrl)
	scheduler := mocks.NewMockScheduler(ctrl)

	ds := s.newDataset(c, receiver, scheduler,
		logset.OffsetRange{PartitionID: 1, Name: "orders", FromSeqNo: 4, UntilSeqNo: 6},
		logset.OffsetRange{PartitionID: 0, Name: "orders", FromSeqNo: 0, UntilSeqNo: 2},
		logset.OffsetRange{PartitionID: 2, Name: "orders", FromSeqNo: 9, UntilSeqNo: 9},
	)

	expectRange(receiver, eventlog.Coordinate{Name: "orders", Partition: 0}, 0, 2)
	expectRange(receiver, eventlog.Coordinate{Name: "orders", Partition: 1}, 4, 6)

	scheduler.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(runTasksReversed)

	records, err := ds.Collect(context.TODO())
	c.Assert(err, gc.IsNil)
	c.Assert(records, gc.HasLen, 4)
}

func (s *DatasetTestSuite) TestTaskErrorsAbortTheRun(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	receiver := mocks.NewMockReceiver(ctrl)
	scheduler := mocks.NewMockScheduler(ctrl)

	ds := s.newDataset(c, receiver, scheduler,
		logset.OffsetRange{PartitionID: 0, Name: "orders", FromSeqNo: 0, UntilSeqNo: 2},
	)

	wantErr := xerrors.New("connection reset")
	receiver.EXPECT().
		Receive(gomock.Any(), gomock.Any(), int64(0), int64(2)).
		Return(nil, wantErr)
	scheduler.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(runTasksReversed)

	_, err := ds.Collect(context.TODO())
	c.Assert(err, gc.Equals, wantErr, gc.Commentf("no partial results on task failure"))
}
