package logset_test

import (
	"context"

	"github.com/golang/mock/gomock"
	gc "gopkg.in/check.v1"
	"golang.org/x/xerrors"

	"github.com/moratsam/logscan/eventlog"
	"github.com/moratsam/logscan/logset"
	"github.com/moratsam/logscan/logset/mocks"
)

var _ = gc.Suite(new(RangeIteratorTestSuite))

type RangeIteratorTestSuite struct {
}

func (s *RangeIteratorTestSuite) TestDegenerateRange(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	// The mock receiver records no expectations: an iterator over an empty
	// range must never call it.
	receiver := mocks.NewMockReceiver(ctrl)

	it, err := logset.NewRangeIterator(receiver, logset.OffsetRange{PartitionID: 0, Name: "orders", FromSeqNo: 10, UntilSeqNo: 10})
	c.Assert(err, gc.IsNil)
	c.Assert(it.HasNext(), gc.Equals, false)
}

func (s *RangeIteratorTestSuite) TestIterationOrderAndReceiverCalls(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	receiver := mocks.NewMockReceiver(ctrl)

	coord := eventlog.Coordinate{Name: "orders", Partition: 4}
	gomock.InOrder(
		receiver.EXPECT().
			Receive(gomock.Any(), coord, int64(10), int64(3)).
			Return(&eventlog.Record{Name: "orders", Partition: 4, SeqNo: 10}, nil),
		receiver.EXPECT().
			Receive(gomock.Any(), coord, int64(11), int64(2)).
			Return(&eventlog.Record{Name: "orders", Partition: 4, SeqNo: 11}, nil),
		receiver.EXPECT().
			Receive(gomock.Any(), coord, int64(12), int64(1)).
			Return(&eventlog.Record{Name: "orders", Partition: 4, SeqNo: 12}, nil),
	)

	it, err := logset.NewRangeIterator(receiver, logset.OffsetRange{PartitionID: 4, Name: "orders", FromSeqNo: 10, UntilSeqNo: 13})
	c.Assert(err, gc.IsNil)

	var gotSeqNos []int64
	for it.HasNext() {
		rec, err := it.Next(context.TODO())
		c.Assert(err, gc.IsNil)
		gotSeqNos = append(gotSeqNos, rec.SeqNo)
	}
	c.Assert(gotSeqNos, gc.DeepEquals, []int64{10, 11, 12})
}

func (s *RangeIteratorTestSuite) TestMalformedRange(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	receiver := mocks.NewMockReceiver(ctrl)

	_, err := logset.NewRangeIterator(receiver, logset.OffsetRange{PartitionID: 2, Name: "orders", FromSeqNo: 15, UntilSeqNo: 10})
	c.Assert(xerrors.Is(err, logset.ErrMalformedRange), gc.Equals, true, gc.Commentf("got: %v", err))
	c.Assert(err, gc.ErrorMatches, `log "orders" partition 2: from seq no 15 exceeds until seq no 10.*`)
}

func (s *RangeIteratorTestSuite) TestNextPastBound(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	receiver := mocks.NewMockReceiver(ctrl)

	receiver.EXPECT().
		Receive(gomock.Any(), eventlog.Coordinate{Name: "orders", Partition: 0}, int64(0), int64(1)).
		Return(&eventlog.Record{Name: "orders", SeqNo: 0}, nil)

	it, err := logset.NewRangeIterator(receiver, logset.OffsetRange{PartitionID: 0, Name: "orders", FromSeqNo: 0, UntilSeqNo: 1})
	c.Assert(err, gc.IsNil)

	_, err = it.Next(context.TODO())
	c.Assert(err, gc.IsNil)
	c.Assert(it.HasNext(), gc.Equals, false)

	_, err = it.Next(context.TODO())
	c.Assert(xerrors.Is(err, logset.ErrExhaustedRange), gc.Equals, true, gc.Commentf("got: %v", err))
}

func (s *RangeIteratorTestSuite) TestReceiverErrorsPropagateUnchanged(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	receiver := mocks.NewMockReceiver(ctrl)

	wantErr := xerrors.New("service unavailable")
	receiver.EXPECT().
		Receive(gomock.Any(), gomock.Any(), int64(5), int64(2)).
		Return(nil, wantErr)

	it, err := logset.NewRangeIterator(receiver, logset.OffsetRange{PartitionID: 1, Name: "orders", FromSeqNo: 5, UntilSeqNo: 7})
	c.Assert(err, gc.IsNil)

	_, err = it.Next(context.TODO())
	c.Assert(err, gc.Equals, wantErr)

	// A failed fetch does not advance the cursor.
	c.Assert(it.HasNext(), gc.Equals, true)
}
