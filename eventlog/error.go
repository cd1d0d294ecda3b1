package eventlog

import "golang.org/x/xerrors"

var (
	// ErrUnknownPartition is returned when addressing a partition the log
	// does not contain.
	ErrUnknownPartition = xerrors.New("unknown log partition")

	// ErrSeqNoOutOfRange is returned when fetching a sequence number that
	// lies outside the available bounds of a partition.
	ErrSeqNoOutOfRange = xerrors.New("sequence number out of range")
)
