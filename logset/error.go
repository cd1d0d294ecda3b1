package logset

import "golang.org/x/xerrors"

var (
	// ErrInvalidRangeSet is returned when assembling a range set that
	// contains duplicate partition ids or malformed ranges.
	ErrInvalidRangeSet = xerrors.New("invalid range set")

	// ErrMalformedRange is returned when constructing a range iterator for
	// an offset range whose lower bound exceeds its upper bound. It always
	// indicates a planning bug upstream.
	ErrMalformedRange = xerrors.New("malformed offset range")

	// ErrExhaustedRange is returned when requesting the next record from an
	// exhausted range iterator. It always indicates a caller defect.
	ErrExhaustedRange = xerrors.New("offset range exhausted")
)
