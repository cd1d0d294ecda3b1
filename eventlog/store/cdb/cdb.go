package cdb

import (
	"database/sql"

	_ "github.com/lib/pq"
	"golang.org/x/xerrors"

	"github.com/moratsam/logscan/eventlog"
)

var (
	appendRecordQuery = `
insert into record(name, partition, seq_no, "timestamp", value)
values ($1, $2, (select coalesce(max(seq_no), -1)+1 from record where name=$1 and partition=$2), $3, $4)
returning seq_no`

	fetchRecordQuery = `
select seq_no, "timestamp", value from record
where name=$1 and partition=$2 and seq_no=$3`

	seqNoBoundsQuery = `
select coalesce(min(seq_no), 0), coalesce(max(seq_no)+1, 0), count(*)
from record where name=$1 and partition=$2`

	partitionsQuery = `select distinct partition from record where name=$1 order by partition`

	// Compile-time check for ensuring CDBLog implements Log.
	_ eventlog.Log = (*CDBLog)(nil)
)

// CDBLog implements an event log that persists its records to a
// cockroachdb instance.
type CDBLog struct {
	db *sql.DB
}

// NewCDBLog returns a CDBLog instance that connects to the cockroachdb
// instance specified by dsn.
func NewCDBLog(dsn string) (*CDBLog, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return &CDBLog{db: db}, nil
}

// Close terminates the connection to the backing cockroachdb instance.
func (l *CDBLog) Close() error {
	return l.db.Close()
}

// Append a record to the partition indicated by the record's Name and
// Partition fields, assigning the next free sequence number of the partition.
func (l *CDBLog) Append(rec *eventlog.Record) (int64, error) {
	row := l.db.QueryRow(appendRecordQuery, rec.Name, rec.Partition, rec.Timestamp.UTC(), rec.Value)
	var seqNo int64
	if err := row.Scan(&seqNo); err != nil {
		return 0, xerrors.Errorf("append record: %w", err)
	}
	return seqNo, nil
}

// Fetch the record with the given sequence number from the partition
// addressed by coord.
func (l *CDBLog) Fetch(coord eventlog.Coordinate, seqNo int64) (*eventlog.Record, error) {
	row := l.db.QueryRow(fetchRecordQuery, coord.Name, coord.Partition, seqNo)
	rec := &eventlog.Record{Name: coord.Name, Partition: coord.Partition}
	if err := row.Scan(&rec.SeqNo, &rec.Timestamp, &rec.Value); err != nil {
		if err == sql.ErrNoRows {
			return nil, xerrors.Errorf("fetch %q/%d seq no %d: %w", coord.Name, coord.Partition, seqNo, eventlog.ErrSeqNoOutOfRange)
		}
		return nil, xerrors.Errorf("fetch record: %w", err)
	}
	rec.Timestamp = rec.Timestamp.UTC()
	return rec, nil
}

// SeqNoBounds returns the earliest available and the next assignable sequence
// number for the partition addressed by coord.
func (l *CDBLog) SeqNoBounds(coord eventlog.Coordinate) (int64, int64, error) {
	row := l.db.QueryRow(seqNoBoundsQuery, coord.Name, coord.Partition)
	var earliest, next, count int64
	if err := row.Scan(&earliest, &next, &count); err != nil {
		return 0, 0, xerrors.Errorf("seq no bounds: %w", err)
	}
	if count == 0 {
		return 0, 0, xerrors.Errorf("seq no bounds of %q/%d: %w", coord.Name, coord.Partition, eventlog.ErrUnknownPartition)
	}
	return earliest, next, nil
}

// Partitions returns the sorted list of partitions of the named log.
func (l *CDBLog) Partitions(name string) ([]int, error) {
	rows, err := l.db.Query(partitionsQuery, name)
	if err != nil {
		return nil, xerrors.Errorf("partitions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var list []int
	for rows.Next() {
		var partition int
		if err := rows.Scan(&partition); err != nil {
			return nil, xerrors.Errorf("partitions, scanning: %w", err)
		}
		list = append(list, partition)
	}
	if len(list) == 0 {
		return nil, xerrors.Errorf("partitions of log %q: %w", name, eventlog.ErrUnknownPartition)
	}
	return list, nil
}
