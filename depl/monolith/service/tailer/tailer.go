package tailer

import (
	"context"
	"io/ioutil"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/moratsam/logscan/eventlog"
	"github.com/moratsam/logscan/logset"
	"github.com/moratsam/logscan/snapshot"
)

// Config encapsulates the settings for configuring the tailer service.
type Config struct {
	// An API for resolving the published sequence number bounds of the
	// tailed log.
	Provider snapshot.SeqNoProvider

	// An API for fetching individual records from the tailed log.
	Receiver logset.Receiver

	// A scheduler for executing per-partition read tasks.
	Scheduler logset.Scheduler

	// The name of the log to tail.
	LogName string

	// The maximum number of records a single pass may claim from each
	// partition. If not specified, passes claim all published records.
	MaxRecordsPerPartition int64

	// The maximum number of records to consume in a single pass across
	// all partitions. If not specified, passes consume every record in
	// their snapshot.
	TakeResults int64

	// A clock instance for generating time-related events. If not specified,
	// the default wall-clock will be used instead.
	Clock clock.Clock

	// The time between subsequent tail passes.
	PollInterval time.Duration

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.Provider == nil {
		err = multierror.Append(err, xerrors.Errorf("seq no provider has not been provided"))
	}
	if cfg.Receiver == nil {
		err = multierror.Append(err, xerrors.Errorf("receiver has not been provided"))
	}
	if cfg.Scheduler == nil {
		err = multierror.Append(err, xerrors.Errorf("scheduler has not been provided"))
	}
	if cfg.LogName == "" {
		err = multierror.Append(err, xerrors.Errorf("log name has not been specified"))
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	if cfg.PollInterval == 0 {
		err = multierror.Append(err, xerrors.Errorf("invalid value for poll interval"))
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: ioutil.Discard})
	}
	return err
}

// Service implements the tailer component for the logscan project. It
// periodically snapshots the published bounds of the tailed log, plans a
// range set over the unconsumed window and drains it through the
// configured scheduler.
//
// The dataset from the most recent pass is retained so that other
// components (e.g. the front-end) can inspect and re-read it.
type Service struct {
	cfg     Config
	builder *snapshot.Builder

	mu   sync.RWMutex
	cur  *logset.Dataset
	prev *logset.RangeSet
}

// NewService creates a new tailer service instance with the specified config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("tailer service: config validation failed: %w", err)
	}

	builder, err := snapshot.NewBuilder(snapshot.Config{
		Provider:               cfg.Provider,
		Name:                   cfg.LogName,
		MaxRecordsPerPartition: cfg.MaxRecordsPerPartition,
	})
	if err != nil {
		return nil, xerrors.Errorf("tailer service: new snapshot builder creation failed: %w", err)
	}

	return &Service{
		cfg:     cfg,
		builder: builder,
	}, nil
}

// Name implements service.Service
func (svc *Service) Name() string { return "tailer" }

// Run implements service.Service
func (svc *Service) Run(ctx context.Context) error {
	svc.cfg.Logger.WithField("poll_interval", svc.cfg.PollInterval.String()).Info("starting tailer")
	defer svc.cfg.Logger.Info("stopped service")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-svc.cfg.Clock.After(svc.cfg.PollInterval):
			if err := svc.tailPass(ctx); err != nil {
				return err
			}
		}
	}
}

// tailPass claims the next window of published records and drains it.
func (svc *Service) tailPass(ctx context.Context) error {
	startAt := svc.cfg.Clock.Now()

	set, err := svc.builder.Next(svc.prev)
	if err != nil {
		return xerrors.Errorf("snapshot log %q: %w", svc.cfg.LogName, err)
	}
	svc.prev = set

	ds, err := logset.NewDataset(logset.Config{
		RangeSet:  set,
		Receiver:  svc.cfg.Receiver,
		Scheduler: svc.cfg.Scheduler,
	})
	if err != nil {
		return xerrors.Errorf("new dataset for log %q: %w", svc.cfg.LogName, err)
	}

	svc.mu.Lock()
	svc.cur = ds
	svc.mu.Unlock()

	if ds.IsEmpty() {
		svc.cfg.Logger.Debug("no new records published since last pass")
		return nil
	}

	var recs []*eventlog.Record
	if svc.cfg.TakeResults > 0 {
		recs, err = ds.Take(ctx, svc.cfg.TakeResults)
	} else {
		recs, err = ds.Collect(ctx)
	}
	if err != nil {
		return xerrors.Errorf("drain log %q: %w", svc.cfg.LogName, err)
	}

	svc.cfg.Logger.WithFields(logrus.Fields{
		"partitions":       len(ds.Partitions()),
		"records_in_scope": ds.Count(),
		"records_consumed": len(recs),
		"pass_time":        svc.cfg.Clock.Now().Sub(startAt).String(),
	}).Info("tail pass complete")
	return nil
}

// Count returns the number of records covered by the most recent pass.
func (svc *Service) Count() (int64, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	if svc.cur == nil {
		return 0, nil
	}
	return svc.cur.Count(), nil
}

// Take re-reads up to n records from the most recent pass.
func (svc *Service) Take(ctx context.Context, n int64) ([]*eventlog.Record, error) {
	svc.mu.RLock()
	ds := svc.cur
	svc.mu.RUnlock()
	if ds == nil {
		return nil, nil
	}
	return ds.Take(ctx, n)
}
