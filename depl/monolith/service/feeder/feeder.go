package feeder

import (
	"context"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/moratsam/logscan/eventlog"
)

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/moratsam/logscan/depl/monolith/service/feeder LogAPI

// LogAPI is implemented by objects that can append records to an event log.
type LogAPI interface {
	Append(rec *eventlog.Record) (int64, error)
}

// Config encapsulates the settings for configuring the feeder service.
type Config struct {
	// An API for appending records to the event log.
	LogAPI LogAPI

	// The name of the log to append records to.
	LogName string

	// The number of partitions to spread appended records across.
	NumPartitions int

	// A clock instance for generating time-related events. If not specified,
	// the default wall-clock will be used instead.
	Clock clock.Clock

	// The time between subsequent record batches.
	EmitInterval time.Duration

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.LogAPI == nil {
		err = multierror.Append(err, xerrors.Errorf("log API has not been provided"))
	}
	if cfg.LogName == "" {
		err = multierror.Append(err, xerrors.Errorf("log name has not been specified"))
	}
	if cfg.NumPartitions <= 0 {
		err = multierror.Append(err, xerrors.Errorf("invalid value for number of partitions"))
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	if cfg.EmitInterval == 0 {
		err = multierror.Append(err, xerrors.Errorf("invalid value for emit interval"))
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: ioutil.Discard})
	}
	return err
}

// Service implements the feeder component for the logscan project. It
// periodically appends a batch of synthetic records to the event log so
// that downstream consumers have something to tail in local dev mode.
type Service struct {
	cfg Config

	emitted int64
}

// NewService creates a new feeder service instance with the specified config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("feeder service: config validation failed: %w", err)
	}

	return &Service{cfg: cfg}, nil
}

// Name implements service.Service
func (svc *Service) Name() string { return "feeder" }

// Run implements service.Service
func (svc *Service) Run(ctx context.Context) error {
	svc.cfg.Logger.WithField("emit_interval", svc.cfg.EmitInterval.String()).Info("starting feeder")
	defer svc.cfg.Logger.Info("stopped service")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-svc.cfg.Clock.After(svc.cfg.EmitInterval):
			if err := svc.emitBatch(); err != nil {
				return err
			}
		}
	}
}

// emitBatch appends one record to each partition of the configured log.
func (svc *Service) emitBatch() error {
	now := svc.cfg.Clock.Now()
	for partition := 0; partition < svc.cfg.NumPartitions; partition++ {
		rec := &eventlog.Record{
			Name:      svc.cfg.LogName,
			Partition: partition,
			Timestamp: now,
			Value:     []byte(fmt.Sprintf("synthetic event %d", svc.emitted)),
		}
		if _, err := svc.cfg.LogAPI.Append(rec); err != nil {
			return xerrors.Errorf("append record to partition %d: %w", partition, err)
		}
		svc.emitted++
	}

	svc.cfg.Logger.WithFields(logrus.Fields{
		"batch_size":    svc.cfg.NumPartitions,
		"total_emitted": svc.emitted,
	}).Debug("appended record batch")
	return nil
}
