package frontend

import (
	"context"
	"io/ioutil"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/moratsam/logscan/frontend"
)

const defaultMaxTakeResults = 100

// Config encapsulates the settings for configuring the front-end service.
type Config struct {
	// An API for inspecting and re-reading the current dataset snapshot.
	DatasetAPI frontend.DatasetAPI

	// The port to listen for incoming requests.
	ListenAddr string

	// The maximum number of records a single take request may ask for. If
	// not specified, a default value of 100 records will be used instead.
	MaxTakeResults int64

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.ListenAddr == "" {
		err = multierror.Append(err, xerrors.Errorf("listen address has not been specified"))
	}
	if cfg.MaxTakeResults <= 0 {
		cfg.MaxTakeResults = defaultMaxTakeResults
	}
	if cfg.DatasetAPI == nil {
		err = multierror.Append(err, xerrors.Errorf("dataset API has not been provided"))
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: ioutil.Discard})
	}
	return err
}

// Service implements the front-end component for the logscan project.
type Service struct {
	cfg      Config
	frontend *frontend.Frontend
}

// NewService creates a new front-end service instance with the specified config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("front-end service: config validation failed: %w", err)
	}

	fe, err := frontend.NewFrontend(frontend.Config{
		DatasetAPI:     cfg.DatasetAPI,
		ListenAddr:     cfg.ListenAddr,
		MaxTakeResults: cfg.MaxTakeResults,
	})
	if err != nil {
		return nil, xerrors.Errorf("front-end service: new frontend creation failed: %w", err)
	}

	return &Service{
		cfg:      cfg,
		frontend: fe,
	}, nil
}

// Name implements service.Service
func (svc *Service) Name() string { return "front-end" }

// Run implements service.Service
func (svc *Service) Run(ctx context.Context) error {
	svc.cfg.Logger.WithField("addr", svc.cfg.ListenAddr).Info("starting front-end server")
	return svc.frontend.Serve(ctx)
}
