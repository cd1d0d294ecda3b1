package frontend

import (
	"github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"
)

// Config encapsulates the settings for configuring a frontend instance.
type Config struct {
	// An API for inspecting the current dataset snapshot.
	DatasetAPI DatasetAPI

	// The port to listen for incoming requests.
	ListenAddr string

	// The maximum number of records a single take request may ask for.
	MaxTakeResults int64
}

func (cfg *Config) validate() error {
	var err error
	if cfg.ListenAddr == "" {
		err = multierror.Append(err, xerrors.Errorf("listen address has not been specified"))
	}
	if cfg.MaxTakeResults <= 0 {
		err = multierror.Append(err, xerrors.Errorf("max take results has not been specified"))
	}
	if cfg.DatasetAPI == nil {
		err = multierror.Append(err, xerrors.Errorf("dataset API has not been provided"))
	}
	return err
}
