package service

import (
	"context"
	"sync"

	"golang.org/x/xerrors"
)

// Service is implemented by the long-running components that make up the
// monolith deployment.
type Service interface {
	// Name returns the name of the service.
	Name() string

	// Run executes the service until ctx is cancelled or an error occurs.
	Run(ctx context.Context) error
}

// Group groups a list of services that are meant to run together.
type Group []Service

// Run executes all services in the group. Calls to Run block until all
// services have exited. If any service exits with an error, all other
// services are signalled to shut down and the first error is returned.
func (g Group) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()

	var wg sync.WaitGroup
	errCh := make(chan error, len(g))
	wg.Add(len(g))
	for _, svc := range g {
		go func(svc Service) {
			defer wg.Done()
			if err := svc.Run(runCtx); err != nil {
				errCh <- xerrors.Errorf("%s: %w", svc.Name(), err)
				cancelFn()
			}
		}(svc)
	}

	<-runCtx.Done()
	wg.Wait()

	var err error
	select {
	case err = <-errCh:
	default:
	}
	return err
}
