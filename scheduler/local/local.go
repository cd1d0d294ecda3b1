package local

import (
	"context"
	"runtime"
	"sync"

	"github.com/moratsam/logscan/eventlog"
	"github.com/moratsam/logscan/logset"
)

// Compile-time check for ensuring Scheduler implements logset.Scheduler.
var _ logset.Scheduler = (*Scheduler)(nil)

// Config encapsulates the configuration options for creating a new local
// scheduler.
type Config struct {
	// The maximum number of partition tasks to run concurrently. If not
	// specified, the number of CPUs will be used instead.
	Workers int
}

func (cfg *Config) validate() {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// Scheduler runs partition tasks on an in-process worker pool. It stands in
// for a cluster scheduler in single-node deployments and tests: locality
// hints are ignored, which the advisory hint contract permits.
type Scheduler struct {
	cfg Config
}

// NewScheduler returns a new local scheduler instance using the provided
// config options.
func NewScheduler(cfg Config) *Scheduler {
	cfg.validate()
	return &Scheduler{cfg: cfg}
}

// Run executes fn once per partition across the worker pool and returns the
// task outputs positionally aligned with partitions. The first task error
// cancels the remaining tasks and fails the run; no partial results are
// returned. Tasks are idempotent (the same offset range always produces the
// same records), so callers may safely re-run a failed invocation.
func (s *Scheduler) Run(ctx context.Context, partitions []logset.Partition, fn logset.TaskFn) ([][]*eventlog.Record, error) {
	ctx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	results := make([][]*eventlog.Record, len(partitions))
	taskCh := make(chan int)

	workers := s.cfg.Workers
	if workers > len(partitions) {
		workers = len(partitions)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range taskCh {
				records, err := fn(ctx, partitions[i])
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					cancelFn()
					return
				}
				results[i] = records
			}
		}()
	}

	for i := range partitions {
		select {
		case taskCh <- i:
		case <-ctx.Done():
		}
	}
	close(taskCh)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
