package main

import (
	"context"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"net/url"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/moratsam/logscan/depl/monolith/service"
	"github.com/moratsam/logscan/depl/monolith/service/feeder"
	"github.com/moratsam/logscan/depl/monolith/service/frontend"
	"github.com/moratsam/logscan/depl/monolith/service/tailer"
	"github.com/moratsam/logscan/eventlog"
	cdblog "github.com/moratsam/logscan/eventlog/store/cdb"
	memlog "github.com/moratsam/logscan/eventlog/store/memory"
	"github.com/moratsam/logscan/receiver/simulated"
	"github.com/moratsam/logscan/scheduler/local"
)

var (
	appName = "logscan"
	appSha  = "populated-at-link-time"
)

func main() {
	// Expose pprof at localhost:6060/debug/pprof
	go func() {
		http.ListenAndServe(":6060", nil)
	}()

	host, _ := os.Hostname()
	rootLogger := logrus.New()
	logger := rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"sha":  appSha,
		"host": host,
	})

	if err := runMain(logger); err != nil {
		logger.WithField("err", err).Error("shutting down due to error")
		return
	}
	logger.Info("shutdown complete")
}

func runMain(logger *logrus.Entry) error {
	svcGroup, err := setupServices(logger)
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			logger.WithField("signal", s.String()).Infof("shutting down due to signal")
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return svcGroup.Run(ctx)
}

func setupServices(logger *logrus.Entry) (service.Group, error) {
	var (
		feederCfg   feeder.Config
		frontendCfg frontend.Config
		tailerCfg   tailer.Config
	)

	// feeder
	flag.IntVar(&feederCfg.NumPartitions, "feeder-num-partitions", 4, "The number of event log partitions the feeder appends records to")
	flag.DurationVar(&feederCfg.EmitInterval, "feeder-emit-interval", 5*time.Second, "The time between subsequent synthetic record batches")

	// frontend
	flag.StringVar(&frontendCfg.ListenAddr, "frontend-listen-addr", ":48855", "The address to listen for incoming front-end requests")
	flag.Int64Var(&frontendCfg.MaxTakeResults, "frontend-max-take-results", 100, "The maximum number of records a single take request may ask for")

	// tailer
	flag.DurationVar(&tailerCfg.PollInterval, "tailer-poll-interval", time.Minute, "The time between subsequent tail passes")
	flag.Int64Var(&tailerCfg.MaxRecordsPerPartition, "tailer-max-records-per-partition", 1000, "The maximum number of records a single tail pass may claim per partition")
	flag.Int64Var(&tailerCfg.TakeResults, "tailer-take-results", 0, "The maximum number of records a single tail pass may consume across all partitions (0 consumes everything)")

	logName := flag.String("log-name", "events", "The name of the event log to feed and tail")
	eventLogURI := flag.String("event-log-uri", "in-memory://", "The URI for connecting to the event log (supported URIs: in-memory://, postgresql://user@host:26257/logscan?sslmode=disable) Defaults to in-memory")
	schedulerWorkers := flag.Int("scheduler-num-workers", runtime.NumCPU(), "The number of workers to use for draining partition ranges (defaults to number of CPUs)")

	flag.Parse()

	// Retrieve a suitable event log implementation and plug it into the
	// service configurations.
	log, err := getEventLog(*eventLogURI, *logName, feederCfg.NumPartitions, logger)
	if err != nil {
		logger.WithField("err", err).Error("get event log")
		return nil, err
	}

	receiver := simulated.NewReceiver(log)
	scheduler := local.NewScheduler(local.Config{Workers: *schedulerWorkers})

	var svc service.Service
	var svcGroup service.Group

	feederCfg.LogAPI = log
	feederCfg.LogName = *logName
	feederCfg.Logger = logger.WithField("service", "feeder")
	if svc, err = feeder.NewService(feederCfg); err == nil {
		svcGroup = append(svcGroup, svc)
	} else {
		return nil, err
	}

	tailerCfg.Provider = receiver
	tailerCfg.Receiver = receiver
	tailerCfg.Scheduler = scheduler
	tailerCfg.LogName = *logName
	tailerCfg.Logger = logger.WithField("service", "tailer")
	tailerSvc, err := tailer.NewService(tailerCfg)
	if err != nil {
		return nil, err
	}
	svcGroup = append(svcGroup, tailerSvc)

	frontendCfg.DatasetAPI = tailerSvc
	frontendCfg.Logger = logger.WithField("service", "front-end")
	if svc, err = frontend.NewService(frontendCfg); err == nil {
		svcGroup = append(svcGroup, svc)
	} else {
		return nil, err
	}

	return svcGroup, nil
}

func getEventLog(eventLogURI, logName string, numPartitions int, logger *logrus.Entry) (eventlog.Log, error) {
	if eventLogURI == "" {
		return nil, xerrors.Errorf("event log URI must be specified with --event-log-uri")
	}

	uri, err := url.Parse(eventLogURI)
	if err != nil {
		return nil, xerrors.Errorf("could not parse event log URI: %w", err)
	}

	switch uri.Scheme {
	case "in-memory":
		logger.Info("using in-memory event log")
		log := memlog.NewInMemoryLog()
		if err := log.Provision(logName, numPartitions); err != nil {
			return nil, err
		}
		return log, nil
	case "postgresql":
		logger.Info("using CDB event log")
		return cdblog.NewCDBLog(eventLogURI)
	default:
		return nil, xerrors.Errorf("unsupported event log URI scheme: %q", uri.Scheme)
	}
}
