package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"golang.org/x/xerrors"

	"github.com/moratsam/logscan/depl/monolith/service/frontend"
	"github.com/moratsam/logscan/depl/monolith/service/tailer"
	"github.com/moratsam/logscan/receiver/kafka"
	"github.com/moratsam/logscan/scheduler/local"
)

var (
	appName = "logscan-tailer"
	appSha  = "populated-at-link-time"
	logger  *logrus.Entry
)

func main() {
	host, _ := os.Hostname()
	rootLogger := logrus.New()
	rootLogger.SetFormatter(new(logrus.JSONFormatter))
	logger = rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"sha":  appSha,
		"host": host,
	})

	if err := makeApp().Run(os.Args); err != nil {
		logger.WithField("err", err).Error("shutting down due to error")
		_ = os.Stderr.Sync()
		os.Exit(1)
	}
}

func makeApp() *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.Version = appSha
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "kafka-brokers",
			Value:  "localhost:9092",
			EnvVar: "KAFKA_BROKERS",
			Usage:  "A comma-separated list of kafka broker addresses to tail records from",
		},
		cli.StringFlag{
			Name:   "log-name",
			Value:  "events",
			EnvVar: "LOG_NAME",
			Usage:  "The name of the kafka topic to tail",
		},
		cli.DurationFlag{
			Name:   "poll-interval",
			Value:  time.Minute,
			EnvVar: "POLL_INTERVAL",
			Usage:  "The time between subsequent tail passes",
		},
		cli.Int64Flag{
			Name:   "max-records-per-partition",
			Value:  1000,
			EnvVar: "MAX_RECORDS_PER_PARTITION",
			Usage:  "The maximum number of records a single tail pass may claim per partition",
		},
		cli.IntFlag{
			Name:   "scheduler-num-workers",
			Value:  runtime.NumCPU(),
			EnvVar: "SCHEDULER_NUM_WORKERS",
			Usage:  "The number of workers to use for draining partition ranges (defaults to number of CPUs)",
		},
		cli.StringFlag{
			Name:   "frontend-listen-addr",
			Value:  ":48855",
			EnvVar: "FRONTEND_LISTEN_ADDR",
			Usage:  "The address to listen for incoming front-end requests",
		},
		cli.IntFlag{
			Name:   "pprof-port",
			Value:  6060,
			EnvVar: "PPROF_PORT",
			Usage:  "The port for exposing pprof endpoints",
		},
	}
	app.Action = runMain
	return app
}

func runMain(appCtx *cli.Context) error {
	var wg sync.WaitGroup
	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	receiver, err := getKafkaReceiver(appCtx.String("kafka-brokers"))
	if err != nil {
		return err
	}
	defer func() { _ = receiver.Close() }()

	tailerSvc, err := tailer.NewService(tailer.Config{
		Provider:               receiver,
		Receiver:               receiver,
		Scheduler:              local.NewScheduler(local.Config{Workers: appCtx.Int("scheduler-num-workers")}),
		LogName:                appCtx.String("log-name"),
		MaxRecordsPerPartition: appCtx.Int64("max-records-per-partition"),
		PollInterval:           appCtx.Duration("poll-interval"),
		Logger:                 logger.WithField("service", "tailer"),
	})
	if err != nil {
		return err
	}

	frontendSvc, err := frontend.NewService(frontend.Config{
		DatasetAPI: tailerSvc,
		ListenAddr: appCtx.String("frontend-listen-addr"),
		Logger:     logger.WithField("service", "front-end"),
	})
	if err != nil {
		return err
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancelFn()
		if err := tailerSvc.Run(ctx); err != nil {
			logger.WithField("err", err).Error("tailer service exited")
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancelFn()
		if err := frontendSvc.Run(ctx); err != nil {
			logger.WithField("err", err).Error("front-end service exited")
		}
	}()

	// Start pprof server
	pprofListener, err := net.Listen("tcp", fmt.Sprintf(":%d", appCtx.Int("pprof-port")))
	if err != nil {
		return err
	}
	defer func() { _ = pprofListener.Close() }()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.WithField("port", appCtx.Int("pprof-port")).Info("listening for pprof requests")
		srv := new(http.Server)
		_ = srv.Serve(pprofListener)
	}()

	// Start signal watcher
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			logger.WithField("signal", s.String()).Infof("shutting down due to signal")
			_ = pprofListener.Close()
			cancelFn()
		case <-ctx.Done():
		}
	}()

	// Keep running until we receive a signal
	wg.Wait()
	return nil
}

func getKafkaReceiver(brokers string) (*kafka.Receiver, error) {
	if brokers == "" {
		return nil, xerrors.Errorf("kafka brokers must be specified with --kafka-brokers")
	}

	kafkaCfg := sarama.NewConfig()
	kafkaCfg.Consumer.Return.Errors = true

	client, err := sarama.NewClient(strings.Split(brokers, ","), kafkaCfg)
	if err != nil {
		return nil, xerrors.Errorf("could not connect to kafka brokers: %w", err)
	}

	consumer, err := sarama.NewConsumerFromClient(client)
	if err != nil {
		_ = client.Close()
		return nil, xerrors.Errorf("could not create kafka consumer: %w", err)
	}

	logger.Info("using kafka-backed receiver")
	return kafka.NewReceiver(kafka.Config{
		Client:   client,
		Consumer: consumer,
	})
}
