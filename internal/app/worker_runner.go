package app

import (
	"context"
	"errors"
	"log"

	"go.uber.org/dig"

	"service-cleaning-booking/internal/config"
	"service-cleaning-booking/internal/logx"
	"service-cleaning-booking/internal/notify"
	"service-cleaning-booking/internal/transport/kafka"
)

var newConsumer = kafka.NewConsumer

// MustBuildWorkerContainer builds the container of the notification worker.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	c, err := buildWorker(ctx, config.Load)
	if err != nil {
		log.Fatalf("failed to build worker container: %v", err)
	}
	return c
}

func buildWorker(ctx context.Context, load func() (*config.Config, error)) (*dig.Container, error) {
	container := dig.New()
	err := provideAll(container,
		func() context.Context { return ctx },
		load,
		NewLogger,
		func(logger logx.Logger) notify.Sender { return notify.NewLogSender(logger) },
		func(cfg *config.Config, logger logx.Logger, sender notify.Sender) (*kafka.Consumer, error) {
			logger = logger.With(logx.String("component", "notifier"))
			return newConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.NotifierGroup, cfg.Kafka.NotificationsTopic, sender.Deliver)
		},
	)
	if err != nil {
		return nil, err
	}
	return container, nil
}

// WorkerRunner runs the notification worker
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun consumes notifications until the container context is cancelled
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

func workerRun(ctx context.Context, logger logx.Logger, consumer *kafka.Consumer) error {
	if consumer == nil {
		return errors.New("kafka consumer is nil: KAFKA_BROKERS is not configured")
	}
	defer closeWorker(logger, consumer)

	logger.Info("service-booking-notifier started")
	return consumer.Run(ctx)
}

func closeWorker(logger logx.Logger, consumer *kafka.Consumer) {
	if err := consumer.Close(); err != nil {
		logger.Error("kafka close error", logx.Err(err))
	}
}
