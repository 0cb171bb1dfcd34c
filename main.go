package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/avast/retry-go/v4"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guapman/storage-service/blob/miniowr"
	"github.com/guapman/storage-service/config"
	"github.com/guapman/storage-service/events"
	"github.com/guapman/storage-service/files"
	"github.com/guapman/storage-service/httpapi"
	"github.com/guapman/storage-service/logger"
	"github.com/guapman/storage-service/metadata/mongowr"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.New(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck // stderr sync failure is not actionable

	log = log.Named(cfg.ServiceName)

	ctx := context.Background()

	mongoClient := mustConnectMongo(ctx, cfg.Mongo, log)
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Errorf("mongo disconnect: %v", err)
		}
	}()

	repo := mongowr.New(mongoClient.Database(cfg.Mongo.Database))
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatalx(err)
	}

	blobs, err := miniowr.New(cfg.Minio)
	if err != nil {
		log.Fatalx(err)
	}
	if err := blobs.EnsureBucket(ctx, cfg.Minio); err != nil {
		log.Fatalx(err)
	}

	publisher, closeProducer := buildPublisher(cfg.Kafka, log)
	defer closeProducer()

	svc := files.New(blobs, repo, publisher, log)

	srv := httpapi.New(cfg.HTTP, svc, log)

	errCh := make(chan error, 1)
	go func() {
		log.Infof("http server listening on %s", cfg.HTTP.Address())
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Infof("received signal %s, shutting down", sig)
		if err := srv.Stop(); err != nil {
			log.Errorf("http server shutdown: %v", err)
		}
	case err := <-errCh:
		if err != nil {
			log.Errorx(err)
		}
	}

	log.Info("shutdown complete")
}

// mustConnectMongo connects and waits for the deployment to answer pings,
// retrying for the configured number of attempts.
func mustConnectMongo(ctx context.Context, cfg mongowr.Config, log logger.Logger) *mongo.Client {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, mongoopts.Client().ApplyURI(cfg.URI))
	if err != nil {
		log.Fatalx(err)
	}

	err = retry.Do(
		func() error { return client.Ping(ctx, nil) },
		retry.Attempts(uint(cfg.PingRetries)),
		retry.Delay(cfg.PingRetryDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			log.Warnf("mongo ping attempt %d failed: %v", n+1, err)
		}),
	)
	if err != nil {
		log.Fatalx(err)
	}

	return client
}

// buildPublisher returns the configured event publisher and a close
// function. Eventing is optional: when disabled a no-op publisher is used.
func buildPublisher(cfg events.Config, log logger.Logger) (events.Publisher, func()) {
	if !cfg.Enabled {
		log.Info("event publishing disabled")
		return events.Nop{}, func() {}
	}

	producer, err := events.NewProducer(cfg)
	if err != nil {
		log.Fatalx(err)
	}

	return producer, func() {
		if err := producer.Close(); err != nil {
			log.Errorf("kafka producer close: %v", err)
		}
	}
}
