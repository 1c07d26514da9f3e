package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/k9registry/internal/registry/auth"
	"github.com/gartstein/k9registry/internal/registry/config"
	"github.com/gartstein/k9registry/internal/registry/controller"
	"github.com/gartstein/k9registry/internal/registry/db"
	"github.com/gartstein/k9registry/internal/registry/events"
	"github.com/gartstein/k9registry/internal/registry/handlers"
	"github.com/gartstein/k9registry/internal/registry/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// eventProducer is satisfied by both the Kafka producer and the no-op one.
type eventProducer interface {
	controller.EventProducer
	Close()
}

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.LogLevel)
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	repo, err := connectDatabase(initDatabase(cfg), logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	producer, err := initProducer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	defer producer.Close()

	m := metrics.New()
	supplierSvc := controller.NewSupplierService(repo, producer, m, logger)
	dogSvc := controller.NewDogService(repo, supplierSvc, producer, m, logger)

	handler := handlers.NewHandler(dogSvc, supplierSvc, logger, cfg.DefaultPageSize)
	opts := handlers.RouterOptions{
		Logger:         logger,
		Metrics:        m.Middleware,
		MetricsHandler: m.Handler(),
		Ping:           repo.Ping,
	}
	if cfg.AuthEnabled {
		opts.Auth = auth.Middleware(cfg.JWTSecret)
	} else {
		logger.Warn("Authentication disabled, mutating routes are open")
	}

	server := handlers.NewServer(cfg.HTTPPort, handlers.NewRouter(handler, opts), logger)
	errChan := server.Start()

	waitForShutdown(server, errChan, logger)
}

// initLogger initializes a Zap production logger at the configured level.
func initLogger(level string) *zap.Logger {
	zapCfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zapCfg.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}

// initDatabase maps the configuration to the store settings.
func initDatabase(cfg *config.Config) *db.Config {
	return &db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}
}

// connectDatabase retries the initial connection while the database starts.
func connectDatabase(dbCfg *db.Config, logger *zap.Logger) (*db.Repository, error) {
	var repo *db.Repository
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 30 * time.Second

	err := backoff.RetryNotify(func() error {
		var err error
		repo, err = db.NewRepository(dbCfg)
		return err
	}, policy, func(err error, wait time.Duration) {
		logger.Warn("Database not ready, retrying", zap.Error(err), zap.Duration("wait", wait))
	})
	return repo, err
}

func initProducer(cfg *config.Config, logger *zap.Logger) (eventProducer, error) {
	if !cfg.KafkaEnabled {
		logger.Info("Kafka disabled, events are discarded")
		return events.NewNopProducer(logger), nil
	}
	return events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
}

// waitForShutdown blocks until an interrupt, SIGTERM or a server failure, then shuts down.
func waitForShutdown(server *handlers.Server, errChan <-chan error, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
	case err, ok := <-errChan:
		if ok && err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}

	server.Stop()
	logger.Info("Server stopped properly")
}
