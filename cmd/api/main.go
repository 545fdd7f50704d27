// @title           Wallet Service API
// @version         1.0
// @description     Personal wallet: accounts, contacts, deposits, transfers and history.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

//go:generate swag init -g cmd/api/main.go -d ../../ -o ../../docs

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/alkewallet/wallet-service/internal/api"
	"github.com/alkewallet/wallet-service/internal/core/domain"
	"github.com/alkewallet/wallet-service/internal/core/ports"
	"github.com/alkewallet/wallet-service/internal/core/service"
	"github.com/alkewallet/wallet-service/internal/infrastructure/config"
	"github.com/alkewallet/wallet-service/internal/infrastructure/db/memory"
	mongodb "github.com/alkewallet/wallet-service/internal/infrastructure/db/mongo"
	redisdb "github.com/alkewallet/wallet-service/internal/infrastructure/db/redis"
	"github.com/alkewallet/wallet-service/internal/infrastructure/http/handlers"
	"github.com/alkewallet/wallet-service/internal/infrastructure/mq"
	"github.com/alkewallet/wallet-service/internal/infrastructure/queue"
	"github.com/alkewallet/wallet-service/internal/infrastructure/seed"
	"github.com/alkewallet/wallet-service/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "wallet-service",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("wallet service stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	checks := map[string]handlers.Check{}
	var closers []func(context.Context)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i](shutdownCtx)
		}
	}()

	// --- Storage ---
	var (
		identities ports.IdentityRepository
		contacts   ports.ContactRepository
		ledger     ports.LedgerRepository
	)
	switch cfg.Storage {
	case config.StorageMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		closers = append(closers, func(ctx context.Context) {
			if err := client.Disconnect(ctx); err != nil {
				log.Error().Err(err).Msg("mongo disconnect")
			}
		})
		repos := mongodb.NewRepositories(db)
		if err := repos.EnsureIndexes(ctx); err != nil {
			return err
		}
		identities, contacts, ledger = repos.Identities, repos.Contacts, repos.Ledger
		checks["mongodb"] = handlers.MongoCheck(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongodb storage")
	default:
		store := memory.NewStore()
		identities, contacts, ledger = store.Identities(), store.Contacts(), store.Ledger()
		log.Info().Msg("using in-memory storage")
	}

	// --- Locks and sessions ---
	var (
		locker   ports.IdentityLocker = memory.NewLocker()
		sessions ports.SessionStore   = memory.NewSessionStore()
	)
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		closers = append(closers, func(context.Context) {
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("redis close")
			}
		})
		locker = redisdb.NewLocker(rdb, redisdb.LockerConfig{})
		sessions = redisdb.NewSessionStore(rdb)
		checks["redis"] = handlers.RedisCheck(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis for locks and sessions")
	}

	// --- Transaction events ---
	var publisher ports.EventPublisher = mq.NewLogPublisher(logger.Component("events"))
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := mq.NewSyncProducer(mq.KafkaConfig{
			Brokers:  cfg.Kafka.Brokers,
			Topic:    cfg.Kafka.Topic,
			ClientID: "wallet-service",
		})
		if err != nil {
			return err
		}
		kafka := mq.NewKafkaPublisher(producer, cfg.Kafka.Topic)
		closers = append(closers, closeProducer(kafka, log))
		publisher = kafka
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing events to kafka")
	}

	dispatcher := queue.NewDispatcher(cfg.Events.Workers, publisher, logger.Component("dispatcher"))
	dispatcher.Start(ctx)
	closers = append(closers, func(ctx context.Context) {
		if err := dispatcher.Stop(ctx); err != nil {
			log.Error().Err(err).Msg("dispatcher stop")
		}
	})

	// --- Services ---
	depositLimit, err := domain.AmountFromDecimal(cfg.Wallet.DepositLimit)
	if err != nil {
		return err
	}
	accountSvc := service.NewAccountService(identities, sessions, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	contactSvc := service.NewContactService(contacts)
	ledgerSvc := service.NewLedgerService(ledger)
	transactionSvc := service.NewTransactionService(accountSvc, contactSvc, ledgerSvc, locker, dispatcher, depositLimit)

	if cfg.Wallet.SeedDemo {
		if err := seed.NewSeeder(identities, contactSvc, transactionSvc, logger.Component("seed")).Run(ctx); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Dependencies{
		Accounts:     accountSvc,
		Contacts:     contactSvc,
		Ledger:       ledgerSvc,
		Transactions: transactionSvc,
		Sessions:     sessions,
		JWTSecret:    cfg.Auth.JWTSecret,
		PageSize:     cfg.Wallet.PageSize,
		HealthChecks: checks,
		Logger:       logger.Component("http"),
	})

	// --- Serve until signalled ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	return nil
}

func closeProducer(p *mq.KafkaPublisher, log zerolog.Logger) func(context.Context) {
	return func(context.Context) {
		if err := p.Close(); err != nil && !errors.Is(err, sarama.ErrClosedClient) {
			log.Error().Err(err).Msg("kafka producer close")
		}
	}
}
