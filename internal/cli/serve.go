package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/memora-care/memora/internal/auth"
	"github.com/memora-care/memora/internal/cache"
	"github.com/memora-care/memora/internal/clock"
	"github.com/memora-care/memora/internal/config"
	"github.com/memora-care/memora/internal/db"
	"github.com/memora-care/memora/internal/kafka"
	"github.com/memora-care/memora/internal/logger"
	"github.com/memora-care/memora/internal/repository/postgresql"
	"github.com/memora-care/memora/internal/server"
	"github.com/memora-care/memora/internal/storage"
	"github.com/memora-care/memora/internal/transfer"
	"github.com/memora-care/memora/migrations"
)

const shutdownTimeout = 10 * time.Second

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply database migrations before serving (postgres driver only)")
}

// backend is the storage side of the service for the configured driver.
type backend struct {
	deps      transfer.Deps
	publisher *kafka.Publisher
	close     func()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if cfg.EnvFile != "" {
		log.Info("loaded env file", zap.String("path", cfg.EnvFile))
	}
	if cfg.UsesDevSecret() {
		log.Warn("JWT_SECRET is not set, tokens are signed with the development key")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := clock.NewSystem()

	be, err := openBackend(ctx, cfg, clk, log)
	if err != nil {
		return err
	}
	defer be.close()

	be.deps.Caregivers = cache.NewCaregiverCache(be.deps.Caregivers, cfg.CaregiverCacheTTL, clk, log)
	coordinator := transfer.NewCoordinator(be.deps, clk, log, transfer.WithTTL(cfg.TransferTTL))

	audit := server.NewAuditManager(cfg.Audit.Workers, cfg.Audit.BatchSize, cfg.Audit.FlushTimeout, log)
	srv := server.New(coordinator, auth.NewTokens(cfg.JWTSecret, clk), audit, clk, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx, cfg.HTTPPort)
	})
	if be.publisher != nil {
		g.Go(func() error {
			be.publisher.Run(gctx)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if be.publisher != nil {
			be.publisher.Shutdown(shutdownCtx)
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	log.Info("server gracefully stopped")
	return nil
}

func openBackend(ctx context.Context, cfg config.Config, clk clock.Clock, log *zap.Logger) (*backend, error) {
	switch cfg.StorageDriver {
	case config.DriverFile:
		fs, err := storage.NewFileStorage(cfg.StorageFile)
		if err != nil {
			return nil, err
		}
		log.Info("using file storage", zap.String("path", cfg.StorageFile))
		return &backend{deps: fs.Deps(), close: func() {}}, nil

	default:
		database, err := db.NewDb(ctx, cfg.DB.DSN())
		if err != nil {
			return nil, fmt.Errorf("database init: %w", err)
		}
		if serveMigrate {
			applied, err := migrations.Apply(ctx, database.GetPool())
			if err != nil {
				database.Close()
				return nil, err
			}
			log.Info("migrations applied", zap.Strings("names", applied))
		}

		outbox := postgresql.NewOutboxTaskRepo(database)
		deps := transfer.Deps{
			Tx:         database,
			Transfers:  postgresql.NewTransferRepo(database),
			Patients:   postgresql.NewPatientRepo(database),
			Caregivers: postgresql.NewCaregiverRepo(database),
			History:    postgresql.NewHistoryRepo(database, outbox, cfg.Kafka.Topic),
			Briefings:  postgresql.NewBriefingRepo(database),
		}

		publisher := kafka.NewPublisher(database, outbox, newProducer(cfg.Kafka, log), kafka.PublisherConfig{
			PollInterval: cfg.Outbox.PollInterval,
			BatchSize:    cfg.Outbox.BatchSize,
			MaxAttempts:  cfg.Outbox.MaxAttempts,
			Lease:        cfg.Outbox.Lease,
		}, clk, log)

		return &backend{deps: deps, publisher: publisher, close: database.Close}, nil
	}
}

func newProducer(cfg config.KafkaConfig, log *zap.Logger) kafka.Producer {
	if len(cfg.Brokers) == 0 {
		return kafka.NewLogProducer(log)
	}
	return kafka.NewKafkaProducer(cfg.Brokers, log)
}
