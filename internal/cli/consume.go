package cli

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/memora-care/memora/internal/config"
	"github.com/memora-care/memora/internal/kafka"
	"github.com/memora-care/memora/internal/logger"
	"github.com/memora-care/memora/internal/transfer"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Print transfer events from Kafka",
	RunE:  runConsume,
}

func runConsume(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if len(cfg.Kafka.Brokers) == 0 {
		return errors.New("consume: KAFKA_BROKERS is not set")
	}

	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return kafka.Consume(ctx, kafka.ConsumerConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	}, log, func(e transfer.Event) {
		log.Info("transfer event",
			zap.String("transfer_id", e.TransferID),
			zap.String("patient_id", e.PatientID),
			zap.String("status", string(e.Status)),
			zap.String("from", e.FromCaregiverID),
			zap.String("to", e.ToCaregiverID),
			zap.String("actor", e.ActorID),
			zap.Time("occurred_at", e.OccurredAt),
		)
	})
}
