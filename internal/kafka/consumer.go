package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/memora-care/memora/internal/transfer"
)

type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Consume reads transfer events until ctx is done and hands each decoded event
// to handle. Messages that do not decode are logged and skipped.
func Consume(ctx context.Context, cfg ConsumerConfig, logger *zap.Logger, handle func(transfer.Event)) error {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
	})
	defer func() {
		if err := r.Close(); err != nil {
			logger.Error("error closing kafka reader", zap.Error(err))
		}
	}()

	logger.Info("consumer connected", zap.String("topic", cfg.Topic), zap.Strings("brokers", cfg.Brokers), zap.String("group_id", cfg.GroupID))

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				logger.Info("consumer stopping")
				return nil
			}
			logger.Error("error reading message", zap.Error(err))
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		event, err := DecodeEvent(m.Value)
		if err != nil {
			logger.Warn("skipping undecodable message",
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
				zap.Error(err),
			)
			continue
		}
		handle(event)
	}
}

func DecodeEvent(value []byte) (transfer.Event, error) {
	var e transfer.Event
	if err := json.Unmarshal(value, &e); err != nil {
		return transfer.Event{}, err
	}
	if e.TransferID == "" || e.Status == "" {
		return transfer.Event{}, errors.New("event without transferId or status")
	}
	return e, nil
}
