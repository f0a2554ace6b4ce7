//go:generate mockgen -source ./publisher.go -destination=./mocks/publisher.go -package=mock_kafka
package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/memora-care/memora/internal/clock"
	"github.com/memora-care/memora/internal/metrics"
	"github.com/memora-care/memora/internal/repository"
)

type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type OutboxTaskRepository interface {
	GetProcessableTasks(ctx context.Context, limit, maxAttempts int, lease time.Duration) ([]*repository.OutboxTask, error)
	UpdateTaskStatus(ctx context.Context, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
}

type PublisherConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	// Lease is how long a claimed task may stay PROCESSING before another
	// poll claims it again.
	Lease time.Duration
}

var errShutdown = errors.New("publisher shutdown during batch processing")

const releaseTimeout = 5 * time.Second

// Publisher drains outbox_tasks into the Producer.
type Publisher struct {
	tx             TxRunner
	repo           OutboxTaskRepository
	producer       Producer
	config         PublisherConfig
	clock          clock.Clock
	logger         *zap.Logger
	wg             sync.WaitGroup
	shutdownSignal chan struct{}
	stopOnce       sync.Once
}

func NewPublisher(tx TxRunner, repo OutboxTaskRepository, producer Producer, config PublisherConfig, clk clock.Clock, logger *zap.Logger) *Publisher {
	return &Publisher{
		tx:             tx,
		repo:           repo,
		producer:       producer,
		config:         config,
		clock:          clk,
		logger:         logger.With(zap.String("component", "outbox_publisher")),
		shutdownSignal: make(chan struct{}),
	}
}

func (p *Publisher) Run(ctx context.Context) {
	p.logger.Info("starting outbox publisher",
		zap.Duration("poll_interval", p.config.PollInterval),
		zap.Int("batch_size", p.config.BatchSize),
	)
	p.wg.Add(1)
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := p.ProcessBatch(ctx); err != nil && !errors.Is(err, errShutdown) && ctx.Err() == nil {
				p.logger.Error("failed to process outbox batch", zap.Error(err))
			}
		case <-p.shutdownSignal:
			p.logger.Info("outbox publisher received shutdown signal, stopping")
			return
		case <-ctx.Done():
			p.logger.Info("outbox publisher context cancelled, stopping")
			return
		}
	}
}

// Shutdown stops Run, waits for the in-flight batch and closes the producer.
func (p *Publisher) Shutdown(ctx context.Context) {
	p.stopOnce.Do(func() {
		close(p.shutdownSignal)
		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			p.logger.Info("outbox publisher shutdown complete")
		case <-ctx.Done():
			p.logger.Warn("outbox publisher shutdown timed out")
		}

		if err := p.producer.Close(); err != nil {
			p.logger.Error("failed to close producer", zap.Error(err))
		}
	})
}

// ProcessBatch claims up to BatchSize tasks, then sends them one by one. It
// returns how many were delivered.
func (p *Publisher) ProcessBatch(ctx context.Context) (int, error) {
	var tasks []*repository.OutboxTask
	err := p.tx.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		tasks, err = p.repo.GetProcessableTasks(txCtx, p.config.BatchSize, p.config.MaxAttempts, p.config.Lease)
		if err != nil {
			return err
		}
		for _, task := range tasks {
			if err := p.repo.UpdateTaskStatus(txCtx, task.ID, repository.TaskStatusProcessing, task.Attempts, nil, nil); err != nil {
				return fmt.Errorf("failed to mark task %s as PROCESSING: %w", task.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if len(tasks) == 0 {
		return 0, nil
	}
	p.logger.Debug("claimed outbox tasks", zap.Int("count", len(tasks)))

	sent := 0
	for i, task := range tasks {
		select {
		case <-p.shutdownSignal:
			p.logger.Warn("shutdown during batch, releasing unsent tasks", zap.Int("count", len(tasks)-i))
			p.release(ctx, tasks[i:])
			return sent, errShutdown
		case <-ctx.Done():
			p.release(ctx, tasks[i:])
			return sent, ctx.Err()
		default:
		}

		if err := p.processSingleTask(ctx, task); err != nil {
			p.logger.Error("failed to process outbox task", zap.Stringer("task_id", task.ID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

// release hands claimed but unsent tasks back to CREATED with their attempts
// unchanged. It outlives ctx cancellation.
func (p *Publisher) release(ctx context.Context, tasks []*repository.OutboxTask) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	for _, task := range tasks {
		if err := p.repo.UpdateTaskStatus(ctx, task.ID, repository.TaskStatusCreated, task.Attempts, nil, nil); err != nil {
			p.logger.Error("failed to release outbox task, it is reclaimed after the lease",
				zap.Stringer("task_id", task.ID),
				zap.Error(err),
			)
		}
	}
}

func (p *Publisher) processSingleTask(ctx context.Context, task *repository.OutboxTask) error {
	key := []byte(task.Key)
	if len(key) == 0 {
		key = []byte(task.ID.String())
	}

	if err := p.producer.SendMessage(ctx, task.Topic, key, task.Payload); err != nil {
		metrics.OutboxFailedTotal.Inc()
		attempts := task.Attempts + 1
		errMsg := err.Error()
		if attempts >= p.config.MaxAttempts {
			p.logger.Warn("outbox task reached max attempts, giving up",
				zap.Stringer("task_id", task.ID),
				zap.Int("attempts", attempts),
			)
		}
		if updateErr := p.repo.UpdateTaskStatus(ctx, task.ID, repository.TaskStatusFailed, attempts, &errMsg, nil); updateErr != nil {
			return fmt.Errorf("failed to update task status after send failure: %w (send error: %v)", updateErr, err)
		}
		return err
	}

	metrics.OutboxPublishedTotal.Inc()
	now := p.clock.Now()
	if err := p.repo.UpdateTaskStatus(ctx, task.ID, repository.TaskStatusDone, task.Attempts, nil, &now); err != nil {
		return fmt.Errorf("failed to update task status after successful send: %w", err)
	}
	return nil
}
