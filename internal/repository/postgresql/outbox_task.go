package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/memora-care/memora/internal/db"
	"github.com/memora-care/memora/internal/repository"
)

type OutboxTaskRepo struct {
	db db.DB
}

func NewOutboxTaskRepo(db db.DB) *OutboxTaskRepo {
	return &OutboxTaskRepo{db: db}
}

func (r *OutboxTaskRepo) Create(ctx context.Context, task *repository.OutboxTask) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
        INSERT INTO outbox_tasks (id, status, payload, topic, message_key)
        VALUES ($1, $2, $3, $4, $5)
    `, task.ID, repository.TaskStatusCreated, task.Payload, task.Topic, task.Key)
	if err != nil {
		return fmt.Errorf("failed to insert outbox task: %w", err)
	}
	return nil
}

// GetProcessableTasks locks the returned rows; call it inside WithTx.
// PROCESSING rows untouched for longer than lease belong to a publisher that
// died mid-batch and are claimed again.
func (r *OutboxTaskRepo) GetProcessableTasks(ctx context.Context, limit, maxAttempts int, lease time.Duration) ([]*repository.OutboxTask, error) {
	var tasks []*repository.OutboxTask
	err := r.db.Select(ctx, &tasks, `
        SELECT id, status, payload, topic, message_key, attempts, last_error, created_at, updated_at, completed_at
        FROM outbox_tasks
        WHERE status = $1
           OR (status = $2 AND attempts < $3)
           OR (status = $4 AND updated_at < NOW() - make_interval(secs => $5))
        ORDER BY updated_at ASC
        LIMIT $6
        FOR UPDATE SKIP LOCKED
    `, repository.TaskStatusCreated, repository.TaskStatusFailed, maxAttempts,
		repository.TaskStatusProcessing, lease.Seconds(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get processable outbox tasks: %w", err)
	}
	return tasks, nil
}

func (r *OutboxTaskRepo) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error {
	// updated_at is maintained by the outbox_tasks_touch trigger
	tag, err := r.db.Exec(ctx, `
        UPDATE outbox_tasks
        SET status = $2, attempts = $3, last_error = $4, completed_at = $5
        WHERE id = $1
    `, id, status, attempts, lastError, completedAt)
	if err != nil {
		return fmt.Errorf("failed to update outbox task status for id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}
