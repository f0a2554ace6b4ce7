package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/memora-care/memora/internal/db"
	"github.com/memora-care/memora/internal/repository"
	"github.com/memora-care/memora/internal/transfer"
)

// HistoryRepo appends to transfer_history and queues the same event on the
// outbox. Both writes join the caller's transaction.
type HistoryRepo struct {
	db     db.DB
	outbox *OutboxTaskRepo
	topic  string
}

func NewHistoryRepo(db db.DB, outbox *OutboxTaskRepo, topic string) *HistoryRepo {
	return &HistoryRepo{db: db, outbox: outbox, topic: topic}
}

func (r *HistoryRepo) Record(ctx context.Context, e transfer.Event) error {
	var actor *string
	if e.ActorID != "" {
		actor = &e.ActorID
	}
	_, err := r.db.Exec(ctx, `
        INSERT INTO transfer_history (transfer_id, status, actor_id, changed_at)
        VALUES ($1, $2, $3, $4)
    `, e.TransferID, string(e.Status), actor, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	if r.outbox == nil || r.topic == "" {
		return nil
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return r.outbox.Create(ctx, &repository.OutboxTask{
		Payload: payload,
		Topic:   r.topic,
		Key:     e.PatientID,
	})
}

func (r *HistoryRepo) GetByTransferID(ctx context.Context, transferID string) ([]*repository.HistoryEntry, error) {
	var entries []*repository.HistoryEntry
	err := r.db.Select(ctx, &entries, `
        SELECT id, transfer_id, status, actor_id, changed_at
        FROM transfer_history
        WHERE transfer_id = $1
        ORDER BY changed_at ASC, id ASC
    `, transferID)
	return entries, err
}
