package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"

	"github.com/memora-care/memora/internal/db"
	"github.com/memora-care/memora/internal/repository"
	"github.com/memora-care/memora/internal/transfer"
)

const transferColumns = `id, patient_id, from_caregiver_id, to_caregiver_id, status,
        transfer_token, message, expires_at, responded_at, created_at`

type TransferRepo struct {
	db db.DB
}

func NewTransferRepo(db db.DB) *TransferRepo {
	return &TransferRepo{db: db}
}

// Create relies on patient_transfers_one_pending to reject a second pending
// transfer for the same patient.
func (r *TransferRepo) Create(ctx context.Context, t transfer.Transfer) error {
	rec := transfer.ToRecord(t)
	_, err := r.db.Exec(ctx, `
        INSERT INTO patient_transfers (
            id, patient_id, from_caregiver_id, to_caregiver_id, status,
            transfer_token, message, expires_at, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, rec.ID, rec.PatientID, rec.FromCaregiverID, rec.ToCaregiverID, rec.Status,
		rec.TransferToken, rec.Message, rec.ExpiresAt, rec.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *TransferRepo) GetByID(ctx context.Context, id string) (transfer.Transfer, error) {
	var rec repository.Transfer
	err := r.db.Get(ctx, &rec, `SELECT `+transferColumns+` FROM patient_transfers WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return transfer.Transfer{}, repository.ErrObjectNotFound
		}
		return transfer.Transfer{}, err
	}
	return transfer.FromRecord(rec), nil
}

func (r *TransferRepo) HasPending(ctx context.Context, patientID string) (bool, error) {
	var exists bool
	err := r.db.Get(ctx, &exists, `
        SELECT EXISTS (
            SELECT 1 FROM patient_transfers WHERE patient_id = $1 AND status = $2
        )
    `, patientID, string(transfer.StatusPending))
	return exists, err
}

// CompareAndSetStatus is a single conditional UPDATE; Postgres row locking
// lets exactly one concurrent caller match status = from.
func (r *TransferRepo) CompareAndSetStatus(ctx context.Context, id string, from, to transfer.Status, respondedAt *time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE patient_transfers
        SET status = $3,
            responded_at = COALESCE($4::timestamptz, responded_at)
        WHERE id = $1 AND status = $2
    `, id, string(from), string(to), respondedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *TransferRepo) ExpireStale(ctx context.Context, fromCaregiverID string, now time.Time) ([]transfer.Transfer, error) {
	var recs []repository.Transfer
	err := r.db.Select(ctx, &recs, `
        UPDATE patient_transfers
        SET status = $3
        WHERE from_caregiver_id = $1 AND status = $4 AND expires_at < $2
        RETURNING `+transferColumns,
		fromCaregiverID, now, string(transfer.StatusExpired), string(transfer.StatusPending))
	if err != nil {
		return nil, err
	}
	return fromRecords(recs), nil
}

func (r *TransferRepo) ListIncoming(ctx context.Context, caregiverID string) ([]transfer.Transfer, error) {
	return r.list(ctx, "to_caregiver_id", caregiverID)
}

func (r *TransferRepo) ListOutgoing(ctx context.Context, caregiverID string) ([]transfer.Transfer, error) {
	return r.list(ctx, "from_caregiver_id", caregiverID)
}

func (r *TransferRepo) list(ctx context.Context, column, caregiverID string) ([]transfer.Transfer, error) {
	var recs []repository.Transfer
	err := r.db.Select(ctx, &recs, `
        SELECT `+transferColumns+`
        FROM patient_transfers
        WHERE `+column+` = $1
        ORDER BY created_at DESC
    `, caregiverID)
	if err != nil {
		return nil, err
	}
	return fromRecords(recs), nil
}

func fromRecords(recs []repository.Transfer) []transfer.Transfer {
	out := make([]transfer.Transfer, 0, len(recs))
	for _, rec := range recs {
		out = append(out, transfer.FromRecord(rec))
	}
	return out
}
