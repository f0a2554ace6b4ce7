package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/memora-care/memora/internal/db"
	"github.com/memora-care/memora/internal/repository"
	"github.com/memora-care/memora/internal/transfer"
)

type BriefingRepo struct {
	db db.DB
}

func NewBriefingRepo(db db.DB) *BriefingRepo {
	return &BriefingRepo{db: db}
}

// LoadBriefing reads the patient and its care records in one transaction so
// the snapshot is consistent.
func (r *BriefingRepo) LoadBriefing(ctx context.Context, patientID string) (transfer.BriefingData, error) {
	var out transfer.BriefingData
	err := r.db.WithTx(ctx, func(ctx context.Context) error {
		err := r.db.Get(ctx, &out.Patient, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, patientID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return repository.ErrObjectNotFound
			}
			return fmt.Errorf("get patient: %w", err)
		}

		if err := r.db.Select(ctx, &out.Memories, `
            SELECT id, patient_id, title, description, date, importance, event, location
            FROM memories WHERE patient_id = $1
        `, patientID); err != nil {
			return fmt.Errorf("select memories: %w", err)
		}
		if err := r.db.Select(ctx, &out.Photos, `
            SELECT p.id, p.memory_id, p.photo_url, p.description, p.photo_index
            FROM memory_photos p
            JOIN memories m ON m.id = p.memory_id
            WHERE m.patient_id = $1
        `, patientID); err != nil {
			return fmt.Errorf("select memory photos: %w", err)
		}
		if err := r.db.Select(ctx, &out.FamilyMembers, `
            SELECT id, patient_id, name, relationship, photo_urls, notes
            FROM family_members WHERE patient_id = $1
        `, patientID); err != nil {
			return fmt.Errorf("select family members: %w", err)
		}
		if err := r.db.Select(ctx, &out.Sessions, `
            SELECT id, patient_id, date, duration, mood, notes, completed
            FROM therapy_sessions WHERE patient_id = $1
        `, patientID); err != nil {
			return fmt.Errorf("select sessions: %w", err)
		}
		if err := r.db.Select(ctx, &out.SessionMemories, `
            SELECT sm.id, sm.session_id, sm.memory_id, sm.recall_score
            FROM session_memories sm
            JOIN therapy_sessions s ON s.id = sm.session_id
            WHERE s.patient_id = $1
        `, patientID); err != nil {
			return fmt.Errorf("select session memories: %w", err)
		}
		return nil
	})
	if err != nil {
		return transfer.BriefingData{}, err
	}
	return out, nil
}
