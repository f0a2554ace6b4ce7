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

const patientColumns = `id, caregiver_id, name, age, diagnosis, mmse_score, notes, photo_url, created_at, updated_at`

type PatientRepo struct {
	db db.DB
}

func NewPatientRepo(db db.DB) *PatientRepo {
	return &PatientRepo{db: db}
}

func (r *PatientRepo) GetByID(ctx context.Context, patientID string) (transfer.Patient, error) {
	p, err := r.get(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, patientID)
	if err != nil {
		return transfer.Patient{}, err
	}
	return transfer.PatientFromRecord(p), nil
}

func (r *PatientRepo) GetOwned(ctx context.Context, patientID, caregiverID string) (transfer.Patient, error) {
	p, err := r.get(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1 AND caregiver_id = $2`, patientID, caregiverID)
	if err != nil {
		return transfer.Patient{}, err
	}
	return transfer.PatientFromRecord(p), nil
}

// Reassign moves the patient only while fromCaregiverID still owns it.
func (r *PatientRepo) Reassign(ctx context.Context, patientID, fromCaregiverID, toCaregiverID string, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE patients
        SET caregiver_id = $3, updated_at = $4
        WHERE id = $1 AND caregiver_id = $2
    `, patientID, fromCaregiverID, toCaregiverID, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PatientRepo) get(ctx context.Context, query string, args ...interface{}) (repository.Patient, error) {
	var p repository.Patient
	err := r.db.Get(ctx, &p, query, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.Patient{}, repository.ErrObjectNotFound
		}
		return repository.Patient{}, err
	}
	return p, nil
}
