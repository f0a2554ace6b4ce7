package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/memora-care/memora/internal/db"
	"github.com/memora-care/memora/internal/repository"
	"github.com/memora-care/memora/internal/transfer"
)

type CaregiverRepo struct {
	db db.DB
}

func NewCaregiverRepo(db db.DB) *CaregiverRepo {
	return &CaregiverRepo{db: db}
}

func (r *CaregiverRepo) GetByID(ctx context.Context, id string) (transfer.Caregiver, error) {
	return r.get(ctx, `SELECT id, name, email, phone, created_at, updated_at FROM caregivers WHERE id = $1`, id)
}

// GetByEmail matches case-insensitively.
func (r *CaregiverRepo) GetByEmail(ctx context.Context, email string) (transfer.Caregiver, error) {
	return r.get(ctx, `
        SELECT id, name, email, phone, created_at, updated_at
        FROM caregivers
        WHERE LOWER(email) = $1
    `, transfer.NormalizeEmail(email))
}

// Create is used to seed accounts from the CLI and in integration tests.
func (r *CaregiverRepo) Create(ctx context.Context, c repository.Caregiver) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO caregivers (id, name, email, phone) VALUES ($1, $2, $3, $4)
    `, c.ID, c.Name, c.Email, c.Phone)
	if db.IsUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *CaregiverRepo) get(ctx context.Context, query string, args ...interface{}) (transfer.Caregiver, error) {
	var c repository.Caregiver
	err := r.db.Get(ctx, &c, query, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return transfer.Caregiver{}, repository.ErrObjectNotFound
		}
		return transfer.Caregiver{}, err
	}
	return transfer.CaregiverFromRecord(c), nil
}
