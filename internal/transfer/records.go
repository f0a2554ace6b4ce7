package transfer

import (
	"time"

	"github.com/memora-care/memora/internal/repository"
)

func FromRecord(r repository.Transfer) Transfer {
	return Transfer{
		ID:              r.ID,
		PatientID:       r.PatientID,
		FromCaregiverID: r.FromCaregiverID,
		ToCaregiverID:   r.ToCaregiverID,
		Status:          Status(r.Status),
		Message:         r.Message,
		TransferToken:   r.TransferToken,
		ExpiresAt:       r.ExpiresAt.UTC(),
		RespondedAt:     utcPtr(r.RespondedAt),
		CreatedAt:       r.CreatedAt.UTC(),
	}
}

func ToRecord(t Transfer) repository.Transfer {
	return repository.Transfer{
		ID:              t.ID,
		PatientID:       t.PatientID,
		FromCaregiverID: t.FromCaregiverID,
		ToCaregiverID:   t.ToCaregiverID,
		Status:          string(t.Status),
		TransferToken:   t.TransferToken,
		Message:         t.Message,
		ExpiresAt:       t.ExpiresAt,
		RespondedAt:     t.RespondedAt,
		CreatedAt:       t.CreatedAt,
	}
}

func PatientFromRecord(r repository.Patient) Patient {
	return Patient{
		ID:          r.ID,
		CaregiverID: r.CaregiverID,
		Name:        r.Name,
		PhotoURL:    r.PhotoURL,
	}
}

func CaregiverFromRecord(r repository.Caregiver) Caregiver {
	return Caregiver{
		ID:    r.ID,
		Name:  r.Name,
		Email: r.Email,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
