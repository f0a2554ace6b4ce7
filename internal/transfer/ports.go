//go:generate mockgen -source ./ports.go -destination=./mocks/ports.go -package=mock_transfer
package transfer

import (
	"context"
	"time"
)

// Lookups that miss return repository.ErrObjectNotFound. Create returns
// repository.ErrDuplicate when the patient already has a pending transfer.

type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type TransferRepository interface {
	Create(ctx context.Context, t Transfer) error
	GetByID(ctx context.Context, id string) (Transfer, error)
	HasPending(ctx context.Context, patientID string) (bool, error)
	// CompareAndSetStatus moves the transfer from one status to another only
	// if it is still in from. Exactly one of any number of concurrent callers
	// racing on the same transfer observes true.
	CompareAndSetStatus(ctx context.Context, id string, from, to Status, respondedAt *time.Time) (bool, error)
	// ExpireStale moves the sender's pending transfers whose window closed
	// before now to expired and returns them.
	ExpireStale(ctx context.Context, fromCaregiverID string, now time.Time) ([]Transfer, error)
	ListIncoming(ctx context.Context, caregiverID string) ([]Transfer, error)
	ListOutgoing(ctx context.Context, caregiverID string) ([]Transfer, error)
}

type PatientDirectory interface {
	GetByID(ctx context.Context, patientID string) (Patient, error)
	GetOwned(ctx context.Context, patientID, caregiverID string) (Patient, error)
	// Reassign changes the owner only if the patient is still owned by fromCaregiverID.
	Reassign(ctx context.Context, patientID, fromCaregiverID, toCaregiverID string, at time.Time) (bool, error)
}

type CaregiverDirectory interface {
	GetByID(ctx context.Context, id string) (Caregiver, error)
	GetByEmail(ctx context.Context, email string) (Caregiver, error)
}

type HistoryRecorder interface {
	Record(ctx context.Context, e Event) error
}

type BriefingSource interface {
	LoadBriefing(ctx context.Context, patientID string) (BriefingData, error)
}
