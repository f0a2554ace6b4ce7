//go:build integration

package postgresql

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memora-care/memora/internal/repository"
	"github.com/memora-care/memora/internal/testutil"
	"github.com/memora-care/memora/internal/transfer"
)

func pendingRose(id string, at time.Time) transfer.Transfer {
	return transfer.Transfer{
		ID:              id,
		PatientID:       "pt-rose",
		FromCaregiverID: "cg-alice",
		ToCaregiverID:   "cg-bob",
		Status:          transfer.StatusPending,
		TransferToken:   "tok-" + id,
		CreatedAt:       at,
		ExpiresAt:       at.Add(72 * time.Hour),
	}
}

func TestIntegration_OnePendingPerPatient(t *testing.T) {
	tdb := testutil.NewFromEnv(t)
	tdb.Seed(t)
	repo := NewTransferRepo(tdb.DB)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	require.NoError(t, repo.Create(ctx, pendingRose("tr-1", now)))
	assert.ErrorIs(t, repo.Create(ctx, pendingRose("tr-2", now)), repository.ErrDuplicate)

	ok, err := repo.CompareAndSetStatus(ctx, "tr-1", transfer.StatusPending, transfer.StatusRejected, &now)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NoError(t, repo.Create(ctx, pendingRose("tr-2", now)))
}

func TestIntegration_CompareAndSetSingleWinner(t *testing.T) {
	tdb := testutil.NewFromEnv(t)
	tdb.Seed(t)
	repo := NewTransferRepo(tdb.DB)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, repo.Create(ctx, pendingRose("tr-1", now)))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.CompareAndSetStatus(ctx, "tr-1", transfer.StatusPending, transfer.StatusAccepted, &now)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestIntegration_AcceptRollsBackTogether(t *testing.T) {
	tdb := testutil.NewFromEnv(t)
	tdb.Seed(t)
	transfers := NewTransferRepo(tdb.DB)
	patients := NewPatientRepo(tdb.DB)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, transfers.Create(ctx, pendingRose("tr-1", now)))

	ok, err := transfers.CompareAndSetStatus(ctx, "tr-1", transfer.StatusPending, transfer.StatusCancelled, &now)
	require.NoError(t, err)
	require.True(t, ok)

	err = tdb.DB.WithTx(ctx, func(ctx context.Context) error {
		moved, err := patients.Reassign(ctx, "pt-rose", "cg-alice", "cg-bob", now)
		require.NoError(t, err)
		require.True(t, moved)
		ok, err := transfers.CompareAndSetStatus(ctx, "tr-1", transfer.StatusPending, transfer.StatusAccepted, &now)
		require.NoError(t, err)
		require.False(t, ok)
		return transfer.ErrNotPending
	})
	require.ErrorIs(t, err, transfer.ErrNotPending)

	p, err := patients.GetByID(ctx, "pt-rose")
	require.NoError(t, err)
	assert.Equal(t, "cg-alice", p.CaregiverID)
}

func TestIntegration_HistoryQueuesOutbox(t *testing.T) {
	tdb := testutil.NewFromEnv(t)
	tdb.Seed(t)
	outbox := NewOutboxTaskRepo(tdb.DB)
	history := NewHistoryRepo(tdb.DB, outbox, "memora.transfers")
	transfers := NewTransferRepo(tdb.DB)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	err := tdb.DB.WithTx(ctx, func(ctx context.Context) error {
		tr := pendingRose("tr-1", now)
		if err := transfers.Create(ctx, tr); err != nil {
			return err
		}
		return history.Record(ctx, transfer.Event{
			TransferID: tr.ID, PatientID: tr.PatientID, Status: transfer.StatusPending,
			FromCaregiverID: tr.FromCaregiverID, ToCaregiverID: tr.ToCaregiverID,
			ActorID: "cg-alice", OccurredAt: now,
		})
	})
	require.NoError(t, err)

	entries, err := history.GetByTransferID(ctx, "tr-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pending", entries[0].Status)

	err = tdb.DB.WithTx(ctx, func(ctx context.Context) error {
		tasks, err := outbox.GetProcessableTasks(ctx, 10, 5, time.Minute)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "pt-rose", tasks[0].Key)
		assert.Equal(t, "memora.transfers", tasks[0].Topic)
		return nil
	})
	require.NoError(t, err)
}
