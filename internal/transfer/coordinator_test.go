package transfer_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/memora-care/memora/internal/clock"
	"github.com/memora-care/memora/internal/repository"
	"github.com/memora-care/memora/internal/storage"
	"github.com/memora-care/memora/internal/transfer"
)

var (
	t0 = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	alice = transfer.Identity{CaregiverID: "cg-alice", Email: "alice@example.com", Name: "Alice"}
	bob   = transfer.Identity{CaregiverID: "cg-bob", Email: "bob@example.com", Name: "Bob"}
	carol = transfer.Identity{CaregiverID: "cg-carol", Email: "carol@example.com", Name: "Carol"}
)

const rose = "pt-rose"

type fixture struct {
	store *storage.FileStorage
	clock *clock.Manual
	coord *transfer.Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := storage.NewMemoryStorage()
	for _, who := range []transfer.Identity{alice, bob, carol} {
		require.NoError(t, store.AddCaregiver(ctx, repository.Caregiver{ID: who.CaregiverID, Name: who.Name, Email: who.Email}))
	}
	require.NoError(t, store.AddPatient(ctx, repository.Patient{ID: rose, CaregiverID: alice.CaregiverID, Name: "Rose", Age: 82}))
	require.NoError(t, store.AddPatient(ctx, repository.Patient{ID: "pt-walter", CaregiverID: bob.CaregiverID, Name: "Walter", Age: 77}))

	clk := clock.NewManual(t0)
	return &fixture{
		store: store,
		clock: clk,
		coord: transfer.NewCoordinator(store.Deps(), clk, zap.NewNop()),
	}
}

func (f *fixture) initiate(t *testing.T, from transfer.Identity, patientID, email string) transfer.Summary {
	t.Helper()
	s, err := f.coord.Initiate(context.Background(), from, transfer.InitiateInput{PatientID: patientID, RecipientEmail: email})
	require.NoError(t, err)
	return s
}

func (f *fixture) transfer(t *testing.T, id string) transfer.Transfer {
	t.Helper()
	tr, err := f.store.Deps().Transfers.GetByID(context.Background(), id)
	require.NoError(t, err)
	return tr
}

func (f *fixture) owner(t *testing.T, patientID string) string {
	t.Helper()
	p, err := f.store.Deps().Patients.GetByID(context.Background(), patientID)
	require.NoError(t, err)
	return p.CaregiverID
}

func (f *fixture) history(t *testing.T, id string) []transfer.Status {
	t.Helper()
	entries, err := f.store.HistoryOf(context.Background(), id)
	require.NoError(t, err)
	out := make([]transfer.Status, 0, len(entries))
	for _, e := range entries {
		out = append(out, transfer.Status(e.Status))
	}
	return out
}

func TestInitiate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		in      transfer.InitiateInput
		wantErr error
		kind    error
	}{
		{
			name:    "missing patient",
			in:      transfer.InitiateInput{RecipientEmail: "bob@example.com"},
			wantErr: transfer.ErrMissingFields,
			kind:    transfer.ErrValidation,
		},
		{
			name:    "blank email",
			in:      transfer.InitiateInput{PatientID: rose, RecipientEmail: "   "},
			wantErr: transfer.ErrMissingFields,
			kind:    transfer.ErrValidation,
		},
		{
			name:    "malformed email",
			in:      transfer.InitiateInput{PatientID: rose, RecipientEmail: "bob@example"},
			wantErr: transfer.ErrInvalidEmail,
			kind:    transfer.ErrValidation,
		},
		{
			name:    "email with inner space",
			in:      transfer.InitiateInput{PatientID: rose, RecipientEmail: "bo b@example.com"},
			wantErr: transfer.ErrInvalidEmail,
			kind:    transfer.ErrValidation,
		},
		{
			name:    "unknown patient",
			in:      transfer.InitiateInput{PatientID: "pt-nobody", RecipientEmail: "bob@example.com"},
			wantErr: transfer.ErrPatientNotFound,
			kind:    transfer.ErrNotFound,
		},
		{
			name:    "patient owned by someone else",
			in:      transfer.InitiateInput{PatientID: "pt-walter", RecipientEmail: "carol@example.com"},
			wantErr: transfer.ErrPatientNotFound,
			kind:    transfer.ErrNotFound,
		},
		{
			name:    "own email",
			in:      transfer.InitiateInput{PatientID: rose, RecipientEmail: "alice@example.com"},
			wantErr: transfer.ErrSelfTransfer,
			kind:    transfer.ErrValidation,
		},
		{
			name:    "own email with casing and whitespace",
			in:      transfer.InitiateInput{PatientID: rose, RecipientEmail: "  ALICE@Example.COM "},
			wantErr: transfer.ErrSelfTransfer,
			kind:    transfer.ErrValidation,
		},
		{
			name:    "unregistered recipient",
			in:      transfer.InitiateInput{PatientID: rose, RecipientEmail: "dave@example.com"},
			wantErr: transfer.ErrRecipientNotFound,
			kind:    transfer.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.coord.Initiate(context.Background(), alice, tt.in)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, tt.kind)

			has, err := f.store.Deps().Transfers.HasPending(context.Background(), rose)
			require.NoError(t, err)
			assert.False(t, has)
		})
	}
}

func TestInitiate_Success(t *testing.T) {
	f := newFixture(t)

	s, err := f.coord.Initiate(context.Background(), alice, transfer.InitiateInput{
		PatientID:      " " + rose + " ",
		RecipientEmail: "Bob@Example.com",
		Message:        "  She likes morning walks.  ",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, rose, s.PatientID)
	assert.Equal(t, "Rose", s.PatientName)
	assert.Equal(t, "Bob", s.RecipientName)
	assert.Equal(t, "bob@example.com", s.RecipientEmail)
	assert.Equal(t, transfer.StatusPending, s.Status)
	require.NotNil(t, s.Message)
	assert.Equal(t, "She likes morning walks.", *s.Message)
	assert.Equal(t, t0, s.CreatedAt)
	assert.Equal(t, t0.Add(72*time.Hour), s.ExpiresAt)

	stored := f.transfer(t, s.ID)
	assert.Equal(t, alice.CaregiverID, stored.FromCaregiverID)
	assert.Equal(t, bob.CaregiverID, stored.ToCaregiverID)
	assert.NotEmpty(t, stored.TransferToken)
	assert.Nil(t, stored.RespondedAt)
	assert.Equal(t, alice.CaregiverID, f.owner(t, rose), "initiating does not move the patient")
	assert.Equal(t, []transfer.Status{transfer.StatusPending}, f.history(t, s.ID))
}

func TestInitiate_EmptyMessageIsNil(t *testing.T) {
	f := newFixture(t)

	s, err := f.coord.Initiate(context.Background(), alice, transfer.InitiateInput{
		PatientID:      rose,
		RecipientEmail: "bob@example.com",
		Message:        "   ",
	})
	require.NoError(t, err)
	assert.Nil(t, s.Message)
}

func TestInitiate_CustomTTL(t *testing.T) {
	f := newFixture(t)
	coord := transfer.NewCoordinator(f.store.Deps(), f.clock, zap.NewNop(), transfer.WithTTL(time.Hour))

	s, err := coord.Initiate(context.Background(), alice, transfer.InitiateInput{PatientID: rose, RecipientEmail: "bob@example.com"})
	require.NoError(t, err)
	assert.Equal(t, t0.Add(time.Hour), s.ExpiresAt)
}

func TestInitiate_SecondPendingIsConflict(t *testing.T) {
	f := newFixture(t)
	first := f.initiate(t, alice, rose, "bob@example.com")

	_, err := f.coord.Initiate(context.Background(), alice, transfer.InitiateInput{PatientID: rose, RecipientEmail: "carol@example.com"})

	assert.ErrorIs(t, err, transfer.ErrPendingTransferExists)
	assert.ErrorIs(t, err, transfer.ErrConflict)
	assert.Equal(t, transfer.StatusPending, f.transfer(t, first.ID).Status)
}

func TestInitiate_AfterResolutionAllowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.initiate(t, alice, rose, "bob@example.com")

	_, err := f.coord.Respond(ctx, bob, first.ID, transfer.ActionReject)
	require.NoError(t, err)

	second := f.initiate(t, alice, rose, "carol@example.com")
	assert.NotEqual(t, first.ID, second.ID)
}

func TestInitiate_ConcurrentSinglePending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := "bob@example.com"
			if i%2 == 1 {
				email = "carol@example.com"
			}
			_, err := f.coord.Initiate(ctx, alice, transfer.InitiateInput{PatientID: rose, RecipientEmail: email})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, transfer.ErrPendingTransferExists):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, 15, conflicts)
}

func TestRespond_Accept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.initiate(t, alice, rose, "bob@example.com")
	f.clock.Advance(2 * time.Hour)

	res, err := f.coord.Respond(ctx, bob, s.ID, transfer.ActionAccept)
	require.NoError(t, err)

	assert.Equal(t, transfer.RespondResult{TransferID: s.ID, PatientID: rose, Status: transfer.StatusAccepted}, res)
	tr := f.transfer(t, s.ID)
	assert.Equal(t, transfer.StatusAccepted, tr.Status)
	require.NotNil(t, tr.RespondedAt)
	assert.Equal(t, t0.Add(2*time.Hour), *tr.RespondedAt)
	assert.Equal(t, bob.CaregiverID, f.owner(t, rose))
	assert.Equal(t, []transfer.Status{transfer.StatusPending, transfer.StatusAccepted}, f.history(t, s.ID))
}

func TestRespond_AcceptTwiceIsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.initiate(t, alice, rose, "bob@example.com")

	_, err := f.coord.Respond(ctx, bob, s.ID, transfer.ActionAccept)
	require.NoError(t, err)

	_, err = f.coord.Respond(ctx, bob, s.ID, transfer.ActionAccept)
	require.Error(t, err)
	assert.ErrorIs(t, err, transfer.ErrConflict)
	assert.EqualError(t, err, "this transfer has already been accepted")

	var statusErr *transfer.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, transfer.StatusAccepted, statusErr.Status)
	assert.Equal(t, bob.CaregiverID, f.owner(t, rose))
}

func TestRespond_Reject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.initiate(t, alice, rose, "bob@example.com")

	res, err := f.coord.Respond(ctx, bob, s.ID, transfer.ActionReject)
	require.NoError(t, err)

	assert.Equal(t, transfer.StatusRejected, res.Status)
	tr := f.transfer(t, s.ID)
	assert.Equal(t, transfer.StatusRejected, tr.Status)
	assert.NotNil(t, tr.RespondedAt)
	assert.Equal(t, alice.CaregiverID, f.owner(t, rose))
}

func TestRespond_InvalidActionCheckedFirst(t *testing.T) {
	f := newFixture(t)

	_, err := f.coord.Respond(context.Background(), bob, "tr-missing", transfer.Action("maybe"))

	assert.ErrorIs(t, err, transfer.ErrInvalidAction)
	assert.ErrorIs(t, err, transfer.ErrValidation)
}

func TestRespond_UnknownTransfer(t *testing.T) {
	f := newFixture(t)

	_, err := f.coord.Respond(context.Background(), bob, "tr-missing", transfer.ActionAccept)

	assert.ErrorIs(t, err, transfer.ErrTransferNotFound)
	assert.ErrorIs(t, err, transfer.ErrNotFound)
}

func TestRespond_ExpiredIsGone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.initiate(t, alice, rose, "bob@example.com")
	f.clock.Advance(73 * time.Hour)

	_, err := f.coord.Respond(ctx, bob, s.ID, transfer.ActionAccept)

	assert.ErrorIs(t, err, transfer.ErrTransferExpired)
	assert.ErrorIs(t, err, transfer.ErrGone)
	tr := f.transfer(t, s.ID)
	assert.Equal(t, transfer.StatusExpired, tr.Status)
	assert.Nil(t, tr.RespondedAt)
	assert.Equal(t, alice.CaregiverID, f.owner(t, rose))
	assert.Equal(t, []transfer.Status{transfer.StatusPending, transfer.StatusExpired}, f.history(t, s.ID))

	_, err = f.coord.Respond(ctx, bob, s.ID, transfer.ActionReject)
	assert.ErrorIs(t, err, transfer.ErrConflict)
	assert.EqualError(t, err, "this transfer has already been expired")
}

func TestRespond_ExpiryBoundary(t *testing.T) {
	f := newFixture(t)
	s := f.initiate(t, alice, rose, "bob@example.com")
	f.clock.Advance(72 * time.Hour)

	_, err := f.coord.Respond(context.Background(), bob, s.ID, transfer.ActionAccept)

	require.NoError(t, err, "the window is still open at exactly expiresAt")
	assert.Equal(t, bob.CaregiverID, f.owner(t, rose))
}

func TestRespond_RejectAfterExpiryIsGone(t *testing.T) {
	f := newFixture(t)
	s := f.initiate(t, alice, rose, "bob@example.com")
	f.clock.Advance(72*time.Hour + time.Second)

	_, err := f.coord.Respond(context.Background(), bob, s.ID, transfer.ActionReject)

	assert.ErrorIs(t, err, transfer.ErrTransferExpired)
	assert.Equal(t, transfer.StatusExpired, f.transfer(t, s.ID).Status)
}

func TestRespond_PatientDeletedBeforeAccept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.initiate(t, alice, rose, "bob@example.com")
	require.NoError(t, f.store.DeletePatient(ctx, rose))

	_, err := f.coord.Respond(ctx, bob, s.ID, transfer.ActionAccept)

	assert.ErrorIs(t, err, transfer.ErrPatientUnavailable)
	assert.ErrorIs(t, err, transfer.ErrConflict)
	tr := f.transfer(t, s.ID)
	assert.Equal(t, transfer.StatusCancelled, tr.Status)
	assert.NotNil(t, tr.RespondedAt)
}

func TestRespond_PatientMovedElsewhereBeforeAccept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.initiate(t, alice, rose, "bob@example.com")

	moved, err := f.store.Deps().Patients.Reassign(ctx, rose, alice.CaregiverID, carol.CaregiverID, t0)
	require.NoError(t, err)
	require.True(t, moved)

	_, err = f.coord.Respond(ctx, bob, s.ID, transfer.ActionAccept)

	assert.ErrorIs(t, err, transfer.ErrPatientUnavailable)
	assert.Equal(t, transfer.StatusCancelled, f.transfer(t, s.ID).Status)
	assert.Equal(t, carol.CaregiverID, f.owner(t, rose))
}

func TestAuthorizationSymmetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.initiate(t, alice, rose, "bob@example.com")

	for _, action := range []transfer.Action{transfer.ActionAccept, transfer.ActionReject} {
		_, err := f.coord.Respond(ctx, alice, s.ID, action)
		assert.ErrorIs(t, err, transfer.ErrNotReceiver)
		assert.ErrorIs(t, err, transfer.ErrForbidden)

		_, err = f.coord.Respond(ctx, carol, s.ID, action)
		assert.ErrorIs(t, err, transfer.ErrNotReceiver)
	}

	err := f.coord.Cancel(ctx, bob, s.ID)
	assert.ErrorIs(t, err, transfer.ErrNotSender)
	assert.ErrorIs(t, err, transfer.ErrForbidden)

	err = f.coord.Cancel(ctx, carol, s.ID)
	assert.ErrorIs(t, err, transfer.ErrNotSender)

	assert.Equal(t, transfer.StatusPending, f.transfer(t, s.ID).Status)
	assert.Equal(t, alice.CaregiverID, f.owner(t, rose))
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.initiate(t, alice, rose, "bob@example.com")
	f.clock.Advance(time.Hour)

	require.NoError(t, f.coord.Cancel(ctx, alice, s.ID))

	tr := f.transfer(t, s.ID)
	assert.Equal(t, transfer.StatusCancelled, tr.Status)
	require.NotNil(t, tr.RespondedAt)
	assert.Equal(t, t0.Add(time.Hour), *tr.RespondedAt)
	assert.Equal(t, []transfer.Status{transfer.StatusPending, transfer.StatusCancelled}, f.history(t, s.ID))

	err := f.coord.Cancel(ctx, alice, s.ID)
	assert.ErrorIs(t, err, transfer.ErrNotPending)
	assert.EqualError(t, err, "cannot cancel a transfer that has already been cancelled")
}

func TestCancel_UnknownTransfer(t *testing.T) {
	f := newFixture(t)

	err := f.coord.Cancel(context.Background(), alice, "tr-missing")

	assert.ErrorIs(t, err, transfer.ErrTransferNotFound)
}

func TestCancel_StalePendingIsCancelled(t *testing.T) {
	f := newFixture(t)
	s := f.initiate(t, alice, rose, "bob@example.com")
	f.clock.Advance(100 * time.Hour)

	require.NoError(t, f.coord.Cancel(context.Background(), alice, s.ID))
	assert.Equal(t, transfer.StatusCancelled, f.transfer(t, s.ID).Status)
}

func TestTerminalMonotonicity(t *testing.T) {
	tests := []struct {
		name     string
		resolve  func(f *fixture, id string) error
		terminal transfer.Status
	}{
		{
			name: "accepted",
			resolve: func(f *fixture, id string) error {
				_, err := f.coord.Respond(context.Background(), bob, id, transfer.ActionAccept)
				return err
			},
			terminal: transfer.StatusAccepted,
		},
		{
			name: "rejected",
			resolve: func(f *fixture, id string) error {
				_, err := f.coord.Respond(context.Background(), bob, id, transfer.ActionReject)
				return err
			},
			terminal: transfer.StatusRejected,
		},
		{
			name: "cancelled",
			resolve: func(f *fixture, id string) error {
				return f.coord.Cancel(context.Background(), alice, id)
			},
			terminal: transfer.StatusCancelled,
		},
		{
			name: "expired",
			resolve: func(f *fixture, id string) error {
				f.clock.Advance(80 * time.Hour)
				_, err := f.coord.Respond(context.Background(), bob, id, transfer.ActionAccept)
				if errors.Is(err, transfer.ErrTransferExpired) {
					return nil
				}
				return err
			},
			terminal: transfer.StatusExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			s := f.initiate(t, alice, rose, "bob@example.com")
			require.NoError(t, tt.resolve(f, s.ID))
			before := f.transfer(t, s.ID)
			require.Equal(t, tt.terminal, before.Status)

			_, err := f.coord.Respond(ctx, bob, s.ID, transfer.ActionAccept)
			assert.ErrorIs(t, err, transfer.ErrConflict)
			_, err = f.coord.Respond(ctx, bob, s.ID, transfer.ActionReject)
			assert.ErrorIs(t, err, transfer.ErrConflict)
			err = f.coord.Cancel(ctx, alice, s.ID)
			assert.ErrorIs(t, err, transfer.ErrConflict)

			assert.Equal(t, before, f.transfer(t, s.ID))
		})
	}
}

func TestRespond_ConcurrentAcceptSingleWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.initiate(t, alice, rose, "bob@example.com")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.coord.Respond(ctx, bob, s.ID, transfer.ActionAccept)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, transfer.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, 15, conflicts)
	assert.Equal(t, transfer.StatusAccepted, f.transfer(t, s.ID).Status)
	assert.Equal(t, bob.CaregiverID, f.owner(t, rose))
}

func TestRespond_AcceptRacingCancelStaysConsistent(t *testing.T) {
	for i := 0; i < 20; i++ {
		f := newFixture(t)
		ctx := context.Background()
		s := f.initiate(t, alice, rose, "bob@example.com")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = f.coord.Respond(ctx, bob, s.ID, transfer.ActionAccept)
		}()
		go func() {
			defer wg.Done()
			_ = f.coord.Cancel(ctx, alice, s.ID)
		}()
		wg.Wait()

		switch f.transfer(t, s.ID).Status {
		case transfer.StatusAccepted:
			assert.Equal(t, bob.CaregiverID, f.owner(t, rose))
		case transfer.StatusCancelled:
			assert.Equal(t, alice.CaregiverID, f.owner(t, rose))
		default:
			t.Fatalf("unexpected status %s", f.transfer(t, s.ID).Status)
		}
	}
}

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out := f.initiate(t, alice, rose, "bob@example.com")
	f.clock.Advance(time.Minute)
	in := f.initiate(t, bob, "pt-walter", "alice@example.com")

	listing, err := f.coord.List(ctx, alice)
	require.NoError(t, err)

	require.Len(t, listing.Outgoing, 1)
	o := listing.Outgoing[0]
	assert.Equal(t, out.ID, o.ID)
	assert.Equal(t, "Rose", o.PatientName)
	assert.Equal(t, "Bob", o.OtherCaregiverName)
	assert.Equal(t, "bob@example.com", o.OtherCaregiverEmail)
	assert.Equal(t, transfer.DirectionOutgoing, o.Direction)

	require.Len(t, listing.Incoming, 1)
	i := listing.Incoming[0]
	assert.Equal(t, in.ID, i.ID)
	assert.Equal(t, "Walter", i.PatientName)
	assert.Equal(t, "Bob", i.OtherCaregiverName)
	assert.Equal(t, transfer.DirectionIncoming, i.Direction)
}

func TestList_Empty(t *testing.T) {
	f := newFixture(t)

	listing, err := f.coord.List(context.Background(), carol)
	require.NoError(t, err)

	assert.NotNil(t, listing.Incoming)
	assert.NotNil(t, listing.Outgoing)
	assert.Empty(t, listing.Incoming)
	assert.Empty(t, listing.Outgoing)
}

func TestList_NewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.initiate(t, alice, rose, "bob@example.com")
	require.NoError(t, f.coord.Cancel(ctx, alice, first.ID))
	f.clock.Advance(time.Hour)
	second := f.initiate(t, alice, rose, "carol@example.com")

	listing, err := f.coord.List(ctx, alice)
	require.NoError(t, err)

	require.Len(t, listing.Outgoing, 2)
	assert.Equal(t, second.ID, listing.Outgoing[0].ID)
	assert.Equal(t, first.ID, listing.Outgoing[1].ID)
}

func TestList_SweepsOnlyOwnOutgoing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.initiate(t, alice, rose, "bob@example.com")
	f.clock.Advance(73 * time.Hour)

	listing, err := f.coord.List(ctx, bob)
	require.NoError(t, err)
	require.Len(t, listing.Incoming, 1)
	assert.Equal(t, transfer.StatusPending, listing.Incoming[0].Status, "receiver listing does not expire incoming transfers")
	assert.Equal(t, transfer.StatusPending, f.transfer(t, s.ID).Status)

	listing, err = f.coord.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, listing.Outgoing, 1)
	assert.Equal(t, transfer.StatusExpired, listing.Outgoing[0].Status)
	assert.Nil(t, listing.Outgoing[0].RespondedAt)
	assert.Equal(t, []transfer.Status{transfer.StatusPending, transfer.StatusExpired}, f.history(t, s.ID))

	listing, err = f.coord.List(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusExpired, listing.Incoming[0].Status)

	next, err := f.coord.Initiate(ctx, alice, transfer.InitiateInput{PatientID: rose, RecipientEmail: "carol@example.com"})
	require.NoError(t, err, "an expired transfer no longer blocks a new one")
	assert.Equal(t, transfer.StatusPending, next.Status)
}

func TestList_DeletedPatientShowsPlaceholder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.initiate(t, alice, rose, "bob@example.com")
	require.NoError(t, f.store.DeletePatient(ctx, rose))

	listing, err := f.coord.List(ctx, bob)
	require.NoError(t, err)

	require.Len(t, listing.Incoming, 1)
	assert.Equal(t, "Unknown Patient", listing.Incoming[0].PatientName)
	assert.Nil(t, listing.Incoming[0].PatientPhoto)
	assert.Equal(t, "Alice", listing.Incoming[0].OtherCaregiverName)
}

func seedCareRecords(t *testing.T, store *storage.FileStorage) {
	t.Helper()
	ctx := context.Background()
	one, two := 1, 2
	require.NoError(t, store.AddMemory(ctx,
		repository.Memory{ID: "m-wedding", PatientID: rose, Title: "Wedding", Date: "1965-06-12", Importance: 5, Event: "wedding", Location: "Lisbon"},
		repository.MemoryPhoto{ID: "ph-2", PhotoURL: "/p/2.jpg", PhotoIndex: &two},
		repository.MemoryPhoto{ID: "ph-1", PhotoURL: "/p/1.jpg", PhotoIndex: &one},
	))
	require.NoError(t, store.AddMemory(ctx,
		repository.Memory{ID: "m-garden", PatientID: rose, Title: "Garden", Date: "1990", Importance: 3, Event: "hobby", Location: "Home"},
	))
	require.NoError(t, store.AddFamilyMember(ctx, repository.FamilyMember{ID: "f-1", PatientID: rose, Name: "Tom", Relationship: "son"}))
	require.NoError(t, store.AddSession(ctx,
		repository.TherapySession{ID: "s-1", PatientID: rose, Date: t0.Add(-48 * time.Hour), Duration: 30, Mood: "happy", Completed: true},
		repository.SessionMemory{ID: "sm-1", MemoryID: "m-wedding", RecallScore: 4},
		repository.SessionMemory{ID: "sm-2", MemoryID: "m-garden", RecallScore: 3},
	))
}

func TestBriefing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedCareRecords(t, f.store)
	s := f.initiate(t, alice, rose, "bob@example.com")

	b, err := f.coord.Briefing(ctx, bob, s.ID)
	require.NoError(t, err)

	assert.Equal(t, s.ID, b.Transfer.ID)
	assert.Equal(t, transfer.StatusPending, b.Transfer.Status)
	require.NotNil(t, b.Sender)
	assert.Equal(t, transfer.Contact{Name: "Alice", Email: "alice@example.com"}, *b.Sender)
	assert.Equal(t, "Rose", b.Patient.Name)
	assert.Equal(t, 82, b.Patient.Age)

	require.Len(t, b.Memories, 2)
	assert.Equal(t, "m-wedding", b.Memories[0].ID)
	require.Len(t, b.Memories[0].Photos, 2)
	assert.Equal(t, "ph-1", b.Memories[0].Photos[0].ID)
	assert.Empty(t, b.Memories[1].Photos)

	require.Len(t, b.Sessions, 1)
	assert.Equal(t, 2, b.Sessions[0].MemoriesReviewed)
	assert.Equal(t, 3.5, b.Sessions[0].AvgRecallScore)
	assert.Equal(t, 1, b.Insights.HighImportanceMemories)
	assert.Equal(t, map[string]int{"happy": 1}, b.Insights.MoodDistribution)

	_, err = f.coord.Respond(ctx, bob, s.ID, transfer.ActionAccept)
	require.NoError(t, err)
	b, err = f.coord.Briefing(ctx, bob, s.ID)
	require.NoError(t, err, "briefing stays available after accepting")
	assert.Equal(t, transfer.StatusAccepted, b.Transfer.Status)
}

func TestBriefing_Denied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.initiate(t, alice, rose, "bob@example.com")

	_, err := f.coord.Briefing(ctx, alice, s.ID)
	assert.ErrorIs(t, err, transfer.ErrNotReceiver)

	_, err = f.coord.Briefing(ctx, bob, "tr-missing")
	assert.ErrorIs(t, err, transfer.ErrTransferNotFound)

	_, err = f.coord.Respond(ctx, bob, s.ID, transfer.ActionReject)
	require.NoError(t, err)

	_, err = f.coord.Briefing(ctx, bob, s.ID)
	assert.ErrorIs(t, err, transfer.ErrBriefingUnavailable)
	assert.ErrorIs(t, err, transfer.ErrForbidden)
	assert.EqualError(t, err, "briefing is not available for rejected transfers")
}

func TestBriefing_PatientDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.initiate(t, alice, rose, "bob@example.com")
	require.NoError(t, f.store.DeletePatient(ctx, rose))

	_, err := f.coord.Briefing(ctx, bob, s.ID)

	assert.ErrorIs(t, err, transfer.ErrPatientDataUnavailable)
	assert.ErrorIs(t, err, transfer.ErrNotFound)
}
