package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/memora-care/memora/internal/clock"
	"github.com/memora-care/memora/internal/metrics"
	"github.com/memora-care/memora/internal/repository"
)

const (
	DefaultTTL = 72 * time.Hour

	unknownPatientName   = "Unknown Patient"
	unknownCaregiverName = "Unknown"

	enrichConcurrency = 8
)

type Deps struct {
	Tx         TxRunner
	Transfers  TransferRepository
	Patients   PatientDirectory
	Caregivers CaregiverDirectory
	History    HistoryRecorder
	Briefings  BriefingSource
}

// Coordinator runs the transfer state machine. It holds no per-transfer state
// of its own; all serialization is delegated to the storage collaborators.
type Coordinator struct {
	deps   Deps
	clock  clock.Clock
	logger *zap.Logger
	ttl    time.Duration
	newID  func() string
}

type Option func(*Coordinator)

// WithTTL overrides the acceptance window for new transfers.
func WithTTL(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.ttl = d
		}
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.newID = fn
		}
	}
}

func NewCoordinator(deps Deps, clk clock.Clock, logger *zap.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		deps:   deps,
		clock:  clk,
		logger: logger.With(zap.String("component", "transfer_coordinator")),
		ttl:    DefaultTTL,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) Initiate(ctx context.Context, sender Identity, in InitiateInput) (Summary, error) {
	patientID := strings.TrimSpace(in.PatientID)
	email := strings.TrimSpace(in.RecipientEmail)
	if patientID == "" || email == "" {
		return Summary{}, ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return Summary{}, ErrInvalidEmail
	}

	patient, err := c.deps.Patients.GetOwned(ctx, patientID, sender.CaregiverID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return Summary{}, ErrPatientNotFound
		}
		return Summary{}, c.fail("initiate", fmt.Errorf("get owned patient: %w", err))
	}

	normalized := NormalizeEmail(email)
	if normalized == NormalizeEmail(sender.Email) {
		return Summary{}, ErrSelfTransfer
	}

	recipient, err := c.deps.Caregivers.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return Summary{}, ErrRecipientNotFound
		}
		return Summary{}, c.fail("initiate", fmt.Errorf("get recipient: %w", err))
	}
	if recipient.ID == sender.CaregiverID {
		return Summary{}, ErrSelfTransfer
	}

	pending, err := c.deps.Transfers.HasPending(ctx, patientID)
	if err != nil {
		return Summary{}, c.fail("initiate", fmt.Errorf("check pending: %w", err))
	}
	if pending {
		return Summary{}, ErrPendingTransferExists
	}

	now := c.clock.Now()
	t := Transfer{
		ID:              c.newID(),
		PatientID:       patient.ID,
		FromCaregiverID: sender.CaregiverID,
		ToCaregiverID:   recipient.ID,
		Status:          StatusPending,
		Message:         trimmedOrNil(in.Message),
		TransferToken:   c.newID(),
		ExpiresAt:       now.Add(c.ttl),
		CreatedAt:       now,
	}

	err = c.deps.Tx.WithTx(ctx, func(txCtx context.Context) error {
		if err := c.deps.Transfers.Create(txCtx, t); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrPendingTransferExists
			}
			return fmt.Errorf("create transfer: %w", err)
		}
		return c.deps.History.Record(txCtx, newEvent(t, StatusPending, sender.CaregiverID, now))
	})
	if err != nil {
		if errors.Is(err, ErrPendingTransferExists) {
			return Summary{}, err
		}
		return Summary{}, c.fail("initiate", err)
	}

	metrics.TransfersInitiatedTotal.Inc()
	c.logger.Info("transfer initiated",
		zap.String("transfer_id", t.ID),
		zap.String("patient_id", t.PatientID),
		zap.String("from", t.FromCaregiverID),
		zap.String("to", t.ToCaregiverID),
		zap.Time("expires_at", t.ExpiresAt),
	)

	return Summary{
		ID:             t.ID,
		PatientID:      t.PatientID,
		PatientName:    patient.Name,
		RecipientName:  recipient.Name,
		RecipientEmail: recipient.Email,
		Status:         t.Status,
		Message:        t.Message,
		ExpiresAt:      t.ExpiresAt,
		CreatedAt:      t.CreatedAt,
	}, nil
}

func (c *Coordinator) Respond(ctx context.Context, responder Identity, transferID string, action Action) (RespondResult, error) {
	if !action.Valid() {
		return RespondResult{}, ErrInvalidAction
	}

	t, err := c.load(ctx, "respond", transferID)
	if err != nil {
		return RespondResult{}, err
	}
	if t.ToCaregiverID != responder.CaregiverID {
		return RespondResult{}, ErrNotReceiver
	}
	if t.Status != StatusPending {
		return RespondResult{}, notPending(t.Status)
	}

	now := c.clock.Now()
	if t.ExpiredAt(now) {
		if err := c.expire(ctx, t, now); err != nil {
			return RespondResult{}, c.fail("respond", err)
		}
		return RespondResult{}, ErrTransferExpired
	}

	if action == ActionAccept {
		return c.accept(ctx, t, responder, now)
	}

	if err := c.resolve(ctx, "respond", t, StatusRejected, responder.CaregiverID, now); err != nil {
		return RespondResult{}, err
	}
	return RespondResult{TransferID: t.ID, PatientID: t.PatientID, Status: StatusRejected}, nil
}

var errPatientMoved = errors.New("patient owner changed")

func (c *Coordinator) accept(ctx context.Context, t Transfer, responder Identity, now time.Time) (RespondResult, error) {
	err := c.deps.Tx.WithTx(ctx, func(txCtx context.Context) error {
		moved, err := c.deps.Patients.Reassign(txCtx, t.PatientID, t.FromCaregiverID, t.ToCaregiverID, now)
		if err != nil {
			return fmt.Errorf("reassign patient: %w", err)
		}
		if !moved {
			return errPatientMoved
		}

		ok, err := c.deps.Transfers.CompareAndSetStatus(txCtx, t.ID, StatusPending, StatusAccepted, &now)
		if err != nil {
			return fmt.Errorf("mark accepted: %w", err)
		}
		if !ok {
			return ErrNotPending
		}
		return c.deps.History.Record(txCtx, newEvent(t, StatusAccepted, responder.CaregiverID, now))
	})

	switch {
	case err == nil:
	case errors.Is(err, errPatientMoved):
		return RespondResult{}, c.cancelUnavailable(ctx, t, responder.CaregiverID, now)
	case errors.Is(err, ErrNotPending):
		return RespondResult{}, c.currentConflict(ctx, "respond", t.ID)
	default:
		return RespondResult{}, c.fail("respond", err)
	}

	metrics.TransfersResolvedTotal.WithLabelValues(string(StatusAccepted)).Inc()
	c.logger.Info("transfer accepted",
		zap.String("transfer_id", t.ID),
		zap.String("patient_id", t.PatientID),
		zap.String("new_owner", t.ToCaregiverID),
	)
	return RespondResult{TransferID: t.ID, PatientID: t.PatientID, Status: StatusAccepted}, nil
}

// cancelUnavailable closes a transfer whose patient left the sender before it was accepted.
func (c *Coordinator) cancelUnavailable(ctx context.Context, t Transfer, actorID string, now time.Time) error {
	c.logger.Warn("patient no longer owned by sender, cancelling transfer",
		zap.String("transfer_id", t.ID),
		zap.String("patient_id", t.PatientID),
	)
	if err := c.resolve(ctx, "respond", t, StatusCancelled, actorID, now); err != nil {
		return err
	}
	return ErrPatientUnavailable
}

func (c *Coordinator) Cancel(ctx context.Context, sender Identity, transferID string) error {
	t, err := c.load(ctx, "cancel", transferID)
	if err != nil {
		return err
	}
	if t.FromCaregiverID != sender.CaregiverID {
		return ErrNotSender
	}
	if t.Status != StatusPending {
		return notCancellable(t.Status)
	}
	return c.resolve(ctx, "cancel", t, StatusCancelled, sender.CaregiverID, c.clock.Now())
}

// resolve moves a pending transfer to a terminal status and stamps RespondedAt.
// Losing the compare-and-set yields a Conflict carrying the winner's status.
func (c *Coordinator) resolve(ctx context.Context, op string, t Transfer, to Status, actorID string, now time.Time) error {
	err := c.deps.Tx.WithTx(ctx, func(txCtx context.Context) error {
		ok, err := c.deps.Transfers.CompareAndSetStatus(txCtx, t.ID, StatusPending, to, &now)
		if err != nil {
			return fmt.Errorf("mark %s: %w", to, err)
		}
		if !ok {
			return ErrNotPending
		}
		return c.deps.History.Record(txCtx, newEvent(t, to, actorID, now))
	})
	if err != nil {
		if errors.Is(err, ErrNotPending) {
			return c.currentConflict(ctx, op, t.ID)
		}
		return c.fail(op, err)
	}

	metrics.TransfersResolvedTotal.WithLabelValues(string(to)).Inc()
	c.logger.Info("transfer resolved",
		zap.String("transfer_id", t.ID),
		zap.String("status", string(to)),
		zap.String("actor", actorID),
	)
	return nil
}

// expire is the lazy expiry performed when a stale transfer is touched.
// RespondedAt stays empty: nobody responded.
func (c *Coordinator) expire(ctx context.Context, t Transfer, now time.Time) error {
	var expired bool
	err := c.deps.Tx.WithTx(ctx, func(txCtx context.Context) error {
		ok, err := c.deps.Transfers.CompareAndSetStatus(txCtx, t.ID, StatusPending, StatusExpired, nil)
		if err != nil {
			return fmt.Errorf("mark expired: %w", err)
		}
		if !ok {
			return nil
		}
		expired = true
		return c.deps.History.Record(txCtx, newEvent(t, StatusExpired, "", now))
	})
	if err != nil {
		return err
	}
	if expired {
		metrics.TransfersExpiredTotal.WithLabelValues(metrics.ExpiredOnRespond).Inc()
		c.logger.Info("transfer expired on respond", zap.String("transfer_id", t.ID))
	}
	return nil
}

// List sweeps the caller's own stale outgoing transfers to expired before
// reading. Incoming transfers are not swept: a receiver may keep seeing a
// stale pending transfer until the sender lists or the receiver responds.
func (c *Coordinator) List(ctx context.Context, who Identity) (Listing, error) {
	c.sweep(ctx, who.CaregiverID)

	incoming, err := c.deps.Transfers.ListIncoming(ctx, who.CaregiverID)
	if err != nil {
		return Listing{}, c.fail("list", fmt.Errorf("list incoming: %w", err))
	}
	outgoing, err := c.deps.Transfers.ListOutgoing(ctx, who.CaregiverID)
	if err != nil {
		return Listing{}, c.fail("list", fmt.Errorf("list outgoing: %w", err))
	}

	listing := Listing{
		Incoming: make([]ListItem, len(incoming)),
		Outgoing: make([]ListItem, len(outgoing)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, t := range incoming {
		g.Go(func() error {
			item, err := c.enrich(gctx, t, DirectionIncoming)
			listing.Incoming[i] = item
			return err
		})
	}
	for i, t := range outgoing {
		g.Go(func() error {
			item, err := c.enrich(gctx, t, DirectionOutgoing)
			listing.Outgoing[i] = item
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Listing{}, c.fail("list", err)
	}
	return listing, nil
}

func (c *Coordinator) sweep(ctx context.Context, caregiverID string) {
	now := c.clock.Now()
	var expired []Transfer
	err := c.deps.Tx.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		expired, err = c.deps.Transfers.ExpireStale(txCtx, caregiverID, now)
		if err != nil {
			return fmt.Errorf("expire stale: %w", err)
		}
		for _, t := range expired {
			if err := c.deps.History.Record(txCtx, newEvent(t, StatusExpired, "", now)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("list_sweep").Inc()
		c.logger.Warn("expiry sweep failed", zap.String("caregiver_id", caregiverID), zap.Error(err))
		return
	}
	if len(expired) > 0 {
		metrics.TransfersExpiredTotal.WithLabelValues(metrics.ExpiredOnSweep).Add(float64(len(expired)))
		c.logger.Info("expired stale transfers", zap.String("caregiver_id", caregiverID), zap.Int("count", len(expired)))
	}
}

func (c *Coordinator) enrich(ctx context.Context, t Transfer, dir Direction) (ListItem, error) {
	item := ListItem{
		ID:                 t.ID,
		PatientID:          t.PatientID,
		PatientName:        unknownPatientName,
		OtherCaregiverName: unknownCaregiverName,
		Status:             t.Status,
		Message:            t.Message,
		ExpiresAt:          t.ExpiresAt,
		RespondedAt:        t.RespondedAt,
		CreatedAt:          t.CreatedAt,
		Direction:          dir,
	}

	patient, err := c.deps.Patients.GetByID(ctx, t.PatientID)
	switch {
	case err == nil:
		item.PatientName = patient.Name
		item.PatientPhoto = patient.PhotoURL
	case !errors.Is(err, repository.ErrObjectNotFound):
		return item, fmt.Errorf("get patient %s: %w", t.PatientID, err)
	}

	otherID := t.ToCaregiverID
	if dir == DirectionIncoming {
		otherID = t.FromCaregiverID
	}
	other, err := c.deps.Caregivers.GetByID(ctx, otherID)
	switch {
	case err == nil:
		item.OtherCaregiverName = other.Name
		item.OtherCaregiverEmail = other.Email
	case !errors.Is(err, repository.ErrObjectNotFound):
		return item, fmt.Errorf("get caregiver %s: %w", otherID, err)
	}
	return item, nil
}

func (c *Coordinator) Briefing(ctx context.Context, viewer Identity, transferID string) (Briefing, error) {
	t, err := c.load(ctx, "briefing", transferID)
	if err != nil {
		return Briefing{}, err
	}
	if t.ToCaregiverID != viewer.CaregiverID {
		return Briefing{}, ErrNotReceiver
	}
	if t.Status != StatusPending && t.Status != StatusAccepted {
		return Briefing{}, &StatusError{Err: ErrBriefingUnavailable, Status: t.Status}
	}

	data, err := c.deps.Briefings.LoadBriefing(ctx, t.PatientID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return Briefing{}, ErrPatientDataUnavailable
		}
		return Briefing{}, c.fail("briefing", fmt.Errorf("load briefing: %w", err))
	}

	var sender *Contact
	from, err := c.deps.Caregivers.GetByID(ctx, t.FromCaregiverID)
	switch {
	case err == nil:
		sender = &Contact{Name: from.Name, Email: from.Email}
	case !errors.Is(err, repository.ErrObjectNotFound):
		return Briefing{}, c.fail("briefing", fmt.Errorf("get sender: %w", err))
	}

	return buildBriefing(t, sender, data), nil
}

func (c *Coordinator) load(ctx context.Context, op, id string) (Transfer, error) {
	if strings.TrimSpace(id) == "" {
		return Transfer{}, ErrTransferNotFound
	}
	t, err := c.deps.Transfers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return Transfer{}, ErrTransferNotFound
		}
		return Transfer{}, c.fail(op, fmt.Errorf("get transfer: %w", err))
	}
	return t, nil
}

// currentConflict re-reads a transfer after a lost compare-and-set so the
// caller learns which status won.
func (c *Coordinator) currentConflict(ctx context.Context, op, id string) error {
	t, err := c.deps.Transfers.GetByID(ctx, id)
	if err != nil || t.Status == StatusPending {
		return ErrNotPending
	}
	if op == "cancel" {
		return notCancellable(t.Status)
	}
	return notPending(t.Status)
}

func (c *Coordinator) fail(op string, err error) error {
	metrics.OperationErrorsTotal.WithLabelValues(op).Inc()
	c.logger.Error("transfer operation failed", zap.String("operation", op), zap.Error(err))
	return err
}

func trimmedOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
