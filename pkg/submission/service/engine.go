package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chainsafe/ksef-middleware/internal/metrics"
	apperrors "github.com/chainsafe/ksef-middleware/pkg/app/errors"
	"github.com/chainsafe/ksef-middleware/pkg/config"
	"github.com/chainsafe/ksef-middleware/pkg/ksef"
	"github.com/chainsafe/ksef-middleware/pkg/ksefapi"
	"github.com/chainsafe/ksef-middleware/pkg/ksefstore"
	"github.com/chainsafe/ksef-middleware/pkg/submission"
)

// Codes attached to failures raised by the engine itself.
const (
	CodeNothingToRetry      = "NOTHING_TO_RETRY"
	CodeNotCheckable        = "NOT_CHECKABLE"
	CodeOfflineModeRequired = "OFFLINE_MODE_REQUIRED"
	CodeReservationExpired  = "RESERVATION_EXPIRED"
	CodeProcessingTimeout   = "PROCESSING_TIMEOUT"
	CodeAlreadyAccepted     = "ALREADY_ACCEPTED"
	CodeAlreadyInProgress   = "ALREADY_IN_PROGRESS"
)

// Store is the narrow data-access interface for the submission engine.
//
//go:generate mockery --name Store --output mocks --outpkg mocks --filename mock_store.go --with-expecter
type Store interface {
	GetSubmission(ctx context.Context, id uuid.UUID) (*submission.Submission, error)
	LatestSubmission(ctx context.Context, invoiceID int64) (*submission.Submission, error)
	ListSubmissions(ctx context.Context, invoiceID int64) ([]*submission.Submission, error)
	ReserveSubmission(ctx context.Context, attempt, prior *submission.Submission, priorStatus submission.Status) error
	UpdateSubmission(ctx context.Context, s *submission.Submission, from submission.Status) error
	CountLatestByStatus(ctx context.Context, env ksef.Environment) (map[submission.Status]int, error)
	ListLatestOffline(ctx context.Context, env ksef.Environment) ([]*submission.Submission, error)
	ListCheckable(ctx context.Context, env ksef.Environment, limit int) ([]*submission.Submission, error)
}

// API is the subset of the KSeF client used for outbound invoices.
//
//go:generate mockery --name API --output mocks --outpkg mocks --filename mock_api.go --with-expecter
type API interface {
	SubmitInvoice(ctx context.Context, token *ksefapi.SessionToken, doc *ksefapi.InvoiceDocument) (*ksefapi.SubmitResult, error)
	PollSubmission(ctx context.Context, token *ksefapi.SessionToken, ref string) (*ksefapi.RemoteStatus, error)
	DownloadUPO(ctx context.Context, token *ksefapi.SessionToken, ref string) ([]byte, error)
}

// Authenticator opens a KSeF session for one logical operation.
//
//go:generate mockery --name Authenticator --output mocks --outpkg mocks --filename mock_authenticator.go --with-expecter
type Authenticator interface {
	Session(ctx context.Context) (*ksefapi.SessionToken, error)
}

// Engine drives outbound invoices through the submission lifecycle.
// Domain failures are reported in the Result; the error return is reserved
// for persistence failures and unknown records.
//
//go:generate mockery --name Engine --output mocks --outpkg mocks --filename mock_engine.go --with-expecter
type Engine interface {
	Submit(ctx context.Context, inv *submission.Invoice) (*Result, error)
	Retry(ctx context.Context, inv *submission.Invoice) (*Result, error)
	RegisterOffline(ctx context.Context, inv *submission.Invoice) (*Result, error)
	CheckStatus(ctx context.Context, id uuid.UUID) (*Result, error)
	CheckPending(ctx context.Context, limit int) ([]*Result, error)
	NeedsAttention(ctx context.Context) ([]*submission.Submission, error)
	History(ctx context.Context, invoiceID int64) ([]*submission.Submission, error)
	Latest(ctx context.Context, invoiceID int64) (*submission.Submission, error)
	Statistics(ctx context.Context) (*Statistics, error)
	VerificationURL(ctx context.Context, id uuid.UUID) (string, error)
	DownloadUPO(ctx context.Context, id uuid.UUID) ([]byte, error)
}

// Result is the outcome of a lifecycle operation.
type Result struct {
	Status     submission.Status      `json:"status,omitempty"`
	Submission *submission.Submission `json:"submission,omitempty"`
	// Created is set when the operation inserted a new attempt.
	Created bool        `json:"created"`
	Error   *ksef.Error `json:"error,omitempty"`
}

// Success reports whether the operation reached its goal. AlreadyAccepted counts as success.
func (r *Result) Success() bool {
	return r.Error == nil || r.Error.Kind == ksef.KindAlreadyAccepted
}

// Statistics counts the latest attempt of every invoice by status.
type Statistics struct {
	Environment ksef.Environment          `json:"environment"`
	Counts      map[submission.Status]int `json:"counts"`
	Total       int                       `json:"total"`
}

// Option configures the engine.
type Option func(*engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *engine) { e.logger = l }
}

// WithClock sets the engine time source.
func WithClock(now func() time.Time) Option {
	return func(e *engine) { e.now = now }
}

type engine struct {
	store  Store
	api    API
	auth   Authenticator
	env    ksef.Environment
	cfg    config.SubmissionConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates the submission engine for env.
func NewEngine(
	store Store,
	api API,
	auth Authenticator,
	env ksef.Environment,
	cfg config.SubmissionConfig,
	opts ...Option,
) Engine {
	e := &engine{
		store:  store,
		api:    api,
		auth:   auth,
		env:    env,
		cfg:    cfg,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *engine) Submit(ctx context.Context, inv *submission.Invoice) (*Result, error) {
	return e.attempt(ctx, inv, false)
}

func (e *engine) Retry(ctx context.Context, inv *submission.Invoice) (*Result, error) {
	return e.attempt(ctx, inv, true)
}

// attempt runs the shared submit and retry path: guard on the latest
// attempt, validate, reserve a PENDING slot, then call KSeF.
func (e *engine) attempt(ctx context.Context, inv *submission.Invoice, retry bool) (*Result, error) {
	if inv == nil {
		return &Result{Error: ksef.NewError(ksef.KindValidation, "", "invoice is required")}, nil
	}

	prior, err := e.latest(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	if prior == nil && retry {
		return &Result{
			Error: ksef.NewError(ksef.KindValidation, CodeNothingToRetry, "invoice %d has no attempt to retry", inv.ID),
		}, nil
	}

	now := e.now()
	if res := e.guard(prior, now); res != nil {
		return res, nil
	}

	if kerr := inv.Validate(); kerr != nil {
		return e.recordInvalid(ctx, inv, prior, kerr, now)
	}

	sub, err := submission.NewAttempt(inv, e.env, prior, now)
	if err != nil {
		return nil, fmt.Errorf("failed to build attempt: %w", err)
	}
	if res, err := e.reserve(ctx, sub, prior, now); res != nil || err != nil {
		return res, err
	}

	return e.send(ctx, inv, sub)
}

// latest returns the invoice's latest attempt or nil when it has none.
func (e *engine) latest(ctx context.Context, invoiceID int64) (*submission.Submission, error) {
	s, err := e.store.LatestSubmission(ctx, invoiceID)
	if errors.Is(err, ksefstore.ErrNotFound) {
		return nil, nil
	}
	return s, err
}

// guard stops a new attempt when the invoice is settled or still in flight.
func (e *engine) guard(prior *submission.Submission, now time.Time) *Result {
	if prior == nil {
		return nil
	}
	if prior.Status == submission.StatusAccepted {
		return &Result{
			Status:     prior.Status,
			Submission: prior,
			Error: ksef.NewError(ksef.KindAlreadyAccepted, CodeAlreadyAccepted,
				"invoice %d is already accepted as %s", prior.InvoiceID, prior.KSeFNumber),
		}
	}
	if !prior.Retryable(now, e.cfg.ReservationTTL) {
		return inProgress(prior)
	}
	return nil
}

func inProgress(s *submission.Submission) *Result {
	res := &Result{
		Error: ksef.NewError(ksef.KindAlreadyInProgress, CodeAlreadyInProgress, "invoice already has an attempt in flight"),
	}
	if s != nil {
		res.Status = s.Status
		res.Submission = s
		res.Error.Details = s.ID.String()
	}
	return res
}

// reserve inserts sub as the invoice's new latest attempt. An interrupted
// prior reservation is closed in the same transaction. A non-nil Result
// means another caller won the race.
func (e *engine) reserve(ctx context.Context, sub, prior *submission.Submission, now time.Time) (*Result, error) {
	var (
		replaced    = prior
		priorStatus submission.Status
	)
	if prior != nil {
		priorStatus = prior.Status
		if prior.Interrupted(now, e.cfg.ReservationTTL) {
			closed := *prior
			if err := closed.Transition(closed.SupersededStatus()); err != nil {
				return nil, err
			}
			closed.RecordError(ksef.NewError(ksef.KindTimeout, CodeReservationExpired,
				"reservation expired without a KSeF reference"))
			replaced = &closed

			e.logger.Warn("superseding interrupted reservation",
				zap.String("submission_id", prior.ID.String()),
				zap.Int64("invoice_id", prior.InvoiceID),
				zap.String("status", string(closed.Status)))
		}
	}

	err := e.store.ReserveSubmission(ctx, sub, replaced, priorStatus)
	switch {
	case err == nil:
		return nil, nil
	case errors.Is(err, ksefstore.ErrAttemptInFlight), errors.Is(err, ksefstore.ErrStaleAttempt):
		return e.lostRace(ctx, sub.InvoiceID)
	default:
		return nil, err
	}
}

// lostRace reports the state left by the caller that won a concurrent reservation.
func (e *engine) lostRace(ctx context.Context, invoiceID int64) (*Result, error) {
	cur, err := e.latest(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if cur != nil && cur.Status == submission.StatusAccepted {
		return e.guard(cur, e.now()), nil
	}
	return inProgress(cur), nil
}

// recordInvalid persists a FAILED attempt for a document that never left the process.
func (e *engine) recordInvalid(
	ctx context.Context,
	inv *submission.Invoice,
	prior *submission.Submission,
	kerr *ksef.Error,
	now time.Time,
) (*Result, error) {
	sub, err := submission.NewAttempt(inv, e.env, prior, now)
	if err != nil {
		clean := *inv
		clean.OfflineMode = submission.OfflineNone
		if sub, err = submission.NewAttempt(&clean, e.env, prior, now); err != nil {
			return nil, fmt.Errorf("failed to build attempt: %w", err)
		}
	}
	if err := sub.Transition(submission.StatusFailed); err != nil {
		return nil, err
	}
	sub.RecordError(kerr)

	if res, err := e.reserve(ctx, sub, prior, now); res != nil || err != nil {
		return res, err
	}
	e.count(sub, kerr)
	return &Result{Status: sub.Status, Submission: sub, Created: true, Error: kerr}, nil
}

// send uploads the reserved attempt and records the outcome.
func (e *engine) send(ctx context.Context, inv *submission.Invoice, sub *submission.Submission) (*Result, error) {
	var kerr *ksef.Error

	tok, err := e.auth.Session(ctx)
	if err == nil {
		var res *ksefapi.SubmitResult
		res, err = e.api.SubmitInvoice(ctx, tok, &ksefapi.InvoiceDocument{
			Body:    inv.Document,
			Offline: inv.OfflineMode != submission.OfflineNone,
		})
		if err == nil {
			sub.KSeFReference = res.ReferenceNumber
			err = sub.Transition(submission.StatusSubmitted)
		}
	}
	if err != nil {
		kerr = ksef.AsError(err)
		if terr := sub.Transition(failureStatus(kerr, sub.OfflineMode)); terr != nil {
			return nil, terr
		}
		sub.RecordError(kerr)
	}

	if err := e.store.UpdateSubmission(ctx, sub, submission.StatusPending); err != nil {
		if errors.Is(err, ksefstore.ErrStaleAttempt) {
			e.logger.Warn("attempt changed while sending",
				zap.String("submission_id", sub.ID.String()),
				zap.String("ksef_reference", sub.KSeFReference))
			return e.lostRace(ctx, sub.InvoiceID)
		}
		return nil, err
	}

	e.count(sub, kerr)
	return &Result{Status: sub.Status, Submission: sub, Created: true, Error: kerr}, nil
}

// failureStatus maps a send failure to the attempt's terminal status.
func failureStatus(kerr *ksef.Error, mode submission.OfflineMode) submission.Status {
	offline := mode != submission.OfflineNone
	switch kerr.Kind {
	case ksef.KindRemoteRejection:
		return submission.StatusRejected
	case ksef.KindTimeout:
		if offline {
			return submission.StatusOffline
		}
		return submission.StatusTimeout
	case ksef.KindTransport, ksef.KindRateLimited:
		if offline {
			return submission.StatusOffline
		}
		return submission.StatusFailed
	default:
		return submission.StatusFailed
	}
}

func (e *engine) RegisterOffline(ctx context.Context, inv *submission.Invoice) (*Result, error) {
	if inv == nil || inv.OfflineMode == submission.OfflineNone {
		return &Result{
			Error: ksef.NewError(ksef.KindValidation, CodeOfflineModeRequired, "offline registration requires an offline mode"),
		}, nil
	}

	prior, err := e.latest(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	now := e.now()
	if res := e.guard(prior, now); res != nil {
		return res, nil
	}
	if kerr := inv.Validate(); kerr != nil {
		return e.recordInvalid(ctx, inv, prior, kerr, now)
	}

	sub, err := submission.NewAttempt(inv, e.env, prior, now)
	if err != nil {
		return nil, fmt.Errorf("failed to build attempt: %w", err)
	}
	if err := sub.Transition(submission.StatusOffline); err != nil {
		return nil, err
	}
	if res, err := e.reserve(ctx, sub, prior, now); res != nil || err != nil {
		return res, err
	}

	e.count(sub, nil)
	return &Result{Status: sub.Status, Submission: sub, Created: true}, nil
}

func (e *engine) CheckStatus(ctx context.Context, id uuid.UUID) (*Result, error) {
	sub, err := e.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.check(ctx, sub)
}

func (e *engine) check(ctx context.Context, sub *submission.Submission) (*Result, error) {
	if !sub.Checkable() {
		return &Result{
			Status:     sub.Status,
			Submission: sub,
			Error: ksef.NewError(ksef.KindValidation, CodeNotCheckable,
				"submission in status %s without a pending KSeF job cannot be checked", sub.Status),
		}, nil
	}

	from := sub.Status
	tok, err := e.auth.Session(ctx)
	if err != nil {
		return e.recordCheckError(ctx, sub, from, ksef.AsError(err))
	}
	rs, err := e.api.PollSubmission(ctx, tok, sub.KSeFReference)
	if err != nil {
		return e.recordCheckError(ctx, sub, from, ksef.AsError(err))
	}

	now := e.now()
	var kerr *ksef.Error
	switch rs.State {
	case ksefapi.RemoteAccepted:
		accepted := now
		if rs.AcquisitionTime != nil {
			accepted = *rs.AcquisitionTime
		}
		if err := sub.Transition(submission.StatusAccepted); err != nil {
			return nil, err
		}
		sub.KSeFNumber = rs.KSeFNumber
		sub.DateAcceptance = &accepted
		sub.ClearError()
	case ksefapi.RemoteRejected:
		kerr = rs.Rejection
		if kerr == nil {
			kerr = ksef.NewError(ksef.KindRemoteRejection, "", "%s", ksef.GetErrorDescription(""))
		}
		if err := sub.Transition(submission.StatusRejected); err != nil {
			return nil, err
		}
		sub.RecordError(kerr)
	default:
		next := submission.StatusPending
		if now.Sub(sub.DateSubmission) >= e.cfg.MaxProcessingTime {
			next = submission.StatusTimeout
			kerr = ksef.NewError(ksef.KindTimeout, CodeProcessingTimeout,
				"KSeF did not finish processing within %s", e.cfg.MaxProcessingTime)
			sub.RecordError(kerr)
		}
		if err := sub.Transition(next); err != nil {
			return nil, err
		}
	}

	if err := e.store.UpdateSubmission(ctx, sub, from); err != nil {
		if errors.Is(err, ksefstore.ErrStaleAttempt) || errors.Is(err, ksefstore.ErrAttemptInFlight) {
			return e.current(ctx, sub.ID)
		}
		return nil, err
	}
	if sub.Status != from {
		e.count(sub, kerr)
	}
	return &Result{Status: sub.Status, Submission: sub, Error: kerr}, nil
}

// recordCheckError stores a polling failure without moving the attempt.
func (e *engine) recordCheckError(ctx context.Context, sub *submission.Submission, from submission.Status, kerr *ksef.Error) (*Result, error) {
	sub.RecordError(kerr)
	if err := e.store.UpdateSubmission(ctx, sub, from); err != nil {
		if errors.Is(err, ksefstore.ErrStaleAttempt) {
			return e.current(ctx, sub.ID)
		}
		return nil, err
	}
	metrics.ErrorsTotal.WithLabelValues("submission", kerr.Kind.String()).Inc()
	return &Result{Status: sub.Status, Submission: sub, Error: kerr}, nil
}

// current reports the stored attempt after losing an update race.
func (e *engine) current(ctx context.Context, id uuid.UUID) (*Result, error) {
	sub, err := e.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Result{Status: sub.Status, Submission: sub}, nil
}

// CheckPending polls a bounded batch of attempts still waiting for a remote verdict.
func (e *engine) CheckPending(ctx context.Context, limit int) ([]*Result, error) {
	subs, err := e.store.ListCheckable(ctx, e.env, limit)
	if err != nil {
		return nil, err
	}
	results := make([]*Result, 0, len(subs))
	for _, sub := range subs {
		if ctx.Err() != nil {
			break
		}
		res, err := e.check(ctx, sub)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (e *engine) NeedsAttention(ctx context.Context) ([]*submission.Submission, error) {
	subs, err := e.store.ListLatestOffline(ctx, e.env)
	if err != nil {
		return nil, err
	}
	now := e.now()
	out := make([]*submission.Submission, 0, len(subs))
	for _, s := range subs {
		if submission.NeedsAttention(s, now, e.cfg.OfflineLeadWindow) {
			out = append(out, s)
		}
	}
	metrics.OfflineAttention.WithLabelValues(string(e.env)).Set(float64(len(out)))
	return out, nil
}

func (e *engine) History(ctx context.Context, invoiceID int64) ([]*submission.Submission, error) {
	return e.store.ListSubmissions(ctx, invoiceID)
}

func (e *engine) Latest(ctx context.Context, invoiceID int64) (*submission.Submission, error) {
	s, err := e.store.LatestSubmission(ctx, invoiceID)
	if errors.Is(err, ksefstore.ErrNotFound) {
		return nil, apperrors.ResourceNotFoundError(err, "invoice has no submissions")
	}
	return s, err
}

func (e *engine) Statistics(ctx context.Context) (*Statistics, error) {
	counts, err := e.store.CountLatestByStatus(ctx, e.env)
	if err != nil {
		return nil, err
	}
	stats := &Statistics{Environment: e.env, Counts: make(map[submission.Status]int, len(submission.Statuses))}
	for _, st := range submission.Statuses {
		stats.Counts[st] = counts[st]
		stats.Total += counts[st]
	}
	return stats, nil
}

func (e *engine) VerificationURL(ctx context.Context, id uuid.UUID) (string, error) {
	sub, err := e.accepted(ctx, id)
	if err != nil {
		return "", err
	}
	u, err := ksef.VerificationURL(sub.Environment, sub.KSeFNumber, sub.InvoiceHash)
	if err != nil {
		return "", apperrors.GeneralError(err)
	}
	return u, nil
}

func (e *engine) DownloadUPO(ctx context.Context, id uuid.UUID) ([]byte, error) {
	sub, err := e.accepted(ctx, id)
	if err != nil {
		return nil, err
	}
	tok, err := e.auth.Session(ctx)
	if err != nil {
		return nil, apperrors.FromKSeF(ksef.AsError(err))
	}
	upo, err := e.api.DownloadUPO(ctx, tok, sub.KSeFReference)
	if err != nil {
		return nil, apperrors.FromKSeF(ksef.AsError(err))
	}
	return upo, nil
}

func (e *engine) get(ctx context.Context, id uuid.UUID) (*submission.Submission, error) {
	sub, err := e.store.GetSubmission(ctx, id)
	if errors.Is(err, ksefstore.ErrNotFound) {
		return nil, apperrors.ResourceNotFoundError(err, "submission not found")
	}
	return sub, err
}

func (e *engine) accepted(ctx context.Context, id uuid.UUID) (*submission.Submission, error) {
	sub, err := e.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != submission.StatusAccepted || sub.KSeFNumber == "" {
		return nil, apperrors.ConflictError(nil, fmt.Sprintf("submission is %s, not ACCEPTED", sub.Status))
	}
	return sub, nil
}

func (e *engine) count(sub *submission.Submission, kerr *ksef.Error) {
	metrics.SubmissionsTotal.WithLabelValues(string(sub.Environment), string(sub.Status)).Inc()
	if kerr != nil {
		metrics.ErrorsTotal.WithLabelValues("submission", kerr.Kind.String()).Inc()
	}
}
