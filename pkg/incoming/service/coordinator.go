package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chainsafe/ksef-middleware/internal/metrics"
	apperrors "github.com/chainsafe/ksef-middleware/pkg/app/errors"
	"github.com/chainsafe/ksef-middleware/pkg/config"
	"github.com/chainsafe/ksef-middleware/pkg/incoming"
	"github.com/chainsafe/ksef-middleware/pkg/ksef"
	"github.com/chainsafe/ksef-middleware/pkg/ksefapi"
	"github.com/chainsafe/ksef-middleware/pkg/ksefstore"
)

// defaultRateLimitBackoff applies when KSeF rate limits without a usable hint.
const defaultRateLimitBackoff = time.Minute

// Outcome tags the result of a coordinator operation.
type Outcome string

const (
	OutcomeInitiated         Outcome = "INITIATED"
	OutcomeAlreadyProcessing Outcome = "ALREADY_PROCESSING"
	OutcomeError             Outcome = "ERROR"
	OutcomeProcessing        Outcome = "PROCESSING"
	OutcomeCompleted         Outcome = "COMPLETED"
	OutcomeFailed            Outcome = "FAILED"
	OutcomeTimeout           Outcome = "TIMEOUT"
	OutcomeRateLimited       Outcome = "RATE_LIMITED"
	OutcomeIdle              Outcome = "IDLE"
)

var statusOutcomes = map[incoming.FetchStatus]Outcome{
	incoming.FetchIdle:        OutcomeIdle,
	incoming.FetchProcessing:  OutcomeProcessing,
	incoming.FetchCompleted:   OutcomeCompleted,
	incoming.FetchFailed:      OutcomeFailed,
	incoming.FetchTimeout:     OutcomeTimeout,
	incoming.FetchRateLimited: OutcomeRateLimited,
}

// OutcomeForStatus maps a persisted fetch status to the outcome reported for it.
func OutcomeForStatus(s incoming.FetchStatus) Outcome {
	return statusOutcomes[s]
}

// Store is the narrow data-access interface for the sync coordinator.
//
//go:generate mockery --name Store --output mocks --outpkg mocks --filename mock_store.go --with-expecter
type Store interface {
	EnsureSyncState(ctx context.Context, env ksef.Environment) (*incoming.SyncState, error)
	ClaimFetch(ctx context.Context, env ksef.Environment, claim uuid.UUID, now time.Time) (*incoming.SyncState, bool, error)
	RecordFetchJob(ctx context.Context, env ksef.Environment, claim uuid.UUID, job string, from, to, now time.Time) (*incoming.SyncState, bool, error)
	RecordFetchProgress(ctx context.Context, env ksef.Environment, claim uuid.UUID, job, fetchErr string, now time.Time) (*incoming.SyncState, bool, error)
	FinishFetch(ctx context.Context, env ksef.Environment, claim uuid.UUID, job string, status incoming.FetchStatus,
		fetchErr string, rateLimitExpiry *time.Time, now time.Time) (*incoming.SyncState, bool, error)
	CompleteFetch(ctx context.Context, env ksef.Environment, claim uuid.UUID, job string,
		invoices []*incoming.IncomingInvoice, watermark, now time.Time) (*incoming.SyncState, bool, error)
	ResetFetch(ctx context.Context, env ksef.Environment, now time.Time) (*incoming.SyncState, error)
	AcknowledgeFetch(ctx context.Context, env ksef.Environment, now time.Time) (*incoming.SyncState, bool, error)
	RollbackContinuation(ctx context.Context, env ksef.Environment, daysBack int, now time.Time) (*incoming.SyncState, error)
	GetIncoming(ctx context.Context, id int64) (*incoming.IncomingInvoice, error)
	ListIncoming(ctx context.Context, env ksef.Environment, filter incoming.ListFilter) ([]*incoming.IncomingInvoice, error)
	UpdateImportStatus(ctx context.Context, id int64, from, to incoming.ImportStatus, documentID *int64, importErr string) error
}

// API is the subset of the KSeF client used for incoming exports.
//
//go:generate mockery --name API --output mocks --outpkg mocks --filename mock_api.go --with-expecter
type API interface {
	InitiateIncomingExport(ctx context.Context, token *ksefapi.SessionToken, from, to time.Time) (*ksefapi.ExportRef, error)
	PollExport(ctx context.Context, token *ksefapi.SessionToken, ref string) (*ksefapi.ExportStatus, error)
	DownloadExportPackage(ctx context.Context, token *ksefapi.SessionToken, ref string) ([]ksefapi.RawInvoice, error)
}

// Authenticator opens a KSeF session for one logical operation.
//
//go:generate mockery --name Authenticator --output mocks --outpkg mocks --filename mock_authenticator.go --with-expecter
type Authenticator interface {
	Session(ctx context.Context) (*ksefapi.SessionToken, error)
}

// Coordinator drives the externally polled incoming export protocol for one
// environment. Remote failures are reported in the FetchResult; the error
// return is reserved for persistence failures.
//
//go:generate mockery --name Coordinator --output mocks --outpkg mocks --filename mock_coordinator.go --with-expecter
type Coordinator interface {
	InitIncomingFetch(ctx context.Context) (*FetchResult, error)
	CheckIncomingFetchStatus(ctx context.Context) (*FetchResult, error)
	ResetIncomingFetch(ctx context.Context) (*FetchResult, error)
	AcknowledgeIncomingFetch(ctx context.Context) (*FetchResult, error)
	ResetIncomingSyncState(ctx context.Context, daysBack int) (*FetchResult, error)
	SyncState(ctx context.Context) (*incoming.SyncState, error)
	ListIncoming(ctx context.Context, filter incoming.ListFilter) ([]*incoming.IncomingInvoice, error)
	MarkImported(ctx context.Context, id int64, status incoming.ImportStatus, documentID *int64, errMsg string) (*incoming.IncomingInvoice, error)
}

// FetchResult is the outcome of a coordinator operation.
type FetchResult struct {
	Outcome           Outcome             `json:"outcome"`
	State             *incoming.SyncState `json:"state"`
	New               int                 `json:"new"`
	Existing          int                 `json:"existing"`
	Total             int                 `json:"total"`
	RetryAfterSeconds int                 `json:"retry_after_seconds,omitempty"`
	Error             *ksef.Error         `json:"error,omitempty"`
}

// Option configures the coordinator.
type Option func(*coordinator)

// WithLogger sets the coordinator logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *coordinator) { c.logger = l }
}

// WithClock sets the coordinator time source.
func WithClock(now func() time.Time) Option {
	return func(c *coordinator) { c.now = now }
}

type coordinator struct {
	store  Store
	api    API
	auth   Authenticator
	env    ksef.Environment
	cfg    config.IncomingConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewCoordinator creates the sync coordinator for env.
func NewCoordinator(
	store Store,
	api API,
	auth Authenticator,
	env ksef.Environment,
	cfg config.IncomingConfig,
	opts ...Option,
) Coordinator {
	c := &coordinator{
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
			opt(c)
		}
	}
	return c
}

// report renders the persisted state as a result.
func report(state *incoming.SyncState, now time.Time) *FetchResult {
	return &FetchResult{
		Outcome:           OutcomeForStatus(state.FetchStatus),
		State:             state,
		New:               state.LastSyncNew,
		Existing:          state.LastSyncExisting,
		Total:             state.LastSyncTotal,
		RetryAfterSeconds: state.RetryAfterSeconds(now),
	}
}

func (c *coordinator) InitIncomingFetch(ctx context.Context) (*FetchResult, error) {
	now := c.now()
	if _, err := c.store.EnsureSyncState(ctx, c.env); err != nil {
		return nil, err
	}

	claim := uuid.New()
	state, won, err := c.store.ClaimFetch(ctx, c.env, claim, now)
	if err != nil {
		return nil, err
	}
	if !won {
		return c.counted(c.notClaimed(state, now)), nil
	}

	from, to := state.ExportWindow(now, c.cfg.InitialLookback, c.cfg.MaxExportWindow)
	ref, err := c.initiate(ctx, from, to)
	if err != nil {
		kerr := ksef.AsError(err)
		res, err := c.finish(ctx, state, claim, "", kerr, now)
		if err != nil {
			return nil, err
		}
		if res.Outcome == OutcomeFailed {
			res.Outcome = OutcomeError
		}
		return c.counted(res), nil
	}

	state, owned, err := c.store.RecordFetchJob(ctx, c.env, claim, ref.ReferenceNumber, from, to, now)
	if err != nil {
		return nil, err
	}
	if !owned {
		c.logger.Warn("fetch claim lost before the export job was recorded",
			zap.String("job", ref.ReferenceNumber))
		return c.counted(report(state, now)), nil
	}

	return c.counted(&FetchResult{Outcome: OutcomeInitiated, State: state}), nil
}

func (c *coordinator) initiate(ctx context.Context, from, to time.Time) (*ksefapi.ExportRef, error) {
	tok, err := c.auth.Session(ctx)
	if err != nil {
		return nil, err
	}
	return c.api.InitiateIncomingExport(ctx, tok, from, to)
}

// notClaimed explains why a new run could not start.
func (c *coordinator) notClaimed(state *incoming.SyncState, now time.Time) *FetchResult {
	if state.RateLimited(now) {
		res := report(state, now)
		res.Error = &ksef.Error{
			Kind:       ksef.KindRateLimited,
			Message:    "incoming fetch is rate limited",
			RetryAfter: state.RateLimitExpiry.Sub(now),
		}
		return res
	}
	res := report(state, now)
	res.Outcome = OutcomeAlreadyProcessing
	res.Error = ksef.NewError(ksef.KindAlreadyInProgress, "", "incoming fetch already in progress")
	return res
}

// finish ends the claimed run according to kerr: RATE_LIMITED for rate
// limits, FAILED otherwise.
func (c *coordinator) finish(
	ctx context.Context,
	state *incoming.SyncState,
	claim uuid.UUID,
	job string,
	kerr *ksef.Error,
	now time.Time,
) (*FetchResult, error) {
	status := incoming.FetchFailed
	var expiry *time.Time
	if kerr.Kind == ksef.KindRateLimited {
		backoff := kerr.RetryAfter
		if backoff <= 0 {
			backoff = defaultRateLimitBackoff
		}
		exp := now.Add(backoff)
		status, expiry = incoming.FetchRateLimited, &exp
	}
	return c.finishWith(ctx, state, claim, job, status, kerr, expiry, now)
}

func (c *coordinator) finishWith(
	ctx context.Context,
	state *incoming.SyncState,
	claim uuid.UUID,
	job string,
	status incoming.FetchStatus,
	kerr *ksef.Error,
	expiry *time.Time,
	now time.Time,
) (*FetchResult, error) {
	if !incoming.CanTransition(state.FetchStatus, status) {
		return nil, fmt.Errorf("invalid fetch transition %s -> %s", state.FetchStatus, status)
	}
	next, owned, err := c.store.FinishFetch(ctx, c.env, claim, job, status, kerr.Error(), expiry, now)
	if err != nil {
		return nil, err
	}
	if !owned {
		return report(next, now), nil
	}

	metrics.ErrorsTotal.WithLabelValues("incoming", kerr.Kind.String()).Inc()
	c.logger.Warn("incoming fetch ended",
		zap.String("status", string(status)),
		zap.String("job", job),
		zap.Error(kerr))

	res := report(next, now)
	res.Error = kerr
	return res, nil
}

func (c *coordinator) CheckIncomingFetchStatus(ctx context.Context) (*FetchResult, error) {
	now := c.now()
	state, err := c.store.EnsureSyncState(ctx, c.env)
	if err != nil {
		return nil, err
	}
	if state.FetchStatus != incoming.FetchProcessing || state.FetchClaim == nil {
		return report(state, now), nil
	}

	res, err := c.poll(ctx, state, *state.FetchClaim, now)
	if err != nil {
		return nil, err
	}
	return c.counted(res), nil
}

func (c *coordinator) poll(ctx context.Context, state *incoming.SyncState, claim uuid.UUID, now time.Time) (*FetchResult, error) {
	job := state.FetchJobReference
	if job == "" {
		// The claim holder has not recorded its export job yet.
		return c.stillRunning(ctx, state, claim, job, nil, now)
	}

	tok, err := c.auth.Session(ctx)
	if err != nil {
		return c.pollFailed(ctx, state, claim, job, ksef.AsError(err), now)
	}
	es, err := c.api.PollExport(ctx, tok, job)
	if err != nil {
		return c.pollFailed(ctx, state, claim, job, ksef.AsError(err), now)
	}

	switch es.State {
	case ksefapi.ExportDone:
		return c.complete(ctx, state, claim, job, tok, es, now)
	case ksefapi.ExportFailed:
		code := strconv.Itoa(es.Code)
		msg := es.Description
		if msg == "" {
			msg = ksef.GetErrorDescription(code)
		}
		kerr := ksef.NewError(ksef.KindRemoteRejection, code, "%s", msg)
		return c.finishWith(ctx, state, claim, job, incoming.FetchFailed, kerr, nil, now)
	default:
		return c.stillRunning(ctx, state, claim, job, nil, now)
	}
}

// pollFailed handles a failed poll or download. Rate limits, auth failures
// and explicit remote errors end the run; transport problems are recorded
// while the run keeps going.
func (c *coordinator) pollFailed(
	ctx context.Context,
	state *incoming.SyncState,
	claim uuid.UUID,
	job string,
	kerr *ksef.Error,
	now time.Time,
) (*FetchResult, error) {
	switch kerr.Kind {
	case ksef.KindRateLimited, ksef.KindAuth, ksef.KindRemoteRejection, ksef.KindValidation:
		return c.finish(ctx, state, claim, job, kerr, now)
	default:
		return c.stillRunning(ctx, state, claim, job, kerr, now)
	}
}

// stillRunning keeps the run PROCESSING unless it exceeded the maximum
// fetch duration, in which case it becomes TIMEOUT.
func (c *coordinator) stillRunning(
	ctx context.Context,
	state *incoming.SyncState,
	claim uuid.UUID,
	job string,
	kerr *ksef.Error,
	now time.Time,
) (*FetchResult, error) {
	if state.FetchStarted != nil && now.Sub(*state.FetchStarted) >= c.cfg.MaxFetchDuration {
		timeout := ksef.NewError(ksef.KindTimeout, "", "export did not finish within %s", c.cfg.MaxFetchDuration)
		if kerr != nil {
			timeout.Details = kerr.Error()
		}
		return c.finishWith(ctx, state, claim, job, incoming.FetchTimeout, timeout, nil, now)
	}

	fetchErr := ""
	if kerr != nil {
		fetchErr = kerr.Error()
	}
	next := state
	if fetchErr != state.FetchError {
		var (
			owned bool
			err   error
		)
		next, owned, err = c.store.RecordFetchProgress(ctx, c.env, claim, job, fetchErr, now)
		if err != nil {
			return nil, err
		}
		if !owned {
			return report(next, now), nil
		}
	}

	res := report(next, now)
	res.Error = kerr
	return res, nil
}

// complete downloads the finished export and stores it in one transaction.
func (c *coordinator) complete(
	ctx context.Context,
	state *incoming.SyncState,
	claim uuid.UUID,
	job string,
	tok *ksefapi.SessionToken,
	es *ksefapi.ExportStatus,
	now time.Time,
) (*FetchResult, error) {
	raws, err := c.api.DownloadExportPackage(ctx, tok, job)
	if err != nil {
		return c.pollFailed(ctx, state, claim, job, ksef.AsError(err), now)
	}

	invoices := make([]*incoming.IncomingInvoice, 0, len(raws))
	for i := range raws {
		invoices = append(invoices, incoming.FromRaw(&raws[i], c.env, now))
	}

	watermark := now
	switch {
	case es.EndWatermark != nil:
		watermark = *es.EndWatermark
	case state.FetchWindowTo != nil:
		watermark = *state.FetchWindowTo
	}

	next, owned, err := c.store.CompleteFetch(ctx, c.env, claim, job, invoices, watermark, now)
	if err != nil {
		return nil, err
	}
	if !owned {
		c.logger.Info("ignoring export result for a reset job", zap.String("job", job))
		return report(next, now), nil
	}

	metrics.IncomingInvoicesTotal.WithLabelValues(string(c.env), "new").Add(float64(next.LastSyncNew))
	metrics.IncomingInvoicesTotal.WithLabelValues(string(c.env), "existing").Add(float64(next.LastSyncExisting))
	return report(next, now), nil
}

func (c *coordinator) ResetIncomingFetch(ctx context.Context) (*FetchResult, error) {
	now := c.now()
	state, err := c.store.ResetFetch(ctx, c.env, now)
	if err != nil {
		return nil, err
	}
	return report(state, now), nil
}

func (c *coordinator) AcknowledgeIncomingFetch(ctx context.Context) (*FetchResult, error) {
	now := c.now()
	state, ok, err := c.store.AcknowledgeFetch(ctx, c.env, now)
	if err != nil {
		return nil, err
	}
	res := report(state, now)
	if !ok {
		res.Error = ksef.NewError(ksef.KindValidation, "", "nothing to acknowledge while fetch is %s", state.FetchStatus)
	}
	return res, nil
}

func (c *coordinator) ResetIncomingSyncState(ctx context.Context, daysBack int) (*FetchResult, error) {
	now := c.now()
	if daysBack < 1 || daysBack > c.cfg.MaxRollbackDays {
		state, err := c.store.EnsureSyncState(ctx, c.env)
		if err != nil {
			return nil, err
		}
		res := report(state, now)
		res.Error = ksef.NewError(ksef.KindValidation, "",
			"days back must be between 1 and %d", c.cfg.MaxRollbackDays)
		return res, nil
	}

	state, err := c.store.RollbackContinuation(ctx, c.env, daysBack, now)
	if errors.Is(err, ksefstore.ErrFetchInProgress) {
		if state, err = c.store.EnsureSyncState(ctx, c.env); err != nil {
			return nil, err
		}
		res := report(state, now)
		res.Outcome = OutcomeAlreadyProcessing
		res.Error = ksef.NewError(ksef.KindAlreadyInProgress, "", "cannot roll back while a fetch is in progress")
		return res, nil
	}
	if err != nil {
		return nil, err
	}

	c.logger.Info("incoming sync state rolled back",
		zap.Int("days_back", daysBack),
		zap.Timep("continuation_date", state.ContinuationDate))
	return report(state, now), nil
}

func (c *coordinator) SyncState(ctx context.Context) (*incoming.SyncState, error) {
	return c.store.EnsureSyncState(ctx, c.env)
}

func (c *coordinator) ListIncoming(ctx context.Context, filter incoming.ListFilter) ([]*incoming.IncomingInvoice, error) {
	return c.store.ListIncoming(ctx, c.env, filter)
}

func (c *coordinator) MarkImported(
	ctx context.Context,
	id int64,
	status incoming.ImportStatus,
	documentID *int64,
	errMsg string,
) (*incoming.IncomingInvoice, error) {
	inv, err := c.getIncoming(ctx, id)
	if err != nil {
		return nil, err
	}
	if !incoming.CanImportTransition(inv.ImportStatus, status) {
		return nil, apperrors.ConflictError(nil,
			fmt.Sprintf("invoice import status cannot move from %s to %s", inv.ImportStatus, status))
	}
	if status == incoming.ImportImported && documentID == nil {
		return nil, apperrors.BadRequestError(nil, "document_id is required when marking an invoice imported")
	}

	err = c.store.UpdateImportStatus(ctx, id, inv.ImportStatus, status, documentID, errMsg)
	if errors.Is(err, ksefstore.ErrStaleAttempt) {
		return nil, apperrors.ConflictError(err, "invoice import status changed concurrently")
	}
	if err != nil {
		return nil, err
	}
	return c.getIncoming(ctx, id)
}

func (c *coordinator) getIncoming(ctx context.Context, id int64) (*incoming.IncomingInvoice, error) {
	inv, err := c.store.GetIncoming(ctx, id)
	if errors.Is(err, ksefstore.ErrNotFound) {
		return nil, apperrors.ResourceNotFoundError(err, "incoming invoice not found")
	}
	return inv, err
}

func (c *coordinator) counted(res *FetchResult) *FetchResult {
	metrics.IncomingFetchTotal.WithLabelValues(string(c.env), string(res.Outcome)).Inc()
	return res
}
