package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/chainsafe/ksef-middleware/pkg/app/errors"
	"github.com/chainsafe/ksef-middleware/pkg/config"
	"github.com/chainsafe/ksef-middleware/pkg/incoming"
	"github.com/chainsafe/ksef-middleware/pkg/incoming/service"
	"github.com/chainsafe/ksef-middleware/pkg/incoming/service/mocks"
	"github.com/chainsafe/ksef-middleware/pkg/ksef"
	"github.com/chainsafe/ksef-middleware/pkg/ksefapi"
	"github.com/chainsafe/ksef-middleware/pkg/ksefstore"
)

const env = ksef.EnvironmentTest

var t0 = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

var testConfig = config.IncomingConfig{
	InitialLookback:  30 * 24 * time.Hour,
	MaxExportWindow:  90 * 24 * time.Hour,
	MaxFetchDuration: 30 * time.Minute,
	MaxRollbackDays:  90,
}

// memStore is an in-memory Store with the same guarded update semantics as
// the postgres implementation.
type memStore struct {
	mu       sync.Mutex
	state    *incoming.SyncState
	invoices []*incoming.IncomingInvoice
}

func newMemStore() *memStore {
	return &memStore{state: incoming.NewSyncState(env)}
}

func (m *memStore) snapshot() *incoming.SyncState {
	s := *m.state
	return &s
}

func (m *memStore) EnsureSyncState(context.Context, ksef.Environment) (*incoming.SyncState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot(), nil
}

func (m *memStore) ClaimFetch(_ context.Context, _ ksef.Environment, claim uuid.UUID, now time.Time) (*incoming.SyncState, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.Claimable(now) {
		return m.snapshot(), false, nil
	}
	started := now
	m.state.FetchStatus = incoming.FetchProcessing
	m.state.FetchStarted = &started
	m.state.FetchClaim = &claim
	m.state.FetchJobReference = ""
	m.state.FetchError = ""
	m.state.RateLimitExpiry = nil
	m.state.FetchWindowFrom, m.state.FetchWindowTo = nil, nil
	return m.snapshot(), true, nil
}

func (m *memStore) guarded(claim uuid.UUID, job string, apply func(*incoming.SyncState)) (*incoming.SyncState, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.Owns(claim, job) {
		return m.snapshot(), false, nil
	}
	apply(m.state)
	return m.snapshot(), true, nil
}

func (m *memStore) RecordFetchJob(
	_ context.Context, _ ksef.Environment, claim uuid.UUID, job string, from, to, _ time.Time,
) (*incoming.SyncState, bool, error) {
	return m.guarded(claim, "", func(s *incoming.SyncState) {
		s.FetchJobReference = job
		s.FetchWindowFrom, s.FetchWindowTo = &from, &to
	})
}

func (m *memStore) RecordFetchProgress(
	_ context.Context, _ ksef.Environment, claim uuid.UUID, job, fetchErr string, _ time.Time,
) (*incoming.SyncState, bool, error) {
	return m.guarded(claim, job, func(s *incoming.SyncState) { s.FetchError = fetchErr })
}

func (m *memStore) FinishFetch(
	_ context.Context, _ ksef.Environment, claim uuid.UUID, job string, status incoming.FetchStatus,
	fetchErr string, rateLimitExpiry *time.Time, _ time.Time,
) (*incoming.SyncState, bool, error) {
	return m.guarded(claim, job, func(s *incoming.SyncState) {
		s.FetchStatus = status
		s.FetchError = fetchErr
		s.RateLimitExpiry = rateLimitExpiry
		s.FetchClaim = nil
	})
}

func (m *memStore) CompleteFetch(
	_ context.Context, _ ksef.Environment, claim uuid.UUID, job string,
	invoices []*incoming.IncomingInvoice, watermark, now time.Time,
) (*incoming.SyncState, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.Owns(claim, job) {
		return m.snapshot(), false, nil
	}
	created := 0
	for _, inv := range invoices {
		if m.findLocked(inv.KSeFNumber, inv.Environment) == nil {
			c := *inv
			c.ID = int64(len(m.invoices) + 1)
			m.invoices = append(m.invoices, &c)
			created++
		}
	}
	m.state.FetchStatus = incoming.FetchCompleted
	m.state.ContinuationDate = &watermark
	m.state.LastSyncDate = &now
	m.state.LastSyncNew = created
	m.state.LastSyncExisting = len(invoices) - created
	m.state.LastSyncTotal = len(invoices)
	m.state.FetchError = ""
	m.state.RateLimitExpiry = nil
	m.state.FetchClaim = nil
	return m.snapshot(), true, nil
}

func (m *memStore) ResetFetch(context.Context, ksef.Environment, time.Time) (*incoming.SyncState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.FetchStatus = incoming.FetchIdle
	m.state.FetchStarted = nil
	m.state.FetchClaim = nil
	m.state.FetchJobReference = ""
	m.state.FetchError = ""
	m.state.RateLimitExpiry = nil
	m.state.FetchWindowFrom, m.state.FetchWindowTo = nil, nil
	return m.snapshot(), nil
}

func (m *memStore) AcknowledgeFetch(_ context.Context, _ ksef.Environment, now time.Time) (*incoming.SyncState, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.FetchStatus.Terminal() || m.state.RateLimited(now) {
		return m.snapshot(), false, nil
	}
	m.state.FetchStatus = incoming.FetchIdle
	m.state.FetchClaim = nil
	return m.snapshot(), true, nil
}

func (m *memStore) RollbackContinuation(_ context.Context, _ ksef.Environment, daysBack int, now time.Time) (*incoming.SyncState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.FetchStatus == incoming.FetchProcessing {
		return nil, ksefstore.ErrFetchInProgress
	}
	base := now
	if m.state.ContinuationDate != nil {
		base = *m.state.ContinuationDate
	}
	next := base.AddDate(0, 0, -daysBack)
	m.state.ContinuationDate = &next
	if m.state.FetchStatus.Terminal() {
		m.state.FetchStatus = incoming.FetchIdle
	}
	m.state.FetchError = ""
	return m.snapshot(), nil
}

func (m *memStore) findLocked(number string, e ksef.Environment) *incoming.IncomingInvoice {
	for _, inv := range m.invoices {
		if inv.KSeFNumber == number && inv.Environment == e {
			return inv
		}
	}
	return nil
}

func (m *memStore) GetIncoming(_ context.Context, id int64) (*incoming.IncomingInvoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invoices {
		if inv.ID == id {
			c := *inv
			return &c, nil
		}
	}
	return nil, ksefstore.ErrNotFound
}

func (m *memStore) ListIncoming(_ context.Context, e ksef.Environment, filter incoming.ListFilter) ([]*incoming.IncomingInvoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*incoming.IncomingInvoice
	for _, inv := range m.invoices {
		if inv.Environment == e && (filter.Status == "" || inv.ImportStatus == filter.Status) {
			c := *inv
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memStore) UpdateImportStatus(
	_ context.Context, id int64, from, to incoming.ImportStatus, documentID *int64, importErr string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invoices {
		if inv.ID != id {
			continue
		}
		if inv.ImportStatus != from {
			return ksefstore.ErrStaleAttempt
		}
		inv.ImportStatus = to
		inv.DocumentID = documentID
		inv.ImportError = importErr
		return nil
	}
	return ksefstore.ErrStaleAttempt
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store       *memStore
	api         *mocks.API
	auth        *mocks.Authenticator
	clock       *clock
	coordinator service.Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: newMemStore(),
		api:   mocks.NewAPI(t),
		auth:  mocks.NewAuthenticator(t),
		clock: &clock{now: t0},
	}
	f.coordinator = service.NewCoordinator(f.store, f.api, f.auth, env, testConfig, service.WithClock(f.clock.Now))
	return f
}

func (f *fixture) session() {
	f.auth.EXPECT().Session(mock.Anything).Return(&ksefapi.SessionToken{Token: "tok"}, nil)
}

func rawInvoice(number string) ksefapi.RawInvoice {
	return ksefapi.RawInvoice{
		KSeFNumber:    number,
		InvoiceNumber: "FV/" + number,
		IssueDate:     t0.AddDate(0, 0, -3),
		Seller:        ksefapi.Party{NIP: "5265877635", Name: "Seller sp. z o.o."},
		NetAmount:     decimal.RequireFromString("100.00"),
		VatAmount:     decimal.RequireFromString("23.00"),
		GrossAmount:   decimal.RequireFromString("123.00"),
		Currency:      "PLN",
		Document:      []byte("<Faktura/>"),
	}
}

func TestFetchLifecycle(t *testing.T) {
	f := newFixture(t)
	continuation := t0.AddDate(0, 0, -10)
	f.store.state.ContinuationDate = &continuation
	f.store.invoices = append(f.store.invoices, &incoming.IncomingInvoice{
		ID: 1, KSeFNumber: "KSEF-1", Environment: env, ImportStatus: incoming.ImportNew,
	})

	f.session()
	f.api.EXPECT().InitiateIncomingExport(mock.Anything, mock.Anything, continuation, t0).
		Return(&ksefapi.ExportRef{ReferenceNumber: "EXP1"}, nil).Once()

	res, err := f.coordinator.InitIncomingFetch(context.Background())
	if err != nil {
		t.Fatalf("InitIncomingFetch: %v", err)
	}
	if res.Outcome != service.OutcomeInitiated || res.State.FetchJobReference != "EXP1" {
		t.Fatalf("unexpected init result: %+v", res)
	}

	f.api.EXPECT().PollExport(mock.Anything, mock.Anything, "EXP1").
		Return(&ksefapi.ExportStatus{State: ksefapi.ExportProcessing}, nil).Once()
	f.clock.Advance(time.Minute)
	res, err = f.coordinator.CheckIncomingFetchStatus(context.Background())
	if err != nil {
		t.Fatalf("CheckIncomingFetchStatus: %v", err)
	}
	if res.Outcome != service.OutcomeProcessing {
		t.Fatalf("expected PROCESSING, got %s", res.Outcome)
	}

	watermark := t0.Add(-time.Hour)
	f.api.EXPECT().PollExport(mock.Anything, mock.Anything, "EXP1").
		Return(&ksefapi.ExportStatus{State: ksefapi.ExportDone, InvoiceCount: 3, EndWatermark: &watermark}, nil).Once()
	f.api.EXPECT().DownloadExportPackage(mock.Anything, mock.Anything, "EXP1").
		Return([]ksefapi.RawInvoice{rawInvoice("KSEF-1"), rawInvoice("KSEF-2"), rawInvoice("KSEF-3")}, nil).Once()
	f.clock.Advance(time.Minute)
	res, err = f.coordinator.CheckIncomingFetchStatus(context.Background())
	if err != nil {
		t.Fatalf("CheckIncomingFetchStatus: %v", err)
	}
	if res.Outcome != service.OutcomeCompleted || res.New != 2 || res.Existing != 1 || res.Total != 3 {
		t.Fatalf("unexpected completion: %+v", res)
	}
	if res.State.ContinuationDate == nil || !res.State.ContinuationDate.Equal(watermark) {
		t.Fatalf("expected continuation %s, got %v", watermark, res.State.ContinuationDate)
	}
	if n := len(f.store.invoices); n != 3 {
		t.Fatalf("expected 3 stored invoices, got %d", n)
	}

	// A completed run is reported verbatim without polling.
	res, err = f.coordinator.CheckIncomingFetchStatus(context.Background())
	if err != nil {
		t.Fatalf("CheckIncomingFetchStatus: %v", err)
	}
	if res.Outcome != service.OutcomeCompleted || res.New != 2 {
		t.Fatalf("expected last counts to be reported, got %+v", res)
	}
}

func TestCompletionFallsBackToWindowEnd(t *testing.T) {
	f := newFixture(t)
	f.session()
	from := t0.Add(-testConfig.InitialLookback)
	f.api.EXPECT().InitiateIncomingExport(mock.Anything, mock.Anything, from, t0).
		Return(&ksefapi.ExportRef{ReferenceNumber: "EXP2"}, nil).Once()
	f.api.EXPECT().PollExport(mock.Anything, mock.Anything, "EXP2").
		Return(&ksefapi.ExportStatus{State: ksefapi.ExportDone}, nil).Once()
	f.api.EXPECT().DownloadExportPackage(mock.Anything, mock.Anything, "EXP2").Return(nil, nil).Once()

	if _, err := f.coordinator.InitIncomingFetch(context.Background()); err != nil {
		t.Fatalf("InitIncomingFetch: %v", err)
	}
	f.clock.Advance(time.Minute)
	res, err := f.coordinator.CheckIncomingFetchStatus(context.Background())
	if err != nil {
		t.Fatalf("CheckIncomingFetchStatus: %v", err)
	}
	if res.Outcome != service.OutcomeCompleted || res.Total != 0 {
		t.Fatalf("unexpected completion: %+v", res)
	}
	if !res.State.ContinuationDate.Equal(t0) {
		t.Fatalf("expected continuation to advance to the window end %s, got %s", t0, res.State.ContinuationDate)
	}
}

func TestInitWhileProcessing(t *testing.T) {
	f := newFixture(t)
	f.session()
	f.api.EXPECT().InitiateIncomingExport(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&ksefapi.ExportRef{ReferenceNumber: "EXP1"}, nil).Once()

	if _, err := f.coordinator.InitIncomingFetch(context.Background()); err != nil {
		t.Fatalf("InitIncomingFetch: %v", err)
	}
	before := f.store.snapshot()

	res, err := f.coordinator.InitIncomingFetch(context.Background())
	if err != nil {
		t.Fatalf("InitIncomingFetch: %v", err)
	}
	if res.Outcome != service.OutcomeAlreadyProcessing {
		t.Fatalf("expected ALREADY_PROCESSING, got %s", res.Outcome)
	}
	if res.Error == nil || res.Error.Kind != ksef.KindAlreadyInProgress {
		t.Fatalf("expected AlreadyInProgress error, got %+v", res.Error)
	}
	after := f.store.snapshot()
	if after.FetchJobReference != before.FetchJobReference || *after.FetchClaim != *before.FetchClaim ||
		!after.FetchStarted.Equal(*before.FetchStarted) {
		t.Fatalf("sync state changed: before %+v after %+v", before, after)
	}
}

func TestConcurrentInitClaimsOnce(t *testing.T) {
	f := newFixture(t)
	f.session()
	f.api.EXPECT().InitiateIncomingExport(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&ksefapi.ExportRef{ReferenceNumber: "EXP1"}, nil).Once()

	const workers = 8
	outcomes := make(chan service.Outcome, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.coordinator.InitIncomingFetch(context.Background())
			if err != nil {
				t.Errorf("InitIncomingFetch: %v", err)
				return
			}
			outcomes <- res.Outcome
		}()
	}
	wg.Wait()
	close(outcomes)

	counts := map[service.Outcome]int{}
	for o := range outcomes {
		counts[o]++
	}
	if counts[service.OutcomeInitiated] != 1 || counts[service.OutcomeAlreadyProcessing] != workers-1 {
		t.Fatalf("unexpected outcomes: %v", counts)
	}
}

func TestCheckRateLimited(t *testing.T) {
	f := newFixture(t)
	continuation := t0.AddDate(0, 0, -5)
	f.store.state.ContinuationDate = &continuation

	f.session()
	f.api.EXPECT().InitiateIncomingExport(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&ksefapi.ExportRef{ReferenceNumber: "EXP1"}, nil).Once()
	f.api.EXPECT().PollExport(mock.Anything, mock.Anything, "EXP1").
		Return(nil, &ksef.Error{Kind: ksef.KindRateLimited, Message: "too many requests", RetryAfter: 90 * time.Second}).Once()

	if _, err := f.coordinator.InitIncomingFetch(context.Background()); err != nil {
		t.Fatalf("InitIncomingFetch: %v", err)
	}
	res, err := f.coordinator.CheckIncomingFetchStatus(context.Background())
	if err != nil {
		t.Fatalf("CheckIncomingFetchStatus: %v", err)
	}
	if res.Outcome != service.OutcomeRateLimited || res.RetryAfterSeconds != 90 {
		t.Fatalf("expected RATE_LIMITED with 90s, got %+v", res)
	}
	if !res.State.ContinuationDate.Equal(continuation) {
		t.Fatalf("continuation changed to %s", res.State.ContinuationDate)
	}

	// The backoff blocks a new run until it expires.
	f.clock.Advance(30 * time.Second)
	res, err = f.coordinator.InitIncomingFetch(context.Background())
	if err != nil {
		t.Fatalf("InitIncomingFetch: %v", err)
	}
	if res.Outcome != service.OutcomeRateLimited || res.RetryAfterSeconds != 60 {
		t.Fatalf("expected RATE_LIMITED with 60s left, got %+v", res)
	}

	f.clock.Advance(time.Minute)
	f.api.EXPECT().InitiateIncomingExport(mock.Anything, mock.Anything, continuation, mock.Anything).
		Return(&ksefapi.ExportRef{ReferenceNumber: "EXP2"}, nil).Once()
	res, err = f.coordinator.InitIncomingFetch(context.Background())
	if err != nil {
		t.Fatalf("InitIncomingFetch: %v", err)
	}
	if res.Outcome != service.OutcomeInitiated {
		t.Fatalf("expected INITIATED after backoff, got %s", res.Outcome)
	}
}

func TestInitFailure(t *testing.T) {
	f := newFixture(t)
	f.auth.EXPECT().Session(mock.Anything).
		Return(nil, ksef.NewError(ksef.KindAuth, "", "certificate rejected")).Once()

	res, err := f.coordinator.InitIncomingFetch(context.Background())
	if err != nil {
		t.Fatalf("InitIncomingFetch: %v", err)
	}
	if res.Outcome != service.OutcomeError || res.State.FetchStatus != incoming.FetchFailed {
		t.Fatalf("expected ERROR with FAILED state, got %+v", res)
	}
	if res.State.FetchError == "" {
		t.Fatal("expected fetch_error to be recorded")
	}
}

func TestNeverCompletingJobTimesOut(t *testing.T) {
	f := newFixture(t)
	f.session()
	f.api.EXPECT().InitiateIncomingExport(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&ksefapi.ExportRef{ReferenceNumber: "EXP1"}, nil).Once()
	f.api.EXPECT().PollExport(mock.Anything, mock.Anything, "EXP1").
		Return(&ksefapi.ExportStatus{State: ksefapi.ExportProcessing}, nil)

	if _, err := f.coordinator.InitIncomingFetch(context.Background()); err != nil {
		t.Fatalf("InitIncomingFetch: %v", err)
	}

	f.clock.Advance(testConfig.MaxFetchDuration / 2)
	res, err := f.coordinator.CheckIncomingFetchStatus(context.Background())
	if err != nil {
		t.Fatalf("CheckIncomingFetchStatus: %v", err)
	}
	if res.Outcome != service.OutcomeProcessing {
		t.Fatalf("expected PROCESSING, got %s", res.Outcome)
	}

	f.clock.Advance(testConfig.MaxFetchDuration / 2)
	res, err = f.coordinator.CheckIncomingFetchStatus(context.Background())
	if err != nil {
		t.Fatalf("CheckIncomingFetchStatus: %v", err)
	}
	if res.Outcome != service.OutcomeTimeout || res.State.FetchStatus != incoming.FetchTimeout {
		t.Fatalf("expected TIMEOUT, got %+v", res)
	}
	if res.Error == nil || res.Error.Kind != ksef.KindTimeout {
		t.Fatalf("expected timeout error, got %+v", res.Error)
	}
}

func TestTransientPollErrorKeepsProcessing(t *testing.T) {
	f := newFixture(t)
	f.session()
	f.api.EXPECT().InitiateIncomingExport(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&ksefapi.ExportRef{ReferenceNumber: "EXP1"}, nil).Once()
	f.api.EXPECT().PollExport(mock.Anything, mock.Anything, "EXP1").
		Return(nil, errors.New("connection reset by peer")).Once()

	if _, err := f.coordinator.InitIncomingFetch(context.Background()); err != nil {
		t.Fatalf("InitIncomingFetch: %v", err)
	}
	res, err := f.coordinator.CheckIncomingFetchStatus(context.Background())
	if err != nil {
		t.Fatalf("CheckIncomingFetchStatus: %v", err)
	}
	if res.Outcome != service.OutcomeProcessing || res.State.FetchError == "" {
		t.Fatalf("expected PROCESSING with fetch_error, got %+v", res)
	}
	if res.Error == nil || res.Error.Kind != ksef.KindTransport {
		t.Fatalf("expected transport error, got %+v", res.Error)
	}
}

func TestExplicitRemoteFailure(t *testing.T) {
	f := newFixture(t)
	f.session()
	f.api.EXPECT().InitiateIncomingExport(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&ksefapi.ExportRef{ReferenceNumber: "EXP1"}, nil).Once()
	f.api.EXPECT().PollExport(mock.Anything, mock.Anything, "EXP1").
		Return(&ksefapi.ExportStatus{State: ksefapi.ExportFailed, Code: 415, Description: "export failed"}, nil).Once()

	if _, err := f.coordinator.InitIncomingFetch(context.Background()); err != nil {
		t.Fatalf("InitIncomingFetch: %v", err)
	}
	res, err := f.coordinator.CheckIncomingFetchStatus(context.Background())
	if err != nil {
		t.Fatalf("CheckIncomingFetchStatus: %v", err)
	}
	if res.Outcome != service.OutcomeFailed || res.Error == nil || res.Error.Code != "415" {
		t.Fatalf("expected FAILED with code 415, got %+v", res)
	}
}

func TestOversizedPackageFailsRun(t *testing.T) {
	f := newFixture(t)
	f.session()
	f.api.EXPECT().InitiateIncomingExport(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&ksefapi.ExportRef{ReferenceNumber: "EXP1"}, nil).Once()
	f.api.EXPECT().PollExport(mock.Anything, mock.Anything, "EXP1").
		Return(&ksefapi.ExportStatus{State: ksefapi.ExportDone, InvoiceCount: 40}, nil).Once()
	f.api.EXPECT().DownloadExportPackage(mock.Anything, mock.Anything, "EXP1").
		Return(nil, ksef.NewError(ksef.KindRemoteRejection, ksefapi.CodeResponseTooLarge,
			"download_export response exceeds %d bytes", 32<<20)).Once()

	if _, err := f.coordinator.InitIncomingFetch(context.Background()); err != nil {
		t.Fatalf("InitIncomingFetch: %v", err)
	}
	res, err := f.coordinator.CheckIncomingFetchStatus(context.Background())
	if err != nil {
		t.Fatalf("CheckIncomingFetchStatus: %v", err)
	}
	if res.Outcome != service.OutcomeFailed || res.Error == nil || res.Error.Code != ksefapi.CodeResponseTooLarge {
		t.Fatalf("expected FAILED with %s, got %+v", ksefapi.CodeResponseTooLarge, res)
	}
	st := f.store.snapshot()
	if st.FetchStatus != incoming.FetchFailed || !strings.Contains(st.FetchError, ksefapi.CodeResponseTooLarge) {
		t.Fatalf("expected FAILED state with fetch error, got %+v", st)
	}

	// Finished: the next check reports without downloading again.
	res, err = f.coordinator.CheckIncomingFetchStatus(context.Background())
	if err != nil {
		t.Fatalf("CheckIncomingFetchStatus: %v", err)
	}
	if res.Outcome != service.OutcomeFailed {
		t.Fatalf("expected FAILED, got %s", res.Outcome)
	}
}

func TestResetIgnoresStaleJob(t *testing.T) {
	f := newFixture(t)
	f.session()
	f.api.EXPECT().InitiateIncomingExport(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&ksefapi.ExportRef{ReferenceNumber: "EXP1"}, nil).Once()

	if _, err := f.coordinator.InitIncomingFetch(context.Background()); err != nil {
		t.Fatalf("InitIncomingFetch: %v", err)
	}
	stale := f.store.snapshot()

	res, err := f.coordinator.ResetIncomingFetch(context.Background())
	if err != nil {
		t.Fatalf("ResetIncomingFetch: %v", err)
	}
	if res.Outcome != service.OutcomeIdle || res.State.FetchJobReference != "" {
		t.Fatalf("expected clean IDLE state, got %+v", res.State)
	}

	// A late result for the reset job must not be applied.
	_, applied, err := f.store.CompleteFetch(context.Background(), env, *stale.FetchClaim, "EXP1",
		[]*incoming.IncomingInvoice{{KSeFNumber: "KSEF-9", Environment: env}}, t0, t0)
	if err != nil {
		t.Fatalf("CompleteFetch: %v", err)
	}
	if applied || len(f.store.invoices) != 0 {
		t.Fatalf("expected stale completion to be ignored")
	}

	res, err = f.coordinator.CheckIncomingFetchStatus(context.Background())
	if err != nil {
		t.Fatalf("CheckIncomingFetchStatus: %v", err)
	}
	if res.Outcome != service.OutcomeIdle {
		t.Fatalf("expected IDLE, got %s", res.Outcome)
	}
}

func TestAcknowledge(t *testing.T) {
	f := newFixture(t)

	res, err := f.coordinator.AcknowledgeIncomingFetch(context.Background())
	if err != nil {
		t.Fatalf("AcknowledgeIncomingFetch: %v", err)
	}
	if res.Error == nil || res.Error.Kind != ksef.KindValidation {
		t.Fatalf("expected nothing to acknowledge while IDLE, got %+v", res)
	}

	f.store.state.FetchStatus = incoming.FetchCompleted
	res, err = f.coordinator.AcknowledgeIncomingFetch(context.Background())
	if err != nil {
		t.Fatalf("AcknowledgeIncomingFetch: %v", err)
	}
	if res.Outcome != service.OutcomeIdle || res.Error != nil {
		t.Fatalf("expected IDLE, got %+v", res)
	}
}

func TestRollbackSyncState(t *testing.T) {
	f := newFixture(t)

	for _, days := range []int{0, testConfig.MaxRollbackDays + 1} {
		res, err := f.coordinator.ResetIncomingSyncState(context.Background(), days)
		if err != nil {
			t.Fatalf("ResetIncomingSyncState(%d): %v", days, err)
		}
		if res.Error == nil || res.Error.Kind != ksef.KindValidation {
			t.Fatalf("expected validation error for %d days, got %+v", days, res)
		}
	}

	res, err := f.coordinator.ResetIncomingSyncState(context.Background(), 7)
	if err != nil {
		t.Fatalf("ResetIncomingSyncState: %v", err)
	}
	if want := t0.AddDate(0, 0, -7); !res.State.ContinuationDate.Equal(want) {
		t.Fatalf("expected continuation %s, got %s", want, res.State.ContinuationDate)
	}

	f.store.state.FetchStatus = incoming.FetchFailed
	res, err = f.coordinator.ResetIncomingSyncState(context.Background(), 3)
	if err != nil {
		t.Fatalf("ResetIncomingSyncState: %v", err)
	}
	if want := t0.AddDate(0, 0, -10); !res.State.ContinuationDate.Equal(want) {
		t.Fatalf("expected continuation %s, got %s", want, res.State.ContinuationDate)
	}
	if res.State.FetchStatus != incoming.FetchIdle {
		t.Fatalf("expected terminal status to clear to IDLE, got %s", res.State.FetchStatus)
	}

	f.store.state.FetchStatus = incoming.FetchProcessing
	res, err = f.coordinator.ResetIncomingSyncState(context.Background(), 3)
	if err != nil {
		t.Fatalf("ResetIncomingSyncState: %v", err)
	}
	if res.Outcome != service.OutcomeAlreadyProcessing || res.Error.Kind != ksef.KindAlreadyInProgress {
		t.Fatalf("expected rollback to be refused while PROCESSING, got %+v", res)
	}
}

func TestMarkImported(t *testing.T) {
	f := newFixture(t)
	f.store.invoices = append(f.store.invoices, &incoming.IncomingInvoice{
		ID: 1, KSeFNumber: "KSEF-1", Environment: env, ImportStatus: incoming.ImportNew,
	})

	_, err := f.coordinator.MarkImported(context.Background(), 1, incoming.ImportImported, nil, "")
	if !apperrors.Is(err, apperrors.CategoryDataError) {
		t.Fatalf("expected bad request without document ID, got %v", err)
	}

	doc := int64(501)
	inv, err := f.coordinator.MarkImported(context.Background(), 1, incoming.ImportImported, &doc, "")
	if err != nil {
		t.Fatalf("MarkImported: %v", err)
	}
	if inv.ImportStatus != incoming.ImportImported || inv.DocumentID == nil || *inv.DocumentID != doc {
		t.Fatalf("unexpected invoice: %+v", inv)
	}

	_, err = f.coordinator.MarkImported(context.Background(), 1, incoming.ImportSkipped, nil, "")
	if !apperrors.Is(err, apperrors.CategoryDataConflict) {
		t.Fatalf("expected conflict leaving IMPORTED, got %v", err)
	}

	_, err = f.coordinator.MarkImported(context.Background(), 99, incoming.ImportSkipped, nil, "")
	if !apperrors.Is(err, apperrors.CategoryResourceNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
