package ksefstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/chainsafe/ksef-middleware/pkg/incoming"
	"github.com/chainsafe/ksef-middleware/pkg/ksef"
	"github.com/chainsafe/ksef-middleware/pkg/migrations/ksefdb"
	"github.com/chainsafe/ksef-middleware/pkg/pgutil"
	"github.com/chainsafe/ksef-middleware/pkg/submission"
)

const env = ksef.EnvironmentTest

var t0 = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

func setupStore(t *testing.T) (*pgStore, *bun.DB) {
	t.Helper()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	ctx := context.Background()
	migrator := migrate.NewMigrator(db, ksefdb.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	return NewStore(db), db
}

func newAttempt(invoiceID int64, status submission.Status, at time.Time) *submission.Submission {
	return &submission.Submission{
		ID:             uuid.New(),
		InvoiceID:      invoiceID,
		InvoiceHash:    "hash",
		Status:         status,
		Environment:    env,
		DateSubmission: at,
	}
}

func TestReserveSubmission_FirstAttempt(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	a := newAttempt(1, submission.StatusPending, t0)
	if err := store.ReserveSubmission(ctx, a, nil, ""); err != nil {
		t.Fatalf("ReserveSubmission() failed: %v", err)
	}

	latest, err := store.LatestSubmission(ctx, 1)
	if err != nil {
		t.Fatalf("LatestSubmission() failed: %v", err)
	}
	if latest.ID != a.ID || latest.Status != submission.StatusPending {
		t.Fatalf("unexpected latest attempt %+v", latest)
	}

	if _, err = store.LatestSubmission(ctx, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReserveSubmission_StalePrior(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	first := newAttempt(1, submission.StatusFailed, t0)
	if err := store.ReserveSubmission(ctx, first, nil, ""); err != nil {
		t.Fatalf("ReserveSubmission() failed: %v", err)
	}

	// A caller that saw no attempts loses against the stored one.
	err := store.ReserveSubmission(ctx, newAttempt(1, submission.StatusPending, t0.Add(time.Second)), nil, "")
	if !errors.Is(err, ErrStaleAttempt) {
		t.Fatalf("expected ErrStaleAttempt, got %v", err)
	}

	second := newAttempt(1, submission.StatusPending, t0.Add(time.Minute))
	second.RetryCount = 1
	if err = store.ReserveSubmission(ctx, second, first, submission.StatusFailed); err != nil {
		t.Fatalf("ReserveSubmission() retry failed: %v", err)
	}

	// first is no longer the latest attempt.
	err = store.ReserveSubmission(ctx, newAttempt(1, submission.StatusPending, t0.Add(2*time.Minute)), first, submission.StatusFailed)
	if !errors.Is(err, ErrStaleAttempt) {
		t.Fatalf("expected ErrStaleAttempt, got %v", err)
	}

	history, err := store.ListSubmissions(ctx, 1)
	if err != nil {
		t.Fatalf("ListSubmissions() failed: %v", err)
	}
	if len(history) != 2 || history[0].ID != second.ID || history[0].RetryCount != 1 {
		t.Fatalf("unexpected history %+v", history)
	}
}

func TestReserveSubmission_SupersedesInterrupted(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	stuck := newAttempt(1, submission.StatusPending, t0)
	if err := store.ReserveSubmission(ctx, stuck, nil, ""); err != nil {
		t.Fatalf("ReserveSubmission() failed: %v", err)
	}

	superseded := *stuck
	superseded.Status = submission.StatusTimeout
	superseded.ErrorCode = "RESERVATION_EXPIRED"

	next := newAttempt(1, submission.StatusPending, t0.Add(time.Hour))
	if err := store.ReserveSubmission(ctx, next, &superseded, submission.StatusPending); err != nil {
		t.Fatalf("ReserveSubmission() failed: %v", err)
	}

	got, err := store.GetSubmission(ctx, stuck.ID)
	if err != nil {
		t.Fatalf("GetSubmission() failed: %v", err)
	}
	if got.Status != submission.StatusTimeout || got.ErrorCode != "RESERVATION_EXPIRED" {
		t.Fatalf("interrupted attempt was not superseded: %+v", got)
	}
}

func TestReserveSubmission_ConcurrentSingleInFlight(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		reserved int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := store.ReserveSubmission(ctx, newAttempt(9, submission.StatusPending, t0.Add(time.Duration(i)*time.Millisecond)), nil, "")
			if err == nil {
				mu.Lock()
				reserved++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrAttemptInFlight) && !errors.Is(err, ErrStaleAttempt) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if reserved != 1 {
		t.Fatalf("expected exactly one reservation, got %d", reserved)
	}
	pgutil.AssertRowCount(t, db, "ksef_submissions", 1)
}

func TestUpdateSubmission_Conditional(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	a := newAttempt(1, submission.StatusPending, t0)
	if err := store.ReserveSubmission(ctx, a, nil, ""); err != nil {
		t.Fatalf("ReserveSubmission() failed: %v", err)
	}

	a.Status = submission.StatusSubmitted
	a.KSeFReference = "REF1"
	if err := store.UpdateSubmission(ctx, a, submission.StatusPending); err != nil {
		t.Fatalf("UpdateSubmission() failed: %v", err)
	}

	a.Status = submission.StatusFailed
	if err := store.UpdateSubmission(ctx, a, submission.StatusPending); !errors.Is(err, ErrStaleAttempt) {
		t.Fatalf("expected ErrStaleAttempt, got %v", err)
	}

	got, err := store.GetSubmission(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetSubmission() failed: %v", err)
	}
	if got.Status != submission.StatusSubmitted || got.KSeFReference != "REF1" {
		t.Fatalf("unexpected stored attempt %+v", got)
	}

	checkable, err := store.ListCheckable(ctx, env, 10)
	if err != nil {
		t.Fatalf("ListCheckable() failed: %v", err)
	}
	if len(checkable) != 1 || checkable[0].ID != a.ID {
		t.Fatalf("unexpected checkable attempts %+v", checkable)
	}
}

func TestLatestQueries(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	deadline := t0.Add(6 * time.Hour)

	// Invoice 1: failed, then accepted.
	failed := newAttempt(1, submission.StatusFailed, t0)
	accepted := newAttempt(1, submission.StatusAccepted, t0.Add(time.Minute))
	// Invoice 2: offline, not yet confirmed.
	offline := newAttempt(2, submission.StatusOffline, t0)
	offline.OfflineMode = submission.Offline24
	offline.OfflineDeadline = &deadline
	// Invoice 3: rejected.
	rejected := newAttempt(3, submission.StatusRejected, t0)

	if err := store.ReserveSubmission(ctx, failed, nil, ""); err != nil {
		t.Fatalf("ReserveSubmission() failed: %v", err)
	}
	for _, a := range []*submission.Submission{offline, rejected} {
		if err := store.ReserveSubmission(ctx, a, nil, ""); err != nil {
			t.Fatalf("ReserveSubmission() failed: %v", err)
		}
	}
	if err := store.ReserveSubmission(ctx, accepted, failed, submission.StatusFailed); err != nil {
		t.Fatalf("ReserveSubmission() failed: %v", err)
	}

	counts, err := store.CountLatestByStatus(ctx, env)
	if err != nil {
		t.Fatalf("CountLatestByStatus() failed: %v", err)
	}
	if counts[submission.StatusAccepted] != 1 || counts[submission.StatusOffline] != 1 ||
		counts[submission.StatusRejected] != 1 || counts[submission.StatusFailed] != 0 {
		t.Fatalf("unexpected counts %v", counts)
	}

	pending, err := store.ListLatestOffline(ctx, env)
	if err != nil {
		t.Fatalf("ListLatestOffline() failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != offline.ID || pending[0].OfflineMode != submission.Offline24 {
		t.Fatalf("unexpected offline attempts %+v", pending)
	}
	if pending[0].OfflineDeadline == nil || !pending[0].OfflineDeadline.Equal(deadline) {
		t.Fatalf("offline deadline not preserved: %v", pending[0].OfflineDeadline)
	}
}

func TestListCheckable(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	withRef := func(a *submission.Submission, ref string) *submission.Submission {
		a.KSeFReference = ref
		return a
	}

	// Invoice 1: in flight. Invoice 2: timed out and still latest.
	// Invoice 3: timed out, then superseded. Invoice 4: reserved, no reference yet.
	inFlight := withRef(newAttempt(1, submission.StatusSubmitted, t0.Add(time.Minute)), "REF1")
	timedOut := withRef(newAttempt(2, submission.StatusTimeout, t0), "REF2")
	superseded := withRef(newAttempt(3, submission.StatusTimeout, t0), "REF3")
	retried := newAttempt(3, submission.StatusFailed, t0.Add(time.Minute))
	reserved := newAttempt(4, submission.StatusPending, t0)

	for _, a := range []*submission.Submission{inFlight, timedOut, superseded, reserved} {
		if err := store.ReserveSubmission(ctx, a, nil, ""); err != nil {
			t.Fatalf("ReserveSubmission() failed: %v", err)
		}
	}
	if err := store.ReserveSubmission(ctx, retried, superseded, submission.StatusTimeout); err != nil {
		t.Fatalf("ReserveSubmission() failed: %v", err)
	}

	list, err := store.ListCheckable(ctx, env, 10)
	if err != nil {
		t.Fatalf("ListCheckable() failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != inFlight.ID || list[1].ID != timedOut.ID {
		t.Fatalf("expected in-flight then latest TIMEOUT attempt, got %+v", list)
	}

	list, err = store.ListCheckable(ctx, env, 1)
	if err != nil {
		t.Fatalf("ListCheckable() failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != inFlight.ID {
		t.Fatalf("expected in-flight attempt first, got %+v", list)
	}
}

func rawIncoming(number string) *incoming.IncomingInvoice {
	return &incoming.IncomingInvoice{
		KSeFNumber:    number,
		SellerNIP:     "5265877635",
		SellerName:    "Seller",
		InvoiceNumber: "FV/" + number,
		InvoiceDate:   time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC),
		NetAmount:     decimal.RequireFromString("100.00"),
		VatAmount:     decimal.RequireFromString("23.00"),
		GrossAmount:   decimal.RequireFromString("123.00"),
		Currency:      "PLN",
		RawDocument:   []byte("<Faktura/>"),
		ImportStatus:  incoming.ImportNew,
		FetchDate:     t0,
		Environment:   env,
	}
}

func TestClaimFetch_SingleWinner(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	if _, err := store.EnsureSyncState(ctx, env); err != nil {
		t.Fatalf("EnsureSyncState() failed: %v", err)
	}

	const workers = 8
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		won int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := store.ClaimFetch(ctx, env, uuid.New(), t0)
			if err != nil {
				t.Errorf("ClaimFetch() failed: %v", err)
				return
			}
			if ok {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if won != 1 {
		t.Fatalf("expected exactly one claim, got %d", won)
	}
}

func TestClaimFetch_RespectsRateLimit(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	claim := uuid.New()
	if _, err := store.EnsureSyncState(ctx, env); err != nil {
		t.Fatalf("EnsureSyncState() failed: %v", err)
	}
	if _, ok, err := store.ClaimFetch(ctx, env, claim, t0); err != nil || !ok {
		t.Fatalf("ClaimFetch() = %v, %v", ok, err)
	}

	expiry := t0.Add(time.Minute)
	state, ok, err := store.FinishFetch(ctx, env, claim, "", incoming.FetchRateLimited, "slow down", &expiry, t0)
	if err != nil || !ok {
		t.Fatalf("FinishFetch() = %v, %v", ok, err)
	}
	if state.FetchStatus != incoming.FetchRateLimited || state.FetchClaim != nil {
		t.Fatalf("unexpected state %+v", state)
	}

	if _, ok, _ = store.ClaimFetch(ctx, env, uuid.New(), t0.Add(30*time.Second)); ok {
		t.Fatal("claim must fail during backoff")
	}
	if _, ok, _ = store.ClaimFetch(ctx, env, uuid.New(), t0.Add(2*time.Minute)); !ok {
		t.Fatal("claim must succeed after backoff")
	}
}

func TestCompleteFetch_Dedup(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	run := func(job string, invoices ...*incoming.IncomingInvoice) *incoming.SyncState {
		t.Helper()
		claim := uuid.New()
		if _, ok, err := store.ClaimFetch(ctx, env, claim, t0); err != nil || !ok {
			t.Fatalf("ClaimFetch() = %v, %v", ok, err)
		}
		if _, ok, err := store.RecordFetchJob(ctx, env, claim, job, t0.Add(-time.Hour), t0, t0); err != nil || !ok {
			t.Fatalf("RecordFetchJob() = %v, %v", ok, err)
		}
		state, ok, err := store.CompleteFetch(ctx, env, claim, job, invoices, t0, t0)
		if err != nil || !ok {
			t.Fatalf("CompleteFetch() = %v, %v", ok, err)
		}
		return state
	}

	if _, err := store.EnsureSyncState(ctx, env); err != nil {
		t.Fatalf("EnsureSyncState() failed: %v", err)
	}

	state := run("EXP1", rawIncoming("K1"), rawIncoming("K2"))
	if state.LastSyncNew != 2 || state.LastSyncExisting != 0 || state.FetchStatus != incoming.FetchCompleted {
		t.Fatalf("unexpected first run state %+v", state)
	}

	state = run("EXP2", rawIncoming("K2"), rawIncoming("K3"))
	if state.LastSyncNew != 1 || state.LastSyncExisting != 1 || state.LastSyncTotal != 2 {
		t.Fatalf("unexpected second run state %+v", state)
	}
	if state.ContinuationDate == nil || !state.ContinuationDate.Equal(t0) {
		t.Fatalf("continuation not advanced: %v", state.ContinuationDate)
	}
	pgutil.AssertRowCount(t, db, "ksef_incoming_invoices", 3)

	list, err := store.ListIncoming(ctx, env, incoming.ListFilter{Status: incoming.ImportNew})
	if err != nil {
		t.Fatalf("ListIncoming() failed: %v", err)
	}
	if len(list) != 3 || !list[0].GrossAmount.Equal(decimal.RequireFromString("123")) {
		t.Fatalf("unexpected incoming list %+v", list)
	}
}

func TestCompleteFetch_IgnoresResetJob(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	if _, err := store.EnsureSyncState(ctx, env); err != nil {
		t.Fatalf("EnsureSyncState() failed: %v", err)
	}
	claim := uuid.New()
	if _, ok, err := store.ClaimFetch(ctx, env, claim, t0); err != nil || !ok {
		t.Fatalf("ClaimFetch() = %v, %v", ok, err)
	}
	if _, err := store.ResetFetch(ctx, env, t0); err != nil {
		t.Fatalf("ResetFetch() failed: %v", err)
	}

	state, ok, err := store.CompleteFetch(ctx, env, claim, "", []*incoming.IncomingInvoice{rawIncoming("K1")}, t0, t0)
	if err != nil {
		t.Fatalf("CompleteFetch() failed: %v", err)
	}
	if ok || state.FetchStatus != incoming.FetchIdle {
		t.Fatalf("stale completion must be ignored, got ok=%v state=%+v", ok, state)
	}
	pgutil.AssertRowCount(t, db, "ksef_incoming_invoices", 0)
}

func TestRollbackContinuation(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	state, err := store.RollbackContinuation(ctx, env, 3, t0)
	if err != nil {
		t.Fatalf("RollbackContinuation() failed: %v", err)
	}
	if state.ContinuationDate == nil || !state.ContinuationDate.Equal(t0.AddDate(0, 0, -3)) {
		t.Fatalf("unexpected continuation %v", state.ContinuationDate)
	}

	if _, ok, err := store.ClaimFetch(ctx, env, uuid.New(), t0); err != nil || !ok {
		t.Fatalf("ClaimFetch() = %v, %v", ok, err)
	}
	if _, err = store.RollbackContinuation(ctx, env, 1, t0); !errors.Is(err, ErrFetchInProgress) {
		t.Fatalf("expected ErrFetchInProgress, got %v", err)
	}
}

func TestUpdateImportStatus(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	if _, err := store.EnsureSyncState(ctx, env); err != nil {
		t.Fatalf("EnsureSyncState() failed: %v", err)
	}
	claim := uuid.New()
	if _, ok, err := store.ClaimFetch(ctx, env, claim, t0); err != nil || !ok {
		t.Fatalf("ClaimFetch() = %v, %v", ok, err)
	}
	if _, _, err := store.CompleteFetch(ctx, env, claim, "", []*incoming.IncomingInvoice{rawIncoming("K1")}, t0, t0); err != nil {
		t.Fatalf("CompleteFetch() failed: %v", err)
	}

	list, err := store.ListIncoming(ctx, env, incoming.ListFilter{})
	if err != nil || len(list) != 1 {
		t.Fatalf("ListIncoming() = %d, %v", len(list), err)
	}
	id := list[0].ID
	docID := int64(42)

	if err = store.UpdateImportStatus(ctx, id, incoming.ImportNew, incoming.ImportImported, &docID, ""); err != nil {
		t.Fatalf("UpdateImportStatus() failed: %v", err)
	}
	if err = store.UpdateImportStatus(ctx, id, incoming.ImportNew, incoming.ImportError, nil, "x"); !errors.Is(err, ErrStaleAttempt) {
		t.Fatalf("expected ErrStaleAttempt, got %v", err)
	}

	got, err := store.GetIncoming(ctx, id)
	if err != nil {
		t.Fatalf("GetIncoming() failed: %v", err)
	}
	if got.ImportStatus != incoming.ImportImported || got.DocumentID == nil || *got.DocumentID != 42 {
		t.Fatalf("unexpected invoice %+v", got)
	}
	if string(got.RawDocument) != "<Faktura/>" {
		t.Fatalf("raw document not preserved: %q", got.RawDocument)
	}
}
