package ksefstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/chainsafe/ksef-middleware/pkg/incoming"
	"github.com/chainsafe/ksef-middleware/pkg/ksef"
	"github.com/chainsafe/ksef-middleware/pkg/ksefstore/dao"
)

// EnsureSyncState returns the state row for env, creating an IDLE one on first use.
func (s *pgStore) EnsureSyncState(ctx context.Context, env ksef.Environment) (*incoming.SyncState, error) {
	_, err := s.db.NewInsert().
		Model(&dao.SyncStateDao{
			Environment: string(env),
			FetchStatus: string(incoming.FetchIdle),
		}).
		On("CONFLICT (environment) DO NOTHING").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync state: %w", err)
	}
	return s.getSyncState(ctx, s.db, env, false)
}

func (s *pgStore) getSyncState(ctx context.Context, db bun.IDB, env ksef.Environment, lock bool) (*incoming.SyncState, error) {
	d := new(dao.SyncStateDao)
	q := db.NewSelect().
		Model(d).
		Where("ss.environment = ?", string(env))
	if lock {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get sync state: %w", err)
	}
	return toSyncState(d), nil
}

// ClaimFetch atomically moves the state to PROCESSING under claim unless a
// run is already in progress or a rate-limit backoff is still in force. It
// returns the resulting state and whether the claim was won; a lost claim
// returns the current state untouched.
func (s *pgStore) ClaimFetch(
	ctx context.Context,
	env ksef.Environment,
	claim uuid.UUID,
	now time.Time,
) (*incoming.SyncState, bool, error) {
	d := new(dao.SyncStateDao)
	err := s.db.NewUpdate().
		Model(d).
		Set("fetch_status = ?", string(incoming.FetchProcessing)).
		Set("fetch_started = ?", now.UTC()).
		Set("fetch_claim = ?", claim).
		Set("fetch_job_reference = NULL").
		Set("fetch_error = NULL").
		Set("rate_limit_expiry = NULL").
		Set("fetch_window_from = NULL").
		Set("fetch_window_to = NULL").
		Set("updated_at = ?", now.UTC()).
		Where("ss.environment = ?", string(env)).
		Where("ss.fetch_status <> ?", string(incoming.FetchProcessing)).
		Where("NOT (ss.fetch_status = ? AND ss.rate_limit_expiry IS NOT NULL AND ss.rate_limit_expiry > ?)",
			string(incoming.FetchRateLimited), now.UTC()).
		Returning("*").
		Scan(ctx)
	if err == nil {
		return toSyncState(d), true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to claim fetch: %w", err)
	}

	state, err := s.getSyncState(ctx, s.db, env, false)
	if err != nil {
		return nil, false, err
	}
	return state, false, nil
}

// guardedUpdate applies set to the state row only while it is PROCESSING
// under claim (and job, when non-empty). It reports whether the row still
// belonged to the caller.
func (s *pgStore) guardedUpdate(
	ctx context.Context,
	env ksef.Environment,
	claim uuid.UUID,
	job string,
	now time.Time,
	set func(*bun.UpdateQuery) *bun.UpdateQuery,
) (*incoming.SyncState, bool, error) {
	d := new(dao.SyncStateDao)
	q := s.db.NewUpdate().
		Model(d).
		Set("updated_at = ?", now.UTC()).
		Where("ss.environment = ?", string(env)).
		Where("ss.fetch_status = ?", string(incoming.FetchProcessing)).
		Where("ss.fetch_claim = ?", claim)
	if job != "" {
		q = q.Where("ss.fetch_job_reference = ?", job)
	}
	err := set(q).Returning("*").Scan(ctx)
	if err == nil {
		return toSyncState(d), true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to update sync state: %w", err)
	}

	state, err := s.getSyncState(ctx, s.db, env, false)
	if err != nil {
		return nil, false, err
	}
	return state, false, nil
}

// RecordFetchJob stores the remote export reference and the requested window for the claimed run.
func (s *pgStore) RecordFetchJob(
	ctx context.Context,
	env ksef.Environment,
	claim uuid.UUID,
	job string,
	from, to, now time.Time,
) (*incoming.SyncState, bool, error) {
	return s.guardedUpdate(ctx, env, claim, "", now, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.Set("fetch_job_reference = ?", job).
			Set("fetch_window_from = ?", from.UTC()).
			Set("fetch_window_to = ?", to.UTC())
	})
}

// RecordFetchProgress notes a transient polling problem while the run stays PROCESSING.
func (s *pgStore) RecordFetchProgress(
	ctx context.Context,
	env ksef.Environment,
	claim uuid.UUID,
	job string,
	fetchErr string,
	now time.Time,
) (*incoming.SyncState, bool, error) {
	return s.guardedUpdate(ctx, env, claim, job, now, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.Set("fetch_error = ?", nullString(fetchErr))
	})
}

// FinishFetch ends the claimed run in a terminal status other than COMPLETED.
// The claim is released so later results for the job are ignored.
func (s *pgStore) FinishFetch(
	ctx context.Context,
	env ksef.Environment,
	claim uuid.UUID,
	job string,
	status incoming.FetchStatus,
	fetchErr string,
	rateLimitExpiry *time.Time,
	now time.Time,
) (*incoming.SyncState, bool, error) {
	if !status.Terminal() || status == incoming.FetchCompleted {
		return nil, false, fmt.Errorf("invalid fetch finish status %s", status)
	}
	return s.guardedUpdate(ctx, env, claim, job, now, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.Set("fetch_status = ?", string(status)).
			Set("fetch_error = ?", nullString(fetchErr)).
			Set("rate_limit_expiry = ?", utc(rateLimitExpiry)).
			Set("fetch_claim = NULL")
	})
}

// CompleteFetch stores the downloaded invoices and marks the run COMPLETED in
// one transaction. Invoices already known for the environment are counted as
// existing and left untouched. The continuation date advances to watermark.
// Nothing is written when the run no longer belongs to claim and job.
func (s *pgStore) CompleteFetch(
	ctx context.Context,
	env ksef.Environment,
	claim uuid.UUID,
	job string,
	invoices []*incoming.IncomingInvoice,
	watermark time.Time,
	now time.Time,
) (*incoming.SyncState, bool, error) {
	var (
		state   *incoming.SyncState
		applied bool
	)
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := s.getSyncState(ctx, tx, env, true)
		if err != nil {
			return err
		}
		if !current.Owns(claim, job) {
			state = current
			return nil
		}

		created := 0
		for _, inv := range invoices {
			ok, err := insertIncoming(ctx, tx, inv)
			if err != nil {
				return err
			}
			if ok {
				created++
			}
		}

		d := new(dao.SyncStateDao)
		err = tx.NewUpdate().
			Model(d).
			Set("fetch_status = ?", string(incoming.FetchCompleted)).
			Set("continuation_date = ?", watermark.UTC()).
			Set("last_sync_date = ?", now.UTC()).
			Set("last_sync_new = ?", created).
			Set("last_sync_existing = ?", len(invoices)-created).
			Set("last_sync_total = ?", len(invoices)).
			Set("fetch_error = NULL").
			Set("rate_limit_expiry = NULL").
			Set("fetch_claim = NULL").
			Set("updated_at = ?", now.UTC()).
			Where("ss.environment = ?", string(env)).
			Returning("*").
			Scan(ctx)
		if err != nil {
			return fmt.Errorf("failed to complete fetch: %w", err)
		}
		state, applied = toSyncState(d), true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return state, applied, nil
}

// ResetFetch forces the state to IDLE and drops the claim, the job reference
// and any backoff. The continuation date and last sync counts are kept.
func (s *pgStore) ResetFetch(ctx context.Context, env ksef.Environment, now time.Time) (*incoming.SyncState, error) {
	if _, err := s.EnsureSyncState(ctx, env); err != nil {
		return nil, err
	}
	d := new(dao.SyncStateDao)
	err := s.db.NewUpdate().
		Model(d).
		Set("fetch_status = ?", string(incoming.FetchIdle)).
		Set("fetch_started = NULL").
		Set("fetch_claim = NULL").
		Set("fetch_job_reference = NULL").
		Set("fetch_error = NULL").
		Set("rate_limit_expiry = NULL").
		Set("fetch_window_from = NULL").
		Set("fetch_window_to = NULL").
		Set("updated_at = ?", now.UTC()).
		Where("ss.environment = ?", string(env)).
		Returning("*").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reset fetch: %w", err)
	}
	return toSyncState(d), nil
}

// AcknowledgeFetch moves a finished run back to IDLE. It reports false when
// the state was not terminal.
func (s *pgStore) AcknowledgeFetch(ctx context.Context, env ksef.Environment, now time.Time) (*incoming.SyncState, bool, error) {
	d := new(dao.SyncStateDao)
	err := s.db.NewUpdate().
		Model(d).
		Set("fetch_status = ?", string(incoming.FetchIdle)).
		Set("fetch_claim = NULL").
		Set("updated_at = ?", now.UTC()).
		Where("ss.environment = ?", string(env)).
		Where("ss.fetch_status IN (?)", bun.In(terminalStatuses())).
		Where("NOT (ss.fetch_status = ? AND ss.rate_limit_expiry IS NOT NULL AND ss.rate_limit_expiry > ?)",
			string(incoming.FetchRateLimited), now.UTC()).
		Returning("*").
		Scan(ctx)
	if err == nil {
		return toSyncState(d), true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to acknowledge fetch: %w", err)
	}
	state, err := s.EnsureSyncState(ctx, env)
	if err != nil {
		return nil, false, err
	}
	return state, false, nil
}

// RollbackContinuation moves the continuation date back by daysBack days,
// counting from now when it was never set, and clears a terminal status to
// IDLE. It returns ErrFetchInProgress while a run is PROCESSING.
func (s *pgStore) RollbackContinuation(
	ctx context.Context,
	env ksef.Environment,
	daysBack int,
	now time.Time,
) (*incoming.SyncState, error) {
	if _, err := s.EnsureSyncState(ctx, env); err != nil {
		return nil, err
	}

	var state *incoming.SyncState
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := s.getSyncState(ctx, tx, env, true)
		if err != nil {
			return err
		}
		if current.FetchStatus == incoming.FetchProcessing {
			return ErrFetchInProgress
		}

		base := now
		if current.ContinuationDate != nil {
			base = *current.ContinuationDate
		}
		status := current.FetchStatus
		if status.Terminal() {
			status = incoming.FetchIdle
		}

		d := new(dao.SyncStateDao)
		err = tx.NewUpdate().
			Model(d).
			Set("continuation_date = ?", base.AddDate(0, 0, -daysBack).UTC()).
			Set("fetch_status = ?", string(status)).
			Set("fetch_error = NULL").
			Set("updated_at = ?", now.UTC()).
			Where("ss.environment = ?", string(env)).
			Returning("*").
			Scan(ctx)
		if err != nil {
			return fmt.Errorf("failed to roll back sync state: %w", err)
		}
		state = toSyncState(d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func terminalStatuses() []string {
	var out []string
	for _, st := range incoming.FetchStatuses {
		if st.Terminal() {
			out = append(out, string(st))
		}
	}
	return out
}
