package ksefstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/chainsafe/ksef-middleware/pkg/ksef"
	"github.com/chainsafe/ksef-middleware/pkg/ksefstore/dao"
	"github.com/chainsafe/ksef-middleware/pkg/submission"
)

// latestOrder picks the authoritative attempt when two share a submission time.
const latestOrder = "s.date_submission DESC, s.id DESC"

func (s *pgStore) GetSubmission(ctx context.Context, id uuid.UUID) (*submission.Submission, error) {
	d := new(dao.SubmissionDao)
	err := s.db.NewSelect().
		Model(d).
		Where("s.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return toSubmission(d), nil
}

func (s *pgStore) LatestSubmission(ctx context.Context, invoiceID int64) (*submission.Submission, error) {
	d := new(dao.SubmissionDao)
	err := s.db.NewSelect().
		Model(d).
		Where("s.invoice_id = ?", invoiceID).
		OrderExpr(latestOrder).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest submission: %w", err)
	}
	return toSubmission(d), nil
}

func (s *pgStore) ListSubmissions(ctx context.Context, invoiceID int64) ([]*submission.Submission, error) {
	var daos []dao.SubmissionDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("s.invoice_id = ?", invoiceID).
		OrderExpr(latestOrder).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return toSubmissions(daos), nil
}

// ReserveSubmission inserts attempt after checking, under a row lock, that the
// invoice's latest attempt is still prior with status priorStatus. A nil prior
// means the invoice must have no attempts. When prior carries a different
// status than priorStatus it is written back first, which is how an
// interrupted reservation is superseded in the same transaction.
func (s *pgStore) ReserveSubmission(
	ctx context.Context,
	attempt *submission.Submission,
	prior *submission.Submission,
	priorStatus submission.Status,
) error {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		latest := new(dao.SubmissionDao)
		err := tx.NewSelect().
			Model(latest).
			Where("s.invoice_id = ?", attempt.InvoiceID).
			OrderExpr(latestOrder).
			Limit(1).
			For("UPDATE").
			Scan(ctx)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if prior != nil {
				return ErrStaleAttempt
			}
		case err != nil:
			return fmt.Errorf("failed to lock latest submission: %w", err)
		default:
			if prior == nil || latest.ID != prior.ID || latest.Status != string(priorStatus) {
				return ErrStaleAttempt
			}
		}

		if prior != nil && prior.Status != priorStatus {
			if err := updateSubmission(ctx, tx, prior, priorStatus); err != nil {
				return err
			}
		}

		d := toSubmissionDao(attempt)
		d.UpdatedAt = time.Now().UTC()
		if _, err := tx.NewInsert().Model(d).Exec(ctx); err != nil {
			if isUniqueViolation(err) {
				return ErrAttemptInFlight
			}
			return fmt.Errorf("failed to insert submission: %w", err)
		}
		return nil
	})
	if isUniqueViolation(err) {
		return ErrAttemptInFlight
	}
	return err
}

// UpdateSubmission writes the mutable fields of s, provided the stored row is
// still in status from.
func (s *pgStore) UpdateSubmission(ctx context.Context, sub *submission.Submission, from submission.Status) error {
	err := updateSubmission(ctx, s.db, sub, from)
	if isUniqueViolation(err) {
		return ErrAttemptInFlight
	}
	return err
}

func updateSubmission(ctx context.Context, db bun.IDB, sub *submission.Submission, from submission.Status) error {
	d := toSubmissionDao(sub)
	d.UpdatedAt = time.Now().UTC()

	res, err := db.NewUpdate().
		Model(d).
		Column("status", "ksef_reference", "ksef_number", "error_code", "error_message",
			"error_details", "date_acceptance", "updated_at").
		Where("s.id = ?", d.ID).
		Where("s.status = ?", string(from)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrStaleAttempt
	}
	sub.UpdatedAt = d.UpdatedAt
	return nil
}

// latestPerInvoice selects the latest attempt of every invoice in env.
func (s *pgStore) latestPerInvoice(env ksef.Environment) *bun.SelectQuery {
	return s.db.NewSelect().
		Model((*dao.SubmissionDao)(nil)).
		DistinctOn("s.invoice_id").
		Where("s.environment = ?", string(env)).
		OrderExpr("s.invoice_id, " + latestOrder)
}

func (s *pgStore) CountLatestByStatus(ctx context.Context, env ksef.Environment) (map[submission.Status]int, error) {
	var rows []struct {
		Status string `bun:"status"`
		Count  int    `bun:"count"`
	}
	err := s.db.NewSelect().
		With("latest", s.latestPerInvoice(env)).
		TableExpr("latest").
		ColumnExpr("status").
		ColumnExpr("count(*) AS count").
		Group("status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}

	counts := make(map[submission.Status]int, len(rows))
	for _, r := range rows {
		counts[submission.Status(r.Status)] = r.Count
	}
	return counts, nil
}

// ListLatestOffline returns latest attempts tagged with an offline mode that
// are not yet accepted, earliest deadline first.
func (s *pgStore) ListLatestOffline(ctx context.Context, env ksef.Environment) ([]*submission.Submission, error) {
	var daos []dao.SubmissionDao
	err := s.db.NewSelect().
		With("latest", s.latestPerInvoice(env)).
		Model(&daos).
		ModelTableExpr("latest AS s").
		Where("s.offline_mode IS NOT NULL").
		Where("s.status <> ?", string(submission.StatusAccepted)).
		OrderExpr("s.offline_deadline ASC NULLS LAST").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list offline submissions: %w", err)
	}
	return toSubmissions(daos), nil
}

// ListCheckable returns attempts that hold a KSeF reference and still wait
// for a remote verdict. TIMEOUT attempts are included while they are the
// invoice's latest attempt, so a late acceptance is recorded; they sort after
// in-flight attempts, oldest first within each group.
func (s *pgStore) ListCheckable(ctx context.Context, env ksef.Environment, limit int) ([]*submission.Submission, error) {
	var daos []dao.SubmissionDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("s.environment = ?", string(env)).
		Where("s.ksef_reference IS NOT NULL").
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("s.status IN (?)", bun.In([]string{
					string(submission.StatusSubmitted),
					string(submission.StatusPending),
				})).
				WhereOr("s.status = ? AND NOT EXISTS (?)", string(submission.StatusTimeout),
					s.db.NewSelect().
						TableExpr("ksef_submissions AS n").
						ColumnExpr("1").
						Where("n.invoice_id = s.invoice_id").
						Where("(n.date_submission, n.id) > (s.date_submission, s.id)"))
		}).
		OrderExpr("CASE WHEN s.status = ? THEN 1 ELSE 0 END", string(submission.StatusTimeout)).
		OrderExpr("s.date_submission ASC").
		Limit(listLimit(limit)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkable submissions: %w", err)
	}
	return toSubmissions(daos), nil
}
