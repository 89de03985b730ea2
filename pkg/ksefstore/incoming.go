package ksefstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/chainsafe/ksef-middleware/pkg/incoming"
	"github.com/chainsafe/ksef-middleware/pkg/ksef"
	"github.com/chainsafe/ksef-middleware/pkg/ksefstore/dao"
)

// insertIncoming stores inv unless (ksef_number, environment) is already
// known. It reports whether a row was created.
func insertIncoming(ctx context.Context, db bun.IDB, inv *incoming.IncomingInvoice) (bool, error) {
	d := toIncomingDao(inv)
	res, err := db.NewInsert().
		Model(d).
		ExcludeColumn("id").
		On("CONFLICT (ksef_number, environment) DO NOTHING").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to insert incoming invoice %s: %w", inv.KSeFNumber, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n == 1, nil
}

func (s *pgStore) GetIncoming(ctx context.Context, id int64) (*incoming.IncomingInvoice, error) {
	d := new(dao.IncomingInvoiceDao)
	err := s.db.NewSelect().
		Model(d).
		Where("ii.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get incoming invoice: %w", err)
	}
	return toIncoming(d), nil
}

func (s *pgStore) ListIncoming(
	ctx context.Context,
	env ksef.Environment,
	filter incoming.ListFilter,
) ([]*incoming.IncomingInvoice, error) {
	var daos []dao.IncomingInvoiceDao
	q := s.db.NewSelect().
		Model(&daos).
		ExcludeColumn("raw_document").
		Where("ii.environment = ?", string(env))

	if filter.Status != "" {
		q = q.Where("ii.import_status = ?", string(filter.Status))
	}
	if filter.SellerNIP != "" {
		q = q.Where("ii.seller_nip = ?", filter.SellerNIP)
	}
	if filter.From != nil {
		q = q.Where("ii.invoice_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("ii.invoice_date <= ?", *filter.To)
	}

	err := q.OrderExpr("ii.fetch_date DESC, ii.id DESC").
		Limit(listLimit(filter.Limit)).
		Offset(filter.Offset).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list incoming invoices: %w", err)
	}

	out := make([]*incoming.IncomingInvoice, len(daos))
	for i := range daos {
		out[i] = toIncoming(&daos[i])
	}
	return out, nil
}

// UpdateImportStatus moves an invoice from one import status to another. It
// returns ErrStaleAttempt when the stored status is no longer from.
func (s *pgStore) UpdateImportStatus(
	ctx context.Context,
	id int64,
	from, to incoming.ImportStatus,
	documentID *int64,
	importErr string,
) error {
	res, err := s.db.NewUpdate().
		Model((*dao.IncomingInvoiceDao)(nil)).
		Set("import_status = ?", string(to)).
		Set("document_id = ?", documentID).
		Set("import_error = ?", nullString(importErr)).
		Where("ii.id = ?", id).
		Where("ii.import_status = ?", string(from)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update import status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrStaleAttempt
	}
	return nil
}
