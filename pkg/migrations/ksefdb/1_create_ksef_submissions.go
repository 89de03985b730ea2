package ksefdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/chainsafe/ksef-middleware/pkg/ksefstore/dao"
	mghelper "github.com/chainsafe/ksef-middleware/pkg/pgutil/migrations"
)

// InFlightIndex allows at most one PENDING or SUBMITTED attempt per invoice.
const InFlightIndex = "uq_ksef_submissions_in_flight"

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating ksef_submissions table...")
		model := &dao.SubmissionDao{}
		if err := mghelper.CreateSchema(ctx, db, model); err != nil {
			return err
		}
		if err := mghelper.CreateModelIndexes(ctx, db, model, "invoice_id", "status", "ksef_reference"); err != nil {
			return err
		}
		if err := mghelper.CreatePartialUniqueIndex(ctx, db, model, InFlightIndex,
			"status IN ('SUBMITTED', 'PENDING')", "invoice_id"); err != nil {
			return err
		}
		return mghelper.AddCheckConstraint(ctx, db, model, "ck_ksef_submissions_status",
			"status IN ('PENDING', 'SUBMITTED', 'ACCEPTED', 'REJECTED', 'FAILED', 'TIMEOUT', 'OFFLINE')")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping ksef_submissions table...")
		return mghelper.DropTables(ctx, db, &dao.SubmissionDao{})
	})
}
