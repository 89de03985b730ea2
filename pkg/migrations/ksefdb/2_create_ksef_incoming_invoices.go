package ksefdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/chainsafe/ksef-middleware/pkg/ksefstore/dao"
	mghelper "github.com/chainsafe/ksef-middleware/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating ksef_incoming_invoices table...")
		model := &dao.IncomingInvoiceDao{}
		if err := mghelper.CreateSchema(ctx, db, model); err != nil {
			return err
		}
		if err := mghelper.CreateModelUniqueIndex(ctx, db, model, "ksef_number", "environment"); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, model, "import_status", "seller_nip", "fetch_date")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping ksef_incoming_invoices table...")
		return mghelper.DropTables(ctx, db, &dao.IncomingInvoiceDao{})
	})
}
