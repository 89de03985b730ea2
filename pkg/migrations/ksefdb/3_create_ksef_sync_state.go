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
		log.Println("creating ksef_sync_state table...")
		model := &dao.SyncStateDao{}
		if err := mghelper.CreateSchema(ctx, db, model); err != nil {
			return err
		}
		return mghelper.AddCheckConstraint(ctx, db, model, "ck_ksef_sync_state_fetch_status",
			"fetch_status IN ('IDLE', 'PROCESSING', 'COMPLETED', 'FAILED', 'TIMEOUT', 'RATE_LIMITED')")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping ksef_sync_state table...")
		return mghelper.DropTables(ctx, db, &dao.SyncStateDao{})
	})
}
