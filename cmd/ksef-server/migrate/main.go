package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun/migrate"

	"github.com/chainsafe/ksef-middleware/pkg/config"
	"github.com/chainsafe/ksef-middleware/pkg/migrations/ksefdb"
	"github.com/chainsafe/ksef-middleware/pkg/pgutil"
	mghelper "github.com/chainsafe/ksef-middleware/pkg/pgutil/migrations"
)

func main() {
	cfgPath := flag.String("config", "config.example.yaml", "Path to configuration file")
	flag.Usage = mghelper.Usage
	flag.Parse()

	// Missing .env is fine, the config may not reference any variables.
	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("error reading configuration file: %s", err.Error())
	}

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		log.Fatalf("error connecting to database: %s", err.Error())
	}
	defer db.Close()

	log.Printf("Running migrations for KSeF database (%s)...\n", cfg.Database.Database)

	migrator := migrate.NewMigrator(db, ksefdb.Migrations)

	err = mghelper.RunMigrations(migrator, flag.Args()...)
	if err != nil {
		mghelper.Exitf(err.Error())
	}
}
