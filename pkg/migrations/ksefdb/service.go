// Package ksefdb holds all the migrations for the KSeF database
package ksefdb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all migrations for the KSeF database
var Migrations = migrate.NewMigrations()
