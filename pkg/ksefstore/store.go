// Package ksefstore is the Postgres persistence layer for outbound submission
// attempts, received invoices and the incoming synchronization state.
package ksefstore

import (
	"errors"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	// ErrNotFound is returned when a looked up record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAttemptInFlight is returned when an invoice already has a PENDING or SUBMITTED attempt.
	ErrAttemptInFlight = errors.New("submission attempt already in flight")
	// ErrStaleAttempt is returned when a conditional update lost a race with another writer.
	ErrStaleAttempt = errors.New("submission attempt changed concurrently")
	// ErrFetchInProgress is returned when an administrative change is refused during a fetch run.
	ErrFetchInProgress = errors.New("incoming fetch in progress")
)

const (
	uniqueViolation = "23505"

	defaultListLimit = 50
	maxListLimit     = 500
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the KSeF store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation
}

func listLimit(n int) int {
	switch {
	case n <= 0:
		return defaultListLimit
	case n > maxListLimit:
		return maxListLimit
	default:
		return n
	}
}
