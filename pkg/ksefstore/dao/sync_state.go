package dao

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SyncStateDao is a data access object that maps directly to the 'ksef_sync_state' table in PostgreSQL.
type SyncStateDao struct {
	bun.BaseModel     `bun:"table:ksef_sync_state,alias:ss"`
	Environment       string     `json:"environment" bun:"environment,pk,type:varchar(16)"`
	FetchStatus       string     `json:"fetch_status" bun:"fetch_status,notnull,type:varchar(16),default:'IDLE'"`
	FetchStarted      *time.Time `json:"fetch_started,omitempty" bun:"fetch_started"`
	ContinuationDate  *time.Time `json:"continuation_date,omitempty" bun:"continuation_date"`
	LastSyncDate      *time.Time `json:"last_sync_date,omitempty" bun:"last_sync_date"`
	LastSyncNew       int        `json:"last_sync_new" bun:"last_sync_new,notnull,default:0"`
	LastSyncExisting  int        `json:"last_sync_existing" bun:"last_sync_existing,notnull,default:0"`
	LastSyncTotal     int        `json:"last_sync_total" bun:"last_sync_total,notnull,default:0"`
	RateLimitExpiry   *time.Time `json:"rate_limit_expiry,omitempty" bun:"rate_limit_expiry"`
	FetchJobReference *string    `json:"fetch_job_reference,omitempty" bun:"fetch_job_reference,type:varchar(128)"`
	FetchError        *string    `json:"fetch_error,omitempty" bun:"fetch_error,type:text"`
	FetchClaim        *uuid.UUID `json:"fetch_claim,omitempty" bun:"fetch_claim,type:uuid"`
	FetchWindowFrom   *time.Time `json:"fetch_window_from,omitempty" bun:"fetch_window_from"`
	FetchWindowTo     *time.Time `json:"fetch_window_to,omitempty" bun:"fetch_window_to"`
	UpdatedAt         time.Time  `json:"updated_at" bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
