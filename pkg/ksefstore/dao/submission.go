package dao

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SubmissionDao is a data access object that maps directly to the 'ksef_submissions' table in PostgreSQL.
type SubmissionDao struct {
	bun.BaseModel   `bun:"table:ksef_submissions,alias:s"`
	ID              uuid.UUID  `json:"id" bun:"id,pk,type:uuid"`
	InvoiceID       int64      `json:"invoice_id" bun:"invoice_id,notnull"`
	InvoiceNumber   *string    `json:"invoice_number,omitempty" bun:"invoice_number,type:varchar(256)"`
	SellerNIP       *string    `json:"seller_nip,omitempty" bun:"seller_nip,type:varchar(10)"`
	KSeFReference   *string    `json:"ksef_reference,omitempty" bun:"ksef_reference,type:varchar(128)"`
	KSeFNumber      *string    `json:"ksef_number,omitempty" bun:"ksef_number,type:varchar(64)"`
	InvoiceHash     string     `json:"invoice_hash" bun:"invoice_hash,notnull,type:varchar(64)"`
	Status          string     `json:"status" bun:"status,notnull,type:varchar(16)"`
	Environment     string     `json:"environment" bun:"environment,notnull,type:varchar(16)"`
	OfflineMode     *string    `json:"offline_mode,omitempty" bun:"offline_mode,type:varchar(16)"`
	OfflineDeadline *time.Time `json:"offline_deadline,omitempty" bun:"offline_deadline"`
	ErrorCode       *string    `json:"error_code,omitempty" bun:"error_code,type:varchar(64)"`
	ErrorMessage    *string    `json:"error_message,omitempty" bun:"error_message,type:text"`
	ErrorDetails    *string    `json:"error_details,omitempty" bun:"error_details,type:text"`
	RetryCount      int        `json:"retry_count" bun:"retry_count,notnull,default:0"`
	DateSubmission  time.Time  `json:"date_submission" bun:"date_submission,notnull"`
	DateAcceptance  *time.Time `json:"date_acceptance,omitempty" bun:"date_acceptance"`
	UpdatedAt       time.Time  `json:"updated_at" bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
