// Package submission models outbound invoice submission attempts and the
// rules of their lifecycle.
package submission

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chainsafe/ksef-middleware/pkg/ksef"
)

// Submission is one attempt to register an invoice in KSeF.
// An invoice accumulates attempts; the latest by DateSubmission is authoritative.
type Submission struct {
	ID              uuid.UUID        `json:"id"`
	InvoiceID       int64            `json:"invoice_id"`
	InvoiceNumber   string           `json:"invoice_number,omitempty"`
	SellerNIP       string           `json:"seller_nip,omitempty"`
	KSeFReference   string           `json:"ksef_reference,omitempty"`
	KSeFNumber      string           `json:"ksef_number,omitempty"`
	InvoiceHash     string           `json:"invoice_hash"`
	Status          Status           `json:"status"`
	Environment     ksef.Environment `json:"environment"`
	OfflineMode     OfflineMode      `json:"offline_mode,omitempty"`
	OfflineDeadline *time.Time       `json:"offline_deadline,omitempty"`
	ErrorCode       string           `json:"error_code,omitempty"`
	ErrorMessage    string           `json:"error_message,omitempty"`
	ErrorDetails    string           `json:"error_details,omitempty"`
	RetryCount      int              `json:"retry_count"`
	DateSubmission  time.Time        `json:"date_submission"`
	DateAcceptance  *time.Time       `json:"date_acceptance,omitempty"`
	UpdatedAt       time.Time        `json:"updated_at,omitzero"`
}

// NewAttempt creates a PENDING attempt for inv. prior is the invoice's latest
// attempt, if any, and determines the retry count.
func NewAttempt(inv *Invoice, env ksef.Environment, prior *Submission, now time.Time) (*Submission, error) {
	s := &Submission{
		ID:             uuid.New(),
		InvoiceID:      inv.ID,
		InvoiceNumber:  inv.Number,
		SellerNIP:      inv.SellerNIP,
		InvoiceHash:    ksef.InvoiceHash(inv.Document),
		Status:         StatusPending,
		Environment:    env,
		OfflineMode:    inv.OfflineMode,
		DateSubmission: now,
	}
	if prior != nil {
		s.RetryCount = prior.RetryCount + 1
	}

	if inv.OfflineMode != OfflineNone {
		issued := inv.IssueDate
		if issued.IsZero() {
			issued = now
		}
		deadline, err := OfflineDeadline(inv.OfflineMode, issued)
		if err != nil {
			return nil, err
		}
		s.OfflineDeadline = &deadline
	}

	return s, nil
}

// Transition moves the attempt to status to, enforcing the lifecycle table.
func (s *Submission) Transition(to Status) error {
	if s.Status == to {
		return nil
	}
	if !CanTransition(s.Status, to) {
		return fmt.Errorf("invalid submission transition %s -> %s", s.Status, to)
	}
	s.Status = to
	return nil
}

// RecordError copies a structured failure onto the attempt.
func (s *Submission) RecordError(err *ksef.Error) {
	if err == nil {
		return
	}
	s.ErrorCode = err.Code
	if s.ErrorCode == "" {
		s.ErrorCode = err.Kind.String()
	}
	s.ErrorMessage = err.Message
	s.ErrorDetails = err.Details
	if s.ErrorDetails == "" && err.Err != nil && err.Err.Error() != err.Message {
		s.ErrorDetails = err.Err.Error()
	}
}

// ClearError removes any recorded failure.
func (s *Submission) ClearError() {
	s.ErrorCode, s.ErrorMessage, s.ErrorDetails = "", "", ""
}

// IsFinal reports whether the invoice is settled in KSeF. Offline attempts
// are never final until confirmed online.
func (s *Submission) IsFinal() bool {
	return s.Status == StatusAccepted
}

// Checkable reports whether the remote job can be polled for this attempt.
func (s *Submission) Checkable() bool {
	return s.KSeFReference != "" && s.Status.Checkable()
}

// Interrupted reports whether a reserved attempt never obtained a KSeF
// reference within ttl, which means the process handling it went away.
func (s *Submission) Interrupted(now time.Time, ttl time.Duration) bool {
	return s.Status == StatusPending && s.KSeFReference == "" && now.Sub(s.DateSubmission) >= ttl
}

// Retryable reports whether a new attempt may follow this one.
func (s *Submission) Retryable(now time.Time, ttl time.Duration) bool {
	switch s.Status {
	case StatusFailed, StatusTimeout, StatusRejected, StatusOffline:
		return true
	case StatusPending:
		return s.Interrupted(now, ttl)
	default:
		return false
	}
}

// SupersededStatus is the status an interrupted reservation is closed with
// when a retry replaces it.
func (s *Submission) SupersededStatus() Status {
	if s.OfflineMode != OfflineNone {
		return StatusOffline
	}
	return StatusTimeout
}
