package incoming

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chainsafe/ksef-middleware/pkg/ksef"
)

// FetchStatus is the state of the incoming export protocol for one environment.
type FetchStatus string

const (
	FetchIdle        FetchStatus = "IDLE"
	FetchProcessing  FetchStatus = "PROCESSING"
	FetchCompleted   FetchStatus = "COMPLETED"
	FetchFailed      FetchStatus = "FAILED"
	FetchTimeout     FetchStatus = "TIMEOUT"
	FetchRateLimited FetchStatus = "RATE_LIMITED"
)

// FetchStatuses lists every fetch status.
var FetchStatuses = []FetchStatus{
	FetchIdle,
	FetchProcessing,
	FetchCompleted,
	FetchFailed,
	FetchTimeout,
	FetchRateLimited,
}

// Reset to IDLE is allowed from anywhere and is not listed here.
var fetchTransitions = map[FetchStatus][]FetchStatus{
	FetchIdle:        {FetchProcessing},
	FetchProcessing:  {FetchCompleted, FetchFailed, FetchTimeout, FetchRateLimited},
	FetchCompleted:   {FetchProcessing, FetchIdle},
	FetchFailed:      {FetchProcessing, FetchIdle},
	FetchTimeout:     {FetchProcessing, FetchIdle},
	FetchRateLimited: {FetchProcessing, FetchIdle},
}

// CanTransition reports whether the fetch state may move from one status to another.
func CanTransition(from, to FetchStatus) bool {
	for _, s := range fetchTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ParseFetchStatus converts a case-insensitive name into a FetchStatus.
func ParseFetchStatus(s string) (FetchStatus, error) {
	st := FetchStatus(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := fetchTransitions[st]; !ok {
		return "", fmt.Errorf("unknown fetch status %q", s)
	}
	return st, nil
}

// Terminal reports whether a fetch run has ended and awaits acknowledgement or a new run.
func (s FetchStatus) Terminal() bool {
	switch s {
	case FetchCompleted, FetchFailed, FetchTimeout, FetchRateLimited:
		return true
	default:
		return false
	}
}

func (s FetchStatus) String() string {
	return string(s)
}

// SyncState is the persisted progress of incoming synchronization for one environment.
type SyncState struct {
	Environment       ksef.Environment `json:"environment"`
	FetchStatus       FetchStatus      `json:"fetch_status"`
	FetchStarted      *time.Time       `json:"fetch_started,omitempty"`
	ContinuationDate  *time.Time       `json:"continuation_date,omitempty"`
	LastSyncDate      *time.Time       `json:"last_sync_date,omitempty"`
	LastSyncNew       int              `json:"last_sync_new"`
	LastSyncExisting  int              `json:"last_sync_existing"`
	LastSyncTotal     int              `json:"last_sync_total"`
	RateLimitExpiry   *time.Time       `json:"rate_limit_expiry,omitempty"`
	FetchJobReference string           `json:"fetch_job_reference,omitempty"`
	FetchError        string           `json:"fetch_error,omitempty"`
	FetchClaim        *uuid.UUID       `json:"-"`
	FetchWindowFrom   *time.Time       `json:"fetch_window_from,omitempty"`
	FetchWindowTo     *time.Time       `json:"fetch_window_to,omitempty"`
	UpdatedAt         time.Time        `json:"updated_at,omitzero"`
}

// NewSyncState returns the initial IDLE state for env.
func NewSyncState(env ksef.Environment) *SyncState {
	return &SyncState{Environment: env, FetchStatus: FetchIdle}
}

// RateLimited reports whether a rate-limit backoff is still in force at now.
func (s *SyncState) RateLimited(now time.Time) bool {
	return s.FetchStatus == FetchRateLimited && s.RateLimitExpiry != nil && s.RateLimitExpiry.After(now)
}

// Claimable reports whether a new fetch run may start at now.
func (s *SyncState) Claimable(now time.Time) bool {
	return s.FetchStatus != FetchProcessing && !s.RateLimited(now)
}

// RetryAfterSeconds is the whole seconds left in the rate-limit backoff, or zero.
func (s *SyncState) RetryAfterSeconds(now time.Time) int {
	if !s.RateLimited(now) {
		return 0
	}
	return ksef.RetryAfterSeconds(now, *s.RateLimitExpiry)
}

// ExportWindow computes the next export window. It starts at the
// continuation date, or lookback before now on first sync, and spans at
// most maxWindow without passing now.
func (s *SyncState) ExportWindow(now time.Time, lookback, maxWindow time.Duration) (from, to time.Time) {
	from = now.Add(-lookback)
	if s.ContinuationDate != nil {
		from = *s.ContinuationDate
	}
	to = from.Add(maxWindow)
	if to.After(now) {
		to = now
	}
	return from, to
}

// Owns reports whether the state still belongs to the given claim and job.
// An empty job skips the job comparison.
func (s *SyncState) Owns(claim uuid.UUID, job string) bool {
	if s.FetchStatus != FetchProcessing || s.FetchClaim == nil || *s.FetchClaim != claim {
		return false
	}
	return job == "" || s.FetchJobReference == job
}
