package submission

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a single submission attempt.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSubmitted Status = "SUBMITTED"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
	StatusFailed    Status = "FAILED"
	StatusTimeout   Status = "TIMEOUT"
	StatusOffline   Status = "OFFLINE"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusPending,
	StatusSubmitted,
	StatusAccepted,
	StatusRejected,
	StatusFailed,
	StatusTimeout,
	StatusOffline,
}

// transitions is the single source of truth for in-place status changes.
// Terminal statuses have no outgoing edges; a retry creates a new attempt instead.
var transitions = map[Status][]Status{
	StatusPending:   {StatusSubmitted, StatusAccepted, StatusRejected, StatusFailed, StatusTimeout, StatusOffline},
	StatusSubmitted: {StatusPending, StatusAccepted, StatusRejected, StatusFailed, StatusTimeout},
	StatusTimeout:   {StatusPending, StatusAccepted, StatusRejected},
	StatusAccepted:  nil,
	StatusRejected:  nil,
	StatusFailed:    nil,
	StatusOffline:   nil,
}

// CanTransition reports whether an attempt in status from may move to status to.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ParseStatus converts a case-insensitive name into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown submission status %q", s)
	}
	return st, nil
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// InFlight reports whether the status occupies the invoice's single in-flight slot.
func (s Status) InFlight() bool {
	return s == StatusSubmitted || s == StatusPending
}

// Checkable reports whether the remote job may be polled from this status.
func (s Status) Checkable() bool {
	return s == StatusSubmitted || s == StatusPending || s == StatusTimeout
}

func (s Status) String() string {
	return string(s)
}
