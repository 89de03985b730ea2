package submission

import (
	"fmt"
	"strings"
	"time"
)

// OfflineMode tags an invoice issued without a live KSeF session.
type OfflineMode string

const (
	OfflineNone OfflineMode = ""
	// Offline24 is the taxpayer-declared mode; the invoice must reach KSeF by the end of the next business day.
	Offline24 OfflineMode = "OFFLINE24"
	// OfflineUnavailable covers announced KSeF unavailability.
	OfflineUnavailable OfflineMode = "OFFLINE"
	// OfflineEmergency covers declared KSeF failures.
	OfflineEmergency OfflineMode = "EMERGENCY"
)

var offlineBusinessDays = map[OfflineMode]int{
	Offline24:          1,
	OfflineUnavailable: 1,
	OfflineEmergency:   7,
}

// ParseOfflineMode converts a case-insensitive name into an OfflineMode. An empty string is OfflineNone.
func ParseOfflineMode(s string) (OfflineMode, error) {
	m := OfflineMode(strings.ToUpper(strings.TrimSpace(s)))
	if m == OfflineNone {
		return OfflineNone, nil
	}
	if _, ok := offlineBusinessDays[m]; !ok {
		return "", fmt.Errorf("unknown offline mode %q", s)
	}
	return m, nil
}

// Valid reports whether m is a known offline mode or none.
func (m OfflineMode) Valid() bool {
	if m == OfflineNone {
		return true
	}
	_, ok := offlineBusinessDays[m]
	return ok
}

// OfflineDeadline returns the last instant, in issuedAt's location, by which
// an invoice issued under mode must be confirmed online.
func OfflineDeadline(mode OfflineMode, issuedAt time.Time) (time.Time, error) {
	days, ok := offlineBusinessDays[mode]
	if !ok {
		return time.Time{}, fmt.Errorf("no deadline for offline mode %q", mode)
	}
	day := addBusinessDays(issuedAt, days)
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, day.Location()), nil
}

// TODO: skip Polish public holidays; only weekends are excluded today.
func addBusinessDays(t time.Time, n int) time.Time {
	for n > 0 {
		t = t.AddDate(0, 0, 1)
		if wd := t.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n--
		}
	}
	return t
}

// NeedsAttention reports whether an offline-tagged attempt is not yet confirmed
// and its deadline falls within lead of now, or has already passed.
func NeedsAttention(s *Submission, now time.Time, lead time.Duration) bool {
	if s.OfflineMode == OfflineNone || s.OfflineDeadline == nil || s.IsFinal() {
		return false
	}
	return !now.Add(lead).Before(*s.OfflineDeadline)
}
