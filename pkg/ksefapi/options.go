package ksefapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Option configures client settings using the functional options pattern.
type Option func(*settings)

type settings struct {
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string
	now        func() time.Time
	maxBody    int64
}

// WithLogger sets a custom logger for the client.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithHTTPClient sets a custom HTTP client. Its Timeout is left untouched.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.httpClient = c }
}

// WithBaseURL overrides the environment's API root.
func WithBaseURL(u string) Option {
	return func(s *settings) { s.baseURL = u }
}

// WithClock sets the time source used for Retry-After dates and token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithMaxResponseBytes caps successful response bodies. Larger bodies fail
// with CodeResponseTooLarge instead of being truncated.
func WithMaxResponseBytes(n int64) Option {
	return func(s *settings) { s.maxBody = n }
}

func applyOptions(opts []Option) settings {
	s := settings{
		logger:  zap.NewNop(),
		now:     time.Now,
		maxBody: maxBodyBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.maxBody <= 0 {
		s.maxBody = maxBodyBytes
	}
	return s
}
