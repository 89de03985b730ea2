package ksefapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chainsafe/ksef-middleware/pkg/ksef"
)

const (
	// Limit error-body reads so we don't accidentally slurp huge responses.
	maxErrBodyBytes = 4096

	defaultRetryAfter = 60 * time.Second
)

// readHTTPError classifies a non-2xx response.
func readHTTPError(resp *http.Response, now time.Time) *ksef.Error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBodyBytes))
	status := strconv.Itoa(resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &ksef.Error{
			Kind:       ksef.KindRateLimited,
			Code:       status,
			Message:    ksef.GetErrorDescription(status),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), now),
		}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		e := exceptionError(ksef.KindAuth, b)
		if e.Code == "" {
			e.Code = status
			e.Message = ksef.GetErrorDescription(status)
		}
		return e
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		e := exceptionError(ksef.KindRemoteRejection, b)
		if e.Code == "" {
			e.Code = status
			e.Message = ksef.GetErrorDescription(status)
			e.Details = strings.TrimSpace(string(b))
		}
		return e
	default:
		return &ksef.Error{
			Kind:    ksef.KindTransport,
			Code:    status,
			Message: fmt.Sprintf("KSeF returned %d", resp.StatusCode),
			Details: strings.TrimSpace(string(b)),
		}
	}
}

// exceptionError decodes the KSeF exception envelope. The first detail
// becomes the code and message; all details are joined into Details.
func exceptionError(kind ksef.Kind, body []byte) *ksef.Error {
	e := &ksef.Error{Kind: kind}

	var env exceptionResponse
	if err := json.Unmarshal(body, &env); err != nil || len(env.Exception.ExceptionDetailList) == 0 {
		return e
	}

	list := env.Exception.ExceptionDetailList
	e.Code = strconv.Itoa(list[0].ExceptionCode)
	e.Message = list[0].ExceptionDescription
	if e.Message == "" {
		e.Message = ksef.GetErrorDescription(e.Code)
	}

	parts := make([]string, 0, len(list))
	for _, d := range list {
		parts = append(parts, fmt.Sprintf("%d: %s", d.ExceptionCode, d.ExceptionDescription))
	}
	e.Details = strings.Join(parts, "; ")
	return e
}

// parseRetryAfter accepts delta-seconds or an HTTP-date.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return defaultRetryAfter
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return defaultRetryAfter
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d
		}
		return 0
	}
	return defaultRetryAfter
}

// transportError classifies a failure that happened before a response arrived.
func transportError(ctx context.Context, op string, err error) *ksef.Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return ksef.Wrap(ksef.KindTimeout, err, fmt.Sprintf("%s timed out", op))
	}
	return ksef.Wrap(ksef.KindTransport, err, fmt.Sprintf("call %s", op))
}
