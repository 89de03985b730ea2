// Package ksefapi is a thin JSON client for the KSeF REST API. Every call is
// bounded by the configured request timeout and is never retried internally;
// failures are classified into the ksef error taxonomy.
package ksefapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/chainsafe/ksef-middleware/internal/metrics"
	"github.com/chainsafe/ksef-middleware/pkg/config"
	"github.com/chainsafe/ksef-middleware/pkg/ksef"
)

const (
	// If the auth response carries neither validUntil nor a JWT exp, use a conservative fallback.
	fallbackTokenTTL = 5 * time.Minute

	maxBodyBytes = 32 << 20

	// CodeResponseTooLarge marks a body over the configured cap. Retrying the
	// same request cannot succeed, so it is reported as a rejection.
	CodeResponseTooLarge = "RESPONSE_TOO_LARGE"

	processingCodeDone = 200
	exportCodeDone     = 200
)

// Client talks to one KSeF environment.
type Client struct {
	baseURL    string
	env        ksef.Environment
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
	maxBody    int64
}

// New creates a client for the environment named in cfg.
func New(cfg *config.KSeFConfig, opts ...Option) (*Client, error) {
	env, err := ksef.ParseEnvironment(cfg.Environment)
	if err != nil {
		return nil, err
	}
	s := applyOptions(opts)

	base := s.baseURL
	if base == "" {
		base = cfg.BaseURL
	}
	if base == "" {
		base = env.APIBaseURL()
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid KSeF base URL: %w", err)
	}

	httpClient := s.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		env:        env,
		timeout:    cfg.RequestTimeout,
		httpClient: httpClient,
		logger:     s.logger,
		now:        s.now,
		maxBody:    s.maxBody,
	}, nil
}

// Environment returns the environment the client is bound to.
func (c *Client) Environment() ksef.Environment {
	return c.env
}

// TestConnection checks that the API answers by requesting a challenge.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.Challenge(ctx)
	return err
}

// Challenge requests a fresh authentication challenge.
func (c *Client) Challenge(ctx context.Context) (*Challenge, error) {
	var ch Challenge
	if err := c.do(ctx, "challenge", http.MethodPost, "/auth/challenge", "", struct{}{}, &ch); err != nil {
		return nil, err
	}
	if ch.Challenge == "" {
		return nil, ksef.NewError(ksef.KindTransport, "", "challenge response missing challenge")
	}
	return &ch, nil
}

// Authenticate exchanges a signed or encrypted challenge answer for a session token.
func (c *Client) Authenticate(ctx context.Context, req *AuthRequest) (*SessionToken, error) {
	path := "/auth/certificate"
	if req.UsesToken() {
		path = "/auth/ksef-token"
	}

	var resp authResponse
	if err := c.do(ctx, "authenticate", http.MethodPost, path, "", req, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken.Token == "" {
		return nil, ksef.NewError(ksef.KindAuth, "", "auth response missing access token")
	}

	tok := &SessionToken{
		Token:           resp.AccessToken.Token,
		ReferenceNumber: resp.ReferenceNumber,
	}
	if resp.AccessToken.ValidUntil != nil {
		tok.ValidUntil = *resp.AccessToken.ValidUntil
	} else {
		tok.ValidUntil = c.tokenExpiry(resp.AccessToken.Token)
	}
	return tok, nil
}

// tokenExpiry reads the exp claim without verifying the signature.
func (c *Client) tokenExpiry(raw string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		c.logger.Debug("Session token is not a JWT, using fallback expiry", zap.Error(err))
		return c.now().Add(fallbackTokenTTL)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return c.now().Add(fallbackTokenTTL)
	}
	return exp.Time
}

// SubmitInvoice uploads an invoice. The returned reference number is the job handle.
func (c *Client) SubmitInvoice(ctx context.Context, token *SessionToken, doc *InvoiceDocument) (*SubmitResult, error) {
	req := sendInvoiceRequest{
		InvoiceHash: invoiceHash{
			HashSHA: hashSHA{
				Algorithm: "SHA-256",
				Encoding:  "Base64",
				Value:     ksef.InvoiceHash(doc.Body),
			},
			FileSize: len(doc.Body),
		},
		InvoicePayload: invoicePayload{
			Type:        "plain",
			InvoiceBody: base64.StdEncoding.EncodeToString(doc.Body),
		},
		OfflineMode: doc.Offline,
	}

	var res SubmitResult
	if err := c.do(ctx, "submit_invoice", http.MethodPost, "/invoices/send", token.Token, req, &res); err != nil {
		return nil, err
	}
	if res.ReferenceNumber == "" {
		return nil, ksef.NewError(ksef.KindTransport, "", "submit response missing reference number")
	}
	return &res, nil
}

// PollSubmission reads the processing state of a submitted invoice.
func (c *Client) PollSubmission(ctx context.Context, token *SessionToken, ref string) (*RemoteStatus, error) {
	var resp invoiceStatusResponse
	path := "/invoices/status/" + url.PathEscape(ref)
	if err := c.do(ctx, "poll_submission", http.MethodGet, path, token.Token, nil, &resp); err != nil {
		return nil, err
	}

	st := &RemoteStatus{
		Code:        resp.ProcessingCode,
		Description: resp.ProcessingDescription,
	}
	switch {
	case resp.ProcessingCode == processingCodeDone:
		if resp.InvoiceStatus == nil || resp.InvoiceStatus.KSeFReferenceNumber == "" {
			return nil, ksef.NewError(ksef.KindTransport, "", "accepted status missing KSeF number")
		}
		st.State = RemoteAccepted
		st.KSeFNumber = resp.InvoiceStatus.KSeFReferenceNumber
		st.AcquisitionTime = resp.InvoiceStatus.AcquisitionTimestamp
	case resp.ProcessingCode >= 400:
		code := fmt.Sprintf("%d", resp.ProcessingCode)
		msg := resp.ProcessingDescription
		if msg == "" {
			msg = ksef.GetErrorDescription(code)
		}
		st.State = RemoteRejected
		st.Rejection = &ksef.Error{
			Kind:    ksef.KindRemoteRejection,
			Code:    code,
			Message: msg,
			Details: strings.Join(resp.Details, "; "),
		}
	default:
		st.State = RemoteProcessing
	}
	return st, nil
}

// DownloadUPO fetches the official confirmation of receipt for an accepted invoice.
func (c *Client) DownloadUPO(ctx context.Context, token *SessionToken, ref string) ([]byte, error) {
	path := "/invoices/status/" + url.PathEscape(ref) + "/upo"
	return c.doRaw(ctx, "download_upo", http.MethodGet, path, token.Token, nil)
}

// InitiateIncomingExport starts an export of invoices received in [from, to].
func (c *Client) InitiateIncomingExport(ctx context.Context, token *SessionToken, from, to time.Time) (*ExportRef, error) {
	req := exportRequest{
		SubjectType: "subject2",
		DateRange:   dateRange{From: from.UTC(), To: to.UTC()},
	}

	var ref ExportRef
	if err := c.do(ctx, "initiate_export", http.MethodPost, "/invoices/exports", token.Token, req, &ref); err != nil {
		return nil, err
	}
	if ref.ReferenceNumber == "" {
		return nil, ksef.NewError(ksef.KindTransport, "", "export response missing reference number")
	}
	ref.From, ref.To = from, to
	return &ref, nil
}

// PollExport reads the state of an export job.
func (c *Client) PollExport(ctx context.Context, token *SessionToken, ref string) (*ExportStatus, error) {
	var resp exportStatusResponse
	path := "/invoices/exports/" + url.PathEscape(ref)
	if err := c.do(ctx, "poll_export", http.MethodGet, path, token.Token, nil, &resp); err != nil {
		return nil, err
	}

	st := &ExportStatus{
		Code:         resp.Status.Code,
		Description:  resp.Status.Description,
		InvoiceCount: resp.InvoiceCount,
		EndWatermark: resp.PermanentStorageHwmDate,
	}
	switch {
	case resp.Status.Code == exportCodeDone:
		st.State = ExportDone
	case resp.Status.Code >= 400:
		st.State = ExportFailed
	default:
		st.State = ExportProcessing
	}
	return st, nil
}

// DownloadExportPackage fetches the invoices of a finished export.
func (c *Client) DownloadExportPackage(ctx context.Context, token *SessionToken, ref string) ([]RawInvoice, error) {
	var pkg exportPackage
	path := "/invoices/exports/" + url.PathEscape(ref) + "/package"
	if err := c.do(ctx, "download_export", http.MethodGet, path, token.Token, nil, &pkg); err != nil {
		return nil, err
	}

	out := make([]RawInvoice, 0, len(pkg.Invoices))
	for _, inv := range pkg.Invoices {
		if inv.KSeFNumber == "" {
			return nil, ksef.NewError(ksef.KindTransport, "", "export package entry missing KSeF number")
		}
		issued, err := parseDate(inv.IssueDate)
		if err != nil {
			return nil, ksef.Wrap(ksef.KindTransport, err, "decode export package")
		}
		out = append(out, RawInvoice{
			KSeFNumber:    inv.KSeFNumber,
			InvoiceNumber: inv.InvoiceNumber,
			IssueDate:     issued,
			Seller:        inv.Seller,
			NetAmount:     inv.NetAmount,
			VatAmount:     inv.VatAmount,
			GrossAmount:   inv.GrossAmount,
			Currency:      inv.Currency,
			Document:      inv.Document,
		})
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (c *Client) do(ctx context.Context, op, method, path, token string, in, out any) error {
	body, err := c.doRaw(ctx, op, method, path, token, in)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return ksef.Wrap(ksef.KindTransport, err, fmt.Sprintf("decode %s response", op))
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, op, method, path, token string, in any) (_ []byte, err error) {
	start := time.Now()
	defer func() {
		metrics.APIRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		outcome := "success"
		if err != nil {
			outcome = ksef.AsError(err).Kind.String()
		}
		metrics.APIRequestsTotal.WithLabelValues(op, outcome).Inc()
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, ksef.Wrap(ksef.KindValidation, err, fmt.Sprintf("marshal %s request", op))
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, ksef.Wrap(ksef.KindTransport, err, fmt.Sprintf("create %s request", op))
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(ctx, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kerr := readHTTPError(resp, c.now())
		c.logger.Debug("KSeF request failed",
			zap.String("operation", op),
			zap.Int("status", resp.StatusCode),
			zap.String("code", kerr.Code))
		return nil, kerr
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, transportError(ctx, op, err)
	}
	if int64(len(b)) > c.maxBody {
		return nil, ksef.NewError(ksef.KindRemoteRejection, CodeResponseTooLarge,
			"%s response exceeds %d bytes", op, c.maxBody)
	}
	return b, nil
}
