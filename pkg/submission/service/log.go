package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chainsafe/ksef-middleware/pkg/submission"
)

const serviceName = "SubmissionEngine"

// logEngine wraps Engine with automatic logging of all method calls
type logEngine struct {
	svc    Engine
	logger *zap.Logger
}

// NewLog creates a logging decorator for the submission Engine.
// It logs method entry/exit, duration, errors and the resulting status.
func NewLog(svc Engine, logger *zap.Logger) Engine {
	return &logEngine{
		svc:    svc,
		logger: logger,
	}
}

func (l *logEngine) started(method string, fields ...zap.Field) time.Time {
	l.logger.Info(method+" started", append(l.base(method), fields...)...)
	return time.Now()
}

func (l *logEngine) base(method string) []zap.Field {
	return []zap.Field{
		zap.String("service", serviceName),
		zap.String("method", method),
	}
}

// finished logs the outcome of a call. Domain failures carried by res are
// logged as warnings since the call itself succeeded.
func (l *logEngine) finished(method string, start time.Time, res *Result, err error, fields ...zap.Field) {
	fields = append(l.base(method), fields...)
	fields = append(fields, zap.Duration("duration", time.Since(start)))

	if err != nil {
		l.logger.Error(method+" failed", append(fields, zap.Error(err))...)
		return
	}
	if res == nil {
		l.logger.Info(method+" completed", fields...)
		return
	}

	fields = append(fields, zap.String("status", string(res.Status)), zap.Bool("created", res.Created))
	if res.Submission != nil {
		fields = append(fields,
			zap.String("submission_id", res.Submission.ID.String()),
			zap.String("ksef_reference", res.Submission.KSeFReference))
	}
	if res.Error != nil && !res.Success() {
		l.logger.Warn(method+" completed with error", append(fields,
			zap.String("error_kind", res.Error.Kind.String()),
			zap.String("error_code", res.Error.Code),
			zap.String("error_message", res.Error.Message))...)
		return
	}
	l.logger.Info(method+" completed", fields...)
}

func invoiceFields(inv *submission.Invoice) []zap.Field {
	if inv == nil {
		return nil
	}
	return []zap.Field{
		zap.Int64("invoice_id", inv.ID),
		zap.String("invoice_number", inv.Number),
		zap.String("offline_mode", string(inv.OfflineMode)),
	}
}

// Submit wraps the engine method with logging
func (l *logEngine) Submit(ctx context.Context, inv *submission.Invoice) (res *Result, err error) {
	start := l.started("Submit", invoiceFields(inv)...)
	defer func() { l.finished("Submit", start, res, err, invoiceFields(inv)...) }()
	return l.svc.Submit(ctx, inv)
}

// Retry wraps the engine method with logging
func (l *logEngine) Retry(ctx context.Context, inv *submission.Invoice) (res *Result, err error) {
	start := l.started("Retry", invoiceFields(inv)...)
	defer func() { l.finished("Retry", start, res, err, invoiceFields(inv)...) }()
	return l.svc.Retry(ctx, inv)
}

// RegisterOffline wraps the engine method with logging
func (l *logEngine) RegisterOffline(ctx context.Context, inv *submission.Invoice) (res *Result, err error) {
	start := l.started("RegisterOffline", invoiceFields(inv)...)
	defer func() { l.finished("RegisterOffline", start, res, err, invoiceFields(inv)...) }()
	return l.svc.RegisterOffline(ctx, inv)
}

// CheckStatus wraps the engine method with logging
func (l *logEngine) CheckStatus(ctx context.Context, id uuid.UUID) (res *Result, err error) {
	idField := zap.String("submission_id", id.String())
	start := l.started("CheckStatus", idField)
	defer func() { l.finished("CheckStatus", start, res, err) }()
	return l.svc.CheckStatus(ctx, id)
}

// CheckPending wraps the engine method with logging
func (l *logEngine) CheckPending(ctx context.Context, limit int) (results []*Result, err error) {
	start := time.Now()
	defer func() {
		fields := append(l.base("CheckPending"),
			zap.Int("checked", len(results)),
			zap.Duration("duration", time.Since(start)))
		if err != nil {
			l.logger.Error("CheckPending failed", append(fields, zap.Error(err))...)
			return
		}
		l.logger.Debug("CheckPending completed", fields...)
	}()
	return l.svc.CheckPending(ctx, limit)
}

// NeedsAttention wraps the engine method with logging
func (l *logEngine) NeedsAttention(ctx context.Context) (subs []*submission.Submission, err error) {
	start := time.Now()
	defer func() {
		fields := append(l.base("NeedsAttention"), zap.Duration("duration", time.Since(start)))
		if err != nil {
			l.logger.Error("NeedsAttention failed", append(fields, zap.Error(err))...)
			return
		}
		for _, s := range subs {
			l.logger.Warn("offline invoice approaching deadline",
				zap.Int64("invoice_id", s.InvoiceID),
				zap.String("status", string(s.Status)),
				zap.String("offline_mode", string(s.OfflineMode)),
				zap.Timep("offline_deadline", s.OfflineDeadline))
		}
	}()
	return l.svc.NeedsAttention(ctx)
}

func (l *logEngine) History(ctx context.Context, invoiceID int64) ([]*submission.Submission, error) {
	return l.svc.History(ctx, invoiceID)
}

func (l *logEngine) Latest(ctx context.Context, invoiceID int64) (*submission.Submission, error) {
	return l.svc.Latest(ctx, invoiceID)
}

func (l *logEngine) Statistics(ctx context.Context) (*Statistics, error) {
	return l.svc.Statistics(ctx)
}

func (l *logEngine) VerificationURL(ctx context.Context, id uuid.UUID) (string, error) {
	return l.svc.VerificationURL(ctx, id)
}

// DownloadUPO wraps the engine method with logging
func (l *logEngine) DownloadUPO(ctx context.Context, id uuid.UUID) (upo []byte, err error) {
	start := l.started("DownloadUPO", zap.String("submission_id", id.String()))
	defer func() {
		fields := append(l.base("DownloadUPO"),
			zap.String("submission_id", id.String()),
			zap.Duration("duration", time.Since(start)))
		if err != nil {
			l.logger.Error("DownloadUPO failed", append(fields, zap.Error(err))...)
			return
		}
		l.logger.Info("DownloadUPO completed", append(fields, zap.Int("bytes", len(upo)))...)
	}()
	return l.svc.DownloadUPO(ctx, id)
}
