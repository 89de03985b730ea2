package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/ksef-middleware/pkg/incoming"
)

const serviceName = "SyncCoordinator"

// logCoordinator wraps Coordinator with automatic logging of all method calls
type logCoordinator struct {
	svc    Coordinator
	logger *zap.Logger
}

// NewLog creates a logging decorator for the sync Coordinator.
func NewLog(svc Coordinator, logger *zap.Logger) Coordinator {
	return &logCoordinator{
		svc:    svc,
		logger: logger,
	}
}

func (l *logCoordinator) log(method string, start time.Time, res *FetchResult, err error, fields ...zap.Field) {
	fields = append([]zap.Field{
		zap.String("service", serviceName),
		zap.String("method", method),
		zap.Duration("duration", time.Since(start)),
	}, fields...)

	if err != nil {
		l.logger.Error(method+" failed", append(fields, zap.Error(err))...)
		return
	}

	fields = append(fields, zap.String("outcome", string(res.Outcome)))
	if res.State != nil {
		fields = append(fields,
			zap.String("fetch_status", string(res.State.FetchStatus)),
			zap.String("job", res.State.FetchJobReference))
	}
	if res.Outcome == OutcomeCompleted {
		fields = append(fields,
			zap.Int("new", res.New),
			zap.Int("existing", res.Existing),
			zap.Int("total", res.Total))
	}
	if res.Error != nil {
		l.logger.Warn(method+" completed with error", append(fields,
			zap.String("error_kind", res.Error.Kind.String()),
			zap.String("error_code", res.Error.Code),
			zap.String("error_message", res.Error.Message),
			zap.Int("retry_after_seconds", res.RetryAfterSeconds))...)
		return
	}
	l.logger.Info(method+" completed", fields...)
}

// InitIncomingFetch wraps the coordinator method with logging
func (l *logCoordinator) InitIncomingFetch(ctx context.Context) (res *FetchResult, err error) {
	defer func(start time.Time) { l.log("InitIncomingFetch", start, res, err) }(time.Now())
	return l.svc.InitIncomingFetch(ctx)
}

// CheckIncomingFetchStatus wraps the coordinator method with logging.
// Quiet polls are logged at debug level.
func (l *logCoordinator) CheckIncomingFetchStatus(ctx context.Context) (res *FetchResult, err error) {
	defer func(start time.Time) {
		if err == nil && res.Error == nil && res.Outcome == OutcomeProcessing {
			l.logger.Debug("CheckIncomingFetchStatus completed",
				zap.String("service", serviceName),
				zap.String("outcome", string(res.Outcome)),
				zap.Duration("duration", time.Since(start)))
			return
		}
		l.log("CheckIncomingFetchStatus", start, res, err)
	}(time.Now())
	return l.svc.CheckIncomingFetchStatus(ctx)
}

// ResetIncomingFetch wraps the coordinator method with logging
func (l *logCoordinator) ResetIncomingFetch(ctx context.Context) (res *FetchResult, err error) {
	defer func(start time.Time) { l.log("ResetIncomingFetch", start, res, err) }(time.Now())
	return l.svc.ResetIncomingFetch(ctx)
}

// AcknowledgeIncomingFetch wraps the coordinator method with logging
func (l *logCoordinator) AcknowledgeIncomingFetch(ctx context.Context) (res *FetchResult, err error) {
	defer func(start time.Time) { l.log("AcknowledgeIncomingFetch", start, res, err) }(time.Now())
	return l.svc.AcknowledgeIncomingFetch(ctx)
}

// ResetIncomingSyncState wraps the coordinator method with logging
func (l *logCoordinator) ResetIncomingSyncState(ctx context.Context, daysBack int) (res *FetchResult, err error) {
	defer func(start time.Time) {
		l.log("ResetIncomingSyncState", start, res, err, zap.Int("days_back", daysBack))
	}(time.Now())
	return l.svc.ResetIncomingSyncState(ctx, daysBack)
}

func (l *logCoordinator) SyncState(ctx context.Context) (*incoming.SyncState, error) {
	return l.svc.SyncState(ctx)
}

func (l *logCoordinator) ListIncoming(ctx context.Context, filter incoming.ListFilter) ([]*incoming.IncomingInvoice, error) {
	return l.svc.ListIncoming(ctx, filter)
}

// MarkImported wraps the coordinator method with logging
func (l *logCoordinator) MarkImported(
	ctx context.Context,
	id int64,
	status incoming.ImportStatus,
	documentID *int64,
	errMsg string,
) (inv *incoming.IncomingInvoice, err error) {
	start := time.Now()
	defer func() {
		fields := []zap.Field{
			zap.String("service", serviceName),
			zap.String("method", "MarkImported"),
			zap.Int64("incoming_invoice_id", id),
			zap.String("import_status", string(status)),
			zap.Duration("duration", time.Since(start)),
		}
		if documentID != nil {
			fields = append(fields, zap.Int64("document_id", *documentID))
		}
		if err != nil {
			l.logger.Error("MarkImported failed", append(fields, zap.Error(err))...)
			return
		}
		l.logger.Info("MarkImported completed", fields...)
	}()
	return l.svc.MarkImported(ctx, id, status, documentID, errMsg)
}
