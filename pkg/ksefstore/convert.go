package ksefstore

import (
	"time"

	"github.com/chainsafe/ksef-middleware/pkg/incoming"
	"github.com/chainsafe/ksef-middleware/pkg/ksef"
	"github.com/chainsafe/ksef-middleware/pkg/ksefstore/dao"
	"github.com/chainsafe/ksef-middleware/pkg/submission"
)

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func toSubmissionDao(s *submission.Submission) *dao.SubmissionDao {
	return &dao.SubmissionDao{
		ID:              s.ID,
		InvoiceID:       s.InvoiceID,
		InvoiceNumber:   nullString(s.InvoiceNumber),
		SellerNIP:       nullString(s.SellerNIP),
		KSeFReference:   nullString(s.KSeFReference),
		KSeFNumber:      nullString(s.KSeFNumber),
		InvoiceHash:     s.InvoiceHash,
		Status:          string(s.Status),
		Environment:     string(s.Environment),
		OfflineMode:     nullString(string(s.OfflineMode)),
		OfflineDeadline: utc(s.OfflineDeadline),
		ErrorCode:       nullString(s.ErrorCode),
		ErrorMessage:    nullString(s.ErrorMessage),
		ErrorDetails:    nullString(s.ErrorDetails),
		RetryCount:      s.RetryCount,
		DateSubmission:  s.DateSubmission.UTC(),
		DateAcceptance:  utc(s.DateAcceptance),
		UpdatedAt:       s.UpdatedAt,
	}
}

func toSubmission(d *dao.SubmissionDao) *submission.Submission {
	return &submission.Submission{
		ID:              d.ID,
		InvoiceID:       d.InvoiceID,
		InvoiceNumber:   str(d.InvoiceNumber),
		SellerNIP:       str(d.SellerNIP),
		KSeFReference:   str(d.KSeFReference),
		KSeFNumber:      str(d.KSeFNumber),
		InvoiceHash:     d.InvoiceHash,
		Status:          submission.Status(d.Status),
		Environment:     ksef.Environment(d.Environment),
		OfflineMode:     submission.OfflineMode(str(d.OfflineMode)),
		OfflineDeadline: d.OfflineDeadline,
		ErrorCode:       str(d.ErrorCode),
		ErrorMessage:    str(d.ErrorMessage),
		ErrorDetails:    str(d.ErrorDetails),
		RetryCount:      d.RetryCount,
		DateSubmission:  d.DateSubmission,
		DateAcceptance:  d.DateAcceptance,
		UpdatedAt:       d.UpdatedAt,
	}
}

func toSubmissions(daos []dao.SubmissionDao) []*submission.Submission {
	out := make([]*submission.Submission, len(daos))
	for i := range daos {
		out[i] = toSubmission(&daos[i])
	}
	return out
}

func toIncomingDao(inv *incoming.IncomingInvoice) *dao.IncomingInvoiceDao {
	d := &dao.IncomingInvoiceDao{
		ID:            inv.ID,
		KSeFNumber:    inv.KSeFNumber,
		SellerNIP:     inv.SellerNIP,
		SellerName:    nullString(inv.SellerName),
		SellerAddress: nullString(inv.SellerAddress),
		InvoiceNumber: inv.InvoiceNumber,
		NetAmount:     inv.NetAmount,
		VatAmount:     inv.VatAmount,
		GrossAmount:   inv.GrossAmount,
		Currency:      inv.Currency,
		RawDocument:   inv.RawDocument,
		ImportStatus:  string(inv.ImportStatus),
		ImportError:   nullString(inv.ImportError),
		FetchDate:     inv.FetchDate.UTC(),
		Environment:   string(inv.Environment),
		DocumentID:    inv.DocumentID,
	}
	if !inv.InvoiceDate.IsZero() {
		d.InvoiceDate = &inv.InvoiceDate
	}
	return d
}

func toIncoming(d *dao.IncomingInvoiceDao) *incoming.IncomingInvoice {
	inv := &incoming.IncomingInvoice{
		ID:            d.ID,
		KSeFNumber:    d.KSeFNumber,
		SellerNIP:     d.SellerNIP,
		SellerName:    str(d.SellerName),
		SellerAddress: str(d.SellerAddress),
		InvoiceNumber: d.InvoiceNumber,
		NetAmount:     d.NetAmount,
		VatAmount:     d.VatAmount,
		GrossAmount:   d.GrossAmount,
		Currency:      d.Currency,
		RawDocument:   d.RawDocument,
		ImportStatus:  incoming.ImportStatus(d.ImportStatus),
		ImportError:   str(d.ImportError),
		FetchDate:     d.FetchDate,
		Environment:   ksef.Environment(d.Environment),
		DocumentID:    d.DocumentID,
	}
	if d.InvoiceDate != nil {
		inv.InvoiceDate = *d.InvoiceDate
	}
	return inv
}

func toSyncState(d *dao.SyncStateDao) *incoming.SyncState {
	return &incoming.SyncState{
		Environment:       ksef.Environment(d.Environment),
		FetchStatus:       incoming.FetchStatus(d.FetchStatus),
		FetchStarted:      d.FetchStarted,
		ContinuationDate:  d.ContinuationDate,
		LastSyncDate:      d.LastSyncDate,
		LastSyncNew:       d.LastSyncNew,
		LastSyncExisting:  d.LastSyncExisting,
		LastSyncTotal:     d.LastSyncTotal,
		RateLimitExpiry:   d.RateLimitExpiry,
		FetchJobReference: str(d.FetchJobReference),
		FetchError:        str(d.FetchError),
		FetchClaim:        d.FetchClaim,
		FetchWindowFrom:   d.FetchWindowFrom,
		FetchWindowTo:     d.FetchWindowTo,
		UpdatedAt:         d.UpdatedAt,
	}
}
