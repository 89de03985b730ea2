// Package incoming models invoices received through KSeF and the per
// environment synchronization state that drives their retrieval.
package incoming

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chainsafe/ksef-middleware/pkg/ksef"
	"github.com/chainsafe/ksef-middleware/pkg/ksefapi"
)

// ImportStatus tracks whether a received invoice was turned into an internal document.
type ImportStatus string

const (
	ImportNew      ImportStatus = "NEW"
	ImportImported ImportStatus = "IMPORTED"
	ImportError    ImportStatus = "ERROR"
	ImportSkipped  ImportStatus = "SKIPPED"
)

var importTransitions = map[ImportStatus][]ImportStatus{
	ImportNew:      {ImportImported, ImportError, ImportSkipped},
	ImportError:    {ImportImported, ImportSkipped, ImportNew},
	ImportSkipped:  {ImportNew},
	ImportImported: nil,
}

// ParseImportStatus converts a case-insensitive name into an ImportStatus.
func ParseImportStatus(s string) (ImportStatus, error) {
	st := ImportStatus(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := importTransitions[st]; !ok {
		return "", fmt.Errorf("unknown import status %q", s)
	}
	return st, nil
}

// CanImportTransition reports whether an invoice may move between import statuses.
func CanImportTransition(from, to ImportStatus) bool {
	for _, s := range importTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IncomingInvoice is an invoice issued to us and downloaded from KSeF.
type IncomingInvoice struct {
	ID            int64            `json:"id"`
	KSeFNumber    string           `json:"ksef_number"`
	SellerNIP     string           `json:"seller_nip"`
	SellerName    string           `json:"seller_name,omitempty"`
	SellerAddress string           `json:"seller_address,omitempty"`
	InvoiceNumber string           `json:"invoice_number"`
	InvoiceDate   time.Time        `json:"invoice_date"`
	NetAmount     decimal.Decimal  `json:"net_amount"`
	VatAmount     decimal.Decimal  `json:"vat_amount"`
	GrossAmount   decimal.Decimal  `json:"gross_amount"`
	Currency      string           `json:"currency"`
	RawDocument   []byte           `json:"-"`
	ImportStatus  ImportStatus     `json:"import_status"`
	ImportError   string           `json:"import_error,omitempty"`
	FetchDate     time.Time        `json:"fetch_date"`
	Environment   ksef.Environment `json:"environment"`
	DocumentID    *int64           `json:"document_id,omitempty"`
}

// FromRaw builds a NEW incoming invoice from an export package entry.
func FromRaw(raw *ksefapi.RawInvoice, env ksef.Environment, fetched time.Time) *IncomingInvoice {
	currency := raw.Currency
	if currency == "" {
		currency = "PLN"
	}
	return &IncomingInvoice{
		KSeFNumber:    raw.KSeFNumber,
		SellerNIP:     raw.Seller.NIP,
		SellerName:    raw.Seller.Name,
		SellerAddress: raw.Seller.Address,
		InvoiceNumber: raw.InvoiceNumber,
		InvoiceDate:   raw.IssueDate,
		NetAmount:     raw.NetAmount,
		VatAmount:     raw.VatAmount,
		GrossAmount:   raw.GrossAmount,
		Currency:      currency,
		RawDocument:   raw.Document,
		ImportStatus:  ImportNew,
		FetchDate:     fetched,
		Environment:   env,
	}
}

// ListFilter narrows ListIncoming results. Zero values match everything.
type ListFilter struct {
	Status    ImportStatus
	SellerNIP string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}
