package ksefapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/chainsafe/ksef-middleware/pkg/ksef"
)

// SessionToken is an access token obtained from the KSeF auth endpoints.
type SessionToken struct {
	Token           string
	ReferenceNumber string
	ValidUntil      time.Time
}

// Expired reports whether the token is no longer usable at now.
func (t *SessionToken) Expired(now time.Time) bool {
	return t == nil || t.Token == "" || !now.Before(t.ValidUntil)
}

// Challenge is the nonce KSeF issues before authentication.
type Challenge struct {
	Challenge   string    `json:"challenge"`
	Timestamp   time.Time `json:"timestamp"`
	TimestampMs int64     `json:"timestampMs"`
}

// ContextIdentifier names the taxpayer a session acts for.
type ContextIdentifier struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// NIPContext returns the context identifier for a taxpayer NIP.
func NIPContext(nip string) ContextIdentifier {
	return ContextIdentifier{Type: "nip", Value: nip}
}

// AuthRequest answers a challenge. Exactly one of EncryptedToken or
// Certificate+Signature is set.
type AuthRequest struct {
	Challenge          string            `json:"challenge"`
	ContextIdentifier  ContextIdentifier `json:"contextIdentifier"`
	EncryptedToken     string            `json:"encryptedToken,omitempty"`
	Certificate        string            `json:"certificate,omitempty"`
	Signature          string            `json:"signature,omitempty"`
	SignatureAlgorithm string            `json:"signatureAlgorithm,omitempty"`
}

// UsesToken reports whether the request carries an encrypted KSeF token.
func (r *AuthRequest) UsesToken() bool {
	return r.EncryptedToken != ""
}

type authResponse struct {
	ReferenceNumber string `json:"referenceNumber"`
	AccessToken     struct {
		Token      string     `json:"token"`
		ValidUntil *time.Time `json:"validUntil"`
	} `json:"accessToken"`
}

// InvoiceDocument is an outbound invoice body ready to send.
type InvoiceDocument struct {
	Body    []byte
	Offline bool
}

type hashSHA struct {
	Algorithm string `json:"algorithm"`
	Encoding  string `json:"encoding"`
	Value     string `json:"value"`
}

type invoiceHash struct {
	HashSHA  hashSHA `json:"hashSHA"`
	FileSize int     `json:"fileSize"`
}

type invoicePayload struct {
	Type        string `json:"type"`
	InvoiceBody string `json:"invoiceBody"`
}

type sendInvoiceRequest struct {
	InvoiceHash    invoiceHash    `json:"invoiceHash"`
	InvoicePayload invoicePayload `json:"invoicePayload"`
	OfflineMode    bool           `json:"offlineMode,omitempty"`
}

// SubmitResult is the remote acknowledgement of an accepted upload.
// ReferenceNumber is the job handle used for status polling.
type SubmitResult struct {
	ReferenceNumber       string    `json:"referenceNumber"`
	ProcessingCode        int       `json:"processingCode"`
	ProcessingDescription string    `json:"processingDescription"`
	Timestamp             time.Time `json:"timestamp"`
}

// RemoteState is the coarse state of a remote job.
type RemoteState int

const (
	RemoteProcessing RemoteState = iota
	RemoteAccepted
	RemoteRejected
)

func (s RemoteState) String() string {
	switch s {
	case RemoteAccepted:
		return "accepted"
	case RemoteRejected:
		return "rejected"
	default:
		return "processing"
	}
}

// RemoteStatus is the polled state of a submitted invoice.
type RemoteStatus struct {
	State           RemoteState
	Code            int
	Description     string
	KSeFNumber      string
	AcquisitionTime *time.Time
	// Rejection is set when State is RemoteRejected.
	Rejection *ksef.Error
}

type invoiceStatusResponse struct {
	ProcessingCode        int    `json:"processingCode"`
	ProcessingDescription string `json:"processingDescription"`
	ReferenceNumber       string `json:"referenceNumber"`
	InvoiceStatus         *struct {
		KSeFReferenceNumber  string     `json:"ksefReferenceNumber"`
		AcquisitionTimestamp *time.Time `json:"acquisitionTimestamp"`
	} `json:"invoiceStatus"`
	Details []string `json:"details"`
}

type dateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type exportRequest struct {
	SubjectType string    `json:"subjectType"`
	DateRange   dateRange `json:"dateRange"`
}

// ExportRef identifies an incoming invoice export job.
type ExportRef struct {
	ReferenceNumber string    `json:"referenceNumber"`
	From            time.Time `json:"-"`
	To              time.Time `json:"-"`
}

// ExportState is the coarse state of an export job.
type ExportState int

const (
	ExportProcessing ExportState = iota
	ExportDone
	ExportFailed
)

func (s ExportState) String() string {
	switch s {
	case ExportDone:
		return "done"
	case ExportFailed:
		return "failed"
	default:
		return "processing"
	}
}

// ExportStatus is the polled state of an export job.
type ExportStatus struct {
	State        ExportState
	Code         int
	Description  string
	InvoiceCount int
	// EndWatermark is the last instant fully covered by the export, if reported.
	EndWatermark *time.Time
}

type exportStatusResponse struct {
	Status struct {
		Code        int    `json:"code"`
		Description string `json:"description"`
	} `json:"status"`
	InvoiceCount            int        `json:"invoiceCount"`
	PermanentStorageHwmDate *time.Time `json:"permanentStorageHwmDate"`
}

// Party identifies a seller or buyer on an incoming invoice.
type Party struct {
	NIP     string `json:"nip"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// RawInvoice is one invoice from an export package.
type RawInvoice struct {
	KSeFNumber    string
	InvoiceNumber string
	IssueDate     time.Time
	Seller        Party
	NetAmount     decimal.Decimal
	VatAmount     decimal.Decimal
	GrossAmount   decimal.Decimal
	Currency      string
	Document      []byte
}

type exportPackage struct {
	Invoices []struct {
		KSeFNumber    string          `json:"ksefNumber"`
		InvoiceNumber string          `json:"invoiceNumber"`
		IssueDate     string          `json:"issueDate"`
		Seller        Party           `json:"seller"`
		NetAmount     decimal.Decimal `json:"netAmount"`
		VatAmount     decimal.Decimal `json:"vatAmount"`
		GrossAmount   decimal.Decimal `json:"grossAmount"`
		Currency      string          `json:"currency"`
		Document      []byte          `json:"document"`
	} `json:"invoices"`
}

// exceptionResponse is the KSeF error envelope.
type exceptionResponse struct {
	Exception struct {
		ServiceCode         string `json:"serviceCode"`
		ReferenceNumber     string `json:"referenceNumber"`
		ExceptionDetailList []struct {
			ExceptionCode        int    `json:"exceptionCode"`
			ExceptionDescription string `json:"exceptionDescription"`
		} `json:"exceptionDetailList"`
	} `json:"exception"`
}
