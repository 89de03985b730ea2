package dao

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// IncomingInvoiceDao is a data access object that maps directly to the 'ksef_incoming_invoices' table in PostgreSQL.
type IncomingInvoiceDao struct {
	bun.BaseModel `bun:"table:ksef_incoming_invoices,alias:ii"`
	ID            int64           `json:"id" bun:"id,pk,autoincrement"`
	KSeFNumber    string          `json:"ksef_number" bun:"ksef_number,notnull,type:varchar(64)"`
	SellerNIP     string          `json:"seller_nip" bun:"seller_nip,notnull,type:varchar(16)"`
	SellerName    *string         `json:"seller_name,omitempty" bun:"seller_name,type:varchar(512)"`
	SellerAddress *string         `json:"seller_address,omitempty" bun:"seller_address,type:text"`
	InvoiceNumber string          `json:"invoice_number" bun:"invoice_number,notnull,type:varchar(256)"`
	InvoiceDate   *time.Time      `json:"invoice_date,omitempty" bun:"invoice_date,type:date"`
	NetAmount     decimal.Decimal `json:"net_amount" bun:"net_amount,notnull,type:numeric(18,2)"`
	VatAmount     decimal.Decimal `json:"vat_amount" bun:"vat_amount,notnull,type:numeric(18,2)"`
	GrossAmount   decimal.Decimal `json:"gross_amount" bun:"gross_amount,notnull,type:numeric(18,2)"`
	Currency      string          `json:"currency" bun:"currency,notnull,type:varchar(3)"`
	RawDocument   []byte          `json:"-" bun:"raw_document,type:bytea"`
	ImportStatus  string          `json:"import_status" bun:"import_status,notnull,type:varchar(16)"`
	ImportError   *string         `json:"import_error,omitempty" bun:"import_error,type:text"`
	FetchDate     time.Time       `json:"fetch_date" bun:"fetch_date,notnull"`
	Environment   string          `json:"environment" bun:"environment,notnull,type:varchar(16)"`
	DocumentID    *int64          `json:"document_id,omitempty" bun:"document_id"`
}
