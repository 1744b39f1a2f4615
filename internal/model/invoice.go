package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice statuses. Cancelled is terminal; a Paid or Completed invoice can
// never transition to Cancelled.
const (
	InvoiceStatusDraft         = "Draft"
	InvoiceStatusUnpaid        = "Unpaid"
	InvoiceStatusPartiallyPaid = "PartiallyPaid"
	InvoiceStatusPaid          = "Paid"
	InvoiceStatusCompleted     = "Completed"
	InvoiceStatusCancelled     = "Cancelled"
	InvoiceStatusRefunded      = "Refunded"
)

// Invoice is a sales invoice. Monetary invariants, held after every write:
//
//	TotalAmount = SubTotal − DiscountAmount + TaxAmount
//	AmountDue   = TotalAmount − AmountPaid
type Invoice struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID       uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_invoices_company_number"`
	InvoiceNumber   string          `gorm:"not null;uniqueIndex:idx_invoices_company_number"`
	InvoiceDate     time.Time       `gorm:"not null;index"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	SubTotal        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AmountPaid      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AmountDue       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status          string          `gorm:"not null;index;default:'Unpaid'"`
	Notes           *string
	StockRestored   bool      `gorm:"not null;default:false"`
	CreatedBy       uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Customer *Customer     `gorm:"foreignKey:CustomerID"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID"`
}

func (Invoice) TableName() string { return "sales.invoices" }

// InvoiceItem is one line of an invoice. Created atomically with its invoice;
// each item's creation triggers a SALE stock movement on its product.
//
//	LineTotal = Quantity×UnitPrice − DiscountAmount + TaxAmount
type InvoiceItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt       time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (InvoiceItem) TableName() string { return "sales.invoice_items" }
