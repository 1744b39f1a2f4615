package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type InvoiceItemRequest struct {
	ProductID       string           `json:"productId"       validate:"required,uuid"`
	Quantity        int              `json:"quantity"        validate:"required,gt=0"`
	UnitPrice       *decimal.Decimal `json:"unitPrice"       validate:"omitempty,min=0"` // defaults to the product's sale price
	DiscountPercent decimal.Decimal  `json:"discountPercent" validate:"min=0,max=100"`
	TaxPercent      decimal.Decimal  `json:"taxPercent"      validate:"min=0"`
}

type CreateInvoiceRequest struct {
	InvoiceNumber   string               `json:"invoiceNumber"` // generated when empty
	InvoiceDate     *string              `json:"invoiceDate"`   // RFC 3339; defaults to now
	CustomerID      string               `json:"customerId"      validate:"required,uuid"`
	Items           []InvoiceItemRequest `json:"items"           validate:"required,min=1,dive"`
	DiscountPercent decimal.Decimal      `json:"discountPercent" validate:"min=0,max=100"`
	TaxPercent      decimal.Decimal      `json:"taxPercent"      validate:"min=0"`
	AmountPaid      decimal.Decimal      `json:"amountPaid"      validate:"min=0"`
	Status          string               `json:"status"          validate:"omitempty,oneof=Draft Unpaid PartiallyPaid Paid Completed"`
	Notes           *string              `json:"notes"`
}

// UpdateInvoiceRequest is deliberately narrow: only status, amountPaid and
// notes are mutable after creation. Changing amountPaid never touches line
// items or stock.
type UpdateInvoiceRequest struct {
	Status     *string          `json:"status"     validate:"omitempty,oneof=Draft Unpaid PartiallyPaid Paid Completed Refunded"`
	AmountPaid *decimal.Decimal `json:"amountPaid" validate:"omitempty,min=0"`
	Notes      *string          `json:"notes"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type InvoiceFilter struct {
	SearchTerm string `form:"searchTerm"` // matches invoice number or customer name
	CustomerID string `form:"customerId"`
	Status     string `form:"status"`
	FromDate   string `form:"fromDate"`
	ToDate     string `form:"toDate"`
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"pageSize,default=20"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InvoiceItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	TaxPercent      decimal.Decimal `json:"taxPercent"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	LineTotal       decimal.Decimal `json:"lineTotal"`
}

type InvoiceResponse struct {
	ID              string                `json:"id"`
	InvoiceNumber   string                `json:"invoiceNumber"`
	InvoiceDate     string                `json:"invoiceDate"`
	CustomerID      string                `json:"customerId"`
	CustomerName    string                `json:"customerName,omitempty"`
	Items           []InvoiceItemResponse `json:"items"`
	SubTotal        decimal.Decimal       `json:"subTotal"`
	DiscountPercent decimal.Decimal       `json:"discountPercent"`
	DiscountAmount  decimal.Decimal       `json:"discountAmount"`
	TaxPercent      decimal.Decimal       `json:"taxPercent"`
	TaxAmount       decimal.Decimal       `json:"taxAmount"`
	TotalAmount     decimal.Decimal       `json:"totalAmount"`
	AmountPaid      decimal.Decimal       `json:"amountPaid"`
	AmountDue       decimal.Decimal       `json:"amountDue"`
	Status          string                `json:"status"`
	Notes           *string               `json:"notes"`
	StockRestored   bool                  `json:"stockRestored"`
	CreatedAt       string                `json:"createdAt"`
}

type InvoiceListResponse struct {
	Data       []InvoiceResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}
