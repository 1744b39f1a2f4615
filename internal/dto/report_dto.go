package dto

import "github.com/shopspring/decimal"

// ─── Inventory reports ───────────────────────────────────────────────────────

type LowStockItem struct {
	ProductID       string `json:"productId"`
	Barcode         string `json:"barcode"`
	Name            string `json:"name"`
	Quantity        int    `json:"quantity"`
	MinimumQuantity int    `json:"minimumQuantity"`
	Status          string `json:"status"` // LOW_STOCK | OUT_OF_STOCK
}

type ValuationReport struct {
	ProductCount int             `json:"productCount"`
	TotalUnits   int             `json:"totalUnits"`
	TotalCost    decimal.Decimal `json:"totalCost"`   // Σ quantity × purchasePrice
	TotalRetail  decimal.Decimal `json:"totalRetail"` // Σ quantity × salePrice
	GeneratedAt  string          `json:"generatedAt"`
}

type MovementSummaryRow struct {
	Type     string `json:"type"`
	Count    int64  `json:"count"`
	UnitsIn  int64  `json:"unitsIn"`
	UnitsOut int64  `json:"unitsOut"`
}

type MovementSummaryReport struct {
	FromDate string               `json:"fromDate,omitempty"`
	ToDate   string               `json:"toDate,omitempty"`
	Rows     []MovementSummaryRow `json:"rows"`
}

// ─── Sales reports ───────────────────────────────────────────────────────────

type SalesSummaryReport struct {
	FromDate      string          `json:"fromDate,omitempty"`
	ToDate        string          `json:"toDate,omitempty"`
	InvoiceCount  int64           `json:"invoiceCount"`
	SubTotal      decimal.Decimal `json:"subTotal"`
	DiscountTotal decimal.Decimal `json:"discountTotal"`
	TaxTotal      decimal.Decimal `json:"taxTotal"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	PaidTotal     decimal.Decimal `json:"paidTotal"`
	DueTotal      decimal.Decimal `json:"dueTotal"`
}

type ReportDateFilter struct {
	FromDate string `form:"fromDate"`
	ToDate   string `form:"toDate"`
}
