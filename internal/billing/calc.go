// Package billing holds the pure invoice arithmetic: per-line discount/tax
// amounts, invoice-level aggregation, and payment-status classification.
// No side effects, no storage — every function is deterministic over its
// inputs. Full decimal precision is kept; two-decimal rounding happens only
// at presentation time (DTO mapping).
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/model"
)

var hundred = decimal.NewFromInt(100)

// LineInput is one invoice line as received from the caller.
type LineInput struct {
	Quantity        int
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
}

// LineTotals is the computed money breakdown for a single line:
//
//	Subtotal       = Quantity × UnitPrice
//	DiscountAmount = Subtotal × DiscountPercent/100
//	TaxAmount      = (Subtotal − DiscountAmount) × TaxPercent/100
//	LineTotal      = Subtotal − DiscountAmount + TaxAmount
type LineTotals struct {
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxPercent      decimal.Decimal
	TaxAmount       decimal.Decimal
	LineTotal       decimal.Decimal
}

// ComputeLine applies the percentage formulas to one line.
func ComputeLine(in LineInput) LineTotals {
	subtotal := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
	discount := subtotal.Mul(in.DiscountPercent).Div(hundred)
	tax := subtotal.Sub(discount).Mul(in.TaxPercent).Div(hundred)
	return LineTotals{
		Subtotal:        subtotal,
		DiscountPercent: in.DiscountPercent,
		DiscountAmount:  discount,
		TaxPercent:      in.TaxPercent,
		TaxAmount:       tax,
		LineTotal:       subtotal.Sub(discount).Add(tax),
	}
}

// InvoiceTotals is the invoice-level aggregate.
// Invariant: TotalAmount = SubTotal − DiscountAmount + TaxAmount.
type InvoiceTotals struct {
	SubTotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
}

// ComputeInvoiceTotals aggregates line amounts and layers any header-level
// discount/tax percentages on top. Header discount applies to the line
// subtotal sum; header tax applies to the discounted base, mirroring the
// per-line formulas. With zero header percents this is a pure aggregation.
func ComputeInvoiceTotals(lines []LineTotals, headerDiscountPct, headerTaxPct decimal.Decimal) InvoiceTotals {
	subTotal := decimal.Zero
	discount := decimal.Zero
	tax := decimal.Zero
	for _, l := range lines {
		subTotal = subTotal.Add(l.Subtotal)
		discount = discount.Add(l.DiscountAmount)
		tax = tax.Add(l.TaxAmount)
	}
	if headerDiscountPct.IsPositive() {
		discount = discount.Add(subTotal.Mul(headerDiscountPct).Div(hundred))
	}
	if headerTaxPct.IsPositive() {
		tax = tax.Add(subTotal.Sub(discount).Mul(headerTaxPct).Div(hundred))
	}
	return InvoiceTotals{
		SubTotal:       subTotal,
		DiscountAmount: discount,
		TaxAmount:      tax,
		TotalAmount:    subTotal.Sub(discount).Add(tax),
	}
}

// AmountDue returns totalAmount − amountPaid.
func AmountDue(totalAmount, amountPaid decimal.Decimal) decimal.Decimal {
	return totalAmount.Sub(amountPaid)
}

// ClassifyPayment derives the invoice status from amounts. An explicit
// non-empty override from the caller takes precedence over the derivation.
func ClassifyPayment(totalAmount, amountPaid decimal.Decimal, override string) string {
	if override != "" {
		return override
	}
	switch {
	case amountPaid.GreaterThanOrEqual(totalAmount):
		return model.InvoiceStatusPaid
	case amountPaid.IsPositive():
		return model.InvoiceStatusPartiallyPaid
	default:
		return model.InvoiceStatusUnpaid
	}
}
