package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/apierror"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/billing"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/dto"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/model"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/repository"
)

// InvoiceService orchestrates the invoice lifecycle. Creation persists the
// invoice, its items and one SALE movement per item inside a single
// transaction — a failure anywhere rolls the whole operation back.
//
// Cancel semantics: a soft cancel only flips the status and never touches
// stock. Restoring stock is a separate, explicit restock operation on an
// already-cancelled invoice. Hard delete is limited to unpaid invoices and
// does restore stock before removing the rows.
type InvoiceService interface {
	Create(ctx context.Context, companyID, userID uuid.UUID, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*dto.InvoiceResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error)
	Update(ctx context.Context, companyID, id uuid.UUID, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	Cancel(ctx context.Context, companyID, id uuid.UUID) error
	Restock(ctx context.Context, companyID, userID uuid.UUID, id uuid.UUID) (*dto.InvoiceResponse, error)
	Delete(ctx context.Context, companyID, userID uuid.UUID, id uuid.UUID) error
}

type invoiceService struct {
	repo         repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	inventory    InventoryService
}

func NewInvoiceService(
	repo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	inventory InventoryService,
) InvoiceService {
	return &invoiceService{
		repo:         repo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		inventory:    inventory,
	}
}

// ── Create ────────────────────────────────────────────────────────────────────
//  1. Validate customer exists and is active
//  2. Resolve every product; default unit price from the catalog
//  3. Compute line and invoice totals
//  4. BEGIN TX: insert invoice + items, apply one SALE movement per item,
//     bump the customer balance by the amount due
//  5. COMMIT — any failure rolls back every write

func (s *invoiceService) Create(ctx context.Context, companyID, userID uuid.UUID, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("invalid customerId")
	}
	customer, err := s.customerRepo.FindByID(ctx, companyID, customerID)
	if err != nil {
		return nil, mapFindErr(err, "customer")
	}
	if !customer.IsActive {
		return nil, apierror.Validation("customer is inactive")
	}

	invoiceDate := time.Now().UTC()
	if req.InvoiceDate != nil {
		parsed, err := time.Parse(time.RFC3339, *req.InvoiceDate)
		if err != nil {
			return nil, apierror.Validation("invoiceDate must be RFC 3339")
		}
		invoiceDate = parsed
	}

	// Resolve products and compute totals (pre-flight, outside TX).
	// Stock sufficiency is only enforced inside the TX where it is atomic.
	type resolvedItem struct {
		productID uuid.UUID
		name      string
		qty       int
		totals    billing.LineTotals
		unitPrice decimal.Decimal
	}
	resolved := make([]resolvedItem, 0, len(req.Items))
	lines := make([]billing.LineTotals, 0, len(req.Items))
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apierror.Validation("invalid productId " + item.ProductID)
		}
		p, err := s.productRepo.FindByID(ctx, companyID, pid)
		if err != nil {
			return nil, mapFindErr(err, "product")
		}
		if !p.IsActive {
			return nil, apierror.Validation(fmt.Sprintf("product %s is inactive", p.Name))
		}
		unitPrice := p.SalePrice
		if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		}
		totals := billing.ComputeLine(billing.LineInput{
			Quantity:        item.Quantity,
			UnitPrice:       unitPrice,
			DiscountPercent: item.DiscountPercent,
			TaxPercent:      item.TaxPercent,
		})
		lines = append(lines, totals)
		resolved = append(resolved, resolvedItem{
			productID: pid,
			name:      p.Name,
			qty:       item.Quantity,
			totals:    totals,
			unitPrice: unitPrice,
		})
	}

	invTotals := billing.ComputeInvoiceTotals(lines, req.DiscountPercent, req.TaxPercent)
	status := billing.ClassifyPayment(invTotals.TotalAmount, req.AmountPaid, req.Status)
	amountDue := billing.AmountDue(invTotals.TotalAmount, req.AmountPaid)

	number := req.InvoiceNumber
	if number == "" {
		number, err = s.generateNumber(ctx, companyID, invoiceDate)
		if err != nil {
			return nil, err
		}
	} else if _, err := s.repo.FindByNumber(ctx, companyID, number); err == nil {
		return nil, apierror.Validation("invoice number already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Upstream(err)
	}

	invoice := &model.Invoice{
		CompanyID:       companyID,
		InvoiceNumber:   number,
		InvoiceDate:     invoiceDate,
		CustomerID:      customerID,
		SubTotal:        invTotals.SubTotal,
		DiscountPercent: req.DiscountPercent,
		DiscountAmount:  invTotals.DiscountAmount,
		TaxPercent:      req.TaxPercent,
		TaxAmount:       invTotals.TaxAmount,
		TotalAmount:     invTotals.TotalAmount,
		AmountPaid:      req.AmountPaid,
		AmountDue:       amountDue,
		Status:          status,
		Notes:           req.Notes,
		CreatedBy:       userID,
	}
	for _, r := range resolved {
		invoice.Items = append(invoice.Items, model.InvoiceItem{
			ProductID:       r.productID,
			Quantity:        r.qty,
			UnitPrice:       r.unitPrice,
			DiscountPercent: r.totals.DiscountPercent,
			DiscountAmount:  r.totals.DiscountAmount,
			TaxPercent:      r.totals.TaxPercent,
			TaxAmount:       r.totals.TaxAmount,
			LineTotal:       r.totals.LineTotal,
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, invoice); err != nil {
			return apierror.Upstream(err)
		}
		uid := userID
		for _, r := range resolved {
			ref := "Invoice " + number
			if _, err := s.inventory.SaleTx(ctx, tx, companyID, &uid, r.productID, r.qty, ref); err != nil {
				return err
			}
		}
		if amountDue.IsPositive() {
			if err := s.customerRepo.AdjustBalanceTx(tx, companyID, customerID, amountDue); err != nil {
				return apierror.Upstream(err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	invoice.Customer = customer
	resp := invoiceToResponse(invoice)
	for i, r := range resolved {
		resp.Items[i].ProductName = r.name
	}
	return resp, nil
}

// generateNumber builds INV-YYMMDD-### with a random suffix, retrying on the
// rare collision within a day. A number is only considered free when the
// lookup reports no row; any other failure is a database problem, not an
// available number.
func (s *invoiceService) generateNumber(ctx context.Context, companyID uuid.UUID, date time.Time) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		candidate := fmt.Sprintf("INV-%s-%03d", date.Format("060102"), rand.Intn(1000))
		_, err := s.repo.FindByNumber(ctx, companyID, candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", apierror.Upstream(err)
		}
	}
	return "", apierror.Upstream(fmt.Errorf("could not generate unique invoice number"))
}

func (s *invoiceService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*dto.InvoiceResponse, error) {
	invoice, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, mapFindErr(err, "invoice")
	}
	return invoiceToResponse(invoice), nil
}

func (s *invoiceService) List(ctx context.Context, companyID uuid.UUID, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error) {
	filter.Page, filter.PageSize = normalizePaging(filter.Page, filter.PageSize)
	invoices, total, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, apierror.Upstream(err)
	}
	items := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, *invoiceToResponse(&invoices[i]))
	}
	return &dto.InvoiceListResponse{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages(total, filter.PageSize),
	}, nil
}

// ── Update ────────────────────────────────────────────────────────────────────
// Only status, amountPaid and notes are mutable. A new amountPaid forces the
// amountDue recomputation and re-derives the status unless the same request
// carries an explicit status. Line items and stock are never touched here.

func (s *invoiceService) Update(ctx context.Context, companyID, id uuid.UUID, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	invoice, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, mapFindErr(err, "invoice")
	}
	if invoice.Status == model.InvoiceStatusCancelled {
		return nil, apierror.InvalidTransition("cannot update a cancelled invoice")
	}

	fields := map[string]interface{}{}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.AmountPaid != nil {
		paidDelta := req.AmountPaid.Sub(invoice.AmountPaid)
		newDue := billing.AmountDue(invoice.TotalAmount, *req.AmountPaid)
		override := ""
		if req.Status != nil {
			override = *req.Status
		}
		fields["amount_paid"] = *req.AmountPaid
		fields["amount_due"] = newDue
		fields["status"] = billing.ClassifyPayment(invoice.TotalAmount, *req.AmountPaid, override)

		txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			if err := s.repo.UpdateFieldsTx(tx, companyID, id, fields); err != nil {
				return apierror.Upstream(err)
			}
			if !paidDelta.IsZero() {
				// Money received reduces what the customer owes
				if err := s.customerRepo.AdjustBalanceTx(tx, companyID, invoice.CustomerID, paidDelta.Neg()); err != nil {
					return apierror.Upstream(err)
				}
			}
			return nil
		})
		if txErr != nil {
			return nil, txErr
		}
		return s.GetByID(ctx, companyID, id)
	}

	if req.Status != nil {
		if *req.Status == model.InvoiceStatusCancelled {
			return nil, apierror.InvalidTransition("use the cancel operation to cancel an invoice")
		}
		fields["status"] = *req.Status
	}
	if len(fields) == 0 {
		return invoiceToResponse(invoice), nil
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateFieldsTx(tx, companyID, id, fields)
	})
	if txErr != nil {
		return nil, apierror.Upstream(txErr)
	}
	return s.GetByID(ctx, companyID, id)
}

// Cancel flips the status to Cancelled. Blocked once the invoice is Paid or
// Completed. Stock stays untouched — see Restock.
func (s *invoiceService) Cancel(ctx context.Context, companyID, id uuid.UUID) error {
	invoice, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return mapFindErr(err, "invoice")
	}
	switch invoice.Status {
	case model.InvoiceStatusPaid, model.InvoiceStatusCompleted:
		return apierror.InvalidTransition("cannot cancel a " + invoice.Status + " invoice")
	case model.InvoiceStatusCancelled:
		return apierror.InvalidTransition("invoice is already cancelled")
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		fields := map[string]interface{}{"status": model.InvoiceStatusCancelled}
		if err := s.repo.UpdateFieldsTx(tx, companyID, id, fields); err != nil {
			return apierror.Upstream(err)
		}
		if invoice.AmountDue.IsPositive() {
			// The customer no longer owes the outstanding balance
			if err := s.customerRepo.AdjustBalanceTx(tx, companyID, invoice.CustomerID, invoice.AmountDue.Neg()); err != nil {
				return apierror.Upstream(err)
			}
		}
		return nil
	})
}

// Restock writes one RETURN movement per line item of a cancelled invoice,
// restoring the sold quantities. Allowed once.
func (s *invoiceService) Restock(ctx context.Context, companyID, userID uuid.UUID, id uuid.UUID) (*dto.InvoiceResponse, error) {
	invoice, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, mapFindErr(err, "invoice")
	}
	if invoice.Status != model.InvoiceStatusCancelled {
		return nil, apierror.InvalidTransition("only a cancelled invoice can be restocked")
	}
	if invoice.StockRestored {
		return nil, apierror.InvalidTransition("invoice stock already restored")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		uid := userID
		ref := "Restock invoice " + invoice.InvoiceNumber
		for _, item := range invoice.Items {
			if _, err := s.inventory.ReturnTx(ctx, tx, companyID, &uid, item.ProductID, item.Quantity, ref); err != nil {
				return err
			}
		}
		return s.repo.UpdateFieldsTx(tx, companyID, id, map[string]interface{}{"stock_restored": true})
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.GetByID(ctx, companyID, id)
}

// Delete removes an invoice outright. Only Draft or fully unpaid invoices
// qualify; every line item's stock is restored before the rows go away, all
// in one transaction.
func (s *invoiceService) Delete(ctx context.Context, companyID, userID uuid.UUID, id uuid.UUID) error {
	invoice, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return mapFindErr(err, "invoice")
	}
	switch invoice.Status {
	case model.InvoiceStatusPaid, model.InvoiceStatusCompleted:
		return apierror.InvalidTransition("cannot delete a " + invoice.Status + " invoice")
	}
	if invoice.AmountPaid.IsPositive() {
		return apierror.InvalidTransition("cannot delete an invoice with payments — cancel it instead")
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		uid := userID
		ref := "Delete invoice " + invoice.InvoiceNumber
		if !invoice.StockRestored && invoice.Status != model.InvoiceStatusCancelled {
			for _, item := range invoice.Items {
				if _, err := s.inventory.ReturnTx(ctx, tx, companyID, &uid, item.ProductID, item.Quantity, ref); err != nil {
					return err
				}
			}
		}
		if invoice.AmountDue.IsPositive() && invoice.Status != model.InvoiceStatusCancelled {
			if err := s.customerRepo.AdjustBalanceTx(tx, companyID, invoice.CustomerID, invoice.AmountDue.Neg()); err != nil {
				return apierror.Upstream(err)
			}
		}
		if err := s.repo.DeleteTx(tx, companyID, id); err != nil {
			return apierror.Upstream(err)
		}
		return nil
	})
}

func invoiceToResponse(inv *model.Invoice) *dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.InvoiceItemResponse{
			ID:              item.ID.String(),
			ProductID:       item.ProductID.String(),
			ProductName:     name,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice.Round(2),
			DiscountPercent: item.DiscountPercent,
			DiscountAmount:  item.DiscountAmount.Round(2),
			TaxPercent:      item.TaxPercent,
			TaxAmount:       item.TaxAmount.Round(2),
			LineTotal:       item.LineTotal.Round(2),
		})
	}
	customerName := ""
	if inv.Customer != nil {
		customerName = inv.Customer.Name
	}
	return &dto.InvoiceResponse{
		ID:              inv.ID.String(),
		InvoiceNumber:   inv.InvoiceNumber,
		InvoiceDate:     inv.InvoiceDate.Format(time.RFC3339),
		CustomerID:      inv.CustomerID.String(),
		CustomerName:    customerName,
		Items:           items,
		SubTotal:        inv.SubTotal.Round(2),
		DiscountPercent: inv.DiscountPercent,
		DiscountAmount:  inv.DiscountAmount.Round(2),
		TaxPercent:      inv.TaxPercent,
		TaxAmount:       inv.TaxAmount.Round(2),
		TotalAmount:     inv.TotalAmount.Round(2),
		AmountPaid:      inv.AmountPaid.Round(2),
		AmountDue:       inv.AmountDue.Round(2),
		Status:          inv.Status,
		Notes:           inv.Notes,
		StockRestored:   inv.StockRestored,
		CreatedAt:       inv.CreatedAt.Format(time.RFC3339),
	}
}
