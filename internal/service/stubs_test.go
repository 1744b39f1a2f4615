package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/dto"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/model"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/repository"
)

// In-memory repository stubs. DB() returns nil so runTx runs the callback
// directly without a real transaction.

// ── Product repo ──────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo(products ...*model.Product) *stubProductRepo {
	r := &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.products[p.ID] = p
	}
	return r
}

func (r *stubProductRepo) find(companyID, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok || p.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.Product, error) {
	return r.find(companyID, id)
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, companyID uuid.UUID, barcode string) (*model.Product, error) {
	for _, p := range r.products {
		if p.CompanyID == companyID && p.Barcode == barcode && p.IsActive {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, companyID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.CompanyID != companyID {
			continue
		}
		if filter.SearchTerm != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.SearchTerm)) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Deactivate(_ context.Context, companyID, id uuid.UUID) error {
	p, err := r.find(companyID, id)
	if err != nil {
		return err
	}
	p.IsActive = false
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, companyID, id uuid.UUID) error {
	p, err := r.find(companyID, id)
	if err != nil {
		return err
	}
	p.IsActive = true
	return nil
}

func (r *stubProductRepo) ListBelowMinimum(_ context.Context, companyID uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.CompanyID == companyID && p.IsActive && p.Quantity <= p.MinimumQuantity {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) ListBelowMinimumAll(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.IsActive && p.Quantity <= p.MinimumQuantity {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Valuation(_ context.Context, companyID uuid.UUID) (*repository.ValuationTotals, error) {
	v := &repository.ValuationTotals{}
	for _, p := range r.products {
		if p.CompanyID != companyID || !p.IsActive {
			continue
		}
		qty := decimal.NewFromInt(int64(p.Quantity))
		v.ProductCount++
		v.TotalUnits += p.Quantity
		v.TotalCost = v.TotalCost.Add(qty.Mul(p.PurchasePrice))
		v.TotalRetail = v.TotalRetail.Add(qty.Mul(p.SalePrice))
	}
	return v, nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, companyID, id uuid.UUID) (*model.Product, error) {
	// Return a detached copy, like a real repository read: later quantity
	// writes through the repo must not alias the value already read.
	p, err := r.find(companyID, id)
	if err != nil {
		return nil, err
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) DecrementStockTx(_ *gorm.DB, companyID, id uuid.UUID, qty int) (bool, error) {
	p, err := r.find(companyID, id)
	if err != nil {
		return false, err
	}
	if p.Quantity < qty {
		return false, nil
	}
	p.Quantity -= qty
	return true, nil
}

func (r *stubProductRepo) SetQuantityTx(_ *gorm.DB, companyID, id uuid.UUID, quantity int) error {
	p, err := r.find(companyID, id)
	if err != nil {
		return err
	}
	p.Quantity = quantity
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Stock movement repo ───────────────────────────────────────────────────────

type stubMovementRepo struct {
	movements map[uuid.UUID]*model.StockMovement
	order     []uuid.UUID
}

func newStubMovementRepo() *stubMovementRepo {
	return &stubMovementRepo{movements: make(map[uuid.UUID]*model.StockMovement)}
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements[m.ID] = m
	r.order = append(r.order, m.ID)
	return nil
}

func (r *stubMovementRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.StockMovement, error) {
	m, ok := r.movements[id]
	if !ok || m.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMovementRepo) List(_ context.Context, companyID uuid.UUID, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, id := range r.order {
		m := r.movements[id]
		if m == nil || m.CompanyID != companyID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) DeleteTx(_ *gorm.DB, companyID, id uuid.UUID) error {
	m, ok := r.movements[id]
	if !ok || m.CompanyID != companyID {
		return gorm.ErrRecordNotFound
	}
	delete(r.movements, id)
	return nil
}

func (r *stubMovementRepo) SummaryByType(_ context.Context, companyID uuid.UUID, _, _ string) ([]dto.MovementSummaryRow, error) {
	byType := make(map[string]*dto.MovementSummaryRow)
	for _, m := range r.movements {
		if m.CompanyID != companyID {
			continue
		}
		row, ok := byType[m.Type]
		if !ok {
			row = &dto.MovementSummaryRow{Type: m.Type}
			byType[m.Type] = row
		}
		row.Count++
		if m.Quantity > 0 {
			row.UnitsIn += int64(m.Quantity)
		} else {
			row.UnitsOut += int64(-m.Quantity)
		}
	}
	var out []dto.MovementSummaryRow
	for _, row := range byType {
		out = append(out, *row)
	}
	return out, nil
}

// byProduct returns the ledger entries for one product, in creation order.
func (r *stubMovementRepo) byProduct(productID uuid.UUID) []*model.StockMovement {
	var out []*model.StockMovement
	for _, id := range r.order {
		if m := r.movements[id]; m != nil && m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// ── Product cache ─────────────────────────────────────────────────────────────

// stubProductCache records Set/Invalidate traffic so tests can assert the
// barcode cache is dropped on every quantity write.
type stubProductCache struct {
	entries     map[string][]byte
	invalidated []string
}

func newStubProductCache() *stubProductCache {
	return &stubProductCache{entries: make(map[string][]byte)}
}

func cacheKey(companyID, barcode string) string { return companyID + ":" + barcode }

func (c *stubProductCache) Get(_ context.Context, companyID, barcode string, dest interface{}) bool {
	raw, ok := c.entries[cacheKey(companyID, barcode)]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *stubProductCache) Set(_ context.Context, companyID, barcode string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.entries[cacheKey(companyID, barcode)] = raw
}

func (c *stubProductCache) Invalidate(_ context.Context, companyID, barcode string) {
	key := cacheKey(companyID, barcode)
	delete(c.entries, key)
	c.invalidated = append(c.invalidated, key)
}

func (c *stubProductCache) has(companyID uuid.UUID, barcode string) bool {
	_, ok := c.entries[cacheKey(companyID.String(), barcode)]
	return ok
}

var _ ProductCache = (*stubProductCache)(nil)

// ── Invoice repo ──────────────────────────────────────────────────────────────

type stubInvoiceRepo struct {
	invoices map[uuid.UUID]*model.Invoice

	// findByNumberErr, when set, is returned by FindByNumber to simulate a
	// database failure.
	findByNumberErr error
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{invoices: make(map[uuid.UUID]*model.Invoice)}
}

func (r *stubInvoiceRepo) CreateTx(_ *gorm.DB, inv *model.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	for i := range inv.Items {
		if inv.Items[i].ID == uuid.Nil {
			inv.Items[i].ID = uuid.New()
		}
		inv.Items[i].InvoiceID = inv.ID
	}
	r.invoices[inv.ID] = inv
	return nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok || inv.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (r *stubInvoiceRepo) FindByNumber(_ context.Context, companyID uuid.UUID, number string) (*model.Invoice, error) {
	if r.findByNumberErr != nil {
		return nil, r.findByNumberErr
	}
	for _, inv := range r.invoices {
		if inv.CompanyID == companyID && inv.InvoiceNumber == number {
			return inv, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInvoiceRepo) List(_ context.Context, companyID uuid.UUID, filter dto.InvoiceFilter) ([]model.Invoice, int64, error) {
	var out []model.Invoice
	for _, inv := range r.invoices {
		if inv.CompanyID != companyID {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (r *stubInvoiceRepo) UpdateFieldsTx(_ *gorm.DB, companyID, id uuid.UUID, fields map[string]interface{}) error {
	inv, ok := r.invoices[id]
	if !ok || inv.CompanyID != companyID {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "status":
			inv.Status = v.(string)
		case "amount_paid":
			inv.AmountPaid = v.(decimal.Decimal)
		case "amount_due":
			inv.AmountDue = v.(decimal.Decimal)
		case "notes":
			s := v.(string)
			inv.Notes = &s
		case "stock_restored":
			inv.StockRestored = v.(bool)
		}
	}
	return nil
}

func (r *stubInvoiceRepo) DeleteTx(_ *gorm.DB, companyID, id uuid.UUID) error {
	inv, ok := r.invoices[id]
	if !ok || inv.CompanyID != companyID {
		return gorm.ErrRecordNotFound
	}
	delete(r.invoices, id)
	return nil
}

func (r *stubInvoiceRepo) SalesSummary(_ context.Context, companyID uuid.UUID, _, _ string) (*dto.SalesSummaryReport, error) {
	report := &dto.SalesSummaryReport{}
	for _, inv := range r.invoices {
		if inv.CompanyID != companyID {
			continue
		}
		if inv.Status == model.InvoiceStatusCancelled || inv.Status == model.InvoiceStatusDraft {
			continue
		}
		report.InvoiceCount++
		report.SubTotal = report.SubTotal.Add(inv.SubTotal)
		report.DiscountTotal = report.DiscountTotal.Add(inv.DiscountAmount)
		report.TaxTotal = report.TaxTotal.Add(inv.TaxAmount)
		report.GrandTotal = report.GrandTotal.Add(inv.TotalAmount)
		report.PaidTotal = report.PaidTotal.Add(inv.AmountPaid)
		report.DueTotal = report.DueTotal.Add(inv.AmountDue)
	}
	return report, nil
}

func (r *stubInvoiceRepo) DB() *gorm.DB { return nil }

var _ repository.InvoiceRepository = (*stubInvoiceRepo)(nil)

// ── Customer repo ─────────────────────────────────────────────────────────────

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo(customers ...*model.Customer) *stubCustomerRepo {
	r := &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
	for _, c := range customers {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.customers[c.ID] = c
	}
	return r
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok || c.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) List(_ context.Context, companyID uuid.UUID, _ dto.CustomerFilter) ([]model.Customer, int64, error) {
	var out []model.Customer
	for _, c := range r.customers {
		if c.CompanyID == companyID {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) Deactivate(_ context.Context, companyID, id uuid.UUID) error {
	c, ok := r.customers[id]
	if !ok || c.CompanyID != companyID {
		return gorm.ErrRecordNotFound
	}
	c.IsActive = false
	return nil
}

func (r *stubCustomerRepo) AdjustBalanceTx(_ *gorm.DB, companyID, id uuid.UUID, delta decimal.Decimal) error {
	c, ok := r.customers[id]
	if !ok || c.CompanyID != companyID {
		return gorm.ErrRecordNotFound
	}
	c.Balance = c.Balance.Add(delta)
	return nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Category repo ─────────────────────────────────────────────────────────────

type stubCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
}

func newStubCategoryRepo(categories ...*model.Category) *stubCategoryRepo {
	r := &stubCategoryRepo{categories: make(map[uuid.UUID]*model.Category)}
	for _, c := range categories {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.categories[c.ID] = c
	}
	return r
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok || c.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCategoryRepo) List(_ context.Context, companyID uuid.UUID) ([]model.Category, error) {
	var out []model.Category
	for _, c := range r.categories {
		if c.CompanyID == companyID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) Deactivate(_ context.Context, companyID, id uuid.UUID) error {
	c, ok := r.categories[id]
	if !ok || c.CompanyID != companyID {
		return gorm.ErrRecordNotFound
	}
	c.IsActive = false
	return nil
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)
