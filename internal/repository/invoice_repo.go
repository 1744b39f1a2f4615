package repository

import (
	"context"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/dto"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceRepository persists invoices and their items. Creation and deletion
// always run inside a caller-supplied transaction so invoice, items and
// stock movements commit or roll back as one unit.
type InvoiceRepository interface {
	CreateTx(tx *gorm.DB, inv *model.Invoice) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Invoice, error)
	FindByNumber(ctx context.Context, companyID uuid.UUID, number string) (*model.Invoice, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.InvoiceFilter) ([]model.Invoice, int64, error)
	UpdateFieldsTx(tx *gorm.DB, companyID, id uuid.UUID, fields map[string]interface{}) error
	DeleteTx(tx *gorm.DB, companyID, id uuid.UUID) error
	SalesSummary(ctx context.Context, companyID uuid.UUID, fromDate, toDate string) (*dto.SalesSummaryReport, error)
	DB() *gorm.DB
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository { return &invoiceRepo{db: db} }

func (r *invoiceRepo) CreateTx(tx *gorm.DB, inv *model.Invoice) error {
	return tx.Create(inv).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Customer").Preload("Items").Preload("Items.Product").
		Where("id = ? AND company_id = ?", id, companyID).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepo) FindByNumber(ctx context.Context, companyID uuid.UUID, number string) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Where("invoice_number = ? AND company_id = ?", number, companyID).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepo) List(ctx context.Context, companyID uuid.UUID, filter dto.InvoiceFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Invoice{}).Where("sales.invoices.company_id = ?", companyID)

	if filter.SearchTerm != "" {
		term := "%" + filter.SearchTerm + "%"
		q = q.Joins("LEFT JOIN sales.customers AS customers ON customers.id = sales.invoices.customer_id").
			Where("sales.invoices.invoice_number ILIKE ? OR customers.name ILIKE ? OR customers.name_ar ILIKE ?",
				term, term, term)
	}
	if filter.CustomerID != "" {
		q = q.Where("sales.invoices.customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		q = q.Where("sales.invoices.status = ?", filter.Status)
	}
	if filter.FromDate != "" {
		q = q.Where("sales.invoices.invoice_date >= ?", filter.FromDate)
	}
	if filter.ToDate != "" {
		q = q.Where("sales.invoices.invoice_date <= ?", filter.ToDate)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := q.Preload("Customer").Preload("Items").Preload("Items.Product").
		Order("sales.invoices.invoice_date DESC").
		Limit(filter.PageSize).Offset(offset).Find(&invoices).Error
	return invoices, total, err
}

func (r *invoiceRepo) UpdateFieldsTx(tx *gorm.DB, companyID, id uuid.UUID, fields map[string]interface{}) error {
	return tx.Model(&model.Invoice{}).
		Where("id = ? AND company_id = ?", id, companyID).
		Updates(fields).Error
}

func (r *invoiceRepo) DeleteTx(tx *gorm.DB, companyID, id uuid.UUID) error {
	if err := tx.Where("invoice_id = ?", id).Delete(&model.InvoiceItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ? AND company_id = ?", id, companyID).
		Delete(&model.Invoice{}).Error
}

func (r *invoiceRepo) SalesSummary(ctx context.Context, companyID uuid.UUID, fromDate, toDate string) (*dto.SalesSummaryReport, error) {
	q := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Select(`COUNT(*) AS invoice_count,
			COALESCE(SUM(sub_total), 0) AS sub_total,
			COALESCE(SUM(discount_amount), 0) AS discount_total,
			COALESCE(SUM(tax_amount), 0) AS tax_total,
			COALESCE(SUM(total_amount), 0) AS grand_total,
			COALESCE(SUM(amount_paid), 0) AS paid_total,
			COALESCE(SUM(amount_due), 0) AS due_total`).
		Where("company_id = ? AND status NOT IN (?, ?)", companyID,
			model.InvoiceStatusCancelled, model.InvoiceStatusDraft)
	if fromDate != "" {
		q = q.Where("invoice_date >= ?", fromDate)
	}
	if toDate != "" {
		q = q.Where("invoice_date <= ?", toDate)
	}

	var report dto.SalesSummaryReport
	if err := q.Scan(&report).Error; err != nil {
		return nil, err
	}
	report.FromDate = fromDate
	report.ToDate = toDate
	return &report, nil
}

func (r *invoiceRepo) DB() *gorm.DB { return r.db }
