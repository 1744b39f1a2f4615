package repository

import (
	"context"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/dto"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/model"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/stock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
// All lookups are scoped by companyID; a row belonging to another company is
// indistinguishable from an absent one.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Product, error)
	FindByBarcode(ctx context.Context, companyID uuid.UUID, barcode string) (*model.Product, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	Deactivate(ctx context.Context, companyID, id uuid.UUID) error
	Reactivate(ctx context.Context, companyID, id uuid.UUID) error
	ListBelowMinimum(ctx context.Context, companyID uuid.UUID) ([]model.Product, error)
	// ListBelowMinimumAll is the cross-company variant used by the alert cron.
	ListBelowMinimumAll(ctx context.Context) ([]model.Product, error)
	Valuation(ctx context.Context, companyID uuid.UUID) (*ValuationTotals, error)

	// Used inside transactions — callers must pass the live tx
	CreateTx(tx *gorm.DB, p *model.Product) error
	FindByIDTx(tx *gorm.DB, companyID, id uuid.UUID) (*model.Product, error)
	// DecrementStockTx subtracts qty atomically, guarded so quantity can
	// never go negative. Returns false when the guard rejected the update
	// (insufficient stock) while the product itself exists.
	DecrementStockTx(tx *gorm.DB, companyID, id uuid.UUID, qty int) (bool, error)
	SetQuantityTx(tx *gorm.DB, companyID, id uuid.UUID, quantity int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Category").
		Where("id = ? AND company_id = ?", id, companyID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByBarcode(ctx context.Context, companyID uuid.UUID, barcode string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("barcode = ? AND company_id = ? AND is_active = true", barcode, companyID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, companyID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("company_id = ?", companyID)

	// IsActive filter: "false" = inactive, "all" = everything, default active
	switch filter.IsActive {
	case "false":
		q = q.Where("is_active = false")
	case "all":
		// no filter
	default:
		q = q.Where("is_active = true")
	}

	if filter.Barcode != "" {
		q = q.Where("barcode = ?", filter.Barcode)
	}
	if filter.SearchTerm != "" {
		term := "%" + filter.SearchTerm + "%"
		q = q.Where("name ILIKE ? OR name_ar ILIKE ? OR barcode = ?", term, term, filter.SearchTerm)
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	switch filter.Status {
	case stock.StatusOutOfStock:
		q = q.Where("quantity <= 0")
	case stock.StatusLowStock:
		q = q.Where("quantity > 0 AND quantity <= minimum_quantity")
	case stock.StatusActive:
		q = q.Where("quantity > minimum_quantity")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := q.Preload("Category").Order("name ASC").
		Limit(filter.PageSize).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Deactivate(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND company_id = ?", id, companyID).
		Update("is_active", false).Error
}

func (r *productRepo) Reactivate(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND company_id = ?", id, companyID).
		Update("is_active", true).Error
}

func (r *productRepo) ListBelowMinimum(ctx context.Context, companyID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND is_active = true AND quantity <= minimum_quantity", companyID).
		Order("quantity ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) ListBelowMinimumAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("is_active = true AND quantity <= minimum_quantity").
		Order("quantity ASC").Find(&products).Error
	return products, err
}

// ValuationTotals aggregates on-hand stock value across active products.
type ValuationTotals struct {
	ProductCount int             `gorm:"column:product_count"`
	TotalUnits   int             `gorm:"column:total_units"`
	TotalCost    decimal.Decimal `gorm:"column:total_cost"`
	TotalRetail  decimal.Decimal `gorm:"column:total_retail"`
}

func (r *productRepo) Valuation(ctx context.Context, companyID uuid.UUID) (*ValuationTotals, error) {
	var v ValuationTotals
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select(`COUNT(*) AS product_count,
			COALESCE(SUM(quantity), 0) AS total_units,
			COALESCE(SUM(quantity * purchase_price), 0) AS total_cost,
			COALESCE(SUM(quantity * sale_price), 0) AS total_retail`).
		Where("company_id = ? AND is_active = true", companyID).
		Scan(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, companyID, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.Where("id = ? AND company_id = ?", id, companyID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) DecrementStockTx(tx *gorm.DB, companyID, id uuid.UUID, qty int) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND company_id = ? AND quantity >= ?", id, companyID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *productRepo) SetQuantityTx(tx *gorm.DB, companyID, id uuid.UUID, quantity int) error {
	return tx.Model(&model.Product{}).
		Where("id = ? AND company_id = ?", id, companyID).
		Update("quantity", quantity).Error
}

func (r *productRepo) DB() *gorm.DB { return r.db }
