package repository

import (
	"context"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/dto"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Customer, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.CustomerFilter) ([]model.Customer, int64, error)
	Update(ctx context.Context, c *model.Customer) error
	Deactivate(ctx context.Context, companyID, id uuid.UUID) error
	// AdjustBalanceTx adds delta to the customer's running balance. Positive
	// delta means the customer owes more.
	AdjustBalanceTx(tx *gorm.DB, companyID, id uuid.UUID, delta decimal.Decimal) error
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) List(ctx context.Context, companyID uuid.UUID, filter dto.CustomerFilter) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Customer{}).Where("company_id = ?", companyID)

	switch filter.IsActive {
	case "false":
		q = q.Where("is_active = false")
	case "all":
	default:
		q = q.Where("is_active = true")
	}
	if filter.SearchTerm != "" {
		term := "%" + filter.SearchTerm + "%"
		q = q.Where("name ILIKE ? OR name_ar ILIKE ? OR phone ILIKE ?", term, term, term)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := q.Order("name ASC").Limit(filter.PageSize).Offset(offset).Find(&customers).Error
	return customers, total, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) Deactivate(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("id = ? AND company_id = ?", id, companyID).
		Update("is_active", false).Error
}

func (r *customerRepo) AdjustBalanceTx(tx *gorm.DB, companyID, id uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.Customer{}).
		Where("id = ? AND company_id = ?", id, companyID).
		Update("balance", gorm.Expr("balance + ?", delta)).Error
}
