package repository

import (
	"context"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/dto"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockMovementRepository persists the immutable movement ledger.
// Rows are only ever inserted, or deleted during an explicit reversal —
// both always inside the same transaction as the product quantity write.
type StockMovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.StockMovement, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.MovementFilter) ([]model.StockMovement, int64, error)
	DeleteTx(tx *gorm.DB, companyID, id uuid.UUID) error
	SummaryByType(ctx context.Context, companyID uuid.UUID, fromDate, toDate string) ([]dto.MovementSummaryRow, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *stockMovementRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.StockMovement, error) {
	var m model.StockMovement
	err := r.db.WithContext(ctx).Preload("Product").
		Where("id = ? AND company_id = ?", id, companyID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *stockMovementRepo) List(ctx context.Context, companyID uuid.UUID, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	var movements []model.StockMovement
	var total int64

	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).Where("company_id = ?", companyID)

	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.FromDate != "" {
		q = q.Where("movement_date >= ?", filter.FromDate)
	}
	if filter.ToDate != "" {
		q = q.Where("movement_date <= ?", filter.ToDate)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := q.Preload("Product").Order("movement_date DESC, created_at DESC").
		Limit(filter.PageSize).Offset(offset).Find(&movements).Error
	return movements, total, err
}

func (r *stockMovementRepo) DeleteTx(tx *gorm.DB, companyID, id uuid.UUID) error {
	return tx.Where("id = ? AND company_id = ?", id, companyID).
		Delete(&model.StockMovement{}).Error
}

func (r *stockMovementRepo) SummaryByType(ctx context.Context, companyID uuid.UUID, fromDate, toDate string) ([]dto.MovementSummaryRow, error) {
	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Select(`type,
			COUNT(*) AS count,
			COALESCE(SUM(CASE WHEN quantity > 0 THEN quantity ELSE 0 END), 0) AS units_in,
			COALESCE(SUM(CASE WHEN quantity < 0 THEN -quantity ELSE 0 END), 0) AS units_out`).
		Where("company_id = ?", companyID).
		Group("type")
	if fromDate != "" {
		q = q.Where("movement_date >= ?", fromDate)
	}
	if toDate != "" {
		q = q.Where("movement_date <= ?", toDate)
	}

	var rows []dto.MovementSummaryRow
	err := q.Order("type ASC").Scan(&rows).Error
	return rows, err
}
