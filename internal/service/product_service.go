package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/apierror"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/dto"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/model"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/repository"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/stock"
)

// ProductCache is the read-through barcode cache keyed by company + barcode.
// Both the catalog and the inventory service invalidate through it: any write
// that changes what a barcode scan would return must drop the entry.
// *infra.ProductCache is the Redis implementation.
type ProductCache interface {
	Get(ctx context.Context, companyID, barcode string, dest interface{}) bool
	Set(ctx context.Context, companyID, barcode string, value interface{})
	Invalidate(ctx context.Context, companyID, barcode string)
}

// ProductService is the catalog CRUD plus the barcode lookup used by the POS
// screen. Quantity is never written here — a non-zero opening quantity on
// create is recorded as a PURCHASE movement, and every later change goes
// through InventoryService.
type ProductService interface {
	Create(ctx context.Context, companyID uuid.UUID, userID *uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*dto.ProductResponse, error)
	GetByBarcode(ctx context.Context, companyID uuid.UUID, barcode string) (*dto.ProductResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, companyID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, companyID, id uuid.UUID) error
	Reactivate(ctx context.Context, companyID, id uuid.UUID) (*dto.ProductResponse, error)
}

type productService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	movementRepo repository.StockMovementRepository
	cache        ProductCache
}

func NewProductService(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	movementRepo repository.StockMovementRepository,
	cache ProductCache,
) ProductService {
	return &productService{repo: repo, categoryRepo: categoryRepo, movementRepo: movementRepo, cache: cache}
}

func (s *productService) Create(ctx context.Context, companyID uuid.UUID, userID *uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	barcode := strings.TrimSpace(req.Barcode)
	if _, err := s.repo.FindByBarcode(ctx, companyID, barcode); err == nil {
		return nil, apierror.Validation("barcode already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Upstream(err)
	}

	categoryID, err := s.resolveCategory(ctx, companyID, req.CategoryID)
	if err != nil {
		return nil, err
	}

	unit := req.UnitOfMeasure
	if unit == "" {
		unit = "piece"
	}
	product := &model.Product{
		CompanyID:       companyID,
		Barcode:         barcode,
		Name:            req.Name,
		NameAr:          req.NameAr,
		Description:     req.Description,
		CategoryID:      categoryID,
		PurchasePrice:   req.PurchasePrice,
		SalePrice:       req.SalePrice,
		Quantity:        req.Quantity,
		MinimumQuantity: req.MinimumQuantity,
		MaximumQuantity: req.MaximumQuantity,
		UnitOfMeasure:   unit,
		IsActive:        true,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, product); err != nil {
			return apierror.Upstream(err)
		}
		if req.Quantity > 0 {
			// Opening stock enters the ledger like every other quantity
			ref := "Opening stock"
			mov := &model.StockMovement{
				CompanyID:        companyID,
				ProductID:        product.ID,
				Type:             model.MovementPurchase,
				Quantity:         req.Quantity,
				PreviousQuantity: 0,
				NewQuantity:      req.Quantity,
				MovementDate:     time.Now().UTC(),
				Reference:        &ref,
				UserID:           userID,
			}
			if err := s.movementRepo.CreateTx(tx, mov); err != nil {
				return apierror.Upstream(err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return productToResponse(product), nil
}

func (s *productService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, mapFindErr(err, "product")
	}
	return productToResponse(product), nil
}

// GetByBarcode serves the POS scan path through the Redis read-through cache.
func (s *productService) GetByBarcode(ctx context.Context, companyID uuid.UUID, barcode string) (*dto.ProductResponse, error) {
	barcode = strings.TrimSpace(barcode)
	var cached dto.ProductResponse
	if s.cache != nil && s.cache.Get(ctx, companyID.String(), barcode, &cached) {
		return &cached, nil
	}
	product, err := s.repo.FindByBarcode(ctx, companyID, barcode)
	if err != nil {
		return nil, mapFindErr(err, "product")
	}
	resp := productToResponse(product)
	if s.cache != nil {
		s.cache.Set(ctx, companyID.String(), barcode, resp)
	}
	return resp, nil
}

func (s *productService) List(ctx context.Context, companyID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	filter.Page, filter.PageSize = normalizePaging(filter.Page, filter.PageSize)
	products, total, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, apierror.Upstream(err)
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages(total, filter.PageSize),
	}, nil
}

// Update mutates catalog fields only. Quantity deliberately has no field here.
func (s *productService) Update(ctx context.Context, companyID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, mapFindErr(err, "product")
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.NameAr != nil {
		product.NameAr = req.NameAr
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.CategoryID != nil {
		categoryID, err := s.resolveCategory(ctx, companyID, req.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = categoryID
	}
	if req.PurchasePrice != nil {
		product.PurchasePrice = *req.PurchasePrice
	}
	if req.SalePrice != nil {
		product.SalePrice = *req.SalePrice
	}
	if req.MinimumQuantity != nil {
		product.MinimumQuantity = *req.MinimumQuantity
	}
	if req.MaximumQuantity != nil {
		product.MaximumQuantity = req.MaximumQuantity
	}
	if req.UnitOfMeasure != nil {
		product.UnitOfMeasure = *req.UnitOfMeasure
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, apierror.Upstream(err)
	}
	s.invalidate(ctx, companyID, product.Barcode)
	return productToResponse(product), nil
}

func (s *productService) Deactivate(ctx context.Context, companyID, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return mapFindErr(err, "product")
	}
	if err := s.repo.Deactivate(ctx, companyID, id); err != nil {
		return apierror.Upstream(err)
	}
	s.invalidate(ctx, companyID, product.Barcode)
	return nil
}

func (s *productService) Reactivate(ctx context.Context, companyID, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, mapFindErr(err, "product")
	}
	if err := s.repo.Reactivate(ctx, companyID, id); err != nil {
		return nil, apierror.Upstream(err)
	}
	product.IsActive = true
	s.invalidate(ctx, companyID, product.Barcode)
	return productToResponse(product), nil
}

func (s *productService) invalidate(ctx context.Context, companyID uuid.UUID, barcode string) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, companyID.String(), barcode)
}

func (s *productService) resolveCategory(ctx context.Context, companyID uuid.UUID, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	categoryID, err := uuid.Parse(*raw)
	if err != nil {
		return nil, apierror.Validation("invalid categoryId")
	}
	if _, err := s.categoryRepo.FindByID(ctx, companyID, categoryID); err != nil {
		return nil, mapFindErr(err, "category")
	}
	return &categoryID, nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:              p.ID.String(),
		Barcode:         p.Barcode,
		Name:            p.Name,
		NameAr:          p.NameAr,
		Description:     p.Description,
		PurchasePrice:   p.PurchasePrice.Round(2),
		SalePrice:       p.SalePrice.Round(2),
		Quantity:        p.Quantity,
		MinimumQuantity: p.MinimumQuantity,
		MaximumQuantity: p.MaximumQuantity,
		UnitOfMeasure:   p.UnitOfMeasure,
		Status:          stock.DeriveStatus(p.Quantity, p.MinimumQuantity),
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
	if p.CategoryID != nil {
		id := p.CategoryID.String()
		resp.CategoryID = &id
	}
	if p.Category != nil {
		resp.CategoryName = &p.Category.Name
	}
	return resp
}
