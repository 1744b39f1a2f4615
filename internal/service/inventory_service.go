package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/apierror"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/dto"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/model"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/repository"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/stock"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/worker"
)

// InventoryService owns every quantity change. The invariant it enforces:
// each change writes exactly one StockMovement row and updates exactly one
// Product row, inside a single transaction. Reversal deletes the movement
// and applies the inverse delta, also as one unit. Every quantity write also
// drops the product's barcode cache entry so the POS scan path never serves
// a quantity older than the last write.
type InventoryService interface {
	RecordMovement(ctx context.Context, companyID uuid.UUID, userID *uuid.UUID, req dto.CreateMovementRequest) (*dto.StockChangeResponse, error)
	AdjustStock(ctx context.Context, companyID uuid.UUID, userID *uuid.UUID, productID uuid.UUID, req dto.AdjustStockRequest) (*dto.StockChangeResponse, error)
	ReverseMovement(ctx context.Context, companyID, movementID uuid.UUID) (*dto.StockChangeResponse, error)
	ListMovements(ctx context.Context, companyID uuid.UUID, filter dto.MovementFilter) (*dto.MovementListResponse, error)

	// SaleTx applies a SALE movement inside a caller-owned transaction
	// (invoice creation). Returns the persisted movement so the caller can
	// raise low-stock alerts after commit.
	SaleTx(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, userID *uuid.UUID, productID uuid.UUID, qty int, reference string) (*model.StockMovement, error)
	// ReturnTx applies a RETURN movement inside a caller-owned transaction
	// (invoice restock / hard delete).
	ReturnTx(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, userID *uuid.UUID, productID uuid.UUID, qty int, reference string) (*model.StockMovement, error)
}

type inventoryService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	dispatcher   *worker.Dispatcher
	cache        ProductCache
}

func NewInventoryService(productRepo repository.ProductRepository, movementRepo repository.StockMovementRepository, dispatcher *worker.Dispatcher, cache ProductCache) InventoryService {
	return &inventoryService{productRepo: productRepo, movementRepo: movementRepo, dispatcher: dispatcher, cache: cache}
}

func (s *inventoryService) RecordMovement(ctx context.Context, companyID uuid.UUID, userID *uuid.UUID, req dto.CreateMovementRequest) (*dto.StockChangeResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.Validation("invalid productId")
	}
	movementDate := time.Now().UTC()
	if req.Date != nil {
		parsed, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			return nil, apierror.Validation("date must be RFC 3339")
		}
		movementDate = parsed
	}

	var mov *model.StockMovement
	var product *model.Product
	txErr := runTx(ctx, s.productRepo.DB(), func(tx *gorm.DB) error {
		p, err := s.productRepo.FindByIDTx(tx, companyID, productID)
		if err != nil {
			return mapFindErr(err, "product")
		}
		result, err := stock.Apply(p.Quantity, req.Type, req.Quantity)
		if err != nil {
			return err
		}

		if req.Type == model.MovementSale {
			// Conditional decrement so a concurrent sale cannot slip the
			// quantity below zero between our read and write.
			ok, err := s.productRepo.DecrementStockTx(tx, companyID, productID, req.Quantity)
			if err != nil {
				return apierror.Upstream(err)
			}
			if !ok {
				return apierror.InsufficientStock("insufficient stock for sale")
			}
		} else {
			if err := s.productRepo.SetQuantityTx(tx, companyID, productID, result.NewQuantity); err != nil {
				return apierror.Upstream(err)
			}
		}

		mov = &model.StockMovement{
			CompanyID:        companyID,
			ProductID:        productID,
			Type:             req.Type,
			Quantity:         result.Delta,
			PreviousQuantity: p.Quantity,
			NewQuantity:      result.NewQuantity,
			MovementDate:     movementDate,
			Reference:        req.Reference,
			Notes:            req.Notes,
			UserID:           userID,
		}
		if err := s.movementRepo.CreateTx(tx, mov); err != nil {
			return apierror.Upstream(err)
		}
		p.Quantity = result.NewQuantity
		product = p
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidateCache(ctx, product)
	s.maybeAlertLowStock(ctx, product)
	return s.stockChangeResponse(mov, product), nil
}

func (s *inventoryService) AdjustStock(ctx context.Context, companyID uuid.UUID, userID *uuid.UUID, productID uuid.UUID, req dto.AdjustStockRequest) (*dto.StockChangeResponse, error) {
	var mov *model.StockMovement
	var product *model.Product
	txErr := runTx(ctx, s.productRepo.DB(), func(tx *gorm.DB) error {
		p, err := s.productRepo.FindByIDTx(tx, companyID, productID)
		if err != nil {
			return mapFindErr(err, "product")
		}
		result, err := stock.ApplyAdjustment(p.Quantity, req.Operation, req.Quantity)
		if err != nil {
			return err
		}

		if req.Operation == stock.OpSubtract {
			ok, err := s.productRepo.DecrementStockTx(tx, companyID, productID, req.Quantity)
			if err != nil {
				return apierror.Upstream(err)
			}
			if !ok {
				return apierror.InsufficientStock("insufficient stock for adjustment")
			}
		} else {
			if err := s.productRepo.SetQuantityTx(tx, companyID, productID, result.NewQuantity); err != nil {
				return apierror.Upstream(err)
			}
		}

		mov = &model.StockMovement{
			CompanyID:        companyID,
			ProductID:        productID,
			Type:             model.MovementAdjustment,
			Quantity:         result.Delta,
			PreviousQuantity: p.Quantity,
			NewQuantity:      result.NewQuantity,
			MovementDate:     time.Now().UTC(),
			Notes:            req.Notes,
			UserID:           userID,
		}
		if err := s.movementRepo.CreateTx(tx, mov); err != nil {
			return apierror.Upstream(err)
		}
		p.Quantity = result.NewQuantity
		product = p
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidateCache(ctx, product)
	s.maybeAlertLowStock(ctx, product)
	return s.stockChangeResponse(mov, product), nil
}

// ReverseMovement deletes a ledger entry and applies the inverse delta to the
// product. The stored delta makes this exact for every movement type,
// including SET adjustments.
func (s *inventoryService) ReverseMovement(ctx context.Context, companyID, movementID uuid.UUID) (*dto.StockChangeResponse, error) {
	mov, err := s.movementRepo.FindByID(ctx, companyID, movementID)
	if err != nil {
		return nil, mapFindErr(err, "stock movement")
	}

	var product *model.Product
	var result stock.Result
	txErr := runTx(ctx, s.productRepo.DB(), func(tx *gorm.DB) error {
		p, err := s.productRepo.FindByIDTx(tx, companyID, mov.ProductID)
		if err != nil {
			return mapFindErr(err, "product")
		}
		result, err = stock.Reverse(p.Quantity, mov.Quantity)
		if err != nil {
			return err
		}
		if err := s.productRepo.SetQuantityTx(tx, companyID, mov.ProductID, result.NewQuantity); err != nil {
			return apierror.Upstream(err)
		}
		if err := s.movementRepo.DeleteTx(tx, companyID, movementID); err != nil {
			return apierror.Upstream(err)
		}
		p.Quantity = result.NewQuantity
		product = p
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidateCache(ctx, product)
	s.maybeAlertLowStock(ctx, product)
	resp := movementToResponse(mov)
	return &dto.StockChangeResponse{
		Movement:    resp,
		NewQuantity: product.Quantity,
		Status:      stock.DeriveStatus(product.Quantity, product.MinimumQuantity),
	}, nil
}

func (s *inventoryService) ListMovements(ctx context.Context, companyID uuid.UUID, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	filter.Page, filter.PageSize = normalizePaging(filter.Page, filter.PageSize)
	movements, total, err := s.movementRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, apierror.Upstream(err)
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		items = append(items, movementToResponse(&movements[i]))
	}
	return &dto.MovementListResponse{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages(total, filter.PageSize),
	}, nil
}

func (s *inventoryService) SaleTx(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, userID *uuid.UUID, productID uuid.UUID, qty int, reference string) (*model.StockMovement, error) {
	p, err := s.productRepo.FindByIDTx(tx, companyID, productID)
	if err != nil {
		return nil, mapFindErr(err, "product")
	}
	result, err := stock.Apply(p.Quantity, model.MovementSale, qty)
	if err != nil {
		return nil, err
	}
	ok, err := s.productRepo.DecrementStockTx(tx, companyID, productID, qty)
	if err != nil {
		return nil, apierror.Upstream(err)
	}
	if !ok {
		return nil, apierror.InsufficientStock("insufficient stock for sale")
	}
	mov := &model.StockMovement{
		CompanyID:        companyID,
		ProductID:        productID,
		Type:             model.MovementSale,
		Quantity:         result.Delta,
		PreviousQuantity: p.Quantity,
		NewQuantity:      result.NewQuantity,
		MovementDate:     time.Now().UTC(),
		Reference:        &reference,
		UserID:           userID,
	}
	mov.Product = p
	if err := s.movementRepo.CreateTx(tx, mov); err != nil {
		return nil, apierror.Upstream(err)
	}
	// Dropping the entry on rollback is harmless; serving after commit is not.
	s.invalidateCache(ctx, p)
	return mov, nil
}

func (s *inventoryService) ReturnTx(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, userID *uuid.UUID, productID uuid.UUID, qty int, reference string) (*model.StockMovement, error) {
	p, err := s.productRepo.FindByIDTx(tx, companyID, productID)
	if err != nil {
		return nil, mapFindErr(err, "product")
	}
	result, err := stock.Apply(p.Quantity, model.MovementReturn, qty)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.SetQuantityTx(tx, companyID, productID, result.NewQuantity); err != nil {
		return nil, apierror.Upstream(err)
	}
	mov := &model.StockMovement{
		CompanyID:        companyID,
		ProductID:        productID,
		Type:             model.MovementReturn,
		Quantity:         result.Delta,
		PreviousQuantity: p.Quantity,
		NewQuantity:      result.NewQuantity,
		MovementDate:     time.Now().UTC(),
		Reference:        &reference,
		UserID:           userID,
	}
	if err := s.movementRepo.CreateTx(tx, mov); err != nil {
		return nil, apierror.Upstream(err)
	}
	s.invalidateCache(ctx, p)
	return mov, nil
}

// invalidateCache drops the product's barcode cache entry after a quantity
// write so the scan path re-reads from the database.
func (s *inventoryService) invalidateCache(ctx context.Context, p *model.Product) {
	if s.cache == nil || p == nil {
		return
	}
	s.cache.Invalidate(ctx, p.CompanyID.String(), p.Barcode)
}

// maybeAlertLowStock enqueues a low-stock alert job once the quantity is at
// or below the product's minimum. Fire-and-forget — alerting must never fail
// the stock operation.
func (s *inventoryService) maybeAlertLowStock(ctx context.Context, p *model.Product) {
	if s.dispatcher == nil || p == nil {
		return
	}
	if p.Quantity > p.MinimumQuantity {
		return
	}
	_ = s.dispatcher.EnqueueLowStockAlert(ctx, worker.LowStockAlertPayload{
		ProductID:       p.ID.String(),
		ProductName:     p.Name,
		Barcode:         p.Barcode,
		Quantity:        p.Quantity,
		MinimumQuantity: p.MinimumQuantity,
	})
}

func (s *inventoryService) stockChangeResponse(mov *model.StockMovement, p *model.Product) *dto.StockChangeResponse {
	resp := movementToResponse(mov)
	resp.ProductName = p.Name
	return &dto.StockChangeResponse{
		Movement:    resp,
		NewQuantity: p.Quantity,
		Status:      stock.DeriveStatus(p.Quantity, p.MinimumQuantity),
	}
}

func movementToResponse(m *model.StockMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:               m.ID.String(),
		ProductID:        m.ProductID.String(),
		Type:             m.Type,
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		MovementDate:     m.MovementDate.Format(time.RFC3339),
		Reference:        m.Reference,
		Notes:            m.Notes,
		CreatedAt:        m.CreatedAt.Format(time.RFC3339),
	}
	if m.Product != nil {
		resp.ProductName = m.Product.Name
	}
	return resp
}

// mapFindErr converts a repository lookup failure into the public taxonomy.
// Missing rows and cross-company rows both become NotFound.
func mapFindErr(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NotFound(resource)
	}
	return apierror.Upstream(err)
}

// normalizePaging applies the 1/20 defaults and the hard pageSize cap of 100.
// Filters are clamped here, not rejected, so an oversized pageSize degrades
// to the cap instead of a 400.
func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

const maxPageSize = 100

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
