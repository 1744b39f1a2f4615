package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/apierror"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/dto"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/model"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/stock"
)

func newTestProduct(companyID uuid.UUID, qty, min int) *model.Product {
	return &model.Product{
		ID:              uuid.New(),
		CompanyID:       companyID,
		Barcode:         "100001",
		Name:            "Test Product",
		Quantity:        qty,
		MinimumQuantity: min,
		IsActive:        true,
	}
}

func TestRecordMovement_SaleDecrementsAndWritesLedger(t *testing.T) {
	companyID := uuid.New()
	product := newTestProduct(companyID, 50, 5)
	productRepo := newStubProductRepo(product)
	movementRepo := newStubMovementRepo()
	svc := NewInventoryService(productRepo, movementRepo, nil, nil)

	resp, err := svc.RecordMovement(context.Background(), companyID, nil, dto.CreateMovementRequest{
		ProductID: product.ID.String(),
		Type:      model.MovementSale,
		Quantity:  2,
	})
	require.NoError(t, err)

	assert.Equal(t, 48, resp.NewQuantity)
	assert.Equal(t, stock.StatusActive, resp.Status)

	ledger := movementRepo.byProduct(product.ID)
	require.Len(t, ledger, 1)
	assert.Equal(t, model.MovementSale, ledger[0].Type)
	assert.Equal(t, -2, ledger[0].Quantity)
	assert.Equal(t, 50, ledger[0].PreviousQuantity)
	assert.Equal(t, 48, ledger[0].NewQuantity)
	assert.Equal(t, 48, product.Quantity)
}

func TestRecordMovement_SaleInsufficientStock(t *testing.T) {
	companyID := uuid.New()
	product := newTestProduct(companyID, 5, 2)
	productRepo := newStubProductRepo(product)
	movementRepo := newStubMovementRepo()
	svc := NewInventoryService(productRepo, movementRepo, nil, nil)

	_, err := svc.RecordMovement(context.Background(), companyID, nil, dto.CreateMovementRequest{
		ProductID: product.ID.String(),
		Type:      model.MovementSale,
		Quantity:  10,
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))

	// Nothing written, nothing changed
	assert.Empty(t, movementRepo.byProduct(product.ID))
	assert.Equal(t, 5, product.Quantity)
}

func TestRecordMovement_CrossCompanyIsNotFound(t *testing.T) {
	product := newTestProduct(uuid.New(), 10, 2)
	productRepo := newStubProductRepo(product)
	svc := NewInventoryService(productRepo, newStubMovementRepo(), nil, nil)

	_, err := svc.RecordMovement(context.Background(), uuid.New(), nil, dto.CreateMovementRequest{
		ProductID: product.ID.String(),
		Type:      model.MovementPurchase,
		Quantity:  1,
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestAdjustStock_SetRecordsSignedDelta(t *testing.T) {
	companyID := uuid.New()
	product := newTestProduct(companyID, 12, 5)
	productRepo := newStubProductRepo(product)
	movementRepo := newStubMovementRepo()
	svc := NewInventoryService(productRepo, movementRepo, nil, nil)

	resp, err := svc.AdjustStock(context.Background(), companyID, nil, product.ID, dto.AdjustStockRequest{
		Operation: stock.OpSet,
		Quantity:  30,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, resp.NewQuantity)

	ledger := movementRepo.byProduct(product.ID)
	require.Len(t, ledger, 1)
	assert.Equal(t, model.MovementAdjustment, ledger[0].Type)
	assert.Equal(t, 18, ledger[0].Quantity)
	assert.Equal(t, 12, ledger[0].PreviousQuantity)
	assert.Equal(t, 30, ledger[0].NewQuantity)
}

func TestAdjustStock_SubtractBelowZeroRejected(t *testing.T) {
	companyID := uuid.New()
	product := newTestProduct(companyID, 3, 1)
	svc := NewInventoryService(newStubProductRepo(product), newStubMovementRepo(), nil, nil)

	_, err := svc.AdjustStock(context.Background(), companyID, nil, product.ID, dto.AdjustStockRequest{
		Operation: stock.OpSubtract,
		Quantity:  5,
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))
	assert.Equal(t, 3, product.Quantity)
}

func TestReverseMovement_RestoresExactQuantity(t *testing.T) {
	companyID := uuid.New()
	product := newTestProduct(companyID, 50, 5)
	productRepo := newStubProductRepo(product)
	movementRepo := newStubMovementRepo()
	svc := NewInventoryService(productRepo, movementRepo, nil, nil)

	// Record a +20 purchase, then unrelated stock motion, then revert it
	resp, err := svc.RecordMovement(context.Background(), companyID, nil, dto.CreateMovementRequest{
		ProductID: product.ID.String(),
		Type:      model.MovementPurchase,
		Quantity:  20,
	})
	require.NoError(t, err)
	assert.Equal(t, 70, resp.NewQuantity)
	movementID := movementRepo.byProduct(product.ID)[0].ID

	reversed, err := svc.ReverseMovement(context.Background(), companyID, movementID)
	require.NoError(t, err)
	assert.Equal(t, 50, reversed.NewQuantity)
	assert.Equal(t, 50, product.Quantity)
	assert.Empty(t, movementRepo.byProduct(product.ID), "ledger entry must be deleted")
}

func TestReverseMovement_RejectedWhenStockAlreadyGone(t *testing.T) {
	companyID := uuid.New()
	product := newTestProduct(companyID, 30, 5)
	productRepo := newStubProductRepo(product)
	movementRepo := newStubMovementRepo()
	svc := NewInventoryService(productRepo, movementRepo, nil, nil)

	_, err := svc.RecordMovement(context.Background(), companyID, nil, dto.CreateMovementRequest{
		ProductID: product.ID.String(),
		Type:      model.MovementPurchase,
		Quantity:  20,
	})
	require.NoError(t, err)
	movementID := movementRepo.byProduct(product.ID)[0].ID

	// Sell most of it so the purchase can no longer be undone
	_, err = svc.RecordMovement(context.Background(), companyID, nil, dto.CreateMovementRequest{
		ProductID: product.ID.String(),
		Type:      model.MovementSale,
		Quantity:  45,
	})
	require.NoError(t, err)

	_, err = svc.ReverseMovement(context.Background(), companyID, movementID)
	require.Error(t, err)
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))
	assert.Equal(t, 5, product.Quantity)
}

func TestListMovements_FiltersByType(t *testing.T) {
	companyID := uuid.New()
	product := newTestProduct(companyID, 10, 2)
	productRepo := newStubProductRepo(product)
	movementRepo := newStubMovementRepo()
	svc := NewInventoryService(productRepo, movementRepo, nil, nil)

	for _, req := range []dto.CreateMovementRequest{
		{ProductID: product.ID.String(), Type: model.MovementPurchase, Quantity: 5},
		{ProductID: product.ID.String(), Type: model.MovementSale, Quantity: 3},
	} {
		_, err := svc.RecordMovement(context.Background(), companyID, nil, req)
		require.NoError(t, err)
	}

	resp, err := svc.ListMovements(context.Background(), companyID, dto.MovementFilter{
		Type: model.MovementSale, Page: 1, PageSize: 20,
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, model.MovementSale, resp.Data[0].Type)
	assert.Equal(t, int64(1), resp.Total)
}

func TestQuantityWrites_DropBarcodeCacheEntry(t *testing.T) {
	companyID := uuid.New()
	product := newTestProduct(companyID, 50, 5)
	productRepo := newStubProductRepo(product)
	movementRepo := newStubMovementRepo()
	cache := newStubProductCache()
	svc := NewInventoryService(productRepo, movementRepo, nil, cache)

	seed := func() {
		cache.Set(context.Background(), companyID.String(), product.Barcode, product)
		require.True(t, cache.has(companyID, product.Barcode))
	}

	seed()
	_, err := svc.RecordMovement(context.Background(), companyID, nil, dto.CreateMovementRequest{
		ProductID: product.ID.String(),
		Type:      model.MovementPurchase,
		Quantity:  20,
	})
	require.NoError(t, err)
	assert.False(t, cache.has(companyID, product.Barcode), "RecordMovement must drop the cache entry")
	movementID := movementRepo.byProduct(product.ID)[0].ID

	seed()
	_, err = svc.AdjustStock(context.Background(), companyID, nil, product.ID, dto.AdjustStockRequest{
		Operation: stock.OpSet,
		Quantity:  60,
	})
	require.NoError(t, err)
	assert.False(t, cache.has(companyID, product.Barcode), "AdjustStock must drop the cache entry")

	seed()
	_, err = svc.ReverseMovement(context.Background(), companyID, movementID)
	require.NoError(t, err)
	assert.False(t, cache.has(companyID, product.Barcode), "ReverseMovement must drop the cache entry")
}

func TestListMovements_PageSizeCapped(t *testing.T) {
	companyID := uuid.New()
	product := newTestProduct(companyID, 50, 5)
	svc := NewInventoryService(newStubProductRepo(product), newStubMovementRepo(), nil, nil)

	resp, err := svc.ListMovements(context.Background(), companyID, dto.MovementFilter{Page: 0, PageSize: 10000})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 100, resp.PageSize)
}
