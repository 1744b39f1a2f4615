package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/apierror"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/model"
)

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, StatusOutOfStock, DeriveStatus(0, 5))
	assert.Equal(t, StatusOutOfStock, DeriveStatus(-1, 5))
	assert.Equal(t, StatusLowStock, DeriveStatus(5, 5))
	assert.Equal(t, StatusLowStock, DeriveStatus(1, 5))
	assert.Equal(t, StatusActive, DeriveStatus(6, 5))
}

func TestApply_PurchaseAndReturnIncrease(t *testing.T) {
	r, err := Apply(10, model.MovementPurchase, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, r.NewQuantity)
	assert.Equal(t, 5, r.Delta)

	r, err = Apply(10, model.MovementReturn, 3)
	require.NoError(t, err)
	assert.Equal(t, 13, r.NewQuantity)
	assert.Equal(t, 3, r.Delta)
}

func TestApply_SaleDecrements(t *testing.T) {
	r, err := Apply(50, model.MovementSale, 2)
	require.NoError(t, err)
	assert.Equal(t, 48, r.NewQuantity)
	assert.Equal(t, -2, r.Delta)
}

func TestApply_SaleInsufficientStock(t *testing.T) {
	// Selling 10 with only 5 on hand must fail and change nothing
	_, err := Apply(5, model.MovementSale, 10)
	require.Error(t, err)
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))
}

func TestApply_RejectsNonPositiveQuantity(t *testing.T) {
	_, err := Apply(10, model.MovementSale, 0)
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	_, err = Apply(10, model.MovementPurchase, -4)
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestApplyAdjustment_Set(t *testing.T) {
	r, err := ApplyAdjustment(12, OpSet, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, r.NewQuantity)
	assert.Equal(t, 18, r.Delta)

	// SET below current yields a negative delta
	r, err = ApplyAdjustment(30, OpSet, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, r.NewQuantity)
	assert.Equal(t, -18, r.Delta)
}

func TestApplyAdjustment_SubtractGuard(t *testing.T) {
	_, err := ApplyAdjustment(3, OpSubtract, 5)
	require.Error(t, err)
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))
}

func TestReverse_ExactUndo(t *testing.T) {
	// Deleting a +20 PURCHASE while current stock is 70 lands on 50
	r, err := Reverse(70, 20)
	require.NoError(t, err)
	assert.Equal(t, 50, r.NewQuantity)

	// Reversing a −2 SALE adds the units back
	r, err = Reverse(48, -2)
	require.NoError(t, err)
	assert.Equal(t, 50, r.NewQuantity)
}

func TestReverse_CannotGoNegative(t *testing.T) {
	// The purchased units were already sold on — reversal must be rejected
	_, err := Reverse(10, 20)
	require.Error(t, err)
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))
}
