// Package stock holds the pure inventory ledger rules: how each movement
// type changes a product's on-hand quantity, the derived stock status, and
// exact movement reversal. Persistence lives in the inventory service; this
// package is arithmetic and guards only.
package stock

import (
	"fmt"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/apierror"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/model"
)

// Adjustment operations.
const (
	OpAdd      = "ADD"
	OpSubtract = "SUBTRACT"
	OpSet      = "SET"
)

// Stock statuses, derived from quantity vs minimum threshold.
const (
	StatusActive     = "ACTIVE"
	StatusLowStock   = "LOW_STOCK"
	StatusOutOfStock = "OUT_OF_STOCK"
)

// DeriveStatus classifies a quantity against its minimum threshold.
// quantity ≤ 0 → OUT_OF_STOCK; quantity ≤ minimum → LOW_STOCK; else ACTIVE.
func DeriveStatus(quantity, minimum int) string {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= minimum:
		return StatusLowStock
	default:
		return StatusActive
	}
}

// Result describes the effect of applying a movement.
type Result struct {
	NewQuantity int
	Delta       int // signed delta recorded on the movement row
}

// Apply computes the new quantity for a PURCHASE, SALE or RETURN movement.
// quantity must be positive; SALE fails with InsufficientStock when the
// result would be negative, leaving the caller's state untouched.
func Apply(current int, movementType string, quantity int) (Result, error) {
	if quantity <= 0 {
		return Result{}, apierror.Validation("movement quantity must be positive")
	}
	switch movementType {
	case model.MovementPurchase, model.MovementReturn:
		return Result{NewQuantity: current + quantity, Delta: quantity}, nil
	case model.MovementSale:
		if current-quantity < 0 {
			return Result{}, apierror.InsufficientStock(
				fmt.Sprintf("insufficient stock: have %d, need %d", current, quantity))
		}
		return Result{NewQuantity: current - quantity, Delta: -quantity}, nil
	default:
		return Result{}, apierror.Validation("unknown movement type " + movementType)
	}
}

// ApplyAdjustment computes the new quantity for an ADJUSTMENT movement.
// ADD and SUBTRACT behave like PURCHASE and SALE; SET replaces the quantity
// outright, recording delta = newValue − oldValue (possibly negative).
func ApplyAdjustment(current int, op string, quantity int) (Result, error) {
	switch op {
	case OpAdd:
		if quantity <= 0 {
			return Result{}, apierror.Validation("adjustment quantity must be positive")
		}
		return Result{NewQuantity: current + quantity, Delta: quantity}, nil
	case OpSubtract:
		if quantity <= 0 {
			return Result{}, apierror.Validation("adjustment quantity must be positive")
		}
		if current-quantity < 0 {
			return Result{}, apierror.InsufficientStock(
				fmt.Sprintf("insufficient stock: have %d, subtract %d", current, quantity))
		}
		return Result{NewQuantity: current - quantity, Delta: -quantity}, nil
	case OpSet:
		if quantity < 0 {
			return Result{}, apierror.Validation("adjustment target quantity must not be negative")
		}
		return Result{NewQuantity: quantity, Delta: quantity - current}, nil
	default:
		return Result{}, apierror.Validation("unknown adjustment operation " + op)
	}
}

// Reverse computes the quantity after undoing a recorded movement delta.
// The stored delta makes every reversal exact, including SET adjustments.
// Reversing an inbound movement after the stock has since been sold can
// still not drive the quantity negative.
func Reverse(current, delta int) (Result, error) {
	reverted := current - delta
	if reverted < 0 {
		return Result{}, apierror.InsufficientStock(
			fmt.Sprintf("reversal would drive stock negative: have %d, reverting %+d", current, delta))
	}
	return Result{NewQuantity: reverted, Delta: -delta}, nil
}
