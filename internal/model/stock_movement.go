package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement types.
const (
	MovementPurchase   = "PURCHASE"
	MovementSale       = "SALE"
	MovementAdjustment = "ADJUSTMENT"
	MovementReturn     = "RETURN"
)

// StockMovement is an immutable ledger entry recording every change to a
// product's quantity. Quantity is the signed delta. PreviousQuantity and
// NewQuantity capture the product's on-hand count around the write, which
// makes reversal exact even for SET-type adjustments.
// Entries are never mutated — only deleted, with a compensating quantity
// reversal, when explicitly reverted.
type StockMovement struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Type             string    `gorm:"not null"`
	Quantity         int       `gorm:"not null"` // signed: positive = in, negative = out
	PreviousQuantity int       `gorm:"not null"`
	NewQuantity      int       `gorm:"not null"`
	MovementDate     time.Time `gorm:"not null;index"`
	Reference        *string
	Notes            *string
	UserID           *uuid.UUID `gorm:"type:uuid"`
	CreatedAt        time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (StockMovement) TableName() string { return "inventory.stock_movements" }
