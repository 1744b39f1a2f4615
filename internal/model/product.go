package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item with an on-hand quantity. Quantity is mutated
// only through stock movements — never written directly by update handlers.
// Stock status (ACTIVE / LOW_STOCK / OUT_OF_STOCK) is derived from quantity
// vs MinimumQuantity at read time and never stored.
type Product struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_products_company_barcode"`
	Barcode         string    `gorm:"not null;uniqueIndex:idx_products_company_barcode"`
	Name            string    `gorm:"index;not null"`
	NameAr          *string   `gorm:"index"`
	Description     *string
	CategoryID      *uuid.UUID      `gorm:"type:uuid;index"`
	PurchasePrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SalePrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity        int             `gorm:"not null;default:0"`
	MinimumQuantity int             `gorm:"not null;default:5"`
	MaximumQuantity *int
	UnitOfMeasure   string `gorm:"not null;default:'piece'"`
	IsActive        bool   `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}

func (Product) TableName() string { return "inventory.products" }
