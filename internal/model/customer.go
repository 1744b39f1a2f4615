package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a buyer on sales invoices. Balance is the running amount owed.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"index;not null"`
	NameAr    *string
	Phone     *string
	Email     *string
	Address   *string
	TaxNumber *string
	Balance   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsActive  bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Customer) TableName() string { return "sales.customers" }
