package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supplier is a vendor the business purchases stock from.
type Supplier struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name          string    `gorm:"index;not null"`
	NameAr        *string
	ContactPerson *string
	Phone         *string
	Email         *string
	Address       *string
	TaxNumber     *string
	Balance       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsActive      bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Supplier) TableName() string { return "purchases.suppliers" }
