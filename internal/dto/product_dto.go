package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Barcode         string          `json:"barcode"          validate:"required,min=4,max=32"`
	Name            string          `json:"name"             validate:"required,min=2,max=120"`
	NameAr          *string         `json:"nameAr"`
	Description     *string         `json:"description"`
	CategoryID      *string         `json:"categoryId"       validate:"omitempty,uuid"`
	PurchasePrice   decimal.Decimal `json:"purchasePrice"    validate:"required,min=0"`
	SalePrice       decimal.Decimal `json:"salePrice"        validate:"required,min=0"`
	Quantity        int             `json:"quantity"         validate:"min=0"`
	MinimumQuantity int             `json:"minimumQuantity"  validate:"min=0"`
	MaximumQuantity *int            `json:"maximumQuantity"  validate:"omitempty,min=0"`
	UnitOfMeasure   string          `json:"unitOfMeasure"`
}

type UpdateProductRequest struct {
	Name            *string          `json:"name"             validate:"omitempty,min=2,max=120"`
	NameAr          *string          `json:"nameAr"`
	Description     *string          `json:"description"`
	CategoryID      *string          `json:"categoryId"       validate:"omitempty,uuid"`
	PurchasePrice   *decimal.Decimal `json:"purchasePrice"    validate:"omitempty,min=0"`
	SalePrice       *decimal.Decimal `json:"salePrice"        validate:"omitempty,min=0"`
	MinimumQuantity *int             `json:"minimumQuantity"  validate:"omitempty,min=0"`
	MaximumQuantity *int             `json:"maximumQuantity"  validate:"omitempty,min=0"`
	UnitOfMeasure   *string          `json:"unitOfMeasure"`
}

// AdjustStockRequest carries a manual ADJUSTMENT with its operation flag.
type AdjustStockRequest struct {
	Operation string  `json:"operation" validate:"required,oneof=ADD SUBTRACT SET"`
	Quantity  int     `json:"quantity"  validate:"min=0"`
	Notes     *string `json:"notes"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	SearchTerm string `form:"searchTerm"`
	Barcode    string `form:"barcode"`
	CategoryID string `form:"categoryId"`
	Status     string `form:"status"`   // ACTIVE | LOW_STOCK | OUT_OF_STOCK
	IsActive   string `form:"isActive"` // "false" = inactive, "all" = everything, default active
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"pageSize,default=20"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID              string          `json:"id"`
	Barcode         string          `json:"barcode"`
	Name            string          `json:"name"`
	NameAr          *string         `json:"nameAr"`
	Description     *string         `json:"description"`
	CategoryID      *string         `json:"categoryId"`
	CategoryName    *string         `json:"categoryName,omitempty"`
	PurchasePrice   decimal.Decimal `json:"purchasePrice"`
	SalePrice       decimal.Decimal `json:"salePrice"`
	Quantity        int             `json:"quantity"`
	MinimumQuantity int             `json:"minimumQuantity"`
	MaximumQuantity *int            `json:"maximumQuantity"`
	UnitOfMeasure   string          `json:"unitOfMeasure"`
	Status          string          `json:"status"` // derived, never stored
	IsActive        bool            `json:"isActive"`
	CreatedAt       string          `json:"createdAt"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}
