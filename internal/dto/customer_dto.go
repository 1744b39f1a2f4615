package dto

import "github.com/shopspring/decimal"

type CreateCustomerRequest struct {
	Name      string  `json:"name"      validate:"required,min=2,max=120"`
	NameAr    *string `json:"nameAr"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Address   *string `json:"address"`
	TaxNumber *string `json:"taxNumber"`
}

type UpdateCustomerRequest struct {
	Name      *string `json:"name"      validate:"omitempty,min=2,max=120"`
	NameAr    *string `json:"nameAr"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Address   *string `json:"address"`
	TaxNumber *string `json:"taxNumber"`
	IsActive  *bool   `json:"isActive"`
}

type CustomerFilter struct {
	SearchTerm string `form:"searchTerm"`
	IsActive   string `form:"isActive"`
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"pageSize,default=20"`
}

type CustomerResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	NameAr    *string         `json:"nameAr"`
	Phone     *string         `json:"phone"`
	Email     *string         `json:"email"`
	Address   *string         `json:"address"`
	TaxNumber *string         `json:"taxNumber"`
	Balance   decimal.Decimal `json:"balance"`
	IsActive  bool            `json:"isActive"`
	CreatedAt string          `json:"createdAt"`
}

type CustomerListResponse struct {
	Data       []CustomerResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}
