package dto

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=80"`
	NameAr      *string `json:"nameAr"`
	Description *string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=80"`
	NameAr      *string `json:"nameAr"`
	Description *string `json:"description"`
}

type CategoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	NameAr      *string `json:"nameAr"`
	Description *string `json:"description"`
	IsActive    bool    `json:"isActive"`
}
