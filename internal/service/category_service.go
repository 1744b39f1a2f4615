package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/apierror"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/dto"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/model"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/repository"
)

type CategoryService interface {
	Create(ctx context.Context, companyID uuid.UUID, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context, companyID uuid.UUID) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, companyID, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Deactivate(ctx context.Context, companyID, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, companyID uuid.UUID, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	category := &model.Category{
		CompanyID:   companyID,
		Name:        req.Name,
		NameAr:      req.NameAr,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, apierror.Upstream(err)
	}
	return categoryToResponse(category), nil
}

func (s *categoryService) List(ctx context.Context, companyID uuid.UUID) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.List(ctx, companyID)
	if err != nil {
		return nil, apierror.Upstream(err)
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, *categoryToResponse(&categories[i]))
	}
	return items, nil
}

func (s *categoryService) Update(ctx context.Context, companyID, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, mapFindErr(err, "category")
	}
	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.NameAr != nil {
		category.NameAr = req.NameAr
	}
	if req.Description != nil {
		category.Description = req.Description
	}
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, apierror.Upstream(err)
	}
	return categoryToResponse(category), nil
}

func (s *categoryService) Deactivate(ctx context.Context, companyID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, companyID, id); err != nil {
		return mapFindErr(err, "category")
	}
	if err := s.repo.Deactivate(ctx, companyID, id); err != nil {
		return apierror.Upstream(err)
	}
	return nil
}

func categoryToResponse(c *model.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		NameAr:      c.NameAr,
		Description: c.Description,
		IsActive:    c.IsActive,
	}
}
