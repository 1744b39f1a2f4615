package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/apierror"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/dto"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/model"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/repository"
)

type SupplierService interface {
	Create(ctx context.Context, companyID uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*dto.SupplierResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.SupplierFilter) (*dto.SupplierListResponse, error)
	Update(ctx context.Context, companyID, id uuid.UUID, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error)
	Deactivate(ctx context.Context, companyID, id uuid.UUID) error
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) Create(ctx context.Context, companyID uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier := &model.Supplier{
		CompanyID:     companyID,
		Name:          req.Name,
		NameAr:        req.NameAr,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		TaxNumber:     req.TaxNumber,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, apierror.Upstream(err)
	}
	return supplierToResponse(supplier), nil
}

func (s *supplierService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*dto.SupplierResponse, error) {
	supplier, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, mapFindErr(err, "supplier")
	}
	return supplierToResponse(supplier), nil
}

func (s *supplierService) List(ctx context.Context, companyID uuid.UUID, filter dto.SupplierFilter) (*dto.SupplierListResponse, error) {
	filter.Page, filter.PageSize = normalizePaging(filter.Page, filter.PageSize)
	suppliers, total, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, apierror.Upstream(err)
	}
	items := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		items = append(items, *supplierToResponse(&suppliers[i]))
	}
	return &dto.SupplierListResponse{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages(total, filter.PageSize),
	}, nil
}

func (s *supplierService) Update(ctx context.Context, companyID, id uuid.UUID, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, mapFindErr(err, "supplier")
	}
	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.NameAr != nil {
		supplier.NameAr = req.NameAr
	}
	if req.ContactPerson != nil {
		supplier.ContactPerson = req.ContactPerson
	}
	if req.Phone != nil {
		supplier.Phone = req.Phone
	}
	if req.Email != nil {
		supplier.Email = req.Email
	}
	if req.Address != nil {
		supplier.Address = req.Address
	}
	if req.TaxNumber != nil {
		supplier.TaxNumber = req.TaxNumber
	}
	if req.IsActive != nil {
		supplier.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, apierror.Upstream(err)
	}
	return supplierToResponse(supplier), nil
}

func (s *supplierService) Deactivate(ctx context.Context, companyID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, companyID, id); err != nil {
		return mapFindErr(err, "supplier")
	}
	if err := s.repo.Deactivate(ctx, companyID, id); err != nil {
		return apierror.Upstream(err)
	}
	return nil
}

func supplierToResponse(s *model.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:            s.ID.String(),
		Name:          s.Name,
		NameAr:        s.NameAr,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
		TaxNumber:     s.TaxNumber,
		Balance:       s.Balance.Round(2),
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
	}
}
