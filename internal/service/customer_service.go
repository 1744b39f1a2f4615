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

// CustomerService is the customer book. Balance is read-only here — it only
// moves through invoice operations.
type CustomerService interface {
	Create(ctx context.Context, companyID uuid.UUID, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*dto.CustomerResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.CustomerFilter) (*dto.CustomerListResponse, error)
	Update(ctx context.Context, companyID, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Deactivate(ctx context.Context, companyID, id uuid.UUID) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, companyID uuid.UUID, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer := &model.Customer{
		CompanyID: companyID,
		Name:      req.Name,
		NameAr:    req.NameAr,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		TaxNumber: req.TaxNumber,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, apierror.Upstream(err)
	}
	return customerToResponse(customer), nil
}

func (s *customerService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, mapFindErr(err, "customer")
	}
	return customerToResponse(customer), nil
}

func (s *customerService) List(ctx context.Context, companyID uuid.UUID, filter dto.CustomerFilter) (*dto.CustomerListResponse, error) {
	filter.Page, filter.PageSize = normalizePaging(filter.Page, filter.PageSize)
	customers, total, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, apierror.Upstream(err)
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, *customerToResponse(&customers[i]))
	}
	return &dto.CustomerListResponse{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages(total, filter.PageSize),
	}, nil
}

func (s *customerService) Update(ctx context.Context, companyID, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, mapFindErr(err, "customer")
	}
	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.NameAr != nil {
		customer.NameAr = req.NameAr
	}
	if req.Phone != nil {
		customer.Phone = req.Phone
	}
	if req.Email != nil {
		customer.Email = req.Email
	}
	if req.Address != nil {
		customer.Address = req.Address
	}
	if req.TaxNumber != nil {
		customer.TaxNumber = req.TaxNumber
	}
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, apierror.Upstream(err)
	}
	return customerToResponse(customer), nil
}

func (s *customerService) Deactivate(ctx context.Context, companyID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, companyID, id); err != nil {
		return mapFindErr(err, "customer")
	}
	if err := s.repo.Deactivate(ctx, companyID, id); err != nil {
		return apierror.Upstream(err)
	}
	return nil
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		NameAr:    c.NameAr,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		TaxNumber: c.TaxNumber,
		Balance:   c.Balance.Round(2),
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}
