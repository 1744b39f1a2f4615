package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/apierror"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/dto"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/repository"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/stock"
)

// ReportService produces the JSON reports: every aggregate is computed by the
// database and returned as-is, no file rendering.
type ReportService interface {
	LowStock(ctx context.Context, companyID uuid.UUID) ([]dto.LowStockItem, error)
	Valuation(ctx context.Context, companyID uuid.UUID) (*dto.ValuationReport, error)
	MovementSummary(ctx context.Context, companyID uuid.UUID, filter dto.ReportDateFilter) (*dto.MovementSummaryReport, error)
	SalesSummary(ctx context.Context, companyID uuid.UUID, filter dto.ReportDateFilter) (*dto.SalesSummaryReport, error)
}

type reportService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	invoiceRepo  repository.InvoiceRepository
}

func NewReportService(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	invoiceRepo repository.InvoiceRepository,
) ReportService {
	return &reportService{productRepo: productRepo, movementRepo: movementRepo, invoiceRepo: invoiceRepo}
}

func (s *reportService) LowStock(ctx context.Context, companyID uuid.UUID) ([]dto.LowStockItem, error) {
	products, err := s.productRepo.ListBelowMinimum(ctx, companyID)
	if err != nil {
		return nil, apierror.Upstream(err)
	}
	items := make([]dto.LowStockItem, 0, len(products))
	for _, p := range products {
		items = append(items, dto.LowStockItem{
			ProductID:       p.ID.String(),
			Barcode:         p.Barcode,
			Name:            p.Name,
			Quantity:        p.Quantity,
			MinimumQuantity: p.MinimumQuantity,
			Status:          stock.DeriveStatus(p.Quantity, p.MinimumQuantity),
		})
	}
	return items, nil
}

func (s *reportService) Valuation(ctx context.Context, companyID uuid.UUID) (*dto.ValuationReport, error) {
	totals, err := s.productRepo.Valuation(ctx, companyID)
	if err != nil {
		return nil, apierror.Upstream(err)
	}
	return &dto.ValuationReport{
		ProductCount: totals.ProductCount,
		TotalUnits:   totals.TotalUnits,
		TotalCost:    totals.TotalCost.Round(2),
		TotalRetail:  totals.TotalRetail.Round(2),
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (s *reportService) MovementSummary(ctx context.Context, companyID uuid.UUID, filter dto.ReportDateFilter) (*dto.MovementSummaryReport, error) {
	rows, err := s.movementRepo.SummaryByType(ctx, companyID, filter.FromDate, filter.ToDate)
	if err != nil {
		return nil, apierror.Upstream(err)
	}
	return &dto.MovementSummaryReport{
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
		Rows:     rows,
	}, nil
}

func (s *reportService) SalesSummary(ctx context.Context, companyID uuid.UUID, filter dto.ReportDateFilter) (*dto.SalesSummaryReport, error) {
	report, err := s.invoiceRepo.SalesSummary(ctx, companyID, filter.FromDate, filter.ToDate)
	if err != nil {
		return nil, apierror.Upstream(err)
	}
	report.FromDate = filter.FromDate
	report.ToDate = filter.ToDate
	report.SubTotal = report.SubTotal.Round(2)
	report.DiscountTotal = report.DiscountTotal.Round(2)
	report.TaxTotal = report.TaxTotal.Round(2)
	report.GrandTotal = report.GrandTotal.Round(2)
	report.PaidTotal = report.PaidTotal.Round(2)
	report.DueTotal = report.DueTotal.Round(2)
	return report, nil
}
