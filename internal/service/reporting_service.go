package service

import (
	"context"
	"fmt"

	"splitpay-storefront/internal/core/ports"
	"splitpay-storefront/pkg/apperror"

	"github.com/google/uuid"
)

const dashboardRecentSales = 10

// ReportingServiceImpl implements ports.ReportingService.
type ReportingServiceImpl struct {
	merchantRepo ports.MerchantRepository
	productRepo  ports.ProductRepository
	saleRepo     ports.SaleRepository
}

// NewReportingService creates a new ReportingServiceImpl.
func NewReportingService(
	merchantRepo ports.MerchantRepository,
	productRepo ports.ProductRepository,
	saleRepo ports.SaleRepository,
) *ReportingServiceImpl {
	return &ReportingServiceImpl{
		merchantRepo: merchantRepo,
		productRepo:  productRepo,
		saleRepo:     saleRepo,
	}
}

// GetDashboard aggregates the merchant's profile, sale stats, inventory and
// most recent sales into one view.
func (s *ReportingServiceImpl) GetDashboard(ctx context.Context, merchantID uuid.UUID) (*ports.Dashboard, error) {
	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get merchant: %w", err))
	}
	if merchant == nil {
		return nil, apperror.ErrMerchantNotFound()
	}

	stats, err := s.saleRepo.GetStats(ctx, merchantID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get sale stats: %w", err))
	}

	products, err := s.productRepo.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list products: %w", err))
	}

	sales, err := s.saleRepo.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list sales: %w", err))
	}
	if len(sales) > dashboardRecentSales {
		sales = sales[:dashboardRecentSales]
	}

	return &ports.Dashboard{
		Merchant:    merchant,
		Stats:       *stats,
		Inventory:   products,
		RecentSales: sales,
	}, nil
}

// ListSales returns the merchant's full sale history, newest first.
func (s *ReportingServiceImpl) ListSales(ctx context.Context, merchantID uuid.UUID) ([]ports.SaleWithProduct, error) {
	sales, err := s.saleRepo.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list sales: %w", err))
	}
	return sales, nil
}
