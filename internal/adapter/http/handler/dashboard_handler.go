package handler

import (
	"splitpay-storefront/internal/adapter/http/dto"
	"splitpay-storefront/internal/core/domain"
	"splitpay-storefront/internal/core/ports"
	"splitpay-storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

// DashboardHandler handles dashboard and sale history endpoints.
type DashboardHandler struct {
	reportingSvc ports.ReportingService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(reportingSvc ports.ReportingService) *DashboardHandler {
	return &DashboardHandler{reportingSvc: reportingSvc}
}

// GetDashboard handles GET /api/v1/dashboard.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	merchantID, ok := authedMerchant(c)
	if !ok {
		return
	}

	dash, err := h.reportingSvc.GetDashboard(c.Request.Context(), merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	inventory := make([]dto.ProductResponse, 0, len(dash.Inventory))
	for i := range dash.Inventory {
		p := toProductResponse(&dash.Inventory[i])
		for j := range p.Splits {
			p.Splits[j].IsOwner = domain.EqualAddress(p.Splits[j].WalletAddress, dash.Merchant.WalletAddress)
		}
		inventory = append(inventory, p)
	}
	recent := make([]dto.SaleResponse, 0, len(dash.RecentSales))
	for i := range dash.RecentSales {
		recent = append(recent, toSaleResponse(&dash.RecentSales[i].Sale, dash.RecentSales[i].ProductName))
	}

	response.OK(c, dto.DashboardResponse{
		StoreName: dash.Merchant.StoreName,
		Slug:      dash.Merchant.Slug,
		Stats: dto.DashboardStatsResponse{
			TotalRevenue: dash.Stats.TotalRevenue,
			ItemsSold:    dash.Stats.ItemsSold,
		},
		Inventory:   inventory,
		RecentSales: recent,
	})
}

// ListSales handles GET /api/v1/sales.
func (h *DashboardHandler) ListSales(c *gin.Context) {
	merchantID, ok := authedMerchant(c)
	if !ok {
		return
	}

	sales, err := h.reportingSvc.ListSales(c.Request.Context(), merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, toSaleResponse(&sales[i].Sale, sales[i].ProductName))
	}
	response.OK(c, items)
}
