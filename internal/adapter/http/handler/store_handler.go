package handler

import (
	"time"

	"splitpay-storefront/internal/adapter/http/dto"
	"splitpay-storefront/internal/core/domain"
	"splitpay-storefront/internal/core/ports"
	"splitpay-storefront/pkg/apperror"
	"splitpay-storefront/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StoreHandler handles the public buyer-facing endpoints: storefront pages,
// purchase intents and payment confirmation. None of them require auth.
type StoreHandler struct {
	storeSvc      ports.StoreService
	settlementSvc ports.SettlementService
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(storeSvc ports.StoreService, settlementSvc ports.SettlementService) *StoreHandler {
	return &StoreHandler{storeSvc: storeSvc, settlementSvc: settlementSvc}
}

// GetStorefront handles GET /api/v1/stores/:slug.
func (h *StoreHandler) GetStorefront(c *gin.Context) {
	sf, err := h.storeSvc.GetStorefront(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	products := make([]dto.PublicProductResponse, 0, len(sf.Products))
	for i := range sf.Products {
		products = append(products, dto.PublicProductResponse{
			ID:    sf.Products[i].ID.String(),
			Name:  sf.Products[i].Name,
			Price: sf.Products[i].Price,
		})
	}

	response.OK(c, dto.StorefrontResponse{
		StoreName: sf.StoreName,
		Slug:      sf.Slug,
		Products:  products,
	})
}

// CreateSale handles POST /api/v1/stores/:slug/sales.
func (h *StoreHandler) CreateSale(c *gin.Context) {
	var req dto.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.Error(c, apperror.Validation("product_id must be a UUID"))
		return
	}

	instr, err := h.storeSvc.CreateSale(c.Request.Context(), ports.CreateSaleRequest{
		Slug:      c.Param("slug"),
		ProductID: productID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.PaymentInstructionResponse{
		SaleID:         instr.SaleID.String(),
		Amount:         instr.Amount,
		MerchantWallet: instr.MerchantWallet,
		TokenContract:  instr.TokenContract,
		ChainID:        instr.ChainID,
	})
}

// ConfirmSale handles POST /api/v1/sales/:id/confirm. The buyer submits the
// hash of their on-chain transfer; the sale settles only if verification
// passes.
func (h *StoreHandler) ConfirmSale(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("sale id must be a UUID"))
		return
	}

	var req dto.ConfirmSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	sale, err := h.settlementSvc.Settle(c.Request.Context(), saleID, req.TxHash)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toSaleResponse(sale, ""))
}

func toSaleResponse(sale *domain.Sale, productName string) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:          sale.ID.String(),
		ProductID:   sale.ProductID.String(),
		ProductName: productName,
		Quantity:    sale.Quantity,
		Amount:      sale.Amount,
		Status:      string(sale.Status),
		TxHash:      sale.TxHash,
		CreatedAt:   sale.CreatedAt.Format(time.RFC3339),
	}
	if sale.PaidAt != nil {
		paidAt := sale.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	return resp
}
