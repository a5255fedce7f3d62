package handler

import (
	"time"

	"splitpay-storefront/internal/adapter/http/dto"
	"splitpay-storefront/internal/adapter/http/middleware"
	"splitpay-storefront/internal/core/domain"
	"splitpay-storefront/internal/core/ports"
	"splitpay-storefront/pkg/apperror"
	"splitpay-storefront/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler handles the merchant catalog endpoints.
type ProductHandler struct {
	productSvc ports.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productSvc ports.ProductService) *ProductHandler {
	return &ProductHandler{productSvc: productSvc}
}

// Create handles POST /api/v1/products.
func (h *ProductHandler) Create(c *gin.Context) {
	merchantID, ok := authedMerchant(c)
	if !ok {
		return
	}

	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	product, err := h.productSvc.AddProduct(c.Request.Context(), merchantID, toProductInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toProductResponse(product))
}

// List handles GET /api/v1/products.
func (h *ProductHandler) List(c *gin.Context) {
	merchantID, ok := authedMerchant(c)
	if !ok {
		return
	}

	products, err := h.productSvc.ListProducts(c.Request.Context(), merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}
	response.OK(c, items)
}

// Update handles PUT /api/v1/products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	merchantID, ok := authedMerchant(c)
	if !ok {
		return
	}
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("product id must be a UUID"))
		return
	}

	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	product, err := h.productSvc.UpdateProduct(c.Request.Context(), merchantID, productID, toProductInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toProductResponse(product))
}

// SetSplits handles PUT /api/v1/products/:id/splits.
func (h *ProductHandler) SetSplits(c *gin.Context) {
	merchantID, ok := authedMerchant(c)
	if !ok {
		return
	}
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("product id must be a UUID"))
		return
	}

	var req dto.SetSplitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	entries, err := h.productSvc.SetSplits(c.Request.Context(), merchantID, productID, toSplitInputs(req.Splits))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toSplitResponses(entries))
}

// Delete handles DELETE /api/v1/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	merchantID, ok := authedMerchant(c)
	if !ok {
		return
	}
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("product id must be a UUID"))
		return
	}

	if err := h.productSvc.DeleteProduct(c.Request.Context(), merchantID, productID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": true})
}

// authedMerchant pulls the authenticated merchant id set by JWTAuth. A miss
// means the route was wired without the middleware.
func authedMerchant(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.CtxMerchantID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return uuid.Nil, false
	}
	return id, true
}

func toProductInput(req dto.ProductRequest) ports.ProductInput {
	return ports.ProductInput{
		Name:   req.Name,
		Price:  req.Price,
		Splits: toSplitInputs(req.Splits),
	}
}

func toSplitInputs(splits []dto.SplitEntryRequest) []ports.SplitInput {
	out := make([]ports.SplitInput, 0, len(splits))
	for _, s := range splits {
		out = append(out, ports.SplitInput{
			WalletAddress: s.WalletAddress,
			Percentage:    s.Percentage,
		})
	}
	return out
}

func toSplitResponses(entries []domain.SplitEntry) []dto.SplitEntryResponse {
	out := make([]dto.SplitEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.SplitEntryResponse{
			WalletAddress: e.WalletAddress,
			Percentage:    e.Percentage,
		})
	}
	return out
}

func toProductResponse(p *domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Price:     p.Price,
		Splits:    toSplitResponses(p.Splits),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}
