package handler

import (
	"time"

	"splitpay-storefront/internal/adapter/http/dto"
	"splitpay-storefront/internal/core/ports"
	"splitpay-storefront/pkg/apperror"
	"splitpay-storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

// MerchantHandler handles merchant account management endpoints.
type MerchantHandler struct {
	merchantSvc ports.MerchantService
}

// NewMerchantHandler creates a new MerchantHandler.
func NewMerchantHandler(merchantSvc ports.MerchantService) *MerchantHandler {
	return &MerchantHandler{merchantSvc: merchantSvc}
}

// GetProfile handles GET /api/v1/merchants/me.
func (h *MerchantHandler) GetProfile(c *gin.Context) {
	merchantID, ok := authedMerchant(c)
	if !ok {
		return
	}

	merchant, err := h.merchantSvc.GetProfile(c.Request.Context(), merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ProfileResponse{
		MerchantID:    merchant.ID.String(),
		Username:      merchant.Username,
		Email:         merchant.Email,
		StoreName:     merchant.StoreName,
		Slug:          merchant.Slug,
		WalletAddress: merchant.WalletAddress,
		WebhookURL:    merchant.WebhookURL,
		CreatedAt:     merchant.CreatedAt.Format(time.RFC3339),
	})
}

// UpdatePassword handles PUT /api/v1/merchants/me/password.
func (h *MerchantHandler) UpdatePassword(c *gin.Context) {
	merchantID, ok := authedMerchant(c)
	if !ok {
		return
	}

	var req dto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.merchantSvc.UpdatePassword(c.Request.Context(), merchantID, req.OldPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"updated": true})
}

// UpdateWebhookURL handles PUT /api/v1/merchants/me/webhook.
func (h *MerchantHandler) UpdateWebhookURL(c *gin.Context) {
	merchantID, ok := authedMerchant(c)
	if !ok {
		return
	}

	var req dto.UpdateWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	url := req.WebhookURL
	if url != nil && *url == "" {
		url = nil // empty string clears, same as null
	}

	if err := h.merchantSvc.UpdateWebhookURL(c.Request.Context(), merchantID, url); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"updated": true})
}

// DeleteAccount handles DELETE /api/v1/merchants/me.
func (h *MerchantHandler) DeleteAccount(c *gin.Context) {
	merchantID, ok := authedMerchant(c)
	if !ok {
		return
	}

	if err := h.merchantSvc.DeleteAccount(c.Request.Context(), merchantID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": true})
}
