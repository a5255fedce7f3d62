package handler

import (
	"errors"
	"io"
	"time"

	"splitpay-storefront/internal/adapter/http/dto"
	"splitpay-storefront/internal/core/domain"
	"splitpay-storefront/internal/core/ports"
	"splitpay-storefront/pkg/apperror"
	"splitpay-storefront/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PayoutHandler handles the merchant payout ledger endpoints.
type PayoutHandler struct {
	payoutSvc ports.PayoutService
}

// NewPayoutHandler creates a new PayoutHandler.
func NewPayoutHandler(payoutSvc ports.PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutSvc: payoutSvc}
}

// ListUnpaid handles GET /api/v1/payouts.
func (h *PayoutHandler) ListUnpaid(c *gin.Context) {
	merchantID, ok := authedMerchant(c)
	if !ok {
		return
	}

	obligations, err := h.payoutSvc.ListUnpaid(c.Request.Context(), merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.PayoutResponse, 0, len(obligations))
	for i := range obligations {
		items = append(items, toPayoutResponse(&obligations[i]))
	}
	response.OK(c, items)
}

// MarkPaid handles POST /api/v1/payouts/:id/pay.
func (h *PayoutHandler) MarkPaid(c *gin.Context) {
	merchantID, ok := authedMerchant(c)
	if !ok {
		return
	}
	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("payout id must be a UUID"))
		return
	}

	// The body is optional; an empty body marks the obligation paid with no
	// transaction reference.
	var req dto.MarkPayoutPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if err := h.payoutSvc.MarkPaid(c.Request.Context(), merchantID, payoutID, req.TxHash); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"paid": true})
}

func toPayoutResponse(o *domain.PayoutObligation) dto.PayoutResponse {
	resp := dto.PayoutResponse{
		ID:              o.ID.String(),
		SaleID:          o.SaleID.String(),
		RecipientWallet: o.RecipientWallet,
		Amount:          o.Amount,
		Status:          string(o.Status),
		TxHash:          o.TxHash,
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
	}
	if o.PaidAt != nil {
		paidAt := o.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	return resp
}
