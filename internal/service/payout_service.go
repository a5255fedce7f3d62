package service

import (
	"context"
	"fmt"

	"splitpay-storefront/internal/core/domain"
	"splitpay-storefront/internal/core/ports"
	"splitpay-storefront/pkg/apperror"

	"github.com/google/uuid"
)

// PayoutServiceImpl implements ports.PayoutService.
type PayoutServiceImpl struct {
	payoutRepo ports.PayoutRepository
}

// NewPayoutService creates a new PayoutServiceImpl.
func NewPayoutService(payoutRepo ports.PayoutRepository) *PayoutServiceImpl {
	return &PayoutServiceImpl{payoutRepo: payoutRepo}
}

// ListUnpaid returns the merchant's outstanding obligations, oldest first.
func (s *PayoutServiceImpl) ListUnpaid(ctx context.Context, merchantID uuid.UUID) ([]domain.PayoutObligation, error) {
	obligations, err := s.payoutRepo.ListUnpaid(ctx, merchantID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list unpaid payouts: %w", err))
	}
	return obligations, nil
}

// MarkPaid records that the merchant has settled an obligation off-platform.
// The optional txHash is stored as-is; it is the merchant's claim and is not
// verified against the chain.
func (s *PayoutServiceImpl) MarkPaid(ctx context.Context, merchantID, payoutID uuid.UUID, txHash *string) error {
	ok, err := s.payoutRepo.MarkPaid(ctx, merchantID, payoutID, txHash)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("mark payout paid: %w", err))
	}
	if !ok {
		return apperror.ErrObligationNotFound()
	}
	return nil
}
