package service

import (
	"context"
	"fmt"

	"splitpay-storefront/internal/core/domain"
	"splitpay-storefront/internal/core/ports"
	"splitpay-storefront/pkg/apperror"

	"github.com/google/uuid"
)

// MerchantServiceImpl implements ports.MerchantService.
type MerchantServiceImpl struct {
	merchantRepo ports.MerchantRepository
	hashSvc      ports.HashService
}

// NewMerchantService creates a new MerchantServiceImpl.
func NewMerchantService(merchantRepo ports.MerchantRepository, hashSvc ports.HashService) *MerchantServiceImpl {
	return &MerchantServiceImpl{
		merchantRepo: merchantRepo,
		hashSvc:      hashSvc,
	}
}

// GetProfile returns the merchant's account profile.
func (s *MerchantServiceImpl) GetProfile(ctx context.Context, merchantID uuid.UUID) (*domain.Merchant, error) {
	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get merchant: %w", err))
	}
	if merchant == nil {
		return nil, apperror.ErrMerchantNotFound()
	}
	return merchant, nil
}

// UpdatePassword changes the password after verifying the current one.
func (s *MerchantServiceImpl) UpdatePassword(ctx context.Context, merchantID uuid.UUID, oldPassword, newPassword string) error {
	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get merchant: %w", err))
	}
	if merchant == nil {
		return apperror.ErrMerchantNotFound()
	}

	valid, err := s.hashSvc.Verify(oldPassword, merchant.PasswordHash)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return apperror.ErrInvalidCredentials()
	}

	newHash, err := s.hashSvc.Hash(newPassword)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	if err := s.merchantRepo.UpdatePassword(ctx, merchantID, newHash); err != nil {
		return apperror.InternalError(fmt.Errorf("update password: %w", err))
	}
	return nil
}

// UpdateWebhookURL sets or clears the merchant's webhook endpoint.
func (s *MerchantServiceImpl) UpdateWebhookURL(ctx context.Context, merchantID uuid.UUID, url *string) error {
	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get merchant: %w", err))
	}
	if merchant == nil {
		return apperror.ErrMerchantNotFound()
	}

	if err := s.merchantRepo.UpdateWebhookURL(ctx, merchantID, url); err != nil {
		return apperror.InternalError(fmt.Errorf("update webhook url: %w", err))
	}
	return nil
}

// DeleteAccount removes the merchant and, through FK cascades, its catalog.
func (s *MerchantServiceImpl) DeleteAccount(ctx context.Context, merchantID uuid.UUID) error {
	if err := s.merchantRepo.Delete(ctx, merchantID); err != nil {
		return apperror.InternalError(fmt.Errorf("delete merchant: %w", err))
	}
	return nil
}
