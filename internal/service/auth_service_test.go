package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"splitpay-storefront/internal/core/domain"
	"splitpay-storefront/internal/core/ports"
	"splitpay-storefront/internal/core/ports/mocks"
	"splitpay-storefront/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupAuthService(t *testing.T) (
	*AuthServiceImpl,
	*mocks.MockMerchantRepository,
	*mocks.MockHashService,
	*mocks.MockEncryptionService,
	*mocks.MockTokenService,
	*gomock.Controller,
) {
	ctrl := gomock.NewController(t)
	merchantRepo := mocks.NewMockMerchantRepository(ctrl)
	hashSvc := mocks.NewMockHashService(ctrl)
	encSvc := mocks.NewMockEncryptionService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)

	svc := NewAuthService(merchantRepo, hashSvc, encSvc, tokenSvc)
	return svc, merchantRepo, hashSvc, encSvc, tokenSvc, ctrl
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, merchantRepo, hashSvc, encSvc, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	req := ports.RegisterRequest{
		Username:      "new_merchant",
		Email:         "merchant@example.com",
		Password:      "StrongP@ss123",
		StoreName:     "Test Shop",
		WalletAddress: "0x1111111111111111111111111111111111111111",
	}

	merchantRepo.EXPECT().GetByUsername(ctx, req.Username).Return(nil, nil)
	merchantRepo.EXPECT().GetByEmail(ctx, req.Email).Return(nil, nil)
	merchantRepo.EXPECT().GetBySlug(ctx, "test-shop").Return(nil, nil)
	hashSvc.EXPECT().Hash(req.Password).Return("$argon2id$hashed", nil)
	encSvc.EXPECT().Encrypt(gomock.Any()).Return("encrypted_secret", nil)
	merchantRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, m *domain.Merchant) error {
			assert.Equal(t, "$argon2id$hashed", m.PasswordHash)
			assert.Equal(t, "encrypted_secret", m.WebhookSecretEnc)
			assert.Equal(t, "test-shop", m.Slug)
			return nil
		})

	resp, err := svc.Register(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.NotEqual(t, uuid.Nil, resp.MerchantID)
	assert.Equal(t, "test-shop", resp.Slug)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc, merchantRepo, _, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	req := ports.RegisterRequest{
		Username:  "existing_user",
		Email:     "new@example.com",
		Password:  "password",
		StoreName: "Shop",
	}

	existing := &domain.Merchant{Username: "existing_user"}
	merchantRepo.EXPECT().GetByUsername(ctx, req.Username).Return(existing, nil)

	resp, err := svc.Register(ctx, req)
	assert.Nil(t, resp)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "AUTH_002", appErr.Code)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, merchantRepo, _, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	req := ports.RegisterRequest{
		Username:  "new_user",
		Email:     "taken@example.com",
		Password:  "password",
		StoreName: "Shop",
	}

	merchantRepo.EXPECT().GetByUsername(ctx, req.Username).Return(nil, nil)
	merchantRepo.EXPECT().GetByEmail(ctx, req.Email).Return(&domain.Merchant{}, nil)

	_, err := svc.Register(ctx, req)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "AUTH_004", appErr.Code)
}

func TestAuthService_Register_SlugCollisionGetsSuffix(t *testing.T) {
	svc, merchantRepo, hashSvc, encSvc, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	req := ports.RegisterRequest{
		Username:  "another_merchant",
		Email:     "another@example.com",
		Password:  "password",
		StoreName: "Test Shop",
	}

	merchantRepo.EXPECT().GetByUsername(ctx, req.Username).Return(nil, nil)
	merchantRepo.EXPECT().GetByEmail(ctx, req.Email).Return(nil, nil)
	merchantRepo.EXPECT().GetBySlug(ctx, "test-shop").Return(&domain.Merchant{Slug: "test-shop"}, nil)
	merchantRepo.EXPECT().GetBySlug(ctx, "test-shop-2").Return(nil, nil)
	hashSvc.EXPECT().Hash(req.Password).Return("$argon2id$hashed", nil)
	encSvc.EXPECT().Encrypt(gomock.Any()).Return("encrypted_secret", nil)
	merchantRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	resp, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "test-shop-2", resp.Slug)
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, merchantRepo, hashSvc, _, tokenSvc, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	merchant := &domain.Merchant{
		ID:           merchantID,
		Username:     "test_user",
		PasswordHash: "$argon2id$hashed",
	}

	expiry := time.Now().Add(24 * time.Hour)
	merchantRepo.EXPECT().GetByUsername(ctx, "test_user").Return(merchant, nil)
	hashSvc.EXPECT().Verify("correct_password", "$argon2id$hashed").Return(true, nil)
	tokenSvc.EXPECT().Generate(merchantID).Return("jwt_token_here", expiry, nil)

	token, exp, err := svc.Login(ctx, "test_user", "correct_password")
	require.NoError(t, err)
	assert.Equal(t, "jwt_token_here", token)
	assert.Equal(t, expiry, exp)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, merchantRepo, hashSvc, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	merchant := &domain.Merchant{
		ID:           uuid.New(),
		Username:     "test_user",
		PasswordHash: "$argon2id$hashed",
	}

	merchantRepo.EXPECT().GetByUsername(ctx, "test_user").Return(merchant, nil)
	hashSvc.EXPECT().Verify("wrong_password", "$argon2id$hashed").Return(false, nil)

	_, _, err := svc.Login(ctx, "test_user", "wrong_password")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "AUTH_001", appErr.Code)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, merchantRepo, _, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	merchantRepo.EXPECT().GetByUsername(ctx, "ghost").Return(nil, nil)

	_, _, err := svc.Login(ctx, "ghost", "whatever")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "AUTH_001", appErr.Code)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Test Shop", "test-shop"},
		{"punctuation", "Bob's Record Store!", "bob-s-record-store"},
		{"leading and trailing junk", "  --Cool Store--  ", "cool-store"},
		{"all stripped falls back", "!!!", "store"},
		{"already clean", "widgets", "widgets"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}
