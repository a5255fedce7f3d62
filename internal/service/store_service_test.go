package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"splitpay-storefront/config"
	"splitpay-storefront/internal/core/domain"
	"splitpay-storefront/internal/core/ports"
	"splitpay-storefront/internal/core/ports/mocks"
	"splitpay-storefront/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testChainConfig() config.ChainConfig {
	return config.ChainConfig{
		RPCURL:        "https://rpc.example.com",
		TokenContract: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		ChainID:       1,
	}
}

func setupStoreService(t *testing.T) (
	*StoreServiceImpl,
	*mocks.MockMerchantRepository,
	*mocks.MockProductRepository,
	*mocks.MockSaleRepository,
	*mocks.MockCatalogCache,
	*gomock.Controller,
) {
	ctrl := gomock.NewController(t)
	merchantRepo := mocks.NewMockMerchantRepository(ctrl)
	productRepo := mocks.NewMockProductRepository(ctrl)
	saleRepo := mocks.NewMockSaleRepository(ctrl)
	cache := mocks.NewMockCatalogCache(ctrl)

	svc := NewStoreService(merchantRepo, productRepo, saleRepo, cache, testChainConfig(), zerolog.Nop())
	return svc, merchantRepo, productRepo, saleRepo, cache, ctrl
}

func TestStoreService_GetStorefront_CacheMiss(t *testing.T) {
	svc, merchantRepo, productRepo, _, cache, ctrl := setupStoreService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	merchant := &domain.Merchant{ID: merchantID, StoreName: "My Shop", Slug: "my-shop"}
	products := []domain.Product{
		{
			ID:         uuid.New(),
			MerchantID: merchantID,
			Name:       "Widget",
			Price:      25_000_000,
			Splits: []domain.SplitEntry{
				{WalletAddress: "0xaaa", Percentage: 100},
			},
		},
	}

	cache.EXPECT().Get(ctx, "my-shop").Return(nil, nil)
	merchantRepo.EXPECT().GetBySlug(ctx, "my-shop").Return(merchant, nil)
	productRepo.EXPECT().ListByMerchant(ctx, merchantID).Return(products, nil)
	cache.EXPECT().Set(ctx, "my-shop", gomock.Any(), storefrontCacheTTL).Return(nil)

	sf, err := svc.GetStorefront(ctx, "my-shop")
	require.NoError(t, err)
	assert.Equal(t, "My Shop", sf.StoreName)
	require.Len(t, sf.Products, 1)
	// The public page never exposes split configurations.
	assert.Nil(t, sf.Products[0].Splits)
}

func TestStoreService_GetStorefront_CacheHit(t *testing.T) {
	svc, _, _, _, cache, ctrl := setupStoreService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	cached := ports.Storefront{StoreName: "My Shop", Slug: "my-shop"}
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	cache.EXPECT().Get(ctx, "my-shop").Return(data, nil)

	sf, err := svc.GetStorefront(ctx, "my-shop")
	require.NoError(t, err)
	assert.Equal(t, "My Shop", sf.StoreName)
}

func TestStoreService_GetStorefront_CacheErrorFallsThrough(t *testing.T) {
	svc, merchantRepo, productRepo, _, cache, ctrl := setupStoreService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	merchant := &domain.Merchant{ID: merchantID, StoreName: "My Shop", Slug: "my-shop"}

	cache.EXPECT().Get(ctx, "my-shop").Return(nil, errors.New("redis down"))
	merchantRepo.EXPECT().GetBySlug(ctx, "my-shop").Return(merchant, nil)
	productRepo.EXPECT().ListByMerchant(ctx, merchantID).Return(nil, nil)
	cache.EXPECT().Set(ctx, "my-shop", gomock.Any(), storefrontCacheTTL).Return(errors.New("redis down"))

	sf, err := svc.GetStorefront(ctx, "my-shop")
	require.NoError(t, err)
	assert.Equal(t, "My Shop", sf.StoreName)
}

func TestStoreService_GetStorefront_UnknownSlug(t *testing.T) {
	svc, merchantRepo, _, _, cache, ctrl := setupStoreService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	cache.EXPECT().Get(ctx, "nobody").Return(nil, nil)
	merchantRepo.EXPECT().GetBySlug(ctx, "nobody").Return(nil, nil)

	_, err := svc.GetStorefront(ctx, "nobody")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "STORE_001", appErr.Code)
}

func TestStoreService_CreateSale_Success(t *testing.T) {
	svc, merchantRepo, productRepo, saleRepo, _, ctrl := setupStoreService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	productID := uuid.New()
	merchant := &domain.Merchant{
		ID:            merchantID,
		Slug:          "my-shop",
		WalletAddress: "0x1111111111111111111111111111111111111111",
	}
	product := &domain.Product{ID: productID, MerchantID: merchantID, Price: 25_000_000}

	merchantRepo.EXPECT().GetBySlug(ctx, "my-shop").Return(merchant, nil)
	productRepo.EXPECT().GetByID(ctx, productID).Return(product, nil)
	saleRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, sale *domain.Sale) error {
			assert.Equal(t, domain.SaleStatusPending, sale.Status)
			assert.Equal(t, int64(75_000_000), sale.Amount) // 3 × 25_000_000
			assert.Nil(t, sale.TxHash)
			assert.Nil(t, sale.PaidAt)
			return nil
		})

	instr, err := svc.CreateSale(ctx, ports.CreateSaleRequest{
		Slug:      "my-shop",
		ProductID: productID,
		Quantity:  3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(75_000_000), instr.Amount)
	assert.Equal(t, merchant.WalletAddress, instr.MerchantWallet)
	assert.Equal(t, testChainConfig().TokenContract, instr.TokenContract)
	assert.Equal(t, int64(1), instr.ChainID)
}

func TestStoreService_CreateSale_AmountOverflow(t *testing.T) {
	svc, merchantRepo, productRepo, _, _, ctrl := setupStoreService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	productID := uuid.New()
	merchant := &domain.Merchant{ID: merchantID, Slug: "my-shop"}
	// 5 tokens at 18 decimals; twice that exceeds int64.
	product := &domain.Product{ID: productID, MerchantID: merchantID, Price: 5_000_000_000_000_000_000}

	merchantRepo.EXPECT().GetBySlug(ctx, "my-shop").Return(merchant, nil)
	productRepo.EXPECT().GetByID(ctx, productID).Return(product, nil)

	_, err := svc.CreateSale(ctx, ports.CreateSaleRequest{
		Slug:      "my-shop",
		ProductID: productID,
		Quantity:  2,
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "STORE_004", appErr.Code)
}

func TestStoreService_CreateSale_MaxRepresentableAmount(t *testing.T) {
	svc, merchantRepo, productRepo, saleRepo, _, ctrl := setupStoreService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	productID := uuid.New()
	merchant := &domain.Merchant{ID: merchantID, Slug: "my-shop", WalletAddress: "0x1111111111111111111111111111111111111111"}
	product := &domain.Product{ID: productID, MerchantID: merchantID, Price: math.MaxInt64}

	merchantRepo.EXPECT().GetBySlug(ctx, "my-shop").Return(merchant, nil)
	productRepo.EXPECT().GetByID(ctx, productID).Return(product, nil)
	saleRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, sale *domain.Sale) error {
			assert.Equal(t, int64(math.MaxInt64), sale.Amount)
			return nil
		})

	instr, err := svc.CreateSale(ctx, ports.CreateSaleRequest{
		Slug:      "my-shop",
		ProductID: productID,
		Quantity:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), instr.Amount)
}

func TestStoreService_CreateSale_InvalidQuantity(t *testing.T) {
	svc, _, _, _, _, ctrl := setupStoreService(t)
	defer ctrl.Finish()

	_, err := svc.CreateSale(context.Background(), ports.CreateSaleRequest{
		Slug:      "my-shop",
		ProductID: uuid.New(),
		Quantity:  0,
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "STORE_003", appErr.Code)
}

func TestStoreService_CreateSale_ProductFromOtherMerchant(t *testing.T) {
	svc, merchantRepo, productRepo, _, _, ctrl := setupStoreService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	merchant := &domain.Merchant{ID: uuid.New(), Slug: "my-shop"}
	productID := uuid.New()

	merchantRepo.EXPECT().GetBySlug(ctx, "my-shop").Return(merchant, nil)
	productRepo.EXPECT().GetByID(ctx, productID).Return(&domain.Product{
		ID:         productID,
		MerchantID: uuid.New(), // someone else's catalog
	}, nil)

	_, err := svc.CreateSale(ctx, ports.CreateSaleRequest{
		Slug:      "my-shop",
		ProductID: productID,
		Quantity:  1,
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "STORE_002", appErr.Code)
}
