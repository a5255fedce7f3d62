package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"splitpay-storefront/config"
	"splitpay-storefront/internal/core/domain"
	"splitpay-storefront/internal/core/ports"
	"splitpay-storefront/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const storefrontCacheTTL = 5 * time.Minute

var maxSaleAmount = decimal.NewFromInt(math.MaxInt64)

// StoreServiceImpl implements ports.StoreService.
type StoreServiceImpl struct {
	merchantRepo ports.MerchantRepository
	productRepo  ports.ProductRepository
	saleRepo     ports.SaleRepository
	cache        ports.CatalogCache
	chainCfg     config.ChainConfig
	log          zerolog.Logger
}

// NewStoreService creates a new StoreServiceImpl.
func NewStoreService(
	merchantRepo ports.MerchantRepository,
	productRepo ports.ProductRepository,
	saleRepo ports.SaleRepository,
	cache ports.CatalogCache,
	chainCfg config.ChainConfig,
	log zerolog.Logger,
) *StoreServiceImpl {
	return &StoreServiceImpl{
		merchantRepo: merchantRepo,
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		cache:        cache,
		chainCfg:     chainCfg,
		log:          log,
	}
}

// GetStorefront returns the public catalog page for a slug, served from
// cache when possible. Cache trouble degrades to a database read.
func (s *StoreServiceImpl) GetStorefront(ctx context.Context, slug string) (*ports.Storefront, error) {
	if cached, err := s.cache.Get(ctx, slug); err != nil {
		s.log.Warn().Err(err).Str("slug", slug).Msg("storefront cache read failed")
	} else if cached != nil {
		var sf ports.Storefront
		if err := json.Unmarshal(cached, &sf); err == nil {
			return &sf, nil
		}
		s.log.Warn().Str("slug", slug).Msg("storefront cache entry unreadable, refetching")
	}

	merchant, err := s.merchantRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get merchant by slug: %w", err))
	}
	if merchant == nil {
		return nil, apperror.ErrMerchantNotFound()
	}

	products, err := s.productRepo.ListByMerchant(ctx, merchant.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list products: %w", err))
	}

	// Buyers don't see split configurations.
	for i := range products {
		products[i].Splits = nil
	}

	sf := &ports.Storefront{
		StoreName: merchant.StoreName,
		Slug:      merchant.Slug,
		Products:  products,
	}

	if data, err := json.Marshal(sf); err == nil {
		if err := s.cache.Set(ctx, slug, data, storefrontCacheTTL); err != nil {
			s.log.Warn().Err(err).Str("slug", slug).Msg("storefront cache write failed")
		}
	}

	return sf, nil
}

// CreateSale records a purchase intent and returns the payment instruction.
// The instruction is advisory: nothing is owed or reserved until the buyer's
// on-chain transfer is verified.
func (s *StoreServiceImpl) CreateSale(ctx context.Context, req ports.CreateSaleRequest) (*ports.PaymentInstruction, error) {
	if req.Quantity < 1 {
		return nil, apperror.ErrInvalidQuantity()
	}

	merchant, err := s.merchantRepo.GetBySlug(ctx, req.Slug)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get merchant by slug: %w", err))
	}
	if merchant == nil {
		return nil, apperror.ErrMerchantNotFound()
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get product: %w", err))
	}
	if product == nil || product.MerchantID != merchant.ID {
		return nil, apperror.ErrProductNotFound()
	}

	// Token prices carry 18 decimals, so price times quantity can exceed
	// int64. Compute wide and reject totals that do not fit.
	total := decimal.NewFromInt(product.Price).Mul(decimal.NewFromInt(int64(req.Quantity)))
	if total.Cmp(maxSaleAmount) > 0 {
		return nil, apperror.ErrOrderTooLarge()
	}

	sale := &domain.Sale{
		ID:         uuid.New(),
		MerchantID: merchant.ID,
		ProductID:  product.ID,
		Quantity:   req.Quantity,
		Amount:     total.IntPart(),
		Status:     domain.SaleStatusPending,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create sale: %w", err))
	}

	s.log.Info().
		Str("sale_id", sale.ID.String()).
		Str("slug", req.Slug).
		Int64("amount", sale.Amount).
		Msg("sale created")

	return &ports.PaymentInstruction{
		SaleID:         sale.ID,
		Amount:         sale.Amount,
		MerchantWallet: merchant.WalletAddress,
		TokenContract:  s.chainCfg.TokenContract,
		ChainID:        s.chainCfg.ChainID,
	}, nil
}
