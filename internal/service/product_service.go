package service

import (
	"context"
	"fmt"
	"time"

	"splitpay-storefront/internal/core/domain"
	"splitpay-storefront/internal/core/ports"
	"splitpay-storefront/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProductServiceImpl implements ports.ProductService.
type ProductServiceImpl struct {
	productRepo  ports.ProductRepository
	merchantRepo ports.MerchantRepository
	transactor   ports.DBTransactor
	cache        ports.CatalogCache
	log          zerolog.Logger
}

// NewProductService creates a new ProductServiceImpl.
func NewProductService(
	productRepo ports.ProductRepository,
	merchantRepo ports.MerchantRepository,
	transactor ports.DBTransactor,
	cache ports.CatalogCache,
	log zerolog.Logger,
) *ProductServiceImpl {
	return &ProductServiceImpl{
		productRepo:  productRepo,
		merchantRepo: merchantRepo,
		transactor:   transactor,
		cache:        cache,
		log:          log,
	}
}

// AddProduct creates a product and its split configuration atomically.
func (s *ProductServiceImpl) AddProduct(ctx context.Context, merchantID uuid.UUID, in ports.ProductInput) (*domain.Product, error) {
	if in.Name == "" {
		return nil, apperror.Validation("product name is required")
	}
	if in.Price <= 0 {
		return nil, apperror.Validation("product price must be positive")
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:         uuid.New(),
		MerchantID: merchantID,
		Name:       in.Name,
		Price:      in.Price,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	entries, err := buildSplitEntries(product.ID, in.Splits)
	if err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.productRepo.Create(ctx, dbTx, product); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create product: %w", err))
	}
	if err := s.productRepo.ReplaceSplits(ctx, dbTx, product.ID, entries); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("write splits: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	product.Splits = entries
	s.invalidateStorefront(ctx, merchantID)
	return product, nil
}

// UpdateProduct changes a product's name, price and splits.
func (s *ProductServiceImpl) UpdateProduct(ctx context.Context, merchantID, productID uuid.UUID, in ports.ProductInput) (*domain.Product, error) {
	if in.Name == "" {
		return nil, apperror.Validation("product name is required")
	}
	if in.Price <= 0 {
		return nil, apperror.Validation("product price must be positive")
	}

	product, err := s.ownedProduct(ctx, merchantID, productID)
	if err != nil {
		return nil, err
	}

	entries, err := buildSplitEntries(product.ID, in.Splits)
	if err != nil {
		return nil, err
	}

	product.Name = in.Name
	product.Price = in.Price
	product.UpdatedAt = time.Now().UTC()

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.productRepo.Update(ctx, dbTx, product); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update product: %w", err))
	}
	if err := s.productRepo.ReplaceSplits(ctx, dbTx, product.ID, entries); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("replace splits: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	product.Splits = entries
	s.invalidateStorefront(ctx, merchantID)
	return product, nil
}

// SetSplits replaces a product's split configuration without touching the
// product row. Sales already settled keep the obligations computed from the
// configuration in force at their settlement.
func (s *ProductServiceImpl) SetSplits(ctx context.Context, merchantID, productID uuid.UUID, splits []ports.SplitInput) ([]domain.SplitEntry, error) {
	product, err := s.ownedProduct(ctx, merchantID, productID)
	if err != nil {
		return nil, err
	}

	entries, err := buildSplitEntries(product.ID, splits)
	if err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.productRepo.ReplaceSplits(ctx, dbTx, product.ID, entries); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("replace splits: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	return entries, nil
}

// ListProducts returns the merchant's catalog with split configurations.
func (s *ProductServiceImpl) ListProducts(ctx context.Context, merchantID uuid.UUID) ([]domain.Product, error) {
	products, err := s.productRepo.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list products: %w", err))
	}
	return products, nil
}

// DeleteProduct removes a product from the catalog. Settled sales referencing
// it keep their records.
func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, merchantID, productID uuid.UUID) error {
	deleted, err := s.productRepo.Delete(ctx, merchantID, productID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("delete product: %w", err))
	}
	if !deleted {
		return apperror.ErrProductNotFound()
	}
	s.invalidateStorefront(ctx, merchantID)
	return nil
}

// ownedProduct fetches a product and checks it belongs to the merchant.
// Another merchant's product is reported as not found, not as forbidden.
func (s *ProductServiceImpl) ownedProduct(ctx context.Context, merchantID, productID uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get product: %w", err))
	}
	if product == nil || product.MerchantID != merchantID {
		return nil, apperror.ErrProductNotFound()
	}
	return product, nil
}

// invalidateStorefront drops the cached public page after a catalog change.
// Cache trouble is logged and swallowed; the page just stays stale until TTL.
func (s *ProductServiceImpl) invalidateStorefront(ctx context.Context, merchantID uuid.UUID) {
	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil || merchant == nil {
		s.log.Warn().Err(err).Str("merchant_id", merchantID.String()).Msg("storefront invalidation: merchant lookup failed")
		return
	}
	if err := s.cache.Invalidate(ctx, merchant.Slug); err != nil {
		s.log.Warn().Err(err).Str("slug", merchant.Slug).Msg("storefront invalidation failed")
	}
}

// buildSplitEntries validates the incoming split set and materialises it as
// rows. The set must be non-empty, free of negative percentages and
// duplicate wallets, and sum to exactly 100.
func buildSplitEntries(productID uuid.UUID, splits []ports.SplitInput) ([]domain.SplitEntry, error) {
	if len(splits) == 0 {
		return nil, apperror.ErrEmptySplits()
	}

	entries := make([]domain.SplitEntry, 0, len(splits))
	for _, in := range splits {
		if in.Percentage < 0 {
			return nil, apperror.ErrNegativeSplitPercentage(in.WalletAddress)
		}
		entries = append(entries, domain.SplitEntry{
			ID:            uuid.New(),
			ProductID:     productID,
			WalletAddress: in.WalletAddress,
			Percentage:    in.Percentage,
		})
	}

	if dup := domain.FindDuplicateSplitWallet(entries); dup != "" {
		return nil, apperror.ErrDuplicateSplitWallet(dup)
	}
	if total := domain.SplitTotal(entries); total != 100 {
		return nil, apperror.ErrInvalidSplitTotal(total)
	}
	return entries, nil
}
