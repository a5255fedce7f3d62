package ports

import (
	"context"

	"splitpay-storefront/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MerchantRepository defines persistence operations for merchants.
type MerchantRepository interface {
	Create(ctx context.Context, merchant *domain.Merchant) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error)
	GetByUsername(ctx context.Context, username string) (*domain.Merchant, error)
	GetByEmail(ctx context.Context, email string) (*domain.Merchant, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Merchant, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateWebhookURL(ctx context.Context, id uuid.UUID, url *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository defines persistence operations for products and their
// split configurations. Methods accepting pgx.Tx run inside transaction
// blocks so a product and its splits commit together.
type ProductRepository interface {
	Create(ctx context.Context, tx pgx.Tx, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]domain.Product, error)
	Update(ctx context.Context, tx pgx.Tx, product *domain.Product) error
	Delete(ctx context.Context, merchantID, productID uuid.UUID) (bool, error)
	GetSplits(ctx context.Context, productID uuid.UUID) ([]domain.SplitEntry, error)
	// ReplaceSplits reconciles stored splits with entries by diff: rows whose
	// wallet is absent from entries are deleted, matching wallets get their
	// percentage updated, new wallets are inserted.
	ReplaceSplits(ctx context.Context, tx pgx.Tx, productID uuid.UUID, entries []domain.SplitEntry) error
}

// SaleRepository defines persistence operations for sales.
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error)
	// MarkPaid performs the conditional PENDING→PAID transition and records
	// the chain transaction hash. It returns false when the sale does not
	// exist or is no longer PENDING, leaving the row untouched; the guard and
	// the update are one statement, so concurrent callers cannot both win.
	MarkPaid(ctx context.Context, tx pgx.Tx, id uuid.UUID, txHash string) (bool, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]SaleWithProduct, error)
	GetStats(ctx context.Context, merchantID uuid.UUID) (*SaleStats, error)
}

// SaleWithProduct joins a sale with its product's display name.
type SaleWithProduct struct {
	domain.Sale
	ProductName string
}

// SaleStats holds aggregated sale figures for the dashboard.
type SaleStats struct {
	TotalRevenue int64 // Sum of PAID sale amounts
	ItemsSold    int64 // Count of PAID sales
}

// PayoutRepository defines persistence operations for payout obligations.
type PayoutRepository interface {
	// CreateBatch inserts all obligations of one settlement within the same
	// transaction as the sale's status transition.
	CreateBatch(ctx context.Context, tx pgx.Tx, obligations []domain.PayoutObligation) error
	ListUnpaid(ctx context.Context, merchantID uuid.UUID) ([]domain.PayoutObligation, error)
	// MarkPaid sets an obligation to PAID, scoped to the owning merchant.
	// Returns false when no UNPAID obligation with this id belongs to the
	// merchant.
	MarkPaid(ctx context.Context, merchantID, id uuid.UUID, txHash *string) (bool, error)
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]domain.PayoutObligation, error)
}

// WebhookRepository persists webhook delivery attempts.
type WebhookRepository interface {
	Create(ctx context.Context, log *domain.WebhookDeliveryLog) error
	Update(ctx context.Context, log *domain.WebhookDeliveryLog) error
	GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]domain.WebhookDeliveryLog, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
