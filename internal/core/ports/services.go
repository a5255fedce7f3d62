package ports

import (
	"context"
	"time"

	"splitpay-storefront/internal/core/domain"

	"github.com/google/uuid"
)

// EncryptionService handles AES-256-GCM encryption/decryption.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// SignatureService handles HMAC-SHA256 signing and verification for
// outbound webhook payloads.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations for the merchant dashboard.
type TokenService interface {
	Generate(merchantID uuid.UUID) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	MerchantID uuid.UUID
}

// CatalogCache is a best-effort cache for public storefront pages.
type CatalogCache interface {
	Get(ctx context.Context, slug string) ([]byte, error) // Returns cached JSON or nil
	Set(ctx context.Context, slug string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, slug string) error
}

// --- Service Ports (Business Logic) ---

// AuthService defines merchant authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for merchant registration.
type RegisterRequest struct {
	Username      string
	Email         string
	Password      string
	StoreName     string
	WalletAddress string
	WebhookURL    *string
}

// RegisterResponse holds the registration result.
type RegisterResponse struct {
	MerchantID uuid.UUID
	Slug       string
}

// MerchantService defines merchant account management.
type MerchantService interface {
	GetProfile(ctx context.Context, merchantID uuid.UUID) (*domain.Merchant, error)
	UpdatePassword(ctx context.Context, merchantID uuid.UUID, oldPassword, newPassword string) error
	UpdateWebhookURL(ctx context.Context, merchantID uuid.UUID, url *string) error
	DeleteAccount(ctx context.Context, merchantID uuid.UUID) error
}

// SplitInput is one (wallet, percentage) pair supplied by a merchant.
type SplitInput struct {
	WalletAddress string
	Percentage    int
}

// ProductInput holds validated input for creating or updating a product.
type ProductInput struct {
	Name   string
	Price  int64
	Splits []SplitInput
}

// ProductService defines product catalog and split-configuration logic.
type ProductService interface {
	AddProduct(ctx context.Context, merchantID uuid.UUID, in ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, merchantID, productID uuid.UUID, in ProductInput) (*domain.Product, error)
	SetSplits(ctx context.Context, merchantID, productID uuid.UUID, splits []SplitInput) ([]domain.SplitEntry, error)
	ListProducts(ctx context.Context, merchantID uuid.UUID) ([]domain.Product, error)
	DeleteProduct(ctx context.Context, merchantID, productID uuid.UUID) error
}

// Storefront is the public view of a merchant's catalog.
type Storefront struct {
	StoreName string
	Slug      string
	Products  []domain.Product
}

// CreateSaleRequest holds input for purchase intent creation.
type CreateSaleRequest struct {
	Slug      string
	ProductID uuid.UUID
	Quantity  int32
}

// PaymentInstruction tells the buyer what to pay, where. It is advisory —
// only verification of the actual on-chain transfer settles the sale.
type PaymentInstruction struct {
	SaleID         uuid.UUID
	Amount         int64
	MerchantWallet string
	TokenContract  string
	ChainID        int64
}

// StoreService defines the public storefront operations.
type StoreService interface {
	GetStorefront(ctx context.Context, slug string) (*Storefront, error)
	CreateSale(ctx context.Context, req CreateSaleRequest) (*PaymentInstruction, error)
}

// SettlementService verifies a claimed on-chain payment against a pending
// sale and, on success, atomically settles the sale and records its payout
// obligations.
type SettlementService interface {
	Settle(ctx context.Context, saleID uuid.UUID, txHash string) (*domain.Sale, error)
}

// PayoutService defines the payout ledger operations.
type PayoutService interface {
	ListUnpaid(ctx context.Context, merchantID uuid.UUID) ([]domain.PayoutObligation, error)
	MarkPaid(ctx context.Context, merchantID, payoutID uuid.UUID, txHash *string) error
}

// Dashboard aggregates everything the merchant dashboard shows.
type Dashboard struct {
	Merchant    *domain.Merchant
	Stats       SaleStats
	Inventory   []domain.Product
	RecentSales []SaleWithProduct
}

// ReportingService defines dashboard/reporting business logic.
type ReportingService interface {
	GetDashboard(ctx context.Context, merchantID uuid.UUID) (*Dashboard, error)
	ListSales(ctx context.Context, merchantID uuid.UUID) ([]SaleWithProduct, error)
}

// WebhookService defines async webhook delivery for settled sales.
type WebhookService interface {
	EnqueueSalePaid(ctx context.Context, sale *domain.Sale) error
}
