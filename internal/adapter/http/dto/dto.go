package dto

// RegisterRequest is the request body for merchant registration.
type RegisterRequest struct {
	Username      string  `json:"username" binding:"required,min=3,max=50"`
	Email         string  `json:"email" binding:"required,email,max=254"`
	Password      string  `json:"password" binding:"required,min=8,max=128"`
	StoreName     string  `json:"store_name" binding:"required,min=1,max=100"`
	WalletAddress string  `json:"wallet_address" binding:"required,eth_addr"`
	WebhookURL    *string `json:"webhook_url,omitempty" binding:"omitempty,safe_url"`
}

// LoginRequest is the request body for merchant login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	MerchantID string `json:"merchant_id"`
	Slug       string `json:"slug"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// SplitEntryRequest is one (wallet, percentage) pair of a split set.
type SplitEntryRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required,eth_addr"`
	Percentage    int    `json:"percentage"`
}

// ProductRequest is the request body for creating or updating a product.
type ProductRequest struct {
	Name   string              `json:"name" binding:"required,min=1,max=200"`
	Price  int64               `json:"price" binding:"required,gt=0"`
	Splits []SplitEntryRequest `json:"splits" binding:"required,dive"`
}

// SetSplitsRequest replaces a product's split configuration.
type SetSplitsRequest struct {
	Splits []SplitEntryRequest `json:"splits" binding:"required,dive"`
}

// SplitEntryResponse is one stored split row. IsOwner marks the merchant's
// own wallet in dashboard views.
type SplitEntryResponse struct {
	WalletAddress string `json:"wallet_address"`
	Percentage    int    `json:"percentage"`
	IsOwner       bool   `json:"is_owner,omitempty"`
}

// ProductResponse is the merchant-facing view of a product.
type ProductResponse struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Price     int64                `json:"price"`
	Splits    []SplitEntryResponse `json:"splits,omitempty"`
	CreatedAt string               `json:"created_at"`
	UpdatedAt string               `json:"updated_at"`
}

// PublicProductResponse is the buyer-facing view: no splits.
type PublicProductResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// StorefrontResponse is the public catalog page.
type StorefrontResponse struct {
	StoreName string                  `json:"store_name"`
	Slug      string                  `json:"slug"`
	Products  []PublicProductResponse `json:"products"`
}

// CreateSaleRequest is the request body for a purchase intent.
type CreateSaleRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int32  `json:"quantity" binding:"required,gt=0"`
}

// PaymentInstructionResponse tells the buyer what to pay, where.
type PaymentInstructionResponse struct {
	SaleID         string `json:"sale_id"`
	Amount         int64  `json:"amount"`
	MerchantWallet string `json:"merchant_wallet"`
	TokenContract  string `json:"token_contract"`
	ChainID        int64  `json:"chain_id"`
}

// ConfirmSaleRequest carries the buyer's claimed transaction hash.
type ConfirmSaleRequest struct {
	TxHash string `json:"tx_hash" binding:"required,max=100"`
}

// SaleResponse is the API view of a sale.
type SaleResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int32   `json:"quantity"`
	Amount      int64   `json:"amount"`
	Status      string  `json:"status"`
	TxHash      *string `json:"tx_hash,omitempty"`
	CreatedAt   string  `json:"created_at"`
	PaidAt      *string `json:"paid_at,omitempty"`
}

// PayoutResponse is the API view of a payout obligation.
type PayoutResponse struct {
	ID              string  `json:"id"`
	SaleID          string  `json:"sale_id"`
	RecipientWallet string  `json:"recipient_wallet"`
	Amount          int64   `json:"amount"`
	Status          string  `json:"status"`
	TxHash          *string `json:"tx_hash,omitempty"`
	CreatedAt       string  `json:"created_at"`
	PaidAt          *string `json:"paid_at,omitempty"`
}

// MarkPayoutPaidRequest optionally records the transaction the merchant paid
// the partner with. The hash is stored as given, not verified.
type MarkPayoutPaidRequest struct {
	TxHash *string `json:"tx_hash,omitempty" binding:"omitempty,max=100"`
}

// ProfileResponse is the merchant's own account view.
type ProfileResponse struct {
	MerchantID    string  `json:"merchant_id"`
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	StoreName     string  `json:"store_name"`
	Slug          string  `json:"slug"`
	WalletAddress string  `json:"wallet_address"`
	WebhookURL    *string `json:"webhook_url,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// UpdatePasswordRequest changes the account password.
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// UpdateWebhookRequest sets or clears the webhook endpoint. A null or absent
// URL clears it.
type UpdateWebhookRequest struct {
	WebhookURL *string `json:"webhook_url" binding:"omitempty,safe_url"`
}

// DashboardStatsResponse holds the aggregate figures.
type DashboardStatsResponse struct {
	TotalRevenue int64 `json:"total_revenue"`
	ItemsSold    int64 `json:"items_sold"`
}

// DashboardResponse is the full dashboard view.
type DashboardResponse struct {
	StoreName   string                 `json:"store_name"`
	Slug        string                 `json:"slug"`
	Stats       DashboardStatsResponse `json:"stats"`
	Inventory   []ProductResponse      `json:"inventory"`
	RecentSales []SaleResponse         `json:"recent_sales"`
}
