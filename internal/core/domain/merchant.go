package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Merchant represents a registered store owner. The wallet address is where
// buyers send the full token payment; partner shares are settled out of it
// later via payout obligations.
type Merchant struct {
	ID               uuid.UUID `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"` // Never expose
	StoreName        string    `json:"store_name"`
	Slug             string    `json:"slug"` // Unique storefront handle
	WalletAddress    string    `json:"wallet_address"`
	WebhookURL       *string   `json:"webhook_url,omitempty"`
	WebhookSecretEnc string    `json:"-"` // Encrypted, never expose
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// OwnsWallet reports whether addr is the merchant's payout wallet.
// Hex addresses compare case-insensitively (checksum casing varies).
func (m *Merchant) OwnsWallet(addr string) bool {
	return EqualAddress(m.WalletAddress, addr)
}

// EqualAddress compares two hex wallet addresses case-insensitively.
func EqualAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}
