package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Product is a storefront item. Price is an integer in the token's smallest
// unit and must be positive.
type Product struct {
	ID         uuid.UUID    `json:"id"`
	MerchantID uuid.UUID    `json:"merchant_id"`
	Name       string       `json:"name"`
	Price      int64        `json:"price"`
	Splits     []SplitEntry `json:"splits,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// SplitEntry assigns a percentage of a product's revenue to a wallet.
// Across one product the percentages sum to exactly 100 and wallets are
// unique (case-insensitive).
type SplitEntry struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product_id"`
	WalletAddress string    `json:"wallet_address"`
	Percentage    int       `json:"percentage"`
}

// SplitTotal sums the percentages of a split set.
func SplitTotal(entries []SplitEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Percentage
	}
	return total
}

// FindDuplicateSplitWallet returns the first wallet address that appears more
// than once in the set (case-insensitive), or "" if all are unique.
func FindDuplicateSplitWallet(entries []SplitEntry) string {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		key := strings.ToLower(e.WalletAddress)
		if _, ok := seen[key]; ok {
			return e.WalletAddress
		}
		seen[key] = struct{}{}
	}
	return ""
}
