package domain

import (
	"time"

	"github.com/google/uuid"
)

// SaleStatus represents the lifecycle state of a sale.
type SaleStatus string

const (
	SaleStatusPending SaleStatus = "PENDING"
	SaleStatusPaid    SaleStatus = "PAID"
)

// Sale is a purchase intent. It is created PENDING with the exact amount the
// buyer must transfer (price × quantity), and transitions to PAID exactly
// once, when an on-chain transfer matching it has been verified. Sales are
// never deleted.
type Sale struct {
	ID         uuid.UUID  `json:"id"`
	MerchantID uuid.UUID  `json:"merchant_id"`
	ProductID  uuid.UUID  `json:"product_id"`
	Quantity   int32      `json:"quantity"`
	Amount     int64      `json:"amount"` // In the token's smallest unit
	Status     SaleStatus `json:"status"`
	TxHash     *string    `json:"tx_hash,omitempty"` // Set at settlement
	CreatedAt  time.Time  `json:"created_at"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
}

// IsPending returns true if the sale has not been settled yet.
func (s *Sale) IsPending() bool {
	return s.Status == SaleStatusPending
}
