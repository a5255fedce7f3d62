package domain

import (
	"time"

	"github.com/google/uuid"
)

// PayoutStatus represents the state of a payout obligation.
type PayoutStatus string

const (
	PayoutStatusUnpaid PayoutStatus = "UNPAID"
	PayoutStatusPaid   PayoutStatus = "PAID"
)

// PayoutObligation is a recorded debt from a merchant to a partner wallet,
// derived from a product's split configuration at the moment its sale is
// settled. The merchant's own share is implicit (the merchant received the
// full payment) and is never recorded as an obligation. The only transition
// is UNPAID → PAID, by an explicit operator action.
type PayoutObligation struct {
	ID              uuid.UUID    `json:"id"`
	MerchantID      uuid.UUID    `json:"merchant_id"`
	SaleID          uuid.UUID    `json:"sale_id"`
	RecipientWallet string       `json:"recipient_wallet"`
	Amount          int64        `json:"amount"`
	Status          PayoutStatus `json:"status"`
	TxHash          *string      `json:"tx_hash,omitempty"` // Operator-recorded, unverified
	CreatedAt       time.Time    `json:"created_at"`
	PaidAt          *time.Time   `json:"paid_at,omitempty"`
}
