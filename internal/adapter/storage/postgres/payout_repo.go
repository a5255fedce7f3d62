package postgres

import (
	"context"
	"fmt"

	"splitpay-storefront/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PayoutRepo implements ports.PayoutRepository.
type PayoutRepo struct {
	pool Pool
}

// NewPayoutRepo creates a new PayoutRepo.
func NewPayoutRepo(pool Pool) *PayoutRepo {
	return &PayoutRepo{pool: pool}
}

const payoutColumns = `id, merchant_id, sale_id, recipient_wallet, amount, status, tx_hash, created_at, paid_at`

// CreateBatch inserts all obligations of one settlement. Must run inside the
// same transaction as the sale's status transition so both commit together.
func (r *PayoutRepo) CreateBatch(ctx context.Context, tx pgx.Tx, obligations []domain.PayoutObligation) error {
	query := `INSERT INTO payout_obligations (` + payoutColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for i := range obligations {
		o := &obligations[i]
		_, err := tx.Exec(ctx, query,
			o.ID, o.MerchantID, o.SaleID, o.RecipientWallet, o.Amount,
			o.Status, o.TxHash, o.CreatedAt, o.PaidAt,
		)
		if err != nil {
			return fmt.Errorf("insert payout obligation: %w", err)
		}
	}
	return nil
}

// ListUnpaid fetches a merchant's unpaid obligations, oldest first.
func (r *PayoutRepo) ListUnpaid(ctx context.Context, merchantID uuid.UUID) ([]domain.PayoutObligation, error) {
	query := `SELECT ` + payoutColumns + ` FROM payout_obligations
		WHERE merchant_id = $1 AND status = $2 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, merchantID, domain.PayoutStatusUnpaid)
	if err != nil {
		return nil, fmt.Errorf("list unpaid payouts: %w", err)
	}
	defer rows.Close()

	return scanObligations(rows)
}

// MarkPaid sets an obligation to PAID, scoped to the owning merchant and the
// UNPAID state. Returns false when no such row exists — an unknown id,
// another merchant's obligation, and an already-paid obligation are
// indistinguishable to the caller.
func (r *PayoutRepo) MarkPaid(ctx context.Context, merchantID, id uuid.UUID, txHash *string) (bool, error) {
	query := `UPDATE payout_obligations SET status = $1, tx_hash = COALESCE($2, tx_hash), paid_at = NOW()
		WHERE id = $3 AND merchant_id = $4 AND status = $5`

	tag, err := r.pool.Exec(ctx, query, domain.PayoutStatusPaid, txHash, id, merchantID, domain.PayoutStatusUnpaid)
	if err != nil {
		return false, fmt.Errorf("mark payout paid: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListBySale fetches all obligations generated by one sale.
func (r *PayoutRepo) ListBySale(ctx context.Context, saleID uuid.UUID) ([]domain.PayoutObligation, error) {
	query := `SELECT ` + payoutColumns + ` FROM payout_obligations
		WHERE sale_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list payouts by sale: %w", err)
	}
	defer rows.Close()

	return scanObligations(rows)
}

func scanObligations(rows pgx.Rows) ([]domain.PayoutObligation, error) {
	var obligations []domain.PayoutObligation
	for rows.Next() {
		o := domain.PayoutObligation{}
		err := rows.Scan(
			&o.ID, &o.MerchantID, &o.SaleID, &o.RecipientWallet, &o.Amount,
			&o.Status, &o.TxHash, &o.CreatedAt, &o.PaidAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan payout row: %w", err)
		}
		obligations = append(obligations, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payout rows: %w", err)
	}
	return obligations, nil
}
