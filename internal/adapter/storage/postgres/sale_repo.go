package postgres

import (
	"context"
	"errors"
	"fmt"

	"splitpay-storefront/internal/core/domain"
	"splitpay-storefront/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaleRepo implements ports.SaleRepository.
type SaleRepo struct {
	pool Pool
}

// NewSaleRepo creates a new SaleRepo.
func NewSaleRepo(pool Pool) *SaleRepo {
	return &SaleRepo{pool: pool}
}

// Create inserts a new pending sale.
func (r *SaleRepo) Create(ctx context.Context, s *domain.Sale) error {
	query := `INSERT INTO sales (id, merchant_id, product_id, quantity, amount, status, tx_hash, created_at, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		s.ID, s.MerchantID, s.ProductID, s.Quantity, s.Amount,
		s.Status, s.TxHash, s.CreatedAt, s.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID fetches a sale by UUID.
func (r *SaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	query := `SELECT id, merchant_id, product_id, quantity, amount, status, tx_hash, created_at, paid_at
		FROM sales WHERE id = $1`

	s := &domain.Sale{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.MerchantID, &s.ProductID, &s.Quantity, &s.Amount,
		&s.Status, &s.TxHash, &s.CreatedAt, &s.PaidAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale by id: %w", err)
	}
	return s, nil
}

// MarkPaid transitions a sale PENDING→PAID and records the chain transaction
// hash. The status guard is part of the UPDATE itself, so among concurrent
// callers exactly one sees true; the rest find zero rows affected.
func (r *SaleRepo) MarkPaid(ctx context.Context, tx pgx.Tx, id uuid.UUID, txHash string) (bool, error) {
	query := `UPDATE sales SET status = $1, tx_hash = $2, paid_at = NOW()
		WHERE id = $3 AND status = $4`

	tag, err := tx.Exec(ctx, query, domain.SaleStatusPaid, txHash, id, domain.SaleStatusPending)
	if err != nil {
		return false, fmt.Errorf("mark sale paid: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByMerchant fetches a merchant's sales joined with product names,
// newest first.
func (r *SaleRepo) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]ports.SaleWithProduct, error) {
	query := `SELECT s.id, s.merchant_id, s.product_id, s.quantity, s.amount, s.status, s.tx_hash, s.created_at, s.paid_at, p.name
		FROM sales s JOIN products p ON p.id = s.product_id
		WHERE s.merchant_id = $1 ORDER BY s.created_at DESC`

	rows, err := r.pool.Query(ctx, query, merchantID)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []ports.SaleWithProduct
	for rows.Next() {
		s := ports.SaleWithProduct{}
		err := rows.Scan(
			&s.ID, &s.MerchantID, &s.ProductID, &s.Quantity, &s.Amount,
			&s.Status, &s.TxHash, &s.CreatedAt, &s.PaidAt, &s.ProductName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sale row: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale rows: %w", err)
	}
	return sales, nil
}

// GetStats retrieves aggregated sale figures for a merchant's dashboard.
func (r *SaleRepo) GetStats(ctx context.Context, merchantID uuid.UUID) (*ports.SaleStats, error) {
	query := `SELECT
		COALESCE(SUM(amount) FILTER (WHERE status = 'PAID'), 0) AS revenue,
		COUNT(*) FILTER (WHERE status = 'PAID') AS items_sold
		FROM sales WHERE merchant_id = $1`

	stats := &ports.SaleStats{}
	err := r.pool.QueryRow(ctx, query, merchantID).Scan(&stats.TotalRevenue, &stats.ItemsSold)
	if err != nil {
		return nil, fmt.Errorf("get sale stats: %w", err)
	}
	return stats, nil
}
