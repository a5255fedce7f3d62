package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"splitpay-storefront/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepo implements ports.ProductRepository.
type ProductRepo struct {
	pool Pool
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(pool Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

// Create inserts a new product within a database transaction. Split rows are
// written separately via ReplaceSplits in the same transaction.
func (r *ProductRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Product) error {
	query := `INSERT INTO products (id, merchant_id, name, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query, p.ID, p.MerchantID, p.Name, p.Price, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID fetches a product with its split configuration.
func (r *ProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT id, merchant_id, name, price, created_at, updated_at FROM products WHERE id = $1`

	p := &domain.Product{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.MerchantID, &p.Name, &p.Price, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}

	splits, err := r.GetSplits(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Splits = splits
	return p, nil
}

// ListByMerchant fetches all of a merchant's products with their splits.
func (r *ProductRepo) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]domain.Product, error) {
	query := `SELECT id, merchant_id, name, price, created_at, updated_at
		FROM products WHERE merchant_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, merchantID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p := domain.Product{}
		if err := rows.Scan(&p.ID, &p.MerchantID, &p.Name, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	for i := range products {
		splits, err := r.GetSplits(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		products[i].Splits = splits
	}
	return products, nil
}

// Update changes a product's name and price within a database transaction.
func (r *ProductRepo) Update(ctx context.Context, tx pgx.Tx, p *domain.Product) error {
	query := `UPDATE products SET name = $1, price = $2, updated_at = NOW() WHERE id = $3 AND merchant_id = $4`

	tag, err := tx.Exec(ctx, query, p.Name, p.Price, p.ID, p.MerchantID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product not found: %s", p.ID)
	}
	return nil
}

// Delete removes a product owned by the merchant. Returns false when the
// product does not exist or belongs to someone else.
func (r *ProductRepo) Delete(ctx context.Context, merchantID, productID uuid.UUID) (bool, error) {
	query := `DELETE FROM products WHERE id = $1 AND merchant_id = $2`

	tag, err := r.pool.Exec(ctx, query, productID, merchantID)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetSplits fetches the split configuration for a product.
func (r *ProductRepo) GetSplits(ctx context.Context, productID uuid.UUID) ([]domain.SplitEntry, error) {
	query := `SELECT id, product_id, wallet_address, percentage
		FROM product_splits WHERE product_id = $1 ORDER BY percentage DESC, wallet_address`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("get splits: %w", err)
	}
	defer rows.Close()

	var splits []domain.SplitEntry
	for rows.Next() {
		s := domain.SplitEntry{}
		if err := rows.Scan(&s.ID, &s.ProductID, &s.WalletAddress, &s.Percentage); err != nil {
			return nil, fmt.Errorf("scan split row: %w", err)
		}
		splits = append(splits, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate split rows: %w", err)
	}
	return splits, nil
}

// ReplaceSplits reconciles stored splits with the incoming set by diff:
// wallets absent from entries are removed, existing wallets get their
// percentage updated, new wallets are inserted. Runs within the caller's
// transaction so the set is replaced atomically.
func (r *ProductRepo) ReplaceSplits(ctx context.Context, tx pgx.Tx, productID uuid.UUID, entries []domain.SplitEntry) error {
	existingQuery := `SELECT id, product_id, wallet_address, percentage
		FROM product_splits WHERE product_id = $1`

	rows, err := tx.Query(ctx, existingQuery, productID)
	if err != nil {
		return fmt.Errorf("load existing splits: %w", err)
	}

	existing := make(map[string]domain.SplitEntry)
	for rows.Next() {
		s := domain.SplitEntry{}
		if err := rows.Scan(&s.ID, &s.ProductID, &s.WalletAddress, &s.Percentage); err != nil {
			rows.Close()
			return fmt.Errorf("scan existing split: %w", err)
		}
		existing[strings.ToLower(s.WalletAddress)] = s
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate existing splits: %w", err)
	}

	incoming := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		incoming[strings.ToLower(e.WalletAddress)] = struct{}{}
	}

	// Remove wallets no longer present.
	for key, old := range existing {
		if _, ok := incoming[key]; !ok {
			if _, err := tx.Exec(ctx, `DELETE FROM product_splits WHERE id = $1`, old.ID); err != nil {
				return fmt.Errorf("delete split: %w", err)
			}
		}
	}

	// Update existing wallets, insert new ones.
	for _, e := range entries {
		if old, ok := existing[strings.ToLower(e.WalletAddress)]; ok {
			if old.Percentage == e.Percentage {
				continue
			}
			if _, err := tx.Exec(ctx,
				`UPDATE product_splits SET percentage = $1 WHERE id = $2`,
				e.Percentage, old.ID,
			); err != nil {
				return fmt.Errorf("update split: %w", err)
			}
			continue
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_splits (id, product_id, wallet_address, percentage) VALUES ($1, $2, $3, $4)`,
			e.ID, productID, e.WalletAddress, e.Percentage,
		); err != nil {
			return fmt.Errorf("insert split: %w", err)
		}
	}
	return nil
}
