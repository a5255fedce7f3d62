package postgres

import (
	"context"
	"errors"
	"fmt"

	"splitpay-storefront/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MerchantRepo implements ports.MerchantRepository.
type MerchantRepo struct {
	pool Pool
}

// NewMerchantRepo creates a new MerchantRepo.
func NewMerchantRepo(pool Pool) *MerchantRepo {
	return &MerchantRepo{pool: pool}
}

const merchantColumns = `id, username, email, password_hash, store_name, slug, wallet_address, webhook_url, webhook_secret_enc, created_at, updated_at`

// Create inserts a new merchant into the database.
func (r *MerchantRepo) Create(ctx context.Context, m *domain.Merchant) error {
	query := `INSERT INTO merchants (` + merchantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		m.ID, m.Username, m.Email, m.PasswordHash, m.StoreName,
		m.Slug, m.WalletAddress, m.WebhookURL, m.WebhookSecretEnc,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert merchant: %w", err)
	}
	return nil
}

// GetByID fetches a merchant by its UUID.
func (r *MerchantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	query := `SELECT ` + merchantColumns + ` FROM merchants WHERE id = $1`
	return r.scanMerchant(r.pool.QueryRow(ctx, query, id))
}

// GetByUsername fetches a merchant by username.
func (r *MerchantRepo) GetByUsername(ctx context.Context, username string) (*domain.Merchant, error) {
	query := `SELECT ` + merchantColumns + ` FROM merchants WHERE username = $1`
	return r.scanMerchant(r.pool.QueryRow(ctx, query, username))
}

// GetByEmail fetches a merchant by email.
func (r *MerchantRepo) GetByEmail(ctx context.Context, email string) (*domain.Merchant, error) {
	query := `SELECT ` + merchantColumns + ` FROM merchants WHERE email = $1`
	return r.scanMerchant(r.pool.QueryRow(ctx, query, email))
}

// GetBySlug fetches a merchant by its public storefront slug.
func (r *MerchantRepo) GetBySlug(ctx context.Context, slug string) (*domain.Merchant, error) {
	query := `SELECT ` + merchantColumns + ` FROM merchants WHERE slug = $1`
	return r.scanMerchant(r.pool.QueryRow(ctx, query, slug))
}

// UpdatePassword replaces the merchant's password hash.
func (r *MerchantRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE merchants SET password_hash = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update merchant password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("merchant not found: %s", id)
	}
	return nil
}

// UpdateWebhookURL replaces the merchant's webhook URL (nil clears it).
func (r *MerchantRepo) UpdateWebhookURL(ctx context.Context, id uuid.UUID, url *string) error {
	query := `UPDATE merchants SET webhook_url = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, url, id)
	if err != nil {
		return fmt.Errorf("update merchant webhook url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("merchant not found: %s", id)
	}
	return nil
}

// Delete removes a merchant account.
func (r *MerchantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM merchants WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete merchant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("merchant not found: %s", id)
	}
	return nil
}

// scanMerchant is a helper to scan a single row into a Merchant.
func (r *MerchantRepo) scanMerchant(row pgx.Row) (*domain.Merchant, error) {
	m := &domain.Merchant{}
	err := row.Scan(
		&m.ID, &m.Username, &m.Email, &m.PasswordHash, &m.StoreName,
		&m.Slug, &m.WalletAddress, &m.WebhookURL, &m.WebhookSecretEnc,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan merchant: %w", err)
	}
	return m, nil
}
