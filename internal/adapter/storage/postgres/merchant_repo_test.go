package postgres

import (
	"context"
	"testing"
	"time"

	"splitpay-storefront/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTestMerchant() *domain.Merchant {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Merchant{
		ID:               uuid.New(),
		Username:         "alice",
		Email:            "alice@example.com",
		PasswordHash:     "$argon2id$v=19$m=65536,t=3,p=2$salt$hash",
		StoreName:        "Alice's Records",
		Slug:             "alices-records",
		WalletAddress:    "0x1111111111111111111111111111111111111111",
		WebhookURL:       strPtr("https://example.com/hooks/sale"),
		WebhookSecretEnc: "enc:webhook-secret",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func merchantTestColumns() []string {
	return []string{"id", "username", "email", "password_hash", "store_name", "slug",
		"wallet_address", "webhook_url", "webhook_secret_enc", "created_at", "updated_at"}
}

func merchantRow(m *domain.Merchant) *pgxmock.Rows {
	return pgxmock.NewRows(merchantTestColumns()).AddRow(
		m.ID, m.Username, m.Email, m.PasswordHash, m.StoreName, m.Slug,
		m.WalletAddress, m.WebhookURL, m.WebhookSecretEnc, m.CreatedAt, m.UpdatedAt,
	)
}

func TestMerchantRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewMerchantRepo(mock)
	m := newTestMerchant()

	mock.ExpectExec("INSERT INTO merchants").
		WithArgs(
			m.ID, m.Username, m.Email, m.PasswordHash, m.StoreName,
			m.Slug, m.WalletAddress, m.WebhookURL, m.WebhookSecretEnc,
			m.CreatedAt, m.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), m)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMerchantRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewMerchantRepo(mock)
	m := newTestMerchant()

	mock.ExpectQuery("SELECT .+ FROM merchants WHERE id").
		WithArgs(m.ID).
		WillReturnRows(merchantRow(m))

	result, err := repo.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, m.ID, result.ID)
	assert.Equal(t, m.Slug, result.Slug)
	assert.Equal(t, m.WalletAddress, result.WalletAddress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMerchantRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewMerchantRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM merchants WHERE id").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(merchantTestColumns()))

	result, err := repo.GetByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMerchantRepo_GetByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewMerchantRepo(mock)
	m := newTestMerchant()

	mock.ExpectQuery("SELECT .+ FROM merchants WHERE username").
		WithArgs(m.Username).
		WillReturnRows(merchantRow(m))

	result, err := repo.GetByUsername(context.Background(), m.Username)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, m.Username, result.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMerchantRepo_GetBySlug(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewMerchantRepo(mock)
	m := newTestMerchant()

	mock.ExpectQuery("SELECT .+ FROM merchants WHERE slug").
		WithArgs(m.Slug).
		WillReturnRows(merchantRow(m))

	result, err := repo.GetBySlug(context.Background(), m.Slug)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, m.Slug, result.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMerchantRepo_UpdatePassword(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewMerchantRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE merchants SET password_hash").
		WithArgs("new-hash", id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.UpdatePassword(context.Background(), id, "new-hash")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMerchantRepo_UpdatePassword_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewMerchantRepo(mock)

	mock.ExpectExec("UPDATE merchants SET password_hash").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdatePassword(context.Background(), uuid.New(), "new-hash")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMerchantRepo_UpdateWebhookURL_Clear(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewMerchantRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE merchants SET webhook_url").
		WithArgs((*string)(nil), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.UpdateWebhookURL(context.Background(), id, nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMerchantRepo_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewMerchantRepo(mock)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM merchants").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err = repo.Delete(context.Background(), id)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
