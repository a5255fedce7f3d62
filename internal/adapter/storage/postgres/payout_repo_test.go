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

func newTestObligation(merchantID, saleID uuid.UUID, wallet string, amount int64) domain.PayoutObligation {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.PayoutObligation{
		ID:              uuid.New(),
		MerchantID:      merchantID,
		SaleID:          saleID,
		RecipientWallet: wallet,
		Amount:          amount,
		Status:          domain.PayoutStatusUnpaid,
		CreatedAt:       now,
	}
}

func payoutTestColumns() []string {
	return []string{"id", "merchant_id", "sale_id", "recipient_wallet", "amount",
		"status", "tx_hash", "created_at", "paid_at"}
}

func payoutRows(obligations ...domain.PayoutObligation) *pgxmock.Rows {
	rows := pgxmock.NewRows(payoutTestColumns())
	for _, o := range obligations {
		rows.AddRow(
			o.ID, o.MerchantID, o.SaleID, o.RecipientWallet, o.Amount,
			o.Status, o.TxHash, o.CreatedAt, o.PaidAt,
		)
	}
	return rows
}

func TestPayoutRepo_CreateBatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)
	merchantID, saleID := uuid.New(), uuid.New()
	obligations := []domain.PayoutObligation{
		newTestObligation(merchantID, saleID, "0x2222222222222222222222222222222222222222", 10000000),
		newTestObligation(merchantID, saleID, "0x3333333333333333333333333333333333333333", 7500000),
	}

	mock.ExpectBegin()
	for _, o := range obligations {
		mock.ExpectExec("INSERT INTO payout_obligations").
			WithArgs(
				o.ID, o.MerchantID, o.SaleID, o.RecipientWallet, o.Amount,
				o.Status, o.TxHash, o.CreatedAt, o.PaidAt,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.CreateBatch(context.Background(), dbTx, obligations)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepo_CreateBatch_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)

	mock.ExpectBegin()
	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.CreateBatch(context.Background(), dbTx, nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepo_ListUnpaid(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)
	merchantID := uuid.New()
	o := newTestObligation(merchantID, uuid.New(), "0x2222222222222222222222222222222222222222", 4000000)

	mock.ExpectQuery("SELECT .+ FROM payout_obligations").
		WithArgs(merchantID, domain.PayoutStatusUnpaid).
		WillReturnRows(payoutRows(o))

	result, err := repo.ListUnpaid(context.Background(), merchantID)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, o.ID, result[0].ID)
	assert.Equal(t, domain.PayoutStatusUnpaid, result[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepo_MarkPaid(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)
	merchantID, id := uuid.New(), uuid.New()
	txHash := strPtr("0xfeedface")

	mock.ExpectExec("UPDATE payout_obligations SET status").
		WithArgs(domain.PayoutStatusPaid, txHash, id, merchantID, domain.PayoutStatusUnpaid).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.MarkPaid(context.Background(), merchantID, id, txHash)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepo_MarkPaid_WrongMerchant(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)

	mock.ExpectExec("UPDATE payout_obligations SET status").
		WithArgs(domain.PayoutStatusPaid, (*string)(nil), pgxmock.AnyArg(), pgxmock.AnyArg(), domain.PayoutStatusUnpaid).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.MarkPaid(context.Background(), uuid.New(), uuid.New(), nil)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepo_ListBySale(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)
	saleID := uuid.New()
	o1 := newTestObligation(uuid.New(), saleID, "0x2222222222222222222222222222222222222222", 1000000)
	o2 := newTestObligation(o1.MerchantID, saleID, "0x3333333333333333333333333333333333333333", 500000)

	mock.ExpectQuery("SELECT .+ FROM payout_obligations").
		WithArgs(saleID).
		WillReturnRows(payoutRows(o1, o2))

	result, err := repo.ListBySale(context.Background(), saleID)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, o1.RecipientWallet, result[0].RecipientWallet)
	assert.Equal(t, o2.RecipientWallet, result[1].RecipientWallet)
	assert.NoError(t, mock.ExpectationsWereMet())
}
