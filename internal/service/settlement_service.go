package service

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"splitpay-storefront/internal/core/domain"
	"splitpay-storefront/internal/core/ports"
	"splitpay-storefront/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// SettlementServiceImpl implements ports.SettlementService.
type SettlementServiceImpl struct {
	saleRepo      ports.SaleRepository
	productRepo   ports.ProductRepository
	merchantRepo  ports.MerchantRepository
	payoutRepo    ports.PayoutRepository
	chain         ports.ChainReader
	decoder       ports.CallDecoder
	transactor    ports.DBTransactor
	webhookSvc    ports.WebhookService
	tokenContract string
	log           zerolog.Logger
}

// NewSettlementService creates a new SettlementServiceImpl. tokenContract is
// the only ERC-20 contract payments are accepted on.
func NewSettlementService(
	saleRepo ports.SaleRepository,
	productRepo ports.ProductRepository,
	merchantRepo ports.MerchantRepository,
	payoutRepo ports.PayoutRepository,
	chain ports.ChainReader,
	decoder ports.CallDecoder,
	transactor ports.DBTransactor,
	webhookSvc ports.WebhookService,
	tokenContract string,
	log zerolog.Logger,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		saleRepo:      saleRepo,
		productRepo:   productRepo,
		merchantRepo:  merchantRepo,
		payoutRepo:    payoutRepo,
		chain:         chain,
		decoder:       decoder,
		transactor:    transactor,
		webhookSvc:    webhookSvc,
		tokenContract: tokenContract,
		log:           log,
	}
}

// Settle verifies the claimed on-chain payment for a pending sale and, if it
// checks out, marks the sale PAID and records its payout obligations in one
// database transaction. All chain I/O happens before the transaction opens;
// the conditional status UPDATE inside it is what makes settlement
// exactly-once under concurrent confirmations.
func (s *SettlementServiceImpl) Settle(ctx context.Context, saleID uuid.UUID, txHash string) (*domain.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get sale: %w", err))
	}
	if sale == nil || !sale.IsPending() {
		return nil, apperror.ErrSaleNotSettleable()
	}

	merchant, err := s.merchantRepo.GetByID(ctx, sale.MerchantID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get merchant: %w", err))
	}
	if merchant == nil {
		return nil, apperror.ErrMerchantNotFound()
	}

	if err := s.verifyTransfer(ctx, sale, merchant, txHash); err != nil {
		return nil, err
	}

	splits, err := s.productRepo.GetSplits(ctx, sale.ProductID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get splits: %w", err))
	}

	now := time.Now().UTC()
	obligations := AllocatePayouts(merchant, sale, splits, now)

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	won, err := s.saleRepo.MarkPaid(ctx, dbTx, sale.ID, txHash)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("mark sale paid: %w", err))
	}
	if !won {
		// A concurrent confirmation settled it between our read and here.
		return nil, apperror.ErrSaleNotSettleable()
	}

	if err := s.payoutRepo.CreateBatch(ctx, dbTx, obligations); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create payout obligations: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	sale.Status = domain.SaleStatusPaid
	sale.TxHash = &txHash
	sale.PaidAt = &now

	s.log.Info().
		Str("sale_id", sale.ID.String()).
		Str("tx_hash", txHash).
		Int("obligations", len(obligations)).
		Msg("sale settled")

	if err := s.webhookSvc.EnqueueSalePaid(ctx, sale); err != nil {
		s.log.Warn().Err(err).Str("sale_id", sale.ID.String()).Msg("webhook enqueue failed")
	}

	return sale, nil
}

// verifyTransfer checks the claimed transaction against the sale: it must be
// a successful transfer() on the configured token contract, moving exactly
// the sale amount to the merchant's wallet. The transaction itself is
// untrusted input; nothing read from the chain is written anywhere.
func (s *SettlementServiceImpl) verifyTransfer(ctx context.Context, sale *domain.Sale, merchant *domain.Merchant, txHash string) error {
	chainTx, err := s.chain.GetTransaction(ctx, txHash)
	if err != nil {
		return apperror.ErrChainLookup(err)
	}

	if chainTx.To == "" || !domain.EqualAddress(chainTx.To, s.tokenContract) {
		return apperror.ErrWrongContract()
	}

	call, err := s.decoder.Decode(chainTx.Input)
	if err != nil {
		return apperror.ErrUndecodableCall(err)
	}
	if call.Method != "transfer" {
		return apperror.ErrUnsupportedCall(call.Method)
	}

	if !merchant.OwnsWallet(call.Recipient) {
		return apperror.ErrWrongRecipient()
	}
	if call.Value == nil || call.Value.Cmp(big.NewInt(sale.Amount)) != 0 {
		return apperror.ErrWrongAmount()
	}

	receipt, err := s.chain.GetReceipt(ctx, txHash)
	if err != nil {
		return apperror.ErrChainLookup(err)
	}
	if !receipt.Succeeded {
		return apperror.ErrTransferFailedOnChain()
	}

	return nil
}

// AllocatePayouts derives the payout obligations of a settled sale from its
// product's split configuration. The merchant's own wallet is skipped — the
// merchant already holds the full payment. Each partner is owed
// floor(amount × percentage / 100); rounding residue stays with the
// merchant. Entries that floor to zero produce no obligation.
func AllocatePayouts(merchant *domain.Merchant, sale *domain.Sale, splits []domain.SplitEntry, now time.Time) []domain.PayoutObligation {
	amount := decimal.NewFromInt(sale.Amount)
	hundred := decimal.NewFromInt(100)

	var obligations []domain.PayoutObligation
	for _, split := range splits {
		if merchant.OwnsWallet(split.WalletAddress) {
			continue
		}

		owed := amount.
			Mul(decimal.NewFromInt(int64(split.Percentage))).
			Div(hundred).
			Floor().
			IntPart()
		if owed == 0 {
			continue
		}

		obligations = append(obligations, domain.PayoutObligation{
			ID:              uuid.New(),
			MerchantID:      sale.MerchantID,
			SaleID:          sale.ID,
			RecipientWallet: split.WalletAddress,
			Amount:          owed,
			Status:          domain.PayoutStatusUnpaid,
			CreatedAt:       now,
		})
	}
	return obligations
}
