package integration

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"splitpay-storefront/internal/core/domain"
	"splitpay-storefront/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Merchant Repo ---

type inMemoryMerchantRepo struct {
	mu        sync.RWMutex
	merchants map[uuid.UUID]*domain.Merchant
}

func newInMemoryMerchantRepo() *inMemoryMerchantRepo {
	return &inMemoryMerchantRepo{merchants: make(map[uuid.UUID]*domain.Merchant)}
}

func (r *inMemoryMerchantRepo) Create(ctx context.Context, m *domain.Merchant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.merchants {
		if existing.Username == m.Username {
			return fmt.Errorf("username already exists")
		}
	}
	cp := *m
	r.merchants[m.ID] = &cp
	return nil
}

func (r *inMemoryMerchantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.merchants[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *inMemoryMerchantRepo) GetByUsername(ctx context.Context, username string) (*domain.Merchant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.merchants {
		if m.Username == username {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryMerchantRepo) GetByEmail(ctx context.Context, email string) (*domain.Merchant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.merchants {
		if m.Email == email {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryMerchantRepo) GetBySlug(ctx context.Context, slug string) (*domain.Merchant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.merchants {
		if m.Slug == slug {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryMerchantRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.merchants[id]
	if !ok {
		return fmt.Errorf("merchant not found")
	}
	m.PasswordHash = passwordHash
	m.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryMerchantRepo) UpdateWebhookURL(ctx context.Context, id uuid.UUID, url *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.merchants[id]
	if !ok {
		return fmt.Errorf("merchant not found")
	}
	m.WebhookURL = url
	m.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryMerchantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.merchants[id]; !ok {
		return fmt.Errorf("merchant not found")
	}
	delete(r.merchants, id)
	return nil
}

// --- In-Memory Product Repo ---

type inMemoryProductRepo struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*domain.Product
	splits   map[uuid.UUID][]domain.SplitEntry
}

func newInMemoryProductRepo() *inMemoryProductRepo {
	return &inMemoryProductRepo{
		products: make(map[uuid.UUID]*domain.Product),
		splits:   make(map[uuid.UUID][]domain.SplitEntry),
	}
}

func (r *inMemoryProductRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	cp.Splits = nil
	r.products[p.ID] = &cp
	return nil
}

func (r *inMemoryProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.Splits = append([]domain.SplitEntry(nil), r.splits[id]...)
	return &cp, nil
}

func (r *inMemoryProductRepo) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Product
	for id, p := range r.products {
		if p.MerchantID != merchantID {
			continue
		}
		cp := *p
		cp.Splits = append([]domain.SplitEntry(nil), r.splits[id]...)
		result = append(result, cp)
	}
	return result, nil
}

func (r *inMemoryProductRepo) Update(ctx context.Context, tx pgx.Tx, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.products[p.ID]
	if !ok || existing.MerchantID != p.MerchantID {
		return fmt.Errorf("product not found: %s", p.ID)
	}
	existing.Name = p.Name
	existing.Price = p.Price
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryProductRepo) Delete(ctx context.Context, merchantID, productID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok || p.MerchantID != merchantID {
		return false, nil
	}
	delete(r.products, productID)
	delete(r.splits, productID)
	return true, nil
}

func (r *inMemoryProductRepo) GetSplits(ctx context.Context, productID uuid.UUID) ([]domain.SplitEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.SplitEntry(nil), r.splits[productID]...), nil
}

func (r *inMemoryProductRepo) ReplaceSplits(ctx context.Context, tx pgx.Tx, productID uuid.UUID, entries []domain.SplitEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.splits[productID] = append([]domain.SplitEntry(nil), entries...)
	return nil
}

// --- In-Memory Sale Repo ---

type inMemorySaleRepo struct {
	mu    sync.RWMutex
	sales map[uuid.UUID]*domain.Sale
}

func newInMemorySaleRepo() *inMemorySaleRepo {
	return &inMemorySaleRepo{sales: make(map[uuid.UUID]*domain.Sale)}
}

func (r *inMemorySaleRepo) Create(ctx context.Context, s *domain.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sales[s.ID] = &cp
	return nil
}

func (r *inMemorySaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// MarkPaid mirrors the conditional single-statement UPDATE: the status check
// and the transition happen under one lock, so concurrent callers cannot
// both win.
func (r *inMemorySaleRepo) MarkPaid(ctx context.Context, tx pgx.Tx, id uuid.UUID, txHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok || s.Status != domain.SaleStatusPending {
		return false, nil
	}
	now := time.Now().UTC()
	s.Status = domain.SaleStatusPaid
	s.TxHash = &txHash
	s.PaidAt = &now
	return true, nil
}

func (r *inMemorySaleRepo) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]ports.SaleWithProduct, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []ports.SaleWithProduct
	for _, s := range r.sales {
		if s.MerchantID != merchantID {
			continue
		}
		result = append(result, ports.SaleWithProduct{Sale: *s})
	}
	return result, nil
}

func (r *inMemorySaleRepo) GetStats(ctx context.Context, merchantID uuid.UUID) (*ports.SaleStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &ports.SaleStats{}
	for _, s := range r.sales {
		if s.MerchantID != merchantID || s.Status != domain.SaleStatusPaid {
			continue
		}
		stats.TotalRevenue += s.Amount
		stats.ItemsSold++
	}
	return stats, nil
}

// --- In-Memory Payout Repo ---

type inMemoryPayoutRepo struct {
	mu          sync.RWMutex
	obligations map[uuid.UUID]*domain.PayoutObligation
}

func newInMemoryPayoutRepo() *inMemoryPayoutRepo {
	return &inMemoryPayoutRepo{obligations: make(map[uuid.UUID]*domain.PayoutObligation)}
}

func (r *inMemoryPayoutRepo) CreateBatch(ctx context.Context, tx pgx.Tx, obligations []domain.PayoutObligation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range obligations {
		cp := obligations[i]
		r.obligations[cp.ID] = &cp
	}
	return nil
}

func (r *inMemoryPayoutRepo) ListUnpaid(ctx context.Context, merchantID uuid.UUID) ([]domain.PayoutObligation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.PayoutObligation
	for _, o := range r.obligations {
		if o.MerchantID == merchantID && o.Status == domain.PayoutStatusUnpaid {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (r *inMemoryPayoutRepo) MarkPaid(ctx context.Context, merchantID, id uuid.UUID, txHash *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.obligations[id]
	if !ok || o.MerchantID != merchantID || o.Status != domain.PayoutStatusUnpaid {
		return false, nil
	}
	now := time.Now().UTC()
	o.Status = domain.PayoutStatusPaid
	o.TxHash = txHash
	o.PaidAt = &now
	return true, nil
}

func (r *inMemoryPayoutRepo) ListBySale(ctx context.Context, saleID uuid.UUID) ([]domain.PayoutObligation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.PayoutObligation
	for _, o := range r.obligations {
		if o.SaleID == saleID {
			result = append(result, *o)
		}
	}
	return result, nil
}

// --- In-Memory Webhook Repo ---

type inMemoryWebhookRepo struct {
	mu   sync.RWMutex
	logs map[uuid.UUID]*domain.WebhookDeliveryLog
}

func newInMemoryWebhookRepo() *inMemoryWebhookRepo {
	return &inMemoryWebhookRepo{logs: make(map[uuid.UUID]*domain.WebhookDeliveryLog)}
}

func (r *inMemoryWebhookRepo) Create(ctx context.Context, l *domain.WebhookDeliveryLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *l
	r.logs[l.ID] = &cp
	return nil
}

func (r *inMemoryWebhookRepo) Update(ctx context.Context, l *domain.WebhookDeliveryLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.logs[l.ID]; !ok {
		return fmt.Errorf("delivery log not found")
	}
	cp := *l
	r.logs[l.ID] = &cp
	return nil
}

func (r *inMemoryWebhookRepo) GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]domain.WebhookDeliveryLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.WebhookDeliveryLog
	for _, l := range r.logs {
		if l.SaleID == saleID {
			result = append(result, *l)
		}
	}
	return result, nil
}

// --- In-Memory Catalog Cache ---

type inMemoryCatalogCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func newInMemoryCatalogCache() *inMemoryCatalogCache {
	return &inMemoryCatalogCache{entries: make(map[string][]byte)}
}

func (c *inMemoryCatalogCache) Get(ctx context.Context, slug string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[slug], nil
}

func (c *inMemoryCatalogCache) Set(ctx context.Context, slug string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[slug] = value
	return nil
}

func (c *inMemoryCatalogCache) Invalidate(ctx context.Context, slug string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, slug)
	return nil
}

// --- Stub chain ---

// stubChain serves scripted transactions keyed by hash. A hash with no entry
// fails the lookup, like an unknown transaction on a real node.
type stubChain struct {
	mu       sync.RWMutex
	txs      map[string]*ports.ChainTransaction
	receipts map[string]*ports.ChainReceipt
}

func newStubChain() *stubChain {
	return &stubChain{
		txs:      make(map[string]*ports.ChainTransaction),
		receipts: make(map[string]*ports.ChainReceipt),
	}
}

// addTransfer registers a successful transfer() of amount to recipient on
// contract, retrievable under txHash. The call data is a synthetic marker the
// stub decoder understands, not real ABI bytes.
func (s *stubChain) addTransfer(txHash, contract, recipient string, amount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs[txHash] = &ports.ChainTransaction{
		To:    contract,
		Input: []byte(fmt.Sprintf("transfer|%s|%d", recipient, amount)),
	}
	s.receipts[txHash] = &ports.ChainReceipt{Succeeded: true}
}

func (s *stubChain) GetTransaction(ctx context.Context, txHash string) (*ports.ChainTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.txs[txHash]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return tx, nil
}

func (s *stubChain) GetReceipt(ctx context.Context, txHash string) (*ports.ChainReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	receipt, ok := s.receipts[txHash]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return receipt, nil
}

// stubDecoder decodes the synthetic call data produced by stubChain.
type stubDecoder struct{}

func (stubDecoder) Decode(input []byte) (*ports.DecodedCall, error) {
	parts := strings.Split(string(input), "|")
	if len(parts) != 3 {
		return nil, fmt.Errorf("unrecognised call data")
	}
	var amount int64
	if _, err := fmt.Sscanf(parts[2], "%d", &amount); err != nil {
		return nil, fmt.Errorf("unrecognised call data")
	}
	return &ports.DecodedCall{
		Method:    parts[0],
		Recipient: parts[1],
		Value:     big.NewInt(amount),
	}, nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
