package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"splitpay-storefront/internal/core/domain"
	"splitpay-storefront/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeHTTPClient scripts responses per attempt and records requests.
type fakeHTTPClient struct {
	mu       sync.Mutex
	statuses []int // one per attempt; last repeats
	requests []*http.Request
	bodies   []string
}

func (f *fakeHTTPClient) Do(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body, _ := io.ReadAll(req.Body)
	f.requests = append(f.requests, req)
	f.bodies = append(f.bodies, string(body))

	idx := len(f.requests) - 1
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	return &http.Response{
		StatusCode: f.statuses[idx],
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func (f *fakeHTTPClient) attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// shortRetryIntervals swaps the package retry schedule for the test's
// lifetime so retries complete in milliseconds.
func shortRetryIntervals(t *testing.T, intervals []time.Duration) {
	t.Helper()
	old := webhookRetryIntervals
	webhookRetryIntervals = intervals
	t.Cleanup(func() { webhookRetryIntervals = old })
}

func setupWebhookService(t *testing.T, client HTTPClient) (
	*webhookService,
	*mocks.MockMerchantRepository,
	*mocks.MockWebhookRepository,
	*mocks.MockEncryptionService,
	*mocks.MockSignatureService,
	*gomock.Controller,
) {
	ctrl := gomock.NewController(t)
	merchantRepo := mocks.NewMockMerchantRepository(ctrl)
	webhookRepo := mocks.NewMockWebhookRepository(ctrl)
	encSvc := mocks.NewMockEncryptionService(ctrl)
	sigSvc := mocks.NewMockSignatureService(ctrl)

	svc := &webhookService{
		merchantRepo: merchantRepo,
		webhookRepo:  webhookRepo,
		encSvc:       encSvc,
		sigSvc:       sigSvc,
		httpClient:   client,
		log:          zerolog.Nop(),
	}
	return svc, merchantRepo, webhookRepo, encSvc, sigSvc, ctrl
}

func paidSale(merchantID uuid.UUID) *domain.Sale {
	txHash := "0xdeadbeef"
	paidAt := time.Now().UTC().Truncate(time.Second)
	return &domain.Sale{
		ID:         uuid.New(),
		MerchantID: merchantID,
		ProductID:  uuid.New(),
		Quantity:   2,
		Amount:     50_000_000,
		Status:     domain.SaleStatusPaid,
		TxHash:     &txHash,
		PaidAt:     &paidAt,
	}
}

func TestWebhookService_EnqueueSalePaid_NoWebhookURL(t *testing.T) {
	svc, merchantRepo, _, _, _, ctrl := setupWebhookService(t, &fakeHTTPClient{statuses: []int{200}})
	defer ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	sale := paidSale(merchantID)

	merchantRepo.EXPECT().GetByID(ctx, merchantID).Return(&domain.Merchant{ID: merchantID}, nil)

	err := svc.EnqueueSalePaid(ctx, sale)
	require.NoError(t, err)
}

func TestWebhookService_EnqueueSalePaid_DeliversSignedPayload(t *testing.T) {
	client := &fakeHTTPClient{statuses: []int{200}}
	svc, merchantRepo, webhookRepo, encSvc, sigSvc, ctrl := setupWebhookService(t, client)
	defer ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	sale := paidSale(merchantID)
	url := "https://merchant.example.com/webhook"
	merchant := &domain.Merchant{
		ID:               merchantID,
		WebhookURL:       &url,
		WebhookSecretEnc: "encrypted_secret",
	}

	merchantRepo.EXPECT().GetByID(ctx, merchantID).Return(merchant, nil)
	encSvc.EXPECT().Decrypt("encrypted_secret").Return("shared_secret", nil)
	sigSvc.EXPECT().Sign("shared_secret", gomock.Any()).Return("computed_signature")
	webhookRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, l *domain.WebhookDeliveryLog) error {
			assert.Equal(t, sale.ID, l.SaleID)
			assert.Equal(t, url, l.WebhookURL)
			assert.Equal(t, domain.WebhookStatusPending, l.Status)
			return nil
		})

	delivered := make(chan domain.WebhookDeliveryLog, 1)
	webhookRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, l *domain.WebhookDeliveryLog) error {
			delivered <- *l
			return nil
		})

	err := svc.EnqueueSalePaid(ctx, sale)
	require.NoError(t, err)

	select {
	case l := <-delivered:
		assert.Equal(t, domain.WebhookStatusDelivered, l.Status)
		assert.Equal(t, 1, l.Attempt)
		require.NotNil(t, l.HTTPStatus)
		assert.Equal(t, 200, *l.HTTPStatus)
		assert.Nil(t, l.NextRetryAt)
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was not delivered")
	}

	var payload WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(client.bodies[0]), &payload))
	assert.Equal(t, EventSalePaid, payload.EventType)
	assert.Equal(t, "computed_signature", payload.Signature)
	assert.Equal(t, sale.ID.String(), payload.Data.SaleID)
	assert.Equal(t, int64(50_000_000), payload.Data.Amount)
	assert.Equal(t, *sale.TxHash, payload.Data.TxHash)
	assert.Equal(t, sale.PaidAt.Unix(), payload.Data.PaidAt)
	assert.Equal(t, "application/json", client.requests[0].Header.Get("Content-Type"))
}

func TestWebhookService_EnqueueSalePaid_RetriesThenDelivers(t *testing.T) {
	shortRetryIntervals(t, []time.Duration{time.Millisecond, time.Millisecond})

	client := &fakeHTTPClient{statuses: []int{500, 200}}
	svc, merchantRepo, webhookRepo, encSvc, sigSvc, ctrl := setupWebhookService(t, client)
	defer ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	sale := paidSale(merchantID)
	url := "https://merchant.example.com/webhook"
	merchant := &domain.Merchant{ID: merchantID, WebhookURL: &url, WebhookSecretEnc: "enc"}

	merchantRepo.EXPECT().GetByID(ctx, merchantID).Return(merchant, nil)
	encSvc.EXPECT().Decrypt("enc").Return("secret", nil)
	sigSvc.EXPECT().Sign("secret", gomock.Any()).Return("sig")
	webhookRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	done := make(chan domain.WebhookDeliveryLog, 4)
	webhookRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, l *domain.WebhookDeliveryLog) error {
			done <- *l
			return nil
		}).Times(2)

	require.NoError(t, svc.EnqueueSalePaid(ctx, sale))

	first := waitForLog(t, done)
	assert.Equal(t, domain.WebhookStatusPending, first.Status)
	assert.Equal(t, 1, first.Attempt)
	require.NotNil(t, first.NextRetryAt)

	second := waitForLog(t, done)
	assert.Equal(t, domain.WebhookStatusDelivered, second.Status)
	assert.Equal(t, 2, second.Attempt)
	assert.Equal(t, 2, client.attempts())
}

func TestWebhookService_EnqueueSalePaid_ExhaustsRetries(t *testing.T) {
	shortRetryIntervals(t, []time.Duration{time.Millisecond})

	client := &fakeHTTPClient{statuses: []int{503}}
	svc, merchantRepo, webhookRepo, encSvc, sigSvc, ctrl := setupWebhookService(t, client)
	defer ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	sale := paidSale(merchantID)
	url := "https://merchant.example.com/webhook"
	merchant := &domain.Merchant{ID: merchantID, WebhookURL: &url, WebhookSecretEnc: "enc"}

	merchantRepo.EXPECT().GetByID(ctx, merchantID).Return(merchant, nil)
	encSvc.EXPECT().Decrypt("enc").Return("secret", nil)
	sigSvc.EXPECT().Sign("secret", gomock.Any()).Return("sig")
	webhookRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	done := make(chan domain.WebhookDeliveryLog, 4)
	webhookRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, l *domain.WebhookDeliveryLog) error {
			done <- *l
			return nil
		}).Times(3) // two failed attempts, then the terminal FAILED write

	require.NoError(t, svc.EnqueueSalePaid(ctx, sale))

	waitForLog(t, done) // attempt 1 failed
	waitForLog(t, done) // attempt 2 failed
	final := waitForLog(t, done)
	assert.Equal(t, domain.WebhookStatusFailed, final.Status)
	assert.Nil(t, final.NextRetryAt)
	assert.Equal(t, 2, client.attempts())
}

func waitForLog(t *testing.T, ch <-chan domain.WebhookDeliveryLog) domain.WebhookDeliveryLog {
	t.Helper()
	select {
	case l := <-ch:
		return l
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery log update")
		return domain.WebhookDeliveryLog{}
	}
}
