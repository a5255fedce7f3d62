package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"splitpay-storefront/internal/core/domain"
	"splitpay-storefront/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// webhookRetryIntervals spaces out redelivery attempts after a failure.
var webhookRetryIntervals = []time.Duration{
	15 * time.Second,
	60 * time.Second,
	2 * time.Minute,
	5 * time.Minute,
	10 * time.Minute,
}

// EventSalePaid is the only event type delivered to merchants.
const EventSalePaid = "sale.paid"

// WebhookPayload is the JSON structure sent to a merchant's webhook_url.
// Signature is HMAC-SHA256 of the serialized Data, keyed with the merchant's
// webhook secret.
type WebhookPayload struct {
	EventType string             `json:"event_type"`
	Data      WebhookPayloadData `json:"data"`
	Signature string             `json:"signature"`
}

// WebhookPayloadData holds the settled sale's details.
type WebhookPayloadData struct {
	SaleID    string `json:"sale_id"`
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
	Amount    int64  `json:"amount"`
	TxHash    string `json:"tx_hash"`
	PaidAt    int64  `json:"paid_at"`
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// webhookService implements ports.WebhookService.
type webhookService struct {
	merchantRepo ports.MerchantRepository
	webhookRepo  ports.WebhookRepository
	encSvc       ports.EncryptionService
	sigSvc       ports.SignatureService
	httpClient   HTTPClient
	log          zerolog.Logger
}

// NewWebhookService creates a new webhook service.
func NewWebhookService(
	merchantRepo ports.MerchantRepository,
	webhookRepo ports.WebhookRepository,
	encSvc ports.EncryptionService,
	sigSvc ports.SignatureService,
	httpClient HTTPClient,
	log zerolog.Logger,
) ports.WebhookService {
	return &webhookService{
		merchantRepo: merchantRepo,
		webhookRepo:  webhookRepo,
		encSvc:       encSvc,
		sigSvc:       sigSvc,
		httpClient:   httpClient,
		log:          log,
	}
}

// EnqueueSalePaid signs and dispatches a sale.paid notification to the sale's
// merchant. Delivery runs in the background with retries; settlement never
// waits on the merchant's endpoint.
func (s *webhookService) EnqueueSalePaid(ctx context.Context, sale *domain.Sale) error {
	merchant, err := s.merchantRepo.GetByID(ctx, sale.MerchantID)
	if err != nil {
		return fmt.Errorf("webhook: fetch merchant: %w", err)
	}
	if merchant == nil || merchant.WebhookURL == nil || *merchant.WebhookURL == "" {
		s.log.Debug().Str("merchant_id", sale.MerchantID.String()).Msg("webhook: no webhook URL configured, skipping")
		return nil
	}

	data := WebhookPayloadData{
		SaleID:    sale.ID.String(),
		ProductID: sale.ProductID.String(),
		Quantity:  sale.Quantity,
		Amount:    sale.Amount,
	}
	if sale.TxHash != nil {
		data.TxHash = *sale.TxHash
	}
	if sale.PaidAt != nil {
		data.PaidAt = sale.PaidAt.Unix()
	}

	secret, err := s.encSvc.Decrypt(merchant.WebhookSecretEnc)
	if err != nil {
		return fmt.Errorf("webhook: decrypt secret: %w", err)
	}

	dataBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("webhook: marshal data: %w", err)
	}

	payload := WebhookPayload{
		EventType: EventSalePaid,
		Data:      data,
		Signature: s.sigSvc.Sign(secret, string(dataBytes)),
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook: marshal payload: %w", err)
	}

	now := time.Now().UTC()
	deliveryLog := &domain.WebhookDeliveryLog{
		ID:         uuid.New(),
		SaleID:     sale.ID,
		MerchantID: merchant.ID,
		WebhookURL: *merchant.WebhookURL,
		Payload:    string(payloadBytes),
		Status:     domain.WebhookStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.webhookRepo.Create(ctx, deliveryLog); err != nil {
		s.log.Error().Err(err).Str("sale_id", sale.ID.String()).Msg("webhook: failed to record delivery log")
		// Still attempt delivery; the log is bookkeeping, not a gate.
	}

	go s.deliverWithRetries(deliveryLog, payloadBytes)

	return nil
}

// deliverWithRetries posts the payload, retrying on failure until the
// intervals are exhausted, and keeps the delivery log current.
func (s *webhookService) deliverWithRetries(deliveryLog *domain.WebhookDeliveryLog, payload []byte) {
	for attempt := 0; attempt <= len(webhookRetryIntervals); attempt++ {
		if attempt > 0 {
			time.Sleep(webhookRetryIntervals[attempt-1])
		}
		deliveryLog.Attempt = attempt + 1

		status, err := s.post(deliveryLog.WebhookURL, payload)
		if err != nil {
			msg := err.Error()
			deliveryLog.LastError = &msg
			s.recordAttempt(deliveryLog, attempt)
			s.log.Warn().Err(err).Str("sale_id", deliveryLog.SaleID.String()).Int("attempt", attempt+1).Msg("webhook: delivery failed")
			continue
		}

		deliveryLog.HTTPStatus = &status
		deliveryLog.LastError = nil
		if status >= 200 && status < 300 {
			deliveryLog.Status = domain.WebhookStatusDelivered
			deliveryLog.NextRetryAt = nil
			s.update(deliveryLog)
			s.log.Info().Str("sale_id", deliveryLog.SaleID.String()).Int("attempt", attempt+1).Int("status", status).Msg("webhook: delivered")
			return
		}

		s.recordAttempt(deliveryLog, attempt)
		s.log.Warn().Str("sale_id", deliveryLog.SaleID.String()).Int("attempt", attempt+1).Int("status", status).Msg("webhook: non-2xx response, retrying")
	}

	deliveryLog.Status = domain.WebhookStatusFailed
	deliveryLog.NextRetryAt = nil
	s.update(deliveryLog)
	s.log.Error().Str("sale_id", deliveryLog.SaleID.String()).Msg("webhook: all retry attempts exhausted")
}

func (s *webhookService) post(url string, payload []byte) (int, error) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// recordAttempt notes a failed attempt and when the next one is due.
func (s *webhookService) recordAttempt(deliveryLog *domain.WebhookDeliveryLog, attempt int) {
	if attempt < len(webhookRetryIntervals) {
		next := time.Now().UTC().Add(webhookRetryIntervals[attempt])
		deliveryLog.NextRetryAt = &next
	} else {
		deliveryLog.NextRetryAt = nil
	}
	s.update(deliveryLog)
}

func (s *webhookService) update(deliveryLog *domain.WebhookDeliveryLog) {
	if err := s.webhookRepo.Update(context.Background(), deliveryLog); err != nil {
		s.log.Warn().Err(err).Str("sale_id", deliveryLog.SaleID.String()).Msg("webhook: failed to update delivery log")
	}
}
