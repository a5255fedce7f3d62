package postgres

import (
	"context"
	"fmt"
	"time"

	"splitpay-storefront/internal/core/domain"
	"splitpay-storefront/internal/core/ports"

	"github.com/google/uuid"
)

type webhookRepo struct {
	pool Pool
}

// NewWebhookRepository creates a PostgreSQL-backed WebhookRepository.
func NewWebhookRepository(pool Pool) ports.WebhookRepository {
	return &webhookRepo{pool: pool}
}

func (r *webhookRepo) Create(ctx context.Context, log *domain.WebhookDeliveryLog) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO webhook_delivery_logs
		(id, sale_id, merchant_id, webhook_url, payload, http_status, attempt, status, next_retry_at, last_error, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		log.ID, log.SaleID, log.MerchantID, log.WebhookURL,
		log.Payload, log.HTTPStatus, log.Attempt, string(log.Status),
		log.NextRetryAt, log.LastError, log.CreatedAt, log.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook delivery log: %w", err)
	}
	return nil
}

func (r *webhookRepo) Update(ctx context.Context, log *domain.WebhookDeliveryLog) error {
	log.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx,
		`UPDATE webhook_delivery_logs
		 SET http_status=$1, attempt=$2, status=$3, next_retry_at=$4, last_error=$5, updated_at=$6
		 WHERE id=$7`,
		log.HTTPStatus, log.Attempt, string(log.Status),
		log.NextRetryAt, log.LastError, log.UpdatedAt, log.ID,
	)
	if err != nil {
		return fmt.Errorf("update webhook delivery log: %w", err)
	}
	return nil
}

func (r *webhookRepo) GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]domain.WebhookDeliveryLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, sale_id, merchant_id, webhook_url, payload,
		http_status, attempt, status, next_retry_at, last_error,
		created_at, updated_at
		 FROM webhook_delivery_logs
		 WHERE sale_id=$1
		 ORDER BY created_at DESC`, saleID)
	if err != nil {
		return nil, fmt.Errorf("query webhook delivery logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.WebhookDeliveryLog
	for rows.Next() {
		var l domain.WebhookDeliveryLog
		var status string
		if err := rows.Scan(
			&l.ID, &l.SaleID, &l.MerchantID, &l.WebhookURL, &l.Payload,
			&l.HTTPStatus, &l.Attempt, &status, &l.NextRetryAt, &l.LastError,
			&l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan webhook delivery log: %w", err)
		}
		l.Status = domain.WebhookStatus(status)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
