package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/swarnpos/jewelpos-api/internal/application/fulfillment"
	"github.com/swarnpos/jewelpos-api/pkg/config"
)

var _ fulfillment.NotificationSink = (*WebhookSink)(nil)

// WebhookSink posts committed sale and exchange events to a configured
// webhook (billing integration, customer messaging). Delivery is best effort;
// the fulfillment engine logs failures and moves on.
type WebhookSink struct {
	client *resty.Client
	url    string
}

// NewWebhookSink builds the sink from the notify configuration.
func NewWebhookSink(cfg config.NotifyConfig) *WebhookSink {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &WebhookSink{client: client, url: cfg.WebhookURL}
}

type webhookPayload struct {
	EventType     string `json:"event_type"`
	ReferenceID   string `json:"reference_id"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	Amount        string `json:"amount"`
	OccurredAt    string `json:"occurred_at"`
}

// Notify posts one event. A non-2xx response counts as failure.
func (s *WebhookSink) Notify(ctx context.Context, n fulfillment.Notification) error {
	if s.url == "" {
		return nil
	}
	payload := webhookPayload{
		EventType:     n.EventType,
		ReferenceID:   n.ReferenceID,
		InvoiceNumber: n.InvoiceNumber,
		Amount:        n.Amount.StringFixed(2),
		OccurredAt:    n.OccurredAt.Format(time.RFC3339),
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned %s", resp.Status())
	}
	return nil
}
