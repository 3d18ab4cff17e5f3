package woowebhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/lmarceau/privastore-backend/pkg/logger"
)

// Event is one WooCommerce webhook delivery. Topic/resource/delivery come
// from headers; the payload is the raw body.
type Event struct {
	Topic      string
	Resource   string
	EventType  string
	DeliveryID string
	Payload    json.RawMessage
}

// ValidateSignature checks the X-WC-Webhook-Signature header: base64 of the
// HMAC-SHA256 over the raw body using the webhook secret.
func ValidateSignature(payload []byte, secret, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Service acknowledges verified deliveries. The storefront has no local state
// keyed to upstream resources yet, so handling is log-and-ack.
type Service struct {
	logg *logger.Logger
}

func NewService(logg *logger.Logger) (*Service, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{logg: logg}, nil
}

func (s *Service) HandleEvent(ctx context.Context, event *Event) error {
	if event == nil {
		return fmt.Errorf("event required")
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"topic":       event.Topic,
		"resource":    event.Resource,
		"event_type":  event.EventType,
		"delivery_id": event.DeliveryID,
	})
	s.logg.Info(ctx, "woocommerce webhook received")
	return nil
}
