package webhooks

import (
	"context"
	"io"
	"net/http"

	"github.com/lmarceau/privastore-backend/api/responses"
	woowebhook "github.com/lmarceau/privastore-backend/internal/webhooks/woo"
	pkgerrors "github.com/lmarceau/privastore-backend/pkg/errors"
	"github.com/lmarceau/privastore-backend/pkg/logger"
)

const (
	signatureHeader  = "X-WC-Webhook-Signature"
	topicHeader      = "X-WC-Webhook-Topic"
	resourceHeader   = "X-WC-Webhook-Resource"
	eventHeader      = "X-WC-Webhook-Event"
	deliveryIDHeader = "X-WC-Webhook-Delivery-ID"
)

type WooWebhookService interface {
	HandleEvent(ctx context.Context, event *woowebhook.Event) error
}

type secretSource interface {
	WebhookSecret() string
}

// WooCommerceWebhook verifies the delivery signature against the raw body
// before any parsing. Unsigned or mis-signed deliveries are rejected.
func WooCommerceWebhook(svc WooWebhookService, secrets secretSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}
		if secrets == nil || secrets.WebhookSecret() == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook secret not configured"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read request body"))
			return
		}

		signature := r.Header.Get(signatureHeader)
		if signature == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "webhook signature missing"))
			return
		}
		if !woowebhook.ValidateSignature(payload, secrets.WebhookSecret(), signature) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "webhook signature mismatch"))
			return
		}

		event := &woowebhook.Event{
			Topic:      r.Header.Get(topicHeader),
			Resource:   r.Header.Get(resourceHeader),
			EventType:  r.Header.Get(eventHeader),
			DeliveryID: r.Header.Get(deliveryIDHeader),
			Payload:    payload,
		}
		if err := svc.HandleEvent(ctx, event); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}
