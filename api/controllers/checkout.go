package controllers

import (
	"net/http"

	"github.com/lmarceau/privastore-backend/api/middleware"
	"github.com/lmarceau/privastore-backend/api/responses"
	"github.com/lmarceau/privastore-backend/api/validators"
	"github.com/lmarceau/privastore-backend/internal/cart"
	"github.com/lmarceau/privastore-backend/internal/orderlog"
	"github.com/lmarceau/privastore-backend/internal/orders"
	"github.com/lmarceau/privastore-backend/internal/payments"
	"github.com/lmarceau/privastore-backend/pkg/db/models"
	"github.com/lmarceau/privastore-backend/pkg/logger"
	"github.com/lmarceau/privastore-backend/pkg/woocommerce"
)

type checkoutRequest struct {
	Shipping      woocommerce.Address `json:"shipping" validate:"required"`
	Billing       woocommerce.Address `json:"billing"`
	PaymentMethod string              `json:"payment_method" validate:"required"`
}

type checkoutResponse struct {
	OrderID     int64  `json:"order_id"`
	Number      string `json:"number"`
	Status      string `json:"status"`
	Total       string `json:"total"`
	DateCreated string `json:"date_created,omitempty"`
}

// Checkout builds the order from the session's cart, submits it upstream, and
// clears the cart only after the upstream accepts. On rejection the cart is
// left intact so the buyer can retry.
func Checkout(
	store *cart.Store,
	ordersSvc orders.Service,
	paymentsSvc payments.Service,
	orderLog orderlog.Repository,
	strictProductIDs bool,
	logg *logger.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := middleware.SessionIDFromContext(ctx)

		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snapshot := store.Get(ctx, sessionID)

		order, err := orders.BuildOrder(orders.BuildInput{
			Cart:               snapshot,
			Billing:            req.Billing,
			Shipping:           req.Shipping,
			PaymentMethod:      req.PaymentMethod,
			PaymentMethodTitle: paymentsSvc.TitleFor(ctx, req.PaymentMethod),
		}, strictProductIDs)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		created, err := ordersSvc.Submit(ctx, order)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if orderLog != nil {
			record := &models.OrderRecord{
				UpstreamID:    created.ID,
				Number:        created.Number,
				Status:        created.Status,
				Total:         created.Total,
				SessionID:     sessionID,
				PaymentMethod: req.PaymentMethod,
				HasAddons:     len(order.MetaData) > 0,
			}
			if err := orderLog.Record(ctx, record); err != nil {
				logg.Error(ctx, "order journal write failed", err)
			}
		}

		if _, err := store.Clear(ctx, sessionID); err != nil {
			// The order is already placed; a stale cart is recoverable, a
			// failed checkout response is not.
			logg.Error(ctx, "post-checkout cart clear failed", err)
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			OrderID:     created.ID,
			Number:      created.Number,
			Status:      created.Status,
			Total:       created.Total,
			DateCreated: created.DateCreated,
		})
	}
}
