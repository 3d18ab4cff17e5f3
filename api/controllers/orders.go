package controllers

import (
	"net/http"
	"time"

	"github.com/lmarceau/privastore-backend/api/middleware"
	"github.com/lmarceau/privastore-backend/api/responses"
	"github.com/lmarceau/privastore-backend/internal/orderlog"
	pkgerrors "github.com/lmarceau/privastore-backend/pkg/errors"
	"github.com/lmarceau/privastore-backend/pkg/logger"
)

type orderSummary struct {
	OrderID       int64     `json:"order_id"`
	Number        string    `json:"number"`
	Status        string    `json:"status"`
	Total         string    `json:"total"`
	PaymentMethod string    `json:"payment_method"`
	HasAddons     bool      `json:"has_addons"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListOrders returns the session's journaled orders, newest first.
func ListOrders(repo orderlog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if repo == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order log unavailable"))
			return
		}

		records, err := repo.BySession(ctx, middleware.SessionIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "read order log"))
			return
		}

		out := make([]orderSummary, 0, len(records))
		for _, record := range records {
			out = append(out, orderSummary{
				OrderID:       record.UpstreamID,
				Number:        record.Number,
				Status:        record.Status,
				Total:         record.Total,
				PaymentMethod: record.PaymentMethod,
				HasAddons:     record.HasAddons,
				CreatedAt:     record.CreatedAt,
			})
		}
		responses.WriteSuccess(w, out)
	}
}
