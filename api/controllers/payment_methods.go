package controllers

import (
	"net/http"

	"github.com/lmarceau/privastore-backend/api/responses"
	"github.com/lmarceau/privastore-backend/internal/payments"
	"github.com/lmarceau/privastore-backend/pkg/logger"
)

func ListPaymentMethods(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		methods, err := svc.ListMethods(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, methods)
	}
}
