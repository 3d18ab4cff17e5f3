package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lmarceau/privastore-backend/api/responses"
	"github.com/lmarceau/privastore-backend/internal/catalog"
	pkgerrors "github.com/lmarceau/privastore-backend/pkg/errors"
	"github.com/lmarceau/privastore-backend/pkg/logger"
)

func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		products, err := svc.ListProducts(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id := chi.URLParam(r, "id")
		if id == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}
		ctx = logg.WithProductID(ctx, id)

		product, err := svc.GetProduct(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
