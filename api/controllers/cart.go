package controllers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/lmarceau/privastore-backend/api/middleware"
	"github.com/lmarceau/privastore-backend/api/responses"
	"github.com/lmarceau/privastore-backend/api/validators"
	"github.com/lmarceau/privastore-backend/internal/cart"
	"github.com/lmarceau/privastore-backend/internal/catalog"
	pkgerrors "github.com/lmarceau/privastore-backend/pkg/errors"
	"github.com/lmarceau/privastore-backend/pkg/logger"
)

type addCartItemRequest struct {
	ProductID      string              `json:"product_id" validate:"required"`
	Quantity       int                 `json:"quantity"`
	SelectedAddons map[string][]string `json:"selected_addons"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func GetCart(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		responses.WriteSuccess(w, store.Get(ctx, middleware.SessionIDFromContext(ctx)))
	}
}

// AddCartItem snapshots the product server-side: name, image, and prices come
// from the upstream catalog at add time, never from the request body.
func AddCartItem(store *cart.Store, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req addCartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		ctx = logg.WithProductID(ctx, req.ProductID)

		product, err := catalogSvc.GetProduct(ctx, req.ProductID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		basePrice, err := decimal.NewFromString(product.Price)
		if err != nil {
			basePrice = decimal.Zero
		}
		selection := cart.SelectedAddons(req.SelectedAddons)
		if selection.Empty() {
			// No explicit choice: apply the product's pre-checked options,
			// matching what the buyer sees on the detail view.
			selection = catalog.DefaultSelection(product.Addons)
		}
		addonPrice := catalog.SelectionPrice(product.Addons, selection)

		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0].Src
		}

		updated, err := store.AddItem(ctx, middleware.SessionIDFromContext(ctx), cart.AddItemInput{
			ProductID:      product.ID,
			Name:           product.Name,
			UnitBasePrice:  basePrice,
			UnitAddonPrice: addonPrice,
			Quantity:       req.Quantity,
			SelectedAddons: selection,
			Image:          image,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, updated)
	}
}

// itemIdentity pulls the identity path segment. Identities embed separator
// characters, so callers URL-encode them and we decode here.
func itemIdentity(r *http.Request) string {
	identity := chi.URLParam(r, "identity")
	if decoded, err := url.PathUnescape(identity); err == nil {
		identity = decoded
	}
	return identity
}

func UpdateCartItem(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		identity := itemIdentity(r)
		if identity == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart item identity is required"))
			return
		}

		var req updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		updated, err := store.UpdateQuantity(ctx, middleware.SessionIDFromContext(ctx), identity, *req.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func RemoveCartItem(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		identity := itemIdentity(r)
		if identity == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart item identity is required"))
			return
		}

		updated, err := store.Remove(ctx, middleware.SessionIDFromContext(ctx), identity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func ClearCart(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		updated, err := store.Clear(ctx, middleware.SessionIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
