package orders

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lmarceau/privastore-backend/internal/cart"
	pkgerrors "github.com/lmarceau/privastore-backend/pkg/errors"
	"github.com/lmarceau/privastore-backend/pkg/woocommerce"
)

const hasAddonsMetaKey = "has_addons"

// BuildInput is the checkout snapshot handed to the order transform.
type BuildInput struct {
	Cart               cart.Cart
	Billing            woocommerce.Address
	Shipping           woocommerce.Address
	PaymentMethod      string
	PaymentMethodTitle string
}

// BuildOrder maps a cart snapshot plus checkout form data into the upstream
// order payload. It is a pure transform; submission and the post-success cart
// clear belong to the caller.
//
// Non-numeric product ids coerce to 0 unless strictProductIDs is set, in
// which case they reject the order. The coercion mirrors long-standing
// storefront behavior; the strict mode exists because a 0 product id silently
// mis-attributes the line upstream.
func BuildOrder(input BuildInput, strictProductIDs bool) (*woocommerce.OrderRequest, error) {
	if len(input.Cart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if strings.TrimSpace(input.PaymentMethod) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method is required")
	}

	billing := input.Billing
	if billing.IsZero() {
		billing = input.Shipping
	}

	lineItems := make([]woocommerce.LineItem, 0, len(input.Cart.Items))
	hasAddons := false
	for _, item := range input.Cart.Items {
		productID, err := coerceProductID(item.ProductID, strictProductIDs)
		if err != nil {
			return nil, err
		}

		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}

		line := woocommerce.LineItem{
			ProductID: productID,
			Quantity:  quantity,
			Name:      item.Name,
		}
		if !item.SelectedAddons.Empty() {
			hasAddons = true
			line.MetaData = flattenSelection(item.Name, item.SelectedAddons)
		}
		lineItems = append(lineItems, line)
	}

	order := &woocommerce.OrderRequest{
		PaymentMethod:      input.PaymentMethod,
		PaymentMethodTitle: input.PaymentMethodTitle,
		SetPaid:            false,
		Billing:            billing,
		Shipping:           input.Shipping,
		LineItems:          lineItems,
	}
	if hasAddons {
		order.MetaData = []woocommerce.MetaKV{{Key: hasAddonsMetaKey, Value: "true"}}
	}
	return order, nil
}

func coerceProductID(raw string, strict bool) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err == nil && id >= 0 {
		return id, nil
	}
	if strict {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product id is not numeric").
			WithDetails(map[string]any{"product_id": raw})
	}
	return 0, nil
}

// flattenSelection renders the add-on choices as ordered key/value string
// pairs. Groups are emitted in sorted order so the payload is deterministic;
// free options are recorded the same as priced ones.
func flattenSelection(productName string, selection cart.SelectedAddons) []woocommerce.MetaKV {
	groups := make([]string, 0, len(selection))
	for name, options := range selection {
		if len(options) == 0 {
			continue
		}
		groups = append(groups, name)
	}
	sort.Strings(groups)

	meta := make([]woocommerce.MetaKV, 0, len(groups)+1)
	meta = append(meta, woocommerce.MetaKV{Key: "product_name", Value: productName})
	for _, name := range groups {
		meta = append(meta, woocommerce.MetaKV{
			Key:   name,
			Value: strings.Join(selection[name], ", "),
		})
	}
	return meta
}
