package orders

import (
	"testing"

	"github.com/lmarceau/privastore-backend/internal/cart"
	pkgerrors "github.com/lmarceau/privastore-backend/pkg/errors"
	"github.com/lmarceau/privastore-backend/pkg/woocommerce"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func shippingAddress() woocommerce.Address {
	return woocommerce.Address{
		FirstName: "Ada",
		LastName:  "Byrne",
		Address1:  "1 Privacy Way",
		City:      "Dublin",
		State:     "D",
		Postcode:  "D01",
		Country:   "IE",
		Email:     "ada@example.com",
	}
}

func TestBuildOrderRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	_, err := BuildOrder(BuildInput{
		Cart:          cart.Cart{Items: []cart.Item{}},
		Shipping:      shippingAddress(),
		PaymentMethod: "cod",
	}, false)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestBuildOrderLineItemWithAddons(t *testing.T) {
	t.Parallel()

	snapshot := cart.Cart{Items: []cart.Item{{
		Identity:       "7#Storage=128GB",
		ProductID:      "7",
		Name:           "Pixel 7a with GrapheneOS",
		UnitBasePrice:  decimal.RequireFromString("699.99"),
		Quantity:       2,
		SelectedAddons: cart.SelectedAddons{"Storage": {"128GB"}},
	}}}

	order, err := BuildOrder(BuildInput{
		Cart:               snapshot,
		Shipping:           shippingAddress(),
		PaymentMethod:      "bacs",
		PaymentMethodTitle: "Direct Bank Transfer",
	}, false)
	require.NoError(t, err)

	require.Len(t, order.LineItems, 1)
	line := order.LineItems[0]
	require.EqualValues(t, 7, line.ProductID)
	require.Equal(t, 2, line.Quantity)
	require.Equal(t, []woocommerce.MetaKV{
		{Key: "product_name", Value: "Pixel 7a with GrapheneOS"},
		{Key: "Storage", Value: "128GB"},
	}, line.MetaData)

	require.Equal(t, []woocommerce.MetaKV{{Key: "has_addons", Value: "true"}}, order.MetaData)
	require.False(t, order.SetPaid)
}

func TestBuildOrderWithoutAddonsOmitsMeta(t *testing.T) {
	t.Parallel()

	order, err := BuildOrder(BuildInput{
		Cart: cart.Cart{Items: []cart.Item{{
			ProductID:     "12",
			Name:          "Privacy SIM",
			UnitBasePrice: decimal.RequireFromString("29.99"),
			Quantity:      1,
		}}},
		Shipping:      shippingAddress(),
		PaymentMethod: "cod",
	}, false)
	require.NoError(t, err)

	require.Nil(t, order.LineItems[0].MetaData)
	require.Nil(t, order.MetaData)
}

func TestBuildOrderFlattensGroupsDeterministically(t *testing.T) {
	t.Parallel()

	order, err := BuildOrder(BuildInput{
		Cart: cart.Cart{Items: []cart.Item{{
			ProductID: "3",
			Name:      "Faraday Bag",
			Quantity:  1,
			SelectedAddons: cart.SelectedAddons{
				"Size":  {"L"},
				"Color": {"Black", "Red"},
			},
		}}},
		Shipping:      shippingAddress(),
		PaymentMethod: "cod",
	}, false)
	require.NoError(t, err)

	require.Equal(t, []woocommerce.MetaKV{
		{Key: "product_name", Value: "Faraday Bag"},
		{Key: "Color", Value: "Black, Red"},
		{Key: "Size", Value: "L"},
	}, order.LineItems[0].MetaData)
}

func TestBuildOrderCoercesNonNumericProductID(t *testing.T) {
	t.Parallel()

	input := BuildInput{
		Cart: cart.Cart{Items: []cart.Item{{
			ProductID: "pixel-7a-grapheneos",
			Name:      "Pixel 7a",
			Quantity:  1,
		}}},
		Shipping:      shippingAddress(),
		PaymentMethod: "cod",
	}

	order, err := BuildOrder(input, false)
	require.NoError(t, err)
	require.EqualValues(t, 0, order.LineItems[0].ProductID)

	_, err = BuildOrder(input, true)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestBuildOrderDefaultsQuantityAndBilling(t *testing.T) {
	t.Parallel()

	order, err := BuildOrder(BuildInput{
		Cart: cart.Cart{Items: []cart.Item{{
			ProductID: "5",
			Name:      "SIM",
			Quantity:  0,
		}}},
		Shipping:      shippingAddress(),
		PaymentMethod: "cod",
	}, false)
	require.NoError(t, err)

	require.Equal(t, 1, order.LineItems[0].Quantity)
	require.Equal(t, shippingAddress(), order.Billing)
}

func TestBuildOrderKeepsExplicitBilling(t *testing.T) {
	t.Parallel()

	billing := shippingAddress()
	billing.FirstName = "Billing"

	order, err := BuildOrder(BuildInput{
		Cart: cart.Cart{Items: []cart.Item{{
			ProductID: "5", Name: "SIM", Quantity: 1,
		}}},
		Billing:       billing,
		Shipping:      shippingAddress(),
		PaymentMethod: "cod",
	}, false)
	require.NoError(t, err)
	require.Equal(t, "Billing", order.Billing.FirstName)
	require.Equal(t, "Ada", order.Shipping.FirstName)
}
