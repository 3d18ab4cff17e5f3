package cart

import (
	"github.com/shopspring/decimal"
)

// SelectedAddons maps an add-on group name to the chosen option labels.
type SelectedAddons map[string][]string

// Empty reports whether no option is selected in any group.
func (s SelectedAddons) Empty() bool {
	for _, options := range s {
		if len(options) > 0 {
			return false
		}
	}
	return true
}

// Item is one cart line. Prices are snapshotted at add time; upstream price
// changes never retroactively affect items already in the cart.
type Item struct {
	Identity       string          `json:"identity"`
	ProductID      string          `json:"product_id"`
	Name           string          `json:"name"`
	UnitBasePrice  decimal.Decimal `json:"unit_base_price"`
	UnitAddonPrice decimal.Decimal `json:"unit_addon_price"`
	Quantity       int             `json:"quantity"`
	SelectedAddons SelectedAddons  `json:"selected_addons,omitempty"`
	Image          string          `json:"image,omitempty"`
}

// UnitPrice is the effective per-unit price including add-ons.
func (i Item) UnitPrice() decimal.Decimal {
	return i.UnitBasePrice.Add(i.UnitAddonPrice)
}

// Cart is the aggregate view of one session's slot. TotalItems and Total are
// derived from Items and recomputed from scratch after every mutation.
type Cart struct {
	Items      []Item          `json:"items"`
	TotalItems int             `json:"total_items"`
	Total      decimal.Decimal `json:"total"`
}

func emptyCart() Cart {
	return Cart{Items: []Item{}, TotalItems: 0, Total: decimal.Zero}
}

func recompute(c *Cart) {
	totalItems := 0
	total := decimal.Zero
	for _, item := range c.Items {
		totalItems += item.Quantity
		total = total.Add(item.UnitPrice().Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	c.TotalItems = totalItems
	c.Total = total.Round(2)
}
