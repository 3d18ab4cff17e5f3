package catalog

import (
	"strings"

	"github.com/lmarceau/privastore-backend/internal/cart"
	"github.com/lmarceau/privastore-backend/pkg/woocommerce"
	"github.com/shopspring/decimal"
)

// Known add-on plugin metadata keys, checked in priority order.
var addonMetaKeys = []string{"_product_addons", "product_addons", "_wc_pb_addon_data"}

// ExtractAddons recovers structured add-on groups from a product's metadata.
// The known plugin keys are tried first, then the product's top-level addons
// field. The legacy substring scan over arbitrary keys runs only when
// heuristic is enabled.
func ExtractAddons(src *woocommerce.Product, heuristic bool) []AddonGroup {
	if src == nil {
		return nil
	}

	for _, key := range addonMetaKeys {
		for _, meta := range src.MetaData {
			if meta.Key != key {
				continue
			}
			if groups, ok := decodeAddonGroups(meta.Value); ok {
				return groups
			}
		}
	}

	if groups, ok := decodeAddonGroups(src.Addons); ok {
		return groups
	}

	if heuristic {
		for _, meta := range src.MetaData {
			lower := strings.ToLower(meta.Key)
			if !strings.Contains(lower, "addon") && !strings.Contains(lower, "option") {
				continue
			}
			if groups, ok := decodeAddonGroups(meta.Value); ok {
				return groups
			}
		}
	}

	return nil
}

// DefaultSelection returns the pre-checked options per group, mirroring the
// defaults a buyer sees on the product detail view.
func DefaultSelection(groups []AddonGroup) cart.SelectedAddons {
	selection := cart.SelectedAddons{}
	for _, group := range groups {
		if group.Type != "checkbox" && group.Type != "multiple_choice" {
			continue
		}
		var labels []string
		for _, opt := range group.Options {
			if opt.Default {
				labels = append(labels, opt.Label)
			}
		}
		if len(labels) > 0 {
			selection[group.Name] = labels
		}
	}
	return selection
}

// SelectionPrice sums the prices of the selected options. Options with a
// missing or zero price contribute nothing but remain part of the selection.
// Labels that match no known option are ignored rather than rejected, since
// the upstream metadata is authoritative only at fetch time.
func SelectionPrice(groups []AddonGroup, selection cart.SelectedAddons) decimal.Decimal {
	total := decimal.Zero
	for name, labels := range selection {
		var group *AddonGroup
		for i := range groups {
			if groups[i].Name == name {
				group = &groups[i]
				break
			}
		}
		if group == nil {
			continue
		}
		for _, label := range labels {
			for _, opt := range group.Options {
				if opt.Label == label {
					total = total.Add(opt.Price.Decimal)
					break
				}
			}
		}
	}
	return total
}
