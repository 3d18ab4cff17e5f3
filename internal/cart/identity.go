package cart

import (
	"encoding/json"
	"sort"
)

// Identity derives the deterministic line key for a product and its add-on
// selection. Two additions merge into one line only when both the product id
// and the exact selection set match. Group and option order never affect the
// result.
//
// The selection is encoded as canonical JSON (sorted groups, sorted options)
// rather than with bare separator characters: option labels come from upstream
// metadata and may contain any character, so only an escaping encoding keeps
// distinct selections from colliding.
func Identity(productID string, addons SelectedAddons) string {
	canonical := make(map[string][]string, len(addons))
	for name, options := range addons {
		if len(options) == 0 {
			continue
		}
		sorted := append([]string(nil), options...)
		sort.Strings(sorted)
		canonical[name] = sorted
	}
	if len(canonical) == 0 {
		return productID
	}

	// json.Marshal emits map keys in sorted order, which makes the encoding
	// canonical without further bookkeeping.
	encoded, err := json.Marshal(canonical)
	if err != nil {
		return productID
	}
	return productID + "#" + string(encoded)
}
