package catalog

import (
	"bytes"
	"encoding/json"

	"github.com/lmarceau/privastore-backend/pkg/woocommerce"
	"github.com/shopspring/decimal"
)

// Price tolerates the upstream encodings seen in add-on metadata: JSON
// number, numeric string, empty string, or missing entirely (all of the last
// three mean "free").
type Price struct {
	decimal.Decimal
}

func (p *Price) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		p.Decimal = decimal.Zero
		return nil
	}
	return p.Decimal.UnmarshalJSON(trimmed)
}

// AddonOption is one selectable customization, e.g. a storage size.
type AddonOption struct {
	Label   string `json:"label"`
	Price   Price  `json:"price"`
	Default bool   `json:"default,omitempty"`
}

// AddonGroup is a named set of options extracted from product metadata.
type AddonGroup struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Type        string        `json:"type,omitempty"`
	Options     []AddonOption `json:"options"`
}

type ImageRef struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// Product is the storefront catalog shape served to views.
type Product struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description,omitempty"`
	ShortDescription string       `json:"short_description,omitempty"`
	Price            string       `json:"price"`
	RegularPrice     string       `json:"regular_price,omitempty"`
	SalePrice        string       `json:"sale_price,omitempty"`
	InStock          bool         `json:"in_stock"`
	Categories       []string     `json:"categories,omitempty"`
	Tags             []string     `json:"tags,omitempty"`
	Images           []ImageRef   `json:"images,omitempty"`
	Addons           []AddonGroup `json:"addons,omitempty"`
}

func newProduct(src *woocommerce.Product, addons []AddonGroup) Product {
	categories := make([]string, 0, len(src.Categories))
	for _, c := range src.Categories {
		categories = append(categories, c.Name)
	}
	tags := make([]string, 0, len(src.Tags))
	for _, tag := range src.Tags {
		tags = append(tags, tag.Name)
	}
	images := make([]ImageRef, 0, len(src.Images))
	for _, img := range src.Images {
		images = append(images, ImageRef{Src: img.Src, Alt: img.Alt})
	}
	return Product{
		ID:               src.ID.String(),
		Name:             src.Name,
		Description:      src.Description,
		ShortDescription: src.ShortDescription,
		Price:            src.Price,
		RegularPrice:     src.RegularPrice,
		SalePrice:        src.SalePrice,
		InStock:          src.StockStatus == "instock",
		Categories:       categories,
		Tags:             tags,
		Images:           images,
		Addons:           addons,
	}
}

func decodeAddonGroups(raw json.RawMessage) ([]AddonGroup, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false
	}
	// Plugin metadata arrives either as an embedded array or as a JSON
	// string wrapping one.
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, false
		}
		trimmed = bytes.TrimSpace([]byte(inner))
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var groups []AddonGroup
	if err := json.Unmarshal(trimmed, &groups); err != nil {
		return nil, false
	}
	return groups, true
}
