package woocommerce

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ProductID tolerates both numeric and slug-style ids in upstream payloads.
type ProductID string

func (p *ProductID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*p = ProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*p = ProductID(n.String())
	return nil
}

func (p ProductID) String() string {
	return string(p)
}

// Int reports the numeric form of the id, if it has one.
func (p ProductID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(p), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Image struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

type MetaData struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Product is the catalog shape returned by /wp-json/wc/v3/products.
type Product struct {
	ID               ProductID       `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"short_description"`
	Price            string          `json:"price"`
	RegularPrice     string          `json:"regular_price"`
	SalePrice        string          `json:"sale_price"`
	StockStatus      string          `json:"stock_status"`
	Categories       []Category      `json:"categories"`
	Tags             []Tag           `json:"tags"`
	Images           []Image         `json:"images"`
	MetaData         []MetaData      `json:"meta_data"`
	Addons           json.RawMessage `json:"addons,omitempty"`
}

// Address is the billing/shipping shape on order creation.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Company   string `json:"company,omitempty"`
}

// IsZero reports whether no address field was supplied.
func (a Address) IsZero() bool {
	return a == Address{}
}

type MetaKV struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type LineItem struct {
	ProductID int64    `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Name      string   `json:"name,omitempty"`
	MetaData  []MetaKV `json:"meta_data,omitempty"`
}

// OrderRequest is the payload sent to the order-creation endpoint.
type OrderRequest struct {
	PaymentMethod      string     `json:"payment_method"`
	PaymentMethodTitle string     `json:"payment_method_title"`
	SetPaid            bool       `json:"set_paid"`
	Billing            Address    `json:"billing"`
	Shipping           Address    `json:"shipping"`
	LineItems          []LineItem `json:"line_items"`
	MetaData           []MetaKV   `json:"meta_data,omitempty"`
}

// CreatedOrder carries the upstream-assigned identifiers after creation.
type CreatedOrder struct {
	ID          int64  `json:"id"`
	Number      string `json:"number"`
	Status      string `json:"status"`
	Total       string `json:"total"`
	DateCreated string `json:"date_created"`
}

type PaymentGateway struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
	Order       int    `json:"order"`
}
