// Package models holds typed views over the schemaless storefront records.
//
// Records are stored as store.Document values; these structs are used only
// where the server itself reads fields (order notification, product media
// merge, review stamping).
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Amount is a money or quantity value that storefront clients send either
// as a JSON number or as a numeric string.  Anything else decodes to zero.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		*a = 0
		return nil
	}
	*a = Amount(f)
	return nil
}

// String renders the value without trailing zeros ("120", "99.5").
func (a Amount) String() string {
	return strconv.FormatFloat(float64(a), 'f', -1, 64)
}

type OrderItem struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Size  string `json:"size"`
	Qty   Amount `json:"qty"`
	Price Amount `json:"price"`
	Total Amount `json:"total"`
}

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Area    string `json:"area"`
	Note    string `json:"note"`
}

// Order mirrors what the checkout page posts.  Totals are the caller's.
type Order struct {
	OrderID     string      `json:"orderId"`
	Items       []OrderItem `json:"items"`
	Customer    Customer    `json:"customer"`
	Subtotal    Amount      `json:"subtotal"`
	ShippingFee Amount      `json:"shippingFee"`
	TotalQty    Amount      `json:"totalQty"`
	GrandTotal  Amount      `json:"grandTotal"`
	Status      string      `json:"status,omitempty"`
	Type        string      `json:"type,omitempty"`
}

// DecodeOrder reads the typed view of a raw order payload.  Unknown fields
// are ignored.
func DecodeOrder(raw []byte) (Order, error) {
	var o Order
	err := json.Unmarshal(raw, &o)
	return o, err
}

// Order fields an administrator may change after creation.
var OrderMutableFields = []string{"status", "type", "updateDate", "updateTime"}

// Product file fields accepted by the multipart update.  Each uploaded URL
// is written to the field of the same name, except BannerFileField, whose
// URL becomes banner.image.
var ProductMediaFields = []string{"logo", "chart", "shipPartner", BannerFileField, "video", "itemImage"}

const (
	BannerFileField   = "bannerFile"
	BannerStatusField = "bannerStatus"
)

// Banner is the product hero block.
type Banner struct {
	Image  string `json:"image"`
	Status bool   `json:"status"`
}

// Review display formats for server-assigned date and time strings.
const (
	ReviewDateLayout = "01/02/2006"
	ReviewTimeLayout = "3:04:05 PM"
)
