package models

import "testing"

func TestDecodeOrderToleratesStringAmounts(t *testing.T) {
	raw := []byte(`{
		"orderId": "MN-1001",
		"items": [{"name":"Tee","color":"black","size":"L","qty":"2","price":450,"total":"900"}],
		"customer": {"name":"Rafi","phone":"017","address":"Road 5"},
		"subtotal": "900", "shippingFee": 60, "totalQty": 2, "grandTotal": "960.50"
	}`)

	o, err := DecodeOrder(raw)
	if err != nil {
		t.Fatalf("DecodeOrder error: %v", err)
	}
	if o.Items[0].Qty != 2 || o.Items[0].Total != 900 {
		t.Errorf("item amounts = %+v", o.Items[0])
	}
	if o.GrandTotal.String() != "960.5" {
		t.Errorf("grand total = %s", o.GrandTotal)
	}
	if o.Customer.Note != "" {
		t.Errorf("note = %q, want empty", o.Customer.Note)
	}
}

func TestAmountGarbageIsZero(t *testing.T) {
	var a Amount
	if err := a.UnmarshalJSON([]byte(`"abc"`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != 0 {
		t.Errorf("a = %v, want 0", a)
	}
	if err := a.UnmarshalJSON([]byte(`null`)); err != nil || a != 0 {
		t.Errorf("null: a = %v, err = %v", a, err)
	}
}
