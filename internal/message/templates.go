package message

import (
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/rokibulislampro/mnly-server/internal/models"
)

// view is the display form of an order; every field is already a string.
type view struct {
	OrderID  string
	Name     string
	Phone    string
	Address  string
	Area     string
	Note     string
	Items    []itemView
	Subtotal string
	Shipping string
	TotalQty string
	Total    string
}

type itemView struct {
	Name, Color, Size, Qty, Price, Total string
}

func newView(o models.Order) view {
	v := view{
		OrderID:  orNA(o.OrderID),
		Name:     orNA(o.Customer.Name),
		Phone:    orNA(o.Customer.Phone),
		Address:  orNA(o.Customer.Address),
		Area:     orNA(o.Customer.Area),
		Note:     orNA(o.Customer.Note),
		Subtotal: o.Subtotal.String(),
		Shipping: o.ShippingFee.String(),
		TotalQty: o.TotalQty.String(),
		Total:    o.GrandTotal.String(),
	}
	for _, it := range o.Items {
		v.Items = append(v.Items, itemView{
			Name:  orNA(it.Name),
			Color: orNA(it.Color),
			Size:  orNA(it.Size),
			Qty:   it.Qty.String(),
			Price: it.Price.String(),
			Total: it.Total.String(),
		})
	}
	return v
}

var textTmpl = texttemplate.Must(texttemplate.New("order.txt").Parse(`New order received from MNLY!

Order ID: {{.OrderID}}

Customer Name: {{.Name}}
Phone: {{.Phone}}
Address: {{.Address}}
Area: {{.Area}}
Note: {{.Note}}

Items:
{{- range .Items}}
  - {{.Name}} ({{.Color}}, {{.Size}}) x{{.Qty}} @ {{.Price}} = {{.Total}}
{{- else}}
  (none)
{{- end}}

Subtotal: {{.Subtotal}}
Shipping: {{.Shipping}}
Total quantity: {{.TotalQty}}
Grand total: {{.Total}}

Please process the order accordingly.
`))

var htmlTmpl = htmltemplate.Must(htmltemplate.New("order.html").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif">
<h2>New order received from MNLY!</h2>
<p><strong>Order ID:</strong> {{.OrderID}}</p>
<table cellpadding="6" style="border-collapse:collapse">
<tr><td><strong>Customer Name</strong></td><td>{{.Name}}</td></tr>
<tr><td><strong>Phone</strong></td><td>{{.Phone}}</td></tr>
<tr><td><strong>Address</strong></td><td>{{.Address}}</td></tr>
<tr><td><strong>Area</strong></td><td>{{.Area}}</td></tr>
<tr><td><strong>Note</strong></td><td>{{.Note}}</td></tr>
</table>
<h3>Items</h3>
<table border="1" cellpadding="6" style="border-collapse:collapse">
<tr><th>Product</th><th>Color</th><th>Size</th><th>Qty</th><th>Price</th><th>Total</th></tr>
{{range .Items}}<tr><td>{{.Name}}</td><td>{{.Color}}</td><td>{{.Size}}</td><td>{{.Qty}}</td><td>{{.Price}}</td><td>{{.Total}}</td></tr>
{{end}}</table>
<p>Subtotal: {{.Subtotal}}<br>Shipping: {{.Shipping}}<br>Total quantity: {{.TotalQty}}<br><strong>Grand total: {{.Total}}</strong></p>
<p>Please process the order accordingly.</p>
</body></html>
`))
