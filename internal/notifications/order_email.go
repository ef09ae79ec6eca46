package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/orders"
)

const orderNotificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>New order {{.ID}}</h3>
  <p><strong>Customer:</strong> {{.Name}} ({{.Email}})</p>
  <p><strong>Ship to:</strong> {{.Address}}</p>
  {{template "lines" .}}
  <p><strong>Payment:</strong> {{.PaymentMethod}}</p>
</body>
</html>`

const orderConfirmationTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hi {{.Name}},</p>
  <p>Thank you for your order. We are preparing it now.</p>
  {{template "lines" .}}
  <p>Order reference: <strong>{{.ID}}</strong></p>
  <p>Delivery to: {{.Address}}</p>
</body>
</html>`

const orderLinesTemplate = `{{define "lines"}}<table>
  {{range .Lines}}<tr><td>{{.Name}}</td><td>x{{.Quantity}}</td><td>{{.Amount}}</td></tr>
  {{end}}</table>
  {{if .Discount}}<p>Discount: -{{.Discount}}</p>{{end}}
  {{if .Shipping}}<p>Shipping: {{.Shipping}}</p>{{end}}
  {{if .Tax}}<p>Tax: {{.Tax}}</p>{{end}}
  <p><strong>Total: {{.Total}}</strong></p>{{end}}`

var (
	orderNotificationTmpl = template.Must(template.Must(template.New("order_notification").Parse(orderNotificationTemplate)).Parse(orderLinesTemplate))
	orderConfirmationTmpl = template.Must(template.Must(template.New("order_confirmation").Parse(orderConfirmationTemplate)).Parse(orderLinesTemplate))
)

type orderLine struct {
	Name     string
	Quantity int
	Amount   string
}

type orderEmailData struct {
	ID            string
	Name          string
	Email         string
	Address       string
	PaymentMethod string
	Lines         []orderLine
	Discount      string
	Shipping      string
	Tax           string
	Total         string
}

func (c *BrevoClient) SendOrderNotification(ctx context.Context, order orders.Order) (string, error) {
	if c == nil {
		return "", errNilClient
	}
	htmlBody, err := renderOrder(orderNotificationTmpl, order)
	if err != nil {
		return "", err
	}
	subject := fmt.Sprintf("New order from %s - %s", order.Shipping.Name, money(order.Currency, order.Total))
	return c.sendHTML(ctx, c.notifyEmail, c.senderName, order.Shipping.Email, subject, htmlBody)
}

func (c *BrevoClient) SendOrderConfirmation(ctx context.Context, order orders.Order) (string, error) {
	if c == nil {
		return "", errNilClient
	}
	htmlBody, err := renderOrder(orderConfirmationTmpl, order)
	if err != nil {
		return "", err
	}
	return c.sendHTML(ctx, order.Shipping.Email, order.Shipping.Name, "", "Your Serum Sculpt order", htmlBody)
}

func renderOrder(tmpl *template.Template, order orders.Order) (string, error) {
	data := orderEmailData{
		ID:            order.ID,
		Name:          order.Shipping.Name,
		Email:         order.Shipping.Email,
		Address:       shippingAddress(order.Shipping),
		PaymentMethod: order.PaymentMethod,
		Total:         money(order.Currency, order.Total),
	}
	for _, item := range order.Items {
		data.Lines = append(data.Lines, orderLine{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Amount:   money(order.Currency, item.LineTotal()),
		})
	}
	if order.DiscountAmount > 0 {
		data.Discount = money(order.Currency, order.DiscountAmount)
	}
	if order.ShippingCost > 0 {
		data.Shipping = money(order.Currency, order.ShippingCost)
	}
	if order.Tax > 0 {
		data.Tax = money(order.Currency, order.Tax)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func shippingAddress(s orders.Shipping) string {
	out := s.Address
	for _, part := range []string{s.City, s.Province, s.Zip} {
		if part != "" {
			out += ", " + part
		}
	}
	return out
}

func money(currency string, amount float64) string {
	if currency == "" {
		currency = orders.DefaultCurrency
	}
	return fmt.Sprintf("%s %.2f", currency, amount)
}
