package mailer

import (
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"storefront-service/models"
)

// Mailer sends the transactional order-confirmation email to the buyer with
// an operator BCC.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	bcc    string
}

func New(host string, port int, user, password, from, bcc string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		bcc:    bcc,
	}
}

func (m *Mailer) SendOrderConfirmation(order *models.Order) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", order.Delivery.Email)
	if m.bcc != "" {
		msg.SetHeader("Bcc", m.bcc)
	}
	msg.SetHeader("Subject", fmt.Sprintf("Order %s confirmed", order.ID))
	msg.SetBody("text/plain", confirmationBody(order))

	return m.dialer.DialAndSend(msg)
}

func confirmationBody(order *models.Order) string {
	var b strings.Builder
	name := order.Delivery.Name
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "Hi %s,\n\nThank you for your order. Here is your summary:\n\n", name)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  %s x %d  Rs. %d\n", item.Name, item.Quantity, item.Price*item.Quantity)
	}
	fmt.Fprintf(&b, "\nTotal: Rs. %d\n", order.TotalAmount)
	fmt.Fprintf(&b, "Payment reference: %s\n", order.PaymentID)
	if order.Delivery.Address != "" {
		fmt.Fprintf(&b, "\nShipping to:\n%s\n%s %s\n", order.Delivery.Address, order.Delivery.City, order.Delivery.Pincode)
	}
	b.WriteString("\nWe will let you know once your order ships.\n")
	return b.String()
}
