package gateway

import (
	"context"
	"errors"

	razorpay "github.com/razorpay/razorpay-go"
)

// Razorpay creates payment intents ("orders" in gateway terms). The client
// collects the payment itself through the gateway's own UI; this side only
// creates the intent.
type Razorpay struct {
	client *razorpay.Client
}

func NewRazorpay(keyID, keySecret string) *Razorpay {
	return &Razorpay{client: razorpay.NewClient(keyID, keySecret)}
}

func (g *Razorpay) CreateOrder(ctx context.Context, amount int, currency, receipt, email string) (string, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
		"notes": map[string]interface{}{
			"email": email,
		},
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", err
	}

	id, ok := body["id"].(string)
	if !ok {
		return "", errors.New("gateway response missing order id")
	}
	return id, nil
}
