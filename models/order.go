package models

import (
	"time"
)

// CartLine is one requested line of a cart as submitted by the client.
// Note there is no price field: the client cannot influence the amount.
type CartLine struct {
	ProductID       string            `json:"id" binding:"required"`
	Quantity        int               `json:"quantity" binding:"required,gt=0"`
	SelectedOptions map[string]string `json:"selectedOptions"`
}

type DeliveryDetails struct {
	Email   string `json:"email" binding:"required,email"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
}

// OrderPayload is the checkout request body, shared by order creation and the
// echo sent back with payment verification.
type OrderPayload struct {
	Items           []CartLine      `json:"items" binding:"required,min=1,dive"`
	DeliveryDetails DeliveryDetails `json:"deliveryDetails" binding:"required"`
}

// VerifyPaymentRequest carries the gateway's completion fields plus the order
// payload echoed by the client. Field names follow the gateway callback.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string       `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string       `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string       `json:"razorpay_signature" binding:"required"`
	OrderDetails      OrderPayload `json:"orderDetails" binding:"required"`
}

// OrderItem is an immutable snapshot of a priced line. Name and unit price are
// copied at order time so later product edits do not alter historical orders.
type OrderItem struct {
	ProductID       string            `json:"id"`
	Name            string            `json:"name"`
	Price           int               `json:"price"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selectedOptions,omitempty"`
}

// Order is the persisted record of a verified payment. ID is the gateway
// order id, which makes persistence naturally idempotent on retries.
type Order struct {
	ID          string          `json:"id"`
	PaymentID   string          `json:"paymentId"`
	Items       []OrderItem     `json:"items"`
	TotalAmount int             `json:"totalAmount"`
	Delivery    DeliveryDetails `json:"deliveryDetails"`
	Status      string          `json:"status"`
	EmailSent   bool            `json:"emailSent"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type OrderEvent struct {
	OrderID  string    `json:"order_id"`
	Type     string    `json:"type"` // created, status_updated
	Status   string    `json:"status,omitempty"`
	Email    string    `json:"email,omitempty"`
	Total    int       `json:"total,omitempty"`
	Occurred time.Time `json:"occurred"`
}
