package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-service/checkout"
	"storefront-service/middlewares"
	"storefront-service/models"
)

// CreateOrder prices the submitted cart from the catalog and creates a
// payment intent for the authoritative amount. Nothing is persisted here.
func CreateOrder(c *gin.Context) {
	defer func() {
		status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordCheckoutOperation("create_order", status)
	}()

	var payload models.OrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	quote, err := svc.PriceOrder(c.Request.Context(), &payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"orderId":  quote.OrderID,
		"amount":   quote.Amount,
		"currency": quote.Currency,
		"items":    quote.Items,
	})
}

// VerifyPayment checks the gateway signature and persists the paid order
// atomically with the stock decrements.
func VerifyPayment(c *gin.Context) {
	defer func() {
		status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordCheckoutOperation("verify_payment", status)
	}()

	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	order, err := svc.ConfirmPayment(c.Request.Context(), &req)
	if err != nil {
		resp := gin.H{"success": false, "error": err.Error()}
		if errors.Is(err, checkout.ErrInsufficientStock) {
			// Stock ran out between intent creation and verification, but
			// the payment has already been captured. The rejection is logged
			// so a refund can be initiated against the gateway.
			resp["refundRequired"] = true
			log.Printf("order %s rejected after payment %s: %v; refund required",
				req.RazorpayOrderID, req.RazorpayPaymentID, err)
		}
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orderId": order.ID})
}
