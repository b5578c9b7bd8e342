package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-service/middlewares"
)

type applyCouponRequest struct {
	Code     string `json:"code" binding:"required"`
	Subtotal int    `json:"subtotal" binding:"required,gt=0"`
}

// ApplyCoupon validates a coupon code against the cart subtotal and returns
// the discount. Read-only; the coupon is charged against nothing here.
func ApplyCoupon(c *gin.Context) {
	defer func() {
		status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordCheckoutOperation("apply_coupon", status)
	}()

	var req applyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	discount, err := svc.ApplyCoupon(c.Request.Context(), req.Code, req.Subtotal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"discount": discount,
		"total":    req.Subtotal - discount,
	})
}
