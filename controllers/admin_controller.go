package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"storefront-service/middlewares"
	"storefront-service/models"
	"storefront-service/utils"
)

func AdminLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Username != cfg.AdminUser ||
		bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := utils.IssueAdminToken(cfg.JWTSecret, req.Username, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func ListOrders(c *gin.Context) {
	defer func() {
		status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordCheckoutOperation("list_orders", status)
	}()

	orders, err := store.RecentOrders(c.Request.Context(), 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func UpdateOrderStatus(c *gin.Context) {
	defer func() {
		status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordCheckoutOperation("update_status", status)
	}()

	orderID := c.Param("id")

	var req struct {
		Status string `json:"status" binding:"required,oneof=Processing Shipped Delivered Cancelled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	found, err := store.UpdateOrderStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	if rabbitMQ != nil {
		priority := 5
		if req.Status == "Cancelled" {
			priority = 8
		}
		event := models.OrderEvent{
			OrderID:  orderID,
			Type:     "status_updated",
			Status:   req.Status,
			Occurred: time.Now(),
		}
		if err := rabbitMQ.PublishOrderEvent(event, priority); err != nil {
			log.Printf("Failed to publish order updated event: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order_id": orderID})
}

func CreateCoupon(c *gin.Context) {
	var coupon models.Coupon
	if err := c.ShouldBindJSON(&coupon); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	coupon.Active = true

	if err := store.CreateCoupon(c.Request.Context(), &coupon); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, coupon)
}

func DeactivateCoupon(c *gin.Context) {
	found, err := store.DeactivateCoupon(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Coupon deactivated"})
}

// UpdateProduct applies an admin price/stock/active edit and drops the
// catalog snapshot so the storefront sees the change.
func UpdateProduct(c *gin.Context) {
	var upd models.ProductUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	found, err := store.UpdateProduct(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	if catalogCache != nil {
		if err := catalogCache.Invalidate(c.Request.Context()); err != nil {
			log.Printf("Snapshot cache invalidation failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}
