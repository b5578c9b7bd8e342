package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListProducts serves the storefront catalog snapshot. Reads go through the
// Redis-cached snapshot; a miss rebuilds it from the catalog collection.
func ListProducts(c *gin.Context) {
	ctx := c.Request.Context()

	if catalogCache != nil {
		snapshot, err := catalogCache.Snapshot(ctx)
		if err != nil {
			log.Printf("Snapshot cache read failed: %v", err)
		} else if snapshot != nil {
			c.Data(http.StatusOK, "application/json", snapshot)
			return
		}
	}

	products, err := store.ActiveProducts(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}

	snapshot, err := json.Marshal(products)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode products"})
		return
	}
	if catalogCache != nil {
		if err := catalogCache.StoreSnapshot(ctx, snapshot); err != nil {
			log.Printf("Snapshot cache write failed: %v", err)
		}
	}

	c.Data(http.StatusOK, "application/json", snapshot)
}
