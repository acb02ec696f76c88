package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"io.winapps.myspot/internal/store"
)

// DeleteSpot removes a spot from the catalog. Only the owner may
// delete; deleting a spot that is already gone succeeds so a retried
// delete is harmless
func (h *CatalogHandler) DeleteSpot(c *gin.Context) {
	id := c.Param("id")

	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userUID, ok := uid.(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user context"})
		return
	}

	ctx := context.Background()

	owner, err := h.store.SpotOwner(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"deleted": true})
		return
	}
	if err != nil {
		h.logError(c, err, "failed to check spot owner", "spot_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete spot"})
		return
	}
	if owner != userUID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can delete a spot"})
		return
	}

	if err := h.store.DeleteSpot(ctx, id); err != nil {
		h.logError(c, err, "failed to delete spot", "spot_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete spot"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
