package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	getmodels "io.winapps.myspot/internal/models/get_spot"
	"io.winapps.myspot/internal/store"
)

// GetSpot fetches one spot by identifier. This is also the deep-link
// resolution path: a malformed or unknown identifier is a plain
// not-found, never a server error
func (h *CatalogHandler) GetSpot(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Spot not found"})
		return
	}

	ctx := context.Background()

	rec, err := h.store.GetSpot(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Spot not found"})
			return
		}
		h.logError(c, err, "failed to fetch spot", "spot_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch spot"})
		return
	}

	c.JSON(http.StatusOK, getmodels.GetSpotResponse{Record: rec})
}
