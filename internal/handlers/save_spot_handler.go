package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	savemodels "io.winapps.myspot/internal/models/save_spot"
	"io.winapps.myspot/internal/store"
)

// SaveSpot overwrites a catalog record, creating it when absent. The
// create path is how spots are published; the overwrite path carries
// both owner edits and counter write-backs (likes, reports) from any
// authenticated user, last writer wins. A newly created spot fans out
// to matching push subscriptions
func (h *CatalogHandler) SaveSpot(c *gin.Context) {
	var req savemodels.SaveSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Record == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

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

	rec := req.Record
	if rec.ID != c.Param("id") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Record ID does not match URL"})
		return
	}
	if _, err := uuid.Parse(rec.ID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Record ID must be a valid UUID"})
		return
	}
	if rec.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	if len(rec.ImageRefs) > 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A spot carries at most 3 images"})
		return
	}
	// Counters can never go negative, regardless of what a stale client
	// writes back
	if rec.Likes < 0 || rec.Offensive < 0 || rec.Spam < 0 || rec.Inappropriate < 0 || rec.Dangerous < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Counters must be non-negative"})
		return
	}

	ctx := context.Background()

	created := false
	owner, err := h.store.SpotOwner(ctx, rec.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// Publish: the caller becomes the owner
		created = true
		rec.OwnerUID = userUID
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now()
		}
	case err != nil:
		h.logError(c, err, "failed to check spot owner", "spot_id", rec.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save spot"})
		return
	default:
		// Overwrite of an existing record keeps its owner; identifiers
		// are immutable after creation
		rec.OwnerUID = owner
	}

	if err := h.store.SaveSpot(ctx, rec); err != nil {
		h.logError(c, err, "failed to save spot", "spot_id", rec.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save spot"})
		return
	}

	if created && h.notifier != nil {
		h.notifier.SpotPublished(ctx, rec)
	}

	c.JSON(http.StatusOK, savemodels.SaveSpotResponse{ID: rec.ID, Created: created})
}
