package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	uploadmodels "io.winapps.myspot/internal/models/upload_image"
)

// Uploads beyond this are rejected before decoding
const maxImageBytes = 10 << 20

// UploadImage stores one spot image payload and returns the
// content-addressed reference a record embeds
func (h *CatalogHandler) UploadImage(c *gin.Context) {
	var req uploadmodels.UploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if _, exists := c.Get("uid"); !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if req.Data == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image data is required"})
		return
	}
	if base64.StdEncoding.DecodedLen(len(req.Data)) > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image exceeds the 10MB limit"})
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image data must be base64 encoded"})
		return
	}

	ref, err := h.images.Save(req.Filename, data)
	if err != nil {
		h.logError(c, err, "failed to store image", "filename", req.Filename)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	c.JSON(http.StatusOK, uploadmodels.UploadImageResponse{Ref: ref})
}
