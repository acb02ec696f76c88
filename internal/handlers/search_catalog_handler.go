package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalog "io.winapps.myspot/internal/models/catalog"
	searchmodels "io.winapps.myspot/internal/models/search_catalog"
	"io.winapps.myspot/internal/notify"
	"io.winapps.myspot/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type CatalogHandler struct {
	store    *store.CatalogStore
	images   *store.ImageStore
	notifier *notify.Notifier
	logger   *zap.SugaredLogger
}

// NewCatalogHandler creates the handler backing the shared spot catalog
func NewCatalogHandler(catalogStore *store.CatalogStore, images *store.ImageStore, notifier *notify.Notifier, logger *zap.SugaredLogger) *CatalogHandler {
	return &CatalogHandler{
		store:    catalogStore,
		images:   images,
		notifier: notifier,
		logger:   logger,
	}
}

// SearchCatalog executes one page of a catalog search and returns the
// records plus a continuation token when more pages remain
func (h *CatalogHandler) SearchCatalog(c *gin.Context) {
	var req searchmodels.SearchCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = defaultPageSize
	}
	if req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}

	// Re-normalize so a hand-built query body can't bypass the clamping
	// rules the builder applies
	q := catalog.NewQuery(req.Query.Text, req.Query.Center, req.Query.RadiusMeters, req.Query.Sort)

	ctx := context.Background()

	records, next, err := h.store.SearchPage(ctx, q, req.PageSize, req.Token)
	if err != nil {
		if errors.Is(err, store.ErrStaleCursor) {
			c.JSON(http.StatusConflict, gin.H{"error": "Continuation token is stale or belongs to a different query"})
			return
		}
		h.logError(c, err, "failed to search catalog")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search catalog"})
		return
	}

	if records == nil {
		records = []*catalog.Record{}
	}
	c.JSON(http.StatusOK, searchmodels.SearchCatalogResponse{
		Records: records,
		Next:    next,
	})
}
