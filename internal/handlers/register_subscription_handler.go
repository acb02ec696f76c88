package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	submodels "io.winapps.myspot/internal/models/subscribe"
	"io.winapps.myspot/internal/notify"
)

type SubscriptionsHandler struct {
	postgres *pgxpool.Pool
	logger   *zap.SugaredLogger
}

// NewSubscriptionsHandler creates the handler for area-of-interest push registrations
func NewSubscriptionsHandler(postgres *pgxpool.Pool, logger *zap.SugaredLogger) *SubscriptionsHandler {
	return &SubscriptionsHandler{
		postgres: postgres,
		logger:   logger,
	}
}

// RegisterSubscription upserts the caller's area of interest: a center
// point, a radius (0 means unbounded), and up to 3 OR'd substring
// filters, mirroring the catalog query predicate
func (h *SubscriptionsHandler) RegisterSubscription(c *gin.Context) {
	var req submodels.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	if req.FCMToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "FCM token is required"})
		return
	}
	if len(req.Filters) > notify.MaxFilters {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At most 3 filters are allowed"})
		return
	}
	if req.RadiusMeters < 0 {
		req.RadiusMeters = 0
	}
	filters := notify.NormalizeFilters(req.Filters)
	for len(filters) < notify.MaxFilters {
		filters = append(filters, "")
	}

	query := `
		INSERT INTO subscriptions (user_uid, latitude, longitude, radius_meters, filter_one, filter_two, filter_three, fcm_token, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		ON CONFLICT (user_uid)
		DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			radius_meters = EXCLUDED.radius_meters,
			filter_one = EXCLUDED.filter_one,
			filter_two = EXCLUDED.filter_two,
			filter_three = EXCLUDED.filter_three,
			fcm_token = EXCLUDED.fcm_token,
			active = TRUE,
			updated_at = NOW()
		RETURNING id`

	var id string
	err := h.postgres.QueryRow(context.Background(), query,
		userUID,
		req.Center.Latitude,
		req.Center.Longitude,
		req.RadiusMeters,
		filters[0],
		filters[1],
		filters[2],
		req.FCMToken,
	).Scan(&id)
	if err != nil {
		h.logError(c, err, "failed to save subscription")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	c.JSON(http.StatusOK, submodels.SubscribeResponse{ID: id})
}
