package models

import (
	catalog "io.winapps.myspot/internal/models/catalog"
)

type SubscribeRequest struct {
	Center       catalog.GeoPoint `json:"center"`
	RadiusMeters float64          `json:"radiusMeters"` // 0 means unbounded
	Filters      []string         `json:"filters,omitempty"` // Up to 3, OR'd substring filters
	FCMToken     string           `json:"fcmToken"`
}
