package models

import (
	catalog "io.winapps.myspot/internal/models/catalog"
)

type SaveSpotRequest struct {
	Record *catalog.Record `json:"record"`
}
