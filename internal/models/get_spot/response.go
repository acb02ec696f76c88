package models

import (
	catalog "io.winapps.myspot/internal/models/catalog"
)

type GetSpotResponse struct {
	Record *catalog.Record `json:"record"`
}
