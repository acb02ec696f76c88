package models

import (
	catalog "io.winapps.myspot/internal/models/catalog"
)

type SearchCatalogResponse struct {
	Records []*catalog.Record `json:"records"`
	Next    string            `json:"next,omitempty"` // Absent when the result set is exhausted
}
