package models

import (
	catalog "io.winapps.myspot/internal/models/catalog"
)

type SearchCatalogRequest struct {
	Query    catalog.Query `json:"query"`
	PageSize int           `json:"pageSize,omitempty"` // Default: 20, max: 100
	Token    string        `json:"token,omitempty"`    // Continuation token from a previous page
}
