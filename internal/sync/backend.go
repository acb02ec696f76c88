package sync

import (
	"context"

	catalog "io.winapps.myspot/internal/models/catalog"
)

// ContinuationToken resumes a paginated search. The value is opaque to
// the client; the query it was issued for travels with it so that reuse
// against a different query can be rejected instead of silently
// returning the wrong feed.
type ContinuationToken struct {
	Value string
	Query catalog.Query
}

// Zero reports whether the token is absent. An absent token after a
// page fetch is the terminal "no more results" signal.
func (t ContinuationToken) Zero() bool {
	return t.Value == ""
}

// Page is one bounded slice of query results.
type Page struct {
	Records []*catalog.Record
	Next    ContinuationToken
}

// Backend is the remote catalog as the sync core consumes it: black-box
// async calls that may fail. Implementations map their own transport
// failures onto the sentinel errors in this package.
type Backend interface {
	// Search executes the first page of a query.
	Search(ctx context.Context, q catalog.Query, pageSize int) (Page, error)

	// Continue fetches the next page for a previously issued token.
	Continue(ctx context.Context, token ContinuationToken, pageSize int) (Page, error)

	// Get fetches one record by identifier.
	Get(ctx context.Context, id string) (*catalog.Record, error)

	// Save overwrites the remote record, creating it when absent.
	Save(ctx context.Context, r *catalog.Record) error

	// Delete removes the record from the catalog unconditionally.
	Delete(ctx context.Context, id string) error

	// UploadAttachment stores one binary image payload and returns the
	// content reference to embed in a record.
	UploadAttachment(ctx context.Context, filename string, data []byte) (string, error)
}

// LocalSpot is the device-resident copy of a spot, original or imported.
// Its persistence is owned elsewhere; the core only reads it to answer
// "already imported" for a catalog record.
type LocalSpot struct {
	ID          string
	CatalogID   string
	Name        string
	Description string
	SpotType    string
	Location    catalog.GeoPoint
	PlaceName   string
}

// ImportIndex resolves a catalog record identifier to the zero-or-one
// local copy imported from it.
type ImportIndex interface {
	LookupByCatalogID(ctx context.Context, catalogID string) (*LocalSpot, error)
}
