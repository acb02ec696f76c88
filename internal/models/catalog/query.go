package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// SortMode selects the ordering of catalog search results.
type SortMode string

const (
	SortClosest SortMode = "closest"
	SortLikes   SortMode = "likes"
	SortName    SortMode = "name"
	SortNewest  SortMode = "newest"
)

// Query is an immutable description of one catalog search: an optional
// substring filter, an optional circular geographic bound, and a sort
// mode. A radius of zero means the distance filter is unbounded.
type Query struct {
	Text         string   `json:"text,omitempty"`
	Center       GeoPoint `json:"center"`
	RadiusMeters float64  `json:"radiusMeters"`
	Sort         SortMode `json:"sort"`
}

// NewQuery builds a Query from user intent. Building never fails: the
// filter text is trimmed, a negative radius is clamped to zero, and an
// unknown sort mode falls back to newest-first. Equal inputs always
// produce equal queries.
func NewQuery(text string, center GeoPoint, radiusMeters float64, sortMode SortMode) Query {
	if radiusMeters < 0 {
		radiusMeters = 0
	}
	switch sortMode {
	case SortClosest, SortLikes, SortName, SortNewest:
	default:
		sortMode = SortNewest
	}
	return Query{
		Text:         strings.TrimSpace(text),
		Center:       center,
		RadiusMeters: radiusMeters,
		Sort:         sortMode,
	}
}

// Equal reports whether two queries describe the same search. Equality
// governs whether a view cache must reset and whether a continuation
// token is still valid.
func (q Query) Equal(other Query) bool {
	return q == other
}

// Fingerprint returns a stable hash of the query, used to bind a
// continuation token to the exact search that produced it.
func (q Query) Fingerprint() string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%.8f|%.8f|%.3f|%s",
		q.Text, q.Center.Latitude, q.Center.Longitude, q.RadiusMeters, q.Sort)))
	return hex.EncodeToString(h[:16])
}

// Matches reports whether a record satisfies the query's predicate: the
// distance bound (always true at radius zero) conjoined with a
// case-sensitive substring containment test over the record's full
// searchable text.
func (q Query) Matches(r *Record) bool {
	if q.RadiusMeters > 0 && q.Center.DistanceMeters(r.Location) > q.RadiusMeters {
		return false
	}
	if q.Text != "" && !strings.Contains(r.SearchText(), q.Text) {
		return false
	}
	return true
}

// Compare orders two records under the query's sort mode. Each mode has
// a fixed tie-break chain ending in creation time descending, so two
// executions over the same records always agree.
func (q Query) Compare(a, b *Record) int {
	switch q.Sort {
	case SortClosest:
		if c := compareFloat(q.Center.DistanceMeters(a.Location), q.Center.DistanceMeters(b.Location)); c != 0 {
			return c
		}
	case SortLikes:
		if c := compareInt(b.Likes, a.Likes); c != 0 {
			return c
		}
		if c := compareFloat(q.Center.DistanceMeters(a.Location), q.Center.DistanceMeters(b.Location)); c != 0 {
			return c
		}
	case SortName:
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		if c := compareFloat(q.Center.DistanceMeters(a.Location), q.Center.DistanceMeters(b.Location)); c != 0 {
			return c
		}
	case SortNewest:
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		if b.CreatedAt.After(a.CreatedAt) {
			return 1
		}
		return compareFloat(q.Center.DistanceMeters(a.Location), q.Center.DistanceMeters(b.Location))
	}
	if a.CreatedAt.After(b.CreatedAt) {
		return -1
	}
	if b.CreatedAt.After(a.CreatedAt) {
		return 1
	}
	return 0
}

// SortRecords orders records in place under the query's sort mode.
func (q Query) SortRecords(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return q.Compare(records[i], records[j]) < 0
	})
}

func compareFloat(a, b float64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func compareInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
