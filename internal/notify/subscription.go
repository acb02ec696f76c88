package notify

import (
	"strings"

	catalog "io.winapps.myspot/internal/models/catalog"
)

// MaxFilters caps the OR'd substring filters per subscription.
const MaxFilters = 3

// Subscription is one registered area of interest: a center point, a
// radius, and up to three substring filters OR'd together. The
// predicate mirrors the catalog query's: a zero radius is unbounded,
// and containment is case-sensitive against the record's searchable
// text.
type Subscription struct {
	ID           string
	UserUID      string
	Center       catalog.GeoPoint
	RadiusMeters float64
	Filters      []string
	FCMToken     string
}

// Matches reports whether a newly published record falls inside the
// subscription's area and, when filters are present, contains at least
// one of them.
func (s *Subscription) Matches(rec *catalog.Record) bool {
	if s.RadiusMeters > 0 && s.Center.DistanceMeters(rec.Location) > s.RadiusMeters {
		return false
	}
	if len(s.Filters) == 0 {
		return true
	}
	text := rec.SearchText()
	for _, f := range s.Filters {
		if f != "" && strings.Contains(text, f) {
			return true
		}
	}
	return false
}

// NormalizeFilters trims filter terms, drops empties, and truncates the
// list to MaxFilters.
func NormalizeFilters(filters []string) []string {
	out := make([]string, 0, MaxFilters)
	for _, f := range filters {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		out = append(out, f)
		if len(out) == MaxFilters {
			break
		}
	}
	return out
}
