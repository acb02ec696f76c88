package notify

import (
	"testing"

	"github.com/go-playground/assert/v2"

	catalog "io.winapps.myspot/internal/models/catalog"
)

func spotAt(lat, lon float64, name string) *catalog.Record {
	return &catalog.Record{
		ID:       "r1",
		Name:     name,
		Location: catalog.GeoPoint{Latitude: lat, Longitude: lon},
	}
}

func TestMatchesRadiusBound(t *testing.T) {
	sub := &Subscription{
		Center:       catalog.GeoPoint{Latitude: 33.71, Longitude: -112.29},
		RadiusMeters: 5000,
	}

	// ~0.01 degrees of latitude is about 1.1 km
	assert.Equal(t, sub.Matches(spotAt(33.72, -112.29, "Close Canyon")), true)
	assert.Equal(t, sub.Matches(spotAt(34.71, -112.29, "Far Canyon")), false)
}

func TestZeroRadiusIsUnbounded(t *testing.T) {
	sub := &Subscription{Center: catalog.GeoPoint{Latitude: 33.71, Longitude: -112.29}}
	assert.Equal(t, sub.Matches(spotAt(50.0, 10.0, "Anywhere")), true)
}

func TestFiltersAreORedAndCaseSensitive(t *testing.T) {
	sub := &Subscription{Filters: []string{"waterfall", "canyon"}}

	assert.Equal(t, sub.Matches(spotAt(0, 0, "hidden canyon trail")), true)
	assert.Equal(t, sub.Matches(spotAt(0, 0, "tall waterfall")), true)
	assert.Equal(t, sub.Matches(spotAt(0, 0, "Canyon Overlook")), false)
	assert.Equal(t, sub.Matches(spotAt(0, 0, "sandy beach")), false)
}

func TestNormalizeFilters(t *testing.T) {
	assert.Equal(t,
		NormalizeFilters([]string{" canyon ", "", "waterfall", "beach", "cave"}),
		[]string{"canyon", "waterfall", "beach"})
	assert.Equal(t, len(NormalizeFilters(nil)), 0)
	assert.Equal(t, len(NormalizeFilters([]string{"  ", ""})), 0)
}
