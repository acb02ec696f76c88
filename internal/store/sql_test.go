package store

import (
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"

	catalog "io.winapps.myspot/internal/models/catalog"
)

var center = catalog.GeoPoint{Latitude: 33.71, Longitude: -112.29}

func TestBuildSearchSQLUnboundedQuery(t *testing.T) {
	q := catalog.NewQuery("", center, 0, catalog.SortNewest)
	where, orderBy, args, argCounter := buildSearchSQL(q)

	assert.Equal(t, where, "")
	assert.Equal(t, strings.HasPrefix(orderBy, "ORDER BY created_at DESC"), true)
	assert.Equal(t, args, []any{center.Latitude, center.Longitude})
	assert.Equal(t, argCounter, 3)
}

func TestBuildSearchSQLRadiusBound(t *testing.T) {
	q := catalog.NewQuery("", center, 5000, catalog.SortClosest)
	where, orderBy, args, argCounter := buildSearchSQL(q)

	assert.Equal(t, strings.Contains(where, "<= $3"), true)
	assert.Equal(t, len(args), 3)
	assert.Equal(t, args[2], 5000.0)
	assert.Equal(t, argCounter, 4)
	assert.Equal(t, strings.Contains(orderBy, "acos"), true)
	assert.Equal(t, strings.HasSuffix(orderBy, "created_at DESC"), true)
}

func TestBuildSearchSQLTextFilterIsCaseSensitive(t *testing.T) {
	q := catalog.NewQuery("Falls", center, 0, catalog.SortName)
	where, _, args, argCounter := buildSearchSQL(q)

	assert.Equal(t, strings.Contains(where, "LIKE"), true)
	assert.Equal(t, strings.Contains(where, "ILIKE"), false)
	assert.Equal(t, args[2], "Falls")
	assert.Equal(t, argCounter, 4)
}

func TestBuildSearchSQLCombinedFilters(t *testing.T) {
	q := catalog.NewQuery("canyon", center, 2500, catalog.SortLikes)
	where, orderBy, args, argCounter := buildSearchSQL(q)

	assert.Equal(t, strings.Contains(where, "<= $3"), true)
	assert.Equal(t, strings.Contains(where, "$4"), true)
	assert.Equal(t, strings.Contains(where, " AND "), true)
	assert.Equal(t, args, []any{center.Latitude, center.Longitude, 2500.0, "canyon"})
	assert.Equal(t, argCounter, 5)
	assert.Equal(t, strings.HasPrefix(orderBy, "ORDER BY likes DESC"), true)
}

func TestOrderByChainsEndInCreationTime(t *testing.T) {
	for _, sort := range []catalog.SortMode{catalog.SortClosest, catalog.SortLikes, catalog.SortName} {
		q := catalog.NewQuery("", center, 0, sort)
		_, orderBy, _, _ := buildSearchSQL(q)
		assert.Equal(t, strings.HasSuffix(orderBy, "created_at DESC"), true)
	}
}
