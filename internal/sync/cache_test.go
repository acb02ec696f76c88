package sync

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	catalog "io.winapps.myspot/internal/models/catalog"
)

func rec(id string, likes int) *catalog.Record {
	return &catalog.Record{ID: id, Name: "Spot " + id, Likes: likes, CreatedAt: time.Now()}
}

func TestAppendDeduplicatesFirstOccurrenceWins(t *testing.T) {
	vc := NewViewCache()

	first := rec("a", 1)
	added := vc.Append([]*catalog.Record{first, rec("b", 0)})
	assert.Equal(t, added, 2)

	// A later duplicate of "a" is dropped, keeping the original object
	dup := rec("a", 99)
	added = vc.Append([]*catalog.Record{dup, rec("c", 0)})
	assert.Equal(t, added, 1)

	records := vc.Records()
	assert.Equal(t, len(records), 3)
	assert.Equal(t, records[0].ID, "a")
	assert.Equal(t, records[0].Likes, 1)
	assert.Equal(t, records[1].ID, "b")
	assert.Equal(t, records[2].ID, "c")
}

func TestResetClearsContentsAndBindsQuery(t *testing.T) {
	vc := NewViewCache()
	vc.Append([]*catalog.Record{rec("a", 0), rec("b", 0)})
	vc.Remove("b")

	q := catalog.NewQuery("new", catalog.GeoPoint{}, 0, catalog.SortName)
	vc.Reset(q)

	assert.Equal(t, vc.Len(), 0)
	assert.Equal(t, vc.Query().Equal(q), true)

	// The deleted set is per-query state, cleared with it
	added := vc.Append([]*catalog.Record{rec("b", 0)})
	assert.Equal(t, added, 1)

	// Resetting with the same query is an idempotent clear
	vc.Reset(q)
	assert.Equal(t, vc.Len(), 0)
	assert.Equal(t, vc.Query().Equal(q), true)
}

func TestApplyMutatesInPlace(t *testing.T) {
	vc := NewViewCache()
	vc.Append([]*catalog.Record{rec("a", 3)})

	ok := vc.Apply("a", func(r *catalog.Record) { r.Likes = 4 })
	assert.Equal(t, ok, true)
	assert.Equal(t, vc.Get("a").Likes, 4)

	assert.Equal(t, vc.Apply("missing", func(r *catalog.Record) {}), false)
}

func TestRemoveShiftsIndices(t *testing.T) {
	vc := NewViewCache()
	vc.Append([]*catalog.Record{rec("a", 0), rec("b", 0), rec("c", 0)})

	assert.Equal(t, vc.Remove("b"), true)
	records := vc.Records()
	assert.Equal(t, len(records), 2)
	assert.Equal(t, records[0].ID, "a")
	assert.Equal(t, records[1].ID, "c")

	// Index map still lines up after the shift
	assert.Equal(t, vc.Get("c").ID, "c")
	assert.Equal(t, vc.Remove("b"), false)
}

func TestRemovedRecordCannotBeReinserted(t *testing.T) {
	vc := NewViewCache()
	vc.Append([]*catalog.Record{rec("a", 0), rec("b", 0)})
	vc.Remove("a")

	// A late-arriving page that still contains "a" must not bring it back
	added := vc.Append([]*catalog.Record{rec("a", 0), rec("c", 0)})
	assert.Equal(t, added, 1)
	assert.Equal(t, vc.Get("a") == nil, true)

	vc.ReplaceAll([]*catalog.Record{rec("a", 0), rec("d", 0)})
	assert.Equal(t, vc.Get("a") == nil, true)
	assert.Equal(t, vc.Len(), 1)
}

func TestSessionsAreIndependent(t *testing.T) {
	// Two sessions over the same backend: mutating one cache never
	// touches the other
	a := NewViewCache()
	b := NewViewCache()

	a.Append([]*catalog.Record{rec("x", 1)})
	b.Append([]*catalog.Record{rec("x", 1)})

	a.Apply("x", func(r *catalog.Record) { r.Likes = 10 })
	assert.Equal(t, a.Get("x").Likes, 10)
	assert.Equal(t, b.Get("x").Likes, 1)

	a.Remove("x")
	assert.Equal(t, b.Get("x").ID, "x")
}
