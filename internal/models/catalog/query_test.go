package catalog

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

var phoenix = GeoPoint{Latitude: 33.71, Longitude: -112.29}

func fixtureRecord(id string, lat, lon float64, name string, likes int, createdAt time.Time) *Record {
	return &Record{
		ID:        id,
		Name:      name,
		Location:  GeoPoint{Latitude: lat, Longitude: lon},
		Likes:     likes,
		CreatedAt: createdAt,
	}
}

func TestNewQueryClampsAndTrims(t *testing.T) {
	q := NewQuery("  cliff jumping  ", phoenix, -50, SortClosest)
	assert.Equal(t, q.Text, "cliff jumping")
	assert.Equal(t, q.RadiusMeters, 0.0)

	// Unknown sort falls back to newest
	q = NewQuery("", phoenix, 100, SortMode("bogus"))
	assert.Equal(t, q.Sort, SortNewest)
}

func TestQueryEqualityGovernsFingerprint(t *testing.T) {
	a := NewQuery("cave", phoenix, 5000, SortLikes)
	b := NewQuery("cave", phoenix, 5000, SortLikes)
	c := NewQuery("cave", phoenix, 5001, SortLikes)

	assert.Equal(t, a.Equal(b), true)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Equal(t, a.Equal(c), false)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestMatchesRadiusAndText(t *testing.T) {
	now := time.Now()
	near := fixtureRecord("a", 33.711, -112.291, "Hidden Falls", 0, now)
	far := fixtureRecord("b", 34.5, -111.0, "Hidden Canyon", 0, now)

	unbounded := NewQuery("", phoenix, 0, SortClosest)
	assert.Equal(t, unbounded.Matches(near), true)
	assert.Equal(t, unbounded.Matches(far), true)

	bounded := NewQuery("", phoenix, 1000, SortClosest)
	assert.Equal(t, bounded.Matches(near), true)
	assert.Equal(t, bounded.Matches(far), false)

	// Containment is case-sensitive
	text := NewQuery("Hidden", phoenix, 0, SortClosest)
	assert.Equal(t, text.Matches(near), true)
	lower := NewQuery("hidden", phoenix, 0, SortClosest)
	assert.Equal(t, lower.Matches(near), false)
}

func TestSortClosest(t *testing.T) {
	now := time.Now()
	far := fixtureRecord("far", 34.0, -112.0, "Far", 0, now)
	close := fixtureRecord("close", 33.712, -112.291, "Close", 0, now)
	mid := fixtureRecord("mid", 33.8, -112.3, "Mid", 0, now)

	q := NewQuery("", phoenix, 0, SortClosest)
	records := []*Record{far, close, mid}
	q.SortRecords(records)

	assert.Equal(t, records[0].ID, "close")
	assert.Equal(t, records[1].ID, "mid")
	assert.Equal(t, records[2].ID, "far")
}

func TestSortLikesWithDistanceTieBreak(t *testing.T) {
	now := time.Now()
	popular := fixtureRecord("popular", 34.0, -112.0, "A", 10, now)
	nearTie := fixtureRecord("near-tie", 33.712, -112.291, "B", 5, now)
	farTie := fixtureRecord("far-tie", 34.5, -111.0, "C", 5, now)

	q := NewQuery("", phoenix, 0, SortLikes)
	records := []*Record{farTie, popular, nearTie}
	q.SortRecords(records)

	assert.Equal(t, records[0].ID, "popular")
	assert.Equal(t, records[1].ID, "near-tie")
	assert.Equal(t, records[2].ID, "far-tie")
}

func TestSortNameTieBreaksByDistanceThenCreation(t *testing.T) {
	older := time.Now().Add(-time.Hour)
	newer := time.Now()

	// Two records named Alpha at different distances: distance decides
	alphaFar := fixtureRecord("alpha-far", 34.5, -111.0, "Alpha", 0, newer)
	alphaNear := fixtureRecord("alpha-near", 33.712, -112.291, "Alpha", 0, older)
	beta := fixtureRecord("beta", 33.712, -112.291, "Beta", 0, newer)

	q := NewQuery("", phoenix, 0, SortName)
	records := []*Record{beta, alphaFar, alphaNear}
	q.SortRecords(records)

	assert.Equal(t, records[0].ID, "alpha-near")
	assert.Equal(t, records[1].ID, "alpha-far")
	assert.Equal(t, records[2].ID, "beta")

	// Equal name and distance: creation time descending decides
	alphaOld := fixtureRecord("alpha-old", 33.712, -112.291, "Alpha", 0, older)
	alphaNew := fixtureRecord("alpha-new", 33.712, -112.291, "Alpha", 0, newer)
	records = []*Record{alphaOld, alphaNew}
	q.SortRecords(records)
	assert.Equal(t, records[0].ID, "alpha-new")
	assert.Equal(t, records[1].ID, "alpha-old")
}

func TestSortNewest(t *testing.T) {
	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	a := fixtureRecord("a", 34.0, -112.0, "A", 0, older)
	b := fixtureRecord("b", 34.0, -112.0, "B", 0, newer)

	q := NewQuery("", phoenix, 0, SortNewest)
	records := []*Record{a, b}
	q.SortRecords(records)
	assert.Equal(t, records[0].ID, "b")
}

func TestSortDeterminism(t *testing.T) {
	now := time.Now()
	var first, second []*Record
	for i := 0; i < 20; i++ {
		first = append(first, fixtureRecord(fmt.Sprintf("r%d", i), 33.7+float64(i%5)*0.01, -112.29, "Same Name", i%3, now))
		second = append(second, fixtureRecord(fmt.Sprintf("r%d", i), 33.7+float64(i%5)*0.01, -112.29, "Same Name", i%3, now))
	}

	for _, mode := range []SortMode{SortClosest, SortLikes, SortName, SortNewest} {
		q := NewQuery("", phoenix, 0, mode)
		q.SortRecords(first)
		q.SortRecords(second)
		for i := range first {
			assert.Equal(t, first[i].ID, second[i].ID)
		}
	}
}

func TestDistanceMeters(t *testing.T) {
	// Phoenix to itself
	assert.Equal(t, phoenix.DistanceMeters(phoenix), 0.0)

	// One degree of latitude is roughly 111 km
	north := GeoPoint{Latitude: phoenix.Latitude + 1, Longitude: phoenix.Longitude}
	d := phoenix.DistanceMeters(north)
	if d < 110000 || d > 112000 {
		t.Fatalf("expected ~111km, got %f", d)
	}

	// Symmetry
	assert.Equal(t, phoenix.DistanceMeters(north), north.DistanceMeters(phoenix))
}
