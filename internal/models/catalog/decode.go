package catalog

import (
	"fmt"
	"time"
)

// DecodeError reports a raw record that could not be turned into a
// Record. Field-level absences that have a documented default do not
// produce a DecodeError; only a missing identifier does.
type DecodeError struct {
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode record: field %q %s", e.Field, e.Reason)
}

// Decode converts one raw wire record into a Record, applying the
// default-substitution rules in a single place:
//
//   - id: required, non-empty; no default.
//   - name: defaults to "Unknown Spot".
//   - all other strings: default to "".
//   - likes and moderation counters: default to 0, negatives clamped to 0.
//   - location: defaults to (0, 0).
//   - createdAt: RFC 3339; defaults to the zero time when absent or
//     malformed, which sorts last under newest-first.
func Decode(raw map[string]any) (*Record, error) {
	id := stringField(raw, "id", "")
	if id == "" {
		return nil, &DecodeError{Field: "id", Reason: "is missing or empty"}
	}

	r := &Record{
		ID:                id,
		Name:              stringField(raw, "name", "Unknown Spot"),
		FoundedBy:         stringField(raw, "foundedBy", ""),
		Description:       stringField(raw, "description", ""),
		DateFounded:       stringField(raw, "dateFounded", ""),
		SpotType:          stringField(raw, "spotType", ""),
		PlaceName:         stringField(raw, "placeName", ""),
		OwnerUID:          stringField(raw, "ownerUid", ""),
		Likes:             counterField(raw, "likes"),
		Offensive:         counterField(raw, "offensive"),
		Spam:              counterField(raw, "spam"),
		Inappropriate:     counterField(raw, "inappropriate"),
		Dangerous:         counterField(raw, "dangerous"),
		HasMultipleImages: boolField(raw, "hasMultipleImages"),
	}

	if loc, ok := raw["location"].(map[string]any); ok {
		r.Location = GeoPoint{
			Latitude:  floatField(loc, "latitude"),
			Longitude: floatField(loc, "longitude"),
		}
	}

	if refs, ok := raw["imageRefs"].([]any); ok {
		for _, ref := range refs {
			if s, ok := ref.(string); ok && s != "" {
				r.ImageRefs = append(r.ImageRefs, s)
			}
		}
	}

	if ts := stringField(raw, "createdAt", ""); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			r.CreatedAt = t
		}
	}

	return r, nil
}

func stringField(raw map[string]any, key, fallback string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return fallback
}

func counterField(raw map[string]any, key string) int {
	n := int(floatField(raw, key))
	if n < 0 {
		return 0
	}
	return n
}

func floatField(raw map[string]any, key string) float64 {
	switch v := raw[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func boolField(raw map[string]any, key string) bool {
	b, _ := raw[key].(bool)
	return b
}
