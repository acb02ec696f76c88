package store

import (
	"fmt"

	catalog "io.winapps.myspot/internal/models/catalog"
)

// distanceExpr computes the great-circle distance in meters between the
// query center ($1 latitude, $2 longitude) and a spot row, using the
// spherical law of cosines. The argument to acos is clamped against
// rounding drift on identical points.
const distanceExpr = `(6371000 * acos(least(1.0, greatest(-1.0,
	cos(radians($1)) * cos(radians(latitude)) * cos(radians(longitude) - radians($2)) +
	sin(radians($1)) * sin(radians(latitude))))))`

// searchTextExpr mirrors Record.SearchText: the concatenation the
// substring filter is matched against, in the same field order.
const searchTextExpr = `(name || ' ' || COALESCE(description, '') || ' ' || COALESCE(founded_by, '') || ' ' || COALESCE(spot_type, '') || ' ' || COALESCE(place_name, ''))`

// buildSearchSQL translates a query into a WHERE/ORDER BY pair plus the
// positional args. $1 and $2 are always the query center so the
// distance expression can appear in any sort chain; the radius bound
// and text filter are appended only when present. The returned
// argCounter is the next free placeholder for LIMIT/OFFSET.
func buildSearchSQL(q catalog.Query) (whereClause, orderBy string, args []any, argCounter int) {
	args = []any{q.Center.Latitude, q.Center.Longitude}
	argCounter = 3

	conditions := ""
	if q.RadiusMeters > 0 {
		conditions = fmt.Sprintf("%s <= $%d", distanceExpr, argCounter)
		args = append(args, q.RadiusMeters)
		argCounter++
	}
	if q.Text != "" {
		// LIKE, not ILIKE: the containment test is case-sensitive.
		cond := fmt.Sprintf("%s LIKE '%%' || $%d || '%%'", searchTextExpr, argCounter)
		args = append(args, q.Text)
		argCounter++
		if conditions != "" {
			conditions += " AND " + cond
		} else {
			conditions = cond
		}
	}
	if conditions != "" {
		whereClause = "WHERE " + conditions
	}

	// Every chain ends in created_at DESC so ties never reorder between
	// executions.
	switch q.Sort {
	case catalog.SortClosest:
		orderBy = fmt.Sprintf("ORDER BY %s ASC, created_at DESC", distanceExpr)
	case catalog.SortLikes:
		orderBy = fmt.Sprintf("ORDER BY likes DESC, %s ASC, created_at DESC", distanceExpr)
	case catalog.SortName:
		orderBy = fmt.Sprintf("ORDER BY name ASC, %s ASC, created_at DESC", distanceExpr)
	default:
		orderBy = fmt.Sprintf("ORDER BY created_at DESC, %s ASC", distanceExpr)
	}

	return whereClause, orderBy, args, argCounter
}
