package catalog

import (
	"strings"
	"time"
)

// Report reasons accepted by the moderation counters.
const (
	ReportOffensive     = "offensive"
	ReportSpam          = "spam"
	ReportInappropriate = "inappropriate"
	ReportDangerous     = "dangerous"
)

// Record is the canonical remote representation of one published spot.
type Record struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	FoundedBy         string    `json:"foundedBy"`
	Description       string    `json:"description"`
	DateFounded       string    `json:"dateFounded"`
	Location          GeoPoint  `json:"location"`
	SpotType          string    `json:"spotType"`
	ImageRefs         []string  `json:"imageRefs"`
	Likes             int       `json:"likes"`
	Offensive         int       `json:"offensive"`
	Spam              int       `json:"spam"`
	Inappropriate     int       `json:"inappropriate"`
	Dangerous         int       `json:"dangerous"`
	HasMultipleImages bool      `json:"hasMultipleImages"`
	PlaceName         string    `json:"placeName"`
	OwnerUID          string    `json:"ownerUid"`
	CreatedAt         time.Time `json:"createdAt"`
}

// SearchText returns the full text a substring filter is matched against.
func (r *Record) SearchText() string {
	return strings.Join([]string{r.Name, r.Description, r.FoundedBy, r.SpotType, r.PlaceName}, " ")
}

// ReportCount returns the named moderation counter. The second return is
// false when the reason does not name a counter this record carries.
func (r *Record) ReportCount(reason string) (int, bool) {
	switch reason {
	case ReportOffensive:
		return r.Offensive, true
	case ReportSpam:
		return r.Spam, true
	case ReportInappropriate:
		return r.Inappropriate, true
	case ReportDangerous:
		return r.Dangerous, true
	}
	return 0, false
}

// BumpReport increments the named moderation counter in place. It returns
// false, leaving the record untouched, when the reason is unknown.
func (r *Record) BumpReport(reason string) bool {
	switch reason {
	case ReportOffensive:
		r.Offensive++
	case ReportSpam:
		r.Spam++
	case ReportInappropriate:
		r.Inappropriate++
	case ReportDangerous:
		r.Dangerous++
	default:
		return false
	}
	return true
}
