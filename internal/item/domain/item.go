package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no item has the requested id.
var ErrNotFound = errors.New("item not found")

// Placeholder values for derived fields that cannot be resolved, and for rows created by feed import.
const (
	UnknownValue     = "Unknown"
	FeedImportSource = "BIP Import"
)

// DateLayout is the calendar-date wire format for date_found.
const DateLayout = "2006-01-02"

// FoundItem is a single found-item report. It is created once and never updated.
type FoundItem struct {
	ID               string
	Title            string
	Category         string // empty when not supplied
	DominantColor    string
	Description      *string
	DistinctiveMarks *string
	LocationFound    string
	DateFound        time.Time // calendar date, time-of-day is zero
	Voivodeship      string
	ReportingEntity  string
}

// Filter is a conjunction of optional exact-match and date-range constraints for listing items.
type Filter struct {
	Voivodeship   string
	DominantColor string
	DateFrom      *time.Time // inclusive
	DateTo        *time.Time // inclusive
	Limit         int
	Offset        int
}

// Fields returns the item as ordered key/value pairs, in the column order used by every
// export format. Absent optional values are rendered as empty strings.
func (i *FoundItem) Fields() [][2]string {
	return [][2]string{
		{"id", i.ID},
		{"title", i.Title},
		{"category", i.Category},
		{"dominant_color", i.DominantColor},
		{"description", deref(i.Description)},
		{"distinctive_marks", deref(i.DistinctiveMarks)},
		{"location_found", i.LocationFound},
		{"date_found", i.DateFound.Format(DateLayout)},
		{"voivodeship", i.Voivodeship},
		{"reporting_entity", i.ReportingEntity},
	}
}

// Today returns now truncated to a UTC calendar date.
func Today(now time.Time) time.Time {
	return DateOf(now)
}

// DateOf drops the time-of-day of t, keeping its calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
