package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Column limits of the found_items table.
const (
	MaxTitleLen           = 150
	MaxCategoryLen        = 50
	MaxColorLen           = 30
	MaxVoivodeshipLen     = 50
	MaxReportingEntityLen = 100
)

// NewItem is the validated input for creating an item, before derived fields are attached.
type NewItem struct {
	Title            string
	Category         string
	DominantColor    string
	LocationFound    string
	DateFound        *time.Time
	Description      *string
	DistinctiveMarks *string
}

// Normalize trims text fields, drops blank optional text, and fills DateFound with today when missing.
func (n *NewItem) Normalize(now time.Time) {
	n.Title = strings.TrimSpace(n.Title)
	n.Category = strings.TrimSpace(n.Category)
	n.DominantColor = strings.TrimSpace(n.DominantColor)
	n.LocationFound = strings.TrimSpace(n.LocationFound)
	n.Description = trimOptional(n.Description)
	n.DistinctiveMarks = trimOptional(n.DistinctiveMarks)
	if n.DateFound == nil {
		today := Today(now)
		n.DateFound = &today
	} else {
		d := DateOf(*n.DateFound)
		n.DateFound = &d
	}
}

// Validate checks required fields, column limits, and that DateFound is not after today.
// Call Normalize first.
func (n *NewItem) Validate(now time.Time) error {
	var verr ValidationError
	requireText(&verr, "title", n.Title, MaxTitleLen)
	requireText(&verr, "dominant_color", n.DominantColor, MaxColorLen)
	if n.LocationFound == "" {
		verr.Add("location_found", "is required")
	}
	if utf8.RuneCountInString(n.Category) > MaxCategoryLen {
		verr.Add("category", "is too long")
	}
	if n.DateFound != nil && n.DateFound.After(Today(now)) {
		verr.Add("date_found", "cannot be in the future")
	}
	return verr.Err()
}

func requireText(verr *ValidationError, field, value string, max int) {
	switch {
	case value == "":
		verr.Add(field, "is required")
	case utf8.RuneCountInString(value) > max:
		verr.Add(field, "is too long")
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
