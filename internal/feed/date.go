package feed

import (
	"strings"
	"time"

	"central-lost-found/backend/internal/item/domain"
)

// dateLayouts are tried in order after a trailing "Z" is stripped.
var dateLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04",
	"2006-01-02T15:04-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC822Z,
	time.RFC822,
	"2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04 -0700",
	"02.01.2006",
}

// NormalizeDate parses a feed date to a calendar date. Unparseable or empty input, and dates after
// today, yield today. It never fails.
func NormalizeDate(raw string, now time.Time) time.Time {
	today := domain.Today(now)
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "Z")
	if s == "" {
		return today
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		d := domain.DateOf(t)
		if d.After(today) {
			return today
		}
		return d
	}
	return today
}
