package util

import "time"

// DateLayout is the canonical date format used across the pack and API.
const DateLayout = "2006-01-02"

// csvDateLayouts are the formats accepted in wide price CSV exports.
// Vendors are inconsistent: ISO dates, US short dates, and full timestamps
// all show up in the same files.
var csvDateLayouts = []string{
	"2006-01-02",
	"1/2/06",
	"1/2/2006",
	"2006-01-02 15:04:05",
}

// ParseDate parses a CSV date cell. Returns (t, true) if any known layout worked.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders t using the canonical date layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
