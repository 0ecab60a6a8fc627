package util

import "time"

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseISOTime parses the date formats the providers actually send.
// Returns nil when nothing fits.
func ParseISOTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
