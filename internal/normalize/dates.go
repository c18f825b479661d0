package normalize

import (
	"strings"
	"time"
)

// dateLayouts is the ordered parse list; the first layout that matches wins.
// Day/month ambiguity is resolved by this fixed order (MM/DD/YYYY), not by
// locale detection.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2 2006",
	"January 2 2006",
}

// Date tries each supported layout in order and returns the calendar date at
// midnight UTC. ok is false for blank input or a string matching no layout;
// callers drop such rows.
func Date(raw string) (time.Time, bool) {
	text := strings.TrimSpace(raw)
	if isBlank(text) {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
