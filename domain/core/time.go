package core

import (
	"time"
)

// timestampLayouts are the accepted wire formats for transaction timestamps,
// tried in order.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a raw timestamp string in one of the accepted layouts.
// Returns a data error naming the offending value when nothing matches.
func ParseTimestamp(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, NewDateError(value, lastErr)
}
