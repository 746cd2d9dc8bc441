package common

import (
	"fmt"
	"strings"
	"time"
)

// ISODate is the canonical storage format for birth dates
const ISODate = "2006-01-02"

// Accepted inbound layouts. Go's parser tolerates missing zero-padding on
// the numeric month/day verbs, so "6/8/1955" and "06/08/1955" both match
// the first layout.
var flexibleDateLayouts = []string{
	"1/2/2006",
	"1-2-2006",
	"2006/1/2",
	"2006-1-2",
}

// ParseFlexibleDate normalizes the date formats that show up in member
// spreadsheets to ISO form. Anything that does not resolve to a real
// calendar date is an error.
func ParseFlexibleDate(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("date is empty")
	}

	for _, layout := range flexibleDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(ISODate), nil
		}
	}

	return "", fmt.Errorf("unrecognized date format: %s", raw)
}
