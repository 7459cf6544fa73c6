package model

import (
	"fmt"
	"strings"
	"time"

	_ "time/tzdata" // reference timezone must resolve on minimal images
)

// ReferenceTimezone is the timezone used to resolve and default dates.
const ReferenceTimezone = "America/Argentina/Buenos_Aires"

// ReferenceLocation is the loaded ReferenceTimezone.
var ReferenceLocation = mustLoadLocation(ReferenceTimezone)

// CurrentTime returns the wall clock in the reference timezone.
func CurrentTime() time.Time {
	return time.Now().In(ReferenceLocation)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// ParseDate parses a date produced by the model. An empty value defaults to
// now. Values without a zone are interpreted in the reference timezone.
func ParseDate(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now.In(ReferenceLocation), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, ReferenceLocation); err == nil {
			return t.In(ReferenceLocation), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("load timezone %s: %v", name, err))
	}
	return loc
}

const sheetDateLayout = "02/01/2006 15:04:05"

const displayDateLayout = "02/01/2006"
