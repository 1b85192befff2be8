package events

import (
	"fmt"
	"log"
	"strings"
	"time"
	// CT resolution needs the IANA database even on hosts without one.
	_ "time/tzdata"
)

// WireFormat is the timestamp form Canvas expects, always in UTC.
const WireFormat = "2006-01-02T15:04:05Z"

const naiveFormat = "2006-01-02T15:04:05"

// Fixed-offset definitions for Central Standard/Daylight Time.
var (
	centralStandard = time.FixedZone("CST", -6*60*60)
	centralDaylight = time.FixedZone("CDT", -5*60*60)
)

var chicago *time.Location

func init() {
	var err error
	chicago, err = time.LoadLocation("America/Chicago")
	if err != nil {
		log.Fatalf("cannot load America/Chicago timezone data: %v", err)
	}
}

// DateFormatError reports a date field that could not be normalized.
type DateFormatError struct {
	Field string
	Line  int // 1-based
	Value string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("%s at line %d: %q expected date/time ISO8601 format like 2021-09-20T06:00:00Z or similar e.g. 2021-09-20T11:00:00 CT", e.Field, e.Line, e.Value)
}

// ParseDate normalizes a date field to WireFormat in UTC. The raw value is an
// ISO 8601 date/time carrying one of the zone markers Z, CST (-6), CDT (-5)
// or CT (America/Chicago civil time), optionally separated by a space, or an
// explicit numeric offset. A value with no timezone information is rejected.
// index is the 0-based line number of the field, used only for diagnostics.
func ParseDate(field string, index int, value string) (string, error) {
	t, err := normalizeDate(value)
	if err != nil {
		return "", &DateFormatError{Field: field, Line: index + 1, Value: value}
	}
	return t.UTC().Format(WireFormat), nil
}

func normalizeDate(value string) (time.Time, error) {
	v := strings.TrimSpace(value)

	// Check the three-letter markers before CT so "...CST" is never read as
	// a CT suffix.
	switch {
	case strings.HasSuffix(v, "CST"):
		return parseInZone(strings.TrimSuffix(v, "CST"), centralStandard)
	case strings.HasSuffix(v, "CDT"):
		return parseInZone(strings.TrimSuffix(v, "CDT"), centralDaylight)
	case strings.HasSuffix(v, "CT"):
		return parseInZone(strings.TrimSuffix(v, "CT"), chicago)
	}

	// Zulu suffix or explicit numeric offset.
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}

	// A bare date/time parses fine but carries no zone; timezone is
	// mandatory per event.
	if _, err := time.ParseInLocation(naiveFormat, v, time.UTC); err == nil {
		return time.Time{}, fmt.Errorf("no timezone in %q", value)
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

func parseInZone(v string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(naiveFormat, strings.TrimSpace(v), loc)
}

// ParseStrictUTC is the legacy reduced mode: it accepts only the exact
// WireFormat literal and no named zones. Kept for listing files written
// against the earlier tool.
func ParseStrictUTC(field string, index int, value string) (string, error) {
	if _, err := time.Parse(WireFormat, value); err != nil {
		return "", &DateFormatError{Field: field, Line: index + 1, Value: value}
	}
	return value, nil
}
