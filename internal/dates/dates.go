// Package dates normalizes the source-specific date expressions found in raw
// collector output into absolute timestamps. Every function is total:
// malformed input degrades to a substitute value instead of returning an
// error, and the Fallback flag records that the substitute was used.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layout is the naive ISO-8601 layout used for normalized timestamps.
const Layout = "2006-01-02T15:04:05"

// Normalized carries a normalized timestamp plus a marker telling whether the
// value was actually parsed or substituted by the degrade policy. Callers that
// only need the timestamp can ignore Fallback.
type Normalized struct {
	Value    string
	Fallback bool
}

var (
	leadingNumber  = regexp.MustCompile(`(\d+)`)
	calendarExpr   = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日`)
	monthClockExpr = regexp.MustCompile(`(\d{1,2})月(\d{1,2})日\s*(\d{1,2}):(\d{1,2})`)
)

// observedLayouts covers the timestamp shapes collectors emit for scraped_at.
var observedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	Layout,
}

// FromRelative converts a relative expression such as "42 min ago" or
// "3 hours ago" into an absolute timestamp by subtracting from the
// collector's observed time. Text matching neither unit, or an unparsable
// observed time, returns the observed value unchanged.
func FromRelative(raw, observed string) Normalized {
	observedAt, layout, err := parseObserved(observed)
	if err != nil {
		return Normalized{Value: observed, Fallback: true}
	}

	match := leadingNumber.FindString(raw)
	if match == "" {
		return Normalized{Value: observed, Fallback: true}
	}
	magnitude, err := strconv.Atoi(match)
	if err != nil {
		return Normalized{Value: observed, Fallback: true}
	}

	switch {
	case strings.Contains(raw, "min"):
		return Normalized{Value: observedAt.Add(-time.Duration(magnitude) * time.Minute).Format(layout)}
	case strings.Contains(raw, "hour"):
		return Normalized{Value: observedAt.Add(-time.Duration(magnitude) * time.Hour).Format(layout)}
	default:
		return Normalized{Value: observed, Fallback: true}
	}
}

// FromCalendar converts a localized literal date such as "2025年12月22日" into
// an absolute timestamp at midnight. Unmatched input degrades to now.
func FromCalendar(raw string, now time.Time) Normalized {
	match := calendarExpr.FindStringSubmatch(raw)
	if match == nil {
		return Normalized{Value: now.Format(Layout), Fallback: true}
	}

	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	day, _ := strconv.Atoi(match[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return Normalized{Value: now.Format(Layout), Fallback: true}
	}

	return Normalized{Value: fmt.Sprintf("%04d-%02d-%02dT00:00:00", year, month, day)}
}

// FromMonthDayClock converts an implicit-year date-time such as
// "12月21日 17:11" into an absolute timestamp assuming the current year.
// When the current month is January and the parsed month is December the
// previous year is assumed, so posts observed shortly after New Year keep
// their real year. Unmatched input degrades to now.
func FromMonthDayClock(raw string, now time.Time) Normalized {
	match := monthClockExpr.FindStringSubmatch(raw)
	if match == nil {
		return Normalized{Value: now.Format(Layout), Fallback: true}
	}

	month, _ := strconv.Atoi(match[1])
	day, _ := strconv.Atoi(match[2])
	hour, _ := strconv.Atoi(match[3])
	minute, _ := strconv.Atoi(match[4])
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 {
		return Normalized{Value: now.Format(Layout), Fallback: true}
	}

	year := now.Year()
	if now.Month() == time.January && month == 12 {
		year--
	}

	return Normalized{Value: fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:00", year, month, day, hour, minute)}
}

// FromAbsolute passes a collector-supplied absolute timestamp through
// unchanged, substituting now when the source omitted it.
func FromAbsolute(raw string, now time.Time) Normalized {
	if strings.TrimSpace(raw) == "" {
		return Normalized{Value: now.Format(Layout), Fallback: true}
	}
	return Normalized{Value: raw}
}

func parseObserved(value string) (time.Time, string, error) {
	for _, layout := range observedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, layout, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unrecognized timestamp %q", value)
}
