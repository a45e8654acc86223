// Package quote parses the loosely-typed records returned by financial-data
// web services into typed values.
//
// The upstream quote services answer with flat maps of raw field name to raw
// string value ("16.02", "1.2M", "12.3%", "5/27/2011", "4:00pm", ...). This
// package holds the coercion grammar for those strings, the registry that
// binds every known raw field name to its coercion kind, and a projection
// builder that extracts an arbitrary caller-chosen subset of fields from a
// raw record into a typed output record.
//
// All coercion is fail-soft: a malformed or missing raw value coerces to nil,
// never to an error. Transport-level failures are the caller's problem and
// are expected to be handled before a record reaches this package.
package quote

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date is a civil calendar date with no time-of-day and no time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// In returns the instant at midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Compare orders two dates chronologically, returning -1, 0, or +1.
func (d Date) Compare(other Date) int {
	if d.Year != other.Year {
		return cmp.Compare(d.Year, other.Year)
	}
	if d.Month != other.Month {
		return cmp.Compare(d.Month, other.Month)
	}
	return cmp.Compare(d.Day, other.Day)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON renders d as "2006-01-02".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// Clock is a civil time-of-day (24-hour) with minute resolution.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// MarshalJSON renders c as "15:04".
func (c Clock) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(c.String())), nil
}

// The coercion grammar. Patterns must match the whole input; anything else
// (scientific notation, thousands separators, stray whitespace) is rejected.
var (
	floatPattern   = regexp.MustCompile(`^([+-]?[0-9]+(?:\.[0-9]+)?)([KMB])?$`)
	percentPattern = regexp.MustCompile(`^([+-]?[0-9]+(?:\.[0-9]+)?)%$`)
	clockPattern   = regexp.MustCompile(`(?i)^([0-9]{1,2}):([0-9]{2})(am|pm)$`)
)

// multipliers maps the magnitude suffixes the quote services append to large
// numbers ("1.2M", "3B"). Built once; never mutated.
var multipliers = map[string]float64{
	"K": 1e3,
	"M": 1e6,
	"B": 1e9,
}

// dateLayouts are the candidate date formats in priority order. The first
// layout that parses the whole input wins.
var dateLayouts = []string{
	"2006-01-02", // historical CSV rows
	"1/2/2006",   // LastTradeDate and friends
}

// ParseInt coerces a signed decimal integer. The whole string must match;
// overflow and any non-digit content yield ok=false.
func ParseInt(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseFloat coerces a decimal number with an optional magnitude suffix from
// {K, M, B}, so "1.2M" yields 1200000. Exponent notation is rejected.
func ParseFloat(s string) (float64, bool) {
	m := floatPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if m[2] != "" {
		v *= multipliers[m[2]]
	}
	return v, true
}

// ParsePercent coerces a percentage such as "12.3%" into its fractional value
// 0.123. The trailing percent sign is mandatory.
func ParsePercent(s string) (float64, bool) {
	m := percentPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v / 100, true
}

// ParseDate coerces a calendar date, trying each candidate layout in order.
func ParseDate(s string) (Date, bool) {
	if s == "" {
		return Date{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), true
		}
	}
	return Date{}, false
}

// ParseClock coerces a 12-hour wall-clock time of the exact shape "h:mmam" or
// "h:mmpm" (case-insensitive), e.g. "9:30am", "4:00pm". Malformed input
// yields ok=false; like every other coercer it stays soft on bad data.
func ParseClock(s string) (Clock, bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return Clock{}, false
	}
	hour, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || min > 59 {
		return Clock{}, false
	}
	if hour == 12 {
		hour = 0
	}
	if strings.EqualFold(m[3], "pm") {
		hour += 12
	}
	return Clock{Hour: hour, Minute: min}, true
}
