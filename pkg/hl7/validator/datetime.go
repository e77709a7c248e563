package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// YYYY[MM[DD[HH[MM[SS[.S[S[S[S]]]]]]]]][+/-ZZZZ]
	dateTimePattern = regexp.MustCompile(`^(\d{4})(\d{2})?(\d{2})?(\d{2})?(\d{2})?(\d{2})?(\.\d{1,4})?([+-]\d{4})?$`)

	// YYYY[MM[DD]]
	datePattern = regexp.MustCompile(`^(\d{4})(\d{2})?(\d{2})?$`)

	// HH[MM[SS[.S[S[S[S]]]]]][+/-ZZZZ]
	timePattern = regexp.MustCompile(`^(\d{2})(\d{2})?(\d{2})?(\.\d{1,4})?([+-]\d{4})?$`)

	numberPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)
)

// parseDateTime parses an HL7 DTM value. Missing trailing parts default to
// their lowest value; a value without an offset is taken as UTC.
func parseDateTime(s string) (time.Time, error) {
	m := dateTimePattern.FindStringSubmatch(s)
	if m == nil || (m[7] != "" && m[6] == "") {
		return time.Time{}, fmt.Errorf("%q is not a date/time", s)
	}
	loc, err := parseZone(m[8])
	if err != nil {
		return time.Time{}, err
	}
	return buildTime(s, part(m[1], 0), part(m[2], 1), part(m[3], 1),
		part(m[4], 0), part(m[5], 0), part(m[6], 0), fraction(m[7]), loc)
}

// parseDate parses an HL7 DT value.
func parseDate(s string) (time.Time, error) {
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("%q is not a date", s)
	}
	return buildTime(s, part(m[1], 0), part(m[2], 1), part(m[3], 1), 0, 0, 0, 0, time.UTC)
}

// parseTime validates an HL7 TM value and returns it on 1 January of year 0.
func parseTime(s string) (time.Time, error) {
	m := timePattern.FindStringSubmatch(s)
	if m == nil || (m[4] != "" && m[3] == "") {
		return time.Time{}, fmt.Errorf("%q is not a time", s)
	}
	loc, err := parseZone(m[5])
	if err != nil {
		return time.Time{}, err
	}
	return buildTime(s, 0, 1, 1, part(m[1], 0), part(m[2], 0), part(m[3], 0), fraction(m[4]), loc)
}

func buildTime(s string, year, month, day, hour, minute, sec, nsec int, loc *time.Location) (time.Time, error) {
	if month < 1 || month > 12 || hour > 23 || minute > 59 || sec > 59 {
		return time.Time{}, fmt.Errorf("%q is out of range", s)
	}
	t := time.Date(year, time.Month(month), day, hour, minute, sec, nsec, loc)
	if t.Day() != day || day < 1 {
		return time.Time{}, fmt.Errorf("%q has no day %d in month %d", s, day, month)
	}
	return t, nil
}

// parseZone parses a +HHMM or -HHMM offset. An empty offset is UTC.
func parseZone(z string) (*time.Location, error) {
	if z == "" {
		return time.UTC, nil
	}
	hh, mm := part(z[1:3], 0), part(z[3:5], 0)
	if hh > 14 || mm > 59 {
		return nil, fmt.Errorf("invalid time zone offset %q", z)
	}
	offset := hh*3600 + mm*60
	if z[0] == '-' {
		offset = -offset
	}
	return time.FixedZone(z, offset), nil
}

func part(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// fraction converts ".S[S[S[S]]]" to nanoseconds.
func fraction(s string) int {
	if s == "" {
		return 0
	}
	digits := strings.TrimPrefix(s, ".")
	digits += strings.Repeat("0", 9-len(digits))
	n, _ := strconv.Atoi(digits)
	return n
}
