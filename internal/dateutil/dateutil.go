// Package dateutil converts token date formats to Go layouts and renders
// the year-month periods used by experience and education entries.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidDateFormat indicates an invalid date format string.
	ErrInvalidDateFormat = errors.New("invalid date format")
	// ErrInvalidYearMonth indicates a date that is not YYYY-MM.
	ErrInvalidYearMonth = errors.New("invalid year-month")
)

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

const (
	// DefaultPeriodFormat renders entry dates, e.g. "Jun 2015".
	DefaultPeriodFormat = "MMM YYYY"
	// DefaultFooterFormat is used for "auto" footer dates.
	DefaultFooterFormat = "YYYY-MM-DD"
	// DefaultPresentLabel replaces a missing end date.
	DefaultPresentLabel = "Present"
)

// Longest tokens first for greedy matching.
var dateTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Presets are named shortcuts usable wherever a format is accepted.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"month":    "MMM YYYY",
	"numeric":  "MM/YYYY",
}

// Layout converts a token format (YYYY, YY, MMMM, MMM, MM, M, DD, D) to a Go
// time layout. Text inside brackets is literal: "[Since] YYYY". Presets are
// resolved case-insensitively.
func Layout(format string) (string, error) {
	if preset, ok := Presets[strings.ToLower(format)]; ok {
		format = preset
	}
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	b.Grow(len(format) + 8)

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			b.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				b.WriteString(t.layout)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(format[i])
			i++
		}
	}

	return b.String(), nil
}

// ResolveDate expands "auto" and "auto:FORMAT" to the date of t. Any other
// value is returned unchanged.
func ResolveDate(value string, t time.Time) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, "auto") {
		return value, nil
	}

	format := DefaultFooterFormat
	switch {
	case lower == "auto":
	case strings.HasPrefix(lower, "auto:"):
		format = value[len("auto:"):]
		if format == "" {
			return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
		}
	default:
		return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
	}

	layout, err := Layout(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

// YearMonth is a calendar month. The zero value means "no date".
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses "YYYY-MM". An empty string yields the zero value.
func ParseYearMonth(s string) (YearMonth, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return YearMonth{}, nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q, want YYYY-MM", ErrInvalidYearMonth, s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// IsZero reports whether ym is unset.
func (ym YearMonth) IsZero() bool { return ym.Year == 0 && ym.Month == 0 }

// Before reports whether ym is strictly earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// Time returns the first day of the month in UTC.
func (ym YearMonth) Time() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String returns "YYYY-MM", or "" for the zero value.
func (ym YearMonth) String() string {
	if ym.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Period renders start and end months with a Go layout from Layout. A zero
// end renders as present. A zero start renders only the end.
type Period struct {
	Layout    string
	Present   string
	Separator string
}

// NewPeriod builds a Period from a token format.
func NewPeriod(format, present string) (Period, error) {
	if format == "" {
		format = DefaultPeriodFormat
	}
	layout, err := Layout(format)
	if err != nil {
		return Period{}, err
	}
	if present == "" {
		present = DefaultPresentLabel
	}
	return Period{Layout: layout, Present: present, Separator: " – "}, nil
}

// Format renders the period between start and end.
func (p Period) Format(start, end YearMonth) string {
	endText := p.Present
	if !end.IsZero() {
		endText = end.Time().Format(p.Layout)
	}
	if start.IsZero() {
		return endText
	}
	return start.Time().Format(p.Layout) + p.Separator + endText
}
