package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// DayLayout is the layout of each side of a canonical range.
	DayLayout = "2006-01-02"
	// Separator joins the two sides of a canonical range.
	Separator = " to "
)

var canonicalPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\s+to\s+\d{4}-\d{2}-\d{2}$`)

// Range is a validated calendar range serialized as "YYYY-MM-DD to YYYY-MM-DD".
// Start and End are midnight UTC and End is never before Start.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange truncates both sides to calendar days and rejects inverted ranges.
func NewRange(start, end time.Time) (Range, error) {
	r := Range{Start: dayOf(start), End: dayOf(end)}
	if r.End.Before(r.Start) {
		return Range{}, newFormatError(r.format(), "end date is before start date")
	}
	return r, nil
}

// Parse accepts only the canonical serialization.
func Parse(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if !canonicalPattern.MatchString(s) {
		return Range{}, newFormatError(s, "expected YYYY-MM-DD to YYYY-MM-DD")
	}
	parts := strings.Fields(s)
	start, err := time.Parse(DayLayout, parts[0])
	if err != nil {
		return Range{}, newFormatError(s, "start is not a calendar date")
	}
	end, err := time.Parse(DayLayout, parts[2])
	if err != nil {
		return Range{}, newFormatError(s, "end is not a calendar date")
	}
	return NewRange(start, end)
}

func (r Range) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

func (r Range) String() string {
	if r.IsZero() {
		return ""
	}
	return r.format()
}

func (r Range) format() string {
	return r.Start.Format(DayLayout) + Separator + r.End.Format(DayLayout)
}

// Days enumerates every calendar day from Start to End inclusive.
func (r Range) Days() []time.Time {
	if r.IsZero() {
		return nil
	}
	days := make([]time.Time, 0, r.Len())
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Len is the number of calendar days in the range, both ends included.
func (r Range) Len() int {
	if r.IsZero() {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func (r Range) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Range) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = Range{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return fmt.Errorf("decode date range: %w", err)
	}
	*r = parsed
	return nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
