package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTripDays is added to a lone free-text date that has no end.
	DefaultTripDays = 2
	// SingleDayTrip is added to a lone date from a structured source
	// (one-element list, single timestamp, booking start without end).
	SingleDayTrip = 1

	noYear = 0
)

var (
	isoTimestampPattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})(?:T|Z)`)
	separatorPattern    = regexp.MustCompile(`(?i)\s+(?:to|until|through|thru|till|and)\s+|\s*[–—]\s*|\s+-\s+`)
	compactRangePattern = regexp.MustCompile(`^([A-Za-z]+\.?\s+\d{1,2})\s*-\s*((?:[A-Za-z]+\.?\s+)?\d{1,2}(?:,?\s+\d{4})?)$`)
	chainTokenPattern   = regexp.MustCompile(`(?i)\s*\bto\b\s*`)
	digitsPattern       = regexp.MustCompile(`^\d+$`)
	ordinalPattern      = regexp.MustCompile(`(?i)(\d)(st|nd|rd|th)\b`)
	leadingWordPattern  = regexp.MustCompile(`(?i)^(?:from|between|on)\s+`)
	weekdayPattern      = regexp.MustCompile(`(?i)^(?:mon|tue|tues|wed|thu|thur|thurs|fri|sat|sun)[a-z]*\.?,?\s+`)
	dayOnlyPattern      = regexp.MustCompile(`^(\d{1,2})(?:,?\s+(\d{4}))?$`)
)

// Layouts tried in order for a half that carries its own year. The first
// layout that parses wins, so month/day/year beats day/month/year.
var yearLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"2/1/2006",
	"1-2-2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"Jan. 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

var yearlessLayouts = []string{
	"January 2",
	"Jan 2",
	"Jan. 2",
	"2 January",
	"2 Jan",
}

// Normalizer converts heterogeneous date expressions into a canonical Range.
// Now anchors year inference for expressions without a year.
type Normalizer struct {
	Now func() time.Time
}

func NewNormalizer() *Normalizer {
	return &Normalizer{Now: time.Now}
}

var defaultNormalizer = NewNormalizer()

// Normalize uses the process clock. See Normalizer.Normalize.
func Normalize(raw interface{}) (Range, error) {
	return defaultNormalizer.Normalize(raw)
}

// Normalize accepts a two- or one-element list, a map with start/end keys, a
// canonical string, a string with embedded ISO timestamps, or a free-text
// phrase. Every candidate passes the canonical gate before it is returned.
func (n *Normalizer) Normalize(raw interface{}) (Range, error) {
	candidate, err := n.candidate(raw)
	if err != nil {
		return Range{}, err
	}
	return gate(raw, candidate)
}

// FromStart builds the range used when only a start date is known.
func FromStart(start time.Time, days int) Range {
	start = dayOf(start)
	return Range{Start: start, End: start.AddDate(0, 0, days)}
}

// Today is the calendar day year inference is anchored to.
func (n *Normalizer) Today() time.Time {
	return n.now()
}

func (n *Normalizer) now() time.Time {
	if n.Now == nil {
		return dayOf(time.Now())
	}
	return dayOf(n.Now())
}

func (n *Normalizer) candidate(raw interface{}) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", newFormatError(raw, "no dates given")
	case Range:
		if v.IsZero() {
			return "", newFormatError(raw, "empty range")
		}
		return v.format(), nil
	case *Range:
		if v == nil {
			return "", newFormatError(raw, "empty range")
		}
		return n.candidate(*v)
	case string:
		return n.fromString(v)
	case []string:
		items := make([]interface{}, len(v))
		for i, s := range v {
			items[i] = s
		}
		return n.fromList(raw, items)
	case []interface{}:
		return n.fromList(raw, v)
	case map[string]interface{}:
		return n.fromMap(v)
	case time.Time:
		return FromStart(v, SingleDayTrip).format(), nil
	default:
		return "", newFormatError(raw, fmt.Sprintf("unsupported value of type %T", raw))
	}
}

func (n *Normalizer) fromList(raw interface{}, items []interface{}) (string, error) {
	switch {
	case len(items) == 0:
		return "", newFormatError(raw, "empty date list")
	case len(items) == 1:
		start, err := n.listElement(items[0])
		if err != nil {
			// a lone element may carry the whole range
			if text, ok := items[0].(string); ok {
				if r, rangeErr := n.fromString(text); rangeErr == nil {
					return r, nil
				}
			}
			return "", newFormatError(raw, err.Error())
		}
		start = n.withYear(start)
		return FromStart(start.t, SingleDayTrip).format(), nil
	default:
		first, err := n.listElement(items[0])
		if err != nil {
			return "", newFormatError(raw, err.Error())
		}
		second, err := n.listElement(items[1])
		if err != nil {
			return "", newFormatError(raw, err.Error())
		}
		return n.joinHalves(first, second), nil
	}
}

func (n *Normalizer) listElement(item interface{}) (half, error) {
	switch v := item.(type) {
	case string:
		return parseHalf(v)
	case time.Time:
		return half{t: dayOf(v), hasYear: true}, nil
	default:
		return half{}, fmt.Errorf("list element %v is not a date", item)
	}
}

var mapKeyPairs = [][2]string{
	{"start", "end"},
	{"start_date", "end_date"},
	{"startDate", "endDate"},
	{"check_in", "check_out"},
	{"from", "to"},
}

func (n *Normalizer) fromMap(m map[string]interface{}) (string, error) {
	for _, keys := range mapKeyPairs {
		start, ok := m[keys[0]]
		if !ok || start == nil || start == "" {
			continue
		}
		end, ok := m[keys[1]]
		if !ok || end == nil || end == "" {
			return n.fromList(m, []interface{}{start})
		}
		return n.fromList(m, []interface{}{start, end})
	}
	if dates, ok := m["dates"]; ok {
		return n.candidate(dates)
	}
	return "", newFormatError(m, "no start/end keys")
}

func (n *Normalizer) fromString(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", newFormatError(s, "empty string")
	}

	if canonicalPattern.MatchString(s) {
		r, err := Parse(s)
		if err != nil {
			return "", err
		}
		if r.End.Equal(r.Start) {
			r.End = r.Start.AddDate(0, 0, SingleDayTrip)
		}
		return r.format(), nil
	}

	cleaned := leadingWordPattern.ReplaceAllString(s, "")
	if parts := separatorPattern.Split(cleaned, -1); len(parts) == 2 {
		return n.fromHalves(s, parts[0], parts[1])
	}

	// timestamps without a separator, such as "2025-11-20T00:00:00Z/2025-11-22T00:00:00Z"
	if stamps := isoTimestampPattern.FindAllStringSubmatch(s, -1); len(stamps) > 0 {
		return fromTimestamps(s, stamps)
	}
	if m := compactRangePattern.FindStringSubmatch(cleaned); m != nil {
		return n.fromHalves(s, m[1], m[2])
	}

	if chain, ok := fromChain(s); ok {
		return chain, nil
	}

	start, err := parseHalf(cleaned)
	if err != nil {
		return "", newFormatError(s, err.Error())
	}
	start = n.withYear(start)
	return FromStart(start.t, DefaultTripDays).format(), nil
}

func fromTimestamps(raw string, stamps [][]string) (string, error) {
	start, err := time.Parse(DayLayout, stamps[0][1])
	if err != nil {
		return "", newFormatError(raw, "timestamp date is not a calendar date")
	}
	if len(stamps) == 1 {
		return FromStart(start, SingleDayTrip).format(), nil
	}
	end, err := time.Parse(DayLayout, stamps[1][1])
	if err != nil {
		return "", newFormatError(raw, "timestamp date is not a calendar date")
	}
	return start.Format(DayLayout) + Separator + end.Format(DayLayout), nil
}

// fromChain repairs model output such as "2025 to 11 to 21 to 2025 to 11 to 22".
func fromChain(s string) (string, bool) {
	tokens := chainTokenPattern.Split(strings.TrimSpace(s), -1)
	if len(tokens) != 6 {
		return "", false
	}
	nums := make([]int, 6)
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if !digitsPattern.MatchString(tok) {
			return "", false
		}
		nums[i], _ = strconv.Atoi(tok)
	}
	return fmt.Sprintf("%04d-%02d-%02d to %04d-%02d-%02d",
		nums[0], nums[1], nums[2], nums[3], nums[4], nums[5]), true
}

func (n *Normalizer) fromHalves(raw, a, b string) (string, error) {
	first, err := parseHalf(a)
	if err != nil {
		return "", newFormatError(raw, "start: "+err.Error())
	}
	second, err := parseSecondHalf(b, first)
	if err != nil {
		return "", newFormatError(raw, "end: "+err.Error())
	}
	return n.joinHalves(first, second), nil
}

// joinHalves fills in missing years and formats the pair. A side without a
// year borrows it from the other side. When neither side names a year each
// lands in the current year unless its month is already behind us, and a
// range that has fully ended rolls forward as a whole.
func (n *Normalizer) joinHalves(first, second half) string {
	switch {
	case first.hasYear && !second.hasYear:
		second = second.inYear(first.t.Year())
		if second.t.Before(first.t) {
			second.t = second.t.AddDate(1, 0, 0)
		}
	case !first.hasYear && second.hasYear:
		first = first.inYear(second.t.Year())
		if first.t.After(second.t) {
			first.t = first.t.AddDate(-1, 0, 0)
		}
	case !first.hasYear && !second.hasYear:
		first = n.withYear(first)
		second = n.withYear(second)
		if second.t.Before(first.t) {
			second.t = second.t.AddDate(1, 0, 0)
		}
		if second.t.Before(n.now()) {
			first.t = first.t.AddDate(1, 0, 0)
			second.t = second.t.AddDate(1, 0, 0)
		}
	}
	return first.t.Format(DayLayout) + Separator + second.t.Format(DayLayout)
}

func (n *Normalizer) withYear(h half) half {
	if h.hasYear {
		return h
	}
	today := n.now()
	year := today.Year()
	if h.t.Month() < today.Month() {
		year++
	}
	return h.inYear(year)
}

type half struct {
	t       time.Time
	hasYear bool
}

func (h half) inYear(year int) half {
	return half{t: time.Date(year, h.t.Month(), h.t.Day(), 0, 0, 0, 0, time.UTC), hasYear: true}
}

func cleanHalf(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ".,;")
	s = weekdayPattern.ReplaceAllString(s, "")
	s = ordinalPattern.ReplaceAllString(s, "$1")
	return strings.Join(strings.Fields(s), " ")
}

// parseHalf parses one side of a range against the known layouts.
func parseHalf(s string) (half, error) {
	s = cleanHalf(s)
	if s == "" {
		return half{}, fmt.Errorf("empty date")
	}
	if m := isoTimestampPattern.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	for _, layout := range yearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return half{t: dayOf(t), hasYear: true}, nil
		}
	}
	for _, layout := range yearlessLayouts {
		if t, err := time.Parse(layout, s); err == nil && t.Year() == noYear {
			return half{t: t}, nil
		}
	}
	return half{}, fmt.Errorf("%q matches no known date layout", s)
}

// parseSecondHalf also accepts a bare day ("19" or "19, 2025") that borrows
// the month of the first half.
func parseSecondHalf(s string, first half) (half, error) {
	cleaned := cleanHalf(s)
	if m := dayOnlyPattern.FindStringSubmatch(cleaned); m != nil {
		day, _ := strconv.Atoi(m[1])
		h := half{hasYear: first.hasYear}
		year := first.t.Year()
		if m[2] != "" {
			year, _ = strconv.Atoi(m[2])
			h.hasYear = true
		}
		h.t = time.Date(year, first.t.Month(), day, 0, 0, 0, 0, time.UTC)
		if h.t.Day() != day {
			return half{}, fmt.Errorf("day %d does not exist in %s", day, first.t.Month())
		}
		return h, nil
	}
	return parseHalf(s)
}

func gate(raw interface{}, candidate string) (Range, error) {
	if !canonicalPattern.MatchString(candidate) {
		return Range{}, newFormatError(raw, "normalized value is not a canonical range")
	}
	r, err := Parse(candidate)
	if err != nil {
		return Range{}, newFormatError(raw, err.Error())
	}
	if !r.End.After(r.Start) {
		return Range{}, newFormatError(raw, "end date must be after start date")
	}
	return r, nil
}
