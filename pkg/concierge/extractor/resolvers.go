package extractor

import (
	"fmt"
	"regexp"

	"travel-concierge-be/pkg/concierge"
	"travel-concierge-be/pkg/dates"
)

// sources is everything a resolver may look at for one turn.
type sources struct {
	message string
	model   modelOutput
	booking *concierge.BookingContext
}

// Resolvers are tried in order and the first one that produces a value wins.
type textResolver struct {
	name    string
	resolve func(src sources) string
}

type dateResolver struct {
	name    string
	resolve func(n *dates.Normalizer, src sources) (dates.Range, error)
}

var locationResolvers = []textResolver{
	{name: "model", resolve: func(src sources) string {
		return textValue(src.model.Location)
	}},
	{name: "booking", resolve: func(src sources) string {
		if src.booking == nil {
			return ""
		}
		return textValue(src.booking.Location)
	}},
}

var dateResolvers = []dateResolver{
	{name: "model", resolve: func(n *dates.Normalizer, src sources) (dates.Range, error) {
		return n.Normalize(dateValue(src.model.Dates))
	}},
	{name: "booking", resolve: func(n *dates.Normalizer, src sources) (dates.Range, error) {
		return n.Normalize(src.booking.DateSource())
	}},
	{name: "message", resolve: func(n *dates.Normalizer, src sources) (dates.Range, error) {
		phrase := messageDatePattern.FindString(src.message)
		if phrase == "" {
			return dates.Range{}, fmt.Errorf("%w: no month-name range in message", dates.ErrInvalidDateFormat)
		}
		return n.Normalize(phrase)
	}},
}

var partyTypeResolvers = []textResolver{
	{name: "model", resolve: func(src sources) string {
		return textValue(src.model.PartyType)
	}},
	{name: "booking", resolve: func(src sources) string {
		if src.booking == nil {
			return ""
		}
		return textValue(src.booking.PartyType)
	}},
}

const monthNames = `January|February|March|April|May|June|July|August|September|October|November|December`

// "November 20 to November 22", "November 20 to 22", "March 3rd - 5th, 2026"
var messageDatePattern = regexp.MustCompile(
	`(?i)\b(?:` + monthNames + `)\s+\d{1,2}(?:st|nd|rd|th)?` +
		`\s*(?:to|until|through|till|-|–)\s*` +
		`(?:(?:` + monthNames + `)\s+)?\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?\b`,
)

// firstText returns the first non-empty resolver result and its name.
func firstText(resolvers []textResolver, src sources) (string, string) {
	for _, r := range resolvers {
		if v := r.resolve(src); v != "" {
			return v, r.name
		}
	}
	return "", ""
}

// firstRange returns the first range that passes the normalizer, the name of
// the resolver that produced it, and the rejection of every earlier source.
func firstRange(n *dates.Normalizer, resolvers []dateResolver, src sources) (dates.Range, string, map[string]string) {
	rejected := map[string]string{}
	for _, r := range resolvers {
		rng, err := r.resolve(n, src)
		if err == nil {
			return rng, r.name, rejected
		}
		rejected[r.name] = err.Error()
	}
	return dates.Range{}, "", rejected
}
