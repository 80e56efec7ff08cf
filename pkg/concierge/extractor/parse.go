package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// modelOutput mirrors the JSON object the model is asked for. Fields stay
// untyped because small models mix strings, lists and numbers freely.
type modelOutput struct {
	Location       interface{} `json:"location"`
	Dates          interface{} `json:"dates"`
	PartyType      interface{} `json:"party_type"`
	Budget         interface{} `json:"budget"`
	Interests      interface{} `json:"interests"`
	DietaryFilters interface{} `json:"dietary_filters"`
}

// Values a model uses to say "I don't know".
var placeholders = []string{"", "null", "none", "n/a", "na", "unknown", "not specified", "not provided", "tbd"}

// parseModelOutput decodes raw model text. Code fences are stripped; when the
// text is still not JSON the outermost {...} block is tried.
func parseModelOutput(raw string) (modelOutput, error) {
	var out modelOutput

	text := stripCodeFence(raw)
	if text == "" {
		return out, fmt.Errorf("empty model response")
	}

	if err := json.Unmarshal([]byte(text), &out); err == nil {
		return out, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return modelOutput{}, fmt.Errorf("no JSON object in model response")
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return modelOutput{}, fmt.Errorf("decode model response: %w", err)
	}
	return out, nil
}

func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		// drop the language tag line ("json")
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// textValue returns a trimmed string or "" for placeholders and non-strings.
func textValue(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if isPlaceholder(s) {
		return ""
	}
	return s
}

// listValue accepts a JSON list of strings or one comma separated string.
func listValue(v interface{}) []string {
	var items []string
	switch t := v.(type) {
	case string:
		items = strings.Split(t, ",")
	case []interface{}:
		items = lo.FilterMap(t, func(item interface{}, _ int) (string, bool) {
			s, ok := item.(string)
			return s, ok
		})
	}

	items = lo.Map(items, func(s string, _ int) string { return strings.TrimSpace(s) })
	items = lo.Reject(items, func(s string, _ int) bool { return isPlaceholder(s) })
	return lo.Uniq(items)
}

// dateValue drops placeholders so that the normalizer only sees real input.
func dateValue(v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if isPlaceholder(strings.TrimSpace(t)) {
			return nil
		}
		return t
	case []interface{}:
		if len(t) == 0 {
			return nil
		}
		return t
	default:
		return v
	}
}

func isPlaceholder(s string) bool {
	return lo.Contains(placeholders, strings.ToLower(strings.TrimSpace(s)))
}
