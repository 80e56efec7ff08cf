package extractor

import (
	"fmt"
	"strings"
	"time"

	"travel-concierge-be/pkg/concierge"
	"travel-concierge-be/pkg/dates"
)

// HistoryWindow is how many earlier turns the model sees.
const HistoryWindow = 6

// PromptBuilder renders the extraction prompt for one turn.
type PromptBuilder struct {
	history []concierge.Turn
	message string
	today   time.Time
}

func NewPromptBuilder(history []concierge.Turn, message string, today time.Time) *PromptBuilder {
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}
	return &PromptBuilder{history: history, message: message, today: today}
}

func (b *PromptBuilder) Build() string {
	var prompt strings.Builder

	b.writeTask(&prompt)
	b.writeFormat(&prompt)
	b.writeConversation(&prompt)

	return prompt.String()
}

func (b *PromptBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You read a conversation with a traveler and extract the details of the trip they want planned.\n")
	prompt.WriteString("Return ONLY a JSON object with keys: location, dates, party_type, budget, interests, dietary_filters.\n")
	prompt.WriteString("If a value is unknown, set it to null. Do not guess.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *PromptBuilder) writeFormat(prompt *strings.Builder) {
	today := b.today.Format(dates.DayLayout)

	prompt.WriteString("<format>\n")
	prompt.WriteString("- location: destination city or region as a string, e.g. \"Miami\"\n")
	fmt.Fprintf(prompt, "- dates: a single string \"YYYY-MM-DD to YYYY-MM-DD\". Today is %s.\n", today)
	prompt.WriteString("  Examples: \"2025-11-20 to 2025-11-22\"; \"November 20 to 22\" becomes the same string for the next November 20.\n")
	prompt.WriteString("  Never split the date into separate numbers.\n")
	prompt.WriteString("- party_type: \"solo\", \"couple\", \"family\", \"friends\" or \"business\"\n")
	prompt.WriteString("- budget: \"low\", \"medium\" or \"high\"\n")
	prompt.WriteString("- interests: list of strings, e.g. [\"museums\", \"beaches\"]\n")
	prompt.WriteString("- dietary_filters: list of strings, e.g. [\"vegan\"]\n")
	prompt.WriteString("</format>\n\n")
}

func (b *PromptBuilder) writeConversation(prompt *strings.Builder) {
	prompt.WriteString("<conversation>\n")
	for _, turn := range b.history {
		fmt.Fprintf(prompt, "%s: %s\n", turn.Role, strings.TrimSpace(turn.Content))
	}
	fmt.Fprintf(prompt, "User: %s\n", strings.TrimSpace(b.message))
	prompt.WriteString("</conversation>\n")
}
