package telegram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/pkg/common"
)

// MaxMessageLength keeps each part under Telegram's 4096 character limit.
const MaxMessageLength = 4090

// FormatAdviceForTelegram formats generated advice into Markdown messages for Telegram,
// ensuring each message does not exceed MaxMessageLength.
func FormatAdviceForTelegram(advice *dto.AdviceResponse) []string {
	if advice == nil || strings.TrimSpace(advice.Content) == "" {
		return []string{"No investment advice was generated."}
	}

	var body strings.Builder
	body.WriteString(fmt.Sprintf("💹 *Investment Advice for %s*\n", advice.Symbol))
	body.WriteString(fmt.Sprintf("⚙️ Parameters: %s\n", advice.Parameters))
	if advice.Indicators.LastClose != nil {
		body.WriteString(fmt.Sprintf("💰 Last close: %s%.2f\n", common.CurrencySymbol, *advice.Indicators.LastClose))
	}
	if advice.Indicators.RSI != nil {
		body.WriteString(fmt.Sprintf("📊 RSI(14): %.2f\n", *advice.Indicators.RSI))
	}
	body.WriteString("\n")
	body.WriteString(advice.Content)
	body.WriteString("\n\n")
	body.WriteString(fmt.Sprintf("📅 _Generated: %s (run %s)_\n", advice.GeneratedAt.Format("2006-01-02 15:04:05"), advice.RunID))

	return SplitMessage(body.String(), MaxMessageLength, func(part int) string {
		return fmt.Sprintf("---*%s continued, part %d*---\n\n", advice.Symbol, part)
	})
}

// SplitMessage splits text on line boundaries into parts of at most maxLen runes.
// Every part after the first starts with header(part). Lines longer than a part are cut.
func SplitMessage(text string, maxLen int, header func(part int) string) []string {
	var messages []string
	var current strings.Builder
	currentLen := 0
	hasContent := false
	part := 1

	startNewPart := func() {
		messages = append(messages, current.String())
		current.Reset()
		currentLen = 0
		hasContent = false
		part++
		if header != nil {
			h := header(part)
			current.WriteString(h)
			currentLen = utf8.RuneCountInString(h)
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		lineLen := utf8.RuneCountInString(line)
		if hasContent && currentLen+lineLen > maxLen {
			startNewPart()
		}
		for currentLen+lineLen > maxLen {
			room := maxLen - currentLen
			if room < 1 {
				room = 1
			}
			runes := []rune(line)
			current.WriteString(string(runes[:room]))
			line = string(runes[room:])
			lineLen -= room
			startNewPart()
		}
		current.WriteString(line)
		currentLen += lineLen
		hasContent = hasContent || lineLen > 0
	}
	if hasContent {
		messages = append(messages, current.String())
	}
	return messages
}
