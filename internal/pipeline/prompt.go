package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxPromptLength = 500
	MaxStyleLength  = 200

	defaultTargetModel = "DALL-E 3"
	defaultWordBudget  = 40
)

// checks a request's prompt and style; both are returned exactly as sent
func validate(req Request) (prompt, style string, err error) {
	if req.UserID == "" {
		return "", "", ErrUnauthenticated
	}

	prompt, style = req.Prompt, req.Style

	if strings.TrimSpace(prompt) == "" {
		return "", "", invalidArgument("Prompt cannot be empty.")
	}

	if utf8.RuneCountInString(prompt) > MaxPromptLength {
		return "", "", invalidArgument("Prompt is too long.")
	}

	if utf8.RuneCountInString(style) > MaxStyleLength {
		return "", "", invalidArgument("Style is too long.")
	}

	return prompt, style, nil
}

// builds the rewrite instruction sent to the text provider
func buildInstruction(prompt, style, target string, words int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Rewrite this art prompt for %s to be detailed and artistic.\n", target)
	fmt.Fprintf(&sb, "Original: \"%s\"\n", prompt)
	if style != "" {
		fmt.Fprintf(&sb, "Style: \"%s\"\n", style)
	}
	fmt.Fprintf(&sb, "Keep it under %d words. Output ONLY the prompt.", words)

	return sb.String()
}

// trims whitespace and one wrapping quote at each end
func cleanRefinement(text string) string {
	text = strings.TrimSpace(text)
	text = trimOneQuote(text, strings.HasPrefix, strings.TrimPrefix)
	text = trimOneQuote(text, strings.HasSuffix, strings.TrimSuffix)

	return strings.TrimSpace(text)
}

func trimOneQuote(text string, has func(string, string) bool, trim func(string, string) string) string {
	for _, q := range []string{`"`, `'`} {
		if has(text, q) {
			return trim(text, q)
		}
	}

	return text
}
