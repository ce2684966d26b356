package content

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	markupTagPattern  = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// stripMarkup removes anything tag-shaped. Prompts are plain text, so a
// complete tag never carries meaning for a backend.
func stripMarkup(s string) string {
	return markupTagPattern.ReplaceAllString(s, "")
}

// stripControlChars drops control characters. Tabs, newlines, and carriage
// returns survive here and are normalized by the whitespace collapse.
func stripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

// collapseWhitespace reduces every whitespace run to a single space.
func collapseWhitespace(s string) string {
	return whitespacePattern.ReplaceAllString(s, " ")
}

// truncateRunes limits s to max runes, appending an ellipsis when
// anything was cut.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
