// Package content sanitizes prompts before they reach an AI backend and
// scores generated output for classroom suitability.
package content

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxInputLength is the rune limit applied to sanitized input when
// no explicit limit is configured.
const DefaultMaxInputLength = 5000

// ValidThreshold is the minimum score for content to count as valid.
const ValidThreshold = 70

// ValidationResult is the outcome of scoring a piece of generated content.
type ValidationResult struct {
	IsValid       bool     `json:"is_valid"`
	Score         int      `json:"score"`
	Issues        []string `json:"issues"`
	KeywordsFound int      `json:"educational_keywords_found"`
}

// pedagogyKeywords are the indicators counted toward the educational score.
var pedagogyKeywords = []string{
	"learn", "understand", "concept", "example", "definition",
	"explain", "demonstrate", "analyze", "compare", "evaluate",
}

// profanityPattern matches the blocked word list on word boundaries,
// case-insensitive, so embedded occurrences ("class", "assess") pass.
var profanityPattern = regexp.MustCompile(
	`(?i)\b(fuck|shit|bitch|bastard|asshole|ass|dick|piss|crap|damn)\b`,
)

// Validator applies the content quality rules. Scores only ever move down
// from 100; content at or above ValidThreshold is considered usable.
type Validator struct {
	maxInputLength int
}

// NewValidator creates a Validator that truncates sanitized input to
// maxInputLength runes. Non-positive values fall back to
// DefaultMaxInputLength.
func NewValidator(maxInputLength int) *Validator {
	if maxInputLength <= 0 {
		maxInputLength = DefaultMaxInputLength
	}
	return &Validator{maxInputLength: maxInputLength}
}

// SanitizeInput normalizes user-supplied text before it is embedded in a
// prompt: markup tags and control characters are removed, whitespace runs
// collapse to a single space, and the result is trimmed and truncated to
// the configured rune limit with a trailing ellipsis.
//
// Sanitizing already-sanitized text is a no-op.
func (v *Validator) SanitizeInput(text string) string {
	sanitized := stripMarkup(text)
	sanitized = stripControlChars(sanitized)
	sanitized = collapseWhitespace(sanitized)
	sanitized = strings.TrimSpace(sanitized)
	return truncateRunes(sanitized, v.maxInputLength)
}

// ValidateOutput scores generated content. Starting from 100:
// profanity costs 50, fewer than 10 characters costs 30, no educational
// keyword costs 20, and mentioning questions without a question mark
// costs 10. The score never drops below 0.
func (v *Validator) ValidateOutput(text string) ValidationResult {
	issues := []string{}
	score := 100

	if profanityPattern.MatchString(text) {
		issues = append(issues, "Content contains inappropriate language")
		score -= 50
	}

	if utf8.RuneCountInString(strings.TrimSpace(text)) < 10 {
		issues = append(issues, "Content too short")
		score -= 30
	}

	lower := strings.ToLower(text)
	keywords := 0
	for _, keyword := range pedagogyKeywords {
		if strings.Contains(lower, keyword) {
			keywords++
		}
	}
	if keywords == 0 {
		issues = append(issues, "Content lacks educational indicators")
		score -= 20
	}

	if strings.Contains(lower, "question") && !strings.Contains(text, "?") {
		issues = append(issues, "Questions should end with question marks")
		score -= 10
	}

	if score < 0 {
		score = 0
	}

	return ValidationResult{
		IsValid:       score >= ValidThreshold,
		Score:         score,
		Issues:        issues,
		KeywordsFound: keywords,
	}
}
