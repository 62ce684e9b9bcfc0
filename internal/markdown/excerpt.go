package markdown

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultExcerptLength is the excerpt truncation limit in characters.
const DefaultExcerptLength = 200

var (
	preamblePattern   = regexp.MustCompile(`(?s)^---.*?---`)
	headingPattern    = regexp.MustCompile(`#{1,6}\s`)
	linkPattern       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	codeSpanPattern   = regexp.MustCompile("`{1,3}[^`]*`{1,3}")
	fencedPattern     = regexp.MustCompile("(?s)```.*?```")
	inlineCodePattern = regexp.MustCompile("`[^`]*`")
	anyHeadingPattern = regexp.MustCompile(`#+\s`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	emphasisStripper = strings.NewReplacer("*", "", "_", "", "~", "")
	proseStripper    = strings.NewReplacer("*", "", "_", "", "~", "", ">", "")
)

// Excerpt strips markdown syntax from the body and truncates the result,
// appending "..." only when truncation happened.
func Excerpt(body string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultExcerptLength
	}

	plain := preamblePattern.ReplaceAllString(body, "")
	plain = headingPattern.ReplaceAllString(plain, "")
	plain = linkPattern.ReplaceAllString(plain, "$1")
	plain = codeSpanPattern.ReplaceAllString(plain, "")
	plain = emphasisStripper.Replace(plain)
	plain = strings.TrimSpace(plain)

	if utf8.RuneCountInString(plain) <= maxLength {
		return plain
	}
	return TruncateRunes(plain, maxLength) + "..."
}

// Sanitize reduces body text to single-line plain prose for submission to
// the enrichment service: code blocks removed entirely, links collapsed to
// their text, markers stripped, whitespace runs collapsed. Empty input
// yields an empty string.
func Sanitize(body string) string {
	plain := preamblePattern.ReplaceAllString(body, "")
	plain = fencedPattern.ReplaceAllString(plain, "")
	plain = inlineCodePattern.ReplaceAllString(plain, "")
	plain = linkPattern.ReplaceAllString(plain, "$1")
	plain = anyHeadingPattern.ReplaceAllString(plain, "")
	plain = proseStripper.Replace(plain)
	plain = whitespacePattern.ReplaceAllString(plain, " ")
	return strings.TrimSpace(plain)
}

// TruncateRunes cuts s to at most n runes without splitting a multibyte
// character.
func TruncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
