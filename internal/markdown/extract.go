package markdown

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MaxExtractedTags caps how many tags content extraction returns. Truncation
// drops entries from the end, keeping discovery order.
const MaxExtractedTags = 10

var mdParser = goldmark.DefaultParser()

// ExtractTitle returns the first level-1 heading in the body, falling back to
// the first level-2 heading, or "" when the body has neither. Later headings
// of the same level are ignored.
func ExtractTitle(body string) string {
	src := []byte(body)
	doc := mdParser.Parse(text.NewReader(src))

	var h1, h2 string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		switch {
		case h.Level == 1 && h1 == "":
			h1 = nodeText(h, src)
		case h.Level == 2 && h2 == "":
			h2 = nodeText(h, src)
		}
		return ast.WalkSkipChildren, nil
	})

	if h1 != "" {
		return h1
	}
	return h2
}

// hashtagPattern matches #word tokens that are not heading markers: a heading
// requires spacing after the marker, so "#tag" qualifies anywhere while
// "# Title" and "## Title" never do.
var hashtagPattern = regexp.MustCompile(`(?m)(?:^|[^\w#])#(\w+)`)

// ExtractTags combines fenced code-block language identifiers (excluding
// "markdown"/"md") with hashtag tokens (lowercased) into a deduplicated list
// capped at MaxExtractedTags, preserving discovery order.
func ExtractTags(body string) []string {
	src := []byte(body)
	doc := mdParser.Parse(text.NewReader(src))

	var tags []string
	seen := make(map[string]bool)
	add := func(tag string) {
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if cb, ok := n.(*ast.FencedCodeBlock); ok {
			lang := string(cb.Language(src))
			if lang != "" && lang != "markdown" && lang != "md" {
				add(lang)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, m := range hashtagPattern.FindAllStringSubmatch(body, -1) {
		add(strings.ToLower(m[1]))
	}

	if len(tags) > MaxExtractedTags {
		tags = tags[:MaxExtractedTags]
	}
	return tags
}

// nodeText collects the literal text of a node's descendants.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
			continue
		}
		b.WriteString(nodeText(c, src))
	}
	return strings.TrimSpace(b.String())
}
