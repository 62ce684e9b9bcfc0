// Package markdown splits note files into preamble and body and derives
// titles, tags, excerpts, and plain prose from the body text.
package markdown

import (
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/Dhruvkoshta/Personal-Notes-App/internal/note"
)

// Document is a markdown file split into its preamble metadata and body.
type Document struct {
	Meta note.Frontmatter
	Body string
}

// Parse splits raw file text into preamble and body. Text without a
// delimited preamble block parses cleanly: empty metadata, full text as
// body. A well-formed block that fails to decode is an error; the caller
// decides whether to skip the file or abort.
func Parse(content string) (Document, error) {
	var meta note.Frontmatter
	body, err := frontmatter.Parse(strings.NewReader(content), &meta)
	if err != nil {
		return Document{}, fmt.Errorf("parse preamble: %w", err)
	}
	return Document{Meta: meta, Body: string(body)}, nil
}
