// Package note defines the index data model: notes, folders, and the
// persisted NotesIndex artifact consumed by the web client.
package note

import (
	"sort"
	"strings"
)

// Frontmatter holds the metadata block of a note after merging explicit
// preamble fields with extracted and enriched candidates. All fields are
// optional in source files; absence falls through the merge precedence.
type Frontmatter struct {
	Title       string   `yaml:"title" json:"title,omitempty"`
	Date        string   `yaml:"date" json:"date,omitempty"`
	Tags        []string `yaml:"tags" json:"tags,omitempty"`
	Category    string   `yaml:"category" json:"category,omitempty"`
	Author      string   `yaml:"author" json:"author,omitempty"`
	Description string   `yaml:"description" json:"description,omitempty"`
}

// Note is one indexed markdown file.
type Note struct {
	ID          string      `json:"id"`
	Slug        string      `json:"slug"`
	Filepath    string      `json:"filepath"`
	Folder      string      `json:"folder"`
	Filename    string      `json:"filename"`
	Frontmatter Frontmatter `json:"frontmatter"`
	Content     string      `json:"content"`
	Excerpt     string      `json:"excerpt"`
	CreatedAt   string      `json:"createdAt"`
	ModifiedAt  string      `json:"modifiedAt"`
}

// Folder groups the notes directly inside one directory. Nested directories
// get their own Folder record; descendants are never folded into an ancestor.
type Folder struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	NoteCount int    `json:"noteCount"`
	Notes     []Note `json:"notes"`
}

// Index is the persisted artifact. It is rebuilt from scratch every run and
// fully replaces any previous artifact.
type Index struct {
	Folders []Folder `json:"folders"`
	Notes   []Note   `json:"notes"`
}

// Slug derives the URL identifier for a note from its folder and filename.
// Deterministic: lowercase, ".md" stripped, whitespace runs collapsed to a
// single hyphen. The folder separator "/" is preserved so slugs mirror the
// directory layout (e.g. "ideas/first").
func Slug(folder, filename string) string {
	name := strings.TrimSuffix(filename, ".md")
	return collapseWhitespace(strings.ToLower(folder+"/"+name), "-")
}

// ID derives the DOM-safe identifier for a note: folder and filename joined
// with "-", every non-alphanumeric rune replaced by "-", lowercased.
func ID(folder, filename string) string {
	raw := folder + "-" + filename
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

func collapseWhitespace(s, sep string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	return strings.Join(fields, sep)
}

// Sort orders the index deterministically: folders lexicographically by path,
// notes by (folder, filename), and each folder's own notes by filename.
// Output ordering never depends on build completion order.
func (idx *Index) Sort() {
	sort.Slice(idx.Folders, func(i, j int) bool {
		return idx.Folders[i].Path < idx.Folders[j].Path
	})
	for f := range idx.Folders {
		notes := idx.Folders[f].Notes
		sort.Slice(notes, func(i, j int) bool {
			return notes[i].Filename < notes[j].Filename
		})
	}
	sort.Slice(idx.Notes, func(i, j int) bool {
		if idx.Notes[i].Folder != idx.Notes[j].Folder {
			return idx.Notes[i].Folder < idx.Notes[j].Folder
		}
		return idx.Notes[i].Filename < idx.Notes[j].Filename
	})
}

// DuplicateSlugs returns every slug that appears more than once in the notes
// array. Duplicates are kept in the index (the client's lookup picks the
// first match); the builder warns so the operator can rename.
func (idx *Index) DuplicateSlugs() []string {
	seen := make(map[string]int, len(idx.Notes))
	for _, n := range idx.Notes {
		seen[n.Slug]++
	}
	var dups []string
	for _, n := range idx.Notes {
		if seen[n.Slug] > 1 {
			dups = append(dups, n.Slug)
			seen[n.Slug] = 0 // report once
		}
	}
	sort.Strings(dups)
	return dups
}
