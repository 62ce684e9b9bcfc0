package indexer

import (
	"os"
	"path"
	"strings"
	"time"

	"github.com/Dhruvkoshta/Personal-Notes-App/internal/logger"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/markdown"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/note"
)

// buildNote reads, parses, and assembles one note record. Unreadable files
// and files with malformed preamble blocks are skipped with a warning; an
// enrichment failure degrades to extracted metadata and the note survives.
func (b *Builder) buildNote(w fileWork) fileResult {
	relPath := path.Join(w.folder, w.filename)
	result := fileResult{folder: w.folder, path: relPath}

	raw, err := os.ReadFile(w.absPath)
	if err != nil {
		logger.Warn("could not read note, skipping", map[string]interface{}{
			"file":  relPath,
			"error": err.Error(),
		})
		result.skipped = true
		return result
	}

	doc, err := markdown.Parse(string(raw))
	if err != nil {
		logger.Warn("malformed preamble, skipping note", map[string]interface{}{
			"file":  relPath,
			"error": err.Error(),
		})
		result.skipped = true
		return result
	}

	info, err := os.Stat(w.absPath)
	if err != nil {
		logger.Warn("could not stat note, skipping", map[string]interface{}{
			"file":  relPath,
			"error": err.Error(),
		})
		result.skipped = true
		return result
	}
	modTime := info.ModTime().UTC()

	var enriched *enrichResult
	if b.enricher != nil {
		enriched = b.enrichNote(doc, w, &result)
	}

	fm := mergeFrontmatter(doc, enriched, w, modTime)

	excerpt := ""
	if enriched != nil && enriched.description != "" {
		excerpt = enriched.description
	} else {
		excerpt = markdown.Excerpt(doc.Body, b.cfg.Build.ExcerptLength)
	}

	result.note = note.Note{
		ID:          note.ID(w.folder, w.filename),
		Slug:        note.Slug(w.folder, w.filename),
		Filepath:    relPath,
		Folder:      w.folder,
		Filename:    w.filename,
		Frontmatter: fm,
		Content:     doc.Body,
		Excerpt:     excerpt,
		// File birth time is not portably available; creation falls back to
		// the modification time.
		CreatedAt:  modTime.Format(time.RFC3339),
		ModifiedAt: modTime.Format(time.RFC3339),
	}
	return result
}

type enrichResult struct {
	tags        []string
	description string
}

// enrichNote runs the enrichment service for one note and records the
// outcome on the result. Returns nil when enrichment produced nothing.
// The submitted title follows the same fallback chain as the merge, so a
// heading-less note still gives the service its filename for context.
func (b *Builder) enrichNote(doc markdown.Document, w fileWork, result *fileResult) *enrichResult {
	title := doc.Meta.Title
	if title == "" {
		title = markdown.ExtractTitle(doc.Body)
	}
	if title == "" {
		title = strings.TrimSuffix(w.filename, ".md")
	}

	meta, err := b.enricher.Enrich(title, doc.Body, result.folder)
	if err != nil {
		result.enrichFailed = true
		return nil
	}
	if meta == nil {
		return nil
	}
	result.enriched = true
	return &enrichResult{tags: meta.Tags, description: meta.Description}
}

// mergeFrontmatter resolves each metadata field by precedence: explicit
// preamble values win, then enriched values, then content-extracted values,
// then filesystem-derived fallbacks.
func mergeFrontmatter(doc markdown.Document, enriched *enrichResult, w fileWork, modTime time.Time) note.Frontmatter {
	fm := doc.Meta

	if fm.Title == "" {
		fm.Title = markdown.ExtractTitle(doc.Body)
	}
	if fm.Title == "" {
		fm.Title = strings.TrimSuffix(w.filename, ".md")
	}

	if len(fm.Tags) == 0 && enriched != nil && len(enriched.tags) > 0 {
		fm.Tags = enriched.tags
	}
	if len(fm.Tags) == 0 {
		fm.Tags = markdown.ExtractTags(doc.Body)
	}

	if fm.Date == "" {
		fm.Date = modTime.Format("2006-01-02")
	}
	if fm.Category == "" {
		fm.Category = w.folder
	}
	if fm.Description == "" && enriched != nil {
		fm.Description = enriched.description
	}
	return fm
}
