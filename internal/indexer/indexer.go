// Package indexer walks the notes tree, assembles note records, and builds
// the persisted index artifact.
package indexer

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Dhruvkoshta/Personal-Notes-App/internal/config"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/enrich"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/logger"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/note"
)

// Stats holds build statistics for one run.
type Stats struct {
	TotalFiles     int    `json:"total_files"`
	NotesIndexed   int    `json:"notes_indexed"`
	Folders        int    `json:"folders"`
	Enriched       int    `json:"enriched"`
	EnrichFailures int    `json:"enrich_failures"`
	SkippedFiles   int    `json:"skipped_files"`
	DuplicateSlugs int    `json:"duplicate_slugs"`
	Duration       string `json:"duration"`
	Timestamp      string `json:"timestamp"`
}

// ProgressFunc is called as files complete. current is the number of files
// processed so far, total the total count, and notePath the file processed.
type ProgressFunc func(current, total int, notePath string)

// Builder runs the index pipeline. The enricher may be nil, in which case
// notes are assembled from preamble and extracted metadata only.
type Builder struct {
	cfg      *config.Config
	enricher *enrich.Service
	skipDirs map[string]bool
}

// New creates a Builder for the given configuration and enrichment service.
func New(cfg *config.Config, enricher *enrich.Service) *Builder {
	return &Builder{
		cfg:      cfg,
		enricher: enricher,
		skipDirs: cfg.SkipDirSet(),
	}
}

// fileWork identifies one markdown file queued for assembly.
type fileWork struct {
	absPath  string
	folder   string // slash-separated path relative to the notes root
	filename string
}

// folderInfo records one visited directory, in walk order.
type folderInfo struct {
	path string
}

// fileResult is the outcome of assembling one file.
type fileResult struct {
	note     note.Note
	folder   string
	skipped  bool
	enriched bool
	// enrichFailed marks a degraded service call; the note is still produced.
	enrichFailed bool
	path         string
}

// Build walks the notes root, assembles every note, and returns the sorted
// index. A failure to read the root itself returns an empty (non-nil) index
// together with the error so the caller can still persist a best-effort
// artifact. Per-folder and per-note failures are logged and skipped.
func (b *Builder) Build(progress ProgressFunc) (*note.Index, *Stats, error) {
	start := time.Now()
	stats := &Stats{Timestamp: start.UTC().Format(time.RFC3339)}
	idx := &note.Index{Folders: []note.Folder{}, Notes: []note.Note{}}

	root := b.cfg.Notes.Path
	entries, err := os.ReadDir(root)
	if err != nil {
		stats.Duration = time.Since(start).String()
		return idx, stats, fmt.Errorf("read notes root %s: %w", root, err)
	}

	var folders []folderInfo
	var work []fileWork
	for _, entry := range entries {
		// Top-level non-directory entries are ignored.
		if !entry.IsDir() || b.skipDirs[entry.Name()] {
			continue
		}
		b.walkFolder(entry.Name(), &folders, &work)
	}

	stats.TotalFiles = len(work)
	notesByFolder := make(map[string][]note.Note, len(folders))

	for result := range b.assemble(work, stats.TotalFiles, progress) {
		if result.skipped {
			stats.SkippedFiles++
			continue
		}
		if result.enriched {
			stats.Enriched++
		}
		if result.enrichFailed {
			stats.EnrichFailures++
		}
		notesByFolder[result.folder] = append(notesByFolder[result.folder], result.note)
		idx.Notes = append(idx.Notes, result.note)
	}

	for _, f := range folders {
		notes := notesByFolder[f.path]
		if notes == nil {
			notes = []note.Note{}
		}
		idx.Folders = append(idx.Folders, note.Folder{
			Name:      f.path,
			Path:      f.path,
			NoteCount: len(notes),
			Notes:     notes,
		})
	}

	idx.Sort()

	for _, slug := range idx.DuplicateSlugs() {
		stats.DuplicateSlugs++
		logger.Warn("duplicate slug: client lookup will pick the first match", map[string]interface{}{
			"slug": slug,
		})
	}

	stats.NotesIndexed = len(idx.Notes)
	stats.Folders = len(idx.Folders)
	stats.Duration = time.Since(start).Round(time.Millisecond).String()
	return idx, stats, nil
}

// walkFolder collects the markdown files directly inside rel and recurses
// into subdirectories, which become their own folder records. An unreadable
// directory is skipped with a warning; the walk continues elsewhere.
func (b *Builder) walkFolder(rel string, folders *[]folderInfo, work *[]fileWork) {
	dirPath := filepath.Join(b.cfg.Notes.Path, filepath.FromSlash(rel))
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		logger.Warn("could not read folder, skipping", map[string]interface{}{
			"folder": rel,
			"error":  err.Error(),
		})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			if b.skipDirs[entry.Name()] {
				continue
			}
			b.walkFolder(path.Join(rel, entry.Name()), folders, work)
			continue
		}
		if strings.HasSuffix(entry.Name(), ".md") {
			*work = append(*work, fileWork{
				absPath:  filepath.Join(dirPath, entry.Name()),
				folder:   rel,
				filename: entry.Name(),
			})
		}
	}

	// Every visited directory gets a record, even with zero notes.
	*folders = append(*folders, folderInfo{path: rel})
}

// assemble fans per-file work out across the configured worker pool and
// streams results back. Ordering is not preserved; Build sorts afterward.
func (b *Builder) assemble(work []fileWork, total int, progress ProgressFunc) <-chan fileResult {
	workers := b.cfg.Build.Workers
	if workers < 1 {
		workers = 1
	}

	workCh := make(chan fileWork, len(work))
	rawCh := make(chan fileResult, len(work))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range workCh {
				rawCh <- b.buildNote(w)
			}
		}()
	}

	for _, w := range work {
		workCh <- w
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(rawCh)
	}()

	out := make(chan fileResult, len(work))
	go func() {
		defer close(out)
		processed := 0
		for r := range rawCh {
			processed++
			if progress != nil {
				progress(processed, total, r.path)
			}
			out <- r
		}
	}()
	return out
}
