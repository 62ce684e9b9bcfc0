// Package watcher monitors the notes root for changes and triggers index
// rebuilds. The artifact is a single JSON document, so every change batch
// results in a full rebuild rather than an incremental patch.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Dhruvkoshta/Personal-Notes-App/internal/cli"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/config"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/logger"
)

// DebounceDelay is how long after the last change event a rebuild waits.
// Editors fire bursts of writes per save; one rebuild covers the batch.
const DebounceDelay = 2 * time.Second

// RebuildFunc runs one full index rebuild.
type RebuildFunc func() error

// Watch monitors the notes root and calls rebuild after each debounced batch
// of markdown changes. It blocks until the watcher channel closes or an
// unrecoverable error occurs.
func Watch(cfg *config.Config, rebuild RebuildFunc) error {
	root := cfg.Notes.Path
	skipDirs := cfg.SkipDirSet()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	dirs := walkDirs(root, skipDirs)
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			logger.Warn("could not watch directory", map[string]interface{}{
				"dir":   d,
				"error": err.Error(),
			})
		}
	}

	fmt.Fprintf(os.Stderr, "Watching %d directories in %s\n", len(dirs), cli.ShortenHome(root))
	fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop.\n\n")

	deb := newDebouncer(DebounceDelay, func(changes int) {
		fmt.Fprintf(os.Stderr, "  Rebuilding index (%d change(s))...\n", changes)
		if err := rebuild(); err != nil {
			logger.Error("rebuild failed", err)
		}
	})

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}

			if !strings.HasSuffix(event.Name, ".md") {
				// New directories need to be added to the watch set so notes
				// created inside them are seen.
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if !skipDirs[filepath.Base(event.Name)] {
							if err := w.Add(event.Name); err != nil {
								logger.Warn("could not watch new directory", map[string]interface{}{
									"dir":   event.Name,
									"error": err.Error(),
								})
							}
							deb.markDirty()
						}
					}
				}
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				deb.markDirty()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", map[string]interface{}{"error": err.Error()})
		}
	}
}

// walkDirs collects every directory under root that is not excluded,
// including root itself.
func walkDirs(root string, skipDirs map[string]bool) []string {
	var dirs []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs
}
