// Package mcp implements the MCP server for notesindex: a read surface over
// the persisted index artifact plus an on-demand rebuild tool.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Dhruvkoshta/Personal-Notes-App/internal/config"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/enrich"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/indexer"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/note"
)

var (
	cfg             *config.Config
	idx             *note.Index
	idxMu           sync.RWMutex
	lastRebuildTime time.Time
	rebuildMu       sync.Mutex
)

const rebuildCooldown = 60 * time.Second

// Version is set by the caller (main) before calling Serve.
var Version = "dev"

// Serve starts the MCP server on stdio. The index artifact is loaded once at
// startup; the rebuild_index tool refreshes it in place.
func Serve(c *config.Config) error {
	cfg = c

	loaded, err := loadIndex(cfg.Notes.Output)
	if err != nil {
		// A missing artifact is not fatal: the server starts empty and the
		// client can call rebuild_index.
		if !os.IsNotExist(err) {
			return fmt.Errorf("load index: %w", err)
		}
		loaded = &note.Index{Folders: []note.Folder{}, Notes: []note.Note{}}
	}
	setIndex(loaded)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "notesindex",
		Version: Version,
	}, nil)

	registerTools(server)

	return server.Run(context.Background(), &mcp.StdioTransport{})
}

func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_folders",
		Description: "List the folders in the notes index with their note counts. Use this to get an overview of how the notes are organized.\n\nReturns each folder's name, path, and note count.",
	}, handleListFolders)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_notes",
		Description: "List indexed notes, optionally limited to one folder.\n\nArgs:\n  folder: Folder path to limit to (e.g. 'ideas'); empty lists all notes\n\nReturns slug, title, folder, date, and tags per note.",
	}, handleListNotes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_note",
		Description: "Read one note by its slug, including full content and metadata. Use this after list_notes or search_notes returns a relevant slug.\n\nArgs:\n  slug: The note slug (e.g. 'ideas/first')\n\nReturns the full note record.",
	}, handleGetNote)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_notes",
		Description: "Search indexed notes by substring match over title, tags, and content.\n\nArgs:\n  query: Search text\n  limit: Number of results (default 10, max 100)\n\nReturns matching notes with slug, title, folder, and excerpt.",
	}, handleSearchNotes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "rebuild_index",
		Description: "Re-scan the notes directory and rebuild the index artifact. Use this if notes changed and results seem stale. Rate-limited to once per minute.\n\nReturns build statistics.",
	}, handleRebuildIndex)
}

// Tool input types

type listNotesInput struct {
	Folder string `json:"folder,omitempty" jsonschema:"Folder path to limit to; empty lists all notes"`
}

type getNoteInput struct {
	Slug string `json:"slug" jsonschema:"The note slug (e.g. 'ideas/first')"`
}

type searchInput struct {
	Query string `json:"query" jsonschema:"Search text"`
	Limit int    `json:"limit" jsonschema:"Number of results (default 10, max 100)"`
}

type emptyInput struct{}

// noteSummary is the compact listing shape returned by list and search tools.
type noteSummary struct {
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Folder  string   `json:"folder"`
	Date    string   `json:"date,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Excerpt string   `json:"excerpt,omitempty"`
}

// Tool handlers

func handleListFolders(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	current := getIndex()

	type folderSummary struct {
		Name      string `json:"name"`
		Path      string `json:"path"`
		NoteCount int    `json:"noteCount"`
	}
	summaries := make([]folderSummary, 0, len(current.Folders))
	for _, f := range current.Folders {
		summaries = append(summaries, folderSummary{Name: f.Name, Path: f.Path, NoteCount: f.NoteCount})
	}

	data, _ := json.MarshalIndent(summaries, "", "  ")
	return textResult(string(data)), nil, nil
}

func handleListNotes(ctx context.Context, req *mcp.CallToolRequest, input listNotesInput) (*mcp.CallToolResult, any, error) {
	current := getIndex()

	var summaries []noteSummary
	for _, n := range current.Notes {
		if input.Folder != "" && n.Folder != input.Folder {
			continue
		}
		summaries = append(summaries, noteSummary{
			Slug:   n.Slug,
			Title:  n.Frontmatter.Title,
			Folder: n.Folder,
			Date:   n.Frontmatter.Date,
			Tags:   n.Frontmatter.Tags,
		})
	}
	if len(summaries) == 0 {
		if input.Folder != "" {
			return textResult(fmt.Sprintf("No notes found in folder %q.", input.Folder)), nil, nil
		}
		return textResult("The index is empty. Try running rebuild_index first."), nil, nil
	}

	data, _ := json.MarshalIndent(summaries, "", "  ")
	return textResult(string(data)), nil, nil
}

func handleGetNote(ctx context.Context, req *mcp.CallToolRequest, input getNoteInput) (*mcp.CallToolResult, any, error) {
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		return textResult("Error: slug is required."), nil, nil
	}

	found := findBySlug(getIndex(), slug)
	if found == nil {
		return textResult(fmt.Sprintf("No note found for slug %q.", slug)), nil, nil
	}

	data, _ := json.MarshalIndent(found, "", "  ")
	return textResult(string(data)), nil, nil
}

func handleSearchNotes(ctx context.Context, req *mcp.CallToolRequest, input searchInput) (*mcp.CallToolResult, any, error) {
	query := strings.ToLower(strings.TrimSpace(input.Query))
	if query == "" {
		return textResult("Error: query is required."), nil, nil
	}
	limit := clampLimit(input.Limit, 10)

	var matches []noteSummary
	for _, n := range getIndex().Notes {
		if !matchesQuery(n, query) {
			continue
		}
		matches = append(matches, noteSummary{
			Slug:    n.Slug,
			Title:   n.Frontmatter.Title,
			Folder:  n.Folder,
			Tags:    n.Frontmatter.Tags,
			Excerpt: n.Excerpt,
		})
		if len(matches) == limit {
			break
		}
	}
	if len(matches) == 0 {
		return textResult("No results found."), nil, nil
	}

	data, _ := json.MarshalIndent(matches, "", "  ")
	return textResult(string(data)), nil, nil
}

func handleRebuildIndex(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	rebuildMu.Lock()
	defer rebuildMu.Unlock()

	if time.Since(lastRebuildTime) < rebuildCooldown {
		remaining := int(rebuildCooldown.Seconds() - time.Since(lastRebuildTime).Seconds())
		data, _ := json.Marshal(map[string]string{
			"error": fmt.Sprintf("Rebuild cooldown active. Try again in %ds.", remaining),
		})
		return textResult(string(data)), nil, nil
	}
	lastRebuildTime = time.Now()

	var service *enrich.Service
	if client, err := enrich.NewClient(cfg); err == nil {
		service = enrich.NewService(client)
	}

	builder := indexer.New(cfg, service)
	rebuilt, stats, err := builder.Build(nil)
	if err != nil {
		return textResult(fmt.Sprintf("Rebuild error: %v", err)), nil, nil
	}
	if err := indexer.WriteIndex(rebuilt, cfg.Notes.Output); err != nil {
		return textResult(fmt.Sprintf("Write error: %v", err)), nil, nil
	}
	setIndex(rebuilt)

	data, _ := json.MarshalIndent(stats, "", "  ")
	return textResult(string(data)), nil, nil
}

// Helpers

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func clampLimit(limit, defaultVal int) int {
	if limit <= 0 {
		return defaultVal
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func loadIndex(path string) (*note.Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var loaded note.Index
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse index artifact: %w", err)
	}
	return &loaded, nil
}

func getIndex() *note.Index {
	idxMu.RLock()
	defer idxMu.RUnlock()
	return idx
}

func setIndex(newIdx *note.Index) {
	idxMu.Lock()
	idx = newIdx
	idxMu.Unlock()
}

// findBySlug returns the first note with an exact slug match, falling back to
// a case-insensitive comparison. Slugs are lowercase by construction but
// client-supplied input may not be.
func findBySlug(current *note.Index, slug string) *note.Note {
	for i := range current.Notes {
		if current.Notes[i].Slug == slug {
			return &current.Notes[i]
		}
	}
	lower := strings.ToLower(slug)
	for i := range current.Notes {
		if current.Notes[i].Slug == lower {
			return &current.Notes[i]
		}
	}
	return nil
}

func matchesQuery(n note.Note, query string) bool {
	if strings.Contains(strings.ToLower(n.Frontmatter.Title), query) {
		return true
	}
	for _, t := range n.Frontmatter.Tags {
		if strings.Contains(strings.ToLower(t), query) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(n.Content), query)
}
