package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Dhruvkoshta/Personal-Notes-App/internal/note"
)

func testIndex() *note.Index {
	return &note.Index{
		Folders: []note.Folder{
			{Name: "ideas", Path: "ideas", NoteCount: 2},
			{Name: "work", Path: "work", NoteCount: 1},
		},
		Notes: []note.Note{
			{
				Slug:   "ideas/first",
				Folder: "ideas",
				Frontmatter: note.Frontmatter{
					Title: "First Idea",
					Tags:  []string{"brainstorm"},
				},
				Content: "Some big idea about distributed systems.",
				Excerpt: "Some big idea...",
			},
			{
				Slug:   "ideas/second",
				Folder: "ideas",
				Frontmatter: note.Frontmatter{
					Title: "Second Idea",
				},
				Content: "Another thought.",
			},
			{
				Slug:   "work/standup",
				Folder: "work",
				Frontmatter: note.Frontmatter{
					Title: "Standup Notes",
					Tags:  []string{"meetings"},
				},
				Content: "Discussed the distributed cache.",
			},
		},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestHandleListFolders(t *testing.T) {
	setIndex(testIndex())

	res, _, err := handleListFolders(context.Background(), nil, emptyInput{})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	text := resultText(t, res)

	var folders []map[string]interface{}
	if err := json.Unmarshal([]byte(text), &folders); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(folders) != 2 {
		t.Errorf("folders = %d, want 2", len(folders))
	}
	if folders[0]["path"] != "ideas" || folders[0]["noteCount"] != float64(2) {
		t.Errorf("first folder = %v", folders[0])
	}
}

func TestHandleListNotes(t *testing.T) {
	setIndex(testIndex())

	res, _, err := handleListNotes(context.Background(), nil, listNotesInput{})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var all []noteSummary
	if err := json.Unmarshal([]byte(resultText(t, res)), &all); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("notes = %d, want 3", len(all))
	}

	res, _, err = handleListNotes(context.Background(), nil, listNotesInput{Folder: "work"})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var workOnly []noteSummary
	if err := json.Unmarshal([]byte(resultText(t, res)), &workOnly); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(workOnly) != 1 || workOnly[0].Slug != "work/standup" {
		t.Errorf("work notes = %v", workOnly)
	}
}

func TestHandleListNotesUnknownFolder(t *testing.T) {
	setIndex(testIndex())

	res, _, err := handleListNotes(context.Background(), nil, listNotesInput{Folder: "nope"})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(resultText(t, res), "No notes found") {
		t.Errorf("unexpected result: %s", resultText(t, res))
	}
}

func TestHandleGetNote(t *testing.T) {
	setIndex(testIndex())

	res, _, err := handleGetNote(context.Background(), nil, getNoteInput{Slug: "ideas/first"})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var n note.Note
	if err := json.Unmarshal([]byte(resultText(t, res)), &n); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if n.Frontmatter.Title != "First Idea" {
		t.Errorf("Title = %q", n.Frontmatter.Title)
	}

	// Case-insensitive fallback
	res, _, err = handleGetNote(context.Background(), nil, getNoteInput{Slug: "Ideas/First"})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &n); err != nil {
		t.Fatalf("case-insensitive lookup failed: %s", resultText(t, res))
	}

	res, _, err = handleGetNote(context.Background(), nil, getNoteInput{Slug: "missing/slug"})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(resultText(t, res), "No note found") {
		t.Errorf("unexpected result: %s", resultText(t, res))
	}
}

func TestHandleSearchNotes(t *testing.T) {
	setIndex(testIndex())

	res, _, err := handleSearchNotes(context.Background(), nil, searchInput{Query: "distributed"})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var matches []noteSummary
	if err := json.Unmarshal([]byte(resultText(t, res)), &matches); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("matches = %d, want 2 (content matches)", len(matches))
	}

	// Tag match
	res, _, _ = handleSearchNotes(context.Background(), nil, searchInput{Query: "meetings"})
	matches = nil
	if err := json.Unmarshal([]byte(resultText(t, res)), &matches); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(matches) != 1 || matches[0].Slug != "work/standup" {
		t.Errorf("tag match = %v", matches)
	}

	// No hits
	res, _, _ = handleSearchNotes(context.Background(), nil, searchInput{Query: "zzzzz"})
	if !strings.Contains(resultText(t, res), "No results") {
		t.Errorf("unexpected result: %s", resultText(t, res))
	}

	// Missing query
	res, _, _ = handleSearchNotes(context.Background(), nil, searchInput{})
	if !strings.Contains(resultText(t, res), "query is required") {
		t.Errorf("unexpected result: %s", resultText(t, res))
	}
}

func TestClampLimit(t *testing.T) {
	if got := clampLimit(0, 10); got != 10 {
		t.Errorf("clampLimit(0) = %d, want default", got)
	}
	if got := clampLimit(-5, 10); got != 10 {
		t.Errorf("clampLimit(-5) = %d, want default", got)
	}
	if got := clampLimit(500, 10); got != 100 {
		t.Errorf("clampLimit(500) = %d, want 100", got)
	}
	if got := clampLimit(7, 10); got != 7 {
		t.Errorf("clampLimit(7) = %d", got)
	}
}

func TestLoadIndex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "idx.json")

	data, _ := json.Marshal(testIndex())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := loadIndex(path)
	if err != nil {
		t.Fatalf("loadIndex() error: %v", err)
	}
	if len(loaded.Notes) != 3 {
		t.Errorf("notes = %d, want 3", len(loaded.Notes))
	}

	if _, err := loadIndex(filepath.Join(dir, "missing.json")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got: %v", err)
	}

	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadIndex(path); err == nil {
		t.Error("expected error for corrupt artifact")
	}
}
