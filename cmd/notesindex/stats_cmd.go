package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dhruvkoshta/Personal-Notes-App/internal/config"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/note"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show statistics from the current index artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}
}

func runStats() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cfg.Notes.Output)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no index found at %s — run 'notesindex build' first", cfg.Notes.Output)
		}
		return err
	}

	var idx note.Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return fmt.Errorf("parse index artifact: %w", err)
	}

	tagged := 0
	described := 0
	tagSet := make(map[string]bool)
	for _, n := range idx.Notes {
		if len(n.Frontmatter.Tags) > 0 {
			tagged++
		}
		if n.Frontmatter.Description != "" {
			described++
		}
		for _, t := range n.Frontmatter.Tags {
			tagSet[t] = true
		}
	}

	info, _ := os.Stat(cfg.Notes.Output)
	out := map[string]interface{}{
		"artifact":        cfg.Notes.Output,
		"notes":           len(idx.Notes),
		"folders":         len(idx.Folders),
		"notes_tagged":    tagged,
		"notes_described": described,
		"unique_tags":     len(tagSet),
	}
	if info != nil {
		out["size_bytes"] = info.Size()
		out["modified"] = info.ModTime().UTC().Format("2006-01-02T15:04:05Z")
	}

	pretty, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(pretty))
	return nil
}
