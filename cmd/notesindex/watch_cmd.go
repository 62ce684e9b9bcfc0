package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dhruvkoshta/Personal-Notes-App/internal/config"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/indexer"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/logger"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/watcher"
)

func watchCmd() *cobra.Command {
	var noEnrich bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the notes directory and rebuild the index on changes",
		Long:  "Monitor the notes directory for markdown changes. Rebuilds the full index artifact after a 2-second debounce.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(noEnrich)
		},
	}
	cmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "Skip AI enrichment on rebuilds")
	return cmd
}

func runWatch(noEnrich bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if noEnrich {
		cfg.Enrich.Provider = "none"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	service := newEnrichService(cfg)
	builder := indexer.New(cfg, service)

	rebuild := func() error {
		idx, stats, err := builder.Build(nil)
		if werr := indexer.WriteIndex(idx, cfg.Notes.Output); werr != nil {
			return werr
		}
		if err != nil {
			return err
		}
		logger.Info("index rebuilt", map[string]interface{}{
			"notes":    stats.NotesIndexed,
			"folders":  stats.Folders,
			"duration": stats.Duration,
		})
		return nil
	}

	// Initial build so the artifact exists before the first change event.
	if err := rebuild(); err != nil {
		logger.Error("initial build failed", err)
	}

	return watcher.Watch(cfg, rebuild)
}
