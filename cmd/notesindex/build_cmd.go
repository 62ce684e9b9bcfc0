package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dhruvkoshta/Personal-Notes-App/internal/cli"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/config"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/enrich"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/indexer"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/logger"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/note"
)

func buildCmd() *cobra.Command {
	var (
		noEnrich bool
		workers  int
		quiet    bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Scan the notes directory and write the index artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(noEnrich, workers, quiet)
		},
	}
	cmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "Skip AI enrichment; use extracted metadata only")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size (overrides config)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress per-file progress output")
	return cmd
}

func runBuild(noEnrich bool, workers int, quiet bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if workers > 0 {
		cfg.Build.Workers = workers
	}
	if noEnrich {
		cfg.Enrich.Provider = "none"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	service := newEnrichService(cfg)

	var progress indexer.ProgressFunc
	if !quiet {
		progress = func(current, total int, notePath string) {
			fmt.Fprintf(os.Stderr, "  [%d/%d] %s\n", current, total, notePath)
		}
	}

	builder := indexer.New(cfg, service)
	idx, stats, buildErr := builder.Build(progress)

	// Even a failed walk produces an artifact: the client always has a valid
	// (possibly empty) index to load.
	if err := indexer.WriteIndex(idx, cfg.Notes.Output); err != nil {
		return err
	}

	printFolderSummary(idx)

	data, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(data))

	if buildErr != nil {
		return fmt.Errorf("build incomplete: %w", buildErr)
	}
	return nil
}

// newEnrichService constructs the enrichment service, degrading to none when
// the provider cannot be set up. A broken provider never blocks the build.
func newEnrichService(cfg *config.Config) *enrich.Service {
	client, err := enrich.NewClient(cfg)
	if err != nil {
		if errors.Is(err, enrich.ErrDisabled) {
			logger.Info("enrichment disabled")
		} else {
			logger.Warn("enrichment unavailable, building without it", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return nil
	}
	logger.Info("enrichment enabled", map[string]interface{}{
		"provider": client.Provider(),
	})
	return enrich.NewService(client)
}

func printFolderSummary(idx *note.Index) {
	if len(idx.Folders) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "\n%sFolders%s\n", cli.Bold, cli.Reset)
	for _, f := range idx.Folders {
		fmt.Fprintf(os.Stderr, "  %-30s %s\n", f.Path, cli.Pluralize(f.NoteCount, "note"))
	}
	fmt.Fprintf(os.Stderr, "  %s%s notes indexed%s\n\n",
		cli.Dim, cli.FormatNumber(len(idx.Notes)), cli.Reset)
}
