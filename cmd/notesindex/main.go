// Package main is the entrypoint for the notesindex CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Dhruvkoshta/Personal-Notes-App/internal/config"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/logger"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// .env is optional; GEMINI_API_KEY usually lives there during development.
	_ = godotenv.Load()

	var verbose bool

	root := &cobra.Command{
		Use:   "notesindex",
		Short: "Build the notes index for the personal notes site",
		Long:  "notesindex — scans a markdown notes directory and builds the JSON index artifact the web client browses.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "info"
			if verbose {
				level = "debug"
			}
			return logger.Init(level)
		},
	}

	root.AddCommand(buildCmd())
	root.AddCommand(watchCmd())
	root.AddCommand(statsCmd())
	root.AddCommand(configCmd())
	root.AddCommand(mcpCmd())
	root.AddCommand(versionCmd())

	root.PersistentFlags().StringVar(&config.NotesOverride, "notes", "", "Notes directory (overrides config and NOTES_DIR)")
	root.PersistentFlags().StringVar(&config.OutputOverride, "output", "", "Index artifact path (overrides config and NOTES_INDEX_OUTPUT)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the notesindex version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("notesindex %s\n", Version)
			return nil
		},
	}
}
