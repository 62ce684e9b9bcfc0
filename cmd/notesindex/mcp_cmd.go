package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dhruvkoshta/Personal-Notes-App/internal/config"
	mcpserver "github.com/Dhruvkoshta/Personal-Notes-App/internal/mcp"
)

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP stdio server over the index artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			mcpserver.Version = Version
			return mcpserver.Serve(cfg)
		},
	}
}
