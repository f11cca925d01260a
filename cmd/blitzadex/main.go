package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "blitzadex",
		Short: "Keep a local copy of the CommunityDragon champion catalog",
		Long: `blitzadex downloads the CommunityDragon plugin listing and every champion
record, caches them under the user cache directory and reports whether the
cached copy is still current.

Commands under "remote" talk to a running blitzadex server instead of the
local cache.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global --json flag
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")

	rootCmd.AddCommand(
		newUpdateCommand(),
		newStatusCommand(),
		newChampionsCommand(),
		newChampionCommand(),
		newPluginsCommand(),
		newTokenCommand(),
		newRemoteCommand(),
	)
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		newOutputFormatter(rootCmd).Error("blitzadex", err)
		stop()
		os.Exit(1)
	}
}
