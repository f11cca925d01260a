package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

const defaultServerURL = "http://localhost:8080"

func newRemoteCommand() *cobra.Command {
	var (
		serverURL string
		token     string
	)

	remoteCmd := &cobra.Command{
		Use:   "remote",
		Short: "Query or drive a running blitzadex server",
	}
	remoteCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("BLITZADEX_SERVER", defaultServerURL), "Server base URL")
	remoteCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("BLITZADEX_TOKEN"), "Admin token (see `blitzadex token`)")

	client := func() *APIClient {
		return NewAPIClient(serverURL, token)
	}

	statusCmd := &cobra.Command{
		Use:   "status [plugin]",
		Short: "Report whether the server's copy of a plugin is current",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plugin := ""
			if len(args) == 1 {
				plugin = args[0]
			}

			status, err := client().Status(cmd.Context(), plugin)
			if err != nil {
				return err
			}

			return newOutputFormatter(cmd).Print(status, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s: %s (aggregate %s, %d champions)\n",
					status.Plugin, status.Status, status.Aggregate, status.ChampionCount)
				return err
			})
		},
	}

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Trigger a full sync on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("an admin token is required; pass --token or set BLITZADEX_TOKEN")
			}

			run, err := client().Sync(cmd.Context())
			if err != nil {
				return err
			}

			return newOutputFormatter(cmd).Print(run, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Run %s %s: %d plugins, %d champions in %s\n",
					run.ID, run.Outcome, run.PluginCount, run.ChampionCount, run.Duration().Round(time.Millisecond))
				return err
			})
		},
	}

	var limit int
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent sync runs on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := client().Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := newOutputFormatter(cmd)
			return out.Print(runs, func(w io.Writer) error {
				rows := make([][]string, len(runs))
				for i, r := range runs {
					rows[i] = []string{
						r.StartedAt.Format(time.RFC3339),
						string(r.Trigger),
						string(r.Outcome),
						strconv.Itoa(r.ChampionCount),
						r.Error,
					}
				}
				return out.Table([]string{"STARTED", "TRIGGER", "OUTCOME", "CHAMPIONS", "ERROR"}, rows)
			})
		},
	}
	runsCmd.Flags().IntVar(&limit, "limit", 10, "Number of runs to show")

	remoteCmd.AddCommand(statusCmd, syncCmd, runsCmd)
	return remoteCmd
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
