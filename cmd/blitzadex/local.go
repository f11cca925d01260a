package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/dom/blitzadex/internal/cdragon"
	"github.com/dom/blitzadex/internal/config"
	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/repository"
	"github.com/dom/blitzadex/internal/repository/memory"
	"github.com/dom/blitzadex/internal/repository/postgres"
	"github.com/dom/blitzadex/internal/service"
	"github.com/spf13/cobra"
)

var errNoCache = errors.New("no cached catalog; run `blitzadex update` first")

// workspace is the local catalog plus the services built on it.
type workspace struct {
	cfg      *config.Config
	dragon   *cdragon.CDragon
	services *service.Services
}

func openWorkspace() (*workspace, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	repos := memory.NewRepositories()
	if cfg.DatabaseURL != "" {
		db, err := postgres.NewConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		repos = postgres.NewRepositories(db)
	}

	return newWorkspace(cfg, repos), nil
}

func newWorkspace(cfg *config.Config, repos *repository.Repositories) *workspace {
	dragon := cdragon.New(cdragon.NewClient(cfg), cfg.Paths)
	return &workspace{
		cfg:      cfg,
		dragon:   dragon,
		services: service.NewServices(dragon, repos, nil, cfg),
	}
}

// loadCache fills the workspace from disk and maps a missing cache to errNoCache.
func (ws *workspace) loadCache() error {
	if err := ws.dragon.LoadCached(); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return errNoCache
		}
		return err
	}
	return nil
}

func newUpdateCommand() *cobra.Command {
	var ifStale bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Download the plugin listing and every champion into the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}

			var run *domain.SyncRun
			if ifStale {
				run, err = ws.services.Sync.SyncIfStale(cmd.Context(), domain.SyncTriggerCLI)
			} else {
				run, err = ws.services.Sync.Sync(cmd.Context(), domain.SyncTriggerCLI)
			}
			if err != nil {
				return err
			}

			out := newOutputFormatter(cmd)
			if run == nil {
				return out.Print(map[string]string{"status": domain.StatusUpToDate.String()}, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, "Already up to date")
					return err
				})
			}
			return out.Print(run, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Updated %d plugins and %d champions in %s\nCache: %s\n",
					run.PluginCount, run.ChampionCount, run.Duration().Round(time.Millisecond), ws.cfg.Paths.CacheDir)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&ifStale, "if-stale", false, "Only update when the game data plugin is out of date")
	return cmd
}

type statusOutput struct {
	Plugin string            `json:"plugin"`
	Status domain.SyncStatus `json:"status"`
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status [plugin]",
		Short: "Report whether the cached copy of a plugin is current",
		Long: `Compares the cached modification time of a plugin (rcp-be-lol-game-data by
default) with the one the remote catalog reports. Nothing is downloaded
when the plugin has never been cached.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}

			name := domain.ParsePluginName(ws.cfg.GameDataPlugin)
			if len(args) == 1 {
				name, err = domain.LookupPluginName(args[0])
				if err != nil {
					return err
				}
			}

			status, err := ws.services.Status.Check(cmd.Context(), name)
			if err != nil {
				return err
			}

			return newOutputFormatter(cmd).Print(statusOutput{Plugin: name.String(), Status: status}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s: %s\n", name, status)
				return err
			})
		},
	}
}

func newChampionsCommand() *cobra.Command {
	var filter service.ChampionFilter

	cmd := &cobra.Command{
		Use:   "champions",
		Short: "List cached champions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			if err := ws.loadCache(); err != nil {
				return err
			}

			champions, err := ws.services.Catalog.ListChampions(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := newOutputFormatter(cmd)
			return out.Print(champions, func(w io.Writer) error {
				rows := make([][]string, len(champions))
				for i, c := range champions {
					rows[i] = []string{strconv.FormatUint(c.ID, 10), c.Name, c.Title, strings.Join(c.Roles, ",")}
				}
				return out.Table([]string{"ID", "NAME", "TITLE", "ROLES"}, rows)
			})
		},
	}

	cmd.Flags().StringVar(&filter.Role, "role", "", "Only list champions with this role")
	cmd.Flags().StringVarP(&filter.Search, "search", "q", "", "Only list champions whose name or alias contains this")
	return cmd
}

func newChampionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "champion <id>",
		Short: "Show one cached champion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid champion id %q", args[0])
			}

			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			if err := ws.loadCache(); err != nil {
				return err
			}

			champion, err := ws.services.Catalog.GetChampion(cmd.Context(), id)
			if err != nil {
				return err
			}

			return newOutputFormatter(cmd).Print(champion, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s, %s (#%d)\nRoles: %s\n%s\n",
					champion.Name, champion.Title, champion.ID, strings.Join(champion.Roles, ", "), champion.ShortBio)
				return err
			})
		},
	}
}

func newPluginsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List cached plugins and when they were last modified",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			if err := ws.loadCache(); err != nil {
				return err
			}

			plugins := ws.services.Catalog.ListPlugins()
			out := newOutputFormatter(cmd)
			return out.Print(plugins, func(w io.Writer) error {
				rows := make([][]string, len(plugins))
				for i, p := range plugins {
					rows[i] = []string{p.Name.String(), string(p.Type), domain.FormatMtime(p.Mtime)}
				}
				return out.Table([]string{"NAME", "TYPE", "MODIFIED"}, rows)
			})
		},
	}
}

func newTokenCommand() *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin token for the server's POST /api/v1/sync",
		Long:  "Signs a token with JWT_SECRET. The server must be configured with the same secret.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			token, err := service.NewAuthService(cfg).IssueAdminToken(subject)
			if err != nil {
				return err
			}
			log.Printf("Issued admin token for %q valid for %dh", subject, cfg.JWTExpirationHours)

			return newOutputFormatter(cmd).Print(map[string]string{"token": token}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, token)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "cli", "Subject recorded in the token")
	return cmd
}
