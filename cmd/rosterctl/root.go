package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/roster/internal/config"
	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/JonMunkholm/roster/internal/store"
)

// app holds state shared by subcommands. The service is opened in the root
// PersistentPreRunE; close releases the store after Execute returns, whether
// or not the command failed.
type app struct {
	dbDriver string
	dbURL    string
	format   string
	logLevel string

	cfg        *config.Config
	service    *core.Service
	closeStore func()
}

func newRootCommand(version string) (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:     "rosterctl",
		Short:   "Import drivers and inspect team rosters",
		Version: version,
		Long: `rosterctl imports driver CSV files into a team roster and queries the
result. It reads the same environment (DATABASE_URL, DB_DRIVER, ...) as the
server and loads a .env file from the working directory when present.`,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.dbDriver, "db-driver", "", "database driver: postgres or sqlite (overrides DB_DRIVER)")
	flags.StringVar(&a.dbURL, "db-url", "", "database URL or sqlite path (overrides DATABASE_URL)")
	flags.StringVarP(&a.format, "format", "o", "", "output format: table, json, yaml (default: table on a terminal, json otherwise)")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newImportCommand(a),
		newDriversCommand(a),
		newLogCommand(a),
	)
	return root, a
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if _, err := parseFormat(a.format); err != nil {
		return err
	}

	// A missing .env is fine; real environment variables win.
	_ = godotenv.Load()

	if a.dbDriver != "" {
		if err := os.Setenv("DB_DRIVER", a.dbDriver); err != nil {
			return err
		}
	}
	if a.dbURL != "" {
		if err := os.Setenv("DATABASE_URL", a.dbURL); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// stdout carries command output only.
	slog.SetDefault(logging.New(cmd.ErrOrStderr(), a.logLevel, cfg.Logging.Format))
	slog.Debug("configuration loaded", "config", cfg.String())

	st, closeStore, err := store.Open(cmd.Context(), cfg.Database)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Database.Driver, err)
	}

	a.cfg = cfg
	a.closeStore = closeStore
	a.service = core.NewService(st, core.WithTimeout(cfg.Import.Timeout))
	return nil
}

func (a *app) close() {
	if a.closeStore != nil {
		a.closeStore()
		a.closeStore = nil
	}
}

// outputFormat resolves --format against the terminal state of stdout.
func (a *app) outputFormat(cmd *cobra.Command) Format {
	f, _ := parseFormat(a.format)
	if f != "" {
		return f
	}
	return detectFormat(cmd.OutOrStdout())
}

func parseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "", FormatTable, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
}
