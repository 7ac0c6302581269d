// ABOUTME: Root command, global flags and shared setup for the habits CLI
// ABOUTME: Opens the configured store and journal engine for each subcommand
package commands

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/habit-journal/internal/charm"
	"github.com/harper/habit-journal/internal/config"
	"github.com/harper/habit-journal/internal/journal"
	"github.com/harper/habit-journal/internal/logging"
	"github.com/harper/habit-journal/internal/storage"
)

// Global flags
var (
	verbose      bool
	quiet        bool
	outputFormat string
	ephemeral    bool
)

// openStore builds the backing store for a config; tests replace it
var openStore = defaultOpenStore

// newClock supplies the time source; tests replace it
var newClock = clockwork.NewRealClock

const banner = `
█   █  ███  ████  ███ █████  ████
█   █ █   █ █   █  █    █   █
█████ █████ ████   █    █    ███
█   █ █   █ █   █  █    █       █
█   █ █   █ ████  ███   █   ████
`

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habits",
		Short: "Daily habit checklist and diary for a fixed-length challenge",
		Long: banner + `
Track a fixed set of daily habits through a 30-day challenge.

Each day gets one checkbox per habit and a free-text diary entry.
Edits are kept as a draft until you save the day; saving the same
day again overwrites it. When the date changes the checklist resets
while the history stays.

Data lives in a local file under your XDG data directory by default,
in a SQLite database with HABITS_STORE=sqlite, or in Charm cloud
storage with HABITS_STORE=charm.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			switch outputFormat {
			case "auto", "table", "json":
				return nil
			default:
				return fmt.Errorf("--format must be auto, table or json, got %q", outputFormat)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logging)")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print results and errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")
	cmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Use an in-memory store that is discarded on exit")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewTodayCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewUncheckCmd())
	cmd.AddCommand(NewToggleCmd())
	cmd.AddCommand(NewDiaryCmd())
	cmd.AddCommand(NewSaveCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCatalogCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// app bundles what a subcommand needs to work with the journal
type app struct {
	cfg    *config.Config
	logger *log.Logger
	engine *journal.Engine
	close  func() error
}

// openApp loads config, opens the store and loads the journal
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if ephemeral {
		cfg.Store = config.StoreMemory
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	} else if quiet {
		level = "error"
	}
	logger := logging.New(cmd.ErrOrStderr(), level)

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	logger.Debug("storage opened", "store", cfg.Store)

	engine := journal.New(store,
		journal.WithClock(newClock()),
		journal.WithLogger(logger),
		journal.WithChallengeDays(cfg.ChallengeDays),
		journal.WithStorageKey(cfg.StorageKey),
	)
	report := engine.Load()
	if report.Corrupt && !quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: stored journal could not be read; started a fresh one")
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		engine: engine,
		close:  closeStore,
	}, nil
}

// Close releases the store
func (a *app) Close() {
	if a.close == nil {
		return
	}
	if err := a.close(); err != nil {
		a.logger.Warn("closing storage", "err", err)
	}
}

func defaultOpenStore(cfg *config.Config) (storage.Store, func() error, error) {
	switch cfg.Store {
	case config.StoreCharm:
		client, err := charm.NewClient(&charm.Config{
			Host:     cfg.CharmHost,
			DBName:   cfg.CharmDBName,
			AutoSync: cfg.AutoSync,
		})
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	case config.StoreSQLite:
		path := ""
		if cfg.DataDir != "" {
			path = filepath.Join(cfg.DataDir, "habits.db")
		}
		store, err := storage.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.StoreMemory:
		return storage.NewMemoryStore(), nil, nil
	default:
		store, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
}

// wantJSON reports whether output should be JSON
func wantJSON() bool {
	return outputFormat == "json"
}
