// Root command and store construction for the taskvault CLI.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskvault/taskvault/internal/paths"
	"github.com/taskvault/taskvault/internal/sqlite"
	"github.com/taskvault/taskvault/pkg/types"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagVerbose   bool
)

// configDataDir holds the data_dir value loaded from config.yaml.
// Set by PersistentPreRunE so all subcommands can use it.
var configDataDir string

var rootCmd = &cobra.Command{
	Use:   "taskvault",
	Short: "Taskvault is an embedded task-management store",
	Long: `Taskvault persists a hierarchical task-management domain (users,
lists, labels, tasks, subtasks, reminders, attachments, history) on a
single-node embedded SQLite store. This CLI covers the operational
surface: schema migration, health, stats, integrity audit, backup, and
JSONL export/import.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		configDataDir = cfg.GetString(cfgKeyDataDir)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: ./data)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "debug-level logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// storeConfig assembles the engine configuration from flags and the
// loaded config file. Periodic backups stay off for one-shot CLI
// invocations; the backup command snapshots explicitly.
func storeConfig() types.Config {
	cfg := types.DefaultConfig()
	cfg.Path = paths.DBPath(paths.ResolveDataDir(flagDataDir, configDataDir))
	cfg.Verbose = flagVerbose
	cfg.BackupEnabled = false
	return cfg
}

// openStore initializes the store and brings the schema current.
// Callers must Close it.
func openStore() (*sqlite.Store, error) {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store := sqlite.NewWithLogger(log)
	if err := store.Initialize(storeConfig()); err != nil {
		return nil, err
	}
	if err := store.RunMigrations(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
