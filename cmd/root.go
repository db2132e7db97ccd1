package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/pomo/internal/config"
	"github.com/joescharf/pomo/internal/daemon"
	"github.com/joescharf/pomo/internal/models"
	"github.com/joescharf/pomo/internal/output"
	"github.com/joescharf/pomo/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui        *output.UI
	logger    *slog.Logger
	dataStore store.Store

	verbose bool
	dryRun  bool
)

// now is replaceable in tests.
var now = time.Now

var rootCmd = &cobra.Command{
	Use:   "pomo",
	Short: "Pomodoro focus timer with statistics",
	Long: `pomo runs Pomodoro focus and break sessions in the terminal, logs every
session, and shows streaks, a daily heatmap, and productivity by hour.

Run without a subcommand for the interactive menu.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if dataStore != nil {
		_ = dataStore.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return menuRun(cmd.Context())
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would happen without making changes")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/pomo/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "pomo")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("POMO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

// setDefaults registers every default with the global viper instance.
func setDefaults() {
	home, _ := os.UserHomeDir()
	stateDir := filepath.Join(home, ".config", "pomo")

	viper.SetDefault("state_dir", stateDir)
	viper.SetDefault("db_path", filepath.Join(stateDir, "pomo.db"))
	viper.SetDefault("log_path", filepath.Join(stateDir, "sessions.jsonl"))
	viper.SetDefault("store.backend", store.BackendSQLite)
	viper.SetDefault("anthropic.api_key", "")
	viper.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	config.SetDefaults(viper.GetViper())
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
	ui.DryRun = dryRun

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize store lazily, only when commands actually need it.
	// This allows config/version commands to run without a db.
}

// getStore returns the shared store, initializing it on first call.
func getStore() (store.Store, error) {
	if dataStore != nil {
		return dataStore, nil
	}

	backend := viper.GetString("store.backend")
	path := viper.GetString("db_path")
	if backend == store.BackendJSON {
		path = viper.GetString("log_path")
	}

	s, err := store.Open(backend, path)
	if err != nil {
		return nil, fmt.Errorf("open session log: %w", err)
	}

	if err := s.Migrate(rootCmd.Context()); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate session log: %w", err)
	}

	logger.Debug("session log opened", "backend", backend, "path", path)
	dataStore = s
	return dataStore, nil
}

// loadConfig returns the validated timer settings.
func loadConfig() (config.Config, error) {
	return config.FromViper(viper.GetViper())
}

// loadRecords reads the full session log. An unreadable log is reported and
// treated as empty so dashboards still render.
func loadRecords(ctx context.Context) []*models.Session {
	s, err := getStore()
	if err != nil {
		ui.Warning("Could not open session log: %v", err)
		return nil
	}
	records, err := s.List(ctx)
	if err != nil {
		ui.Warning("Could not read session log: %v", err)
		return nil
	}
	return records
}

func pidFile() *daemon.PIDFile {
	return daemon.NewPIDFile(filepath.Join(viper.GetString("state_dir"), "pomo.pid"))
}
