package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/joescharf/pomo/internal/config"
	"github.com/joescharf/pomo/internal/store"
)

var configForce bool

// configDirFunc returns the config directory path, replaceable in tests.
var configDirFunc = defaultConfigDir

func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pomo"), nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or manage configuration",
	Long: `Show or manage pomo configuration.

Running bare 'pomo config' is the same as 'pomo config show'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config file with commented defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInitRun()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration with sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open config file in $EDITOR",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configEditRun()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set one value in the config file",
	Long: `Set one value in the config file, creating the file if needed.

Timer lengths and counts must be positive integers.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return configSetRun(args[0], args[1])
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configTemplate is the template for generating config.yaml with comments.
const configTemplate = `# pomo configuration
# See: pomo config show (for effective values and sources)

# Session lengths in minutes
focus_minutes: {{ .FocusMinutes }}
short_break_minutes: {{ .ShortBreakMinutes }}
long_break_minutes: {{ .LongBreakMinutes }}

# Completed focus sessions before a long break is offered
sessions_before_long_break: {{ .SessionsBeforeLongBreak }}

# Completed focus sessions per day that count as meeting the goal
daily_goal_sessions: {{ .DailyGoalSessions }}

# Show a quote on the main menu
motivational_quotes: {{ .MotivationalQuotes }}

# State/data directory (default: ~/.config/pomo)
# state_dir: {{ .StateDir }}

# Session log
store:
  # sqlite (default) or json
  backend: "{{ .Backend }}"

# SQLite database path, used by the sqlite backend
# db_path: {{ .DBPath }}

# JSON lines log path, used by the json backend
# log_path: {{ .LogPath }}

# Anthropic (optional): personalised menu nudges instead of static quotes
anthropic:
  # api_key may also come from ANTHROPIC_API_KEY
  model: "{{ .AnthropicModel }}"
`

type configTemplateData struct {
	config.Config
	StateDir       string
	Backend        string
	DBPath         string
	LogPath        string
	AnthropicModel string
}

func configFilePath() (string, error) {
	if f := viper.ConfigFileUsed(); f != "" {
		return f, nil
	}
	dir, err := configDirFunc()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func configInitRun() error {
	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	// Check if file already exists
	if _, err := os.Stat(cfgPath); err == nil {
		if !configForce {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", cfgPath)
		}
		ui.Warning("Overwriting existing config file")
	}

	// Build template data from current viper values
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data := configTemplateData{
		Config:         cfg,
		StateDir:       viper.GetString("state_dir"),
		Backend:        viper.GetString("store.backend"),
		DBPath:         viper.GetString("db_path"),
		LogPath:        viper.GetString("log_path"),
		AnthropicModel: viper.GetString("anthropic.model"),
	}

	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("template execute error: %w", err)
	}

	if dryRun {
		ui.DryRunMsg("Would create config file: %s", cfgPath)
		fmt.Fprintln(ui.Out)
		fmt.Fprint(ui.Out, buf.String())
		return nil
	}

	if err := writeConfigFile(cfgPath, buf.Bytes()); err != nil {
		return err
	}

	ui.Success("Config file created: %s", cfgPath)
	fmt.Fprintln(ui.Out)
	fmt.Fprint(ui.Out, buf.String())
	return nil
}

func writeConfigFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// configKeyInfo describes a config key for display purposes.
type configKeyInfo struct {
	Key    string
	EnvVar string
}

var configKeys = []configKeyInfo{
	{Key: config.KeyFocusMinutes, EnvVar: "POMO_FOCUS_MINUTES"},
	{Key: config.KeyShortBreakMinutes, EnvVar: "POMO_SHORT_BREAK_MINUTES"},
	{Key: config.KeyLongBreakMinutes, EnvVar: "POMO_LONG_BREAK_MINUTES"},
	{Key: config.KeySessionsBeforeLongBreak, EnvVar: "POMO_SESSIONS_BEFORE_LONG_BREAK"},
	{Key: config.KeyDailyGoalSessions, EnvVar: "POMO_DAILY_GOAL_SESSIONS"},
	{Key: config.KeyMotivationalQuotes, EnvVar: "POMO_MOTIVATIONAL_QUOTES"},
	{Key: "state_dir", EnvVar: "POMO_STATE_DIR"},
	{Key: "store.backend", EnvVar: "POMO_STORE_BACKEND"},
	{Key: "db_path", EnvVar: "POMO_DB_PATH"},
	{Key: "log_path", EnvVar: "POMO_LOG_PATH"},
	{Key: "anthropic.model", EnvVar: "POMO_ANTHROPIC_MODEL"},
}

func configShowRun() error {
	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	// Check if config file exists
	if _, err := os.Stat(cfgPath); err == nil {
		ui.Info("Config file: %s", cfgPath)
	} else {
		ui.Info("Config file: (none)")
	}
	fmt.Fprintln(ui.Out)

	// Read config file values to determine file source
	fileValues := readConfigFileValues(cfgPath)

	for _, k := range configKeys {
		val := viper.Get(k.Key)
		source := detectSource(k.Key, k.EnvVar, fileValues)
		fmt.Fprintf(ui.Out, "  %-28s %v  %s\n", k.Key, val, source)
	}

	if _, err := loadConfig(); err != nil {
		fmt.Fprintln(ui.Out)
		ui.Warning("%v", err)
	}
	return nil
}

// readConfigFileValues reads the raw YAML file and returns a flat map of keys present in it.
func readConfigFileValues(path string) map[string]bool {
	result := make(map[string]bool)

	parsed, err := readConfigMap(path)
	if err != nil {
		return result
	}

	// Flatten nested keys with dot notation
	flattenKeys("", parsed, result)
	return result
}

// readConfigMap parses the YAML file into a generic map. A missing file
// yields an empty map.
func readConfigMap(path string) (map[string]any, error) {
	parsed := make(map[string]any)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return parsed, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if parsed == nil {
		parsed = make(map[string]any)
	}
	return parsed, nil
}

// flattenKeys recursively flattens a nested map to dot-notation keys.
func flattenKeys(prefix string, m map[string]any, result map[string]bool) {
	for key, val := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			flattenKeys(fullKey, nested, result)
		} else {
			result[fullKey] = true
		}
	}
}

// detectSource determines where a config value is coming from.
func detectSource(key, envVar string, fileValues map[string]bool) string {
	if _, ok := os.LookupEnv(envVar); ok {
		return fmt.Sprintf("(env: %s)", envVar)
	}
	if fileValues[key] {
		return "(file)"
	}
	return "(default)"
}

// parseConfigValue converts raw into the type stored for key, rejecting
// unknown keys and out-of-range values.
func parseConfigValue(key, raw string) (any, error) {
	switch {
	case slices.Contains(config.IntKeys(), key):
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer, got %q", config.ErrInvalid, key, raw)
		}
		if err := config.ValidateInt(key, n); err != nil {
			return nil, err
		}
		return n, nil
	case key == config.KeyMotivationalQuotes:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be true or false, got %q", config.ErrInvalid, key, raw)
		}
		return b, nil
	case key == "store.backend":
		if raw != store.BackendSQLite && raw != store.BackendJSON {
			return nil, fmt.Errorf("%w: store.backend must be %s or %s, got %q",
				config.ErrInvalid, store.BackendSQLite, store.BackendJSON, raw)
		}
		return raw, nil
	case slices.Contains([]string{"state_dir", "db_path", "log_path", "anthropic.model", "anthropic.api_key"}, key):
		return raw, nil
	default:
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
}

// setNested assigns val at a dot-separated key, creating maps as needed.
func setNested(m map[string]any, key string, val any) {
	parts := strings.Split(key, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = val
}

func configSetRun(key, raw string) error {
	val, err := parseConfigValue(key, raw)
	if err != nil {
		return err
	}

	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}
	parsed, err := readConfigMap(cfgPath)
	if err != nil {
		return err
	}
	setNested(parsed, key, val)

	data, err := yaml.Marshal(parsed)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if dryRun {
		ui.DryRunMsg("Would set %s = %v in %s", key, val, cfgPath)
		return nil
	}
	if err := writeConfigFile(cfgPath, data); err != nil {
		return err
	}
	viper.Set(key, val)
	ui.Success("Set %s = %v", key, val)
	return nil
}

func configEditRun() error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		return fmt.Errorf("$EDITOR is not set, set it to your preferred editor (e.g. export EDITOR=vim)")
	}

	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s (run 'pomo config init' first)", cfgPath)
	}

	if dryRun {
		ui.DryRunMsg("Would open %s in %s", cfgPath, editor)
		return nil
	}

	editCmd := exec.Command(editor, cfgPath)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	return editCmd.Run()
}
