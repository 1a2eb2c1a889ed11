// Package watchconfig loads locwatchd configuration from a
// defaults -> global -> project -> CLI precedence chain, same shape and
// same JSONC-via-hujson parsing the teacher's config loader uses.
// cmd/headerctl does not read this configuration.
package watchconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

// Config holds locwatchd's tunables.
type Config struct {
	WatchDir        string `json:"watch_dir"`
	LocationID      int64  `json:"location_id"`
	TickIntervalMS  int    `json:"tick_interval_ms"`
	LogLevel        string `json:"log_level,omitempty"`
	VaultHeaderPath string `json:"vault_header_path,omitempty"`
}

// Sources records which config files, if any, contributed to the final
// Config, for diagnostic output.
type Sources struct {
	Global  string
	Project string
}

// DefaultConfig returns locwatchd's out-of-the-box configuration.
func DefaultConfig() Config {
	return Config{
		WatchDir:       ".",
		LocationID:     1,
		TickIntervalMS: 100,
		LogLevel:       "info",
	}
}

// ConfigFileName is the project-local config file name, analogous to the
// teacher's .tk.json.
const ConfigFileName = ".locwatch.json"

func globalConfigPath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok {
			return filepath.Join(after, "locwatchd", "config.json")
		}
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "locwatchd", "config.json")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".config", "locwatchd", "config.json")
	}

	return ""
}

// Load resolves configuration with the following precedence (highest
// wins): defaults, global user config, project config (or an explicit
// configPath), then cliOverrides. Of cliOverrides only WatchDir is applied,
// and only when hasWatchDirOverride is true.
func Load(workDir, configPath string, cliOverrides Config, hasWatchDirOverride bool, env []string) (Config, Sources, error) {
	cfg := DefaultConfig()

	var sources Sources

	globalCfg, globalPath, err := loadGlobalConfig(env)
	if err != nil {
		return Config{}, Sources{}, err
	}

	sources.Global = globalPath
	cfg = merge(cfg, globalCfg)

	projectCfg, projectPath, err := loadProjectConfig(workDir, configPath)
	if err != nil {
		return Config{}, Sources{}, err
	}

	sources.Project = projectPath
	cfg = merge(cfg, projectCfg)

	if hasWatchDirOverride {
		cfg.WatchDir = cliOverrides.WatchDir
	}

	if err := validate(cfg); err != nil {
		return Config{}, Sources{}, err
	}

	return cfg, sources, nil
}

func loadGlobalConfig(env []string) (Config, string, error) {
	path := globalConfigPath(env)
	if path == "" {
		return Config{}, "", nil
	}

	cfg, loaded, err := loadConfigFile(path, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return cfg, path, nil
}

func loadProjectConfig(workDir, configPath string) (Config, string, error) {
	var (
		path      string
		mustExist bool
	)

	if configPath != "" {
		path = configPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}

		mustExist = true

		if _, err := os.Stat(path); err != nil {
			return Config{}, "", fmt.Errorf("%w: %s", errConfigFileNotFound, configPath)
		}
	} else {
		path = filepath.Join(workDir, ConfigFileName)
		mustExist = false
	}

	cfg, loaded, err := loadConfigFile(path, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return cfg, path, nil
}

func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", errConfigFileRead, path)
		}

		return Config{}, false, nil
	}

	cfg, err := parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	return cfg, true, nil
}

func parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.WatchDir != "" {
		base.WatchDir = overlay.WatchDir
	}

	if overlay.LocationID != 0 {
		base.LocationID = overlay.LocationID
	}

	if overlay.TickIntervalMS != 0 {
		base.TickIntervalMS = overlay.TickIntervalMS
	}

	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}

	if overlay.VaultHeaderPath != "" {
		base.VaultHeaderPath = overlay.VaultHeaderPath
	}

	return base
}

func validate(cfg Config) error {
	if cfg.WatchDir == "" {
		return errWatchDirEmpty
	}

	return nil
}

// Format returns cfg as pretty-printed JSON, for a --show-config flag.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("watchconfig: format: %w", err)
	}

	return string(data), nil
}
