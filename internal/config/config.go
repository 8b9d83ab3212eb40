// Package config loads fstctl's configuration: the dedup cache budget
// used when building an FST, and the default fuzzy-search parameters.
// It follows the same global/project/CLI precedence chain as the
// teacher's own root-level config loader, reading HuJSON (JSON with
// comments and trailing commas) at every layer.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

// Config holds all configuration options for fstctl.
type Config struct {
	DedupCacheBytes     uint64 `json:"dedup_cache_bytes,omitempty"` //nolint:tagliatelle
	DefaultEditDistance int    `json:"default_edit_distance,omitempty"`
	UseDamerau          bool   `json:"use_damerau,omitempty"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string
	Project string
}

// DefaultConfig returns fstctl's built-in defaults.
func DefaultConfig() Config {
	return Config{
		DedupCacheBytes:     64 << 20,
		DefaultEditDistance: 2,
		UseDamerau:          false,
	}
}

// ConfigFileName is the default project config file name.
const ConfigFileName = ".fstctl.json"

// getGlobalConfigPath returns $XDG_CONFIG_HOME/fstctl/config.json, or
// ~/.config/fstctl/config.json, or "" if no home directory is known.
func getGlobalConfigPath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok {
			return filepath.Join(after, "fstctl", "config.json")
		}
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "fstctl", "config.json")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".config", "fstctl", "config.json")
	}

	return ""
}

// Load loads configuration with the following precedence (highest wins):
//  1. Defaults
//  2. Global user config
//  3. Project config file (.fstctl.json) or an explicit configPath
//  4. CLI overrides
func Load(workDir, configPath string, cliOverrides Config, hasOverrides map[string]bool, env []string) (Config, ConfigSources, error) {
	cfg := DefaultConfig()
	var sources ConfigSources

	globalCfg, globalPath, err := loadGlobalConfig(env)
	if err != nil {
		return Config{}, ConfigSources{}, err
	}
	sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	projectCfg, projectPath, err := loadProjectConfig(workDir, configPath)
	if err != nil {
		return Config{}, ConfigSources{}, err
	}
	sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	if hasOverrides["dedup_cache_bytes"] {
		cfg.DedupCacheBytes = cliOverrides.DedupCacheBytes
	}
	if hasOverrides["default_edit_distance"] {
		cfg.DefaultEditDistance = cliOverrides.DefaultEditDistance
	}
	if hasOverrides["use_damerau"] {
		cfg.UseDamerau = cliOverrides.UseDamerau
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, ConfigSources{}, err
	}

	return cfg, sources, nil
}

func loadGlobalConfig(env []string) (Config, string, error) {
	path := getGlobalConfigPath(env)
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
	var cfgFile string
	var mustExist bool

	if configPath != "" {
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}
		mustExist = true

		if _, err := os.Stat(cfgFile); err != nil {
			return Config{}, "", fmt.Errorf("%w: %s", errConfigFileNotFound, configPath)
		}
	} else {
		cfgFile = filepath.Join(workDir, ConfigFileName)
		mustExist = false
	}

	cfg, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}
	if !loaded {
		return Config{}, "", nil
	}
	return cfg, cfgFile, nil
}

func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}
		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", errConfigFileRead, path)
		}
		return Config{}, false, nil
	}

	cfg, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, parseErr)
	}
	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
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

func mergeConfig(base, overlay Config) Config {
	if overlay.DedupCacheBytes != 0 {
		base.DedupCacheBytes = overlay.DedupCacheBytes
	}
	if overlay.DefaultEditDistance != 0 {
		base.DefaultEditDistance = overlay.DefaultEditDistance
	}
	base.UseDamerau = base.UseDamerau || overlay.UseDamerau
	return base
}

func validateConfig(cfg Config) error {
	if cfg.DefaultEditDistance < 0 {
		return errNegativeEditDistance
	}
	return nil
}

// Format returns cfg as formatted JSON.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}
	return string(data), nil
}
