package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// UserConfig represents the user's custom configuration
type UserConfig struct {
	Appearance AppearanceConfig `toml:"appearance"`
	Grid       GridConfig       `toml:"grid"`
	Input      InputConfig      `toml:"input"`
}

// AppearanceConfig holds appearance-related settings
type AppearanceConfig struct {
	Theme          string `toml:"theme"`           // Palette theme name (e.g., classic, dracula, nord)
	PreferredShell string `toml:"preferred_shell"` // Preferred shell: if empty, auto-detect based on platform.
	ShowStatusBar  *bool  `toml:"show_status_bar"` // Show the session status bar (default: true)
}

// GridConfig holds session grid dimensions
type GridConfig struct {
	Rows int `toml:"rows"` // Session grid height in rows (default: 37, min: 2)
	Cols int `toml:"cols"` // Session grid width in columns (default: 128, min: 2)
}

// InputConfig holds input routing settings
type InputConfig struct {
	HotkeyTimeoutMs int `toml:"hotkey_timeout_ms"` // Stall timeout for partial hotkey sequences in milliseconds (default: 20)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *UserConfig {
	show := true
	return &UserConfig{
		Appearance: AppearanceConfig{
			Theme:          DefaultTheme,
			PreferredShell: "",
			ShowStatusBar:  &show,
		},
		Grid: GridConfig{
			Rows: DefaultRows,
			Cols: DefaultCols,
		},
		Input: InputConfig{
			HotkeyTimeoutMs: int(HotkeyStallTimeout / time.Millisecond),
		},
	}
}

// HotkeyTimeout returns the configured stall timeout as a duration.
func (c *UserConfig) HotkeyTimeout() time.Duration {
	return time.Duration(c.Input.HotkeyTimeoutMs) * time.Millisecond
}

// StatusBarEnabled reports whether the status bar should be drawn.
func (c *UserConfig) StatusBarEnabled() bool {
	return c.Appearance.ShowStatusBar == nil || *c.Appearance.ShowStatusBar
}

// LoadUserConfig loads the user configuration from XDG config directory
func LoadUserConfig() (*UserConfig, error) {
	// Try to find existing config file
	configPath, err := xdg.SearchConfigFile("breezebox/config.toml")
	if err != nil {
		// Config doesn't exist, create default
		return createDefaultConfig()
	}

	// Read and parse config file
	// #nosec G304 - configPath is from XDG search, reading user config is intentional
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg UserConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	fillMissing(&cfg, DefaultConfig())

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// createDefaultConfig creates a default config file in the user's config directory
func createDefaultConfig() (*UserConfig, error) {
	cfg := DefaultConfig()

	configPath, err := xdg.ConfigFile("breezebox/config.toml")
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	// Build config file with header comments and marshaled data
	var sb strings.Builder
	sb.WriteString("# Breezebox Configuration File\n")
	sb.WriteString("#\n")
	sb.WriteString("# Configuration location: " + configPath + "\n\n")

	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# APPEARANCE SETTINGS\n")
	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# theme: Palette theme name\n")
	sb.WriteString("#   Options: classic, or any registered tint name (dracula, nord, ...)\n")
	sb.WriteString("#   Default: classic\n")
	sb.WriteString("#\n")
	sb.WriteString("# preferred_shell: Shell launched in each session\n")
	sb.WriteString("#   Leave empty to auto-detect from $SHELL.\n")
	sb.WriteString("#\n")
	sb.WriteString("# [grid] rows, cols: Session grid dimensions\n")
	sb.WriteString("#   Defaults: 37 rows, 128 columns\n")
	sb.WriteString("#\n")
	sb.WriteString("# [input] hotkey_timeout_ms: Stall timeout for partial hotkey sequences\n")
	sb.WriteString("#   Default: 20\n")
	sb.WriteString("# ============================================================================\n\n")

	if _, err := sb.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write config data: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(sb.String()), 0600); err != nil {
		return nil, fmt.Errorf("failed to write config file: %w", err)
	}

	return cfg, nil
}

// fillMissing fills in any missing settings with defaults
func fillMissing(cfg, defaultCfg *UserConfig) {
	if cfg.Appearance.Theme == "" {
		cfg.Appearance.Theme = defaultCfg.Appearance.Theme
	}
	if cfg.Grid.Rows == 0 {
		cfg.Grid.Rows = defaultCfg.Grid.Rows
	}
	if cfg.Grid.Cols == 0 {
		cfg.Grid.Cols = defaultCfg.Grid.Cols
	}
	if cfg.Input.HotkeyTimeoutMs == 0 {
		cfg.Input.HotkeyTimeoutMs = defaultCfg.Input.HotkeyTimeoutMs
	}
}

func validate(cfg *UserConfig) error {
	if cfg.Grid.Rows < MinRows {
		return fmt.Errorf("config error in [grid]: rows must be at least %d, got %d", MinRows, cfg.Grid.Rows)
	}
	if cfg.Grid.Cols < MinCols {
		return fmt.Errorf("config error in [grid]: cols must be at least %d, got %d", MinCols, cfg.Grid.Cols)
	}
	if cfg.Input.HotkeyTimeoutMs < 0 {
		return fmt.Errorf("config error in [input]: hotkey_timeout_ms must not be negative, got %d", cfg.Input.HotkeyTimeoutMs)
	}
	return nil
}

// ResetConfig overwrites the config file with commented defaults.
func ResetConfig() (string, error) {
	path, err := xdg.ConfigFile("breezebox/config.toml")
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to remove config file: %w", err)
	}
	if _, err := createDefaultConfig(); err != nil {
		return "", err
	}
	return path, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	path, err := xdg.SearchConfigFile("breezebox/config.toml")
	if err != nil {
		// Return where it would be created
		return xdg.ConfigFile("breezebox/config.toml")
	}
	return path, nil
}
