// Package main implements breezebox, a multi-session virtual terminal.
// Breezebox runs a fixed set of shell sessions behind a single display,
// with function-key hotkeys to switch between them.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/breezebox/breezebox/internal/config"
	"github.com/breezebox/breezebox/internal/theme"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode    bool
	themeName    string
	listThemes   bool
	previewTheme string
	shellPath    string
	gridRows     int
	gridCols     int
	eagerShells  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "breezebox",
		Short: "Multi-session virtual terminal",
		Long: `Breezebox - a multi-session virtual terminal

Runs four shell sessions behind one display. Ctrl+F1 through Ctrl+F4
switch between sessions; output keeps flowing to background sessions
while you work in the foreground one.`,
		Example: `  # Run breezebox
  breezebox

  # Run with a specific theme
  breezebox --theme dracula

  # List all available themes
  breezebox --list-themes

  # Preview a theme's colors
  breezebox --preview-theme dracula

  # Use a custom grid size
  breezebox --rows 24 --cols 80

  # Run as SSH server
  breezebox ssh --port 2222

  # Edit configuration
  breezebox config edit`,
		Version: version,
		RunE: func(_ *cobra.Command, _ []string) error {
			if previewTheme != "" {
				return previewThemeColors(previewTheme)
			}

			if listThemes {
				if err := theme.Initialize(""); err != nil {
					return fmt.Errorf("failed to initialize themes: %w", err)
				}
				for _, t := range theme.ListThemes() {
					fmt.Println(t)
				}
				return nil
			}
			return runLocal()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme to use (e.g., dracula, nord, tokyonight). Leave empty to use the classic 16-color palette")
	rootCmd.PersistentFlags().BoolVar(&listThemes, "list-themes", false, "List all available themes and exit")
	rootCmd.PersistentFlags().StringVar(&previewTheme, "preview-theme", "", "Preview a theme's 16 ANSI colors")
	rootCmd.PersistentFlags().StringVar(&shellPath, "shell", "", "Shell to run in each session (default: from config or auto-detect)")
	rootCmd.PersistentFlags().IntVar(&gridRows, "rows", 0, "Session grid rows (default: from config)")
	rootCmd.PersistentFlags().IntVar(&gridCols, "cols", 0, "Session grid columns (default: from config)")
	rootCmd.PersistentFlags().BoolVar(&eagerShells, "eager", false, "Start a shell in every session up front instead of on first visit")

	var sshPort, sshHost, sshKeyPath string

	sshCmd := &cobra.Command{
		Use:   "ssh",
		Short: "Run breezebox as SSH server",
		Long: `Run breezebox as an SSH server

Each connection gets its own set of sessions and shell processes.
The server will generate a host key automatically if not specified.`,
		Example: `  # Start SSH server on default port
  breezebox ssh

  # Start on custom port
  breezebox ssh --port 2345

  # Specify custom host key
  breezebox ssh --key-path /path/to/host_key`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runSSHServer(sshHost, sshPort, sshKeyPath)
		},
	}

	sshCmd.Flags().StringVar(&sshPort, "port", config.DefaultSSHPort, "SSH server port")
	sshCmd.Flags().StringVar(&sshHost, "host", config.DefaultSSHHost, "SSH server host")
	sshCmd.Flags().StringVar(&sshKeyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage breezebox configuration",
		Long:  `Manage breezebox configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		Long:  `Print the path to the breezebox configuration file`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return printConfigPath()
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the breezebox configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return editConfigFile()
		},
	}

	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the breezebox configuration file to default settings

This will overwrite your existing configuration.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return resetConfigToDefaults()
		},
	}

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd)

	rootCmd.AddCommand(sshCmd, configCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}
