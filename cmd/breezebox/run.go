package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	log "charm.land/log/v2"
	"github.com/charmbracelet/colorprofile"
	"golang.org/x/term"

	"github.com/breezebox/breezebox/internal/config"
	"github.com/breezebox/breezebox/internal/server"
	"github.com/breezebox/breezebox/internal/theme"
	"github.com/breezebox/breezebox/pkg/breezebox"
)

// newLogger returns the lifecycle logger. In debug mode it writes to a
// file so log lines don't corrupt the TUI; otherwise logging is off.
func newLogger() *log.Logger {
	if !debugMode {
		logger := log.New(os.Stderr)
		logger.SetLevel(log.FatalLevel)
		return logger
	}

	path := filepath.Join(os.TempDir(), "breezebox-debug.log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return log.New(os.Stderr)
	}
	logger := log.NewWithOptions(f, log.Options{ReportTimestamp: true})
	logger.SetLevel(log.DebugLevel)
	return logger
}

func runLocal() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("breezebox requires an interactive terminal")
	}

	// Themed palettes need at least 256-color support; fall back to the
	// classic palette on basic terminals rather than rendering garbage.
	effectiveTheme := themeName
	if effectiveTheme != "" && effectiveTheme != config.DefaultTheme {
		profile := colorprofile.Detect(os.Stdout, os.Environ())
		if profile != colorprofile.TrueColor && profile != colorprofile.ANSI256 {
			fmt.Fprintf(os.Stderr, "Warning: terminal does not support theme colors, using classic palette\n")
			effectiveTheme = config.DefaultTheme
		}
	}

	logger := newLogger()
	if debugMode {
		configPath, _ := config.GetConfigPath()
		logger.Debug("starting", "config", configPath)
	}

	// Size the session grid to the host terminal once at startup. The grid
	// stays fixed afterwards; later window resizes letterbox instead of
	// re-gridding.
	rows, cols := gridRows, gridCols
	if rows == 0 && cols == 0 {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 1 {
			cols, rows = w, h-1 // leave a row for the status bar
		}
	}

	inst, err := breezebox.New(
		breezebox.WithTheme(effectiveTheme),
		breezebox.WithShell(shellPath),
		breezebox.WithGridSize(rows, cols),
		breezebox.WithEager(eagerShells),
		breezebox.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer inst.Close()

	p := tea.NewProgram(
		inst.Model,
		tea.WithoutSignalHandler(),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		p.Send(tea.QuitMsg{})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func runSSHServer(sshHost, sshPort, sshKeyPath string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if debugMode {
		logger.SetLevel(log.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return server.Start(ctx, &server.Config{
		Host:    sshHost,
		Port:    sshPort,
		KeyPath: sshKeyPath,
		Theme:   themeName,
		Shell:   shellPath,
		Logger:  logger,
	})
}

// previewThemeColors prints the 16-color palette of a theme as swatches.
func previewThemeColors(name string) error {
	if err := theme.Initialize(name); err != nil {
		return fmt.Errorf("unknown theme %q: %w", name, err)
	}

	names := [16]string{
		"black", "red", "green", "yellow",
		"blue", "magenta", "cyan", "white",
		"bright black", "bright red", "bright green", "bright yellow",
		"bright blue", "bright magenta", "bright cyan", "bright white",
	}

	fmt.Printf("Theme: %s\n\n", name)
	palette := theme.GetANSIPalette()
	for i, c := range palette {
		swatch := lipgloss.NewStyle().Background(c).Render("        ")
		fmt.Printf("%2d  %s  %s\n", i, swatch, names[i])
	}
	return nil
}

func printConfigPath() error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to determine config path: %w", err)
	}
	fmt.Println(path)
	return nil
}

func editConfigFile() error {
	// Loading creates the file with commented defaults when missing.
	if _, err := config.LoadUserConfig(); err != nil {
		return err
	}

	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to determine config path: %w", err)
	}

	editor := findEditor()
	if editor == "" {
		return fmt.Errorf("no editor found; set $EDITOR or install vim, nano, or emacs")
	}

	// #nosec G204 - editor comes from the user's own environment
	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func resetConfigToDefaults() error {
	path, err := config.ResetConfig()
	if err != nil {
		return err
	}
	fmt.Printf("Configuration reset: %s\n", path)
	return nil
}

// findEditor picks an editor from the environment, then common fallbacks.
func findEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	for _, candidate := range []string{"vim", "vi", "nano", "emacs"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path
		}
	}
	return ""
}
