// Package breezebox provides an embeddable multi-session virtual terminal
// that can run inside other Bubble Tea applications, over SSH, or as a
// standalone TUI.
//
// A breezebox instance manages a fixed set of terminal sessions, each backed
// by its own shell process, with hotkey-driven switching between them.
//
// # Basic Usage
//
//	inst, err := breezebox.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer inst.Close()
//
//	p := tea.NewProgram(inst.Model)
//	if _, err := p.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// # Custom Configuration
//
//	inst, err := breezebox.New(
//		breezebox.WithTheme("dracula"),
//		breezebox.WithGridSize(24, 80),
//		breezebox.WithShell("/bin/zsh"),
//	)
package breezebox

import (
	"fmt"
	"sync"
	"time"

	log "charm.land/log/v2"

	"github.com/breezebox/breezebox/internal/app"
	"github.com/breezebox/breezebox/internal/config"
	"github.com/breezebox/breezebox/internal/host"
	"github.com/breezebox/breezebox/internal/theme"
	"github.com/breezebox/breezebox/internal/vt"
)

// Options configures a breezebox instance.
type Options struct {
	// Theme is the color theme name (e.g., "dracula", "nord").
	// Leave empty to use the configured or default theme.
	Theme string

	// Rows and Cols set the session grid size. Zero means the
	// configured or default size.
	Rows int
	Cols int

	// Shell is the program to run in each session. Empty means the
	// configured shell, falling back to auto-detection.
	Shell string

	// HotkeyTimeout overrides how long the input router waits for the
	// rest of a partial escape sequence. Zero means the configured value.
	HotkeyTimeout time.Duration

	// Eager starts a shell in every session up front. The default is to
	// start session 0 and spawn the rest on first visit.
	Eager bool

	// Logger receives lifecycle events. Nil disables logging.
	Logger *log.Logger

	// UserConfig is a custom user configuration. If nil, the config
	// file is loaded (or defaults used).
	UserConfig *config.UserConfig
}

// Option is a functional option for configuring breezebox.
type Option func(*Options)

// WithTheme sets the color theme.
func WithTheme(name string) Option {
	return func(o *Options) { o.Theme = name }
}

// WithGridSize sets the session grid dimensions.
func WithGridSize(rows, cols int) Option {
	return func(o *Options) {
		o.Rows = rows
		o.Cols = cols
	}
}

// WithShell sets the shell program for every session.
func WithShell(shell string) Option {
	return func(o *Options) { o.Shell = shell }
}

// WithHotkeyTimeout sets the partial-sequence stall timeout.
func WithHotkeyTimeout(d time.Duration) Option {
	return func(o *Options) { o.HotkeyTimeout = d }
}

// WithEager starts every session's shell up front instead of on first visit.
func WithEager(eager bool) Option {
	return func(o *Options) { o.Eager = eager }
}

// WithLogger sets the lifecycle logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithUserConfig sets a custom user configuration.
func WithUserConfig(cfg *config.UserConfig) Option {
	return func(o *Options) { o.UserConfig = cfg }
}

// Instance is a running breezebox: the display model plus the shell
// processes behind each session.
type Instance struct {
	// Model is the bubbletea model to hand to tea.NewProgram.
	Model *app.Model

	// Manager is the underlying session manager, exposed for embedders
	// that want to write to sessions directly.
	Manager *vt.Manager

	shell  string
	logger *log.Logger

	mu    sync.Mutex
	hosts [config.SessionCount]*host.Host
}

// New builds a breezebox instance: session manager, escape interpreter,
// input router, and one shell process per session.
func New(opts ...Option) (*Instance, error) {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}

	cfg := options.UserConfig
	if cfg == nil {
		var err error
		cfg, err = config.LoadUserConfig()
		if err != nil {
			cfg = config.DefaultConfig()
		}
	}

	themeName := options.Theme
	if themeName == "" {
		themeName = cfg.Appearance.Theme
	}
	if err := theme.Initialize(themeName); err != nil {
		return nil, fmt.Errorf("breezebox: theme %q: %w", themeName, err)
	}

	rows, cols := cfg.Grid.Rows, cfg.Grid.Cols
	if options.Rows > 0 {
		rows = options.Rows
	}
	if options.Cols > 0 {
		cols = options.Cols
	}

	m, err := vt.New(rows, cols, config.SessionCount)
	if err != nil {
		return nil, err
	}
	m.SetPalette(theme.Palette565())
	if options.Logger != nil {
		m.SetLogger(options.Logger)
	}

	timeout := options.HotkeyTimeout
	if timeout <= 0 {
		timeout = cfg.HotkeyTimeout()
	}
	router := vt.NewRouter(m, timeout)

	model := app.New(m, router, cfg.StatusBarEnabled())

	shell := options.Shell
	if shell == "" {
		shell = cfg.Appearance.PreferredShell
	}

	inst := &Instance{
		Model:   model,
		Manager: m,
		shell:   shell,
		logger:  options.Logger,
	}

	// Switch is the one notification path out of the core: it spawns the
	// incoming session's shell on first visit and wakes the update loop.
	m.RegisterSwitchCallback(func(id int) {
		if err := inst.ensureHost(id); err != nil && inst.logger != nil {
			inst.logger.Error("shell spawn failed", "session", id, "err", err)
		}
		model.NotifySwitch(id)
	})

	// Session 0 is on screen from the start, so its shell always runs.
	first := config.SessionCount
	if !options.Eager {
		first = 1
	}
	for id := 0; id < first; id++ {
		if err := inst.ensureHost(id); err != nil {
			inst.Close()
			return nil, err
		}
	}

	return inst, nil
}

// ensureHost starts the shell behind session id if it isn't running yet.
func (i *Instance) ensureHost(id int) error {
	if id < 0 || id >= config.SessionCount {
		return nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.hosts[id] != nil {
		return nil
	}

	exitChan := i.Model.ExitChan()
	h, err := host.Start(i.Manager, id, host.Options{
		Shell:  i.shell,
		Logger: i.logger,
		OnExit: func(id int) {
			select {
			case exitChan <- id:
			default:
			}
		},
	})
	if err != nil {
		return err
	}
	i.hosts[id] = h
	return nil
}

// Close terminates every shell process and releases their PTYs.
func (i *Instance) Close() {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, h := range i.hosts {
		if h != nil {
			h.Close()
		}
	}
}

// Config re-exports configuration helpers so embedders can load or
// inspect the config file without importing internal packages.
var Config = struct {
	// LoadUserConfig loads the user's configuration file.
	LoadUserConfig func() (*config.UserConfig, error)
	// DefaultConfig returns the default configuration.
	DefaultConfig func() *config.UserConfig
	// GetConfigPath returns the path to the configuration file.
	GetConfigPath func() (string, error)
}{
	LoadUserConfig: config.LoadUserConfig,
	DefaultConfig:  config.DefaultConfig,
	GetConfigPath:  config.GetConfigPath,
}
