// Package server exposes breezebox over SSH. Each connection gets its own
// session manager and shell processes, rendered through the connecting
// client's terminal.
package server

import (
	"context"
	"errors"
	"net"
	"time"

	tea "charm.land/bubbletea/v2"
	log "charm.land/log/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/activeterm"
	bm "charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/charmbracelet/ssh"

	"github.com/breezebox/breezebox/pkg/breezebox"
)

const shutdownTimeout = 30 * time.Second

// Config holds SSH server settings.
type Config struct {
	Host    string
	Port    string
	KeyPath string

	// Theme and Shell are applied to every connection's instance.
	Theme string
	Shell string

	Logger *log.Logger
}

// Start runs the SSH server until ctx is canceled or the listener fails.
func Start(ctx context.Context, cfg *Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	srv, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithHostKeyPath(cfg.KeyPath),
		wish.WithMiddleware(
			bm.Middleware(sessionHandler(cfg, logger)),
			activeterm.Middleware(),
			logging.Middleware(),
		),
	)
	if err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("listening", "host", cfg.Host, "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

// sessionHandler builds a fresh breezebox instance per SSH session and
// tears it down when the connection closes.
func sessionHandler(cfg *Config, logger *log.Logger) bm.Handler {
	return func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
		// Size the grid to the client's terminal at connect time; the
		// grid stays fixed for the life of the connection.
		var rows, cols int
		if pty, _, ok := s.Pty(); ok && pty.Window.Width > 0 && pty.Window.Height > 1 {
			cols = pty.Window.Width
			rows = pty.Window.Height - 1 // leave a row for the status bar
		}

		inst, err := breezebox.New(
			breezebox.WithTheme(cfg.Theme),
			breezebox.WithShell(cfg.Shell),
			breezebox.WithGridSize(rows, cols),
			breezebox.WithLogger(logger),
		)
		if err != nil {
			logger.Error("session setup failed", "user", s.User(), "err", err)
			wish.Fatalln(s, "breezebox:", err)
			return nil, nil
		}

		go func() {
			<-s.Context().Done()
			inst.Close()
		}()

		return inst.Model, nil
	}
}
