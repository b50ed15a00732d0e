// Package host runs a shell process behind each virtual terminal session,
// pumping PTY output through the escape interpreter and session input back
// to the shell.
package host

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	log "charm.land/log/v2"
	xpty "github.com/charmbracelet/x/xpty"
	"github.com/google/uuid"

	"github.com/breezebox/breezebox/internal/config"
	"github.com/breezebox/breezebox/internal/vt"
)

// Host owns one shell process bound to a terminal session.
type Host struct {
	id  int
	ctx string // affinity context for this shell's output

	m      *vt.Manager
	pty    xpty.Pty
	cmd    *exec.Cmd
	cancel context.CancelFunc
	logger *log.Logger

	ioWg        sync.WaitGroup
	cmdWaitOnce sync.Once
	closeOnce   sync.Once

	onExit func(id int)
}

// Options configures a shell host.
type Options struct {
	// Shell is the program to run. Empty means auto-detect.
	Shell string

	// Logger receives host lifecycle events. Nil disables logging.
	Logger *log.Logger

	// OnExit is called once when the shell process exits. May be nil.
	OnExit func(id int)
}

// Start launches a shell attached to session id of m.
func Start(m *vt.Manager, id int, opts Options) (*Host, error) {
	if m.Session(id) == nil {
		return nil, fmt.Errorf("host: no session %d", id)
	}

	shell := opts.Shell
	if shell == "" {
		shell = DetectShell()
	}

	rows, cols := m.Size()

	// #nosec G204 - shell is intentionally user-controlled
	cmd := exec.Command(shell)
	cmd.Env = append(os.Environ(),
		"TERM=vt100",
		fmt.Sprintf("BREEZEBOX_SESSION=%d", id),
	)

	pty, err := xpty.NewPty(cols, rows)
	if err != nil {
		return nil, fmt.Errorf("host: create pty: %w", err)
	}
	if err := pty.Start(cmd); err != nil {
		_ = pty.Close()
		return nil, fmt.Errorf("host: start %s: %w", shell, err)
	}
	// Resize again after start; some PTY implementations need a running
	// process before accepting the size.
	_ = pty.Resize(cols, rows)

	ctx, cancel := context.WithCancel(context.Background())

	h := &Host{
		id:     id,
		ctx:    uuid.NewString(),
		m:      m,
		pty:    pty,
		cmd:    cmd,
		cancel: cancel,
		logger: opts.Logger,
		onExit: opts.OnExit,
	}
	m.AssignContext(h.ctx, id)

	if h.logger != nil {
		h.logger.Debug("shell started", "session", id, "shell", shell)
	}

	h.pumpOutput(ctx)
	h.pumpInput(ctx)

	go func() {
		h.waitForCmd()
		cancel()
		if h.logger != nil {
			h.logger.Debug("shell exited", "session", id)
		}
		if h.onExit != nil {
			h.onExit(id)
		}
	}()

	return h, nil
}

// ID returns the session id this host is bound to.
func (h *Host) ID() int { return h.id }

// Context returns the affinity context id for this host's output.
func (h *Host) Context() string { return h.ctx }

// pumpOutput copies PTY output into the session grid. The target session
// is resolved through the affinity map on every chunk, so a remapped
// context lands in its new session without restarting the pump.
func (h *Host) pumpOutput(ctx context.Context) {
	h.ioWg.Add(1)
	go func() {
		defer h.ioWg.Done()
		buf := make([]byte, config.ByteSliceBufferSize)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			n, err := h.pty.Read(buf)
			if n > 0 {
				h.m.Write(h.m.ResolveContext(h.ctx), buf[:n])
			}
			if err != nil {
				if err != io.EOF && h.logger != nil && !strings.Contains(err.Error(), "file already closed") {
					h.logger.Debug("pty read", "session", h.id, "err", err)
				}
				return
			}
		}
	}()
}

// pumpInput drains the session's input queue into the PTY.
func (h *Host) pumpInput(ctx context.Context) {
	h.ioWg.Add(1)
	go func() {
		defer h.ioWg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			// Bounded wait so cancellation is observed promptly.
			b, ok := h.m.ReadInput(h.id, 50*time.Millisecond)
			if !ok {
				continue
			}
			if _, err := h.pty.Write([]byte{b}); err != nil {
				return
			}
		}
	}()
}

func (h *Host) waitForCmd() {
	h.cmdWaitOnce.Do(func() {
		_ = h.cmd.Wait()
	})
}

// Close shuts down the shell and releases the PTY. Safe to call more
// than once.
func (h *Host) Close() {
	h.closeOnce.Do(func() {
		h.cancel()
		_ = h.pty.Close()

		done := make(chan struct{})
		go func() {
			h.ioWg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(config.ProcessShutdownTimeout):
		}

		if h.cmd.Process != nil {
			_ = h.cmd.Process.Kill()
			h.waitForCmd()
		}
	})
}

// DetectShell picks the shell to run: configured preference first, then
// $SHELL, then platform fallbacks.
func DetectShell() string {
	if cfg, err := config.LoadUserConfig(); err == nil && cfg.Appearance.PreferredShell != "" {
		preferred := cfg.Appearance.PreferredShell
		if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(preferred), ".exe") {
			preferred += ".exe"
		}

		exists := false
		if runtime.GOOS == "windows" {
			_, err = exec.LookPath(preferred)
			exists = err == nil
		} else {
			_, err = os.Stat(preferred)
			exists = err == nil
		}
		if exists {
			return preferred
		}
		fmt.Fprintf(os.Stderr, "Warning: Configured shell '%s' not found. Falling back to defaults.\n", preferred)
	}

	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}

	if runtime.GOOS == "windows" {
		for _, shell := range []string{"powershell.exe", "pwsh.exe", "cmd.exe"} {
			if _, err := exec.LookPath(shell); err == nil {
				return shell
			}
		}
		return "cmd.exe"
	}

	for _, shell := range []string{"/bin/bash", "/bin/zsh", "/bin/fish", "/bin/sh"} {
		if _, err := os.Stat(shell); err == nil {
			return shell
		}
	}
	return "/bin/sh"
}
