// Package config provides configuration constants and user settings.
package config

import "time"

// =============================================================================
// Session Layout
// =============================================================================

const (
	// SessionCount is the number of virtual terminal sessions.
	SessionCount = 4

	// DefaultRows is the default number of rows in each session grid
	DefaultRows = 37

	// DefaultCols is the default number of columns in each session grid
	DefaultCols = 128

	// MinRows is the minimum session grid height
	MinRows = 2

	// MinCols is the minimum session grid width
	MinCols = 2
)

// =============================================================================
// Timeouts and Intervals
// =============================================================================

const (
	// HotkeyStallTimeout is how long a partial hotkey sequence is held
	// before being flushed to the active session as plain input
	HotkeyStallTimeout = 20 * time.Millisecond

	// RenderPollInterval is the interval between dirty-flag polls of the
	// active session
	RenderPollInterval = 16 * time.Millisecond

	// CPUUpdateInterval is the interval between CPU usage updates
	CPUUpdateInterval = 500 * time.Millisecond

	// ProcessShutdownTimeout is the timeout for graceful shell shutdown
	ProcessShutdownTimeout = 500 * time.Millisecond
)

// =============================================================================
// Buffer and Queue Sizes
// =============================================================================

const (
	// InputQueueSize is the capacity of each session's input queue
	InputQueueSize = 64

	// HotkeyCandidateMax is the longest byte sequence buffered while
	// deciding whether input is a session hotkey
	HotkeyCandidateMax = 10

	// MaxContexts is the capacity of the context affinity table
	MaxContexts = 8

	// ByteSliceBufferSize is the size of byte slices used for shell output
	ByteSliceBufferSize = 32 * 1024 // 32KB
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultSSHPort is the default SSH server port
	DefaultSSHPort = "2222"

	// DefaultSSHHost is the default SSH server host
	DefaultSSHHost = "localhost"

	// DefaultTheme is the palette applied when none is configured
	DefaultTheme = "classic"
)

// =============================================================================
// Character Constants
// =============================================================================

const (
	// ESC is the escape character code
	ESC = 0x1b

	// DEL is the delete character code
	DEL = 0x7f

	// PrintableCharMin is the minimum printable ASCII character
	PrintableCharMin = 32

	// PrintableCharMax is the maximum printable ASCII character
	PrintableCharMax = 126
)

// =============================================================================
// Modifier Parameters (ANSI sequences)
// =============================================================================

const (
	// ModParamBase is the base value for modifier parameters
	ModParamBase = 1

	// ModParamCtrl is the ctrl key modifier parameter
	ModParamCtrl = 4
)
