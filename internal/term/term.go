// Package term provides terminal color styling and TTY detection.
//
// Styles are package-level variables because multiple packages (logging,
// display) need them for output formatting. [Configure] resolves them once
// during startup; when colors are disabled every style renders text
// unchanged.
//
// Grounded on the teacher's internal/term/term.go (package-level color
// state, Configure/resolve/IsTerminal shape), ported from raw ANSI escape
// constants to github.com/charmbracelet/lipgloss styles per SPEC_FULL.md's
// ambient stack decision (lipgloss is wired from the mohaanymo-veld
// example).
package term

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nujievik/mux-media-sub000/internal/config"
)

// Styles. Each renders plain text unchanged when colors are disabled.
var (
	Red     = lipgloss.NewStyle()
	Green   = lipgloss.NewStyle()
	Yellow  = lipgloss.NewStyle()
	Orange  = lipgloss.NewStyle()
	Blue    = lipgloss.NewStyle()
	Cyan    = lipgloss.NewStyle()
	Magenta = lipgloss.NewStyle()

	enabled bool
)

// Configure resolves the color mode and sets the package-level styles.
// Call once during startup (from [logging.NewLogger]).
func Configure(mode config.ColorMode) {
	enabled = resolve(mode)

	Red = styleFor("9", enabled)
	Green = styleFor("10", enabled)
	Yellow = styleFor("11", enabled)
	Orange = styleFor("208", enabled)
	Blue = styleFor("12", enabled)
	Cyan = styleFor("14", enabled)
	Magenta = styleFor("13", enabled)
}

func styleFor(ansiColor string, enabled bool) lipgloss.Style {
	s := lipgloss.NewStyle()
	if enabled {
		s = s.Bold(true).Foreground(lipgloss.Color(ansiColor))
	}
	return s
}

// Enabled reports whether colors are currently active.
func Enabled() bool { return enabled }

// resolve determines whether colors should be enabled based on the
// configured mode, TTY detection, and the NO_COLOR env var
// (https://no-color.org).
func resolve(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(os.Stdout) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
