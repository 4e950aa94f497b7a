// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// newLogger creates the gdmach logger and installs it as the slog default.
func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger := log.NewWithOptions(w, log.Options{
		Prefix: "gdmach",
		Level:  lvl,
	})
	slog.SetDefault(slog.New(logger))
	return logger, nil
}

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// glamourStyle picks the glamour style for diagnostics written to w.
func (a *App) glamourStyle(w io.Writer) string {
	if !a.IsTerminal(w) {
		return "notty"
	}
	scheme := "auto"
	if a.session != nil {
		scheme = string(a.session.cfg.UI.ColorScheme)
	}
	switch scheme {
	case "dark", "light":
		return scheme
	default:
		if lipgloss.HasDarkBackground() {
			return "dark"
		}
		return "light"
	}
}
