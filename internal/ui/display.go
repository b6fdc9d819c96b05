package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// Fallback terminal dimensions when detection fails (pipes, CI).
const (
	DefaultTermWidth  = 120
	DefaultTermHeight = 40
)

// DisplayContext holds display parameters, auto-detecting terminal size.
// It is the single source of truth for chart and dashboard sizing.
type DisplayContext struct {
	TermWidth  int  // detected or fallback terminal width
	TermHeight int  // detected or fallback terminal height
	IsTTY      bool // whether stdout is a terminal
}

// NewDisplayContext creates a DisplayContext, auto-detecting terminal dimensions.
func NewDisplayContext() *DisplayContext {
	fd := os.Stdout.Fd()
	isTTY := term.IsTerminal(fd)

	width, height := DefaultTermWidth, DefaultTermHeight
	if isTTY {
		if w, h, err := term.GetSize(fd); err == nil {
			if w > 0 {
				width = w
			}
			if h > 0 {
				height = h
			}
		}
	}

	return &DisplayContext{
		TermWidth:  width,
		TermHeight: height,
		IsTTY:      isTTY,
	}
}

// NewDisplayContextWithSize creates a DisplayContext with fixed dimensions (for testing).
func NewDisplayContextWithSize(width, height int) *DisplayContext {
	return &DisplayContext{
		TermWidth:  width,
		TermHeight: height,
		IsTTY:      true,
	}
}
