package ui

import "fmt"

// Status symbols prefixed to user-facing messages.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
)

func status(symbol, msg string) string {
	return symbol + " " + msg
}

// Successf formats a confirmation line: "✓ Noted 72 in temp".
func Successf(format string, args ...interface{}) string {
	return status(SymbolSuccess, fmt.Sprintf(format, args...))
}

// Error prefixes msg with the error symbol.
func Error(msg string) string {
	return status(SymbolError, msg)
}

// Warningf formats a warning line.
func Warningf(format string, args ...interface{}) string {
	return status(SymbolWarning, fmt.Sprintf(format, args...))
}

// Info prefixes msg with the info symbol.
func Info(msg string) string {
	return status(SymbolInfo, msg)
}

// Infof formats an info line.
func Infof(format string, args ...interface{}) string {
	return Info(fmt.Sprintf(format, args...))
}

// StreamID styles a stream id with the accent color.
func StreamID(id string) string {
	return Accent.Render(id)
}

// FilePath styles a path with the accent color.
func FilePath(path string) string {
	return Accent.Render(path)
}

// Hint renders secondary text muted.
func Hint(msg string) string {
	return Muted.Render(msg)
}

// Count renders "(1 note)" or "(3 notes)".
func Count(n int, singular, plural string) string {
	noun := plural
	if n == 1 {
		noun = singular
	}
	return fmt.Sprintf("(%d %s)", n, noun)
}
