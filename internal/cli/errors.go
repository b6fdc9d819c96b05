package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/echo-bravo-yahoo/nb/internal/format"
	"github.com/echo-bravo-yahoo/nb/internal/stream"
	"github.com/echo-bravo-yahoo/nb/internal/ui"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Input errors
	ErrUnparseableTimestamp = "UNPARSEABLE_TIMESTAMP"
	ErrInvalidInput         = "INVALID_INPUT"
	ErrUnsupportedFormat    = "UNSUPPORTED_FORMAT"

	// Lookup errors
	ErrStreamNotFound = "STREAM_NOT_FOUND"
	ErrNoteNotFound   = "NOTE_NOT_FOUND"

	// Storage errors
	ErrMergeIncomplete = "MERGE_INCOMPLETE"
	ErrStoreError      = "STORE_ERROR"
	ErrFileWriteError  = "FILE_WRITE_ERROR"

	// General errors
	ErrConfigInvalid = "CONFIG_INVALID"
	ErrInternal      = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnNothingRemoved = "NOTHING_REMOVED"
	WarnStreamMissing  = "STREAM_MISSING"
)

// codeFor maps an engine or formatter error to its stable code.
func codeFor(err error) string {
	switch {
	case errors.Is(err, stream.ErrUnparseableTimestamp):
		return ErrUnparseableTimestamp
	case errors.Is(err, stream.ErrStreamNotFound):
		return ErrStreamNotFound
	case errors.Is(err, stream.ErrNoteNotFound):
		return ErrNoteNotFound
	case errors.Is(err, format.ErrUnsupportedFormat):
		return ErrUnsupportedFormat
	case errors.Is(err, stream.ErrMergeIncomplete):
		return ErrMergeIncomplete
	case errors.Is(err, stream.ErrInvalidNote),
		errors.Is(err, stream.ErrInvalidReference),
		errors.Is(err, stream.ErrInvalidPattern),
		errors.Is(err, stream.ErrMergeIntoSelf):
		return ErrInvalidInput
	default:
		return ErrStoreError
	}
}

// suggestionFor returns a hint for well-known failures.
func suggestionFor(code string) string {
	switch code {
	case ErrStreamNotFound:
		return "Run 'nb stream list' to see existing streams"
	case ErrNoteNotFound:
		return "Run 'nb stream show <stream> --time-format unix' to see indices and timestamps"
	case ErrUnparseableTimestamp:
		return `Try "5 days ago", "-2 hours", "2025-02-01 08:00" or epoch milliseconds`
	case ErrUnsupportedFormat:
		return "Run 'nb stream show --help' for the supported formats"
	case ErrMergeIncomplete:
		return "Delete the source stream with 'nb stream delete'"
	default:
		return ""
	}
}

// handleError reports err in the active output mode and returns errReported
// so the process exits non-zero without printing it twice.
func handleError(code string, err error, suggestion string) error {
	if jsonOutput {
		outputErrorFromErr(code, err, suggestion)
		return errReported
	}
	fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	if suggestion != "" {
		fmt.Fprintln(os.Stderr, ui.Hint(suggestion))
	}
	return errReported
}

// handleErrorMsg handles an error message appropriately based on output mode.
func handleErrorMsg(code, message, suggestion string) error {
	return handleError(code, errors.New(message), suggestion)
}

// handleEngineError reports an engine or formatter error with its mapped code.
func handleEngineError(err error) error {
	code := codeFor(err)
	return handleError(code, err, suggestionFor(code))
}
