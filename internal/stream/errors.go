package stream

import (
	"errors"

	"github.com/echo-bravo-yahoo/nb/internal/timestamp"
)

// Errors returned by the engine. They are wrapped with the offending stream id
// or argument, so callers should match with errors.Is.
var (
	ErrStreamNotFound   = errors.New("stream does not exist")
	ErrNoteNotFound     = errors.New("note does not exist")
	ErrInvalidNote      = errors.New("nothing to note")
	ErrInvalidReference = errors.New("invalid note reference")
	ErrInvalidPattern   = errors.New("invalid stream pattern")
	ErrMergeIntoSelf    = errors.New("cannot merge a stream into itself")
	ErrMergeIncomplete  = errors.New("merge incomplete")

	// ErrUnparseableTimestamp is returned when a timestamp matched no grammar.
	ErrUnparseableTimestamp = timestamp.ErrUnparseable
)
