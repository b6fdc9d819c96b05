// Package stream implements the operations that mutate and query streams.
//
// An Engine reads a stream from the store, changes it in memory and writes it
// back. Each operation touches at most the streams it names; merge touches two
// and is not atomic across them.
package stream

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/echo-bravo-yahoo/nb/internal/model"
	"github.com/echo-bravo-yahoo/nb/internal/store"
	"github.com/echo-bravo-yahoo/nb/internal/timestamp"
)

// Engine runs stream operations against a store.
type Engine struct {
	store    store.Store
	now      func() time.Time
	resolver *timestamp.Resolver
	policy   ReferencePolicy
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for notes without an explicit timestamp.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithResolver sets the timestamp resolver used for explicit timestamps.
func WithResolver(r *timestamp.Resolver) Option {
	return func(e *Engine) {
		if r != nil {
			e.resolver = r
		}
	}
}

// WithPolicy sets the reference policy.
func WithPolicy(p ReferencePolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithLogger sets the logger. Engines log at debug level only.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an Engine backed by s.
func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  s,
		now:    time.Now,
		policy: DefaultPolicy(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.resolver == nil {
		e.resolver = timestamp.NewResolver(timestamp.WithClock(e.now))
	}
	return e
}

// Policy returns the reference policy in use.
func (e *Engine) Policy() ReferencePolicy { return e.policy }

// NoteResult describes a recorded note.
type NoteResult struct {
	Stream *model.Stream
	Note   model.Note
	// Index is the note's position after insertion.
	Index int
	// Created is true when the stream did not exist before.
	Created bool
	// Explicit is true when the caller supplied the timestamp.
	Explicit bool
}

// DenoteResult describes removed notes.
type DenoteResult struct {
	Stream  *model.Stream
	Address Address
	Removed []model.Note
}

// CorrectResult describes a corrected note.
type CorrectResult struct {
	Stream *model.Stream
	Index  int
	Before model.Note
	After  model.Note
}

// MergeResult describes a finished merge.
type MergeResult struct {
	From  string
	To    *model.Stream
	Moved int
	// Created is true when the target stream did not exist before.
	Created bool
}

// Summary is one line of a stream listing.
type Summary struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Count int    `json:"count"`
}

// Get returns the stream or ErrStreamNotFound.
func (e *Engine) Get(id string) (*model.Stream, error) {
	s, err := e.store.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrStreamNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Note records an observation in stream id, creating the stream if needed.
//
// When value is nil the first tag is promoted to the value. A blank when
// appends the note with the current time; otherwise when is resolved and the
// stream is re-sorted by timestamp.
func (e *Engine) Note(id string, value *string, tags []string, when string) (NoteResult, error) {
	tags = model.CleanTags(tags)
	if value == nil && len(tags) > 0 {
		promoted := tags[0]
		value, tags = &promoted, tags[1:]
	}
	if value == nil || (strings.TrimSpace(*value) == "" && len(tags) == 0) {
		return NoteResult{}, fmt.Errorf("%w: give a value or at least one tag", ErrInvalidNote)
	}

	explicit := strings.TrimSpace(when) != ""
	ts := e.now().UnixMilli()
	if explicit {
		resolved, err := e.resolver.Resolve(when)
		if err != nil {
			return NoteResult{}, err
		}
		ts = resolved
	}

	s, err := e.store.Get(id)
	created := false
	switch {
	case errors.Is(err, store.ErrNotFound):
		s, created = model.NewStream(id), true
	case err != nil:
		return NoteResult{}, err
	}

	note := model.NewNote(ts, value, tags)
	s.Values = append(s.Values, note)
	index := len(s.Values) - 1
	if explicit {
		s.SortByTime()
		index = lastIndexOf(s.Values, ts)
	}

	if err := e.store.Put(s); err != nil {
		return NoteResult{}, err
	}
	e.logger.Debug("noted", "stream", id, "timestamp", ts, "created", created, "count", s.Len())
	return NoteResult{Stream: s, Note: note, Index: index, Created: created, Explicit: explicit}, nil
}

// lastIndexOf finds the position of a freshly inserted note. A stable sort
// leaves it after any older notes with the same timestamp.
func lastIndexOf(notes []model.Note, ts int64) int {
	for i := len(notes) - 1; i >= 0; i-- {
		if notes[i].Timestamp == ts {
			return i
		}
	}
	return len(notes) - 1
}

// Denote removes notes from stream id.
//
// The latest reference removes the last note and an index-like reference
// removes the note at that position. A timestamp-like reference removes every
// note with that exact timestamp, which may be none.
func (e *Engine) Denote(id string, ref Reference) (DenoteResult, error) {
	s, err := e.Get(id)
	if err != nil {
		return DenoteResult{}, err
	}

	addr := ResolveReference(ref, e.policy)
	var removed []model.Note
	switch addr.Kind {
	case AddressLatest:
		if s.Len() == 0 {
			return DenoteResult{}, fmt.Errorf("%w: stream %s is empty", ErrNoteNotFound, id)
		}
		last := s.Len() - 1
		removed = []model.Note{s.Values[last]}
		s.Values = s.Values[:last]
	case AddressIndex:
		if addr.Value < 0 || addr.Value >= int64(s.Len()) {
			return DenoteResult{}, fmt.Errorf("%w: no note at index %d in stream %s", ErrNoteNotFound, addr.Value, id)
		}
		i := int(addr.Value)
		removed = []model.Note{s.Values[i]}
		s.Values = append(s.Values[:i], s.Values[i+1:]...)
	case AddressTimestamp:
		kept := make([]model.Note, 0, s.Len())
		for _, n := range s.Values {
			if n.Timestamp == addr.Value {
				removed = append(removed, n)
				continue
			}
			kept = append(kept, n)
		}
		s.Values = kept
	}

	if err := e.store.Put(s); err != nil {
		return DenoteResult{}, err
	}
	e.logger.Debug("denoted", "stream", id, "address", addr.Kind.String(), "removed", len(removed))
	return DenoteResult{Stream: s, Address: addr, Removed: removed}, nil
}

// Correct replaces the value and tags of one note, keeping its timestamp.
// When value is nil the first tag is promoted, as in Note.
func (e *Engine) Correct(id string, ref Reference, value *string, tags []string) (CorrectResult, error) {
	s, err := e.Get(id)
	if err != nil {
		return CorrectResult{}, err
	}

	tags = model.CleanTags(tags)
	if value == nil && len(tags) > 0 {
		promoted := tags[0]
		value, tags = &promoted, tags[1:]
	}
	if value == nil || (strings.TrimSpace(*value) == "" && len(tags) == 0) {
		return CorrectResult{}, fmt.Errorf("%w: give the corrected value or tags", ErrInvalidNote)
	}

	i, ok := correctionIndex(s.Values, ref, e.policy)
	if !ok {
		return CorrectResult{}, fmt.Errorf("%w: no note matches %s in stream %s", ErrNoteNotFound, ref, id)
	}

	before := s.Values[i].Clone()
	after := model.NewNote(before.Timestamp, value, tags)
	s.Values[i] = after

	if err := e.store.Put(s); err != nil {
		return CorrectResult{}, err
	}
	e.logger.Debug("corrected", "stream", id, "index", i, "timestamp", before.Timestamp)
	return CorrectResult{Stream: s, Index: i, Before: before, After: after}, nil
}

// Merge moves every note of from into to and deletes from.
//
// The union is stable-sorted by timestamp and never de-duplicated. When to
// does not exist it is created with from's name, which makes merge a rename.
// The write of to and the delete of from are separate; if the delete fails
// both streams hold the notes and ErrMergeIncomplete is returned.
func (e *Engine) Merge(fromID, toID string) (MergeResult, error) {
	if fromID == toID {
		return MergeResult{}, fmt.Errorf("%w: %s", ErrMergeIntoSelf, fromID)
	}
	from, err := e.Get(fromID)
	if err != nil {
		return MergeResult{}, err
	}

	to, err := e.store.Get(toID)
	created := false
	switch {
	case errors.Is(err, store.ErrNotFound):
		to, created = model.NewStream(toID), true
		to.Name = from.Name
	case err != nil:
		return MergeResult{}, err
	}

	values := make([]model.Note, 0, from.Len()+to.Len())
	values = append(values, from.Values...)
	values = append(values, to.Values...)
	model.SortNotes(values)
	to.Values = values

	if err := e.store.Put(to); err != nil {
		return MergeResult{}, err
	}
	if err := e.store.Delete(fromID); err != nil {
		return MergeResult{}, fmt.Errorf("%w: stream %s was written but stream %s could not be deleted and still holds its notes: %w",
			ErrMergeIncomplete, toID, fromID, err)
	}
	e.logger.Debug("merged", "from", fromID, "to", toID, "moved", from.Len(), "total", to.Len())
	return MergeResult{From: fromID, To: to, Moved: from.Len(), Created: created}, nil
}

// Update sets the display name of stream id. A nil name changes nothing.
func (e *Engine) Update(id string, name *string) (*model.Stream, error) {
	s, err := e.Get(id)
	if err != nil {
		return nil, err
	}
	if name == nil {
		return s, nil
	}
	s.Name = strings.TrimSpace(*name)
	if err := e.store.Put(s); err != nil {
		return nil, err
	}
	e.logger.Debug("updated", "stream", id, "name", s.Name)
	return s, nil
}

// Delete removes stream id. It reports whether the stream existed; deleting a
// missing stream is not an error.
func (e *Engine) Delete(id string) (bool, error) {
	existed, err := store.Has(e.store, id)
	if err != nil {
		return false, err
	}
	if !existed {
		return false, nil
	}
	if err := e.store.Delete(id); err != nil {
		return false, err
	}
	e.logger.Debug("deleted", "stream", id)
	return true, nil
}

// List summarizes every stream in id order. A non-empty pattern filters ids
// with shell-style globbing ("work-*", "{run,swim}").
func (e *Engine) List(pattern string) ([]Summary, error) {
	var matcher glob.Glob
	if pattern = strings.TrimSpace(pattern); pattern != "" {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, pattern, err)
		}
		matcher = g
	}

	keys, err := e.store.Keys()
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(keys))
	for _, id := range keys {
		if matcher != nil && !matcher.Match(id) {
			continue
		}
		s, err := e.store.Get(id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, Summary{ID: s.ID, Name: s.Name, Count: s.Len()})
	}
	return summaries, nil
}

// Dashboard returns every stream in id order for grid rendering.
func (e *Engine) Dashboard() ([]*model.Stream, error) {
	keys, err := e.store.Keys()
	if err != nil {
		return nil, err
	}
	streams := make([]*model.Stream, 0, len(keys))
	for _, id := range keys {
		s, err := e.store.Get(id)
		if err != nil {
			return nil, err
		}
		streams = append(streams, s)
	}
	return streams, nil
}
