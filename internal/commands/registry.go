// Package commands provides a central registry of nb CLI commands.
// This registry is the single source of truth for command help text;
// the CLI copies it onto its cobra commands at startup.
package commands

import "sort"

// Meta defines metadata for a CLI command.
type Meta struct {
	Name        string     // Command path (e.g., "note", "stream show")
	Description string     // Short description
	LongDesc    string     // Long description (for --help)
	Args        []ArgMeta  // Positional arguments
	Flags       []FlagMeta // Command flags
	Examples    []string   // Usage examples
}

// ArgMeta defines a positional argument.
type ArgMeta struct {
	Name        string   // Argument name
	Description string   // Description
	Required    bool     // Is this argument required?
	Variadic    bool     // Does it take the remaining arguments?
	Completions []string // Static completions (if any)
}

// FlagMeta defines a command flag.
type FlagMeta struct {
	Name        string   // Flag name (e.g., "timestamp", "format")
	Short       string   // Short flag (e.g., "t" for -t)
	Description string   // Description
	Type        FlagType // Type of flag
	Default     string   // Default value
	Choices     []string // Accepted values, if closed
}

// FlagType represents the type of a flag.
type FlagType string

const (
	FlagTypeString      FlagType = "string"
	FlagTypeBool        FlagType = "bool"
	FlagTypeInt         FlagType = "int"
	FlagTypeSize        FlagType = "size"        // Absolute cells or a percentage of the terminal
	FlagTypeStringSlice FlagType = "stringSlice" // For repeatable string flags
)

var (
	showFormats = []string{"csv", "table", "chart", "graph", "json", "yaml", "markdown", "timeline"}
	timeFormats = []string{"unix", "relative", "date"}
)

// Registry holds all registered commands.
var Registry = map[string]Meta{
	"note": {
		Name:        "note",
		Description: "Record an observation in a stream",
		LongDesc: `Records a note in a stream, creating the stream if it does not exist.

A value that is a number is stored as that number. Any other value is stored
as a tag and the note counts as 1, so "nb note mood happy" records a tally
tagged "happy". With no value, the first --tag becomes the value.

Without --timestamp the note is appended with the current time. With
--timestamp the time is parsed ("this Friday at 13:00", "5 days ago",
"-2 days", "2025-02-01", or epoch milliseconds) and the stream is re-sorted.
The long form also answers to --ts; the short form is -t (a single dash with
"ts" reads as -t s).`,
		Args: []ArgMeta{
			{Name: "stream", Description: "Stream id", Required: true},
			{Name: "value", Description: "Number to record, or a word recorded as a tag"},
			{Name: "tags", Description: "Tags for the note", Variadic: true},
		},
		Flags: []FlagMeta{
			{Name: "timestamp", Short: "t", Description: "When the observation happened", Type: FlagTypeString},
			{Name: "tag", Short: "T", Description: "Add a tag (repeatable)", Type: FlagTypeStringSlice},
		},
		Examples: []string{
			"nb note temp 72 morning",
			"nb note mood happy",
			"nb note weight 81.5 --timestamp \"yesterday 8am\"",
			"nb note run 5 park --ts \"-2 days\"",
		},
	},
	"denote": {
		Name:        "denote",
		Description: "Delete a note from a stream",
		LongDesc: `Deletes notes from a stream.

With no reference the newest note is deleted. A reference up to the index
ceiling (10000 by default) is a zero-based position. A larger reference is a
timestamp in epoch milliseconds and every note with exactly that timestamp
is deleted.`,
		Args: []ArgMeta{
			{Name: "stream", Description: "Stream id", Required: true},
			{Name: "reference", Description: "Position or timestamp of the note"},
		},
		Examples: []string{
			"nb denote temp",
			"nb denote temp 1",
			"nb denote temp 1700000000000",
		},
	},
	"correct": {
		Name:        "correct",
		Description: "Replace the value and tags of a note",
		LongDesc: `Replaces the value and tags of one note and keeps its timestamp.

The first argument after the stream is a reference when it is an integer and
more content follows it; otherwise every argument is new content and the
newest note is corrected. A reference matches a note's exact timestamp first,
then, when it is small enough to be a position, that position.`,
		Args: []ArgMeta{
			{Name: "stream", Description: "Stream id", Required: true},
			{Name: "reference", Description: "Position or timestamp of the note"},
			{Name: "value", Description: "Corrected value"},
			{Name: "tags", Description: "Corrected tags", Variadic: true},
		},
		Flags: []FlagMeta{
			{Name: "note", Description: "Corrected value (skips reference detection)", Type: FlagTypeString},
			{Name: "tag", Short: "T", Description: "Add a tag (repeatable)", Type: FlagTypeStringSlice},
		},
		Examples: []string{
			"nb correct temp 71",
			"nb correct temp 2 71 evening",
			"nb correct temp 1700000000000 --note 70",
		},
	},
	"stream": {
		Name:        "stream",
		Description: "Manage streams",
	},
	"stream list": {
		Name:        "stream list",
		Description: "List streams with their note counts",
		LongDesc: `Lists every stream id in order with its note count.

An optional glob pattern filters the ids ("work-*", "{run,swim}").`,
		Args: []ArgMeta{
			{Name: "pattern", Description: "Glob pattern for stream ids"},
		},
		Examples: []string{
			"nb stream list",
			"nb stream list 'work-*'",
		},
	},
	"stream delete": {
		Name:        "stream delete",
		Description: "Delete a stream and all its notes",
		Args: []ArgMeta{
			{Name: "stream", Description: "Stream id", Required: true},
		},
		Examples: []string{"nb stream delete temp"},
	},
	"stream merge": {
		Name:        "stream merge",
		Description: "Move every note of one stream into another",
		LongDesc: `Moves every note of <from> into <to>, sorts by time, and deletes <from>.

If <to> does not exist it is created, which renames <from>. Notes are never
de-duplicated. The two writes are not atomic: if deleting <from> fails, both
streams hold the notes and <from> must be deleted by hand.`,
		Args: []ArgMeta{
			{Name: "from", Description: "Stream to merge and delete", Required: true},
			{Name: "to", Description: "Stream that receives the notes", Required: true},
		},
		Examples: []string{
			"nb stream merge runs running",
		},
	},
	"stream show": {
		Name:        "stream show",
		Description: "Display the notes of a stream",
		LongDesc: `Displays a stream in one of several formats.

Indices shown next to notes are positions in the stream, also after
--reverse and --limit. Chart sizes default to the terminal and accept cell
counts or percentages ("60", "50%").`,
		Args: []ArgMeta{
			{Name: "stream", Description: "Stream id", Required: true},
		},
		Flags: []FlagMeta{
			{Name: "format", Short: "f", Description: "Output format", Type: FlagTypeString, Default: "csv", Choices: showFormats},
			{Name: "time-format", Description: "Timestamp format", Type: FlagTypeString, Default: "relative", Choices: timeFormats},
			{Name: "reverse", Short: "r", Description: "Newest first", Type: FlagTypeBool},
			{Name: "limit", Short: "l", Description: "Show at most N notes", Type: FlagTypeInt},
			{Name: "width", Description: "Chart width", Type: FlagTypeSize},
			{Name: "height", Description: "Chart height", Type: FlagTypeSize},
		},
		Examples: []string{
			"nb stream show temp",
			"nb stream show temp --format table --time-format date",
			"nb stream show temp --format chart --width 50% --height 20",
			"nb stream show temp --format json --reverse --limit 5",
		},
	},
	"stream update": {
		Name:        "stream update",
		Description: "Update stream properties",
		Args: []ArgMeta{
			{Name: "stream", Description: "Stream id", Required: true},
		},
		Flags: []FlagMeta{
			{Name: "name", Short: "n", Description: "Display name", Type: FlagTypeString},
		},
		Examples: []string{"nb stream update temp --name Temperature"},
	},
	"stream dashboard": {
		Name:        "stream dashboard",
		Description: "Show every stream as a grid of charts",
		LongDesc: `Draws one small chart per stream in a grid sized to the terminal.

With --watch the dashboard redraws whenever the store changes.`,
		Flags: []FlagMeta{
			{Name: "columns", Short: "c", Description: "Charts per row", Type: FlagTypeInt, Default: "4"},
			{Name: "watch", Short: "w", Description: "Redraw when the store changes", Type: FlagTypeBool},
		},
		Examples: []string{
			"nb stream dashboard",
			"nb stream dashboard --columns 3 --watch",
		},
	},
	"stream export": {
		Name:        "stream export",
		Description: "Write every stream to a JSON file",
		LongDesc: `Writes one JSON file per stream into a directory, in the same shape as
"stream show --format json".`,
		Args: []ArgMeta{
			{Name: "pattern", Description: "Glob pattern for stream ids"},
		},
		Flags: []FlagMeta{
			{Name: "dir", Short: "d", Description: "Output directory", Type: FlagTypeString, Default: "."},
		},
		Examples: []string{
			"nb stream export --dir backup",
			"nb stream export 'work-*' --dir work",
		},
	},
	"config": {
		Name:        "config",
		Description: "Manage the nb config file",
	},
	"config init": {
		Name:        "config init",
		Description: "Create a commented config file",
	},
	"config path": {
		Name:        "config path",
		Description: "Print the config file path",
	},
	"config show": {
		Name:        "config show",
		Description: "Print the effective configuration",
	},
	"config set": {
		Name:        "config set",
		Description: "Set one or more config fields",
		LongDesc: `Writes the given fields to config.toml, creating it if needed.

The result is validated before it is saved, so an unknown format or a
dashboard with zero columns is rejected.`,
		Flags: []FlagMeta{
			{Name: "backend", Description: "Store backend", Type: FlagTypeString, Choices: []string{"sqlite", "file"}},
			{Name: "store-path", Description: "Store file path", Type: FlagTypeString},
			{Name: "format", Description: "Default show format", Type: FlagTypeString, Choices: showFormats},
			{Name: "time-format", Description: "Default time format", Type: FlagTypeString, Choices: timeFormats},
			{Name: "dashboard-columns", Description: "Charts per dashboard row", Type: FlagTypeInt},
			{Name: "index-ceiling", Description: "Largest reference read as a position", Type: FlagTypeInt},
			{Name: "ui-accent", Description: "UI accent color (ANSI 0-255 or #RRGGBB)", Type: FlagTypeString},
		},
		Examples: []string{
			"nb config set --backend file --store-path ~/notes/nb.json",
			"nb config set --format table --time-format date",
		},
	},
	"version": {
		Name:        "version",
		Description: "Show version information",
	},
}

// GetCommandMeta returns the metadata for a command.
func GetCommandMeta(name string) (Meta, bool) {
	meta, ok := Registry[name]
	return meta, ok
}

// AllCommandNames returns all registered command names in order.
func AllCommandNames() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
