package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/echo-bravo-yahoo/nb/internal/format"
	"github.com/echo-bravo-yahoo/nb/internal/stream"
	"github.com/echo-bravo-yahoo/nb/internal/timestamp"
)

func TestNoteAndShow(t *testing.T) {
	c := newTestCLI(t)

	env := c.mustRun("note", "temp", "72", "morning")
	if env.Data["created"] != true {
		t.Fatalf("first note should create the stream: %+v", env.Data)
	}
	c.mustRun("note", "temp", "68")
	c.mustRun("note", "mood", "happy", "-T", "calm")

	notes := notesOf(t, c.mustRun("stream", "show", "temp"))
	if len(notes) != 2 {
		t.Fatalf("temp has %d notes, want 2", len(notes))
	}
	if notes[0]["value"] != 72.0 || !reflect.DeepEqual(tagsOf(notes[0]), []string{"morning"}) {
		t.Fatalf("first note = %+v", notes[0])
	}
	if notes[1]["value"] != 68.0 || len(tagsOf(notes[1])) != 0 {
		t.Fatalf("second note = %+v", notes[1])
	}

	mood := notesOf(t, c.mustRun("stream", "show", "mood"))
	if mood[0]["value"] != 1.0 || mood[0]["tally"] != true {
		t.Fatalf("word value should be a tally: %+v", mood[0])
	}
	if got := tagsOf(mood[0]); !reflect.DeepEqual(got, []string{"happy", "calm"}) {
		t.Fatalf("tally tags = %v", got)
	}
}

func TestNoteWithTimestampKeepsOrder(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun("note", "weight", "81")

	env := c.mustRun("note", "weight", "82", "--timestamp", "2025-02-01")
	note := env.Data["note"].(map[string]interface{})
	if note["index"] != 0.0 {
		t.Fatalf("backdated note index = %v, want 0", note["index"])
	}

	c.mustRun("note", "weight", "80", "--ts", "-2 days")
	notes := notesOf(t, c.mustRun("stream", "show", "weight"))
	var last float64
	for i, n := range notes {
		ts := n["timestamp"].(float64)
		if i > 0 && ts < last {
			t.Fatalf("notes out of order at %d: %v", i, notes)
		}
		last = ts
	}
	if notes[0]["value"] != 82.0 || notes[2]["value"] != 81.0 {
		t.Fatalf("unexpected order: %v", notes)
	}
}

func TestNoteErrors(t *testing.T) {
	c := newTestCLI(t)
	c.mustFail(ErrUnparseableTimestamp, "note", "temp", "70", "--timestamp", "gibberish")
	c.mustFail(ErrInvalidInput, "note", "temp")
	c.mustFail(ErrStreamNotFound, "stream", "show", "temp")

	env := c.mustFail(ErrUnparseableTimestamp, "note", "temp", "70", "-ts", "2 days ago")
	if !strings.Contains(env.Error.Suggestion, "--ts") {
		t.Fatalf("suggestion for -ts = %q", env.Error.Suggestion)
	}
}

func TestTallySurvivesStore(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun("note", "mood", "happy")
	c.mustRun("note", "mood", "1", "counted")

	notes := notesOf(t, c.mustRun("stream", "show", "mood"))
	if len(notes) != 2 {
		t.Fatalf("notes = %v", notes)
	}
	if notes[0]["tally"] != true || notes[0]["value"] != 1.0 {
		t.Fatalf("tally note lost its kind: %v", notes[0])
	}
	if _, ok := notes[1]["tally"]; ok {
		t.Fatalf("numeric 1 reported as tally: %v", notes[1])
	}

	env := c.mustRun("correct", "mood", "0", "calm")
	before := env.Data["before"].(map[string]interface{})
	if before["tally"] != true {
		t.Fatalf("correct before = %v", before)
	}
}

func TestDenote(t *testing.T) {
	c := newTestCLI(t)
	for _, v := range []string{"1", "2", "3"} {
		c.mustRun("note", "runs", v)
	}

	env := c.mustRun("denote", "runs")
	if env.Meta == nil || env.Meta.Count != 1 {
		t.Fatalf("denote latest meta = %+v", env.Meta)
	}
	c.mustRun("denote", "runs", "0")

	notes := notesOf(t, c.mustRun("stream", "show", "runs"))
	if len(notes) != 1 || notes[0]["value"] != 2.0 {
		t.Fatalf("remaining notes = %v", notes)
	}

	c.mustFail(ErrNoteNotFound, "denote", "runs", "5")
	c.mustFail(ErrInvalidInput, "denote", "runs", "last")
	c.mustFail(ErrStreamNotFound, "denote", "swims")

	env = c.mustRun("denote", "runs", "1700000000000")
	if len(env.Warnings) != 1 || env.Warnings[0].Code != WarnNothingRemoved {
		t.Fatalf("unmatched timestamp should warn: %+v", env)
	}
}

func TestDenoteByTimestamp(t *testing.T) {
	c := newTestCLI(t)
	ms := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	ts := strconv.FormatInt(ms, 10)
	c.mustRun("note", "temp", "70", "--timestamp", ts)
	c.mustRun("note", "temp", "71", "--timestamp", ts)
	c.mustRun("note", "temp", "72")

	env := c.mustRun("denote", "temp", ts)
	if env.Data["address"] != "timestamp" || env.Meta.Count != 2 {
		t.Fatalf("denote by timestamp = %+v %+v", env.Data, env.Meta)
	}
	if notes := notesOf(t, c.mustRun("stream", "show", "temp")); len(notes) != 1 {
		t.Fatalf("remaining = %v", notes)
	}
}

func TestCorrect(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun("note", "temp", "60")
	c.mustRun("note", "temp", "70")

	env := c.mustRun("correct", "temp", "71")
	after := env.Data["after"].(map[string]interface{})
	before := env.Data["before"].(map[string]interface{})
	if after["value"] != 71.0 || after["index"] != 1.0 {
		t.Fatalf("correct newest = %+v", after)
	}
	if after["timestamp"] != before["timestamp"] {
		t.Fatalf("correct changed the timestamp: %v -> %v", before["timestamp"], after["timestamp"])
	}

	c.mustRun("correct", "temp", "0", "65", "cold")
	notes := notesOf(t, c.mustRun("stream", "show", "temp"))
	if notes[0]["value"] != 65.0 || !reflect.DeepEqual(tagsOf(notes[0]), []string{"cold"}) {
		t.Fatalf("corrected first note = %+v", notes[0])
	}

	c.mustRun("correct", "temp", "0", "--note", "64")
	notes = notesOf(t, c.mustRun("stream", "show", "temp"))
	if notes[0]["value"] != 64.0 {
		t.Fatalf("--note correction = %+v", notes[0])
	}

	c.mustFail(ErrNoteNotFound, "correct", "temp", "9", "50")
	c.mustFail(ErrStreamNotFound, "correct", "nope", "1")
}

func TestMergeAndList(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun("note", "runs", "5")
	c.mustRun("note", "running", "3")
	c.mustRun("note", "swim", "1")

	env := c.mustRun("stream", "merge", "runs", "running")
	if env.Data["moved"] != 1.0 || env.Data["count"] != 2.0 {
		t.Fatalf("merge = %+v", env.Data)
	}

	env = c.mustRun("stream", "list")
	if env.Meta.Count != 2 {
		t.Fatalf("list count = %d, want 2", env.Meta.Count)
	}
	streams := env.Data["streams"].([]interface{})
	first := streams[0].(map[string]interface{})
	if first["id"] != "running" || first["count"] != 2.0 {
		t.Fatalf("first stream = %+v", first)
	}

	env = c.mustRun("stream", "list", "sw*")
	if env.Meta == nil || env.Meta.Count != 1 {
		t.Fatalf("filtered list meta = %+v", env.Meta)
	}

	c.mustFail(ErrInvalidInput, "stream", "merge", "swim", "swim")
	c.mustFail(ErrStreamNotFound, "stream", "merge", "runs", "running")
	c.mustFail(ErrInvalidInput, "stream", "list", "[unclosed")
}

func TestUpdateAndDelete(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun("note", "temp", "70")

	env := c.mustRun("stream", "update", "temp", "--name", "Temperature")
	if env.Data["name"] != "Temperature" {
		t.Fatalf("update = %+v", env.Data)
	}
	if show := c.mustRun("stream", "show", "temp"); show.Data["name"] != "Temperature" {
		t.Fatalf("name not persisted: %+v", show.Data)
	}
	c.mustFail(ErrStreamNotFound, "stream", "update", "nope", "--name", "x")

	env = c.mustRun("stream", "delete", "temp")
	if env.Data["deleted"] != true {
		t.Fatalf("delete = %+v", env.Data)
	}
	env = c.mustRun("stream", "delete", "temp")
	if env.Data["deleted"] != false || len(env.Warnings) != 1 {
		t.Fatalf("second delete = %+v", env)
	}
}

func TestShowOptions(t *testing.T) {
	c := newTestCLI(t)
	for _, v := range []string{"1", "2", "3", "4"} {
		c.mustRun("note", "n", v)
	}

	notes := notesOf(t, c.mustRun("stream", "show", "n", "--reverse", "--limit", "2"))
	if len(notes) != 2 || notes[0]["index"] != 3.0 || notes[1]["index"] != 2.0 {
		t.Fatalf("reverse+limit = %v", notes)
	}

	c.mustFail(ErrUnsupportedFormat, "stream", "show", "n", "--format", "timeline")
	c.mustFail(ErrUnsupportedFormat, "stream", "show", "n", "--format", "pie")
	c.mustFail(ErrUnsupportedFormat, "stream", "show", "n", "--time-format", "iso")
	c.mustFail(ErrInvalidInput, "stream", "show", "n", "--limit", "-1")
	c.mustFail(ErrInvalidInput, "stream", "show", "n", "--width", "wide")
}

func TestExport(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun("note", "Run", "5")
	c.mustRun("note", "run", "3")
	out := filepath.Join(c.dir, "export")

	env := c.mustRun("stream", "export", "--dir", out)
	if env.Meta.Count != 2 {
		t.Fatalf("export count = %d", env.Meta.Count)
	}
	for _, name := range []string{"run.json", "run-2.json"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("missing export %s: %v", name, err)
		}
	}
}

func TestDashboardJSON(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun("note", "a", "1")
	c.mustRun("note", "b", "2")

	env := c.mustRun("stream", "dashboard", "--columns", "1")
	grid := env.Data["grid"].(map[string]interface{})
	if grid["columns"] != 1.0 || grid["rows"] != 2.0 {
		t.Fatalf("grid = %+v", grid)
	}
	c.mustFail(ErrInvalidInput, "stream", "dashboard", "--watch")
	c.mustFail(ErrInvalidInput, "stream", "dashboard", "--columns", "0")
}

func TestConfigCommands(t *testing.T) {
	c := newTestCLI(t)
	path := os.Getenv("NB_CONFIG")

	env := c.mustRun("config", "path")
	if env.Data["config_path"] != path || env.Data["exists"] != false {
		t.Fatalf("config path = %+v", env.Data)
	}

	env = c.mustRun("config", "init")
	if env.Data["created"] != true {
		t.Fatalf("config init = %+v", env.Data)
	}
	if env = c.mustRun("config", "init"); env.Data["created"] != false {
		t.Fatalf("second config init = %+v", env.Data)
	}

	env = c.mustRun("config", "set", "--format", "table", "--dashboard-columns", "3")
	changed := env.Data["changed"].([]interface{})
	if len(changed) != 2 {
		t.Fatalf("changed = %v", changed)
	}
	c.mustFail(ErrConfigInvalid, "config", "set", "--format", "pie")
	c.mustFail(ErrInvalidInput, "config", "set")

	env = c.mustRun("config", "show")
	display := env.Data["display"].(map[string]interface{})
	if display["format"] != "table" || display["dashboard_columns"] != 3.0 {
		t.Fatalf("config show display = %+v", display)
	}
}

func TestInvalidConfigIsReported(t *testing.T) {
	c := newTestCLI(t)
	if err := os.WriteFile(os.Getenv("NB_CONFIG"), []byte("[display]\nformat = \"pie\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c.mustFail(ErrConfigInvalid, "stream", "list")
	// version and config commands still work.
	c.mustRun("version")
}

func TestParseCorrectArgs(t *testing.T) {
	note := "70"
	tests := []struct {
		name      string
		rest      []string
		explicit  *string
		wantRef   stream.Reference
		wantValue string
		wantTags  []string
	}{
		{"value only", []string{"71"}, nil, stream.Latest, "71", nil},
		{"reference and value", []string{"2", "71", "evening"}, nil, stream.RefOf(2), "71", []string{"evening"}},
		{"word value", []string{"cold", "wet"}, nil, stream.Latest, "cold", []string{"wet"}},
		{"explicit with reference", []string{"1700000000000", "dry"}, &note, stream.RefOf(1700000000000), "70", []string{"dry"}},
		{"explicit without reference", []string{"dry"}, &note, stream.Latest, "70", []string{"dry"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCorrectArgs(tt.rest, tt.explicit)
			if got.ref != tt.wantRef {
				t.Fatalf("ref = %s, want %s", got.ref, tt.wantRef)
			}
			if got.value == nil || *got.value != tt.wantValue {
				t.Fatalf("value = %v, want %q", got.value, tt.wantValue)
			}
			if !reflect.DeepEqual(got.tags, tt.wantTags) {
				t.Fatalf("tags = %#v, want %#v", got.tags, tt.wantTags)
			}
		})
	}

	if got := parseCorrectArgs(nil, nil); got.value != nil || got.ref.Set {
		t.Fatalf("empty args = %+v", got)
	}
}

func TestCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{timestamp.ErrUnparseable, ErrUnparseableTimestamp},
		{stream.ErrStreamNotFound, ErrStreamNotFound},
		{stream.ErrNoteNotFound, ErrNoteNotFound},
		{format.ErrUnsupportedFormat, ErrUnsupportedFormat},
		{stream.ErrMergeIncomplete, ErrMergeIncomplete},
		{stream.ErrInvalidNote, ErrInvalidInput},
		{stream.ErrMergeIntoSelf, ErrInvalidInput},
		{os.ErrPermission, ErrStoreError},
	}
	for _, tt := range tests {
		if got := codeFor(tt.err); got != tt.want {
			t.Errorf("codeFor(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
