package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var captureStdoutMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	outputCh := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		_ = r.Close()
		outputCh <- buf.String()
	}()

	fn()

	os.Stdout = orig
	_ = w.Close()
	return <-outputCh
}

// resetFlags puts every flag in the tree back to its default. cobra keeps
// flag values and Changed bits between Execute calls.
func resetFlags(root *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		cmd.Flags().VisitAll(reset)
		cmd.PersistentFlags().VisitAll(reset)
		for _, child := range cmd.Commands() {
			walk(child)
		}
	}
	walk(root)
}

type testEnvelope struct {
	OK       bool                   `json:"ok"`
	Data     map[string]interface{} `json:"data"`
	Error    *ErrorInfo             `json:"error"`
	Warnings []Warning              `json:"warnings"`
	Meta     *Meta                  `json:"meta"`
}

// testCLI runs commands in-process against a private store and config.
type testCLI struct {
	t     *testing.T
	dir   string
	store string
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("NB_CONFIG", filepath.Join(dir, "config.toml"))
	t.Setenv("NB_STORE", "")

	prevJSON, prevVerbose := jsonOutput, verbose
	t.Cleanup(func() {
		jsonOutput, verbose = prevJSON, prevVerbose
		cfg, resolvedConfigPath = nil, ""
		resetFlags(rootCmd)
	})
	return &testCLI{t: t, dir: dir, store: filepath.Join(dir, "nb.db")}
}

// run executes one command with --json and decodes the envelope.
func (c *testCLI) run(args ...string) testEnvelope {
	c.t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetArgs(append([]string{"--json", "--store", c.store}, args...))

	var execErr error
	out := captureStdout(c.t, func() {
		execErr = Execute()
	})

	var env testEnvelope
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		c.t.Fatalf("%v: output is not a JSON envelope: %v\n%s", args, err, out)
	}
	if env.OK != (execErr == nil) {
		c.t.Fatalf("%v: ok=%v but Execute returned %v", args, env.OK, execErr)
	}
	return env
}

func (c *testCLI) mustRun(args ...string) testEnvelope {
	c.t.Helper()
	env := c.run(args...)
	if !env.OK {
		c.t.Fatalf("%v failed: %+v", args, env.Error)
	}
	return env
}

func (c *testCLI) mustFail(code string, args ...string) testEnvelope {
	c.t.Helper()
	env := c.run(args...)
	if env.OK {
		c.t.Fatalf("%v succeeded, want %s", args, code)
	}
	if env.Error == nil || env.Error.Code != code {
		c.t.Fatalf("%v error = %+v, want code %s", args, env.Error, code)
	}
	return env
}

// notes returns the notes array of a `stream show` response.
func notesOf(t *testing.T, env testEnvelope) []map[string]interface{} {
	t.Helper()
	raw, ok := env.Data["notes"].([]interface{})
	if !ok {
		t.Fatalf("response has no notes: %+v", env.Data)
	}
	out := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		out = append(out, item.(map[string]interface{}))
	}
	return out
}

func tagsOf(note map[string]interface{}) []string {
	var tags []string
	for _, tag := range note["tags"].([]interface{}) {
		tags = append(tags, tag.(string))
	}
	return tags
}
