// Package testutil builds the nb binary and drives it in integration tests.
package testutil

import (
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

var (
	buildOnce  sync.Once
	binaryPath string
	buildErr   error
)

// CLIResult is one decoded run of the binary.
type CLIResult struct {
	OK       bool
	Data     map[string]interface{}
	Error    *CLIError
	Warnings []CLIWarning
	Meta     *CLIMeta
	RawJSON  string
	ExitCode int
}

// CLIError is the error half of the JSON envelope.
type CLIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// CLIWarning is a non-fatal condition reported alongside success.
type CLIWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Stream  string `json:"stream,omitempty"`
}

// CLIMeta is the envelope's meta block.
type CLIMeta struct {
	Count       int   `json:"count,omitempty"`
	QueryTimeMs int64 `json:"query_time_ms,omitempty"`
}

// BuildCLI compiles ./cmd/nb once per test binary and returns its path.
func BuildCLI(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		binaryPath, buildErr = buildBinary()
	})
	if buildErr != nil {
		t.Fatalf("failed to build nb: %v", buildErr)
	}
	return binaryPath
}

func buildBinary() (string, error) {
	root, err := moduleRoot()
	if err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp("", "nb-cli-bin-*")
	if err != nil {
		return "", err
	}
	name := "nb"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	out := filepath.Join(dir, name)

	cmd := exec.Command("go", "build", "-o", out, "./cmd/nb")
	cmd.Dir = root
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", &BuildError{Output: string(output), Err: err}
	}
	return out, nil
}

// BuildError carries the compiler output of a failed build.
type BuildError struct {
	Output string
	Err    error
}

func (e *BuildError) Error() string {
	return e.Err.Error() + "\n" + e.Output
}

// moduleRoot walks up from the working directory to the go.mod.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// TestStore is a private store and config for driving the nb binary.
type TestStore struct {
	Dir        string
	StorePath  string
	ConfigPath string
	t          *testing.T
}

// NewTestStore creates an empty store directory with a config selecting backend.
func NewTestStore(t *testing.T, backend string) *TestStore {
	t.Helper()
	dir := t.TempDir()
	name := "nb.db"
	if backend == "file" {
		name = "nb.json"
	}
	s := &TestStore{
		Dir:        dir,
		StorePath:  filepath.Join(dir, name),
		ConfigPath: filepath.Join(dir, "config.toml"),
		t:          t,
	}
	config := "[store]\nbackend = \"" + backend + "\"\n"
	if err := os.WriteFile(s.ConfigPath, []byte(config), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return s
}

// RunCLI executes a CLI command against the store and returns the parsed result.
// Commands are run with --json automatically.
func (s *TestStore) RunCLI(args ...string) *CLIResult {
	s.t.Helper()

	binary := BuildCLI(s.t)
	cmdArgs := []string{"--config", s.ConfigPath, "--store", s.StorePath, "--json"}
	cmdArgs = append(cmdArgs, args...)

	cmd := exec.Command(binary, cmdArgs...)
	cmd.Env = append(os.Environ(), "NB_STORE=", "NB_CONFIG=")
	// stderr carries log lines only; stdout is the envelope.
	output, err := cmd.Output()

	result := &CLIResult{RawJSON: string(output)}
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	case err != nil:
		result.ExitCode = -1
	}

	var env struct {
		OK       bool                   `json:"ok"`
		Data     map[string]interface{} `json:"data"`
		Error    *CLIError              `json:"error"`
		Warnings []CLIWarning           `json:"warnings"`
		Meta     *CLIMeta               `json:"meta"`
	}
	if err := json.Unmarshal(output, &env); err != nil {
		result.Error = &CLIError{
			Code:    "PARSE_ERROR",
			Message: "output is not a JSON envelope: " + err.Error(),
		}
		return result
	}

	result.OK, result.Data, result.Error = env.OK, env.Data, env.Error
	result.Warnings, result.Meta = env.Warnings, env.Meta
	return result
}

// MustSucceed fails the test if the CLI command did not succeed.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if !r.OK {
		errMsg := "unknown error"
		if r.Error != nil {
			errMsg = r.Error.Code + ": " + r.Error.Message
		}
		t.Fatalf("expected command to succeed, got error: %s\nRaw output: %s", errMsg, r.RawJSON)
	}
	return r
}

// MustFailWithMessage fails the test if the CLI command succeeded, or if it failed
// without an error message containing the expected substring.
func (r *CLIResult) MustFailWithMessage(t *testing.T, msgSubstr string) *CLIResult {
	t.Helper()
	if r.OK {
		t.Fatalf("expected command to fail, but it succeeded\nRaw output: %s", r.RawJSON)
	}
	if msgSubstr != "" && r.Error != nil {
		if !strings.Contains(r.Error.Message, msgSubstr) && !strings.Contains(r.Error.Suggestion, msgSubstr) {
			t.Errorf("expected error to contain %q, got: %s (suggestion: %s)", msgSubstr, r.Error.Message, r.Error.Suggestion)
		}
	}
	return r
}

// MustFail fails the test if the CLI command did not fail with the expected code.
func (r *CLIResult) MustFail(t *testing.T, expectedCode string) *CLIResult {
	t.Helper()
	if r.OK {
		t.Fatalf("expected command to fail with code %s, but it succeeded\nRaw output: %s", expectedCode, r.RawJSON)
	}
	if r.Error == nil {
		t.Fatalf("expected error with code %s, but error is nil\nRaw output: %s", expectedCode, r.RawJSON)
	}
	if r.Error.Code != expectedCode {
		t.Fatalf("expected error code %s, got %s: %s\nRaw output: %s", expectedCode, r.Error.Code, r.Error.Message, r.RawJSON)
	}
	return r
}

// DataList extracts a list from the Data field.
func (r *CLIResult) DataList(key string) []interface{} {
	if r.Data == nil {
		return nil
	}
	if list, ok := r.Data[key].([]interface{}); ok {
		return list
	}
	return nil
}

// DataString extracts a string from the Data field.
func (r *CLIResult) DataString(key string) string {
	if r.Data == nil {
		return ""
	}
	if s, ok := r.Data[key].(string); ok {
		return s
	}
	return ""
}

// DataFloat extracts a number from the Data field.
func (r *CLIResult) DataFloat(key string) float64 {
	if r.Data == nil {
		return 0
	}
	if f, ok := r.Data[key].(float64); ok {
		return f
	}
	return 0
}

// MustExitNonZero fails the test if the process exited cleanly.
func (r *CLIResult) MustExitNonZero(t *testing.T) *CLIResult {
	t.Helper()
	if r.ExitCode == 0 {
		t.Fatalf("expected a non-zero exit code\nRaw output: %s", r.RawJSON)
	}
	return r
}
