package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/echo-bravo-yahoo/nb/internal/atomicfile"
	"github.com/echo-bravo-yahoo/nb/internal/format"
	"github.com/echo-bravo-yahoo/nb/internal/slugs"
	"github.com/echo-bravo-yahoo/nb/internal/stream"
	"github.com/echo-bravo-yahoo/nb/internal/ui"
)

var exportDir string

var streamExportCmd = &cobra.Command{
	Use:   "export [pattern]",
	Short: "Write every stream to a JSON file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStreamExport,
}

// errExportWrite marks failures writing the export directory, as opposed
// to reading the store.
var errExportWrite = errors.New("export failed")

type exportedFile struct {
	Stream string `json:"stream"`
	Path   string `json:"path"`
	Count  int    `json:"count"`
}

// exportStreams writes one file per stream matching pattern into dir.
func exportStreams(engine *stream.Engine, pattern, dir string) ([]exportedFile, error) {
	summaries, err := engine.List(pattern)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: cannot create %s: %w", errExportWrite, dir, err)
	}

	namer := slugs.NewNamer()
	files := make([]exportedFile, 0, len(summaries))
	for _, summary := range summaries {
		s, err := engine.Get(summary.ID)
		if err != nil {
			return files, err
		}
		var buf bytes.Buffer
		if err := format.Render(&buf, s, format.Options{Format: format.JSON}); err != nil {
			return files, err
		}
		path := filepath.Join(dir, namer.Next(s.ID)+".json")
		if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return files, fmt.Errorf("%w: cannot write %s: %w", errExportWrite, path, err)
		}
		files = append(files, exportedFile{Stream: s.ID, Path: path, Count: s.Len()})
	}
	return files, nil
}

func runStreamExport(cmd *cobra.Command, args []string) error {
	start := time.Now()
	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}

	engine, closeStore, err := openEngine()
	if err != nil {
		return handleError(ErrStoreError, err, "")
	}
	defer closeStore()

	files, err := exportStreams(engine, pattern, exportDir)
	if err != nil {
		if errors.Is(err, errExportWrite) {
			return handleError(ErrFileWriteError, err, "")
		}
		return handleEngineError(err)
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"dir":   exportDir,
			"files": files,
		}, &Meta{Count: len(files), QueryTimeMs: elapsedMs(start)})
		return nil
	}

	if len(files) == 0 {
		fmt.Println(ui.Hint("Nothing to export."))
		return nil
	}
	for _, f := range files {
		fmt.Printf("  %s → %s %s\n", ui.StreamID(f.Stream), ui.FilePath(f.Path), ui.Hint(ui.Count(f.Count, "note", "notes")))
	}
	fmt.Println(ui.Successf("Exported %s to %s", ui.Count(len(files), "stream", "streams"), ui.FilePath(exportDir)))
	return nil
}

func init() {
	streamExportCmd.Flags().StringVarP(&exportDir, "dir", "d", ".", "Output directory")
	streamCmd.AddCommand(streamExportCmd)
}
