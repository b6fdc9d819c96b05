package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/echo-bravo-yahoo/nb/internal/format"
	"github.com/echo-bravo-yahoo/nb/internal/store"
	"github.com/echo-bravo-yahoo/nb/internal/ui"
	"github.com/echo-bravo-yahoo/nb/internal/watcher"
)

var (
	dashboardColumns int
	dashboardWatch   bool
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\x1b[H\x1b[2J"

var streamDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show every stream as a grid of charts",
	Args:  cobra.NoArgs,
	RunE:  runStreamDashboard,
}

func dashboardOptions(cmd *cobra.Command, dc *ui.DisplayContext) (format.DashboardOptions, error) {
	cols := getConfig().Display.DashboardColumns
	if cmd.Flags().Changed("columns") {
		cols = dashboardColumns
	}
	if cols < 1 {
		return format.DashboardOptions{}, fmt.Errorf("--columns must be at least 1, got %d", cols)
	}
	return format.DashboardOptions{
		Columns:    cols,
		TermWidth:  dc.TermWidth,
		TermHeight: dc.TermHeight,
	}, nil
}

func runStreamDashboard(cmd *cobra.Command, args []string) error {
	opts, err := dashboardOptions(cmd, ui.NewDisplayContext())
	if err != nil {
		return handleError(ErrInvalidInput, err, "")
	}

	if isJSONOutput() {
		if dashboardWatch {
			return handleErrorMsg(ErrInvalidInput, "--watch cannot be combined with --json", "")
		}
		return dashboardJSON(opts)
	}

	if err := drawDashboard(os.Stdout, opts); err != nil {
		return handleEngineError(err)
	}
	if !dashboardWatch {
		return nil
	}
	if getConfig().Store.Backend == store.BackendMemory {
		return handleErrorMsg(ErrInvalidInput, "--watch needs a file or sqlite store", "")
	}
	return watchDashboard(cmd.Context(), opts)
}

// drawDashboard opens the store for a single read so every redraw sees
// writes made by other invocations.
func drawDashboard(w io.Writer, opts format.DashboardOptions) error {
	engine, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	streams, err := engine.Dashboard()
	if err != nil {
		return err
	}
	if len(streams) == 0 {
		_, err := fmt.Fprintln(w, ui.Hint("No streams yet. Record one with 'nb note <stream> <value>'."))
		return err
	}
	return format.Dashboard(w, streams, opts)
}

func watchDashboard(parent context.Context, opts format.DashboardOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tty := isatty.IsTerminal(os.Stdout.Fd())
	w, err := watcher.New(watcher.Config{
		StorePath: getStorePath(),
		Logger:    logger,
		OnChange: func() {
			if tty {
				fmt.Print(clearScreen)
			}
			if err := drawDashboard(os.Stdout, opts); err != nil {
				fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
			}
		},
	})
	if err != nil {
		return handleError(ErrInternal, err, "")
	}
	if err := w.Start(ctx); err != nil {
		return handleError(ErrInternal, err, "")
	}
	return nil
}

func dashboardJSON(opts format.DashboardOptions) error {
	engine, closeStore, err := openEngine()
	if err != nil {
		return handleError(ErrStoreError, err, "")
	}
	defer closeStore()

	streams, err := engine.Dashboard()
	if err != nil {
		return handleEngineError(err)
	}

	type cell struct {
		ID        string `json:"id"`
		Name      string `json:"name,omitempty"`
		Count     int    `json:"count"`
		Sparkline string `json:"sparkline"`
	}
	cells := make([]cell, 0, len(streams))
	for _, s := range streams {
		cells = append(cells, cell{ID: s.ID, Name: s.Name, Count: s.Len(), Sparkline: format.Sparkline(s.Numbers())})
	}
	grid := format.Layout(len(streams), opts)
	outputSuccess(map[string]interface{}{
		"streams": cells,
		"grid": map[string]int{
			"columns":     grid.Columns,
			"rows":        grid.Rows,
			"cell_width":  grid.CellWidth,
			"cell_height": grid.CellHeight,
		},
	}, &Meta{Count: len(cells)})
	return nil
}

func init() {
	streamDashboardCmd.Flags().IntVarP(&dashboardColumns, "columns", "c", format.DefaultDashboardColumns, "Charts per row")
	streamDashboardCmd.Flags().BoolVarP(&dashboardWatch, "watch", "w", false, "Redraw when the store changes")
	streamCmd.AddCommand(streamDashboardCmd)
}
