// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/echo-bravo-yahoo/nb/internal/config"
	"github.com/echo-bravo-yahoo/nb/internal/store"
	"github.com/echo-bravo-yahoo/nb/internal/stream"
	"github.com/echo-bravo-yahoo/nb/internal/ui"
)

var (
	// Global flags
	configPath string
	storeFlag  string // Explicit store path (overrides config and NB_STORE)
	verbose    bool

	// Resolved values
	resolvedConfigPath string
	cfg                *config.Config
	logger             = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "nb",
	Short: "nb - A notebook for numbers",
	Long: `nb records observations into named streams from the command line.

A note is a number, or a tally when you only give words, plus optional tags
and the time it happened. Streams can be shown as csv, tables, charts and
sparklines, or all at once on a dashboard.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configureLogging()

		// Skip config loading for commands that must work with a broken
		// config; the config commands load it themselves.
		switch cmd.Name() {
		case "completion", "help", "version", "config":
			return nil
		}
		if cmd.Parent() != nil && (cmd.Parent().Name() == "completion" || cmd.Parent().Name() == "config") {
			return nil
		}

		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "Run 'nb config path' to find the file and fix it")
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		return nil
	},
}

// errReported marks an error that has already been written for the user.
var errReported = errors.New("error already reported")

// Execute runs the CLI.
func Execute() error {
	syncRegistryMetadata(rootCmd)
	err := rootCmd.Execute()
	if err == nil || errors.Is(err, errReported) {
		return err
	}
	// Errors cobra raises itself (unknown flags, argument counts) never passed
	// through handleError.
	if jsonOutput {
		outputErrorFromErr(ErrInvalidInput, err, "Run 'nb help' for usage")
	} else {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Path to the store (overrides config and $NB_STORE)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log debug details to stderr")
}

func configureLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

// getStorePath returns the store location: --store, then $NB_STORE and the
// config file, then the default.
func getStorePath() string {
	if p := strings.TrimSpace(storeFlag); p != "" {
		return config.ExpandHome(p)
	}
	return getConfig().StorePath()
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)

	var loadedCfg *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		loadedCfg, err = config.LoadFrom(resolvedPath)
	} else {
		loadedCfg, err = config.LoadOrDefault(resolvedPath)
	}
	if err != nil {
		return nil, "", err
	}
	return loadedCfg, resolvedPath, nil
}

// openEngine opens the configured store and returns an engine over it.
// Caller is responsible for calling the returned close function.
func openEngine() (*stream.Engine, func(), error) {
	c := getConfig()
	path := getStorePath()
	s, err := store.Open(c.Store.Backend, path)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to open %s store at %s: %w", c.Store.Backend, path, err)
	}
	logger.Debug("store opened", "backend", c.Store.Backend, "path", path)

	engine := stream.New(s,
		stream.WithPolicy(stream.ReferencePolicy{IndexCeiling: c.References.IndexCeiling}),
		stream.WithLogger(logger),
	)
	closeFn := func() {
		if err := s.Close(); err != nil {
			logger.Warn("failed to close store", "path", path, "error", err)
		}
	}
	return engine, closeFn, nil
}
