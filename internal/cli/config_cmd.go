package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/echo-bravo-yahoo/nb/internal/config"
	"github.com/echo-bravo-yahoo/nb/internal/ui"
)

type globalConfigContext struct {
	cfg          *config.Config
	configPath   string
	configExists bool
}

var (
	configSetBackend          string
	configSetStorePath        string
	configSetFormat           string
	configSetTimeFormat       string
	configSetDashboardColumns int
	configSetIndexCeiling     int64
	configSetUIAccent         string
)

func loadGlobalConfigContextAllowMissing() (*globalConfigContext, error) {
	path := config.ResolveConfigPath(configPath)
	_, statErr := os.Stat(path)
	if statErr != nil && !os.IsNotExist(statErr) {
		return nil, statErr
	}

	loadedCfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	return &globalConfigContext{
		cfg:          loadedCfg,
		configPath:   path,
		configExists: statErr == nil,
	}, nil
}

func configData(ctx *globalConfigContext) map[string]interface{} {
	return map[string]interface{}{
		"config_path": ctx.configPath,
		"exists":      ctx.configExists,
		"store": map[string]interface{}{
			"backend": ctx.cfg.Store.Backend,
			"path":    ctx.cfg.StorePath(),
		},
		"display": map[string]interface{}{
			"format":            ctx.cfg.Display.Format,
			"time_format":       ctx.cfg.Display.TimeFormat,
			"dashboard_columns": ctx.cfg.Display.DashboardColumns,
		},
		"references": map[string]interface{}{
			"index_ceiling": ctx.cfg.References.IndexCeiling,
		},
		"ui": map[string]interface{}{
			"accent": strings.TrimSpace(ctx.cfg.UI.Accent),
		},
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	ctx, err := loadGlobalConfigContextAllowMissing()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}

	if isJSONOutput() {
		outputSuccess(configData(ctx), nil)
		return nil
	}

	fmt.Printf("config: %s\n", ctx.configPath)
	if !ctx.configExists {
		fmt.Println(ui.Hint("  (not created yet, showing defaults; run 'nb config init')"))
	}
	fmt.Printf("store.backend: %s\n", ctx.cfg.Store.Backend)
	fmt.Printf("store.path: %s\n", ctx.cfg.StorePath())
	fmt.Printf("display.format: %s\n", ctx.cfg.Display.Format)
	fmt.Printf("display.time_format: %s\n", ctx.cfg.Display.TimeFormat)
	fmt.Printf("display.dashboard_columns: %d\n", ctx.cfg.Display.DashboardColumns)
	fmt.Printf("references.index_ceiling: %d\n", ctx.cfg.References.IndexCeiling)
	if v := strings.TrimSpace(ctx.cfg.UI.Accent); v != "" {
		fmt.Printf("ui.accent: %s\n", v)
	}
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the nb config file",
	Long: `Manage the global nb config.toml.

With no subcommand the effective configuration is shown.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ResolveConfigPath(configPath)
		if isJSONOutput() {
			_, err := os.Stat(path)
			outputSuccess(map[string]interface{}{
				"config_path": path,
				"exists":      err == nil,
			}, nil)
			return nil
		}
		fmt.Println(path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a commented config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		targetPath := config.ResolveConfigPath(configPath)
		created, err := config.CreateDefault(targetPath)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path": targetPath,
				"created":     created,
			}, nil)
			return nil
		}

		if created {
			fmt.Println(ui.Successf("Created config: %s", ui.FilePath(targetPath)))
		} else {
			fmt.Println(ui.Infof("Config already exists: %s", ui.FilePath(targetPath)))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set one or more config fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadGlobalConfigContextAllowMissing()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		changed := make([]string, 0, 7)
		setString := func(flag, key string, src string, dst *string) error {
			if !cmd.Flags().Changed(flag) {
				return nil
			}
			value := strings.TrimSpace(src)
			if value == "" {
				return fmt.Errorf("--%s cannot be empty", flag)
			}
			*dst = value
			changed = append(changed, key)
			return nil
		}
		for _, f := range []struct {
			flag, key string
			src       string
			dst       *string
		}{
			{"backend", "store.backend", configSetBackend, &ctx.cfg.Store.Backend},
			{"store-path", "store.path", configSetStorePath, &ctx.cfg.Store.Path},
			{"format", "display.format", configSetFormat, &ctx.cfg.Display.Format},
			{"time-format", "display.time_format", configSetTimeFormat, &ctx.cfg.Display.TimeFormat},
			{"ui-accent", "ui.accent", configSetUIAccent, &ctx.cfg.UI.Accent},
		} {
			if err := setString(f.flag, f.key, f.src, f.dst); err != nil {
				return handleError(ErrInvalidInput, err, "")
			}
		}
		if cmd.Flags().Changed("dashboard-columns") {
			ctx.cfg.Display.DashboardColumns = configSetDashboardColumns
			changed = append(changed, "display.dashboard_columns")
		}
		if cmd.Flags().Changed("index-ceiling") {
			ctx.cfg.References.IndexCeiling = configSetIndexCeiling
			changed = append(changed, "references.index_ceiling")
		}

		if len(changed) == 0 {
			return handleErrorMsg(ErrInvalidInput, "no fields provided; pass at least one flag", "Run 'nb config set --help' for the fields")
		}
		if err := ctx.cfg.Validate(); err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		ctx.configExists = true
		if isJSONOutput() {
			data := configData(ctx)
			data["changed"] = changed
			outputSuccess(data, nil)
			return nil
		}

		fmt.Println(ui.Successf("Updated config: %s", ui.FilePath(ctx.configPath)))
		fmt.Println(ui.Hint("  changed: " + strings.Join(changed, ", ")))
		return nil
	},
}

func init() {
	configSetCmd.Flags().StringVar(&configSetBackend, "backend", "", "Store backend (sqlite|file)")
	configSetCmd.Flags().StringVar(&configSetStorePath, "store-path", "", "Store file path")
	configSetCmd.Flags().StringVar(&configSetFormat, "format", "", "Default show format")
	configSetCmd.Flags().StringVar(&configSetTimeFormat, "time-format", "", "Default time format")
	configSetCmd.Flags().IntVar(&configSetDashboardColumns, "dashboard-columns", 0, "Charts per dashboard row")
	configSetCmd.Flags().Int64Var(&configSetIndexCeiling, "index-ceiling", 0, "Largest reference read as a position")
	configSetCmd.Flags().StringVar(&configSetUIAccent, "ui-accent", "", "UI accent color (ANSI 0-255 or #RRGGBB)")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
