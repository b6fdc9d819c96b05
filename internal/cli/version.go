package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/echo-bravo-yahoo/nb/internal/buildinfo"
	"github.com/echo-bravo-yahoo/nb/internal/ui"
)

const (
	defaultModulePath = "github.com/echo-bravo-yahoo/nb"
	sqliteModulePath  = "modernc.org/sqlite"
)

type versionInfo struct {
	Version      string `json:"version"`
	ModulePath   string `json:"module_path"`
	Commit       string `json:"commit,omitempty"`
	CommitTime   string `json:"commit_time,omitempty"`
	Modified     bool   `json:"modified"`
	SQLiteDriver string `json:"sqlite_driver,omitempty"`
	GoVersion    string `json:"go_version"`
	Platform     string `json:"platform"`
}

var readBuildInfo = debug.ReadBuildInfo

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentVersionInfo()

		if isJSONOutput() {
			outputSuccess(info, nil)
			return nil
		}

		fmt.Printf("nb %s\n", info.Version)
		if info.Commit != "" {
			commit := info.Commit
			if info.Modified {
				commit += " (modified)"
			}
			fmt.Printf("  commit   %s %s\n", commit, ui.Hint(info.CommitTime))
		}
		if info.SQLiteDriver != "" {
			fmt.Printf("  sqlite   %s %s\n", sqliteModulePath, info.SQLiteDriver)
		}
		fmt.Printf("  go       %s %s\n", info.GoVersion, info.Platform)
		return nil
	},
}

func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:    "devel",
		ModulePath: defaultModulePath,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := readBuildInfo()
	if !ok || bi == nil {
		applyLdflagsFallback(&info)
		return info
	}

	if bi.Main.Path != "" {
		info.ModulePath = bi.Main.Path
	}
	info.Version = normalizeVersion(bi.Main.Version)
	if bi.GoVersion != "" {
		info.GoVersion = bi.GoVersion
	}

	goos, goarch := buildSetting(bi, "GOOS"), buildSetting(bi, "GOARCH")
	if goos != "" && goarch != "" {
		info.Platform = goos + "/" + goarch
	}

	info.Commit = buildSetting(bi, "vcs.revision")
	info.CommitTime = buildSetting(bi, "vcs.time")
	info.Modified = strings.EqualFold(buildSetting(bi, "vcs.modified"), "true")
	info.SQLiteDriver = depVersion(bi, sqliteModulePath)
	applyLdflagsFallback(&info)

	return info
}

func normalizeVersion(version string) string {
	if version == "" || version == "(devel)" {
		return "devel"
	}
	return version
}

func buildSetting(info *debug.BuildInfo, key string) string {
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}

// depVersion returns the version of a linked module, following replacements.
func depVersion(info *debug.BuildInfo, path string) string {
	for _, dep := range info.Deps {
		if dep.Path != path {
			continue
		}
		if dep.Replace != nil {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return ""
}

// applyLdflagsFallback fills gaps from values stamped in by release builds.
func applyLdflagsFallback(info *versionInfo) {
	if info.Version == "devel" && buildinfo.Version != "" {
		info.Version = normalizeVersion(buildinfo.Version)
	}
	if info.Commit == "" {
		info.Commit = buildinfo.Commit
	}
	if info.CommitTime == "" {
		info.CommitTime = buildinfo.Date
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
