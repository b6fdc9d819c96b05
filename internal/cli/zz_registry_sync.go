package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/echo-bravo-yahoo/nb/internal/commands"
)

// syncRegistryMetadata copies help text, flag descriptions and flag value
// completions from the command registry onto the cobra tree.
func syncRegistryMetadata(root *cobra.Command) {
	var walk func(cmd *cobra.Command, path string)
	walk = func(cmd *cobra.Command, path string) {
		if path != "" {
			applyRegistryMetadata(cmd, path)
		}
		for _, child := range cmd.Commands() {
			walk(child, strings.TrimSpace(path+" "+child.Name()))
		}
	}
	walk(root, "")
}

func applyRegistryMetadata(cmd *cobra.Command, path string) {
	meta, ok := lookupRegistryMeta(path)
	if !ok {
		return
	}

	// Use strings stay in the CLI; the registry does not model optional
	// positional layouts such as correct's reference.
	if meta.Description != "" {
		cmd.Short = meta.Description
	}
	if meta.LongDesc != "" {
		cmd.Long = meta.LongDesc
	}
	if len(meta.Examples) > 0 {
		cmd.Example = "  " + strings.Join(meta.Examples, "\n  ")
	}

	for _, fm := range meta.Flags {
		flag := cmd.LocalFlags().Lookup(fm.Name)
		if flag == nil {
			continue
		}
		if fm.Description != "" {
			flag.Usage = fm.Description
		}
		if len(fm.Choices) > 0 {
			registerChoices(cmd, flag, fm.Choices)
		}
	}
}

// registerChoices offers a flag's closed set of values to shell completion.
// Registering twice fails harmlessly, so repeated syncs are fine.
func registerChoices(cmd *cobra.Command, flag *pflag.Flag, choices []string) {
	_ = cmd.RegisterFlagCompletionFunc(flag.Name, cobra.FixedCompletions(choices, cobra.ShellCompDirectiveNoFileComp))
}

func lookupRegistryMeta(path string) (commands.Meta, bool) {
	return commands.GetCommandMeta(path)
}
