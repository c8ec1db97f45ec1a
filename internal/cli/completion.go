package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// shellCompletion describes how to generate and install the completion
// script for one shell. Install lines are formats taking the app name.
type shellCompletion struct {
	name    string
	gen     func(root *cobra.Command, w io.Writer) error
	load    string
	persist string
}

var completionShells = []shellCompletion{
	{
		name:    "bash",
		gen:     func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
		load:    "source <(%[1]s completion bash)",
		persist: "%[1]s completion bash > ~/.local/share/bash-completion/completions/%[1]s",
	},
	{
		name:    "zsh",
		gen:     func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
		load:    "source <(%[1]s completion zsh)",
		persist: `%[1]s completion zsh > "${fpath[1]}/_%[1]s"`,
	},
	{
		name:    "fish",
		gen:     func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
		load:    "%[1]s completion fish | source",
		persist: "%[1]s completion fish > ~/.config/fish/completions/%[1]s.fish",
	},
	{
		name:    "powershell",
		gen:     func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
		load:    "%[1]s completion powershell | Out-String | Invoke-Expression",
		persist: "%[1]s completion powershell > %[1]s.ps1  # then source it from $PROFILE",
	},
}

// completionHelp renders the install instructions for every shell.
func completionHelp() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Print a shell completion script for %s.\n\n", appName)
	b.WriteString("Zsh needs compinit enabled. Start a new shell after installing.\n")
	for _, sh := range completionShells {
		fmt.Fprintf(&b, "\n%s:\n", sh.name)
		fmt.Fprintf(&b, "  "+sh.load+"\n", appName)
		fmt.Fprintf(&b, "  "+sh.persist+"\n", appName)
	}
	return b.String()
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	names := make([]string, len(completionShells))
	for i, sh := range completionShells {
		names[i] = sh.name
	}

	return &cobra.Command{
		Use:                   fmt.Sprintf("completion [%s]", strings.Join(names, "|")),
		Short:                 "Generate shell completion scripts",
		Long:                  completionHelp(),
		DisableFlagsInUseLine: true,
		ValidArgs:             names,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, sh := range completionShells {
				if sh.name == args[0] {
					return sh.gen(cmd.Root(), cmd.OutOrStdout())
				}
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}
