package cli

import (
	"encoding/json"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/svgmcp/pkg/tools"
)

// toolsCommand creates the tools command for tool discovery.
func (c *CLI) toolsCommand() *cobra.Command {
	var (
		asJSON      bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the available conversion tools",
		Long: `List the tools served over MCP and the HTTP API.

The default output is a table. --json prints the discovery response exactly
as clients receive it, and -i opens a browser showing each tool's arguments.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := tools.List()
			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				return writeToolsJSON(out, list)
			case interactive:
				return runToolBrowser(cmd, list.Tools)
			default:
				fmt.Fprintln(out, renderToolTable(list.Tools))
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the discovery response as JSON")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse tools and their arguments interactively")
	cmd.MarkFlagsMutuallyExclusive("json", "interactive")

	return cmd
}

func writeToolsJSON(w io.Writer, list tools.ListResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}

func runToolBrowser(cmd *cobra.Command, descs []tools.Descriptor) error {
	p := tea.NewProgram(NewToolListModel(descs),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	_, err := p.Run()
	return err
}
