package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/svgmcp/pkg/tools"
	"github.com/matzehuels/svgmcp/pkg/transport/httpapi"
	"github.com/matzehuels/svgmcp/pkg/transport/mcpserver"
)

// errNothingToServe is returned when every transport is disabled.
var errNothingToServe = errors.New("nothing to serve: --no-stdio needs --http or http.addr")

// serveOptions holds the flags of the serve command.
type serveOptions struct {
	httpAddr string
	noStdio  bool
}

// serveCommand creates the serve command that runs the MCP and HTTP transports.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion tools over MCP stdio and HTTP",
		Long: `Serve the conversion tools as a Model Context Protocol server on stdin/stdout.

With --http (or http.addr in the config file) the same tools are also served as
a JSON API. Logs go to stderr; stdout carries only protocol messages.`,
		Example: `  svgmcp serve
  svgmcp serve --http 127.0.0.1:8080
  svgmcp serve --http :8080 --no-stdio`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.httpAddr, "http", "", "also serve the HTTP API on this address (overrides http.addr)")
	cmd.Flags().BoolVar(&opts.noStdio, "no-stdio", false, "do not serve MCP on stdin/stdout")

	return cmd
}

// runServe runs the enabled transports until ctx is cancelled or the MCP
// client closes stdin.
func (c *CLI) runServe(ctx context.Context, opts serveOptions, stdin io.Reader, stdout io.Writer) error {
	addr := opts.httpAddr
	if addr == "" {
		addr = c.Config.HTTP.Addr
	}
	if opts.noStdio && addr == "" {
		return errNothingToServe
	}

	logger := loggerFromContext(ctx)
	registerLogHooks(logger)
	d := c.newDispatcher()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if !opts.noStdio {
		s := mcpserver.New(d, logger)
		g.Go(func() error {
			logger.Info("mcp server listening on stdio", "tools", len(tools.Names()))
			defer cancel()
			return s.ServeStdio(ctx, stdin, stdout)
		})
	}

	if addr != "" {
		g.Go(func() error {
			return httpapi.Serve(ctx, addr, httpapi.NewRouter(d, logger), logger)
		})
	}

	err := g.Wait()
	logger.Info("server stopped", "files_emitted", c.registry.Len())
	return err
}
