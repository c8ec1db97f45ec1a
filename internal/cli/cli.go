// Package cli implements the svgmcp command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/svgmcp/internal/config"
	"github.com/matzehuels/svgmcp/pkg/buildinfo"
	"github.com/matzehuels/svgmcp/pkg/convert"
	"github.com/matzehuels/svgmcp/pkg/output"
	"github.com/matzehuels/svgmcp/pkg/tools"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and completion scripts.
const appName = "svgmcp"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
	registry   *output.Registry
}

// New creates a new CLI instance with a default logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		Config:   config.Default(),
		registry: output.DefaultRegistry(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "svgmcp converts SVG markup to PNG and JPEG images",
		Long:          `svgmcp exposes SVG to PNG/JPEG conversion as Model Context Protocol tools, as a JSON HTTP API and as one-shot commands.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.toml, .yaml); default $XDG_CONFIG_HOME/svgmcp/config.toml")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.toolsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies the log level. --verbose
// wins over the configured level.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	return nil
}

// =============================================================================
// Dispatcher Factory
// =============================================================================

// newDispatcher builds the tool dispatcher from the loaded config.
func (c *CLI) newDispatcher() *tools.Dispatcher {
	packager := &output.Packager{Dir: c.Config.Output.Dir, Registry: c.registry}
	conv := convert.NewConverter(packager, c.Logger)
	conv.MaxPixels = c.Config.Render.MaxPixels
	conv.Strict = c.Config.Render.Strict
	return tools.NewDispatcher(conv, c.Logger, tools.WithDefaultQuality(c.Config.JPEG.DefaultQuality))
}
