// Package cli implements the svglayout command-line interface.
//
// Commands:
//   - validate: check and sanitize a document
//   - render: render a document to SVG, PNG or JSON through the cached pipeline
//   - convert: move a document to another aspect ratio
//   - bounds: print the bounding box of a document's geometry
//   - import: rebuild a document from an SVG
//   - report: summarize size, complexity and recommendations
//   - debug: draw region and layer overlays, browse issues interactively
//   - regions: list the regions available on a canvas
//   - cache: inspect and clear the artifact cache
//
// Settings come from svglayout.toml (see package config); flags override
// them. All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/svglayout/pkg/buildinfo"
	"github.com/matzehuels/svglayout/pkg/config"
	"github.com/matzehuels/svglayout/pkg/pipeline"
)

const appName = "svglayout"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// out receives command output. Logs and the spinner go to stderr.
var out io.Writer = os.Stdout

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
	config     config.Config
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "svglayout validates, lays out and renders layered SVG documents",
		Long:         `svglayout turns unified layered documents (layers of styled paths placed into named canvas regions) into SVG and PNG, and helps debug their layout.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./svglayout.toml, then the user config dir)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the artifact cache")

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.boundsCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.debugCommand())
	root.AddCommand(c.regionsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, src, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg
	if src != "" {
		c.Logger.Debug("loaded config", "path", src)
	}
	return nil
}

// newRunner creates a pipeline runner over the configured cache.
func (c *CLI) newRunner(cmd *cobra.Command) (*pipeline.Runner, error) {
	cfg := c.config
	if c.noCache {
		cfg.Cache.Backend = config.BackendNone
	}
	store, err := cfg.OpenCache(cmd.Context())
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// parseFormats parses a comma-separated format list. An empty string keeps
// the configured formats.
func parseFormats(s string, fallback []string) []string {
	if s == "" {
		return fallback
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
