// Package cli implements the kumiko command-line interface.
//
// This package provides commands for deriving cut-strips from lattice
// designs, exporting SVG cut-paths, inspecting crossing structure, and
// managing stored designs and the derivation cache. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - strips: Derive the physical cut-strips for a design
//   - export: Render SVG cut-paths for a design's groups
//   - layout: Show the packed board layout for a group
//   - normalize: Merge overlapping collinear lines in a design file
//   - inspect: Render the crossing structure as a Graphviz diagram
//   - designs: Manage the local design store
//   - cache: Manage the derivation cache
//   - serve: Run the HTTP API server
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/majjacz/Kumiko-Designer-sub000/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/buildinfo"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/cache"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/pipeline"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "kumiko"

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
	Config Config
}

// New creates a new CLI instance with a default logger and the on-disk
// configuration loaded (missing config files fall back to defaults).
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		Config: LoadConfigOrDefault(""),
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
		Short:        "Kumiko derives physical cut-strips from lattice designs",
		Long:         `Kumiko turns grid-space lattice designs into the physical strips, notch positions, and SVG cut-paths needed to build traditional kumiko panels.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Make the logger reachable from every command context.
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	// Register all subcommands
	root.AddCommand(c.stripsCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.normalizeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.designsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := c.resolveCacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newStore opens the local file-backed design store.
func (c *CLI) newStore() (*store.FileStore, error) {
	return store.NewFileStore("")
}

// =============================================================================
// Paths
// =============================================================================

// resolveCacheDir returns the configured cache directory, falling back to
// the XDG default.
func (c *CLI) resolveCacheDir() (string, error) {
	if c.Config.CacheDir != "" {
		return c.Config.CacheDir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/kumiko/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configPath returns the default config file path (~/.config/kumiko/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
