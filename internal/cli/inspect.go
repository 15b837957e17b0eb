package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/design"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/inspect"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/pipeline"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	output   string // output file; empty derives from the input name
	format   string // dot, svg, or png
	detailed bool   // include coordinates and notch counts in labels
	cellMM   float64
	toolMM   float64
	noCache  bool
}

// inspectCommand creates the inspect command. It renders the design's
// crossing structure as a Graphviz over/under diagram.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Render the crossing structure as a Graphviz diagram",
		Long: `Render the crossing structure as a Graphviz diagram.

Each line becomes a node labeled with its strip display code; each crossing
becomes a directed edge from the over line to the under line, labeled with
the grid coordinate. Useful for checking override decisions before cutting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateInspectFormat(opts.format); err != nil {
				return err
			}
			return c.runInspect(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: derived from input)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "svg", "output format: svg (default), png, dot")
	cmd.Flags().BoolVarP(&opts.detailed, "detailed", "d", false, "include coordinates and notch counts in labels")
	cmd.Flags().Float64Var(&opts.cellMM, "cell", 0, "grid cell size in mm (default from design or config)")
	cmd.Flags().Float64Var(&opts.toolMM, "tool", 0, "tool width in mm (default from design or config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the derivation cache")

	return cmd
}

func validateInspectFormat(f string) error {
	switch f {
	case "svg", "png", "dot":
		return nil
	}
	return fmt.Errorf("invalid format: %s (must be 'svg', 'png', or 'dot')", f)
}

func (c *CLI) runInspect(cmd *cobra.Command, path string, opts *inspectOpts) error {
	d, err := design.ReadFile(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	strips, err := runner.Derive(cmd.Context(), d, c.layerConfig(pipeline.Options{
		CellMM: opts.cellMM,
		ToolMM: opts.toolMM,
		Logger: c.Logger,
	}, d.Settings))
	if err != nil {
		return err
	}

	dot := inspect.ToDOT(d, strips, inspect.Options{Detailed: opts.detailed})

	var data []byte
	switch opts.format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = inspect.RenderSVG(dot)
	case "png":
		data, err = inspect.RenderPNG(dot)
	}
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + "_crossings." + opts.format
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}

	printSuccess("Rendered crossing diagram")
	printFile(out)
	return nil
}
