package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/design"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/pipeline"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	output       string   // output file (single group) or base path (multiple)
	pass         string   // cutting pass: all, top, or bottom
	flip         bool     // mirror notch faces for a turned-over board
	groups       []string // group ids or names to export; empty exports all
	cellMM       float64
	toolMM       float64
	stripWidthMM float64
	stockMM      float64
	noCache      bool
	refresh      bool
}

// exportCommand creates the export command for rendering SVG cut-paths.
//
// Default settings:
//   - pass: all (full-depth cuts and both notch faces)
//   - output: derived from the input file name
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Render SVG cut-paths for a design's groups",
		Long: `Render SVG cut-paths for a design's groups.

Each group becomes one SVG board: full-depth cut lines in black, half-depth
notch lines in gray, sized in centimeters for direct machine import. The
top pass suppresses cut lines entirely so only the notches facing up are
machined; combine --pass top with --flip after turning the board over.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single group) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.pass, "pass", "p", "", "cutting pass: all (default), top, bottom")
	cmd.Flags().BoolVar(&opts.flip, "flip", false, "mirror notch faces for a turned-over board")
	cmd.Flags().StringSliceVarP(&opts.groups, "group", "g", nil, "group id or name to export (repeatable)")
	cmd.Flags().Float64Var(&opts.cellMM, "cell", 0, "grid cell size in mm (default from design or config)")
	cmd.Flags().Float64Var(&opts.toolMM, "tool", 0, "tool width in mm (default from design or config)")
	cmd.Flags().Float64Var(&opts.stripWidthMM, "strip-width", 0, "strip width in mm (default from design or config)")
	cmd.Flags().Float64Var(&opts.stockMM, "stock", 0, "stock board length in mm (default from design or config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the cache and re-render")

	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, path string, opts *exportOpts) error {
	d, err := design.ReadFile(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.layerConfig(pipeline.Options{
		CellMM:       opts.cellMM,
		ToolMM:       opts.toolMM,
		StripWidthMM: opts.stripWidthMM,
		StockMM:      opts.stockMM,
		Pass:         opts.pass,
		Flip:         opts.flip,
		Groups:       opts.groups,
		Refresh:      opts.refresh,
		Logger:       c.Logger,
	}, d.Settings)

	res, err := runner.Execute(cmd.Context(), d, popts)
	if err != nil {
		return err
	}

	if len(res.Artifacts) == 0 {
		printWarning("No cut-paths to export (no placed pieces, or the selected pass is empty)")
		return nil
	}

	names := groupNames(d)
	for _, id := range sortedArtifactIDs(res.Artifacts) {
		out := artifactPath(opts.output, path, names[id], len(res.Artifacts) > 1)
		if err := os.WriteFile(out, res.Artifacts[id], 0o644); err != nil {
			return err
		}
		printFile(out)
	}

	printSuccess("Exported %d board(s)", len(res.Artifacts))
	printStats(res.Stats.LineCount, res.Stats.StripCount, res.CacheInfo.ExportHit)
	return nil
}

// artifactPath builds the output path for one group's SVG. With multiple
// groups the group name is appended to the base path.
func artifactPath(output, input, groupName string, multiple bool) string {
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else {
		base = strings.TrimSuffix(base, ".svg")
	}
	if multiple && groupName != "" {
		return fmt.Sprintf("%s_%s.svg", base, sanitizeName(groupName))
	}
	return base + ".svg"
}

// sanitizeName makes a group name safe for use in a file name.
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
}

// groupNames maps group id to name for output file naming.
func groupNames(d *design.Design) map[string]string {
	out := make(map[string]string, len(d.Groups))
	for id, g := range d.Groups {
		out[id] = g.Name
	}
	return out
}

func sortedArtifactIDs(artifacts map[string][]byte) []string {
	ids := make([]string, 0, len(artifacts))
	for id := range artifacts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
