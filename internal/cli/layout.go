package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/design"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/layout"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/pipeline"
)

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	groups       []string
	cellMM       float64
	toolMM       float64
	stripWidthMM float64
	stockMM      float64
	noCache      bool
}

// layoutCommand creates the layout command. It shows how each group's
// pieces pack into kerf-adjusted rows on the stock board.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Show the packed board layout for a design's groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.groups, "group", "g", nil, "group id or name to show (repeatable)")
	cmd.Flags().Float64Var(&opts.cellMM, "cell", 0, "grid cell size in mm (default from design or config)")
	cmd.Flags().Float64Var(&opts.toolMM, "tool", 0, "tool width in mm (default from design or config)")
	cmd.Flags().Float64Var(&opts.stripWidthMM, "strip-width", 0, "strip width in mm (default from design or config)")
	cmd.Flags().Float64Var(&opts.stockMM, "stock", 0, "stock board length in mm (default from design or config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the derivation cache")

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, path string, opts *layoutOpts) error {
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
		Groups:       opts.groups,
		Logger:       c.Logger,
	}, d.Settings)
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	strips, err := runner.Derive(cmd.Context(), d, popts)
	if err != nil {
		return err
	}
	byID := design.StripsByID(strips)

	groups, err := resolveGroups(d, opts.groups)
	if err != nil {
		return err
	}

	for _, g := range groups {
		c.printGroupLayout(g, byID, popts)
	}
	return nil
}

// printGroupLayout packs one group and prints its rows with per-piece
// offsets and a fit check against the stock length.
func (c *CLI) printGroupLayout(g design.Group, byID map[string]design.Strip, opts pipeline.Options) {
	name := g.Name
	if name == "" {
		name = g.ID
	}

	printNewline()
	fmt.Println(StyleTitle.Render("Group " + name))

	result := layout.Pack(g, byID, opts.ToolMM)
	if len(result.Rows) == 0 {
		printDetail("no placed pieces")
		return
	}

	for _, row := range result.Rows {
		fmt.Printf("  row %d  %s used of %s\n",
			row.Index,
			StyleNumber.Render(c.formatLength(row.LengthMM)),
			c.formatLength(opts.StockMM))

		for _, p := range row.Pieces {
			line := fmt.Sprintf("%s at %s, length %s",
				StyleHighlight.Render(p.Strip.DisplayCode),
				c.formatPosition(p.X),
				c.formatLength(p.Strip.LengthMM))
			if !layout.ValidateStripPlacement(p.Strip.LengthMM, p.X, opts.StockMM, opts.StripWidthMM) {
				line += "  " + StyleWarning.Render("overhangs stock")
			}
			printDetail("%s", line)
		}
	}
}

// resolveGroups returns the requested groups, or all groups sorted by name
// when none are requested.
func resolveGroups(d *design.Design, requested []string) ([]design.Group, error) {
	if len(requested) == 0 {
		out := make([]design.Group, 0, len(d.Groups))
		for _, g := range d.Groups {
			out = append(out, g)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Name != out[j].Name {
				return out[i].Name < out[j].Name
			}
			return out[i].ID < out[j].ID
		})
		return out, nil
	}

	out := make([]design.Group, 0, len(requested))
	for _, idOrName := range requested {
		g, ok := d.Group(idOrName)
		if !ok {
			return nil, fmt.Errorf("group %q not found", idOrName)
		}
		out = append(out, g)
	}
	return out, nil
}
