package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/design"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/pipeline"
)

// stripsOpts holds the command-line flags for the strips command.
type stripsOpts struct {
	cellMM   float64 // grid cell size in millimeters
	toolMM   float64 // tool (kerf) width in millimeters
	detailed bool    // list notch positions per strip
	asJSON   bool    // emit the strip list as JSON instead of a table
	noCache  bool    // disable the derivation cache
	refresh  bool    // bypass the cache and recompute
}

// stripsCommand creates the strips command. It derives the physical
// cut-strips for a design file and prints the cutting list.
func (c *CLI) stripsCommand() *cobra.Command {
	var opts stripsOpts

	cmd := &cobra.Command{
		Use:   "strips [file]",
		Short: "Derive the physical cut-strips for a design",
		Long: `Derive the physical cut-strips for a design.

Every line in the design becomes one strip with a trimmed physical length
and a list of half-depth notch positions. Strips that describe the same
physical piece (reversed or flipped) share a display code, and strips with
the same length and notch spacing stack in one bank regardless of which
face each notch is cut from, so the cutting list shows how many
interchangeable copies of each strip the design needs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStrips(cmd, args[0], &opts)
		},
	}

	cmd.Flags().Float64Var(&opts.cellMM, "cell", 0, "grid cell size in mm (default from design or config)")
	cmd.Flags().Float64Var(&opts.toolMM, "tool", 0, "tool width in mm (default from design or config)")
	cmd.Flags().BoolVarP(&opts.detailed, "detailed", "d", false, "list notch positions per strip")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "emit the strip list as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the derivation cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the cache and recompute")

	return cmd
}

func (c *CLI) runStrips(cmd *cobra.Command, path string, opts *stripsOpts) error {
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
		CellMM:  opts.cellMM,
		ToolMM:  opts.toolMM,
		Refresh: opts.refresh,
		Logger:  c.Logger,
	}, d.Settings)

	p := newProgress(loggerFromContext(cmd.Context()))
	strips, err := runner.Derive(cmd.Context(), d, popts)
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Derived %d strips from %d lines", len(strips), len(d.Lines)))

	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(strips)
	}

	c.printCuttingList(strips, opts.detailed)
	return nil
}

// stripBank is one cutting-list entry: all strips that are manufacturing-
// identical when face orientation is ignored. Codes lists the face-variant
// display codes stacked in this bank.
type stripBank struct {
	strip design.Strip
	count int
	codes []string
}

// bankStrips groups strips by their config key, preserving first-seen
// order. Strips with the same length and notch spacing stack in one bank
// even when their notch faces differ.
func bankStrips(strips []design.Strip) []stripBank {
	byKey := make(map[string]int)
	var banks []stripBank
	for _, s := range strips {
		key := design.ConfigKey(s)
		i, ok := byKey[key]
		if !ok {
			i = len(banks)
			byKey[key] = i
			banks = append(banks, stripBank{strip: s})
		}
		banks[i].count++
		if !slices.Contains(banks[i].codes, s.DisplayCode) {
			banks[i].codes = append(banks[i].codes, s.DisplayCode)
		}
	}
	return banks
}

// printCuttingList prints one line per strip bank with a piece count, the
// face-variant display codes sharing the bank, and optional notch detail.
func (c *CLI) printCuttingList(strips []design.Strip, detailed bool) {
	printNewline()
	fmt.Println(StyleTitle.Render("Cutting list"))
	for _, b := range bankStrips(strips) {
		line := fmt.Sprintf("%s  %s  ×%d  %d notches",
			StyleHighlight.Render(strings.Join(b.codes, "/")),
			c.formatLength(b.strip.LengthMM),
			b.count,
			len(b.strip.Notches))
		fmt.Println("  " + line)

		if detailed {
			for _, n := range b.strip.Notches {
				face := "bottom"
				if n.FromTop {
					face = "top"
				}
				printDetail("notch at %s (%s)", c.formatPosition(n.DistMM), face)
			}
		}
	}
	printNewline()
	printStats(0, len(strips), false)
	printNextStep("Export cut-paths", appName+" export <file> --pass bottom")
}
