package cli

import (
	"github.com/spf13/cobra"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/design"
)

// normalizeOpts holds the command-line flags for the normalize command.
type normalizeOpts struct {
	output string // output file; empty rewrites the input in place
	dryRun bool   // report the merge result without writing
}

// normalizeCommand creates the normalize command. It merges overlapping
// collinear lines in a design file into maximal runs.
func (c *CLI) normalizeCommand() *cobra.Command {
	var opts normalizeOpts

	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Merge overlapping collinear lines in a design file",
		Long: `Merge overlapping collinear lines in a design file.

Overlapping or touching lines along the same axis collapse into one
maximal line, so the derived strip count matches the physical piece count.
Intersection overrides are cleared because merged lines get fresh ids.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNormalize(args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: rewrite input in place)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "report the merge result without writing")

	return cmd
}

func (c *CLI) runNormalize(path string, opts *normalizeOpts) error {
	d, err := design.ReadFile(path)
	if err != nil {
		return err
	}

	before := len(d.Lines)
	merged := design.Normalize(d.Lines)
	if len(merged) == before {
		printInfo("Already normalized (%d lines)", before)
		return nil
	}

	if opts.dryRun {
		printInfo("Would merge %d lines into %d", before, len(merged))
		return nil
	}

	d.Lines = merged
	d.ClearOverrides()

	out := opts.output
	if out == "" {
		out = path
	}
	if err := design.WriteFile(d, out); err != nil {
		return err
	}

	printSuccess("Merged %d lines into %d", before, len(merged))
	printFile(out)
	return nil
}
