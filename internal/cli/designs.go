package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/design"
)

// designsCommand creates the designs command group for managing the
// local design store.
func (c *CLI) designsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "designs",
		Short: "Manage the local design store",
	}

	cmd.AddCommand(c.designsListCommand())
	cmd.AddCommand(c.designsShowCommand())
	cmd.AddCommand(c.designsSaveCommand())
	cmd.AddCommand(c.designsDeleteCommand())
	cmd.AddCommand(c.designsPathCommand())

	return cmd
}

// designsListCommand creates the "designs list" subcommand.
func (c *CLI) designsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored designs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore()
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			infos, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				printInfo("No stored designs")
				return nil
			}

			for _, info := range infos {
				fmt.Printf("  %s  %s\n",
					StyleHighlight.Render(info.Name),
					StyleDim.Render(fmt.Sprintf("%d lines · %d groups · %s",
						info.Lines, info.Groups, info.UpdatedAt.Format("2006-01-02 15:04"))))
			}
			return nil
		},
	}
}

// designsShowCommand creates the "designs show" subcommand.
func (c *CLI) designsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Print a stored design as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore()
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			d, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		},
	}
}

// designsSaveCommand creates the "designs save" subcommand.
func (c *CLI) designsSaveCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save [file]",
		Short: "Save a design file into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := design.ReadFile(args[0])
			if err != nil {
				return err
			}

			if name == "" {
				name = d.Name
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			st, err := c.newStore()
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			if err := st.Put(cmd.Context(), name, d); err != nil {
				return err
			}
			printSuccess("Saved design %q", name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "store name (default: design name or file name)")
	return cmd
}

// designsDeleteCommand creates the "designs delete" subcommand.
func (c *CLI) designsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a stored design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore()
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted design %q", args[0])
			return nil
		},
	}
}

// designsPathCommand creates the "designs path" subcommand.
func (c *CLI) designsPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the design store directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore()
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			fmt.Println(st.Path())
			return nil
		},
	}
}
