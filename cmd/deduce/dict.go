package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/deduce/pkg/deduce/lexicon"
)

func newDictCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Manage dictionary lists in the store",
	}
	cmd.AddCommand(newDictImportCmd(g), newDictListCmd(g), newDictRemoveCmd(g))
	return cmd
}

func newDictImportCmd(g *globalFlags) *cobra.Command {
	var replace bool
	var minLength int
	cmd := &cobra.Command{
		Use:   "import <list> <file>",
		Short: "Import a line-oriented word list",
		Long: "Import a word list with one item per line. Blank lines and lines " +
			"starting with # are skipped. List names match the dictionary names " +
			"of the configuration, e.g. " + lexicon.Placenames + ".",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			items, err := lexicon.LoadList(args[1], minLength)
			if err != nil {
				return err
			}
			st, err := g.requireStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if replace {
				if err := st.ReplaceList(ctx, args[0], items); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: replaced with %d items\n", args[0], len(items))
				return nil
			}
			added, err := st.AddListItems(ctx, args[0], items)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d new of %d items\n", args[0], added, len(items))
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "replace the list instead of adding to it")
	cmd.Flags().IntVar(&minLength, "min-length", 0, "drop items shorter than this many characters")
	return cmd
}

func newDictListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list [list]",
		Short: "Show stored lists, or the items of one list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := g.requireStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			w := cmd.OutOrStdout()
			if len(args) == 1 {
				items, err := st.ListItems(ctx, args[0])
				if err != nil {
					return err
				}
				for _, it := range items {
					fmt.Fprintln(w, it)
				}
				return nil
			}
			lists, err := st.Lists(ctx)
			if err != nil {
				return err
			}
			for _, l := range lists {
				fmt.Fprintf(w, "%-20s %d\n", l.Name, l.Items)
			}
			return nil
		},
	}
}

func newDictRemoveCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <list> <item>...",
		Short: "Remove items from a list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := g.requireStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			removed, err := st.RemoveListItems(ctx, args[0], args[1:])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: removed %d items\n", args[0], removed)
			return nil
		},
	}
}
