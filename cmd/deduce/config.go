package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/deduce/pkg/deduce/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configurations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "default",
		Short: "Print the built-in configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Default().Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "check <file>",
		Short: "Load a configuration and build every component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := (&config.Loader{Path: args[0]}).Load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			stats := comp.Bundle.Stats()
			fmt.Fprintf(out, "ok: %d dictionaries, %d annotators\n", stats.Sets, len(comp.AnnotatorNames()))
			for _, name := range comp.Bundle.SetNames() {
				fmt.Fprintf(out, "  set  %-20s %d\n", name, comp.Bundle.Set(name).Len())
			}
			for _, name := range comp.Bundle.TrieNames() {
				trie, _ := comp.Bundle.LookupTrie(name)
				fmt.Fprintf(out, "  trie %-20s %d\n", name, trie.Len())
			}
			for _, p := range comp.Expander.Patterns() {
				fmt.Fprintf(out, "  context %s -> %s\n", p.Name(), p.Template())
			}
			return nil
		},
	})
	return cmd
}
