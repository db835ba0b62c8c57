package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newAuditCmd(g *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent de-identification runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := g.requireStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.RecentRuns(ctx, limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, r := range runs {
				tags := make([]string, 0, len(r.TagCounts))
				for tag, n := range r.TagCounts {
					tags = append(tags, fmt.Sprintf("%s=%d", tag, n))
				}
				sort.Strings(tags)
				line := fmt.Sprintf("%s  %s  %d  %s", r.DocID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Total(), strings.Join(tags, " "))
				if len(r.Skipped) > 0 {
					line += "  skipped: " + strings.Join(r.Skipped, ",")
				}
				fmt.Fprintln(w, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show (0 for all)")
	cmd.AddCommand(newAuditPruneCmd(g))
	return cmd
}

func newAuditPruneCmd(g *globalFlags) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete audit runs older than a given age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			ctx := cmd.Context()
			st, err := g.requireStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			pruned, err := st.PruneRuns(ctx, time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d runs\n", pruned)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 90*24*time.Hour, "minimum age of the runs to delete")
	return cmd
}
