package main

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newRunsListCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs:list",
		Short: "Show the most recent recorded runs.",
		RunE: func(_ *cobra.Command, _ []string) error {
			runs, err := a.db.ListRuns(limit)
			if err != nil {
				return err
			}
			rows := make([]table.Row, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, table.Row{r.ID, r.CreatedAt, r.Command, r.Status, formatCounts(r.Counts), r.Timings["totalMs"], r.TraceID})
			}
			a.table(table.Row{"ID", "At", "Command", "Status", "Counts", "ms", "Trace"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs")
	return cmd
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+strconv.Itoa(counts[k]))
	}
	return strings.Join(parts, " ")
}
