package main

import (
	"fmt"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"fatecdata/internal/pipeline"
	"fatecdata/internal/tabular"
)

func newAliasTemplateCmd(a *app) *cobra.Command {
	var req pipeline.TemplateRequest
	cmd := &cobra.Command{
		Use:   "alias:template",
		Short: "Write an identity dictionary of the distinct labels of a column.",
		RunE: func(_ *cobra.Command, _ []string) error {
			if req.Input == "" {
				return fmt.Errorf("--in is required")
			}
			if req.Output == "" {
				req.Output = filepath.Join(a.cfg.OutputDir, "dic_unidades_template.csv")
			}
			res, err := pipeline.NewAliasService(a.db, a.logger, a.cfg.AliasSuggestThreshold).Template(req)
			if err != nil {
				return err
			}
			a.table(table.Row{"Rows", "Distinct labels", "Dictionary"}, []table.Row{{res.Rows, len(res.Entries), req.Output}})
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Input, "in", "", "input csv or xlsx")
	cmd.Flags().StringVar(&req.Column, "column", "Unidade", "column to collect")
	cmd.Flags().StringVar(&req.Output, "out", "", "dictionary path (default $OUTPUT_DIR/dic_unidades_template.csv)")
	addReadFlags(cmd, &req.Read)
	return cmd
}

func newAliasApplyCmd(a *app) *cobra.Command {
	var (
		req  pipeline.ApplyRequest
		maps []string
	)
	cmd := &cobra.Command{
		Use:   "alias:apply",
		Short: "Normalize columns with curated alias dictionaries.",
		Long: `Normalize columns with curated alias dictionaries.

Every input row is written back, rows of empty cells included. Header text is
kept as read, except that a blank header becomes column_N and a repeated header
gets a .1, .2 suffix in the output.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if req.Input == "" || req.Output == "" {
				return fmt.Errorf("--in and --out are required")
			}
			for _, raw := range maps {
				cm, err := pipeline.ParseColumnMap(raw)
				if err != nil {
					return err
				}
				req.Maps = append(req.Maps, cm)
			}

			res, err := pipeline.NewAliasService(a.db, a.logger, a.cfg.AliasSuggestThreshold).Apply(req)
			if err != nil {
				return err
			}

			summary := make([]table.Row, 0, len(res.Columns))
			var unmapped, suggestions []table.Row
			for _, c := range res.Columns {
				summary = append(summary, table.Row{c.Column, c.Entries, c.Skipped, len(c.Duplicates), len(c.Unmapped)})
				for _, u := range c.Unmapped {
					unmapped = append(unmapped, table.Row{c.Column, u.Value, u.Count})
				}
				for _, s := range c.Suggestions {
					suggestions = append(suggestions, table.Row{c.Column, s.Value, s.Canonical, fmt.Sprintf("%.3f", s.Score)})
				}
			}
			a.table(table.Row{"Column", "Entries", "Blank rows", "Redefined", "Unmapped labels"}, summary)
			if len(unmapped) > 0 {
				a.table(table.Row{"Column", "Unmapped label", "Rows"}, unmapped)
			}
			if len(suggestions) > 0 {
				a.table(table.Row{"Column", "Label", "Closest canonical", "Score"}, suggestions)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Input, "in", "", "input csv or xlsx")
	cmd.Flags().StringVar(&req.Output, "out", "", "output csv or xlsx")
	cmd.Flags().StringArrayVar(&maps, "map", nil, "Column=dictionary.csv, repeatable, applied in order")
	cmd.Flags().BoolVar(&req.RejectDuplicates, "reject-duplicates", false, "fail when an alias maps to two canonicals")
	cmd.Flags().BoolVar(&req.Suggest, "suggest", false, "suggest canonicals for unmapped labels")
	cmd.Flags().BoolVar(&req.Write.BOM, "bom", false, "prefix csv output with a UTF-8 BOM")
	addReadFlags(cmd, &req.Read)
	return cmd
}

func addReadFlags(cmd *cobra.Command, opts *tabular.Options) {
	cmd.Flags().StringVar(&opts.Encoding, "encoding", "", "input csv encoding, e.g. windows-1252")
	cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "input xlsx sheet (default first)")
}
