package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"fatecdata/internal/filter"
	"fatecdata/internal/notices"
	"fatecdata/internal/pipeline"
	"fatecdata/internal/report"
	"fatecdata/internal/util"
)

func (a *app) noticesClient(url string) (*notices.Client, error) {
	if url == "" {
		url = a.cfg.NoticesCSVURL
	}
	if err := a.cfg.Require("NOTICES_CSV_URL", url); err != nil {
		return nil, err
	}
	return notices.NewClient(notices.ClientConfig{
		URL:       url,
		Timeout:   time.Duration(a.cfg.NoticesTimeoutMs) * time.Millisecond,
		Retries:   a.cfg.NoticesRetries,
		UserAgent: a.cfg.DemandUserAgent,
	}), nil
}

func newNoticesFetchCmd(a *app) *cobra.Command {
	var url, out string
	cmd := &cobra.Command{
		Use:   "notices:fetch",
		Short: "Download the published notices sheet as CSV.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				out = filepath.Join(a.cfg.OutputDir, "editais_cesu.csv")
			}
			client, err := a.noticesClient(url)
			if err != nil {
				return err
			}
			res, err := pipeline.NewNoticeService(a.db, a.logger, client).Fetch(cmd.Context(), out)
			if err != nil {
				return err
			}
			a.table(table.Row{"Notices", "Output"}, []table.Row{{res.Rows, res.Output}})
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "sheet CSV url (default $NOTICES_CSV_URL)")
	cmd.Flags().StringVar(&out, "out", "", "output path (default $OUTPUT_DIR/editais_cesu.csv)")
	return cmd
}

func newNoticesReportCmd(a *app) *cobra.Command {
	var (
		req         pipeline.ReportRequest
		url         string
		filtersPath string
		fields      []string
		multi       []string
		exact       []string
		today       string
	)
	cmd := &cobra.Command{
		Use:   "notices:report",
		Short: "Select open notices matching the filters and render them.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Input == "" && !req.Fetch {
				return fmt.Errorf("either --in or --fetch is required")
			}
			spec, err := buildSpec(filtersPath, fields, multi, exact)
			if err != nil {
				return err
			}
			req.Filter = spec
			if today != "" {
				if req.Today, err = util.ParseDate(today, nil); err != nil {
					return fmt.Errorf("--today: %w", err)
				}
			}
			if req.PDFPath == "" && req.TablePath == "" {
				req.PDFPath = filepath.Join(a.cfg.OutputDir, "editais.pdf")
			}
			req.Report = report.Options{
				FontPath:  a.cfg.ReportFontPath,
				SourceURL: a.cfg.ReportSourceURL,
				TablesURL: a.cfg.ReportTablesURL,
			}

			var fetcher pipeline.NoticeFetcher
			if req.Fetch {
				client, err := a.noticesClient(url)
				if err != nil {
					return err
				}
				fetcher = client
			}
			res, err := pipeline.NewNoticeService(a.db, a.logger, fetcher).Report(cmd.Context(), req)
			if err != nil {
				return err
			}
			a.table(table.Row{"Total", "Open", "Expired", "Bad deadline", "Matched"},
				[]table.Row{{res.Total, res.Deadline.Eligible, res.Deadline.Expired, res.Deadline.Malformed, res.Matched}})
			if res.Empty() {
				fmt.Fprintln(a.out, report.NoResultsMessage)
				return nil
			}
			rows := make([]table.Row, 0, res.Matched)
			for _, rec := range res.Selected.Records {
				rows = append(rows, table.Row{rec[notices.ColNumber], rec[notices.ColUnit], rec[notices.ColCourse], rec[notices.ColDiscipline], rec[notices.ColDeadline]})
			}
			a.table(table.Row{"Edital", "Fatec", "Curso", "Disciplina", "Data limite"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Input, "in", "", "saved notices csv or xlsx")
	cmd.Flags().BoolVar(&req.Fetch, "fetch", false, "download the sheet instead of reading --in")
	cmd.Flags().StringVar(&url, "url", "", "sheet CSV url used with --fetch (default $NOTICES_CSV_URL)")
	cmd.Flags().StringVar(&filtersPath, "filters", "", "json5 filter spec, merged with <name>.local.json5")
	cmd.Flags().StringArrayVar(&fields, "field", nil, `filter vector "Column=v1|v2", repeatable`)
	cmd.Flags().StringArrayVar(&multi, "multi", nil, "columns holding comma separated lists, repeatable")
	cmd.Flags().StringArrayVar(&exact, "exact", nil, "columns compared case-sensitively, repeatable")
	cmd.Flags().StringVar(&today, "today", "", "reference day for the deadline gate (default today)")
	cmd.Flags().StringVar(&req.PDFPath, "pdf", "", "pdf output (default $OUTPUT_DIR/editais.pdf when no --table)")
	cmd.Flags().StringVar(&req.TablePath, "table", "", "csv or xlsx output of the selected rows")
	addReadFlags(cmd, &req.Read)
	return cmd
}

func buildSpec(path string, fields, multi, exact []string) (filter.Spec, error) {
	var spec filter.Spec
	if path != "" {
		loaded, err := filter.Load(path)
		if err != nil {
			return spec, err
		}
		spec = loaded
	}
	for _, raw := range fields {
		f, err := filter.ParseFlag(raw)
		if err != nil {
			return spec, err
		}
		spec = spec.Merge(f)
	}
	return spec.MarkMulti(multi...).MarkExact(exact...), nil
}
