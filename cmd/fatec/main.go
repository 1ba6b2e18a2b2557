package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fatecdata/internal/config"
	"fatecdata/internal/logging"
	"fatecdata/internal/storage"
)

type app struct {
	cfg    config.Config
	logger *zap.Logger
	db     *storage.DB
	out    io.Writer

	dbPath string
	dev    bool
	quiet  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := &app{out: os.Stdout}
	err := newRootCmd(a).ExecuteContext(ctx)
	stop()
	if err != nil {
		if a.logger != nil {
			a.logger.Error("command failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	a.teardown()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:               "fatec",
		Short:             "Scrape, normalize and filter FATEC/CESU public data.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "run ledger path (default $DB_PATH)")
	root.PersistentFlags().BoolVar(&a.dev, "dev", false, "force development logging")
	root.PersistentFlags().BoolVar(&a.quiet, "quiet", false, "do not print summary tables")

	root.AddCommand(
		newDemandScrapeCmd(a),
		newAliasTemplateCmd(a),
		newAliasApplyCmd(a),
		newNoticesFetchCmd(a),
		newNoticesReportCmd(a),
		newPDFImagesCmd(a),
		newQRCodeCmd(a),
		newRunsListCmd(a),
	)
	return root
}

func (a *app) setup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	if a.dbPath != "" {
		a.cfg.DBPath = a.dbPath
	}

	logger, err := logging.New(a.cfg.LogDevelopment || a.dev)
	if err != nil {
		return err
	}
	a.logger = logger

	db, err := storage.Open(a.cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open run ledger: %w", err)
	}
	a.db = db
	return nil
}

func (a *app) teardown() {
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) table(header table.Row, rows []table.Row) {
	if a.quiet {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(a.out)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.SetStyle(table.StyleRounded)
	t.Render()
}
