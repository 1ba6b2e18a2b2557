package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"fatecdata/internal/pipeline"
)

func newPDFImagesCmd(a *app) *cobra.Command {
	var in, out string
	var list bool
	cmd := &cobra.Command{
		Use:   "pdf:images",
		Short: "List or extract the images embedded in a PDF.",
		RunE: func(_ *cobra.Command, _ []string) error {
			if in == "" {
				return fmt.Errorf("--in is required")
			}
			svc := pipeline.NewMediaService(a.db, a.logger)
			if list {
				images, err := svc.ListImages(in)
				if err != nil {
					return err
				}
				rows := make([]table.Row, 0, len(images))
				for _, img := range images {
					rows = append(rows, table.Row{img.Page, img.Index, img.Name, fmt.Sprintf("%dx%d", img.Width, img.Height), img.Filter, img.FileName()})
				}
				a.table(table.Row{"Page", "#", "Resource", "Size", "Filter", "File"}, rows)
				return nil
			}

			files, err := svc.ExtractImages(in, out)
			if err != nil {
				return err
			}
			rows := make([]table.Row, 0, len(files))
			for _, f := range files {
				rows = append(rows, table.Row{f.Page, f.Index, f.Name, f.Path, f.Bytes})
			}
			a.table(table.Row{"Page", "#", "Resource", "File", "Bytes"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "pdf to read")
	cmd.Flags().StringVar(&out, "out", "imagens_extraidas", "destination folder")
	cmd.Flags().BoolVar(&list, "list", false, "only list the images")
	return cmd
}

func newQRCodeCmd(a *app) *cobra.Command {
	var url, out string
	var boxSize int
	cmd := &cobra.Command{
		Use:   "qrcode",
		Short: "Render a link as a borderless QR code PNG.",
		RunE: func(_ *cobra.Command, _ []string) error {
			if url == "" {
				return fmt.Errorf("--url is required")
			}
			if boxSize <= 0 {
				boxSize = a.cfg.QRBoxSize
			}
			info, err := pipeline.NewMediaService(a.db, a.logger).QRCode(url, out, boxSize)
			if err != nil {
				return err
			}
			a.table(table.Row{"Version", "Modules", "Pixels", "Output"}, []table.Row{{info.Version, info.Modules, info.Pixels, out}})
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "content to encode")
	cmd.Flags().StringVar(&out, "out", "qrcode_personalizado.png", "png output")
	cmd.Flags().IntVar(&boxSize, "box-size", 0, "pixels per module (default $QR_BOX_SIZE)")
	return cmd
}
