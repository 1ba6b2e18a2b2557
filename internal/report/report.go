// Package report renders filtered notices as a PDF.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"fatecdata/internal/notices"
	"fatecdata/internal/util"
)

const (
	NoResultsMessage = "Nenhum edital encontrado com os critérios especificados."
	TablesLabel      = "Tabelas de áreas, disciplinas e especificidades"

	blockHeight = 70.0
	lineHeight  = 6.0
	titleHeight = 8.0
)

type Options struct {
	// FontPath points to a TTF with full Unicode coverage. Empty falls back to
	// Helvetica with cp1252 translation.
	FontPath    string
	SourceURL   string
	TablesURL   string
	GeneratedAt time.Time
}

type writer struct {
	pdf  *fpdf.Fpdf
	tr   func(string) string
	opts Options
}

func Render(w io.Writer, list []notices.Notice, opts Options) error {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(opts.GeneratedAt)
	pdf.SetModificationDate(opts.GeneratedAt)
	pdf.SetTitle("Editais", true)

	pw := &writer{pdf: pdf, opts: opts}
	if opts.FontPath != "" {
		pdf.AddUTF8Font("Report", "", opts.FontPath)
		pdf.SetFont("Report", "", 12)
		pw.tr = func(s string) string { return s }
	} else {
		pdf.SetFont("Helvetica", "", 12)
		pw.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.AddPage()

	pw.header()
	if len(list) == 0 {
		pw.line(0, titleHeight, NoResultsMessage, 1, "", false)
	}
	for _, n := range list {
		pw.block(n)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return pdf.Output(w)
}

func RenderFile(path string, list []notices.Notice, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Render(f, list, opts); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

func (w *writer) line(width, height float64, text string, ln int, link string, fill bool) {
	w.pdf.CellFormat(width, height, w.tr(text), "", ln, "", fill, 0, link)
}

func (w *writer) links() {
	w.pdf.SetTextColor(0, 0, 255)
}

func (w *writer) plain() {
	w.pdf.SetTextColor(0, 0, 0)
}

func (w *writer) header() {
	w.pdf.SetFillColor(240, 240, 240)
	w.pdf.SetDrawColor(200, 200, 200)
	w.links()
	if w.opts.SourceURL != "" {
		w.line(0, titleHeight, w.opts.SourceURL, 1, w.opts.SourceURL, true)
	}
	if w.opts.TablesURL != "" {
		w.line(0, titleHeight, TablesLabel, 1, w.opts.TablesURL, true)
	}
	w.plain()
	w.line(0, titleHeight, "Data: "+w.opts.GeneratedAt.Format("02/01/2006, 15:04:05"), 1, "", true)
}

func (w *writer) block(n notices.Notice) {
	_, pageHeight := w.pdf.GetPageSize()
	_, _, _, bottom := w.pdf.GetMargins()
	if w.pdf.GetY()+blockHeight > pageHeight-bottom {
		w.pdf.AddPage()
	}

	w.line(0, lineHeight, "", 1, "", false)
	w.plain()
	w.line(0, titleHeight, fmt.Sprintf("Edital Nº %s - Fatec %s", n.Number, n.Unit), 1, "", true)
	w.line(0, lineHeight, "Curso: "+n.Course, 1, "", false)
	w.line(0, lineHeight, "Disciplina: "+n.Discipline, 1, "", false)
	w.line(100, lineHeight, "Período: "+n.Period, 0, "", false)
	w.line(0, lineHeight, "Tipo: "+n.Term, 1, "", false)
	w.line(100, lineHeight, "Abertura: "+util.FormatDate(n.Opening), 0, "", false)
	w.line(0, lineHeight, "Encerramento: "+util.FormatDate(n.Deadline), 1, "", false)
	w.pdf.MultiCell(0, lineHeight, w.tr("Área(s): "+n.Area), "", "", false)

	w.links()
	for _, l := range []struct{ label, url string }{
		{"Link do Edital", n.NoticeURL},
		{"Ficha de Interesse", n.FormURL},
		{"Tabela de Pontuação", n.TableURL},
	} {
		if l.url == "" {
			continue
		}
		w.line(0, lineHeight, l.label, 1, l.url, false)
	}
	w.plain()
	w.line(0, 4, "", 1, "", false)
}
