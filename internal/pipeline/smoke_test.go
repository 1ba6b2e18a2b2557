package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"fatecdata/internal"
	"fatecdata/internal/alias"
	"fatecdata/internal/demand"
	"fatecdata/internal/filter"
	"fatecdata/internal/notices"
	"fatecdata/internal/storage"
	"fatecdata/internal/tabular"
)

func openDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "fatec.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const demandCSV = "Ano,Semestre,Unidade,Curso,Período,Inscritos,Vagas,Demanda\n" +
	"2025,1,FATEC ITAQUERA,EVENTOS,NOTURNO,40,40,1\n" +
	"2025,1,Fatec  Itaquera ,EVENTOS,MANHÃ,10,40,0.25\n" +
	"2025,1,FATEC OSASCO,LOGÍSTICA,NOTURNO,80,40,2\n" +
	"2024,2,FATEC ITAQUERA,EVENTOS,NOTURNO,30,40,0.75\n"

func TestSmokeAliasTemplateThenApply(t *testing.T) {
	db := openDB(t)
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "todas_fatecs_demanda.csv"), demandCSV)
	svc := NewAliasService(db, zap.NewNop(), 0.85)

	tmpl, err := svc.Template(TemplateRequest{Input: in, Column: "Unidade", Output: filepath.Join(dir, "dic_unidades_template.csv")})
	require.NoError(t, err)
	assert.Equal(t, 4, tmpl.Rows)
	assert.Equal(t, []internal.AliasEntry{
		{Alias: "FATEC ITAQUERA", Canonical: "FATEC ITAQUERA"},
		{Alias: "Fatec Itaquera", Canonical: "Fatec Itaquera"},
		{Alias: "FATEC OSASCO", Canonical: "FATEC OSASCO"},
	}, tmpl.Entries)

	dict := writeFile(t, filepath.Join(dir, "dic_unidades_template_edited.csv"),
		"aliases,canonical\nFATEC ITAQUERA,Itaquera\nFatec Itaquera,Itaquera\n,ignored\n")
	out := filepath.Join(dir, "out", "todas_fatecs_demanda_normalizado.xlsx")
	res, err := svc.Apply(ApplyRequest{
		Input:   in,
		Output:  out,
		Maps:    []ColumnMap{{Column: "Unidade", Dictionary: dict}},
		Suggest: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Rows)
	require.Len(t, res.Columns, 1)
	assert.Equal(t, 1, res.Columns[0].Skipped)
	assert.Empty(t, res.Columns[0].Duplicates)
	assert.Equal(t, []alias.UnmappedLabel{{Value: "FATEC OSASCO", Count: 1}}, res.Columns[0].Unmapped)

	got, err := tabular.Read(out, tabular.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Itaquera", "Itaquera", "FATEC OSASCO", "Itaquera"}, got.Column("Unidade"))
	assert.Equal(t, []string{"EVENTOS", "EVENTOS", "LOGÍSTICA", "EVENTOS"}, got.Column("Curso"))

	runs, err := db.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "alias:apply", runs[0].Command)
	assert.Equal(t, 1, runs[0].Counts["unmapped"])
	assert.Equal(t, "alias:template", runs[1].Command)
}

func TestAliasApplyRejectDuplicates(t *testing.T) {
	db := openDB(t)
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "in.csv"), demandCSV)
	dict := writeFile(t, filepath.Join(dir, "dict.csv"), "aliases,canonical\nFatec Itaquera,Itaquera\nFATEC  ITAQUERA,Itaquera Leste\n")

	out := filepath.Join(dir, "out.csv")
	_, err := NewAliasService(db, nil, 0.85).Apply(ApplyRequest{
		Input: in, Output: out, RejectDuplicates: true,
		Maps: []ColumnMap{{Column: "Unidade", Dictionary: dict}},
	})
	var dup *alias.DuplicateAliasError
	require.True(t, errors.As(err, &dup))
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))

	runs, err := db.ListRuns(1)
	require.NoError(t, err)
	assert.Equal(t, storage.StatusFailed, runs[0].Status)
}

func TestAliasApplyMissingColumn(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "in.csv"), demandCSV)
	dict := writeFile(t, filepath.Join(dir, "dict.csv"), "aliases,canonical\na,b\n")
	_, err := NewAliasService(nil, nil, 0.85).Apply(ApplyRequest{
		Input: in, Output: filepath.Join(dir, "out.csv"),
		Maps: []ColumnMap{{Column: "Fatec", Dictionary: dict}},
	})
	var missing *internal.MissingColumnError
	assert.True(t, errors.As(err, &missing))
}

func TestParseColumnMap(t *testing.T) {
	cm, err := ParseColumnMap("Unidade = dic.csv")
	require.NoError(t, err)
	assert.Equal(t, ColumnMap{Column: "Unidade", Dictionary: "dic.csv"}, cm)
	_, err = ParseColumnMap("Unidade")
	assert.Error(t, err)
	_, err = ParseColumnMap("Unidade=")
	assert.Error(t, err)
}

const noticesCSV = "Nº,Unidade,Curso,Disciplina,Área,Tipo,Período,Abertura,Encerramento,Edital,Ficha,Tabela\n" +
	"1/2025,Tatuí,GTI,Banco de Dados,\"Ciência da computação, Informática\",Determinado,Noturno,01/12/2024,10/01/2025,https://e/1,https://f/1,https://t/1\n" +
	"2/2025,Osasco,PG,Teoria das Organizações,Administração e negócios,Indeterminado,Vespertino,01/12/2024,31/12/2024,https://e/2,https://f/2,https://t/2\n" +
	"3/2025,Tatuí,PG,Estatística,Matemática,Determinado,Noturno,01/12/2024,N/A,https://e/3,https://f/3,https://t/3\n" +
	"4/2025,Baixada Santista,GTI,Redes,Ciência da computação,Determinado,Noturno,01/12/2024,2025-02-01,https://e/4,https://f/4,https://t/4\n"

type fakeFetcher struct {
	raw string
}

func (f fakeFetcher) Fetch(context.Context) (internal.RecordSet, []byte, error) {
	set, err := notices.Parse([]byte(f.raw))
	return set, []byte(f.raw), err
}

func fixedClock() time.Time {
	return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
}

func TestSmokeNoticesFetchThenReport(t *testing.T) {
	db := openDB(t)
	dir := t.TempDir()
	svc := NewNoticeService(db, zap.NewNop(), fakeFetcher{raw: noticesCSV}).WithClock(fixedClock)

	fetched, err := svc.Fetch(context.Background(), filepath.Join(dir, "editais_cesu.csv"))
	require.NoError(t, err)
	assert.Equal(t, 4, fetched.Rows)
	last, err := db.GetMetadata("notices.last_fetch")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "2025-01-01T12:00:00Z", *last)

	spec := filter.Spec{Fields: []filter.Field{
		{Column: notices.ColUnit, Values: []string{"Tatuí", "Baixada Santista"}},
		{Column: notices.ColArea, Values: []string{"ciência da computação"}, Multi: true},
		{Column: notices.ColPeriod},
	}}
	res, err := svc.Report(context.Background(), ReportRequest{
		Input:     fetched.Output,
		Filter:    spec,
		PDFPath:   filepath.Join(dir, "editais.pdf"),
		TablePath: filepath.Join(dir, "editais.csv"),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, filter.DeadlineStats{Eligible: 2, Expired: 1, Malformed: 1}, res.Deadline)
	assert.Equal(t, 2, res.Matched)
	assert.Equal(t, []string{"1/2025", "4/2025"}, res.Selected.Column(notices.ColNumber))

	for _, name := range []string{"editais.pdf", "editais.csv"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestNoticesReportEmptySelection(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	dir := t.TempDir()
	svc := NewNoticeService(nil, zap.New(core), fakeFetcher{raw: noticesCSV}).WithClock(fixedClock)

	res, err := svc.Report(context.Background(), ReportRequest{
		Fetch:     true,
		Filter:    filter.Spec{Fields: []filter.Field{{Column: notices.ColUnit, Values: []string{"Jundiaí"}}}},
		PDFPath:   filepath.Join(dir, "editais.pdf"),
		TablePath: filepath.Join(dir, "editais.xlsx"),
	})
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Equal(t, 1, logs.FilterMessage("Nenhum edital encontrado com os critérios especificados.").Len())

	table, err := tabular.Read(filepath.Join(dir, "editais.xlsx"), tabular.Options{})
	require.NoError(t, err)
	assert.Equal(t, notices.Columns, table.Columns)
	assert.Zero(t, table.Len())
}

func TestNoticesReportUnknownFilterColumn(t *testing.T) {
	svc := NewNoticeService(nil, nil, fakeFetcher{raw: noticesCSV}).WithClock(fixedClock)
	_, err := svc.Report(context.Background(), ReportRequest{
		Fetch:  true,
		Filter: filter.Spec{Fields: []filter.Field{{Column: "Cidade", Values: []string{"x"}}}},
	})
	var missing *internal.MissingColumnError
	assert.True(t, errors.As(err, &missing))
}

type fakeScraper struct {
	res demand.Result
	err error
}

func (f fakeScraper) Scrape(context.Context, []string) (demand.Result, error) {
	return f.res, f.err
}

func TestDemandScrapeWritesPartialRows(t *testing.T) {
	db := openDB(t)
	out := filepath.Join(t.TempDir(), "todas_fatecs_demanda.csv")
	rows := []demand.Row{{Ano: "2025", Semestre: "1", Unidade: "FATEC ITAQUERA", Curso: "EVENTOS", Periodo: "NOTURNO", Inscritos: "40", Vagas: "40", Demanda: "1"}}
	svc := NewDemandService(db, nil, fakeScraper{
		res: demand.Result{Periods: []string{"20251"}, Units: 2, Rows: rows, Failures: []demand.Failure{{Period: "20251", Unit: "Fatec Osasco", Err: errors.New("timeout")}}},
		err: context.Canceled,
	})

	res, err := svc.Scrape(context.Background(), nil, out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, res.Rows)
	assert.Len(t, res.Failures, 1)

	set, err := tabular.Read(out, tabular.Options{})
	require.NoError(t, err)
	assert.Equal(t, demand.Columns, set.Columns)
	assert.Equal(t, []string{"FATEC ITAQUERA"}, set.Column("Unidade"))

	last, err := db.GetMetadata("demand.last_scrape")
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestMediaQRCode(t *testing.T) {
	db := openDB(t)
	out := filepath.Join(t.TempDir(), "qrcode_personalizado.png")
	info, err := NewMediaService(db, nil).QRCode("https://encurtador.com.br/AgKPH", out, 5)
	require.NoError(t, err)
	assert.Equal(t, info.Modules*5, info.Pixels)

	runs, err := db.ListRuns(1)
	require.NoError(t, err)
	assert.Equal(t, "qrcode", runs[0].Command)
	assert.Equal(t, info.Pixels, runs[0].Counts["pixels"])
}
