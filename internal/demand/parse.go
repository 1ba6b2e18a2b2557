package demand

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"fatecdata/internal"
)

const (
	PeriodSelector = `select[name="ano-sem"]`
	UnitSelector   = `#FATEC`
	SubmitSelector = `button.btn.btn-primary[type='send']`
	TableSelector  = `table.table-striped`
)

// Columns is the header of the demand CSV.
var Columns = []string{"Ano", "Semestre", "Unidade", "Curso", "Período", "Inscritos", "Vagas", "Demanda"}

type Row struct {
	Ano       string
	Semestre  string
	Unidade   string
	Curso     string
	Periodo   string
	Inscritos string
	Vagas     string
	Demanda   string
}

func (r Row) Record() internal.Record {
	return internal.Record{
		"Ano":       r.Ano,
		"Semestre":  r.Semestre,
		"Unidade":   r.Unidade,
		"Curso":     r.Curso,
		"Período":   r.Periodo,
		"Inscritos": r.Inscritos,
		"Vagas":     r.Vagas,
		"Demanda":   r.Demanda,
	}
}

func ToRecordSet(rows []Row) internal.RecordSet {
	set := internal.RecordSet{Columns: append([]string(nil), Columns...), Records: make([]internal.Record, 0, len(rows))}
	for _, r := range rows {
		set.Records = append(set.Records, r.Record())
	}
	return set
}

// SplitPeriod turns "20251" into year "2025" and semester "1".
func SplitPeriod(period string) (string, string, error) {
	period = strings.TrimSpace(period)
	if len(period) < 5 {
		return "", "", fmt.Errorf("invalid period %q", period)
	}
	return period[:4], period[4:5], nil
}

func optionValues(html, selector string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	var out []string
	doc.Find(selector + " option").Each(func(_ int, s *goquery.Selection) {
		if v := strings.TrimSpace(s.AttrOr("value", "")); v != "" {
			out = append(out, v)
		}
	})
	return out, nil
}

// DropPlaceholder removes the first listed period, which the site uses as a
// "Selecione..." entry carrying a value.
func DropPlaceholder(values []string) []string {
	if len(values) == 0 {
		return values
	}
	return append([]string(nil), values[1:]...)
}

func ParsePeriods(html string) ([]string, error) {
	values, err := optionValues(html, PeriodSelector)
	if err != nil {
		return nil, err
	}
	return DropPlaceholder(values), nil
}

func ParseUnits(html string) ([]string, error) {
	return optionValues(html, UnitSelector)
}

// ParseTable reads the result table. Only rows with exactly five cells are
// data rows; everything else (header, totals) is skipped.
func ParseTable(html, period, unit string) ([]Row, error) {
	ano, semestre, err := SplitPeriod(period)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	table := doc.Find(TableSelector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("result table not found for %s/%s", period, unit)
	}

	unitUpper := strings.ToUpper(unit)
	var rows []Row
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() != 5 {
			return
		}
		cell := func(i int) string {
			return strings.ToUpper(strings.TrimSpace(tds.Eq(i).Text()))
		}
		rows = append(rows, Row{
			Ano:       ano,
			Semestre:  semestre,
			Unidade:   unitUpper,
			Curso:     cell(0),
			Periodo:   cell(1),
			Inscritos: cell(2),
			Vagas:     cell(3),
			Demanda:   cell(4),
		})
	})
	return rows, nil
}
