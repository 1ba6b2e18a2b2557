// Package notices downloads and shapes the open teaching-position notices sheet.
package notices

import (
	"fmt"
	"time"

	"fatecdata/internal"
	"fatecdata/internal/util"
)

const (
	ColNumber     = "Edital No"
	ColUnit       = "Fatec"
	ColCourse     = "Curso"
	ColDiscipline = "Disciplina"
	ColArea       = "Área da disciplina"
	ColTerm       = "Determinado ou indeterminado"
	ColPeriod     = "Período"
	ColOpening    = "Data abertura"
	ColDeadline   = "Data limite"
	ColNoticeURL  = "Edital"
	ColFormURL    = "Ficha"
	ColTableURL   = "Tabela"
)

// Columns is the canonical header, in sheet order.
var Columns = []string{
	ColNumber, ColUnit, ColCourse, ColDiscipline, ColArea, ColTerm,
	ColPeriod, ColOpening, ColDeadline, ColNoticeURL, ColFormURL, ColTableURL,
}

type ColumnCountError struct {
	Got  int
	Want int
}

func (e *ColumnCountError) Error() string {
	return fmt.Sprintf("notices sheet has %d columns, want %d", e.Got, e.Want)
}

// Rename relabels the sheet columns positionally with the canonical header.
func Rename(set internal.RecordSet) (internal.RecordSet, error) {
	if len(set.Columns) != len(Columns) {
		return internal.RecordSet{}, &ColumnCountError{Got: len(set.Columns), Want: len(Columns)}
	}
	out := internal.RecordSet{Columns: append([]string(nil), Columns...), Records: make([]internal.Record, 0, len(set.Records))}
	for _, rec := range set.Records {
		renamed := make(internal.Record, len(Columns))
		for i, src := range set.Columns {
			renamed[Columns[i]] = rec[src]
		}
		out.Records = append(out.Records, renamed)
	}
	return out, nil
}

type Notice struct {
	Number     string
	Unit       string
	Course     string
	Discipline string
	Area       string
	Term       string
	Period     string
	Opening    time.Time
	Deadline   time.Time
	NoticeURL  string
	FormURL    string
	TableURL   string
}

// FromRecord builds a typed notice; unparseable dates stay zero.
func FromRecord(rec internal.Record) Notice {
	opening, _ := util.ParseDate(rec[ColOpening], nil)
	deadline, _ := util.ParseDate(rec[ColDeadline], nil)
	return Notice{
		Number:     util.NormalizeSpace(rec[ColNumber]),
		Unit:       util.NormalizeSpace(rec[ColUnit]),
		Course:     util.NormalizeSpace(rec[ColCourse]),
		Discipline: util.NormalizeSpace(rec[ColDiscipline]),
		Area:       util.NormalizeSpace(rec[ColArea]),
		Term:       util.NormalizeSpace(rec[ColTerm]),
		Period:     util.NormalizeSpace(rec[ColPeriod]),
		Opening:    opening,
		Deadline:   deadline,
		NoticeURL:  util.NormalizeSpace(rec[ColNoticeURL]),
		FormURL:    util.NormalizeSpace(rec[ColFormURL]),
		TableURL:   util.NormalizeSpace(rec[ColTableURL]),
	}
}

func FromRecordSet(set internal.RecordSet) []Notice {
	out := make([]Notice, 0, len(set.Records))
	for _, rec := range set.Records {
		out = append(out, FromRecord(rec))
	}
	return out
}
